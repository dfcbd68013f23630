package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kovin-ide/kovin/internal/filetree"
	"github.com/kovin-ide/kovin/internal/storage"
	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <idea>",
		Short: "Create a project from an idea and print its file tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer rt.Close()

			idea := strings.Join(args, " ")
			project, err := rt.app.Workflow.CreateProject(cmd.Context(), idea)
			if err != nil {
				return fmt.Errorf("failed to generate project %s: %w", project.ID, err)
			}

			fmt.Printf("Project: %s (%s)\n", project.Title, project.ID)
			fmt.Printf("Artifact: %s\n\n", rt.app.Files.ArtifactID(project.ID))
			fmt.Print(filetree.Render(rt.app.Files.FileTree(project.ID)))
			return nil
		},
	}
}

func projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List persisted projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer rt.Close()

			projects := rt.app.Projects.Projects()
			fmt.Printf("Projects (%d total):\n", len(projects))
			fmt.Printf("%-36s %-10s %-10s %-6s %-20s %s\n", "ID", "STATUS", "STEP", "FILES", "CREATED", "TITLE")
			fmt.Println(strings.Repeat("-", 110))
			for _, p := range projects {
				created := time.UnixMilli(p.CreatedAt).Format("2006-01-02 15:04:05")
				files := len(rt.app.Files.ProjectFiles(p.ID))
				fmt.Printf("%-36s %-10s %-10s %-6d %-20s %s\n", p.ID, p.Status, p.Generation, files, created, p.Title)
			}
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(os.Stderr)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != "postgres" {
				log.Warn().Str("driver", cfg.Storage.Driver).Msg("storage driver is not postgres; migrating anyway")
			}

			if err := storage.MigratePostgres(cfg.Storage.Postgres.DatabaseURL()); err != nil {
				return err
			}
			fmt.Println("Migrations applied")
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			backendURL, _ := cmd.Flags().GetString("backend-url")
			driver, _ := cmd.Flags().GetString("storage")
			force, _ := cmd.Flags().GetBool("force")

			path := configPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}

			cfg := defaultConfigFor(backendURL, driver)
			if err := cfg.Save(path); err != nil {
				return err
			}

			fmt.Printf("Config saved to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().String("backend-url", "http://localhost:8000", "AI backend base URL")
	cmd.Flags().String("storage", "sqlite", "Storage driver: sqlite, postgres or memory")
	cmd.Flags().Bool("force", false, "Overwrite an existing config file")

	return cmd
}
