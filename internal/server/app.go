// Package server assembles the stores and exposes them over HTTP and MCP.
package server

import (
	"github.com/kovin-ide/kovin/internal/config"
	"github.com/kovin-ide/kovin/internal/events"
	"github.com/kovin-ide/kovin/internal/services"
	"github.com/kovin-ide/kovin/internal/storage"
	"github.com/rs/zerolog"
)

// Backend is everything the stores need from the remote backend
type Backend interface {
	services.ArtifactClient
	services.SessionClient
	services.CompilerClient
}

// App holds the stores and services shared by every surface
type App struct {
	Bus      *events.Bus
	Projects *services.ProjectStore
	Files    *services.FileStore
	Accounts *services.AccountStore
	Terminal *services.TerminalStore
	Auth     *services.AuthStore
	Compiler *services.CompilerService
	Deployer *services.DeployService
	Workflow *services.Workflow
}

// NewApp constructs every store once, restoring their snapshots from snap
func NewApp(cfg *config.Config, client Backend, snap storage.Snapshotter, log zerolog.Logger) *App {
	bus := events.NewBus(0)

	projects := services.NewProjectStore(snap, bus, log)
	files := services.NewFileStore(client, snap, bus, log)
	accounts := services.NewAccountStore(snap, bus, log)
	terminal := services.NewTerminalStore(snap, bus, log)

	return &App{
		Bus:      bus,
		Projects: projects,
		Files:    files,
		Accounts: accounts,
		Terminal: terminal,
		Auth:     services.NewAuthStore(client, snap, bus, log),
		Compiler: services.NewCompilerService(client, files, terminal, &cfg.Compiler, log),
		Deployer: services.NewDeployService(files, accounts, terminal, &cfg.Network, log),
		Workflow: services.NewWorkflow(projects, files, log),
	}
}
