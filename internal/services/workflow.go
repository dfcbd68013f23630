package services

import (
	"context"

	"github.com/kovin-ide/kovin/internal/apperr"
	"github.com/kovin-ide/kovin/internal/models"
	"github.com/rs/zerolog"
)

// Assistant messages written to a project's transcript
const (
	MsgGenerating     = "Generating your smart contract... This may take a moment."
	MsgGenerated      = "Your project is ready! Check the files on the left."
	MsgGenerateFailed = "Generation failed: "
	MsgModified       = "I've applied your changes to the files."
	MsgModifyFailed   = "An error occurred: "
)

// Workflow runs the multi-store steps of creating, generating, modifying
// and deleting a project. The generation step is recorded on the project so
// a failed or interrupted run stays visible.
type Workflow struct {
	projects *ProjectStore
	files    *FileStore
	log      zerolog.Logger
}

// NewWorkflow creates a new workflow
func NewWorkflow(projects *ProjectStore, files *FileStore, log zerolog.Logger) *Workflow {
	return &Workflow{
		projects: projects,
		files:    files,
		log:      log.With().Str("component", "workflow").Logger(),
	}
}

// CreateProject creates a project for an idea and generates its files. The
// project is returned even when generation fails.
func (w *Workflow) CreateProject(ctx context.Context, idea string) (models.Project, error) {
	project := w.projects.AddProject(idea)
	w.log.Info().Str("project_id", project.ID).Str("title", project.Title).Msg("project created")

	err := w.generate(ctx, project.ID, idea)
	if p := w.projects.Project(project.ID); p != nil {
		project = *p
	}
	return project, err
}

// Regenerate runs generation again for an existing project
func (w *Workflow) Regenerate(ctx context.Context, projectID string) error {
	project := w.projects.Project(projectID)
	if project == nil {
		return apperr.New(apperr.CodeNotFound, "project %s not found", projectID)
	}
	return w.generate(ctx, projectID, project.Idea)
}

func (w *Workflow) generate(ctx context.Context, projectID, idea string) error {
	w.projects.SetGeneration(projectID, models.GenerationGenerating, "")
	w.projects.AddChatMessage(projectID, models.ChatMessage{Role: models.RoleAssistant, Content: MsgGenerating})

	err := w.files.FetchProjectFiles(ctx, projectID, idea)
	switch {
	case apperr.Is(err, apperr.CodeSuperseded):
		// the newer run records the outcome
		return err
	case err != nil:
		w.log.Error().Err(err).Str("project_id", projectID).Msg("generation failed")
		w.projects.SetGeneration(projectID, models.GenerationFailed, err.Error())
		w.projects.AddChatMessage(projectID, models.ChatMessage{Role: models.RoleAssistant, Content: MsgGenerateFailed + err.Error()})
		return err
	}

	w.projects.SetGeneration(projectID, models.GenerationGenerated, "")
	if err := w.projects.SetProjectStatus(projectID, models.ProjectStatusReady); err != nil {
		return err
	}
	w.projects.AddChatMessage(projectID, models.ChatMessage{Role: models.RoleAssistant, Content: MsgGenerated})
	w.log.Info().Str("project_id", projectID).Int("files", len(w.files.ProjectFiles(projectID))).Msg("generation finished")
	return nil
}

// Modify applies a follow-up prompt to a generated project
func (w *Workflow) Modify(ctx context.Context, projectID, prompt, selectedFile string) error {
	if w.projects.Project(projectID) == nil {
		return apperr.New(apperr.CodeNotFound, "project %s not found", projectID)
	}
	if prompt == "" {
		return apperr.New(apperr.CodeInvalidArgument, "prompt is required")
	}

	if w.files.ArtifactID(projectID) == "" {
		w.projects.AddChatMessage(projectID, models.ChatMessage{
			Role:    models.RoleAssistant,
			Content: "Error: " + MissingArtifactMessage,
		})
		return apperr.New(apperr.CodeMissingArtifact, MissingArtifactMessage)
	}

	w.projects.AddChatMessage(projectID, models.ChatMessage{Role: models.RoleUser, Content: prompt})

	err := w.files.ModifyProjectFiles(ctx, projectID, prompt, selectedFile)
	switch {
	case apperr.Is(err, apperr.CodeSuperseded):
		return err
	case err != nil:
		w.log.Error().Err(err).Str("project_id", projectID).Msg("modification failed")
		w.projects.AddChatMessage(projectID, models.ChatMessage{Role: models.RoleAssistant, Content: MsgModifyFailed + err.Error()})
		return err
	}

	w.projects.AddChatMessage(projectID, models.ChatMessage{Role: models.RoleAssistant, Content: MsgModified})
	return nil
}

// DeleteProject removes a project together with its transcript and files
func (w *Workflow) DeleteProject(projectID string) bool {
	w.files.ClearProjectFiles(projectID)
	deleted := w.projects.DeleteProject(projectID)
	if deleted {
		w.log.Info().Str("project_id", projectID).Msg("project deleted")
	}
	return deleted
}
