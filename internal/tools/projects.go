package tools

import (
	"context"
	"fmt"

	"github.com/kovin-ide/kovin/internal/models"
	"github.com/kovin-ide/kovin/internal/services"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectTools holds references needed by project tool handlers.
type ProjectTools struct {
	Projects *services.ProjectStore
	Workflow *services.Workflow
}

// --- Input types ---

type CreateProjectInput struct {
	Idea string `json:"idea" jsonschema:"Plain-language description of the smart contract to generate"`
}

type ModifyProjectInput struct {
	ProjectID    string `json:"project_id" jsonschema:"ID of the project to modify"`
	Prompt       string `json:"prompt" jsonschema:"The change to apply to the generated files"`
	SelectedFile string `json:"selected_file,omitempty" jsonschema:"Optional path of the file the change focuses on"`
}

type DeleteProjectInput struct {
	ProjectID string `json:"project_id" jsonschema:"ID of the project to delete"`
}

type projectSummary struct {
	models.Project
	Active bool `json:"active"`
}

// --- Handlers ---

func (t *ProjectTools) ListProjects(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	active := t.Projects.ActiveProject()

	projects := t.Projects.Projects()
	out := make([]projectSummary, len(projects))
	for i, p := range projects {
		out[i] = projectSummary{Project: p, Active: active != nil && *active == p.ID}
	}
	return toolJSON(out)
}

func (t *ProjectTools) CreateProject(ctx context.Context, _ *mcp.CallToolRequest, input CreateProjectInput) (*mcp.CallToolResult, any, error) {
	project, err := t.Workflow.CreateProject(ctx, input.Idea)
	if err != nil {
		return toolError("Project %s created but generation failed: %v", project.ID, err), nil, nil
	}
	return toolJSON(project)
}

func (t *ProjectTools) ModifyProject(ctx context.Context, _ *mcp.CallToolRequest, input ModifyProjectInput) (*mcp.CallToolResult, any, error) {
	if input.ProjectID == "" {
		return toolError("project_id is required"), nil, nil
	}

	if err := t.Workflow.Modify(ctx, input.ProjectID, input.Prompt, input.SelectedFile); err != nil {
		return toolFailure("modify project", err), nil, nil
	}
	return toolText(services.MsgModified), nil, nil
}

func (t *ProjectTools) DeleteProject(_ context.Context, _ *mcp.CallToolRequest, input DeleteProjectInput) (*mcp.CallToolResult, any, error) {
	if input.ProjectID == "" {
		return toolError("project_id is required"), nil, nil
	}

	if !t.Workflow.DeleteProject(input.ProjectID) {
		return toolError("Project %s not found", input.ProjectID), nil, nil
	}
	return toolText(fmt.Sprintf("Project %s deleted", input.ProjectID)), nil, nil
}
