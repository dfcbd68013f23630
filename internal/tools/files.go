package tools

import (
	"context"

	"github.com/kovin-ide/kovin/internal/filetree"
	"github.com/kovin-ide/kovin/internal/services"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FileTools holds references needed by file tool handlers.
type FileTools struct {
	Files *services.FileStore
}

type FileTreeInput struct {
	ProjectID string `json:"project_id" jsonschema:"ID of the project"`
}

type ReadFileInput struct {
	ProjectID string `json:"project_id" jsonschema:"ID of the project"`
	Path      string `json:"path" jsonschema:"Full path of the file, e.g. contracts/MyToken.sol"`
}

type WriteFileInput struct {
	ProjectID string `json:"project_id" jsonschema:"ID of the project"`
	Path      string `json:"path" jsonschema:"Full path of the file"`
	Content   string `json:"content" jsonschema:"New file content"`
}

func (t *FileTools) GetFileTree(_ context.Context, _ *mcp.CallToolRequest, input FileTreeInput) (*mcp.CallToolResult, any, error) {
	tree := t.Files.FileTree(input.ProjectID)
	if tree == nil {
		return toolText("The project has no files."), nil, nil
	}
	return toolText(filetree.Render(tree)), nil, nil
}

func (t *FileTools) ReadFile(_ context.Context, _ *mcp.CallToolRequest, input ReadFileInput) (*mcp.CallToolResult, any, error) {
	file := t.Files.FileByPath(input.ProjectID, input.Path)
	if file == nil {
		return toolError("File %s not found in project %s", input.Path, input.ProjectID), nil, nil
	}
	return toolText(file.Content), nil, nil
}

// WriteFile updates a file, creating it when it does not exist yet
func (t *FileTools) WriteFile(_ context.Context, _ *mcp.CallToolRequest, input WriteFileInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return toolError("path is required"), nil, nil
	}

	if t.Files.UpdateFile(input.ProjectID, input.Path, input.Content) {
		return toolText("Updated " + input.Path), nil, nil
	}
	t.Files.AddFile(input.ProjectID, input.Path, input.Content)
	return toolText("Created " + input.Path), nil, nil
}
