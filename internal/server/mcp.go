package server

import (
	"github.com/kovin-ide/kovin/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported by the MCP server and the CLI
const Version = "0.1.0"

// NewMCPServer creates an MCP server with every tool registered over app
func NewMCPServer(app *App) *mcp.Server {
	pt := &tools.ProjectTools{Projects: app.Projects, Workflow: app.Workflow}
	ft := &tools.FileTools{Files: app.Files}
	ct := &tools.ContractTools{Compiler: app.Compiler}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "kovin",
		Version: Version,
	}, nil)

	// Project tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_projects",
		Description: "List all projects, newest first, marking the active one",
	}, pt.ListProjects)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_project",
		Description: "Create a project from an idea and generate its smart-contract files",
	}, pt.CreateProject)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "modify_project",
		Description: "Apply a follow-up prompt to a generated project's files",
	}, pt.ModifyProject)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project with its chat transcript and files",
	}, pt.DeleteProject)

	// File tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_file_tree",
		Description: "Show a project's files as an indented tree",
	}, ft.GetFileTree)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "read_file",
		Description: "Read one file of a project",
	}, ft.ReadFile)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "write_file",
		Description: "Write one file of a project, creating it if needed",
	}, ft.WriteFile)

	// Compiler tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "compile_contract",
		Description: "Compile a Solidity file of a generated project",
	}, ct.CompileContract)

	return srv
}
