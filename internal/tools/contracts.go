package tools

import (
	"context"

	"github.com/kovin-ide/kovin/internal/services"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ContractTools holds references needed by compiler tool handlers.
type ContractTools struct {
	Compiler *services.CompilerService
}

type CompileContractInput struct {
	ProjectID string `json:"project_id" jsonschema:"ID of the project"`
	Path      string `json:"path" jsonschema:"Path of the Solidity file to compile"`
	Version   string `json:"version,omitempty" jsonschema:"Optional solc version; defaults to the project's metadata"`
}

func (t *ContractTools) CompileContract(ctx context.Context, _ *mcp.CallToolRequest, input CompileContractInput) (*mcp.CallToolResult, any, error) {
	result, err := t.Compiler.Compile(ctx, input.ProjectID, input.Path, input.Version)
	if err != nil {
		return toolFailure("compile", err), nil, nil
	}
	return toolJSON(result)
}
