package backend

import (
	"encoding/json"

	"github.com/kovin-ide/kovin/internal/apperr"
	"github.com/kovin-ide/kovin/internal/models"
)

// GenerateRequest represents a project generation request
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse is the generate endpoint payload. It is also the shape
// accepted when files are pushed into a project wholesale.
type GenerateResponse struct {
	OK         bool                    `json:"ok"`
	ArtifactID string                  `json:"artifactId"`
	Files      []models.BackendFile    `json:"files"`
	Metadata   *models.ProjectMetadata `json:"metadata"`
	Error      string                  `json:"error,omitempty"`
}

// Validate checks the payload before it is applied to a store
func (r *GenerateResponse) Validate() error {
	if r == nil {
		return apperr.New(apperr.CodeMalformedResponse, "empty response")
	}
	if !r.OK {
		if r.Error != "" {
			return apperr.New(apperr.CodeMalformedResponse, "backend reported failure: %s", r.Error)
		}
		return apperr.New(apperr.CodeMalformedResponse, "response is not ok")
	}
	if r.Files == nil {
		return apperr.New(apperr.CodeMalformedResponse, "response has no files")
	}
	if r.ArtifactID == "" {
		return apperr.New(apperr.CodeMalformedResponse, "response has no artifact id")
	}
	return validateFiles(r.Files)
}

// ModifyRequest represents an artifact modification request
type ModifyRequest struct {
	ArtifactID   string `json:"artifactId"`
	Prompt       string `json:"prompt"`
	SelectedFile string `json:"selectedFile,omitempty"`
}

// Artifact is the backend's bundle of generated files
type Artifact struct {
	ID       string                  `json:"_id"`
	Files    []models.BackendFile    `json:"files"`
	Metadata *models.ProjectMetadata `json:"metadata"`
}

// ModifyResponse is the modify endpoint payload
type ModifyResponse struct {
	OK       bool      `json:"ok"`
	Artifact *Artifact `json:"artifact"`
	Error    string    `json:"error,omitempty"`
}

// Validate checks the payload before it is applied to a store
func (r *ModifyResponse) Validate() error {
	if r == nil || !r.OK {
		return apperr.New(apperr.CodeMalformedResponse, "modify response is not ok")
	}
	if r.Artifact == nil || r.Artifact.Files == nil {
		return apperr.New(apperr.CodeMalformedResponse, "modify response has no artifact files")
	}
	return validateFiles(r.Artifact.Files)
}

// ArtifactResponse is the artifact snapshot payload
type ArtifactResponse struct {
	OK       bool      `json:"ok"`
	Artifact *Artifact `json:"artifact"`
}

// ToGenerateResponse converts an artifact snapshot into the shape applied
// by the file store, filling metadata defaults the snapshot may omit.
func (r *ArtifactResponse) ToGenerateResponse() *GenerateResponse {
	if r == nil || !r.OK || r.Artifact == nil {
		return &GenerateResponse{}
	}
	meta := DefaultMetadata()
	if m := r.Artifact.Metadata; m != nil {
		if m.SolidityVersion != "" {
			meta.SolidityVersion = m.SolidityVersion
		}
		if m.License != "" {
			meta.License = m.License
		}
		if m.TestFramework != "" {
			meta.TestFramework = m.TestFramework
		}
		if m.MainContracts != nil {
			meta.MainContracts = m.MainContracts
		}
		if m.VulnerabilitiesToCheck != nil {
			meta.VulnerabilitiesToCheck = m.VulnerabilitiesToCheck
		}
		if m.RecommendedCompileCmds != nil {
			meta.RecommendedCompileCmds = m.RecommendedCompileCmds
		}
		if m.Dependencies.Solidity != nil {
			meta.Dependencies.Solidity = m.Dependencies.Solidity
		}
		if m.Dependencies.JavaScript != nil {
			meta.Dependencies.JavaScript = m.Dependencies.JavaScript
		}
		meta.Notes = m.Notes
	}
	return &GenerateResponse{
		OK:         true,
		ArtifactID: r.Artifact.ID,
		Files:      r.Artifact.Files,
		Metadata:   meta,
	}
}

// DefaultMetadata returns the metadata assumed when an artifact has none
func DefaultMetadata() *models.ProjectMetadata {
	return &models.ProjectMetadata{
		SolidityVersion:        "0.8.20",
		License:                "MIT",
		TestFramework:          "foundry",
		MainContracts:          []string{},
		VulnerabilitiesToCheck: []string{},
		RecommendedCompileCmds: []string{},
		Dependencies: models.Dependencies{
			Solidity:   []string{},
			JavaScript: []string{},
		},
	}
}

// AddFileRequest represents a remote file creation request
type AddFileRequest struct {
	ArtifactID string `json:"artifactId"`
	FileName   string `json:"fileName"`
	Content    string `json:"content"`
}

// AddFileResponse echoes the created file
type AddFileResponse struct {
	OK         bool                `json:"ok"`
	File       *models.BackendFile `json:"file"`
	TotalFiles int                 `json:"totalFiles"`
	Error      string              `json:"error,omitempty"`
}

// OptimizerSettings configures the solc optimizer
type OptimizerSettings struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs"`
}

// CompileSettings mirrors the solc standard-json settings the backend accepts
type CompileSettings struct {
	Optimizer       OptimizerSettings              `json:"optimizer"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

// CompileRequest represents a compilation request
type CompileRequest struct {
	Version    string            `json:"version"`
	Sources    map[string]string `json:"sources"`
	Settings   CompileSettings   `json:"settings"`
	ArtifactID string            `json:"artifactId"`
}

// CompilerMessage is one diagnostic emitted by the compiler
type CompilerMessage struct {
	Component        string `json:"component,omitempty"`
	Severity         string `json:"severity"`
	Message          string `json:"message"`
	FormattedMessage string `json:"formattedMessage,omitempty"`
	Type             string `json:"type,omitempty"`
}

// BytecodeObject holds hex bytecode
type BytecodeObject struct {
	Object string `json:"object"`
}

// EVMOutput holds the evm section of a compiled contract
type EVMOutput struct {
	Bytecode         *BytecodeObject `json:"bytecode"`
	DeployedBytecode *BytecodeObject `json:"deployedBytecode"`
}

// ContractOutput is the compiler output for one contract
type ContractOutput struct {
	ABI json.RawMessage `json:"abi"`
	EVM *EVMOutput      `json:"evm"`
}

// CompileResponse is the compiler payload: file name -> contract name -> output
type CompileResponse struct {
	Errors    []CompilerMessage                    `json:"errors,omitempty"`
	Contracts map[string]map[string]ContractOutput `json:"contracts,omitempty"`
}

// UserResponse is the session check payload
type UserResponse struct {
	Authenticated bool                `json:"authenticated"`
	User          *models.UserAccount `json:"user"`
}

func validateFiles(files []models.BackendFile) error {
	for i, f := range files {
		if f.Path == "" {
			return apperr.New(apperr.CodeMalformedResponse, "file %d has an empty path", i)
		}
	}
	return nil
}
