package services

import (
	"context"
	"fmt"
	"path"
	"sort"

	"github.com/kovin-ide/kovin/internal/apperr"
	"github.com/kovin-ide/kovin/internal/backend"
	"github.com/kovin-ide/kovin/internal/config"
	"github.com/kovin-ide/kovin/internal/models"
	"github.com/rs/zerolog"
)

// CompilerClient is the part of the backend the compiler service talks to
type CompilerClient interface {
	Compile(ctx context.Context, req backend.CompileRequest) (*backend.CompileResponse, error)
}

// CompileResult is the bucketed outcome of one compilation
type CompileResult struct {
	FileName      string                    `json:"fileName"`
	Version       string                    `json:"version"`
	Errors        []backend.CompilerMessage `json:"errors"`
	Warnings      []backend.CompilerMessage `json:"warnings"`
	Info          []backend.CompilerMessage `json:"info"`
	Success       bool                      `json:"success"`
	ContractCount int                       `json:"contractCount"`
	Contracts     []models.CompiledContract `json:"contracts"`
}

// CompilerService compiles one project file through the remote compiler and
// records the resulting contracts in the file store.
type CompilerService struct {
	client   CompilerClient
	files    *FileStore
	terminal *TerminalStore
	cfg      config.CompilerConfig
	log      zerolog.Logger
}

// NewCompilerService creates a new compiler service
func NewCompilerService(client CompilerClient, files *FileStore, terminal *TerminalStore, cfg *config.CompilerConfig, log zerolog.Logger) *CompilerService {
	return &CompilerService{
		client:   client,
		files:    files,
		terminal: terminal,
		cfg:      *cfg,
		log:      log.With().Str("component", "compiler").Logger(),
	}
}

// Compile compiles filePath of a project. An empty version falls back to
// the project's metadata and then to the configured default.
func (s *CompilerService) Compile(ctx context.Context, projectID, filePath, version string) (*CompileResult, error) {
	if projectID == "" {
		return nil, apperr.New(apperr.CodePrecondition, "No project selected")
	}
	if filePath == "" {
		return nil, apperr.New(apperr.CodePrecondition, "No file selected")
	}

	artifactID := s.files.ArtifactID(projectID)
	if artifactID == "" {
		return nil, apperr.New(apperr.CodeMissingArtifact, MissingArtifactMessage)
	}

	file := s.files.FileByPath(projectID, filePath)
	if file == nil {
		return nil, apperr.New(apperr.CodeNotFound, "The selected file could not be found in the project.")
	}

	version = s.resolveVersion(projectID, version)
	fileName := path.Base(filePath)

	s.terminal.AddLog(fmt.Sprintf("Compiling %s with solc %s...", filePath, version), models.LogInfo)

	resp, err := s.client.Compile(ctx, backend.CompileRequest{
		Version:    version,
		Sources:    map[string]string{fileName: file.Content},
		ArtifactID: artifactID,
		Settings: backend.CompileSettings{
			Optimizer: backend.OptimizerSettings{Enabled: true, Runs: s.cfg.OptimizerRuns},
			OutputSelection: map[string]map[string][]string{
				"*": {"*": {"abi", "evm.bytecode", "evm.deployedBytecode"}},
			},
		},
	})
	if err != nil {
		s.log.Error().Err(err).Str("project_id", projectID).Str("file", filePath).Msg("compilation request failed")
		s.terminal.AddLog("Compilation failed: "+err.Error(), models.LogError)
		return nil, err
	}

	result := &CompileResult{
		FileName:  filePath,
		Version:   version,
		Errors:    []backend.CompilerMessage{},
		Warnings:  []backend.CompilerMessage{},
		Info:      []backend.CompilerMessage{},
		Contracts: []models.CompiledContract{},
	}

	for _, msg := range resp.Errors {
		switch msg.Severity {
		case "error":
			result.Errors = append(result.Errors, msg)
		case "warning":
			result.Warnings = append(result.Warnings, msg)
		default:
			result.Info = append(result.Info, msg)
		}
	}

	fileContracts := resp.Contracts[fileName]
	names := make([]string, 0, len(fileContracts))
	for name := range fileContracts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		out := fileContracts[name]
		if len(out.ABI) == 0 || out.EVM == nil || out.EVM.Bytecode == nil || out.EVM.Bytecode.Object == "" {
			continue
		}
		contract := models.CompiledContract{
			FileName:     filePath,
			ContractName: name,
			ABI:          out.ABI,
			Bytecode:     out.EVM.Bytecode.Object,
		}
		if out.EVM.DeployedBytecode != nil {
			contract.DeployedBytecode = out.EVM.DeployedBytecode.Object
		}
		result.Contracts = append(result.Contracts, contract)
	}
	if err := s.files.ReplaceCompiledContracts(projectID, filePath, file.Content, result.Contracts); err != nil {
		s.terminal.AddLog("Compilation discarded: "+filePath+" changed while compiling", models.LogWarning)
		return nil, err
	}

	result.ContractCount = len(result.Contracts)
	result.Success = len(result.Errors) == 0 && result.ContractCount > 0

	switch {
	case len(result.Errors) > 0:
		s.terminal.AddLog(fmt.Sprintf("Compilation failed: found %d error(s)", len(result.Errors)), models.LogError)
	case result.ContractCount > 0:
		s.terminal.AddLog(fmt.Sprintf("Successfully compiled %d contract(s)", result.ContractCount), models.LogSuccess)
	default:
		s.terminal.AddLog("No contracts were compiled", models.LogWarning)
	}

	s.log.Info().
		Str("project_id", projectID).
		Str("file", filePath).
		Int("errors", len(result.Errors)).
		Int("warnings", len(result.Warnings)).
		Int("contracts", result.ContractCount).
		Msg("compilation finished")

	return result, nil
}

func (s *CompilerService) resolveVersion(projectID, version string) string {
	if version != "" {
		return version
	}
	if meta := s.files.ProjectMetadata(projectID); meta != nil && meta.SolidityVersion != "" {
		return meta.SolidityVersion
	}
	return s.cfg.DefaultVersion
}
