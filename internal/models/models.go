package models

import (
	"encoding/json"
	"time"
)

// ProjectStatus is the user-facing lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusPublished ProjectStatus = "published"
	ProjectStatusReady     ProjectStatus = "ready"
)

// Valid reports whether s is a known status
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusPublished, ProjectStatusReady:
		return true
	}
	return false
}

// GenerationStep records how far file generation got for a project
type GenerationStep string

const (
	GenerationCreated    GenerationStep = "created"
	GenerationGenerating GenerationStep = "generating"
	GenerationGenerated  GenerationStep = "generated"
	GenerationFailed     GenerationStep = "failed"
)

// ActiveTab is the side panel currently shown by the dashboard
type ActiveTab string

const (
	TabChat     ActiveTab = "chat"
	TabSearch   ActiveTab = "search"
	TabCompiler ActiveTab = "compiler"
	TabDeploy   ActiveTab = "deploy"
)

// Valid reports whether t is a known tab
func (t ActiveTab) Valid() bool {
	switch t {
	case TabChat, TabSearch, TabCompiler, TabDeploy:
		return true
	}
	return false
}

// Project represents one idea and its generated smart-contract workspace
type Project struct {
	ID              string         `json:"id"`
	Idea            string         `json:"idea"`
	Title           string         `json:"title"`
	Status          ProjectStatus  `json:"status"`
	CreatedAt       int64          `json:"createdAt"`
	Generation      GenerationStep `json:"generation"`
	GenerationError string         `json:"generationError,omitempty"`
}

// ProjectUpdate holds a partial project update. Nil fields are left alone.
type ProjectUpdate struct {
	Idea   *string        `json:"idea,omitempty"`
	Title  *string        `json:"title,omitempty"`
	Status *ProjectStatus `json:"status,omitempty"`
}

// ChatRole identifies the author of a chat message
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
	RoleSystem    ChatRole = "system"
)

// ChatMessage is one entry of a project's append-only transcript
type ChatMessage struct {
	ID        string   `json:"id"`
	Role      ChatRole `json:"role"`
	Content   string   `json:"content"`
	Timestamp int64    `json:"timestamp"`
}

// BackendFile is one file of an artifact as the backend returns it.
// An empty SHA256 marks content that was edited locally.
type BackendFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	SHA256  string `json:"sha256"`
}

// Dependencies lists the package dependencies of a generated project
type Dependencies struct {
	Solidity   []string `json:"solidity"`
	JavaScript []string `json:"javascript"`
}

// ProjectMetadata describes the toolchain of a generated project
type ProjectMetadata struct {
	SolidityVersion        string       `json:"solidity_version"`
	License                string       `json:"license"`
	TestFramework          string       `json:"test_framework"`
	MainContracts          []string     `json:"main_contracts"`
	VulnerabilitiesToCheck []string     `json:"vulnerabilities_to_check"`
	RecommendedCompileCmds []string     `json:"recommended_compile_cmds"`
	Dependencies           Dependencies `json:"dependencies"`
	Notes                  string       `json:"notes"`
}

// NodeType distinguishes files from folders in a FileNode tree
type NodeType string

const (
	NodeFile   NodeType = "file"
	NodeFolder NodeType = "folder"
)

// FileNode is the hierarchical view derived from a flat file list
type FileNode struct {
	Name     string      `json:"name"`
	Type     NodeType    `json:"type"`
	Path     string      `json:"path"`
	Content  *string     `json:"content,omitempty"`
	SHA256   *string     `json:"sha256,omitempty"`
	Children []*FileNode `json:"children,omitempty"`
}

// CompiledContract is the compiler output for one contract of a file
type CompiledContract struct {
	FileName         string          `json:"fileName"`
	ContractName     string          `json:"contractName"`
	ABI              json.RawMessage `json:"abi"`
	Bytecode         string          `json:"bytecode"`
	DeployedBytecode string          `json:"deployedBytecode,omitempty"`
}

// DeployedContract is a receipt of a confirmed on-chain deployment
type DeployedContract struct {
	ID              string          `json:"id"`
	Address         string          `json:"address"`
	TransactionHash string          `json:"transactionHash"`
	NetworkName     string          `json:"networkName"`
	ChainID         int64           `json:"chainId"`
	Timestamp       int64           `json:"timestamp"`
	ABI             json.RawMessage `json:"abi"`
	Functions       []string        `json:"functions"`
}

// Account is the connected wallet as reported by the wallet collaborator
type Account struct {
	Address     *string `json:"address"`
	Avatar      *string `json:"avatar"`
	IsConnected bool    `json:"isConnected"`
	NetworkName *string `json:"networkName"`
	ChainID     *int64  `json:"chainId"`
}

// LogType is the severity of a terminal line
type LogType string

const (
	LogInfo    LogType = "info"
	LogSuccess LogType = "success"
	LogError   LogType = "error"
	LogWarning LogType = "warning"
)

// TerminalLog is one line of the activity feed
type TerminalLog struct {
	ID        string  `json:"id"`
	Message   string  `json:"message"`
	Timestamp int64   `json:"timestamp"`
	Type      LogType `json:"type,omitempty"`
}

// UserAccount is the signed-in user profile reported by the backend
type UserAccount struct {
	SID           string `json:"sid,omitempty"`
	GivenName     string `json:"given_name,omitempty"`
	FamilyName    string `json:"family_name,omitempty"`
	Nickname      string `json:"nickname,omitempty"`
	Name          string `json:"name"`
	Picture       string `json:"picture,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Sub           string `json:"sub"`
}

// Selection is the single global editor selection pointer.
// A nil ProjectID with a non-nil FilePath refers to the sample project.
type Selection struct {
	ProjectID *string `json:"selectedProjectId"`
	FilePath  *string `json:"selectedFilePath"`
}

// NowMillis returns the current time in Unix milliseconds
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
