package services

import (
	"context"
	"sync"

	"github.com/kovin-ide/kovin/internal/backend"
	"github.com/kovin-ide/kovin/internal/models"
)

// fakeBackend implements every backend interface the services consume and
// counts the calls it receives.
type fakeBackend struct {
	mu     sync.Mutex
	calls  map[string]int
	cookie string

	generate func(ctx context.Context, req backend.GenerateRequest) (*backend.GenerateResponse, error)
	modify   func(ctx context.Context, req backend.ModifyRequest) (*backend.ModifyResponse, error)
	artifact func(ctx context.Context, artifactID string) (*backend.ArtifactResponse, error)
	addFile  func(ctx context.Context, req backend.AddFileRequest) (*backend.AddFileResponse, error)
	compile  func(ctx context.Context, req backend.CompileRequest) (*backend.CompileResponse, error)
	user     func(ctx context.Context) (*backend.UserResponse, error)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeBackend) Generate(ctx context.Context, req backend.GenerateRequest) (*backend.GenerateResponse, error) {
	f.record("generate")
	if f.generate != nil {
		return f.generate(ctx, req)
	}
	return generated("art-1", models.BackendFile{Path: "contracts/MyToken.sol", Content: "// code", SHA256: "abc"}), nil
}

func (f *fakeBackend) Modify(ctx context.Context, req backend.ModifyRequest) (*backend.ModifyResponse, error) {
	f.record("modify")
	if f.modify != nil {
		return f.modify(ctx, req)
	}
	return &backend.ModifyResponse{OK: true, Artifact: &backend.Artifact{
		ID:    req.ArtifactID,
		Files: []models.BackendFile{{Path: "contracts/MyToken.sol", Content: "// modified", SHA256: "def"}},
	}}, nil
}

func (f *fakeBackend) GetArtifact(ctx context.Context, artifactID string) (*backend.ArtifactResponse, error) {
	f.record("artifact")
	if f.artifact != nil {
		return f.artifact(ctx, artifactID)
	}
	return &backend.ArtifactResponse{OK: true, Artifact: &backend.Artifact{
		ID:    artifactID,
		Files: []models.BackendFile{{Path: "contracts/MyToken.sol", Content: "// remote", SHA256: "r1"}},
	}}, nil
}

func (f *fakeBackend) AddFile(ctx context.Context, req backend.AddFileRequest) (*backend.AddFileResponse, error) {
	f.record("add_file")
	if f.addFile != nil {
		return f.addFile(ctx, req)
	}
	return &backend.AddFileResponse{OK: true, File: &models.BackendFile{Path: req.FileName, Content: req.Content}, TotalFiles: 2}, nil
}

func (f *fakeBackend) Compile(ctx context.Context, req backend.CompileRequest) (*backend.CompileResponse, error) {
	f.record("compile")
	if f.compile != nil {
		return f.compile(ctx, req)
	}
	return &backend.CompileResponse{}, nil
}

func (f *fakeBackend) CurrentUser(ctx context.Context) (*backend.UserResponse, error) {
	f.record("user")
	if f.user != nil {
		return f.user(ctx)
	}
	return &backend.UserResponse{}, nil
}

func (f *fakeBackend) SetSessionCookie(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cookie = value
}

func (f *fakeBackend) LoginURL() string  { return "http://backend.test/login" }
func (f *fakeBackend) LogoutURL() string { return "http://backend.test/logout" }

func generated(artifactID string, files ...models.BackendFile) *backend.GenerateResponse {
	return &backend.GenerateResponse{
		OK:         true,
		ArtifactID: artifactID,
		Files:      files,
		Metadata:   &models.ProjectMetadata{SolidityVersion: "0.8.24", License: "MIT"},
	}
}
