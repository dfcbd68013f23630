package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kovin-ide/kovin/internal/apperr"
	"github.com/kovin-ide/kovin/internal/backend"
	"github.com/kovin-ide/kovin/internal/events"
	"github.com/kovin-ide/kovin/internal/models"
	"github.com/kovin-ide/kovin/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, *fakeBackend) {
	t.Helper()
	fb := newFakeBackend()
	return NewFileStore(fb, storage.NewMemory(), events.NewBus(16), zerolog.Nop()), fb
}

func seedFiles(t *testing.T, s *FileStore, projectID string, files ...models.BackendFile) {
	t.Helper()
	require.NoError(t, s.SetProjectFiles(projectID, generated("art-"+projectID, files...)))
}

func TestFileStore_GenerateThenEdit(t *testing.T) {
	s, fb := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.FetchProjectFiles(ctx, "p1", "an ERC20 token"))
	assert.Equal(t, 1, fb.count("generate"))

	tree := s.FileTree("p1")
	require.NotNil(t, tree)
	assert.Equal(t, "contracts", tree.Name)
	assert.Equal(t, models.NodeFolder, tree.Type)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "MyToken.sol", tree.Children[0].Name)
	assert.Equal(t, "// code", *tree.Children[0].Content)

	require.True(t, s.UpdateFile("p1", "contracts/MyToken.sol", "// edited"))
	f := s.FileByPath("p1", "contracts/MyToken.sol")
	require.NotNil(t, f)
	assert.Equal(t, "// edited", f.Content)
	assert.Equal(t, "", f.SHA256)

	assert.Equal(t, "art-1", s.ArtifactID("p1"))
	assert.Equal(t, "0.8.24", s.ProjectMetadata("p1").SolidityVersion)
	assert.Empty(t, s.LastError())
	assert.False(t, s.IsLoading())
}

func TestFileStore_AddFile(t *testing.T) {
	s, _ := newTestFileStore(t)
	seedFiles(t, s, "p1", models.BackendFile{Path: "a.sol", Content: "original", SHA256: "h"})

	assert.True(t, s.AddFile("p1", "b.sol", "new content"))
	f := s.FileByPath("p1", "b.sol")
	require.NotNil(t, f)
	assert.Equal(t, "new content", f.Content)

	assert.False(t, s.AddFile("p1", "a.sol", "overwrite attempt"))
	assert.Len(t, s.ProjectFiles("p1"), 2)
	assert.Equal(t, "original", s.FileByPath("p1", "a.sol").Content)
}

func TestFileStore_UpdateFileLeavesOthersUntouched(t *testing.T) {
	s, _ := newTestFileStore(t)
	seedFiles(t, s, "p1",
		models.BackendFile{Path: "a.sol", Content: "a", SHA256: "ha"},
		models.BackendFile{Path: "b.sol", Content: "b", SHA256: "hb"},
	)

	require.True(t, s.UpdateFile("p1", "a.sol", "a2"))
	assert.Equal(t, models.BackendFile{Path: "b.sol", Content: "b", SHA256: "hb"}, *s.FileByPath("p1", "b.sol"))
	assert.Equal(t, models.BackendFile{Path: "a.sol", Content: "a2", SHA256: ""}, *s.FileByPath("p1", "a.sol"))

	assert.False(t, s.UpdateFile("p1", "missing.sol", "x"))
}

func TestFileStore_DeleteFileSelection(t *testing.T) {
	s, _ := newTestFileStore(t)
	seedFiles(t, s, "p1",
		models.BackendFile{Path: "a.sol", Content: "a"},
		models.BackendFile{Path: "b.sol", Content: "b"},
	)

	s.SetSelectedFile(models.StringPtr("p1"), models.StringPtr("a.sol"))

	assert.True(t, s.DeleteFile("p1", "b.sol"))
	require.NotNil(t, s.Selection().FilePath)
	assert.Equal(t, "a.sol", *s.Selection().FilePath)

	assert.True(t, s.DeleteFile("p1", "a.sol"))
	assert.Nil(t, s.Selection().FilePath)
	assert.Empty(t, s.ProjectFiles("p1"))

	assert.False(t, s.DeleteFile("p1", "never-existed.sol"))
}

func TestFileStore_LookupsOnUnknownProject(t *testing.T) {
	s, _ := newTestFileStore(t)

	assert.NotNil(t, s.ProjectFiles("nope"))
	assert.Empty(t, s.ProjectFiles("nope"))
	assert.Nil(t, s.ProjectMetadata("nope"))
	assert.Nil(t, s.FileByPath("nope", "a.sol"))
	assert.Nil(t, s.FileTree("nope"))
	assert.Equal(t, "", s.ArtifactID("nope"))
}

func TestFileStore_ModifyWithoutArtifactMakesNoCall(t *testing.T) {
	s, fb := newTestFileStore(t)
	require.True(t, s.AddFile("p1", "local.sol", "local"))
	before := s.ProjectFiles("p1")

	err := s.ModifyProjectFiles(context.Background(), "p1", "add a mint function", "")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeMissingArtifact, apperr.CodeOf(err))

	assert.Equal(t, 0, fb.total())
	assert.Equal(t, before, s.ProjectFiles("p1"))
	assert.Equal(t, MissingArtifactMessage, s.LastError())
}

func TestFileStore_ModifyKeepsArtifactID(t *testing.T) {
	s, fb := newTestFileStore(t)
	seedFiles(t, s, "p1", models.BackendFile{Path: "contracts/MyToken.sol", Content: "// code"})

	var got backend.ModifyRequest
	fb.modify = func(_ context.Context, req backend.ModifyRequest) (*backend.ModifyResponse, error) {
		got = req
		return &backend.ModifyResponse{OK: true, Artifact: &backend.Artifact{
			ID:    "ignored",
			Files: []models.BackendFile{{Path: "contracts/MyToken.sol", Content: "// v2", SHA256: "v2"}},
		}}, nil
	}

	require.NoError(t, s.ModifyProjectFiles(context.Background(), "p1", "rename", "contracts/MyToken.sol"))

	assert.Equal(t, "art-p1", got.ArtifactID)
	assert.Equal(t, "contracts/MyToken.sol", got.SelectedFile)
	assert.Equal(t, "art-p1", s.ArtifactID("p1"))
	assert.Equal(t, "// v2", s.FileByPath("p1", "contracts/MyToken.sol").Content)
	assert.Equal(t, "0.8.24", s.ProjectMetadata("p1").SolidityVersion, "metadata kept when the response has none")
}

func TestFileStore_FailedRequestLeavesStateUntouched(t *testing.T) {
	s, fb := newTestFileStore(t)
	seedFiles(t, s, "p1", models.BackendFile{Path: "a.sol", Content: "a"})

	fb.generate = func(context.Context, backend.GenerateRequest) (*backend.GenerateResponse, error) {
		return nil, apperr.New(apperr.CodeNetworkOrServer, "model overloaded")
	}

	err := s.FetchProjectFiles(context.Background(), "p1", "idea")
	assert.Equal(t, apperr.CodeNetworkOrServer, apperr.CodeOf(err))
	assert.Equal(t, "model overloaded", s.LastError())
	assert.Equal(t, "a", s.FileByPath("p1", "a.sol").Content)
	assert.Equal(t, "art-p1", s.ArtifactID("p1"))
}

func TestFileStore_MalformedPushIsRejected(t *testing.T) {
	s, _ := newTestFileStore(t)
	seedFiles(t, s, "p1", models.BackendFile{Path: "a.sol", Content: "a"})

	tests := []struct {
		name string
		resp *backend.GenerateResponse
	}{
		{"not ok", &backend.GenerateResponse{OK: false, ArtifactID: "x", Files: []models.BackendFile{}}},
		{"no files", &backend.GenerateResponse{OK: true, ArtifactID: "x"}},
		{"no artifact", &backend.GenerateResponse{OK: true, Files: []models.BackendFile{{Path: "b.sol"}}}},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SetProjectFiles("p1", tt.resp)
			assert.Equal(t, apperr.CodeMalformedResponse, apperr.CodeOf(err))
			assert.Len(t, s.ProjectFiles("p1"), 1)
			assert.Equal(t, "art-p1", s.ArtifactID("p1"))
		})
	}
}

func TestFileStore_DedupesOnIngest(t *testing.T) {
	s, _ := newTestFileStore(t)
	seedFiles(t, s, "p1",
		models.BackendFile{Path: "a.sol", Content: "first"},
		models.BackendFile{Path: "b.sol", Content: "b"},
		models.BackendFile{Path: "a.sol", Content: "second"},
	)

	files := s.ProjectFiles("p1")
	require.Len(t, files, 2)
	assert.Equal(t, "a.sol", files[0].Path)
	assert.Equal(t, "second", files[0].Content)
	assert.Equal(t, "b.sol", files[1].Path)
}

func TestFileStore_StaleResponseIsDiscarded(t *testing.T) {
	s, fb := newTestFileStore(t)
	ctx := context.Background()

	started := make(chan struct{}, 1)
	fb.generate = func(ctx context.Context, req backend.GenerateRequest) (*backend.GenerateResponse, error) {
		if req.Prompt == "slow" {
			started <- struct{}{}
			<-ctx.Done()
			return generated("art-slow", models.BackendFile{Path: "slow.sol"}), nil
		}
		return generated("art-fast", models.BackendFile{Path: "fast.sol"}), nil
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.FetchProjectFiles(ctx, "p1", "slow") }()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("slow request never started")
	}
	assert.True(t, s.IsLoading())
	assert.True(t, s.IsProjectLoading("p1"))

	require.NoError(t, s.FetchProjectFiles(ctx, "p1", "fast"))

	select {
	case err := <-errCh:
		assert.Equal(t, apperr.CodeSuperseded, apperr.CodeOf(err))
	case <-time.After(time.Second):
		t.Fatal("superseded request was not cancelled")
	}

	assert.Equal(t, "art-fast", s.ArtifactID("p1"))
	require.Len(t, s.ProjectFiles("p1"), 1)
	assert.Equal(t, "fast.sol", s.ProjectFiles("p1")[0].Path)
	assert.False(t, s.IsLoading())
	assert.False(t, s.IsProjectLoading("p1"))
}

func TestFileStore_ClearDiscardsInFlightResponse(t *testing.T) {
	s, fb := newTestFileStore(t)
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	fb.generate = func(context.Context, backend.GenerateRequest) (*backend.GenerateResponse, error) {
		started <- struct{}{}
		<-release
		return generated("art-late", models.BackendFile{Path: "late.sol"}), nil
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.FetchProjectFiles(context.Background(), "p1", "idea") }()
	<-started

	s.ClearProjectFiles("p1")
	close(release)

	err := <-errCh
	assert.True(t, apperr.Is(err, apperr.CodeSuperseded))
	assert.Empty(t, s.ProjectFiles("p1"))
	assert.Equal(t, "", s.ArtifactID("p1"))
}

func TestFileStore_ClearProjectFilesSelection(t *testing.T) {
	s, _ := newTestFileStore(t)
	seedFiles(t, s, "p1", models.BackendFile{Path: "a.sol"})
	seedFiles(t, s, "p2", models.BackendFile{Path: "b.sol"})

	s.SetSelectedFile(models.StringPtr("p2"), models.StringPtr("b.sol"))
	s.ClearProjectFiles("p1")
	assert.Equal(t, "p2", *s.Selection().ProjectID)

	s.ClearProjectFiles("p2")
	assert.Nil(t, s.Selection().ProjectID)
	assert.Nil(t, s.Selection().FilePath)
	assert.Nil(t, s.ProjectMetadata("p2"))
}

func TestFileStore_SampleSelection(t *testing.T) {
	s, _ := newTestFileStore(t)

	s.SetSelectedFile(nil, models.StringPtr("contracts/MyToken.sol"))
	sel := s.Selection()
	assert.Nil(t, sel.ProjectID)
	require.NotNil(t, sel.FilePath)

	f := s.SampleFileByPath(*sel.FilePath)
	require.NotNil(t, f)
	assert.Contains(t, f.Content, "contract MyToken")
	assert.NotNil(t, s.SampleFileTree())
}

func TestFileStore_CompiledContractsInvalidation(t *testing.T) {
	s, _ := newTestFileStore(t)
	seedFiles(t, s, "p1",
		models.BackendFile{Path: "contracts/A.sol", Content: "a"},
		models.BackendFile{Path: "contracts/B.sol", Content: "b"},
	)

	s.SaveCompiledContract("p1", models.CompiledContract{FileName: "contracts/A.sol", ContractName: "A", Bytecode: "60"})
	s.SaveCompiledContract("p1", models.CompiledContract{FileName: "contracts/B.sol", ContractName: "B", Bytecode: "61"})
	s.SaveCompiledContract("p1", models.CompiledContract{FileName: "contracts/A.sol", ContractName: "A", Bytecode: "62"})
	require.Len(t, s.CompiledContracts("p1"), 2)
	assert.Equal(t, "62", s.CompiledContract("p1", "contracts/A.sol", "A").Bytecode)

	s.UpdateFile("p1", "contracts/A.sol", "a2")
	assert.Nil(t, s.CompiledContract("p1", "contracts/A.sol", "A"))
	assert.NotNil(t, s.CompiledContract("p1", "contracts/B.sol", "B"))

	seedFiles(t, s, "p1", models.BackendFile{Path: "contracts/B.sol", Content: "b"})
	assert.Empty(t, s.CompiledContracts("p1"))
}

func TestFileStore_RefreshArtifact(t *testing.T) {
	s, fb := newTestFileStore(t)

	err := s.RefreshArtifact(context.Background(), "p1")
	assert.Equal(t, apperr.CodeMissingArtifact, apperr.CodeOf(err))
	assert.Equal(t, 0, fb.count("artifact"))

	seedFiles(t, s, "p1", models.BackendFile{Path: "contracts/MyToken.sol", Content: "// local"})
	require.NoError(t, s.RefreshArtifact(context.Background(), "p1"))

	assert.Equal(t, "// remote", s.FileByPath("p1", "contracts/MyToken.sol").Content)
	assert.Equal(t, "foundry", s.ProjectMetadata("p1").TestFramework)
}

func TestFileStore_AddRemoteFile(t *testing.T) {
	s, fb := newTestFileStore(t)

	_, err := s.AddRemoteFile(context.Background(), "p1", "test/A.t.sol", "x")
	assert.Equal(t, apperr.CodeMissingArtifact, apperr.CodeOf(err))

	seedFiles(t, s, "p1", models.BackendFile{Path: "contracts/A.sol"})
	resp, err := s.AddRemoteFile(context.Background(), "p1", "test/A.t.sol", "x")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalFiles)
	assert.Equal(t, 1, fb.count("add_file"))
	assert.Equal(t, "x", s.FileByPath("p1", "test/A.t.sol").Content)

	fb.addFile = func(context.Context, backend.AddFileRequest) (*backend.AddFileResponse, error) {
		return nil, errors.New("boom")
	}
	_, err = s.AddRemoteFile(context.Background(), "p1", "test/B.t.sol", "y")
	assert.Error(t, err)
	assert.Nil(t, s.FileByPath("p1", "test/B.t.sol"))
}

func TestFileStore_AddRemoteFileExistingPath(t *testing.T) {
	s, fb := newTestFileStore(t)
	seedFiles(t, s, "p1", models.BackendFile{Path: "contracts/A.sol", Content: "original"})

	resp, err := s.AddRemoteFile(context.Background(), "p1", "contracts/A.sol", "replacement")
	assert.Nil(t, resp)
	assert.Equal(t, apperr.CodeAlreadyExists, apperr.CodeOf(err))
	assert.Equal(t, 0, fb.count("add_file"), "backend artifact untouched")
	assert.Equal(t, "original", s.FileByPath("p1", "contracts/A.sol").Content)
}

func TestFileStore_PersistsAcrossRestart(t *testing.T) {
	snap := storage.NewMemory()
	fb := newFakeBackend()

	s := NewFileStore(fb, snap, nil, zerolog.Nop())
	require.NoError(t, s.FetchProjectFiles(context.Background(), "p1", "idea"))
	s.SetSelectedFile(models.StringPtr("p1"), models.StringPtr("contracts/MyToken.sol"))

	restored := NewFileStore(fb, snap, nil, zerolog.Nop())
	assert.Equal(t, s.ProjectFiles("p1"), restored.ProjectFiles("p1"))
	assert.Equal(t, "art-1", restored.ArtifactID("p1"))
	assert.Equal(t, "contracts/MyToken.sol", *restored.Selection().FilePath)
	assert.False(t, restored.IsLoading())
}

func TestFileStore_PublishesEvents(t *testing.T) {
	bus := events.NewBus(16)
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	s := NewFileStore(newFakeBackend(), nil, bus, zerolog.Nop())
	s.AddFile("p1", "a.sol", "")

	select {
	case e := <-ch:
		assert.Equal(t, events.StoreFile, e.Store)
		assert.Equal(t, "file_added", e.Kind)
		assert.Equal(t, "p1", e.ProjectID)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}
