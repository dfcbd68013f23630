package services

import (
	"context"
	"sync"

	"github.com/kovin-ide/kovin/internal/apperr"
	"github.com/kovin-ide/kovin/internal/backend"
	"github.com/kovin-ide/kovin/internal/events"
	"github.com/kovin-ide/kovin/internal/filetree"
	"github.com/kovin-ide/kovin/internal/models"
	"github.com/kovin-ide/kovin/internal/storage"
	"github.com/rs/zerolog"
)

// MissingArtifactMessage is shown when a project has no backing artifact
const MissingArtifactMessage = "Project artifact ID not found. Please regenerate the project."

// ArtifactClient is the part of the backend the file store talks to
type ArtifactClient interface {
	Generate(ctx context.Context, req backend.GenerateRequest) (*backend.GenerateResponse, error)
	Modify(ctx context.Context, req backend.ModifyRequest) (*backend.ModifyResponse, error)
	GetArtifact(ctx context.Context, artifactID string) (*backend.ArtifactResponse, error)
	AddFile(ctx context.Context, req backend.AddFileRequest) (*backend.AddFileResponse, error)
}

type fileSnapshot struct {
	Files       map[string][]models.BackendFile      `json:"filesByProjectId"`
	Metadata    map[string]*models.ProjectMetadata   `json:"metadataByProjectId"`
	ArtifactIDs map[string]string                    `json:"artifactIdsByProjectId"`
	Compiled    map[string][]models.CompiledContract `json:"compiledContractsByProjectId"`
	Selection   models.Selection                     `json:"selection"`
}

// FileStore owns per-project file lists, metadata, artifact ids, compiled
// contracts and the global file selection.
//
// Every remote call takes a per-project epoch. Starting a call cancels the
// previous in-flight call for the same project, and a response whose epoch
// is no longer current is discarded.
type FileStore struct {
	client  ArtifactClient
	bus     events.Publisher
	persist persister
	log     zerolog.Logger

	mu          sync.RWMutex
	files       map[string][]models.BackendFile
	metadata    map[string]*models.ProjectMetadata
	artifactIDs map[string]string
	compiled    map[string][]models.CompiledContract
	selection   models.Selection

	epochs  map[string]uint64
	cancels map[string]context.CancelFunc
	pending int
	lastErr string
}

// NewFileStore creates a new file store and restores its snapshot
func NewFileStore(client ArtifactClient, snap storage.Snapshotter, bus events.Publisher, log zerolog.Logger) *FileStore {
	if bus == nil {
		bus = events.Discard{}
	}
	log = log.With().Str("component", "file_store").Logger()

	s := &FileStore{
		client:      client,
		bus:         bus,
		persist:     newPersister(snap, snapshotFiles, log),
		log:         log,
		files:       make(map[string][]models.BackendFile),
		metadata:    make(map[string]*models.ProjectMetadata),
		artifactIDs: make(map[string]string),
		compiled:    make(map[string][]models.CompiledContract),
		epochs:      make(map[string]uint64),
		cancels:     make(map[string]context.CancelFunc),
	}

	var saved fileSnapshot
	if s.persist.load(&saved) {
		if saved.Files != nil {
			s.files = saved.Files
		}
		if saved.Metadata != nil {
			s.metadata = saved.Metadata
		}
		if saved.ArtifactIDs != nil {
			s.artifactIDs = saved.ArtifactIDs
		}
		if saved.Compiled != nil {
			s.compiled = saved.Compiled
		}
		s.selection = saved.Selection
	}

	return s
}

// SetProjectFiles replaces files, metadata and artifact id of a project.
// A malformed payload is logged and rejected without touching state. A
// push supersedes any in-flight request for the project.
func (s *FileStore) SetProjectFiles(projectID string, resp *backend.GenerateResponse) error {
	if err := resp.Validate(); err != nil {
		s.log.Warn().Err(err).Str("project_id", projectID).Msg("ignoring malformed file push")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersedeLocked(projectID)
	s.applyLocked(projectID, resp.Files, resp.Metadata, resp.ArtifactID)
	return nil
}

// FetchProjectFiles generates the project's files from an idea
func (s *FileStore) FetchProjectFiles(ctx context.Context, projectID, idea string) error {
	ctx, epoch, cancel := s.begin(ctx, projectID)
	defer cancel()

	resp, err := s.client.Generate(ctx, backend.GenerateRequest{Prompt: idea})

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.settleLocked(projectID, epoch, err); err != nil {
		return err
	}
	if err := resp.Validate(); err != nil {
		return s.failLocked(projectID, err)
	}

	s.applyLocked(projectID, resp.Files, resp.Metadata, resp.ArtifactID)
	return nil
}

// ModifyProjectFiles applies a follow-up prompt to the project's artifact.
// Files and metadata are replaced; the artifact id is kept.
func (s *FileStore) ModifyProjectFiles(ctx context.Context, projectID, prompt, selectedFile string) error {
	artifactID := s.ArtifactID(projectID)
	if artifactID == "" {
		err := apperr.New(apperr.CodeMissingArtifact, MissingArtifactMessage)
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		return err
	}

	ctx, epoch, cancel := s.begin(ctx, projectID)
	defer cancel()

	resp, err := s.client.Modify(ctx, backend.ModifyRequest{
		ArtifactID:   artifactID,
		Prompt:       prompt,
		SelectedFile: selectedFile,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.settleLocked(projectID, epoch, err); err != nil {
		return err
	}
	if err := resp.Validate(); err != nil {
		return s.failLocked(projectID, err)
	}

	metadata := resp.Artifact.Metadata
	if metadata == nil {
		metadata = s.metadata[projectID]
	}
	s.applyLocked(projectID, resp.Artifact.Files, metadata, artifactID)
	return nil
}

// RefreshArtifact reloads the project from the backend's artifact snapshot
func (s *FileStore) RefreshArtifact(ctx context.Context, projectID string) error {
	artifactID := s.ArtifactID(projectID)
	if artifactID == "" {
		return apperr.New(apperr.CodeMissingArtifact, MissingArtifactMessage)
	}

	ctx, epoch, cancel := s.begin(ctx, projectID)
	defer cancel()

	resp, err := s.client.GetArtifact(ctx, artifactID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.settleLocked(projectID, epoch, err); err != nil {
		return err
	}
	gen := resp.ToGenerateResponse()
	if err := gen.Validate(); err != nil {
		return s.failLocked(projectID, err)
	}

	s.applyLocked(projectID, gen.Files, gen.Metadata, gen.ArtifactID)
	return nil
}

// AddRemoteFile creates a file in the project's artifact and then locally
func (s *FileStore) AddRemoteFile(ctx context.Context, projectID, path, content string) (*backend.AddFileResponse, error) {
	artifactID := s.ArtifactID(projectID)
	if artifactID == "" {
		return nil, apperr.New(apperr.CodeMissingArtifact, MissingArtifactMessage)
	}
	if path == "" {
		return nil, apperr.New(apperr.CodeInvalidArgument, "file path is required")
	}
	if s.FileByPath(projectID, path) != nil {
		return nil, apperr.New(apperr.CodeAlreadyExists, "file %s already exists", path)
	}

	resp, err := s.client.AddFile(ctx, backend.AddFileRequest{
		ArtifactID: artifactID,
		FileName:   path,
		Content:    content,
	})
	if err != nil {
		return nil, err
	}

	if !s.AddFile(projectID, path, content) {
		s.log.Warn().Str("project_id", projectID).Str("path", path).Msg("file added locally while the remote add was in flight")
	}
	return resp, nil
}

// UpdateFile replaces a file's content locally and marks its hash stale.
// It reports whether a file was changed.
func (s *FileStore) UpdateFile(projectID, path, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := s.files[projectID]
	for i := range files {
		if files[i].Path != path {
			continue
		}
		updated := make([]models.BackendFile, len(files))
		copy(updated, files)
		updated[i].Content = content
		updated[i].SHA256 = ""
		s.files[projectID] = updated
		s.invalidateCompiledLocked(projectID, path)
		s.commitLocked(projectID, "file_updated")
		return true
	}
	return false
}

// AddFile appends a file locally. An existing path is left untouched.
func (s *FileStore) AddFile(projectID, path, content string) bool {
	if path == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files := s.files[projectID]
	for _, f := range files {
		if f.Path == path {
			return false
		}
	}

	updated := make([]models.BackendFile, len(files), len(files)+1)
	copy(updated, files)
	s.files[projectID] = append(updated, models.BackendFile{Path: path, Content: content})
	s.commitLocked(projectID, "file_added")
	return true
}

// DeleteFile removes a file locally, clearing the selection if it pointed
// at that file. It reports whether a file was removed.
func (s *FileStore) DeleteFile(projectID, path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := s.files[projectID]
	updated := make([]models.BackendFile, 0, len(files))
	for _, f := range files {
		if f.Path != path {
			updated = append(updated, f)
		}
	}
	if len(updated) == len(files) {
		return false
	}
	s.files[projectID] = updated

	if sel := s.selection; sel.ProjectID != nil && *sel.ProjectID == projectID &&
		sel.FilePath != nil && *sel.FilePath == path {
		s.selection.FilePath = nil
	}

	s.invalidateCompiledLocked(projectID, path)
	s.commitLocked(projectID, "file_deleted")
	return true
}

// ProjectFiles returns a copy of the project's files, empty when unknown
func (s *FileStore) ProjectFiles(projectID string) []models.BackendFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := s.files[projectID]
	out := make([]models.BackendFile, len(files))
	copy(out, files)
	return out
}

// ProjectMetadata returns the project's metadata, or nil
func (s *FileStore) ProjectMetadata(projectID string) *models.ProjectMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta := s.metadata[projectID]
	if meta == nil {
		return nil
	}
	out := *meta
	return &out
}

// FileByPath returns one file of the project, or nil
func (s *FileStore) FileByPath(projectID, path string) *models.BackendFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if f := s.fileLocked(projectID, path); f != nil {
		out := *f
		return &out
	}
	return nil
}

func (s *FileStore) fileLocked(projectID, path string) *models.BackendFile {
	files := s.files[projectID]
	for i := range files {
		if files[i].Path == path {
			return &files[i]
		}
	}
	return nil
}

// FileTree builds the project's tree from its current file list
func (s *FileStore) FileTree(projectID string) *models.FileNode {
	return filetree.Build(s.ProjectFiles(projectID))
}

// ArtifactID returns the artifact backing the project, or ""
func (s *FileStore) ArtifactID(projectID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.artifactIDs[projectID]
}

// SetSelectedFile sets the global selection. A nil projectID with a path
// selects a file of the sample project.
func (s *FileStore) SetSelectedFile(projectID, path *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection = models.Selection{ProjectID: copyString(projectID), FilePath: copyString(path)}
	s.commitLocked("", "selection_changed")
}

// Selection returns the global selection
func (s *FileStore) Selection() models.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Selection{
		ProjectID: copyString(s.selection.ProjectID),
		FilePath:  copyString(s.selection.FilePath),
	}
}

// ClearProjectFiles forgets everything stored for a project and discards
// any in-flight request for it.
func (s *FileStore) ClearProjectFiles(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersedeLocked(projectID)
	delete(s.files, projectID)
	delete(s.metadata, projectID)
	delete(s.artifactIDs, projectID)
	delete(s.compiled, projectID)

	if s.selection.ProjectID != nil && *s.selection.ProjectID == projectID {
		s.selection = models.Selection{}
	}
	s.commitLocked(projectID, "files_cleared")
}

// SaveCompiledContract records a compiled contract, replacing an earlier
// build of the same file and contract.
func (s *FileStore) SaveCompiledContract(projectID string, contract models.CompiledContract) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.compiled[projectID]
	updated := make([]models.CompiledContract, 0, len(existing)+1)
	for _, c := range existing {
		if c.FileName == contract.FileName && c.ContractName == contract.ContractName {
			continue
		}
		updated = append(updated, c)
	}
	s.compiled[projectID] = append(updated, contract)
	s.commitLocked(projectID, "contract_compiled")
}

// ReplaceCompiledContracts swaps every compiled contract of one file for
// the given build. source is the content the build was compiled from; when
// the file has been edited, replaced or removed since, the build is
// discarded with SUPERSEDED.
func (s *FileStore) ReplaceCompiledContracts(projectID, fileName, source string, contracts []models.CompiledContract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.fileLocked(projectID, fileName)
	if current == nil || current.Content != source {
		s.log.Warn().Str("project_id", projectID).Str("file", fileName).Msg("discarding build of stale file content")
		return apperr.New(apperr.CodeSuperseded, "%s changed while it was compiling", fileName)
	}

	s.invalidateCompiledLocked(projectID, fileName)
	for _, c := range contracts {
		c.FileName = fileName
		s.compiled[projectID] = append(s.compiled[projectID], c)
	}
	s.commitLocked(projectID, "contract_compiled")
	return nil
}

// CompiledContracts returns the project's compiled contracts
func (s *FileStore) CompiledContracts(projectID string) []models.CompiledContract {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CompiledContract, len(s.compiled[projectID]))
	copy(out, s.compiled[projectID])
	return out
}

// CompiledContract returns one compiled contract, or nil
func (s *FileStore) CompiledContract(projectID, fileName, contractName string) *models.CompiledContract {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.compiled[projectID] {
		if c.FileName == fileName && c.ContractName == contractName {
			out := c
			return &out
		}
	}
	return nil
}

// SampleFileTree returns the tree of the built-in sample project
func (s *FileStore) SampleFileTree() *models.FileNode {
	return filetree.Build(models.SampleFiles)
}

// SampleFileByPath returns a file of the built-in sample project, or nil
func (s *FileStore) SampleFileByPath(path string) *models.BackendFile {
	return models.SampleFileByPath(path)
}

// IsLoading reports whether any remote request is in flight
func (s *FileStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending > 0
}

// IsProjectLoading reports whether a remote request is in flight for the project
func (s *FileStore) IsProjectLoading(projectID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cancels[projectID] != nil
}

// LastError returns the error of the most recently settled request, or ""
func (s *FileStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// begin starts a remote request for a project, superseding the previous one
func (s *FileStore) begin(ctx context.Context, projectID string) (context.Context, uint64, context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersedeLocked(projectID)
	ctx, cancel := context.WithCancel(ctx)
	s.cancels[projectID] = cancel
	s.pending++
	s.bus.Publish(events.Event{Store: events.StoreFile, Kind: "request_started", ProjectID: projectID})

	return ctx, s.epochs[projectID], cancel
}

// settleLocked finishes a request. It returns SUPERSEDED when a newer
// request or push replaced this one, or the request's own error.
func (s *FileStore) settleLocked(projectID string, epoch uint64, err error) error {
	s.pending--

	if s.epochs[projectID] != epoch {
		s.log.Warn().Str("project_id", projectID).Uint64("epoch", epoch).Msg("discarding stale response")
		return apperr.Wrap(apperr.CodeSuperseded, err, "a newer request for project %s superseded this one", projectID)
	}
	delete(s.cancels, projectID)

	if err != nil {
		return s.failLocked(projectID, err)
	}
	return nil
}

func (s *FileStore) failLocked(projectID string, err error) error {
	s.lastErr = err.Error()
	s.log.Error().Err(err).Str("project_id", projectID).Msg("file request failed")
	s.bus.Publish(events.Event{Store: events.StoreFile, Kind: "request_failed", ProjectID: projectID})
	return err
}

// supersedeLocked invalidates the in-flight request for a project, if any
func (s *FileStore) supersedeLocked(projectID string) {
	if cancel := s.cancels[projectID]; cancel != nil {
		cancel()
		delete(s.cancels, projectID)
	}
	s.epochs[projectID]++
}

func (s *FileStore) applyLocked(projectID string, files []models.BackendFile, metadata *models.ProjectMetadata, artifactID string) {
	s.files[projectID] = dedupeFiles(files)
	if metadata != nil {
		meta := *metadata
		s.metadata[projectID] = &meta
	} else {
		delete(s.metadata, projectID)
	}
	s.artifactIDs[projectID] = artifactID
	delete(s.compiled, projectID)
	s.lastErr = ""
	s.commitLocked(projectID, "files_set")
}

func (s *FileStore) invalidateCompiledLocked(projectID, path string) {
	existing := s.compiled[projectID]
	if len(existing) == 0 {
		return
	}
	kept := make([]models.CompiledContract, 0, len(existing))
	for _, c := range existing {
		if c.FileName != path {
			kept = append(kept, c)
		}
	}
	s.compiled[projectID] = kept
}

func (s *FileStore) commitLocked(projectID, kind string) {
	s.persist.save(fileSnapshot{
		Files:       s.files,
		Metadata:    s.metadata,
		ArtifactIDs: s.artifactIDs,
		Compiled:    s.compiled,
		Selection:   s.selection,
	})
	s.bus.Publish(events.Event{Store: events.StoreFile, Kind: kind, ProjectID: projectID})
}

// dedupeFiles keeps one entry per path: the last entry's content at the
// first entry's position.
func dedupeFiles(files []models.BackendFile) []models.BackendFile {
	index := make(map[string]int, len(files))
	out := make([]models.BackendFile, 0, len(files))
	for _, f := range files {
		if i, ok := index[f.Path]; ok {
			out[i] = f
			continue
		}
		index[f.Path] = len(out)
		out = append(out, f)
	}
	return out
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
