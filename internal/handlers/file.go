package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kovin-ide/kovin/internal/apperr"
	"github.com/kovin-ide/kovin/internal/backend"
	"github.com/kovin-ide/kovin/internal/services"
)

// FileHandler handles project file requests
type FileHandler struct {
	files *services.FileStore
}

// NewFileHandler creates a new file handler
func NewFileHandler(files *services.FileStore) *FileHandler {
	return &FileHandler{files: files}
}

// AddFileRequest represents a new project file. Remote files are created
// in the backend artifact first.
type AddFileRequest struct {
	Path    string `json:"path" binding:"required"`
	Content string `json:"content"`
	Remote  bool   `json:"remote"`
}

// UpdateFileRequest represents new content for a file
type UpdateFileRequest struct {
	Content string `json:"content"`
}

// SelectionRequest sets the global editor selection
type SelectionRequest struct {
	ProjectID *string `json:"projectId"`
	FilePath  *string `json:"filePath"`
}

// ListFiles returns a project's files and artifact id
func (h *FileHandler) ListFiles(c *gin.Context) {
	id := c.Param("id")
	c.JSON(http.StatusOK, gin.H{
		"files":      h.files.ProjectFiles(id),
		"artifactId": h.files.ArtifactID(id),
		"loading":    h.files.IsProjectLoading(id),
	})
}

// PushFiles replaces a project's files with a generation payload
func (h *FileHandler) PushFiles(c *gin.Context) {
	id := c.Param("id")

	var req backend.GenerateResponse
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.files.SetProjectFiles(id, &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": h.files.ProjectFiles(id), "artifactId": h.files.ArtifactID(id)})
}

// AddFile creates a file in a project
func (h *FileHandler) AddFile(c *gin.Context) {
	id := c.Param("id")

	var req AddFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Remote {
		resp, err := h.files.AddRemoteFile(c.Request.Context(), id, req.Path, req.Content)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"file": h.files.FileByPath(id, req.Path), "totalFiles": resp.TotalFiles})
		return
	}

	if !h.files.AddFile(id, req.Path, req.Content) {
		respondError(c, apperr.New(apperr.CodeAlreadyExists, "file %s already exists", req.Path))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"file": h.files.FileByPath(id, req.Path)})
}

// ClearFiles forgets everything stored for a project's files
func (h *FileHandler) ClearFiles(c *gin.Context) {
	h.files.ClearProjectFiles(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "files cleared"})
}

// GetFile returns one file by its path query parameter
func (h *FileHandler) GetFile(c *gin.Context) {
	path, ok := pathQuery(c)
	if !ok {
		return
	}

	file := h.files.FileByPath(c.Param("id"), path)
	if file == nil {
		notFound(c, "file")
		return
	}
	c.JSON(http.StatusOK, file)
}

// UpdateFile replaces a file's content
func (h *FileHandler) UpdateFile(c *gin.Context) {
	path, ok := pathQuery(c)
	if !ok {
		return
	}

	var req UpdateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id := c.Param("id")
	if !h.files.UpdateFile(id, path, req.Content) {
		notFound(c, "file")
		return
	}
	c.JSON(http.StatusOK, h.files.FileByPath(id, path))
}

// DeleteFile removes a file
func (h *FileHandler) DeleteFile(c *gin.Context) {
	path, ok := pathQuery(c)
	if !ok {
		return
	}

	if !h.files.DeleteFile(c.Param("id"), path) {
		notFound(c, "file")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "file deleted"})
}

// Tree returns a project's file tree
func (h *FileHandler) Tree(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tree": h.files.FileTree(c.Param("id"))})
}

// Metadata returns a project's toolchain metadata
func (h *FileHandler) Metadata(c *gin.Context) {
	meta := h.files.ProjectMetadata(c.Param("id"))
	if meta == nil {
		notFound(c, "metadata")
		return
	}
	c.JSON(http.StatusOK, meta)
}

// Refresh reloads a project from its backend artifact
func (h *FileHandler) Refresh(c *gin.Context) {
	id := c.Param("id")
	if err := h.files.RefreshArtifact(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": h.files.ProjectFiles(id), "artifactId": h.files.ArtifactID(id)})
}

// GetSelection returns the global editor selection
func (h *FileHandler) GetSelection(c *gin.Context) {
	c.JSON(http.StatusOK, h.files.Selection())
}

// SetSelection sets the global editor selection
func (h *FileHandler) SetSelection(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	h.files.SetSelectedFile(req.ProjectID, req.FilePath)
	c.JSON(http.StatusOK, h.files.Selection())
}

// SampleTree returns the built-in sample project's tree
func (h *FileHandler) SampleTree(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tree": h.files.SampleFileTree()})
}

// SampleFile returns a file of the built-in sample project
func (h *FileHandler) SampleFile(c *gin.Context) {
	path, ok := pathQuery(c)
	if !ok {
		return
	}

	file := h.files.SampleFileByPath(path)
	if file == nil {
		notFound(c, "file")
		return
	}
	c.JSON(http.StatusOK, file)
}

// Status reports loading state and the last request error
func (h *FileHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"loading": h.files.IsLoading(),
		"error":   h.files.LastError(),
	})
}

func pathQuery(c *gin.Context) (string, bool) {
	path := c.Query("path")
	if path == "" {
		badRequest(c, errors.New("path query parameter is required"))
		return "", false
	}
	return path, true
}
