package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kovin-ide/kovin/internal/models"
	"github.com/kovin-ide/kovin/internal/services"
)

// ProjectHandler handles project, chat and workspace-selection requests
type ProjectHandler struct {
	projects *services.ProjectStore
	workflow *services.Workflow
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects *services.ProjectStore, workflow *services.Workflow) *ProjectHandler {
	return &ProjectHandler{projects: projects, workflow: workflow}
}

// CreateProjectRequest represents a new project idea
type CreateProjectRequest struct {
	Idea string `json:"idea"`
}

// ModifyRequest represents a follow-up prompt for a project
type ModifyRequest struct {
	Prompt       string `json:"prompt" binding:"required"`
	SelectedFile string `json:"selectedFile"`
}

// StatusRequest represents a project status change
type StatusRequest struct {
	Status models.ProjectStatus `json:"status" binding:"required"`
}

// ActiveProjectRequest sets or clears the active project
type ActiveProjectRequest struct {
	ProjectID *string `json:"projectId"`
}

// TabRequest selects the side panel
type TabRequest struct {
	Tab models.ActiveTab `json:"tab" binding:"required"`
}

// ListProjects returns every project, newest first
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"projects":        h.projects.Projects(),
		"activeProjectId": h.projects.ActiveProject(),
	})
}

// CreateProject creates a project and generates its files. A project whose
// generation failed is still returned with the error.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	project, err := h.workflow.CreateProject(c.Request.Context(), req.Idea)
	if err != nil {
		body := errorBody(err)
		body["project"] = project
		c.JSON(StatusFor(err), body)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProject returns one project with its transcript
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id := c.Param("id")
	project := h.projects.Project(id)
	if project == nil {
		notFound(c, "project")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project": project,
		"chats":   h.projects.ProjectChats(id),
	})
}

// UpdateProject applies a partial update
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id := c.Param("id")
	if h.projects.Project(id) == nil {
		notFound(c, "project")
		return
	}

	var req models.ProjectUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.projects.UpdateProject(id, req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.projects.Project(id))
}

// SetStatus changes a project's status
func (h *ProjectHandler) SetStatus(c *gin.Context) {
	id := c.Param("id")
	if h.projects.Project(id) == nil {
		notFound(c, "project")
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.projects.SetProjectStatus(id, req.Status); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.projects.Project(id))
}

// DeleteProject removes a project with its transcript and files
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if !h.workflow.DeleteProject(c.Param("id")) {
		notFound(c, "project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

// Generate runs generation again for a project
func (h *ProjectHandler) Generate(c *gin.Context) {
	id := c.Param("id")
	if err := h.workflow.Regenerate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.projects.Project(id))
}

// Modify applies a follow-up prompt
func (h *ProjectHandler) Modify(c *gin.Context) {
	id := c.Param("id")

	var req ModifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.workflow.Modify(c.Request.Context(), id, req.Prompt, req.SelectedFile); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": h.projects.ProjectChats(id)})
}

// ListChats returns a project's transcript
func (h *ProjectHandler) ListChats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"chats": h.projects.ProjectChats(c.Param("id"))})
}

// AddChat appends a message to a project's transcript
func (h *ProjectHandler) AddChat(c *gin.Context) {
	id := c.Param("id")
	if h.projects.Project(id) == nil {
		notFound(c, "project")
		return
	}

	var msg models.ChatMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		badRequest(c, err)
		return
	}
	switch msg.Role {
	case models.RoleUser, models.RoleAssistant, models.RoleSystem:
	default:
		badRequest(c, errors.New("role must be user, assistant or system"))
		return
	}

	c.JSON(http.StatusCreated, h.projects.AddChatMessage(id, msg))
}

// ClearChats empties a project's transcript
func (h *ProjectHandler) ClearChats(c *gin.Context) {
	h.projects.ClearChats(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "chats cleared"})
}

// GetActiveProject returns the active project id
func (h *ProjectHandler) GetActiveProject(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"projectId": h.projects.ActiveProject()})
}

// SetActiveProject sets or clears the active project
func (h *ProjectHandler) SetActiveProject(c *gin.Context) {
	var req ActiveProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.ProjectID != nil && h.projects.Project(*req.ProjectID) == nil {
		notFound(c, "project")
		return
	}

	h.projects.SetActiveProject(req.ProjectID)
	c.JSON(http.StatusOK, gin.H{"projectId": h.projects.ActiveProject()})
}

// GetTab returns the selected side panel
func (h *ProjectHandler) GetTab(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tab": h.projects.ActiveTab()})
}

// SetTab selects the side panel
func (h *ProjectHandler) SetTab(c *gin.Context) {
	var req TabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.projects.SetActiveTab(req.Tab); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tab": h.projects.ActiveTab()})
}
