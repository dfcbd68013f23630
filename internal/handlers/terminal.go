package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kovin-ide/kovin/internal/models"
	"github.com/kovin-ide/kovin/internal/services"
)

// TerminalHandler handles the activity feed
type TerminalHandler struct {
	terminal *services.TerminalStore
}

// NewTerminalHandler creates a new terminal handler
func NewTerminalHandler(terminal *services.TerminalStore) *TerminalHandler {
	return &TerminalHandler{terminal: terminal}
}

// TerminalRequest appends a line or runs a typed command
type TerminalRequest struct {
	Message string         `json:"message"`
	Type    models.LogType `json:"type"`
	Command string         `json:"command"`
}

// ListLogs returns the feed
func (h *TerminalHandler) ListLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logs": h.terminal.Logs()})
}

// AddLog appends a line, or runs a command when one is given
func (h *TerminalHandler) AddLog(c *gin.Context) {
	var req TerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	switch {
	case req.Command != "":
		h.terminal.RunCommand(req.Command)
		c.JSON(http.StatusOK, gin.H{"logs": h.terminal.Logs()})
	case req.Message != "":
		switch req.Type {
		case "", models.LogInfo, models.LogSuccess, models.LogError, models.LogWarning:
		default:
			badRequest(c, errors.New("unknown log type"))
			return
		}
		c.JSON(http.StatusCreated, h.terminal.AddLog(req.Message, req.Type))
	default:
		badRequest(c, errors.New("message or command is required"))
	}
}

// ClearLogs empties the feed
func (h *TerminalHandler) ClearLogs(c *gin.Context) {
	h.terminal.ClearLogs()
	c.JSON(http.StatusOK, gin.H{"message": "terminal cleared"})
}
