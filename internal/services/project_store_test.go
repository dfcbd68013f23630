package services

import (
	"testing"

	"github.com/kovin-ide/kovin/internal/apperr"
	"github.com/kovin-ide/kovin/internal/models"
	"github.com/kovin-ide/kovin/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProjectStore() *ProjectStore {
	return NewProjectStore(storage.NewMemory(), nil, zerolog.Nop())
}

func TestProjectStore_AddProject(t *testing.T) {
	s := newTestProjectStore()

	first := s.AddProject("An ERC20 token with burn")
	second := s.AddProject("An ERC20 token with burn")

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "An ERC20 token", first.Title)
	assert.Equal(t, models.ProjectStatusDraft, first.Status)
	assert.Equal(t, models.GenerationCreated, first.Generation)

	projects := s.Projects()
	require.Len(t, projects, 2)
	assert.Equal(t, second.ID, projects[0].ID, "newest project first")
	assert.Equal(t, second.ID, *s.ActiveProject())

	chats := s.ProjectChats(first.ID)
	require.Len(t, chats, 1)
	assert.Equal(t, models.RoleUser, chats[0].Role)
	assert.Equal(t, "An ERC20 token with burn", chats[0].Content)
}

func TestProjectStore_Titles(t *testing.T) {
	tests := []struct {
		idea string
		want string
	}{
		{"NFT", "NFT"},
		{"  simple   escrow  ", "simple escrow"},
		{"a multi sig wallet", "a multi sig"},
		{"", "Untitled Project 1"},
		{"   ", "Untitled Project 1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			s := newTestProjectStore()
			assert.Equal(t, tt.want, s.AddProject(tt.idea).Title)
		})
	}
}

func TestUntitledProjectName(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   string
	}{
		{"none", nil, "Untitled Project 1"},
		{"gap", []string{"Untitled Project 1", "Untitled Project 3"}, "Untitled Project 4"},
		{"ignores others", []string{"My Token", "Untitled Project 2x", "Untitled Project 2"}, "Untitled Project 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects := make([]models.Project, len(tt.titles))
			for i, title := range tt.titles {
				projects[i] = models.Project{Title: title}
			}
			assert.Equal(t, tt.want, UntitledProjectName(projects))
		})
	}
}

func TestProjectStore_UntitledNumbering(t *testing.T) {
	s := newTestProjectStore()

	s.AddProject("")
	second := s.AddProject("")
	assert.Equal(t, "Untitled Project 2", second.Title)

	require.NoError(t, s.UpdateProject(second.ID, models.ProjectUpdate{Title: models.StringPtr("Untitled Project 3")}))
	assert.Equal(t, "Untitled Project 4", s.AddProject("").Title)
}

func TestProjectStore_UpdateProject(t *testing.T) {
	s := newTestProjectStore()
	p := s.AddProject("token")

	require.NoError(t, s.SetProjectStatus(p.ID, models.ProjectStatusReady))
	assert.Equal(t, models.ProjectStatusReady, s.Project(p.ID).Status)

	err := s.SetProjectStatus(p.ID, models.ProjectStatus("archived"))
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
	assert.Equal(t, models.ProjectStatusReady, s.Project(p.ID).Status)

	assert.NoError(t, s.UpdateProject("unknown", models.ProjectUpdate{Title: models.StringPtr("x")}))
	assert.Len(t, s.Projects(), 1)

	s.SetGeneration(p.ID, models.GenerationFailed, "boom")
	assert.Equal(t, models.GenerationFailed, s.Project(p.ID).Generation)
	assert.Equal(t, "boom", s.Project(p.ID).GenerationError)
}

func TestProjectStore_DeleteProject(t *testing.T) {
	s := newTestProjectStore()
	a := s.AddProject("a")
	b := s.AddProject("b")
	c := s.AddProject("c")

	s.SetActiveProject(&b.ID)
	assert.True(t, s.DeleteProject(b.ID))
	assert.Equal(t, c.ID, *s.ActiveProject(), "first remaining project becomes active")
	assert.Empty(t, s.ProjectChats(b.ID))

	assert.True(t, s.DeleteProject(a.ID))
	assert.Equal(t, c.ID, *s.ActiveProject())

	assert.True(t, s.DeleteProject(c.ID))
	assert.Nil(t, s.ActiveProject())
	assert.False(t, s.DeleteProject(c.ID))
}

func TestProjectStore_Chats(t *testing.T) {
	s := newTestProjectStore()
	p := s.AddProject("token")

	msg := s.AddChatMessage(p.ID, models.ChatMessage{Role: models.RoleAssistant, Content: "hello"})
	assert.NotEmpty(t, msg.ID)
	assert.NotZero(t, msg.Timestamp)

	kept := s.AddChatMessage(p.ID, models.ChatMessage{ID: "fixed", Role: models.RoleSystem, Content: "x", Timestamp: 42})
	assert.Equal(t, "fixed", kept.ID)
	assert.Equal(t, int64(42), kept.Timestamp)

	chats := s.ProjectChats(p.ID)
	require.Len(t, chats, 3)
	assert.Equal(t, "hello", chats[1].Content)
	assert.Equal(t, "fixed", chats[2].ID)

	s.ClearChats(p.ID)
	assert.Empty(t, s.ProjectChats(p.ID))
}

func TestProjectStore_ActiveTab(t *testing.T) {
	s := newTestProjectStore()
	assert.Equal(t, models.TabChat, s.ActiveTab())

	require.NoError(t, s.SetActiveTab(models.TabCompiler))
	assert.Equal(t, models.TabCompiler, s.ActiveTab())

	err := s.SetActiveTab(models.ActiveTab("settings"))
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
	assert.Equal(t, models.TabCompiler, s.ActiveTab())
}

func TestProjectStore_PersistsAcrossRestart(t *testing.T) {
	snap := storage.NewMemory()

	s := NewProjectStore(snap, nil, zerolog.Nop())
	p := s.AddProject("a lending pool")
	require.NoError(t, s.SetActiveTab(models.TabDeploy))

	restored := NewProjectStore(snap, nil, zerolog.Nop())
	assert.Equal(t, s.Projects(), restored.Projects())
	assert.Equal(t, s.ProjectChats(p.ID), restored.ProjectChats(p.ID))
	assert.Equal(t, p.ID, *restored.ActiveProject())
	assert.Equal(t, models.TabDeploy, restored.ActiveTab())
}
