package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/kovin-ide/kovin/internal/apperr"
	"github.com/kovin-ide/kovin/internal/events"
	"github.com/kovin-ide/kovin/internal/models"
	"github.com/kovin-ide/kovin/internal/storage"
	"github.com/rs/zerolog"
)

var untitledPattern = regexp.MustCompile(`^Untitled Project (\d+)$`)

type projectSnapshot struct {
	Projects        []models.Project                `json:"projects"`
	Chats           map[string][]models.ChatMessage `json:"chatsByProjectId"`
	ActiveProjectID *string                         `json:"activeProjectId"`
	ActiveTab       models.ActiveTab                `json:"activeTab"`
}

// ProjectStore owns the project registry, chat transcripts and the active
// project and tab. It makes no network calls.
type ProjectStore struct {
	bus     events.Publisher
	persist persister
	log     zerolog.Logger

	mu              sync.RWMutex
	projects        []models.Project
	chats           map[string][]models.ChatMessage
	activeProjectID *string
	activeTab       models.ActiveTab
}

// NewProjectStore creates a new project store and restores its snapshot
func NewProjectStore(snap storage.Snapshotter, bus events.Publisher, log zerolog.Logger) *ProjectStore {
	if bus == nil {
		bus = events.Discard{}
	}
	log = log.With().Str("component", "project_store").Logger()

	s := &ProjectStore{
		bus:       bus,
		persist:   newPersister(snap, snapshotProjects, log),
		log:       log,
		projects:  []models.Project{},
		chats:     make(map[string][]models.ChatMessage),
		activeTab: models.TabChat,
	}

	var saved projectSnapshot
	if s.persist.load(&saved) {
		if saved.Projects != nil {
			s.projects = saved.Projects
		}
		if saved.Chats != nil {
			s.chats = saved.Chats
		}
		s.activeProjectID = saved.ActiveProjectID
		if saved.ActiveTab.Valid() {
			s.activeTab = saved.ActiveTab
		}
	}

	return s
}

// AddProject creates a draft project for an idea, seeds its transcript with
// the idea and makes it the active project. New projects come first.
func (s *ProjectStore) AddProject(idea string) models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	project := models.Project{
		ID:         uuid.New().String(),
		Idea:       idea,
		Title:      s.titleLocked(idea),
		Status:     models.ProjectStatusDraft,
		CreatedAt:  models.NowMillis(),
		Generation: models.GenerationCreated,
	}

	s.projects = append([]models.Project{project}, s.projects...)
	s.chats[project.ID] = []models.ChatMessage{{
		ID:        uuid.New().String(),
		Role:      models.RoleUser,
		Content:   idea,
		Timestamp: project.CreatedAt,
	}}
	id := project.ID
	s.activeProjectID = &id

	s.commitLocked(project.ID, "project_added")
	return project
}

// titleLocked derives a title: the first three words of the idea, or the
// next "Untitled Project N" for a blank idea.
func (s *ProjectStore) titleLocked(idea string) string {
	if words := strings.Fields(idea); len(words) > 0 {
		if len(words) > 3 {
			words = words[:3]
		}
		return strings.Join(words, " ")
	}
	return UntitledProjectName(s.projects)
}

// UntitledProjectName returns "Untitled Project N" where N is one more than
// the highest N already in use.
func UntitledProjectName(projects []models.Project) string {
	highest := 0
	for _, p := range projects {
		m := untitledPattern.FindStringSubmatch(p.Title)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("Untitled Project %d", highest+1)
}

// SetProjectStatus sets a project's status. Unknown ids are ignored.
func (s *ProjectStore) SetProjectStatus(projectID string, status models.ProjectStatus) error {
	if !status.Valid() {
		return apperr.New(apperr.CodeInvalidArgument, "unknown status %q", status)
	}
	return s.UpdateProject(projectID, models.ProjectUpdate{Status: &status})
}

// UpdateProject applies a partial update. Unknown ids are ignored.
func (s *ProjectStore) UpdateProject(projectID string, update models.ProjectUpdate) error {
	if update.Status != nil && !update.Status.Valid() {
		return apperr.New(apperr.CodeInvalidArgument, "unknown status %q", *update.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(projectID)
	if i < 0 {
		return nil
	}
	p := &s.projects[i]
	if update.Idea != nil {
		p.Idea = *update.Idea
	}
	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.Status != nil {
		p.Status = *update.Status
	}

	s.commitLocked(projectID, "project_updated")
	return nil
}

// SetGeneration records the generation step of a project
func (s *ProjectStore) SetGeneration(projectID string, step models.GenerationStep, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(projectID)
	if i < 0 {
		return
	}
	s.projects[i].Generation = step
	s.projects[i].GenerationError = errMsg

	s.commitLocked(projectID, "generation_"+string(step))
}

// DeleteProject removes a project and its transcript. When it was active,
// the first remaining project becomes active.
func (s *ProjectStore) DeleteProject(projectID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(projectID)
	if i < 0 {
		return false
	}
	s.projects = append(s.projects[:i:i], s.projects[i+1:]...)
	delete(s.chats, projectID)

	if s.activeProjectID != nil && *s.activeProjectID == projectID {
		s.activeProjectID = nil
		if len(s.projects) > 0 {
			id := s.projects[0].ID
			s.activeProjectID = &id
		}
	}

	s.commitLocked(projectID, "project_deleted")
	return true
}

// AddChatMessage appends a message to a project's transcript, filling in
// the id and timestamp when empty, and returns the stored message.
func (s *ProjectStore) AddChatMessage(projectID string, msg models.ChatMessage) models.ChatMessage {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = models.NowMillis()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.chats[projectID] = append(s.chats[projectID], msg)
	s.commitLocked(projectID, "chat_added")
	return msg
}

// ProjectChats returns a project's transcript in append order
func (s *ProjectStore) ProjectChats(projectID string) []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ChatMessage, len(s.chats[projectID]))
	copy(out, s.chats[projectID])
	return out
}

// ClearChats empties a project's transcript
func (s *ProjectStore) ClearChats(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chats[projectID] = []models.ChatMessage{}
	s.commitLocked(projectID, "chats_cleared")
}

// SetActiveProject sets or clears (nil) the active project
func (s *ProjectStore) SetActiveProject(projectID *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeProjectID = copyString(projectID)
	s.commitLocked("", "active_project_changed")
}

// ActiveProject returns the active project id, or nil
func (s *ProjectStore) ActiveProject() *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyString(s.activeProjectID)
}

// SetActiveTab selects the side panel
func (s *ProjectStore) SetActiveTab(tab models.ActiveTab) error {
	if !tab.Valid() {
		return apperr.New(apperr.CodeInvalidArgument, "unknown tab %q", tab)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeTab = tab
	s.commitLocked("", "active_tab_changed")
	return nil
}

// ActiveTab returns the selected side panel
func (s *ProjectStore) ActiveTab() models.ActiveTab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeTab
}

// Projects returns all projects, newest first
func (s *ProjectStore) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// Project returns one project, or nil
func (s *ProjectStore) Project(projectID string) *models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(projectID); i >= 0 {
		p := s.projects[i]
		return &p
	}
	return nil
}

func (s *ProjectStore) indexLocked(projectID string) int {
	for i := range s.projects {
		if s.projects[i].ID == projectID {
			return i
		}
	}
	return -1
}

func (s *ProjectStore) commitLocked(projectID, kind string) {
	s.persist.save(projectSnapshot{
		Projects:        s.projects,
		Chats:           s.chats,
		ActiveProjectID: s.activeProjectID,
		ActiveTab:       s.activeTab,
	})
	s.bus.Publish(events.Event{Store: events.StoreProject, Kind: kind, ProjectID: projectID})
}
