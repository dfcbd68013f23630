package services

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/kovin-ide/kovin/internal/events"
	"github.com/kovin-ide/kovin/internal/models"
	"github.com/kovin-ide/kovin/internal/storage"
	"github.com/rs/zerolog"
)

type terminalSnapshot struct {
	Logs []models.TerminalLog `json:"logs"`
}

// TerminalStore is the append-only activity feed shown in the dashboard
type TerminalStore struct {
	bus     events.Publisher
	persist persister
	log     zerolog.Logger

	mu   sync.RWMutex
	logs []models.TerminalLog
}

// NewTerminalStore creates a new terminal store. A fresh store starts with
// the welcome lines.
func NewTerminalStore(snap storage.Snapshotter, bus events.Publisher, log zerolog.Logger) *TerminalStore {
	if bus == nil {
		bus = events.Discard{}
	}
	log = log.With().Str("component", "terminal").Logger()

	s := &TerminalStore{
		bus:     bus,
		persist: newPersister(snap, snapshotTerminal, log),
		log:     log,
	}

	var saved terminalSnapshot
	if s.persist.load(&saved) && saved.Logs != nil {
		s.logs = saved.Logs
		return s
	}

	now := models.NowMillis()
	s.logs = []models.TerminalLog{
		{ID: "1", Message: "Welcome to Kovin IDE ⚡", Timestamp: now, Type: models.LogInfo},
		{ID: "2", Message: "Run: compile or deploy your contract...", Timestamp: now, Type: models.LogInfo},
	}
	return s
}

// AddLog appends a line. An empty type means info.
func (s *TerminalStore) AddLog(message string, logType models.LogType) models.TerminalLog {
	if logType == "" {
		logType = models.LogInfo
	}
	entry := models.TerminalLog{
		ID:        "log_" + uuid.New().String(),
		Message:   message,
		Timestamp: models.NowMillis(),
		Type:      logType,
	}

	s.log.Debug().Str("type", string(logType)).Msg(message)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = append(s.logs, entry)
	s.commitLocked("log_added")
	return entry
}

// RunCommand echoes a command typed into the terminal and handles the
// commands it knows. Only "clear" is recognized.
func (s *TerminalStore) RunCommand(command string) {
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}

	s.AddLog("$ "+command, models.LogInfo)
	if command == "clear" {
		s.ClearLogs()
		return
	}
	s.AddLog("Command not recognized: "+command, models.LogWarning)
}

// ClearLogs empties the feed
func (s *TerminalStore) ClearLogs() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = []models.TerminalLog{}
	s.commitLocked("logs_cleared")
}

// Logs returns the feed in append order
func (s *TerminalStore) Logs() []models.TerminalLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TerminalLog, len(s.logs))
	copy(out, s.logs)
	return out
}

func (s *TerminalStore) commitLocked(kind string) {
	s.persist.save(terminalSnapshot{Logs: s.logs})
	s.bus.Publish(events.Event{Store: events.StoreTerminal, Kind: kind})
}
