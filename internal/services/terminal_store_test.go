package services

import (
	"testing"

	"github.com/kovin-ide/kovin/internal/models"
	"github.com/kovin-ide/kovin/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalStore_WelcomeLines(t *testing.T) {
	s := NewTerminalStore(nil, nil, zerolog.Nop())

	logs := s.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "1", logs[0].ID)
	assert.Equal(t, "Welcome to Kovin IDE ⚡", logs[0].Message)
	assert.Equal(t, "2", logs[1].ID)
}

func TestTerminalStore_AddLog(t *testing.T) {
	s := NewTerminalStore(nil, nil, zerolog.Nop())
	s.ClearLogs()

	entry := s.AddLog("compiled", "")
	assert.Equal(t, models.LogInfo, entry.Type)
	assert.Contains(t, entry.ID, "log_")

	s.AddLog("failed", models.LogError)
	logs := s.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "compiled", logs[0].Message)
	assert.Equal(t, models.LogError, logs[1].Type)
}

func TestTerminalStore_RunCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    []string
	}{
		{"unknown", "ls -la", []string{"$ ls -la", "Command not recognized: ls -la"}},
		{"clear", " clear ", []string{}},
		{"blank", "   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTerminalStore(nil, nil, zerolog.Nop())
			s.ClearLogs()
			s.RunCommand(tt.command)

			got := []string{}
			for _, l := range s.Logs() {
				got = append(got, l.Message)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerminalStore_PersistsAcrossRestart(t *testing.T) {
	snap := storage.NewMemory()
	s := NewTerminalStore(snap, nil, zerolog.Nop())
	s.ClearLogs()
	s.AddLog("deployed", models.LogSuccess)

	restored := NewTerminalStore(snap, nil, zerolog.Nop())
	assert.Equal(t, s.Logs(), restored.Logs())
}
