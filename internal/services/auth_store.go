package services

import (
	"context"
	"sync"

	"github.com/kovin-ide/kovin/internal/backend"
	"github.com/kovin-ide/kovin/internal/events"
	"github.com/kovin-ide/kovin/internal/models"
	"github.com/kovin-ide/kovin/internal/storage"
	"github.com/rs/zerolog"
)

// SessionClient is the part of the backend the auth store talks to
type SessionClient interface {
	CurrentUser(ctx context.Context) (*backend.UserResponse, error)
	SetSessionCookie(value string)
	LoginURL() string
	LogoutURL() string
}

type authSnapshot struct {
	User            *models.UserAccount `json:"user"`
	IsAuthenticated bool                `json:"isAuthenticated"`
}

// AuthStore caches the backend session identity
type AuthStore struct {
	client  SessionClient
	bus     events.Publisher
	persist persister
	log     zerolog.Logger

	mu              sync.RWMutex
	user            *models.UserAccount
	isAuthenticated bool
	isLoading       bool
}

// NewAuthStore creates a new auth store and restores its snapshot
func NewAuthStore(client SessionClient, snap storage.Snapshotter, bus events.Publisher, log zerolog.Logger) *AuthStore {
	if bus == nil {
		bus = events.Discard{}
	}
	log = log.With().Str("component", "auth").Logger()

	s := &AuthStore{
		client:  client,
		bus:     bus,
		persist: newPersister(snap, snapshotAuth, log),
		log:     log,
	}

	var saved authSnapshot
	if s.persist.load(&saved) {
		s.user = saved.User
		s.isAuthenticated = saved.IsAuthenticated && saved.User != nil
	}

	return s
}

// CheckAuth asks the backend who the session belongs to. Any failure,
// including a rejected session, leaves the store unauthenticated.
func (s *AuthStore) CheckAuth(ctx context.Context) bool {
	s.mu.Lock()
	s.isLoading = true
	s.mu.Unlock()

	resp, err := s.client.CurrentUser(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.isLoading = false
	if err != nil || resp == nil || !resp.Authenticated || resp.User == nil {
		if err != nil {
			s.log.Warn().Err(err).Msg("session check failed")
		}
		s.user = nil
		s.isAuthenticated = false
		s.commitLocked("signed_out")
		return false
	}

	user := *resp.User
	s.user = &user
	s.isAuthenticated = true
	s.commitLocked("signed_in")
	return true
}

// SetSessionCookie replaces the backend session cookie
func (s *AuthStore) SetSessionCookie(value string) {
	s.client.SetSessionCookie(value)
}

// Logout forgets the session and returns the backend logout page
func (s *AuthStore) Logout() string {
	s.client.SetSessionCookie("")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.isAuthenticated = false
	s.commitLocked("signed_out")
	return s.client.LogoutURL()
}

// LoginURL returns the backend login page
func (s *AuthStore) LoginURL() string {
	return s.client.LoginURL()
}

// LogoutURL returns the backend logout page
func (s *AuthStore) LogoutURL() string {
	return s.client.LogoutURL()
}

// User returns the signed-in user, or nil
func (s *AuthStore) User() *models.UserAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether the last session check succeeded
func (s *AuthStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAuthenticated
}

// IsLoading reports whether a session check is in flight
func (s *AuthStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *AuthStore) commitLocked(kind string) {
	s.persist.save(authSnapshot{User: s.user, IsAuthenticated: s.isAuthenticated})
	s.bus.Publish(events.Event{Store: events.StoreAuth, Kind: kind})
}
