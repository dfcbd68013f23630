package services

import (
	"context"
	"testing"

	"github.com/kovin-ide/kovin/internal/apperr"
	"github.com/kovin-ide/kovin/internal/backend"
	"github.com/kovin-ide/kovin/internal/models"
	"github.com/kovin-ide/kovin/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthStore_CheckAuth(t *testing.T) {
	alice := &models.UserAccount{Name: "Alice", Email: "alice@example.com", Sub: "auth0|1"}

	tests := []struct {
		name string
		resp *backend.UserResponse
		err  error
		want bool
	}{
		{"authenticated", &backend.UserResponse{Authenticated: true, User: alice}, nil, true},
		{"anonymous", &backend.UserResponse{Authenticated: false}, nil, false},
		{"authenticated without user", &backend.UserResponse{Authenticated: true}, nil, false},
		{"rejected", nil, apperr.New(apperr.CodeNotAuthenticated, "Not authenticated"), false},
		{"unreachable", nil, apperr.New(apperr.CodeNetworkOrServer, "connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend()
			fb.user = func(context.Context) (*backend.UserResponse, error) { return tt.resp, tt.err }
			s := NewAuthStore(fb, nil, nil, zerolog.Nop())

			assert.Equal(t, tt.want, s.CheckAuth(context.Background()))
			assert.Equal(t, tt.want, s.IsAuthenticated())
			assert.False(t, s.IsLoading())
			if tt.want {
				require.NotNil(t, s.User())
				assert.Equal(t, "Alice", s.User().Name)
			} else {
				assert.Nil(t, s.User())
			}
		})
	}
}

func TestAuthStore_Logout(t *testing.T) {
	snap := storage.NewMemory()
	fb := newFakeBackend()
	fb.user = func(context.Context) (*backend.UserResponse, error) {
		return &backend.UserResponse{Authenticated: true, User: &models.UserAccount{Name: "Bob"}}, nil
	}

	s := NewAuthStore(fb, snap, nil, zerolog.Nop())
	s.SetSessionCookie("abc")
	require.True(t, s.CheckAuth(context.Background()))

	restored := NewAuthStore(fb, snap, nil, zerolog.Nop())
	assert.True(t, restored.IsAuthenticated())

	assert.Equal(t, "http://backend.test/logout", restored.Logout())
	assert.False(t, restored.IsAuthenticated())
	assert.Nil(t, restored.User())
	assert.Equal(t, "", fb.cookie)
	assert.Equal(t, "http://backend.test/login", restored.LoginURL())
}
