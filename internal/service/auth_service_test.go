package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"chatroom-be/internal/dto"
	"chatroom-be/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Iteration counts are turned way down in tests; the production default is a
// deliberate slowdown we do not want in the suite.
const testIterations = 64

func newAuthFixture(t *testing.T) (IAuthService, *memory.AccountStore, *memory.PresenceRepository) {
	t.Helper()
	accounts := memory.NewAccountStore(time.Hour)
	presence := memory.NewPresenceRepository(time.Minute, time.Minute, time.Minute)
	svc := NewAuthService(accounts, presence, nil, nil, testIterations)
	return svc, accounts, presence
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     dto.RegisterRequest
		wantErr error
	}{
		{"too short", dto.RegisterRequest{Username: "ab", Password: "secret1"}, ErrInvalidIdentifier},
		{"too long", dto.RegisterRequest{Username: strings.Repeat("a", 21), Password: "secret1"}, ErrInvalidIdentifier},
		{"bad chars", dto.RegisterRequest{Username: "al ice", Password: "secret1"}, ErrInvalidIdentifier},
		{"weak password", dto.RegisterRequest{Username: "alice", Password: "12345"}, ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterDefaultsAndDuplicates(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	// Display name falls back to the username, color comes from the palette.
	assert.Equal(t, "alice", resp.DisplayName)
	assert.NotEmpty(t, resp.Color)

	// The same spelling and a re-cased spelling are both taken.
	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1"})
	assert.ErrorIs(t, err, ErrDuplicateIdentifier)
	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "ALICE", Password: "secret1"})
	assert.ErrorIs(t, err, ErrDuplicateIdentifier)
}

func TestRegisterClampsDisplayNameByRunes(t *testing.T) {
	svc, accounts, _ := newAuthFixture(t)
	ctx := context.Background()

	// 25 two-byte runes; the 20-rune clamp must not split the 20th.
	resp, err := svc.Register(ctx, &dto.RegisterRequest{
		Username:    "alice",
		Password:    "secret1",
		DisplayName: strings.Repeat("é", 25),
	})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 20), resp.DisplayName)
	assert.True(t, utf8.ValidString(resp.DisplayName))

	acc, err := accounts.FindAccount("alice")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 20), acc.DisplayName)
}

func TestColorIsDeterministic(t *testing.T) {
	assert.Equal(t, colorFor("Alice"), colorFor("alice"))
	assert.Contains(t, profileColors, colorFor("bob"))
}

func TestLoginIssuesSession(t *testing.T) {
	svc, accounts, presence := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1", DisplayName: "Alice A"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "secret1"}, "203.0.113.9", "test-agent")
	require.NoError(t, err)
	assert.Len(t, resp.Token, 64)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
	assert.Equal(t, "Alice A", resp.User.DisplayName)

	// The token resolves and the login registered a presence heartbeat.
	sess, err := accounts.ValidateSession(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.Username)
	assert.Len(t, presence.ListOnline(), 1)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	// Wrong password and unknown user return the same error.
	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "wrong"}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "secret1"}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesSessionAndPresence(t *testing.T) {
	svc, accounts, presence := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "secret1"}, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.Token))

	_, err = accounts.ValidateSession(resp.Token)
	assert.True(t, errors.Is(err, memory.ErrSessionNotFound))
	assert.Empty(t, presence.ListOnline())

	// Logging out twice is fine.
	assert.NoError(t, svc.Logout(ctx, resp.Token))
}
