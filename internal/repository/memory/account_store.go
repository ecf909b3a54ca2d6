package memory

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"chatroom-be/internal/entity"
)

var (
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// AccountStore owns both the credential records and the live sessions behind
// a single mutex: login reads credentials and writes a session in one critical
// section. No caller ever touches the maps directly.
type AccountStore struct {
	mu         sync.Mutex
	accounts   map[string]*entity.Account // key: lowercased username
	sessions   map[string]*entity.Session // key: token
	sessionTTL time.Duration
}

func NewAccountStore(sessionTTL time.Duration) *AccountStore {
	return &AccountStore{
		accounts:   make(map[string]*entity.Account),
		sessions:   make(map[string]*entity.Session),
		sessionTTL: sessionTTL,
	}
}

// CreateAccount inserts a new account. The uniqueness check compares
// usernames case-insensitively.
func (s *AccountStore) CreateAccount(acc entity.Account) error {
	key := strings.ToLower(acc.Username)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[key]; exists {
		return ErrAccountExists
	}
	stored := acc
	s.accounts[key] = &stored
	return nil
}

// FindAccount returns a copy of the account record.
func (s *AccountStore) FindAccount(username string) (entity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[strings.ToLower(username)]
	if !ok {
		return entity.Account{}, ErrAccountNotFound
	}
	return *acc, nil
}

// RecordLogin stamps the account's last-seen time.
func (s *AccountStore) RecordLogin(username string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acc, ok := s.accounts[strings.ToLower(username)]; ok {
		acc.LastSeenAt = at
	}
}

// IncrementMessageCount bumps the author's cumulative message counter.
func (s *AccountStore) IncrementMessageCount(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acc, ok := s.accounts[strings.ToLower(username)]; ok {
		acc.MessageCount++
	}
}

// CreateSession issues a fresh opaque token bound to the account. A token
// collision means the generator is broken; we regenerate rather than
// overwrite the existing session.
func (s *AccountStore) CreateSession(username string) (entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[strings.ToLower(username)]; !ok {
		return entity.Session{}, ErrAccountNotFound
	}

	var token string
	for {
		t, err := generateToken()
		if err != nil {
			return entity.Session{}, err
		}
		if _, taken := s.sessions[t]; !taken {
			token = t
			break
		}
	}

	now := time.Now()
	sess := &entity.Session{
		Token:        token,
		Username:     username,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.sessionTTL),
		LastActivity: now,
	}
	s.sessions[token] = sess
	return *sess, nil
}

// ValidateSession resolves a token to its session. An absent token yields
// ErrSessionNotFound; a present but expired one is removed and yields
// ErrSessionExpired so callers can tell the two apart.
func (s *AccountStore) ValidateSession(token string) (entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return entity.Session{}, ErrSessionNotFound
	}
	if sess.Expired(time.Now()) {
		delete(s.sessions, token)
		return entity.Session{}, ErrSessionExpired
	}
	return *sess, nil
}

// TouchSession refreshes the session's last-activity time. The absolute
// expiry never slides.
func (s *AccountStore) TouchSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[token]; ok {
		sess.LastActivity = time.Now()
	}
}

// RevokeSession removes the session. Revoking an unknown token is a no-op:
// logout stays idempotent.
func (s *AccountStore) RevokeSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
}

// SweepExpiredSessions removes every session past its absolute expiry and
// returns how many were dropped.
func (s *AccountStore) SweepExpiredSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for token, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// SessionCount returns the number of live sessions.
func (s *AccountStore) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SnapshotAccounts copies out every account, sorted by username for a
// deterministic blob. The copy is taken under the lock; callers serialize
// and ship it after the lock is released.
func (s *AccountStore) SnapshotAccounts() []entity.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, *acc)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Username) < strings.ToLower(out[j].Username)
	})
	return out
}

// RestoreAccounts replaces the whole credential store with the given records
// and drops every live session, since a session must never outlive the
// account set it was issued against.
func (s *AccountStore) RestoreAccounts(accounts []entity.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = make(map[string]*entity.Account, len(accounts))
	for _, acc := range accounts {
		stored := acc
		s.accounts[strings.ToLower(acc.Username)] = &stored
	}
	s.sessions = make(map[string]*entity.Session)
}

// generateToken draws 32 bytes (256 bits) from the system CSPRNG.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
