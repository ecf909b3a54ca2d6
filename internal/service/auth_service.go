// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"time"

	"chatroom-be/internal/dto"
	"chatroom-be/internal/entity"
	"chatroom-be/internal/mapper"
	"chatroom-be/internal/pkg/passhash"
	"chatroom-be/internal/repository/memory"
	"chatroom-be/pkg/events"
	pktNats "chatroom-be/pkg/nats"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, token string) error
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,20}$`)

// profileColors is the fixed palette a new account's color is picked from.
var profileColors = []string{
	"#667eea", "#2196F3", "#4CAF50", "#ff9800", "#f44336",
	"#9C27B0", "#00BCD4", "#795548", "#607D8B", "#E91E63",
}

type authService struct {
	accounts       *memory.AccountStore
	presence       *memory.PresenceRepository
	publisher      IPublisherService
	eventPublisher *pktNats.Publisher
	iterations     int
}

func NewAuthService(
	accounts *memory.AccountStore,
	presence *memory.PresenceRepository,
	publisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	hashIterations int,
) IAuthService {
	return &authService{
		accounts:       accounts,
		presence:       presence,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		iterations:     hashIterations,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	username := strings.TrimSpace(req.Username)

	// Policy checks run before the uniqueness check so a malformed username
	// gets the same error whether or not it happens to be taken.
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidIdentifier
	}
	if len(req.Password) < 6 {
		return nil, ErrWeakPassword
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = username
	}
	if runes := []rune(displayName); len(runes) > 20 {
		displayName = string(runes[:20])
	}

	salt, err := passhash.NewSalt()
	if err != nil {
		return nil, err
	}

	account := entity.Account{
		Username:     username,
		DisplayName:  displayName,
		Color:        colorFor(username),
		PasswordHash: passhash.Hash(req.Password, salt, s.iterations),
		Salt:         salt,
		Iterations:   s.iterations,
		CreatedAt:    time.Now(),
	}

	if err := s.accounts.CreateAccount(account); err != nil {
		return nil, ErrDuplicateIdentifier
	}

	s.publishEvent(ctx, events.NewUserRegistered(username))

	return &dto.RegisterResponse{
		Username:    account.Username,
		DisplayName: account.DisplayName,
		Color:       account.Color,
		CreatedAt:   account.CreatedAt,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	account, err := s.accounts.FindAccount(strings.TrimSpace(req.Username))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !passhash.Verify(req.Password, account.Salt, account.Iterations, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	s.accounts.RecordLogin(account.Username, time.Now())

	session, err := s.accounts.CreateSession(account.Username)
	if err != nil {
		return nil, err
	}

	// A fresh login counts as a heartbeat.
	s.presence.Heartbeat(session.Token, account.Username, account.DisplayName)

	s.publishEvent(ctx, events.NewUserLogin(account.Username, userAgent))

	return &dto.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      mapper.ToAccountDTO(account),
	}, nil
}

// Logout revokes the session and clears its presence entry. Revoking a token
// that is already gone still succeeds.
func (s *authService) Logout(ctx context.Context, token string) error {
	s.accounts.RevokeSession(token)
	s.presence.Remove(token)
	return nil
}

func (s *authService) publishEvent(ctx context.Context, event events.BaseEvent) {
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish %s event: %v\n", event.EventType(), err)
		}
	}
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish %s event to NATS: %v\n", event.EventType(), err)
		}
	}
}

// colorFor deterministically assigns a palette color so the same username
// always renders the same.
func colorFor(username string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(username)))
	return profileColors[h.Sum32()%uint32(len(profileColors))]
}
