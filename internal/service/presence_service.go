// FILE: internal/service/presence_service.go
package service

import (
	"context"

	"chatroom-be/internal/dto"
	"chatroom-be/internal/mapper"
	"chatroom-be/internal/repository/memory"
)

type IPresenceService interface {
	Heartbeat(ctx context.Context, token, username string)
	SetTyping(ctx context.Context, username string, typing bool)
	ListOnline(ctx context.Context) *dto.PresenceListResponse
	ListTyping(ctx context.Context, excludeUsername string) *dto.PresenceListResponse
}

type presenceService struct {
	accounts *memory.AccountStore
	presence *memory.PresenceRepository
}

func NewPresenceService(accounts *memory.AccountStore, presence *memory.PresenceRepository) IPresenceService {
	return &presenceService{accounts: accounts, presence: presence}
}

func (s *presenceService) Heartbeat(ctx context.Context, token, username string) {
	displayName := username
	if account, err := s.accounts.FindAccount(username); err == nil {
		displayName = account.DisplayName
	}
	s.presence.Heartbeat(token, username, displayName)
}

func (s *presenceService) SetTyping(ctx context.Context, username string, typing bool) {
	displayName := username
	if account, err := s.accounts.FindAccount(username); err == nil {
		displayName = account.DisplayName
	}
	s.presence.SetTyping(username, displayName, typing)
}

func (s *presenceService) ListOnline(ctx context.Context) *dto.PresenceListResponse {
	users := mapper.ToPresenceUserDTOs(s.presence.ListOnline())
	return &dto.PresenceListResponse{Users: users, Count: len(users)}
}

func (s *presenceService) ListTyping(ctx context.Context, excludeUsername string) *dto.PresenceListResponse {
	users := mapper.ToPresenceUserDTOs(s.presence.ListTyping(excludeUsername))
	return &dto.PresenceListResponse{Users: users, Count: len(users)}
}
