// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chatroom-be/internal/dto"
	"chatroom-be/internal/entity"
	"chatroom-be/internal/mapper"
	"chatroom-be/internal/repository/memory"
	"chatroom-be/pkg/events"
	pktNats "chatroom-be/pkg/nats"
)

type IChatService interface {
	Post(ctx context.Context, username string, req *dto.SendMessageRequest, ipAddress string) (*dto.SendMessageResponse, error)
	Poll(ctx context.Context, sinceId int64) (*dto.PollMessagesResponse, error)
}

type chatService struct {
	accounts       *memory.AccountStore
	log            *memory.MessageLog
	publisher      IPublisherService
	eventPublisher *pktNats.Publisher
	maxLen         int
}

func NewChatService(
	accounts *memory.AccountStore,
	log *memory.MessageLog,
	publisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	messageMaxLen int,
) IChatService {
	return &chatService{
		accounts:       accounts,
		log:            log,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		maxLen:         messageMaxLen,
	}
}

func (s *chatService) Post(ctx context.Context, username string, req *dto.SendMessageRequest, ipAddress string) (*dto.SendMessageResponse, error) {
	// Clamp first, then trim: an over-long message is cut, not rejected.
	// The clamp counts runes so a multibyte character is never split.
	text := req.Text
	if runes := []rune(text); len(runes) > s.maxLen {
		text = string(runes[:s.maxLen])
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	account, err := s.accounts.FindAccount(username)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	// ReplyTo is not validated against the retained log: the target may
	// already have been truncated away and that is fine.
	msg := s.log.Append(entity.Message{
		Username:    account.Username,
		DisplayName: account.DisplayName,
		Color:       account.Color,
		Text:        text,
		ReplyTo:     req.ReplyTo,
		CreatedAt:   time.Now(),
		IpAddress:   ipAddress,
	})

	s.accounts.IncrementMessageCount(account.Username)

	event := events.NewMessagePosted(account.Username, msg.Id)
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

	return &dto.SendMessageResponse{MessageId: msg.Id}, nil
}

func (s *chatService) Poll(ctx context.Context, sinceId int64) (*dto.PollMessagesResponse, error) {
	return &dto.PollMessagesResponse{
		Messages:     mapper.ToMessageDTOs(s.log.Since(sinceId)),
		LastId:       s.log.LastID(),
		MessageCount: s.log.Count(),
	}, nil
}
