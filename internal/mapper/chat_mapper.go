package mapper

import (
	"chatroom-be/internal/dto"
	"chatroom-be/internal/entity"
)

// ToMessageDTO strips the moderation-only origin address before a message
// leaves the server.
func ToMessageDTO(m entity.Message) dto.MessageDTO {
	return dto.MessageDTO{
		Id:          m.Id,
		Username:    m.Username,
		DisplayName: m.DisplayName,
		Color:       m.Color,
		Text:        m.Text,
		ReplyTo:     m.ReplyTo,
		Timestamp:   m.CreatedAt,
	}
}

func ToMessageDTOs(msgs []entity.Message) []dto.MessageDTO {
	out := make([]dto.MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ToMessageDTO(m))
	}
	return out
}

func ToAccountDTO(a entity.Account) dto.AccountDTO {
	return dto.AccountDTO{
		Username:     a.Username,
		DisplayName:  a.DisplayName,
		Color:        a.Color,
		MessageCount: a.MessageCount,
	}
}

func ToPresenceUserDTOs(users []entity.PresenceUser) []dto.PresenceUserDTO {
	out := make([]dto.PresenceUserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, dto.PresenceUserDTO{Username: u.Username, DisplayName: u.DisplayName})
	}
	return out
}
