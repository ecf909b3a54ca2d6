package mapper

import (
	"chatroom-be/internal/dto"
	"chatroom-be/internal/entity"
)

func ToSnapshotAccounts(accounts []entity.Account) []dto.SnapshotAccount {
	out := make([]dto.SnapshotAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, dto.SnapshotAccount{
			Username:     a.Username,
			DisplayName:  a.DisplayName,
			Color:        a.Color,
			PasswordHash: a.PasswordHash,
			Salt:         a.Salt,
			Iterations:   a.Iterations,
			CreatedAt:    a.CreatedAt,
			LastSeenAt:   a.LastSeenAt,
			MessageCount: a.MessageCount,
		})
	}
	return out
}

func FromSnapshotAccounts(accounts []dto.SnapshotAccount) []entity.Account {
	out := make([]entity.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, entity.Account{
			Username:     a.Username,
			DisplayName:  a.DisplayName,
			Color:        a.Color,
			PasswordHash: a.PasswordHash,
			Salt:         a.Salt,
			Iterations:   a.Iterations,
			CreatedAt:    a.CreatedAt,
			LastSeenAt:   a.LastSeenAt,
			MessageCount: a.MessageCount,
		})
	}
	return out
}

func ToSnapshotMessages(msgs []entity.Message) []dto.SnapshotMessage {
	out := make([]dto.SnapshotMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, dto.SnapshotMessage{
			Id:          m.Id,
			Username:    m.Username,
			DisplayName: m.DisplayName,
			Color:       m.Color,
			Text:        m.Text,
			ReplyTo:     m.ReplyTo,
			CreatedAt:   m.CreatedAt,
			IpAddress:   m.IpAddress,
		})
	}
	return out
}

func FromSnapshotMessages(msgs []dto.SnapshotMessage) []entity.Message {
	out := make([]entity.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, entity.Message{
			Id:          m.Id,
			Username:    m.Username,
			DisplayName: m.DisplayName,
			Color:       m.Color,
			Text:        m.Text,
			ReplyTo:     m.ReplyTo,
			CreatedAt:   m.CreatedAt,
			IpAddress:   m.IpAddress,
		})
	}
	return out
}
