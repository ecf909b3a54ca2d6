// FILE: internal/dto/chat_dto.go
package dto

import "time"

type SendMessageRequest struct {
	Text    string `json:"text" validate:"required"`
	ReplyTo *int64 `json:"reply_to" validate:"omitempty,gt=0"`
}

type SendMessageResponse struct {
	MessageId int64 `json:"message_id"`
}

type MessageDTO struct {
	Id          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Color       string    `json:"color"`
	Text        string    `json:"text"`
	ReplyTo     *int64    `json:"reply_to,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// PollMessagesResponse mirrors the long-standing polling contract:
// everything after the bookmark, the newest retained id and the total count.
type PollMessagesResponse struct {
	Messages     []MessageDTO `json:"messages"`
	LastId       int64        `json:"lastId"`
	MessageCount int          `json:"messageCount"`
}
