// FILE: internal/entity/message_entity.go
package entity

import "time"

// Message is one retained chat message. DisplayName and Color are snapshots
// taken at post time so later profile edits do not rewrite history.
// IpAddress is kept for moderation only and never leaves the server.
type Message struct {
	Id          int64
	Username    string
	DisplayName string
	Color       string
	Text        string
	ReplyTo     *int64
	CreatedAt   time.Time
	IpAddress   string
}
