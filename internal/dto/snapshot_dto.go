// FILE: internal/dto/snapshot_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotEnvelope is the wire format pushed to the durability backend.
// EnvelopeVersion guards against restoring a blob written by an
// incompatible build.
const EnvelopeVersion = 1

type SnapshotEnvelope struct {
	Version  int               `json:"version"`
	Id       uuid.UUID         `json:"id"`
	TakenAt  time.Time         `json:"taken_at"`
	Accounts []SnapshotAccount `json:"accounts"`
	Messages []SnapshotMessage `json:"messages"`
}

type SnapshotAccount struct {
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	Color        string    `json:"color"`
	PasswordHash []byte    `json:"password_hash"`
	Salt         []byte    `json:"salt"`
	Iterations   int       `json:"iterations"`
	CreatedAt    time.Time `json:"created_at"`
	LastSeenAt   time.Time `json:"last_seen_at"`
	MessageCount int       `json:"message_count"`
}

type SnapshotMessage struct {
	Id          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Color       string    `json:"color"`
	Text        string    `json:"text"`
	ReplyTo     *int64    `json:"reply_to,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	IpAddress   string    `json:"ip,omitempty"`
}
