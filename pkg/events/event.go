package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common concrete implementation used across the service.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes emitted by the chat engine.
const (
	TypeUserRegistered = "USER_REGISTERED"
	TypeUserLogin      = "USER_LOGIN"
	TypeMessagePosted  = "MESSAGE_POSTED"
)

func NewUserRegistered(username string) BaseEvent {
	return BaseEvent{
		Type:       TypeUserRegistered,
		Data:       map[string]interface{}{"username": username},
		OccurredAt: time.Now(),
	}
}

func NewUserLogin(username, device string) BaseEvent {
	return BaseEvent{
		Type: TypeUserLogin,
		Data: map[string]interface{}{
			"username": username,
			"device":   device,
			"time":     time.Now().Format(time.RFC822),
		},
		OccurredAt: time.Now(),
	}
}

func NewMessagePosted(username string, messageID int64) BaseEvent {
	return BaseEvent{
		Type: TypeMessagePosted,
		Data: map[string]interface{}{
			"username":   username,
			"message_id": messageID,
		},
		OccurredAt: time.Now(),
	}
}
