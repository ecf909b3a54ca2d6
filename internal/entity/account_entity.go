// FILE: internal/entity/account_entity.go
package entity

import "time"

// Account is a registered chatroom user. Usernames are unique with a
// case-insensitive comparison; the password is stored as a salted,
// iterated hash only.
type Account struct {
	Username     string
	DisplayName  string
	Color        string
	PasswordHash []byte
	Salt         []byte
	Iterations   int
	CreatedAt    time.Time
	LastSeenAt   time.Time
	MessageCount int
}
