// FILE: internal/entity/presence_entity.go
package entity

// PresenceUser is the read-only view returned by the online and typing
// listings.
type PresenceUser struct {
	Username    string
	DisplayName string
}
