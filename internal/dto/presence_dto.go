// FILE: internal/dto/presence_dto.go
package dto

type SetTypingRequest struct {
	Typing bool `json:"typing"`
}

type PresenceUserDTO struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type PresenceListResponse struct {
	Users []PresenceUserDTO `json:"users"`
	Count int               `json:"count"`
}
