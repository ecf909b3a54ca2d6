// FILE: internal/dto/auth_dto.go
package dto

import "time"

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=20,alphanum"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	DisplayName string `json:"display_name" validate:"omitempty,max=20"`
}

type RegisterResponse struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AccountDTO struct {
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	Color        string `json:"color"`
	MessageCount int    `json:"message_count"`
}

type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      AccountDTO `json:"user"`
}
