// FILE: internal/pkg/serverutils/session_middleware.go
package serverutils

import (
	"chatroom-be/internal/repository/memory"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by SessionMiddleware for downstream handlers.
const (
	LocalToken    = "session_token"
	LocalUsername = "username"
)

// SessionMiddleware authenticates requests against the opaque-token session
// store. A missing, unknown or expired token always gets an explicit 401,
// never a silent pass-through. Valid requests slide the session's
// last-activity time and refresh the caller's presence entry.
func SessionMiddleware(accounts *memory.AccountStore, presence *memory.PresenceRepository) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return unauthorized(ctx, "Missing token")
		}
		token := authHeader[7:]

		session, err := accounts.ValidateSession(token)
		if err != nil {
			// memory.ErrSessionExpired and memory.ErrSessionNotFound both
			// mean re-login; the message hints which one it was.
			if err == memory.ErrSessionExpired {
				return unauthorized(ctx, "Session expired")
			}
			return unauthorized(ctx, "Invalid token")
		}

		accounts.TouchSession(token)

		displayName := session.Username
		if account, accErr := accounts.FindAccount(session.Username); accErr == nil {
			displayName = account.DisplayName
		}
		presence.Heartbeat(token, session.Username, displayName)

		ctx.Locals(LocalToken, token)
		ctx.Locals(LocalUsername, session.Username)
		return ctx.Next()
	}
}

func unauthorized(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"code":    401,
		"message": message,
	})
}
