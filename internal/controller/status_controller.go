// FILE: internal/controller/status_controller.go
package controller

import (
	"time"

	"chatroom-be/internal/repository/memory"

	"github.com/gofiber/fiber/v2"
)

type IStatusController interface {
	RegisterRoutes(r fiber.Router)
	Status(ctx *fiber.Ctx) error
}

// statusController serves the unauthenticated health/status endpoint.
type statusController struct {
	log       *memory.MessageLog
	startedAt time.Time
}

func NewStatusController(log *memory.MessageLog) IStatusController {
	return &statusController{log: log, startedAt: time.Now()}
}

func (c *statusController) RegisterRoutes(r fiber.Router) {
	r.Get("/status", c.Status)
}

func (c *statusController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status":         "online",
		"server":         "Chatroom Server",
		"version":        "1.0.0",
		"timestamp":      time.Now().Unix(),
		"total_messages": c.log.Count(),
		"uptime_seconds": int64(time.Since(c.startedAt).Seconds()),
		"features":       []string{"text_chat", "presence", "typing_indicators", "snapshot_backup"},
	})
}
