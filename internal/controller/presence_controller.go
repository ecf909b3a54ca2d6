// FILE: internal/controller/presence_controller.go
package controller

import (
	"chatroom-be/internal/dto"
	"chatroom-be/internal/pkg/serverutils"
	"chatroom-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPresenceController interface {
	RegisterRoutes(r fiber.Router, authRequired fiber.Handler)
	Heartbeat(ctx *fiber.Ctx) error
	SetTyping(ctx *fiber.Ctx) error
	ListOnline(ctx *fiber.Ctx) error
	ListTyping(ctx *fiber.Ctx) error
}

type presenceController struct {
	service service.IPresenceService
}

func NewPresenceController(service service.IPresenceService) IPresenceController {
	return &presenceController{service: service}
}

func (c *presenceController) RegisterRoutes(r fiber.Router, authRequired fiber.Handler) {
	h := r.Group("/presence", authRequired)
	h.Post("/heartbeat", c.Heartbeat)
	h.Post("/typing", c.SetTyping)
	h.Get("/online", c.ListOnline)
	h.Get("/typing", c.ListTyping)
}

func (c *presenceController) Heartbeat(ctx *fiber.Ctx) error {
	token, _ := ctx.Locals(serverutils.LocalToken).(string)
	username, _ := ctx.Locals(serverutils.LocalUsername).(string)

	c.service.Heartbeat(ctx.Context(), token, username)
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    nil,
	})
}

func (c *presenceController) SetTyping(ctx *fiber.Ctx) error {
	var req dto.SetTypingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	username, _ := ctx.Locals(serverutils.LocalUsername).(string)

	c.service.SetTyping(ctx.Context(), username, req.Typing)
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    nil,
	})
}

func (c *presenceController) ListOnline(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    c.service.ListOnline(ctx.Context()),
	})
}

func (c *presenceController) ListTyping(ctx *fiber.Ctx) error {
	username, _ := ctx.Locals(serverutils.LocalUsername).(string)

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    c.service.ListTyping(ctx.Context(), username),
	})
}
