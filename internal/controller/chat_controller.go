// FILE: internal/controller/chat_controller.go
package controller

import (
	"errors"
	"strconv"

	"chatroom-be/internal/dto"
	"chatroom-be/internal/pkg/serverutils"
	"chatroom-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, authRequired fiber.Handler)
	Send(ctx *fiber.Ctx) error
	Poll(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router, authRequired fiber.Handler) {
	h := r.Group("/chat", authRequired)
	h.Post("/send", c.Send)
	h.Get("/messages", c.Poll)
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return badRequest(ctx, err.Error())
	}

	username, _ := ctx.Locals(serverutils.LocalUsername).(string)

	res, err := c.service.Post(ctx.Context(), username, &req, ctx.IP())
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    401,
				"message": err.Error(),
			})
		}
		return badRequest(ctx, err.Error())
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Message sent",
		"data":    res,
	})
}

func (c *chatController) Poll(ctx *fiber.Ctx) error {
	sinceId, err := strconv.ParseInt(ctx.Query("since", "0"), 10, 64)
	if err != nil {
		return badRequest(ctx, "invalid since id")
	}

	res, err := c.service.Poll(ctx.Context(), sinceId)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    res,
	})
}
