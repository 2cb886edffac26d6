package controller

import (
	"howdy-portal-be/internal/dto"
	"howdy-portal-be/internal/pkg/serverutils"
	"howdy-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, authMw fiber.Handler)
	Open(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router, authMw fiber.Handler) {
	h := r.Group("/chat", authMw)
	h.Post("/open", c.Open)
	h.Post("/close", c.Close)
	h.Post("/messages", c.SendMessage)
}

func (c *chatController) Open(ctx *fiber.Ctx) error {
	res, err := c.service.Open(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat opened", res))
}

func (c *chatController) Close(ctx *fiber.Ctx) error {
	res, err := c.service.Close(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat closed", res))
}

// SendMessage waits for the reply unless ?async=true, in which case it
// answers 202 and the reply is pushed over the session's WebSocket.
func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	sessionID := serverutils.SessionID(ctx)

	if ctx.QueryBool("async", false) {
		res, err := c.service.SendMessageAsync(ctx.UserContext(), sessionID, &req)
		if err != nil {
			return writeError(ctx, err)
		}
		return ctx.Status(fiber.StatusAccepted).JSON(serverutils.Response[*dto.SendChatResponse]{
			Success: true,
			Code:    fiber.StatusAccepted,
			Message: "Reply pending",
			Data:    res,
		})
	}

	res, err := c.service.SendMessage(ctx.UserContext(), sessionID, &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Reply received", res))
}
