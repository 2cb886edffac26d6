package controller

import (
	"howdy-portal-be/internal/pkg/serverutils"
	"howdy-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INewsController interface {
	RegisterRoutes(r fiber.Router, authMw fiber.Handler)
	List(ctx *fiber.Ctx) error
	ToggleBrief(ctx *fiber.Ctx) error
}

type newsController struct {
	service service.INewsService
}

func NewNewsController(service service.INewsService) INewsController {
	return &newsController{service: service}
}

func (c *newsController) RegisterRoutes(r fiber.Router, authMw fiber.Handler) {
	h := r.Group("/news", authMw)
	h.Get("/", c.List)
	h.Post("/:index/brief", c.ToggleBrief)
}

func (c *newsController) List(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("News", c.service.List(ctx.UserContext())))
}

func (c *newsController) ToggleBrief(ctx *fiber.Ctx) error {
	index, err := ctx.ParamsInt("index")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "index must be a number"))
	}

	res, err := c.service.ToggleBrief(ctx.UserContext(), serverutils.SessionID(ctx), index)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Brief toggled", res))
}
