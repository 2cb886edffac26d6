package controller

import (
	"howdy-portal-be/internal/dto"
	"howdy-portal-be/internal/pkg/serverutils"
	"howdy-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPortalController interface {
	RegisterRoutes(r fiber.Router, authMw fiber.Handler)
	GetState(ctx *fiber.Ctx) error
	Dashboard(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	SelectResult(ctx *fiber.Ctx) error
	Navigate(ctx *fiber.Ctx) error
	ToggleMenu(ctx *fiber.Ctx) error
	ToggleSidebar(ctx *fiber.Ctx) error
	SetTheme(ctx *fiber.Ctx) error
	OpenModal(ctx *fiber.Ctx) error
	CloseModal(ctx *fiber.Ctx) error
}

type portalController struct {
	service service.IPortalService
}

func NewPortalController(service service.IPortalService) IPortalController {
	return &portalController{service: service}
}

func (c *portalController) RegisterRoutes(r fiber.Router, authMw fiber.Handler) {
	h := r.Group("/portal", authMw)
	h.Get("/state", c.GetState)
	h.Get("/dashboard", c.Dashboard)
	h.Post("/search", c.Search)
	h.Post("/search/select", c.SelectResult)
	h.Post("/navigate", c.Navigate)
	h.Post("/menu/:category/toggle", c.ToggleMenu)
	h.Post("/sidebar/toggle", c.ToggleSidebar)
	h.Put("/theme", c.SetTheme)
	h.Post("/modal/close", c.CloseModal)
	h.Post("/modal/:name/open", c.OpenModal)
}

func (c *portalController) GetState(ctx *fiber.Ctx) error {
	res, err := c.service.GetState(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Portal state", res))
}

func (c *portalController) Dashboard(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Dashboard", c.service.Dashboard(ctx.UserContext())))
}

func (c *portalController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.UserContext(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Search results", res))
}

func (c *portalController) SelectResult(ctx *fiber.Ctx) error {
	var req dto.SelectResultRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SelectResult(ctx.UserContext(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Navigated", res))
}

func (c *portalController) Navigate(ctx *fiber.Ctx) error {
	var req dto.NavigateRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Navigate(ctx.UserContext(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Navigated", res))
}

func (c *portalController) ToggleMenu(ctx *fiber.Ctx) error {
	// Category ids contain spaces and "&", so the param arrives escaped.
	category, err := pathParam(ctx, "category")
	if err != nil {
		return err
	}

	res, err := c.service.ToggleMenu(ctx.UserContext(), serverutils.SessionID(ctx), category)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Menu toggled", res))
}

func (c *portalController) ToggleSidebar(ctx *fiber.Ctx) error {
	res, err := c.service.ToggleSidebar(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Sidebar toggled", res))
}

func (c *portalController) SetTheme(ctx *fiber.Ctx) error {
	var req dto.SetThemeRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SetTheme(ctx.UserContext(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Theme updated", res))
}

func (c *portalController) OpenModal(ctx *fiber.Ctx) error {
	res, err := c.service.OpenModal(ctx.UserContext(), serverutils.SessionID(ctx), ctx.Params("name"))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Modal opened", res))
}

func (c *portalController) CloseModal(ctx *fiber.Ctx) error {
	res, err := c.service.CloseModal(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Modal closed", res))
}
