package controller

import (
	"errors"

	"howdy-portal-be/internal/dto"
	"howdy-portal-be/internal/pkg/logger"
	"howdy-portal-be/internal/pkg/serverutils"
	"howdy-portal-be/internal/repository/contract"
	"howdy-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router, authMw fiber.Handler)
	Checkout(ctx *fiber.Ctx) error
	GetOrder(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
	logger  logger.ILogger
}

func NewPaymentController(service service.IPaymentService, log logger.ILogger) IPaymentController {
	return &paymentController{service: service, logger: log}
}

func (c *paymentController) RegisterRoutes(r fiber.Router, authMw fiber.Handler) {
	h := r.Group("/payment")
	h.Post("/midtrans/notification", c.Webhook)

	h.Post("/checkout", authMw, c.Checkout)
	h.Get("/orders/:id", authMw, c.GetOrder)
}

func (c *paymentController) Checkout(ctx *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Checkout(ctx.UserContext(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}

func (c *paymentController) GetOrder(ctx *fiber.Ctx) error {
	res, err := c.service.GetOrder(ctx.UserContext(), serverutils.SessionID(ctx), ctx.Params("id"))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Order status", res))
}

// Webhook answers Midtrans with a bare status. Anything but 2xx makes
// Midtrans retry, so only transient failures return 500.
func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		c.logger.Warn("Payment", "Webhook body parsing failed", map[string]interface{}{"error": err.Error()})
		return ctx.SendStatus(fiber.StatusBadRequest)
	}

	err := c.service.HandleNotification(ctx.UserContext(), &req)
	switch {
	case err == nil:
		return ctx.SendStatus(fiber.StatusOK)
	case errors.Is(err, service.ErrInvalidSignature):
		return ctx.SendStatus(fiber.StatusForbidden)
	case errors.Is(err, contract.ErrOrderNotFound):
		return ctx.SendStatus(fiber.StatusNotFound)
	default:
		c.logger.Error("Payment", "Webhook handling failed", map[string]interface{}{
			"order_id": req.OrderId,
			"error":    err.Error(),
		})
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}
}
