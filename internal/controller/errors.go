package controller

import (
	"errors"

	"howdy-portal-be/internal/pkg/serverutils"
	"howdy-portal-be/internal/repository/contract"
	"howdy-portal-be/internal/service"
	"howdy-portal-be/pkg/portal"

	"github.com/gofiber/fiber/v2"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, contract.ErrSessionNotFound):
		return fiber.StatusUnauthorized
	case errors.Is(err, contract.ErrOrderNotFound),
		errors.Is(err, service.ErrNewsNotFound),
		errors.Is(err, service.ErrResultNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, portal.ErrUnknownCategory),
		errors.Is(err, portal.ErrUnknownTheme),
		errors.Is(err, portal.ErrUnknownModal),
		errors.Is(err, portal.ErrEmptyMessage):
		return fiber.StatusBadRequest
	case errors.Is(err, portal.ErrChatInFlight),
		errors.Is(err, service.ErrBriefInFlight):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrPaymentGateway):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError answers known service errors directly. Anything else goes to
// the app's ErrorHandler, which logs it.
func writeError(ctx *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		return err
	}
	return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
}
