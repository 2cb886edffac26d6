package controller

import (
	"net/url"

	"howdy-portal-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes and validates a JSON body.
func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(out)
}

func pathParam(ctx *fiber.Ctx, name string) (string, error) {
	v, err := url.PathUnescape(ctx.Params(name))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Malformed "+name)
	}
	return v, nil
}
