package handlers

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"workforce-portal/internal/domain"
	"workforce-portal/internal/policy"
	"workforce-portal/pkg/logger"
)

func ok(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"success": true,
		"status":  status,
		"data":    data,
	})
}

func failure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"success": false,
		"status":  status,
	})
}

// fail maps err onto the response status once for every handler.
func fail(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  fieldErrors(verrs),
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return failure(c, fiber.StatusBadRequest, domain.Message(err, "Bad request"))
	case errors.Is(err, domain.ErrUnauthorized):
		return failure(c, fiber.StatusUnauthorized, domain.Message(err, "Unauthorized"))
	case errors.Is(err, domain.ErrForbidden):
		logger.SecurityLogger.Warn("Access denied",
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.String("user_id", identity(c).UserID),
		)
		return failure(c, fiber.StatusForbidden, domain.Message(err, "Access denied"))
	case errors.Is(err, domain.ErrNotFound):
		return failure(c, fiber.StatusNotFound, domain.Message(err, "Not found"))
	case errors.Is(err, domain.ErrConflict):
		return failure(c, fiber.StatusConflict, domain.Message(err, "Already exists"))
	}

	logger.ErrorLogger.Error("Request failed",
		zap.String("path", c.Path()),
		zap.String("method", c.Method()),
		zap.Error(err),
	)
	return failure(c, fiber.StatusInternalServerError, "Internal server error")
}

func fieldErrors(verrs validator.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			out = append(out, fmt.Sprintf("%s: must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		out = append(out, fmt.Sprintf("%s: must satisfy %s", fe.Field(), fe.Tag()))
	}
	return out
}

// bind parses the JSON body into req and validates it.
func (h *Handler) bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return domain.Validation("Invalid request body")
	}
	return h.validate.Struct(req)
}

// bindAllowed is bind for restricted updates: validation failures on fields
// the decision will drop anyway do not reject the request.
func (h *Handler) bindAllowed(c *fiber.Ctx, req any, d policy.Decision) error {
	err := h.bind(c, req)
	var verrs validator.ValidationErrors
	if d.Effect != policy.AllowRestricted || !errors.As(err, &verrs) {
		return err
	}
	kept := make(validator.ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		if slices.Contains(d.Writable, fe.Field()) {
			kept = append(kept, fe)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
