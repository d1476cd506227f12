package handlers

import (
	"github.com/gofiber/fiber/v2"

	"workforce-portal/internal/policy"
)

// DashboardStats answers with the admin summary or, for employees, their own
// task counts.
func (h *Handler) DashboardStats(c *fiber.Ctx) error {
	decision := h.policy.Evaluate(identity(c), policy.Dashboard, policy.Get, nil)
	if err := decision.Err(); err != nil {
		return fail(c, err)
	}
	stats, err := h.dashboard.Stats(c.UserContext(), decision.Scope)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Dashboard stats retrieved", stats)
}
