// Package handlers serves the /api/v1 endpoints. Each handler loads the target
// record when there is one, asks the policy, then calls the repository.
package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"workforce-portal/internal/auth"
	"workforce-portal/internal/config"
	"workforce-portal/internal/dashboard"
	"workforce-portal/internal/middleware"
	"workforce-portal/internal/policy"
	"workforce-portal/internal/repository"
	"workforce-portal/internal/store"
	myws "workforce-portal/internal/websocket"
)

type Handler struct {
	store     store.Store
	repos     *repository.Repositories
	policy    *policy.Policy
	tokens    *auth.Tokens
	validate  *validator.Validate
	dashboard *dashboard.Aggregator
	hub       *myws.Hub
}

func New(deps *config.Dependencies) *Handler {
	return &Handler{
		store:     deps.Store,
		repos:     deps.Repos,
		policy:    deps.Policy,
		tokens:    deps.Tokens,
		validate:  deps.Validate,
		dashboard: deps.Dashboard,
		hub:       deps.Hub,
	}
}

func identity(c *fiber.Ctx) policy.Identity {
	return middleware.CurrentIdentity(c)
}

// publish tells websocket listeners about a write. audience lists the
// employees allowed to see it; admins always are.
func (h *Handler) publish(res policy.Resource, act policy.Action, id string, audience ...string) {
	if h.hub == nil {
		return
	}
	h.hub.Publish(myws.Event{Resource: string(res), Action: string(act), ID: id, Audience: audience})
}

func (h *Handler) broadcast(res policy.Resource, act policy.Action, id string) {
	if h.hub == nil {
		return
	}
	h.hub.Publish(myws.Event{Resource: string(res), Action: string(act), ID: id, Everyone: true})
}

// Health reports liveness and whether the store answers.
func (h *Handler) Health(c *fiber.Ctx) error {
	storeStatus := "ok"
	if err := h.store.Ping(c.UserContext()); err != nil {
		storeStatus = "unavailable"
	}
	return ok(c, fiber.StatusOK, "Workforce portal API", fiber.Map{
		"status": "healthy",
		"store":  storeStatus,
	})
}
