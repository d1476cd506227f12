package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"workforce-portal/internal/models"
	"workforce-portal/internal/policy"
	"workforce-portal/pkg/logger"
)

type CreateClientRequest struct {
	CompanyName   string   `json:"company_name" validate:"required"`
	ProjectType   string   `json:"project_type" validate:"required"`
	Budget        *float64 `json:"budget" validate:"required,min=0"`
	MonthlyFee    *float64 `json:"monthly_fee" validate:"omitempty,min=0"`
	Status        string   `json:"status" validate:"omitempty,oneof=activ inactiv finalizat"`
	ContactPerson *string  `json:"contact_person"`
	ContactEmail  *string  `json:"contact_email" validate:"omitempty,email"`
	ContactPhone  *string  `json:"contact_phone"`
	Notes         *string  `json:"notes"`
}

type UpdateClientRequest struct {
	CompanyName   *string  `json:"company_name" validate:"omitempty,min=1"`
	ProjectType   *string  `json:"project_type" validate:"omitempty,min=1"`
	Budget        *float64 `json:"budget" validate:"omitempty,min=0"`
	MonthlyFee    *float64 `json:"monthly_fee" validate:"omitempty,min=0"`
	Status        *string  `json:"status" validate:"omitempty,oneof=activ inactiv finalizat"`
	ContactPerson *string  `json:"contact_person"`
	ContactEmail  *string  `json:"contact_email" validate:"omitempty,email"`
	ContactPhone  *string  `json:"contact_phone"`
	Notes         *string  `json:"notes"`
}

func (r UpdateClientRequest) patch() map[string]any {
	set := map[string]any{}
	put := func(field string, v *string) {
		if v != nil {
			set[field] = *v
		}
	}
	put("company_name", r.CompanyName)
	put("project_type", r.ProjectType)
	put("status", r.Status)
	put("contact_person", r.ContactPerson)
	put("contact_email", r.ContactEmail)
	put("contact_phone", r.ContactPhone)
	put("notes", r.Notes)
	if r.Budget != nil {
		set["budget"] = *r.Budget
	}
	if r.MonthlyFee != nil {
		set["monthly_fee"] = *r.MonthlyFee
	}
	return set
}

func (h *Handler) ListClients(c *fiber.Ctx) error {
	if err := h.policy.Authorize(identity(c), policy.Clients, policy.List, nil); err != nil {
		return fail(c, err)
	}
	clients, err := h.repos.Clients.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Clients retrieved", clients)
}

func (h *Handler) GetClient(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.policy.Authorize(identity(c), policy.Clients, policy.Get, &policy.Target{ID: id}); err != nil {
		return fail(c, err)
	}
	client, err := h.repos.Clients.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Client retrieved", client)
}

func (h *Handler) CreateClient(c *fiber.Ctx) error {
	caller := identity(c)
	if err := h.policy.Authorize(caller, policy.Clients, policy.Create, nil); err != nil {
		return fail(c, err)
	}
	var req CreateClientRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}
	client := models.Client{
		CompanyName:   req.CompanyName,
		ProjectType:   req.ProjectType,
		Budget:        *req.Budget,
		MonthlyFee:    req.MonthlyFee,
		Status:        req.Status,
		ContactPerson: req.ContactPerson,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		Notes:         req.Notes,
		CreatedBy:     caller.UserID,
	}
	if err := h.repos.Clients.Create(c.UserContext(), &client); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Client created", zap.String("client_id", client.ID), zap.String("by", caller.UserID))
	h.publish(policy.Clients, policy.Create, client.ID)
	return ok(c, fiber.StatusCreated, "Client created successfully", client)
}

func (h *Handler) UpdateClient(c *fiber.Ctx) error {
	id := c.Params("id")
	caller := identity(c)
	if err := h.policy.Authorize(caller, policy.Clients, policy.Update, &policy.Target{ID: id}); err != nil {
		return fail(c, err)
	}
	var req UpdateClientRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}
	ctx := c.UserContext()
	if _, err := h.repos.Clients.Get(ctx, id); err != nil {
		return fail(c, err)
	}
	if err := h.repos.Clients.Update(ctx, id, req.patch()); err != nil {
		return fail(c, err)
	}
	client, err := h.repos.Clients.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Client updated", zap.String("client_id", id), zap.String("by", caller.UserID))
	h.publish(policy.Clients, policy.Update, id)
	return ok(c, fiber.StatusOK, "Client updated successfully", client)
}

// DeleteClient does not touch the client's folders.
func (h *Handler) DeleteClient(c *fiber.Ctx) error {
	id := c.Params("id")
	caller := identity(c)
	if err := h.policy.Authorize(caller, policy.Clients, policy.Delete, &policy.Target{ID: id}); err != nil {
		return fail(c, err)
	}
	if err := h.repos.Clients.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Client deleted", zap.String("client_id", id), zap.String("by", caller.UserID))
	h.publish(policy.Clients, policy.Delete, id)
	return ok(c, fiber.StatusOK, "Client deleted successfully", nil)
}
