package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"workforce-portal/internal/auth"
	"workforce-portal/internal/models"
	"workforce-portal/internal/policy"
	"workforce-portal/pkg/logger"
)

type CreateUserRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role" validate:"omitempty,oneof=admin employee"`
	Password string  `json:"password" validate:"required,min=6"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin employee"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	if err := h.policy.Authorize(identity(c), policy.Users, policy.List, nil); err != nil {
		return fail(c, err)
	}
	users, err := h.repos.Users.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Users retrieved", users)
}

func (h *Handler) GetUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.policy.Authorize(identity(c), policy.Users, policy.Get, &policy.Target{ID: id}); err != nil {
		return fail(c, err)
	}
	user, err := h.repos.Users.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "User retrieved", user)
}

func (h *Handler) CreateUser(c *fiber.Ctx) error {
	caller := identity(c)
	if err := h.policy.Authorize(caller, policy.Users, policy.Create, nil); err != nil {
		return fail(c, err)
	}
	var req CreateUserRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}
	if req.Role == "" {
		req.Role = models.RoleEmployee
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fail(c, err)
	}
	rec := models.UserRecord{
		User: models.User{
			Email: req.Email,
			Name:  req.Name,
			Phone: req.Phone,
			Role:  req.Role,
		},
		PasswordHash: hash,
	}
	if err := h.repos.Users.Create(c.UserContext(), &rec); err != nil {
		return fail(c, err)
	}

	logger.AuditLogger.Info("User created",
		zap.String("user_id", rec.ID),
		zap.String("role", rec.Role),
		zap.String("by", caller.UserID),
	)
	h.publish(policy.Users, policy.Create, rec.ID)
	return ok(c, fiber.StatusCreated, "User created successfully", rec.Public())
}

func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")
	caller := identity(c)
	if err := h.policy.Authorize(caller, policy.Users, policy.Update, &policy.Target{ID: id}); err != nil {
		return fail(c, err)
	}
	var req UpdateUserRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}
	ctx := c.UserContext()
	if _, err := h.repos.Users.Get(ctx, id); err != nil {
		return fail(c, err)
	}

	set := map[string]any{}
	if req.Email != nil {
		set["email"] = *req.Email
	}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Role != nil {
		set["role"] = *req.Role
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return fail(c, err)
		}
		set["password_hash"] = hash
	}
	if len(set) > 0 {
		if err := h.repos.Users.Update(ctx, id, set); err != nil {
			return fail(c, err)
		}
	}

	user, err := h.repos.Users.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("User updated", zap.String("user_id", id), zap.String("by", caller.UserID))
	h.publish(policy.Users, policy.Update, id, id)
	return ok(c, fiber.StatusOK, "User updated successfully", user)
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	caller := identity(c)
	if err := h.policy.Authorize(caller, policy.Users, policy.Delete, &policy.Target{ID: id}); err != nil {
		return fail(c, err)
	}
	if err := h.repos.Users.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("User deleted", zap.String("user_id", id), zap.String("by", caller.UserID))
	h.publish(policy.Users, policy.Delete, id)
	return ok(c, fiber.StatusOK, "User deleted successfully", nil)
}
