package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"workforce-portal/internal/auth"
	"workforce-portal/internal/domain"
	"workforce-portal/internal/models"
	"workforce-portal/internal/policy"
	"workforce-portal/pkg/logger"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required"`
	Phone    *string `json:"phone"`
	Password string  `json:"password" validate:"required,min=6"`
}

const badCredentials = "Incorrect email or password"

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}

	rec, err := h.repos.Users.FindByEmail(c.UserContext(), req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		logger.SecurityLogger.Warn("Failed login attempt", zap.String("email", req.Email), zap.String("ip", c.IP()))
		return fail(c, domain.Unauthorized(badCredentials))
	}
	if err != nil {
		return fail(c, err)
	}
	if !auth.CheckPassword(rec.PasswordHash, req.Password) {
		logger.SecurityLogger.Warn("Failed login attempt", zap.String("email", req.Email), zap.String("ip", c.IP()))
		return fail(c, domain.Unauthorized(badCredentials))
	}

	token, err := h.tokens.Issue(policy.Identity{UserID: rec.ID, Email: rec.Email, Role: rec.Role})
	if err != nil {
		return fail(c, err)
	}

	logger.AuditLogger.Info("User logged in", zap.String("user_id", rec.ID))
	return ok(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token": token,
		"user":  rec.Public(),
	})
}

// Register creates the first admin. It is closed once any admin exists.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}
	ctx := c.UserContext()

	exists, err := h.repos.Users.AdminExists(ctx)
	if err != nil {
		return fail(c, err)
	}
	if exists {
		logger.SecurityLogger.Warn("Register attempt after bootstrap", zap.String("email", req.Email), zap.String("ip", c.IP()))
		return fail(c, domain.Conflict("Admin already exists. Contact the administrator"))
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
			Role:  models.RoleAdmin,
		},
		PasswordHash: hash,
	}
	if err := h.repos.Users.Create(ctx, &rec); err != nil {
		return fail(c, err)
	}

	logger.AuditLogger.Info("Admin registered", zap.String("user_id", rec.ID))
	return ok(c, fiber.StatusCreated, "Admin created successfully", rec.Public())
}

func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.repos.Users.Get(c.UserContext(), identity(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Profile retrieved", user)
}
