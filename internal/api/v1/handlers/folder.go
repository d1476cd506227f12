package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"workforce-portal/internal/models"
	"workforce-portal/internal/policy"
	"workforce-portal/pkg/logger"
)

type CreateFolderRequest struct {
	Name     string `json:"name" validate:"required"`
	ClientID string `json:"client_id" validate:"required"`
}

// ListFolders accepts an optional client_id query filter.
func (h *Handler) ListFolders(c *fiber.Ctx) error {
	if err := h.policy.Authorize(identity(c), policy.Folders, policy.List, nil); err != nil {
		return fail(c, err)
	}
	folders, err := h.repos.Folders.List(c.UserContext(), c.Query("client_id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Folders retrieved", folders)
}

func (h *Handler) GetFolder(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.policy.Authorize(identity(c), policy.Folders, policy.Get, &policy.Target{ID: id}); err != nil {
		return fail(c, err)
	}
	folder, err := h.repos.Folders.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Folder retrieved", folder)
}

func (h *Handler) CreateFolder(c *fiber.Ctx) error {
	caller := identity(c)
	if err := h.policy.Authorize(caller, policy.Folders, policy.Create, nil); err != nil {
		return fail(c, err)
	}
	var req CreateFolderRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}
	folder := models.Folder{
		Name:      req.Name,
		ClientID:  req.ClientID,
		CreatedBy: caller.UserID,
	}
	if err := h.repos.Folders.Create(c.UserContext(), &folder); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Folder created",
		zap.String("folder_id", folder.ID),
		zap.String("client_id", folder.ClientID),
		zap.String("by", caller.UserID),
	)
	h.publish(policy.Folders, policy.Create, folder.ID)
	return ok(c, fiber.StatusCreated, "Folder created successfully", folder)
}

// DeleteFolder removes the folder's documents first, then the folder.
func (h *Handler) DeleteFolder(c *fiber.Ctx) error {
	id := c.Params("id")
	caller := identity(c)
	if err := h.policy.Authorize(caller, policy.Folders, policy.Delete, &policy.Target{ID: id}); err != nil {
		return fail(c, err)
	}
	removed, err := h.repos.Folders.Delete(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Folder deleted",
		zap.String("folder_id", id),
		zap.Int64("documents_removed", removed),
		zap.String("by", caller.UserID),
	)
	h.publish(policy.Folders, policy.Delete, id)
	return ok(c, fiber.StatusOK, "Folder deleted successfully", fiber.Map{"documents_removed": removed})
}
