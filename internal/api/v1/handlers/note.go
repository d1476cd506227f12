package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"workforce-portal/internal/models"
	"workforce-portal/internal/policy"
	"workforce-portal/pkg/logger"
)

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Color   string `json:"color" validate:"omitempty,oneof=default yellow green blue red"`
}

type UpdateNoteRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1"`
	Content *string `json:"content"`
	Color   *string `json:"color" validate:"omitempty,oneof=default yellow green blue red"`
}

func (h *Handler) ListNotes(c *fiber.Ctx) error {
	if err := h.policy.Authorize(identity(c), policy.Notes, policy.List, nil); err != nil {
		return fail(c, err)
	}
	notes, err := h.repos.Notes.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Notes retrieved", notes)
}

func (h *Handler) GetNote(c *fiber.Ctx) error {
	note, err := h.repos.Notes.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if err := h.policy.Authorize(identity(c), policy.Notes, policy.Get, policy.NoteTarget(note)); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Note retrieved", note)
}

func (h *Handler) CreateNote(c *fiber.Ctx) error {
	caller := identity(c)
	if err := h.policy.Authorize(caller, policy.Notes, policy.Create, nil); err != nil {
		return fail(c, err)
	}
	var req CreateNoteRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}
	note := models.Note{
		Title:     req.Title,
		Content:   req.Content,
		Color:     req.Color,
		CreatedBy: caller.UserID,
	}
	if err := h.repos.Notes.Create(c.UserContext(), &note); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Note created", zap.String("note_id", note.ID), zap.String("by", caller.UserID))
	h.broadcast(policy.Notes, policy.Create, note.ID)
	return ok(c, fiber.StatusCreated, "Note created successfully", note)
}

func (h *Handler) UpdateNote(c *fiber.Ctx) error {
	ctx := c.UserContext()
	caller := identity(c)
	note, err := h.repos.Notes.Get(ctx, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if err := h.policy.Authorize(caller, policy.Notes, policy.Update, policy.NoteTarget(note)); err != nil {
		return fail(c, err)
	}
	var req UpdateNoteRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}

	set := map[string]any{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Content != nil {
		set["content"] = *req.Content
	}
	if req.Color != nil {
		set["color"] = *req.Color
	}
	if len(set) > 0 {
		if err := h.repos.Notes.Update(ctx, note.ID, set); err != nil {
			return fail(c, err)
		}
		if note, err = h.repos.Notes.Get(ctx, note.ID); err != nil {
			return fail(c, err)
		}
	}
	logger.AuditLogger.Info("Note updated", zap.String("note_id", note.ID), zap.String("by", caller.UserID))
	h.broadcast(policy.Notes, policy.Update, note.ID)
	return ok(c, fiber.StatusOK, "Note updated successfully", note)
}

func (h *Handler) DeleteNote(c *fiber.Ctx) error {
	ctx := c.UserContext()
	caller := identity(c)
	note, err := h.repos.Notes.Get(ctx, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if err := h.policy.Authorize(caller, policy.Notes, policy.Delete, policy.NoteTarget(note)); err != nil {
		return fail(c, err)
	}
	if err := h.repos.Notes.Delete(ctx, note.ID); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Note deleted", zap.String("note_id", note.ID), zap.String("by", caller.UserID))
	h.broadcast(policy.Notes, policy.Delete, note.ID)
	return ok(c, fiber.StatusOK, "Note deleted successfully", nil)
}
