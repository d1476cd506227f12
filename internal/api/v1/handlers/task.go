package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"workforce-portal/internal/models"
	"workforce-portal/internal/policy"
	"workforce-portal/pkg/logger"
)

type CreateTaskRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description"`
	StartDate   *string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate     *string  `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      string   `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	AssignedTo  []string `json:"assigned_to" validate:"omitempty,dive,required"`
}

type UpdateTaskRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1"`
	Description *string   `json:"description"`
	StartDate   *string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate     *string   `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Priority    *string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      *string   `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	AssignedTo  *[]string `json:"assigned_to" validate:"omitempty,dive,required"`
}

// patch keeps only the fields present in the request.
func (r UpdateTaskRequest) patch() map[string]any {
	set := map[string]any{}
	if r.Title != nil {
		set["title"] = *r.Title
	}
	if r.Description != nil {
		set["description"] = *r.Description
	}
	if r.StartDate != nil {
		set["start_date"] = *r.StartDate
	}
	if r.DueDate != nil {
		set["due_date"] = *r.DueDate
	}
	if r.Priority != nil {
		set["priority"] = *r.Priority
	}
	if r.Status != nil {
		set["status"] = *r.Status
	}
	if r.AssignedTo != nil {
		set["assigned_to"] = *r.AssignedTo
	}
	return set
}

func (h *Handler) taskView(ctx context.Context, t models.Task) (models.TaskView, error) {
	assignees, err := h.repos.Users.Resolve(ctx, t.AssignedTo)
	if err != nil {
		return models.TaskView{}, err
	}
	return models.TaskView{Task: t, Assignees: assignees}, nil
}

func (h *Handler) ListTasks(c *fiber.Ctx) error {
	decision := h.policy.Evaluate(identity(c), policy.Tasks, policy.List, nil)
	if err := decision.Err(); err != nil {
		return fail(c, err)
	}
	ctx := c.UserContext()
	tasks, err := h.repos.Tasks.List(ctx, decision.Scope)
	if err != nil {
		return fail(c, err)
	}

	views := make([]models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		view, err := h.taskView(ctx, t)
		if err != nil {
			return fail(c, err)
		}
		views = append(views, view)
	}
	return ok(c, fiber.StatusOK, "Tasks retrieved", views)
}

func (h *Handler) GetTask(c *fiber.Ctx) error {
	ctx := c.UserContext()
	task, err := h.repos.Tasks.Get(ctx, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if err := h.policy.Authorize(identity(c), policy.Tasks, policy.Get, policy.TaskTarget(task)); err != nil {
		return fail(c, err)
	}
	view, err := h.taskView(ctx, task)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Task retrieved", view)
}

func (h *Handler) CreateTask(c *fiber.Ctx) error {
	caller := identity(c)
	if err := h.policy.Authorize(caller, policy.Tasks, policy.Create, nil); err != nil {
		return fail(c, err)
	}
	var req CreateTaskRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}
	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   caller.UserID,
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Status == "" {
		task.Status = models.TaskPending
	}
	ctx := c.UserContext()
	if err := h.repos.Tasks.Create(ctx, &task); err != nil {
		return fail(c, err)
	}
	view, err := h.taskView(ctx, task)
	if err != nil {
		return fail(c, err)
	}

	logger.AuditLogger.Info("Task created", zap.String("task_id", task.ID), zap.String("by", caller.UserID))
	h.publish(policy.Tasks, policy.Create, task.ID, task.AssignedTo...)
	return ok(c, fiber.StatusCreated, "Task created successfully", view)
}

// UpdateTask lets admins change any field. Assignees may only move the
// status; other fields in their request are ignored.
func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()
	caller := identity(c)
	task, err := h.repos.Tasks.Get(ctx, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	decision := h.policy.Evaluate(caller, policy.Tasks, policy.Update, policy.TaskTarget(task))
	if err := decision.Err(); err != nil {
		return fail(c, err)
	}
	var req UpdateTaskRequest
	if err := h.bindAllowed(c, &req, decision); err != nil {
		return fail(c, err)
	}

	set := decision.Restrict(req.patch())
	if len(set) > 0 {
		if err := h.repos.Tasks.Update(ctx, task.ID, set); err != nil {
			return fail(c, err)
		}
		if task, err = h.repos.Tasks.Get(ctx, task.ID); err != nil {
			return fail(c, err)
		}
	}
	view, err := h.taskView(ctx, task)
	if err != nil {
		return fail(c, err)
	}

	logger.AuditLogger.Info("Task updated",
		zap.String("task_id", task.ID),
		zap.String("by", caller.UserID),
		zap.Int("fields", len(set)),
	)
	h.publish(policy.Tasks, policy.Update, task.ID, task.AssignedTo...)
	return ok(c, fiber.StatusOK, "Task updated successfully", view)
}

func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	ctx := c.UserContext()
	caller := identity(c)
	if err := h.policy.Authorize(caller, policy.Tasks, policy.Delete, nil); err != nil {
		return fail(c, err)
	}
	task, err := h.repos.Tasks.Get(ctx, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if err := h.repos.Tasks.Delete(ctx, task.ID); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Task deleted", zap.String("task_id", task.ID), zap.String("by", caller.UserID))
	h.publish(policy.Tasks, policy.Delete, task.ID, task.AssignedTo...)
	return ok(c, fiber.StatusOK, "Task deleted successfully", nil)
}
