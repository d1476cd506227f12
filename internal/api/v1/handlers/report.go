package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"workforce-portal/internal/domain"
	"workforce-portal/internal/models"
	"workforce-portal/internal/policy"
	"workforce-portal/pkg/logger"
)

type CreateReportRequest struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Content string `json:"content" validate:"required"`
}

type UpdateReportRequest struct {
	Content *string `json:"content"`
}

// reportView attaches the owner; a deleted owner leaves user null.
func (h *Handler) reportView(ctx context.Context, r models.Report, users map[string]*models.User) (models.ReportView, error) {
	if u, seen := users[r.UserID]; seen {
		return models.ReportView{Report: r, User: u}, nil
	}
	u, err := h.repos.Users.Get(ctx, r.UserID)
	switch {
	case err == nil:
		users[r.UserID] = &u
	case errors.Is(err, domain.ErrNotFound):
		users[r.UserID] = nil
	default:
		return models.ReportView{}, err
	}
	return models.ReportView{Report: r, User: users[r.UserID]}, nil
}

// ListReports filters by the user_id and date query parameters. Employees
// only ever see their own reports whatever user_id says.
func (h *Handler) ListReports(c *fiber.Ctx) error {
	decision := h.policy.Evaluate(identity(c), policy.Reports, policy.List, nil)
	if err := decision.Err(); err != nil {
		return fail(c, err)
	}
	userID := c.Query("user_id")
	if decision.Scope != "" {
		userID = decision.Scope
	}
	ctx := c.UserContext()
	reports, err := h.repos.Reports.List(ctx, userID, c.Query("date"))
	if err != nil {
		return fail(c, err)
	}

	users := map[string]*models.User{}
	views := make([]models.ReportView, 0, len(reports))
	for _, r := range reports {
		view, err := h.reportView(ctx, r, users)
		if err != nil {
			return fail(c, err)
		}
		views = append(views, view)
	}
	return ok(c, fiber.StatusOK, "Reports retrieved", views)
}

func (h *Handler) GetReport(c *fiber.Ctx) error {
	ctx := c.UserContext()
	report, err := h.repos.Reports.Get(ctx, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if err := h.policy.Authorize(identity(c), policy.Reports, policy.Get, policy.ReportTarget(report)); err != nil {
		return fail(c, err)
	}
	view, err := h.reportView(ctx, report, map[string]*models.User{})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Report retrieved", view)
}

// CreateReport stores the caller's report for a date. A second submission for
// the same date replaces the content of the first and answers 200.
func (h *Handler) CreateReport(c *fiber.Ctx) error {
	caller := identity(c)
	decision := h.policy.Evaluate(caller, policy.Reports, policy.Create, nil)
	if err := decision.Err(); err != nil {
		return fail(c, err)
	}
	var req CreateReportRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}
	report, created, err := h.repos.Reports.Upsert(c.UserContext(), decision.Scope, req.Date, req.Content)
	if err != nil {
		return fail(c, err)
	}

	if created {
		logger.AuditLogger.Info("Report created", zap.String("report_id", report.ID), zap.String("date", report.Date))
		h.publish(policy.Reports, policy.Create, report.ID, report.UserID)
		return ok(c, fiber.StatusCreated, "Report created successfully", report)
	}
	logger.AuditLogger.Info("Report replaced", zap.String("report_id", report.ID), zap.String("date", report.Date))
	h.publish(policy.Reports, policy.Update, report.ID, report.UserID)
	return ok(c, fiber.StatusOK, "Report updated successfully", report)
}

func (h *Handler) UpdateReport(c *fiber.Ctx) error {
	ctx := c.UserContext()
	caller := identity(c)
	report, err := h.repos.Reports.Get(ctx, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if err := h.policy.Authorize(caller, policy.Reports, policy.Update, policy.ReportTarget(report)); err != nil {
		return fail(c, err)
	}
	var req UpdateReportRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}
	if err := h.repos.Reports.UpdateContent(ctx, report.ID, req.Content); err != nil {
		return fail(c, err)
	}
	if report, err = h.repos.Reports.Get(ctx, report.ID); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Report updated", zap.String("report_id", report.ID), zap.String("by", caller.UserID))
	h.publish(policy.Reports, policy.Update, report.ID, report.UserID)
	return ok(c, fiber.StatusOK, "Report updated successfully", report)
}

func (h *Handler) DeleteReport(c *fiber.Ctx) error {
	ctx := c.UserContext()
	caller := identity(c)
	report, err := h.repos.Reports.Get(ctx, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if err := h.policy.Authorize(caller, policy.Reports, policy.Delete, policy.ReportTarget(report)); err != nil {
		return fail(c, err)
	}
	if err := h.repos.Reports.Delete(ctx, report.ID); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Report deleted", zap.String("report_id", report.ID), zap.String("by", caller.UserID))
	h.publish(policy.Reports, policy.Delete, report.ID, report.UserID)
	return ok(c, fiber.StatusOK, "Report deleted successfully", nil)
}
