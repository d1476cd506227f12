package repository

import (
	"context"
	"errors"

	"workforce-portal/internal/models"
	"workforce-portal/internal/store"
)

type ReportRepository struct {
	coll store.Collection
}

// Upsert stores the report of userID for date. When one already exists its
// content and updated_at are replaced instead. The lookup and the write are
// separate operations, so concurrent first submissions can both insert.
func (r *ReportRepository) Upsert(ctx context.Context, userID, date, content string) (models.Report, bool, error) {
	var existing models.Report
	err := r.coll.FindOne(ctx, store.Filter{store.Eq("user_id", userID), store.Eq("date", date)}, &existing)
	switch {
	case err == nil:
		now := models.Now()
		if err := r.coll.UpdateOne(ctx, store.ByID(existing.ID), map[string]any{
			"content":    content,
			"updated_at": now,
		}); err != nil {
			return existing, false, translate(err, "Report")
		}
		existing.Content = content
		existing.UpdatedAt = now
		return existing, false, nil
	case !errors.Is(err, store.ErrNotFound):
		return existing, false, translate(err, "Report")
	}

	now := models.Now()
	rep := models.Report{
		ID:        newID(),
		Date:      date,
		Content:   content,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.coll.InsertOne(ctx, rep); err != nil {
		return rep, false, translate(err, "Report")
	}
	return rep, true, nil
}

func (r *ReportRepository) Get(ctx context.Context, id string) (models.Report, error) {
	var rep models.Report
	err := r.coll.FindOne(ctx, store.ByID(id), &rep)
	return rep, translate(err, "Report")
}

// List returns reports newest date first. Empty arguments do not filter.
func (r *ReportRepository) List(ctx context.Context, userID, date string) ([]models.Report, error) {
	filter := store.Filter{}
	if userID != "" {
		filter = append(filter, store.Eq("user_id", userID))
	}
	if date != "" {
		filter = append(filter, store.Eq("date", date))
	}
	reports := []models.Report{}
	if err := r.coll.Find(ctx, filter, store.FindOptions{SortBy: "date", Descending: true}, &reports); err != nil {
		return nil, translate(err, "Report")
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, nil
}

// UpdateContent always bumps updated_at; content changes only when given.
func (r *ReportRepository) UpdateContent(ctx context.Context, id string, content *string) error {
	set := map[string]any{"updated_at": models.Now()}
	if content != nil {
		set["content"] = *content
	}
	return translate(r.coll.UpdateOne(ctx, store.ByID(id), set), "Report")
}

func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	return translate(r.coll.DeleteOne(ctx, store.ByID(id)), "Report")
}
