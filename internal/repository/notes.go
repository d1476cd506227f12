package repository

import (
	"context"

	"workforce-portal/internal/models"
	"workforce-portal/internal/store"
)

type NoteRepository struct {
	coll store.Collection
}

func (r *NoteRepository) Create(ctx context.Context, n *models.Note) error {
	n.ID = newID()
	n.CreatedAt = models.Now()
	if n.Color == "" {
		n.Color = models.NoteColorDefault
	}
	return translate(r.coll.InsertOne(ctx, n), "Note")
}

func (r *NoteRepository) Get(ctx context.Context, id string) (models.Note, error) {
	var n models.Note
	err := r.coll.FindOne(ctx, store.ByID(id), &n)
	return n, translate(err, "Note")
}

func (r *NoteRepository) List(ctx context.Context) ([]models.Note, error) {
	notes := []models.Note{}
	if err := r.coll.Find(ctx, nil, store.FindOptions{}, &notes); err != nil {
		return nil, translate(err, "Note")
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, nil
}

func (r *NoteRepository) Update(ctx context.Context, id string, set map[string]any) error {
	if len(set) == 0 {
		return nil
	}
	return translate(r.coll.UpdateOne(ctx, store.ByID(id), set), "Note")
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	return translate(r.coll.DeleteOne(ctx, store.ByID(id)), "Note")
}
