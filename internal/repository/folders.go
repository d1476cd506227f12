package repository

import (
	"context"
	"errors"
	"fmt"

	"workforce-portal/internal/domain"
	"workforce-portal/internal/models"
	"workforce-portal/internal/store"
)

type FolderRepository struct {
	coll      store.Collection
	clients   store.Collection
	documents *DocumentRepository
}

// Create stores a folder under an existing client.
func (r *FolderRepository) Create(ctx context.Context, f *models.Folder) error {
	n, err := r.clients.Count(ctx, store.ByID(f.ClientID))
	if err != nil {
		return translate(err, "Client")
	}
	if n == 0 {
		return domain.NotFound("Client not found")
	}
	f.ID = newID()
	f.CreatedAt = models.Now()
	return translate(r.coll.InsertOne(ctx, f), "Folder")
}

func (r *FolderRepository) Get(ctx context.Context, id string) (models.Folder, error) {
	var f models.Folder
	err := r.coll.FindOne(ctx, store.ByID(id), &f)
	return f, translate(err, "Folder")
}

// List returns the folders of clientID, or all folders when it is empty, each
// with its client's name and document count.
func (r *FolderRepository) List(ctx context.Context, clientID string) ([]models.FolderView, error) {
	filter := store.Filter{}
	if clientID != "" {
		filter = append(filter, store.Eq("client_id", clientID))
	}
	var folders []models.Folder
	if err := r.coll.Find(ctx, filter, store.FindOptions{}, &folders); err != nil {
		return nil, translate(err, "Folder")
	}

	views := make([]models.FolderView, 0, len(folders))
	for _, f := range folders {
		view := models.FolderView{Folder: f}
		var c models.Client
		err := r.clients.FindOne(ctx, store.ByID(f.ClientID), &c)
		switch {
		case err == nil:
			view.Client = &models.FolderClient{CompanyName: c.CompanyName}
		case !errors.Is(err, store.ErrNotFound):
			return nil, translate(err, "Client")
		}
		if view.DocumentCount, err = r.documents.CountInFolder(ctx, f.ID); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Delete removes the folder's documents and then the folder. The two steps
// are not atomic.
func (r *FolderRepository) Delete(ctx context.Context, id string) (int64, error) {
	removed, err := r.documents.DeleteInFolder(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete documents of folder %s: %w", id, err)
	}
	return removed, translate(r.coll.DeleteOne(ctx, store.ByID(id)), "Folder")
}
