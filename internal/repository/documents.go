package repository

import (
	"context"
	"fmt"

	"workforce-portal/internal/domain"
	"workforce-portal/internal/models"
	"workforce-portal/internal/store"
)

const fileDataField = "file_data"

type DocumentRepository struct {
	coll    store.Collection
	folders store.Collection
	sealer  Sealer
}

// Create stores a document inside an existing folder. The payload is sealed
// first when a sealer is configured.
func (r *DocumentRepository) Create(ctx context.Context, d *models.Document) error {
	n, err := r.folders.Count(ctx, store.ByID(d.FolderID))
	if err != nil {
		return translate(err, "Folder")
	}
	if n == 0 {
		return domain.NotFound("Folder not found")
	}
	d.ID = newID()
	d.CreatedAt = models.Now()

	stored := *d
	if r.sealer != nil {
		if stored.FileData, err = r.sealer.Seal(d.FileData); err != nil {
			return fmt.Errorf("seal document: %w", err)
		}
	}
	return translate(r.coll.InsertOne(ctx, stored), "Document")
}

// Get returns the document with its payload.
func (r *DocumentRepository) Get(ctx context.Context, id string) (models.Document, error) {
	var d models.Document
	if err := r.coll.FindOne(ctx, store.ByID(id), &d); err != nil {
		return d, translate(err, "Document")
	}
	if r.sealer != nil && d.FileData != "" {
		plain, err := r.sealer.Open(d.FileData)
		if err != nil {
			return d, fmt.Errorf("open document %s: %w", id, err)
		}
		d.FileData = plain
	}
	return d, nil
}

// List returns documents without their payload, optionally for one folder.
func (r *DocumentRepository) List(ctx context.Context, folderID string) ([]models.Document, error) {
	docs := []models.Document{}
	err := r.coll.Find(ctx, folderFilter(folderID), store.FindOptions{Omit: []string{fileDataField}}, &docs)
	if err != nil {
		return nil, translate(err, "Document")
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}

func (r *DocumentRepository) CountInFolder(ctx context.Context, folderID string) (int64, error) {
	n, err := r.coll.Count(ctx, folderFilter(folderID))
	return n, translate(err, "Document")
}

func (r *DocumentRepository) DeleteInFolder(ctx context.Context, folderID string) (int64, error) {
	n, err := r.coll.DeleteMany(ctx, store.Filter{store.Eq("folder_id", folderID)})
	return n, translate(err, "Document")
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	return translate(r.coll.DeleteOne(ctx, store.ByID(id)), "Document")
}

func folderFilter(folderID string) store.Filter {
	if folderID == "" {
		return store.Filter{}
	}
	return store.Filter{store.Eq("folder_id", folderID)}
}
