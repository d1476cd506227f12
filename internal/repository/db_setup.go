package repository

import (
	"context"
	"fmt"

	"workforce-portal/internal/models"
	"workforce-portal/internal/store"
)

// Indexes lists every collection with the indexes it needs. Entries without
// fields only make sure the collection exists.
var Indexes = []store.Index{
	{Collection: models.CollectionUsers, Fields: []string{"id"}, Unique: true},
	{Collection: models.CollectionUsers, Fields: []string{"email"}, Unique: true},
	{Collection: models.CollectionUsers, Fields: []string{"role"}},
	{Collection: models.CollectionTasks, Fields: []string{"id"}, Unique: true},
	{Collection: models.CollectionTasks, Fields: []string{"assigned_to"}},
	{Collection: models.CollectionTasks, Fields: []string{"created_at"}},
	{Collection: models.CollectionNotes, Fields: []string{"id"}, Unique: true},
	{Collection: models.CollectionClients, Fields: []string{"id"}, Unique: true},
	{Collection: models.CollectionFolders, Fields: []string{"id"}, Unique: true},
	{Collection: models.CollectionFolders, Fields: []string{"client_id"}},
	{Collection: models.CollectionDocuments, Fields: []string{"id"}, Unique: true},
	{Collection: models.CollectionDocuments, Fields: []string{"folder_id"}},
	{Collection: models.CollectionReports, Fields: []string{"id"}, Unique: true},
	{Collection: models.CollectionReports, Fields: []string{"user_id", "date"}},
}

var collections = []string{
	models.CollectionUsers,
	models.CollectionTasks,
	models.CollectionNotes,
	models.CollectionClients,
	models.CollectionFolders,
	models.CollectionDocuments,
	models.CollectionReports,
}

// Migrate creates the collections and indexes if they do not exist yet.
func Migrate(ctx context.Context, s store.Store) error {
	if err := s.EnsureIndexes(ctx, Indexes); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Purge deletes every document of every collection. Used to reset test
// databases.
func Purge(ctx context.Context, s store.Store) error {
	for _, name := range collections {
		if _, err := s.Collection(name).DeleteMany(ctx, nil); err != nil {
			return fmt.Errorf("purge %s: %w", name, err)
		}
	}
	return nil
}
