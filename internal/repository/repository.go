// Package repository maps the CRUD verbs of each entity onto the document
// store. Authorization happens before these are called.
package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"workforce-portal/internal/domain"
	"workforce-portal/internal/models"
	"workforce-portal/internal/store"
)

// Sealer protects document payloads at rest.
type Sealer interface {
	Seal(plain string) (string, error)
	Open(sealed string) (string, error)
}

type Repositories struct {
	Users     *UserRepository
	Tasks     *TaskRepository
	Notes     *NoteRepository
	Clients   *ClientRepository
	Folders   *FolderRepository
	Documents *DocumentRepository
	Reports   *ReportRepository
}

// New wires every repository to s. sealer may be nil, in which case document
// payloads are stored as received.
func New(s store.Store, sealer Sealer) *Repositories {
	folders := s.Collection(models.CollectionFolders)
	clients := s.Collection(models.CollectionClients)
	docs := &DocumentRepository{
		coll:    s.Collection(models.CollectionDocuments),
		folders: folders,
		sealer:  sealer,
	}
	return &Repositories{
		Users:     &UserRepository{coll: s.Collection(models.CollectionUsers)},
		Tasks:     &TaskRepository{coll: s.Collection(models.CollectionTasks)},
		Notes:     &NoteRepository{coll: s.Collection(models.CollectionNotes)},
		Clients:   &ClientRepository{coll: clients},
		Folders:   &FolderRepository{coll: folders, clients: clients, documents: docs},
		Documents: docs,
		Reports:   &ReportRepository{coll: s.Collection(models.CollectionReports)},
	}
}

func newID() string {
	return uuid.NewString()
}

// translate turns store errors into domain errors named after the entity.
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return domain.NotFound(entity + " not found")
	case errors.Is(err, store.ErrDuplicate):
		return domain.Conflict(entity + " already exists")
	}
	return fmt.Errorf("%s: %w", entity, err)
}
