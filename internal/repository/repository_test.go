package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce-portal/internal/domain"
	"workforce-portal/internal/models"
	"workforce-portal/internal/repository"
	"workforce-portal/internal/store"
	"workforce-portal/pkg/crypto"
)

func setup(t *testing.T, sealer repository.Sealer) (*repository.Repositories, store.Store) {
	t.Helper()
	s := store.NewMemory()
	require.NoError(t, repository.Migrate(context.Background(), s))
	return repository.New(s, sealer), s
}

func newUser(email, role string) *models.UserRecord {
	return &models.UserRecord{
		User:         models.User{Email: email, Name: email, Role: role},
		PasswordHash: "hash-of-" + email,
	}
}

func TestUserEmailUnique(t *testing.T) {
	ctx := context.Background()
	repos, _ := setup(t, nil)

	require.NoError(t, repos.Users.Create(ctx, newUser("ana@example.com", models.RoleEmployee)))
	err := repos.Users.Create(ctx, newUser("ana@example.com", models.RoleAdmin))
	assert.True(t, errors.Is(err, domain.ErrConflict))

	bob := newUser("bob@example.com", models.RoleEmployee)
	require.NoError(t, repos.Users.Create(ctx, bob))
	err = repos.Users.Update(ctx, bob.ID, map[string]any{"email": "ana@example.com"})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	// keeping one's own email is not a conflict
	require.NoError(t, repos.Users.Update(ctx, bob.ID, map[string]any{"email": "bob@example.com", "name": "Bob"}))
}

func TestUserReadsNeverCarryHash(t *testing.T) {
	ctx := context.Background()
	repos, s := setup(t, nil)
	rec := newUser("ana@example.com", models.RoleEmployee)
	require.NoError(t, repos.Users.Create(ctx, rec))

	var raw map[string]any
	require.NoError(t, s.Collection(models.CollectionUsers).FindOne(ctx, store.ByID(rec.ID), &raw))
	assert.Equal(t, "hash-of-ana@example.com", raw["password_hash"])

	stored, err := repos.Users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, rec.PasswordHash, stored.PasswordHash)

	u, err := repos.Users.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, u.ID)
}

func TestAdminExists(t *testing.T) {
	ctx := context.Background()
	repos, _ := setup(t, nil)

	exists, err := repos.Users.AdminExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repos.Users.Create(ctx, newUser("boss@example.com", models.RoleAdmin)))
	exists, err = repos.Users.AdminExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestResolveSkipsUnknownIDs(t *testing.T) {
	ctx := context.Background()
	repos, _ := setup(t, nil)
	ana := newUser("ana@example.com", models.RoleEmployee)
	bob := newUser("bob@example.com", models.RoleEmployee)
	require.NoError(t, repos.Users.Create(ctx, ana))
	require.NoError(t, repos.Users.Create(ctx, bob))

	users, err := repos.Users.Resolve(ctx, []string{bob.ID, "ghost", ana.ID})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, bob.ID, users[0].ID)
	assert.Equal(t, ana.ID, users[1].ID)
}

func TestTaskAssigneeFilter(t *testing.T) {
	ctx := context.Background()
	repos, _ := setup(t, nil)
	for _, assigned := range [][]string{{"u1"}, {"u1", "u2"}, {"u2"}, nil} {
		require.NoError(t, repos.Tasks.Create(ctx, &models.Task{Title: "t", Status: models.TaskPending, AssignedTo: assigned}))
	}

	mine, err := repos.Tasks.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := repos.Tasks.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.NotNil(t, all[3].AssignedTo)

	n, err := repos.Tasks.Count(ctx, "u2", models.TaskPending)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestReportUpsert(t *testing.T) {
	ctx := context.Background()
	repos, _ := setup(t, nil)

	first, created, err := repos.Reports.Upsert(ctx, "u1", "2025-01-10", "draft")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repos.Reports.Upsert(ctx, "u1", "2025-01-10", "final")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.GreaterOrEqual(t, second.UpdatedAt, first.UpdatedAt)

	other, created, err := repos.Reports.Upsert(ctx, "u2", "2025-01-10", "someone else")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, other.ID)

	reports, err := repos.Reports.List(ctx, "u1", "2025-01-10")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "final", reports[0].Content)
}

func TestFolderRequiresClient(t *testing.T) {
	ctx := context.Background()
	repos, _ := setup(t, nil)

	err := repos.Folders.Create(ctx, &models.Folder{Name: "Contracts", ClientID: "missing"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "Client not found", err.Error())

	folders, err := repos.Folders.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, folders)
}

func TestFolderDeleteCascade(t *testing.T) {
	ctx := context.Background()
	repos, _ := setup(t, nil)
	client := &models.Client{CompanyName: "Acme", Budget: 1}
	require.NoError(t, repos.Clients.Create(ctx, client))
	folder := &models.Folder{Name: "Contracts", ClientID: client.ID}
	require.NoError(t, repos.Folders.Create(ctx, folder))
	keep := &models.Folder{Name: "Keep", ClientID: client.ID}
	require.NoError(t, repos.Folders.Create(ctx, keep))

	for _, f := range []string{folder.ID, folder.ID, keep.ID} {
		require.NoError(t, repos.Documents.Create(ctx, &models.Document{Name: "d", FileData: "aGk=", FileType: "text/plain", FolderID: f}))
	}

	removed, err := repos.Folders.Delete(ctx, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	n, err := repos.Documents.CountInFolder(ctx, folder.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = repos.Folders.Get(ctx, folder.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	n, err = repos.Documents.CountInFolder(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDocumentsSealedAtRest(t *testing.T) {
	ctx := context.Background()
	cipher, err := crypto.NewCipher("document-key")
	require.NoError(t, err)
	repos, s := setup(t, cipher)

	client := &models.Client{CompanyName: "Acme", Budget: 1}
	require.NoError(t, repos.Clients.Create(ctx, client))
	folder := &models.Folder{Name: "Secret", ClientID: client.ID}
	require.NoError(t, repos.Folders.Create(ctx, folder))
	doc := &models.Document{Name: "plan.txt", FileData: "cGxhbg==", FileType: "text/plain", FolderID: folder.ID}
	require.NoError(t, repos.Documents.Create(ctx, doc))

	var raw models.Document
	require.NoError(t, s.Collection(models.CollectionDocuments).FindOne(ctx, store.ByID(doc.ID), &raw))
	assert.NotEqual(t, "cGxhbg==", raw.FileData)

	got, err := repos.Documents.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "cGxhbg==", got.FileData)

	listed, err := repos.Documents.List(ctx, folder.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Empty(t, listed[0].FileData)
}

func TestPurge(t *testing.T) {
	ctx := context.Background()
	repos, s := setup(t, nil)
	require.NoError(t, repos.Notes.Create(ctx, &models.Note{Title: "n", Content: "c"}))
	require.NoError(t, repos.Clients.Create(ctx, &models.Client{CompanyName: "Acme"}))

	require.NoError(t, repository.Purge(ctx, s))
	notes, err := repos.Notes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
	clients, err := repos.Clients.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, clients)
}
