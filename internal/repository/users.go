package repository

import (
	"context"
	"errors"

	"workforce-portal/internal/domain"
	"workforce-portal/internal/models"
	"workforce-portal/internal/store"
)

const passwordField = "password_hash"

type UserRepository struct {
	coll store.Collection
}

// Create stores a new account. Email must not be in use.
func (r *UserRepository) Create(ctx context.Context, rec *models.UserRecord) error {
	taken, err := r.EmailTaken(ctx, rec.Email)
	if err != nil {
		return err
	}
	if taken {
		return domain.Conflict("Email already in use")
	}
	rec.ID = newID()
	rec.CreatedAt = models.Now()
	if err := r.coll.InsertOne(ctx, rec); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return domain.Conflict("Email already in use")
		}
		return translate(err, "User")
	}
	return nil
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.Count(ctx, store.Filter{store.Eq("email", email)})
	if err != nil {
		return false, translate(err, "User")
	}
	return n > 0, nil
}

func (r *UserRepository) AdminExists(ctx context.Context) (bool, error) {
	n, err := r.CountByRole(ctx, models.RoleAdmin)
	return n > 0, err
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	n, err := r.coll.Count(ctx, store.Filter{store.Eq("role", role)})
	return n, translate(err, "User")
}

// FindByEmail returns the stored record including the password hash. Only
// login uses it.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.UserRecord, error) {
	var rec models.UserRecord
	err := r.coll.FindOne(ctx, store.Filter{store.Eq("email", email)}, &rec)
	return rec, translate(err, "User")
}

func (r *UserRepository) Get(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := r.coll.FindOne(ctx, store.ByID(id), &u, passwordField)
	return u, translate(err, "User")
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return r.find(ctx, nil)
}

func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	return r.find(ctx, store.Filter{store.Eq("role", role)})
}

func (r *UserRepository) find(ctx context.Context, filter store.Filter) ([]models.User, error) {
	users := []models.User{}
	if err := r.coll.Find(ctx, filter, store.FindOptions{Omit: []string{passwordField}}, &users); err != nil {
		return nil, translate(err, "User")
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Update sets the given fields. A new email must not belong to another user.
func (r *UserRepository) Update(ctx context.Context, id string, set map[string]any) error {
	if email, ok := set["email"].(string); ok {
		var existing models.User
		err := r.coll.FindOne(ctx, store.Filter{store.Eq("email", email)}, &existing, passwordField)
		if err == nil && existing.ID != id {
			return domain.Conflict("Email already in use")
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return translate(err, "User")
		}
	}
	err := r.coll.UpdateOne(ctx, store.ByID(id), set)
	if errors.Is(err, store.ErrDuplicate) {
		return domain.Conflict("Email already in use")
	}
	return translate(err, "User")
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return translate(r.coll.DeleteOne(ctx, store.ByID(id)), "User")
}

// Resolve loads the users behind ids in the same order. Unknown ids are
// skipped.
func (r *UserRepository) Resolve(ctx context.Context, ids []string) ([]models.User, error) {
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, err := r.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
