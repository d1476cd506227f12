package repository

import (
	"context"

	"workforce-portal/internal/models"
	"workforce-portal/internal/store"
)

type TaskRepository struct {
	coll store.Collection
}

func (r *TaskRepository) Create(ctx context.Context, t *models.Task) error {
	t.ID = newID()
	t.CreatedAt = models.Now()
	if t.AssignedTo == nil {
		t.AssignedTo = []string{}
	}
	return translate(r.coll.InsertOne(ctx, t), "Task")
}

func (r *TaskRepository) Get(ctx context.Context, id string) (models.Task, error) {
	var t models.Task
	err := r.coll.FindOne(ctx, store.ByID(id), &t)
	return t, translate(err, "Task")
}

// List returns every task, or only the tasks assigned to assignee when it is
// not empty.
func (r *TaskRepository) List(ctx context.Context, assignee string) ([]models.Task, error) {
	return r.find(ctx, assigneeFilter(assignee), store.FindOptions{})
}

// Recent returns the n most recently created tasks, newest first.
func (r *TaskRepository) Recent(ctx context.Context, n int64) ([]models.Task, error) {
	return r.find(ctx, nil, store.FindOptions{SortBy: "created_at", Descending: true, Limit: n})
}

func (r *TaskRepository) find(ctx context.Context, filter store.Filter, opts store.FindOptions) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.coll.Find(ctx, filter, opts, &tasks); err != nil {
		return nil, translate(err, "Task")
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Count counts tasks, optionally limited to one assignee and one status.
func (r *TaskRepository) Count(ctx context.Context, assignee, status string) (int64, error) {
	filter := assigneeFilter(assignee)
	if status != "" {
		filter = append(filter, store.Eq("status", status))
	}
	n, err := r.coll.Count(ctx, filter)
	return n, translate(err, "Task")
}

func (r *TaskRepository) Update(ctx context.Context, id string, set map[string]any) error {
	if len(set) == 0 {
		return nil
	}
	return translate(r.coll.UpdateOne(ctx, store.ByID(id), set), "Task")
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return translate(r.coll.DeleteOne(ctx, store.ByID(id)), "Task")
}

func assigneeFilter(assignee string) store.Filter {
	if assignee == "" {
		return store.Filter{}
	}
	return store.Filter{store.Has("assigned_to", assignee)}
}
