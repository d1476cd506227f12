package repository

import (
	"context"

	"workforce-portal/internal/models"
	"workforce-portal/internal/store"
)

type ClientRepository struct {
	coll store.Collection
}

func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	c.ID = newID()
	c.CreatedAt = models.Now()
	if c.Status == "" {
		c.Status = models.ClientActive
	}
	return translate(r.coll.InsertOne(ctx, c), "Client")
}

func (r *ClientRepository) Get(ctx context.Context, id string) (models.Client, error) {
	var c models.Client
	err := r.coll.FindOne(ctx, store.ByID(id), &c)
	return c, translate(err, "Client")
}

func (r *ClientRepository) List(ctx context.Context) ([]models.Client, error) {
	clients := []models.Client{}
	if err := r.coll.Find(ctx, nil, store.FindOptions{}, &clients); err != nil {
		return nil, translate(err, "Client")
	}
	if clients == nil {
		clients = []models.Client{}
	}
	return clients, nil
}

func (r *ClientRepository) Update(ctx context.Context, id string, set map[string]any) error {
	if len(set) == 0 {
		return nil
	}
	return translate(r.coll.UpdateOne(ctx, store.ByID(id), set), "Client")
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	return translate(r.coll.DeleteOne(ctx, store.ByID(id)), "Client")
}
