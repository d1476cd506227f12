package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce-portal/internal/store"
)

type item struct {
	ID     string   `json:"id" bson:"id"`
	Name   string   `json:"name" bson:"name"`
	Rank   int      `json:"rank" bson:"rank"`
	Tags   []string `json:"tags" bson:"tags"`
	Secret string   `json:"secret,omitempty" bson:"secret,omitempty"`
}

// runConformance exercises the behaviour every driver has to share.
func runConformance(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("insert and find one", func(t *testing.T) {
		ctx := context.Background()
		coll := newStore(t).Collection("items")
		require.NoError(t, coll.InsertOne(ctx, item{ID: "a", Name: "alpha", Tags: []string{"x"}, Secret: "s"}))

		var got item
		require.NoError(t, coll.FindOne(ctx, store.ByID("a"), &got))
		assert.Equal(t, "alpha", got.Name)
		assert.Equal(t, "s", got.Secret)

		got = item{}
		require.NoError(t, coll.FindOne(ctx, store.ByID("a"), &got, "secret"))
		assert.Empty(t, got.Secret)

		err := coll.FindOne(ctx, store.ByID("zzz"), &got)
		assert.True(t, errors.Is(err, store.ErrNotFound))
	})

	t.Run("unique index", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.EnsureIndexes(ctx, []store.Index{
			{Collection: "people", Fields: []string{"id"}, Unique: true},
			{Collection: "people", Fields: []string{"name"}, Unique: true},
		}))
		coll := s.Collection("people")
		require.NoError(t, coll.InsertOne(ctx, item{ID: "1", Name: "ana"}))
		require.NoError(t, coll.InsertOne(ctx, item{ID: "2", Name: "bob"}))

		err := coll.InsertOne(ctx, item{ID: "3", Name: "ana"})
		assert.True(t, errors.Is(err, store.ErrDuplicate), "got %v", err)

		err = coll.UpdateOne(ctx, store.ByID("2"), map[string]any{"name": "ana"})
		assert.True(t, errors.Is(err, store.ErrDuplicate), "got %v", err)
	})

	t.Run("filters sort and limit", func(t *testing.T) {
		ctx := context.Background()
		coll := newStore(t).Collection("ranked")
		for _, it := range []item{
			{ID: "1", Name: "one", Rank: 2, Tags: []string{"red"}},
			{ID: "2", Name: "two", Rank: 3, Tags: []string{"red", "blue"}},
			{ID: "3", Name: "three", Rank: 1, Tags: []string{}},
		} {
			require.NoError(t, coll.InsertOne(ctx, it))
		}

		var red []item
		require.NoError(t, coll.Find(ctx, store.Filter{store.Has("tags", "red")}, store.FindOptions{SortBy: "rank"}, &red))
		require.Len(t, red, 2)
		assert.Equal(t, "1", red[0].ID)
		assert.Equal(t, "2", red[1].ID)

		var top []item
		require.NoError(t, coll.Find(ctx, nil, store.FindOptions{SortBy: "rank", Descending: true, Limit: 2}, &top))
		require.Len(t, top, 2)
		assert.Equal(t, "2", top[0].ID)
		assert.Equal(t, "1", top[1].ID)

		var both []item
		require.NoError(t, coll.Find(ctx, store.Filter{store.Has("tags", "red"), store.Eq("name", "two")}, store.FindOptions{}, &both))
		require.Len(t, both, 1)

		var none []item
		require.NoError(t, coll.Find(ctx, store.Filter{store.Eq("name", "four")}, store.FindOptions{}, &none))
		assert.Empty(t, none)

		n, err := coll.Count(ctx, store.Filter{store.Has("tags", "blue")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("update and delete", func(t *testing.T) {
		ctx := context.Background()
		coll := newStore(t).Collection("mutable")
		require.NoError(t, coll.InsertOne(ctx, item{ID: "a", Name: "before", Rank: 1}))
		require.NoError(t, coll.InsertOne(ctx, item{ID: "b", Name: "keep", Rank: 1}))
		require.NoError(t, coll.InsertOne(ctx, item{ID: "c", Name: "keep", Rank: 2}))

		require.NoError(t, coll.UpdateOne(ctx, store.ByID("a"), map[string]any{"name": "after"}))
		var got item
		require.NoError(t, coll.FindOne(ctx, store.ByID("a"), &got))
		assert.Equal(t, "after", got.Name)
		assert.Equal(t, 1, got.Rank)

		err := coll.UpdateOne(ctx, store.ByID("missing"), map[string]any{"name": "x"})
		assert.True(t, errors.Is(err, store.ErrNotFound))

		removed, err := coll.DeleteMany(ctx, store.Filter{store.Eq("name", "keep")})
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)

		require.NoError(t, coll.DeleteOne(ctx, store.ByID("a")))
		assert.True(t, errors.Is(coll.DeleteOne(ctx, store.ByID("a")), store.ErrNotFound))

		n, err := coll.Count(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
