// Package store is a thin document-database abstraction. Every collection keys
// its documents by the application-generated "id" field, not by the native key
// of the underlying database.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("store: document not found")
	ErrDuplicate = errors.New("store: duplicate key")
)

// Cond is a single filter condition. Member conditions match when the field is
// an array that contains Value.
type Cond struct {
	Field  string
	Value  any
	Member bool
}

// Filter is a conjunction of conditions. An empty filter matches everything.
type Filter []Cond

func Eq(field string, value any) Cond {
	return Cond{Field: field, Value: value}
}

func Has(field string, value any) Cond {
	return Cond{Field: field, Value: value, Member: true}
}

// ByID matches the document whose "id" equals id.
func ByID(id string) Filter {
	return Filter{Eq("id", id)}
}

type FindOptions struct {
	SortBy     string
	Descending bool
	Limit      int64
	// Omit lists top-level fields left out of the returned documents.
	Omit []string
}

// Index describes a secondary index on a collection.
type Index struct {
	Collection string
	Fields     []string
	Unique     bool
}

// Collection is one named set of documents. Documents are plain structs whose
// json and bson tags agree.
type Collection interface {
	InsertOne(ctx context.Context, doc any) error
	// FindOne decodes the first match into out or returns ErrNotFound.
	FindOne(ctx context.Context, filter Filter, out any, omit ...string) error
	// Find decodes every match into out, which must point to a slice.
	Find(ctx context.Context, filter Filter, opts FindOptions, out any) error
	// UpdateOne sets the given top-level fields on the first match.
	UpdateOne(ctx context.Context, filter Filter, set map[string]any) error
	DeleteOne(ctx context.Context, filter Filter) error
	DeleteMany(ctx context.Context, filter Filter) (int64, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}

type Store interface {
	Collection(name string) Collection
	EnsureIndexes(ctx context.Context, indexes []Index) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
