package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo stores each collection as a MongoDB collection. The native _id is
// never exposed.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongo(client *mongo.Client, database string) *Mongo {
	return &Mongo{client: client, db: client.Database(database)}
}

func (m *Mongo) Collection(name string) Collection {
	return &mongoCollection{coll: m.db.Collection(name)}
}

func (m *Mongo) EnsureIndexes(ctx context.Context, indexes []Index) error {
	for _, idx := range indexes {
		keys := bson.D{}
		for _, f := range idx.Fields {
			keys = append(keys, bson.E{Key: f, Value: 1})
		}
		model := mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(idx.Unique)}
		if _, err := m.db.Collection(idx.Collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s%v: %w", idx.Collection, idx.Fields, err)
		}
	}
	return nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

type mongoCollection struct {
	coll *mongo.Collection
}

// mongoFilter relies on MongoDB matching a scalar against array elements, so
// member conditions need no operator.
func mongoFilter(filter Filter) bson.D {
	d := bson.D{}
	for _, c := range filter {
		d = append(d, bson.E{Key: c.Field, Value: c.Value})
	}
	return d
}

func projection(omit []string) bson.D {
	p := bson.D{{Key: "_id", Value: 0}}
	for _, f := range omit {
		p = append(p, bson.E{Key: f, Value: 0})
	}
	return p
}

func mongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc any) error {
	_, err := c.coll.InsertOne(ctx, doc)
	return mongoErr(err)
}

func (c *mongoCollection) FindOne(ctx context.Context, filter Filter, out any, omit ...string) error {
	opts := options.FindOne().SetProjection(projection(omit))
	return mongoErr(c.coll.FindOne(ctx, mongoFilter(filter), opts).Decode(out))
}

func (c *mongoCollection) Find(ctx context.Context, filter Filter, opts FindOptions, out any) error {
	findOpts := options.Find().SetProjection(projection(opts.Omit))
	if opts.SortBy != "" {
		dir := 1
		if opts.Descending {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.SortBy, Value: dir}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	cur, err := c.coll.Find(ctx, mongoFilter(filter), findOpts)
	if err != nil {
		return mongoErr(err)
	}
	return cur.All(ctx, out)
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter Filter, set map[string]any) error {
	res, err := c.coll.UpdateOne(ctx, mongoFilter(filter), bson.M{"$set": set})
	if err != nil {
		return mongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter Filter) error {
	res, err := c.coll.DeleteOne(ctx, mongoFilter(filter))
	if err != nil {
		return mongoErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, mongoFilter(filter))
	if err != nil {
		return 0, mongoErr(err)
	}
	return res.DeletedCount, nil
}

func (c *mongoCollection) Count(ctx context.Context, filter Filter) (int64, error) {
	return c.coll.CountDocuments(ctx, mongoFilter(filter))
}
