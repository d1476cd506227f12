package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Memory keeps every collection in process. Documents are normalised through
// JSON, so callers never share memory with the store.
type Memory struct {
	mu          sync.Mutex
	collections map[string]*memCollection
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memCollection)}
}

func (m *Memory) Collection(name string) Collection {
	return m.collection(name)
}

func (m *Memory) collection(name string) *memCollection {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[name]
	if !ok {
		c = &memCollection{name: name}
		m.collections[name] = c
	}
	return c
}

func (m *Memory) EnsureIndexes(_ context.Context, indexes []Index) error {
	for _, idx := range indexes {
		if !idx.Unique {
			continue
		}
		c := m.collection(idx.Collection)
		c.mu.Lock()
		c.unique = append(c.unique, idx.Fields)
		c.mu.Unlock()
	}
	return nil
}

func (m *Memory) Ping(context.Context) error  { return nil }
func (m *Memory) Close(context.Context) error { return nil }

type memCollection struct {
	mu     sync.RWMutex
	name   string
	docs   []map[string]any
	unique [][]string
}

func (c *memCollection) InsertOne(_ context.Context, doc any) error {
	m, err := toDocument(doc)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conflicts(m, -1) {
		return fmt.Errorf("%s: %w", c.name, ErrDuplicate)
	}
	c.docs = append(c.docs, m)
	return nil
}

func (c *memCollection) FindOne(_ context.Context, filter Filter, out any, omit ...string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.docs {
		ok, err := matches(d, filter)
		if err != nil {
			return err
		}
		if ok {
			return decode(without(d, omit), out)
		}
	}
	return ErrNotFound
}

func (c *memCollection) Find(_ context.Context, filter Filter, opts FindOptions, out any) error {
	c.mu.RLock()
	found := make([]map[string]any, 0)
	for _, d := range c.docs {
		ok, err := matches(d, filter)
		if err != nil {
			c.mu.RUnlock()
			return err
		}
		if ok {
			found = append(found, without(d, opts.Omit))
		}
	}
	c.mu.RUnlock()

	if opts.SortBy != "" {
		sort.SliceStable(found, func(i, j int) bool {
			cmp := compareValues(found[i][opts.SortBy], found[j][opts.SortBy])
			if opts.Descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if opts.Limit > 0 && int64(len(found)) > opts.Limit {
		found = found[:opts.Limit]
	}
	return decode(found, out)
}

func (c *memCollection) UpdateOne(_ context.Context, filter Filter, set map[string]any) error {
	patch, err := toDocument(set)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range c.docs {
		ok, err := matches(d, filter)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		updated := without(d, nil)
		for k, v := range patch {
			updated[k] = v
		}
		if c.conflicts(updated, i) {
			return fmt.Errorf("%s: %w", c.name, ErrDuplicate)
		}
		c.docs[i] = updated
		return nil
	}
	return ErrNotFound
}

func (c *memCollection) DeleteOne(_ context.Context, filter Filter) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range c.docs {
		ok, err := matches(d, filter)
		if err != nil {
			return err
		}
		if ok {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (c *memCollection) DeleteMany(_ context.Context, filter Filter) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.docs[:0]
	var deleted int64
	for _, d := range c.docs {
		ok, err := matches(d, filter)
		if err != nil {
			return 0, err
		}
		if ok {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	c.docs = kept
	return deleted, nil
}

func (c *memCollection) Count(_ context.Context, filter Filter) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var n int64
	for _, d := range c.docs {
		ok, err := matches(d, filter)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// conflicts reports whether doc collides with another document on a unique
// index. skip is the position of doc itself, or -1 on insert.
func (c *memCollection) conflicts(doc map[string]any, skip int) bool {
	for _, fields := range c.unique {
		for i, other := range c.docs {
			if i == skip {
				continue
			}
			same := true
			for _, f := range fields {
				if !reflect.DeepEqual(doc[f], other[f]) {
					same = false
					break
				}
			}
			if same {
				return true
			}
		}
	}
	return false
}

func matches(doc map[string]any, filter Filter) (bool, error) {
	for _, cond := range filter {
		want, err := normalize(cond.Value)
		if err != nil {
			return false, err
		}
		got := doc[cond.Field]
		if !cond.Member {
			if !reflect.DeepEqual(got, want) {
				return false, nil
			}
			continue
		}
		items, ok := got.([]any)
		if !ok {
			return false, nil
		}
		member := false
		for _, item := range items {
			if reflect.DeepEqual(item, want) {
				member = true
				break
			}
		}
		if !member {
			return false, nil
		}
	}
	return true, nil
}

func compareValues(a, b any) int {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	switch {
	case a == nil && b != nil:
		return -1
	case a != nil && b == nil:
		return 1
	}
	return 0
}

func without(doc map[string]any, omit []string) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	for _, f := range omit {
		delete(out, f)
	}
	return out
}

func toDocument(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("document must be an object: %w", err)
	}
	return m, nil
}

func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode filter value: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decode(v any, out any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
