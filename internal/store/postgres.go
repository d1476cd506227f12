package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/lib/pq"
)

var collectionName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Postgres keeps each collection in a table of JSONB documents. Filters
// compile to JSONB containment so array membership needs no special syntax.
type Postgres struct {
	db    *sql.DB
	mu    sync.Mutex
	ready map[string]bool
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, ready: make(map[string]bool)}
}

func (p *Postgres) Collection(name string) Collection {
	return &pgCollection{store: p, name: name, table: pq.QuoteIdentifier(name)}
}

// ensureTable creates the backing table on first use.
func (p *Postgres) ensureTable(ctx context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready[name] {
		return nil
	}
	if !collectionName.MatchString(name) {
		return fmt.Errorf("invalid collection name %q", name)
	}
	table := pq.QuoteIdentifier(name)
	query := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
    seq BIGSERIAL,
    id TEXT PRIMARY KEY,
    doc JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s USING GIN (doc jsonb_path_ops);
`, table, pq.QuoteIdentifier(name+"_doc_gin"))
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	p.ready[name] = true
	return nil
}

func (p *Postgres) EnsureIndexes(ctx context.Context, indexes []Index) error {
	for _, idx := range indexes {
		if err := p.ensureTable(ctx, idx.Collection); err != nil {
			return err
		}
		if len(idx.Fields) == 0 {
			continue
		}
		exprs := make([]string, 0, len(idx.Fields))
		for _, f := range idx.Fields {
			exprs = append(exprs, fmt.Sprintf("(doc->>%s)", pq.QuoteLiteral(f)))
		}
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		name := pq.QuoteIdentifier(idx.Collection + "_" + strings.Join(idx.Fields, "_") + "_idx")
		query := fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)",
			unique, name, pq.QuoteIdentifier(idx.Collection), strings.Join(exprs, ", "))
		if _, err := p.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create index on %s%v: %w", idx.Collection, idx.Fields, err)
		}
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) Close(context.Context) error {
	return p.db.Close()
}

type pgCollection struct {
	store *Postgres
	name  string
	table string
}

func containment(filter Filter) (string, error) {
	obj := make(map[string]any, len(filter))
	for _, c := range filter {
		if c.Member {
			obj[c.Field] = []any{c.Value}
			continue
		}
		obj[c.Field] = c.Value
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("encode filter: %w", err)
	}
	return string(b), nil
}

func pgErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func omitted(omit []string) any {
	if omit == nil {
		omit = []string{}
	}
	return pq.Array(omit)
}

func (c *pgCollection) InsertOne(ctx context.Context, doc any) error {
	if err := c.store.ensureTable(ctx, c.name); err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	var keyed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &keyed); err != nil || keyed.ID == "" {
		return fmt.Errorf("%s: document has no id", c.name)
	}
	query := fmt.Sprintf("INSERT INTO %s (id, doc) VALUES ($1, $2)", c.table)
	_, err = c.store.db.ExecContext(ctx, query, keyed.ID, string(b))
	return pgErr(err)
}

func (c *pgCollection) FindOne(ctx context.Context, filter Filter, out any, omit ...string) error {
	if err := c.store.ensureTable(ctx, c.name); err != nil {
		return err
	}
	cond, err := containment(filter)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("SELECT doc - $2::text[] FROM %s WHERE doc @> $1::jsonb ORDER BY seq LIMIT 1", c.table)
	var raw []byte
	if err := c.store.db.QueryRowContext(ctx, query, cond, omitted(omit)).Scan(&raw); err != nil {
		return pgErr(err)
	}
	return json.Unmarshal(raw, out)
}

func (c *pgCollection) Find(ctx context.Context, filter Filter, opts FindOptions, out any) error {
	if err := c.store.ensureTable(ctx, c.name); err != nil {
		return err
	}
	cond, err := containment(filter)
	if err != nil {
		return err
	}
	order := "seq"
	args := []any{cond, omitted(opts.Omit)}
	if opts.SortBy != "" {
		dir := "ASC"
		if opts.Descending {
			dir = "DESC"
		}
		args = append(args, opts.SortBy)
		order = fmt.Sprintf("doc->($%d::text) %s, seq", len(args), dir)
	}
	limit := sql.NullInt64{Int64: opts.Limit, Valid: opts.Limit > 0}
	args = append(args, limit)
	query := fmt.Sprintf("SELECT doc - $2::text[] FROM %s WHERE doc @> $1::jsonb ORDER BY %s LIMIT $%d",
		c.table, order, len(args))

	rows, err := c.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return pgErr(err)
	}
	defer rows.Close()

	docs := make([]json.RawMessage, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		docs = append(docs, json.RawMessage(raw))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (c *pgCollection) UpdateOne(ctx context.Context, filter Filter, set map[string]any) error {
	if err := c.store.ensureTable(ctx, c.name); err != nil {
		return err
	}
	cond, err := containment(filter)
	if err != nil {
		return err
	}
	patch, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}
	query := fmt.Sprintf(`UPDATE %[1]s SET doc = doc || $2::jsonb
WHERE id = (SELECT id FROM %[1]s WHERE doc @> $1::jsonb ORDER BY seq LIMIT 1)`, c.table)
	res, err := c.store.db.ExecContext(ctx, query, cond, string(patch))
	if err != nil {
		return pgErr(err)
	}
	return requireAffected(res)
}

func (c *pgCollection) DeleteOne(ctx context.Context, filter Filter) error {
	if err := c.store.ensureTable(ctx, c.name); err != nil {
		return err
	}
	cond, err := containment(filter)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %[1]s
WHERE id = (SELECT id FROM %[1]s WHERE doc @> $1::jsonb ORDER BY seq LIMIT 1)`, c.table)
	res, err := c.store.db.ExecContext(ctx, query, cond)
	if err != nil {
		return pgErr(err)
	}
	return requireAffected(res)
}

func (c *pgCollection) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	if err := c.store.ensureTable(ctx, c.name); err != nil {
		return 0, err
	}
	cond, err := containment(filter)
	if err != nil {
		return 0, err
	}
	res, err := c.store.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE doc @> $1::jsonb", c.table), cond)
	if err != nil {
		return 0, pgErr(err)
	}
	return res.RowsAffected()
}

func (c *pgCollection) Count(ctx context.Context, filter Filter) (int64, error) {
	if err := c.store.ensureTable(ctx, c.name); err != nil {
		return 0, err
	}
	cond, err := containment(filter)
	if err != nil {
		return 0, err
	}
	var n int64
	err = c.store.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT count(*) FROM %s WHERE doc @> $1::jsonb", c.table), cond).Scan(&n)
	return n, pgErr(err)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
