// Package pgdoc implements docstore.Store on a single PostgreSQL JSONB
// table. Logical tables share the physical "documents" table and are told
// apart by the tbl column.
package pgdoc

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore/pgdoc/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

var _ docstore.Store = (*Store)(nil)

// DBTX is the subset of database/sql the store uses. Both *sql.DB and
// *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store runs every operation as a single statement, so row-level locking
// gives Increment and the versioned Put their atomicity.
type Store struct {
	db DBTX
}

// New binds a store to an open *sql.DB or *sql.Tx.
func New(db DBTX) *Store {
	return &Store{db: db}
}

var sqlOpen = sql.Open

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Open connects with the pgx driver and applies the embedded migrations.
func Open(ctx context.Context, dsn string) (*Store, *sql.DB, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return New(db), db, nil
}

// RunMigrations creates or upgrades the documents table.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func decodeBody(b []byte) (docstore.Record, error) {
	var rec docstore.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("%w: decode body: %w", docstore.ErrStore, err)
	}
	if rec == nil {
		rec = docstore.Record{}
	}
	return rec, nil
}

func encodeBody(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: encode body: %w", docstore.ErrStore, err)
	}
	return b, nil
}

func (s *Store) Get(ctx context.Context, table, id string) (docstore.Record, bool, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE tbl = $1 AND id = $2`, table, id,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classify("get", table, err)
	}
	rec, err := decodeBody(body)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// scanQuery turns a filter into equality tests. Scalars share one
// containment test, which the GIN index serves and which for scalars is
// equality. Lists and objects are compared whole with "=", since containment
// would also match supersets. A nil value becomes an IS NULL test, which
// covers JSON null and a missing key.
func scanQuery(table string, filter docstore.Filter) (string, []any, error) {
	f, err := docstore.NormalizeFilter(filter)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", docstore.ErrStore, err)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT body FROM documents WHERE tbl = $1`)
	args := []any{table}

	scalars := map[string]any{}
	var composite, nullKeys []string
	for k, v := range f {
		switch v.(type) {
		case nil:
			nullKeys = append(nullKeys, k)
		case string, float64, bool:
			scalars[k] = v
		default:
			composite = append(composite, k)
		}
	}

	if len(scalars) > 0 {
		b, err := encodeBody(scalars)
		if err != nil {
			return "", nil, err
		}
		args = append(args, string(b))
		fmt.Fprintf(&sb, ` AND body @> $%d::jsonb`, len(args))
	}

	sort.Strings(composite)
	for _, k := range composite {
		b, err := encodeBody(f[k])
		if err != nil {
			return "", nil, err
		}
		args = append(args, k, string(b))
		fmt.Fprintf(&sb, ` AND body->$%d::text = $%d::jsonb`, len(args)-1, len(args))
	}

	sort.Strings(nullKeys)
	for _, k := range nullKeys {
		args = append(args, k)
		fmt.Fprintf(&sb, ` AND body->>$%d IS NULL`, len(args))
	}
	return sb.String(), args, nil
}

func (s *Store) Scan(ctx context.Context, table string, filter docstore.Filter) ([]docstore.Record, error) {
	query, args, err := scanQuery(table, filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("scan", table, err)
	}
	defer rows.Close()

	out := make([]docstore.Record, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, classify("scan", table, err)
		}
		rec, err := decodeBody(body)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("scan", table, err)
	}
	return out, nil
}

func (s *Store) InsertIfAbsent(ctx context.Context, table string, rec docstore.Record) (docstore.Record, error) {
	if err := docstore.RequireID(rec); err != nil {
		return nil, err
	}
	body, err := encodeBody(rec)
	if err != nil {
		return nil, err
	}

	id := docstore.ID(rec)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (tbl, id, body) VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (tbl, id) DO NOTHING`, table, id, string(body))
	if err != nil {
		return nil, classify("insert", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, classify("insert", table, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%s %q: %w", table, id, docstore.ErrAlreadyExists)
	}
	return decodeBody(body)
}

func (s *Store) Put(ctx context.Context, table string, rec docstore.Record) (docstore.Record, error) {
	if err := docstore.RequireID(rec); err != nil {
		return nil, err
	}
	row, err := docstore.NormalizeRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", docstore.ErrStore, err)
	}
	id := docstore.ID(row)

	want, versioned := docstore.Version(row)
	if versioned {
		row[docstore.AttrVersion] = float64(want + 1)
	}
	body, err := encodeBody(row)
	if err != nil {
		return nil, err
	}

	var res sql.Result
	switch {
	case !versioned:
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO documents (tbl, id, body) VALUES ($1, $2, $3::jsonb)
			ON CONFLICT (tbl, id) DO UPDATE SET body = EXCLUDED.body`, table, id, string(body))
	case want == 0:
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO documents (tbl, id, body) VALUES ($1, $2, $3::jsonb)
			ON CONFLICT (tbl, id) DO UPDATE SET body = EXCLUDED.body
			WHERE COALESCE((documents.body->>'version')::bigint, 0) = 0`, table, id, string(body))
	default:
		res, err = s.db.ExecContext(ctx, `
			UPDATE documents SET body = $3::jsonb
			WHERE tbl = $1 AND id = $2 AND COALESCE((body->>'version')::bigint, 0) = $4`,
			table, id, string(body), want)
	}
	if err != nil {
		return nil, classify("put", table, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, classify("put", table, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%s %q: %w", table, id, docstore.ErrConflict)
	}
	return row, nil
}

func (s *Store) returning(ctx context.Context, op, table, id, query string, args ...any) (docstore.Record, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %q: %w", table, id, docstore.ErrNotFound)
	}
	if err != nil {
		return nil, classify(op, table, err)
	}
	return decodeBody(body)
}

func (s *Store) PartialUpdate(ctx context.Context, table, id string, changes docstore.Changes) (docstore.Record, error) {
	if err := docstore.ValidateChanges(changes); err != nil {
		return nil, err
	}

	patch := make(map[string]any, len(changes)+1)
	for k, v := range changes {
		patch[k] = v
	}
	patch[docstore.AttrUpdatedAt] = docstore.Timestamp()

	body, err := encodeBody(patch)
	if err != nil {
		return nil, err
	}

	return s.returning(ctx, "update", table, id, `
		UPDATE documents SET body = body || $3::jsonb
		WHERE tbl = $1 AND id = $2
		RETURNING body`, table, id, string(body))
}

func (s *Store) Increment(ctx context.Context, table, id, field string, delta float64) (docstore.Record, error) {
	if err := docstore.ValidateCounter(field); err != nil {
		return nil, err
	}

	return s.returning(ctx, "increment", table, id, `
		UPDATE documents
		SET body = jsonb_set(body, ARRAY[$3::text], to_jsonb(COALESCE((body->>$3::text)::numeric, 0) + $4::numeric))
			|| jsonb_build_object('updatedAt', $5::text)
		WHERE tbl = $1 AND id = $2
		RETURNING body`, table, id, field, delta, docstore.Timestamp())
}

func (s *Store) Delete(ctx context.Context, table, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE tbl = $1 AND id = $2`, table, id); err != nil {
		return classify("delete", table, err)
	}
	return nil
}

// transientClasses are SQLSTATE classes worth retrying: connection
// exceptions, insufficient resources, operator intervention and
// serialization failures.
var transientClasses = []string{"08", "53", "57", "40"}

func classify(op, table string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("postgres %s %s: %w", op, table, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		for _, c := range transientClasses {
			if strings.HasPrefix(pgErr.Code, c) {
				return fmt.Errorf("%w: postgres %s %s: %w", docstore.ErrStoreUnavailable, op, table, err)
			}
		}
		return fmt.Errorf("%w: postgres %s %s: %w", docstore.ErrStore, op, table, err)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: postgres %s %s: %w", docstore.ErrStoreUnavailable, op, table, err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: postgres %s %s: %w", docstore.ErrStoreUnavailable, op, table, err)
	}

	return fmt.Errorf("%w: postgres %s %s: %w", docstore.ErrStore, op, table, err)
}
