package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"smartbudget/internal/core"
	"smartbudget/internal/ledger"
	applog "smartbudget/internal/log"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements ledger.Store on a SQLite database.
type SQLiteRepository struct {
	db     *sql.DB
	logger *applog.Logger
}

var _ ledger.Store = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens dbPath, applies migrations and returns the repository.
func NewSQLiteRepository(dbPath string, logger *applog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite serialises writers; a single connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: logger.WithComponent(applog.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection, used by the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Create(ctx context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (entry_date, category, amount_cents, entry_type) VALUES (?, ?, ?, ?)`,
		e.Date.String(), e.Category, e.Amount.Cents, string(e.Type))
	if err != nil {
		return core.Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Entry{}, fmt.Errorf("read entry id: %w", err)
	}
	e.ID = id

	r.logger.DebugContext(ctx, "Entry saved to SQLite",
		applog.NewFields().
			WithOperation(applog.OpCreate).
			WithEntry(e.ID, e.Date.String(), e.Category, e.Amount.Cents, string(e.Type)).
			ToSlice()...)
	return e, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE entries
		    SET entry_date = ?, category = ?, amount_cents = ?, entry_type = ?, updated_at = CURRENT_TIMESTAMP
		  WHERE id = ?`,
		e.Date.String(), e.Category, e.Amount.Cents, string(e.Type), e.ID)
	if err != nil {
		return core.Entry{}, fmt.Errorf("update entry %d: %w", e.ID, err)
	}
	if err := expectOneRow(res); err != nil {
		return core.Entry{}, err
	}
	return e, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, entry_date, category, amount_cents, entry_type FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry %d: %w", id, err)
	}
	return e, nil
}

func (r *SQLiteRepository) List(ctx context.Context, f core.Filter) ([]core.Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Type != "" {
		where = append(where, "entry_type = ?")
		args = append(args, string(f.Type))
	}
	if !f.From.IsZero() {
		where = append(where, "entry_date >= ?")
		args = append(args, f.From.String())
	}
	if !f.To.IsZero() {
		where = append(where, "entry_date <= ?")
		args = append(args, f.To.String())
	}

	query := `SELECT id, entry_date, category, amount_cents, entry_type FROM entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY entry_date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := make([]core.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (core.Entry, error) {
	var (
		e     core.Entry
		date  string
		typ   string
		cents int64
	)
	if err := s.Scan(&e.ID, &date, &e.Category, &cents, &typ); err != nil {
		return core.Entry{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Entry{}, fmt.Errorf("entry %d has invalid date %q: %w", e.ID, date, err)
	}
	e.Date = d
	e.Amount = core.Money{Cents: cents}
	e.Type = core.EntryType(typ)
	return e, nil
}

func (r *SQLiteRepository) Categories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *SQLiteRepository) AddCategory(ctx context.Context, name string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateCategoryName(name); err != nil {
		return core.Category{}, err
	}

	res, err := r.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Category{}, ledger.ErrCategoryExists
		}
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("read category id: %w", err)
	}
	return core.Category{ID: id, Name: name}, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE"))
	}
	return false
}

func (r *SQLiteRepository) Stats(ctx context.Context) (ledger.Stats, error) {
	var s ledger.Stats
	err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM entries), (SELECT COUNT(*) FROM categories)`,
	).Scan(&s.Entries, &s.Categories)
	if err != nil {
		return ledger.Stats{}, fmt.Errorf("read stats: %w", err)
	}
	return s, nil
}
