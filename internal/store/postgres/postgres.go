// Package postgres reads and writes the task table directly, for setups
// that reach the database without going through the REST gateway.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Makepad-fr/todosum/internal/model"
	"github.com/Makepad-fr/todosum/internal/store"
)

var _ store.Store = (*Store)(nil)

const defaultTable = "todos"

// id is a uuid column; cast so it scans into a string.
var columns = []string{"id::text", "title", "description", "completed", "created_at"}

type Config struct {
	DSN     string
	Table   string
	Timeout time.Duration // connect deadline
}

type Store struct {
	db      *pgxpool.Pool
	table   string
	builder squirrel.StatementBuilderType
}

// Open connects and pings the database within cfg.Timeout.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres: dsn not set")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return New(pool, cfg.Table), nil
}

func New(pool *pgxpool.Pool, table string) *Store {
	if table == "" {
		table = defaultTable
	}
	return &Store{
		db:      pool,
		table:   table,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (s *Store) List(ctx context.Context) ([]model.Task, error) {
	query, args, err := s.builder.
		Select(columns...).
		From(s.table).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) Create(ctx context.Context, in model.NewTask) (model.Task, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Task{}, err
	}
	query, args, err := s.builder.
		Insert(s.table).
		Columns("title", "description", "completed").
		Values(in.Title, nullable(in.Description), false).
		Suffix("RETURNING " + returning()).
		ToSql()
	if err != nil {
		return model.Task{}, err
	}
	t, err := scanTask(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return model.Task{}, fmt.Errorf("insert into %s: %w", s.table, err)
	}
	return t, nil
}

func (s *Store) Update(ctx context.Context, id string, p model.Patch) (*model.Task, error) {
	if p.IsEmpty() {
		return nil, errors.New("update: nothing to change")
	}
	q := s.builder.Update(s.table)
	if p.Title != nil {
		q = q.Set("title", *p.Title)
	}
	if p.Description != nil {
		q = q.Set("description", nullable(*p.Description))
	}
	if p.Completed != nil {
		q = q.Set("completed", *p.Completed)
	}
	query, args, err := q.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + returning()).
		ToSql()
	if err != nil {
		return nil, err
	}

	t, err := scanTask(s.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update %s %s: %w", s.table, id, err)
	}
	return &t, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	query, args, err := s.builder.
		Delete(s.table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", s.table, id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Close() error {
	s.db.Close()
	return nil
}

func scanTask(row pgx.Row) (model.Task, error) {
	var (
		t    model.Task
		desc *string
	)
	if err := row.Scan(&t.ID, &t.Title, &desc, &t.Completed, &t.CreatedAt); err != nil {
		return model.Task{}, err
	}
	if desc != nil {
		t.Description = model.Some(*desc)
	}
	return t, nil
}

func nullable(o model.Optional[string]) *string {
	if v, ok := o.Get(); ok {
		return &v
	}
	return nil
}

func returning() string { return strings.Join(columns, ", ") }
