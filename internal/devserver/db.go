package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Makepad-fr/todosum/internal/model"
)

// Fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var columns = []string{"id", "title", "description", "completed", "created_at"}

// db is the sqlite table behind the emulated REST API.
type db struct {
	sql     *sql.DB
	table   string
	builder squirrel.StatementBuilderType
	now     func() time.Time
}

func openDB(path, table string) (*db, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows one writer; a single connection also keeps :memory: shared.
	conn.SetMaxOpenConns(1)

	ddl := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL CHECK (length(trim(title)) > 0),
		description TEXT,
		completed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_%[1]s_created_at ON %[1]s(created_at);
	`, table)
	if _, err := conn.Exec(ddl); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &db{
		sql:     conn,
		table:   table,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		now:     time.Now,
	}, nil
}

func (d *db) Close() error { return d.sql.Close() }

func (d *db) list(ctx context.Context, ascending bool) ([]model.Task, error) {
	order := "created_at DESC"
	if ascending {
		order = "created_at ASC"
	}
	q, args, err := d.builder.Select(columns...).From(d.table).OrderBy(order).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (d *db) insert(ctx context.Context, in model.NewTask, completed bool) (model.Task, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Task{}, err
	}
	q, args, err := d.builder.Insert(d.table).
		Columns(columns...).
		Values(uuid.NewString(), in.Title, nullable(in.Description), completed, d.now().UTC().Format(timeLayout)).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return model.Task{}, err
	}
	return scanTask(d.sql.QueryRowContext(ctx, q, args...))
}

// update applies p to the row with id. It returns sql.ErrNoRows when the
// row does not exist.
func (d *db) update(ctx context.Context, id string, p model.Patch) (model.Task, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return model.Task{}, model.ErrEmptyTitle
	}
	set := map[string]any{}
	if p.Title != nil {
		set["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		set["description"] = nullable(*p.Description)
	}
	if p.Completed != nil {
		set["completed"] = *p.Completed
	}
	if len(set) == 0 {
		return model.Task{}, errors.New("nothing to update")
	}
	q, args, err := d.builder.Update(d.table).
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return model.Task{}, err
	}
	return scanTask(d.sql.QueryRowContext(ctx, q, args...))
}

func (d *db) delete(ctx context.Context, id string) (model.Task, error) {
	q, args, err := d.builder.Delete(d.table).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return model.Task{}, err
	}
	return scanTask(d.sql.QueryRowContext(ctx, q, args...))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (model.Task, error) {
	var (
		t       model.Task
		desc    sql.NullString
		created string
	)
	if err := row.Scan(&t.ID, &t.Title, &desc, &t.Completed, &created); err != nil {
		return model.Task{}, err
	}
	if desc.Valid {
		t.Description = model.Some(desc.String)
	}
	ts, err := time.Parse(timeLayout, created)
	if err != nil {
		return model.Task{}, fmt.Errorf("created_at: %w", err)
	}
	t.CreatedAt = ts
	return t, nil
}

func nullable(o model.Optional[string]) any {
	if s, ok := o.Get(); ok {
		return s
	}
	return nil
}
