package joinery

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"
)

// driver runs a query and returns the raw column values of every row.
type driver interface {
	name() string
	fetch(ctx context.Context, query string, args []any) ([][]any, error)
}

type sqlxDriver struct {
	db sqlx.QueryerContext
}

func (d *sqlxDriver) name() string { return "sqlx" }

func (d *sqlxDriver) fetch(ctx context.Context, query string, args []any) ([][]any, error) {
	rows, err := d.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out [][]any
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(out), err)
		}
		out = append(out, values)
	}
	return out, rows.Err()
}

// PgxQuerier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type PgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type pgxDriver struct {
	db PgxQuerier
}

func (d *pgxDriver) name() string { return "pgx" }

func (d *pgxDriver) fetch(ctx context.Context, query string, args []any) ([][]any, error) {
	rows, err := d.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", len(out), err)
		}
		out = append(out, values)
	}
	return out, rows.Err()
}
