package joinery

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/zoobzio/capitan"
)

// Repository runs join queries and reconstructs their rows into T, the
// aggregate type built by the top level of the mapping's shape.
type Repository[T any] struct {
	driver  driver
	mapping Mapping
	opts    options
}

// New creates a Repository over sqlx. db accepts *sqlx.DB and *sqlx.Tx.
func New[T any](db sqlx.QueryerContext, m Mapping) (*Repository[T], error) {
	return newRepository[T](&sqlxDriver{db: db}, m)
}

// NewPgx creates a Repository over pgx. db accepts *pgxpool.Pool, *pgx.Conn
// and pgx.Tx.
func NewPgx[T any](db PgxQuerier, m Mapping) (*Repository[T], error) {
	return newRepository[T](&pgxDriver{db: db}, m)
}

func newRepository[T any](d driver, m Mapping) (*Repository[T], error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	r := &Repository[T]{
		driver:  d,
		mapping: m,
		opts:    buildOptions([]Option{WithKey(m.Key)}),
	}

	capitan.Emit(context.Background(), RepositoryCreated,
		KeyShape.Field(m.Shape.Type),
		KeyDriver.Field(d.name()))

	return r, nil
}

func (r *Repository[T]) Shape() *Transformation {
	return r.mapping.Shape
}

// Rows runs the query and returns its joined rows without reconstructing.
func (r *Repository[T]) Rows(ctx context.Context, query string, args ...any) ([]Row, error) {
	raw, err := r.driver.fetch(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return r.mapping.rows(raw)
}

// Load runs the query and returns the generic reconstructed value, see
// Reconstruct.
func (r *Repository[T]) Load(ctx context.Context, query string, args ...any) (any, error) {
	start := time.Now()
	rows, err := r.Rows(ctx, query, args...)
	if err == nil {
		var v any
		v, err = reconstruct(rows, r.mapping.Shape, r.opts)
		if err == nil {
			capitan.Emit(ctx, LoadCompleted,
				KeyShape.Field(r.mapping.Shape.Type),
				KeyDriver.Field(r.driver.name()),
				KeyRows.Field(strconv.Itoa(len(rows))),
				KeyDuration.Field(time.Since(start)))
			return v, nil
		}
	}

	capitan.Emit(ctx, LoadFailed,
		KeyShape.Field(r.mapping.Shape.Type),
		KeyDriver.Field(r.driver.name()),
		KeyError.Field(err.Error()),
		KeyDuration.Field(time.Since(start)))
	return nil, err
}

// FindAll loads a list-shaped result. Shapes with a singular top level are
// rejected; use FindOne for them.
func (r *Repository[T]) FindAll(ctx context.Context, query string, args ...any) ([]T, error) {
	if !r.mapping.Shape.Quantity.IsList() {
		return nil, fmt.Errorf("%w: FindAll needs a list shape, got %s", ErrInvalidShape, r.mapping.Shape.Quantity)
	}
	v, err := r.Load(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := Bind(&out, v); err != nil {
		return nil, err
	}
	return out, nil
}

// FindOne loads a singular result. An empty result is ErrNotFound, also for
// an Option top level.
func (r *Repository[T]) FindOne(ctx context.Context, query string, args ...any) (T, error) {
	var out T
	if !r.mapping.Shape.Quantity.IsSingular() {
		return out, fmt.Errorf("%w: FindOne needs a singular shape, got %s", ErrInvalidShape, r.mapping.Shape.Quantity)
	}
	v, err := r.Load(ctx, query, args...)
	if err != nil {
		return out, err
	}
	if v == nil {
		return out, fmt.Errorf("%w: %s", ErrNotFound, r.mapping.Shape.Type)
	}
	if err := Bind(&out, v); err != nil {
		return out, err
	}
	return out, nil
}

// IsNotFound reports whether err means the query matched nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
