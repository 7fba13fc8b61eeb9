package category

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/velorashop/velora/internal/telemetry/tracing"
)

var _ categoriesRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// table names come from the fixed kind2table map, never from request input
func (r *Repo) Add(ctx context.Context, category *Category) error {
	if category.Name == "" {
		return ErrCategoryInvalid
	}
	table := category.Kind.Table()
	if table == "" {
		return ErrUnknownKind
	}

	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	rows, err := r.db.Query(
		ctx,
		fmt.Sprintf(`INSERT INTO %s (name, slug, created_at) VALUES ($1, $2, $3) RETURNING id;`, table),
		category.Name, category.Slug, category.CreatedAt,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return err
	}

	if rows.Next() {
		var id int
		if err := rows.Scan(&id); err == nil {
			category.ID = id
			return nil
		}
	}

	return errors.New("unexpected error, failed to insert category")
}

func (r *Repo) Update(ctx context.Context, category *Category) error {
	if category.Name == "" {
		return ErrCategoryInvalid
	}
	table := category.Kind.Table()
	if table == "" {
		return ErrUnknownKind
	}

	tag, err := r.db.Exec(
		ctx,
		fmt.Sprintf(`UPDATE %s SET name = $1, slug = $2 WHERE id = $3`, table),
		category.Name, category.Slug, category.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, kind Kind, id int) error {
	table := kind.Table()
	if table == "" {
		return ErrUnknownKind
	}

	tag, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *Repo) All(ctx context.Context, kind Kind) ([]*Category, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "categoriesRepo.All")
	span.SetAttributes(attribute.String("kind", string(kind)))
	defer span.End()

	table := kind.Table()
	if table == "" {
		return nil, ErrUnknownKind
	}

	rows, err := r.db.Query(
		ctx,
		fmt.Sprintf(`SELECT id, name, slug, created_at FROM %s ORDER BY name ASC;`, table),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2categories(rows, kind)
}

func rows2categories(rows pgx.Rows, kind Kind) ([]*Category, error) {
	var all []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Kind = kind
		all = append(all, &c)
	}
	return all, nil
}
