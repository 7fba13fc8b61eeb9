package products

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/velorashop/velora/internal/telemetry/tracing"
)

var _ productsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, product *Product) error {
	if product.Name == "" || product.PriceCents < 0 {
		return ErrInvalidProduct
	}

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO product
			(name, slug, description, price_cents, currency, image_url, category, in_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id;`,
		product.Name, product.Slug, product.Description, product.PriceCents, product.Currency,
		product.ImageURL, product.Category, product.InStock, product.CreatedAt, product.UpdatedAt,
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
			product.ID = id
			return nil
		}
	}

	return errors.New("unexpected error, failed to insert product")
}

func (r *Repo) Update(ctx context.Context, product *Product) error {
	if product.Name == "" || product.PriceCents < 0 {
		return ErrInvalidProduct
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE product SET
			name = $1, slug = $2, description = $3, price_cents = $4, currency = $5,
			image_url = $6, category = $7, in_stock = $8, updated_at = $9
		WHERE id = $10`,
		product.Name, product.Slug, product.Description, product.PriceCents, product.Currency,
		product.ImageURL, product.Category, product.InStock, time.Now(), product.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM product WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (*Product, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "productsRepo.Get")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, slug, description, price_cents, currency, image_url, category, in_stock, created_at, updated_at
		FROM product WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrProductNotFound
	}

	return scanProduct(rows)
}

func (r *Repo) All(ctx context.Context) ([]*Product, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "productsRepo.All")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, slug, description, price_cents, currency, image_url, category, in_stock, created_at, updated_at
		FROM product ORDER BY id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2products(rows)
}

func scanProduct(rows pgx.Rows) (*Product, error) {
	var p Product
	if err := rows.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.PriceCents, &p.Currency,
		&p.ImageURL, &p.Category, &p.InStock, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func rows2products(rows pgx.Rows) ([]*Product, error) {
	var allProducts []*Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		allProducts = append(allProducts, product)
	}
	return allProducts, nil
}
