package gallery

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/velorashop/velora/internal/telemetry/tracing"
)

var _ galleryRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, image *Image) error {
	if image.ImageURL == "" {
		return ErrImageURLMissing
	}

	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now()
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO gallery_image (title, image_url, category, position, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		image.Title, image.ImageURL, image.Category, image.Position, image.CreatedAt,
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
			image.ID = id
			return nil
		}
	}

	return errors.New("unexpected error, failed to insert gallery image")
}

func (r *Repo) Update(ctx context.Context, image *Image) error {
	if image.ImageURL == "" {
		return ErrImageURLMissing
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE gallery_image SET
			title = $1, image_url = $2, category = $3, position = $4
		WHERE id = $5`,
		image.Title, image.ImageURL, image.Category, image.Position, image.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrImageNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM gallery_image WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrImageNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (*Image, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "galleryRepo.Get")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, image_url, category, position, created_at
		FROM gallery_image WHERE id = $1;`,
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
		return nil, ErrImageNotFound
	}

	return scanImage(rows)
}

// All lists the gallery in display order, position first, newest breaking ties.
func (r *Repo) All(ctx context.Context) ([]*Image, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "galleryRepo.All")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, image_url, category, position, created_at
		FROM gallery_image ORDER BY position ASC, id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2images(rows)
}

func scanImage(rows pgx.Rows) (*Image, error) {
	var img Image
	if err := rows.Scan(
		&img.ID, &img.Title, &img.ImageURL, &img.Category, &img.Position, &img.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &img, nil
}

func rows2images(rows pgx.Rows) ([]*Image, error) {
	var all []*Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, img)
	}
	return all, nil
}
