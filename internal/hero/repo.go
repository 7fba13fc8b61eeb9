package hero

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/velorashop/velora/internal/telemetry/tracing"
)

var _ heroRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, slide *Slide) error {
	if slide.ImageURL == "" {
		return ErrSlideURLMissing
	}

	if slide.CreatedAt.IsZero() {
		slide.CreatedAt = time.Now()
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO hero_slide (title, subtitle, image_url, link_url, position, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id;`,
		slide.Title, slide.Subtitle, slide.ImageURL, slide.LinkURL, slide.Position,
		slide.Active, slide.CreatedAt,
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
			slide.ID = id
			return nil
		}
	}

	return errors.New("unexpected error, failed to insert hero slide")
}

func (r *Repo) Update(ctx context.Context, slide *Slide) error {
	if slide.ImageURL == "" {
		return ErrSlideURLMissing
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE hero_slide SET
			title = $1, subtitle = $2, image_url = $3, link_url = $4, position = $5, active = $6
		WHERE id = $7`,
		slide.Title, slide.Subtitle, slide.ImageURL, slide.LinkURL, slide.Position,
		slide.Active, slide.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSlideNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM hero_slide WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSlideNotFound
	}
	return nil
}

// AllActive lists the slides shown in the carousel, in position order.
func (r *Repo) AllActive(ctx context.Context) ([]*Slide, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "heroRepo.AllActive")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, subtitle, image_url, link_url, position, active, created_at
		FROM hero_slide WHERE active ORDER BY position ASC, id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2slides(rows)
}

// All lists every slide, inactive ones included - for the admin dashboard.
func (r *Repo) All(ctx context.Context) ([]*Slide, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "heroRepo.All")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, subtitle, image_url, link_url, position, active, created_at
		FROM hero_slide ORDER BY position ASC, id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2slides(rows)
}

func (r *Repo) Get(ctx context.Context, id int) (*Slide, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "heroRepo.Get")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, subtitle, image_url, link_url, position, active, created_at
		FROM hero_slide WHERE id = $1;`,
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
		return nil, ErrSlideNotFound
	}

	return scanSlide(rows)
}

func scanSlide(rows pgx.Rows) (*Slide, error) {
	var s Slide
	if err := rows.Scan(
		&s.ID, &s.Title, &s.Subtitle, &s.ImageURL, &s.LinkURL,
		&s.Position, &s.Active, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func rows2slides(rows pgx.Rows) ([]*Slide, error) {
	var all []*Slide
	for rows.Next() {
		slide, err := scanSlide(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, slide)
	}
	return all, nil
}
