package posts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/velorashop/velora/internal/telemetry/tracing"
)

var _ postsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, post *Post) error {
	if post.Title == "" || post.Content == "" {
		return ErrPostTitleOrContentEmpty
	}

	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO post (title, slug, content, cover_url, category, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id;`,
		post.Title, post.Slug, post.Content, post.CoverURL, post.Category, post.Published,
		post.CreatedAt, post.UpdatedAt,
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
			post.ID = id
			return nil
		}
	}

	return errors.New("unexpected error, failed to insert post")
}

func (r *Repo) Update(ctx context.Context, post *Post) error {
	if post.Title == "" || post.Content == "" {
		return ErrPostTitleOrContentEmpty
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE post SET
			title = $1, slug = $2, content = $3, cover_url = $4, category = $5, published = $6, updated_at = $7
		WHERE id = $8`,
		post.Title, post.Slug, post.Content, post.CoverURL, post.Category, post.Published,
		time.Now(), post.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM post WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.Get")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, slug, content, cover_url, category, published, created_at, updated_at
		FROM post WHERE id = $1;`,
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
		return nil, ErrPostNotFound
	}

	return scanPost(rows)
}

// AllPublished lists the posts visible on the public site, newest first.
func (r *Repo) AllPublished(ctx context.Context) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.AllPublished")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, slug, content, cover_url, category, published, created_at, updated_at
		FROM post WHERE published ORDER BY id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2posts(rows)
}

// All lists every post, drafts included - for the admin dashboard.
func (r *Repo) All(ctx context.Context) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.All")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, slug, content, cover_url, category, published, created_at, updated_at
		FROM post ORDER BY id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2posts(rows)
}

func (r *Repo) PublishedCount(ctx context.Context) (int, error) {
	rows, err := r.db.Query(ctx, `SELECT COUNT(*) FROM post WHERE published`)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get posts count")
}

func (r *Repo) GetPage(ctx context.Context, page, size int) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.GetPage")
	span.SetAttributes(attribute.Int("page", page))
	span.SetAttributes(attribute.Int("size", size))
	defer span.End()

	limit := size
	offset := (page - 1) * size
	postsCount, err := r.PublishedCount(ctx)
	if err != nil {
		return nil, err
	}

	if postsCount <= limit {
		return r.AllPublished(ctx)
	}

	if postsCount-offset < limit {
		offset = postsCount - limit
	}

	log.Tracef("getting posts, count %d, limit %d, offset %d", postsCount, limit, offset)

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, slug, content, cover_url, category, published, created_at, updated_at
		FROM post WHERE published
		ORDER BY id DESC
		LIMIT $1 OFFSET $2;`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2posts(rows)
}

func scanPost(rows pgx.Rows) (*Post, error) {
	var p Post
	if err := rows.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.CoverURL, &p.Category,
		&p.Published, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func rows2posts(rows pgx.Rows) ([]*Post, error) {
	var allPosts []*Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		allPosts = append(allPosts, post)
	}
	return allPosts, nil
}
