package contacts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velorashop/velora/internal/telemetry/tracing"
)

var _ contactsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, message *Message) error {
	if message.Email == "" || message.Content == "" {
		return ErrMessageInvalid
	}

	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO contact_message (name, email, subject, content, sender_ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		message.Name, message.Email, message.Subject, message.Content,
		message.SenderIP, message.CreatedAt,
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
			message.ID = id
			return nil
		}
	}

	return errors.New("unexpected error, failed to insert contact message")
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contact_message WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// All lists received messages, newest first.
func (r *Repo) All(ctx context.Context) ([]*Message, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "contactsRepo.All")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, email, subject, content, sender_ip, created_at
		FROM contact_message ORDER BY id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2messages(rows)
}

func rows2messages(rows pgx.Rows) ([]*Message, error) {
	var all []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Email, &m.Subject, &m.Content, &m.SenderIP, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		all = append(all, &m)
	}
	return all, nil
}
