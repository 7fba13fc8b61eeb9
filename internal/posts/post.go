package posts

import (
	"errors"
	"time"
)

var (
	ErrPostNotFound            = errors.New("post not found")
	ErrPostTitleOrContentEmpty = errors.New("post title or content empty")
)

type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	CoverURL  string    `json:"cover_url"`
	Category  string    `json:"category"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
