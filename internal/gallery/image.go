package gallery

import (
	"errors"
	"time"
)

var (
	ErrImageNotFound   = errors.New("gallery image not found")
	ErrImageURLMissing = errors.New("gallery image url missing")
)

type Image struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	Category  string    `json:"category"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
