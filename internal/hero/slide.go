package hero

import (
	"errors"
	"time"
)

var (
	ErrSlideNotFound   = errors.New("hero slide not found")
	ErrSlideURLMissing = errors.New("hero slide image url missing")
)

// Slide is one entry of the landing page hero carousel.
type Slide struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	ImageURL  string    `json:"image_url"`
	LinkURL   string    `json:"link_url"`
	Position  int       `json:"position"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
