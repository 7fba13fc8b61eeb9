package category

import (
	"errors"
	"time"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInvalid  = errors.New("category name empty")
	ErrUnknownKind      = errors.New("unknown category kind")
)

// Kind tells which part of the shop a category belongs to. Each kind is
// backed by its own table so renames in one listing never leak into another.
type Kind string

const (
	KindProduct Kind = "product"
	KindPost    Kind = "post"
	KindGallery Kind = "gallery"
)

var kind2table = map[Kind]string{
	KindProduct: "product_category",
	KindPost:    "post_category",
	KindGallery: "gallery_category",
}

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kind2table[k]; !ok {
		return "", ErrUnknownKind
	}
	return k, nil
}

func (k Kind) Table() string {
	return kind2table[k]
}

type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}
