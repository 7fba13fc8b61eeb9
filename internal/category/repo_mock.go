package category

import (
	"context"
	"sort"
	"sync"
)

var _ categoriesRepo = (*repoMock)(nil)

type kindAndID struct {
	kind Kind
	id   int
}

type repoMock struct {
	Categories map[kindAndID]*Category
	nextID     int
	mutex      sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Categories: make(map[kindAndID]*Category),
		nextID:     1,
	}
}

func (r *repoMock) CountAll() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Categories)
}

func (r *repoMock) Add(_ context.Context, category *Category) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if category.Name == "" {
		return ErrCategoryInvalid
	}
	if category.Kind.Table() == "" {
		return ErrUnknownKind
	}

	if category.ID == 0 {
		category.ID = r.nextID
		r.nextID++
	}
	r.Categories[kindAndID{category.Kind, category.ID}] = category
	if category.ID >= r.nextID {
		r.nextID = category.ID + 1
	}
	return nil
}

func (r *repoMock) Update(_ context.Context, category *Category) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := kindAndID{category.Kind, category.ID}
	if _, ok := r.Categories[key]; !ok {
		return ErrCategoryNotFound
	}
	r.Categories[key] = category
	return nil
}

func (r *repoMock) Delete(_ context.Context, kind Kind, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := kindAndID{kind, id}
	if _, ok := r.Categories[key]; !ok {
		return ErrCategoryNotFound
	}
	delete(r.Categories, key)
	return nil
}

func (r *repoMock) All(_ context.Context, kind Kind) ([]*Category, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var all []*Category
	for key, c := range r.Categories {
		if key.kind == kind {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	return all, nil
}
