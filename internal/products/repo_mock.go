package products

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var _ productsRepo = (*repoMock)(nil)

type repoMock struct {
	Products map[int]*Product
	nextID   int
	mutex    sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Products: make(map[int]*Product),
		nextID:   1,
	}
}

func (r *repoMock) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Products)
}

func (r *repoMock) Add(_ context.Context, product *Product) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	}

	if _, ok := r.Products[product.ID]; ok {
		return errors.New("product exists already")
	}

	r.Products[product.ID] = product
	if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	return nil
}

func (r *repoMock) Update(_ context.Context, product *Product) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Products[product.ID]; !ok {
		return ErrProductNotFound
	}
	r.Products[product.ID] = product
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.Products, id)
	return nil
}

func (r *repoMock) Get(_ context.Context, id int) (*Product, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	product, ok := r.Products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (r *repoMock) All(_ context.Context) ([]*Product, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	all := make([]*Product, 0, len(r.Products))
	for _, p := range r.Products {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ID > all[j].ID
	})
	return all, nil
}
