package gallery

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var _ galleryRepo = (*repoMock)(nil)

type repoMock struct {
	Images map[int]*Image
	nextID int
	mutex  sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Images: make(map[int]*Image),
		nextID: 1,
	}
}

func (r *repoMock) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Images)
}

func (r *repoMock) Add(_ context.Context, image *Image) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if image.ImageURL == "" {
		return ErrImageURLMissing
	}

	if image.ID == 0 {
		image.ID = r.nextID
		r.nextID++
	}

	if _, ok := r.Images[image.ID]; ok {
		return errors.New("gallery image exists already")
	}

	r.Images[image.ID] = image
	if image.ID >= r.nextID {
		r.nextID = image.ID + 1
	}
	return nil
}

func (r *repoMock) Update(_ context.Context, image *Image) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Images[image.ID]; !ok {
		return ErrImageNotFound
	}
	r.Images[image.ID] = image
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Images[id]; !ok {
		return ErrImageNotFound
	}
	delete(r.Images, id)
	return nil
}

func (r *repoMock) Get(_ context.Context, id int) (*Image, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	image, ok := r.Images[id]
	if !ok {
		return nil, ErrImageNotFound
	}
	return image, nil
}

func (r *repoMock) All(_ context.Context) ([]*Image, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var all []*Image
	for _, img := range r.Images {
		all = append(all, img)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Position != all[j].Position {
			return all[i].Position < all[j].Position
		}
		return all[i].ID > all[j].ID
	})
	return all, nil
}
