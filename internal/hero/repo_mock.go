package hero

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var _ heroRepo = (*repoMock)(nil)

type repoMock struct {
	Slides map[int]*Slide
	nextID int
	mutex  sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Slides: make(map[int]*Slide),
		nextID: 1,
	}
}

func (r *repoMock) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Slides)
}

func (r *repoMock) Add(_ context.Context, slide *Slide) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if slide.ImageURL == "" {
		return ErrSlideURLMissing
	}

	if slide.ID == 0 {
		slide.ID = r.nextID
		r.nextID++
	}

	if _, ok := r.Slides[slide.ID]; ok {
		return errors.New("hero slide exists already")
	}

	r.Slides[slide.ID] = slide
	if slide.ID >= r.nextID {
		r.nextID = slide.ID + 1
	}
	return nil
}

func (r *repoMock) Update(_ context.Context, slide *Slide) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Slides[slide.ID]; !ok {
		return ErrSlideNotFound
	}
	r.Slides[slide.ID] = slide
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Slides[id]; !ok {
		return ErrSlideNotFound
	}
	delete(r.Slides, id)
	return nil
}

func (r *repoMock) Get(_ context.Context, id int) (*Slide, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	slide, ok := r.Slides[id]
	if !ok {
		return nil, ErrSlideNotFound
	}
	return slide, nil
}

func (r *repoMock) All(_ context.Context) ([]*Slide, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.sorted(false), nil
}

func (r *repoMock) AllActive(_ context.Context) ([]*Slide, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.sorted(true), nil
}

// sorted returns slides in display order, callers must hold the mutex
func (r *repoMock) sorted(activeOnly bool) []*Slide {
	var all []*Slide
	for _, s := range r.Slides {
		if activeOnly && !s.Active {
			continue
		}
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Position != all[j].Position {
			return all[i].Position < all[j].Position
		}
		return all[i].ID > all[j].ID
	})
	return all
}
