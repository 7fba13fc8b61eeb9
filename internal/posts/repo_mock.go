package posts

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var _ postsRepo = (*repoMock)(nil)

type repoMock struct {
	Posts  map[int]*Post
	nextID int
	mutex  sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Posts:  make(map[int]*Post),
		nextID: 1,
	}
}

func (r *repoMock) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Posts)
}

func (r *repoMock) Add(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if post.Title == "" || post.Content == "" {
		return ErrPostTitleOrContentEmpty
	}

	if post.ID == 0 {
		post.ID = r.nextID
		r.nextID++
	}

	if _, ok := r.Posts[post.ID]; ok {
		return errors.New("post exists already")
	}

	r.Posts[post.ID] = post
	if post.ID >= r.nextID {
		r.nextID = post.ID + 1
	}
	return nil
}

func (r *repoMock) Update(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Posts[post.ID]; !ok {
		return ErrPostNotFound
	}
	r.Posts[post.ID] = post
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(r.Posts, id)
	return nil
}

func (r *repoMock) Get(_ context.Context, id int) (*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	post, ok := r.Posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (r *repoMock) All(_ context.Context) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.sorted(false), nil
}

func (r *repoMock) AllPublished(_ context.Context) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.sorted(true), nil
}

func (r *repoMock) PublishedCount(_ context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.sorted(true)), nil
}

func (r *repoMock) GetPage(_ context.Context, page, size int) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	published := r.sorted(true)
	if len(published) <= size {
		return published, nil
	}

	offset := (page - 1) * size
	if len(published)-offset < size {
		offset = len(published) - size
	}
	return published[offset : offset+size], nil
}

// sorted returns posts newest first, callers must hold the mutex
func (r *repoMock) sorted(publishedOnly bool) []*Post {
	var all []*Post
	for _, p := range r.Posts {
		if publishedOnly && !p.Published {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ID > all[j].ID
	})
	return all
}
