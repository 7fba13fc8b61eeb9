package contacts

import (
	"context"
	"sort"
	"sync"
)

var _ contactsRepo = (*repoMock)(nil)

type repoMock struct {
	Messages map[int]*Message
	nextID   int
	mutex    sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Messages: make(map[int]*Message),
		nextID:   1,
	}
}

func (r *repoMock) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Messages)
}

func (r *repoMock) Add(_ context.Context, message *Message) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if message.Email == "" || message.Content == "" {
		return ErrMessageInvalid
	}

	if message.ID == 0 {
		message.ID = r.nextID
		r.nextID++
	}
	r.Messages[message.ID] = message
	if message.ID >= r.nextID {
		r.nextID = message.ID + 1
	}
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Messages[id]; !ok {
		return ErrMessageNotFound
	}
	delete(r.Messages, id)
	return nil
}

func (r *repoMock) All(_ context.Context) ([]*Message, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	all := make([]*Message, 0, len(r.Messages))
	for _, m := range r.Messages {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ID > all[j].ID
	})
	return all, nil
}
