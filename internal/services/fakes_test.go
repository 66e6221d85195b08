package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/yoockh/taskbox/internal/models"
	"github.com/yoockh/taskbox/internal/utils"
)

type fakeUserRepo struct {
	users     map[string]*models.User
	createErr error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	m := map[string]*models.User{}
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[u.ID]; ok {
		return utils.ErrAlreadyExists
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) SetSubscription(_ context.Context, id string, subscribed bool, ends *time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return utils.ErrNotFound
	}
	u.IsSubscribed = subscribed
	u.SubscriptionEnds = ends
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, offset, limit int) ([]models.User, int64, error) {
	var all []models.User
	for _, u := range f.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

type fakeTodoRepo struct {
	todos map[string]*models.Todo
}

func newFakeTodoRepo(todos ...*models.Todo) *fakeTodoRepo {
	m := map[string]*models.Todo{}
	for _, t := range todos {
		m[t.ID] = t
	}
	return &fakeTodoRepo{todos: m}
}

func (f *fakeTodoRepo) GetByID(_ context.Context, id string) (*models.Todo, error) {
	t, ok := f.todos[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTodoRepo) Create(_ context.Context, t *models.Todo) error {
	cp := *t
	f.todos[t.ID] = &cp
	return nil
}

func (f *fakeTodoRepo) Search(_ context.Context, userID, term string, offset, limit int) ([]models.Todo, int64, error) {
	var match []models.Todo
	for _, t := range f.todos {
		if t.UserID != userID {
			continue
		}
		if !strings.Contains(strings.ToLower(t.Title), strings.ToLower(term)) {
			continue
		}
		match = append(match, *t)
	}
	sort.Slice(match, func(i, j int) bool { return match[i].CreatedAt.After(match[j].CreatedAt) })
	total := int64(len(match))
	if offset >= len(match) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(match) {
		end = len(match)
	}
	return match[offset:end], total, nil
}

func (f *fakeTodoRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, t := range f.todos {
		if t.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeTodoRepo) SetCompleted(_ context.Context, id string, completed bool) error {
	t, ok := f.todos[id]
	if !ok {
		return utils.ErrNotFound
	}
	t.Completed = completed
	return nil
}

func (f *fakeTodoRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.todos[id]; !ok {
		return utils.ErrNotFound
	}
	delete(f.todos, id)
	return nil
}

type fakeEventRepo struct {
	recorded map[string]*models.WebhookEvent
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{recorded: map[string]*models.WebhookEvent{}}
}

func (f *fakeEventRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.recorded[id]
	return ok, nil
}

func (f *fakeEventRepo) Record(_ context.Context, e *models.WebhookEvent) error {
	if _, ok := f.recorded[e.ID]; ok {
		return nil
	}
	cp := *e
	f.recorded[e.ID] = &cp
	return nil
}

type fakeCache struct {
	entries map[string][]byte
	dels    []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	b, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	f.entries[key] = b
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.entries, k)
		f.dels = append(f.dels, k)
	}
	return nil
}
