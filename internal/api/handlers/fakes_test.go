package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/taskbox/internal/models"
	"github.com/yoockh/taskbox/internal/services"
	"github.com/yoockh/taskbox/internal/utils"
)

// asUser stands in for ClerkAuth in tests.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

type fakeTodoService struct {
	todos map[string]*models.Todo
	seq   int
}

func newFakeTodoService(todos ...*models.Todo) *fakeTodoService {
	m := map[string]*models.Todo{}
	for _, t := range todos {
		m[t.ID] = t
	}
	return &fakeTodoService{todos: m}
}

func (f *fakeTodoService) List(_ context.Context, userID string, page int, _ string) (*services.TodoPage, error) {
	if page < 1 {
		page = 1
	}
	out := []models.Todo{}
	for _, t := range f.todos {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return &services.TodoPage{Todos: out, CurrentPage: page, TotalPages: (len(out) + 9) / 10}, nil
}

func (f *fakeTodoService) Create(_ context.Context, userID, title string) (*models.Todo, error) {
	const op = "TodoService.Create"
	n := 0
	for _, t := range f.todos {
		if t.UserID == userID {
			n++
		}
	}
	if n >= services.FreeTierLimit {
		return nil, utils.E(utils.CodeQuotaExceeded, op, "free tier limit reached", nil)
	}
	f.seq++
	todo := &models.Todo{ID: string(rune('a' + f.seq)), UserID: userID, Title: title, CreatedAt: time.Now()}
	f.todos[todo.ID] = todo
	return todo, nil
}

func (f *fakeTodoService) SetCompleted(_ context.Context, userID, todoID string, completed bool) (*models.Todo, error) {
	const op = "TodoService.SetCompleted"
	t, ok := f.todos[todoID]
	if !ok {
		return nil, utils.E(utils.CodeNotFound, op, "todo not found", nil)
	}
	if t.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}
	t.Completed = completed
	return t, nil
}

func (f *fakeTodoService) Delete(_ context.Context, userID, todoID string) error {
	const op = "TodoService.Delete"
	t, ok := f.todos[todoID]
	if !ok {
		return utils.E(utils.CodeNotFound, op, "todo not found", nil)
	}
	if t.UserID != userID {
		return utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}
	delete(f.todos, todoID)
	return nil
}

type fakeSubscriptionService struct {
	status map[string]*models.SubscriptionStatus
}

func (f *fakeSubscriptionService) Status(_ context.Context, userID string) (*models.SubscriptionStatus, error) {
	st, ok := f.status[userID]
	if !ok {
		return nil, utils.E(utils.CodeNotFound, "SubscriptionService.Status", "user not found", nil)
	}
	return st, nil
}

func (f *fakeSubscriptionService) Activate(_ context.Context, userID string) (time.Time, error) {
	ends := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	f.status[userID] = &models.SubscriptionStatus{IsSubscribed: true, SubscriptionEnds: &ends}
	return ends, nil
}

func (f *fakeSubscriptionService) CanCreateTodo(_ context.Context, user *models.User) (bool, error) {
	return user.IsSubscribed, nil
}

type provisionCall struct {
	evt services.UserCreatedEvent
}

// fakeProvisioningService is called from the handler's detached goroutine,
// so all state is guarded by a mutex.
type fakeProvisioningService struct {
	mu      sync.Mutex
	seen    map[string]bool
	users   map[string]bool
	calls   []provisionCall
	latency time.Duration
}

func newFakeProvisioningService() *fakeProvisioningService {
	return &fakeProvisioningService{seen: map[string]bool{}, users: map[string]bool{}}
}

func (f *fakeProvisioningService) HandleUserCreated(_ context.Context, evt services.UserCreatedEvent) (bool, error) {
	if f.latency > 0 {
		time.Sleep(f.latency)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, provisionCall{evt: evt})
	if f.users[evt.ID] {
		return false, nil
	}
	f.users[evt.ID] = true
	return true, nil
}

func (f *fakeProvisioningService) SeenEvent(_ context.Context, msgID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[msgID], nil
}

func (f *fakeProvisioningService) RecordEvent(_ context.Context, msgID, _ string, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen[msgID] = true
	return nil
}

func (f *fakeProvisioningService) Calls() []provisionCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]provisionCall(nil), f.calls...)
}

func (f *fakeProvisioningService) Seen(msgID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[msgID]
}
