package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/taskbox/internal/models"
	pgrepo "github.com/yoockh/taskbox/internal/repositories/postgres"
	"github.com/yoockh/taskbox/internal/utils"
)

const todosPerPage = 10

// TodoPage field names follow the wire contract of the list endpoint.
type TodoPage struct {
	Todos       []models.Todo `json:"todos"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"total_pages"`
}

type TodoService interface {
	List(ctx context.Context, userID string, page int, search string) (*TodoPage, error)
	Create(ctx context.Context, userID, title string) (*models.Todo, error)
	SetCompleted(ctx context.Context, userID, todoID string, completed bool) (*models.Todo, error)
	Delete(ctx context.Context, userID, todoID string) error
}

type todoService struct {
	users pgrepo.UserRepository
	todos pgrepo.TodoRepository
	subs  SubscriptionService
	now   func() time.Time
}

func NewTodoService(users pgrepo.UserRepository, todos pgrepo.TodoRepository, subs SubscriptionService) TodoService {
	return &todoService{
		users: users,
		todos: todos,
		subs:  subs,
		now:   time.Now,
	}
}

func (s *todoService) List(ctx context.Context, userID string, page int, search string) (*TodoPage, error) {
	const op = "TodoService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * todosPerPage
	rows, total, err := s.todos.Search(ctx, userID, search, offset, todosPerPage)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list todos", err)
	}
	if rows == nil {
		rows = []models.Todo{}
	}

	return &TodoPage{
		Todos:       rows,
		CurrentPage: page,
		TotalPages:  int((total + todosPerPage - 1) / todosPerPage),
	}, nil
}

func (s *todoService) Create(ctx context.Context, userID, title string) (*models.Todo, error) {
	const op = "TodoService.Create"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if title == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "title is required", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	ok, err := s.subs.CanCreateTodo(ctx, user)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.E(utils.CodeQuotaExceeded, op, "free tier limit reached", nil)
	}

	todo := &models.Todo{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Completed: false,
		CreatedAt: s.now().UTC(),
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create todo", err)
	}
	return todo, nil
}

func (s *todoService) SetCompleted(ctx context.Context, userID, todoID string, completed bool) (*models.Todo, error) {
	const op = "TodoService.SetCompleted"

	todo, err := s.authorize(ctx, op, userID, todoID)
	if err != nil {
		return nil, err
	}

	if err := s.todos.SetCompleted(ctx, todoID, completed); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "todo not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update todo", err)
	}

	todo.Completed = completed
	return todo, nil
}

// Delete removes the requested todo by its own id after the ownership check.
func (s *todoService) Delete(ctx context.Context, userID, todoID string) error {
	const op = "TodoService.Delete"

	if _, err := s.authorize(ctx, op, userID, todoID); err != nil {
		return err
	}

	if err := s.todos.Delete(ctx, todoID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "todo not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete todo", err)
	}
	return nil
}

func (s *todoService) authorize(ctx context.Context, op, userID, todoID string) (*models.Todo, error) {
	if userID == "" || todoID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and todo_id are required", nil)
	}

	todo, err := s.todos.GetByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "todo not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load todo", err)
	}
	if todo.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}
	return todo, nil
}
