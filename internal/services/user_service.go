package services

import (
	"context"

	"github.com/yoockh/taskbox/internal/models"
	pgrepo "github.com/yoockh/taskbox/internal/repositories/postgres"
	"github.com/yoockh/taskbox/internal/utils"
)

const usersPerPage = 10

type UserPage struct {
	Users       []models.User `json:"users"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"total_pages"`
}

// UserService backs the admin user listing.
type UserService interface {
	ListUsers(ctx context.Context, page int) (*UserPage, error)
}

type userService struct {
	users pgrepo.UserRepository
}

func NewUserService(users pgrepo.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) ListUsers(ctx context.Context, page int) (*UserPage, error) {
	const op = "UserService.ListUsers"

	if page < 1 {
		page = 1
	}

	rows, total, err := s.users.List(ctx, (page-1)*usersPerPage, usersPerPage)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list users", err)
	}
	if rows == nil {
		rows = []models.User{}
	}

	return &UserPage{
		Users:       rows,
		CurrentPage: page,
		TotalPages:  int((total + usersPerPage - 1) / usersPerPage),
	}, nil
}
