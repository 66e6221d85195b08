package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/yoockh/taskbox/internal/models"
	"github.com/yoockh/taskbox/internal/utils"
	"gorm.io/gorm"
)

type TodoRepository interface {
	GetByID(ctx context.Context, id string) (*models.Todo, error)
	Create(ctx context.Context, t *models.Todo) error
	Search(ctx context.Context, userID, term string, offset, limit int) ([]models.Todo, int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	SetCompleted(ctx context.Context, id string, completed bool) error
	Delete(ctx context.Context, id string) error
}

type todoRepo struct {
	db *gorm.DB
}

func NewTodoRepo(db *gorm.DB) TodoRepository {
	return &todoRepo{db: db}
}

func (r *todoRepo) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	var t models.Todo
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &t, err
}

func (r *todoRepo) Create(ctx context.Context, t *models.Todo) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// escapeLike neutralizes LIKE metacharacters so a term matches literally;
// Postgres treats backslash as the escape character by default.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// Search matches title case-insensitively, scoped to the owner, newest first.
func (r *todoRepo) Search(ctx context.Context, userID, term string, offset, limit int) ([]models.Todo, int64, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ?", userID).
			Where("title ILIKE ?", "%"+escapeLike(term)+"%")
	}

	var total int64
	if err := scope(r.db.WithContext(ctx).Model(&models.Todo{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Todo
	err := scope(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *todoRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Todo{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *todoRepo) SetCompleted(ctx context.Context, id string, completed bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Todo{}).
		Where("id = ?", id).
		Update("completed", completed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *todoRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Todo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
