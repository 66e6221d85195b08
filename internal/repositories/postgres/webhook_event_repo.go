package postgres

import (
	"context"

	"github.com/yoockh/taskbox/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	Record(ctx context.Context, e *models.WebhookEvent) error
}

type webhookEventRepo struct {
	db *gorm.DB
}

func NewWebhookEventRepo(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepo{db: db}
}

func (r *webhookEventRepo) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WebhookEvent{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// Record is insert-or-ignore: redelivery of the same message id is not an error.
func (r *webhookEventRepo) Record(ctx context.Context, e *models.WebhookEvent) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(e).Error
}
