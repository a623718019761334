package repository

import (
	"context"

	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"gorm.io/gorm"
)

type SearchLogRepository interface {
	Create(ctx context.Context, entry *model.SearchLog) error
}

type searchLogRepository struct {
	db *gorm.DB
}

func NewSearchLogRepository(db *gorm.DB) SearchLogRepository {
	return &searchLogRepository{db: db}
}

// Create is called from a detached goroutine; callers log failures themselves.
func (r *searchLogRepository) Create(ctx context.Context, entry *model.SearchLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
