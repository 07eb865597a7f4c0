package repository

import (
	"context"

	"gateway.example/filter-gateway/internal/models"
)

// UserRepository 定义了对 users 表的操作接口。
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}
