package upload

import (
	"context"

	"trademind/internal/domain"
	"trademind/internal/repository"
)

type Repository interface {
	Create(ctx context.Context, u *domain.Upload) error
	GetByID(ctx context.Context, id string) (*domain.Upload, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Upload, error)
	Delete(ctx context.Context, id string) error
}

var _ Repository = (*repository.UploadRepository)(nil)
