package repository

import (
	"context"
	"errors"

	"trademind/internal/domain"
	"trademind/internal/pkg/apperr"

	"gorm.io/gorm"
)

var ErrUploadNotFound = errors.New("upload not found")

type UploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

func toDomainUpload(m uploadModel) *domain.Upload {
	return &domain.Upload{
		ID:           m.ID,
		UserID:       m.UserID,
		OriginalName: m.OriginalName,
		FilePath:     m.FilePath,
		URL:          m.URL,
		MimeType:     m.MimeType,
		Size:         m.Size,
		CreatedAt:    m.CreatedAt,
	}
}

func (r *UploadRepository) Create(ctx context.Context, u *domain.Upload) error {
	m := uploadModel{
		ID:           u.ID,
		UserID:       u.UserID,
		OriginalName: u.OriginalName,
		FilePath:     u.FilePath,
		URL:          u.URL,
		MimeType:     u.MimeType,
		Size:         u.Size,
		CreatedAt:    u.CreatedAt,
	}
	return apperr.Classify(r.db.WithContext(ctx).Create(&m).Error)
}

func (r *UploadRepository) GetByID(ctx context.Context, id string) (*domain.Upload, error) {
	var m uploadModel
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUploadNotFound
	}
	if err != nil {
		return nil, apperr.Classify(err)
	}
	return toDomainUpload(m), nil
}

// ListByUser returns the user's uploads, newest first.
func (r *UploadRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Upload, error) {
	var rows []uploadModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Classify(err)
	}
	out := make([]*domain.Upload, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainUpload(m))
	}
	return out, nil
}

func (r *UploadRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&uploadModel{})
	if res.Error != nil {
		return apperr.Classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUploadNotFound
	}
	return nil
}
