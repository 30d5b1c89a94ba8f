package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"trademind/internal/domain"
	"trademind/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAccountNotFound = errors.New("account not found")

// AccountRepository stores auth identities (auth_users).
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func toDomainAccount(m accountModel) *domain.Account {
	return &domain.Account{
		ID:               m.ID,
		Email:            m.Email,
		PasswordHash:     m.PasswordHash,
		Metadata:         m.Metadata,
		EmailConfirmedAt: m.EmailConfirmedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toAccountModel(a *domain.Account) accountModel {
	return accountModel{
		ID:               a.ID,
		Email:            normalizeEmail(a.Email),
		PasswordHash:     a.PasswordHash,
		Metadata:         a.Metadata,
		EmailConfirmedAt: a.EmailConfirmedAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	m := toAccountModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return apperr.Classify(err)
	}
	*a = *toDomainAccount(m)
	return nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var m accountModel
	err := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, apperr.Classify(err)
	}
	return toDomainAccount(m), nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	var m accountModel
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, apperr.Classify(err)
	}
	return toDomainAccount(m), nil
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&accountModel{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).Error
	if err != nil {
		return false, apperr.Classify(err)
	}
	return count > 0, nil
}

// UpdateMetadata merges meta into the account's metadata.
func (r *AccountRepository) UpdateMetadata(ctx context.Context, id string, meta map[string]string) (*domain.Account, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Metadata == nil {
		a.Metadata = map[string]string{}
	}
	for k, v := range meta {
		a.Metadata[k] = v
	}
	a.UpdatedAt = time.Now().UTC()

	m := toAccountModel(a)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return nil, apperr.Classify(err)
	}
	return a, nil
}

func (r *AccountRepository) ConfirmEmail(ctx context.Context, id string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&accountModel{}).
		Where("id = ? AND email_confirmed_at IS NULL", id).
		Updates(map[string]any{"email_confirmed_at": now, "updated_at": now})
	if res.Error != nil {
		return apperr.Classify(res.Error)
	}
	return nil
}
