package admin

import (
	"context"

	"trademind/internal/domain"
	"trademind/internal/notification"
	"trademind/internal/repository"
)

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	GetAllProfiles(ctx context.Context) []domain.User
	UpdateProfileStatus(ctx context.Context, userID string, status domain.UserStatus, adminID, reason string) error
	ListApprovalLogs(ctx context.Context, userID string) ([]domain.ApprovalLog, error)
}

var (
	_ ProfileRepository      = (*repository.ProfileRepository)(nil)
	_ notification.Publisher = notification.Noop{}
)
