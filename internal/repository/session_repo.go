package repository

import (
	"context"
	"errors"
	"time"

	"trademind/internal/pkg/apperr"

	"gorm.io/gorm"
)

// SessionStore tracks which issued sessions are still live, so sign-out can
// revoke a token before it expires.
type SessionStore interface {
	Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (userID string, ok bool, err error)
	Revoke(ctx context.Context, sessionID string) error
}

// SessionRepository keeps sessions in the auth_sessions table.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	now := time.Now().UTC()
	m := sessionModel{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	return apperr.Classify(r.db.WithContext(ctx).Create(&m).Error)
}

func (r *SessionRepository) Lookup(ctx context.Context, sessionID string) (string, bool, error) {
	var m sessionModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, time.Now().UTC()).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperr.Classify(err)
	}
	return m.UserID, true, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, sessionID string) error {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).Model(&sessionModel{}).
		Where("id = ? AND revoked_at IS NULL", sessionID).
		Update("revoked_at", now).Error
	return apperr.Classify(err)
}

// DeleteExpired removes expired sessions and sessions revoked before
// revokedBefore. It returns the number of rows deleted.
func (r *SessionRepository) DeleteExpired(ctx context.Context, revokedBefore time.Time) (int64, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", now, revokedBefore).
		Delete(&sessionModel{})
	return res.RowsAffected, apperr.Classify(res.Error)
}
