package auth

import (
	"context"
	"time"

	"trademind/internal/domain"
	"trademind/internal/pkg/jwt"
)

// AccountRepository lists only the methods the auth service uses.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateMetadata(ctx context.Context, id string, meta map[string]string) (*domain.Account, error)
	ConfirmEmail(ctx context.Context, id string) error
}

// SessionStore is the registry of live sessions. Both the gorm and redis
// stores in the repository package satisfy it.
type SessionStore interface {
	Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (string, bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

// ProfileProvisioner creates the application profile for a new account.
type ProfileProvisioner interface {
	CreateProfile(ctx context.Context, userID, name, email string) (*domain.User, error)
}

type tokenService interface {
	GenerateToken(userID, email, sessionID string) (string, time.Time, error)
	ValidateToken(token string) (*jwt.Claims, error)
	TTL() time.Duration
}
