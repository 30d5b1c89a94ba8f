package session

import (
	"context"

	"trademind/internal/backend"
	"trademind/internal/domain"
	"trademind/internal/repository"
)

// AuthClient is the per-connection auth client.
type AuthClient interface {
	GetSession(ctx context.Context) (*domain.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (*domain.Account, *domain.Session, error)
	SignOut(ctx context.Context) error
	OnAuthStateChange(handler backend.AuthHandler) backend.Subscription
}

// ProfileStore is the part of the profile repository the controller uses.
// GetProfile returns (nil, nil) when there is no profile; only recursion and
// connection failures come back as errors.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	CreateProfile(ctx context.Context, userID, name, email string) (*domain.User, error)
	SaveRegistrationDetails(ctx context.Context, userID string, d domain.RegistrationDetails) error
	SubmitPaymentProof(ctx context.Context, userID string, d domain.PaymentDetails) error
}

var (
	_ AuthClient   = (*backend.Client)(nil)
	_ ProfileStore = (*repository.ProfileRepository)(nil)
)
