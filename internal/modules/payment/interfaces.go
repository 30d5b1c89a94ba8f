package payment

import (
	"context"

	"trademind/internal/domain"
	"trademind/internal/repository"
)

type ProofStore interface {
	SubmitPaymentProof(ctx context.Context, userID string, details domain.PaymentDetails) error
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
}

var _ ProofStore = (*repository.ProfileRepository)(nil)
