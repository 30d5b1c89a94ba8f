package payment

import (
	"context"
	"strings"
	"time"

	"trademind/internal/domain"
	"trademind/internal/pkg/logger"
	"trademind/internal/repository"

	"github.com/rs/zerolog"
)

var (
	ErrAlreadyActive = domain.ErrAlreadyActive
	ErrAdminAccount  = domain.ErrAdminPayment
)

type Service struct {
	store ProofStore
	now   func() time.Time
	log   zerolog.Logger
}

func NewService(store ProofStore) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		log:   logger.Component("payment"),
	}
}

// SubmitProof stores the caller's payment proof and sends the account back
// to review. A missing date defaults to now; any earlier rejection reason
// is cleared.
func (s *Service) SubmitProof(ctx context.Context, user *domain.User, req SubmitProofRequest) (*ProofResponse, error) {
	if user == nil {
		return nil, repository.ErrProfileNotFound
	}
	if err := user.CheckPaymentAllowed(); err != nil {
		return nil, err
	}

	details := req.toDomain()
	details.TransactionID = strings.TrimSpace(details.TransactionID)
	details.RejectionReason = ""
	if details.Date.IsZero() {
		details.Date = s.now()
	}

	if err := s.store.SubmitPaymentProof(ctx, user.ID, details); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Str("transaction_id", details.TransactionID).Msg("payment proof submitted")

	return &ProofResponse{Status: domain.StatusPending, Payment: &details}, nil
}

func (s *Service) GetProof(ctx context.Context, userID string) (*ProofResponse, error) {
	u, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, repository.ErrProfileNotFound
	}
	return &ProofResponse{Status: u.Status, Payment: u.PaymentDetails}, nil
}
