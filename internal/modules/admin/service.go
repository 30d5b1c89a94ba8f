package admin

import (
	"context"
	"errors"
	"strings"

	"trademind/internal/domain"
	"trademind/internal/notification"
	"trademind/internal/pkg/logger"
	"trademind/internal/repository"

	"github.com/rs/zerolog"
)

var (
	ErrAlreadyActive  = errors.New("profile is already active")
	ErrReasonRequired = errors.New("reason is required")
	ErrAdminProfile   = errors.New("admin profiles are not reviewed")
)

type Service struct {
	profiles ProfileRepository
	notifs   notification.Publisher
	log      zerolog.Logger
}

func NewService(profiles ProfileRepository, notifs notification.Publisher) *Service {
	if notifs == nil {
		notifs = notification.Noop{}
	}
	return &Service{
		profiles: profiles,
		notifs:   notifs,
		log:      logger.Component("admin"),
	}
}

// ListProfiles returns every non-admin profile matching the filter.
func (s *Service) ListProfiles(ctx context.Context, f ProfileListFilter) []domain.User {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]domain.User, 0)
	for _, u := range s.profiles.GetAllProfiles(ctx) {
		if u.Role == domain.RoleAdmin {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(u.Name), q) && !strings.Contains(strings.ToLower(u.Email), q) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*ProfileDetailResponse, error) {
	u, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, repository.ErrProfileNotFound
	}
	history, err := s.profiles.ListApprovalLogs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileDetailResponse{Profile: u, History: history}, nil
}

// GetStatistics counts every profile and sums submitted payment amounts.
func (s *Service) GetStatistics(ctx context.Context) *StatisticsResponse {
	stats := &StatisticsResponse{}
	for _, u := range s.profiles.GetAllProfiles(ctx) {
		stats.TotalUsers++
		switch u.Status {
		case domain.StatusPending:
			stats.PendingUsers++
		case domain.StatusActive:
			stats.ActiveUsers++
		case domain.StatusRejected:
			stats.RejectedUsers++
		}
		if u.PaymentDetails != nil {
			stats.Revenue += u.PaymentDetails.Amount
		}
	}
	return stats
}

func (s *Service) Approve(ctx context.Context, userID, adminID string) error {
	return s.decide(ctx, userID, adminID, domain.StatusActive, "")
}

func (s *Service) Reject(ctx context.Context, userID, adminID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	return s.decide(ctx, userID, adminID, domain.StatusRejected, reason)
}

func (s *Service) decide(ctx context.Context, userID, adminID string, status domain.UserStatus, reason string) error {
	u, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return repository.ErrProfileNotFound
	}
	if u.IsAdmin() {
		return ErrAdminProfile
	}
	if u.Status == domain.StatusActive {
		return ErrAlreadyActive
	}

	if err := s.profiles.UpdateProfileStatus(ctx, userID, status, adminID, reason); err != nil {
		return err
	}

	ev := notification.NewReviewDecision(u, status, adminID, reason)
	if err := s.notifs.PublishReviewDecision(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Str("type", ev.Type).Msg("review notification not delivered")
	}
	s.log.Info().Str("admin_id", adminID).Str("user_id", userID).Str("status", string(status)).Msg("profile reviewed")
	return nil
}
