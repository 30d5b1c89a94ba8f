package notification

import (
	"context"
	"time"

	"trademind/internal/domain"
)

const (
	TypeProfileApproved = "profile.approved"
	TypeProfileRejected = "profile.rejected"
)

// ReviewDecision is emitted after an admin approves or rejects a user's
// payment proof.
type ReviewDecision struct {
	Type      string            `json:"type"`
	UserID    string            `json:"user_id"`
	Email     string            `json:"email"`
	Status    domain.UserStatus `json:"status"`
	Reason    string            `json:"reason,omitempty"`
	AdminID   string            `json:"admin_id"`
	DecidedAt time.Time         `json:"decided_at"`
}

// NewReviewDecision builds the event for a status change.
func NewReviewDecision(user *domain.User, status domain.UserStatus, adminID, reason string) ReviewDecision {
	typ := TypeProfileRejected
	if status == domain.StatusActive {
		typ = TypeProfileApproved
	}
	ev := ReviewDecision{
		Type:      typ,
		Status:    status,
		Reason:    reason,
		AdminID:   adminID,
		DecidedAt: time.Now().UTC(),
	}
	if user != nil {
		ev.UserID = user.ID
		ev.Email = user.Email
	}
	return ev
}

type Publisher interface {
	PublishReviewDecision(ctx context.Context, ev ReviewDecision) error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishReviewDecision(context.Context, ReviewDecision) error { return nil }
