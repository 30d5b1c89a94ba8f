package admin

import "trademind/internal/domain"

type RejectProfileRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ProfileListFilter struct {
	Status domain.UserStatus `form:"status"`
	Query  string            `form:"q"` // name/email contains
}

type StatisticsResponse struct {
	TotalUsers    int     `json:"total_users"`
	PendingUsers  int     `json:"pending_users"`
	ActiveUsers   int     `json:"active_users"`
	RejectedUsers int     `json:"rejected_users"`
	Revenue       float64 `json:"revenue"`
}

type ProfileDetailResponse struct {
	Profile *domain.User         `json:"profile"`
	History []domain.ApprovalLog `json:"history"`
}
