package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"trademind/internal/domain"
	"trademind/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository reads and writes application profiles and the records
// hanging off them (registration details, admin review log).
type ProfileRepository struct {
	db     *gorm.DB
	policy RolePolicy
	log    zerolog.Logger
}

func NewProfileRepository(db *gorm.DB, policy RolePolicy) *ProfileRepository {
	if policy == nil {
		policy = EmailContainsAdmin
	}
	return &ProfileRepository{
		db:     db,
		policy: policy,
		log:    log.With().Str("component", "profile_repo").Logger(),
	}
}

func toDomainProfile(m profileModel, reg *registrationModel) *domain.User {
	u := &domain.User{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		Role:           domain.UserRole(m.Role),
		Status:         domain.UserStatus(m.Status),
		PaymentDetails: m.PaymentDetails,
		UpdatedAt:      m.UpdatedAt,
	}
	if reg != nil {
		u.RegistrationDetails = &domain.RegistrationDetails{
			Mobile:            reg.Mobile,
			TradingExperience: reg.TradingExperience,
			PreferredMarket:   reg.PreferredMarket,
			CapitalSize:       reg.CapitalSize,
		}
	}
	return u
}

// GetProfile returns the profile for userID, or nil when there is none.
// Recursion and connection failures are returned as typed errors; any other
// failure is logged and reported as a missing profile.
func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	var m profileModel
	err := r.db.WithContext(ctx).Where("id = ?", userID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		classified := apperr.Classify(err)
		if apperr.IsRecursion(classified) || apperr.IsConnection(classified) {
			r.log.Error().Err(err).Str("user_id", userID).Msg("profile fetch failed")
			return nil, classified
		}
		r.log.Error().Err(err).Str("user_id", userID).Msg("profile fetch failed, treating as missing")
		return nil, nil
	}

	var reg registrationModel
	regErr := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&reg).Error
	switch {
	case regErr == nil:
		return toDomainProfile(m, &reg), nil
	case errors.Is(regErr, gorm.ErrRecordNotFound):
	default:
		r.log.Warn().Err(regErr).Str("user_id", userID).Msg("registration details fetch failed")
	}
	return toDomainProfile(m, nil), nil
}

// CreateProfile inserts the profile for a freshly authenticated account.
// Role and status come from the role policy. An existing row keeps its role
// and status; only name and email are refreshed.
func (r *ProfileRepository) CreateProfile(ctx context.Context, userID, name, email string) (*domain.User, error) {
	role, status := r.policy(email)
	m := profileModel{
		ID:        userID,
		Name:      name,
		Email:     normalizeEmail(email),
		Role:      string(role),
		Status:    string(status),
		UpdatedAt: time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return nil, apperr.Classify(err)
	}
	return r.GetProfile(ctx, userID)
}

// GetAllProfiles lists every profile with its registration details. Errors
// yield an empty list.
func (r *ProfileRepository) GetAllProfiles(ctx context.Context) []domain.User {
	var profiles []profileModel
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&profiles).Error; err != nil {
		r.log.Error().Err(err).Msg("fetching all profiles failed")
		return []domain.User{}
	}

	var regs []registrationModel
	if err := r.db.WithContext(ctx).Find(&regs).Error; err != nil {
		r.log.Warn().Err(err).Msg("fetching registration details failed")
	}
	byUser := make(map[string]*registrationModel, len(regs))
	for i := range regs {
		byUser[regs[i].UserID] = &regs[i]
	}

	out := make([]domain.User, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, *toDomainProfile(p, byUser[p.ID]))
	}
	return out
}

// UpdateProfileStatus sets a user's status on behalf of an admin and records
// the decision in admin_logs. A failed log insert is only warned about. A
// rejection reason is also stored on the user's payment details.
func (r *ProfileRepository) UpdateProfileStatus(ctx context.Context, userID string, status domain.UserStatus, adminID, reason string) error {
	var m profileModel
	err := r.db.WithContext(ctx).Where("id = ?", userID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProfileNotFound
	}
	if err != nil {
		return apperr.Classify(err)
	}

	m.Status = string(status)
	m.UpdatedAt = time.Now().UTC()
	if status == domain.StatusRejected && m.PaymentDetails != nil {
		m.PaymentDetails.RejectionReason = strings.TrimSpace(reason)
	}
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return apperr.Classify(err)
	}

	action := domain.ActionReject
	if status == domain.StatusActive {
		action = domain.ActionApprove
	}
	entry := adminLogModel{
		ID:        uuid.NewString(),
		UserID:    userID,
		AdminID:   adminID,
		Action:    string(action),
		Reason:    strPtr(strings.TrimSpace(reason)),
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Msg("could not log admin action")
	}
	return nil
}

// SubmitPaymentProof stores the payment proof and puts the user back into
// review. Active and admin profiles are left untouched.
func (r *ProfileRepository) SubmitPaymentProof(ctx context.Context, userID string, details domain.PaymentDetails) error {
	m := profileModel{ID: userID}
	res := r.db.WithContext(ctx).Model(&m).
		Where("status <> ? AND role <> ?", string(domain.StatusActive), string(domain.RoleAdmin)).
		Select("payment_details", "status", "updated_at").
		Updates(profileModel{
			PaymentDetails: &details,
			Status:         string(domain.StatusPending),
			UpdatedAt:      time.Now().UTC(),
		})
	if res.Error != nil {
		return apperr.Classify(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	current, err := r.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrProfileNotFound
	}
	if err := current.CheckPaymentAllowed(); err != nil {
		return err
	}
	return ErrProfileNotFound
}

func (r *ProfileRepository) SaveRegistrationDetails(ctx context.Context, userID string, d domain.RegistrationDetails) error {
	m := registrationModel{
		UserID:            userID,
		Mobile:            d.Mobile,
		TradingExperience: d.TradingExperience,
		PreferredMarket:   d.PreferredMarket,
		CapitalSize:       d.CapitalSize,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"mobile", "trading_experience", "preferred_market", "capital_size"}),
	}).Create(&m).Error
	return apperr.Classify(err)
}

func (r *ProfileRepository) ListApprovalLogs(ctx context.Context, userID string) ([]domain.ApprovalLog, error) {
	var rows []adminLogModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, apperr.Classify(err)
	}
	out := make([]domain.ApprovalLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ApprovalLog{
			ID:        row.ID,
			UserID:    row.UserID,
			AdminID:   row.AdminID,
			Action:    domain.ApprovalAction(row.Action),
			Reason:    strVal(row.Reason),
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
