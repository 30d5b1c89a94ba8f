package repository

import (
	"context"
	"errors"
	"time"

	"trademind/internal/domain"
	"trademind/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrStrategyNotFound = errors.New("strategy not found")

// JournalRepository holds the per-user trading journal: trades, strategies
// and risk rules.
type JournalRepository struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{
		db:  db,
		log: log.With().Str("component", "journal_repo").Logger(),
	}
}

func toDomainTrade(m tradeModel) domain.Trade {
	t := domain.Trade{
		ID:            m.ID,
		UserID:        m.UserID,
		AssetType:     domain.AssetType(m.AssetType),
		Instrument:    m.Instrument,
		Side:          domain.Side(m.Side),
		Qty:           m.Qty,
		EntryPrice:    m.EntryPrice,
		ExitPrice:     m.ExitPrice,
		StopLoss:      m.StopLoss,
		Target:        m.Target,
		RiskReward:    m.RiskReward,
		Timestamp:     m.Timestamp,
		MarketType:    domain.MarketType(m.MarketType),
		ScreenshotURL: strVal(m.ScreenshotURL),
		Notes:         strVal(m.Notes),
		Mistakes:      m.Mistakes,
		StrategyID:    strVal(m.StrategyID),
	}
	if t.Mistakes == nil {
		t.Mistakes = []string{}
	}
	if m.Psychology != nil {
		t.Psychology = *m.Psychology
	} else {
		t.Psychology = domain.DefaultPsychology()
	}
	return t
}

// GetTrades returns the user's trades, newest first. Errors yield an empty
// list.
func (r *JournalRepository) GetTrades(ctx context.Context, userID string) []domain.Trade {
	var rows []tradeModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		r.log.Error().Err(err).Str("user_id", userID).Msg("fetching trades failed")
		return []domain.Trade{}
	}
	out := make([]domain.Trade, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainTrade(row))
	}
	return out
}

func (r *JournalRepository) SaveTrade(ctx context.Context, t *domain.Trade) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}
	psych := t.Psychology
	m := tradeModel{
		ID:            t.ID,
		UserID:        t.UserID,
		AssetType:     string(t.AssetType),
		Instrument:    t.Instrument,
		Side:          string(t.Side),
		Qty:           t.Qty,
		EntryPrice:    t.EntryPrice,
		ExitPrice:     t.ExitPrice,
		StopLoss:      t.StopLoss,
		Target:        t.Target,
		RiskReward:    t.RiskReward,
		Timestamp:     t.Timestamp,
		MarketType:    string(t.MarketType),
		ScreenshotURL: strPtr(t.ScreenshotURL),
		Notes:         strPtr(t.Notes),
		Mistakes:      t.Mistakes,
		Psychology:    &psych,
		StrategyID:    strPtr(t.StrategyID),
	}
	return apperr.Classify(r.db.WithContext(ctx).Create(&m).Error)
}

// GetStrategies returns the user's strategies. Errors yield an empty list.
func (r *JournalRepository) GetStrategies(ctx context.Context, userID string) []domain.Strategy {
	var rows []strategyModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&rows).Error; err != nil {
		r.log.Error().Err(err).Str("user_id", userID).Msg("fetching strategies failed")
		return []domain.Strategy{}
	}
	out := make([]domain.Strategy, 0, len(rows))
	for _, s := range rows {
		out = append(out, domain.Strategy{
			ID:         s.ID,
			UserID:     s.UserID,
			Name:       s.Name,
			EntryRules: s.EntryRules,
			ExitRules:  s.ExitRules,
			Timeframe:  s.Timeframe,
			Instrument: s.Instrument,
			RiskRules:  s.RiskRules,
		})
	}
	return out
}

func (r *JournalRepository) SaveStrategy(ctx context.Context, s *domain.Strategy) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	m := strategyModel{
		ID:         s.ID,
		UserID:     s.UserID,
		Name:       s.Name,
		EntryRules: s.EntryRules,
		ExitRules:  s.ExitRules,
		Timeframe:  s.Timeframe,
		Instrument: s.Instrument,
		RiskRules:  s.RiskRules,
	}
	return apperr.Classify(r.db.WithContext(ctx).Create(&m).Error)
}

// DeleteStrategy removes one of the user's strategies.
func (r *JournalRepository) DeleteStrategy(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&strategyModel{})
	if res.Error != nil {
		return apperr.Classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStrategyNotFound
	}
	return nil
}

// GetRiskRules returns the user's saved rules, or nil when none are saved.
func (r *JournalRepository) GetRiskRules(ctx context.Context, userID string) (*domain.RiskRules, error) {
	var m riskRulesModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Classify(err)
	}
	return &domain.RiskRules{
		UserID:          m.UserID,
		MaxRiskPerTrade: m.MaxRiskPerTrade,
		MaxDailyLoss:    m.MaxDailyLoss,
		MaxTradesPerDay: m.MaxTradesPerDay,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}

func (r *JournalRepository) SaveRiskRules(ctx context.Context, rules domain.RiskRules) error {
	m := riskRulesModel{
		UserID:          rules.UserID,
		MaxRiskPerTrade: rules.MaxRiskPerTrade,
		MaxDailyLoss:    rules.MaxDailyLoss,
		MaxTradesPerDay: rules.MaxTradesPerDay,
		UpdatedAt:       time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_risk_per_trade", "max_daily_loss", "max_trades_per_day", "updated_at"}),
	}).Create(&m).Error
	return apperr.Classify(err)
}
