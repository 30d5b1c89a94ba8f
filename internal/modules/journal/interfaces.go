package journal

import (
	"context"

	"trademind/internal/domain"
	"trademind/internal/repository"
)

type Repository interface {
	GetTrades(ctx context.Context, userID string) []domain.Trade
	SaveTrade(ctx context.Context, t *domain.Trade) error
	GetStrategies(ctx context.Context, userID string) []domain.Strategy
	SaveStrategy(ctx context.Context, s *domain.Strategy) error
	DeleteStrategy(ctx context.Context, userID, id string) error
	GetRiskRules(ctx context.Context, userID string) (*domain.RiskRules, error)
	SaveRiskRules(ctx context.Context, rules domain.RiskRules) error
}

var _ Repository = (*repository.JournalRepository)(nil)
