package journal

import (
	"context"
	"math"
	"strings"

	"trademind/internal/domain"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListTrades(ctx context.Context, userID string) []domain.Trade {
	return s.repo.GetTrades(ctx, userID)
}

// CreateTrade stores a trade for userID. Risk/reward is derived from the
// stop and target when both are set.
func (s *Service) CreateTrade(ctx context.Context, userID string, req CreateTradeRequest) (*domain.Trade, error) {
	t := &domain.Trade{
		UserID:        userID,
		AssetType:     req.AssetType,
		Instrument:    strings.ToUpper(strings.TrimSpace(req.Instrument)),
		Side:          req.Side,
		Qty:           req.Qty,
		EntryPrice:    req.EntryPrice,
		ExitPrice:     req.ExitPrice,
		StopLoss:      req.StopLoss,
		Target:        req.Target,
		RiskReward:    riskReward(req.EntryPrice, req.StopLoss, req.Target),
		Timestamp:     req.Timestamp,
		MarketType:    req.MarketType,
		ScreenshotURL: req.ScreenshotURL,
		Notes:         req.Notes,
		Mistakes:      req.Mistakes,
		Psychology:    domain.DefaultPsychology(),
		StrategyID:    req.StrategyID,
	}
	if req.Psychology != nil {
		t.Psychology = *req.Psychology
	}
	if t.Mistakes == nil {
		t.Mistakes = []string{}
	}
	if err := s.repo.SaveTrade(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func riskReward(entry, stop, target float64) float64 {
	if stop <= 0 || target <= 0 {
		return 0
	}
	risk := math.Abs(entry - stop)
	if risk == 0 {
		return 0
	}
	return math.Round(math.Abs(target-entry)/risk*100) / 100
}

func (s *Service) Summarize(ctx context.Context, userID string) Summary {
	return summarize(s.repo.GetTrades(ctx, userID))
}

func summarize(trades []domain.Trade) Summary {
	var sum Summary
	var rr float64
	for _, t := range trades {
		sum.TotalTrades++
		pnl := t.PnL()
		sum.NetPnL += pnl
		switch {
		case pnl > 0:
			sum.Wins++
		case pnl < 0:
			sum.Losses++
		}
		rr += t.RiskReward
	}
	if sum.TotalTrades > 0 {
		sum.WinRate = math.Round(float64(sum.Wins)/float64(sum.TotalTrades)*10000) / 100
		sum.AvgRR = math.Round(rr/float64(sum.TotalTrades)*100) / 100
	}
	return sum
}

func (s *Service) ListStrategies(ctx context.Context, userID string) []domain.Strategy {
	return s.repo.GetStrategies(ctx, userID)
}

func (s *Service) CreateStrategy(ctx context.Context, userID string, req CreateStrategyRequest) (*domain.Strategy, error) {
	st := &domain.Strategy{
		UserID:     userID,
		Name:       strings.TrimSpace(req.Name),
		EntryRules: req.EntryRules,
		ExitRules:  req.ExitRules,
		Timeframe:  req.Timeframe,
		Instrument: req.Instrument,
		RiskRules:  req.RiskRules,
	}
	if err := s.repo.SaveStrategy(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) DeleteStrategy(ctx context.Context, userID, id string) error {
	return s.repo.DeleteStrategy(ctx, userID, id)
}

// GetRiskRules returns the saved rules, or the defaults when none exist.
func (s *Service) GetRiskRules(ctx context.Context, userID string) (*domain.RiskRules, error) {
	rules, err := s.repo.GetRiskRules(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rules == nil {
		d := domain.DefaultRiskRules(userID)
		return &d, nil
	}
	return rules, nil
}

func (s *Service) SaveRiskRules(ctx context.Context, userID string, req RiskRulesRequest) (*domain.RiskRules, error) {
	rules := domain.RiskRules{
		UserID:          userID,
		MaxRiskPerTrade: req.MaxRiskPerTrade,
		MaxDailyLoss:    req.MaxDailyLoss,
		MaxTradesPerDay: req.MaxTradesPerDay,
	}
	if err := s.repo.SaveRiskRules(ctx, rules); err != nil {
		return nil, err
	}
	return s.GetRiskRules(ctx, userID)
}
