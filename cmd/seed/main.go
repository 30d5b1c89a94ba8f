package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"trademind/internal/config"
	"trademind/internal/database"
	"trademind/internal/domain"
	"trademind/internal/modules/auth"
	"trademind/internal/pkg/jwt"
	"trademind/internal/pkg/logger"
	"trademind/internal/repository"
)

type seedUser struct {
	name     string
	email    string
	password string
	status   domain.UserStatus
	paid     bool
	trades   int
}

var users = []seedUser{
	{name: "Platform Admin", email: "admin@trademind.io", password: "admin123"},
	{name: "Asha Rao", email: "asha@example.com", password: "trader123", status: domain.StatusActive, paid: true, trades: 25},
	{name: "Ben Cole", email: "ben@example.com", password: "trader123", status: domain.StatusPending, paid: true},
	{name: "Cara Diaz", email: "cara@example.com", password: "trader123", status: domain.StatusPending},
}

var instruments = []string{"RELIANCE", "TCS", "INFY", "HDFCBANK", "NIFTY", "BANKNIFTY"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger.Init("trademind-seed", cfg.Debug, cfg.LogJSON)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("DB connection failed")
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	adminEmails := append([]string{users[0].email}, cfg.Auth.AdminEmails...)
	profiles := repository.NewProfileRepository(db, repository.AdminEmailList(adminEmails))
	journal := repository.NewJournalRepository(db)
	authService := auth.NewService(
		repository.NewAccountRepository(db),
		repository.NewSessionRepository(db),
		jwt.New(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL),
		profiles,
		auth.Options{BcryptCost: cfg.Auth.BcryptCost, SessionTTL: cfg.Auth.SessionStoreTTL},
	)

	var adminID string
	for _, u := range users {
		account, _, err := authService.SignUp(ctx, auth.SignUpInput{
			Email:    u.email,
			Password: u.password,
			Metadata: map[string]string{domain.MetadataFullName: u.name},
		})
		if errors.Is(err, auth.ErrEmailAlreadyExists) {
			log.Info().Str("email", u.email).Msg("already seeded, skipping")
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("email", u.email).Msg("signup failed")
		}
		if adminID == "" {
			adminID = account.ID
		}

		if err := profiles.SaveRegistrationDetails(ctx, account.ID, domain.RegistrationDetails{
			Mobile:            fmt.Sprintf("98765%05d", rng.Intn(100000)),
			TradingExperience: "1-3 years",
			PreferredMarket:   "NSE",
			CapitalSize:       "1L-5L",
		}); err != nil {
			log.Warn().Err(err).Str("email", u.email).Msg("registration details not saved")
		}

		if u.paid {
			if err := profiles.SubmitPaymentProof(ctx, account.ID, domain.PaymentDetails{
				TransactionID: fmt.Sprintf("UTR%09d", rng.Intn(1_000_000_000)),
				Amount:        4999,
				Date:          time.Now().UTC().AddDate(0, 0, -3),
			}); err != nil {
				log.Fatal().Err(err).Str("email", u.email).Msg("payment proof failed")
			}
		}
		if u.status == domain.StatusActive {
			if err := profiles.UpdateProfileStatus(ctx, account.ID, domain.StatusActive, adminID, ""); err != nil {
				log.Fatal().Err(err).Str("email", u.email).Msg("approve failed")
			}
		}

		for i := 0; i < u.trades; i++ {
			if err := journal.SaveTrade(ctx, randomTrade(rng, account.ID, i)); err != nil {
				log.Fatal().Err(err).Msg("trade insert failed")
			}
		}
		log.Info().Str("email", u.email).Str("password", u.password).Int("trades", u.trades).Msg("user seeded")
	}

	log.Info().Msg("seed completed")
}

func randomTrade(rng *rand.Rand, userID string, i int) *domain.Trade {
	entry := 100 + rng.Float64()*2000
	move := entry * (rng.Float64()*0.04 - 0.015)
	side := domain.SideBuy
	if rng.Intn(3) == 0 {
		side = domain.SideSell
		move = -move
	}
	stop := entry * 0.99
	target := entry * 1.02
	if side == domain.SideSell {
		stop, target = entry*1.01, entry*0.98
	}

	var mistakes []string
	if rng.Intn(4) == 0 {
		mistakes = []string{domain.CommonMistakes[rng.Intn(len(domain.CommonMistakes))]}
	}

	return &domain.Trade{
		UserID:     userID,
		AssetType:  domain.AssetStock,
		Instrument: instruments[rng.Intn(len(instruments))],
		Side:       side,
		Qty:        float64(1 + rng.Intn(50)),
		EntryPrice: round2(entry),
		ExitPrice:  round2(entry + move),
		StopLoss:   round2(stop),
		Target:     round2(target),
		RiskReward: 2,
		Timestamp:  time.Now().UTC().AddDate(0, 0, -i).Add(-time.Duration(rng.Intn(6)) * time.Hour),
		MarketType: domain.MarketIntraday,
		Mistakes:   mistakes,
		Psychology: domain.DefaultPsychology(),
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
