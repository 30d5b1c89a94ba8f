package repository

import (
	"time"

	"trademind/internal/domain"

	"gorm.io/gorm"
)

type accountModel struct {
	ID               string            `gorm:"column:id;primaryKey;size:36"`
	Email            string            `gorm:"column:email;uniqueIndex;size:320"`
	PasswordHash     string            `gorm:"column:password_hash"`
	Metadata         map[string]string `gorm:"column:user_metadata;type:text;serializer:json"`
	EmailConfirmedAt *time.Time        `gorm:"column:email_confirmed_at"`
	CreatedAt        time.Time         `gorm:"column:created_at"`
	UpdatedAt        time.Time         `gorm:"column:updated_at"`
}

func (accountModel) TableName() string { return "auth_users" }

type sessionModel struct {
	ID        string     `gorm:"column:id;primaryKey;size:36"`
	UserID    string     `gorm:"column:user_id;index;size:36"`
	ExpiresAt time.Time  `gorm:"column:expires_at;index"`
	RevokedAt *time.Time `gorm:"column:revoked_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

func (sessionModel) TableName() string { return "auth_sessions" }

type profileModel struct {
	ID             string                 `gorm:"column:id;primaryKey;size:36"`
	Name           string                 `gorm:"column:name"`
	Email          string                 `gorm:"column:email"`
	Role           string                 `gorm:"column:role;size:16"`
	Status         string                 `gorm:"column:status;size:16;index"`
	PaymentDetails *domain.PaymentDetails `gorm:"column:payment_details;type:text;serializer:json"`
	UpdatedAt      time.Time              `gorm:"column:updated_at"`
}

func (profileModel) TableName() string { return "profiles" }

type registrationModel struct {
	UserID            string `gorm:"column:user_id;primaryKey;size:36"`
	Mobile            string `gorm:"column:mobile"`
	TradingExperience string `gorm:"column:trading_experience"`
	PreferredMarket   string `gorm:"column:preferred_market"`
	CapitalSize       string `gorm:"column:capital_size"`
}

func (registrationModel) TableName() string { return "registration_details" }

type adminLogModel struct {
	ID        string    `gorm:"column:id;primaryKey;size:36"`
	UserID    string    `gorm:"column:user_id;index;size:36"`
	AdminID   string    `gorm:"column:admin_id;size:36"`
	Action    string    `gorm:"column:action;size:16"`
	Reason    *string   `gorm:"column:reason"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (adminLogModel) TableName() string { return "admin_logs" }

type tradeModel struct {
	ID            string             `gorm:"column:id;primaryKey;size:36"`
	UserID        string             `gorm:"column:user_id;index;size:36"`
	AssetType     string             `gorm:"column:asset_type"`
	Instrument    string             `gorm:"column:instrument"`
	Side          string             `gorm:"column:side"`
	Qty           float64            `gorm:"column:qty"`
	EntryPrice    float64            `gorm:"column:entry_price"`
	ExitPrice     float64            `gorm:"column:exit_price"`
	StopLoss      float64            `gorm:"column:stop_loss"`
	Target        float64            `gorm:"column:target"`
	RiskReward    float64            `gorm:"column:risk_reward"`
	Timestamp     time.Time          `gorm:"column:timestamp;index"`
	MarketType    string             `gorm:"column:market_type"`
	ScreenshotURL *string            `gorm:"column:screenshot_url"`
	Notes         *string            `gorm:"column:notes"`
	Mistakes      []string           `gorm:"column:mistakes;type:text;serializer:json"`
	Psychology    *domain.Psychology `gorm:"column:psychology;type:text;serializer:json"`
	StrategyID    *string            `gorm:"column:strategy_id;size:36"`
}

func (tradeModel) TableName() string { return "trades" }

type strategyModel struct {
	ID         string `gorm:"column:id;primaryKey;size:36"`
	UserID     string `gorm:"column:user_id;index;size:36"`
	Name       string `gorm:"column:name"`
	EntryRules string `gorm:"column:entry_rules"`
	ExitRules  string `gorm:"column:exit_rules"`
	Timeframe  string `gorm:"column:timeframe"`
	Instrument string `gorm:"column:instrument"`
	RiskRules  string `gorm:"column:risk_rules"`
}

func (strategyModel) TableName() string { return "strategies" }

type riskRulesModel struct {
	UserID          string    `gorm:"column:user_id;primaryKey;size:36"`
	MaxRiskPerTrade float64   `gorm:"column:max_risk_per_trade"`
	MaxDailyLoss    float64   `gorm:"column:max_daily_loss"`
	MaxTradesPerDay int       `gorm:"column:max_trades_per_day"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (riskRulesModel) TableName() string { return "risk_management" }

type uploadModel struct {
	ID           string    `gorm:"column:id;primaryKey;size:36"`
	UserID       string    `gorm:"column:user_id;index;size:36"`
	OriginalName string    `gorm:"column:original_name"`
	FilePath     string    `gorm:"column:file_path"`
	URL          string    `gorm:"column:url"`
	MimeType     string    `gorm:"column:mime_type;size:64"`
	Size         int64     `gorm:"column:size"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (uploadModel) TableName() string { return "uploads" }

// Migrate creates or updates every table the application owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&accountModel{},
		&sessionModel{},
		&profileModel{},
		&registrationModel{},
		&adminLogModel{},
		&tradeModel{},
		&strategyModel{},
		&riskRulesModel{},
		&uploadModel{},
	)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
