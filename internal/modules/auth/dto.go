package auth

type SignUpRequest struct {
	Name              string `json:"name" binding:"required,min=2"`
	Email             string `json:"email" binding:"required,email"`
	Password          string `json:"password" binding:"required,min=6"`
	Mobile            string `json:"mobile"`
	TradingExperience string `json:"tradingExperience"`
	PreferredMarket   string `json:"preferredMarket"`
	CapitalSize       string `json:"capitalSize"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUpInput is what the service needs to create an account.
type SignUpInput struct {
	Email    string
	Password string
	Metadata map[string]string
}

type AccountPublic struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"user_metadata,omitempty"`
}

type SessionResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   int64         `json:"expires_at"`
	User        AccountPublic `json:"user"`
}
