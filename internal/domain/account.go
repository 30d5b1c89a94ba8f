package domain

import "time"

// Account is the authentication identity behind a profile.
type Account struct {
	ID               string            `json:"id"`
	Email            string            `json:"email"`
	PasswordHash     string            `json:"-"`
	Metadata         map[string]string `json:"user_metadata,omitempty"`
	EmailConfirmedAt *time.Time        `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

const MetadataFullName = "full_name"

func (a *Account) FullName() string {
	if a == nil || a.Metadata == nil {
		return ""
	}
	return a.Metadata[MetadataFullName]
}

// Session is an authenticated session as handed to a client.
type Session struct {
	ID          string    `json:"-"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        Account   `json:"user"`
}
