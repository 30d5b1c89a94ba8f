package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"trademind/internal/domain"
	"trademind/internal/pkg/jwt"
	"trademind/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const defaultProfileName = "Trader"

type Options struct {
	// RequireConfirm withholds a session at sign-up until the email is
	// confirmed.
	RequireConfirm bool
	BcryptCost     int
	SessionTTL     time.Duration
}

// Service contains all business logic for authentication
type Service struct {
	accounts AccountRepository
	sessions SessionStore
	tokens   tokenService
	profiles ProfileProvisioner
	opts     Options
	log      zerolog.Logger
}

func NewService(accounts AccountRepository, sessions SessionStore, tokens tokenService, profiles ProfileProvisioner, opts Options) *Service {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.SessionTTL == 0 {
		opts.SessionTTL = tokens.TTL()
	}
	return &Service{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		profiles: profiles,
		opts:     opts,
		log:      log.With().Str("component", "auth").Logger(),
	}
}

// SignUp creates an account and provisions its profile. The returned session
// is nil when the email has to be confirmed first.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*domain.Account, *domain.Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	exists, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrEmailAlreadyExists
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}

	account := &domain.Account{
		Email:        email,
		PasswordHash: hash,
		Metadata:     in.Metadata,
	}
	if !s.opts.RequireConfirm {
		now := time.Now().UTC()
		account.EmailConfirmedAt = &now
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, nil, err
	}

	if s.profiles != nil {
		name := account.FullName()
		if name == "" {
			name = defaultProfileName
		}
		if _, err := s.profiles.CreateProfile(ctx, account.ID, name, account.Email); err != nil {
			s.log.Warn().Err(err).Str("user_id", account.ID).Msg("profile provisioning failed")
		}
	}

	account.PasswordHash = ""
	if s.opts.RequireConfirm {
		return account, nil, nil
	}
	session, err := s.issue(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	return account, session, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if s.opts.RequireConfirm && account.EmailConfirmedAt == nil {
		return nil, ErrEmailNotConfirmed
	}

	account.PasswordHash = ""
	return s.issue(ctx, account)
}

// SignOut revokes the session behind token. Unknown or expired tokens are
// ignored.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil
	}
	return s.sessions.Revoke(ctx, claims.SessionID())
}

// Session validates token against the session registry and returns the
// live session.
func (s *Service) Session(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrSessionExpired
	}

	userID, ok, err := s.sessions.Lookup(ctx, claims.SessionID())
	if err != nil {
		return nil, err
	}
	if !ok || userID != claims.UserID() {
		return nil, ErrSessionExpired
	}

	account, err := s.GetAccount(ctx, userID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		ID:          claims.SessionID(),
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        *account,
	}, nil
}

func (s *Service) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	account.PasswordHash = ""
	return account, nil
}

// UpdateUser merges metadata into the account behind token.
func (s *Service) UpdateUser(ctx context.Context, token string, meta map[string]string) (*domain.Account, error) {
	session, err := s.Session(ctx, token)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.UpdateMetadata(ctx, session.User.ID, meta)
	if err != nil {
		return nil, err
	}
	account.PasswordHash = ""
	return account, nil
}

func (s *Service) ConfirmEmail(ctx context.Context, userID string) error {
	return s.accounts.ConfirmEmail(ctx, userID)
}

func (s *Service) issue(ctx context.Context, account *domain.Account) (*domain.Session, error) {
	sessionID := uuid.NewString()
	token, expires, err := s.tokens.GenerateToken(account.ID, account.Email, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, sessionID, account.ID, s.opts.SessionTTL); err != nil {
		return nil, err
	}
	return &domain.Session{
		ID:          sessionID,
		AccessToken: token,
		ExpiresAt:   expires,
		User:        *account,
	}, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

var _ tokenService = (*jwt.Service)(nil)
