package backend

import (
	"context"
	"errors"
	"sync"

	"trademind/internal/domain"
	"trademind/internal/modules/auth"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AuthService is the server side of the client.
type AuthService interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (*domain.Account, *domain.Session, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context, token string) error
	Session(ctx context.Context, token string) (*domain.Session, error)
	UpdateUser(ctx context.Context, token string, meta map[string]string) (*domain.Account, error)
}

// Client is the auth client of a single connection. It remembers the
// current access token and notifies subscribers of auth state changes.
// Handlers run on one dispatcher goroutine, in emission order.
type Client struct {
	svc AuthService
	log zerolog.Logger

	mu     sync.Mutex
	token  string
	nextID uint64
	subs   map[uint64]AuthHandler
	queue  []emission
	closed bool

	wake chan struct{}
	done chan struct{}
}

func NewClient(svc AuthService, token string) *Client {
	c := &Client{
		svc:   svc,
		log:   log.With().Str("component", "backend_client").Logger(),
		token: token,
		subs:  make(map[uint64]AuthHandler),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go c.dispatch()
	return c
}

// Token returns the current access token, empty when signed out.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// GetSession returns the session for the current token. A missing, invalid
// or expired token yields a nil session and no error.
func (c *Client) GetSession(ctx context.Context) (*domain.Session, error) {
	token := c.Token()
	if token == "" {
		return nil, nil
	}
	session, err := c.svc.Session(ctx, token)
	if errors.Is(err, auth.ErrSessionExpired) {
		c.setToken("")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	session, err := c.svc.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	c.setToken(session.AccessToken)
	c.emit(EventSignedIn, session)
	return session, nil
}

// SignUp creates an account. A nil session means the email must be
// confirmed before signing in; SIGNED_IN is only emitted with a session.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*domain.Account, *domain.Session, error) {
	account, session, err := c.svc.SignUp(ctx, auth.SignUpInput{
		Email:    email,
		Password: password,
		Metadata: metadata,
	})
	if err != nil {
		return nil, nil, err
	}
	if session != nil {
		c.setToken(session.AccessToken)
		c.emit(EventSignedIn, session)
	}
	return account, session, nil
}

// SignOut revokes the session. The local session is dropped and SIGNED_OUT
// emitted even when revocation fails.
func (c *Client) SignOut(ctx context.Context) error {
	token := c.Token()
	var err error
	if token != "" {
		err = c.svc.SignOut(ctx, token)
	}
	c.setToken("")
	c.emit(EventSignedOut, nil)
	return err
}

func (c *Client) UpdateUser(ctx context.Context, metadata map[string]string) (*domain.Account, error) {
	token := c.Token()
	if token == "" {
		return nil, auth.ErrUnauthorized
	}
	account, err := c.svc.UpdateUser(ctx, token, metadata)
	if err != nil {
		return nil, err
	}
	session, err := c.svc.Session(ctx, token)
	if err != nil {
		c.log.Warn().Err(err).Msg("session reload after user update failed")
		return account, nil
	}
	c.emit(EventUserUpdated, session)
	return account, nil
}

func (c *Client) OnAuthStateChange(handler AuthHandler) Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.subs[id] = handler
	return &subscription{client: c, id: id}
}

// Close stops event delivery. Pending events are dropped.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.queue = nil
	c.mu.Unlock()
	close(c.done)
}

func (c *Client) emit(event AuthEvent, session *domain.Session) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.queue = append(c.queue, emission{event: event, session: session})
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Client) dispatch() {
	for {
		select {
		case <-c.done:
			return
		case <-c.wake:
		}

		for {
			c.mu.Lock()
			if c.closed || len(c.queue) == 0 {
				c.mu.Unlock()
				break
			}
			next := c.queue[0]
			c.queue = c.queue[1:]
			handlers := make([]AuthHandler, 0, len(c.subs))
			for id := uint64(1); id <= c.nextID; id++ {
				if h, ok := c.subs[id]; ok {
					handlers = append(handlers, h)
				}
			}
			c.mu.Unlock()

			for _, h := range handlers {
				h(next.event, next.session)
			}
		}
	}
}

func (c *Client) unsubscribe(id uint64) {
	c.mu.Lock()
	delete(c.subs, id)
	c.mu.Unlock()
}

type subscription struct {
	client *Client
	id     uint64
	once   sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() { s.client.unsubscribe(s.id) })
}
