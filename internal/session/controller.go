package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"trademind/internal/backend"
	"trademind/internal/domain"
	"trademind/internal/pkg/apperr"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrClosed = errors.New("session controller closed")

type Options struct {
	MaxAttempts int
	RetryDelay  time.Duration
	Sleep       SleepFunc
	Logger      *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.Sleep == nil {
		o.Sleep = sleepCtx
	}
	return o
}

type message func(ctx context.Context)

// Controller owns the resolved session of one client. All state changes
// happen on its actor goroutine; Initialize, auth events and view callbacks
// are queued and handled one at a time in arrival order.
type Controller struct {
	auth     AuthClient
	profiles ProfileStore
	opts     Options
	log      zerolog.Logger

	state   State // actor-owned
	mailbox chan message
	sub     backend.Subscription

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	current State
	subs    map[int]chan State
	nextSub int
	closed  bool

	closeOnce sync.Once
}

func New(auth AuthClient, profiles ProfileStore, opts Options) *Controller {
	opts = opts.withDefaults()
	logger := log.With().Str("component", "session").Logger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		auth:     auth,
		profiles: profiles,
		opts:     opts,
		log:      logger,
		state:    initialState(),
		mailbox:  make(chan message, 16),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		subs:     make(map[int]chan State),
	}
	c.current = c.state.withDerived()

	go c.run()
	c.sub = auth.OnAuthStateChange(func(event backend.AuthEvent, s *domain.Session) {
		c.post(func(ctx context.Context) { c.handleAuthEvent(ctx, event, s) })
	})
	return c
}

func (c *Controller) run() {
	defer close(c.done)
	for {
		select {
		case <-c.ctx.Done():
			return
		case msg := <-c.mailbox:
			msg(c.ctx)
		}
	}
}

func (c *Controller) post(msg message) {
	select {
	case c.mailbox <- msg:
	case <-c.ctx.Done():
	}
}

// do queues fn and waits until the actor has run it.
func (c *Controller) do(ctx context.Context, fn message) error {
	finished := make(chan struct{})
	msg := func(actx context.Context) {
		defer close(finished)
		fn(actx)
	}
	select {
	case c.mailbox <- msg:
	case <-c.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-c.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the latest published snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Subscribe returns a channel receiving state snapshots, starting with the
// current one. A slow reader misses intermediate snapshots but always sees
// the latest. The channel is closed by cancel or Close.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan State, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	ch <- c.current
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

func (c *Controller) publish() {
	snap := c.state.withDerived()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = snap
	for _, ch := range c.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// Close releases the auth subscription, stops the actor and closes all
// subscriber channels. Safe to call more than once.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.sub.Unsubscribe()
		c.cancel()
		<-c.done

		c.mu.Lock()
		defer c.mu.Unlock()
		c.closed = true
		for id, ch := range c.subs {
			delete(c.subs, id)
			close(ch)
		}
	})
}

// Initialize resolves the current session into a profile. Loading is always
// cleared when it returns.
func (c *Controller) Initialize(ctx context.Context) error {
	return c.do(ctx, c.initialize)
}

// RetryConnection re-runs Initialize from scratch.
func (c *Controller) RetryConnection(ctx context.Context) error {
	return c.do(ctx, c.initialize)
}

func (c *Controller) initialize(ctx context.Context) {
	c.state.Loading = true
	c.state.ConnectionError = false
	c.clearMessages()
	c.publish()

	defer func() {
		c.state.Loading = false
		c.publish()
	}()

	session, err := c.auth.GetSession(ctx)
	if err != nil {
		c.state.CurrentUser = nil
		err = apperr.Classify(err)
		if apperr.IsConnection(err) {
			c.state.ConnectionError = true
			return
		}
		c.log.Error().Err(err).Msg("session lookup failed")
		return
	}
	if session == nil || session.User.ID == "" {
		c.state.CurrentUser = nil
		return
	}

	user, err := c.ResolveProfile(ctx, session.User.ID)
	if err != nil {
		c.state.CurrentUser = nil
		c.resolveFailed(err)
		return
	}
	c.state.CurrentUser = user
}

func (c *Controller) handleAuthEvent(ctx context.Context, event backend.AuthEvent, s *domain.Session) {
	switch event {
	case backend.EventSignedIn, backend.EventUserUpdated:
		if s == nil || s.User.ID == "" {
			return
		}
		user, err := c.ResolveProfile(ctx, s.User.ID)
		if err != nil {
			c.resolveFailed(err)
			break
		}
		c.state.CurrentUser = user
	case backend.EventSignedOut:
		c.state.CurrentUser = nil
		c.state.ActiveView = ViewDashboard
		c.state.PaymentError = ""
	default:
		return
	}
	c.publish()
}

// resolveFailed records a failed profile resolution. Connection failures
// switch to the connection error screen; recursion failures show the policy
// fix panel.
func (c *Controller) resolveFailed(err error) {
	switch {
	case apperr.IsConnection(err):
		c.state.ConnectionError = true
	case apperr.IsRecursion(err):
		c.state.AuthError = msgRecursion
		c.state.PolicyFix = true
	case errors.Is(err, context.Canceled):
	default:
		c.log.Error().Err(err).Msg("profile resolution failed")
	}
}

func (c *Controller) SwitchAuthView(ctx context.Context) error {
	return c.do(ctx, func(context.Context) {
		if c.state.AuthView == AuthLogin {
			c.state.AuthView = AuthSignup
		} else {
			c.state.AuthView = AuthLogin
		}
		c.clearMessages()
		c.publish()
	})
}

// SetActiveView switches the main shell view. Unknown views are ignored.
func (c *Controller) SetActiveView(ctx context.Context, v View) error {
	return c.do(ctx, func(context.Context) {
		if !v.Valid() {
			return
		}
		c.state.ActiveView = v
		c.publish()
	})
}

// Logout signs out; the SIGNED_OUT event clears the user.
func (c *Controller) Logout(ctx context.Context) error {
	return c.do(ctx, func(actx context.Context) {
		if err := c.auth.SignOut(actx); err != nil {
			c.log.Warn().Err(err).Msg("sign out failed")
		}
	})
}

// Refresh re-resolves the current user, e.g. after an admin decision or a
// payment submission.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.do(ctx, c.refresh)
}

func (c *Controller) refresh(ctx context.Context) {
	if c.state.CurrentUser == nil {
		return
	}
	user, err := c.ResolveProfile(ctx, c.state.CurrentUser.ID)
	if err != nil {
		c.resolveFailed(err)
		c.publish()
		return
	}
	c.state.CurrentUser = user
	c.publish()
}

func (c *Controller) clearMessages() {
	c.state.AuthError = ""
	c.state.PolicyFix = false
	c.state.Notice = ""
}
