package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trademind/internal/backend"
	"trademind/internal/domain"

	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	mu           sync.Mutex
	session      *domain.Session
	sessionErr   error
	signInErr    error
	signUpErr    error
	signUpNoSess bool
	signOuts     int
	handler      backend.AuthHandler
	unsubscribes int
}

func (f *fakeAuth) GetSession(context.Context) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, f.sessionErr
}

func (f *fakeAuth) SignInWithPassword(_ context.Context, email, _ string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.session = &domain.Session{AccessToken: "tok", User: domain.Account{ID: "u-login", Email: email}}
	return f.session, nil
}

func (f *fakeAuth) SignUp(_ context.Context, email, _ string, meta map[string]string) (*domain.Account, *domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signUpErr != nil {
		return nil, nil, f.signUpErr
	}
	acc := &domain.Account{ID: "u-new", Email: email, Metadata: meta}
	if f.signUpNoSess {
		return acc, nil, nil
	}
	f.session = &domain.Session{AccessToken: "tok", User: *acc}
	return acc, f.session, nil
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts++
	f.session = nil
	return nil
}

func (f *fakeAuth) OnAuthStateChange(h backend.AuthHandler) backend.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = h
	return unsubscribeFunc(func() {
		f.mu.Lock()
		f.unsubscribes++
		f.mu.Unlock()
	})
}

func (f *fakeAuth) fire(event backend.AuthEvent, s *domain.Session) {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	h(event, s)
}

func (f *fakeAuth) unsubscribeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unsubscribes
}

type unsubscribeFunc func()

func (u unsubscribeFunc) Unsubscribe() { u() }

type profileResult struct {
	user *domain.User
	err  error
}

// fakeProfiles answers GetProfile from a script, then from profiles.
type fakeProfiles struct {
	mu         sync.Mutex
	script     []profileResult
	profiles   map[string]*domain.User
	getCalls   int
	created    []string
	createErr  error
	regs       map[string]domain.RegistrationDetails
	payments   map[string]domain.PaymentDetails
	paymentErr error
}

func newFakeProfiles(script ...profileResult) *fakeProfiles {
	return &fakeProfiles{
		script:   script,
		profiles: map[string]*domain.User{},
		regs:     map[string]domain.RegistrationDetails{},
		payments: map[string]domain.PaymentDetails{},
	}
}

func (f *fakeProfiles) GetProfile(_ context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if len(f.script) > 0 {
		next := f.script[0]
		f.script = f.script[1:]
		return next.user, next.err
	}
	if u, ok := f.profiles[userID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeProfiles) CreateProfile(_ context.Context, userID, name, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, userID)
	u := &domain.User{ID: userID, Name: name, Email: email, Role: domain.RoleUser, Status: domain.StatusPending}
	f.profiles[userID] = u
	return u, nil
}

func (f *fakeProfiles) SaveRegistrationDetails(_ context.Context, userID string, d domain.RegistrationDetails) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs[userID] = d
	return nil
}

func (f *fakeProfiles) SubmitPaymentProof(_ context.Context, userID string, d domain.PaymentDetails) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paymentErr != nil {
		return f.paymentErr
	}
	f.payments[userID] = d
	if u, ok := f.profiles[userID]; ok {
		u.PaymentDetails = &d
		u.Status = domain.StatusPending
	}
	return nil
}

func (f *fakeProfiles) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *sleepRecorder) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

func newTestController(t *testing.T, fa *fakeAuth, fp *fakeProfiles) (*Controller, *sleepRecorder) {
	t.Helper()
	sr := &sleepRecorder{}
	c := New(fa, fp, Options{Sleep: sr.sleep})
	t.Cleanup(c.Close)
	return c, sr
}

// settle waits until every message queued so far has been handled.
func settle(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.do(context.Background(), func(context.Context) {}))
}

func sessionFor(userID string) *domain.Session {
	return &domain.Session{AccessToken: "tok", User: domain.Account{ID: userID}}
}

var errFailedToFetch = errors.New("TypeError: Failed to fetch")
