package backend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trademind/internal/domain"
	"trademind/internal/modules/auth"
	"trademind/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	sessions   map[string]*domain.Session
	sessionErr error
	signUpNoSS bool
	signOuts   []string
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{sessions: map[string]*domain.Session{}}
}

func (f *fakeAuth) SignUp(_ context.Context, in auth.SignUpInput) (*domain.Account, *domain.Session, error) {
	acc := &domain.Account{ID: "new", Email: in.Email, Metadata: in.Metadata}
	if f.signUpNoSS {
		return acc, nil, nil
	}
	s := &domain.Session{AccessToken: "tok-new", User: *acc}
	f.sessions[s.AccessToken] = s
	return acc, s, nil
}

func (f *fakeAuth) SignIn(_ context.Context, email, password string) (*domain.Session, error) {
	if password != "pw" {
		return nil, auth.ErrInvalidCredentials
	}
	s := &domain.Session{AccessToken: "tok-" + email, User: domain.Account{ID: "u-" + email, Email: email}}
	f.sessions[s.AccessToken] = s
	return s, nil
}

func (f *fakeAuth) SignOut(_ context.Context, token string) error {
	f.signOuts = append(f.signOuts, token)
	delete(f.sessions, token)
	return nil
}

func (f *fakeAuth) Session(_ context.Context, token string) (*domain.Session, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	s, ok := f.sessions[token]
	if !ok {
		return nil, auth.ErrSessionExpired
	}
	return s, nil
}

func (f *fakeAuth) UpdateUser(_ context.Context, token string, meta map[string]string) (*domain.Account, error) {
	s := f.sessions[token]
	s.User.Metadata = meta
	acc := s.User
	return &acc, nil
}

type recorder struct {
	mu     sync.Mutex
	events []AuthEvent
}

func (r *recorder) handle(e AuthEvent, _ *domain.Session) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]AuthEvent(nil), r.events...)
}

func TestClient_GetSession(t *testing.T) {
	ctx := context.Background()

	t.Run("no token", func(t *testing.T) {
		c := NewClient(newFakeAuth(), "")
		defer c.Close()
		s, err := c.GetSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("expired token is not an error", func(t *testing.T) {
		c := NewClient(newFakeAuth(), "stale")
		defer c.Close()
		s, err := c.GetSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, s)
		assert.Empty(t, c.Token())
	})

	t.Run("connection failure propagates", func(t *testing.T) {
		fa := newFakeAuth()
		fa.sessionErr = apperr.Wrap(errors.New("dial tcp"), apperr.CodeConnection, "backend unreachable")
		c := NewClient(fa, "tok")
		defer c.Close()
		_, err := c.GetSession(ctx)
		assert.True(t, apperr.IsConnection(err))
		assert.Equal(t, "tok", c.Token())
	})
}

func TestClient_EventsInOrder(t *testing.T) {
	ctx := context.Background()
	fa := newFakeAuth()
	c := NewClient(fa, "")
	defer c.Close()

	first, second := &recorder{}, &recorder{}
	c.OnAuthStateChange(first.handle)
	c.OnAuthStateChange(second.handle)

	_, err := c.SignInWithPassword(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-a@example.com", c.Token())

	s, err := c.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-a@example.com", s.User.ID)

	_, err = c.UpdateUser(ctx, map[string]string{domain.MetadataFullName: "A"})
	require.NoError(t, err)
	require.NoError(t, c.SignOut(ctx))
	assert.Empty(t, c.Token())
	assert.Equal(t, []string{"tok-a@example.com"}, fa.signOuts)

	want := []AuthEvent{EventSignedIn, EventUserUpdated, EventSignedOut}
	assert.Eventually(t, func() bool { return len(second.snapshot()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, want, first.snapshot())
	assert.Equal(t, want, second.snapshot())
}

func TestClient_SignInFailureEmitsNothing(t *testing.T) {
	c := NewClient(newFakeAuth(), "")
	defer c.Close()
	rec := &recorder{}
	c.OnAuthStateChange(rec.handle)

	_, err := c.SignInWithPassword(context.Background(), "a@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestClient_SignUpWithoutSession(t *testing.T) {
	fa := newFakeAuth()
	fa.signUpNoSS = true
	c := NewClient(fa, "")
	defer c.Close()
	rec := &recorder{}
	c.OnAuthStateChange(rec.handle)

	acc, s, err := c.SignUp(context.Background(), "n@example.com", "pw", nil)
	require.NoError(t, err)
	assert.Equal(t, "new", acc.ID)
	assert.Nil(t, s)

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
	assert.Empty(t, c.Token())
}

func TestClient_UnsubscribeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := NewClient(newFakeAuth(), "")
	defer c.Close()

	rec, other := &recorder{}, &recorder{}
	sub := c.OnAuthStateChange(rec.handle)
	c.OnAuthStateChange(other.handle)

	sub.Unsubscribe()
	sub.Unsubscribe()

	_, err := c.SignInWithPassword(ctx, "a@example.com", "pw")
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(other.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, rec.snapshot())
}
