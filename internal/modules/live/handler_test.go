package live

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trademind/internal/database"
	"trademind/internal/domain"
	"trademind/internal/modules/auth"
	"trademind/internal/pkg/jwt"
	"trademind/internal/repository"
	"trademind/internal/session"
)

type testEnv struct {
	server   *httptest.Server
	hub      *Hub
	auth     *auth.Service
	profiles *repository.ProfileRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	profiles := repository.NewProfileRepository(db, repository.EmailContainsAdmin)
	authSvc := auth.NewService(
		repository.NewAccountRepository(db),
		repository.NewSessionRepository(db),
		jwt.New("live-test-secret", time.Hour),
		profiles,
		auth.Options{BcryptCost: 4, SessionTTL: time.Hour},
	)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	hub := NewHub()
	opts := session.Options{RetryDelay: time.Millisecond}
	NewHandler(authSvc, profiles, opts, hub, nil).RegisterRoutes(r.Group(""))

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Shutdown()
		srv.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &testEnv{server: srv, hub: hub, auth: authSvc, profiles: profiles}
}

func (e *testEnv) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/live"
	if token != "" {
		url += "?access_token=" + token
	}
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

// waitFor reads events until match accepts one.
func waitFor(t *testing.T, ws *websocket.Conn, match func(Event) bool) Event {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		require.NoError(t, ws.SetReadDeadline(deadline))
		var ev Event
		require.NoError(t, ws.ReadJSON(&ev))
		if match(ev) {
			return ev
		}
	}
}

// waitForScreenAndToken reads until both the screen and a session event have
// been seen; the two travel on separate queues and may arrive in any order.
func waitForScreenAndToken(t *testing.T, ws *websocket.Conn, screen session.Screen) (Event, string) {
	t.Helper()
	var state *Event
	var token *string
	waitFor(t, ws, func(ev Event) bool {
		switch {
		case screenIs(screen)(ev):
			e := ev
			state = &e
		case ev.Type == EventSession:
			token = ev.AccessToken
		}
		return state != nil && token != nil
	})
	return *state, *token
}

func screenIs(screen session.Screen) func(Event) bool {
	return func(ev Event) bool {
		return ev.Type == EventState && !ev.State.Loading && ev.State.Screen == screen
	}
}

func TestLive_AnonymousLandsOnAuth(t *testing.T) {
	env := newTestEnv(t)
	ws := env.dial(t, "")

	ev := waitFor(t, ws, screenIs(session.ScreenAuth))
	assert.Nil(t, ev.State.CurrentUser)
	assert.Equal(t, session.AuthLogin, ev.State.AuthView)

	require.NoError(t, ws.WriteJSON(Command{Type: CmdSwitchAuthView}))
	ev = waitFor(t, ws, func(ev Event) bool { return ev.Type == EventState && ev.State.AuthView == session.AuthSignup })
	assert.Equal(t, session.ScreenAuth, ev.State.Screen)
}

func TestLive_UnknownCommand(t *testing.T) {
	env := newTestEnv(t)
	ws := env.dial(t, "")
	waitFor(t, ws, screenIs(session.ScreenAuth))

	require.NoError(t, ws.WriteJSON(Command{Type: "dance"}))
	ev := waitFor(t, ws, func(ev Event) bool { return ev.Type == EventError })
	assert.Equal(t, "BAD_COMMAND", ev.Code)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{not json")))
	ev = waitFor(t, ws, func(ev Event) bool { return ev.Type == EventError })
	assert.Equal(t, "INVALID_JSON", ev.Code)
}

func TestLive_SubmitPaymentSignedOut(t *testing.T) {
	env := newTestEnv(t)
	ws := env.dial(t, "")
	waitFor(t, ws, screenIs(session.ScreenAuth))

	require.NoError(t, ws.WriteJSON(Command{
		Type:    CmdSubmitPayment,
		Payment: &domain.PaymentDetails{TransactionID: "UTR-1", Amount: 4999},
	}))
	ev := waitFor(t, ws, func(ev Event) bool { return ev.Type == EventError })
	assert.Equal(t, "BAD_COMMAND", ev.Code)
	assert.Equal(t, auth.ErrUnauthorized.Error(), ev.Message)
}

func TestLive_SignupPaymentFlow(t *testing.T) {
	env := newTestEnv(t)
	ws := env.dial(t, "")
	waitFor(t, ws, screenIs(session.ScreenAuth))

	require.NoError(t, ws.WriteJSON(Command{
		Type:         CmdSignup,
		Name:         "Asha Rao",
		Email:        "asha@example.com",
		Password:     "s3cret-pass",
		Registration: &domain.RegistrationDetails{Mobile: "9876543210", PreferredMarket: "NSE"},
	}))

	ev, token := waitForScreenAndToken(t, ws, session.ScreenPayment)
	assert.NotEmpty(t, token)
	require.NotNil(t, ev.State.CurrentUser)
	assert.Equal(t, "Asha Rao", ev.State.CurrentUser.Name)
	require.NotNil(t, ev.State.CurrentUser.RegistrationDetails)
	assert.Equal(t, "NSE", ev.State.CurrentUser.RegistrationDetails.PreferredMarket)

	require.NoError(t, ws.WriteJSON(Command{
		Type:    CmdSubmitPayment,
		Payment: &domain.PaymentDetails{TransactionID: "UTR-991", Amount: 4999},
	}))
	ev = waitFor(t, ws, screenIs(session.ScreenPendingApproval))
	require.NotNil(t, ev.State.CurrentUser.PaymentDetails)
	assert.Equal(t, "UTR-991", ev.State.CurrentUser.PaymentDetails.TransactionID)

	require.NoError(t, ws.WriteJSON(Command{Type: CmdLogout}))
	_, token = waitForScreenAndToken(t, ws, session.ScreenAuth)
	assert.Empty(t, token)
}

func TestLive_ExistingTokenResumesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, s, err := env.auth.SignUp(ctx, auth.SignUpInput{
		Email:    "admin@trademind.io",
		Password: "admin-pass",
		Metadata: map[string]string{domain.MetadataFullName: "Root"},
	})
	require.NoError(t, err)
	require.NotNil(t, s)

	ws := env.dial(t, s.AccessToken)
	ev := waitFor(t, ws, screenIs(session.ScreenApp))
	assert.True(t, ev.State.CurrentUser.IsAdmin())
	assert.Contains(t, ev.State.Navigation, session.ViewAdmin)

	require.NoError(t, ws.WriteJSON(Command{Type: CmdSetActiveView, View: session.ViewAdmin}))
	ev = waitFor(t, ws, func(ev Event) bool { return ev.Type == EventState && ev.State.View == session.ViewAdmin })
	assert.Equal(t, session.ScreenApp, ev.State.Screen)

	require.NoError(t, ws.WriteJSON(Command{
		Type:    CmdSubmitPayment,
		Payment: &domain.PaymentDetails{TransactionID: "UTR-2", Amount: 4999},
	}))
	ev = waitFor(t, ws, func(ev Event) bool { return ev.Type == EventError })
	assert.Equal(t, "BAD_COMMAND", ev.Code)

	stored, err := env.profiles.GetProfile(ctx, s.User.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, stored.Status)
	assert.Nil(t, stored.PaymentDetails)
}

func TestHub_TracksConnections(t *testing.T) {
	env := newTestEnv(t)
	ws := env.dial(t, "")
	waitFor(t, ws, screenIs(session.ScreenAuth))
	assert.Equal(t, 1, env.hub.Len())

	require.NoError(t, ws.Close())
	assert.Eventually(t, func() bool { return env.hub.Len() == 0 }, 3*time.Second, 10*time.Millisecond)
}
