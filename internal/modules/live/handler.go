package live

import (
	"context"
	"net/http"

	"trademind/internal/backend"
	"trademind/internal/modules/auth"
	"trademind/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	auth     backend.AuthService
	profiles session.ProfileStore
	opts     session.Options
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler serves live pages. allowOrigin decides cross-origin upgrades;
// nil accepts every origin.
func NewHandler(authSvc backend.AuthService, profiles session.ProfileStore, opts session.Options, hub *Hub, allowOrigin func(origin string) bool) *Handler {
	if hub == nil {
		hub = NewHub()
	}
	return &Handler{
		auth:     authSvc,
		profiles: profiles,
		opts:     opts,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin == nil || allowOrigin(origin)
			},
		},
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.ServeWS)
}

// ServeWS upgrades the request and runs one session controller for the
// page. The token may come from the access_token query parameter, since
// browsers cannot set headers on websocket requests.
func (h *Handler) ServeWS(c *gin.Context) {
	token := c.Query("access_token")
	if token == "" {
		token = auth.BearerToken(c)
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("live upgrade failed")
		return
	}

	client := backend.NewClient(h.auth, token)
	ctrl := session.New(client, h.profiles, h.opts)
	conn := &connection{
		conn:      ws,
		client:    client,
		ctrl:      ctrl,
		send:      make(chan Event, 16),
		log:       log.With().Str("component", "live").Logger(),
		lastToken: token,
	}
	h.hub.register(conn)

	ctx, cancel := context.WithCancel(context.Background())
	states, unsubscribe := ctrl.Subscribe()
	stop := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		conn.writePump(states, stop)
	}()

	defer func() {
		cancel()
		unsubscribe()
		ctrl.Close()
		client.Close()
		close(stop)
		<-writerDone
		_ = ws.Close()
		h.hub.unregister(conn)
	}()

	// Commands are read only after the first resolution so they queue
	// behind it.
	if err := ctrl.Initialize(ctx); err != nil {
		conn.log.Debug().Err(err).Msg("initialize interrupted")
		return
	}
	conn.syncToken()
	conn.readPump(ctx)
}
