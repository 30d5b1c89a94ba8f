package live

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"trademind/internal/backend"
	"trademind/internal/session"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024
)

// connection is one page: a websocket, its auth client and its controller.
type connection struct {
	conn   *websocket.Conn
	client *backend.Client
	ctrl   *session.Controller
	send   chan Event
	log    zerolog.Logger

	lastToken string
}

// readPump executes page commands one at a time until the socket closes.
func (c *connection) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("live connection dropped")
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			c.push(errorEvent("INVALID_JSON", "Invalid command"))
			continue
		}
		if err := c.execute(ctx, cmd); err != nil {
			if errors.Is(err, session.ErrClosed) || errors.Is(err, context.Canceled) {
				return
			}
			c.push(errorEvent("BAD_COMMAND", err.Error()))
			continue
		}
		c.syncToken()
	}
}

var errUnknownCommand = errors.New("unknown command")

func (c *connection) execute(ctx context.Context, cmd Command) error {
	switch cmd.Type {
	case CmdRetry:
		return c.ctrl.RetryConnection(ctx)
	case CmdSwitchAuthView:
		return c.ctrl.SwitchAuthView(ctx)
	case CmdSetActiveView:
		return c.ctrl.SetActiveView(ctx, cmd.View)
	case CmdLogin:
		return c.ctrl.Login(ctx, cmd.Email, cmd.Password)
	case CmdSignup:
		p := session.SignupParams{Name: cmd.Name, Email: cmd.Email, Password: cmd.Password}
		if cmd.Registration != nil {
			p.Registration = *cmd.Registration
		}
		return c.ctrl.Signup(ctx, p)
	case CmdLogout:
		return c.ctrl.Logout(ctx)
	case CmdSubmitPayment:
		if cmd.Payment == nil {
			return errors.New("payment is required")
		}
		return c.ctrl.SubmitPayment(ctx, *cmd.Payment)
	case CmdRefresh:
		return c.ctrl.Refresh(ctx)
	case CmdPing:
		c.push(Event{Type: EventPong})
		return nil
	}
	return errUnknownCommand
}

// syncToken tells the page when sign in or sign out changed its token.
func (c *connection) syncToken() {
	if tok := c.client.Token(); tok != c.lastToken {
		c.lastToken = tok
		c.push(sessionEvent(tok))
	}
}

func (c *connection) push(ev Event) {
	select {
	case c.send <- ev:
	default:
		c.log.Warn().Str("type", ev.Type).Msg("live send buffer full, event dropped")
	}
}

// writePump forwards state snapshots and events to the socket and keeps it
// alive with pings. It returns when states closes or a write fails.
func (c *connection) writePump(states <-chan session.State, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case s, ok := <-states:
			if !ok {
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(stateEvent(s)); err != nil {
				return
			}
		case ev := <-c.send:
			if err := c.write(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

func (c *connection) write(ev Event) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(ev)
}
