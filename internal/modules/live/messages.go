package live

import (
	"trademind/internal/domain"
	"trademind/internal/session"
)

const (
	CmdRetry          = "retry"
	CmdSwitchAuthView = "switch_auth_view"
	CmdSetActiveView  = "set_active_view"
	CmdLogin          = "login"
	CmdSignup         = "signup"
	CmdLogout         = "logout"
	CmdSubmitPayment  = "submit_payment"
	CmdRefresh        = "refresh"
	CmdPing           = "ping"
)

// Command is a message sent by the page.
type Command struct {
	Type         string                      `json:"type"`
	View         session.View                `json:"view,omitempty"`
	Name         string                      `json:"name,omitempty"`
	Email        string                      `json:"email,omitempty"`
	Password     string                      `json:"password,omitempty"`
	Registration *domain.RegistrationDetails `json:"registration,omitempty"`
	Payment      *domain.PaymentDetails      `json:"payment,omitempty"`
}

const (
	EventState   = "state"
	EventSession = "session"
	EventError   = "error"
	EventPong    = "pong"
)

// Event is a message pushed to the page.
type Event struct {
	Type        string         `json:"type"`
	State       *session.State `json:"state,omitempty"`
	AccessToken *string        `json:"access_token,omitempty"`
	Code        string         `json:"code,omitempty"`
	Message     string         `json:"message,omitempty"`
}

func stateEvent(s session.State) Event {
	return Event{Type: EventState, State: &s}
}

// sessionEvent carries the connection's current token; empty after logout.
func sessionEvent(token string) Event {
	return Event{Type: EventSession, AccessToken: &token}
}

func errorEvent(code, message string) Event {
	return Event{Type: EventError, Code: code, Message: message}
}
