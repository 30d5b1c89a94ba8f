package session

import "trademind/internal/domain"

// State is a snapshot of one controller, as published to subscribers.
type State struct {
	CurrentUser     *domain.User `json:"currentUser"`
	Loading         bool         `json:"loading"`
	ConnectionError bool         `json:"connectionError"`
	AuthView        AuthView     `json:"authView"`
	ActiveView      View         `json:"activeView"`

	AuthError    string `json:"authError,omitempty"`
	PolicyFix    bool   `json:"policyFix,omitempty"`
	Notice       string `json:"notice,omitempty"`
	PaymentError string `json:"paymentError,omitempty"`

	Screen     Screen `json:"screen"`
	View       View   `json:"view,omitempty"`
	Navigation []View `json:"navigation,omitempty"`
}

func initialState() State {
	return State{
		Loading:    true,
		AuthView:   AuthLogin,
		ActiveView: ViewDashboard,
	}
}

// ScreenFor applies the top-level precedence: connection error, then
// loading, then the auth forms, then the access gate.
func ScreenFor(s State) Decision {
	switch {
	case s.ConnectionError:
		return Decision{Screen: ScreenConnectionError}
	case s.Loading:
		return Decision{Screen: ScreenLoading}
	case s.CurrentUser == nil:
		return Decision{Screen: ScreenAuth}
	}
	return Decide(s.CurrentUser, s.ActiveView)
}

func (s State) withDerived() State {
	d := ScreenFor(s)
	s.Screen = d.Screen
	s.View = d.View
	if d.Screen == ScreenApp {
		s.Navigation = Navigation(s.CurrentUser)
	} else {
		s.Navigation = nil
	}
	return s
}
