package session

import "trademind/internal/domain"

// View is a screen inside the main application shell.
type View string

const (
	ViewDashboard  View = "dashboard"
	ViewEntry      View = "entry"
	ViewAnalysis   View = "analysis"
	ViewCalendar   View = "calendar"
	ViewStrategies View = "strategies"
	ViewRisk       View = "risk"
	ViewAdmin      View = "admin"
)

var allViews = []View{ViewDashboard, ViewEntry, ViewAnalysis, ViewCalendar, ViewStrategies, ViewRisk, ViewAdmin}

func (v View) Valid() bool {
	for _, known := range allViews {
		if v == known {
			return true
		}
	}
	return false
}

type AuthView string

const (
	AuthLogin  AuthView = "login"
	AuthSignup AuthView = "signup"
)

// Screen is the top-level screen a client should render.
type Screen string

const (
	ScreenConnectionError Screen = "connection_error"
	ScreenLoading         Screen = "loading"
	ScreenAuth            Screen = "auth"
	ScreenPayment         Screen = "payment"
	ScreenPendingApproval Screen = "pending_approval"
	ScreenApp             Screen = "app"
)

type Decision struct {
	Screen Screen `json:"screen"`
	View   View   `json:"view,omitempty"`
}

// Decide is the access gate for a resolved user. The payment wall is checked
// before the approval wall, so a rejected user without payment proof is sent
// back to payment.
func Decide(user *domain.User, active View) Decision {
	if user == nil {
		return Decision{Screen: ScreenAuth}
	}
	admin := user.IsAdmin()
	if !admin && !user.HasPaid() && user.Status != domain.StatusActive {
		return Decision{Screen: ScreenPayment}
	}
	if !admin && (user.Status == domain.StatusPending || user.Status == domain.StatusRejected) {
		return Decision{Screen: ScreenPendingApproval}
	}

	view := active
	if !view.Valid() || (view == ViewAdmin && !admin) {
		view = ViewDashboard
	}
	return Decision{Screen: ScreenApp, View: view}
}

// Navigation lists the views offered to user; admin is hidden from
// non-admins.
func Navigation(user *domain.User) []View {
	if user == nil {
		return nil
	}
	out := make([]View, 0, len(allViews))
	for _, v := range allViews {
		if v == ViewAdmin && !user.IsAdmin() {
			continue
		}
		out = append(out, v)
	}
	return out
}
