package backend

import "trademind/internal/domain"

type AuthEvent string

const (
	EventInitialSession AuthEvent = "INITIAL_SESSION"
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventUserUpdated    AuthEvent = "USER_UPDATED"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// AuthHandler receives auth state changes. session is nil after sign-out.
type AuthHandler func(event AuthEvent, session *domain.Session)

// Subscription is returned by OnAuthStateChange. Unsubscribe may be called
// any number of times.
type Subscription interface {
	Unsubscribe()
}

type emission struct {
	event   AuthEvent
	session *domain.Session
}
