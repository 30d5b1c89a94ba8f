package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"trademind/internal/domain"
	"trademind/internal/modules/auth"
	"trademind/internal/pkg/apperr"
)

const (
	msgProfileMissing = "Authentication successful, but could not load your profile."
	msgRecursion      = "DATABASE ERROR: Infinite recursion in security policies detected."
	msgNetwork        = "Network Error: Failed to reach the backend. Check your connection."
	msgInvalidLogin   = "Invalid email or password"
	msgSignupFailed   = "Error creating account."
	msgConfirmEmail   = "Account created. Check your email to confirm your address, then sign in."
	msgPaymentFailed  = "Error submitting payment proof. Please try again."

	msgPaymentNotRequired = "Payment is not required for this account."

	defaultProfileName = "Trader"
)

type SignupParams struct {
	Name         string
	Email        string
	Password     string
	Registration domain.RegistrationDetails
}

// Login signs in with a password and loads, or creates, the profile.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	return c.do(ctx, func(actx context.Context) { c.login(actx, email, password) })
}

func (c *Controller) login(ctx context.Context, email, password string) {
	c.clearMessages()
	c.publish()

	session, err := c.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		c.setFormError(err, msgInvalidLogin)
		return
	}
	userID := session.User.ID

	profile, err := c.fetchProfile(ctx, userID)
	if err != nil {
		c.setFormError(err, msgInvalidLogin)
		return
	}
	if profile == nil {
		name := session.User.FullName()
		if name == "" {
			name = defaultProfileName
		}
		if _, err := c.profiles.CreateProfile(ctx, userID, name, session.User.Email); err != nil {
			c.setFormError(err, msgInvalidLogin)
			return
		}
		if profile, err = c.fetchProfile(ctx, userID); err != nil {
			c.setFormError(err, msgInvalidLogin)
			return
		}
	}

	if profile == nil {
		c.state.AuthError = msgProfileMissing
		c.publish()
		return
	}
	c.state.CurrentUser = profile
	c.publish()
}

// fetchProfile is a single profile read. Only typed failures are returned.
func (c *Controller) fetchProfile(ctx context.Context, userID string) (*domain.User, error) {
	profile, err := c.profiles.GetProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	err = apperr.Classify(err)
	if apperr.IsRecursion(err) || apperr.IsConnection(err) {
		return nil, err
	}
	c.log.Warn().Err(err).Str("user_id", userID).Msg("profile fetch failed, treating as missing")
	return nil, nil
}

// Signup creates an account. The profile itself is provisioned by the auth
// service; registration details are saved here.
func (c *Controller) Signup(ctx context.Context, p SignupParams) error {
	return c.do(ctx, func(actx context.Context) { c.signup(actx, p) })
}

func (c *Controller) signup(ctx context.Context, p SignupParams) {
	c.clearMessages()
	c.publish()

	account, session, err := c.auth.SignUp(ctx, p.Email, p.Password, map[string]string{
		domain.MetadataFullName: strings.TrimSpace(p.Name),
	})
	if err != nil {
		c.setFormError(err, msgSignupFailed)
		return
	}

	if err := c.profiles.SaveRegistrationDetails(ctx, account.ID, p.Registration); err != nil {
		c.log.Warn().Err(err).Str("user_id", account.ID).Msg("registration details failed to save")
	}

	if session == nil {
		c.state.Notice = msgConfirmEmail
		c.state.AuthView = AuthLogin
		c.publish()
		return
	}

	profile, err := c.fetchProfile(ctx, account.ID)
	if err != nil {
		c.setFormError(err, msgSignupFailed)
		return
	}
	if profile != nil {
		c.state.CurrentUser = profile
	}
	c.publish()
}

// SubmitPayment stores payment proof for the current user and refreshes the
// gate. It fails with auth.ErrUnauthorized when nobody is signed in, and with
// the profile's refusal for active and admin accounts.
func (c *Controller) SubmitPayment(ctx context.Context, d domain.PaymentDetails) error {
	var result error
	err := c.do(ctx, func(actx context.Context) {
		result = c.submitPayment(actx, d)
	})
	if err != nil {
		return err
	}
	return result
}

func (c *Controller) submitPayment(ctx context.Context, d domain.PaymentDetails) error {
	user := c.state.CurrentUser
	if user == nil {
		return auth.ErrUnauthorized
	}
	c.state.PaymentError = ""
	if err := user.CheckPaymentAllowed(); err != nil {
		c.state.PaymentError = msgPaymentNotRequired
		c.publish()
		return err
	}
	if d.Date.IsZero() {
		d.Date = time.Now().UTC()
	}
	d.RejectionReason = ""

	if err := c.profiles.SubmitPaymentProof(ctx, user.ID, d); err != nil {
		c.log.Error().Err(err).Str("user_id", user.ID).Msg("payment proof submission failed")
		c.state.PaymentError = msgPaymentFailed
		c.publish()
		return nil
	}
	c.refresh(ctx)
	return nil
}

// setFormError shows err on the auth form. Recursion and connection
// failures get fixed messages; other errors are shown as they are.
func (c *Controller) setFormError(err error, fallback string) {
	err = apperr.Classify(err)
	switch {
	case apperr.IsRecursion(err):
		c.state.AuthError = msgRecursion
		c.state.PolicyFix = true
	case apperr.IsConnection(err):
		c.state.AuthError = msgNetwork
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.state.AuthError = msgInvalidLogin
	case errors.Is(err, context.Canceled):
		return
	default:
		msg := err.Error()
		if msg == "" {
			msg = fallback
		}
		c.state.AuthError = msg
	}
	c.publish()
}
