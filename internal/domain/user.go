package domain

import (
	"errors"
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

type UserStatus string

const (
	StatusPending  UserStatus = "PENDING"
	StatusActive   UserStatus = "ACTIVE"
	StatusRejected UserStatus = "REJECTED"
)

func (s UserStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusRejected:
		return true
	}
	return false
}

// PaymentDetails is the proof of payment a user submits to get past the
// payment wall. RejectionReason is filled in by an admin on rejection.
type PaymentDetails struct {
	TransactionID   string    `json:"transactionId"`
	Amount          float64   `json:"amount"`
	Date            time.Time `json:"date"`
	ScreenshotURL   string    `json:"screenshotUrl"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
}

type RegistrationDetails struct {
	Mobile            string `json:"mobile"`
	TradingExperience string `json:"tradingExperience"`
	PreferredMarket   string `json:"preferredMarket"`
	CapitalSize       string `json:"capitalSize"`
}

// User is the application profile layered over an auth account.
type User struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Email               string               `json:"email"`
	Role                UserRole             `json:"role"`
	Status              UserStatus           `json:"status"`
	PaymentDetails      *PaymentDetails      `json:"payment_details,omitempty"`
	RegistrationDetails *RegistrationDetails `json:"registration_details,omitempty"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) HasPaid() bool {
	return u != nil && u.PaymentDetails != nil
}

var (
	ErrAlreadyActive = errors.New("account is already active")
	ErrAdminPayment  = errors.New("admin accounts do not pay")
)

// CheckPaymentAllowed returns why u may not submit payment proof, or nil.
// Status leaves ACTIVE only through an admin decision.
func (u *User) CheckPaymentAllowed() error {
	switch {
	case u.IsAdmin():
		return ErrAdminPayment
	case u != nil && u.Status == StatusActive:
		return ErrAlreadyActive
	}
	return nil
}

type ApprovalAction string

const (
	ActionApprove ApprovalAction = "APPROVE"
	ActionReject  ApprovalAction = "REJECT"
)

type ApprovalLog struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	AdminID   string         `json:"adminId"`
	Action    ApprovalAction `json:"action"`
	Reason    string         `json:"reason,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
