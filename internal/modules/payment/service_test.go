package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trademind/internal/domain"
	"trademind/internal/pkg/apperr"
	"trademind/internal/pkg/validator"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) SubmitPaymentProof(ctx context.Context, userID string, d domain.PaymentDetails) error {
	return m.Called(ctx, userID, d).Error(0)
}

func (m *mockStore) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func TestSubmitProof_DefaultsDate(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	store := new(mockStore)
	store.On("SubmitPaymentProof", ctx, "u1", domain.PaymentDetails{
		TransactionID: "UTR123456",
		Amount:        4999,
		Date:          fixed,
	}).Return(nil)

	svc := NewService(store)
	svc.now = func() time.Time { return fixed }

	user := &domain.User{ID: "u1", Role: domain.RoleUser, Status: domain.StatusRejected,
		PaymentDetails: &domain.PaymentDetails{RejectionReason: "blurry"}}
	resp, err := svc.SubmitProof(ctx, user, SubmitProofRequest{TransactionID: " UTR123456 ", Amount: 4999})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Empty(t, resp.Payment.RejectionReason)
	store.AssertExpectations(t)
}

func TestSubmitProof_Refusals(t *testing.T) {
	svc := NewService(new(mockStore))
	ctx := context.Background()
	req := SubmitProofRequest{TransactionID: "UTR1", Amount: 1}

	_, err := svc.SubmitProof(ctx, &domain.User{ID: "u1", Role: domain.RoleUser, Status: domain.StatusActive}, req)
	assert.ErrorIs(t, err, ErrAlreadyActive)

	_, err = svc.SubmitProof(ctx, &domain.User{ID: "a1", Role: domain.RoleAdmin, Status: domain.StatusActive}, req)
	assert.ErrorIs(t, err, ErrAdminAccount)
}

func TestSubmitProof_StoreUnreachable(t *testing.T) {
	store := new(mockStore)
	store.On("SubmitPaymentProof", mock.Anything, "u1", mock.Anything).Return(apperr.ErrConnection)

	svc := NewService(store)
	_, err := svc.SubmitProof(context.Background(), &domain.User{ID: "u1", Status: domain.StatusPending},
		SubmitProofRequest{TransactionID: "UTR1", Amount: 10, Date: time.Now()})

	assert.True(t, apperr.IsConnection(err))
}

func TestGetProof(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	store.On("GetProfile", ctx, "u1").Return(&domain.User{ID: "u1", Status: domain.StatusPending,
		PaymentDetails: &domain.PaymentDetails{TransactionID: "UTR1"}}, nil)

	resp, err := NewService(store).GetProof(ctx, "u1")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Equal(t, "UTR1", resp.Payment.TransactionID)
}

func TestValidation(t *testing.T) {
	bad := SubmitProofRequest{TransactionID: "", Amount: 0, ScreenshotURL: "not a url"}
	errs := validator.Validate(&bad)
	assert.Equal(t, "required", errs["transactionId"])
	assert.Equal(t, "gt", errs["amount"])
	assert.Equal(t, "url", errs["screenshotUrl"])
}
