package payment

import (
	"time"

	"trademind/internal/domain"
)

type SubmitProofRequest struct {
	TransactionID string    `json:"transactionId" validate:"required,min=4,max=64"`
	Amount        float64   `json:"amount" validate:"gt=0"`
	Date          time.Time `json:"date"`
	ScreenshotURL string    `json:"screenshotUrl" validate:"omitempty,uri"`
}

func (r SubmitProofRequest) toDomain() domain.PaymentDetails {
	return domain.PaymentDetails{
		TransactionID: r.TransactionID,
		Amount:        r.Amount,
		Date:          r.Date,
		ScreenshotURL: r.ScreenshotURL,
	}
}

type ProofResponse struct {
	Status  domain.UserStatus      `json:"status"`
	Payment *domain.PaymentDetails `json:"payment_details"`
}
