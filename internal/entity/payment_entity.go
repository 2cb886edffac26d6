package entity

import (
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentOrder is a tuition payment started from the payment modal.
type PaymentOrder struct {
	Id                    string
	SessionId             string
	Username              string
	Email                 string
	Item                  string
	Amount                int64
	Status                PaymentStatus
	SnapToken             string
	SnapRedirectUrl       string
	MidtransTransactionId *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
