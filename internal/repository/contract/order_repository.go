package contract

import (
	"context"
	"errors"

	"howdy-portal-be/internal/entity"
)

var ErrOrderNotFound = errors.New("payment order not found")

type PaymentOrderRepository interface {
	Create(ctx context.Context, order *entity.PaymentOrder) error
	Update(ctx context.Context, order *entity.PaymentOrder) error
	// Transition applies fn to the stored order atomically. When fn fails
	// nothing is written and fn's error is returned.
	Transition(ctx context.Context, orderID string, fn func(*entity.PaymentOrder) error) (*entity.PaymentOrder, error)
	FindOne(ctx context.Context, orderID string) (*entity.PaymentOrder, error)
}
