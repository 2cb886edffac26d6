package memory

import (
	"context"
	"sync"
	"time"

	"howdy-portal-be/internal/entity"
	"howdy-portal-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// OrderRepository keeps payment orders for the lifetime of the process.
// Orders are bookkeeping for the payment modal, not a ledger.
type OrderRepository struct {
	cache *cache.Cache

	// serializes writes so Transition's read-modify-write is atomic
	mu sync.Mutex
}

var _ contract.PaymentOrderRepository = (*OrderRepository)(nil)

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		cache: cache.New(72*time.Hour, time.Hour),
	}
}

func (r *OrderRepository) Create(_ context.Context, order *entity.PaymentOrder) error {
	o := *order
	return r.cache.Add(order.Id, &o, cache.DefaultExpiration)
}

func (r *OrderRepository) Update(_ context.Context, order *entity.PaymentOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o := *order
	if err := r.cache.Replace(order.Id, &o, cache.DefaultExpiration); err != nil {
		return contract.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) FindOne(_ context.Context, orderID string) (*entity.PaymentOrder, error) {
	x, found := r.cache.Get(orderID)
	if !found {
		return nil, contract.ErrOrderNotFound
	}
	o := *x.(*entity.PaymentOrder)
	return &o, nil
}

func (r *OrderRepository) Transition(ctx context.Context, orderID string, fn func(*entity.PaymentOrder) error) (*entity.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, err := r.FindOne(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := fn(order); err != nil {
		return nil, err
	}
	o := *order
	r.cache.Set(orderID, &o, cache.DefaultExpiration)
	return order, nil
}
