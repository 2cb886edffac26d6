package service

import (
	"context"
	"sync"
	"testing"

	"howdy-portal-be/internal/config"
	"howdy-portal-be/internal/dto"
	"howdy-portal-be/internal/entity"
	"howdy-portal-be/internal/pkg/mailer"
	"howdy-portal-be/internal/repository/contract"
	"howdy-portal-be/internal/repository/memory"
	"howdy-portal-be/pkg/events"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerKey = "SB-Mid-server-test"

type fakeSnap struct {
	requests []*snap.Request
	err      *midtrans.Error
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &snap.Response{Token: "snap-token", RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token"}, nil
}

type recordingMailer struct {
	mu       sync.Mutex
	to       []string
	receipts []mailer.Receipt
}

func (m *recordingMailer) SendPaymentReceipt(toEmail string, receipt mailer.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, toEmail)
	m.receipts = append(m.receipts, receipt)
	return nil
}

func newPaymentHarness(t *testing.T, snapClient SnapClient) (*harness, *memory.OrderRepository, IPaymentService, string) {
	h, orders, svc, id, _ := newPaymentHarnessWithMailer(t, snapClient)
	return h, orders, svc, id
}

func newPaymentHarnessWithMailer(t *testing.T, snapClient SnapClient) (*harness, *memory.OrderRepository, IPaymentService, string, *recordingMailer) {
	t.Helper()
	h := newHarness()
	orders := memory.NewOrderRepository()
	m := &recordingMailer{}
	svc := NewPaymentService(h.sessions, orders, snapClient, h.publisher, m, nopLogger(), config.MidtransConfig{
		ServerKey:    testServerKey,
		TuitionItem:  "Pay Bill",
		TuitionPrice: 1500000,
	}, "http://localhost:5173")
	return h, orders, svc, h.login(t, "reveille"), m
}

func checkoutRequest() *dto.CheckoutRequest {
	return &dto.CheckoutRequest{FirstName: "Sully", LastName: "Ross", Email: "sully@tamu.edu"}
}

func TestPaymentService_Checkout(t *testing.T) {
	fs := &fakeSnap{}
	h, orders, svc, id := newPaymentHarness(t, fs)
	ctx := context.Background()

	res, err := svc.Checkout(ctx, id, checkoutRequest())
	require.NoError(t, err)
	assert.Equal(t, "snap-token", res.SnapToken)
	assert.EqualValues(t, 1500000, res.Amount)

	require.Len(t, fs.requests, 1)
	assert.Equal(t, res.OrderId, fs.requests[0].TransactionDetails.OrderID)
	assert.Equal(t, "http://localhost:5173/?payment=finished", fs.requests[0].Callbacks.Finish)

	order, err := orders.FindOne(ctx, res.OrderId)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPending, order.Status)
	assert.Equal(t, "reveille", order.Username)

	state, _ := h.sessions.Get(ctx, id)
	assert.Equal(t, "payment", string(state.Modal))
	assert.Equal(t, res.OrderId, state.PaymentOrderID)
	assert.Contains(t, h.publisher.types(), events.TypePaymentCreated)
}

func TestPaymentService_Checkout_GatewayError(t *testing.T) {
	_, _, svc, id := newPaymentHarness(t, &fakeSnap{err: &midtrans.Error{Message: "Access denied"}})

	_, err := svc.Checkout(context.Background(), id, checkoutRequest())
	assert.ErrorIs(t, err, ErrPaymentGateway)
}

func TestPaymentService_HandleNotification(t *testing.T) {
	tests := []struct {
		name   string
		status string
		fraud  string
		want   entity.PaymentStatus
	}{
		{"settlement pays", "settlement", "", entity.PaymentStatusPaid},
		{"accepted capture pays", "capture", "accept", entity.PaymentStatusPaid},
		{"challenged capture waits", "capture", "challenge", entity.PaymentStatusPending},
		{"expire fails", "expire", "", entity.PaymentStatusFailed},
		{"deny fails", "deny", "", entity.PaymentStatusFailed},
		{"unknown is ignored", "authorize", "", entity.PaymentStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, orders, svc, id := newPaymentHarness(t, &fakeSnap{})
			ctx := context.Background()
			res, err := svc.Checkout(ctx, id, checkoutRequest())
			require.NoError(t, err)

			req := &dto.MidtransWebhookRequest{
				OrderId:           res.OrderId,
				StatusCode:        "200",
				GrossAmount:       "1500000.00",
				TransactionStatus: tt.status,
				FraudStatus:       tt.fraud,
				TransactionId:     "tx-1",
			}
			req.SignatureKey = Signature(req.OrderId, req.StatusCode, req.GrossAmount, testServerKey)

			require.NoError(t, svc.HandleNotification(ctx, req))

			order, _ := orders.FindOne(ctx, res.OrderId)
			assert.Equal(t, tt.want, order.Status)
		})
	}
}

func TestPaymentService_HandleNotification_BadSignature(t *testing.T) {
	_, _, svc, id := newPaymentHarness(t, &fakeSnap{})
	ctx := context.Background()
	res, err := svc.Checkout(ctx, id, checkoutRequest())
	require.NoError(t, err)

	err = svc.HandleNotification(ctx, &dto.MidtransWebhookRequest{
		OrderId:           res.OrderId,
		StatusCode:        "200",
		GrossAmount:       "1500000.00",
		TransactionStatus: "settlement",
		SignatureKey:      "forged",
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestPaymentService_GetOrder_OtherSession(t *testing.T) {
	h, _, svc, id := newPaymentHarness(t, &fakeSnap{})
	ctx := context.Background()
	res, err := svc.Checkout(ctx, id, checkoutRequest())
	require.NoError(t, err)

	got, err := svc.GetOrder(ctx, id, res.OrderId)
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)

	other := h.login(t, "bevo")
	_, err = svc.GetOrder(ctx, other, res.OrderId)
	assert.ErrorIs(t, err, contract.ErrOrderNotFound)
}

func TestPaymentService_SettlementSendsReceipt(t *testing.T) {
	_, _, svc, id, m := newPaymentHarnessWithMailer(t, &fakeSnap{})
	ctx := context.Background()
	res, err := svc.Checkout(ctx, id, checkoutRequest())
	require.NoError(t, err)

	req := &dto.MidtransWebhookRequest{
		OrderId:           res.OrderId,
		StatusCode:        "200",
		GrossAmount:       "1500000.00",
		TransactionStatus: "settlement",
	}
	req.SignatureKey = Signature(req.OrderId, req.StatusCode, req.GrossAmount, testServerKey)

	require.NoError(t, svc.HandleNotification(ctx, req))
	// Redelivery of the same status does not send a second receipt.
	require.NoError(t, svc.HandleNotification(ctx, req))

	assert.Equal(t, []string{"sully@tamu.edu"}, m.to)
	require.Len(t, m.receipts, 1)
	assert.Equal(t, "reveille", m.receipts[0].Username)
	assert.EqualValues(t, 1500000, m.receipts[0].Amount)
}

func signedNotification(orderID, status string) *dto.MidtransWebhookRequest {
	req := &dto.MidtransWebhookRequest{
		OrderId:           orderID,
		StatusCode:        "200",
		GrossAmount:       "1500000.00",
		TransactionStatus: status,
	}
	req.SignatureKey = Signature(req.OrderId, req.StatusCode, req.GrossAmount, testServerKey)
	return req
}

func TestPaymentService_PaidIsTerminal(t *testing.T) {
	_, orders, svc, id := newPaymentHarness(t, &fakeSnap{})
	ctx := context.Background()
	res, err := svc.Checkout(ctx, id, checkoutRequest())
	require.NoError(t, err)

	require.NoError(t, svc.HandleNotification(ctx, signedNotification(res.OrderId, "settlement")))
	// Late notifications arriving out of order.
	require.NoError(t, svc.HandleNotification(ctx, signedNotification(res.OrderId, "pending")))
	require.NoError(t, svc.HandleNotification(ctx, signedNotification(res.OrderId, "expire")))

	order, err := orders.FindOne(ctx, res.OrderId)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, order.Status)
}

func TestPaymentService_ConcurrentSettlementsSendOneReceipt(t *testing.T) {
	_, _, svc, id, m := newPaymentHarnessWithMailer(t, &fakeSnap{})
	ctx := context.Background()
	res, err := svc.Checkout(ctx, id, checkoutRequest())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.HandleNotification(ctx, signedNotification(res.OrderId, "settlement")))
		}()
	}
	wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Len(t, m.receipts, 1)
}
