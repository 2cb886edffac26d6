package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"howdy-portal-be/internal/config"
	"howdy-portal-be/internal/dto"
	"howdy-portal-be/internal/entity"
	"howdy-portal-be/internal/mapper"
	"howdy-portal-be/internal/pkg/logger"
	"howdy-portal-be/internal/pkg/mailer"
	"howdy-portal-be/internal/repository/contract"
	"howdy-portal-be/pkg/events"
	"howdy-portal-be/pkg/portal"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// SnapClient is the part of snap.Client the payment modal uses.
type SnapClient interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// NewSnapClient builds a Midtrans Snap client for the configured environment.
func NewSnapClient(cfg config.MidtransConfig) *snap.Client {
	env := midtrans.Sandbox
	if cfg.IsProduction {
		env = midtrans.Production
	}
	var c snap.Client
	c.New(cfg.ServerKey, env)
	return &c
}

type IPaymentService interface {
	Checkout(ctx context.Context, sessionID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
	GetOrder(ctx context.Context, sessionID, orderID string) (*dto.OrderStatusResponse, error)
}

type paymentService struct {
	sessions  contract.SessionRepository
	orders    contract.PaymentOrderRepository
	snap      SnapClient
	publisher IPublisherService
	mailer    mailer.IEmailService
	mapper    *mapper.PortalMapper
	logger    logger.ILogger
	cfg       config.MidtransConfig
	clientURL string
}

func NewPaymentService(
	sessions contract.SessionRepository,
	orders contract.PaymentOrderRepository,
	snapClient SnapClient,
	publisher IPublisherService,
	emailService mailer.IEmailService,
	log logger.ILogger,
	cfg config.MidtransConfig,
	clientURL string,
) IPaymentService {
	return &paymentService{
		sessions:  sessions,
		orders:    orders,
		snap:      snapClient,
		publisher: publisher,
		mailer:    emailService,
		mapper:    mapper.NewPortalMapper(),
		logger:    log,
		cfg:       cfg,
		clientURL: clientURL,
	}
}

// Checkout opens the payment modal and creates a Snap transaction for the
// tuition bill.
func (s *paymentService) Checkout(ctx context.Context, sessionID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &entity.PaymentOrder{
		Id:        "HOWDY-" + uuid.NewString(),
		SessionId: sessionID,
		Username:  state.Username,
		Email:     req.Email,
		Item:      s.cfg.TuitionItem,
		Amount:    s.cfg.TuitionPrice,
		Status:    entity.PaymentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.Id,
			GrossAmt: order.Amount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: fmt.Sprintf("%s/?payment=finished", s.clientURL),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.FirstName,
			LName: req.LastName,
			Email: req.Email,
			Phone: req.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    "tuition",
				Price: order.Amount,
				Qty:   1,
				Name:  order.Item,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := s.snap.CreateTransaction(snapReq)
	if midErr != nil {
		order.Status = entity.PaymentStatusFailed
		order.UpdatedAt = time.Now()
		_ = s.orders.Update(ctx, order)
		s.logger.Error("Payment", "Snap transaction failed", map[string]interface{}{
			"order_id": order.Id,
			"error":    midErr.GetMessage(),
		})
		return nil, fmt.Errorf("%w: %s", ErrPaymentGateway, midErr.GetMessage())
	}

	order.SnapToken = snapResp.Token
	order.SnapRedirectUrl = snapResp.RedirectURL
	order.UpdatedAt = time.Now()
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	if _, err := s.sessions.Update(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		return portal.AttachPaymentOrder(cur, order.Id), nil
	}); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.TypePaymentCreated, map[string]interface{}{
		"session_id": sessionID,
		"order_id":   order.Id,
		"amount":     order.Amount,
	}))

	return &dto.CheckoutResponse{
		OrderId:         order.Id,
		Amount:          order.Amount,
		SnapToken:       snapResp.Token,
		SnapRedirectUrl: snapResp.RedirectURL,
	}, nil
}

// Signature computes Midtrans' notification signature:
// SHA512(order_id + status_code + gross_amount + server_key).
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	return fmt.Sprintf("%x", sha512.Sum512([]byte(orderID+statusCode+grossAmount+serverKey)))
}

func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	if s.cfg.ServerKey == "" {
		return ErrPaymentConfig
	}

	expected := Signature(req.OrderId, req.StatusCode, req.GrossAmount, s.cfg.ServerKey)
	if subtle.ConstantTimeCompare([]byte(req.SignatureKey), []byte(expected)) != 1 {
		s.logger.Warn("Payment", "Signature mismatch", map[string]interface{}{"order_id": req.OrderId})
		return ErrInvalidSignature
	}

	next, ok := paymentStatusFor(req.TransactionStatus, req.FraudStatus)
	if !ok {
		if _, err := s.orders.FindOne(ctx, req.OrderId); err != nil {
			return err
		}
		s.logger.Info("Payment", "Ignoring notification", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
		return nil
	}

	var from entity.PaymentStatus
	order, err := s.orders.Transition(ctx, req.OrderId, func(o *entity.PaymentOrder) error {
		// Midtrans may redeliver or reorder notifications; a paid order stays paid.
		if o.Status == next || o.Status == entity.PaymentStatusPaid {
			return errOrderUnchanged
		}
		from = o.Status
		o.Status = next
		o.UpdatedAt = time.Now()
		if req.TransactionId != "" {
			txID := req.TransactionId
			o.MidtransTransactionId = &txID
		}
		return nil
	})
	if errors.Is(err, errOrderUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("Payment", "Order status changed", map[string]interface{}{
		"order_id": order.Id,
		"from":     from,
		"to":       next,
	})

	if next == entity.PaymentStatusPaid {
		s.publisher.Publish(ctx, events.New(events.TypePaymentSettled, map[string]interface{}{
			"session_id": order.SessionId,
			"order_id":   order.Id,
			"amount":     order.Amount,
		}))
		// A failed receipt must not make Midtrans redeliver the notification.
		_ = s.mailer.SendPaymentReceipt(order.Email, mailer.Receipt{
			OrderID:  order.Id,
			Username: order.Username,
			Item:     order.Item,
			Amount:   order.Amount,
		})
	}
	return nil
}

// paymentStatusFor maps a Midtrans transaction_status to an order status.
// The second return is false for statuses that leave the order untouched.
func paymentStatusFor(transactionStatus, fraudStatus string) (entity.PaymentStatus, bool) {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return entity.PaymentStatusPending, true
		}
		return entity.PaymentStatusPaid, true
	case "settlement":
		return entity.PaymentStatusPaid, true
	case "deny", "cancel", "expire", "failure":
		return entity.PaymentStatusFailed, true
	case "pending":
		return entity.PaymentStatusPending, true
	default:
		return "", false
	}
}

// GetOrder only shows an order to the session that created it.
func (s *paymentService) GetOrder(ctx context.Context, sessionID, orderID string) (*dto.OrderStatusResponse, error) {
	order, err := s.orders.FindOne(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.SessionId != sessionID {
		return nil, contract.ErrOrderNotFound
	}
	return s.mapper.ToOrderStatus(order), nil
}
