package order

import (
	"context"
	"time"

	"github.com/propellur/moca-patient-portal/internal/logger"
	"github.com/propellur/moca-patient-portal/internal/metrics"
	"github.com/propellur/moca-patient-portal/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// trackingAttempts bounds the retry loop on tracking-number collisions.
const trackingAttempts = 5

// Service drives orders through the forward-only progression
// awaiting_payment -> processing -> shipped.
type Service interface {
	Create(ctx context.Context, ownerEmail string, snapshot []Line) (*Order, error)
	AdvanceToProcessing(ctx context.Context, orderID string) (*Order, error)
	AdvanceToShipped(ctx context.Context, orderID string) (*Order, error)
	GetByOwner(ctx context.Context, ownerEmail string) ([]Order, error)
	GetAll(ctx context.Context) ([]Order, error)
	GetDetail(ctx context.Context, orderID, callerEmail string, isAdmin bool) (*Order, error)
}

type service struct {
	repo     Repository
	counters *metrics.Orders
}

func NewService(repo Repository, counters *metrics.Orders) Service {
	return &service{repo: repo, counters: counters}
}

// Create converts a cart snapshot into an order record. There is no payment
// provider yet: successful creation stands in for the payment-confirmed
// signal, which is why the order still starts in awaiting_payment.
func (s *service) Create(ctx context.Context, ownerEmail string, snapshot []Line) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
		zap.String("owner_email", ownerEmail),
		zap.Int("line_count", len(snapshot)),
	)

	var subtotal int64
	for _, l := range snapshot {
		subtotal += l.UnitPriceCents * int64(l.Quantity)
	}

	o := &Order{
		ID:               uuid.New(),
		OwnerEmail:       ownerEmail,
		Lines:            snapshot,
		SubtotalCents:    subtotal,
		ShippingFeeCents: ShippingFeeCents,
		TotalCents:       subtotal + ShippingFeeCents,
		Status:           StatusAwaitingPayment,
		PaymentMethod:    PaymentMethodLabel,
		ShippingAddress:  ShippingAddressLabel,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.repo.CreateOrderTx(ctx, o); err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	s.counters.Created.Inc()

	log.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.Int64("total_cents", o.TotalCents),
	)

	return o, nil
}

// AdvanceToProcessing is legal only from awaiting_payment. A missing order
// is an explicit ErrOrderNotFound, never a silent no-op.
func (s *service) AdvanceToProcessing(ctx context.Context, orderID string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AdvanceToProcessing"),
		zap.String("order_id", orderID),
	)

	if err := s.repo.UpdateStatus(ctx, orderID, StatusAwaitingPayment, StatusProcessing); err != nil {
		log.Warn("transition rejected", zap.Error(err))
		return nil, err
	}

	s.counters.Processing.Inc()
	log.Info("order advanced to processing")

	return s.repo.GetByID(ctx, orderID)
}

// AdvanceToShipped is legal only from processing. It atomically sets the
// shipped status together with a freshly issued tracking number, retrying
// on the rare collision against the unique index.
func (s *service) AdvanceToShipped(ctx context.Context, orderID string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AdvanceToShipped"),
		zap.String("order_id", orderID),
	)

	for attempt := 0; attempt < trackingAttempts; attempt++ {
		trackingNumber := utils.GenerateTrackingNumber()

		err := s.repo.MarkShipped(ctx, orderID, trackingNumber)
		if err == nil {
			s.counters.Shipped.Inc()
			log.Info("order shipped", zap.String("tracking_number", trackingNumber))
			return s.repo.GetByID(ctx, orderID)
		}

		if IsUniqueViolation(err) {
			log.Warn("tracking number collision, retrying",
				zap.String("tracking_number", trackingNumber),
				zap.Int("attempt", attempt+1),
			)
			continue
		}

		log.Warn("transition rejected", zap.Error(err))
		return nil, err
	}

	return nil, ErrTrackingExhausted
}

// GetByOwner is the patient view: only the caller's orders, newest first.
func (s *service) GetByOwner(ctx context.Context, ownerEmail string) ([]Order, error) {
	return s.repo.GetByOwner(ctx, ownerEmail)
}

// GetAll is the admin view: every order, newest first.
func (s *service) GetAll(ctx context.Context) ([]Order, error) {
	return s.repo.GetAll(ctx)
}

// GetDetail returns one order; patients only see their own.
func (s *service) GetDetail(ctx context.Context, orderID, callerEmail string, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	if !isAdmin && o.OwnerEmail != callerEmail {
		return nil, ErrUnauthorized
	}

	return o, nil
}
