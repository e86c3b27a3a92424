package cart

import (
	"context"

	"github.com/propellur/moca-patient-portal/internal/logger"
	"github.com/propellur/moca-patient-portal/internal/order"
	"github.com/propellur/moca-patient-portal/internal/prescription"

	"go.uber.org/zap"
)

// Service defines the business logic for shopping carts.
type Service interface {
	Add(ctx context.Context, patientEmail, prescriptionID string) (*Line, error)
	Get(ctx context.Context, patientEmail string) ([]Line, error)
	Remove(ctx context.Context, patientEmail, prescriptionID string) error
	Clear(ctx context.Context, patientEmail string) error
	Checkout(ctx context.Context, patientEmail string) (*order.Order, error)
}

type service struct {
	repo            Repository
	prescriptionSvc prescription.Service
	orderSvc        order.Service
}

func NewService(repo Repository, prescriptionSvc prescription.Service, orderSvc order.Service) Service {
	return &service{
		repo:            repo,
		prescriptionSvc: prescriptionSvc,
		orderSvc:        orderSvc,
	}
}

// Add puts a prescription into the patient's cart. Adding the same
// prescription again merges by identity: the existing line's quantity grows
// by the prescription's full quantity rather than a caller-chosen amount.
func (s *service) Add(ctx context.Context, patientEmail, prescriptionID string) (*Line, error) {
	if patientEmail == "" {
		return nil, ErrInvalidPatient
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Add"),
		zap.String("patient_email", patientEmail),
		zap.String("prescription_id", prescriptionID),
	)

	// 1. Eligibility check (active + repeats remaining)
	p, err := s.prescriptionSvc.GetOrderable(ctx, prescriptionID)
	if err != nil {
		log.Warn("prescription rejected", zap.Error(err))
		return nil, err
	}

	// 2. Existing line, if any
	line, err := s.repo.GetLineByPatientAndPrescription(ctx, patientEmail, prescriptionID)
	if err != nil {
		return nil, err
	}

	// 3. Create or merge
	if line == nil {
		line, err = s.repo.CreateLine(ctx, CreateLineParams{
			PatientEmail:   patientEmail,
			PrescriptionID: prescriptionID,
			Quantity:       p.Quantity,
		})
	} else {
		line, err = s.repo.UpdateLineQuantity(ctx, line.ID.String(), line.Quantity+p.Quantity)
	}
	if err != nil {
		return nil, err
	}

	log.Info("cart line added", zap.Int("quantity", line.Quantity))

	return line, nil
}

func (s *service) Get(ctx context.Context, patientEmail string) ([]Line, error) {
	if patientEmail == "" {
		return nil, ErrInvalidPatient
	}
	return s.repo.GetLines(ctx, patientEmail)
}

func (s *service) Remove(ctx context.Context, patientEmail, prescriptionID string) error {
	if patientEmail == "" {
		return ErrInvalidPatient
	}
	return s.repo.RemoveLine(ctx, patientEmail, prescriptionID)
}

func (s *service) Clear(ctx context.Context, patientEmail string) error {
	if patientEmail == "" {
		return ErrInvalidPatient
	}
	return s.repo.ClearCart(ctx, patientEmail)
}

// Checkout hands an immutable snapshot of the cart to the order lifecycle
// engine. The engine persists the order and empties the cart in a single
// transaction, so a failed checkout leaves the cart intact.
func (s *service) Checkout(ctx context.Context, patientEmail string) (*order.Order, error) {
	if patientEmail == "" {
		return nil, ErrInvalidPatient
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.String("patient_email", patientEmail),
	)

	lines, err := s.repo.GetLines(ctx, patientEmail)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	snapshot := make([]order.Line, 0, len(lines))
	for _, l := range lines {
		snapshot = append(snapshot, order.Line{
			PrescriptionID: l.PrescriptionID,
			Name:           l.Name,
			Strength:       l.Strength,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		})
	}

	o, err := s.orderSvc.Create(ctx, patientEmail, snapshot)
	if err != nil {
		log.Error("checkout failed", zap.Error(err))
		return nil, err
	}

	log.Info("checkout completed",
		zap.String("order_id", o.ID.String()),
		zap.Int64("total_cents", o.TotalCents),
	)

	return o, nil
}
