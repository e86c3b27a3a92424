package prescription

import (
	"context"

	"github.com/propellur/moca-patient-portal/internal/logger"

	"go.uber.org/zap"
)

// Service exposes the patient-facing prescription catalog.
type Service interface {
	ListForPatient(ctx context.Context, patientEmail string) ([]Prescription, error)
	GetOrderable(ctx context.Context, id string) (*Prescription, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListForPatient(ctx context.Context, patientEmail string) ([]Prescription, error) {
	return s.repo.GetByPatient(ctx, patientEmail)
}

// GetOrderable resolves a prescription and enforces the eligibility rule.
// Ineligible prescriptions surface ErrNotOrderable, missing ones
// ErrPrescriptionNotFound.
func (s *service) GetOrderable(ctx context.Context, id string) (*Prescription, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetOrderable"),
		zap.String("prescription_id", id),
	)

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error("failed to get prescription", zap.Error(err))
		return nil, err
	}
	if p == nil {
		return nil, ErrPrescriptionNotFound
	}

	if !p.Orderable() {
		log.Warn("prescription not orderable",
			zap.String("status", string(p.Status)),
			zap.Int("repeats_left", p.RepeatsLeft),
		)
		return nil, ErrNotOrderable
	}

	return p, nil
}
