package prescription

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusUsed    Status = "used"
)

// Prescription is an externally issued medication authorization. Records are
// read-only from the portal's point of view; a pharmacy-system integration
// owns them in production.
type Prescription struct {
	ID             uuid.UUID `json:"id"`
	PatientEmail   string    `json:"patient_email"`
	Name           string    `json:"name"`
	Strength       string    `json:"strength"`
	Quantity       int       `json:"quantity"`
	RepeatsLeft    int       `json:"repeats_left"`
	PrescribedAt   time.Time `json:"prescribed_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	Status         Status    `json:"status"`
	DosingInterval string    `json:"dosing_interval"`
	UnitPriceCents int64     `json:"unit_price_cents"`
}

// Orderable reports whether the prescription can be added to a cart:
// only active prescriptions with repeats remaining qualify.
func (p *Prescription) Orderable() bool {
	return p.Status == StatusActive && p.RepeatsLeft > 0
}
