package cart

import (
	"time"

	"github.com/google/uuid"
)

// Line pairs a prescription with the quantity selected for the current
// shopping session. Lines live only until checkout or an explicit clear.
type Line struct {
	ID             uuid.UUID `json:"id"`
	PatientEmail   string    `json:"patient_email"`
	PrescriptionID uuid.UUID `json:"prescription_id"`
	Name           string    `json:"name"`
	Strength       string    `json:"strength"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Total sums price times selected quantity over the given lines.
func Total(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.UnitPriceCents * int64(l.Quantity)
	}
	return total
}
