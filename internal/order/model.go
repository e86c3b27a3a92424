package order

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusProcessing      Status = "processing"
	StatusShipped         Status = "shipped"

	// StatusDelivered exists in the persistence schema but no application
	// transition reaches it.
	StatusDelivered Status = "delivered"
)

const (
	// ShippingFeeCents is the flat fee applied to every order.
	ShippingFeeCents int64 = 3300

	// Placeholder labels until a payment provider and address book exist.
	PaymentMethodLabel   = "card_on_file"
	ShippingAddressLabel = "registered home address"
)

// Line is a snapshot of a cart line taken at checkout. It is a deep copy:
// later catalog changes never alter a placed order.
type Line struct {
	ID             uuid.UUID `json:"id"`
	OrderID        uuid.UUID `json:"order_id"`
	PrescriptionID uuid.UUID `json:"prescription_id"`
	Name           string    `json:"name"`
	Strength       string    `json:"strength"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
}

// Order is immutable except for its forward-only status progression and the
// tracking number assigned when it ships. Monetary fields are fixed at
// creation and never recomputed.
type Order struct {
	ID               uuid.UUID `json:"id"`
	OwnerEmail       string    `json:"owner_email"`
	Lines            []Line    `json:"lines"`
	SubtotalCents    int64     `json:"subtotal_cents"`
	ShippingFeeCents int64     `json:"shipping_fee_cents"`
	TotalCents       int64     `json:"total_cents"`
	Status           Status    `json:"status"`
	PaymentMethod    string    `json:"payment_method"`
	ShippingAddress  string    `json:"shipping_address"`
	TrackingNumber   *string   `json:"tracking_number,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
