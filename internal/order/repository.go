package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/propellur/moca-patient-portal/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	CreateOrderTx(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByOwner(ctx context.Context, ownerEmail string) ([]Order, error)
	GetAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	MarkShipped(ctx context.Context, id, trackingNumber string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// CreateOrderTx persists the order with its line snapshot and empties the
// owner's cart, all inside one transaction.
func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_id", o.ID.String()),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Insert order
	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, owner_email, subtotal_cents, shipping_fee_cents, total_cents,
			status, payment_method, shipping_address, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		o.ID,
		o.OwnerEmail,
		o.SubtotalCents,
		o.ShippingFeeCents,
		o.TotalCents,
		o.Status,
		o.PaymentMethod,
		o.ShippingAddress,
		o.CreatedAt,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	// 2. Insert line snapshot
	for i := range o.Lines {
		line := &o.Lines[i]
		line.OrderID = o.ID
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (
				id, order_id, prescription_id, name, strength,
				quantity, unit_price_cents
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			line.ID,
			line.OrderID,
			line.PrescriptionID,
			line.Name,
			line.Strength,
			line.Quantity,
			line.UnitPriceCents,
		)
		if err != nil {
			log.Error("failed to insert order line", zap.Error(err))
			return err
		}
	}

	// 3. Destroy the cart that produced the snapshot
	_, err = tx.ExecContext(ctx, `
		DELETE FROM carts WHERE patient_email = $1
	`, o.OwnerEmail)
	if err != nil {
		log.Error("failed to clear cart", zap.Error(err))
		return err
	}

	return tx.Commit()
}

const orderColumns = `
	id,
	owner_email,
	subtotal_cents,
	shipping_fee_cents,
	total_cents,
	status,
	payment_method,
	shipping_address,
	tracking_number,
	created_at,
	updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.OwnerEmail,
		&o.SubtotalCents,
		&o.ShippingFeeCents,
		&o.TotalCents,
		&o.Status,
		&o.PaymentMethod,
		&o.ShippingAddress,
		&o.TrackingNumber,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	query := `
	SELECT` + orderColumns + `
	FROM orders
	WHERE id = $1
	`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	lines, err := r.getLines(ctx, []uuid.UUID{o.ID})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[o.ID]

	return o, nil
}

func (r *repository) GetByOwner(ctx context.Context, ownerEmail string) ([]Order, error) {
	query := `
	SELECT` + orderColumns + `
	FROM orders
	WHERE owner_email = $1
	ORDER BY created_at DESC, seq DESC
	`
	return r.queryOrders(ctx, query, ownerEmail)
}

func (r *repository) GetAll(ctx context.Context) ([]Order, error) {
	query := `
	SELECT` + orderColumns + `
	FROM orders
	ORDER BY created_at DESC, seq DESC
	`
	return r.queryOrders(ctx, query)
}

func (r *repository) queryOrders(ctx context.Context, query string, args ...any) ([]Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "queryOrders"),
	)

	start := time.Now()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	var ids []uuid.UUID
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	if len(orders) > 0 {
		lines, err := r.getLines(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range orders {
			orders[i].Lines = lines[orders[i].ID]
		}
	}

	log.Debug("query success",
		zap.Int("rows", len(orders)),
		zap.Duration("duration", time.Since(start)),
	)

	return orders, nil
}

func (r *repository) getLines(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]Line, error) {
	query := `
	SELECT
		id,
		order_id,
		prescription_id,
		name,
		strength,
		quantity,
		unit_price_cents
	FROM order_lines
	WHERE order_id = ANY($1)
	ORDER BY order_id, id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]Line, len(orderIDs))
	for rows.Next() {
		var l Line
		if err := rows.Scan(
			&l.ID,
			&l.OrderID,
			&l.PrescriptionID,
			&l.Name,
			&l.Strength,
			&l.Quantity,
			&l.UnitPriceCents,
		); err != nil {
			return nil, err
		}
		result[l.OrderID] = append(result[l.OrderID], l)
	}

	return result, rows.Err()
}

// UpdateStatus advances an order by compare-and-swap on the current status.
// A concurrent writer that already moved the order past `from` loses the
// race cleanly instead of silently overwriting it.
func (r *repository) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return r.explainFailedTransition(ctx, id, from)
	}

	return nil
}

// MarkShipped sets the shipped status and the tracking number in one guarded
// update. The unique index on tracking_number surfaces collisions to the
// caller for retry.
func (r *repository) MarkShipped(ctx context.Context, id, trackingNumber string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, tracking_number = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4
	`, id, StatusShipped, trackingNumber, StatusProcessing)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return r.explainFailedTransition(ctx, id, StatusProcessing)
	}

	return nil
}

// explainFailedTransition distinguishes a missing order from one whose
// current status does not permit the requested transition.
func (r *repository) explainFailedTransition(ctx context.Context, id string, expected Status) error {
	var current Status
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1`, id,
	).Scan(&current)

	if err == sql.ErrNoRows {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	return fmt.Errorf("%w: status is %q, expected %q", ErrIllegalTransition, current, expected)
}

// IsUniqueViolation reports whether err is a postgres unique-constraint error.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == PgUniqueViolation
	}
	return false
}
