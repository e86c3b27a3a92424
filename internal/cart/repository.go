package cart

import (
	"context"
	"database/sql"
	"time"

	"github.com/propellur/moca-patient-portal/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetLines(ctx context.Context, patientEmail string) ([]Line, error)
	GetLineByPatientAndPrescription(
		ctx context.Context,
		patientEmail string,
		prescriptionID string,
	) (*Line, error)
	CreateLine(ctx context.Context, params CreateLineParams) (*Line, error)
	UpdateLineQuantity(ctx context.Context, lineID string, quantity int) (*Line, error)
	RemoveLine(ctx context.Context, patientEmail, prescriptionID string) error
	ClearCart(ctx context.Context, patientEmail string) error
}

type CreateLineParams struct {
	PatientEmail   string
	PrescriptionID string
	Quantity       int
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetLines(ctx context.Context, patientEmail string) ([]Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetLines"),
		zap.String("patient_email", patientEmail),
	)

	start := time.Now()

	query := `
	SELECT
		c.id,
		c.patient_email,
		c.prescription_id,
		p.name,
		p.strength,
		c.quantity,
		p.unit_price_cents,
		c.created_at,
		c.updated_at
	FROM carts c
	JOIN prescriptions p ON c.prescription_id = p.id
	WHERE c.patient_email = $1
	ORDER BY c.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, patientEmail)
	if err != nil {
		log.Error("query failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(
			&l.ID,
			&l.PatientEmail,
			&l.PrescriptionID,
			&l.Name,
			&l.Strength,
			&l.Quantity,
			&l.UnitPriceCents,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Debug("query success",
		zap.Int("rows", len(lines)),
		zap.Duration("duration", time.Since(start)),
	)

	return lines, nil
}

func (r *repository) GetLineByPatientAndPrescription(
	ctx context.Context,
	patientEmail string,
	prescriptionID string,
) (*Line, error) {

	query := `
	SELECT
		id,
		patient_email,
		prescription_id,
		quantity,
		created_at,
		updated_at
	FROM carts
	WHERE patient_email = $1 AND prescription_id = $2
	`

	var l Line
	err := r.db.QueryRowContext(ctx, query, patientEmail, prescriptionID).Scan(
		&l.ID,
		&l.PatientEmail,
		&l.PrescriptionID,
		&l.Quantity,
		&l.CreatedAt,
		&l.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &l, nil
}

func (r *repository) CreateLine(ctx context.Context, params CreateLineParams) (*Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateLine"),
		zap.String("patient_email", params.PatientEmail),
		zap.String("prescription_id", params.PrescriptionID),
	)

	query := `
	INSERT INTO carts (
		patient_email,
		prescription_id,
		quantity
	)
	VALUES ($1, $2, $3)
	RETURNING
		id,
		patient_email,
		prescription_id,
		quantity,
		created_at,
		updated_at
	`

	var l Line
	err := r.db.QueryRowContext(
		ctx,
		query,
		params.PatientEmail,
		params.PrescriptionID,
		params.Quantity,
	).Scan(
		&l.ID,
		&l.PatientEmail,
		&l.PrescriptionID,
		&l.Quantity,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create cart line", zap.Error(err))
		return nil, err
	}

	log.Info("cart line created", zap.String("cart_line_id", l.ID.String()))

	return &l, nil
}

func (r *repository) UpdateLineQuantity(ctx context.Context, lineID string, quantity int) (*Line, error) {
	query := `
	UPDATE carts
	SET quantity = $1,
	    updated_at = NOW()
	WHERE id = $2
	RETURNING
		id,
		patient_email,
		prescription_id,
		quantity,
		created_at,
		updated_at
	`

	var l Line
	err := r.db.QueryRowContext(ctx, query, quantity, lineID).Scan(
		&l.ID,
		&l.PatientEmail,
		&l.PrescriptionID,
		&l.Quantity,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

func (r *repository) RemoveLine(ctx context.Context, patientEmail, prescriptionID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE patient_email = $1 AND prescription_id = $2
	`, patientEmail, prescriptionID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartLineNotFound
	}

	return nil
}

func (r *repository) ClearCart(ctx context.Context, patientEmail string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE patient_email = $1
	`, patientEmail)
	return err
}
