package prescription

import (
	"context"
	"database/sql"
	"time"

	"github.com/propellur/moca-patient-portal/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetByPatient(ctx context.Context, patientEmail string) ([]Prescription, error)
	GetByID(ctx context.Context, id string) (*Prescription, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const prescriptionColumns = `
	id,
	patient_email,
	name,
	strength,
	quantity,
	repeats_left,
	prescribed_at,
	expires_at,
	status,
	dosing_interval,
	unit_price_cents`

func (r *repository) GetByPatient(ctx context.Context, patientEmail string) ([]Prescription, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetByPatient"),
		zap.String("patient_email", patientEmail),
	)

	start := time.Now()

	query := `
	SELECT` + prescriptionColumns + `
	FROM prescriptions
	WHERE patient_email = $1
	ORDER BY prescribed_at DESC
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

	var result []Prescription
	for rows.Next() {
		var p Prescription
		if err := rows.Scan(
			&p.ID,
			&p.PatientEmail,
			&p.Name,
			&p.Strength,
			&p.Quantity,
			&p.RepeatsLeft,
			&p.PrescribedAt,
			&p.ExpiresAt,
			&p.Status,
			&p.DosingInterval,
			&p.UnitPriceCents,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Debug("query success",
		zap.Int("rows", len(result)),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Prescription, error) {
	query := `
	SELECT` + prescriptionColumns + `
	FROM prescriptions
	WHERE id = $1
	`

	var p Prescription
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.PatientEmail,
		&p.Name,
		&p.Strength,
		&p.Quantity,
		&p.RepeatsLeft,
		&p.PrescribedAt,
		&p.ExpiresAt,
		&p.Status,
		&p.DosingInterval,
		&p.UnitPriceCents,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}
