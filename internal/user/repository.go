package user

import (
	"context"
	"database/sql"

	"github.com/propellur/moca-patient-portal/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	UpsertPatient(ctx context.Context, email string) (Patient, error)
	FindPatientByEmail(ctx context.Context, email string) (*Patient, error)
	FindAdminByEmail(ctx context.Context, email string) (*Admin, error)
	UpsertAdmin(ctx context.Context, email, passwordHash string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) UpsertPatient(ctx context.Context, email string) (Patient, error) {
	log := logger.FromCtx(ctx)

	var p Patient
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email)
		VALUES ($1)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, email, created_at
	`, email).Scan(&p.ID, &p.Email, &p.CreatedAt)

	if err != nil {
		log.Error("db: failed to upsert patient",
			zap.String("email", email),
			zap.Error(err),
		)
	}

	return p, err
}

func (r *repository) FindPatientByEmail(ctx context.Context, email string) (*Patient, error) {
	var p Patient
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&p.ID, &p.Email, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) FindAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	var a Admin
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM admin_users WHERE email = $1`,
		email,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *repository) UpsertAdmin(ctx context.Context, email, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_users (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
	`, email, passwordHash)
	return err
}
