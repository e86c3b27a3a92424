package user

import (
	"context"
	"crypto/subtle"

	"github.com/propellur/moca-patient-portal/internal/config"
	"github.com/propellur/moca-patient-portal/internal/logger"

	"go.uber.org/zap"
)

// Service is the authentication gate. Patients authenticate with a one-time
// code, admins with email/password; both end up with a signed, expiring
// session token instead of a bare authenticated flag.
type Service interface {
	RequestCode(ctx context.Context, email string) (string, error)
	VerifyCode(ctx context.Context, email, code string) (string, Patient, error)
	AdminLogin(ctx context.Context, email, password string) (string, Admin, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}

type service struct {
	repo Repository
	cfg  *config.Config
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{repo: repo, cfg: cfg}
}

// RequestCode registers the patient and returns the verification code to be
// delivered out-of-band. The prototype uses one configured code for every
// attempt; the handler decides how to surface it.
func (s *service) RequestCode(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", ErrEmailRequired
	}

	log := logger.FromCtx(ctx)

	if _, err := s.repo.UpsertPatient(ctx, email); err != nil {
		return "", err
	}

	log.Info("verification code issued", zap.String("email", email))

	return s.cfg.OneTimeCode, nil
}

// VerifyCode exchanges a correct code for a patient session token.
func (s *service) VerifyCode(ctx context.Context, email, code string) (string, Patient, error) {
	if email == "" {
		return "", Patient{}, ErrEmailRequired
	}

	log := logger.FromCtx(ctx)

	if subtle.ConstantTimeCompare([]byte(code), []byte(s.cfg.OneTimeCode)) != 1 {
		log.Warn("verification code mismatch", zap.String("email", email))
		return "", Patient{}, ErrInvalidCode
	}

	p, err := s.repo.FindPatientByEmail(ctx, email)
	if err != nil {
		return "", Patient{}, err
	}
	if p == nil {
		// Code verified without a prior RequestCode; register on the fly.
		created, err := s.repo.UpsertPatient(ctx, email)
		if err != nil {
			return "", Patient{}, err
		}
		p = &created
	}

	token, err := GenerateJWT(p.Email, RolePatient)
	if err != nil {
		log.Error("failed to generate jwt", zap.String("email", email), zap.Error(err))
		return "", Patient{}, err
	}

	log.Info("patient authenticated", zap.String("email", email))

	return token, *p, nil
}

// AdminLogin checks the credential pair against admin_users.
func (s *service) AdminLogin(ctx context.Context, email, password string) (string, Admin, error) {
	log := logger.FromCtx(ctx)

	a, err := s.repo.FindAdminByEmail(ctx, email)
	if err != nil {
		return "", Admin{}, err
	}
	if a == nil || !CheckPasswordHash(password, a.PasswordHash) {
		log.Warn("admin login rejected", zap.String("email", email))
		return "", Admin{}, ErrInvalidCredentials
	}

	token, err := GenerateJWT(a.Email, RoleAdmin)
	if err != nil {
		return "", Admin{}, err
	}

	log.Info("admin authenticated", zap.String("email", email))

	return token, *a, nil
}

// EnsureAdmin seeds the bootstrap admin account from configuration at
// startup so a fresh database is immediately usable.
func (s *service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	return s.repo.UpsertAdmin(ctx, email, hash)
}
