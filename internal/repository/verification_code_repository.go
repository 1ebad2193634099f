package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
)

// VerificationCodeRepository persists hashed one-time passcodes.
type VerificationCodeRepository struct {
	db *sqlx.DB
}

// NewVerificationCodeRepository constructs a VerificationCodeRepository.
func NewVerificationCodeRepository(db *sqlx.DB) *VerificationCodeRepository {
	return &VerificationCodeRepository{db: db}
}

// Create stores a new code, invalidating any unused codes previously issued to the same email.
func (r *VerificationCodeRepository) Create(ctx context.Context, code *models.VerificationCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin verification code tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `UPDATE verification_codes SET used = TRUE WHERE email = $1 AND used = FALSE`, code.Email); err != nil {
		return fmt.Errorf("invalidate previous codes: %w", err)
	}
	const insert = `INSERT INTO verification_codes (id, email, code_hash, expires_at, attempts, used, created_at)
        VALUES (:id, :email, :code_hash, :expires_at, :attempts, :used, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insert, code); err != nil {
		return fmt.Errorf("create verification code: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit verification code: %w", err)
	}
	return nil
}

// LatestUnused returns the most recent unused code for email.
func (r *VerificationCodeRepository) LatestUnused(ctx context.Context, email string) (*models.VerificationCode, error) {
	const query = `SELECT id, email, code_hash, expires_at, attempts, used, created_at FROM verification_codes
        WHERE email = $1 AND used = FALSE ORDER BY created_at DESC LIMIT 1`
	var code models.VerificationCode
	if err := r.db.GetContext(ctx, &code, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find verification code: %w", err)
	}
	return &code, nil
}

// LastIssuedAt returns when the newest code for email was created, or the zero time when none was.
func (r *VerificationCodeRepository) LastIssuedAt(ctx context.Context, email string) (time.Time, error) {
	const query = `SELECT created_at FROM verification_codes WHERE email = $1 ORDER BY created_at DESC LIMIT 1`
	var issued time.Time
	if err := r.db.GetContext(ctx, &issued, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("last verification code: %w", err)
	}
	return issued, nil
}

// IncrementAttempts records a failed verification and returns the new attempt count.
func (r *VerificationCodeRepository) IncrementAttempts(ctx context.Context, id string) (int, error) {
	const query = `UPDATE verification_codes SET attempts = attempts + 1 WHERE id = $1 RETURNING attempts`
	var attempts int
	if err := r.db.GetContext(ctx, &attempts, query, id); err != nil {
		return 0, fmt.Errorf("increment verification attempts: %w", err)
	}
	return attempts, nil
}

// MarkUsed consumes a code.
func (r *VerificationCodeRepository) MarkUsed(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE verification_codes SET used = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark verification code used: %w", err)
	}
	return nil
}

// DeleteExpired removes used codes and codes that expired before now.
func (r *VerificationCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM verification_codes WHERE used = TRUE OR expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purge verification codes: %w", err)
	}
	return res.RowsAffected()
}
