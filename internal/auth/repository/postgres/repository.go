package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmartinemployment/acord-pcs-crm/internal/auth/domain"
)

// PgxIface is the slice of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db PgxIface
}

func NewPostgresRepository(db PgxIface) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, display_name, role, is_active,
		failed_login_attempts, locked_until, password_reset_token, password_reset_expires,
		last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.DisplayName,
		&u.Role, &u.IsActive, &u.FailedLoginAttempts, &u.LockedUntil, &u.PasswordResetToken,
		&u.PasswordResetExpires, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE lower(email) = lower($1) LIMIT 1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 LIMIT 1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, display_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.DisplayName,
		user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, firstName, lastName, displayName *string) (*domain.User, error) {
	query := fmt.Sprintf(`
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			display_name = COALESCE($4, display_name),
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, userColumns)

	return scanUser(r.db.QueryRow(ctx, query, id, firstName, lastName, displayName))
}

// RecordFailedLogin is the single statement that makes concurrent failed
// attempts safe: the counter bump and the lock decision happen inside the
// database, not in application code.
func (r *PostgresRepository) RecordFailedLogin(ctx context.Context, id string, maxAttempts int, lockWindow time.Duration) (*domain.User, error) {
	query := `
		UPDATE users SET
			failed_login_attempts = failed_login_attempts + 1,
			locked_until = CASE
				WHEN failed_login_attempts + 1 >= $2 THEN now() + $3
				ELSE locked_until
			END,
			updated_at = now()
		WHERE id = $1
		RETURNING failed_login_attempts, locked_until`

	u := domain.User{ID: id}
	err := r.db.QueryRow(ctx, query, id, maxAttempts, lockWindow).
		Scan(&u.FailedLoginAttempts, &u.LockedUntil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to record login failure: %w", err)
	}

	return &u, nil
}

func (r *PostgresRepository) ResetLoginState(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET
			failed_login_attempts = 0,
			locked_until = NULL,
			last_login_at = now(),
			updated_at = now()
		WHERE id = $1
	`, id)

	return err
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1
	`, id, passwordHash)

	return err
}

func (r *PostgresRepository) SetResetToken(ctx context.Context, id string, token string, expires time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET password_reset_token = $2, password_reset_expires = $3, updated_at = now()
		WHERE id = $1
	`, id, token, expires)

	return err
}

func (r *PostgresRepository) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE password_reset_token = $1 AND password_reset_expires > now()
		LIMIT 1`, userColumns)

	return scanUser(r.db.QueryRow(ctx, query, token))
}

func (r *PostgresRepository) ResetPassword(ctx context.Context, id string, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET
			password_hash = $2,
			password_reset_token = NULL,
			password_reset_expires = NULL,
			updated_at = now()
		WHERE id = $1
	`, id, passwordHash)

	return err
}

func (r *PostgresRepository) StoreRefreshToken(ctx context.Context, rt *domain.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (id, user_id, token, user_agent, ip_address, expires_at, created_at, revoked)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		rt.ID, rt.UserID, rt.Token, rt.UserAgent, rt.IPAddress, rt.ExpiresAt, rt.CreatedAt, rt.Revoked)

	return err
}

func (r *PostgresRepository) GetRefreshToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, user_agent, ip_address, expires_at, revoked, revoked_at, created_at
		FROM refresh_tokens
		WHERE token = $1
		LIMIT 1`

	var rt domain.RefreshToken
	err := r.db.QueryRow(ctx, query, token).Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.UserAgent,
		&rt.IPAddress, &rt.ExpiresAt, &rt.Revoked, &rt.RevokedAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &rt, nil
}

func (r *PostgresRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens SET revoked = TRUE, revoked_at = now()
		WHERE token = $1 AND revoked = FALSE
	`, token)

	return err
}

func (r *PostgresRepository) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens SET revoked = TRUE, revoked_at = now()
		WHERE user_id = $1 AND revoked = FALSE
	`, userID)

	return err
}
