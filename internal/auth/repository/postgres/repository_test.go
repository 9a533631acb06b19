package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jmartinemployment/acord-pcs-crm/internal/auth/domain"
	repo "github.com/jmartinemployment/acord-pcs-crm/internal/auth/repository/postgres"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{
	"id", "email", "password_hash", "first_name", "last_name", "display_name", "role", "is_active",
	"failed_login_attempts", "locked_until", "password_reset_token", "password_reset_expires",
	"last_login_at", "created_at", "updated_at",
}

func userRow(id, email string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(userColumns).
		AddRow(id, email, "hash", "Alice", "Smith", "Alice Smith", "AGENT", true,
			0, nil, nil, nil, nil, now, now)
}

func TestGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	userEmail := "alice@example.com"

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT[\\s\\S]+FROM users WHERE lower\\(email\\)").
			WithArgs(userEmail).
			WillReturnRows(userRow("user-123", userEmail))

		user, err := r.GetByEmail(ctx, userEmail)
		require.NoError(t, err)
		assert.Equal(t, "user-123", user.ID)
		assert.Equal(t, userEmail, user.Email)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT[\\s\\S]+FROM users WHERE lower\\(email\\)").
			WithArgs(userEmail).
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByEmail(ctx, userEmail)
		require.NoError(t, err) // no rows is not an error
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT[\\s\\S]+FROM users WHERE lower\\(email\\)").
			WithArgs(userEmail).
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.GetByEmail(ctx, userEmail)
		assert.Error(t, err)
	})
}

func TestGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT[\\s\\S]+FROM users WHERE id").
			WithArgs("user-123").
			WillReturnRows(userRow("user-123", "alice@example.com"))

		user, err := r.GetByID(ctx, "user-123")
		require.NoError(t, err)
		assert.Equal(t, "user-123", user.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT[\\s\\S]+FROM users WHERE id").
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	now := time.Now()
	user := &domain.User{
		ID:           "user-123",
		Email:        "new@example.com",
		PasswordHash: "new-hash",
		FirstName:    "New",
		LastName:     "User",
		DisplayName:  "New User",
		Role:         "AGENT",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
				user.DisplayName, user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, r.Create(ctx, user))
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
				user.DisplayName, user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt).
			WillReturnError(fmt.Errorf("db error"))

		assert.Error(t, r.Create(ctx, user))
	})
}

func TestRecordFailedLogin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("failure below the threshold leaves no lock", func(t *testing.T) {
		mock.ExpectQuery("UPDATE users SET\\s+failed_login_attempts = failed_login_attempts \\+ 1").
			WithArgs("user-123", 5, 30*time.Minute).
			WillReturnRows(pgxmock.NewRows([]string{"failed_login_attempts", "locked_until"}).
				AddRow(4, nil))

		user, err := r.RecordFailedLogin(ctx, "user-123", 5, 30*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 4, user.FailedLoginAttempts)
		assert.Nil(t, user.LockedUntil)
	})

	t.Run("fifth failure comes back locked", func(t *testing.T) {
		lockedUntil := time.Now().Add(30 * time.Minute)
		mock.ExpectQuery("UPDATE users SET\\s+failed_login_attempts = failed_login_attempts \\+ 1").
			WithArgs("user-123", 5, 30*time.Minute).
			WillReturnRows(pgxmock.NewRows([]string{"failed_login_attempts", "locked_until"}).
				AddRow(5, &lockedUntil))

		user, err := r.RecordFailedLogin(ctx, "user-123", 5, 30*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 5, user.FailedLoginAttempts)
		require.NotNil(t, user.LockedUntil)
		assert.WithinDuration(t, lockedUntil, *user.LockedUntil, time.Second)
	})

	t.Run("user vanished", func(t *testing.T) {
		mock.ExpectQuery("UPDATE users SET\\s+failed_login_attempts = failed_login_attempts \\+ 1").
			WithArgs("missing", 5, 30*time.Minute).
			WillReturnError(pgx.ErrNoRows)

		user, err := r.RecordFailedLogin(ctx, "missing", 5, 30*time.Minute)
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestResetLoginState(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)

	mock.ExpectExec("UPDATE users SET\\s+failed_login_attempts = 0").
		WithArgs("user-123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, r.ResetLoginState(context.Background(), "user-123"))
}

func TestPasswordResetQueries(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("SetResetToken", func(t *testing.T) {
		expires := time.Now().Add(time.Hour)
		mock.ExpectExec("UPDATE users SET password_reset_token").
			WithArgs("user-123", "opaque-token", expires).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, r.SetResetToken(ctx, "user-123", "opaque-token", expires))
	})

	t.Run("GetByResetToken filters expired tokens in SQL", func(t *testing.T) {
		mock.ExpectQuery("SELECT[\\s\\S]+FROM users\\s+WHERE password_reset_token = \\$1 AND password_reset_expires > now\\(\\)").
			WithArgs("opaque-token").
			WillReturnRows(userRow("user-123", "alice@example.com"))

		user, err := r.GetByResetToken(ctx, "opaque-token")
		require.NoError(t, err)
		assert.Equal(t, "user-123", user.ID)
	})

	t.Run("GetByResetToken unknown token", func(t *testing.T) {
		mock.ExpectQuery("SELECT[\\s\\S]+FROM users\\s+WHERE password_reset_token").
			WithArgs("stale-token").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByResetToken(ctx, "stale-token")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("ResetPassword clears both token fields", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET\\s+password_hash = \\$2,\\s+password_reset_token = NULL,\\s+password_reset_expires = NULL").
			WithArgs("user-123", "new-hash").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, r.ResetPassword(ctx, "user-123", "new-hash"))
	})
}

func TestUpdatePassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("user-123", "new-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, r.UpdatePassword(context.Background(), "user-123", "new-hash"))
}

func TestRefreshTokenQueries(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	now := time.Now()

	rt := &domain.RefreshToken{
		ID:        "token-id",
		UserID:    "user-123",
		Token:     "refresh-token",
		UserAgent: "test-agent",
		IPAddress: "192.168.1.1",
		ExpiresAt: now.Add(7 * 24 * time.Hour),
		CreatedAt: now,
		Revoked:   false,
	}

	t.Run("StoreRefreshToken", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO refresh_tokens").
			WithArgs(rt.ID, rt.UserID, rt.Token, rt.UserAgent, rt.IPAddress, rt.ExpiresAt, rt.CreatedAt, rt.Revoked).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, r.StoreRefreshToken(ctx, rt))
	})

	t.Run("GetRefreshToken success", func(t *testing.T) {
		columns := []string{"id", "user_id", "token", "user_agent", "ip_address", "expires_at", "revoked", "revoked_at", "created_at"}
		mock.ExpectQuery("SELECT[\\s\\S]+FROM refresh_tokens\\s+WHERE token").
			WithArgs(rt.Token).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(rt.ID, rt.UserID, rt.Token, rt.UserAgent, rt.IPAddress, rt.ExpiresAt, false, nil, rt.CreatedAt))

		got, err := r.GetRefreshToken(ctx, rt.Token)
		require.NoError(t, err)
		assert.Equal(t, rt.ID, got.ID)
		assert.Equal(t, rt.UserID, got.UserID)
		assert.False(t, got.Revoked)
	})

	t.Run("GetRefreshToken not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT[\\s\\S]+FROM refresh_tokens\\s+WHERE token").
			WithArgs("unknown").
			WillReturnError(pgx.ErrNoRows)

		got, err := r.GetRefreshToken(ctx, "unknown")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("RevokeRefreshToken is idempotent at the SQL level", func(t *testing.T) {
		mock.ExpectExec("UPDATE refresh_tokens SET revoked = TRUE").
			WithArgs(rt.Token).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0)) // already revoked: zero rows, no error

		assert.NoError(t, r.RevokeRefreshToken(ctx, rt.Token))
	})

	t.Run("RevokeAllRefreshTokens", func(t *testing.T) {
		mock.ExpectExec("UPDATE refresh_tokens SET revoked = TRUE").
			WithArgs("user-123").
			WillReturnResult(pgxmock.NewResult("UPDATE", 3))

		assert.NoError(t, r.RevokeAllRefreshTokens(ctx, "user-123"))
	})
}

func TestUpdateProfile(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	first := "Alice"

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("UPDATE users SET\\s+first_name = COALESCE").
			WithArgs("user-123", &first, (*string)(nil), (*string)(nil)).
			WillReturnRows(userRow("user-123", "alice@example.com"))

		user, err := r.UpdateProfile(ctx, "user-123", &first, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "user-123", user.ID)
	})

	t.Run("vanished", func(t *testing.T) {
		mock.ExpectQuery("UPDATE users SET\\s+first_name = COALESCE").
			WithArgs("missing", &first, (*string)(nil), (*string)(nil)).
			WillReturnError(pgx.ErrNoRows)

		user, err := r.UpdateProfile(ctx, "missing", &first, nil, nil)
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}
