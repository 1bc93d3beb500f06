// Package users provides the PostgreSQL-backed repository for accounts,
// including the login attempt counter and ban timestamp.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cryptown/internal/common"
	"github.com/dmitrijs2005/cryptown/internal/dbx"
	"github.com/dmitrijs2005/cryptown/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectUser = `SELECT userid, email, username, password, attempts, bandatetime FROM users`

// Create inserts the user with a zero attempt counter. A duplicate email
// yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (userid, email, username, password, attempts)
		 VALUES ($1, $2, $3, $4, 0)
		 `

	if _, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.UserName, user.Password); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Attempts = 0
	user.BanDateTime = nil
	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE email = $1`, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE userid = $1`, userID)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.User, error) {
	user := &models.User{}
	var ban sql.NullTime

	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &user.UserName, &user.Password, &user.Attempts, &ban)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if ban.Valid {
		t := ban.Time
		user.BanDateTime = &t
	}
	return user, nil
}

// RecordFailedAttempt increments the attempt counter and, when the new value
// reaches maxAttempts while no ban is set, stamps now as the ban time. Both
// happen in one statement so concurrent failures can't lose increments or
// restart the ban. It returns the new counter value.
func (r *PostgresRepository) RecordFailedAttempt(ctx context.Context, userID string, maxAttempts int, now time.Time) (int, error) {
	query :=
		`UPDATE users SET
		     attempts = attempts + 1,
		     bandatetime = CASE
		         WHEN attempts + 1 >= $2 AND bandatetime IS NULL THEN $3
		         ELSE bandatetime
		     END
		 WHERE userid = $1
		 RETURNING attempts
		 `

	var attempts int
	if err := r.db.QueryRowContext(ctx, query, userID, maxAttempts, now).Scan(&attempts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return attempts, nil
}

// ResetAttempts zeroes the counter after a successful login.
func (r *PostgresRepository) ResetAttempts(ctx context.Context, userID string) error {
	query := `UPDATE users SET attempts = 0 WHERE userid = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// LiftBan clears an expired ban together with the counter.
func (r *PostgresRepository) LiftBan(ctx context.Context, userID string) error {
	query := `UPDATE users SET attempts = 0, bandatetime = NULL WHERE userid = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// UpdateProfile replaces username and password hash. An empty value leaves
// the stored column untouched.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, userID, userName, passwordHash string) error {
	query :=
		`UPDATE users SET
		     username = COALESCE(NULLIF($1, ''), username),
		     password = COALESCE(NULLIF($2, ''), password)
		 WHERE userid = $3
		 `

	if _, err := r.db.ExecContext(ctx, query, userName, passwordHash, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
