package sessiontokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, userID, token string) error {
	query := `INSERT INTO jwt (jwt, userid) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, token, userID); err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Find returns the record only when token belongs to userID.
func (r *PostgresRepository) Find(ctx context.Context, token, userID string) (*models.SessionToken, error) {
	query := `SELECT jwtid, jwt, userid, created_at FROM jwt WHERE jwt = $1 AND userid = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, token, userID))
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.SessionToken, error) {
	query := `SELECT jwtid, jwt, userid, created_at FROM jwt WHERE jwt = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.SessionToken, error) {
	t := &models.SessionToken{}
	if err := row.Scan(&t.ID, &t.Token, &t.UserID, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// Delete removes the (token, userID) record and reports how many rows went.
func (r *PostgresRepository) Delete(ctx context.Context, token, userID string) (int64, error) {
	query := `DELETE FROM jwt WHERE jwt = $1 AND userid = $2`

	res, err := r.db.ExecContext(ctx, query, token, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jwt`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
