// Package subposts stores replies to forum posts.
package subposts

import (
	"context"
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

// Create inserts the reply. A missing parent post yields common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, sp *models.SubPost) error {
	query :=
		`INSERT INTO subposts (subpostid, postid, userid, post, datetime)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	if _, err := r.db.ExecContext(ctx, query, sp.ID, sp.PostID, sp.UserID, sp.Body, sp.DateTime); err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns every reply ordered by datetime, ties broken by id.
func (r *PostgresRepository) List(ctx context.Context) ([]models.SubPost, error) {
	query := `SELECT subpostid, postid, userid, post, datetime FROM subposts ORDER BY datetime, subpostid`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.SubPost
	for rows.Next() {
		var sp models.SubPost
		if err := rows.Scan(&sp.ID, &sp.PostID, &sp.UserID, &sp.Body, &sp.DateTime); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
