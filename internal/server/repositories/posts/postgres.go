// Package posts stores top-level forum posts.
package posts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cryptown/internal/dbx"
	"github.com/dmitrijs2005/cryptown/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) error {
	query := `INSERT INTO posts (postid, userid, post, datetime) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, post.ID, post.UserID, post.Body, post.DateTime); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context, postID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM posts WHERE postid = $1)`
	if err := r.db.QueryRowContext(ctx, query, postID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// List returns every post ordered by datetime, ties broken by id.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Post, error) {
	query := `SELECT postid, userid, post, datetime FROM posts ORDER BY datetime, postid`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Body, &p.DateTime); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
