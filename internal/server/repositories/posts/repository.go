package posts

import (
	"context"

	"github.com/dmitrijs2005/cryptown/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) error
	Exists(ctx context.Context, postID string) (bool, error)
	List(ctx context.Context) ([]models.Post, error)
}
