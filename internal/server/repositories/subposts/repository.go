package subposts

import (
	"context"

	"github.com/dmitrijs2005/cryptown/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, sp *models.SubPost) error
	List(ctx context.Context) ([]models.SubPost, error)
}
