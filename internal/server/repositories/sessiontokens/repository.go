package sessiontokens

import (
	"context"

	"github.com/dmitrijs2005/cryptown/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID, token string) error
	Find(ctx context.Context, token, userID string) (*models.SessionToken, error)
	FindByToken(ctx context.Context, token string) (*models.SessionToken, error)
	Delete(ctx context.Context, token, userID string) (int64, error)
	Count(ctx context.Context) (int, error)
}
