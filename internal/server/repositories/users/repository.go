package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cryptown/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	RecordFailedAttempt(ctx context.Context, userID string, maxAttempts int, now time.Time) (int, error)
	ResetAttempts(ctx context.Context, userID string) error
	LiftBan(ctx context.Context, userID string) error
	UpdateProfile(ctx context.Context, userID, userName, passwordHash string) error
	Count(ctx context.Context) (int, error)
}
