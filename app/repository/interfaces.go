package repository

import (
	"context"

	"github.com/subsyncapp/subsync/app/models"
)

// UserRepository provides read access to accounts owned by the auth
// collaborator. Reconciliation never writes users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
