package users

import (
	"context"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
)

type Repository interface {
	Create(ctx context.Context, u models.User) error
	// GetByID and GetByPhone return (nil, nil) when there is no such user.
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	// ListByRole returns users of role ordered by name.
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	// Update rewrites name, email and phone.
	Update(ctx context.Context, u models.User) error
	// Delete removes a user and its session. Protected users are refused;
	// unknown ids are a no-op.
	Delete(ctx context.Context, id string) error
}
