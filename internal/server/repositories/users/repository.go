package users

import (
	"context"

	"github.com/dmitrijs2005/userauth/internal/server/models"
)

// Repository is the user store. Lookups that match nothing return
// common.ErrorNotFound; a duplicate email on Create returns common.ErrorConflict.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id int64, info models.UserInfo) error
	Delete(ctx context.Context, id int64) error
}
