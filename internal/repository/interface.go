package repository

import (
	"context"

	"maildash/internal/model"
)

// UserRepository defines the interface for user account storage. Only
// account state (identity, tokens) is persisted; cached email data never
// outlives the process.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}
