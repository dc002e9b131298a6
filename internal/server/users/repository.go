package users

import "context"

// Repository persists accounts. Implementations return
// shared.ErrorNotFound when no user matches and
// shared.ErrorLoginAlreadyExists on duplicate registration.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
}
