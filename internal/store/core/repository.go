package core

import "context"

// AccountStore is the persistence boundary for accounts.
//
// Create must enforce uniqueness on (email, provider) at the storage
// layer and return ErrConflict on violation; callers treat a conflict
// as "already exists, re-fetch". That contract is what makes
// concurrent duplicate social callbacks converge on one account.
type AccountStore interface {
	Ping(ctx context.Context) error

	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmailProvider(ctx context.Context, email, provider string) (*Account, error)

	Create(ctx context.Context, a *Account) error
	Update(ctx context.Context, a *Account) error
	Delete(ctx context.Context, id string) error
}
