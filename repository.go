package ibanledger

import (
	"context"
)

//go:generate mockgen -destination=mocks/repository.go -package=mocks . Repository

// Repository is the durable account store keyed by IBAN.
type Repository interface {
	// GetByIban returns the account for the given IBAN or ErrNotFound.
	GetByIban(ctx context.Context, iban string) (*Account, error)
	GetAll(ctx context.Context) ([]Account, error)
	// Upsert inserts or replaces the account keyed by its IBAN and returns
	// the stored row, which carries the store-assigned ID.
	Upsert(ctx context.Context, acct Account) (*Account, error)
	// UpsertMany applies all writes atomically; either every account in the
	// batch is stored or none is.
	UpsertMany(ctx context.Context, accts []Account) ([]Account, error)
}
