package postgres

import (
	"context"

	models "github.com/dipdup-io/starknet-invoker/internal/storage"
	"github.com/dipdup-net/indexer-sdk/pkg/storage"
)

// Transaction -
type Transaction struct {
	storage.Transaction
}

// BeginTransaction -
func BeginTransaction(ctx context.Context, tx storage.Transactable) (Transaction, error) {
	t, err := tx.BeginTransaction(ctx)
	return Transaction{t}, err
}

// SaveAddress - inserts address if it's new and fills its id
func (t Transaction) SaveAddress(ctx context.Context, address *models.Address) error {
	_, err := t.Tx().NewInsert().
		Model(address).
		On("CONFLICT (hash) DO UPDATE").
		Set("hash = EXCLUDED.hash").
		Returning("id").
		Exec(ctx)
	return err
}

// SaveInvocation -
func (t Transaction) SaveInvocation(ctx context.Context, invocation *models.Invocation) error {
	_, err := t.Tx().NewInsert().Model(invocation).Returning("id").Exec(ctx)
	return err
}
