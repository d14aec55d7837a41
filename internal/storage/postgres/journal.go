package postgres

import (
	"context"

	models "github.com/dipdup-io/starknet-invoker/internal/storage"
	"github.com/dipdup-net/indexer-sdk/pkg/storage"
)

// Journal - invocation table which saves sender and contract addresses together with invocation
type Journal struct {
	*Invocation

	transactable storage.Transactable
}

// NewJournal -
func NewJournal(invocations *Invocation, transactable storage.Transactable) Journal {
	return Journal{
		Invocation:   invocations,
		transactable: transactable,
	}
}

// Save -
func (j Journal) Save(ctx context.Context, invocation *models.Invocation) error {
	tx, err := BeginTransaction(ctx, j.transactable)
	if err != nil {
		return err
	}
	defer tx.Close(ctx)

	if err := tx.SaveAddress(ctx, &invocation.Account); err != nil {
		return tx.HandleError(ctx, err)
	}
	invocation.AccountID = invocation.Account.ID

	if err := tx.SaveAddress(ctx, &invocation.Contract); err != nil {
		return tx.HandleError(ctx, err)
	}
	invocation.ContractID = invocation.Contract.ID

	if err := tx.SaveInvocation(ctx, invocation); err != nil {
		return tx.HandleError(ctx, err)
	}

	if err := tx.Flush(ctx); err != nil {
		return tx.HandleError(ctx, err)
	}
	return nil
}
