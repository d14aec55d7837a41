package postgres

import (
	"context"

	"github.com/dipdup-io/starknet-invoker/internal/storage"
	"github.com/dipdup-net/go-lib/database"
	"github.com/dipdup-net/indexer-sdk/pkg/storage/postgres"
)

// Invocation -
type Invocation struct {
	*postgres.Table[*storage.Invocation]
}

// NewInvocation -
func NewInvocation(db *database.Bun) *Invocation {
	return &Invocation{
		Table: postgres.NewTable[*storage.Invocation](db),
	}
}

// ByHash -
func (inv *Invocation) ByHash(ctx context.Context, hash []byte) (invocation storage.Invocation, err error) {
	err = inv.DB().NewSelect().
		Model(&invocation).
		Where("invocation.hash = ?", hash).
		Relation("Account").
		Relation("Contract").
		Limit(1).
		Scan(ctx)
	return
}

// GetByStatus - returns invocations with status which can be retried right now.
// Rows are postponed by `delay` seconds after the last update and by one more `delay` for every failed attempt after the first.
func (inv *Invocation) GetByStatus(ctx context.Context, status storage.Status, limit, offset, attempts, delay int) (response []storage.Invocation, err error) {
	if delay < 0 {
		delay = 0
	}
	query := inv.DB().NewSelect().
		Model(&response).
		Where("invocation.status = ?", status).
		Where("invocation.updated_at <= (extract(epoch from current_timestamp) - ? * greatest(invocation.attempts, 1))", delay).
		Relation("Account").
		Relation("Contract").
		OrderExpr("invocation.attempts asc, invocation.updated_at asc")

	if limit < 1 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	if attempts > 0 {
		query = query.Where("invocation.attempts < ?", attempts)
	}
	err = query.Limit(limit).Offset(offset).Scan(ctx)
	return
}
