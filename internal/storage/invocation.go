package storage

import (
	"context"
	"time"

	"github.com/dipdup-io/starknet-invoker/internal/types"
	"github.com/dipdup-net/indexer-sdk/pkg/storage"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// InvocationUpdateID - incremental counter
var InvocationUpdateID = types.NewCounter(0)

// SetLastUpdateID -
func SetLastUpdateID(id int64) {
	InvocationUpdateID.Set(id)
}

// IInvocation -
type IInvocation interface {
	storage.Table[*Invocation]

	GetByStatus(ctx context.Context, status Status, limit, offset, attempts, delay int) ([]Invocation, error)
	ByHash(ctx context.Context, hash []byte) (Invocation, error)
}

// Invocation -
type Invocation struct {
	bun.BaseModel `bun:"table:invocation" comment:"Table contains invoke transactions sent by the account"`

	ID           uint64          `bun:"id,pk,autoincrement" comment:"Unique internal identity"`
	CreatedAt    int64           `comment:"Time when row was created"`
	UpdatedAt    int64           `comment:"Time when row was last updated"`
	UpdateID     int64           `json:"-" bun:",notnull" comment:"Update counter, increments on each and any invocation update"`
	AccountID    uint64          `comment:"Sender account id"`
	ContractID   uint64          `comment:"Called contract id"`
	Entrypoint   string          `comment:"Called entrypoint name"`
	Selector     []byte          `comment:"Entrypoint selector"`
	Calldata     []string        `bun:",array" comment:"Call arguments as hex felts"`
	Hash         []byte          `bun:",nullzero,unique:invocation_hash" comment:"Transaction hash"`
	Nonce        uint64          `comment:"Account nonce used by transaction"`
	Status       Status          `bun:",type:invocation_status" comment:"Status of the invocation"`
	Attempts     uint            `bun:",type:SMALLINT,notnull" comment:"Attempts count of receiving transaction receipt"`
	Error        *string         `comment:"If invocation is failed this field contains error string"`
	RevertReason *string         `comment:"Revert reason reported by the sequencer"`
	BlockNumber  uint64          `comment:"Height of the block which includes transaction"`
	Fee          decimal.Decimal `bun:",type:numeric" comment:"Actual fee paid"`
	FeeUnit      string          `comment:"Unit of the fee: WEI or FRI"`

	Account  Address `bun:"rel:belongs-to,join:account_id=id" hasura:"table:address,field:account_id,remote_field:id,type:oto,name:account"`
	Contract Address `bun:"rel:belongs-to,join:contract_id=id" hasura:"table:address,field:contract_id,remote_field:id,type:oto,name:contract"`
}

// TableName -
func (Invocation) TableName() string {
	return "invocation"
}

var _ bun.BeforeAppendModelHook = (*Invocation)(nil)

// BeforeAppendModel -
func (inv *Invocation) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		inv.UpdatedAt = time.Now().Unix()
		inv.CreatedAt = inv.UpdatedAt
		inv.UpdateID = InvocationUpdateID.Increment()
	case *bun.UpdateQuery:
		inv.UpdatedAt = time.Now().Unix()
		inv.UpdateID = InvocationUpdateID.Increment()
	}
	return nil
}

// SetError -
func (inv *Invocation) SetError(err error) {
	if err == nil {
		inv.Error = nil
		return
	}
	msg := err.Error()
	inv.Error = &msg
}
