package executor

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/dipdup-io/starknet-invoker/internal/account"
	"github.com/dipdup-io/starknet-invoker/internal/storage"
	"github.com/karlseguin/ccache/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// errors
var (
	ErrEmptyContract   = errors.New("empty contract address")
	ErrEmptyEntrypoint = errors.New("empty entrypoint")
	ErrExecution       = errors.New("transaction execution")
	ErrReverted        = errors.New("transaction reverted")
)

// Journal - persistent log of invocations
type Journal interface {
	Save(ctx context.Context, invocation *storage.Invocation) error
	Update(ctx context.Context, invocation *storage.Invocation) error
}

// Request -
type Request struct {
	Contract     *felt.Felt
	Entrypoint   string
	Calldata     []*felt.Felt
	Wait         bool
	PollInterval time.Duration
}

// Result -
type Result struct {
	Hash         *felt.Felt
	Receipt      *account.Receipt
	InvocationID uint64
}

// Executor - sends contract calls on behalf of the account
type Executor struct {
	account account.Account
	journal Journal
	cache   *ccache.Cache
}

// Option -
type Option func(*Executor)

// WithJournal - every invocation is saved to the journal
func WithJournal(journal Journal) Option {
	return func(e *Executor) {
		e.journal = journal
	}
}

// New -
func New(acc account.Account, opts ...Option) *Executor {
	e := &Executor{
		account: acc,
		cache:   ccache.New(ccache.Configure().MaxSize(100)),
	}
	for i := range opts {
		opts[i](e)
	}
	return e
}

// Execute - sends invoke transaction with single call. If `Wait` is set it blocks until receipt is received.
func (e *Executor) Execute(ctx context.Context, req Request) (Result, error) {
	var result Result

	if req.Contract == nil {
		return result, ErrEmptyContract
	}
	if req.Entrypoint == "" {
		return result, ErrEmptyEntrypoint
	}

	call := account.Call{
		To:         req.Contract,
		Entrypoint: req.Entrypoint,
		Calldata:   req.Calldata,
	}
	selector, err := e.selector(req.Entrypoint)
	if err != nil {
		return result, err
	}

	invocation, err := e.begin(ctx, call, selector)
	if err != nil {
		return result, errors.Wrap(err, "saving invocation")
	}
	if invocation != nil {
		result.InvocationID = invocation.ID
	}

	log.Info().
		Str("account", e.account.Address().String()).
		Str("contract", req.Contract.String()).
		Str("entrypoint", req.Entrypoint).
		Str("selector", selector.String()).
		Int("calldata_len", len(req.Calldata)).
		Msg("sending transaction")

	hash, err := e.account.Execute(ctx, []account.Call{call})
	if err != nil {
		e.finish(ctx, invocation, func(inv *storage.Invocation) {
			inv.Status = storage.StatusFailed
			inv.SetError(err)
		})
		return result, fmt.Errorf("%w: %w", ErrExecution, err)
	}
	result.Hash = hash

	log.Info().Str("hash", account.FormatHash(hash)).Msg("transaction sent")

	e.finish(ctx, invocation, func(inv *storage.Invocation) {
		inv.Status = storage.StatusSent
		inv.Hash = FeltBytes(hash)
	})

	if !req.Wait {
		return result, nil
	}

	receipt, err := e.account.WaitForReceipt(ctx, hash, req.PollInterval)
	if err != nil {
		return result, errors.Wrap(err, "waiting for receipt")
	}
	result.Receipt = &receipt

	log.Info().
		Str("hash", account.FormatHash(hash)).
		Uint64("block", receipt.BlockNumber).
		Str("execution_status", receipt.ExecutionStatus).
		Str("finality_status", receipt.FinalityStatus).
		Msg("receipt received")

	e.finish(ctx, invocation, func(inv *storage.Invocation) {
		ApplyReceipt(inv, receipt)
	})

	if receipt.IsReverted() {
		return result, errors.Wrap(ErrReverted, receipt.RevertReason)
	}
	return result, nil
}

// Repeat - executes request right away and then every `every` until context is done
func (e *Executor) Repeat(ctx context.Context, req Request, every time.Duration, handler func(Result, error)) {
	handler(e.Execute(ctx, req))

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			handler(e.Execute(ctx, req))
		}
	}
}

// Close -
func (e *Executor) Close() error {
	e.cache.Stop()
	return nil
}

func (e *Executor) selector(entrypoint string) (*felt.Felt, error) {
	item, err := e.cache.Fetch(entrypoint, time.Hour, func() (interface{}, error) {
		return account.Selector(entrypoint), nil
	})
	if err != nil {
		return nil, err
	}
	return item.Value().(*felt.Felt), nil
}

func (e *Executor) begin(ctx context.Context, call account.Call, selector *felt.Felt) (*storage.Invocation, error) {
	if e.journal == nil {
		return nil, nil
	}

	invocation := &storage.Invocation{
		Entrypoint: call.Entrypoint,
		Selector:   FeltBytes(selector),
		Calldata:   call.CalldataStrings(),
		Status:     storage.StatusNew,
		Account: storage.Address{
			Hash: FeltBytes(e.account.Address()),
		},
		Contract: storage.Address{
			Hash: FeltBytes(call.To),
		},
	}

	if nonce, err := e.account.Nonce(ctx); err != nil {
		log.Warn().Err(err).Msg("receiving nonce")
	} else if nonce != nil {
		invocation.Nonce = nonce.BigInt(new(big.Int)).Uint64()
	}

	if err := e.journal.Save(ctx, invocation); err != nil {
		return nil, err
	}
	return invocation, nil
}

func (e *Executor) finish(ctx context.Context, invocation *storage.Invocation, apply func(inv *storage.Invocation)) {
	if e.journal == nil || invocation == nil {
		return
	}
	apply(invocation)
	if err := e.journal.Update(ctx, invocation); err != nil {
		log.Err(err).Uint64("id", invocation.ID).Msg("saving invocation")
	}
}
