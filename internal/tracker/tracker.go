package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/dipdup-io/starknet-invoker/internal/account"
	"github.com/dipdup-io/starknet-invoker/internal/executor"
	"github.com/dipdup-io/starknet-invoker/internal/storage"
	"github.com/dipdup-io/starknet-invoker/internal/types"
	"github.com/dipdup-io/workerpool"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Name - name of tracker's state
const Name = "tracker"

// ErrEmptyHash -
var ErrEmptyHash = errors.New("invocation without transaction hash")

// Receipts -
type Receipts interface {
	Receipt(ctx context.Context, hash *felt.Felt) (account.Receipt, error)
}

// Invocations -
type Invocations interface {
	GetByStatus(ctx context.Context, status storage.Status, limit, offset, attempts, delay int) ([]storage.Invocation, error)
	Update(ctx context.Context, invocation *storage.Invocation) error
}

// States -
type States interface {
	ByName(ctx context.Context, name string) (storage.State, error)
	Save(ctx context.Context, state *storage.State) error
	Update(ctx context.Context, state *storage.State) error
	IsNoRows(err error) bool
}

// Config -
type Config struct {
	WorkersCount int `yaml:"workers_count" validate:"omitempty,min=1"`
	MaxAttempts  int `yaml:"max_attempts" validate:"omitempty,min=1"`
	Delay        int `yaml:"delay" validate:"omitempty,min=1"`
	Timeout      int `yaml:"timeout" validate:"omitempty,min=1"`
}

// Tracker - polls receipts of sent transactions and finalizes their invocations
type Tracker struct {
	receipts     Receipts
	storage      Invocations
	states       States
	state        *storage.State
	pool         *workerpool.Pool[storage.Invocation]
	queue        *types.Queue
	workersCount int
	delay        int
	timeout      time.Duration
	maxAttempts  uint

	mx *sync.Mutex
	wg *sync.WaitGroup
}

// New -
func New(cfg Config, receipts Receipts, invocations Invocations, states States) *Tracker {
	var (
		workersCount = 4
		maxAttempts  = 10
		delay        = 10
		timeout      = 10
	)

	if cfg.WorkersCount > 0 {
		workersCount = cfg.WorkersCount
	}
	if cfg.MaxAttempts > 0 {
		maxAttempts = cfg.MaxAttempts
	}
	if cfg.Delay > 0 {
		delay = cfg.Delay
	}
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	t := &Tracker{
		receipts:     receipts,
		storage:      invocations,
		states:       states,
		state:        &storage.State{Name: Name},
		queue:        types.NewQueue(),
		workersCount: workersCount,
		delay:        delay,
		timeout:      time.Second * time.Duration(timeout),
		maxAttempts:  uint(maxAttempts),
		mx:           new(sync.Mutex),
		wg:           new(sync.WaitGroup),
	}
	t.pool = workerpool.NewPool(t.worker, workersCount)
	return t
}

// Start -
func (t *Tracker) Start(ctx context.Context) error {
	if err := t.init(ctx); err != nil {
		return errors.Wrap(err, "state initialization")
	}

	t.pool.Start(ctx)

	t.wg.Add(1)
	go t.work(ctx)
	return nil
}

// State -
func (t *Tracker) State() storage.State {
	t.mx.Lock()
	defer t.mx.Unlock()
	return *t.state
}

func (t *Tracker) init(ctx context.Context) error {
	state, err := t.states.ByName(ctx, Name)
	if err != nil {
		if !t.states.IsNoRows(err) {
			return err
		}
		return t.states.Save(ctx, t.state)
	}
	t.state = &state
	log.Info().Uint64("last_height", state.LastHeight).Msg("tracker state loaded")
	return nil
}

func (t *Tracker) work(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(time.Millisecond * 100)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if t.pool.QueueSize() > t.workersCount {
				continue
			}
			tasks, err := t.storage.GetByStatus(ctx, storage.StatusSent, 100, 0, int(t.maxAttempts), t.delay)
			if err != nil {
				log.Err(err).Msg("receiving sent invocations")
				continue
			}

			if len(tasks) == 0 {
				time.Sleep(time.Second)
				continue
			}

			for i := range tasks {
				if t.queue.Contains(tasks[i].ID) {
					continue
				}
				t.queue.Add(tasks[i].ID)
				t.pool.AddTask(tasks[i])
			}
		}
	}
}

func (t *Tracker) worker(ctx context.Context, task storage.Invocation) {
	defer t.queue.Delete(task.ID)

	if task.Status.IsFinal() {
		return
	}

	if len(task.Hash) == 0 {
		task.Status = storage.StatusFailed
		task.Attempts = t.maxAttempts
		task.SetError(ErrEmptyHash)
		log.Err(ErrEmptyHash).Uint64("id", task.ID).Msg("fail to track invocation")

		if err := t.storage.Update(ctx, &task); err != nil {
			log.Err(err).Uint64("id", task.ID).Msg("saving invocation in tracker")
		}
		return
	}

	hash := new(felt.Felt).SetBytes(task.Hash)
	task.Attempts += 1

	log.Info().
		Uint64("id", task.ID).
		Uint("attempt", task.Attempts).
		Str("hash", account.FormatHash(hash)).
		Msg("try to receive transaction receipt")

	timeoutCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	receipt, err := t.receipts.Receipt(timeoutCtx, hash)
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return
		}
		task.SetError(err)
		if task.Attempts >= t.maxAttempts {
			task.Status = storage.StatusFailed
		}
		log.Err(err).Uint64("id", task.ID).Uint("attempt", task.Attempts).Msg("fail to receive receipt")

	default:
		executor.ApplyReceipt(&task, receipt)
		if task.Status == storage.StatusSent {
			// the transaction is known but not accepted yet, it is not a failed attempt
			task.Attempts -= 1
			break
		}

		log.Info().
			Uint64("id", task.ID).
			Str("hash", account.FormatHash(hash)).
			Str("status", string(task.Status)).
			Uint64("block", receipt.BlockNumber).
			Msg("invocation is finalized")

		t.updateState(ctx, receipt.BlockNumber)
	}

	if err := t.storage.Update(ctx, &task); err != nil {
		log.Err(err).Uint64("id", task.ID).Msg("saving invocation in tracker")
	}
}

func (t *Tracker) updateState(ctx context.Context, height uint64) {
	t.mx.Lock()
	defer t.mx.Unlock()

	if height <= t.state.LastHeight {
		return
	}
	t.state.LastHeight = height
	t.state.LastTime = time.Now()

	if err := t.states.Update(ctx, t.state); err != nil {
		log.Err(err).Msg("state updating")
	}
}

// Close -
func (t *Tracker) Close() error {
	t.wg.Wait()

	if err := t.pool.Close(); err != nil {
		return err
	}

	return nil
}
