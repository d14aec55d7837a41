package executor

import (
	"context"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/dipdup-io/starknet-invoker/internal/account"
	"github.com/dipdup-io/starknet-invoker/internal/storage"
	"github.com/stretchr/testify/mock"
)

type MockAccount struct {
	mock.Mock
}

func (m *MockAccount) Address() *felt.Felt {
	args := m.Called()
	return args.Get(0).(*felt.Felt)
}

func (m *MockAccount) Execute(ctx context.Context, calls []account.Call) (*felt.Felt, error) {
	args := m.Called(ctx, calls)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*felt.Felt), args.Error(1)
}

func (m *MockAccount) Receipt(ctx context.Context, hash *felt.Felt) (account.Receipt, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(account.Receipt), args.Error(1)
}

func (m *MockAccount) WaitForReceipt(ctx context.Context, hash *felt.Felt, pollInterval time.Duration) (account.Receipt, error) {
	args := m.Called(ctx, hash, pollInterval)
	return args.Get(0).(account.Receipt), args.Error(1)
}

func (m *MockAccount) Nonce(ctx context.Context) (*felt.Felt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*felt.Felt), args.Error(1)
}

type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) Save(ctx context.Context, invocation *storage.Invocation) error {
	args := m.Called(ctx, invocation)
	return args.Error(0)
}

func (m *MockJournal) Update(ctx context.Context, invocation *storage.Invocation) error {
	args := m.Called(ctx, invocation)
	return args.Error(0)
}

func withStatus(status storage.Status) any {
	return mock.MatchedBy(func(inv *storage.Invocation) bool {
		return inv.Status == status
	})
}
