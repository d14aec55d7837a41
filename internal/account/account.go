package account

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"
)

// Account - signer-backed account which is able to send invoke transactions
type Account interface {
	Address() *felt.Felt
	Execute(ctx context.Context, calls []Call) (*felt.Felt, error)
	Receipt(ctx context.Context, hash *felt.Felt) (Receipt, error)
	WaitForReceipt(ctx context.Context, hash *felt.Felt, pollInterval time.Duration) (Receipt, error)
	Nonce(ctx context.Context) (*felt.Felt, error)
}

// Call - single contract call of multicall transaction
type Call struct {
	To         *felt.Felt
	Entrypoint string
	Calldata   []*felt.Felt
}

// Selector -
func (c Call) Selector() *felt.Felt {
	return Selector(c.Entrypoint)
}

// CalldataStrings - calldata as hex strings
func (c Call) CalldataStrings() []string {
	result := make([]string, len(c.Calldata))
	for i := range c.Calldata {
		result[i] = c.Calldata[i].String()
	}
	return result
}

// Selector - returns entrypoint selector (starknet keccak of the name)
func Selector(entrypoint string) *felt.Felt {
	return utils.GetSelectorFromNameFelt(entrypoint)
}

// execution statuses
const (
	ExecutionSucceeded = "SUCCEEDED"
	ExecutionReverted  = "REVERTED"
)

// finality statuses
const (
	FinalityReceived     = "RECEIVED"
	FinalityAcceptedOnL2 = "ACCEPTED_ON_L2"
	FinalityAcceptedOnL1 = "ACCEPTED_ON_L1"
)

// Receipt -
type Receipt struct {
	Hash            *felt.Felt
	BlockNumber     uint64
	ExecutionStatus string
	FinalityStatus  string
	RevertReason    string
	Fee             *big.Int
	FeeUnit         string
}

// IsReverted -
func (r Receipt) IsReverted() bool {
	return r.ExecutionStatus == ExecutionReverted
}

// IsAccepted - transaction is executed successfully and included into L2 or L1 block
func (r Receipt) IsAccepted() bool {
	if r.ExecutionStatus != ExecutionSucceeded {
		return false
	}
	return r.FinalityStatus == FinalityAcceptedOnL2 || r.FinalityStatus == FinalityAcceptedOnL1
}

// FormatHash - hex representation of hash padded with zeros to 64 symbols including `0x`
func FormatHash(hash *felt.Felt) string {
	if hash == nil {
		return ""
	}
	return fmt.Sprintf("%#064x", hash.BigInt(new(big.Int)))
}
