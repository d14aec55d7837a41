package executor

import (
	"github.com/NethermindEth/juno/core/felt"
	"github.com/dipdup-io/starknet-invoker/internal/account"
	"github.com/dipdup-io/starknet-invoker/internal/storage"
	"github.com/shopspring/decimal"
)

// ApplyReceipt - moves invocation to the status reported by receipt.
// Receipts which are neither accepted nor reverted leave the invocation in `sent` status.
func ApplyReceipt(invocation *storage.Invocation, receipt account.Receipt) {
	invocation.BlockNumber = receipt.BlockNumber
	if receipt.Fee != nil {
		invocation.Fee = decimal.NewFromBigInt(receipt.Fee, 0)
		invocation.FeeUnit = receipt.FeeUnit
	}

	switch {
	case receipt.IsReverted():
		invocation.Status = storage.StatusReverted
		if receipt.RevertReason != "" {
			reason := receipt.RevertReason
			invocation.RevertReason = &reason
		}
	case receipt.IsAccepted():
		invocation.Status = storage.StatusAccepted
		invocation.Error = nil
	}
}

// FeltBytes - big-endian 32 bytes of felt
func FeltBytes(value *felt.Felt) []byte {
	if value == nil {
		return nil
	}
	b := value.Bytes()
	return b[:]
}
