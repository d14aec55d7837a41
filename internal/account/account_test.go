package account

import (
	"math/big"
	"strings"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/stretchr/testify/require"
)

func TestFormatHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
		want string
	}{
		{
			name: "short",
			hash: "0x1",
			want: "0x" + strings.Repeat("0", 61) + "1",
		}, {
			name: "full width",
			hash: "0x7f2b6c64c4f0a7c5e7cf1e4c0f9b2a2ee8a5a4ea4d3a2c1b0a9988776655443",
			want: "0x7f2b6c64c4f0a7c5e7cf1e4c0f9b2a2ee8a5a4ea4d3a2c1b0a9988776655443",
		}, {
			name: "leading zeros",
			hash: "0x00abc",
			want: "0x" + strings.Repeat("0", 59) + "abc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := new(felt.Felt).SetString(tt.hash)
			require.NoError(t, err)

			got := FormatHash(hash)
			require.Equal(t, tt.want, got)
			require.GreaterOrEqual(t, len(got), 64)
		})
	}

	require.Empty(t, FormatHash(nil))
}

func TestSelector(t *testing.T) {
	call := Call{Entrypoint: "transfer"}
	require.Equal(t, "0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e", call.Selector().String())
}

func TestReceipt(t *testing.T) {
	tests := []struct {
		name         string
		receipt      Receipt
		wantAccepted bool
		wantReverted bool
	}{
		{
			name:         "accepted on L2",
			receipt:      Receipt{ExecutionStatus: ExecutionSucceeded, FinalityStatus: FinalityAcceptedOnL2},
			wantAccepted: true,
		}, {
			name:         "accepted on L1",
			receipt:      Receipt{ExecutionStatus: ExecutionSucceeded, FinalityStatus: FinalityAcceptedOnL1},
			wantAccepted: true,
		}, {
			name:    "received",
			receipt: Receipt{ExecutionStatus: ExecutionSucceeded, FinalityStatus: FinalityReceived},
		}, {
			name:         "reverted",
			receipt:      Receipt{ExecutionStatus: ExecutionReverted, FinalityStatus: FinalityAcceptedOnL2},
			wantReverted: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantAccepted, tt.receipt.IsAccepted())
			require.Equal(t, tt.wantReverted, tt.receipt.IsReverted())
		})
	}
}

func TestToFunctionCalls(t *testing.T) {
	to := new(felt.Felt).SetUint64(0x49d3)
	amount := new(felt.Felt).SetBytes(big.NewInt(1000).Bytes())

	calls := []Call{
		{To: to, Entrypoint: "mint_lords"},
		{To: to, Entrypoint: "approve", Calldata: []*felt.Felt{to, amount}},
	}

	result := toFunctionCalls(calls)
	require.Len(t, result, 2)
	require.Equal(t, "mint_lords", result[0].FunctionName)
	require.NotNil(t, result[0].CallData)
	require.Empty(t, result[0].CallData)
	require.Equal(t, to, result[0].ContractAddress)
	require.Equal(t, []string{"0x49d3", "0x3e8"}, calls[1].CalldataStrings())
	require.Len(t, result[1].CallData, 2)
}
