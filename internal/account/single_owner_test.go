package account

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// chain ids as returned by starknet_chainId
const (
	sepoliaChainID = "0x534e5f5345504f4c4941"
	mainnetChainID = "0x534e5f4d41494e"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

// testNode - JSON-RPC node answering with canned results by method name
type testNode struct {
	*httptest.Server

	mx      sync.Mutex
	results map[string]any
	calls   []string
}

func newNode(t *testing.T, chainID string, results map[string]any) *testNode {
	t.Helper()

	node := &testNode{
		results: map[string]any{
			"starknet_chainId":     chainID,
			"starknet_specVersion": "0.8.0",
		},
	}
	for method, result := range results {
		node.results[method] = result
	}

	node.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		node.mx.Lock()
		node.calls = append(node.calls, req.Method)
		result, ok := node.results[req.Method]
		node.mx.Unlock()

		response := map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
		}
		if ok {
			response["result"] = result
		} else {
			response["error"] = map[string]any{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	return node
}

func (n *testNode) Calls() []string {
	n.mx.Lock()
	defer n.mx.Unlock()
	return append([]string(nil), n.calls...)
}

const testTxHash = "0x3d2b6a6b3a0e1b4f3e6b1a2c0f5e8d7c6b5a4938271605f4e3d2c1b0a9f8e7"

func estimateFeeResult() []map[string]any {
	return []map[string]any{
		{
			"l1_gas_consumed":      "0x0",
			"l1_gas_price":         "0x1",
			"l2_gas_consumed":      "0x2710",
			"l2_gas_price":         "0x3b9aca00",
			"l1_data_gas_consumed": "0x80",
			"l1_data_gas_price":    "0x3e8",
			"overall_fee":          "0x9184e7a1f400",
			"unit":                 "FRI",
		},
	}
}

func receiptResult(executionStatus, revertReason string) map[string]any {
	receipt := map[string]any{
		"type":             "INVOKE",
		"transaction_hash": testTxHash,
		"actual_fee": map[string]any{
			"amount": "0x2386f26fc10000",
			"unit":   "FRI",
		},
		"execution_status": executionStatus,
		"finality_status":  FinalityAcceptedOnL2,
		"block_hash":       "0x1",
		"block_number":     812345,
		"messages_sent":    []any{},
		"events":           []any{},
		"execution_resources": map[string]any{
			"l1_gas":      0,
			"l1_data_gas": 128,
			"l2_gas":      10000,
		},
	}
	if revertReason != "" {
		receipt["revert_reason"] = revertReason
	}
	return receipt
}

func newTestAccount(t *testing.T, node *testNode) *SingleOwner {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	acc, err := NewSingleOwner(ctx, Config{
		RpcURL:       node.URL,
		PrivateKey:   new(felt.Felt).SetUint64(0x1234),
		Address:      new(felt.Felt).SetUint64(0x49d3),
		ChainID:      "SN_SEPOLIA",
		CairoVersion: 2,
	})
	require.NoError(t, err)
	require.Equal(t, "SN_SEPOLIA", acc.ChainID())
	return acc
}

func TestNewSingleOwner_ChainMismatch(t *testing.T) {
	node := newNode(t, mainnetChainID, nil)
	defer node.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewSingleOwner(ctx, Config{
		RpcURL:       node.URL,
		PrivateKey:   new(felt.Felt).SetUint64(1),
		Address:      new(felt.Felt).SetUint64(2),
		ChainID:      "SN_SEPOLIA",
		CairoVersion: 2,
	})
	require.ErrorIs(t, err, ErrChainMismatch)
}

func TestNewSingleOwner_NilAddress(t *testing.T) {
	_, err := NewSingleOwner(context.Background(), Config{RpcURL: "http://localhost:1"})
	require.ErrorIs(t, err, ErrNilAddress)
}

func TestSingleOwner_Execute(t *testing.T) {
	node := newNode(t, sepoliaChainID, map[string]any{
		"starknet_getNonce":             "0x5",
		"starknet_estimateFee":          estimateFeeResult(),
		"starknet_addInvokeTransaction": map[string]any{"transaction_hash": testTxHash},
	})
	defer node.Close()

	acc := newTestAccount(t, node)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hash, err := acc.Execute(ctx, []Call{
		{
			To:         new(felt.Felt).SetUint64(0x4718),
			Entrypoint: "mint_lords",
		},
	})
	require.NoError(t, err)

	want, err := new(felt.Felt).SetString(testTxHash)
	require.NoError(t, err)
	require.True(t, want.Equal(hash))

	calls := node.Calls()
	require.Contains(t, calls, "starknet_getNonce")
	require.Contains(t, calls, "starknet_estimateFee")
	require.Equal(t, "starknet_addInvokeTransaction", calls[len(calls)-1])
}

func TestSingleOwner_ExecuteErrors(t *testing.T) {
	t.Run("empty calls", func(t *testing.T) {
		acc := &SingleOwner{}
		_, err := acc.Execute(context.Background(), nil)
		require.ErrorIs(t, err, ErrEmptyCalls)
	})

	t.Run("rejected transaction", func(t *testing.T) {
		node := newNode(t, sepoliaChainID, map[string]any{
			"starknet_getNonce":    "0x5",
			"starknet_estimateFee": estimateFeeResult(),
		})
		defer node.Close()

		acc := newTestAccount(t, node)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		hash, err := acc.Execute(ctx, []Call{
			{
				To:         new(felt.Felt).SetUint64(0x4718),
				Entrypoint: "mint_lords",
			},
		})
		require.Error(t, err)
		require.Nil(t, hash)
		require.Contains(t, node.Calls(), "starknet_addInvokeTransaction")
	})
}

func TestSingleOwner_Nonce(t *testing.T) {
	node := newNode(t, sepoliaChainID, map[string]any{
		"starknet_getNonce": "0x5",
	})
	defer node.Close()

	acc := newTestAccount(t, node)

	nonce, err := acc.Nonce(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 5, nonce.BigInt(new(big.Int)).Uint64())
}

func TestSingleOwner_Receipt(t *testing.T) {
	hash, err := new(felt.Felt).SetString(testTxHash)
	require.NoError(t, err)

	tests := []struct {
		name            string
		executionStatus string
		revertReason    string
		wantAccepted    bool
		wantReverted    bool
	}{
		{
			name:            "succeeded",
			executionStatus: ExecutionSucceeded,
			wantAccepted:    true,
		}, {
			name:            "reverted",
			executionStatus: ExecutionReverted,
			revertReason:    "u256_sub Overflow",
			wantReverted:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := newNode(t, sepoliaChainID, map[string]any{
				"starknet_getTransactionReceipt": receiptResult(tt.executionStatus, tt.revertReason),
			})
			defer node.Close()

			acc := newTestAccount(t, node)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			receipts := make([]Receipt, 0, 2)

			receipt, err := acc.Receipt(ctx, hash)
			require.NoError(t, err)
			receipts = append(receipts, receipt)

			receipt, err = acc.WaitForReceipt(ctx, hash, 10*time.Millisecond)
			require.NoError(t, err)
			receipts = append(receipts, receipt)

			for _, receipt := range receipts {
				require.True(t, hash.Equal(receipt.Hash))
				require.EqualValues(t, 812345, receipt.BlockNumber)
				require.Equal(t, tt.executionStatus, receipt.ExecutionStatus)
				require.Equal(t, FinalityAcceptedOnL2, receipt.FinalityStatus)
				require.Equal(t, tt.revertReason, receipt.RevertReason)
				require.Equal(t, "FRI", receipt.FeeUnit)
				require.NotNil(t, receipt.Fee)
				require.Equal(t, "10000000000000000", receipt.Fee.String())
				require.Equal(t, tt.wantAccepted, receipt.IsAccepted())
				require.Equal(t, tt.wantReverted, receipt.IsReverted())
			}
		})
	}
}

func TestSingleOwner_ReceiptNotFound(t *testing.T) {
	node := newNode(t, sepoliaChainID, nil)
	defer node.Close()

	acc := newTestAccount(t, node)

	_, err := acc.Receipt(context.Background(), new(felt.Felt).SetUint64(1))
	require.Error(t, err)
}
