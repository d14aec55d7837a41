package account

import (
	"context"
	"math/big"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	snaccount "github.com/NethermindEth/starknet.go/account"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultFeeMultiplier - multiplier applied to estimated fee
const DefaultFeeMultiplier = 1.5

// errors
var (
	ErrChainMismatch = errors.New("chain id mismatch")
	ErrEmptyCalls    = errors.New("empty calls list")
	ErrNilAddress    = errors.New("nil address")
)

// Config -
type Config struct {
	RpcURL        string
	PrivateKey    *felt.Felt
	Address       *felt.Felt
	PublicKey     string
	ChainID       string
	CairoVersion  int
	FeeMultiplier float64
}

// SingleOwner - account controlled by one private key. Signing, fee estimation
// and nonce management are done by starknet.go.
type SingleOwner struct {
	provider      *rpc.Provider
	account       *snaccount.Account
	address       *felt.Felt
	chainID       string
	feeMultiplier float64
}

// NewSingleOwner -
func NewSingleOwner(ctx context.Context, cfg Config) (*SingleOwner, error) {
	if cfg.Address == nil || cfg.PrivateKey == nil {
		return nil, ErrNilAddress
	}

	provider, err := rpc.NewProvider(cfg.RpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "rpc provider")
	}

	chainID, err := provider.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "receiving chain id")
	}
	if cfg.ChainID != "" && chainID != cfg.ChainID {
		return nil, errors.Wrapf(ErrChainMismatch, "expected %s, node reports %s", cfg.ChainID, chainID)
	}

	publicKey := cfg.PublicKey
	if publicKey == "" {
		publicKey = cfg.Address.String()
	}

	ks := snaccount.SetNewMemKeystore(publicKey, cfg.PrivateKey.BigInt(new(big.Int)))
	acc, err := snaccount.NewAccount(provider, cfg.Address, publicKey, ks, cfg.CairoVersion)
	if err != nil {
		return nil, errors.Wrap(err, "account creation")
	}

	feeMultiplier := cfg.FeeMultiplier
	if feeMultiplier <= 0 {
		feeMultiplier = DefaultFeeMultiplier
	}

	log.Info().
		Str("address", cfg.Address.String()).
		Str("chain_id", chainID).
		Int("cairo_version", cfg.CairoVersion).
		Msg("account is ready")

	return &SingleOwner{
		provider:      provider,
		account:       acc,
		address:       cfg.Address,
		chainID:       chainID,
		feeMultiplier: feeMultiplier,
	}, nil
}

// Address -
func (so *SingleOwner) Address() *felt.Felt {
	return so.address
}

// ChainID -
func (so *SingleOwner) ChainID() string {
	return so.chainID
}

// Execute - signs and sends invoke v3 transaction with all calls
func (so *SingleOwner) Execute(ctx context.Context, calls []Call) (*felt.Felt, error) {
	if len(calls) == 0 {
		return nil, ErrEmptyCalls
	}

	response, err := so.account.BuildAndSendInvokeTxn(ctx, toFunctionCalls(calls), so.feeMultiplier)
	if err != nil {
		return nil, err
	}
	return response.TransactionHash, nil
}

// Receipt -
func (so *SingleOwner) Receipt(ctx context.Context, hash *felt.Felt) (Receipt, error) {
	response, err := so.provider.TransactionReceipt(ctx, hash)
	if err != nil {
		return Receipt{}, err
	}
	return receiptFromRPC(hash, response), nil
}

// WaitForReceipt - polls node until receipt appears or context is done
func (so *SingleOwner) WaitForReceipt(ctx context.Context, hash *felt.Felt, pollInterval time.Duration) (Receipt, error) {
	if pollInterval <= 0 {
		pollInterval = time.Second * 5
	}
	response, err := so.account.WaitForTransactionReceipt(ctx, hash, pollInterval)
	if err != nil {
		return Receipt{}, err
	}
	return receiptFromRPC(hash, response), nil
}

// Nonce - nonce which will be used by the next transaction
func (so *SingleOwner) Nonce(ctx context.Context) (*felt.Felt, error) {
	return so.provider.Nonce(ctx, rpc.WithBlockTag("pending"), so.address)
}

func toFunctionCalls(calls []Call) []rpc.InvokeFunctionCall {
	result := make([]rpc.InvokeFunctionCall, len(calls))
	for i := range calls {
		calldata := calls[i].Calldata
		if calldata == nil {
			calldata = []*felt.Felt{}
		}
		result[i] = rpc.InvokeFunctionCall{
			ContractAddress: calls[i].To,
			FunctionName:    calls[i].Entrypoint,
			CallData:        calldata,
		}
	}
	return result
}

func receiptFromRPC(hash *felt.Felt, response *rpc.TransactionReceiptWithBlockInfo) Receipt {
	receipt := Receipt{
		Hash:            hash,
		BlockNumber:     uint64(response.BlockNumber),
		ExecutionStatus: string(response.ExecutionStatus),
		FinalityStatus:  string(response.FinalityStatus),
		RevertReason:    response.RevertReason,
		FeeUnit:         string(response.ActualFee.Unit),
	}
	if response.ActualFee.Amount != nil {
		receipt.Fee = response.ActualFee.Amount.BigInt(new(big.Int))
	}
	return receipt
}
