package caller

import (
	"context"
	"time"

	"github.com/dipdup-io/starknet-go-api/pkg/data"
	rpc "github.com/dipdup-io/starknet-go-api/pkg/rpc"
	"github.com/dipdup-net/go-lib/config"
)

// NodeRpcCaller -
type NodeRpcCaller struct {
	api     rpc.API
	timeout time.Duration
}

// NewNodeRpcCaller -
func NewNodeRpcCaller(cfg config.DataSource) *NodeRpcCaller {
	var (
		timeout = time.Second * 10
		opts    = make([]rpc.ApiOption, 0)
	)

	if cfg.RequestsPerSecond > 0 {
		opts = append(opts, rpc.WithRateLimit(cfg.RequestsPerSecond))
	}

	if cfg.Timeout > 0 {
		timeout = time.Second * time.Duration(cfg.Timeout)
	}
	return &NodeRpcCaller{
		api:     rpc.NewAPI(cfg.URL, opts...),
		timeout: timeout,
	}
}

// Call - `entrypoint` may be either function name or selector
func (nrc *NodeRpcCaller) Call(ctx context.Context, contract, entrypoint string, calldata []string) ([]data.Felt, error) {
	reqCtx, cancelReq := context.WithTimeout(ctx, nrc.timeout)
	defer cancelReq()

	if calldata == nil {
		calldata = []string{}
	}

	response, err := nrc.api.Call(
		reqCtx,
		rpc.CallRequest{
			ContractAddress:    contract,
			EntrypointSelector: Selector(entrypoint),
			Calldata:           calldata,
		},
		data.BlockID{
			String: data.Latest,
		},
	)
	if err != nil {
		return nil, err
	}

	result := make([]data.Felt, len(response.Result))
	for i := range response.Result {
		result[i] = data.Felt(response.Result[i])
	}

	return result, nil
}
