package caller

import (
	"context"
	"strings"

	"github.com/dipdup-io/starknet-go-api/pkg/data"
	"github.com/dipdup-io/starknet-go-api/pkg/encoding"
)

// Caller - executes view functions of contracts
type Caller interface {
	Call(ctx context.Context, contract, entrypoint string, calldata []string) ([]data.Felt, error)
}

// Selector - converts entrypoint name to selector. Values which are already hex are returned as is.
func Selector(entrypoint string) string {
	if strings.HasPrefix(entrypoint, "0x") {
		return entrypoint
	}
	return encoding.GetSelectorWithPrefixFromName(entrypoint)
}
