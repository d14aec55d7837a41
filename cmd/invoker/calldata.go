package main

import (
	"os"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/dipdup-io/starknet-invoker/internal/env"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// parseCalldata - collects call arguments from `--calldata` flags and optional JSON file with array of values.
// Values are hex felts (0x-prefixed) or decimal numbers.
func parseCalldata(values []string, filename string) ([]*felt.Felt, error) {
	all := make([]string, 0, len(values))
	for i := range values {
		for _, value := range strings.Split(values[i], ",") {
			if value = strings.TrimSpace(value); value != "" {
				all = append(all, value)
			}
		}
	}

	if filename != "" {
		fromFile, err := readCalldataFile(filename)
		if err != nil {
			return nil, err
		}
		all = append(all, fromFile...)
	}

	result := make([]*felt.Felt, len(all))
	for i := range all {
		value, err := parseArgument(all[i])
		if err != nil {
			return nil, errors.Wrapf(err, "calldata[%d]", i)
		}
		result[i] = value
	}
	return result, nil
}

func parseArgument(value string) (*felt.Felt, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return env.ParseFelt("calldata", value)
	}
	if strings.TrimLeft(value, "0123456789") != "" {
		return nil, errors.Wrap(env.ErrInvalidFelt, value)
	}
	f, err := new(felt.Felt).SetString(value)
	if err != nil {
		return nil, errors.Wrapf(env.ErrInvalidFelt, "%s: %s", value, err.Error())
	}
	return f, nil
}

func readCalldataFile(filename string) ([]string, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.Wrap(err, filename)
	}

	result := make([]string, len(items))
	for i := range items {
		var s string
		if err := json.Unmarshal(items[i], &s); err == nil {
			result[i] = s
			continue
		}
		var n json.Number
		if err := json.Unmarshal(items[i], &n); err != nil {
			return nil, errors.Wrapf(err, "%s: item %d", filename, i)
		}
		result[i] = n.String()
	}
	return result, nil
}

func feltStrings(values []*felt.Felt) []string {
	result := make([]string, len(values))
	for i := range values {
		result[i] = values[i].String()
	}
	return result
}
