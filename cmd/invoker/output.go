package main

import (
	"fmt"
	"io"

	"github.com/dipdup-io/starknet-invoker/internal/account"
	"github.com/dipdup-io/starknet-invoker/internal/executor"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// output formats
const (
	outputText = "text"
	outputJSON = "json"
)

var errUnknownOutput = errors.New("unknown output format")

type invokeOutput struct {
	Hash            string `json:"transaction_hash"`
	InvocationID    uint64 `json:"invocation_id,omitempty"`
	BlockNumber     uint64 `json:"block_number,omitempty"`
	ExecutionStatus string `json:"execution_status,omitempty"`
	FinalityStatus  string `json:"finality_status,omitempty"`
	RevertReason    string `json:"revert_reason,omitempty"`
	Fee             string `json:"fee,omitempty"`
	FeeUnit         string `json:"fee_unit,omitempty"`
}

func newInvokeOutput(result executor.Result) invokeOutput {
	out := invokeOutput{
		InvocationID: result.InvocationID,
	}
	if result.Hash != nil {
		out.Hash = account.FormatHash(result.Hash)
	}
	if receipt := result.Receipt; receipt != nil {
		out.BlockNumber = receipt.BlockNumber
		out.ExecutionStatus = receipt.ExecutionStatus
		out.FinalityStatus = receipt.FinalityStatus
		out.RevertReason = receipt.RevertReason
		out.FeeUnit = receipt.FeeUnit
		if receipt.Fee != nil {
			out.Fee = receipt.Fee.String()
		}
	}
	return out
}

func checkOutput(format string) error {
	switch format {
	case outputText, outputJSON:
		return nil
	default:
		return errors.Wrap(errUnknownOutput, format)
	}
}

func printInvoke(w io.Writer, format string, result executor.Result) error {
	out := newInvokeOutput(result)

	if format == outputJSON {
		return json.NewEncoder(w).Encode(out)
	}

	if _, err := fmt.Fprintf(w, "Transaction hash: %s\n", out.Hash); err != nil {
		return err
	}
	if result.Receipt == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Block: %d\nStatus: %s %s\nFee: %s %s\n",
		out.BlockNumber, out.ExecutionStatus, out.FinalityStatus, out.Fee, out.FeeUnit,
	); err != nil {
		return err
	}
	if out.RevertReason != "" {
		_, err := fmt.Fprintf(w, "Revert reason: %s\n", out.RevertReason)
		return err
	}
	return nil
}

func printCall(w io.Writer, format string, values []string) error {
	if format == outputJSON {
		return json.NewEncoder(w).Encode(values)
	}
	for i := range values {
		if _, err := fmt.Fprintln(w, values[i]); err != nil {
			return err
		}
	}
	return nil
}
