package main

import (
	"context"
	"io"

	"github.com/dipdup-io/starknet-invoker/internal/caller"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type callFlags struct {
	starknet     starknetFlags
	contract     string
	entrypoint   string
	calldata     []string
	calldataFile string
	decoder      string
	output       string
}

func newCallCmd() *cobra.Command {
	var flags callFlags

	cmd := &cobra.Command{
		Use:   "call",
		Short: "Calls view function of the contract without sending transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	flags.starknet.register(cmd)
	cmd.Flags().StringVar(&flags.contract, "contract", "", "contract address, overrides STARKNET_CONTRACT_ADDRESS")
	cmd.Flags().StringVar(&flags.entrypoint, "entrypoint", "", "called function name or selector")
	cmd.Flags().StringArrayVar(&flags.calldata, "calldata", nil, "call argument: hex felt or decimal number, may be repeated or comma separated")
	cmd.Flags().StringVar(&flags.calldataFile, "calldata-file", "", "path to JSON array with call arguments")
	cmd.Flags().StringVar(&flags.decoder, "decode", caller.DecodeHex, "response decoder: hex, ascii, uint or bytearray")
	cmd.Flags().StringVarP(&flags.output, "output", "o", outputText, "output format: text or json")
	if err := cmd.MarkFlagRequired("entrypoint"); err != nil {
		panic(err)
	}
	return cmd
}

func runCall(ctx context.Context, w io.Writer, flags callFlags) error {
	if err := checkOutput(flags.output); err != nil {
		return err
	}

	starknet, err := flags.starknet.load()
	if err != nil {
		return err
	}

	contract, err := contractAddress(starknet, flags.contract)
	if err != nil {
		return err
	}

	calldata, err := parseCalldata(flags.calldata, flags.calldataFile)
	if err != nil {
		return err
	}

	var c caller.Caller = caller.NewNodeRpcCaller(cfg.DataSource(starknet.RpcURL))
	response, err := c.Call(ctx, contract.String(), flags.entrypoint, feltStrings(calldata))
	if err != nil {
		return errors.Wrap(err, "calling contract")
	}

	values, err := caller.Decode(flags.decoder, response)
	if err != nil {
		return err
	}
	return printCall(w, flags.output, values)
}
