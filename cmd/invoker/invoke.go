package main

import (
	"context"
	"io"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/dipdup-io/starknet-invoker/internal/account"
	"github.com/dipdup-io/starknet-invoker/internal/env"
	"github.com/dipdup-io/starknet-invoker/internal/executor"
	"github.com/dipdup-io/starknet-invoker/internal/storage/postgres"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// DefaultEntrypoint -
const DefaultEntrypoint = "mint_lords"

type invokeFlags struct {
	starknet      starknetFlags
	contract      string
	entrypoint    string
	calldata      []string
	calldataFile  string
	wait          bool
	journal       bool
	every         time.Duration
	feeMultiplier float64
	output        string
}

func newInvokeCmd() *cobra.Command {
	var flags invokeFlags

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Sends invoke transaction and prints its hash",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	flags.starknet.register(cmd)
	cmd.Flags().StringVar(&flags.contract, "contract", "", "contract address, overrides "+env.VarContractAddress)
	cmd.Flags().StringVar(&flags.entrypoint, "entrypoint", DefaultEntrypoint, "called function name")
	cmd.Flags().StringArrayVar(&flags.calldata, "calldata", nil, "call argument: hex felt or decimal number, may be repeated or comma separated")
	cmd.Flags().StringVar(&flags.calldataFile, "calldata-file", "", "path to JSON array with call arguments")
	cmd.Flags().BoolVar(&flags.wait, "wait", false, "wait for transaction receipt")
	cmd.Flags().BoolVar(&flags.journal, "journal", false, "save invocation to database from config")
	cmd.Flags().DurationVar(&flags.every, "every", 0, "repeat invocation with the interval until interrupted")
	cmd.Flags().Float64Var(&flags.feeMultiplier, "fee-multiplier", 0, "multiplier of estimated fee")
	cmd.Flags().StringVarP(&flags.output, "output", "o", outputText, "output format: text or json")
	return cmd
}

func runInvoke(ctx context.Context, w io.Writer, flags invokeFlags) error {
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

	opts, closeJournal, err := openJournal(ctx, cfg.JournalEnabled(flags.journal))
	if err != nil {
		return err
	}
	defer closeJournal()

	acc, err := account.NewSingleOwner(ctx, account.Config{
		RpcURL:        starknet.RpcURL,
		PrivateKey:    starknet.PrivateKey,
		Address:       starknet.AccountAddress,
		PublicKey:     starknet.PublicKey,
		ChainID:       starknet.ChainID,
		CairoVersion:  starknet.CairoVersion,
		FeeMultiplier: feeMultiplier(flags.feeMultiplier),
	})
	if err != nil {
		return errors.Wrap(err, "creating account")
	}

	exec := executor.New(acc, opts...)
	defer exec.Close()

	req := executor.Request{
		Contract:     contract,
		Entrypoint:   flags.entrypoint,
		Calldata:     calldata,
		Wait:         flags.wait,
		PollInterval: pollInterval(),
	}

	if flags.every > 0 {
		exec.Repeat(ctx, req, flags.every, func(result executor.Result, err error) {
			if err != nil {
				log.Err(err).Msg("invoke")
			}
			if result.Hash == nil {
				return
			}
			if err := printInvoke(w, flags.output, result); err != nil {
				log.Err(err).Msg("printing result")
			}
		})
		return nil
	}

	result, err := exec.Execute(ctx, req)
	if result.Hash != nil {
		if printErr := printInvoke(w, flags.output, result); printErr != nil {
			return printErr
		}
	}
	return err
}

// journalTimeout - limit of waiting for database when journal is enabled
var journalTimeout = time.Second * 30

func openJournal(ctx context.Context, enabled bool) ([]executor.Option, func(), error) {
	if !enabled {
		return nil, func() {}, nil
	}
	if !cfg.HasDatabase() {
		return nil, nil, errDatabaseRequired
	}

	createCtx, cancel := context.WithTimeout(ctx, journalTimeout)
	defer cancel()

	pg, err := postgres.Create(createCtx, cfg.Database)
	if err != nil {
		return nil, nil, errors.Wrap(err, "database creation")
	}

	closeFn := func() {
		if err := pg.Storage.Close(); err != nil {
			log.Err(err).Msg("closing database connection")
		}
	}
	return []executor.Option{executor.WithJournal(pg.Journal)}, closeFn, nil
}

func contractAddress(starknet env.Context, fromFlag string) (*felt.Felt, error) {
	if fromFlag != "" {
		return env.ParseFelt("--contract", fromFlag)
	}
	if err := starknet.RequireContract(); err != nil {
		return nil, err
	}
	return starknet.ContractAddress, nil
}

func feeMultiplier(fromFlag float64) float64 {
	if fromFlag > 0 {
		return fromFlag
	}
	if cfg != nil && cfg.Invoker.FeeMultiplier > 0 {
		return cfg.Invoker.FeeMultiplier
	}
	return account.DefaultFeeMultiplier
}

func pollInterval() time.Duration {
	if cfg != nil && cfg.Invoker.PollInterval > 0 {
		return time.Second * time.Duration(cfg.Invoker.PollInterval)
	}
	return 0
}

type starknetFlags struct {
	envFile  string
	tomlFile string
}

func (f *starknetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.envFile, "env", env.DefaultEnvFile, "path to .env file, empty string disables it")
	cmd.Flags().StringVar(&f.tomlFile, "toml", env.DefaultTomlFile, "path to TOML config, empty string disables it")
}

func (f starknetFlags) load() (env.Context, error) {
	opts := env.Options{
		EnvFile:  f.envFile,
		TomlFile: f.tomlFile,
	}
	if cfg != nil {
		if cfg.Invoker.EnvFile != "" && opts.EnvFile == env.DefaultEnvFile {
			opts.EnvFile = cfg.Invoker.EnvFile
		}
		if cfg.Invoker.TomlFile != "" && opts.TomlFile == env.DefaultTomlFile {
			opts.TomlFile = cfg.Invoker.TomlFile
		}
	}

	ctx, err := env.Load(opts)
	if err != nil {
		return ctx, errors.Wrap(err, "loading starknet context")
	}
	log.Info().
		Str("rpc", ctx.Host()).
		Str("account", ctx.AccountAddress.String()).
		Str("chain_id", ctx.ChainID).
		Int("cairo_version", ctx.CairoVersion).
		Msg("starknet context loaded")
	return ctx, nil
}
