package main

import (
	"context"

	"github.com/dipdup-io/starknet-invoker/internal/account"
	"github.com/dipdup-io/starknet-invoker/internal/storage"
	"github.com/dipdup-io/starknet-invoker/internal/storage/postgres"
	"github.com/dipdup-io/starknet-invoker/internal/tracker"
	"github.com/dipdup-net/go-lib/hasura"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errDatabaseRequired = errors.New("database section of config is required")

func newTrackCmd() *cobra.Command {
	var flags starknetFlags

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Tracks receipts of sent transactions until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(cmd.Context(), flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runTrack(ctx context.Context, flags starknetFlags) error {
	if !cfg.HasDatabase() {
		return errDatabaseRequired
	}

	starknet, err := flags.load()
	if err != nil {
		return err
	}

	acc, err := account.NewSingleOwner(ctx, account.Config{
		RpcURL:       starknet.RpcURL,
		PrivateKey:   starknet.PrivateKey,
		Address:      starknet.AccountAddress,
		PublicKey:    starknet.PublicKey,
		ChainID:      starknet.ChainID,
		CairoVersion: starknet.CairoVersion,
	})
	if err != nil {
		return errors.Wrap(err, "creating account")
	}

	pg, err := postgres.Create(ctx, cfg.Database)
	if err != nil {
		return errors.Wrap(err, "database creation")
	}

	if cfg.Hasura != nil {
		if err := hasura.Create(ctx, hasura.GenerateArgs{
			Config:         cfg.Hasura,
			DatabaseConfig: cfg.Database,
			Models:         []any{new(storage.State), new(storage.Address), new(storage.Invocation)},
		}); err != nil {
			log.Err(err).Msg("hasura.Create")
		}
	}

	t := tracker.New(cfg.Tracker, acc, pg.Invocation, pg.State)
	if err := t.Start(ctx); err != nil {
		return err
	}
	log.Info().Msg("tracker started")

	<-ctx.Done()

	if err := t.Close(); err != nil {
		log.Err(err).Msg("closing tracker")
	}
	if err := pg.Storage.Close(); err != nil {
		log.Err(err).Msg("closing database connection")
	}
	return nil
}
