package migrations

import (
	"context"

	"github.com/dipdup-io/starknet-invoker/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
)

// v3 transactions pay fee in STRK, so rows written before fee unit was tracked get FRI.
func init() {
	DbMigrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		result, err := db.NewUpdate().
			Model((*storage.Invocation)(nil)).
			Set("fee_unit = ?", "FRI").
			Where("fee_unit = '' OR fee_unit IS NULL").
			Where("fee > 0").
			Exec(ctx)
		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		log.Info().
			Int64("updated invocations", affected).
			Msg("migration applied")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		return nil
	})
}
