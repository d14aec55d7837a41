package postgres

import (
	"context"
	"database/sql"

	"github.com/dipdup-io/starknet-invoker/internal/storage/postgres/migrations"
	"github.com/uptrace/bun/migrate"

	models "github.com/dipdup-io/starknet-invoker/internal/storage"
	"github.com/dipdup-net/go-lib/config"
	"github.com/dipdup-net/go-lib/database"
	"github.com/dipdup-net/indexer-sdk/pkg/storage/postgres"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
)

// Storage -
type Storage struct {
	*postgres.Storage

	Address    *Address
	Invocation *Invocation
	State      models.IState
	Journal    Journal
}

// Create -
func Create(ctx context.Context, cfg config.Database) (Storage, error) {
	strg, err := postgres.Create(ctx, cfg, initDatabase)
	if err != nil {
		return Storage{}, err
	}

	invocations := NewInvocation(strg.Connection())
	s := Storage{
		Storage:    strg,
		Address:    NewAddress(strg.Connection()),
		State:      NewState(strg.Connection()),
		Invocation: invocations,
		Journal:    NewJournal(invocations, strg.Transactable),
	}

	return s, nil
}

func initDatabase(ctx context.Context, conn *database.Bun) error {
	if err := createTypes(ctx, conn); err != nil {
		return err
	}

	for _, data := range models.Models {
		if _, err := conn.DB().NewCreateTable().IfNotExists().Model(data).Exec(ctx); err != nil {
			if err := conn.Close(); err != nil {
				return err
			}
			return err
		}
	}

	data := make([]any, len(models.Models))
	for i := range models.Models {
		data[i] = models.Models[i]
	}
	if err := database.MakeComments(ctx, conn, data...); err != nil {
		return errors.Wrap(err, "make comments")
	}

	if err := applyMigrations(ctx, conn); err != nil {
		return err
	}

	if err := setInvocationLastUpdateID(ctx, conn); err != nil {
		return err
	}

	return createIndices(ctx, conn)
}

func createIndices(ctx context.Context, conn *database.Bun) error {
	log.Info().Msg("creating indexes...")
	return conn.DB().RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, idx := range []struct {
			name   string
			column string
		}{
			{"invocation_created_at_idx", "created_at"},
			{"invocation_updated_at_idx", "updated_at"},
			{"invocation_attempts_idx", "attempts"},
			{"invocation_status_idx", "status"},
			{"invocation_account_id_idx", "account_id"},
			{"invocation_contract_id_idx", "contract_id"},
		} {
			if _, err := tx.NewCreateIndex().
				IfNotExists().
				Model((*models.Invocation)(nil)).
				Index(idx.name).
				Column(idx.column).
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

func createTypes(ctx context.Context, conn *database.Bun) error {
	log.Info().Msg("creating custom types...")
	return conn.DB().RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(
			ctx,
			`DO $$
			BEGIN
				IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'invocation_status') THEN
					CREATE TYPE invocation_status AS ENUM ('new', 'sent', 'accepted', 'reverted', 'failed');
				END IF;
			END$$;`,
		); err != nil {
			return err
		}
		return nil
	})
}

func applyMigrations(ctx context.Context, conn *database.Bun) error {
	migrator := migrate.NewMigrator(conn.DB(), migrations.DbMigrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}
	if err := migrator.Lock(ctx); err != nil {
		return err
	}
	defer migrator.Unlock(ctx) //nolint:errcheck

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if !group.IsZero() {
		log.Info().Str("group", group.String()).Msg("migrations applied")
	}
	return nil
}

func setInvocationLastUpdateID(ctx context.Context, conn *database.Bun) error {
	invocation := new(models.Invocation)
	err := conn.DB().NewSelect().
		Model(invocation).
		Order("update_id desc").
		Limit(1).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	models.SetLastUpdateID(invocation.UpdateID)
	return nil
}
