package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/circulib/lending-go/ledger/postgresengine"
	"github.com/circulib/lending-go/shared/shell/config"
)

func newSchemaCommand(rootOpts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Create the lending ledger schema in Postgres",
		Long: `Create the books, loans, and lending_journal tables in the configured
Postgres database. The statements are idempotent, so re-running against an
existing schema is safe.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return createSchema(cmd.Context(), rootOpts)
		},
	}

	return cmd
}

func createSchema(ctx context.Context, opts *rootOptions) error {
	if opts.Engine != enginePostgres {
		return fmt.Errorf("schema creation requires --engine %s", enginePostgres)
	}

	pgxPool, poolErr := pgxpool.NewWithConfig(ctx, config.PostgresPGXPoolConfig())
	if poolErr != nil {
		return fmt.Errorf("creating pgx pool: %w", poolErr)
	}
	defer pgxPool.Close()

	store, storeErr := postgresengine.NewStoreFromPGXPool(pgxPool)
	if storeErr != nil {
		return fmt.Errorf("creating postgres ledger: %w", storeErr)
	}

	if schemaErr := store.CreateSchema(ctx); schemaErr != nil {
		return fmt.Errorf("creating schema: %w", schemaErr)
	}

	return nil
}
