// Package main implements a load generator for exercising the lending
// backend with configurable command rates and realistic borrowing scenarios.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	engineMemory   = "memory"
	enginePostgres = "postgres"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Verbose bool
	Engine  string // "memory" | "postgres"
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "lendload",
		Short: "Load generator for the lending ledger",
		Long:  "Drives the lending command handlers with configurable scenarios, against Postgres or an in-memory ledger.",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if opts.Engine != engineMemory && opts.Engine != enginePostgres {
				return fmt.Errorf("invalid engine %q: must be %q or %q", opts.Engine, engineMemory, enginePostgres)
			}

			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Engine, "engine", engineMemory, "ledger engine (memory|postgres)")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newSchemaCommand(opts))

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
