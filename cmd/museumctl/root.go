package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const defaultTimeout = 30 * time.Second

var errDatabaseURLRequired = errors.New("DATABASE_URL (or --database-url) is required")

// globalFlags are shared by every subcommand.
type globalFlags struct {
	databaseURL string
	timeout     time.Duration
}

func (g *globalFlags) requireDatabaseURL() (string, error) {
	if g.databaseURL == "" {
		return "", errDatabaseURLRequired
	}
	return g.databaseURL, nil
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:          "museumctl",
		Short:        "Operate the pathology museum",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&g.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	cmd.PersistentFlags().DurationVar(&g.timeout, "timeout", defaultTimeout, "timeout for database operations")

	cmd.AddCommand(newMigrateCmd(g))
	cmd.AddCommand(newIdentityCmd(g))
	cmd.AddCommand(newSpecimensCmd())

	return cmd
}
