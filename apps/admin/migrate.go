package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/shule/storage/database"
)

var migrateFunc = database.Migrate // mockable

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate COMMAND [ARGS...]",
		Short: "Run a database migration command",
		Long: `Run a goose migration command against the configured SQL database.

Commands: up, up-by-one, up-to VERSION, down, down-to VERSION, redo, reset, status, version`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := cli.open(cmd.Context(), false)
			if err != nil {
				return errors.Wrap(err, "opening database")
			}
			defer func() { _ = r.Close() }()

			if r.SQL == nil {
				return errors.Errorf("migrations do not apply to the %q engine", cli.conf.Database.Engine)
			}
			return migrateFunc(r.SQL, args[0], args[1:]...)
		},
	}
}
