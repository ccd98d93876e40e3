package main

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/storage/repos"
)

// Output formats
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var errOutputFormat = errors.New("output must be one of: table, json, yaml")

type commandLine struct {
	conf *core.Config
	out  io.Writer
	open func(ctx context.Context, migrate bool) (*repos.Repos, error) // mockable
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shule-admin",
		Short:         "Administration commands of the Shule school site builder",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(cli.out)
	root.AddCommand(cli.migrateCmd(), cli.seedCmd(), cli.catalogCmd(), cli.themesCmd())
	return root
}

// encode writes v as JSON or YAML. The table format is handled by each command.
func (cli *commandLine) encode(format string, v interface{}) error {
	switch strings.ToLower(format) {
	case outputJSON:
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(cli.out)
		defer func() { _ = enc.Close() }()
		return enc.Encode(v)
	}
	return errOutputFormat
}

func validOutput(format string) error {
	switch strings.ToLower(format) {
	case outputTable, outputJSON, outputYAML:
		return nil
	}
	return errOutputFormat
}
