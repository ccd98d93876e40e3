package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/demo"
	"github.com/trezcool/shule/core/page"
	"github.com/trezcool/shule/core/school"
)

func (cli *commandLine) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo school and its home page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := cli.open(cmd.Context(), true)
			if err != nil {
				return errors.Wrap(err, "opening database")
			}
			defer func() { _ = r.Close() }()

			validate, _ := core.NewValidator()
			schools := school.NewService(r.Schools, r.Pages, validate)
			pages := page.NewService(r.Pages, schools, validate)

			res, err := demo.Seed(cmd.Context(), schools, pages)
			if err != nil {
				return err
			}
			fmt.Fprintln(cli.out, res.Message)
			if res.Created {
				fmt.Fprintf(cli.out, "school: %s\npage: %s\n", res.SchoolID, res.PageID)
			}
			return nil
		},
	}
}
