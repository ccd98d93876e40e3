package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/theme"
)

func (cli *commandLine) catalogCmd() *cobra.Command {
	var search, category, output string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the widgets that can be placed on a page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutput(output); err != nil {
				return err
			}
			cat, err := catalog.Load()
			if err != nil {
				return err
			}
			widgets := cat.Filter(search, category)
			if output != outputTable {
				return cli.encode(output, widgets)
			}

			w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tNAME\tCATEGORY")
			for _, wgt := range widgets {
				fmt.Fprintf(w, "%s\t%s\t%s\n", wgt.Type, wgt.Name, wgt.Category)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only widgets whose name contains this text")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only widgets of this category")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json, yaml")
	return cmd
}

func (cli *commandLine) themesCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List the site themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutput(output); err != nil {
				return err
			}
			svc, err := theme.NewService(nil)
			if err != nil {
				return err
			}
			themes := svc.QueryAll()
			if output != outputTable {
				return cli.encode(output, themes)
			}

			w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRIMARY\tSECONDARY")
			for _, th := range themes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", th.ID, th.Name, th.Colors.Primary, th.Colors.Secondary)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json, yaml")
	return cmd
}
