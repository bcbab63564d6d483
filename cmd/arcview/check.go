package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"arcview/internal/app"
)

func newCheckCmd(f *flags) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "check ID",
		Short: "Validate a puzzle document and summarize its grids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config(cmd)
			if err != nil {
				return err
			}
			doc, err := app.NewStore(cfg).Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			md := app.DescribeDocument(doc)
			if !plain {
				if out, err := glamour.Render(md, "dark"); err == nil {
					md = out
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), md)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print markdown without terminal styling")
	return cmd
}
