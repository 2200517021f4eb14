package cmd

import (
	"fmt"
	"io"

	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
	"github.com/Saifullah3711/cac-multi-docs-mvp/service"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func rentRollCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "rent-roll",
		Short: "Run a commercial rent-roll analysis on a local file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return fmt.Errorf("--file required")
			}
			cfg, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			file, err := openLocalFile(path)
			if err != nil {
				return err
			}

			run := model.NewRunContext()
			out, err := newWorkflows(cfg).rentRoll.Run(cmd.Context(), run, file)
			if err != nil {
				return runFailed(cmd.ErrOrStderr(), out.Stage, err)
			}
			printNotices(cmd.ErrOrStderr(), out.Stage.Notices)
			fmt.Fprintf(cmd.ErrOrStderr(), "run %s complete, status %q\n", run.ID, out.Response.Status)

			if jsonOutput {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(out.Response.Raw))
				return err
			}
			printRentRoll(cmd.OutOrStdout(), service.RenderRentRoll(out.Response))
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "", "rent roll document (pdf, xlsx, xls)")
	return cmd
}

// printRentRoll renders the grid, or the raw dump when there is none.
func printRentRoll(w io.Writer, view *service.RentRollView) {
	if view.Table == nil {
		fmt.Fprintln(w, view.Dump)
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	header := make(table.Row, len(view.Table.Columns))
	for i, c := range view.Table.Columns {
		header[i] = c
	}
	tw.AppendHeader(header)
	for _, r := range view.Table.Rows {
		row := make(table.Row, len(r))
		for i, cell := range r {
			row[i] = cell
		}
		tw.AppendRow(row)
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}
