package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
	"github.com/Saifullah3711/cac-multi-docs-mvp/service"
	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	paths := map[string]*string{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a multi-document smart analysis from local files",
		Example: `  cactus analyze --occupancy-report occ.xlsx --offering-memo om.pdf
  cactus analyze --management-summary ms.pdf --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			flows := newWorkflows(cfg)

			selection := service.SlotSelection{}
			for _, slot := range flows.multiDoc.Slots() {
				path := *paths[slot.Name]
				if path == "" {
					continue
				}
				file, err := openLocalFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", slot.Label, err)
				}
				selection[slot.Name] = file
			}

			run := model.NewRunContext()
			out, err := flows.multiDoc.Run(cmd.Context(), run, selection)
			if err != nil {
				return runFailed(cmd.ErrOrStderr(), out.Stage, err)
			}
			printNotices(cmd.ErrOrStderr(), out.Stage.Notices)
			fmt.Fprintf(cmd.ErrOrStderr(), "run %s complete\n", run.ID)

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out.Response)
			}
			return printSections(cmd.OutOrStdout(), out.Response)
		},
	}

	for _, slot := range model.MultiDocSlots {
		paths[slot.Name] = new(string)
		flag := strings.ReplaceAll(slot.Name, "_", "-")
		cmd.Flags().StringVar(paths[slot.Name], flag, "", slot.Label+" file")
	}
	return cmd
}

// printSections writes every navigable section as plain text.
func printSections(w io.Writer, resp model.AnalysisResponse) error {
	nav := service.NewResultNavigator(service.MultiDocSections)
	available := nav.Available(resp)
	if len(available) == 0 {
		return service.ErrNoSections
	}
	for i, name := range available {
		if i > 0 {
			fmt.Fprintln(w)
		}
		summary, report := nav.Texts(resp, name)
		fmt.Fprintf(w, "## %s Analysis\n\nSummary:\n%s\n\nFull report:\n%s\n", name, summary, report)
	}
	return nil
}
