// Package cmd is the command line entry point: the web server and headless
// analysis runs.
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Saifullah3711/cac-multi-docs-mvp/config"
	"github.com/Saifullah3711/cac-multi-docs-mvp/pkg/logger"
	"github.com/Saifullah3711/cac-multi-docs-mvp/service"
	"github.com/spf13/cobra"
)

var (
	configPath string
	jsonOutput bool
)

// NewRootCmd builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cactus",
		Short: "Cactus AI document upload and analysis front end",
		Long: `Uploads real-estate documents to object storage, calls the Cactus AI
analysis API and shows the results.

Settings come from the YAML file given by --config, a .env file and the
environment (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_REGION,
S3_BUCKET_NAME, API_BASE_URL, RENT_ROLL_API_BASE_URL, ...).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print raw JSON responses")

	serve := serveCmd()
	root.RunE = serve.RunE
	root.AddCommand(serve)
	root.AddCommand(analyzeCmd())
	root.AddCommand(rentRollCmd())
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the logger on out.
func loadConfig(out io.Writer) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: out,
	})
	return cfg, nil
}

// workflows wires both flows to one lazily created storage client.
type workflows struct {
	multiDoc *service.MultiDocWorkflow
	rentRoll *service.RentRollWorkflow
}

func newWorkflows(cfg *config.Config) workflows {
	timeout := time.Duration(cfg.Analysis.TimeoutSeconds) * time.Second
	base := service.NewWorkflow(
		service.NewMinioStorageProvider(&cfg.Storage),
		service.NewFileValidator(cfg.Upload.AllowedExtensions),
		cfg.Storage.BaseFolder,
	)
	return workflows{
		multiDoc: service.NewMultiDocWorkflow(base,
			service.NewAnalysisClient(cfg.Analysis.MultiDocBaseURL, timeout),
			cfg.Analysis.MultiDocRoute, cfg.Analysis.PropertyType),
		rentRoll: service.NewRentRollWorkflow(base,
			service.NewAnalysisClient(cfg.Analysis.RentRollBaseURL, timeout),
			cfg.Analysis.RentRollRoute),
	}
}
