package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/internal/pipeline"
	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/config"
	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/logger"
	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/quality"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	var profilePath, outputDir, logLevel string
	var qualityReport bool

	root := &cobra.Command{
		Use:   "ecomextract",
		Short: "Extract the e-commerce warehouse to CSV and Parquet",
		Long: `ecomextract pulls the dimensional e-commerce schema out of MySQL,
runs data quality checks over it, and exports every table to CSV and Parquet
files ready for BI consumption.`,
	}
	root.PersistentFlags().StringVar(&profilePath, "profile", "", "Path to a YAML connection profile (optional)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ecomextract v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full extraction pipeline",
		Long: `Run the full pipeline: validate configuration, verify the output
directory is writable, run the data quality checks, extract the base tables
and any KPI views present, and write the CSV and Parquet outputs.

Connection settings come from DB_* environment variables (a .env file is
honored), optionally layered over a YAML profile.

Example:
  ecomextract run --output-dir ./output --quality-report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, cfg, err := setup(profilePath, logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if outputDir != "" {
				cfg.OutputDir = outputDir
			}

			summary, err := pipeline.Run(runContext(cmd.Context()), cfg,
				pipeline.Options{QualityReport: qualityReport})
			if err != nil {
				log.Error("pipeline failed", zap.Error(err))
				return err
			}

			log.Info("pipeline complete",
				zap.Strings("exported", summary.Exported),
				zap.String("output_dir", summary.OutputDir))
			return nil
		},
	}
	runCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory (overrides OUTPUT_DIR)")
	runCmd.Flags().BoolVar(&qualityReport, "quality-report", false, "Also write the check results as quality_report.json")
	root.AddCommand(runCmd)

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Run only the data quality checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, cfg, err := setup(profilePath, logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			results, err := pipeline.RunChecks(runContext(cmd.Context()), cfg, pipeline.Options{})
			if err != nil {
				log.Error("quality checks failed", zap.Error(err))
				return err
			}

			for _, check := range quality.Checks {
				fmt.Printf("%s: %d\n", check.Name, results[check.Name])
			}
			if !results.Clean() {
				fmt.Println("status: findings present")
			} else {
				fmt.Println("status: clean")
			}
			return nil
		},
	}
	root.AddCommand(checkCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runContext stamps the context with a run id so every stage log line can
// be correlated back to one invocation.
func runContext(ctx context.Context) context.Context {
	runID := time.Now().UTC().Format("20060102T150405Z")
	return context.WithValue(ctx, logger.RunIDKey, runID)
}

// setup initializes the logger and resolves the effective configuration.
func setup(profilePath, logLevel string) (*zap.Logger, *config.Config, error) {
	if err := logger.Init(logger.Config{Level: logLevel, Encoding: "console"}); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.With(zap.String("component", "ecomextract-cli"))

	cfg, err := config.Resolve(profilePath)
	if err != nil {
		return nil, nil, err
	}
	return log, cfg, nil
}
