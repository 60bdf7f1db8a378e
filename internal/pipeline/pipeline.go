// Package pipeline sequences one extraction run: validate configuration,
// probe the output directory, open the database client, run the quality
// checks, extract, export. Stages run strictly in order on one goroutine;
// the first fatal error stops the run.
package pipeline

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/config"
	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/etlerrors"
	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/export"
	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/extract"
	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/logger"
	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/quality"
	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/warehouse"
)

// WriteProbeFile is written into the output root before any extraction so
// permission problems surface before expensive querying. It is left behind.
const WriteProbeFile = "_write_test.txt"

// QualityReportFile is the optional on-disk quality report name.
const QualityReportFile = "quality_report.json"

// Options tune a single run.
type Options struct {
	// QualityReport additionally writes the check results as JSON into the
	// output root. Off by default; checks stay observational either way.
	QualityReport bool

	// Open overrides the connection factory. Nil means warehouse.Open;
	// tests substitute a mock handle here.
	Open func(config.DBConfig) (*sql.DB, error)
}

func (o Options) opener() func(config.DBConfig) (*sql.DB, error) {
	if o.Open != nil {
		return o.Open
	}
	return warehouse.Open
}

// Summary is what a successful run produced.
type Summary struct {
	Checks    quality.Results
	Exported  []string
	OutputDir string
}

// Run executes the full pipeline with the given resolved configuration.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Summary, error) {
	if err := config.Err(cfg.Validate()); err != nil {
		return nil, err
	}
	ctx, log := stage(ctx, "config")
	log.Info("configuration resolved", cfg.Fields()...)

	ctx, log = stage(ctx, "prepare_output")
	outDir, err := prepareOutputDir(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	log.Info("output directory writable", zap.String("dir", outDir))

	ctx, log = stage(ctx, "connect")
	db, err := opts.opener()(cfg.DB)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	log.Info("database client created",
		zap.String("host", cfg.DB.Host),
		zap.String("database", cfg.DB.Database))

	ctx, log = stage(ctx, "quality_checks")
	results, err := quality.Run(ctx, db)
	if err != nil {
		return nil, err
	}
	log.Info("data quality checks complete", results.Fields()...)
	if !results.Clean() {
		log.Warn("data quality findings present; continuing", results.Fields()...)
	}

	if opts.QualityReport {
		reportPath := filepath.Join(outDir, QualityReportFile)
		if err := quality.WriteReport(results, cfg.DB.Database, reportPath); err != nil {
			return nil, err
		}
		log.Info("quality report written", zap.String("path", reportPath))
	}

	ctx, log = stage(ctx, "extract")
	collection, err := extract.Run(ctx, db)
	if err != nil {
		return nil, err
	}
	log.Info("extraction complete", zap.Strings("tables", collection.Names()))

	_, log = stage(ctx, "export")
	if err := export.WriteOutputs(collection, outDir, log); err != nil {
		return nil, err
	}
	log.Info("export complete", zap.String("dir", outDir))

	exported := collection.Names()
	sort.Strings(exported)

	return &Summary{
		Checks:    results,
		Exported:  exported,
		OutputDir: outDir,
	}, nil
}

// RunChecks validates configuration and runs only the quality checks.
func RunChecks(ctx context.Context, cfg *config.Config, opts Options) (quality.Results, error) {
	if err := config.Err(cfg.Validate()); err != nil {
		return nil, err
	}
	ctx, log := stage(ctx, "config")
	log.Info("configuration resolved", cfg.Fields()...)

	db, err := opts.opener()(cfg.DB)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ctx, log = stage(ctx, "quality_checks")
	results, err := quality.Run(ctx, db)
	if err != nil {
		return nil, err
	}
	log.Info("data quality checks complete", results.Fields()...)

	return results, nil
}

// stage tags ctx with the current pipeline stage and returns a logger
// carrying the run id and stage fields from that context.
func stage(ctx context.Context, name string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, logger.StageKey, name)
	return ctx, logger.WithContext(ctx)
}

// prepareOutputDir resolves the output root to an absolute path, creates it
// along with missing parents, and verifies it is writable via the probe
// file.
func prepareOutputDir(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", etlerrors.Wrap(err, etlerrors.ErrorTypeFile, "failed to resolve output directory").
			WithDetail("dir", dir)
	}

	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", etlerrors.Wrap(err, etlerrors.ErrorTypeFile, "failed to create output directory").
			WithDetail("dir", absDir)
	}

	probePath := filepath.Join(absDir, WriteProbeFile)
	if err := os.WriteFile(probePath, []byte("ETL write test OK\n"), 0o644); err != nil { //nolint:gosec // Probe file holds no sensitive data
		return "", etlerrors.Wrap(err, etlerrors.ErrorTypeFile, "output directory not writable").
			WithDetail("dir", absDir)
	}

	return absDir, nil
}
