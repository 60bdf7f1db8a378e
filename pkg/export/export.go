// Package export serializes extracted tables to disk: one CSV per table
// directly under the output root, one Parquet file per table under a
// parquet subdirectory. Files are plain overwrites; there is no atomic
// rename, so a crash mid-export can leave the in-progress file partial
// while previously written files stay intact.
package export

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/etlerrors"
	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/models"
)

// ParquetSubdir is the subdirectory for columnar output, relative to the
// output root.
const ParquetSubdir = "parquet"

// WriteOutputs writes every table to both formats. The CSV pass completes
// before the Parquet pass starts, mirroring the per-format write loops the
// downstream jobs expect.
func WriteOutputs(tables []*models.Table, outDir string, log *zap.Logger) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return etlerrors.Wrap(err, etlerrors.ErrorTypeFile, "failed to create output directory").
			WithDetail("dir", outDir)
	}

	for _, table := range tables {
		path := filepath.Join(outDir, table.Name+".csv")
		if err := WriteCSV(path, table); err != nil {
			return err
		}
		log.Debug("csv written", zap.String("table", table.Name), zap.String("path", path))
	}

	parquetDir := filepath.Join(outDir, ParquetSubdir)
	if err := os.MkdirAll(parquetDir, 0o755); err != nil {
		return etlerrors.Wrap(err, etlerrors.ErrorTypeFile, "failed to create parquet directory").
			WithDetail("dir", parquetDir)
	}

	for _, table := range tables {
		path := filepath.Join(parquetDir, table.Name+".parquet")
		if err := WriteParquet(path, table); err != nil {
			return err
		}
		log.Debug("parquet written", zap.String("table", table.Name), zap.String("path", path))
	}

	return nil
}
