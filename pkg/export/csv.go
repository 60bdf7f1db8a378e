package export

import (
	"encoding/csv"
	"os"

	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/etlerrors"
	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/models"
)

// WriteCSV writes one table as RFC 4180 CSV with a header row and no index
// column, overwriting any existing file at path.
func WriteCSV(path string, table *models.Table) error {
	file, err := os.Create(path) //nolint:gosec // G304: path derives from validated config
	if err != nil {
		return etlerrors.Wrap(err, etlerrors.ErrorTypeFile, "failed to create CSV file").
			WithDetail("path", path)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(table.Columns()); err != nil {
		return etlerrors.Wrap(err, etlerrors.ErrorTypeFile, "failed to write CSV header").
			WithDetail("table", table.Name)
	}

	row := make([]string, len(table.Fields))
	for _, values := range table.Rows {
		for i, value := range values {
			row[i] = models.ValueToString(value)
		}
		if err := writer.Write(row); err != nil {
			return etlerrors.Wrap(err, etlerrors.ErrorTypeFile, "failed to write CSV row").
				WithDetail("table", table.Name)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return etlerrors.Wrap(err, etlerrors.ErrorTypeFile, "failed to flush CSV").
			WithDetail("table", table.Name)
	}

	if err := file.Close(); err != nil {
		return etlerrors.Wrap(err, etlerrors.ErrorTypeFile, "failed to close CSV file").
			WithDetail("path", path)
	}

	return nil
}
