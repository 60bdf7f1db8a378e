package quality

import (
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/etlerrors"
)

// Report is the optional on-disk form of a check run. Writing it does not
// change the observational-only contract: counts are recorded, not acted on.
type Report struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Database    string           `json:"database"`
	Checks      map[string]int64 `json:"checks"`
}

// WriteReport serializes the results to path, overwriting any previous
// report.
func WriteReport(results Results, database, path string) error {
	report := Report{
		GeneratedAt: time.Now().UTC(),
		Database:    database,
		Checks:      results,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return etlerrors.Wrap(err, etlerrors.ErrorTypeData, "failed to serialize quality report")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // Report is shared output, not a secret
		return etlerrors.Wrap(err, etlerrors.ErrorTypeFile, "failed to write quality report").
			WithDetail("path", path)
	}

	return nil
}
