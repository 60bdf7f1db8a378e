// Package catalog probes the active schema for optional objects. The probe
// results are returned as plain data so the extractor consumes "which views
// exist" as an explicit set instead of reaching into database metadata
// mid-extraction.
package catalog

import (
	"context"
	"database/sql"

	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/etlerrors"
)

const viewExistsQuery = `
	SELECT COUNT(*)
	FROM information_schema.views
	WHERE table_schema = DATABASE() AND table_name = ?
`

// ViewExists reports whether a view with the exact name exists in the
// connection's current default schema. A missing view is false, not an
// error.
func ViewExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var n sql.NullInt64
	if err := db.QueryRowContext(ctx, viewExistsQuery, name).Scan(&n); err != nil {
		return false, etlerrors.Wrap(err, etlerrors.ErrorTypeQuery, "failed to probe view").
			WithDetail("view", name)
	}
	return n.Int64 > 0, nil
}

// Available probes each named view and returns the subset that exists,
// keyed by name.
func Available(ctx context.Context, db *sql.DB, names []string) (map[string]bool, error) {
	available := make(map[string]bool, len(names))
	for _, name := range names {
		exists, err := ViewExists(ctx, db, name)
		if err != nil {
			return nil, err
		}
		available[name] = exists
	}
	return available, nil
}
