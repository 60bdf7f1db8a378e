// Package quality runs the fixed data-quality checks over the fact tables.
// Checks are observational: a nonzero count is reported, never enforced.
// Callers wanting gating behavior must add it externally.
package quality

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/etlerrors"
)

// Check pairs a stable name with its aggregate query. Each query returns a
// single row count.
type Check struct {
	Name  string
	Query string
}

// Money reconciliation tolerates rounding up to two cents; the comparison
// is strictly greater, so a difference of exactly 0.02 is not flagged.
var Checks = []Check{
	{
		Name: "bad_total_rows",
		Query: `
			SELECT COUNT(*) AS n
			FROM fact_order
			WHERE ABS(total - (subtotal + tax + shipping)) > 0.02
		`,
	},
	{
		Name: "orphan_items",
		Query: `
			SELECT COUNT(*) AS n
			FROM fact_order_item oi
			LEFT JOIN fact_order o ON o.order_id = oi.order_id
			WHERE o.order_id IS NULL
		`,
	},
	{
		Name: "negative_money_rows",
		Query: `
			SELECT COUNT(*) AS n
			FROM fact_order
			WHERE subtotal < 0 OR tax < 0 OR shipping < 0 OR total < 0
		`,
	},
	{
		Name: "bad_line_total_rows",
		Query: `
			SELECT COUNT(*) AS n
			FROM fact_order_item
			WHERE ABS(line_total - (qty * unit_price)) > 0.02
		`,
	},
}

// Results maps a check name to its row count.
type Results map[string]int64

// Run executes every check sequentially on the given handle and returns
// the named counts. A NULL scalar (empty table edge cases) is treated as
// zero. Any query error aborts the run.
func Run(ctx context.Context, db *sql.DB) (Results, error) {
	results := make(Results, len(Checks))

	for _, check := range Checks {
		var n sql.NullInt64
		if err := db.QueryRowContext(ctx, check.Query).Scan(&n); err != nil {
			return nil, etlerrors.Wrap(err, etlerrors.ErrorTypeQuery, "quality check failed").
				WithDetail("check", check.Name)
		}
		results[check.Name] = n.Int64 // NULL coalesces to zero
	}

	return results, nil
}

// Fields renders the results as log fields in check order.
func (r Results) Fields() []zap.Field {
	fields := make([]zap.Field, 0, len(Checks))
	for _, check := range Checks {
		fields = append(fields, zap.Int64(check.Name, r[check.Name]))
	}
	return fields
}

// Clean reports whether every check came back zero.
func (r Results) Clean() bool {
	for _, n := range r {
		if n != 0 {
			return false
		}
	}
	return true
}
