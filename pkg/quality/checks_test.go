package quality

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/etlerrors"
)

func expectCheck(mock sqlmock.Sqlmock, check Check, value interface{}) {
	rows := sqlmock.NewRows([]string{"n"}).AddRow(value)
	mock.ExpectQuery(regexp.QuoteMeta(strings.TrimSpace(check.Query))).WillReturnRows(rows)
}

func TestRun(t *testing.T) {
	t.Run("returns all four named counts", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		expectCheck(mock, Checks[0], int64(3))
		expectCheck(mock, Checks[1], int64(0))
		expectCheck(mock, Checks[2], int64(1))
		expectCheck(mock, Checks[3], int64(0))

		results, err := Run(context.Background(), db)
		require.NoError(t, err)

		assert.Equal(t, Results{
			"bad_total_rows":      3,
			"orphan_items":        0,
			"negative_money_rows": 1,
			"bad_line_total_rows": 0,
		}, results)
		assert.False(t, results.Clean())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null scalar coalesces to zero", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		for _, check := range Checks {
			expectCheck(mock, check, nil)
		}

		results, err := Run(context.Background(), db)
		require.NoError(t, err)

		for _, check := range Checks {
			assert.Zero(t, results[check.Name], check.Name)
		}
		assert.True(t, results.Clean())
	})

	t.Run("query error aborts with check name attached", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		expectCheck(mock, Checks[0], int64(0))
		mock.ExpectQuery(regexp.QuoteMeta(strings.TrimSpace(Checks[1].Query))).
			WillReturnError(errors.New("Table 'ops_portfolio.fact_order_item' doesn't exist"))

		_, err = Run(context.Background(), db)
		require.Error(t, err)
		assert.True(t, etlerrors.IsType(err, etlerrors.ErrorTypeQuery))

		var qe *etlerrors.Error
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, "orphan_items", qe.Details["check"])
	})
}

func TestCheckQueriesUseStrictTolerance(t *testing.T) {
	// The two reconciliation checks must flag only differences strictly
	// greater than 0.02.
	for _, name := range []string{"bad_total_rows", "bad_line_total_rows"} {
		for _, check := range Checks {
			if check.Name == name {
				assert.Contains(t, check.Query, "> 0.02", name)
				assert.NotContains(t, check.Query, ">= 0.02", name)
			}
		}
	}
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quality_report.json")

	results := Results{
		"bad_total_rows":      0,
		"orphan_items":        2,
		"negative_money_rows": 0,
		"bad_line_total_rows": 0,
	}
	require.NoError(t, WriteReport(results, "ops_portfolio", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "ops_portfolio", report.Database)
	assert.Equal(t, int64(2), report.Checks["orphan_items"])
	assert.False(t, report.GeneratedAt.IsZero())
}
