package warehouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DBConfig{
		Host:     "warehouse.internal",
		Port:     3307,
		User:     "analytics_ro",
		Password: "s3cret",
		Database: "ops_portfolio",
	})

	assert.Contains(t, dsn, "analytics_ro:s3cret@tcp(warehouse.internal:3307)/ops_portfolio")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestOpenIsLazy(t *testing.T) {
	// No MySQL server at this address; Open must still succeed because the
	// client only dials on first use.
	db, err := Open(config.DBConfig{
		Host:     "127.0.0.1",
		Port:     1, // nothing listens here
		User:     "root",
		Password: "x",
		Database: "ops_portfolio",
	})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, 0, db.Stats().OpenConnections)
}
