// Package warehouse builds the pooled MySQL client used by the quality
// checks and the extractor.
package warehouse

import (
	"context"
	"database/sql"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/config"
	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/etlerrors"
)

// DSN builds the driver connection string for the given configuration.
// parseTime is enabled so DATETIME/TIMESTAMP columns scan as time.Time
// instead of raw bytes.
func DSN(cfg config.DBConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Database
	mc.ParseTime = true
	// NewConfig defaults CheckConnLiveness to true: every checkout from the
	// pool verifies the connection and transparently replaces a stale one.
	return mc.FormatDSN()
}

// Open constructs the pooled client. No network connection is made here;
// connection and authentication failures surface on first query.
func Open(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, etlerrors.Wrap(err, etlerrors.ErrorTypeConfig, "failed to construct MySQL client").
			WithDetail("host", cfg.Host).
			WithDetail("database", cfg.Database)
	}

	// The pipeline checks out one connection at a time; a small pool is
	// enough and keeps reconnects cheap across the sequential stages.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Ping verifies the handle against the live server. Used by the CLI for an
// explicit connectivity report; the pipeline itself relies on lazy connect.
func Ping(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return etlerrors.Wrap(err, etlerrors.ErrorTypeConnection, "database unreachable")
	}
	return nil
}
