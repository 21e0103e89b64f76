package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database/drivers"
	// import postgres driver
	_ "github.com/lib/pq"
)

var errNoDatabaseName = errors.New("no postgres database name provided")

// DSN builds the lib/pq connection string for the supplied details
func DSN(cfg *drivers.ConnectionDetails) (string, error) {
	if cfg == nil || cfg.Database == "" {
		return "", errNoDatabaseName
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		sslMode), nil
}

// Connect opens a connection pool to the postgres database
func Connect(cfg *drivers.ConnectionDetails) (*sql.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	return sql.Open("postgres", dsn)
}
