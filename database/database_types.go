package database

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database/drivers"
)

// Supported database drivers
const (
	DBSQLite3    = "sqlite3"
	DBPostgreSQL = "postgres"
)

var (
	// ErrNoDatabaseProvided is returned when no database name or path is set
	ErrNoDatabaseProvided = errors.New("no database provided")
	// ErrDatabaseSupportDisabled is returned when an operation is attempted
	// without an established connection
	ErrDatabaseSupportDisabled = errors.New("database support disabled")
	// ErrUnsupportedDriver is returned for drivers other than sqlite3 and postgres
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	errNilInstance = errors.New("database instance is nil")
	errNilConfig   = errors.New("received nil config")
	errNilSQL      = errors.New("database SQL connection is nil")
)

// Config holds all database configurable options including enable/disabled &
// DSN settings
type Config struct {
	Enabled                   bool   `json:"enabled"`
	Verbose                   bool   `json:"verbose"`
	Driver                    string `json:"driver"`
	drivers.ConnectionDetails `json:"connectionDetails"`
}

// Instance holds a database connection. There is no package level instance;
// each backtest run owns the one it connects
type Instance struct {
	SQL       *sql.DB
	config    *Config
	connected bool
	m         sync.RWMutex
}
