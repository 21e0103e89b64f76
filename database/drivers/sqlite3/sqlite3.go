package sqlite

import (
	"database/sql"
	"errors"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database/drivers"
	// import sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

var errNoDatabasePath = errors.New("no sqlite database path provided")

// Connect opens a connection to the sqlite database file named by cfg.Database
func Connect(cfg *drivers.ConnectionDetails) (*sql.DB, error) {
	if cfg == nil || cfg.Database == "" {
		return nil, errNoDatabasePath
	}
	return sql.Open("sqlite3", cfg.Database)
}
