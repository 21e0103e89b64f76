package database

import (
	"errors"
	"time"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database"
)

var (
	errDatabaseNotEnabled = errors.New("database loading not enabled")
	errNoDateRange        = errors.New("start and end dates are required to load from a database")
)

// Loader reads bars from the candle repository. Queries are issued one
// symbol at a time and throttled to QueriesPerSecond when it is positive
type Loader struct {
	Config           *database.Config
	Symbols          []string
	Start            time.Time
	End              time.Time
	QueriesPerSecond float64
	// Instance may be supplied to reuse an existing connection
	Instance *database.Instance
}
