package csv

import (
	"errors"
	"time"
)

var (
	errNoDirectory   = errors.New("csv directory not set")
	errNoFiles       = errors.New("no csv files found")
	errMissingColumn = errors.New("required column missing")
	errEmptyFile     = errors.New("csv file has no rows")
)

var timestampColumns = []string{"timestamp", "datetime", "date", "time"}

// Loader reads one CSV file per symbol from Directory. The file name without
// its extension is the symbol. When Symbols is empty every .csv file in the
// directory is loaded
type Loader struct {
	Directory string
	Symbols   []string
	Start     time.Time
	End       time.Time
}

// columns maps header names to their column positions
type columns struct {
	timestamp, open, high, low, close, volume int
	derived                                   map[string]int
}
