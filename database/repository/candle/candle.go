package candle

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
)

const (
	createSQLite = `CREATE TABLE IF NOT EXISTS candle
(
    id        TEXT PRIMARY KEY NOT NULL,
    symbol    TEXT NOT NULL,
    timestamp TEXT NOT NULL,
    open      REAL NOT NULL,
    high      REAL NOT NULL,
    low       REAL NOT NULL,
    close     REAL NOT NULL,
    volume    REAL NOT NULL,
    UNIQUE (symbol, timestamp) ON CONFLICT REPLACE
);`
	createPostgres = `CREATE TABLE IF NOT EXISTS candle
(
    id        UUID PRIMARY KEY NOT NULL,
    symbol    VARCHAR(64) NOT NULL,
    timestamp TIMESTAMPTZ NOT NULL,
    open      DOUBLE PRECISION NOT NULL,
    high      DOUBLE PRECISION NOT NULL,
    low       DOUBLE PRECISION NOT NULL,
    close     DOUBLE PRECISION NOT NULL,
    volume    DOUBLE PRECISION NOT NULL,
    CONSTRAINT candle_symbol_timestamp UNIQUE (symbol, timestamp)
);`

	seriesSQLite = `SELECT id, timestamp, open, high, low, close, volume FROM candle
WHERE symbol = ? AND timestamp BETWEEN ? AND ? ORDER BY timestamp`
	seriesPostgres = `SELECT id, timestamp, open, high, low, close, volume FROM candle
WHERE symbol = $1 AND timestamp BETWEEN $2 AND $3 ORDER BY timestamp`

	insertSQLite = `INSERT INTO candle (id, symbol, timestamp, open, high, low, close, volume)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	insertPostgres = `INSERT INTO candle (id, symbol, timestamp, open, high, low, close, volume)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT ON CONSTRAINT candle_symbol_timestamp DO UPDATE
SET open = EXCLUDED.open, high = EXCLUDED.high, low = EXCLUDED.low, close = EXCLUDED.close, volume = EXCLUDED.volume`

	symbolsQuery = `SELECT DISTINCT symbol FROM candle ORDER BY symbol`
)

// CreateTable creates the candle table for the instance's dialect when it
// does not already exist
func CreateTable(ctx context.Context, db *database.Instance) error {
	con, err := db.GetSQL()
	if err != nil {
		return err
	}
	query := createPostgres
	if db.Dialect() == database.DBSQLite3 {
		query = createSQLite
	}
	_, err = con.ExecContext(ctx, query)
	return err
}

// Series returns candle data for a symbol between start and end inclusive,
// ordered by timestamp
func Series(ctx context.Context, db *database.Instance, symbol string, start, end time.Time) (out Item, err error) {
	if symbol == "" || start.IsZero() || end.IsZero() {
		return out, errInvalidInput
	}
	con, err := db.GetSQL()
	if err != nil {
		return out, err
	}
	symbol = strings.ToUpper(symbol)

	var rows *sql.Rows
	if db.Dialect() == database.DBSQLite3 {
		rows, err = con.QueryContext(ctx, seriesSQLite, symbol, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	} else {
		rows, err = con.QueryContext(ctx, seriesPostgres, symbol, start.UTC(), end.UTC())
	}
	if err != nil {
		return out, err
	}
	defer func() {
		if errC := rows.Close(); errC != nil {
			log.Errorln(log.Database, errC)
		}
	}()

	for rows.Next() {
		var c Candle
		if db.Dialect() == database.DBSQLite3 {
			var ts string
			err = rows.Scan(&c.ID, &ts, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume)
			if err != nil {
				return out, err
			}
			c.Timestamp, err = time.Parse(time.RFC3339, ts)
			if err != nil {
				return out, err
			}
		} else {
			err = rows.Scan(&c.ID, &c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume)
			if err != nil {
				return out, err
			}
		}
		c.Timestamp = c.Timestamp.UTC()
		out.Candles = append(out.Candles, c)
	}
	if err = rows.Err(); err != nil {
		return out, err
	}
	if len(out.Candles) < 1 {
		return out, fmt.Errorf("%w: %s %v %v", ErrNoCandleDataFound, symbol, start, end)
	}
	out.Symbol = symbol
	return out, nil
}

// Symbols returns every distinct symbol stored in the candle table
func Symbols(ctx context.Context, db *database.Instance) ([]string, error) {
	con, err := db.GetSQL()
	if err != nil {
		return nil, err
	}
	rows, err := con.QueryContext(ctx, symbolsQuery)
	if err != nil {
		return nil, err
	}
	defer func() {
		if errC := rows.Close(); errC != nil {
			log.Errorln(log.Database, errC)
		}
	}()
	var symbols []string
	for rows.Next() {
		var s string
		if err = rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// Insert series of candles, replacing any existing candle for the same
// symbol and timestamp
func Insert(ctx context.Context, db *database.Instance, in *Item) (uint64, error) {
	if in == nil || len(in.Candles) < 1 {
		return 0, errNoCandleData
	}
	if in.Symbol == "" {
		return 0, errInvalidInput
	}
	con, err := db.GetSQL()
	if err != nil {
		return 0, err
	}
	tx, err := con.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	totalInserted, err := insert(ctx, tx, db.Dialect(), in)
	if err != nil {
		errRB := tx.Rollback()
		if errRB != nil {
			log.Errorln(log.Database, errRB)
		}
		return 0, err
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}
	return totalInserted, nil
}

func insert(ctx context.Context, tx *sql.Tx, dialect string, in *Item) (uint64, error) {
	query := insertPostgres
	if dialect == database.DBSQLite3 {
		query = insertSQLite
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer func() {
		if errC := stmt.Close(); errC != nil {
			log.Errorln(log.Database, errC)
		}
	}()

	symbol := strings.ToUpper(in.Symbol)
	var totalInserted uint64
	for x := range in.Candles {
		tempUUID, err := uuid.NewV4()
		if err != nil {
			return 0, err
		}
		var ts any = in.Candles[x].Timestamp.UTC()
		if dialect == database.DBSQLite3 {
			ts = in.Candles[x].Timestamp.UTC().Format(time.RFC3339)
		}
		_, err = stmt.ExecContext(ctx,
			tempUUID.String(),
			symbol,
			ts,
			in.Candles[x].Open,
			in.Candles[x].High,
			in.Candles[x].Low,
			in.Candles[x].Close,
			in.Candles[x].Volume)
		if err != nil {
			return 0, err
		}
		if totalInserted < math.MaxUint64 {
			totalInserted++
		}
	}
	return totalInserted, nil
}

// InsertFromCSV load a CSV list of candle data and insert into database.
// Rows are laid out as: unix timestamp, volume, open, high, low, close.
// A leading header row is skipped
func InsertFromCSV(ctx context.Context, db *database.Instance, symbol, file string) (uint64, error) {
	csvFile, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer func() {
		if errC := csvFile.Close(); errC != nil {
			log.Errorln(log.Database, errC)
		}
	}()

	item, err := readCSV(csvFile, symbol)
	if err != nil {
		return 0, fmt.Errorf("%s %w", file, err)
	}
	return Insert(ctx, db, item)
}

func readCSV(r io.Reader, symbol string) (*Item, error) {
	csvData := csv.NewReader(r)
	item := &Item{Symbol: symbol}
	for line := 1; ; line++ {
		row, err := csvData.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if len(row) < 6 {
			return nil, fmt.Errorf("%w on line %d: expected 6 columns, received %d", errInvalidRow, line, len(row))
		}
		v, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("%w on line %d: %v", errInvalidRow, line, err)
		}
		tempTick := Candle{Timestamp: time.Unix(v, 0).UTC()}
		fields := []*float64{&tempTick.Volume, &tempTick.Open, &tempTick.High, &tempTick.Low, &tempTick.Close}
		for i := range fields {
			*fields[i], err = strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w on line %d: %v", errInvalidRow, line, err)
			}
		}
		item.Candles = append(item.Candles, tempTick)
	}
	if len(item.Candles) == 0 {
		return nil, errNoCandleData
	}
	return item, nil
}
