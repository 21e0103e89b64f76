package candle

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database/drivers"
	sqlite "github.com/jp-quant/AlgorithmicTrading-Academic-Project/database/drivers/sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstance(t *testing.T) *database.Instance {
	t.Helper()
	cfg := &database.Config{
		Enabled: true,
		Driver:  database.DBSQLite3,
		ConnectionDetails: drivers.ConnectionDetails{
			Database: filepath.Join(t.TempDir(), "candles.db"),
		},
	}
	db, err := database.NewInstance(cfg)
	require.NoError(t, err, "NewInstance must not error")
	con, err := sqlite.Connect(&cfg.ConnectionDetails)
	require.NoError(t, err, "Connect must not error")
	require.NoError(t, db.SetSQLiteConnection(con), "SetSQLiteConnection must not error")
	require.NoError(t, CreateTable(context.Background(), db), "CreateTable must not error")
	t.Cleanup(func() { assert.NoError(t, db.CloseConnection()) })
	return db
}

func TestInsertAndSeries(t *testing.T) {
	t.Parallel()
	db := newTestInstance(t)
	ctx := context.Background()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := Insert(ctx, db, &Item{Symbol: "AAPL"})
	assert.ErrorIs(t, err, errNoCandleData)

	item := &Item{Symbol: "aapl"}
	for i := 0; i < 3; i++ {
		item.Candles = append(item.Candles, Candle{
			Timestamp: start.AddDate(0, 0, i),
			Open:      float64(10 + i),
			High:      float64(11 + i),
			Low:       float64(9 + i),
			Close:     float64(10 + i),
			Volume:    100,
		})
	}
	inserted, err := Insert(ctx, db, item)
	require.NoError(t, err, "Insert must not error")
	assert.Equal(t, uint64(3), inserted)

	// a second insert for the same timestamp replaces the row
	_, err = Insert(ctx, db, &Item{Symbol: "AAPL", Candles: []Candle{{Timestamp: start, Open: 1, High: 2, Low: 1, Close: 2, Volume: 5}}})
	require.NoError(t, err, "Insert must not error")

	series, err := Series(ctx, db, "AAPL", start, start.AddDate(0, 0, 1))
	require.NoError(t, err, "Series must not error")
	require.Len(t, series.Candles, 2)
	assert.Equal(t, 2.0, series.Candles[0].Close)
	assert.True(t, series.Candles[1].Timestamp.Equal(start.AddDate(0, 0, 1)))
	assert.Equal(t, "AAPL", series.Symbol)

	_, err = Series(ctx, db, "MSFT", start, start.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrNoCandleDataFound)
	_, err = Series(ctx, db, "", start, start)
	assert.ErrorIs(t, err, errInvalidInput)

	symbols, err := Symbols(ctx, db)
	require.NoError(t, err, "Symbols must not error")
	assert.Equal(t, []string{"AAPL"}, symbols)
}

func TestInsertWithoutConnection(t *testing.T) {
	t.Parallel()
	db, err := database.NewInstance(&database.Config{Driver: database.DBSQLite3})
	require.NoError(t, err, "NewInstance must not error")
	_, err = Insert(context.Background(), db, &Item{Symbol: "AAPL", Candles: []Candle{{}}})
	assert.ErrorIs(t, err, database.ErrDatabaseSupportDisabled)
}

func TestReadCSV(t *testing.T) {
	t.Parallel()
	_, err := readCSV(strings.NewReader("timestamp,volume,open,high,low,close\n"), "AAPL")
	assert.ErrorIs(t, err, errNoCandleData)

	_, err = readCSV(strings.NewReader("1577836800,1,2\n"), "AAPL")
	assert.ErrorIs(t, err, errInvalidRow)

	_, err = readCSV(strings.NewReader("1577836800,100,1,2,1,2\nnope,100,1,2,1,2\n"), "AAPL")
	assert.ErrorIs(t, err, errInvalidRow)

	item, err := readCSV(strings.NewReader("timestamp,volume,open,high,low,close\n1577836800,100,1,2,0.5,1.5\n"), "AAPL")
	require.NoError(t, err, "readCSV must not error")
	require.Len(t, item.Candles, 1)
	assert.Equal(t, 100.0, item.Candles[0].Volume)
	assert.Equal(t, 0.5, item.Candles[0].Low)
	assert.Equal(t, 1.5, item.Candles[0].Close)
	assert.True(t, item.Candles[0].Timestamp.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestInsertFromCSV(t *testing.T) {
	t.Parallel()
	db := newTestInstance(t)
	file := filepath.Join(t.TempDir(), "msft.csv")
	require.NoError(t, os.WriteFile(file, []byte("1577836800,100,1,2,0.5,1.5\n1577923200,100,1.5,2,1,1.8\n"), 0o600), "WriteFile must not error")

	inserted, err := InsertFromCSV(context.Background(), db, "MSFT", file)
	require.NoError(t, err, "InsertFromCSV must not error")
	assert.Equal(t, uint64(2), inserted)

	_, err = InsertFromCSV(context.Background(), db, "MSFT", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
