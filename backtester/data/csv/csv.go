package csv

import (
	"context"
	gocsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/bar"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/common/convert"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
	"github.com/shopspring/decimal"
)

// Load reads every configured symbol's file
func (l *Loader) Load(ctx context.Context) (map[string][]bar.Bar, error) {
	if l.Directory == "" {
		return nil, errNoDirectory
	}
	files, err := l.files()
	if err != nil {
		return nil, err
	}
	resp := make(map[string][]bar.Bar, len(files))
	for symbol, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bars, err := LoadFile(path, symbol)
		if err != nil {
			return nil, err
		}
		resp[symbol] = l.filter(bars)
		log.Debugf(log.Data, "loaded %d bars for %s from %s", len(resp[symbol]), symbol, path)
	}
	return resp, nil
}

func (l *Loader) files() (map[string]string, error) {
	resp := make(map[string]string)
	if len(l.Symbols) > 0 {
		for i := range l.Symbols {
			symbol := strings.ToUpper(l.Symbols[i])
			path := filepath.Join(l.Directory, l.Symbols[i]+".csv")
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("%s %w", symbol, err)
			}
			resp[symbol] = path
		}
		return resp, nil
	}
	matches, err := filepath.Glob(filepath.Join(l.Directory, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w in %s", errNoFiles, l.Directory)
	}
	for i := range matches {
		symbol := strings.ToUpper(strings.TrimSuffix(filepath.Base(matches[i]), filepath.Ext(matches[i])))
		resp[symbol] = matches[i]
	}
	return resp, nil
}

func (l *Loader) filter(bars []bar.Bar) []bar.Bar {
	if l.Start.IsZero() && l.End.IsZero() {
		return bars
	}
	resp := bars[:0]
	for i := range bars {
		if !l.Start.IsZero() && bars[i].Timestamp.Before(l.Start) {
			continue
		}
		if !l.End.IsZero() && bars[i].Timestamp.After(l.End) {
			continue
		}
		resp = append(resp, bars[i])
	}
	return resp
}

// LoadFile reads a single symbol's bars from a CSV file
func LoadFile(path, symbol string) ([]bar.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if errC := f.Close(); errC != nil {
			log.Errorln(log.Data, errC)
		}
	}()
	bars, err := ReadBars(f, symbol)
	if err != nil {
		return nil, fmt.Errorf("%s %w", path, err)
	}
	return bars, nil
}

// ReadBars parses headed CSV rows into bars. Header names are matched case
// insensitively; columns other than the timestamp and OHLCV are kept as
// derived columns. Rows with unparseable prices are skipped
func ReadBars(r io.Reader, symbol string) ([]bar.Bar, error) {
	reader := gocsv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyFile
		}
		return nil, err
	}
	cols, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	var bars []bar.Bar
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		b, err := cols.parseRow(row, symbol)
		if err != nil {
			log.Warnf(log.Data, "%s skipping line %d: %v", symbol, line, err)
			continue
		}
		bars = append(bars, b)
	}
	if len(bars) == 0 {
		return nil, errEmptyFile
	}
	return bars, nil
}

func parseHeader(header []string) (*columns, error) {
	c := &columns{
		timestamp: -1, open: -1, high: -1, low: -1, close: -1, volume: -1,
		derived: make(map[string]int),
	}
	for i := range header {
		name := strings.ToLower(strings.TrimSpace(header[i]))
		switch name {
		case "open":
			c.open = i
		case "high":
			c.high = i
		case "low":
			c.low = i
		case "close":
			c.close = i
		case "volume":
			c.volume = i
		default:
			if c.timestamp == -1 && isTimestampColumn(name) {
				c.timestamp = i
				continue
			}
			if name != "" {
				c.derived[name] = i
			}
		}
	}
	var err error
	required := []struct {
		name string
		idx  int
	}{
		{"timestamp", c.timestamp},
		{"open", c.open},
		{"high", c.high},
		{"low", c.low},
		{"close", c.close},
	}
	for i := range required {
		if required[i].idx == -1 {
			err = common.AppendError(err, fmt.Errorf("%w: %s", errMissingColumn, required[i].name))
		}
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func isTimestampColumn(name string) bool {
	for i := range timestampColumns {
		if name == timestampColumns[i] {
			return true
		}
	}
	return false
}

func (c *columns) parseRow(row []string, symbol string) (bar.Bar, error) {
	b := bar.Bar{Symbol: symbol}
	var err error
	b.Timestamp, err = convert.TimeFromString(row[c.timestamp])
	if err != nil {
		return b, err
	}
	prices := []struct {
		idx int
		dst *decimal.Decimal
	}{
		{c.open, &b.Open},
		{c.high, &b.High},
		{c.low, &b.Low},
		{c.close, &b.Close},
		{c.volume, &b.Volume},
	}
	for i := range prices {
		if prices[i].idx == -1 {
			continue
		}
		*prices[i].dst, err = decimal.NewFromString(strings.TrimSpace(row[prices[i].idx]))
		if err != nil {
			return b, err
		}
	}
	for name, idx := range c.derived {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		if err != nil {
			continue
		}
		b.SetDerived(name, v)
	}
	return b, nil
}
