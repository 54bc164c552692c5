package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/util"
)

// CSVBarProvider serves daily bar history from per-symbol CSV files in a
// directory: <dir>/<SYMBOL>.csv with header date,open,high,low,close,volume.
// Missing files and short series are reported as empty history, not errors;
// insufficient data is the caller's concern.
type CSVBarProvider struct {
	dir string
}

func NewCSVBarProvider(dir string) *CSVBarProvider {
	return &CSVBarProvider{dir: dir}
}

// Symbols lists the securities with a data file present.
func (p *CSVBarProvider) Symbols() []string {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		out = append(out, strings.ToUpper(strings.TrimSuffix(name, ".csv")))
	}
	sort.Strings(out)
	return out
}

// History loads the bar series for symbol, sorted by date ascending.
func (p *CSVBarProvider) History(_ context.Context, symbol string) ([]models.Bar, error) {
	path := filepath.Join(p.dir, strings.ToUpper(symbol)+".csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open bars for %s: %w", symbol, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6
	r.TrimLeadingSpace = true

	bars := make([]models.Bar, 0, 256)
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read bars for %s: %w", symbol, err)
		}
		line++
		if line == 1 && strings.EqualFold(record[0], "date") {
			continue // header
		}
		bar, err := parseBar(record)
		if err != nil {
			return nil, fmt.Errorf("bars for %s line %d: %w", symbol, line, err)
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func parseBar(record []string) (models.Bar, error) {
	date, ok := util.ParseDate(record[0])
	if !ok {
		return models.Bar{}, fmt.Errorf("bad date %q", record[0])
	}
	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
		if err != nil {
			return models.Bar{}, fmt.Errorf("bad number %q: %w", record[i+1], err)
		}
		vals[i] = v
	}
	return models.Bar{
		Date:   date,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
