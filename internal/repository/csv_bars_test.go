package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeBarFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCSVBarProviderHistory(t *testing.T) {
	dir := t.TempDir()
	// Out of order on purpose; History must sort ascending.
	writeBarFile(t, dir, "AAPL.csv",
		"date,open,high,low,close,volume\n"+
			"2024-01-04,101,103,100,102.5,1200000\n"+
			"2024-01-02,100,102,99,101,1000000\n"+
			"2024-01-03,101,102.5,100.5,101.5,1100000\n")

	p := NewCSVBarProvider(dir)
	bars, err := p.History(context.Background(), "aapl")
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 3 {
		t.Fatalf("got %d bars, want 3", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Date.Before(bars[i].Date) {
			t.Fatal("bars not sorted by date")
		}
	}
	if bars[2].Close != 102.5 || bars[2].Volume != 1200000 {
		t.Errorf("last bar = %+v", bars[2])
	}
}

func TestCSVBarProviderMissingFile(t *testing.T) {
	p := NewCSVBarProvider(t.TempDir())
	bars, err := p.History(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("missing file should be empty history, got %v", err)
	}
	if bars != nil {
		t.Fatalf("got %d bars, want none", len(bars))
	}
}

func TestCSVBarProviderMalformedRow(t *testing.T) {
	dir := t.TempDir()
	writeBarFile(t, dir, "BAD.csv",
		"date,open,high,low,close,volume\n"+
			"2024-01-02,oops,102,99,101,1000000\n")

	p := NewCSVBarProvider(dir)
	if _, err := p.History(context.Background(), "BAD"); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestCSVBarProviderSymbols(t *testing.T) {
	dir := t.TempDir()
	writeBarFile(t, dir, "msft.csv", "date,open,high,low,close,volume\n")
	writeBarFile(t, dir, "AAPL.csv", "date,open,high,low,close,volume\n")
	writeBarFile(t, dir, "notes.txt", "ignore me")

	p := NewCSVBarProvider(dir)
	got := p.Symbols()
	if len(got) != 2 || got[0] != "AAPL" || got[1] != "MSFT" {
		t.Fatalf("symbols = %v, want [AAPL MSFT]", got)
	}
}
