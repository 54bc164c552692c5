package symbols

import "strings"

// sectorTickers is the static monitoring universe grouped by sector.
var sectorTickers = map[string][]string{
	"tech":       {"AAPL", "MSFT", "GOOGL", "NVDA", "META", "AMZN"},
	"healthcare": {"JNJ", "UNH", "PFE", "ABBV", "MRK"},
	"energy":     {"XOM", "CVX", "COP", "SLB"},
	"finance":    {"JPM", "BAC", "GS", "V", "MA"},
	"consumer":   {"WMT", "COST", "PG", "KO", "PEP"},
}

var defaultTickers = []string{"AAPL", "MSFT", "GOOGL", "NVDA", "AMZN", "META", "TSLA", "JPM", "V", "UNH"}

const maxUniverseTickers = 12

// Select returns the monitoring tickers for the preferred sectors, keeping
// first-seen order and deduplicating, capped at 12. Unknown or empty sector
// lists fall back to the default universe.
func Select(preferredSectors []string) []string {
	out := make([]string, 0, maxUniverseTickers)
	seen := make(map[string]struct{})
	for _, sector := range preferredSectors {
		key := strings.ToLower(strings.TrimSpace(sector))
		for _, t := range sectorTickers[key] {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
			if len(out) == maxUniverseTickers {
				return out
			}
		}
	}
	if len(out) == 0 {
		return append(out, defaultTickers...)
	}
	return out
}

// SectorOf returns the sector a ticker belongs to, or "Unknown".
func SectorOf(symbol string) string {
	for sector, tickers := range sectorTickers {
		for _, t := range tickers {
			if t == symbol {
				return sector
			}
		}
	}
	return "Unknown"
}
