package repository

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"StockPulse/internal/domain/models"
)

// StaticSentimentProvider serves sentiment scores from a YAML file mapping
// symbols to a score in [-1,1] and an optional explanation. It stands in for
// the upstream news-scoring service; symbols without an entry report no
// sentiment and predictions proceed with a neutral factor.
type StaticSentimentProvider struct {
	scores map[string]sentimentEntry
}

type sentimentEntry struct {
	Score       float64 `yaml:"score"`
	Explanation string  `yaml:"explanation"`
}

// NewStaticSentimentProvider loads the sentiment file. An empty path yields
// a provider that knows no symbols.
func NewStaticSentimentProvider(path string) (*StaticSentimentProvider, error) {
	p := &StaticSentimentProvider{scores: make(map[string]sentimentEntry)}
	if path == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sentiment file: %w", err)
	}
	raw := make(map[string]sentimentEntry)
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse sentiment file: %w", err)
	}
	for symbol, entry := range raw {
		p.scores[strings.ToUpper(strings.TrimSpace(symbol))] = entry
	}
	return p, nil
}

func (p *StaticSentimentProvider) Sentiment(_ context.Context, symbol string) (models.Sentiment, bool, error) {
	entry, ok := p.scores[strings.ToUpper(symbol)]
	if !ok {
		return models.Sentiment{}, false, nil
	}
	return models.Sentiment{
		Symbol:      strings.ToUpper(symbol),
		Score:       entry.Score,
		Explanation: entry.Explanation,
	}, true, nil
}
