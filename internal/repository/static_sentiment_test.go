package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStaticSentimentProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sentiment.yaml")
	content := "aapl:\n  score: 0.4\n  explanation: \"earnings beat\"\nXOM:\n  score: -0.3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := NewStaticSentimentProvider(path)
	if err != nil {
		t.Fatal(err)
	}

	s, ok, err := p.Sentiment(context.Background(), "AAPL")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if s.Score != 0.4 || s.Explanation != "earnings beat" {
		t.Errorf("got %+v", s)
	}

	if _, ok, _ := p.Sentiment(context.Background(), "MSFT"); ok {
		t.Fatal("unknown symbol must report no sentiment")
	}
}

func TestStaticSentimentProviderEmptyPath(t *testing.T) {
	p, err := NewStaticSentimentProvider("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := p.Sentiment(context.Background(), "AAPL"); ok {
		t.Fatal("empty provider must know no symbols")
	}
}

func TestStaticSentimentProviderBadFile(t *testing.T) {
	if _, err := NewStaticSentimentProvider(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
