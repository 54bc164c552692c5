package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/config"
	"StockPulse/pkg/logger"
)

// App encapsulates one advice batch run: build the request from config,
// invoke the advisor, render the result.
type App struct {
	cfg     *config.Config
	log     *logger.Logger
	advisor *usecase.Advisor
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, log *logger.Logger, advisor *usecase.Advisor) *App {
	return &App{cfg: cfg, log: log, advisor: advisor}
}

// Run executes the batch and blocks until it finishes or the process is
// interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	req := usecase.AdviceRequest{
		Profile: models.RiskProfile{
			Tolerance:        models.ParseRiskTolerance(a.cfg.Profile.RiskTolerance),
			Horizon:          models.ParseHorizon(a.cfg.Profile.Horizon),
			MaxLossTolerance: a.cfg.Profile.MaxLossTolerance,
			PreferredSectors: a.cfg.Profile.PreferredSectors,
		},
		Holdings: a.cfg.Holdings,
	}

	recs, err := a.advisor.Advise(ctx, req)
	if err != nil {
		return fmt.Errorf("advice batch: %w", err)
	}

	render(recs)
	return nil
}

func render(recs []models.Recommendation) {
	if len(recs) == 0 {
		fmt.Println("No recommendations.")
		return
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Symbol", "Action", "Confidence", "Prob", "Price", "Method", "Top Signal"}),
	)
	for _, r := range recs {
		method := "heuristic"
		if r.RawModelProbability != nil {
			method = "model"
		}
		top := ""
		if len(r.Signals) > 0 {
			top = r.Signals[0].Text
			if len(top) > 45 {
				top = top[:45] + "..."
			}
		}
		table.Append([]string{
			r.Symbol,
			string(r.Action),
			fmt.Sprintf("%.2f", r.ConfidenceScore),
			fmt.Sprintf("%.2f", r.Probability),
			fmt.Sprintf("%.2f", r.Price),
			method,
			top,
		})
	}
	table.Render()
}
