// Package app wires the journal's domain logic to its persistence and
// external services. Every operation is scoped to the calling user.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"trade-journal/analytics"
	"trade-journal/config"
	"trade-journal/importer"
	"trade-journal/journal"
	"trade-journal/models"
	"trade-journal/observability"
	"trade-journal/repository"
	"trade-journal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// App exposes the journal's operations to the transport layer.
type App struct {
	store    repository.TradeStore
	critique services.CritiqueServiceInterface
	cfg      *config.Config
}

// New creates the application with its collaborators. critique may be nil
// when no AI backend is configured.
func New(store repository.TradeStore, critique services.CritiqueServiceInterface, cfg *config.Config) *App {
	return &App{
		store:    store,
		critique: critique,
		cfg:      cfg,
	}
}

// CreateTrade validates and opens a new trade. When the request carries a
// stop loss but no explicit risk amount, the risk implied by the stop is
// recorded so the R multiple can be computed at close time.
func (a *App) CreateTrade(ctx context.Context, userID uuid.UUID, req *models.CreateTradeRequest) (*models.Trade, error) {
	if err := a.validateCreate(req); err != nil {
		observability.GetMetrics().RecordValidationReject("create")
		return nil, err
	}

	trade := models.NewTrade(userID, req)

	if trade.RiskAmount == nil && trade.StopLoss != nil {
		risk := journal.RiskFromStop(trade.Direction, trade.EntryPrice, *trade.StopLoss, trade.Quantity)
		if risk.IsPositive() {
			trade.RiskAmount = &risk
		}
	}

	if err := a.store.CreateTrade(ctx, trade); err != nil {
		return nil, err
	}

	observability.GetMetrics().RecordTradeOpened(string(trade.Direction), string(trade.AssetClass))
	observability.WithTrade(trade.ID).Info("trade opened",
		"user_id", userID.String(),
		"symbol", trade.Symbol,
		"direction", trade.Direction)
	return trade, nil
}

func (a *App) validateCreate(req *models.CreateTradeRequest) error {
	if req.Symbol == "" {
		return models.NewValidationError("symbol is required")
	}
	if err := journal.ValidateDirection(req.Direction); err != nil {
		return err
	}
	if err := journal.ValidateAssetClass(req.AssetClass); err != nil {
		return err
	}
	return journal.ValidateTrade(req.EntryPrice, req.Quantity, req.StopLoss, req.TakeProfit, req.Direction)
}

// GetTrade returns one of the user's trades
func (a *App) GetTrade(ctx context.Context, userID, id uuid.UUID) (*models.Trade, error) {
	return a.store.GetTrade(ctx, userID, id)
}

// ListTrades returns a filtered page of the user's trades
func (a *App) ListTrades(ctx context.Context, userID uuid.UUID, query models.TradeListQuery) (*models.TradeListResponse, error) {
	return a.store.ListTrades(ctx, userID, query)
}

// UpdateTrade patches an open trade. Validation runs against the merged
// state, so a patch cannot move a stop to the wrong side of an existing
// entry price.
func (a *App) UpdateTrade(ctx context.Context, userID, id uuid.UUID, req *models.UpdateTradeRequest) (*models.Trade, error) {
	current, err := a.store.GetOpenTrade(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	entryPrice := current.EntryPrice
	if req.EntryPrice != nil {
		entryPrice = *req.EntryPrice
	}
	quantity := current.Quantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	stopLoss := current.StopLoss
	if req.StopLoss != nil {
		stopLoss = req.StopLoss
	}
	takeProfit := current.TakeProfit
	if req.TakeProfit != nil {
		takeProfit = req.TakeProfit
	}

	if err := journal.ValidateTrade(entryPrice, quantity, stopLoss, takeProfit, current.Direction); err != nil {
		observability.GetMetrics().RecordValidationReject("update")
		return nil, err
	}

	return a.store.UpdateTrade(ctx, userID, id, req)
}

// CloseTrade closes an open trade and records its derived metrics. The
// store applies the close atomically, so one of two concurrent closes is
// reported as not finding an open trade.
func (a *App) CloseTrade(ctx context.Context, userID, id uuid.UUID, req *models.CloseTradeRequest) (*models.Trade, error) {
	if !req.ExitPrice.IsPositive() {
		observability.GetMetrics().RecordValidationReject("close")
		return nil, models.NewValidationError("exit price must be positive")
	}

	trade, err := a.store.GetOpenTrade(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.ExitDate.Before(trade.EntryDate) {
		observability.GetMetrics().RecordValidationReject("close")
		return nil, models.NewValidationError("exit date must not precede entry date")
	}

	update, err := journal.BuildCloseUpdate(trade, req)
	if err != nil {
		return nil, err
	}

	closed, err := a.store.CloseTrade(ctx, userID, id, update)
	if err != nil {
		return nil, err
	}

	outcome := "loss"
	if closed.NetPnL != nil && closed.NetPnL.IsPositive() {
		outcome = "win"
	}
	var rMultiple *float64
	if closed.RMultiple != nil {
		r, _ := closed.RMultiple.Float64()
		rMultiple = &r
	}
	holdTime := 0
	if closed.HoldTimeMinutes != nil {
		holdTime = *closed.HoldTimeMinutes
	}
	observability.GetMetrics().RecordTradeClosed(string(closed.Direction), outcome, rMultiple, holdTime)
	observability.WithTrade(closed.ID).Info("trade closed",
		"user_id", userID.String(),
		"symbol", closed.Symbol,
		"outcome", outcome)
	return closed, nil
}

// DeleteTrade removes one of the user's trades
func (a *App) DeleteTrade(ctx context.Context, userID, id uuid.UUID) error {
	return a.store.DeleteTrade(ctx, userID, id)
}

// AddTradeLeg appends an execution to a trade
func (a *App) AddTradeLeg(ctx context.Context, userID, tradeID uuid.UUID, req *models.CreateTradeLegRequest) (*models.TradeLeg, error) {
	if req.Action != "buy" && req.Action != "sell" {
		return nil, models.NewValidationError("leg action must be buy or sell")
	}
	if !req.Quantity.IsPositive() {
		return nil, models.NewValidationError("leg quantity must be positive")
	}
	if !req.Price.IsPositive() {
		return nil, models.NewValidationError("leg price must be positive")
	}
	return a.store.AddTradeLeg(ctx, userID, tradeID, req)
}

// GetTradeLegs returns a trade's executions in order
func (a *App) GetTradeLegs(ctx context.Context, userID, tradeID uuid.UUID) ([]models.TradeLeg, error) {
	return a.store.GetTradeLegs(ctx, userID, tradeID)
}

// Stats returns aggregate performance numbers over the user's closed trades
func (a *App) Stats(ctx context.Context, userID uuid.UUID, from, to *time.Time) (*models.TradeStats, error) {
	trades, err := a.store.GetClosedTrades(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	timer := observability.GetMetrics().NewTimer()
	stats := analytics.Stats(trades)
	timer.ObserveAnalytics("stats")
	return &stats, nil
}

// EquityCurve returns the cumulative net P&L series over closed trades
func (a *App) EquityCurve(ctx context.Context, userID uuid.UUID, from, to *time.Time) (*models.EquityCurveResponse, error) {
	trades, err := a.store.GetClosedTrades(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	timer := observability.GetMetrics().NewTimer()
	curve := analytics.EquityCurve(trades, decimal.NewFromFloat(a.cfg.Analytics.StartingBalance))
	timer.ObserveAnalytics("equity_curve")
	return &curve, nil
}

// Drawdown returns peak-to-trough analysis of the equity curve
func (a *App) Drawdown(ctx context.Context, userID uuid.UUID, from, to *time.Time) (*models.DrawdownAnalysis, error) {
	curve, err := a.EquityCurve(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	timer := observability.GetMetrics().NewTimer()
	dd := analytics.Drawdown(curve.Points)
	timer.ObserveAnalytics("drawdown")
	return &dd, nil
}

// WinLoss returns the win/loss partition of closed trades
func (a *App) WinLoss(ctx context.Context, userID uuid.UUID, from, to *time.Time) (*models.WinLossDistribution, error) {
	trades, err := a.store.GetClosedTrades(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	timer := observability.GetMetrics().NewTimer()
	dist := analytics.WinLoss(trades)
	timer.ObserveAnalytics("win_loss")
	return &dist, nil
}

// SetupPerformance returns per-setup aggregates, hiding setups with too few
// trades to be meaningful.
func (a *App) SetupPerformance(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]models.SetupPerformance, error) {
	trades, err := a.store.GetClosedTrades(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	timer := observability.GetMetrics().NewTimer()
	setups := analytics.SetupPerformance(trades, a.cfg.Analytics.MinSetupSampleSize)
	timer.ObserveAnalytics("setup_performance")
	return setups, nil
}

// TimeBased returns hourly, weekday, and monthly performance buckets
func (a *App) TimeBased(ctx context.Context, userID uuid.UUID, from, to *time.Time) (*models.TimeBasedAnalytics, error) {
	trades, err := a.store.GetClosedTrades(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	timer := observability.GetMetrics().NewTimer()
	tb := analytics.TimeBased(trades)
	timer.ObserveAnalytics("time_based")
	return &tb, nil
}

// ImportReport summarizes a CSV import run
type ImportReport struct {
	Imported int                 `json:"imported"`
	Closed   int                 `json:"closed"`
	Errors   []importer.RowError `json:"errors,omitempty"`
}

// ImportCSV parses a CSV export and journals each valid row. Rows with exit
// data are created and immediately closed so their metrics are derived the
// same way as a live close.
func (a *App) ImportCSV(ctx context.Context, userID uuid.UUID, r io.Reader) (*ImportReport, error) {
	parsed, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}

	metrics := observability.GetMetrics()
	report := &ImportReport{Errors: parsed.Errors}
	for range parsed.Errors {
		metrics.RecordImportRow("rejected")
	}

	for _, imported := range parsed.Trades {
		req := imported.Create
		trade, err := a.CreateTrade(ctx, userID, &req)
		if err != nil {
			return report, fmt.Errorf("failed to import trade %s: %w", req.Symbol, err)
		}
		report.Imported++
		metrics.RecordImportRow("imported")

		if imported.Close != nil {
			if _, err := a.CloseTrade(ctx, userID, trade.ID, imported.Close); err != nil {
				return report, fmt.Errorf("failed to close imported trade %s: %w", req.Symbol, err)
			}
			report.Closed++
		}
	}

	observability.WithUser(userID).Info("csv import finished",
		"imported", report.Imported,
		"closed", report.Closed,
		"rejected", len(report.Errors))
	return report, nil
}

// CritiqueTrade asks the configured AI backend to review a closed trade
func (a *App) CritiqueTrade(ctx context.Context, userID, id uuid.UUID) (*models.TradeCritique, error) {
	if a.critique == nil {
		return nil, fmt.Errorf("critique service not configured")
	}

	trade, err := a.store.GetTrade(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return a.critique.CritiqueTrade(ctx, trade)
}
