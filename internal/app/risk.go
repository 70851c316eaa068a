package app

import (
	"context"

	"trade-journal/models"
	"trade-journal/risk"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// PositionSize sizes a prospective trade so a stop-out costs the requested
// fraction of the account. The server's default risk percent applies when the
// request leaves it out.
func (a *App) PositionSize(req *models.PositionSizeRequest) (*models.PositionSizeResponse, error) {
	if !req.AccountSize.IsPositive() {
		return nil, models.NewValidationError("account size must be positive")
	}
	if !req.EntryPrice.IsPositive() {
		return nil, models.NewValidationError("entry price must be positive")
	}
	if !req.StopLoss.IsPositive() {
		return nil, models.NewValidationError("stop loss must be positive")
	}
	if req.EntryPrice.Equal(req.StopLoss) {
		return nil, models.NewValidationError("stop loss must differ from entry price")
	}

	riskPercent := decimal.NewFromFloat(a.cfg.Risk.DefaultRiskPercent)
	if req.RiskPercent != nil {
		if !req.RiskPercent.IsPositive() {
			return nil, models.NewValidationError("risk percent must be positive")
		}
		riskPercent = *req.RiskPercent
	}

	size := risk.PositionSize(req.AccountSize, riskPercent, req.EntryPrice, req.StopLoss)

	resp := &models.PositionSizeResponse{
		PositionSize:    size,
		RiskAmount:      req.AccountSize.Mul(riskPercent).Div(decimal.NewFromInt(100)),
		RiskPercent:     riskPercent,
		MaxPositionSize: risk.MaxPositionSize(req.AccountSize, decimal.NewFromFloat(a.cfg.Risk.MaxPortfolioHeat)),
	}
	if req.TakeProfit != nil {
		resp.RiskRewardRatio = risk.RiskRewardRatio(req.EntryPrice, req.StopLoss, *req.TakeProfit)
	}
	if req.Commissions != nil && size.IsPositive() {
		breakeven := risk.BreakevenPrice(req.EntryPrice, size, *req.Commissions)
		resp.BreakevenPrice = &breakeven
	}
	return resp, nil
}

// Kelly returns the clamped Kelly fraction for the given edge.
func (a *App) Kelly(req *models.KellyRequest) (*models.KellyResponse, error) {
	if req.WinRate.IsNegative() || req.WinRate.GreaterThan(one) {
		return nil, models.NewValidationError("win rate must be between 0 and 1")
	}
	if req.AvgWin.IsNegative() || req.AvgLoss.IsNegative() {
		return nil, models.NewValidationError("average win and loss must not be negative")
	}
	return &models.KellyResponse{
		KellyFraction: risk.KellyCriterion(req.WinRate, req.AvgWin, req.AvgLoss),
	}, nil
}

// PortfolioHeat sums the recorded risk of the user's open trades against the
// account size. Open trades without a risk amount contribute nothing.
func (a *App) PortfolioHeat(ctx context.Context, userID uuid.UUID, accountSize *decimal.Decimal) (*models.PortfolioHeatResponse, error) {
	account := decimal.NewFromFloat(a.cfg.Analytics.StartingBalance)
	if accountSize != nil {
		if !accountSize.IsPositive() {
			return nil, models.NewValidationError("account size must be positive")
		}
		account = *accountSize
	}

	open, err := a.store.GetOpenTrades(ctx, userID)
	if err != nil {
		return nil, err
	}

	risks := make([]decimal.Decimal, 0, len(open))
	total := decimal.Zero
	for _, t := range open {
		if t.RiskAmount == nil {
			continue
		}
		risks = append(risks, *t.RiskAmount)
		total = total.Add(*t.RiskAmount)
	}

	maxHeat := decimal.NewFromFloat(a.cfg.Risk.MaxPortfolioHeat)
	heat := risk.PortfolioHeat(risks, account)

	return &models.PortfolioHeatResponse{
		AccountSize:    account,
		OpenTrades:     len(open),
		TotalRisk:      total,
		HeatPercent:    heat,
		MaxHeatPercent: maxHeat,
		OverMaxHeat:    heat.GreaterThan(maxHeat),
	}, nil
}
