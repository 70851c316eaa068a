// Package journal implements the trade lifecycle and derived-metrics engine:
// pure decimal metric calculations, trade invariant validation, and the
// open-to-closed state transition.
package journal

import (
	"time"

	"trade-journal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PnL returns the gross profit or loss of a round trip.
func PnL(direction models.TradeDirection, entryPrice, exitPrice, quantity decimal.Decimal) decimal.Decimal {
	if direction == models.TradeDirectionShort {
		return entryPrice.Sub(exitPrice).Mul(quantity)
	}
	return exitPrice.Sub(entryPrice).Mul(quantity)
}

// PnLPercent returns pnl as a percentage of the cost basis, or zero when the
// cost basis is zero.
func PnLPercent(pnl, entryPrice, quantity decimal.Decimal) decimal.Decimal {
	costBasis := entryPrice.Mul(quantity)
	if costBasis.IsZero() {
		return decimal.Zero
	}
	return pnl.Div(costBasis).Mul(hundred)
}

// NetPnL subtracts commissions from gross pnl. A nil commissions value is
// treated as zero.
func NetPnL(pnl decimal.Decimal, commissions *decimal.Decimal) decimal.Decimal {
	if commissions == nil {
		return pnl
	}
	return pnl.Sub(*commissions)
}

// RMultiple expresses pnl as a multiple of the amount risked. It is nil when
// riskAmount is absent or exactly zero; division by zero never happens.
func RMultiple(pnl decimal.Decimal, riskAmount *decimal.Decimal) *decimal.Decimal {
	if riskAmount == nil || riskAmount.IsZero() {
		return nil
	}
	r := pnl.Div(*riskAmount)
	return &r
}

// HoldTimeMinutes returns the whole-minute duration between entry and exit,
// truncated toward zero. Same-minute round trips yield 0.
func HoldTimeMinutes(entryDate, exitDate time.Time) int {
	return int(exitDate.Sub(entryDate) / time.Minute)
}

// RiskFromStop derives the dollar amount at risk from the stop placement.
// A stop on the wrong side of entry yields zero rather than an error; the
// validator rejects such stops on every write path, so this clamp is only
// reachable with already-validated inputs.
func RiskFromStop(direction models.TradeDirection, entryPrice, stopLoss, quantity decimal.Decimal) decimal.Decimal {
	switch direction {
	case models.TradeDirectionShort:
		if stopLoss.GreaterThan(entryPrice) {
			return stopLoss.Sub(entryPrice).Mul(quantity)
		}
	default:
		if entryPrice.GreaterThan(stopLoss) {
			return entryPrice.Sub(stopLoss).Mul(quantity)
		}
	}
	return decimal.Zero
}

// PositionSizePct returns the position value as a percentage of the account,
// or nil when the account size is zero.
func PositionSizePct(positionValue, accountSize decimal.Decimal) *decimal.Decimal {
	if accountSize.IsZero() {
		return nil
	}
	pct := positionValue.Div(accountSize).Mul(hundred)
	return &pct
}

// CloseMetrics holds the five derived fields a close operation produces.
// They are computed together and applied together; no close ever persists a
// subset.
type CloseMetrics struct {
	PnL             decimal.Decimal
	PnLPercent      decimal.Decimal
	NetPnL          decimal.Decimal
	RMultiple       *decimal.Decimal
	HoldTimeMinutes int
}

// ComputeCloseMetrics derives the close metrics for a trade. The actual exit
// price, when supplied, takes precedence over the quoted exit price.
func ComputeCloseMetrics(trade *models.Trade, req *models.CloseTradeRequest) CloseMetrics {
	exitPrice := req.ExitPrice
	if req.ActualExitPrice != nil {
		exitPrice = *req.ActualExitPrice
	}

	pnl := PnL(trade.Direction, trade.EntryPrice, exitPrice, trade.Quantity)

	return CloseMetrics{
		PnL:             pnl,
		PnLPercent:      PnLPercent(pnl, trade.EntryPrice, trade.Quantity),
		NetPnL:          NetPnL(pnl, trade.Commissions),
		RMultiple:       RMultiple(pnl, trade.RiskAmount),
		HoldTimeMinutes: HoldTimeMinutes(trade.EntryDate, req.ExitDate),
	}
}
