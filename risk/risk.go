// Package risk holds stateless position-sizing and risk formulas. Every
// function is a pure decimal computation safe to call from any number of
// concurrent handlers.
package risk

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PositionSize returns the number of units to buy so that a losing stop-out
// costs riskPercent of the account. Zero distance between entry and stop
// yields zero rather than dividing by it.
func PositionSize(accountSize, riskPercent, entryPrice, stopLoss decimal.Decimal) decimal.Decimal {
	riskAmount := accountSize.Mul(riskPercent.Div(hundred))
	riskPerUnit := entryPrice.Sub(stopLoss).Abs()

	if riskPerUnit.IsZero() {
		return decimal.Zero
	}

	return riskAmount.Div(riskPerUnit)
}

// RiskRewardRatio returns reward distance over risk distance, or nil when
// the risk distance is zero.
func RiskRewardRatio(entryPrice, stopLoss, targetPrice decimal.Decimal) *decimal.Decimal {
	riskDist := entryPrice.Sub(stopLoss).Abs()
	rewardDist := targetPrice.Sub(entryPrice).Abs()

	if riskDist.IsZero() {
		return nil
	}

	ratio := rewardDist.Div(riskDist)
	return &ratio
}

// KellyCriterion returns the optimal fraction of capital to risk given a win
// rate in [0,1] and average win/loss sizes, clamped into [0,100]. A zero
// average loss yields zero.
func KellyCriterion(winRate, avgWin, avgLoss decimal.Decimal) decimal.Decimal {
	if avgLoss.IsZero() {
		return decimal.Zero
	}

	winLossRatio := avgWin.Div(avgLoss)
	kelly := winRate.Mul(winLossRatio).Sub(decimal.NewFromInt(1).Sub(winRate)).Div(winLossRatio)

	if kelly.IsNegative() {
		return decimal.Zero
	}
	if kelly.GreaterThan(hundred) {
		return hundred
	}
	return kelly
}

// MaxPositionSize returns the largest dollar exposure allowed under the
// given risk cap.
func MaxPositionSize(accountSize, maxRiskPercent decimal.Decimal) decimal.Decimal {
	return accountSize.Mul(maxRiskPercent.Div(hundred))
}

// BreakevenPrice returns the exit price at which a trade covers its
// commissions. With zero quantity the entry price is returned unchanged.
func BreakevenPrice(entryPrice, quantity, commissions decimal.Decimal) decimal.Decimal {
	if quantity.IsZero() {
		return entryPrice
	}
	return entryPrice.Add(commissions.Div(quantity))
}

// PortfolioHeat returns the total at-risk capital across open positions as a
// percentage of the account. A zero account size yields zero.
func PortfolioHeat(positionRisks []decimal.Decimal, accountSize decimal.Decimal) decimal.Decimal {
	if accountSize.IsZero() {
		return decimal.Zero
	}

	total := decimal.Zero
	for _, r := range positionRisks {
		total = total.Add(r)
	}

	return total.Div(accountSize).Mul(hundred)
}
