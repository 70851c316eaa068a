package journal

import (
	"trade-journal/models"

	"github.com/shopspring/decimal"
)

// ValidateTrade enforces field-level and cross-field trade invariants. It is
// side-effect free and must pass before any write: create, update, or CSV
// import all go through here, so wrong-side stops are rejected uniformly
// rather than silently clamped on some paths.
func ValidateTrade(entryPrice, quantity decimal.Decimal, stopLoss, takeProfit *decimal.Decimal, direction models.TradeDirection) error {
	if !entryPrice.IsPositive() {
		return models.NewValidationError("entry price must be greater than zero")
	}

	if !quantity.IsPositive() {
		return models.NewValidationError("quantity must be greater than zero")
	}

	if stopLoss != nil {
		switch direction {
		case models.TradeDirectionLong:
			if stopLoss.GreaterThanOrEqual(entryPrice) {
				return models.NewValidationError("stop loss must be below entry price for long trades")
			}
		case models.TradeDirectionShort:
			if stopLoss.LessThanOrEqual(entryPrice) {
				return models.NewValidationError("stop loss must be above entry price for short trades")
			}
		}
	}

	if takeProfit != nil {
		switch direction {
		case models.TradeDirectionLong:
			if takeProfit.LessThanOrEqual(entryPrice) {
				return models.NewValidationError("take profit must be above entry price for long trades")
			}
		case models.TradeDirectionShort:
			if takeProfit.GreaterThanOrEqual(entryPrice) {
				return models.NewValidationError("take profit must be below entry price for short trades")
			}
		}
	}

	return nil
}

// ValidateDirection checks the direction enum on request boundaries.
func ValidateDirection(direction models.TradeDirection) error {
	switch direction {
	case models.TradeDirectionLong, models.TradeDirectionShort:
		return nil
	}
	return models.NewValidationError("direction must be 'long' or 'short'")
}

// ValidateAssetClass checks the asset class enum on request boundaries.
func ValidateAssetClass(class models.AssetClass) error {
	switch class {
	case models.AssetClassStocks, models.AssetClassOptions, models.AssetClassFutures,
		models.AssetClassForex, models.AssetClassCrypto:
		return nil
	}
	return models.NewValidationError("asset class must be one of: stocks, options, futures, forex, crypto")
}
