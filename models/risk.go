package models

import "github.com/shopspring/decimal"

// PositionSizeRequest asks how many units to buy for a planned entry. When
// RiskPercent is omitted the server's default risk percent applies.
type PositionSizeRequest struct {
	AccountSize decimal.Decimal  `json:"account_size"`
	RiskPercent *decimal.Decimal `json:"risk_percent,omitempty"`
	EntryPrice  decimal.Decimal  `json:"entry_price"`
	StopLoss    decimal.Decimal  `json:"stop_loss"`
	TakeProfit  *decimal.Decimal `json:"take_profit,omitempty"`
	Commissions *decimal.Decimal `json:"commissions,omitempty"`
}

// PositionSizeResponse reports the sizing plan for a prospective trade.
type PositionSizeResponse struct {
	PositionSize    decimal.Decimal  `json:"position_size"`
	RiskAmount      decimal.Decimal  `json:"risk_amount"`
	RiskPercent     decimal.Decimal  `json:"risk_percent"`
	MaxPositionSize decimal.Decimal  `json:"max_position_size"`
	RiskRewardRatio *decimal.Decimal `json:"risk_reward_ratio,omitempty"`
	BreakevenPrice  *decimal.Decimal `json:"breakeven_price,omitempty"`
}

// KellyRequest carries the inputs to the Kelly criterion. WinRate is a
// fraction in [0,1]; AvgLoss is a positive magnitude.
type KellyRequest struct {
	WinRate decimal.Decimal `json:"win_rate"`
	AvgWin  decimal.Decimal `json:"avg_win"`
	AvgLoss decimal.Decimal `json:"avg_loss"`
}

// KellyResponse reports the clamped Kelly fraction.
type KellyResponse struct {
	KellyFraction decimal.Decimal `json:"kelly_fraction"`
}

// PortfolioHeatResponse reports total capital at risk across open trades.
type PortfolioHeatResponse struct {
	AccountSize    decimal.Decimal `json:"account_size"`
	OpenTrades     int             `json:"open_trades"`
	TotalRisk      decimal.Decimal `json:"total_risk"`
	HeatPercent    decimal.Decimal `json:"heat_percent"`
	MaxHeatPercent decimal.Decimal `json:"max_heat_percent"`
	OverMaxHeat    bool            `json:"over_max_heat"`
}
