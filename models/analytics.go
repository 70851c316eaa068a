package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EquityCurvePoint is one closed trade on the cumulative P&L curve.
// TradeCount is 1-based and strictly increasing in exit-date order.
type EquityCurvePoint struct {
	Date          time.Time       `json:"date"`
	CumulativePnL decimal.Decimal `json:"cumulative_pnl"`
	TradeCount    int64           `json:"trade_count"`
}

type EquityCurveResponse struct {
	Points          []EquityCurvePoint `json:"points"`
	StartingBalance decimal.Decimal    `json:"starting_balance"`
}

// WinLossDistribution partitions closed trades on net P&L. Ties (net P&L
// exactly zero) count as losses. Wins are sorted largest first, losses most
// negative first.
type WinLossDistribution struct {
	Wins        []decimal.Decimal `json:"wins"`
	Losses      []decimal.Decimal `json:"losses"`
	AvgWin      decimal.Decimal   `json:"avg_win"`
	AvgLoss     decimal.Decimal   `json:"avg_loss"`
	LargestWin  decimal.Decimal   `json:"largest_win"`
	LargestLoss decimal.Decimal   `json:"largest_loss"`
}

type SetupPerformance struct {
	SetupName    string           `json:"setup_name"`
	TradeCount   int64            `json:"trade_count"`
	WinCount     int64            `json:"win_count"`
	LossCount    int64            `json:"loss_count"`
	WinRate      decimal.Decimal  `json:"win_rate"`
	TotalPnL     decimal.Decimal  `json:"total_pnl"`
	AvgPnL       decimal.Decimal  `json:"avg_pnl"`
	AvgRMultiple *decimal.Decimal `json:"avg_r_multiple,omitempty"`
	LargestWin   decimal.Decimal  `json:"largest_win"`
	LargestLoss  decimal.Decimal  `json:"largest_loss"`
}

type HourlyPerformance struct {
	Hour       int             `json:"hour"`
	TradeCount int64           `json:"trade_count"`
	WinRate    decimal.Decimal `json:"win_rate"`
	AvgPnL     decimal.Decimal `json:"avg_pnl"`
}

type DailyPerformance struct {
	DayOfWeek  int             `json:"day_of_week"`
	DayName    string          `json:"day_name"`
	TradeCount int64           `json:"trade_count"`
	WinRate    decimal.Decimal `json:"win_rate"`
	AvgPnL     decimal.Decimal `json:"avg_pnl"`
}

type MonthlyPerformance struct {
	Month      string          `json:"month"`
	TradeCount int64           `json:"trade_count"`
	TotalPnL   decimal.Decimal `json:"total_pnl"`
	WinRate    decimal.Decimal `json:"win_rate"`
}

type TimeBasedAnalytics struct {
	Hourly  []HourlyPerformance  `json:"hourly"`
	Daily   []DailyPerformance   `json:"daily"`
	Monthly []MonthlyPerformance `json:"monthly"`
}

// DrawdownAnalysis tracks peak-to-trough decline over the equity curve.
// RecoveryFactor is nil when no drawdown was ever observed.
type DrawdownAnalysis struct {
	CurrentDrawdown decimal.Decimal  `json:"current_drawdown"`
	MaxDrawdown     decimal.Decimal  `json:"max_drawdown"`
	MaxDrawdownDate *time.Time       `json:"max_drawdown_date,omitempty"`
	RecoveryFactor  *decimal.Decimal `json:"recovery_factor,omitempty"`
}
