package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Trade struct {
	ID         uuid.UUID      `json:"id"`
	UserID     uuid.UUID      `json:"user_id"`
	Symbol     string         `json:"symbol"`
	Direction  TradeDirection `json:"direction"`
	AssetClass AssetClass     `json:"asset_class"`
	Status     TradeStatus    `json:"status"`

	// Entry details
	EntryDate  time.Time        `json:"entry_date"`
	EntryPrice decimal.Decimal  `json:"entry_price"`
	Quantity   decimal.Decimal  `json:"quantity"`
	StopLoss   *decimal.Decimal `json:"stop_loss,omitempty"`
	TakeProfit *decimal.Decimal `json:"take_profit,omitempty"`

	// Exit details
	ExitDate        *time.Time       `json:"exit_date,omitempty"`
	ExitPrice       *decimal.Decimal `json:"exit_price,omitempty"`
	ActualExitPrice *decimal.Decimal `json:"actual_exit_price,omitempty"`

	// Derived metrics, populated only when Status is Closed
	PnL             *decimal.Decimal `json:"pnl,omitempty"`
	PnLPercent      *decimal.Decimal `json:"pnl_percent,omitempty"`
	Commissions     *decimal.Decimal `json:"commissions,omitempty"`
	NetPnL          *decimal.Decimal `json:"net_pnl,omitempty"`
	RMultiple       *decimal.Decimal `json:"r_multiple,omitempty"`
	MAE             *decimal.Decimal `json:"mae,omitempty"`
	MFE             *decimal.Decimal `json:"mfe,omitempty"`
	HoldTimeMinutes *int             `json:"hold_time_minutes,omitempty"`

	// Risk and setup
	RiskAmount      *decimal.Decimal `json:"risk_amount,omitempty"`
	RiskPercent     *decimal.Decimal `json:"risk_percent,omitempty"`
	PositionSizePct *decimal.Decimal `json:"position_size_pct,omitempty"`
	Conviction      *ConvictionLevel `json:"conviction,omitempty"`
	SetupName       *string          `json:"setup_name,omitempty"`
	Timeframe       *string          `json:"timeframe,omitempty"`

	// Notes and post-close analysis
	Thesis          *string `json:"thesis,omitempty"`
	Mistakes        *string `json:"mistakes,omitempty"`
	Lessons         *string `json:"lessons,omitempty"`
	EmotionalState  *string `json:"emotional_state,omitempty"`
	MarketCondition *string `json:"market_condition,omitempty"`

	// Grading
	ExecutionGrade  *string `json:"execution_grade,omitempty"`
	PatienceGrade   *string `json:"patience_grade,omitempty"`
	DisciplineGrade *string `json:"discipline_grade,omitempty"`
	OverallGrade    *string `json:"overall_grade,omitempty"`

	// Flags
	IsPaperTrade   bool `json:"is_paper_trade"`
	IsRevengeTrade bool `json:"is_revenge_trade"`
	BrokeRules     bool `json:"broke_rules"`
	FollowedPlan   bool `json:"followed_plan"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TradeDirection string

const (
	TradeDirectionLong  TradeDirection = "long"
	TradeDirectionShort TradeDirection = "short"
)

type TradeStatus string

const (
	TradeStatusOpen      TradeStatus = "open"
	TradeStatusClosed    TradeStatus = "closed"
	TradeStatusCancelled TradeStatus = "cancelled"
)

type AssetClass string

const (
	AssetClassStocks  AssetClass = "stocks"
	AssetClassOptions AssetClass = "options"
	AssetClassFutures AssetClass = "futures"
	AssetClassForex   AssetClass = "forex"
	AssetClassCrypto  AssetClass = "crypto"
)

type ConvictionLevel string

const (
	ConvictionLow    ConvictionLevel = "low"
	ConvictionMedium ConvictionLevel = "medium"
	ConvictionHigh   ConvictionLevel = "high"
)

// NewTrade builds an open trade from a create request. Exit and derived
// fields stay nil until the close operation populates them.
func NewTrade(userID uuid.UUID, req *CreateTradeRequest) *Trade {
	now := time.Now().UTC()
	return &Trade{
		ID:              uuid.New(),
		UserID:          userID,
		Symbol:          req.Symbol,
		Direction:       req.Direction,
		AssetClass:      req.AssetClass,
		Status:          TradeStatusOpen,
		EntryDate:       req.EntryDate,
		EntryPrice:      req.EntryPrice,
		Quantity:        req.Quantity,
		StopLoss:        req.StopLoss,
		TakeProfit:      req.TakeProfit,
		Commissions:     req.Commissions,
		RiskAmount:      req.RiskAmount,
		RiskPercent:     req.RiskPercent,
		PositionSizePct: req.PositionSizePct,
		Conviction:      req.Conviction,
		SetupName:       req.SetupName,
		Timeframe:       req.Timeframe,
		Thesis:          req.Thesis,
		EmotionalState:  req.EmotionalState,
		MarketCondition: req.MarketCondition,
		IsPaperTrade:    req.IsPaperTrade != nil && *req.IsPaperTrade,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsOpen reports whether the trade can still be mutated or closed.
func (t *Trade) IsOpen() bool {
	return t.Status == TradeStatusOpen
}

type CreateTradeRequest struct {
	Symbol          string           `json:"symbol"`
	Direction       TradeDirection   `json:"direction"`
	AssetClass      AssetClass       `json:"asset_class"`
	EntryDate       time.Time        `json:"entry_date"`
	EntryPrice      decimal.Decimal  `json:"entry_price"`
	Quantity        decimal.Decimal  `json:"quantity"`
	StopLoss        *decimal.Decimal `json:"stop_loss,omitempty"`
	TakeProfit      *decimal.Decimal `json:"take_profit,omitempty"`
	RiskAmount      *decimal.Decimal `json:"risk_amount,omitempty"`
	RiskPercent     *decimal.Decimal `json:"risk_percent,omitempty"`
	PositionSizePct *decimal.Decimal `json:"position_size_pct,omitempty"`
	Conviction      *ConvictionLevel `json:"conviction,omitempty"`
	SetupName       *string          `json:"setup_name,omitempty"`
	Timeframe       *string          `json:"timeframe,omitempty"`
	Thesis          *string          `json:"thesis,omitempty"`
	EmotionalState  *string          `json:"emotional_state,omitempty"`
	MarketCondition *string          `json:"market_condition,omitempty"`
	IsPaperTrade    *bool            `json:"is_paper_trade,omitempty"`
	Commissions     *decimal.Decimal `json:"commissions,omitempty"`
}

// UpdateTradeRequest is a field-by-field patch. A nil field means "leave
// unchanged", which is distinct from clearing a field; clearing is not
// supported through this request.
type UpdateTradeRequest struct {
	Symbol      *string          `json:"symbol,omitempty"`
	EntryPrice  *decimal.Decimal `json:"entry_price,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	StopLoss    *decimal.Decimal `json:"stop_loss,omitempty"`
	TakeProfit  *decimal.Decimal `json:"take_profit,omitempty"`
	RiskAmount  *decimal.Decimal `json:"risk_amount,omitempty"`
	RiskPercent *decimal.Decimal `json:"risk_percent,omitempty"`
	Conviction  *ConvictionLevel `json:"conviction,omitempty"`
	SetupName   *string          `json:"setup_name,omitempty"`
	Timeframe   *string          `json:"timeframe,omitempty"`
	Thesis      *string          `json:"thesis,omitempty"`
	Commissions *decimal.Decimal `json:"commissions,omitempty"`
}

type CloseTradeRequest struct {
	ExitDate        time.Time        `json:"exit_date"`
	ExitPrice       decimal.Decimal  `json:"exit_price"`
	ActualExitPrice *decimal.Decimal `json:"actual_exit_price,omitempty"`
	Mistakes        *string          `json:"mistakes,omitempty"`
	Lessons         *string          `json:"lessons,omitempty"`
	ExecutionGrade  *string          `json:"execution_grade,omitempty"`
	PatienceGrade   *string          `json:"patience_grade,omitempty"`
	DisciplineGrade *string          `json:"discipline_grade,omitempty"`
	OverallGrade    *string          `json:"overall_grade,omitempty"`
	BrokeRules      *bool            `json:"broke_rules,omitempty"`
	FollowedPlan    *bool            `json:"followed_plan,omitempty"`
}

// TradeLeg is a single execution attached to a trade. Legs are append-only
// and numbered sequentially from 1.
type TradeLeg struct {
	ID        uuid.UUID       `json:"id"`
	TradeID   uuid.UUID       `json:"trade_id"`
	LegNumber int             `json:"leg_number"`
	Action    string          `json:"action"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
	Notes     *string         `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type CreateTradeLegRequest struct {
	Action    string          `json:"action"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
	Notes     *string         `json:"notes,omitempty"`
}

type TradeFilters struct {
	Status       *TradeStatus     `json:"status,omitempty"`
	Direction    *TradeDirection  `json:"direction,omitempty"`
	AssetClass   *AssetClass      `json:"asset_class,omitempty"`
	Symbol       *string          `json:"symbol,omitempty"`
	SetupName    *string          `json:"setup_name,omitempty"`
	Conviction   *ConvictionLevel `json:"conviction,omitempty"`
	IsPaperTrade *bool            `json:"is_paper_trade,omitempty"`
	FromDate     *time.Time       `json:"from_date,omitempty"`
	ToDate       *time.Time       `json:"to_date,omitempty"`
}

type TradeListQuery struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
	Filters   TradeFilters
}

type TradeListResponse struct {
	Trades     []Trade `json:"trades"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	TotalPages int64   `json:"total_pages"`
}

type TradeStats struct {
	TotalTrades        int64            `json:"total_trades"`
	WinningTrades      int64            `json:"winning_trades"`
	LosingTrades       int64            `json:"losing_trades"`
	WinRate            decimal.Decimal  `json:"win_rate"`
	TotalPnL           decimal.Decimal  `json:"total_pnl"`
	AvgWin             decimal.Decimal  `json:"avg_win"`
	AvgLoss            decimal.Decimal  `json:"avg_loss"`
	ProfitFactor       *decimal.Decimal `json:"profit_factor,omitempty"`
	AvgRMultiple       *decimal.Decimal `json:"avg_r_multiple,omitempty"`
	LargestWin         decimal.Decimal  `json:"largest_win"`
	LargestLoss        decimal.Decimal  `json:"largest_loss"`
	AvgHoldTimeMinutes *int             `json:"avg_hold_time_minutes,omitempty"`
}
