package journal

import (
	"time"

	"trade-journal/models"

	"github.com/shopspring/decimal"
)

// CloseUpdate is the single atomic mutation a close operation applies to a
// stored trade: the status change, the exit fields as submitted, all five
// derived metrics, and any annotations carried in the close request.
type CloseUpdate struct {
	Status          models.TradeStatus
	ExitDate        time.Time
	ExitPrice       decimal.Decimal
	ActualExitPrice *decimal.Decimal
	Metrics         CloseMetrics

	Mistakes        *string
	Lessons         *string
	ExecutionGrade  *string
	PatienceGrade   *string
	DisciplineGrade *string
	OverallGrade    *string
	BrokeRules      *bool
	FollowedPlan    *bool
}

// BuildCloseUpdate computes the mutation that closes a trade. The trade must
// be open; anything else reports ErrOpenTradeNotFound, matching the store's
// lookup contract so callers cannot tell "already closed" from "never
// existed". The stored exit price is the one the caller submitted, not the
// actual fill used for metric calculation.
func BuildCloseUpdate(trade *models.Trade, req *models.CloseTradeRequest) (*CloseUpdate, error) {
	if !trade.IsOpen() {
		return nil, models.ErrOpenTradeNotFound
	}

	return &CloseUpdate{
		Status:          models.TradeStatusClosed,
		ExitDate:        req.ExitDate,
		ExitPrice:       req.ExitPrice,
		ActualExitPrice: req.ActualExitPrice,
		Metrics:         ComputeCloseMetrics(trade, req),
		Mistakes:        req.Mistakes,
		Lessons:         req.Lessons,
		ExecutionGrade:  req.ExecutionGrade,
		PatienceGrade:   req.PatienceGrade,
		DisciplineGrade: req.DisciplineGrade,
		OverallGrade:    req.OverallGrade,
		BrokeRules:      req.BrokeRules,
		FollowedPlan:    req.FollowedPlan,
	}, nil
}

// Apply writes the close update onto an in-memory trade, mirroring what the
// store's atomic update does. Annotation fields are only touched when the
// request supplied them.
func (u *CloseUpdate) Apply(trade *models.Trade) {
	trade.Status = u.Status
	exitDate := u.ExitDate
	trade.ExitDate = &exitDate
	exitPrice := u.ExitPrice
	trade.ExitPrice = &exitPrice
	trade.ActualExitPrice = u.ActualExitPrice

	pnl := u.Metrics.PnL
	trade.PnL = &pnl
	pnlPct := u.Metrics.PnLPercent
	trade.PnLPercent = &pnlPct
	netPnL := u.Metrics.NetPnL
	trade.NetPnL = &netPnL
	trade.RMultiple = u.Metrics.RMultiple
	holdTime := u.Metrics.HoldTimeMinutes
	trade.HoldTimeMinutes = &holdTime

	if u.Mistakes != nil {
		trade.Mistakes = u.Mistakes
	}
	if u.Lessons != nil {
		trade.Lessons = u.Lessons
	}
	if u.ExecutionGrade != nil {
		trade.ExecutionGrade = u.ExecutionGrade
	}
	if u.PatienceGrade != nil {
		trade.PatienceGrade = u.PatienceGrade
	}
	if u.DisciplineGrade != nil {
		trade.DisciplineGrade = u.DisciplineGrade
	}
	if u.OverallGrade != nil {
		trade.OverallGrade = u.OverallGrade
	}
	if u.BrokeRules != nil {
		trade.BrokeRules = *u.BrokeRules
	}
	if u.FollowedPlan != nil {
		trade.FollowedPlan = *u.FollowedPlan
	}
	trade.UpdatedAt = time.Now().UTC()
}
