// Package analytics derives aggregate statistics from a user's closed-trade
// ledger. Every function here is pure and read-only: aggregates are
// recomputed on each query, never stored.
package analytics

import (
	"sort"
	"time"

	"trade-journal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// closedOnly filters to closed trades with both an exit date and a net P&L.
// Open and cancelled trades never contribute to any aggregate.
func closedOnly(trades []models.Trade) []models.Trade {
	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Status == models.TradeStatusClosed && t.ExitDate != nil && t.NetPnL != nil {
			out = append(out, t)
		}
	}
	return out
}

// EquityCurve orders closed trades by exit date ascending and emits the
// running cumulative net P&L with a 1-based trade counter. The starting
// balance is reported alongside, not folded into the cumulative values.
func EquityCurve(trades []models.Trade, startingBalance decimal.Decimal) models.EquityCurveResponse {
	closed := closedOnly(trades)
	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].ExitDate.Before(*closed[j].ExitDate)
	})

	points := make([]models.EquityCurvePoint, 0, len(closed))
	cumulative := decimal.Zero
	for i, t := range closed {
		cumulative = cumulative.Add(*t.NetPnL)
		points = append(points, models.EquityCurvePoint{
			Date:          *t.ExitDate,
			CumulativePnL: cumulative,
			TradeCount:    int64(i + 1),
		})
	}

	return models.EquityCurveResponse{
		Points:          points,
		StartingBalance: startingBalance,
	}
}

// Drawdown walks the equity curve tracking a running peak. Max drawdown
// keeps the date it occurred; the recovery factor is nil when no drawdown
// was ever observed, never zero or infinity.
func Drawdown(points []models.EquityCurvePoint) models.DrawdownAnalysis {
	var analysis models.DrawdownAnalysis
	if len(points) == 0 {
		return analysis
	}

	peak := decimal.Zero
	for _, p := range points {
		if p.CumulativePnL.GreaterThan(peak) {
			peak = p.CumulativePnL
		}

		drawdown := peak.Sub(p.CumulativePnL)
		if drawdown.GreaterThan(analysis.MaxDrawdown) {
			analysis.MaxDrawdown = drawdown
			date := p.Date
			analysis.MaxDrawdownDate = &date
		}
		analysis.CurrentDrawdown = drawdown
	}

	if analysis.MaxDrawdown.IsPositive() {
		totalPnL := points[len(points)-1].CumulativePnL
		rf := totalPnL.Div(analysis.MaxDrawdown)
		analysis.RecoveryFactor = &rf
	}

	return analysis
}

// WinLoss partitions closed trades into wins (net P&L > 0) and losses
// (net P&L <= 0, so breakeven counts as a loss). Empty partitions produce
// zeroed means and extrema, not an error.
func WinLoss(trades []models.Trade) models.WinLossDistribution {
	dist := models.WinLossDistribution{
		Wins:   []decimal.Decimal{},
		Losses: []decimal.Decimal{},
	}

	for _, t := range closedOnly(trades) {
		if t.NetPnL.IsPositive() {
			dist.Wins = append(dist.Wins, *t.NetPnL)
		} else {
			dist.Losses = append(dist.Losses, *t.NetPnL)
		}
	}

	// Wins largest first, losses most negative first.
	sort.Slice(dist.Wins, func(i, j int) bool { return dist.Wins[i].GreaterThan(dist.Wins[j]) })
	sort.Slice(dist.Losses, func(i, j int) bool { return dist.Losses[i].LessThan(dist.Losses[j]) })

	if len(dist.Wins) > 0 {
		dist.AvgWin = mean(dist.Wins)
		dist.LargestWin = dist.Wins[0]
	}
	if len(dist.Losses) > 0 {
		dist.AvgLoss = mean(dist.Losses)
		dist.LargestLoss = dist.Losses[0]
	}

	return dist
}

const noSetupLabel = "No Setup"

// SetupPerformance groups closed trades by setup name and computes per-setup
// statistics. Groups with fewer than minSampleSize trades are dropped so a
// lucky one-off cannot rank as a top setup. Results are sorted by total
// net P&L descending.
func SetupPerformance(trades []models.Trade, minSampleSize int) []models.SetupPerformance {
	groups := make(map[string][]models.Trade)
	for _, t := range closedOnly(trades) {
		name := noSetupLabel
		if t.SetupName != nil && *t.SetupName != "" {
			name = *t.SetupName
		}
		groups[name] = append(groups[name], t)
	}

	result := make([]models.SetupPerformance, 0, len(groups))
	for name, group := range groups {
		if len(group) < minSampleSize {
			continue
		}

		perf := models.SetupPerformance{
			SetupName:  name,
			TradeCount: int64(len(group)),
		}

		total := decimal.Zero
		rSum := decimal.Zero
		rCount := 0
		for _, t := range group {
			pnl := *t.NetPnL
			total = total.Add(pnl)
			if pnl.IsPositive() {
				perf.WinCount++
				if pnl.GreaterThan(perf.LargestWin) {
					perf.LargestWin = pnl
				}
			} else {
				perf.LossCount++
				if pnl.LessThan(perf.LargestLoss) {
					perf.LargestLoss = pnl
				}
			}
			if t.RMultiple != nil {
				rSum = rSum.Add(*t.RMultiple)
				rCount++
			}
		}

		perf.TotalPnL = total
		perf.AvgPnL = total.Div(decimal.NewFromInt(perf.TradeCount))
		perf.WinRate = winRate(perf.WinCount, perf.TradeCount)
		if rCount > 0 {
			avgR := rSum.Div(decimal.NewFromInt(int64(rCount)))
			perf.AvgRMultiple = &avgR
		}

		result = append(result, perf)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalPnL.Equal(result[j].TotalPnL) {
			return result[i].SetupName < result[j].SetupName
		}
		return result[i].TotalPnL.GreaterThan(result[j].TotalPnL)
	})

	return result
}

// TimeBased buckets closed trades by hour of entry, day of week, and
// calendar month of entry. The monthly view covers only the most recent 12
// months present in the data, newest first.
func TimeBased(trades []models.Trade) models.TimeBasedAnalytics {
	closed := closedOnly(trades)

	type bucket struct {
		count int64
		wins  int64
		total decimal.Decimal
	}

	hourly := make(map[int]*bucket)
	daily := make(map[int]*bucket)
	monthly := make(map[string]*bucket)

	observe := func(b *bucket, pnl decimal.Decimal) {
		b.count++
		if pnl.IsPositive() {
			b.wins++
		}
		b.total = b.total.Add(pnl)
	}

	for _, t := range closed {
		pnl := *t.NetPnL

		hour := t.EntryDate.Hour()
		if hourly[hour] == nil {
			hourly[hour] = &bucket{}
		}
		observe(hourly[hour], pnl)

		dow := int(t.EntryDate.Weekday())
		if daily[dow] == nil {
			daily[dow] = &bucket{}
		}
		observe(daily[dow], pnl)

		month := t.EntryDate.Format("2006-01")
		if monthly[month] == nil {
			monthly[month] = &bucket{}
		}
		observe(monthly[month], pnl)
	}

	out := models.TimeBasedAnalytics{
		Hourly:  []models.HourlyPerformance{},
		Daily:   []models.DailyPerformance{},
		Monthly: []models.MonthlyPerformance{},
	}

	for hour := 0; hour < 24; hour++ {
		b, ok := hourly[hour]
		if !ok {
			continue
		}
		out.Hourly = append(out.Hourly, models.HourlyPerformance{
			Hour:       hour,
			TradeCount: b.count,
			WinRate:    winRate(b.wins, b.count),
			AvgPnL:     b.total.Div(decimal.NewFromInt(b.count)),
		})
	}

	for dow := 0; dow < 7; dow++ {
		b, ok := daily[dow]
		if !ok {
			continue
		}
		out.Daily = append(out.Daily, models.DailyPerformance{
			DayOfWeek:  dow,
			DayName:    time.Weekday(dow).String(),
			TradeCount: b.count,
			WinRate:    winRate(b.wins, b.count),
			AvgPnL:     b.total.Div(decimal.NewFromInt(b.count)),
		})
	}

	months := make([]string, 0, len(monthly))
	for month := range monthly {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	if len(months) > 12 {
		months = months[:12]
	}
	for _, month := range months {
		b := monthly[month]
		out.Monthly = append(out.Monthly, models.MonthlyPerformance{
			Month:      month,
			TradeCount: b.count,
			TotalPnL:   b.total,
			WinRate:    winRate(b.wins, b.count),
		})
	}

	return out
}

// Stats computes the summary statistics block over closed trades. The profit
// factor is nil when there are no losses to divide by.
func Stats(trades []models.Trade) models.TradeStats {
	closed := closedOnly(trades)

	stats := models.TradeStats{
		TotalTrades: int64(len(closed)),
	}
	if len(closed) == 0 {
		return stats
	}

	grossWin := decimal.Zero
	grossLoss := decimal.Zero
	winSum := decimal.Zero
	lossSum := decimal.Zero
	rSum := decimal.Zero
	rCount := 0
	holdSum := 0
	holdCount := 0

	for _, t := range closed {
		pnl := *t.NetPnL
		stats.TotalPnL = stats.TotalPnL.Add(pnl)

		if pnl.IsPositive() {
			stats.WinningTrades++
			winSum = winSum.Add(pnl)
			grossWin = grossWin.Add(pnl)
			if pnl.GreaterThan(stats.LargestWin) {
				stats.LargestWin = pnl
			}
		} else {
			stats.LosingTrades++
			lossSum = lossSum.Add(pnl)
			grossLoss = grossLoss.Add(pnl)
			if pnl.LessThan(stats.LargestLoss) {
				stats.LargestLoss = pnl
			}
		}

		if t.RMultiple != nil {
			rSum = rSum.Add(*t.RMultiple)
			rCount++
		}
		if t.HoldTimeMinutes != nil {
			holdSum += *t.HoldTimeMinutes
			holdCount++
		}
	}

	stats.WinRate = winRate(stats.WinningTrades, stats.TotalTrades)
	if stats.WinningTrades > 0 {
		stats.AvgWin = winSum.Div(decimal.NewFromInt(stats.WinningTrades))
	}
	if stats.LosingTrades > 0 {
		stats.AvgLoss = lossSum.Div(decimal.NewFromInt(stats.LosingTrades))
	}
	if grossLoss.Abs().IsPositive() {
		pf := grossWin.Div(grossLoss.Abs())
		stats.ProfitFactor = &pf
	}
	if rCount > 0 {
		avgR := rSum.Div(decimal.NewFromInt(int64(rCount)))
		stats.AvgRMultiple = &avgR
	}
	if holdCount > 0 {
		avgHold := holdSum / holdCount
		stats.AvgHoldTimeMinutes = &avgHold
	}

	return stats
}

func winRate(wins, total int64) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(wins).Div(decimal.NewFromInt(total)).Mul(hundred)
}

func mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}
