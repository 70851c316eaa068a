package analytics

import (
	"testing"
	"time"

	"trade-journal/models"

	"github.com/shopspring/decimal"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func dp(v float64) *decimal.Decimal {
	dec := decimal.NewFromFloat(v)
	return &dec
}

var baseDate = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

// closedTrade builds a closed trade whose exit lands dayOffset days after the
// base date. Entry is one hour before exit.
func closedTrade(dayOffset int, netPnL float64) models.Trade {
	exit := baseDate.AddDate(0, 0, dayOffset)
	pnl := d(netPnL)
	return models.Trade{
		Status:    models.TradeStatusClosed,
		EntryDate: exit.Add(-time.Hour),
		ExitDate:  &exit,
		NetPnL:    &pnl,
	}
}

func withSetup(t models.Trade, name string) models.Trade {
	t.SetupName = &name
	return t
}

func withRMultiple(t models.Trade, r float64) models.Trade {
	t.RMultiple = dp(r)
	return t
}

func TestEquityCurve(t *testing.T) {
	trades := []models.Trade{
		closedTrade(2, -50),
		closedTrade(0, 100),
		closedTrade(1, 25),
		{Status: models.TradeStatusOpen, EntryDate: baseDate},
	}

	curve := EquityCurve(trades, d(10000))

	if !curve.StartingBalance.Equal(d(10000)) {
		t.Errorf("expected starting balance 10000, got %s", curve.StartingBalance)
	}
	if len(curve.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(curve.Points))
	}

	expected := []float64{100, 125, 75}
	for i, want := range expected {
		if !curve.Points[i].CumulativePnL.Equal(d(want)) {
			t.Errorf("point %d: expected cumulative %v, got %s", i, want, curve.Points[i].CumulativePnL)
		}
		if curve.Points[i].TradeCount != int64(i+1) {
			t.Errorf("point %d: expected count %d, got %d", i, i+1, curve.Points[i].TradeCount)
		}
	}
	if !curve.Points[0].Date.Before(curve.Points[1].Date) {
		t.Error("expected points ordered by exit date ascending")
	}
}

func TestEquityCurve_Empty(t *testing.T) {
	curve := EquityCurve(nil, d(5000))
	if len(curve.Points) != 0 {
		t.Errorf("expected no points, got %d", len(curve.Points))
	}
	if !curve.StartingBalance.Equal(d(5000)) {
		t.Errorf("expected starting balance 5000, got %s", curve.StartingBalance)
	}
}

func TestDrawdown(t *testing.T) {
	// Curve: 100, 150, 50, 120. Peak 150, max drawdown 100 at the third point.
	trades := []models.Trade{
		closedTrade(0, 100),
		closedTrade(1, 50),
		closedTrade(2, -100),
		closedTrade(3, 70),
	}
	curve := EquityCurve(trades, decimal.Zero)

	analysis := Drawdown(curve.Points)

	if !analysis.MaxDrawdown.Equal(d(100)) {
		t.Errorf("expected max drawdown 100, got %s", analysis.MaxDrawdown)
	}
	if analysis.MaxDrawdownDate == nil || !analysis.MaxDrawdownDate.Equal(*trades[2].ExitDate) {
		t.Errorf("expected max drawdown date %v, got %v", trades[2].ExitDate, analysis.MaxDrawdownDate)
	}
	if !analysis.CurrentDrawdown.Equal(d(30)) {
		t.Errorf("expected current drawdown 30, got %s", analysis.CurrentDrawdown)
	}
	// Recovery factor is total pnl over max drawdown: 120 / 100.
	if analysis.RecoveryFactor == nil || !analysis.RecoveryFactor.Equal(d(1.2)) {
		t.Errorf("expected recovery factor 1.2, got %v", analysis.RecoveryFactor)
	}
}

func TestDrawdown_NoDrawdown(t *testing.T) {
	trades := []models.Trade{
		closedTrade(0, 100),
		closedTrade(1, 50),
	}
	curve := EquityCurve(trades, decimal.Zero)

	analysis := Drawdown(curve.Points)

	if !analysis.MaxDrawdown.IsZero() {
		t.Errorf("expected zero max drawdown, got %s", analysis.MaxDrawdown)
	}
	if analysis.RecoveryFactor != nil {
		t.Errorf("expected nil recovery factor, got %s", analysis.RecoveryFactor)
	}
	if analysis.MaxDrawdownDate != nil {
		t.Errorf("expected nil drawdown date, got %v", analysis.MaxDrawdownDate)
	}
}

func TestWinLoss(t *testing.T) {
	trades := []models.Trade{
		closedTrade(0, 100),
		closedTrade(1, 40),
		closedTrade(2, -30),
		closedTrade(3, 0), // breakeven counts as a loss
		closedTrade(4, -80),
	}

	dist := WinLoss(trades)

	if len(dist.Wins) != 2 {
		t.Fatalf("expected 2 wins, got %d", len(dist.Wins))
	}
	if len(dist.Losses) != 3 {
		t.Fatalf("expected 3 losses, got %d", len(dist.Losses))
	}
	if !dist.Wins[0].Equal(d(100)) {
		t.Errorf("expected wins sorted largest first, got %s", dist.Wins[0])
	}
	if !dist.Losses[0].Equal(d(-80)) {
		t.Errorf("expected losses sorted most negative first, got %s", dist.Losses[0])
	}
	if !dist.AvgWin.Equal(d(70)) {
		t.Errorf("expected avg win 70, got %s", dist.AvgWin)
	}
	if !dist.LargestWin.Equal(d(100)) {
		t.Errorf("expected largest win 100, got %s", dist.LargestWin)
	}
	if !dist.LargestLoss.Equal(d(-80)) {
		t.Errorf("expected largest loss -80, got %s", dist.LargestLoss)
	}
}

func TestSetupPerformance(t *testing.T) {
	trades := []models.Trade{
		withRMultiple(withSetup(closedTrade(0, 100), "Breakout"), 2),
		withRMultiple(withSetup(closedTrade(1, -50), "Breakout"), -1),
		withSetup(closedTrade(2, 80), "Breakout"),
		withSetup(closedTrade(3, 500), "Lucky"), // below sample size, dropped
		closedTrade(4, 10),
		closedTrade(5, 20),
		closedTrade(6, -5),
	}

	result := SetupPerformance(trades, 3)

	if len(result) != 2 {
		t.Fatalf("expected 2 setups, got %d", len(result))
	}
	if result[0].SetupName != "Breakout" {
		t.Errorf("expected Breakout ranked first, got %s", result[0].SetupName)
	}
	if result[1].SetupName != "No Setup" {
		t.Errorf("expected unnamed trades grouped as No Setup, got %s", result[1].SetupName)
	}

	breakout := result[0]
	if breakout.TradeCount != 3 || breakout.WinCount != 2 || breakout.LossCount != 1 {
		t.Errorf("unexpected breakout counts: %+v", breakout)
	}
	if !breakout.TotalPnL.Equal(d(130)) {
		t.Errorf("expected total pnl 130, got %s", breakout.TotalPnL)
	}
	// Average R uses only trades that have one: (2 - 1) / 2.
	if breakout.AvgRMultiple == nil || !breakout.AvgRMultiple.Equal(d(0.5)) {
		t.Errorf("expected avg r 0.5, got %v", breakout.AvgRMultiple)
	}
	if !breakout.LargestWin.Equal(d(100)) {
		t.Errorf("expected largest win 100, got %s", breakout.LargestWin)
	}
	if !breakout.LargestLoss.Equal(d(-50)) {
		t.Errorf("expected largest loss -50, got %s", breakout.LargestLoss)
	}
}

func TestTimeBased(t *testing.T) {
	// Two trades entered at 09:00 Monday, one at 14:00 Tuesday.
	monday := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	tuesday := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)

	mkTrade := func(exit time.Time, netPnL float64) models.Trade {
		pnl := d(netPnL)
		return models.Trade{
			Status:    models.TradeStatusClosed,
			EntryDate: exit.Add(-time.Hour),
			ExitDate:  &exit,
			NetPnL:    &pnl,
		}
	}

	trades := []models.Trade{
		mkTrade(monday, 100),
		mkTrade(monday, -40),
		mkTrade(tuesday, 60),
	}

	out := TimeBased(trades)

	if len(out.Hourly) != 2 {
		t.Fatalf("expected 2 hourly buckets, got %d", len(out.Hourly))
	}
	if out.Hourly[0].Hour != 9 || out.Hourly[0].TradeCount != 2 {
		t.Errorf("unexpected first hourly bucket: %+v", out.Hourly[0])
	}
	if !out.Hourly[0].WinRate.Equal(d(50)) {
		t.Errorf("expected 50%% win rate at 9am, got %s", out.Hourly[0].WinRate)
	}
	if !out.Hourly[0].AvgPnL.Equal(d(30)) {
		t.Errorf("expected avg pnl 30 at 9am, got %s", out.Hourly[0].AvgPnL)
	}

	if len(out.Daily) != 2 {
		t.Fatalf("expected 2 daily buckets, got %d", len(out.Daily))
	}
	if out.Daily[0].DayName != "Monday" {
		t.Errorf("expected Monday first, got %s", out.Daily[0].DayName)
	}

	if len(out.Monthly) != 1 {
		t.Fatalf("expected 1 monthly bucket, got %d", len(out.Monthly))
	}
	if out.Monthly[0].Month != "2024-03" || out.Monthly[0].TradeCount != 3 {
		t.Errorf("unexpected monthly bucket: %+v", out.Monthly[0])
	}
	if !out.Monthly[0].TotalPnL.Equal(d(120)) {
		t.Errorf("expected monthly total 120, got %s", out.Monthly[0].TotalPnL)
	}
}

func TestTimeBased_MonthlyCap(t *testing.T) {
	trades := make([]models.Trade, 0, 15)
	for i := 0; i < 15; i++ {
		exit := baseDate.AddDate(0, -i, 0)
		pnl := d(10)
		trades = append(trades, models.Trade{
			Status:    models.TradeStatusClosed,
			EntryDate: exit.Add(-time.Hour),
			ExitDate:  &exit,
			NetPnL:    &pnl,
		})
	}

	out := TimeBased(trades)

	if len(out.Monthly) != 12 {
		t.Fatalf("expected monthly view capped at 12, got %d", len(out.Monthly))
	}
	if out.Monthly[0].Month != "2024-03" {
		t.Errorf("expected newest month first, got %s", out.Monthly[0].Month)
	}
}

func TestStats(t *testing.T) {
	hold1, hold2 := 60, 120
	trades := []models.Trade{
		withRMultiple(closedTrade(0, 100), 2),
		withRMultiple(closedTrade(1, -50), -1),
		closedTrade(2, 30),
		{Status: models.TradeStatusOpen, EntryDate: baseDate},
	}
	trades[0].HoldTimeMinutes = &hold1
	trades[1].HoldTimeMinutes = &hold2

	stats := Stats(trades)

	if stats.TotalTrades != 3 {
		t.Fatalf("expected 3 closed trades, got %d", stats.TotalTrades)
	}
	if stats.WinningTrades != 2 || stats.LosingTrades != 1 {
		t.Errorf("unexpected win/loss counts: %d/%d", stats.WinningTrades, stats.LosingTrades)
	}
	if !stats.TotalPnL.Equal(d(80)) {
		t.Errorf("expected total pnl 80, got %s", stats.TotalPnL)
	}
	if !stats.WinRate.Round(4).Equal(d(66.6667)) {
		t.Errorf("expected win rate ~66.67, got %s", stats.WinRate)
	}
	if !stats.AvgWin.Equal(d(65)) {
		t.Errorf("expected avg win 65, got %s", stats.AvgWin)
	}
	if !stats.AvgLoss.Equal(d(-50)) {
		t.Errorf("expected avg loss -50, got %s", stats.AvgLoss)
	}
	// Profit factor: gross win 130 over gross loss 50.
	if stats.ProfitFactor == nil || !stats.ProfitFactor.Equal(d(2.6)) {
		t.Errorf("expected profit factor 2.6, got %v", stats.ProfitFactor)
	}
	if stats.AvgRMultiple == nil || !stats.AvgRMultiple.Equal(d(0.5)) {
		t.Errorf("expected avg r 0.5, got %v", stats.AvgRMultiple)
	}
	if stats.AvgHoldTimeMinutes == nil || *stats.AvgHoldTimeMinutes != 90 {
		t.Errorf("expected avg hold 90, got %v", stats.AvgHoldTimeMinutes)
	}
	if !stats.LargestWin.Equal(d(100)) || !stats.LargestLoss.Equal(d(-50)) {
		t.Errorf("unexpected extrema: %s / %s", stats.LargestWin, stats.LargestLoss)
	}
}

func TestStats_NoLosses(t *testing.T) {
	trades := []models.Trade{
		closedTrade(0, 100),
		closedTrade(1, 50),
	}

	stats := Stats(trades)

	if stats.ProfitFactor != nil {
		t.Errorf("expected nil profit factor with no losses, got %s", stats.ProfitFactor)
	}
	if !stats.WinRate.Equal(d(100)) {
		t.Errorf("expected 100%% win rate, got %s", stats.WinRate)
	}
}

func TestStats_Empty(t *testing.T) {
	stats := Stats(nil)
	if stats.TotalTrades != 0 {
		t.Errorf("expected zero trades, got %d", stats.TotalTrades)
	}
	if stats.ProfitFactor != nil || stats.AvgRMultiple != nil {
		t.Error("expected nil optional aggregates on empty input")
	}
}
