package services

import (
	"context"
	"fmt"
	"strings"

	"trade-journal/models"
	"trade-journal/observability"
)

const critiqueSystemPrompt = `You are an experienced trading coach reviewing a journaled trade.
Respond with a JSON object containing:
  "grade": a letter grade from A to F for overall execution
  "summary": two or three sentences on the trade as a whole
  "strengths": a list of things done well
  "weaknesses": a list of mistakes or process violations
  "suggestions": a list of concrete improvements for future trades
Respond with the JSON object only, no surrounding text.`

// ModelInvoker is the surface a critique backend must provide. Both the
// OpenAI and Bedrock services satisfy it.
type ModelInvoker interface {
	InvokeWithPrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	InvokeStructured(ctx context.Context, systemPrompt, userPrompt string, result interface{}) error
	Provider() string
}

// CritiqueService turns a closed trade into a structured coaching review.
type CritiqueService struct {
	invoker ModelInvoker
}

// NewCritiqueService creates a critique service backed by the given model
func NewCritiqueService(invoker ModelInvoker) *CritiqueService {
	return &CritiqueService{invoker: invoker}
}

// CritiqueTrade asks the model backend to review a closed trade
func (s *CritiqueService) CritiqueTrade(ctx context.Context, trade *models.Trade) (*models.TradeCritique, error) {
	if trade.Status != models.TradeStatusClosed {
		return nil, models.NewValidationError("only closed trades can be critiqued")
	}

	metrics := observability.GetMetrics()
	provider := s.invoker.Provider()

	var critique models.TradeCritique
	err := s.invoker.InvokeStructured(ctx, critiqueSystemPrompt, buildTradeSummary(trade), &critique)
	if err != nil {
		metrics.RecordCritiqueRequest(provider, "error")
		return nil, fmt.Errorf("failed to critique trade: %w", err)
	}

	critique.Provider = provider
	metrics.RecordCritiqueRequest(provider, "success")
	return &critique, nil
}

// buildTradeSummary renders the trade as a plain-text briefing for the model
func buildTradeSummary(trade *models.Trade) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Symbol: %s\n", trade.Symbol)
	fmt.Fprintf(&b, "Direction: %s\n", trade.Direction)
	fmt.Fprintf(&b, "Asset class: %s\n", trade.AssetClass)
	fmt.Fprintf(&b, "Entry: %s at %s, quantity %s\n",
		trade.EntryDate.Format("2006-01-02 15:04"), trade.EntryPrice, trade.Quantity)

	if trade.StopLoss != nil {
		fmt.Fprintf(&b, "Stop loss: %s\n", trade.StopLoss)
	}
	if trade.TakeProfit != nil {
		fmt.Fprintf(&b, "Take profit: %s\n", trade.TakeProfit)
	}
	if trade.ExitDate != nil && trade.ExitPrice != nil {
		fmt.Fprintf(&b, "Exit: %s at %s\n",
			trade.ExitDate.Format("2006-01-02 15:04"), trade.ExitPrice)
	}
	if trade.ActualExitPrice != nil {
		fmt.Fprintf(&b, "Actual fill: %s\n", trade.ActualExitPrice)
	}
	if trade.NetPnL != nil {
		fmt.Fprintf(&b, "Net P&L: %s\n", trade.NetPnL)
	}
	if trade.RMultiple != nil {
		fmt.Fprintf(&b, "R multiple: %s\n", trade.RMultiple)
	}
	if trade.HoldTimeMinutes != nil {
		fmt.Fprintf(&b, "Hold time: %d minutes\n", *trade.HoldTimeMinutes)
	}
	if trade.SetupName != nil {
		fmt.Fprintf(&b, "Setup: %s\n", *trade.SetupName)
	}
	if trade.Conviction != nil {
		fmt.Fprintf(&b, "Conviction: %s\n", *trade.Conviction)
	}
	if trade.Thesis != nil {
		fmt.Fprintf(&b, "Thesis: %s\n", *trade.Thesis)
	}
	if trade.Mistakes != nil {
		fmt.Fprintf(&b, "Self-reported mistakes: %s\n", *trade.Mistakes)
	}
	if trade.Lessons != nil {
		fmt.Fprintf(&b, "Self-reported lessons: %s\n", *trade.Lessons)
	}
	if trade.BrokeRules {
		b.WriteString("The trader reports breaking their own rules on this trade.\n")
	}
	if trade.IsRevengeTrade {
		b.WriteString("The trader flagged this as a revenge trade.\n")
	}

	return b.String()
}
