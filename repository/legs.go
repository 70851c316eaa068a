package repository

import (
	"context"
	"fmt"
	"time"

	"trade-journal/models"

	"github.com/google/uuid"
)

// AddTradeLeg appends an execution leg to a trade the user owns. Leg numbers
// are assigned sequentially inside the insert so concurrent appends cannot
// collide on a pre-read counter.
func (r *Repository) AddTradeLeg(ctx context.Context, userID, tradeID uuid.UUID, req *models.CreateTradeLegRequest) (*models.TradeLeg, error) {
	// Ownership check doubles as the not-found path.
	if _, err := r.GetTrade(ctx, userID, tradeID); err != nil {
		return nil, err
	}

	leg := models.TradeLeg{
		ID:        uuid.New(),
		TradeID:   tradeID,
		Action:    req.Action,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Timestamp: req.Timestamp,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO trade_legs (id, trade_id, leg_number, action, quantity, price, executed_at, notes, created_at)
		VALUES (
			$1, $2,
			(SELECT COALESCE(MAX(leg_number), 0) + 1 FROM trade_legs WHERE trade_id = $2),
			$3, $4, $5, $6, $7, $8
		)
		RETURNING leg_number
	`, leg.ID, leg.TradeID, leg.Action, leg.Quantity, leg.Price, leg.Timestamp, leg.Notes, leg.CreatedAt).Scan(&leg.LegNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to add trade leg: %w", err)
	}
	return &leg, nil
}

// GetTradeLegs returns a trade's legs in execution order.
func (r *Repository) GetTradeLegs(ctx context.Context, userID, tradeID uuid.UUID) ([]models.TradeLeg, error) {
	if _, err := r.GetTrade(ctx, userID, tradeID); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, trade_id, leg_number, action, quantity, price, executed_at, notes, created_at
		FROM trade_legs
		WHERE trade_id = $1
		ORDER BY leg_number ASC
	`, tradeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade legs: %w", err)
	}
	defer rows.Close()

	legs := []models.TradeLeg{}
	for rows.Next() {
		var leg models.TradeLeg
		if err := rows.Scan(&leg.ID, &leg.TradeID, &leg.LegNumber, &leg.Action,
			&leg.Quantity, &leg.Price, &leg.Timestamp, &leg.Notes, &leg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trade leg: %w", err)
		}
		legs = append(legs, leg)
	}
	return legs, rows.Err()
}
