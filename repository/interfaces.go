package repository

import (
	"context"
	"time"

	"trade-journal/journal"
	"trade-journal/models"

	"github.com/google/uuid"
)

// TradeStore is the persistence surface the application layer depends on.
// *Repository is the production implementation; tests substitute in-memory
// fakes.
type TradeStore interface {
	CreateTrade(ctx context.Context, trade *models.Trade) error
	GetTrade(ctx context.Context, userID, id uuid.UUID) (*models.Trade, error)
	GetOpenTrade(ctx context.Context, userID, id uuid.UUID) (*models.Trade, error)
	ListTrades(ctx context.Context, userID uuid.UUID, query models.TradeListQuery) (*models.TradeListResponse, error)
	UpdateTrade(ctx context.Context, userID, id uuid.UUID, req *models.UpdateTradeRequest) (*models.Trade, error)
	CloseTrade(ctx context.Context, userID, id uuid.UUID, update *journal.CloseUpdate) (*models.Trade, error)
	DeleteTrade(ctx context.Context, userID, id uuid.UUID) error
	GetClosedTrades(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]models.Trade, error)
	GetOpenTrades(ctx context.Context, userID uuid.UUID) ([]models.Trade, error)
	AddTradeLeg(ctx context.Context, userID, tradeID uuid.UUID, req *models.CreateTradeLegRequest) (*models.TradeLeg, error)
	GetTradeLegs(ctx context.Context, userID, tradeID uuid.UUID) ([]models.TradeLeg, error)
}

var _ TradeStore = (*Repository)(nil)
