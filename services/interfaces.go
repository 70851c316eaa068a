package services

import (
	"context"

	"trade-journal/models"

	"github.com/google/uuid"
)

// CritiqueServiceInterface defines the interface for AI trade critiques
type CritiqueServiceInterface interface {
	CritiqueTrade(ctx context.Context, trade *models.Trade) (*models.TradeCritique, error)
}

// Authenticator resolves bearer tokens to user ids
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

// Compile-time interface verification
var _ CritiqueServiceInterface = (*CritiqueService)(nil)
var _ Authenticator = (*IdentityService)(nil)
var _ ModelInvoker = (*OpenAIService)(nil)
var _ ModelInvoker = (*BedrockService)(nil)
