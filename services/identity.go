package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	appconfig "trade-journal/config"
	"trade-journal/observability"

	"github.com/google/uuid"
)

// IdentityService verifies bearer tokens against the identity provider and
// resolves them to user ids.
type IdentityService struct {
	client  *http.Client
	baseURL string
}

// identityResponse is the verification payload returned by the provider
type identityResponse struct {
	UserID string `json:"user_id"`
	Active bool   `json:"active"`
}

// NewIdentityService creates a new IdentityService instance
func NewIdentityService(cfg *appconfig.Config) (*IdentityService, error) {
	if cfg.Identity.BaseURL == "" {
		return nil, fmt.Errorf("IDENTITY_BASE_URL is required")
	}

	return &IdentityService{
		client: &http.Client{
			Timeout: time.Duration(cfg.Identity.TimeoutSeconds) * time.Second,
		},
		baseURL: cfg.Identity.BaseURL,
	}, nil
}

// newIdentityServiceWithClient creates an IdentityService with a custom client (for testing)
func newIdentityServiceWithClient(client *http.Client, baseURL string) *IdentityService {
	return &IdentityService{client: client, baseURL: baseURL}
}

// Authenticate resolves a bearer token to a user id. Token verification
// runs through the identity circuit breaker so an unavailable provider
// fails fast instead of stalling every request.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, fmt.Errorf("empty token")
	}

	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerIdentity, "verify")
	timer := metrics.NewTimer()

	userID, err := WithCircuitBreaker(ctx, BreakerIdentity, func() (uuid.UUID, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/verify", nil)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to build verify request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := s.client.Do(req)
		if err != nil {
			return uuid.Nil, fmt.Errorf("identity request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized {
			return uuid.Nil, fmt.Errorf("token rejected")
		}
		if resp.StatusCode != http.StatusOK {
			return uuid.Nil, fmt.Errorf("identity service returned status %d", resp.StatusCode)
		}

		var body identityResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return uuid.Nil, fmt.Errorf("failed to decode identity response: %w", err)
		}
		if !body.Active {
			return uuid.Nil, fmt.Errorf("token inactive")
		}

		userID, err := uuid.Parse(body.UserID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid user id in identity response: %w", err)
		}
		return userID, nil
	})

	timer.ObserveExternalAPI(BreakerIdentity, "verify")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerIdentity, "verify", categorizeAPIError(err))
		return uuid.Nil, err
	}
	return userID, nil
}
