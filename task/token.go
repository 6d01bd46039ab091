package task

import (
	"context"
	"fmt"
	"time"

	"github.com/smileworthy/benefix/commerce"

	"go.uber.org/zap"
)

// TokenRefreshInterval is how often the platform access token is rotated
const TokenRefreshInterval = time.Hour * 12

// TokenRefreshOptions contains the configuration for the token refresh job
type TokenRefreshOptions struct {
	Commerce *commerce.Client
	Logger   *zap.Logger
}

// TokenRefresh keeps the platform access token fresh so event-driven lookups
// never stall on an expired credential
type TokenRefresh struct {
	TokenRefreshOptions
}

// NewTokenRefresh returns the token refresh task
func NewTokenRefresh(option TokenRefreshOptions) (*TokenRefresh, error) {
	if option.Commerce == nil {
		return nil, fmt.Errorf("nil Commerce is invalid")
	}
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}
	return &TokenRefresh{
		TokenRefreshOptions: option,
	}, nil
}

// Run blocks until ctx is cancelled, refreshing the token on a fixed interval.
// A failed refresh is logged and retried at the next tick; the current token
// stays in use meanwhile.
func (t *TokenRefresh) Run(ctx context.Context) {
	ticker := time.NewTicker(TokenRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.Commerce.RefreshToken(ctx); err != nil {
				t.Logger.Error("Unable to refresh platform access token",
					zap.Error(err),
				)
			}
		}
	}
}
