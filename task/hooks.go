package task

import (
	"context"
	"fmt"
	"time"

	"github.com/smileworthy/benefix/commerce"
	"github.com/smileworthy/benefix/webhook"

	"go.uber.org/zap"
)

// HookCheckInterval is how often webhook registrations are verified upstream
const HookCheckInterval = time.Hour

// requiredScopes are the platform event scopes the ledger pipeline depends on
var requiredScopes = []string{
	webhook.TopicOrderCreated,
	webhook.TopicOrderUpdated,
}

// HookUpkeepOptions contains the configuration for the webhook upkeep job
type HookUpkeepOptions struct {
	Commerce    *commerce.Client
	Destination string // public URL events deliver to
	Logger      *zap.Logger
}

// HookUpkeep periodically verifies that the order webhooks are still
// registered upstream and re-creates any that went missing
type HookUpkeep struct {
	HookUpkeepOptions
}

// NewHookUpkeep returns the webhook upkeep task
func NewHookUpkeep(option HookUpkeepOptions) (*HookUpkeep, error) {
	if option.Commerce == nil {
		return nil, fmt.Errorf("nil Commerce is invalid")
	}
	if len(option.Destination) == 0 {
		return nil, fmt.Errorf("empty Destination is invalid")
	}
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}
	return &HookUpkeep{
		HookUpkeepOptions: option,
	}, nil
}

// ensure registers any required scope that has no active hook pointing at
// our destination
func (t *HookUpkeep) ensure(ctx context.Context) error {
	hooks, err := t.Commerce.ListWebhooks(ctx)
	if err != nil {
		return err
	}

	registered := make(map[string]bool)
	for _, hook := range hooks {
		if hook.IsActive && hook.Destination == t.Destination {
			registered[hook.Scope] = true
		}
	}

	for _, scope := range requiredScopes {
		if registered[scope] {
			continue
		}
		t.Logger.Warn("Required webhook is missing upstream, re-creating",
			zap.String("Scope", scope),
		)
		if _, err := t.Commerce.CreateWebhook(ctx, scope, t.Destination); err != nil {
			return err
		}
	}
	return nil
}

// Run blocks until ctx is cancelled, checking registrations once immediately
// and then on a fixed interval
func (t *HookUpkeep) Run(ctx context.Context) {
	if err := t.ensure(ctx); err != nil {
		t.Logger.Error("Unable to verify webhook registrations",
			zap.Error(err),
		)
	}

	ticker := time.NewTicker(HookCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.ensure(ctx); err != nil {
				t.Logger.Error("Unable to verify webhook registrations",
					zap.Error(err),
				)
			}
		}
	}
}
