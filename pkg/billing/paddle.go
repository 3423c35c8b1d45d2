package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

// listPageSize bounds how many subscriptions are fetched per customer.
// One customer should never have more than a handful; 100 matches the
// provider's maximum page size.
const listPageSize = 100

// PaddleConfig holds configuration for the Paddle billing provider.
type PaddleConfig struct {
	APIKey      string `env:"PADDLE_API_KEY,required"`
	Environment string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
}

// PaddleProvider implements Provider for Paddle.
type PaddleProvider struct {
	client *paddle.SDK
	config PaddleConfig
}

// NewPaddleProvider creates a new Paddle billing provider.
func NewPaddleProvider(config PaddleConfig) (*PaddleProvider, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	var client *paddle.SDK
	var err error

	switch strings.ToLower(config.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(config.APIKey)
	case "production", "":
		client, err = paddle.New(config.APIKey)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidEnvironment, config.Environment)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create paddle client: %w", err)
	}

	return &PaddleProvider{client: client, config: config}, nil
}

// ListSubscriptions returns all of the customer's subscriptions
// regardless of status, in Paddle's list order.
func (p *PaddleProvider) ListSubscriptions(ctx context.Context, customerID string) ([]Snapshot, error) {
	if customerID == "" {
		return nil, ErrMissingCustomerID
	}

	res, err := p.client.SubscriptionsClient.ListSubscriptions(ctx, &paddle.ListSubscriptionsRequest{
		CustomerID: []string{customerID},
		PerPage:    paddle.PtrTo(listPageSize),
	})
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}

	var snapshots []Snapshot
	err = res.Iter(ctx, func(sub *paddle.Subscription) (bool, error) {
		snapshots = append(snapshots, snapshotFromPaddle(sub))
		// One page is more than any real customer accumulates, even
		// with duplicates from checkout races.
		return len(snapshots) < listPageSize, nil
	})
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}

	return snapshots, nil
}

// CancelSubscription cancels a Paddle subscription immediately rather
// than at period end: this is only used to remove duplicate
// subscriptions that should never have existed.
func (p *PaddleProvider) CancelSubscription(ctx context.Context, subscriptionID string) error {
	if subscriptionID == "" {
		return ErrMissingSubscriptionID
	}

	_, err := p.client.SubscriptionsClient.CancelSubscription(ctx, &paddle.CancelSubscriptionRequest{
		SubscriptionID: subscriptionID,
		EffectiveFrom:  paddle.PtrTo(paddle.EffectiveFromImmediately),
	})
	if err != nil {
		return errors.Join(ErrProviderUnavailable, err)
	}

	return nil
}

func snapshotFromPaddle(sub *paddle.Subscription) Snapshot {
	snap := Snapshot{
		ID:     sub.ID,
		Status: mapPaddleStatus(string(sub.Status)),
	}

	// Paddle subscriptions carry one price per item; the first item's
	// price identifies the plan.
	if len(sub.Items) > 0 {
		snap.PriceID = sub.Items[0].Price.ID
	}

	if sub.CurrentBillingPeriod != nil {
		if end, err := time.Parse(time.RFC3339, sub.CurrentBillingPeriod.EndsAt); err == nil {
			snap.CurrentPeriodEnd = &end
		}
	}

	return snap
}

// mapPaddleStatus maps Paddle subscription statuses to the internal
// closed enumeration. Paused subscriptions do not grant access, so they
// classify with the canceled bucket.
func mapPaddleStatus(status string) SubscriptionStatus {
	switch strings.ToLower(status) {
	case "active":
		return StatusActive
	case "trialing":
		return StatusTrialing
	case "past_due":
		return StatusPastDue
	case "canceled", "cancelled", "paused":
		return StatusCanceled
	default:
		return StatusUnknown
	}
}
