package notify

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"
)

// EmailConfig holds configuration for the Postmark notifier.
type EmailConfig struct {
	ServerToken  string `env:"POSTMARK_SERVER_TOKEN,required"`
	AccountToken string `env:"POSTMARK_ACCOUNT_TOKEN,required"`
	SenderEmail  string `env:"NOTIFY_SENDER_EMAIL,required"`
}

// AddressResolver returns the billing email for an account. The core
// never stores user contact details; the embedding product supplies
// this lookup.
type AddressResolver func(ctx context.Context, accountID string) (string, error)

// EmailNotifier delivers plan-change notifications as transactional
// emails through Postmark.
type EmailNotifier struct {
	client  *postmark.Client
	config  EmailConfig
	resolve AddressResolver
}

// NewEmailNotifier creates a Postmark-backed notifier. All config
// fields and the resolver are required; failing fast here beats silent
// non-delivery in production.
func NewEmailNotifier(cfg EmailConfig, resolve AddressResolver) (*EmailNotifier, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("%w: ServerToken is required", ErrInvalidEmailConfig)
	}
	if cfg.AccountToken == "" {
		return nil, fmt.Errorf("%w: AccountToken is required", ErrInvalidEmailConfig)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: SenderEmail is required", ErrInvalidEmailConfig)
	}
	if resolve == nil {
		return nil, fmt.Errorf("%w: address resolver is required", ErrInvalidEmailConfig)
	}

	return &EmailNotifier{
		client:  postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		config:  cfg,
		resolve: resolve,
	}, nil
}

func (n *EmailNotifier) Notify(ctx context.Context, change PlanChange) error {
	to, err := n.resolve(ctx, change.AccountID)
	if err != nil {
		return fmt.Errorf("failed to resolve address for account %s: %w", change.AccountID, err)
	}

	_, err = n.client.SendEmail(ctx, postmark.Email{
		From:     n.config.SenderEmail,
		To:       to,
		Subject:  fmt.Sprintf("Your subscription plan changed to %s", change.To),
		TextBody: change.DefaultMessage(),
		Tag:      "plan-change",
	})
	if err != nil {
		return fmt.Errorf("failed to send plan change email: %w", err)
	}

	return nil
}
