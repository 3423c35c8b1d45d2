package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/plankit/plankit/pkg/logger"
)

// NoopNotifier discards all notifications. Used when the surrounding
// product handles user messaging elsewhere.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, PlanChange) error { return nil }

// LogNotifier writes notifications to the structured log. Useful in
// development and as a safe default.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, change PlanChange) error {
	log := n.Log
	if log == nil {
		log = slog.Default()
	}
	log.LogAttrs(ctx, slog.LevelInfo, "plan change notification",
		logger.AccountID(change.AccountID),
		slog.String("from", string(change.From)),
		slog.String("to", string(change.To)),
		slog.String("direction", change.Direction()),
		slog.String("message", change.DefaultMessage()),
	)
	return nil
}

// MemoryNotifier records notifications for assertions in tests.
type MemoryNotifier struct {
	mu      sync.Mutex
	changes []PlanChange
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

func (n *MemoryNotifier) Notify(_ context.Context, change PlanChange) error {
	n.mu.Lock()
	n.changes = append(n.changes, change)
	n.mu.Unlock()
	return nil
}

// Changes returns a copy of all recorded notifications.
func (n *MemoryNotifier) Changes() []PlanChange {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]PlanChange, len(n.changes))
	copy(out, n.changes)
	return out
}
