package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/plankit/plankit/pkg/logger"
)

// asyncStorageTimeout bounds each background write so a hung storage
// backend cannot stall the worker forever.
const asyncStorageTimeout = 5 * time.Second

// AsyncStorage decouples reconciliation from audit persistence with a
// buffered channel and a single background writer. When the buffer is
// full the entry is dropped with a logged warning: audit loss is
// accepted, blocking a reconciliation on audit I/O is not.
type AsyncStorage struct {
	storage Storage
	entries chan Entry
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	log     *slog.Logger
}

// NewAsyncStorage wraps storage with an asynchronous buffered writer.
func NewAsyncStorage(storage Storage, bufferSize int) *AsyncStorage {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	if bufferSize <= 0 {
		bufferSize = 256
	}

	as := &AsyncStorage{
		storage: storage,
		entries: make(chan Entry, bufferSize),
		done:    make(chan struct{}),
		log:     slog.Default(),
	}

	as.wg.Add(1)
	go as.worker()

	return as
}

// Store queues the entry for background persistence. Never blocks:
// a full buffer drops the entry and logs a warning.
func (as *AsyncStorage) Store(ctx context.Context, entry Entry) error {
	select {
	case <-as.done:
		return ErrStorageNotAvailable
	default:
	}

	select {
	case as.entries <- entry:
		return nil
	default:
		as.log.LogAttrs(ctx, slog.LevelWarn, "audit buffer full, dropping entry",
			logger.AccountID(entry.AccountID),
			slog.String("action", string(entry.Action)),
		)
		return nil
	}
}

func (as *AsyncStorage) worker() {
	defer as.wg.Done()

	store := func(entry Entry) {
		ctx, cancel := context.WithTimeout(context.Background(), asyncStorageTimeout)
		defer cancel()

		if err := as.storage.Store(ctx, entry); err != nil {
			as.log.LogAttrs(ctx, slog.LevelError, "failed to persist audit entry",
				slog.String("entry_id", entry.ID),
				logger.AccountID(entry.AccountID),
				logger.Error(err),
			)
		}
	}

	for {
		select {
		case entry := <-as.entries:
			store(entry)
		case <-as.done:
			// Drain whatever is buffered before exiting.
			for {
				select {
				case entry := <-as.entries:
					store(entry)
				default:
					return
				}
			}
		}
	}
}

// Close stops the worker after draining buffered entries. The context
// bounds how long shutdown may take.
func (as *AsyncStorage) Close(ctx context.Context) error {
	as.once.Do(func() { close(as.done) })

	finished := make(chan struct{})
	go func() {
		as.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
