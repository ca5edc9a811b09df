// Package worker runs background jobs next to the ledger service.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/partio/internal/apperr"
	"github.com/mmynk/partio/internal/events"
	"github.com/mmynk/partio/internal/sheets"
	"github.com/mmynk/partio/internal/snapshot"
	"github.com/mmynk/partio/internal/storage"
)

// SyncWorker pushes the stored ledger to a spreadsheet. It runs on change
// events and on a fixed interval as a backup for lost events, and skips the
// push when the ledger content has not changed since the last one.
type SyncWorker struct {
	store    storage.Store
	key      string
	sheet    sheets.RowWriter
	interval time.Duration

	mu              sync.Mutex
	lastFingerprint string
}

// NewSyncWorker creates a worker for the ledger stored under key.
func NewSyncWorker(store storage.Store, key string, sheet sheets.RowWriter, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		store:    store,
		key:      key,
		sheet:    sheet,
		interval: interval,
	}
}

// SyncOnce pushes the current snapshot if it differs from the last pushed
// one. It reports whether a push happened.
func (w *SyncWorker) SyncOnce(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec, err := w.store.Load(ctx, w.key)
	if apperr.CodeOf(err) == apperr.CodeNotFound {
		slog.DebugContext(ctx, "No ledger stored yet, nothing to sync", "key", w.key)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load ledger: %w", err)
	}

	fingerprint := snapshot.FingerprintBytes(rec.Data)
	if fingerprint == w.lastFingerprint {
		slog.DebugContext(ctx, "Ledger unchanged, skipping sync",
			"key", w.key,
			"revision", rec.Revision)
		return false, nil
	}

	snap, err := snapshot.Decode(rec.Data)
	if err != nil {
		return false, fmt.Errorf("decode ledger: %w", err)
	}
	if err := sheets.Push(ctx, w.sheet, snap); err != nil {
		return false, fmt.Errorf("push to sheet: %w", err)
	}

	w.lastFingerprint = fingerprint
	slog.InfoContext(ctx, "Synced ledger to sheet",
		"key", w.key,
		"revision", rec.Revision,
		"members", len(snap.Members),
		"expenses", len(snap.Expenses),
		"payments", len(snap.Payments))
	return true, nil
}

// HandleEvent syncs after a change event for this worker's ledger. Events of
// other ledgers are ignored.
func (w *SyncWorker) HandleEvent(ctx context.Context, e events.Event) error {
	if e.LedgerKey != "" && e.LedgerKey != w.key {
		return nil
	}
	slog.InfoContext(ctx, "Processing ledger event",
		"type", e.Type,
		"revision", e.Revision)

	_, err := w.SyncOnce(ctx)
	return err
}

// Run syncs once at startup and then every interval until ctx is done.
// Failures are logged and retried on the next tick.
func (w *SyncWorker) Run(ctx context.Context) error {
	if _, err := w.SyncOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup sync failed", "error", err)
	}
	if w.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.SyncOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
			}
		}
	}
}
