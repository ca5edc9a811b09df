package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/partio/internal/apperr"
	"github.com/mmynk/partio/internal/events"
	"github.com/mmynk/partio/internal/ledger"
	"github.com/mmynk/partio/internal/sheets"
	"github.com/mmynk/partio/internal/snapshot"
	"github.com/mmynk/partio/pkg/api"
)

// ExportLedger returns the ledger in its snapshot format.
func (s *LedgerService) ExportLedger(ctx context.Context, req *connect.Request[api.ExportLedgerRequest]) (*connect.Response[api.ExportLedgerResponse], error) {
	s.mu.RLock()
	snap := s.ledger.Snapshot()
	revision := s.revision
	s.mu.RUnlock()

	data, err := snapshot.Encode(snap)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to encode ledger: %w", err))
	}
	return connect.NewResponse(&api.ExportLedgerResponse{
		Snapshot:    data,
		Fingerprint: snapshot.FingerprintBytes(data),
		Revision:    revision,
	}), nil
}

// ImportLedger replaces the whole ledger with an exported snapshot. A
// malformed or inconsistent snapshot leaves the ledger untouched.
func (s *LedgerService) ImportLedger(ctx context.Context, req *connect.Request[api.ImportLedgerRequest]) (*connect.Response[api.ImportLedgerResponse], error) {
	snap, err := snapshot.Decode(req.Msg.Snapshot)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.mutate(ctx, events.LedgerImported, func(l *ledger.Store) (string, error) {
		l.Replace(snap)
		return "", nil
	})
	if err != nil {
		return nil, err
	}

	sum := s.ledger.Summary()
	slog.InfoContext(ctx, "Ledger imported",
		"revision", s.revision,
		"members", sum.MemberCount,
		"expenses", sum.ExpenseCount,
		"payments", sum.PaymentCount)
	return connect.NewResponse(&api.ImportLedgerResponse{
		Revision: s.revision,
		Summary:  toAPISummary(sum),
	}), nil
}

// ClearLedger removes every member, expense and payment.
func (s *LedgerService) ClearLedger(ctx context.Context, req *connect.Request[api.ClearLedgerRequest]) (*connect.Response[api.ClearLedgerResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.mutate(ctx, events.LedgerCleared, func(l *ledger.Store) (string, error) {
		l.Clear()
		return "", nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Ledger cleared", "revision", s.revision)
	return connect.NewResponse(&api.ClearLedgerResponse{Revision: s.revision}), nil
}

// SyncFromSheet pulls the spreadsheet and overwrites each collection the sheet
// carries. Tabs with no rows leave their collection as is. Rows that break an
// entity invariant, alone or against the kept collections, leave the ledger
// untouched.
func (s *LedgerService) SyncFromSheet(ctx context.Context, req *connect.Request[api.SyncFromSheetRequest]) (*connect.Response[api.SyncFromSheetResponse], error) {
	if s.sheet == nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errors.New("spreadsheet sync is not configured"))
	}

	snap, err := sheets.Pull(ctx, s.sheet)
	if err != nil {
		if errors.Is(err, apperr.ErrImport) {
			return nil, toConnectError(err)
		}
		return nil, connect.NewError(connect.CodeUnavailable, fmt.Errorf("failed to read spreadsheet: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.mutate(ctx, events.LedgerSynced, func(l *ledger.Store) (string, error) {
		l.Merge(snap)
		// Kept collections must still agree with the ones the sheet replaced.
		return "", snapshot.Validate(l.Snapshot())
	})
	if err != nil {
		return nil, err
	}

	sum := s.ledger.Summary()
	slog.InfoContext(ctx, "Ledger synced from sheet",
		"revision", s.revision,
		"members", sum.MemberCount,
		"expenses", sum.ExpenseCount,
		"payments", sum.PaymentCount)
	return connect.NewResponse(&api.SyncFromSheetResponse{
		Revision: s.revision,
		Summary:  toAPISummary(sum),
	}), nil
}
