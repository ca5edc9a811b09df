package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/sync/singleflight"

	"github.com/mmynk/partio/internal/apperr"
	"github.com/mmynk/partio/internal/calculator"
	"github.com/mmynk/partio/internal/events"
	"github.com/mmynk/partio/internal/ledger"
	"github.com/mmynk/partio/internal/metrics"
	"github.com/mmynk/partio/internal/models"
	"github.com/mmynk/partio/internal/sheets"
	"github.com/mmynk/partio/internal/snapshot"
	"github.com/mmynk/partio/internal/storage"
	"github.com/mmynk/partio/pkg/api"
	"github.com/mmynk/partio/pkg/api/apiconnect"
)

// LedgerService implements the Connect LedgerService. It is the single writer
// of one ledger: every mutation runs under the write lock and is persisted
// before it is acknowledged.
type LedgerService struct {
	apiconnect.UnimplementedLedgerServiceHandler

	key        string
	store      storage.Store
	publisher  events.Publisher
	sheet      sheets.RowReader
	metrics    *metrics.Metrics
	ledgerOpts []ledger.Option
	now        func() time.Time

	mu       sync.RWMutex
	ledger   *ledger.Store
	revision uint64

	flight singleflight.Group
	memoMu sync.Mutex
	memo   *computation
}

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithPublisher sets where change events go. Defaults to events.Nop.
func WithPublisher(p events.Publisher) Option {
	return func(s *LedgerService) { s.publisher = p }
}

// WithSheet enables SyncFromSheet, reading from r.
func WithSheet(r sheets.RowReader) Option {
	return func(s *LedgerService) { s.sheet = r }
}

// WithMetrics sets the collectors to update.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *LedgerService) { s.metrics = m }
}

// WithLedgerOptions passes options to every ledger.Store the service builds.
func WithLedgerOptions(opts ...ledger.Option) Option {
	return func(s *LedgerService) { s.ledgerOpts = append(s.ledgerOpts, opts...) }
}

// NewLedgerService loads the ledger stored under key and returns a service
// for it. A missing ledger starts empty. So does a stored ledger that cannot
// be decoded; that case is logged and the next write overwrites it.
func NewLedgerService(ctx context.Context, store storage.Store, key string, opts ...Option) (*LedgerService, error) {
	s := &LedgerService{
		key:       key,
		store:     store,
		publisher: events.Nop{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New(false)
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Ledger loaded",
		"key", s.key,
		"revision", s.revision,
		"members", len(s.ledger.Members()),
		"expenses", len(s.ledger.Expenses()),
		"payments", len(s.ledger.Payments()))
	return s, nil
}

// load replaces the in-memory ledger with the stored one. Callers hold mu for
// writing, except the constructor.
func (s *LedgerService) load(ctx context.Context) error {
	rec, err := s.store.Load(ctx, s.key)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		s.ledger = ledger.New(s.ledgerOpts...)
		s.revision = 0
	case err != nil:
		return fmt.Errorf("failed to load ledger %q: %w", s.key, err)
	default:
		snap, err := snapshot.Decode(rec.Data)
		if err != nil {
			slog.ErrorContext(ctx, "Stored ledger is malformed, starting empty",
				"key", s.key,
				"revision", rec.Revision,
				"error", err)
			s.ledger = ledger.New(s.ledgerOpts...)
		} else {
			s.ledger = ledger.Restore(snap, s.ledgerOpts...)
		}
		s.revision = rec.Revision
	}
	s.observe()
	return nil
}

// mutate applies fn to the ledger and persists the result under the current
// revision. On any failure the ledger is put back to its state before fn. A
// save rejected as stale reloads the stored ledger so the caller can retry.
// Callers hold mu for writing.
func (s *LedgerService) mutate(ctx context.Context, typ events.Type, fn func(l *ledger.Store) (entityID string, err error)) error {
	before := s.ledger.Snapshot()

	entityID, err := fn(s.ledger)
	if err != nil {
		s.ledger.Replace(before)
		return toConnectError(err)
	}

	data, err := snapshot.Encode(s.ledger.Snapshot())
	if err != nil {
		s.ledger.Replace(before)
		return connect.NewError(connect.CodeInternal, fmt.Errorf("failed to encode ledger: %w", err))
	}

	rev, err := s.store.Save(ctx, s.key, data, s.revision)
	if err != nil {
		s.ledger.Replace(before)
		if errors.Is(err, apperr.ErrStaleRevision) {
			s.metrics.StorageConflicts.Inc()
			slog.WarnContext(ctx, "Ledger changed by another writer, reloading",
				"key", s.key,
				"revision", s.revision,
				"error", err)
			if reloadErr := s.load(ctx); reloadErr != nil {
				slog.ErrorContext(ctx, "Failed to reload ledger", "key", s.key, "error", reloadErr)
			}
		}
		return toConnectError(fmt.Errorf("failed to save ledger: %w", err))
	}

	s.revision = rev
	s.observe()
	s.publish(ctx, typ, entityID)
	return nil
}

func (s *LedgerService) publish(ctx context.Context, typ events.Type, entityID string) {
	e := events.Event{
		Type:       typ,
		LedgerKey:  s.key,
		Revision:   s.revision,
		EntityID:   entityID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.metrics.EventPublishErrors.Inc()
		slog.WarnContext(ctx, "Failed to publish event",
			"type", typ,
			"revision", s.revision,
			"error", err)
	}
}

func (s *LedgerService) observe() {
	sum := s.ledger.Summary()
	s.metrics.SetLedgerSize(sum.MemberCount, sum.ExpenseCount, sum.PaymentCount)
	s.metrics.LedgerRevision.Set(float64(s.revision))
}

// AddMember handles member creation
func (s *LedgerService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var member models.Member
	err := s.mutate(ctx, events.MemberAdded, func(l *ledger.Store) (string, error) {
		m, err := l.AddMember(req.Msg.Name)
		member = m
		return m.ID, err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Member added", "member_id", member.ID, "name", member.Name)
	return connect.NewResponse(&api.AddMemberResponse{Member: toAPIMember(member)}), nil
}

// RemoveMember deletes a member together with the expenses they paid.
func (s *LedgerService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := []string{}
	err := s.mutate(ctx, events.MemberRemoved, func(l *ledger.Store) (string, error) {
		for _, e := range l.Expenses() {
			if e.PayerID == req.Msg.MemberId {
				removed = append(removed, e.ID)
			}
		}
		return req.Msg.MemberId, l.RemoveMember(req.Msg.MemberId)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Member removed",
		"member_id", req.Msg.MemberId,
		"removed_expenses", len(removed))
	return connect.NewResponse(&api.RemoveMemberResponse{RemovedExpenseIds: removed}), nil
}

// SetPayoutKey sets or clears where a member receives settlement transfers.
func (s *LedgerService) SetPayoutKey(ctx context.Context, req *connect.Request[api.SetPayoutKeyRequest]) (*connect.Response[api.SetPayoutKeyResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var member models.Member
	err := s.mutate(ctx, events.PayoutKeyChanged, func(l *ledger.Store) (string, error) {
		m, err := l.SetPayoutKey(req.Msg.MemberId, req.Msg.Type, req.Msg.Value)
		member = m
		return req.Msg.MemberId, err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Payout key updated", "member_id", member.ID, "cleared", member.PayoutKey == nil)
	return connect.NewResponse(&api.SetPayoutKeyResponse{Member: toAPIMember(member)}), nil
}

// ListMembers returns every member in insertion order.
func (s *LedgerService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	s.mu.RLock()
	members := s.ledger.Members()
	s.mu.RUnlock()

	out := make([]*api.Member, 0, len(members))
	for _, m := range members {
		out = append(out, toAPIMember(m))
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: out}), nil
}

// AddExpense handles expense creation
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.DebugContext(ctx, "AddExpense request",
		"description", req.Msg.Description,
		"amount", req.Msg.Amount,
		"payer_id", req.Msg.PayerId,
		"split_type", req.Msg.SplitType,
		"split_method", req.Msg.SplitMethod,
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	var expense models.Expense
	err := s.mutate(ctx, events.ExpenseAdded, func(l *ledger.Store) (string, error) {
		e, err := l.AddExpense(ledger.ExpenseInput{
			Description: req.Msg.Description,
			Amount:      req.Msg.Amount,
			PayerID:     req.Msg.PayerId,
			Policy:      models.SplitPolicy(req.Msg.SplitType),
			Method:      models.SplitMethod(req.Msg.SplitMethod),
			Parts:       req.Msg.Parts,
			Amounts:     req.Msg.Amounts,
		})
		expense = e
		return e.ID, err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Expense added",
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"split_type", expense.Policy())
	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// RemoveExpense deletes an expense.
func (s *LedgerService) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.mutate(ctx, events.ExpenseRemoved, func(l *ledger.Store) (string, error) {
		return req.Msg.ExpenseId, l.RemoveExpense(req.Msg.ExpenseId)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Expense removed", "expense_id", req.Msg.ExpenseId)
	return connect.NewResponse(&api.RemoveExpenseResponse{}), nil
}

// ListExpenses returns every expense in insertion order.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	s.mu.RLock()
	expenses := s.ledger.Expenses()
	s.mu.RUnlock()

	out := make([]*api.Expense, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toAPIExpense(e))
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// AddPayment records a direct transfer between two members.
func (s *LedgerService) AddPayment(ctx context.Context, req *connect.Request[api.AddPaymentRequest]) (*connect.Response[api.AddPaymentResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payment models.Payment
	err := s.mutate(ctx, events.PaymentAdded, func(l *ledger.Store) (string, error) {
		p, err := l.AddPayment(req.Msg.FromId, req.Msg.ToId, req.Msg.Amount, req.Msg.Description)
		payment = p
		return p.ID, err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Payment recorded",
		"payment_id", payment.ID,
		"from", payment.FromID,
		"to", payment.ToID,
		"amount", payment.Amount)
	return connect.NewResponse(&api.AddPaymentResponse{Payment: toAPIPayment(payment)}), nil
}

// RemovePayment deletes a payment.
func (s *LedgerService) RemovePayment(ctx context.Context, req *connect.Request[api.RemovePaymentRequest]) (*connect.Response[api.RemovePaymentResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.mutate(ctx, events.PaymentRemoved, func(l *ledger.Store) (string, error) {
		return req.Msg.PaymentId, l.RemovePayment(req.Msg.PaymentId)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Payment removed", "payment_id", req.Msg.PaymentId)
	return connect.NewResponse(&api.RemovePaymentResponse{}), nil
}

// ListPayments returns every payment in insertion order.
func (s *LedgerService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	s.mu.RLock()
	payments := s.ledger.Payments()
	s.mu.RUnlock()

	out := make([]*api.Payment, 0, len(payments))
	for _, p := range payments {
		out = append(out, toAPIPayment(p))
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}

// computation is the derived view of one ledger state.
type computation struct {
	fingerprint string
	members     []models.Member
	balances    []calculator.MemberBalance
	transfers   []calculator.Transfer
	summary     ledger.Summary
}

// compute returns balances and the settlement plan for the current state.
// Concurrent callers on the same state share one computation, and the last
// result is reused until the state changes.
func (s *LedgerService) compute(ctx context.Context) (*computation, error) {
	s.mu.RLock()
	snap := s.ledger.Snapshot()
	s.mu.RUnlock()

	fingerprint, err := snapshot.Fingerprint(snap)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to fingerprint ledger: %w", err))
	}

	s.memoMu.Lock()
	if s.memo != nil && s.memo.fingerprint == fingerprint {
		c := s.memo
		s.memoMu.Unlock()
		return c, nil
	}
	s.memoMu.Unlock()

	v, _, shared := s.flight.Do(fingerprint, func() (any, error) {
		balances := calculator.ComputeBalances(snap.Members, snap.Expenses, snap.Payments)
		transfers := calculator.Simplify(balances)
		s.metrics.SettlementTransfers.Observe(float64(len(transfers)))
		if sum := calculator.Sum(balances); math.Abs(sum) > calculator.Tolerance {
			// Custom shares of removed members are no longer owed by anyone.
			slog.WarnContext(ctx, "Balances do not sum to zero", "fingerprint", fingerprint, "sum", sum)
		}

		c := &computation{
			fingerprint: fingerprint,
			members:     snap.Members,
			balances:    balances,
			transfers:   transfers,
			summary:     ledger.Restore(snap).Summary(),
		}
		s.memoMu.Lock()
		s.memo = c
		s.memoMu.Unlock()
		return c, nil
	})
	slog.DebugContext(ctx, "Computed balances", "fingerprint", fingerprint, "shared", shared)
	return v.(*computation), nil
}

// GetBalances returns every member's net balance and the ledger summary.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	c, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetBalancesResponse{
		Balances: toAPIBalances(c.members, c.balances),
		Summary:  toAPISummary(c.summary),
	}), nil
}

// GetSettlement suggests the transfers that settle every balance. Nothing is
// recorded; clients record the transfers they make with AddPayment.
func (s *LedgerService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	c, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetSettlementResponse{
		Transfers: toAPITransfers(c.members, c.transfers),
	}), nil
}
