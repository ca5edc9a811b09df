package service

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/partio/internal/events"
	"github.com/mmynk/partio/internal/ledger"
	"github.com/mmynk/partio/internal/metrics"
	"github.com/mmynk/partio/internal/middleware"
	"github.com/mmynk/partio/internal/sheets"
	sheetmem "github.com/mmynk/partio/internal/sheets/memory"
	"github.com/mmynk/partio/internal/storage"
	"github.com/mmynk/partio/internal/storage/memory"
	"github.com/mmynk/partio/internal/storage/sqlite"
	"github.com/mmynk/partio/pkg/api"
	"github.com/mmynk/partio/pkg/api/apiconnect"
)

const testKey = "default"

var testTime = time.Date(2024, 3, 1, 19, 30, 0, 0, time.UTC)

type testServer struct {
	client   apiconnect.LedgerServiceClient
	svc      *LedgerService
	recorder *events.Recorder
	metrics  *metrics.Metrics
}

// setupTestServer creates a test server backed by a temporary SQLite database.
func setupTestServer(t *testing.T, opts ...Option) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return setupTestServerWithStore(t, store, opts...)
}

func setupTestServerWithStore(t *testing.T, store storage.Store, opts ...Option) *testServer {
	t.Helper()

	recorder := events.NewRecorder()
	m := metrics.New(false)
	opts = append([]Option{
		WithPublisher(recorder),
		WithMetrics(m),
		WithLedgerOptions(ledger.WithClock(func() time.Time { return testTime })),
	}, opts...)

	svc, err := NewLedgerService(context.Background(), store, testKey, opts...)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	path, handler := apiconnect.NewLedgerServiceHandler(svc, connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(m),
	))
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		client:   apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		svc:      svc,
		recorder: recorder,
		metrics:  m,
	}
}

func addMember(t *testing.T, client apiconnect.LedgerServiceClient, name string) *api.Member {
	t.Helper()
	resp, err := client.AddMember(context.Background(), connect.NewRequest(&api.AddMemberRequest{Name: name}))
	if err != nil {
		t.Fatalf("AddMember(%q) failed: %v", name, err)
	}
	return resp.Msg.Member
}

func addEqualExpense(t *testing.T, client apiconnect.LedgerServiceClient, description string, amount float64, payerID string) *api.Expense {
	t.Helper()
	resp, err := client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		Description: description,
		Amount:      amount,
		PayerId:     payerID,
		SplitType:   "equal",
	}))
	if err != nil {
		t.Fatalf("AddExpense(%q) failed: %v", description, err)
	}
	return resp.Msg.Expense
}

func balancesByID(t *testing.T, client apiconnect.LedgerServiceClient) map[string]float64 {
	t.Helper()
	resp, err := client.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	out := make(map[string]float64, len(resp.Msg.Balances))
	for _, b := range resp.Msg.Balances {
		out[b.MemberId] = b.NetBalance
	}
	return out
}

func expectCode(t *testing.T, err error, want connect.Code) *connect.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect.Error, got %T", err)
	}
	if connectErr.Code() != want {
		t.Fatalf("expected %v, got %v (%v)", want, connectErr.Code(), connectErr.Message())
	}
	return connectErr
}

func TestAddMember_And_ListMembers(t *testing.T) {
	ts := setupTestServer(t)

	alice := addMember(t, ts.client, "  Alice ")
	if alice.Name != "Alice" {
		t.Errorf("expected trimmed name Alice, got %q", alice.Name)
	}
	if alice.Id == "" {
		t.Error("expected member ID to be generated")
	}
	addMember(t, ts.client, "Bob")

	resp, err := ts.client.ListMembers(context.Background(), connect.NewRequest(&api.ListMembersRequest{}))
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(resp.Msg.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(resp.Msg.Members))
	}
	if resp.Msg.Members[0].Name != "Alice" || resp.Msg.Members[1].Name != "Bob" {
		t.Errorf("expected insertion order [Alice Bob], got [%s %s]", resp.Msg.Members[0].Name, resp.Msg.Members[1].Name)
	}
}

func TestAddMember_Invalid(t *testing.T) {
	ts := setupTestServer(t)
	addMember(t, ts.client, "Alice")

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"duplicate ignoring case", "aLiCe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.client.AddMember(context.Background(), connect.NewRequest(&api.AddMemberRequest{Name: tt.input}))
			connectErr := expectCode(t, err, connect.CodeInvalidArgument)
			if got := connectErr.Meta().Get(ErrorCodeHeader); got != "INVALID_INPUT" {
				t.Errorf("expected %s INVALID_INPUT, got %q", ErrorCodeHeader, got)
			}
		})
	}
}

func TestScenario_DinnerThenPayment(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	alice := addMember(t, ts.client, "Alice")
	bob := addMember(t, ts.client, "Bob")
	charlie := addMember(t, ts.client, "Charlie")
	addEqualExpense(t, ts.client, "Dinner", 90, alice.Id)

	balances := balancesByID(t, ts.client)
	want := map[string]float64{alice.Id: 60, bob.Id: -30, charlie.Id: -30}
	for id, w := range want {
		if math.Abs(balances[id]-w) > 0.01 {
			t.Errorf("balance of %s: expected %.2f, got %.2f", id, w, balances[id])
		}
	}

	settle, err := ts.client.GetSettlement(ctx, connect.NewRequest(&api.GetSettlementRequest{}))
	if err != nil {
		t.Fatalf("GetSettlement failed: %v", err)
	}
	if len(settle.Msg.Transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(settle.Msg.Transfers))
	}
	first := settle.Msg.Transfers[0]
	if first.FromName != "Bob" || first.ToName != "Alice" || math.Abs(first.Amount-30) > 0.01 {
		t.Errorf("expected Bob -> Alice 30, got %s -> %s %.2f", first.FromName, first.ToName, first.Amount)
	}

	_, err = ts.client.AddPayment(ctx, connect.NewRequest(&api.AddPaymentRequest{
		FromId: bob.Id,
		ToId:   alice.Id,
		Amount: 30,
	}))
	if err != nil {
		t.Fatalf("AddPayment failed: %v", err)
	}

	settle, err = ts.client.GetSettlement(ctx, connect.NewRequest(&api.GetSettlementRequest{}))
	if err != nil {
		t.Fatalf("GetSettlement failed: %v", err)
	}
	if len(settle.Msg.Transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %d", len(settle.Msg.Transfers))
	}
	if tr := settle.Msg.Transfers[0]; tr.FromId != charlie.Id || tr.ToId != alice.Id {
		t.Errorf("expected Charlie -> Alice, got %s -> %s", tr.FromName, tr.ToName)
	}
}

func TestGetBalances_Summary(t *testing.T) {
	ts := setupTestServer(t)

	alice := addMember(t, ts.client, "Alice")
	addMember(t, ts.client, "Bob")
	addEqualExpense(t, ts.client, "Taxi", 30, alice.Id)
	addEqualExpense(t, ts.client, "Lunch", 50, alice.Id)

	resp, err := ts.client.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	sum := resp.Msg.Summary
	if sum.TotalSpent != 80 || sum.PerPerson != 40 {
		t.Errorf("expected total 80 and per person 40, got %.2f and %.2f", sum.TotalSpent, sum.PerPerson)
	}
	if sum.MemberCount != 2 || sum.ExpenseCount != 2 || sum.PaymentCount != 0 {
		t.Errorf("unexpected counts: %+v", sum)
	}
	if resp.Msg.Balances[0].MemberName != "Alice" || resp.Msg.Balances[0].TotalPaid != 80 {
		t.Errorf("unexpected first balance: %+v", resp.Msg.Balances[0])
	}
}

func TestAddExpense_CustomSplits(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	alice := addMember(t, ts.client, "Alice")
	bob := addMember(t, ts.client, "Bob")

	t.Run("parts", func(t *testing.T) {
		resp, err := ts.client.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{
			Description: "Groceries",
			Amount:      90,
			PayerId:     alice.Id,
			SplitType:   "custom",
			SplitMethod: "parts",
			Parts:       map[string]int{alice.Id: 1, bob.Id: 2},
		}))
		if err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
		details := resp.Msg.Expense.SplitDetails
		if math.Abs(details[alice.Id]-30) > 0.01 || math.Abs(details[bob.Id]-60) > 0.01 {
			t.Errorf("expected shares 30/60, got %v", details)
		}
	})

	t.Run("amounts must add up", func(t *testing.T) {
		_, err := ts.client.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{
			Description: "Hotel",
			Amount:      100,
			PayerId:     alice.Id,
			SplitType:   "custom",
			SplitMethod: "amounts",
			Amounts:     map[string]float64{alice.Id: 50, bob.Id: 49},
		}))
		expectCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("unknown payer", func(t *testing.T) {
		_, err := ts.client.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{
			Description: "Ghost",
			Amount:      10,
			PayerId:     "nobody",
		}))
		expectCode(t, err, connect.CodeInvalidArgument)
	})

	resp, err := ts.client.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(resp.Msg.Expenses) != 1 {
		t.Errorf("expected only the valid expense to be stored, got %d", len(resp.Msg.Expenses))
	}
	if resp.Msg.Expenses[0].CreatedAt != testTime.Unix() {
		t.Errorf("expected createdAt %d, got %d", testTime.Unix(), resp.Msg.Expenses[0].CreatedAt)
	}
}

func TestRemoveMember_CascadesExpenses(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	alice := addMember(t, ts.client, "Alice")
	bob := addMember(t, ts.client, "Bob")
	addMember(t, ts.client, "Charlie")
	taxi := addEqualExpense(t, ts.client, "Taxi", 30, alice.Id)
	addEqualExpense(t, ts.client, "Snacks", 15, bob.Id)

	resp, err := ts.client.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{MemberId: alice.Id}))
	if err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if len(resp.Msg.RemovedExpenseIds) != 1 || resp.Msg.RemovedExpenseIds[0] != taxi.Id {
		t.Errorf("expected taxi expense to be removed, got %v", resp.Msg.RemovedExpenseIds)
	}

	balances := balancesByID(t, ts.client)
	if len(balances) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(balances))
	}
	if math.Abs(balances[bob.Id]-7.5) > 0.01 {
		t.Errorf("expected Bob 7.50, got %.2f", balances[bob.Id])
	}
}

func TestRemove_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	_, err := ts.client.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{MemberId: "missing"}))
	expectCode(t, err, connect.CodeNotFound)

	_, err = ts.client.RemoveExpense(ctx, connect.NewRequest(&api.RemoveExpenseRequest{ExpenseId: "missing"}))
	expectCode(t, err, connect.CodeNotFound)

	_, err = ts.client.RemovePayment(ctx, connect.NewRequest(&api.RemovePaymentRequest{PaymentId: "missing"}))
	connectErr := expectCode(t, err, connect.CodeNotFound)
	if got := connectErr.Meta().Get(ErrorCodeHeader); got != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND code, got %q", got)
	}
}

func TestRemoveExpenseAndPayment(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	alice := addMember(t, ts.client, "Alice")
	bob := addMember(t, ts.client, "Bob")
	dinner := addEqualExpense(t, ts.client, "Dinner", 40, alice.Id)
	payment, err := ts.client.AddPayment(ctx, connect.NewRequest(&api.AddPaymentRequest{FromId: bob.Id, ToId: alice.Id, Amount: 20}))
	if err != nil {
		t.Fatalf("AddPayment failed: %v", err)
	}

	if _, err := ts.client.RemovePayment(ctx, connect.NewRequest(&api.RemovePaymentRequest{PaymentId: payment.Msg.Payment.Id})); err != nil {
		t.Fatalf("RemovePayment failed: %v", err)
	}
	if b := balancesByID(t, ts.client); math.Abs(b[bob.Id]+20) > 0.01 {
		t.Errorf("expected Bob -20 after removing payment, got %.2f", b[bob.Id])
	}

	if _, err := ts.client.RemoveExpense(ctx, connect.NewRequest(&api.RemoveExpenseRequest{ExpenseId: dinner.Id})); err != nil {
		t.Fatalf("RemoveExpense failed: %v", err)
	}
	for id, b := range balancesByID(t, ts.client) {
		if b != 0 {
			t.Errorf("expected zero balance for %s, got %.2f", id, b)
		}
	}

	list, err := ts.client.ListPayments(ctx, connect.NewRequest(&api.ListPaymentsRequest{}))
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(list.Msg.Payments) != 0 {
		t.Errorf("expected no payments, got %d", len(list.Msg.Payments))
	}
}

func TestAddPayment_Invalid(t *testing.T) {
	ts := setupTestServer(t)
	alice := addMember(t, ts.client, "Alice")
	bob := addMember(t, ts.client, "Bob")

	tests := []struct {
		name string
		req  *api.AddPaymentRequest
	}{
		{"self payment", &api.AddPaymentRequest{FromId: alice.Id, ToId: alice.Id, Amount: 10}},
		{"zero amount", &api.AddPaymentRequest{FromId: alice.Id, ToId: bob.Id, Amount: 0}},
		{"unknown member", &api.AddPaymentRequest{FromId: "ghost", ToId: bob.Id, Amount: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.client.AddPayment(context.Background(), connect.NewRequest(tt.req))
			expectCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestSetPayoutKey_ShownOnTransfers(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	alice := addMember(t, ts.client, "Alice")
	addMember(t, ts.client, "Bob")
	addEqualExpense(t, ts.client, "Dinner", 50, alice.Id)

	resp, err := ts.client.SetPayoutKey(ctx, connect.NewRequest(&api.SetPayoutKeyRequest{
		MemberId: alice.Id,
		Type:     "email",
		Value:    "alice@example.com",
	}))
	if err != nil {
		t.Fatalf("SetPayoutKey failed: %v", err)
	}
	if resp.Msg.Member.PayoutKeyType != "email" {
		t.Errorf("expected payout key type email, got %q", resp.Msg.Member.PayoutKeyType)
	}

	settle, err := ts.client.GetSettlement(ctx, connect.NewRequest(&api.GetSettlementRequest{}))
	if err != nil {
		t.Fatalf("GetSettlement failed: %v", err)
	}
	if len(settle.Msg.Transfers) != 1 || settle.Msg.Transfers[0].ToPayoutKey != "alice@example.com" {
		t.Errorf("expected transfer to carry Alice's payout key, got %+v", settle.Msg.Transfers)
	}

	_, err = ts.client.SetPayoutKey(ctx, connect.NewRequest(&api.SetPayoutKeyRequest{MemberId: alice.Id, Type: "iban", Value: "x"}))
	expectCode(t, err, connect.CodeInvalidArgument)

	resp, err = ts.client.SetPayoutKey(ctx, connect.NewRequest(&api.SetPayoutKeyRequest{MemberId: alice.Id}))
	if err != nil {
		t.Fatalf("clearing payout key failed: %v", err)
	}
	if resp.Msg.Member.PayoutKey != "" {
		t.Errorf("expected payout key to be cleared, got %q", resp.Msg.Member.PayoutKey)
	}
}

func TestExportImport(t *testing.T) {
	src := setupTestServer(t)
	ctx := context.Background()

	alice := addMember(t, src.client, "Alice")
	addMember(t, src.client, "Bob")
	addEqualExpense(t, src.client, "Dinner", 90, alice.Id)

	exported, err := src.client.ExportLedger(ctx, connect.NewRequest(&api.ExportLedgerRequest{}))
	if err != nil {
		t.Fatalf("ExportLedger failed: %v", err)
	}
	if exported.Msg.Revision != 3 {
		t.Errorf("expected revision 3 after three writes, got %d", exported.Msg.Revision)
	}

	dst := setupTestServer(t)
	addMember(t, dst.client, "Zoe")
	imported, err := dst.client.ImportLedger(ctx, connect.NewRequest(&api.ImportLedgerRequest{Snapshot: exported.Msg.Snapshot}))
	if err != nil {
		t.Fatalf("ImportLedger failed: %v", err)
	}
	if imported.Msg.Summary.MemberCount != 2 || imported.Msg.Summary.ExpenseCount != 1 {
		t.Errorf("unexpected summary after import: %+v", imported.Msg.Summary)
	}

	again, err := dst.client.ExportLedger(ctx, connect.NewRequest(&api.ExportLedgerRequest{}))
	if err != nil {
		t.Fatalf("ExportLedger failed: %v", err)
	}
	if again.Msg.Fingerprint != exported.Msg.Fingerprint {
		t.Errorf("expected identical fingerprints after import, got %s and %s", again.Msg.Fingerprint, exported.Msg.Fingerprint)
	}
}

func TestImportLedger_MalformedKeepsState(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	addMember(t, ts.client, "Alice")

	for _, body := range []string{`not json`, `{"payments": []}`, ``} {
		_, err := ts.client.ImportLedger(ctx, connect.NewRequest(&api.ImportLedgerRequest{Snapshot: []byte(body)}))
		connectErr := expectCode(t, err, connect.CodeInvalidArgument)
		if got := connectErr.Meta().Get(ErrorCodeHeader); got != "IMPORT_ERROR" {
			t.Errorf("expected IMPORT_ERROR for %q, got %q", body, got)
		}
	}

	resp, err := ts.client.ListMembers(ctx, connect.NewRequest(&api.ListMembersRequest{}))
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(resp.Msg.Members) != 1 {
		t.Errorf("expected state to be preserved, got %d members", len(resp.Msg.Members))
	}
}

func TestImportLedger_RejectsInconsistentSnapshot(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	alice := addMember(t, ts.client, "Alice")
	addEqualExpense(t, ts.client, "Dinner", 30, alice.Id)

	bodies := map[string]string{
		"names differ only in case": `{"members": [{"id": "a", "name": "Ana"}, {"id": "b", "name": "ANA"}], "expenses": []}`,
		"custom shares off total": `{"members": [{"id": "a", "name": "Ana"}, {"id": "b", "name": "Bia"}],
			"expenses": [{"id": "e1", "amount": 100, "payerId": "a", "splitType": "custom", "splitMethod": "amounts", "splitDetails": {"a": 10, "b": 10}}]}`,
		"negative expense": `{"members": [{"id": "a", "name": "Ana"}], "expenses": [{"id": "e2", "amount": -50, "payerId": "a", "splitType": "equal"}]}`,
		"self payment":     `{"members": [{"id": "a", "name": "Ana"}], "expenses": [], "payments": [{"id": "p1", "fromId": "a", "toId": "a", "amount": 5}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			_, err := ts.client.ImportLedger(ctx, connect.NewRequest(&api.ImportLedgerRequest{Snapshot: []byte(body)}))
			connectErr := expectCode(t, err, connect.CodeInvalidArgument)
			if got := connectErr.Meta().Get(ErrorCodeHeader); got != "IMPORT_ERROR" {
				t.Errorf("expected IMPORT_ERROR, got %q", got)
			}
		})
	}

	b := balancesByID(t, ts.client)
	if len(b) != 1 || math.Abs(b[alice.Id]) > 0.01 {
		t.Errorf("expected the previous ledger to be kept, got %v", b)
	}
}

func TestClearLedger(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	alice := addMember(t, ts.client, "Alice")
	addEqualExpense(t, ts.client, "Coffee", 5, alice.Id)

	if _, err := ts.client.ClearLedger(ctx, connect.NewRequest(&api.ClearLedgerRequest{})); err != nil {
		t.Fatalf("ClearLedger failed: %v", err)
	}
	resp, err := ts.client.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if len(resp.Msg.Balances) != 0 || resp.Msg.Summary.ExpenseCount != 0 {
		t.Errorf("expected empty ledger, got %+v", resp.Msg)
	}
}

func TestLedgerSurvivesRestart(t *testing.T) {
	store := memory.New()
	first := setupTestServerWithStore(t, store)
	alice := addMember(t, first.client, "Alice")
	addEqualExpense(t, first.client, "Dinner", 30, alice.Id)

	second := setupTestServerWithStore(t, store)
	resp, err := second.client.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(resp.Msg.Expenses) != 1 || resp.Msg.Expenses[0].PayerId != alice.Id {
		t.Errorf("expected the stored expense after restart, got %+v", resp.Msg.Expenses)
	}
}

func TestStaleWriterIsRejectedAndReloaded(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	first := setupTestServerWithStore(t, store)
	second := setupTestServerWithStore(t, store)

	addMember(t, first.client, "Alice")

	_, err := second.client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{Name: "Bob"}))
	connectErr := expectCode(t, err, connect.CodeAborted)
	if got := connectErr.Meta().Get(ErrorCodeHeader); got != "STALE_REVISION" {
		t.Errorf("expected STALE_REVISION, got %q", got)
	}

	// The rejected writer reloaded, so a retry lands on top of Alice.
	addMember(t, second.client, "Bob")
	resp, err := second.client.ListMembers(ctx, connect.NewRequest(&api.ListMembersRequest{}))
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(resp.Msg.Members) != 2 {
		t.Errorf("expected Alice and Bob, got %d members", len(resp.Msg.Members))
	}
}

type failingSaveStore struct {
	storage.Store
}

func (failingSaveStore) Save(context.Context, string, []byte, uint64) (uint64, error) {
	return 0, errors.New("disk full")
}

func TestSaveFailureRollsBack(t *testing.T) {
	ts := setupTestServerWithStore(t, failingSaveStore{memory.New()})

	_, err := ts.client.AddMember(context.Background(), connect.NewRequest(&api.AddMemberRequest{Name: "Alice"}))
	expectCode(t, err, connect.CodeInternal)

	resp, err := ts.client.ListMembers(context.Background(), connect.NewRequest(&api.ListMembersRequest{}))
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(resp.Msg.Members) != 0 {
		t.Errorf("expected the failed write to be rolled back, got %d members", len(resp.Msg.Members))
	}
	if len(ts.recorder.Events()) != 0 {
		t.Errorf("expected no events for a failed write, got %d", len(ts.recorder.Events()))
	}
}

func TestMalformedStoredLedgerStartsEmpty(t *testing.T) {
	store := memory.New()
	if _, err := store.Save(context.Background(), testKey, []byte(`{broken`), 0); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	ts := setupTestServerWithStore(t, store)
	resp, err := ts.client.ListMembers(context.Background(), connect.NewRequest(&api.ListMembersRequest{}))
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(resp.Msg.Members) != 0 {
		t.Errorf("expected empty ledger, got %d members", len(resp.Msg.Members))
	}

	// The next write replaces the broken snapshot.
	addMember(t, ts.client, "Alice")
	rec, err := store.Load(context.Background(), testKey)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rec.Revision != 2 {
		t.Errorf("expected revision 2, got %d", rec.Revision)
	}
}

func TestEventsArePublished(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	alice := addMember(t, ts.client, "Alice")
	bob := addMember(t, ts.client, "Bob")
	addEqualExpense(t, ts.client, "Dinner", 20, alice.Id)
	if _, err := ts.client.AddPayment(ctx, connect.NewRequest(&api.AddPaymentRequest{FromId: bob.Id, ToId: alice.Id, Amount: 10})); err != nil {
		t.Fatalf("AddPayment failed: %v", err)
	}
	// Failed writes publish nothing.
	ts.client.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{Name: "alice"}))

	got := ts.recorder.Events()
	wantTypes := []events.Type{events.MemberAdded, events.MemberAdded, events.ExpenseAdded, events.PaymentAdded}
	if len(got) != len(wantTypes) {
		t.Fatalf("expected %d events, got %d", len(wantTypes), len(got))
	}
	for i, e := range got {
		if e.Type != wantTypes[i] {
			t.Errorf("event %d: expected %s, got %s", i, wantTypes[i], e.Type)
		}
		if e.Revision != uint64(i+1) {
			t.Errorf("event %d: expected revision %d, got %d", i, i+1, e.Revision)
		}
		if e.LedgerKey != testKey {
			t.Errorf("event %d: expected key %s, got %s", i, testKey, e.LedgerKey)
		}
	}
	if got[0].EntityID != alice.Id {
		t.Errorf("expected first event to name Alice, got %s", got[0].EntityID)
	}
}

func TestSyncFromSheet(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		ts := setupTestServer(t)
		_, err := ts.client.SyncFromSheet(ctx, connect.NewRequest(&api.SyncFromSheetRequest{}))
		expectCode(t, err, connect.CodeFailedPrecondition)
	})

	t.Run("merges tabs the sheet carries", func(t *testing.T) {
		sheet := sheetmem.New()
		ts := setupTestServer(t, WithSheet(sheet))
		alice := addMember(t, ts.client, "Alice")
		addEqualExpense(t, ts.client, "Dinner", 20, alice.Id)

		// Only the members tab exists in the sheet.
		rows := [][]string{{"ID", "Name"}, {alice.Id, "Alice"}, {"b", "Bea"}}
		if err := sheet.WriteRows(ctx, sheets.MembersTab, rows); err != nil {
			t.Fatalf("seed sheet: %v", err)
		}

		resp, err := ts.client.SyncFromSheet(ctx, connect.NewRequest(&api.SyncFromSheetRequest{}))
		if err != nil {
			t.Fatalf("SyncFromSheet failed: %v", err)
		}
		if resp.Msg.Summary.MemberCount != 2 || resp.Msg.Summary.ExpenseCount != 1 {
			t.Errorf("expected 2 members and the kept expense, got %+v", resp.Msg.Summary)
		}
		if b := balancesByID(t, ts.client); math.Abs(b["b"]+10) > 0.01 {
			t.Errorf("expected Bea to owe half of dinner, got %.2f", b["b"])
		}
	})

	t.Run("rows breaking invariants", func(t *testing.T) {
		sheet := sheetmem.New()
		ts := setupTestServer(t, WithSheet(sheet))
		alice := addMember(t, ts.client, "Alice")
		addEqualExpense(t, ts.client, "Dinner", 20, alice.Id)

		// The members tab drops the payer of the kept expense.
		if err := sheet.WriteRows(ctx, sheets.MembersTab, [][]string{{"ID", "Name"}, {"b", "Bea"}}); err != nil {
			t.Fatalf("seed sheet: %v", err)
		}
		_, err := ts.client.SyncFromSheet(ctx, connect.NewRequest(&api.SyncFromSheetRequest{}))
		expectCode(t, err, connect.CodeInvalidArgument)

		payments := [][]string{{"ID", "FromID", "ToID", "Amount"}, {"p1", alice.Id, alice.Id, "-5"}}
		if err := sheet.WriteRows(ctx, sheets.MembersTab, nil); err != nil {
			t.Fatalf("seed sheet: %v", err)
		}
		if err := sheet.WriteRows(ctx, sheets.PaymentsTab, payments); err != nil {
			t.Fatalf("seed sheet: %v", err)
		}
		_, err = ts.client.SyncFromSheet(ctx, connect.NewRequest(&api.SyncFromSheetRequest{}))
		expectCode(t, err, connect.CodeInvalidArgument)

		b := balancesByID(t, ts.client)
		if len(b) != 1 || math.Abs(b[alice.Id]) > 0.01 {
			t.Errorf("expected the ledger to be untouched, got %v", b)
		}
	})

	t.Run("malformed sheet", func(t *testing.T) {
		sheet := sheetmem.New()
		ts := setupTestServer(t, WithSheet(sheet))
		if err := sheet.WriteRows(ctx, sheets.MembersTab, [][]string{{"Name"}, {"Alice"}}); err != nil {
			t.Fatalf("seed sheet: %v", err)
		}
		_, err := ts.client.SyncFromSheet(ctx, connect.NewRequest(&api.SyncFromSheetRequest{}))
		expectCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestCompute_SharesResultForSameState(t *testing.T) {
	ts := setupTestServer(t)
	alice := addMember(t, ts.client, "Alice")
	addMember(t, ts.client, "Bob")
	addEqualExpense(t, ts.client, "Dinner", 50, alice.Id)

	ctx := context.Background()
	var wg sync.WaitGroup
	results := make([]*computation, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := ts.svc.compute(ctx)
			if err != nil {
				t.Errorf("compute failed: %v", err)
				return
			}
			results[i] = c
		}(i)
	}
	wg.Wait()

	for i, c := range results {
		if c == nil || c.fingerprint != results[0].fingerprint {
			t.Fatalf("result %d differs from the first", i)
		}
	}
	again, err := ts.svc.compute(ctx)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if again != ts.svc.memo {
		t.Error("expected the memoized computation to be reused")
	}

	addMember(t, ts.client, "Charlie")
	changed, err := ts.svc.compute(ctx)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if changed.fingerprint == again.fingerprint {
		t.Error("expected a new computation after the ledger changed")
	}
}

func TestInterceptorsRecordMetrics(t *testing.T) {
	ts := setupTestServer(t)
	addMember(t, ts.client, "Alice")
	_, err := ts.client.AddMember(context.Background(), connect.NewRequest(&api.AddMemberRequest{Name: ""}))
	expectCode(t, err, connect.CodeInvalidArgument)

	rec := httptest.NewRecorder()
	ts.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		`partio_rpc_requests_total{code="ok",procedure="/partio.v1.LedgerService/AddMember"} 1`,
		`partio_rpc_requests_total{code="invalid_argument",procedure="/partio.v1.LedgerService/AddMember"} 1`,
		`partio_ledger_entities{kind="members"} 1`,
		`partio_ledger_revision 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics to contain %q", want)
		}
	}
}
