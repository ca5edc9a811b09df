// Package api holds the request and response messages of the
// partio.v1.LedgerService RPC surface. Field names follow the JSON wire
// format used by the web client.
package api

import "encoding/json"

// Member is a participant of the ledger.
type Member struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	PayoutKey     string `json:"payoutKey,omitempty"`
	PayoutKeyType string `json:"payoutKeyType,omitempty"`
}

// Expense is a shared cost paid by one member.
type Expense struct {
	Id          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	PayerId     string  `json:"payerId"`
	SplitType   string  `json:"splitType"`
	SplitMethod string  `json:"splitMethod,omitempty"`
	// SplitDetails maps participant ID to owed share for custom splits.
	SplitDetails map[string]float64 `json:"splitDetails,omitempty"`
	CreatedAt    int64              `json:"createdAt"` // Unix timestamp
}

// Payment is a direct transfer between two members.
type Payment struct {
	Id          string  `json:"id"`
	FromId      string  `json:"fromId"`
	ToId        string  `json:"toId"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	CreatedAt   int64   `json:"createdAt"` // Unix timestamp
}

// MemberBalance is one member's position. Positive means the group owes the
// member.
type MemberBalance struct {
	MemberId   string  `json:"memberId"`
	MemberName string  `json:"memberName"`
	NetBalance float64 `json:"netBalance"`
	TotalPaid  float64 `json:"totalPaid"`
	TotalOwed  float64 `json:"totalOwed"`
}

// Transfer is a suggested settlement payment.
type Transfer struct {
	FromId          string  `json:"fromId"`
	FromName        string  `json:"fromName"`
	ToId            string  `json:"toId"`
	ToName          string  `json:"toName"`
	Amount          float64 `json:"amount"`
	ToPayoutKey     string  `json:"toPayoutKey,omitempty"`
	ToPayoutKeyType string  `json:"toPayoutKeyType,omitempty"`
}

// Summary carries ledger totals. PerPerson is TotalSpent divided by the
// member count.
type Summary struct {
	TotalSpent   float64 `json:"totalSpent"`
	PerPerson    float64 `json:"perPerson"`
	MemberCount  int32   `json:"memberCount"`
	ExpenseCount int32   `json:"expenseCount"`
	PaymentCount int32   `json:"paymentCount"`
}

// AddMemberRequest adds a member; the name must be unique ignoring case.
type AddMemberRequest struct {
	Name string `json:"name"`
}

// AddMemberResponse returns the created member.
type AddMemberResponse struct {
	Member *Member `json:"member"`
}

// RemoveMemberRequest deletes a member and the expenses they paid.
type RemoveMemberRequest struct {
	MemberId string `json:"memberId"`
}

// RemoveMemberResponse reports what the removal cascaded to.
type RemoveMemberResponse struct {
	// RemovedExpenseIds lists the expenses paid by the member that were
	// deleted with it.
	RemovedExpenseIds []string `json:"removedExpenseIds"`
}

// SetPayoutKeyRequest sets where a member receives transfers.
type SetPayoutKeyRequest struct {
	MemberId string `json:"memberId"`
	Type     string `json:"type"`
	// Value clears the key when empty.
	Value string `json:"value"`
}

// SetPayoutKeyResponse returns the updated member.
type SetPayoutKeyResponse struct {
	Member *Member `json:"member"`
}

// ListMembersRequest lists members in insertion order.
type ListMembersRequest struct{}

// ListMembersResponse holds the current members.
type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

// AddExpenseRequest records an expense. Parts is read for the parts method and
// Amounts for the amounts method.
type AddExpenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	PayerId     string  `json:"payerId"`
	// SplitType is "equal" (default) or "custom".
	SplitType string `json:"splitType,omitempty"`
	// SplitMethod is "parts" or "amounts" for custom splits.
	SplitMethod string             `json:"splitMethod,omitempty"`
	Parts       map[string]int     `json:"parts,omitempty"`
	Amounts     map[string]float64 `json:"amounts,omitempty"`
}

// AddExpenseResponse returns the stored expense with its resolved shares.
type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// RemoveExpenseRequest deletes one expense.
type RemoveExpenseRequest struct {
	ExpenseId string `json:"expenseId"`
}

// RemoveExpenseResponse is empty.
type RemoveExpenseResponse struct{}

// ListExpensesRequest lists expenses in insertion order.
type ListExpensesRequest struct{}

// ListExpensesResponse holds the current expenses.
type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// AddPaymentRequest records a transfer between two different members.
type AddPaymentRequest struct {
	FromId      string  `json:"fromId"`
	ToId        string  `json:"toId"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// AddPaymentResponse returns the stored payment.
type AddPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

// RemovePaymentRequest deletes one payment.
type RemovePaymentRequest struct {
	PaymentId string `json:"paymentId"`
}

// RemovePaymentResponse is empty.
type RemovePaymentResponse struct{}

// ListPaymentsRequest lists payments in insertion order.
type ListPaymentsRequest struct{}

// ListPaymentsResponse holds the current payments.
type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

// GetBalancesRequest asks for every member's balance.
type GetBalancesRequest struct{}

// GetBalancesResponse holds balances in member order and the ledger summary.
type GetBalancesResponse struct {
	Balances []*MemberBalance `json:"balances"`
	Summary  *Summary         `json:"summary"`
}

// GetSettlementRequest asks for suggested transfers. Nothing is recorded.
type GetSettlementRequest struct{}

// GetSettlementResponse lists transfers that would clear every balance.
type GetSettlementResponse struct {
	Transfers []*Transfer `json:"transfers"`
}

// ExportLedgerRequest asks for the full ledger snapshot.
type ExportLedgerRequest struct{}

// ExportLedgerResponse carries the snapshot JSON, its content fingerprint and
// the stored revision it was read at.
type ExportLedgerResponse struct {
	Snapshot    json.RawMessage `json:"snapshot"`
	Fingerprint string          `json:"fingerprint"`
	Revision    uint64          `json:"revision"`
}

// ImportLedgerRequest replaces the whole ledger with Snapshot.
type ImportLedgerRequest struct {
	Snapshot json.RawMessage `json:"snapshot"`
}

// ImportLedgerResponse reports the new revision and totals.
type ImportLedgerResponse struct {
	Revision uint64   `json:"revision"`
	Summary  *Summary `json:"summary"`
}

// ClearLedgerRequest empties the ledger.
type ClearLedgerRequest struct{}

// ClearLedgerResponse reports the new revision.
type ClearLedgerResponse struct {
	Revision uint64 `json:"revision"`
}

// SyncFromSheetRequest pulls the configured spreadsheet into the ledger.
type SyncFromSheetRequest struct{}

// SyncFromSheetResponse reports the new revision and totals.
type SyncFromSheetResponse struct {
	Revision uint64   `json:"revision"`
	Summary  *Summary `json:"summary"`
}
