package ledger

import "github.com/mmynk/partio/internal/models"

// Summary is a headline view of the ledger.
type Summary struct {
	// TotalSpent sums the expenses whose payer is still a member.
	TotalSpent float64
	// PerPerson is TotalSpent divided by the member count, 0 with no members.
	PerPerson    float64
	MemberCount  int
	ExpenseCount int
	PaymentCount int
}

// Summary reports totals and counts for the current ledger.
func (s *Store) Summary() Summary {
	sum := Summary{
		MemberCount:  len(s.members),
		ExpenseCount: len(s.expenses),
		PaymentCount: len(s.payments),
	}
	for _, e := range s.expenses {
		if s.memberIndex(e.PayerID) >= 0 {
			sum.TotalSpent += e.Amount
		}
	}
	if sum.MemberCount > 0 {
		sum.PerPerson = sum.TotalSpent / float64(sum.MemberCount)
	}
	return sum
}

// Snapshot returns a deep copy of the full ledger state. Collections are never
// nil.
func (s *Store) Snapshot() models.Snapshot {
	return models.Snapshot{
		Members:  s.Members(),
		Expenses: s.Expenses(),
		Payments: s.Payments(),
	}
}

// Replace swaps all three collections for the snapshot's. The snapshot is
// taken as already decoded and validated; see internal/snapshot.
func (s *Store) Replace(snap models.Snapshot) {
	s.members = cloneMembers(snap.Members)
	s.expenses = cloneExpenses(snap.Expenses)
	s.payments = clonePayments(snap.Payments)
}

// Merge overwrites each collection that is present in snap. A nil collection
// leaves the current one untouched, so a partial external source only
// replaces what it actually carries.
func (s *Store) Merge(snap models.Snapshot) {
	if snap.Members != nil {
		s.members = cloneMembers(snap.Members)
	}
	if snap.Expenses != nil {
		s.expenses = cloneExpenses(snap.Expenses)
	}
	if snap.Payments != nil {
		s.payments = clonePayments(snap.Payments)
	}
}

// Clear empties the ledger.
func (s *Store) Clear() {
	s.members, s.expenses, s.payments = nil, nil, nil
}

// Restore builds a Store from a snapshot.
func Restore(snap models.Snapshot, opts ...Option) *Store {
	s := New(opts...)
	s.Replace(snap)
	return s
}

func cloneMembers(in []models.Member) []models.Member {
	out := make([]models.Member, len(in))
	for i, m := range in {
		out[i] = cloneMember(m)
	}
	return out
}

func cloneExpenses(in []models.Expense) []models.Expense {
	out := make([]models.Expense, len(in))
	for i, e := range in {
		if e.Split == nil {
			e.Split = models.EqualSplit{}
		}
		out[i] = cloneExpense(e)
	}
	return out
}

func clonePayments(in []models.Payment) []models.Payment {
	out := make([]models.Payment, len(in))
	copy(out, in)
	return out
}
