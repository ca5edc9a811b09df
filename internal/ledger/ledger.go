// Package ledger holds the group's members, expenses and payments and enforces
// the invariants between them. It is the only mutable state in the engine;
// balances and settlements are derived from it through the calculator package.
//
// A Store is not safe for concurrent use. Callers that share one across
// goroutines guard it themselves (see internal/service).
package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/partio/internal/apperr"
	"github.com/mmynk/partio/internal/calculator"
	"github.com/mmynk/partio/internal/models"
)

// Store is an in-memory ledger.
type Store struct {
	members  []models.Member
	expenses []models.Expense
	payments []models.Payment

	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source for new expenses and payments.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how entity IDs are generated.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New returns an empty ledger.
func New(opts ...Option) *Store {
	s := &Store{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddMember adds a member with the given display name. The name is trimmed and
// must be unique ignoring case.
func (s *Store) AddMember(name string) (models.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Member{}, apperr.InvalidInput("member name is required")
	}
	for _, m := range s.members {
		if strings.EqualFold(m.Name, name) {
			return models.Member{}, apperr.InvalidInputWithMetadata(
				map[string]string{"name": name},
				"a member named %q already exists", m.Name,
			)
		}
	}

	m := models.Member{ID: s.newID(), Name: name}
	s.members = append(s.members, m)
	return m, nil
}

// RemoveMember deletes a member and every expense they paid for. Payments that
// reference the member are kept; balance computation skips them.
func (s *Store) RemoveMember(id string) error {
	idx := s.memberIndex(id)
	if idx < 0 {
		return apperr.NotFound("member", id)
	}
	s.members = append(s.members[:idx:idx], s.members[idx+1:]...)

	kept := s.expenses[:0:0]
	for _, e := range s.expenses {
		if e.PayerID != id {
			kept = append(kept, e)
		}
	}
	s.expenses = kept
	return nil
}

// SetPayoutKey sets where a member receives transfers. An empty value clears
// the key.
func (s *Store) SetPayoutKey(memberID, kind, value string) (models.Member, error) {
	idx := s.memberIndex(memberID)
	if idx < 0 {
		return models.Member{}, apperr.NotFound("member", memberID)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		s.members[idx].PayoutKey = nil
		return cloneMember(s.members[idx]), nil
	}
	k, ok := models.ParsePayoutKind(kind)
	if !ok {
		return models.Member{}, apperr.InvalidInputWithMetadata(
			map[string]string{"kind": kind},
			"unknown payout key type %q", kind,
		)
	}
	s.members[idx].PayoutKey = &models.PayoutKey{Kind: k, Value: value}
	return cloneMember(s.members[idx]), nil
}

// ExpenseInput carries the caller-supplied fields of a new expense. Parts is
// read for MethodParts and Amounts for MethodAmounts; both are ignored for
// equal splits.
type ExpenseInput struct {
	Description string
	Amount      float64
	PayerID     string
	Policy      models.SplitPolicy
	Method      models.SplitMethod
	Parts       map[string]int
	Amounts     map[string]float64
}

// AddExpense validates in and records the expense. Custom shares are resolved
// once, here, and stored on the expense.
func (s *Store) AddExpense(in ExpenseInput) (models.Expense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return models.Expense{}, apperr.InvalidInput("description is required")
	}
	if err := calculator.ValidateAmount(in.Amount); err != nil {
		return models.Expense{}, err
	}
	if s.memberIndex(in.PayerID) < 0 {
		return models.Expense{}, apperr.InvalidInputWithMetadata(
			map[string]string{"payerId": in.PayerID},
			"payer is not a member: %s", in.PayerID,
		)
	}

	split, err := s.resolveSplit(in)
	if err != nil {
		return models.Expense{}, err
	}

	e := models.Expense{
		ID:          s.newID(),
		Description: description,
		Amount:      in.Amount,
		PayerID:     in.PayerID,
		Split:       split,
		CreatedAt:   s.now(),
	}
	s.expenses = append(s.expenses, e)
	return cloneExpense(e), nil
}

func (s *Store) resolveSplit(in ExpenseInput) (models.Split, error) {
	switch in.Policy {
	case models.PolicyEqual, "":
		// Equal shares are recomputed from the live member set on every
		// read; this only checks that the set can take them.
		if _, err := calculator.EqualShares(in.Amount, s.memberIDs()); err != nil {
			return nil, err
		}
		return models.EqualSplit{}, nil

	case models.PolicyCustom:
		var (
			shares map[string]float64
			err    error
		)
		switch in.Method {
		case models.MethodParts:
			if err := s.requireMembers(keys(in.Parts)); err != nil {
				return nil, err
			}
			shares, err = calculator.SharesFromParts(in.Amount, in.Parts)
		case models.MethodAmounts:
			if err := s.requireMembers(keys(in.Amounts)); err != nil {
				return nil, err
			}
			shares, err = calculator.SharesFromAmounts(in.Amount, in.Amounts)
		default:
			return nil, apperr.InvalidInput("unknown split method %q", in.Method)
		}
		if err != nil {
			return nil, err
		}
		return models.CustomSplit{Method: in.Method, Shares: shares}, nil
	}
	return nil, apperr.InvalidInput("unknown split type %q", in.Policy)
}

func (s *Store) requireMembers(ids []string) error {
	for _, id := range ids {
		if s.memberIndex(id) < 0 {
			return apperr.InvalidInputWithMetadata(
				map[string]string{"participant": id},
				"participant is not a member: %s", id,
			)
		}
	}
	return nil
}

// RemoveExpense deletes an expense by ID.
func (s *Store) RemoveExpense(id string) error {
	for i, e := range s.expenses {
		if e.ID == id {
			s.expenses = append(s.expenses[:i:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("expense", id)
}

// AddPayment records a direct transfer between two different members.
func (s *Store) AddPayment(fromID, toID string, amount float64, description string) (models.Payment, error) {
	if fromID == toID {
		return models.Payment{}, apperr.InvalidInput("a member cannot pay themselves")
	}
	if err := calculator.ValidateAmount(amount); err != nil {
		return models.Payment{}, err
	}
	for _, id := range []string{fromID, toID} {
		if s.memberIndex(id) < 0 {
			return models.Payment{}, apperr.InvalidInputWithMetadata(
				map[string]string{"memberId": id},
				"payment member is not a member: %s", id,
			)
		}
	}

	p := models.Payment{
		ID:          s.newID(),
		FromID:      fromID,
		ToID:        toID,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now(),
	}
	s.payments = append(s.payments, p)
	return p, nil
}

// RemovePayment deletes a payment by ID.
func (s *Store) RemovePayment(id string) error {
	for i, p := range s.payments {
		if p.ID == id {
			s.payments = append(s.payments[:i:i], s.payments[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("payment", id)
}

// Member looks up a member by ID.
func (s *Store) Member(id string) (models.Member, bool) {
	idx := s.memberIndex(id)
	if idx < 0 {
		return models.Member{}, false
	}
	return cloneMember(s.members[idx]), true
}

// Members returns a copy of the members in insertion order.
func (s *Store) Members() []models.Member {
	out := make([]models.Member, len(s.members))
	for i, m := range s.members {
		out[i] = cloneMember(m)
	}
	return out
}

// Expenses returns a copy of the expenses in insertion order.
func (s *Store) Expenses() []models.Expense {
	out := make([]models.Expense, len(s.expenses))
	for i, e := range s.expenses {
		out[i] = cloneExpense(e)
	}
	return out
}

// Payments returns a copy of the payments in insertion order.
func (s *Store) Payments() []models.Payment {
	out := make([]models.Payment, len(s.payments))
	copy(out, s.payments)
	return out
}

// Balances computes every current member's balance.
func (s *Store) Balances() []calculator.MemberBalance {
	return calculator.ComputeBalances(s.members, s.expenses, s.payments)
}

// Settle suggests transfers that would clear all balances. It does not record
// anything.
func (s *Store) Settle() []calculator.Transfer {
	return calculator.Simplify(s.Balances())
}

func (s *Store) memberIDs() []string {
	ids := make([]string, len(s.members))
	for i, m := range s.members {
		ids[i] = m.ID
	}
	return ids
}

func (s *Store) memberIndex(id string) int {
	for i, m := range s.members {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func cloneMember(m models.Member) models.Member {
	if m.PayoutKey != nil {
		key := *m.PayoutKey
		m.PayoutKey = &key
	}
	return m
}

func cloneExpense(e models.Expense) models.Expense {
	if custom, ok := e.Split.(models.CustomSplit); ok {
		shares := make(map[string]float64, len(custom.Shares))
		for id, v := range custom.Shares {
			shares[id] = v
		}
		e.Split = models.CustomSplit{Method: custom.Method, Shares: shares}
	}
	return e
}
