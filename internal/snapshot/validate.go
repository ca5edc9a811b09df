package snapshot

import (
	"fmt"
	"strings"

	"github.com/mmynk/partio/internal/apperr"
	"github.com/mmynk/partio/internal/calculator"
	"github.com/mmynk/partio/internal/models"
)

// Validate checks the entity invariants of an externally supplied snapshot
// and reports the first offending entity as an IMPORT_ERROR.
//
// A nil collection is not checked, so partial snapshots from a sheet pass.
// Payer references are checked only when members are present. Custom split
// participants and payment members may name removed members; the balance
// calculation skips those.
func Validate(snap models.Snapshot) error {
	memberIDs := make(map[string]bool, len(snap.Members))
	names := make(map[string]string, len(snap.Members))
	for _, m := range snap.Members {
		if m.ID == "" {
			return apperr.Import(fmt.Sprintf("member %q", m.Name), fmt.Errorf("missing id"))
		}
		if memberIDs[m.ID] {
			return apperr.Import("member "+m.ID, fmt.Errorf("duplicate id"))
		}
		memberIDs[m.ID] = true

		name := strings.TrimSpace(m.Name)
		if name == "" {
			return apperr.Import("member "+m.ID, fmt.Errorf("name is required"))
		}
		folded := strings.ToLower(name)
		if other, ok := names[folded]; ok {
			return apperr.Import("member "+m.ID, fmt.Errorf("name %q is already used by member %s", name, other))
		}
		names[folded] = m.ID
	}

	expenseIDs := make(map[string]bool, len(snap.Expenses))
	for _, e := range snap.Expenses {
		if err := validateExpense(e, expenseIDs); err != nil {
			return apperr.Import("expense "+e.ID, err)
		}
		if snap.Members != nil && !memberIDs[e.PayerID] {
			return apperr.Import("expense "+e.ID, fmt.Errorf("payer is not a member: %s", e.PayerID))
		}
	}

	paymentIDs := make(map[string]bool, len(snap.Payments))
	for _, p := range snap.Payments {
		if p.ID == "" {
			return apperr.Import(fmt.Sprintf("payment %s->%s", p.FromID, p.ToID), fmt.Errorf("missing id"))
		}
		if paymentIDs[p.ID] {
			return apperr.Import("payment "+p.ID, fmt.Errorf("duplicate id"))
		}
		paymentIDs[p.ID] = true

		if p.FromID == p.ToID {
			return apperr.Import("payment "+p.ID, fmt.Errorf("a member cannot pay themselves"))
		}
		if err := calculator.ValidateAmount(p.Amount); err != nil {
			return apperr.Import("payment "+p.ID, err)
		}
	}
	return nil
}

func validateExpense(e models.Expense, seen map[string]bool) error {
	if e.ID == "" {
		return fmt.Errorf("missing id")
	}
	if seen[e.ID] {
		return fmt.Errorf("duplicate id")
	}
	seen[e.ID] = true

	if err := calculator.ValidateAmount(e.Amount); err != nil {
		return err
	}
	if custom, ok := e.Split.(models.CustomSplit); ok {
		if _, err := calculator.SharesFromAmounts(e.Amount, custom.Shares); err != nil {
			return err
		}
	}
	return nil
}
