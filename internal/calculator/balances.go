package calculator

import "github.com/mmynk/partio/internal/models"

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	MemberID   string
	NetBalance float64 // Positive = owed money, Negative = owes money
	TotalPaid  float64 // Expenses paid plus payments sent
	TotalOwed  float64 // Expense shares plus payments received
}

// ComputeBalances folds every expense and payment into one net balance per
// current member. The result follows the order of members.
//
// Algorithm:
//   - For each expense with an existing payer: payer +amount, each participant
//     -share. Equal splits use the current member count; custom splits use the
//     stored shares of members that still exist.
//   - For each payment between two existing members: source +amount,
//     destination -amount.
//   - Anything referencing a removed member is skipped.
func ComputeBalances(members []models.Member, expenses []models.Expense, payments []models.Payment) []MemberBalance {
	balances := make([]MemberBalance, len(members))
	index := make(map[string]int, len(members))
	ids := make([]string, len(members))
	for i, m := range members {
		balances[i] = MemberBalance{MemberID: m.ID}
		index[m.ID] = i
		ids[i] = m.ID
	}

	for _, e := range expenses {
		payer, ok := index[e.PayerID]
		if !ok {
			continue
		}
		balances[payer].TotalPaid += e.Amount

		var shares map[string]float64
		switch split := e.Split.(type) {
		case models.CustomSplit:
			// Shares of removed participants are dropped, so such an expense
			// no longer sums to zero.
			shares = split.Shares
		default:
			// The payer exists, so ids is never empty.
			shares, _ = EqualShares(e.Amount, ids)
		}
		for id, share := range shares {
			if i, ok := index[id]; ok {
				balances[i].TotalOwed += share
			}
		}
	}

	for _, p := range payments {
		from, okFrom := index[p.FromID]
		to, okTo := index[p.ToID]
		if !okFrom || !okTo {
			continue
		}
		// Paying down a debt improves the payer's balance.
		balances[from].TotalPaid += p.Amount
		// Receiving a settlement reduces what the group owes the receiver.
		balances[to].TotalOwed += p.Amount
	}

	for i := range balances {
		balances[i].NetBalance = balances[i].TotalPaid - balances[i].TotalOwed
	}
	return balances
}

// Sum returns the total of all net balances. For a consistent ledger it is
// zero within Tolerance.
func Sum(balances []MemberBalance) float64 {
	var total float64
	for _, b := range balances {
		total += b.NetBalance
	}
	return total
}
