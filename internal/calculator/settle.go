package calculator

import (
	"math"
	"sort"
)

// Transfer is a suggested payment from a debtor to a creditor.
type Transfer struct {
	From   string // Member who owes
	To     string // Member who is owed
	Amount float64
}

type position struct {
	memberID  string
	remaining float64
}

// Simplify reduces balances to a short list of transfers that brings every
// balance within Tolerance of zero. It matches the largest creditor with the
// largest debtor until one side runs out.
//
// Members within Tolerance of zero are left out. Creditors and debtors are
// sorted by amount, largest first; equal amounts keep the order they have in
// balances, so the output is deterministic for a given member order.
//
// The result is advisory: recording it is the caller's job.
func Simplify(balances []MemberBalance) []Transfer {
	var creditors, debtors []position
	for _, b := range balances {
		switch {
		case b.NetBalance > Tolerance:
			creditors = append(creditors, position{b.MemberID, b.NetBalance})
		case b.NetBalance < -Tolerance:
			debtors = append(debtors, position{b.MemberID, -b.NetBalance})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].remaining > creditors[j].remaining })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].remaining > debtors[j].remaining })

	// Every step drains at least one side completely, so the loop runs at
	// most len(creditors)+len(debtors)-1 times.
	var transfers []Transfer
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		c, d := &creditors[i], &debtors[j]

		amount := math.Min(c.remaining, d.remaining)
		if amount > Tolerance {
			transfers = append(transfers, Transfer{From: d.memberID, To: c.memberID, Amount: amount})
		}
		c.remaining -= amount
		d.remaining -= amount

		if c.remaining < Tolerance {
			i++
		}
		if d.remaining < Tolerance {
			j++
		}
	}
	return transfers
}
