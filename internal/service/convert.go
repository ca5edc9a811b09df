package service

import (
	"github.com/mmynk/partio/internal/calculator"
	"github.com/mmynk/partio/internal/ledger"
	"github.com/mmynk/partio/internal/models"
	"github.com/mmynk/partio/pkg/api"
)

func toAPIMember(m models.Member) *api.Member {
	out := &api.Member{Id: m.ID, Name: m.Name}
	if m.PayoutKey != nil {
		out.PayoutKey = m.PayoutKey.Value
		out.PayoutKeyType = string(m.PayoutKey.Kind)
	}
	return out
}

func toAPIExpense(e models.Expense) *api.Expense {
	out := &api.Expense{
		Id:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		PayerId:     e.PayerID,
		SplitType:   string(e.Policy()),
		CreatedAt:   e.CreatedAt.Unix(),
	}
	if custom, ok := e.Split.(models.CustomSplit); ok {
		out.SplitMethod = string(custom.Method)
		out.SplitDetails = custom.Shares
	}
	return out
}

func toAPIPayment(p models.Payment) *api.Payment {
	return &api.Payment{
		Id:          p.ID,
		FromId:      p.FromID,
		ToId:        p.ToID,
		Amount:      p.Amount,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.Unix(),
	}
}

func toAPISummary(s ledger.Summary) *api.Summary {
	return &api.Summary{
		TotalSpent:   s.TotalSpent,
		PerPerson:    s.PerPerson,
		MemberCount:  int32(s.MemberCount),
		ExpenseCount: int32(s.ExpenseCount),
		PaymentCount: int32(s.PaymentCount),
	}
}

// toAPIBalances attaches member names to the computed balances.
func toAPIBalances(members []models.Member, balances []calculator.MemberBalance) []*api.MemberBalance {
	names := memberNames(members)
	out := make([]*api.MemberBalance, 0, len(balances))
	for _, b := range balances {
		out = append(out, &api.MemberBalance{
			MemberId:   b.MemberID,
			MemberName: names[b.MemberID],
			NetBalance: b.NetBalance,
			TotalPaid:  b.TotalPaid,
			TotalOwed:  b.TotalOwed,
		})
	}
	return out
}

// toAPITransfers attaches names and the creditor's payout key to each
// suggested transfer.
func toAPITransfers(members []models.Member, transfers []calculator.Transfer) []*api.Transfer {
	byID := make(map[string]models.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	out := make([]*api.Transfer, 0, len(transfers))
	for _, t := range transfers {
		tr := &api.Transfer{
			FromId:   t.From,
			FromName: byID[t.From].Name,
			ToId:     t.To,
			ToName:   byID[t.To].Name,
			Amount:   t.Amount,
		}
		if key := byID[t.To].PayoutKey; key != nil {
			tr.ToPayoutKey = key.Value
			tr.ToPayoutKeyType = string(key.Kind)
		}
		out = append(out, tr)
	}
	return out
}

func memberNames(members []models.Member) map[string]string {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	return names
}
