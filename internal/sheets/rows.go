package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/partio/internal/apperr"
	"github.com/mmynk/partio/internal/models"
	"github.com/mmynk/partio/internal/snapshot"
)

var (
	memberHeader  = []string{"ID", "Name", "PayoutKey", "PayoutKeyType"}
	expenseHeader = []string{"ID", "Description", "Amount", "PayerID", "SplitType", "SplitMethod", "SplitDetails", "Date"}
	paymentHeader = []string{"ID", "FromID", "ToID", "Amount", "Description", "Date"}
)

// Push writes snap to the three tabs, replacing their content.
func Push(ctx context.Context, w RowWriter, snap models.Snapshot) error {
	tabs, err := Encode(snap)
	if err != nil {
		return err
	}
	for _, tab := range []string{MembersTab, ExpensesTab, PaymentsTab} {
		if err := w.WriteRows(ctx, tab, tabs[tab]); err != nil {
			return fmt.Errorf("write %s: %w", tab, err)
		}
	}
	return nil
}

// Pull reads the three tabs into a snapshot. A tab with no rows at all leaves
// the matching collection nil, which ledger.Store.Merge treats as "keep".
func Pull(ctx context.Context, r RowReader) (models.Snapshot, error) {
	read := func(tab string) ([][]string, error) {
		rows, err := r.ReadRows(ctx, tab)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", tab, err)
		}
		return rows, nil
	}

	members, err := read(MembersTab)
	if err != nil {
		return models.Snapshot{}, err
	}
	expenses, err := read(ExpensesTab)
	if err != nil {
		return models.Snapshot{}, err
	}
	payments, err := read(PaymentsTab)
	if err != nil {
		return models.Snapshot{}, err
	}
	return Decode(members, expenses, payments)
}

// Encode renders snap as rows per tab, each starting with a header row.
func Encode(snap models.Snapshot) (map[string][][]string, error) {
	members := [][]string{memberHeader}
	for _, m := range snap.Members {
		var key, kind string
		if m.PayoutKey != nil {
			key, kind = m.PayoutKey.Value, string(m.PayoutKey.Kind)
		}
		members = append(members, []string{m.ID, m.Name, key, kind})
	}

	expenses := [][]string{expenseHeader}
	for _, e := range snap.Expenses {
		var method, details string
		if custom, ok := e.Split.(models.CustomSplit); ok {
			method = string(custom.Method)
			data, err := json.Marshal(custom.Shares)
			if err != nil {
				return nil, fmt.Errorf("encode split details of %s: %w", e.ID, err)
			}
			details = string(data)
		}
		expenses = append(expenses, []string{
			e.ID, e.Description, formatAmount(e.Amount), e.PayerID,
			string(e.Policy()), method, details, formatDate(e.CreatedAt),
		})
	}

	payments := [][]string{paymentHeader}
	for _, p := range snap.Payments {
		payments = append(payments, []string{
			p.ID, p.FromID, p.ToID, formatAmount(p.Amount), p.Description, formatDate(p.CreatedAt),
		})
	}

	return map[string][][]string{
		MembersTab:  members,
		ExpensesTab: expenses,
		PaymentsTab: payments,
	}, nil
}

// Decode parses the rows of each tab. Columns are found by header name,
// ignoring case and order; rows with an empty ID are skipped. The result is
// checked with snapshot.Validate. Failures are apperr IMPORT_ERROR errors.
func Decode(memberRows, expenseRows, paymentRows [][]string) (models.Snapshot, error) {
	var (
		snap models.Snapshot
		err  error
	)
	if snap.Members, err = decodeMembers(memberRows); err != nil {
		return models.Snapshot{}, apperr.Import("invalid sheet rows", err)
	}
	if snap.Expenses, err = decodeExpenses(expenseRows); err != nil {
		return models.Snapshot{}, apperr.Import("invalid sheet rows", err)
	}
	if snap.Payments, err = decodePayments(paymentRows); err != nil {
		return models.Snapshot{}, apperr.Import("invalid sheet rows", err)
	}
	if err := snapshot.Validate(snap); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

// columns resolves header names to indexes and fails on missing required ones.
func columns(tab string, header []string, names []string, required ...string) (map[string]int, error) {
	cols := make(map[string]int, len(names))
	for _, name := range names {
		cols[name] = indexOf(header, name)
	}
	var missing []string
	for _, name := range required {
		if cols[name] == -1 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected %s header: missing %s; got headers=%v", tab, strings.Join(missing, ","), header)
	}
	return cols, nil
}

func decodeMembers(rows [][]string) ([]models.Member, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols, err := columns(MembersTab, rows[0], memberHeader, "ID", "Name")
	if err != nil {
		return nil, err
	}

	out := []models.Member{}
	for i, row := range rows[1:] {
		id := safeGet(row, cols["ID"])
		if id == "" {
			continue
		}
		m := models.Member{ID: id, Name: safeGet(row, cols["Name"])}
		if value := safeGet(row, cols["PayoutKey"]); value != "" {
			kindTag := safeGet(row, cols["PayoutKeyType"])
			kind, ok := models.ParsePayoutKind(kindTag)
			if !ok {
				return nil, fmt.Errorf("%s row %d: unknown payout key type %q", MembersTab, i+2, kindTag)
			}
			m.PayoutKey = &models.PayoutKey{Kind: kind, Value: value}
		}
		out = append(out, m)
	}
	return out, nil
}

func decodeExpenses(rows [][]string) ([]models.Expense, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols, err := columns(ExpensesTab, rows[0], expenseHeader, "ID", "Amount", "PayerID")
	if err != nil {
		return nil, err
	}

	out := []models.Expense{}
	for i, row := range rows[1:] {
		id := safeGet(row, cols["ID"])
		if id == "" {
			continue
		}
		line := i + 2

		amount, err := parseAmount(safeGet(row, cols["Amount"]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", ExpensesTab, line, err)
		}
		date, err := parseDate(safeGet(row, cols["Date"]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", ExpensesTab, line, err)
		}

		e := models.Expense{
			ID:          id,
			Description: safeGet(row, cols["Description"]),
			Amount:      amount,
			PayerID:     safeGet(row, cols["PayerID"]),
			CreatedAt:   date,
		}

		switch policy := models.SplitPolicy(strings.ToLower(safeGet(row, cols["SplitType"]))); policy {
		case models.PolicyEqual, "":
			e.Split = models.EqualSplit{}
		case models.PolicyCustom:
			shares := map[string]float64{}
			if details := safeGet(row, cols["SplitDetails"]); details != "" {
				if err := json.Unmarshal([]byte(details), &shares); err != nil {
					return nil, fmt.Errorf("%s row %d: invalid split details: %w", ExpensesTab, line, err)
				}
			}
			method := models.SplitMethod(strings.ToLower(safeGet(row, cols["SplitMethod"])))
			if method == "" {
				method = models.MethodAmounts
			}
			e.Split = models.CustomSplit{Method: method, Shares: shares}
		default:
			return nil, fmt.Errorf("%s row %d: unknown split type %q", ExpensesTab, line, policy)
		}
		out = append(out, e)
	}
	return out, nil
}

func decodePayments(rows [][]string) ([]models.Payment, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols, err := columns(PaymentsTab, rows[0], paymentHeader, "ID", "FromID", "ToID", "Amount")
	if err != nil {
		return nil, err
	}

	out := []models.Payment{}
	for i, row := range rows[1:] {
		id := safeGet(row, cols["ID"])
		if id == "" {
			continue
		}
		line := i + 2

		amount, err := parseAmount(safeGet(row, cols["Amount"]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", PaymentsTab, line, err)
		}
		date, err := parseDate(safeGet(row, cols["Date"]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", PaymentsTab, line, err)
		}
		out = append(out, models.Payment{
			ID:          id,
			FromID:      safeGet(row, cols["FromID"]),
			ToID:        safeGet(row, cols["ToID"]),
			Amount:      amount,
			Description: safeGet(row, cols["Description"]),
			CreatedAt:   date,
		})
	}
	return out, nil
}

// parseAmount accepts "12.50", "12,50", "1.234,56" and an optional "R$"
// prefix, as people type them into a sheet.
func parseAmount(s string) (float64, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, fmt.Errorf("missing amount")
	}
	// Normalize decimal comma
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	f, _ := d.Float64()
	return f, nil
}

// formatAmount writes the shortest decimal that reads back as the same
// float64.
func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return strings.TrimSpace(arr[idx])
}
