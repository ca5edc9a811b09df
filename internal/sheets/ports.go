// Package sheets maps the ledger to and from spreadsheet tabs, one tab per
// collection, so a group can keep a shared sheet in step with the service.
package sheets

import "context"

// Tab names used in the spreadsheet.
const (
	MembersTab  = "Members"
	ExpensesTab = "Expenses"
	PaymentsTab = "Payments"
)

// Ports for outbound adapters.
type (
	// RowReader returns every row of a tab, header first. A tab that does not
	// exist or is empty yields no rows and no error.
	RowReader interface {
		ReadRows(ctx context.Context, tab string) ([][]string, error)
	}

	// RowWriter replaces the full content of a tab with rows.
	RowWriter interface {
		WriteRows(ctx context.Context, tab string, rows [][]string) error
	}

	// Spreadsheet reads and writes tabs.
	Spreadsheet interface {
		RowReader
		RowWriter
	}
)
