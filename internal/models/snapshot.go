package models

// Snapshot is the full ledger state: the unit of persistence, export and
// import.
type Snapshot struct {
	Members  []Member  `json:"members"`
	Expenses []Expense `json:"expenses"`
	Payments []Payment `json:"payments"`
}
