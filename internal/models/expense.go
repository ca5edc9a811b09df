package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SplitPolicy names the rule that distributes an expense among members.
type SplitPolicy string

const (
	// PolicyEqual divides the amount evenly among all current members.
	PolicyEqual SplitPolicy = "equal"
	// PolicyCustom uses the per-participant shares stored on the expense.
	PolicyCustom SplitPolicy = "custom"
)

// SplitMethod records how custom shares were entered.
type SplitMethod string

const (
	MethodParts   SplitMethod = "parts"
	MethodAmounts SplitMethod = "amounts"
)

// Split is the closed set of split variants: EqualSplit or CustomSplit.
type Split interface {
	Policy() SplitPolicy
	isSplit()
}

// EqualSplit stores nothing: shares are derived from the live member set every
// time balances are computed, so adding or removing members changes them.
type EqualSplit struct{}

func (EqualSplit) Policy() SplitPolicy { return PolicyEqual }
func (EqualSplit) isSplit()            {}

// CustomSplit freezes each participant's owed share at creation time.
type CustomSplit struct {
	Method SplitMethod

	// Shares maps participant member ID to the amount owed. Members absent from
	// the map owe nothing for the expense.
	Shares map[string]float64
}

func (CustomSplit) Policy() SplitPolicy { return PolicyCustom }
func (CustomSplit) isSplit()            {}

// Expense is an amount one member paid that the group shares.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	Description string

	// Amount is always positive.
	Amount float64

	// PayerID is the member who paid. It may dangle after the member is
	// removed, in which case the expense no longer counts.
	PayerID string

	Split Split

	CreatedAt time.Time
}

// Policy returns the expense's split policy, treating a nil split as equal.
func (e Expense) Policy() SplitPolicy {
	if e.Split == nil {
		return PolicyEqual
	}
	return e.Split.Policy()
}

type expenseJSON struct {
	ID           string             `json:"id"`
	Description  string             `json:"description"`
	Amount       float64            `json:"amount"`
	PayerID      string             `json:"payerId"`
	SplitType    SplitPolicy        `json:"splitType"`
	SplitMethod  SplitMethod        `json:"splitMethod,omitempty"`
	SplitDetails map[string]float64 `json:"splitDetails,omitempty"`
	Date         time.Time          `json:"date"`
}

// MarshalJSON implements json.Marshaler.
func (e Expense) MarshalJSON() ([]byte, error) {
	out := expenseJSON{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		PayerID:     e.PayerID,
		SplitType:   e.Policy(),
		Date:        e.CreatedAt,
	}
	if custom, ok := e.Split.(CustomSplit); ok {
		out.SplitMethod = custom.Method
		out.SplitDetails = custom.Shares
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Expense) UnmarshalJSON(data []byte) error {
	var in expenseJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*e = Expense{
		ID:          in.ID,
		Description: in.Description,
		Amount:      in.Amount,
		PayerID:     in.PayerID,
		CreatedAt:   in.Date,
	}
	switch in.SplitType {
	case PolicyEqual:
		e.Split = EqualSplit{}
	case PolicyCustom:
		method := in.SplitMethod
		if method == "" {
			// Legacy snapshots only kept the resolved amounts.
			method = MethodAmounts
		}
		shares := in.SplitDetails
		if shares == nil {
			shares = map[string]float64{}
		}
		e.Split = CustomSplit{Method: method, Shares: shares}
	default:
		return fmt.Errorf("expense %s: unknown split type %q", in.ID, in.SplitType)
	}
	return nil
}
