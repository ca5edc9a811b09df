package calculator

import (
	"math"
	"strconv"

	"github.com/mmynk/partio/internal/apperr"
)

// Tolerance absorbs floating point drift in every equality and near-zero
// comparison, in currency units.
const Tolerance = 0.01

// EqualShares splits amount evenly among memberIDs. The caller passes the
// current member set; equal splits are never frozen.
func EqualShares(amount float64, memberIDs []string) (map[string]float64, error) {
	if len(memberIDs) == 0 {
		return nil, apperr.InvalidInput("cannot split equally among zero members")
	}
	perPerson := amount / float64(len(memberIDs))
	shares := make(map[string]float64, len(memberIDs))
	for _, id := range memberIDs {
		shares[id] = perPerson
	}
	return shares, nil
}

// SharesFromParts computes share(i) = amount × parts(i) / Σparts.
// Participants with zero parts stay in the result with a zero share.
func SharesFromParts(amount float64, parts map[string]int) (map[string]float64, error) {
	if len(parts) == 0 {
		return nil, apperr.InvalidInput("select at least one participant")
	}
	total := 0
	for id, p := range parts {
		if p < 0 {
			return nil, apperr.InvalidInputWithMetadata(
				map[string]string{"participant": id},
				"parts must not be negative, got %d", p,
			)
		}
		total += p
	}
	if total <= 0 {
		return nil, apperr.InvalidInput("sum of parts must exceed zero")
	}

	valuePerPart := amount / float64(total)
	shares := make(map[string]float64, len(parts))
	for id, p := range parts {
		shares[id] = float64(p) * valuePerPart
	}
	return shares, nil
}

// SharesFromAmounts validates explicit per-participant amounts against the
// expense total. The amounts are returned verbatim.
func SharesFromAmounts(amount float64, amounts map[string]float64) (map[string]float64, error) {
	if len(amounts) == 0 {
		return nil, apperr.InvalidInput("select at least one participant")
	}
	var sum float64
	for id, v := range amounts {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperr.InvalidInputWithMetadata(
				map[string]string{"participant": id},
				"share must be a non-negative number, got %v", v,
			)
		}
		sum += v
	}
	if math.Abs(sum-amount) > Tolerance {
		return nil, apperr.InvalidInputWithMetadata(
			map[string]string{"sum": formatAmount(sum), "amount": formatAmount(amount)},
			"sum of shares (%.2f) must equal the expense amount (%.2f)", sum, amount,
		)
	}

	shares := make(map[string]float64, len(amounts))
	for id, v := range amounts {
		shares[id] = v
	}
	return shares, nil
}

// ValidateAmount rejects non-positive and non-finite amounts.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return apperr.InvalidInput("amount must be a finite number")
	}
	if amount <= 0 {
		return apperr.InvalidInput("amount must be greater than zero, got %.2f", amount)
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
