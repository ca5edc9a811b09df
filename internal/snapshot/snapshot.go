// Package snapshot encodes the ledger's persisted form and fingerprints it.
//
// The JSON layout is {"members": [...], "expenses": [...], "payments": [...]}.
// Decode rejects input without members or expenses, and input that breaks an
// entity invariant (see Validate). A missing payments key is read as an empty
// list so older snapshots still load.
package snapshot

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/mmynk/partio/internal/apperr"
	"github.com/mmynk/partio/internal/models"
)

type envelope struct {
	Members  json.RawMessage `json:"members"`
	Expenses json.RawMessage `json:"expenses"`
	Payments json.RawMessage `json:"payments"`
}

// Decode parses and validates a snapshot. Every failure is an apperr
// IMPORT_ERROR.
func Decode(data []byte) (models.Snapshot, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return models.Snapshot{}, apperr.Import("snapshot is not valid JSON", err)
	}
	if isAbsent(env.Members) {
		return models.Snapshot{}, apperr.Import("snapshot is missing members", nil)
	}
	if isAbsent(env.Expenses) {
		return models.Snapshot{}, apperr.Import("snapshot is missing expenses", nil)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(env.Members, &snap.Members); err != nil {
		return models.Snapshot{}, apperr.Import("failed to decode members", err)
	}
	if err := json.Unmarshal(env.Expenses, &snap.Expenses); err != nil {
		return models.Snapshot{}, apperr.Import("failed to decode expenses", err)
	}
	if !isAbsent(env.Payments) {
		if err := json.Unmarshal(env.Payments, &snap.Payments); err != nil {
			return models.Snapshot{}, apperr.Import("failed to decode payments", err)
		}
	}
	snap = normalize(snap)
	if err := Validate(snap); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

// isAbsent treats a missing key and an explicit null the same.
func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// Encode returns the canonical JSON form of snap. Nil collections are written
// as empty arrays.
func Encode(snap models.Snapshot) ([]byte, error) {
	data, err := json.Marshal(normalize(snap))
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Fingerprint hashes the canonical encoding of snap. Two snapshots with the
// same content have the same fingerprint; custom split shares are maps, which
// encoding/json writes with sorted keys.
func Fingerprint(snap models.Snapshot) (string, error) {
	data, err := Encode(snap)
	if err != nil {
		return "", err
	}
	return FingerprintBytes(data), nil
}

// FingerprintBytes hashes an already encoded snapshot.
func FingerprintBytes(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

func normalize(snap models.Snapshot) models.Snapshot {
	if snap.Members == nil {
		snap.Members = []models.Member{}
	}
	if snap.Expenses == nil {
		snap.Expenses = []models.Expense{}
	}
	if snap.Payments == nil {
		snap.Payments = []models.Payment{}
	}
	return snap
}
