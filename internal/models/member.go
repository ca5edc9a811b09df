package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PayoutKind tags how a PayoutKey value should be interpreted.
type PayoutKind string

const (
	PayoutCPF    PayoutKind = "cpf"
	PayoutEmail  PayoutKind = "email"
	PayoutPhone  PayoutKind = "phone"
	PayoutRandom PayoutKind = "random"
)

// ParsePayoutKind maps a kind tag to a PayoutKind. Matching is case-insensitive
// and accepts the legacy tags "telefone" and "aleatoria" written by older
// snapshots.
func ParsePayoutKind(s string) (PayoutKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpf":
		return PayoutCPF, true
	case "email":
		return PayoutEmail, true
	case "phone", "telefone":
		return PayoutPhone, true
	case "random", "aleatoria":
		return PayoutRandom, true
	}
	return "", false
}

// PayoutKey is where a member wants to receive settlement transfers.
type PayoutKey struct {
	Kind  PayoutKind
	Value string
}

// Member is a person taking part in the group's expenses.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// Name is the display name, unique within the group ignoring case.
	Name string

	// PayoutKey is optional; nil when the member has not set one.
	PayoutKey *PayoutKey
}

type memberJSON struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PayoutKey     string `json:"payoutKey,omitempty"`
	PayoutKeyType string `json:"payoutKeyType,omitempty"`

	// Older snapshots carry the key under these names.
	PixKey     string `json:"pixKey,omitempty"`
	PixKeyType string `json:"pixKeyType,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (m Member) MarshalJSON() ([]byte, error) {
	out := memberJSON{ID: m.ID, Name: m.Name}
	if m.PayoutKey != nil {
		out.PayoutKey = m.PayoutKey.Value
		out.PayoutKeyType = string(m.PayoutKey.Kind)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Member) UnmarshalJSON(data []byte) error {
	var in memberJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	value, kindTag := in.PayoutKey, in.PayoutKeyType
	if value == "" {
		value, kindTag = in.PixKey, in.PixKeyType
	}

	*m = Member{ID: in.ID, Name: in.Name}
	if strings.TrimSpace(value) == "" {
		return nil
	}
	kind, ok := ParsePayoutKind(kindTag)
	if !ok {
		return fmt.Errorf("member %s: unknown payout key type %q", in.ID, kindTag)
	}
	m.PayoutKey = &PayoutKey{Kind: kind, Value: value}
	return nil
}
