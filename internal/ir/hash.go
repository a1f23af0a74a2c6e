package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content digests.
// Version suffix enables future algorithm migration.
const (
	DomainRuleTable = "cardpolicy/ruletable/v1"
	DomainRawRows   = "cardpolicy/rawrows/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TableDigest computes the content digest of a rule sequence.
// Rule order is significant: it determines catalog order.
func TableDigest(rules []RuleDefinition) (string, error) {
	items := make([]any, len(rules))
	for i, r := range rules {
		items[i] = map[string]any{
			"action":           r.Action,
			"card_type":        r.CardType,
			"card_status":      r.CardStatus,
			"is_allowed":       r.IsAllowed,
			"requires_pin_set": r.RequiresPinSet,
		}
	}

	canonical, err := MarshalCanonical(items)
	if err != nil {
		return "", fmt.Errorf("TableDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRuleTable, canonical), nil
}

// MustTableDigest is like TableDigest but panics on error.
// Rule fields are always canonical-safe, so this does not panic in practice.
func MustTableDigest(rules []RuleDefinition) string {
	d, err := TableDigest(rules)
	if err != nil {
		panic(err)
	}
	return d
}

// RawRowsDigest computes the digest of unparsed tabular input, so identical
// imports can be recognised before they are compiled.
func RawRowsDigest(headers []string, rows []map[string]string) (string, error) {
	items := make([]any, len(rows))
	for i, row := range rows {
		items[i] = row
	}
	canonical, err := MarshalCanonical(map[string]any{
		"headers": headers,
		"rows":    items,
	})
	if err != nil {
		return "", fmt.Errorf("RawRowsDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRawRows, canonical), nil
}
