package ir

import (
	"fmt"
	"strings"
)

// CardType is the closed set of card products.
type CardType int

const (
	Prepaid CardType = iota
	Debit
	Credit
)

var cardTypeNames = [...]string{"PREPAID", "DEBIT", "CREDIT"}

// AllCardTypes returns every card type in enum order.
func AllCardTypes() []CardType {
	return []CardType{Prepaid, Debit, Credit}
}

// Valid reports whether t is a member of the enumeration.
func (t CardType) Valid() bool {
	return t >= Prepaid && t <= Credit
}

func (t CardType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("CardType(%d)", int(t))
	}
	return cardTypeNames[t]
}

// ParseCardType parses a card type name. Matching ignores case and
// surrounding whitespace.
func ParseCardType(s string) (CardType, error) {
	name := strings.TrimSpace(s)
	for i, n := range cardTypeNames {
		if strings.EqualFold(n, name) {
			return CardType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown card type %q, must be one of: %s", s, strings.Join(cardTypeNames[:], ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (t CardType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid card type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *CardType) UnmarshalText(b []byte) error {
	v, err := ParseCardType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// CardStatus is the closed set of card lifecycle states.
type CardStatus int

const (
	Ordered CardStatus = iota
	Inactive
	Active
	Restricted
	Blocked
	Expired
	Closed
)

var cardStatusNames = [...]string{"ORDERED", "INACTIVE", "ACTIVE", "RESTRICTED", "BLOCKED", "EXPIRED", "CLOSED"}

// AllCardStatuses returns every card status in enum order.
func AllCardStatuses() []CardStatus {
	return []CardStatus{Ordered, Inactive, Active, Restricted, Blocked, Expired, Closed}
}

// Valid reports whether s is a member of the enumeration.
func (s CardStatus) Valid() bool {
	return s >= Ordered && s <= Closed
}

func (s CardStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("CardStatus(%d)", int(s))
	}
	return cardStatusNames[s]
}

// ParseCardStatus parses a card status name. Matching ignores case and
// surrounding whitespace.
func ParseCardStatus(s string) (CardStatus, error) {
	name := strings.TrimSpace(s)
	for i, n := range cardStatusNames {
		if strings.EqualFold(n, name) {
			return CardStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown card status %q, must be one of: %s", s, strings.Join(cardStatusNames[:], ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (s CardStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid card status %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *CardStatus) UnmarshalText(b []byte) error {
	v, err := ParseCardStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
