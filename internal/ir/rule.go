package ir

import "fmt"

// PinRequirement conditions a rule on whether the card has a PIN.
// The zero value, PinAny, means the rule applies regardless of PIN state.
type PinRequirement int

const (
	PinAny    PinRequirement = iota // permission independent of PIN
	PinSet                          // applies only when a PIN is set
	PinNotSet                       // applies only when no PIN is set
)

var pinRequirementNames = [...]string{"any", "set", "not_set"}

func (p PinRequirement) String() string {
	if p < PinAny || p > PinNotSet {
		return fmt.Sprintf("PinRequirement(%d)", int(p))
	}
	return pinRequirementNames[p]
}

// Matches reports whether a rule with this requirement applies to a card
// whose PIN state is isPinSet.
func (p PinRequirement) Matches(isPinSet bool) bool {
	switch p {
	case PinAny:
		return true
	case PinSet:
		return isPinSet
	case PinNotSet:
		return !isPinSet
	default:
		return false
	}
}

// Complement returns the opposite PIN-specific requirement.
// PinAny has no complement and is returned unchanged.
func (p PinRequirement) Complement() PinRequirement {
	switch p {
	case PinSet:
		return PinNotSet
	case PinNotSet:
		return PinSet
	default:
		return p
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p PinRequirement) MarshalText() ([]byte, error) {
	if p < PinAny || p > PinNotSet {
		return nil, fmt.Errorf("invalid pin requirement %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PinRequirement) UnmarshalText(b []byte) error {
	for i, n := range pinRequirementNames {
		if n == string(b) {
			*p = PinRequirement(i)
			return nil
		}
	}
	return fmt.Errorf("unknown pin requirement %q", string(b))
}

// RuleDefinition is one resolved decision-table cell.
type RuleDefinition struct {
	Action         ActionName     `json:"action"`
	CardType       CardType       `json:"card_type"`
	CardStatus     CardStatus     `json:"card_status"`
	IsAllowed      bool           `json:"is_allowed"`
	RequiresPinSet PinRequirement `json:"requires_pin_set"`
}

// String renders the rule for diagnostics.
func (r RuleDefinition) String() string {
	verdict := "deny"
	if r.IsAllowed {
		verdict = "allow"
	}
	return fmt.Sprintf("%s %s/%s pin=%s -> %s", r.Action, r.CardType, r.CardStatus, r.RequiresPinSet, verdict)
}

// RuleKey identifies the decision cell a rule belongs to.
type RuleKey struct {
	Action     string // ActionName.Key()
	CardType   CardType
	CardStatus CardStatus
}

// Key returns the decision cell key for r.
func (r RuleDefinition) Key() RuleKey {
	return RuleKey{Action: r.Action.Key(), CardType: r.CardType, CardStatus: r.CardStatus}
}
