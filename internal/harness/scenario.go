package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cardpolicy/internal/compiler"
	"github.com/roach88/cardpolicy/internal/ir"
)

// Expectation values for a check case.
const (
	ExpectAllowed = "allowed"
	ExpectDenied  = "denied"
)

// Scenario is a set of cases run against one table.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Table is the table file, relative to the scenario file.
	Table string `yaml:"table"`

	// Strict overrides the load's strict mode when set.
	Strict *bool `yaml:"strict,omitempty"`

	// ExpectLoadError is the load error kind the table must fail with.
	// Scenarios expecting a load error have no cases.
	ExpectLoadError string `yaml:"expect_load_error,omitempty"`

	// Cases are evaluated in order.
	Cases []Case `yaml:"cases"`
}

// Card is the card state a case asks about. Type and status use the
// enum names (e.g. CREDIT, BLOCKED), case-insensitive.
type Card struct {
	Type   string `yaml:"type" json:"type"`
	Status string `yaml:"status" json:"status"`
	PinSet bool   `yaml:"pin_set" json:"pin_set"`
}

// parse returns the card's enum values.
func (c Card) parse() (ir.CardType, ir.CardStatus, error) {
	t, err := ir.ParseCardType(c.Type)
	if err != nil {
		return 0, 0, err
	}
	s, err := ir.ParseCardStatus(c.Status)
	if err != nil {
		return 0, 0, err
	}
	return t, s, nil
}

// Case is one question with its expected answer.
//
// With Action set, the case checks one decision and Expect must be
// "allowed" or "denied". Without it, the case lists allowed actions and
// ExpectAllowed is the exact ordered answer (use [] for none).
type Case struct {
	Action        string   `yaml:"action,omitempty"`
	Card          Card     `yaml:"card"`
	Expect        string   `yaml:"expect,omitempty"`
	ExpectAllowed []string `yaml:"expect_allowed,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// The table path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Table != "" && !filepath.IsAbs(scenario.Table) {
		scenario.Table = filepath.Join(filepath.Dir(path), scenario.Table)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Table == "" {
		return fmt.Errorf("table is required")
	}

	if _, err := os.Stat(s.Table); os.IsNotExist(err) {
		return fmt.Errorf("table file not found: %s", s.Table)
	}

	if s.ExpectLoadError != "" {
		switch compiler.LoadErrorKind(s.ExpectLoadError) {
		case compiler.KindSourceUnavailable, compiler.KindStructural, compiler.KindUnrecognizedCell:
		default:
			return fmt.Errorf("unknown expect_load_error %q", s.ExpectLoadError)
		}
		if len(s.Cases) > 0 {
			return fmt.Errorf("cases are not allowed with expect_load_error")
		}
		return nil
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for i, c := range s.Cases {
		if err := validateCase(i, &c); err != nil {
			return err
		}
	}

	return nil
}

func validateCase(index int, c *Case) error {
	if _, _, err := c.Card.parse(); err != nil {
		return fmt.Errorf("cases[%d].card: %w", index, err)
	}

	if c.Action == "" {
		if c.Expect != "" {
			return fmt.Errorf("cases[%d]: expect requires action", index)
		}
		if c.ExpectAllowed == nil {
			return fmt.Errorf("cases[%d]: expect_allowed is required without action (use [] for none)", index)
		}
		return nil
	}

	if c.ExpectAllowed != nil {
		return fmt.Errorf("cases[%d]: expect_allowed is not allowed with action", index)
	}
	switch c.Expect {
	case ExpectAllowed, ExpectDenied:
	default:
		return fmt.Errorf("cases[%d]: expect must be %q or %q, got %q", index, ExpectAllowed, ExpectDenied, c.Expect)
	}
	return nil
}
