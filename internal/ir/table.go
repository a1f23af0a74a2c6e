package ir

import "slices"

// RuleTable is the immutable collection of rule definitions plus the
// de-duplicated action catalog.
//
// INVARIANTS:
//   - rules and catalog never change after NewRuleTable returns
//   - catalog order is first-seen order of the input rules
//   - catalog holds one entry per ActionName.Key()
//
// Accessors return copies so callers cannot break these invariants.
type RuleTable struct {
	rules   []RuleDefinition
	catalog []ActionName
	index   map[RuleKey][]RuleDefinition
	digest  string
}

// NewRuleTable builds a RuleTable from rules. The input slice is copied.
//
// Catalog entries keep the spelling of the first rule that introduced the
// action; later spellings differing only in case fold into it.
func NewRuleTable(rules []RuleDefinition) *RuleTable {
	t := &RuleTable{
		rules: slices.Clone(rules),
		index: make(map[RuleKey][]RuleDefinition),
	}

	seen := make(map[string]bool)
	for _, r := range t.rules {
		key := r.Key()
		t.index[key] = append(t.index[key], r)

		if !seen[key.Action] {
			seen[key.Action] = true
			t.catalog = append(t.catalog, r.Action)
		}
	}

	t.digest = MustTableDigest(t.rules)
	return t
}

// NewRuleTableWithCatalog builds a RuleTable whose catalog also lists
// actions that produced no rules (e.g. rows whose every card type was
// switched off). Catalog order is the given order followed by any action
// first seen in rules.
func NewRuleTableWithCatalog(catalog []ActionName, rules []RuleDefinition) *RuleTable {
	t := NewRuleTable(rules)

	seen := make(map[string]bool)
	merged := make([]ActionName, 0, len(catalog)+len(t.catalog))
	for _, a := range catalog {
		if k := a.Key(); !seen[k] {
			seen[k] = true
			merged = append(merged, a)
		}
	}
	for _, a := range t.catalog {
		if k := a.Key(); !seen[k] {
			seen[k] = true
			merged = append(merged, a)
		}
	}
	t.catalog = merged
	return t
}

// Rules returns a copy of all rule definitions in load order.
func (t *RuleTable) Rules() []RuleDefinition {
	return slices.Clone(t.rules)
}

// Actions returns a copy of the action catalog in first-seen order.
func (t *RuleTable) Actions() []ActionName {
	return slices.Clone(t.catalog)
}

// Len returns the number of rule definitions.
func (t *RuleTable) Len() int {
	return len(t.rules)
}

// ActionCount returns the number of catalog entries.
func (t *RuleTable) ActionCount() int {
	return len(t.catalog)
}

// HasAction reports whether the catalog contains action.
func (t *RuleTable) HasAction(action ActionName) bool {
	k := action.Key()
	for _, a := range t.catalog {
		if a.Key() == k {
			return true
		}
	}
	return false
}

// Lookup returns the definitions for one decision cell. The returned slice
// is shared with the table and must not be modified.
func (t *RuleTable) Lookup(key RuleKey) []RuleDefinition {
	return t.index[key]
}

// Digest returns the content digest of the table's rules.
// Tables with equal rule sequences have equal digests.
func (t *RuleTable) Digest() string {
	return t.digest
}
