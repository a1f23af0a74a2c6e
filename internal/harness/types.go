package harness

// Trace event types.
const (
	EventLoad           = "load"
	EventLoadError      = "load_error"
	EventAllowedActions = "allowed_actions"
	EventCheck          = "check"
)

// TraceEvent records one step of a scenario run.
type TraceEvent struct {
	Type string `json:"type"`
	Seq  int64  `json:"seq"`

	// load
	ActionCount int `json:"action_count,omitempty"`
	RuleCount   int `json:"rule_count,omitempty"`

	// load_error
	Kind string `json:"kind,omitempty"`

	// allowed_actions and check
	Card    *Card    `json:"card,omitempty"`
	Action  string   `json:"action,omitempty"`
	Actions []string `json:"actions,omitempty"`
	Allowed bool     `json:"allowed,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every case matched its expectation.
	Pass bool `json:"pass"`

	// Trace holds the events in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds one message per failed expectation.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addEvent appends ev with the next seq.
func (r *Result) addEvent(ev TraceEvent) {
	ev.Seq = int64(len(r.Trace) + 1)
	r.Trace = append(r.Trace, ev)
}
