package ir

// Version constants for the rule model and engine.
const (
	// TableFormatVersion is the version of the rule table digest format.
	TableFormatVersion = "1"

	// EngineVersion is the cardpolicy engine version.
	EngineVersion = "0.1.0"
)
