package testutil

// Allowed-action sets of the reference table for well-known cards.
var (
	PrepaidClosedPin = []string{"ACTION3", "ACTION4", "ACTION9"}

	CreditBlockedPin   = []string{"ACTION3", "ACTION4", "ACTION5", "ACTION6", "ACTION7", "ACTION8", "ACTION9"}
	CreditBlockedNoPin = []string{"ACTION3", "ACTION4", "ACTION5", "ACTION8", "ACTION9"}

	DebitActivePin = []string{
		"ACTION1", "ACTION2", "ACTION3", "ACTION4", "ACTION6", "ACTION7",
		"ACTION8", "ACTION9", "ACTION10", "ACTION11", "ACTION12", "ACTION13",
	}
)
