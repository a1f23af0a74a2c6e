// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"strings"
)

// Cell texts used by the fixture table.
const (
	Yes       = "YES"
	No        = "NO"
	YesPin    = "YES - only if PIN is set"
	YesNoPin  = "YES - only if PIN is not set"
	headerRow = "ACTION"
)

// CardActionsHeaders returns the header row of the reference table.
func CardActionsHeaders() []string {
	return []string{
		headerRow,
		"PREPAID", "DEBIT", "CREDIT",
		"ORDERED", "INACTIVE", "ACTIVE", "RESTRICTED", "BLOCKED", "EXPIRED", "CLOSED",
	}
}

// cardActionsCells is the reference decision table, one line per action:
// name, three card-type markers, seven status decisions.
var cardActionsCells = [][]string{
	{"ACTION1", Yes, Yes, Yes, No, No, Yes, No, No, No, No},
	{"ACTION2", Yes, Yes, Yes, No, Yes, Yes, No, No, No, No},
	{"ACTION3", Yes, Yes, Yes, Yes, Yes, Yes, Yes, Yes, Yes, Yes},
	{"ACTION4", Yes, Yes, Yes, Yes, Yes, Yes, Yes, Yes, Yes, Yes},
	{"ACTION5", No, No, Yes, Yes, Yes, Yes, Yes, Yes, Yes, No},
	{"ACTION6", Yes, Yes, Yes, YesPin, YesPin, YesPin, No, YesPin, No, No},
	{"ACTION7", Yes, Yes, Yes, YesNoPin, YesNoPin, Yes, No, YesPin, No, No},
	{"ACTION8", Yes, Yes, Yes, Yes, Yes, Yes, No, Yes, No, No},
	{"ACTION9", Yes, Yes, Yes, Yes, Yes, Yes, Yes, Yes, Yes, Yes},
	{"ACTION10", Yes, Yes, Yes, Yes, Yes, Yes, No, No, No, No},
	{"ACTION11", Yes, Yes, Yes, No, Yes, Yes, No, No, No, No},
	{"ACTION12", Yes, Yes, Yes, Yes, Yes, Yes, No, No, No, No},
	{"ACTION13", Yes, Yes, Yes, Yes, Yes, Yes, No, No, No, No},
}

// CardActionsRows returns the reference table as header-keyed rows.
// Each call returns fresh maps.
func CardActionsRows() []map[string]string {
	headers := CardActionsHeaders()
	rows := make([]map[string]string, len(cardActionsCells))
	for i, cells := range cardActionsCells {
		rows[i] = RowOf(headers, cells...)
	}
	return rows
}

// RowOf zips headers and cells into a row. Missing cells are left out of
// the map, as a short line in a delimited file would be.
func RowOf(headers []string, cells ...string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(cells) {
			row[h] = cells[i]
		}
	}
	return row
}

// CardActionsCSV renders the reference table as delimited text.
func CardActionsCSV(delimiter string) string {
	var b strings.Builder
	b.WriteString(strings.Join(CardActionsHeaders(), delimiter))
	b.WriteString("\n")
	for _, cells := range cardActionsCells {
		b.WriteString(strings.Join(cells, delimiter))
		b.WriteString("\n")
	}
	return b.String()
}

// CardActionsCUE renders the reference table as a CUE document with
// headers and rows fields.
func CardActionsCUE() string {
	headers := CardActionsHeaders()
	var b strings.Builder
	b.WriteString("headers: [")
	for i, h := range headers {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(`"` + h + `"`)
	}
	b.WriteString("]\nrows: [\n")
	for _, cells := range cardActionsCells {
		b.WriteString("\t{")
		for i, h := range headers {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(`"` + h + `": "` + cells[i] + `"`)
		}
		b.WriteString("},\n")
	}
	b.WriteString("]\n")
	return b.String()
}
