package compiler

import (
	"context"
	"errors"
	"strings"

	"github.com/roach88/cardpolicy/internal/ir"
)

// Row maps header text to cell text for one data row.
type Row = map[string]string

// RowSource supplies the raw tabular input. Implementations live in
// internal/source; any origin that can produce headers and rows will do.
type RowSource interface {
	Read(ctx context.Context) (headers []string, rows []Row, err error)
}

// Options configures a table load.
type Options struct {
	Layout Layout
	Tokens Tokens

	// Strict fails the load when the compiled table violates its
	// invariants (see Validate). Without it, violations are left to the
	// evaluator's deny-wins handling.
	Strict bool
}

// DefaultOptions returns the canonical layout and tokens in strict mode.
func DefaultOptions() Options {
	return Options{
		Layout: DefaultLayout(),
		Tokens: DefaultTokens(),
		Strict: true,
	}
}

// Load reads rows from src and compiles them.
// Source failures are reported as SOURCE_UNAVAILABLE.
func Load(ctx context.Context, src RowSource, opts Options) (*ir.RuleTable, error) {
	headers, rows, err := src.Read(ctx)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, err
		}
		return nil, NewSourceError("reading rows", err)
	}
	return Compile(headers, rows, opts)
}

// Compile converts raw rows into a RuleTable.
//
// Rows with an empty action name are skipped. For each remaining row, card
// types whose marker is not the positive token are skipped entirely; every
// marked card type receives one decision per card status.
//
// Either a complete table or an error is returned, never both.
func Compile(headers []string, rows []Row, opts Options) (*ir.RuleTable, error) {
	if len(headers) == 0 {
		return nil, NewSourceError("no header row", nil)
	}
	cols, err := ResolveColumns(headers, opts.Layout)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, NewSourceError("no data rows", nil)
	}

	statuses := ir.AllCardStatuses()
	var (
		catalog []ir.ActionName
		rules   []ir.RuleDefinition
	)

	for i, row := range rows {
		rowNum := i + 1
		name := strings.TrimSpace(row[cols.Action])
		if name == "" {
			continue
		}
		action := ir.ActionName(name)
		catalog = append(catalog, action)

		// Decision cells are shared by every marked card type, so they are
		// classified once per row and only when some type is marked.
		var cells []Cell
		for _, t := range ir.AllCardTypes() {
			if !opts.Tokens.IsPositive(row[cols.CardTypeColumn(t)]) {
				continue
			}
			if cells == nil {
				cells, err = classifyRow(row, rowNum, cols, statuses, opts.Tokens)
				if err != nil {
					return nil, err
				}
			}
			for _, s := range statuses {
				rules = append(rules, cells[s].Expand(action, t, s)...)
			}
		}
	}

	if len(catalog) == 0 {
		return nil, NewSourceError("no rows with an action name", nil)
	}

	table := ir.NewRuleTableWithCatalog(catalog, rules)

	if opts.Strict {
		if violations := Validate(table); len(violations) > 0 {
			return nil, newViolationError(violations)
		}
	}

	return table, nil
}

func classifyRow(row Row, rowNum int, cols Columns, statuses []ir.CardStatus, tokens Tokens) ([]Cell, error) {
	cells := make([]Cell, len(statuses))
	for _, s := range statuses {
		column := cols.CardStatusColumn(s)
		cell, err := ClassifyCell(row[column], tokens)
		if err != nil {
			return nil, newCellError(rowNum, column, row[column])
		}
		cells[s] = cell
	}
	return cells, nil
}
