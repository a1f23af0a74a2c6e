package source

import (
	"context"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/cardpolicy/internal/compiler"
)

// CUE reads a table written as a CUE document:
//
//	headers: ["ACTION", "PREPAID", ...]
//	rows: [
//		{ACTION: "ACTION1", PREPAID: "YES", ...},
//	]
//
// Row fields not listed in headers are ignored by the compiler. Every value
// must be a concrete string.
type CUE struct {
	// Path is read when Source is nil.
	Path string

	// Source is the document text.
	Source []byte
}

// Read evaluates the document and extracts headers and rows.
func (c CUE) Read(ctx context.Context) ([]string, []compiler.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	src := c.Source
	if src == nil {
		data, err := os.ReadFile(c.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("read table: %w", err)
		}
		src = data
	}

	cctx := cuecontext.New()
	v := cctx.CompileBytes(src, cue.Filename(c.filename()))
	if err := v.Err(); err != nil {
		return nil, nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, nil, formatCUEError(err)
	}

	var headers []string
	headersVal := v.LookupPath(cue.ParsePath("headers"))
	if !headersVal.Exists() {
		return nil, nil, fmt.Errorf("%s: missing headers field", c.filename())
	}
	if err := headersVal.Decode(&headers); err != nil {
		return nil, nil, formatCUEError(err)
	}

	rowsVal := v.LookupPath(cue.ParsePath("rows"))
	if !rowsVal.Exists() {
		return headers, nil, nil
	}
	iter, err := rowsVal.List()
	if err != nil {
		return nil, nil, formatCUEError(err)
	}

	var rows []compiler.Row
	for iter.Next() {
		row := compiler.Row{}
		if err := iter.Value().Decode(&row); err != nil {
			return nil, nil, formatCUEError(err)
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

func (c CUE) filename() string {
	if c.Path == "" {
		return "table.cue"
	}
	return c.Path
}

// formatCUEError reports the first CUE error with its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return fmt.Errorf("%s: %w", positions[0], first)
	}
	return first
}
