package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/cardpolicy/internal/engine"
	"github.com/roach88/cardpolicy/internal/ir"
)

// Matrix cell symbols.
const (
	symbolAllowed   = "Y"
	symbolDenied    = "N"
	symbolPinSet    = "PIN"
	symbolPinNotSet = "NOPIN"
)

// NewMatrixCommand creates the matrix command.
func NewMatrixCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "matrix <action>",
		Short: "Show an action's decisions for every card state",
		Long: `Show one action's decision for every card type and status.

Cells read Y (allowed), N (denied), PIN (only with a PIN set) or
NOPIN (only without a PIN).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatrix(rootOpts, args[0], cmd)
		},
	}
}

func runMatrix(opts *RootOptions, action string, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd)
	if err != nil {
		return err
	}

	loaded, err := s.loadTable(commandContext(cmd))
	if err != nil {
		return err
	}

	m := engine.NewEvaluator(loaded.Table).Matrix(ir.ActionName(action))
	if s.out.JSON() {
		return s.out.Success(m)
	}
	return writeMatrixText(s.out.Writer, m)
}

// writeMatrixText renders m as a status by type grid.
func writeMatrixText(w io.Writer, m engine.Matrix) error {
	fmt.Fprintf(w, "%s\n", m.Action)
	if !m.Known {
		fmt.Fprintln(w, "not in table, denied for every card")
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "STATUS")
	for _, t := range ir.AllCardTypes() {
		fmt.Fprintf(tw, "\t%s", t)
	}
	fmt.Fprintln(tw)

	for _, st := range ir.AllCardStatuses() {
		fmt.Fprint(tw, st)
		for _, t := range ir.AllCardTypes() {
			fmt.Fprintf(tw, "\t%s", matrixSymbol(m.Cell(t, st)))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func matrixSymbol(c engine.MatrixCell) string {
	switch {
	case c.PinDependent() && c.WithPin:
		return symbolPinSet
	case c.PinDependent():
		return symbolPinNotSet
	case c.WithPin:
		return symbolAllowed
	default:
		return symbolDenied
	}
}
