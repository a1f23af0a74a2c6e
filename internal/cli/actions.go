package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ActionsResult lists the table's action catalog.
type ActionsResult struct {
	Origin  string   `json:"origin"`
	Digest  string   `json:"digest"`
	Actions []string `json:"actions"`
}

// NewActionsCommand creates the actions command.
func NewActionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "actions",
		Short:         "List the actions named by the table",
		Long:          "List the table's actions in the order their rows appear.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActions(rootOpts, cmd)
		},
	}
}

func runActions(opts *RootOptions, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd)
	if err != nil {
		return err
	}

	loaded, err := s.loadTable(commandContext(cmd))
	if err != nil {
		return err
	}

	catalog := loaded.Table.Actions()
	result := ActionsResult{
		Origin:  loaded.Origin,
		Digest:  loaded.Table.Digest(),
		Actions: make([]string, len(catalog)),
	}
	for i, a := range catalog {
		result.Actions[i] = string(a)
	}

	if s.out.JSON() {
		return s.out.Success(result)
	}

	fmt.Fprintf(s.out.Writer, "%d action(s) in %s\n", len(result.Actions), result.Origin)
	for _, a := range result.Actions {
		fmt.Fprintf(s.out.Writer, "  %s\n", a)
	}
	return nil
}
