// Command cardpolicy answers which cardholder actions a card may perform,
// according to a decision table.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/cardpolicy/internal/cli"
)

func main() {
	err := cli.NewRootCommand().ExecuteContext(context.Background())

	// ExitErrors were already reported by the command itself.
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
