package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/cardpolicy/internal/engine"
	"github.com/roach88/cardpolicy/internal/ir"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	ReloadInterval time.Duration
}

// ServeRequest is one line of serve input.
//
// With Reload set the table is reloaded. With Action set the request is a
// check. Otherwise it asks for the allowed actions of the card.
type ServeRequest struct {
	Action string `json:"action,omitempty"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
	PinSet bool   `json:"pin_set,omitempty"`
	Reload bool   `json:"reload,omitempty"`
}

type allowedResponse struct {
	Generation uint64   `json:"generation"`
	Actions    []string `json:"actions"`
}

type checkResponse struct {
	Generation uint64        `json:"generation"`
	Action     string        `json:"action"`
	Allowed    bool          `json:"allowed"`
	Reason     engine.Reason `json:"reason"`
}

type reloadResponse struct {
	Generation uint64 `json:"generation"`
	Digest     string `json:"digest"`
	Reloaded   bool   `json:"reloaded"`
}

type errorResponse struct {
	Generation uint64 `json:"generation"`
	Error      string `json:"error"`
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer card queries from stdin",
		Long: `Load the decision table once and answer newline-delimited JSON
queries from stdin, one JSON answer per line on stdout.

Requests:
  {"type":"DEBIT","status":"ACTIVE","pin_set":true}
  {"action":"ACTION6","type":"DEBIT","status":"ACTIVE","pin_set":true}
  {"reload":true}

The table is reloaded on SIGHUP, on a reload request, and every
--reload-interval when set. A failed reload keeps the current table.

Example:
  cardpolicy serve --db ./policy.db --reload-interval 1m`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.ReloadInterval, "reload-interval", 0, "reload the table periodically (0 disables)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()

	if opts.ReloadInterval < 0 {
		return s.out.Fail(ExitCommandError, ErrCodeGeneric, "--reload-interval must not be negative", nil)
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loaded, err := s.loadTable(ctx)
	if err != nil {
		return err
	}

	holder, err := engine.NewHolder(loaded.Table, engine.WithLogger(s.logger))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to publish table", err)
	}

	loader := func(ctx context.Context) (*ir.RuleTable, error) {
		next, err := loadTable(ctx, s.cfg, s.cfg.CompilerOptions(), s.logger)
		if err != nil {
			return nil, err
		}
		return next.Table, nil
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup) // Prevent signal handler leak

	var tick <-chan time.Time
	if opts.ReloadInterval > 0 {
		ticker := time.NewTicker(opts.ReloadInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	lines, scanErr := readLines(ctx, cmd.InOrStdin())
	enc := json.NewEncoder(cmd.OutOrStdout())

	s.logger.Info("serving", zap.String("origin", loaded.Origin), zap.Duration("reload_interval", opts.ReloadInterval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("serve stopped", zap.Uint64("generation", holder.Generation()))
			return nil

		case <-hup:
			_ = holder.Reload(ctx, loader) // outcome is logged by the holder

		case <-tick:
			_ = holder.Reload(ctx, loader)

		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return WrapExitError(ExitCommandError, "reading requests", err)
				}
				s.logger.Info("input closed", zap.Uint64("generation", holder.Generation()))
				return nil
			}
			if len(line) == 0 {
				continue
			}
			if err := enc.Encode(answer(ctx, holder, loader, line)); err != nil {
				return WrapExitError(ExitCommandError, "writing response", err)
			}
		}
	}
}

// readLines scans r in the background. The error channel receives the
// scan result before lines is closed.
func readLines(ctx context.Context, r io.Reader) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}

// answer handles one request line against the published table.
func answer(ctx context.Context, holder *engine.Holder, loader engine.LoaderFunc, line []byte) any {
	var req ServeRequest
	if err := json.Unmarshal(line, &req); err != nil {
		return errorResponse{Generation: holder.Generation(), Error: fmt.Sprintf("invalid request: %v", err)}
	}

	if req.Reload {
		if err := holder.Reload(ctx, loader); err != nil {
			var re *engine.ReloadError
			if errors.As(err, &re) {
				err = re.Err
			}
			return errorResponse{Generation: holder.Generation(), Error: fmt.Sprintf("reload failed: %v", err)}
		}
		view := holder.Current()
		return reloadResponse{Generation: view.Generation, Digest: view.Table.Digest(), Reloaded: true}
	}

	card := cardFlags{Type: req.Type, Status: req.Status, PinSet: req.PinSet}
	cardType, cardStatus, err := card.parse()
	if err != nil {
		return errorResponse{Generation: holder.Generation(), Error: err.Error()}
	}

	view := holder.Current()
	if req.Action == "" {
		actions := view.Resolver.GetAllowedActions(cardType, cardStatus, req.PinSet)
		names := make([]string, len(actions))
		for i, a := range actions {
			names[i] = string(a)
		}
		return allowedResponse{Generation: view.Generation, Actions: names}
	}

	d := view.Evaluator.Explain(ir.ActionName(req.Action), cardType, cardStatus, req.PinSet)
	return checkResponse{Generation: view.Generation, Action: req.Action, Allowed: d.Allowed, Reason: d.Reason}
}
