package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/roach88/cardpolicy/internal/ir"
)

// LoaderFunc produces a fresh table for Reload.
type LoaderFunc func(ctx context.Context) (*ir.RuleTable, error)

// published is the unit swapped by a Holder. Readers see table, evaluator
// and resolver from the same load.
type published struct {
	generation uint64
	table      *ir.RuleTable
	eval       *Evaluator
	resolver   *Resolver
}

// Holder publishes the current table.
//
// Thread-safety model:
//   - Table, Evaluator, Resolver, Generation: lock-free, safe from any goroutine
//   - Reload: safe from any goroutine; concurrent reloads are serialized
type Holder struct {
	current atomic.Pointer[published]
	reload  sync.Mutex
	logger  *zap.Logger
}

// HolderOption configures a Holder.
type HolderOption func(*Holder)

// WithLogger sets the logger used for reload outcomes.
func WithLogger(logger *zap.Logger) HolderOption {
	return func(h *Holder) {
		h.logger = logger
	}
}

// NewHolder publishes table as generation 1.
func NewHolder(table *ir.RuleTable, opts ...HolderOption) (*Holder, error) {
	if table == nil {
		return nil, ErrNilTable
	}
	h := &Holder{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	h.publish(1, table)
	h.logger.Info("rule table published",
		zap.Uint64("generation", 1),
		zap.String("digest", table.Digest()),
		zap.Int("actions", table.ActionCount()),
		zap.Int("rules", table.Len()),
	)
	return h, nil
}

func (h *Holder) publish(generation uint64, table *ir.RuleTable) {
	eval := NewEvaluator(table)
	h.current.Store(&published{
		generation: generation,
		table:      table,
		eval:       eval,
		resolver:   NewResolver(eval),
	})
}

// View is one published table with its evaluator and resolver.
type View struct {
	Generation uint64
	Table      *ir.RuleTable
	Evaluator  *Evaluator
	Resolver   *Resolver
}

// Current returns the published table. All fields come from the same load,
// so a concurrent Reload never mixes generations.
func (h *Holder) Current() View {
	p := h.current.Load()
	return View{Generation: p.generation, Table: p.table, Evaluator: p.eval, Resolver: p.resolver}
}

// Table returns the published table.
func (h *Holder) Table() *ir.RuleTable {
	return h.current.Load().table
}

// Evaluator returns an evaluator over the published table.
func (h *Holder) Evaluator() *Evaluator {
	return h.current.Load().eval
}

// Resolver returns a resolver over the published table.
func (h *Holder) Resolver() *Resolver {
	return h.current.Load().resolver
}

// Generation returns the number of tables published so far.
func (h *Holder) Generation() uint64 {
	return h.current.Load().generation
}

// Reload runs loader and publishes its table. On any failure the previous
// table stays published and a *ReloadError is returned.
func (h *Holder) Reload(ctx context.Context, loader LoaderFunc) error {
	h.reload.Lock()
	defer h.reload.Unlock()

	prev := h.current.Load()

	table, err := loader(ctx)
	if err == nil && table == nil {
		err = ErrNilTable
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		h.logger.Warn("rule table reload failed",
			zap.Uint64("generation", prev.generation),
			zap.String("digest", prev.table.Digest()),
			zap.Error(err),
		)
		return &ReloadError{Generation: prev.generation, Digest: prev.table.Digest(), Err: err}
	}

	next := prev.generation + 1
	h.publish(next, table)
	h.logger.Info("rule table reloaded",
		zap.Uint64("generation", next),
		zap.String("digest", table.Digest()),
		zap.Bool("changed", table.Digest() != prev.table.Digest()),
		zap.Int("actions", table.ActionCount()),
		zap.Int("rules", table.Len()),
	)
	return nil
}
