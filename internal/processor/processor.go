// Package processor runs components that annotate packs in place.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/annopack/pkg/pack"
)

// Processor annotates or rewrites one pack.
type Processor interface {
	// Name identifies the processor. It is stamped as the component of every
	// entry the processor adds.
	Name() string
	Process(ctx context.Context, p *pack.Pack) error
}

// ErrNoProcessor is returned by NewPipeline for a nil processor.
var ErrNoProcessor = errors.New("nil processor")

// Pipeline runs processors in order over each pack.
type Pipeline struct {
	processors []Processor
	logger     *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(pl *Pipeline) {
		if logger != nil {
			pl.logger = logger
		}
	}
}

// NewPipeline builds a pipeline over processors, which run in the given
// order.
func NewPipeline(processors []Processor, opts ...PipelineOption) (*Pipeline, error) {
	for i, proc := range processors {
		if proc == nil {
			return nil, fmt.Errorf("%w at position %d", ErrNoProcessor, i)
		}
	}
	pl := &Pipeline{
		processors: append([]Processor(nil), processors...),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(pl)
	}
	return pl, nil
}

// Processors returns the names of the pipeline's processors in run order.
func (pl *Pipeline) Processors() []string {
	names := make([]string, len(pl.processors))
	for i, proc := range pl.processors {
		names[i] = proc.Name()
	}
	return names
}

// Process runs every processor over p. Poison packs pass through untouched.
// The pack's working component names the running processor and is cleared
// afterwards, also on failure. The context is checked before each step.
func (pl *Pipeline) Process(ctx context.Context, p *pack.Pack) error {
	if p == nil || p.IsPoison() {
		return nil
	}
	for _, proc := range pl.processors {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		p.SetWorkingComponent(proc.Name())
		err := proc.Process(ctx, p)
		p.SetWorkingComponent("")
		if err != nil {
			pl.logger.Error("processor failed", "processor", proc.Name(), "pack", p.ID(), "error", err)
			return fmt.Errorf("%s: %w", proc.Name(), err)
		}
		pl.logger.Debug("processor done",
			"processor", proc.Name(), "pack", p.ID(), "entries", p.Len(), "elapsed", time.Since(start))
	}
	return nil
}

// Run processes packs in order and stops at the first poison pack or
// failure. It returns the number of packs processed.
func (pl *Pipeline) Run(ctx context.Context, packs []*pack.Pack) (int, error) {
	n := 0
	for _, p := range packs {
		if p == nil || p.IsPoison() {
			break
		}
		if err := pl.Process(ctx, p); err != nil {
			return n, fmt.Errorf("pack %s: %w", p.ID(), err)
		}
		n++
	}
	pl.logger.Info("pipeline finished", "packs", n)
	return n, nil
}
