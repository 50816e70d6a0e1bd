// Package loader fetches the statistics artifacts of a dashboard and publishes
// them as immutable snapshots.
//
// A Loader moves through Idle, Loading, Ready and Failed. Each run takes a
// generation number and only the most recently started run may commit, so
// overlapping reloads cannot interleave their documents.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/bpk-stats/internal/fetch"
	"github.com/jonathan/bpk-stats/internal/schemas"
	"github.com/jonathan/bpk-stats/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Strategy selects how documents are fetched within a run.
type Strategy string

const (
	// StrategySequential fetches one document at a time and stops at the first failure.
	StrategySequential Strategy = "sequential"
	// StrategyParallel fetches all documents at once; the first failure cancels the rest.
	StrategyParallel Strategy = "parallel"
)

// SchemaMode controls what happens when a document does not match its schema.
type SchemaMode string

const (
	// SchemaLenient keeps mismatching documents and records a warning.
	SchemaLenient SchemaMode = "lenient"
	// SchemaStrict fails the run on a mismatch.
	SchemaStrict SchemaMode = "strict"
	// SchemaOff skips schema validation.
	SchemaOff SchemaMode = "off"
)

// Archiver persists committed snapshots.
type Archiver interface {
	ArchiveSnapshot(ctx context.Context, snap *Snapshot) error
}

// Options configures a Loader.
type Options struct {
	Strategy   Strategy
	SchemaMode SchemaMode
	// Timeout bounds a whole run. Zero means no limit beyond the caller's context.
	Timeout  time.Duration
	Archiver Archiver
}

// DefaultOptions returns the sequential, lenient configuration.
func DefaultOptions() Options {
	return Options{
		Strategy:   StrategySequential,
		SchemaMode: SchemaLenient,
	}
}

// Loader loads a fixed list of documents from a source.
type Loader struct {
	source fetch.Source
	docs   []types.Document
	opts   Options
	logger *zap.Logger

	mu         sync.RWMutex
	state      State
	generation uint64
	cancelRun  context.CancelFunc
	subs       map[int]chan State
	nextSub    int
}

// New creates a Loader. A nil logger disables logging.
func New(source fetch.Source, docs []types.Document, opts Options, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Strategy == "" {
		opts.Strategy = StrategySequential
	}
	if opts.SchemaMode == "" {
		opts.SchemaMode = SchemaLenient
	}
	return &Loader{
		source: source,
		docs:   append([]types.Document(nil), docs...),
		opts:   opts,
		logger: logger,
		state:  State{Phase: PhaseIdle, ChangedAt: time.Now()},
		subs:   make(map[int]chan State),
	}
}

// Documents returns the configured document list.
func (l *Loader) Documents() []types.Document {
	return append([]types.Document(nil), l.docs...)
}

// State returns the current state.
func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Snapshot returns the most recently committed snapshot, or nil.
func (l *Loader) Snapshot() *Snapshot {
	return l.State().Snapshot
}

// Subscribe returns a channel that receives every state change, starting
// with the current state. A subscriber that falls behind only sees the
// latest state. The returned function unsubscribes and closes the channel.
func (l *Loader) Subscribe() (<-chan State, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextSub
	l.nextSub++
	ch := make(chan State, 1)
	ch <- l.state
	l.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.subs, id)
			close(ch)
		})
	}
}

// publish delivers the current state to subscribers. Callers hold l.mu.
func (l *Loader) publish() {
	for _, ch := range l.subs {
		select {
		case ch <- l.state:
		default:
			// drop the stale value
			select {
			case <-ch:
			default:
			}
			ch <- l.state
		}
	}
}

// Reload runs the load sequence again. It is the same as Load.
func (l *Loader) Reload(ctx context.Context) State {
	return l.Load(ctx)
}

// Load fetches every configured document and commits the result.
// Errors are recorded in the returned State rather than returned.
func (l *Loader) Load(ctx context.Context) (final State) {
	runCtx, gen, err := l.begin(ctx)
	if err != nil {
		l.logger.Error("cannot start load", zap.Error(err))
		return l.State()
	}

	start := time.Now()
	l.logger.Info("loading statistics",
		zap.Uint64("generation", gen),
		zap.String("source", l.source.Describe()),
		zap.Int("documents", len(l.docs)),
		zap.String("strategy", string(l.opts.Strategy)),
	)

	b := newBuilder(gen)
	runErr := errors.New(UnknownErrorMessage)

	// The run always leaves Loading, even if a document handler panics.
	defer func() {
		snap := b.build(l.docs, time.Now())
		final = l.commit(ctx, gen, snap, runErr, time.Since(start))
	}()

	if l.opts.Strategy == StrategyParallel {
		runErr = l.loadParallel(runCtx, b)
	} else {
		runErr = l.loadSequential(runCtx, b)
	}
	return final
}

// begin moves to Loading, takes a new generation and cancels any older run.
func (l *Loader) begin(ctx context.Context) (context.Context, uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	phase, err := transition(l.state.Phase, PhaseLoading)
	if err != nil {
		return nil, 0, err
	}

	if l.cancelRun != nil {
		l.cancelRun()
	}

	var runCtx context.Context
	var cancel context.CancelFunc
	if l.opts.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	l.cancelRun = cancel

	l.generation++
	l.state = State{
		Phase:      phase,
		Snapshot:   l.state.Snapshot,
		Generation: l.generation,
		ChangedAt:  time.Now(),
	}
	l.publish()
	return runCtx, l.generation, nil
}

// commit publishes the run's outcome unless a newer run has started.
func (l *Loader) commit(ctx context.Context, gen uint64, snap *Snapshot, runErr error, elapsed time.Duration) State {
	l.mu.Lock()

	if gen != l.generation {
		current := l.state
		l.mu.Unlock()
		l.logger.Info("discarding superseded load",
			zap.Uint64("generation", gen),
			zap.Uint64("current_generation", current.Generation),
			zap.Error(ErrSuperseded),
		)
		return current
	}

	if l.cancelRun != nil {
		l.cancelRun()
		l.cancelRun = nil
	}

	target := PhaseReady
	if runErr != nil {
		target = PhaseFailed
	}
	phase, err := transition(l.state.Phase, target)
	if err != nil {
		// unreachable while begin holds the only path into Loading
		l.mu.Unlock()
		l.logger.Error("cannot commit load", zap.Error(err))
		return l.State()
	}

	l.state = State{
		Phase:      phase,
		Err:        runErr,
		Message:    messageOf(runErr),
		Snapshot:   snap,
		Generation: gen,
		ChangedAt:  time.Now(),
	}
	l.publish()
	committed := l.state
	l.mu.Unlock()

	if runErr != nil {
		l.logger.Error("failed to load statistics",
			zap.Uint64("generation", gen),
			zap.Strings("loaded", snap.Loaded),
			zap.Duration("elapsed", elapsed),
			zap.Error(runErr),
		)
		return committed
	}

	l.logger.Info("statistics loaded",
		zap.Uint64("generation", gen),
		zap.Strings("loaded", snap.Loaded),
		zap.Int("warnings", len(snap.Warnings)),
		zap.Duration("elapsed", elapsed),
	)
	for _, w := range snap.Warnings {
		l.logger.Warn("document does not match schema",
			zap.String("document", w.Document),
			zap.String("detail", w.Message),
		)
	}

	if l.opts.Archiver != nil {
		if err := l.opts.Archiver.ArchiveSnapshot(context.WithoutCancel(ctx), snap); err != nil {
			l.logger.Error("failed to archive snapshot", zap.Uint64("generation", gen), zap.Error(err))
		}
	}
	return committed
}

func (l *Loader) loadSequential(ctx context.Context, b *builder) error {
	for _, doc := range l.docs {
		if err := l.loadDocument(ctx, b, doc); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadParallel(ctx context.Context, b *builder) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, doc := range l.docs {
		g.Go(func() error {
			return l.loadDocument(gctx, b, doc)
		})
	}
	return g.Wait()
}

// loadDocument fetches, checks and decodes one document, then assigns its slot.
// Nothing is assigned when any step fails.
func (l *Loader) loadDocument(ctx context.Context, b *builder, doc types.Document) error {
	name := doc.FileName()

	if err := ctx.Err(); err != nil {
		return &LoadError{Document: name, Cause: err}
	}

	res, err := l.source.Fetch(ctx, doc)
	if err != nil {
		return &LoadError{Document: name, Cause: err}
	}

	var raw json.RawMessage
	if err := json.Unmarshal(res.Body, &raw); err != nil {
		return &LoadError{Document: name, Cause: &DecodeError{Document: name, Cause: err}}
	}

	if l.opts.SchemaMode != SchemaOff {
		if err := schemas.ValidateDocument(doc.Kind, name, res.Body); err != nil {
			var validationErr *schemas.ValidationError
			if l.opts.SchemaMode == SchemaStrict || !errors.As(err, &validationErr) {
				return &LoadError{Document: name, Cause: err}
			}
			for _, fe := range validationErr.Errors {
				b.warn(doc, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
			}
		}
	}

	// A null document leaves its slot empty.
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		if l.opts.SchemaMode == SchemaStrict {
			return &LoadError{Document: name, Cause: &DecodeError{Document: name, Cause: ErrNullDocument}}
		}
		if l.opts.SchemaMode == SchemaOff {
			b.warn(doc, ErrNullDocument.Error())
		}
		l.logger.Warn("document is null, not loaded", zap.String("document", doc.Name))
		return nil
	}

	value, err := types.Decode(doc.Kind, res.Body)
	if err != nil {
		var typeErr *json.UnmarshalTypeError
		if value == nil || l.opts.SchemaMode == SchemaStrict || !errors.As(err, &typeErr) {
			return &LoadError{Document: name, Cause: &DecodeError{Document: name, Cause: err}}
		}
		b.warn(doc, err.Error())
	}

	// A sibling may have failed while this document was in flight.
	if err := ctx.Err(); err != nil {
		return &LoadError{Document: name, Cause: err}
	}

	if err := b.set(doc, value, res.Body); err != nil {
		return &LoadError{Document: name, Cause: err}
	}

	l.logger.Debug("document loaded",
		zap.String("document", doc.Name),
		zap.String("url", res.URL),
		zap.Int("bytes", len(res.Body)),
	)
	return nil
}
