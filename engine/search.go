package engine

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"goose-search/movegen"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
	DrawScore int32 = 0
	// MinScore is reported when the root has no legal moves.
	MinScore int32 = -MaxScore

	infinity int32 = MaxScore + 1
)

// MaxPly bounds the recursion; deeper nodes are evaluated statically.
const MaxPly = 128

// checkInterval is how many nodes pass between polls of stop, context and
// clock inside the tree. Must be a power of two.
const checkInterval = 2048

var ErrSearchReused = errors.New("engine: search session has already been run")

// Option configures a Search.
type Option func(*Search)

// WithReporter sends iteration info and the final bestmove to r.
func WithReporter(r Reporter) Option {
	return func(s *Search) { s.reporter = r }
}

// WithEvaluator replaces the default material evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(s *Search) { s.eval = e }
}

// WithDefaultDepth sets the depth used when the limits name no budget at all.
func WithDefaultDepth(depth int) Option {
	return func(s *Search) { s.defaultDepth = depth }
}

// Search is a single-use search session. Build it with NewSearch, call Run
// once, then read the result. Stop may be called from any goroutine at any
// time after construction.
type Search struct {
	root         movegen.Position
	limits       Limits
	logUci       bool
	reporter     Reporter
	eval         Evaluator
	defaultDepth int

	searchDepth   int
	timeAllocated time.Duration
	clock         timeHandler

	// stop only ever goes false -> true. Observing it late only delays the
	// end of the search, so no ordering beyond atomicity is needed.
	stop     atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
	nodes    atomic.Uint64

	ctx       context.Context
	stack     *positionStack
	iteration int
	aborted   bool
	terminal  bool

	bestMove       movegen.Move
	bestScore      int32
	pv             PVLine
	completedDepth int
	stats          SearchStats
}

// NewSearch prepares a search of pos. history holds the hashes of the
// positions played before pos, oldest first, one per ply; pos itself is not
// included. When logUci is set the final bestmove and per-iteration info are
// sent to the reporter (stdout UCI output unless WithReporter is given).
func NewSearch(pos movegen.Position, limits Limits, history []uint64, logUci bool, opts ...Option) *Search {
	s := &Search{
		root:      pos,
		limits:    limits,
		logUci:    logUci,
		eval:      MaterialEvaluator{},
		stopCh:    make(chan struct{}),
		bestMove:  movegen.NullMove,
		bestScore: MinScore,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reporter == nil {
		if logUci {
			s.reporter = NewUCIReporter(os.Stdout)
		} else {
			s.reporter = discardReporter{}
		}
	}
	s.searchDepth, s.timeAllocated = resolveBudget(limits, pos.WhiteToMove(), s.defaultDepth)
	s.stack = newPositionStack(history, pos.Hash())
	return s
}

// Stop asks the search to finish. It is idempotent and never blocks; the
// running search notices it at its next poll.
func (s *Search) Stop() {
	s.stop.Store(true)
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Run performs iterative deepening from depth 1 until the depth cap, the
// time allocation, Stop or ctx ends it. Only completed iterations update the
// result. Infinite searches wait for Stop (or ctx) before returning, even if
// they run out of depth first.
func (s *Search) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrSearchReused
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx = ctx
	s.clock.startClock(s.timeAllocated)

	log.Debug().
		Str("fen", s.root.FEN()).
		Str("limits", s.limits.String()).
		Int("depth", s.searchDepth).
		Dur("allocated", s.timeAllocated).
		Msg("search-start")

	for depth := 1; depth <= s.searchDepth; depth++ {
		s.iteration = depth
		move, score, pv, ok := s.rootMax(depth)
		if !ok {
			s.stats.AbortedIterations++
			log.Debug().Int("depth", depth).Uint64("nodes", s.Nodes()).Msg("iteration-aborted")
			break
		}

		s.bestMove, s.bestScore, s.pv = move, score, pv
		s.completedDepth = depth

		info := IterationInfo{
			Depth:   depth,
			Score:   score,
			Nodes:   s.Nodes(),
			Elapsed: s.clock.elapsed(),
			PV:      pv.Moves,
		}
		if s.logUci {
			s.reporter.Iteration(info)
		}
		log.Debug().
			Int("depth", depth).
			Int32("score", score).
			Uint64("nodes", info.Nodes).
			Str("pv", info.PVString()).
			Msg("iteration-complete")

		if s.terminal || s.shouldStop() {
			break
		}
	}

	if s.limits.Infinite {
		s.waitForStop()
	}

	s.stats.Nodes = s.Nodes()
	log.Info().
		Str("bestmove", s.bestMove.String()).
		Int32("score", s.bestScore).
		Int("depth", s.completedDepth).
		Uint64("nodes", s.stats.Nodes).
		Dur("elapsed", s.clock.elapsed()).
		Msg("search-done")

	if s.logUci {
		s.reporter.BestMove(s.bestMove)
	}
	return nil
}

func (s *Search) shouldStop() bool {
	return s.stop.Load() || s.ctx.Err() != nil || s.clock.timeUp()
}

// checkLimits runs on the node cadence. The first iteration is never cut
// short so there is always a complete result to fall back on.
func (s *Search) checkLimits() {
	if s.iteration > 1 && s.shouldStop() {
		s.aborted = true
	}
}

func (s *Search) waitForStop() {
	select {
	case <-s.stopCh:
	case <-s.ctx.Done():
	}
}

// BestMove is the first move of the deepest completed iteration, or the null
// move if the root has no legal moves.
func (s *Search) BestMove() movegen.Move { return s.bestMove }

func (s *Search) BestScore() int32 { return s.bestScore }

// PV returns the principal variation of the deepest completed iteration.
func (s *Search) PV() []movegen.Move { return s.pv.Clone().Moves }

// Nodes is safe to call while the search runs.
func (s *Search) Nodes() uint64 { return s.nodes.Load() }

// Depth is the deepest completed iteration.
func (s *Search) Depth() int { return s.completedDepth }

func (s *Search) SearchDepth() int { return s.searchDepth }

func (s *Search) TimeAllocated() time.Duration { return s.timeAllocated }

func (s *Search) Limits() Limits { return s.limits }

// Stats returns the session counters; meaningful once Run has returned.
func (s *Search) Stats() SearchStats { return s.stats }
