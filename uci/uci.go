package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"goose-search/engine"
	"goose-search/movegen"
)

const (
	engineName   = "GooseSearch 0.3"
	engineAuthor = "Goose"
)

// progressInterval is how often a running search reports its node count.
var progressInterval = time.Second

// Options are the engine settings a GUI can change with setoption.
type Options struct {
	Backend      movegen.Backend
	DefaultDepth int
	PrintStats   bool
}

// Engine drives engine.Search from UCI commands. All output, including the
// search's own info and bestmove lines, goes through one reporter so lines
// never interleave.
type Engine struct {
	out  *engine.UCIReporter
	opts Options

	startFEN string
	moves    []string
	pos      movegen.Position
	history  []uint64

	search *engine.Search
	group  *errgroup.Group
}

func NewEngine(w io.Writer, opts Options) *Engine {
	if opts.Backend == "" {
		opts.Backend = movegen.DefaultBackend
	}
	if opts.DefaultDepth <= 0 {
		opts.DefaultDepth = engine.DefaultSearchDepth
	}
	e := &Engine{out: engine.NewUCIReporter(w), opts: opts}
	if err := e.setPosition(movegen.Startpos, nil); err != nil {
		panic(fmt.Sprintf("uci: start position rejected by %s backend: %v", opts.Backend, err))
	}
	return e
}

// Loop reads commands from r until quit or end of input. A search still
// running at that point is stopped and awaited.
func (e *Engine) Loop(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	defer e.stopSearch()

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if quit := e.Handle(ctx, scanner.Text()); quit {
			return nil
		}
	}
	return scanner.Err()
}

// Handle executes one command line and reports whether it was quit.
func (e *Engine) Handle(ctx context.Context, line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 { // ignore blank lines
		return false
	}

	switch strings.ToLower(tokens[0]) {
	case "uci":
		e.out.Printf("id name %s\n", engineName)
		e.out.Printf("id author %s\n", engineAuthor)
		e.out.Printf("option name Backend type combo default %s%s\n", movegen.DefaultBackend,
			strings.Join(lo.Map(movegen.Backends, func(b movegen.Backend, _ int) string {
				return " var " + string(b)
			}), ""))
		e.out.Printf("option name DefaultDepth type spin default %d min 1 max %d\n", engine.DefaultSearchDepth, engine.MaxSearchDepth)
		e.out.Printf("option name PrintStats type check default false\n")
		e.out.Printf("uciok\n")
	case "isready":
		e.out.Printf("readyok\n")
	case "ucinewgame":
		e.stopSearch()
		if err := e.setPosition(movegen.Startpos, nil); err != nil {
			e.warn(line, err)
		}
	case "position":
		e.stopSearch()
		e.handlePosition(line, tokens[1:])
	case "go":
		e.stopSearch()
		limits, err := parseGo(tokens[1:])
		if err != nil {
			e.warn(line, err)
		}
		e.startSearch(ctx, limits)
	case "stop":
		e.stopSearch()
	case "wait":
		// Blocks until the running search has printed bestmove.
		e.waitSearch()
	case "setoption":
		e.stopSearch()
		e.handleSetOption(line, tokens[1:])
	case "eval":
		score := engine.MaterialEvaluator{}.Evaluate(e.pos)
		e.out.Printf("info string eval cp %d phase %d\n", score, engine.GetPiecePhase(e.pos))
	case "d":
		e.out.Printf("info string fen %s\n", e.pos.FEN())
		e.out.Printf("info string hash %016x backend %s\n", e.pos.Hash(), e.opts.Backend)
	case "quit":
		return true
	default:
		e.out.Printf("info string Unknown command: %s\n", line)
	}
	return false
}

// Position returns the current position.
func (e *Engine) Position() movegen.Position { return e.pos }

// History returns the hashes of the positions played before the current one.
func (e *Engine) History() []uint64 { return append([]uint64(nil), e.history...) }

func (e *Engine) Options() Options { return e.opts }

func (e *Engine) warn(line string, err error) {
	log.Warn().Err(err).Str("cmd", line).Msg("uci-input")
	e.out.Printf("info string %v\n", err)
}

func (e *Engine) handlePosition(line string, args []string) {
	if len(args) == 0 {
		e.warn(line, fmt.Errorf("malformed position command"))
		return
	}

	var fen string
	movesAt := lo.IndexOf(args, "moves")
	switch strings.ToLower(args[0]) {
	case "startpos":
		fen = movegen.Startpos
	case "fen":
		end := len(args)
		if movesAt >= 0 {
			end = movesAt
		}
		fen = strings.Join(args[1:end], " ")
		if fen == "" {
			e.warn(line, fmt.Errorf("invalid fen position"))
			return
		}
	default:
		e.warn(line, fmt.Errorf("invalid position subcommand %q", args[0]))
		return
	}

	var moves []string
	if movesAt >= 0 {
		moves = args[movesAt+1:]
	}
	if err := e.setPosition(fen, moves); err != nil {
		e.warn(line, err)
	}
}

// setPosition replays moves from fen and records the hash of every position
// left behind. On an illegal move the position stops at the last legal one.
func (e *Engine) setPosition(fen string, moves []string) error {
	pos, err := movegen.FromFEN(e.opts.Backend, fen)
	if err != nil {
		return fmt.Errorf("position: %w", err)
	}

	history := make([]uint64, 0, len(moves))
	played := make([]string, 0, len(moves))
	defer func() {
		e.startFEN, e.moves, e.pos, e.history = fen, played, pos, history
	}()

	for _, notation := range moves {
		move, err := movegen.FindMove(pos, notation)
		if err != nil {
			return fmt.Errorf("position: %w", err)
		}
		history = append(history, pos.Hash())
		pos = pos.Apply(move)
		played = append(played, notation)
	}
	return nil
}

func (e *Engine) handleSetOption(line string, args []string) {
	lowered := lo.Map(args, func(s string, _ int) string { return strings.ToLower(s) })
	nameAt := lo.IndexOf(lowered, "name")
	valueAt := lo.IndexOf(lowered, "value")
	if nameAt < 0 || valueAt < nameAt+2 {
		e.warn(line, fmt.Errorf("malformed setoption command"))
		return
	}
	name := strings.ToLower(strings.Join(args[nameAt+1:valueAt], " "))
	value := strings.Join(args[valueAt+1:], " ")

	switch name {
	case "backend":
		backend, err := movegen.ParseBackend(value)
		if err != nil {
			e.warn(line, err)
			return
		}
		previous := e.opts.Backend
		e.opts.Backend = backend
		// Hashes differ between backends, so the game is replayed.
		if err := e.setPosition(e.startFEN, e.moves); err != nil {
			e.opts.Backend = previous
			e.warn(line, err)
		}
	case "defaultdepth":
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 1 || depth > engine.MaxSearchDepth {
			e.warn(line, fmt.Errorf("DefaultDepth must be in [1, %d]", engine.MaxSearchDepth))
			return
		}
		e.opts.DefaultDepth = depth
	case "printstats":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			e.warn(line, err)
			return
		}
		e.opts.PrintStats = enabled
	default:
		e.warn(line, fmt.Errorf("unknown option %q", name))
	}
}

// startSearch runs the search in one goroutine and reports node throughput
// from another until it finishes.
func (e *Engine) startSearch(ctx context.Context, limits engine.Limits) {
	s := engine.NewSearch(e.pos, limits, e.History(), true,
		engine.WithReporter(e.out),
		engine.WithDefaultDepth(e.opts.DefaultDepth))
	printStats := e.opts.PrintStats

	searchCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(searchCtx)
	g.Go(func() error {
		defer cancel()
		if err := s.Run(gctx); err != nil {
			return err
		}
		if printStats {
			e.out.Stats(s.Stats())
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		start := time.Now()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				e.out.Progress(s.Nodes(), time.Since(start))
			}
		}
	})

	e.search, e.group = s, g
}

func (e *Engine) stopSearch() {
	if e.search != nil {
		e.search.Stop()
	}
	e.waitSearch()
}

func (e *Engine) waitSearch() {
	if e.group == nil {
		return
	}
	if err := e.group.Wait(); err != nil {
		log.Error().Err(err).Msg("search-failed")
	}
	e.search, e.group = nil, nil
}

// parseGo reads the go subcommands. Malformed values are skipped; the first
// problem is returned alongside whatever limits could be read.
func parseGo(args []string) (engine.Limits, error) {
	var limits engine.Limits
	var firstErr error
	fail := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	msec := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }

	for i := 0; i < len(args); i++ {
		token := strings.ToLower(args[i])
		if token == "infinite" {
			limits.Infinite = true
			continue
		}
		if i+1 >= len(args) {
			fail(fmt.Errorf("malformed go command option %s", token))
			continue
		}

		var target func(int)
		switch token {
		case "wtime":
			target = func(v int) { limits.Time[engine.White] = msec(v) }
		case "btime":
			target = func(v int) { limits.Time[engine.Black] = msec(v) }
		case "winc":
			target = func(v int) { limits.Increment[engine.White] = msec(v) }
		case "binc":
			target = func(v int) { limits.Increment[engine.Black] = msec(v) }
		case "movestogo":
			target = func(v int) { limits.MovesToGo = v }
		case "movetime":
			target = func(v int) { limits.MoveTime = msec(v) }
		case "depth":
			target = func(v int) { limits.Depth = v }
		default:
			fail(fmt.Errorf("unknown go subcommand %s", token))
			continue
		}

		i++
		v, err := strconv.Atoi(args[i])
		if err != nil {
			fail(fmt.Errorf("malformed go command option; could not convert %s: %w", token, err))
			continue
		}
		target(v)
	}
	return limits, firstErr
}
