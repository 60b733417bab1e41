package engine

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"goose-search/movegen"
)

// IterationInfo describes one completed iterative-deepening iteration.
type IterationInfo struct {
	Depth   int
	Score   int32
	Nodes   uint64
	Elapsed time.Duration
	PV      []movegen.Move
}

// NPS returns nodes per second over the elapsed time.
func (info IterationInfo) NPS() uint64 {
	ms := Max(info.Elapsed.Milliseconds(), 1)
	return uint64(float64(info.Nodes*1000) / float64(ms))
}

// PVString renders the variation as space separated UCI moves.
func (info IterationInfo) PVString() string {
	return strings.Join(lo.Map(info.PV, func(m movegen.Move, _ int) string {
		return m.String()
	}), " ")
}

// Reporter receives search output. Implementations must be safe to call from
// the searching goroutine.
type Reporter interface {
	Iteration(info IterationInfo)
	BestMove(move movegen.Move)
}

// UCIReporter writes search output as UCI text.
type UCIReporter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewUCIReporter(w io.Writer) *UCIReporter {
	return &UCIReporter{w: w}
}

func (r *UCIReporter) Iteration(info IterationInfo) {
	r.Printf("info depth %d score %s nodes %d time %d nps %d pv %s\n",
		info.Depth, getMateOrCPScore(int(info.Score)), info.Nodes,
		info.Elapsed.Milliseconds(), info.NPS(), info.PVString())
}

func (r *UCIReporter) BestMove(move movegen.Move) {
	r.Printf("bestmove %s\n", move.String())
}

// Progress reports node throughput while an iteration is still running.
func (r *UCIReporter) Progress(nodes uint64, elapsed time.Duration) {
	info := IterationInfo{Nodes: nodes, Elapsed: elapsed}
	r.Printf("info nodes %d nps %d time %d\n", nodes, info.NPS(), elapsed.Milliseconds())
}

// Printf writes one line under the reporter's lock.
func (r *UCIReporter) Printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, format, args...)
}

// Stats writes the session counters as info strings.
func (r *UCIReporter) Stats(stats SearchStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	WriteStats(r.w, stats)
}

// Taken from Blunder chess engine and just slightly modified.
func getMateOrCPScore(score int) string {
	mateValue := int(MaxScore)
	mateThreshold := int(Checkmate)

	if score >= mateThreshold {
		pliesToMate := Max(mateValue-score, 0)
		return fmt.Sprintf("mate %d", (pliesToMate+1)/2)
	} else if score <= -mateThreshold {
		pliesToMate := Max(mateValue+score, 0)
		return fmt.Sprintf("mate %d", -((pliesToMate + 1) / 2))
	}

	return fmt.Sprintf("cp %d", score)
}

type discardReporter struct{}

func (discardReporter) Iteration(IterationInfo) {}

func (discardReporter) BestMove(movegen.Move) {}
