package engine

import (
	"fmt"
	"io"
)

// SearchStats counts what happened inside one search session.
type SearchStats struct {
	Nodes             uint64
	BetaCutoffs       uint64
	RepetitionDraws   uint64
	FiftyMoveDraws    uint64
	MatesFound        uint64
	Stalemates        uint64
	AbortedIterations uint64
}

// WriteStats dumps the counters as UCI info strings.
func WriteStats(w io.Writer, stats SearchStats) {
	fmt.Fprintln(w, "info string Search statistics:")
	fmt.Fprintf(w, "info string   Nodes: %d\n", stats.Nodes)
	fmt.Fprintf(w, "info string   Beta cutoffs: %d\n", stats.BetaCutoffs)
	fmt.Fprintf(w, "info string   Repetition draws: %d\n", stats.RepetitionDraws)
	fmt.Fprintf(w, "info string   Fifty-move draws: %d\n", stats.FiftyMoveDraws)
	fmt.Fprintf(w, "info string   Mates found: %d\n", stats.MatesFound)
	fmt.Fprintf(w, "info string   Stalemates: %d\n", stats.Stalemates)
	fmt.Fprintf(w, "info string   Aborted iterations: %d\n", stats.AbortedIterations)
}
