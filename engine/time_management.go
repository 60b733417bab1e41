package engine

import (
	"math"
	"time"
)

const (
	// MaxSearchDepth bounds clock and movetime searches; time runs out long before.
	MaxSearchDepth = 64
	// DefaultSearchDepth is used when no limit at all is given.
	DefaultSearchDepth = 5
	// SuddenDeathMovesToGo is the assumed number of moves left when the clock
	// has no moves-to-go.
	SuddenDeathMovesToGo = 40
	// MovesToGoSafety is added to movestogo so a small count cannot flag us.
	MovesToGoSafety = 3
	// maxTimeRatio caps how much our clock advantage stretches the horizon.
	maxTimeRatio = 2.0

	InfiniteDepth = math.MaxInt
	InfiniteTime  = time.Duration(math.MaxInt64)
)

// resolveBudget turns limits into a depth cap and a time allocation for the
// side to move. The first matching mode wins: infinite, depth, movetime,
// clock, default depth.
func resolveBudget(limits Limits, whiteToMove bool, defaultDepth int) (depth int, allocated time.Duration) {
	us := sideIndex(whiteToMove)
	them := us ^ 1
	ourTime := nonNegative(limits.Time[us])

	switch {
	case limits.Infinite:
		return InfiniteDepth, InfiniteTime
	case limits.Depth > 0:
		return limits.Depth, InfiniteTime
	case limits.MoveTime > 0:
		return MaxSearchDepth, limits.MoveTime
	case ourTime > 0:
		if limits.MovesToGo <= 0 {
			allocated = suddenDeathAllocation(ourTime, nonNegative(limits.Time[them]))
		} else {
			allocated = ourTime / time.Duration(limits.MovesToGo+MovesToGoSafety)
		}
		allocated += nonNegative(limits.Increment[us])
		return MaxSearchDepth, allocated
	}

	if defaultDepth <= 0 {
		defaultDepth = DefaultSearchDepth
	}
	return defaultDepth, InfiniteTime
}

// suddenDeathAllocation spreads our clock over SuddenDeathMovesToGo moves,
// or up to maxTimeRatio times as many when we are ahead on the clock. An
// empty opponent clock counts as the maximum ratio.
func suddenDeathAllocation(ourTime, opponentTime time.Duration) time.Duration {
	ratio := maxTimeRatio
	if opponentTime > 0 {
		ratio = float64(ourTime) / float64(opponentTime)
	}
	ratio = Clamp(ratio, 1.0, maxTimeRatio)
	movesToGo := SuddenDeathMovesToGo * ratio
	return time.Duration(float64(ourTime) / movesToGo)
}

func nonNegative(d time.Duration) time.Duration {
	return Max(d, 0)
}

// timeHandler tracks the wall clock of one search against its allocation.
type timeHandler struct {
	start     time.Time
	allocated time.Duration
}

func (th *timeHandler) startClock(allocated time.Duration) {
	th.start = time.Now()
	th.allocated = allocated
}

func (th *timeHandler) elapsed() time.Duration {
	return time.Since(th.start)
}

// timeUp reports whether the allocation has been exceeded. Unbounded
// searches never run out of time.
func (th *timeHandler) timeUp() bool {
	if th.allocated == InfiniteTime {
		return false
	}
	return th.elapsed() > th.allocated
}
