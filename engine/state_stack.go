package engine

const fiftyMoveLimit = 100

// positionStack holds the hashes of every position reached so far: the game
// history handed in by the caller, the root, and the current search path.
type positionStack struct {
	hashes    []uint64
	rootIndex int
}

func newPositionStack(history []uint64, rootHash uint64) *positionStack {
	hashes := make([]uint64, 0, len(history)+MaxPly+1)
	hashes = append(hashes, history...)
	hashes = append(hashes, rootHash)
	return &positionStack{hashes: hashes, rootIndex: len(history)}
}

func (ps *positionStack) push(hash uint64) {
	ps.hashes = append(ps.hashes, hash)
}

func (ps *positionStack) pop() {
	if len(ps.hashes) <= ps.rootIndex+1 {
		return
	}
	ps.hashes = ps.hashes[:len(ps.hashes)-1]
}

// isRepetition reports whether the position on top of the stack should be
// scored as a draw. Only positions inside the halfmove-clock window can
// repeat. A single earlier occurrence counts when it lies on the search path
// (root included); otherwise the position must have been seen twice before.
func (ps *positionStack) isRepetition(halfmoveClock int) bool {
	top := len(ps.hashes) - 1
	if top < 1 {
		return false
	}
	curr := ps.hashes[top]
	start := Max(top-halfmoveClock, 0)

	matches := 0
	for i := top - 2; i >= start; i -= 2 {
		if ps.hashes[i] != curr {
			continue
		}
		if i >= ps.rootIndex {
			return true
		}
		matches++
		if matches >= 2 {
			return true
		}
	}
	return false
}

// isDraw covers the fifty-move rule and repetitions.
func (ps *positionStack) isDraw(halfmoveClock int) bool {
	return halfmoveClock >= fiftyMoveLimit || ps.isRepetition(halfmoveClock)
}
