package engine

import "testing"

func TestRepetitionOnSearchPath(t *testing.T) {
	ps := newPositionStack(nil, 10)
	ps.push(11)
	ps.push(12)
	ps.push(13)
	ps.push(10)
	if !ps.isRepetition(4) {
		t.Fatalf("root position repeated inside the search should be a draw")
	}
	if ps.isRepetition(3) {
		t.Fatalf("a repetition outside the halfmove window must not count")
	}
}

func TestRepetitionInHistoryNeedsTwoOccurrences(t *testing.T) {
	ps := newPositionStack([]uint64{1, 7, 8, 2}, 3)
	ps.push(7)
	if ps.isRepetition(20) {
		t.Fatalf("one earlier occurrence in the game history is not a draw")
	}
	ps.pop()

	ps = newPositionStack([]uint64{1, 7, 2, 7}, 3)
	ps.push(7)
	if !ps.isRepetition(20) {
		t.Fatalf("two earlier occurrences in the game history should be a draw")
	}
}

func TestRepetitionOnlyComparesSameSideToMove(t *testing.T) {
	ps := newPositionStack(nil, 5)
	ps.push(6)
	ps.push(5)
	ps.push(6)
	ps.push(7)
	// 7 never occurred; 6 sits at an odd distance from the current top.
	if ps.isRepetition(10) {
		t.Fatalf("unexpected repetition")
	}
	ps.pop()
	if !ps.isRepetition(10) {
		t.Fatalf("expected a repetition of the position two plies back")
	}
}

func TestPopNeverRemovesRoot(t *testing.T) {
	ps := newPositionStack([]uint64{1, 2}, 3)
	ps.pop()
	ps.pop()
	if len(ps.hashes) != 3 || ps.hashes[ps.rootIndex] != 3 {
		t.Fatalf("root was popped: %v", ps.hashes)
	}
}

func TestIsDrawFiftyMoves(t *testing.T) {
	ps := newPositionStack(nil, 1)
	if ps.isDraw(99) {
		t.Fatalf("99 half moves is not a draw")
	}
	if !ps.isDraw(fiftyMoveLimit) {
		t.Fatalf("100 half moves is a draw")
	}
}
