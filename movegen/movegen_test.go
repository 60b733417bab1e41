package movegen

import (
	"errors"
	"testing"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func mustPosition(t testing.TB, backend Backend, fen string) Position {
	t.Helper()
	pos, err := FromFEN(backend, fen)
	if err != nil {
		t.Fatalf("%s: FromFEN(%q) failed: %v", backend, fen, err)
	}
	return pos
}

func TestPerftInitialPosition(t *testing.T) {
	for _, backend := range Backends {
		pos := mustPosition(t, backend, Startpos)
		want := []uint64{1, 20, 400, 8902}
		for depth, n := range want {
			if got := Perft(pos, depth); got != n {
				t.Fatalf("%s: perft depth %d: got %d want %d", backend, depth, got, n)
			}
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	for _, backend := range Backends {
		pos := mustPosition(t, backend, kiwipete)
		if got := Perft(pos, 1); got != 48 {
			t.Fatalf("%s: kiwipete depth1: got %d want 48", backend, got)
		}
		if got := Perft(pos, 2); got != 2039 {
			t.Fatalf("%s: kiwipete depth2: got %d want 2039", backend, got)
		}
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	pos := mustPosition(t, Dragontooth, kiwipete)
	div := Divide(pos, 2)
	if len(div) != 48 {
		t.Fatalf("expected 48 root moves, got %d", len(div))
	}
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if sum != 2039 {
		t.Fatalf("divide sum: got %d want 2039", sum)
	}
}

func TestCheckmateAndStalemate(t *testing.T) {
	foolsMate := "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	stalemate := "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
	for _, backend := range Backends {
		mated := mustPosition(t, backend, foolsMate)
		if len(mated.LegalMoves()) != 0 {
			t.Fatalf("%s: expected no legal moves in fool's mate", backend)
		}
		if !mated.Mated() {
			t.Fatalf("%s: expected white to be mated", backend)
		}

		stale := mustPosition(t, backend, stalemate)
		if len(stale.LegalMoves()) != 0 {
			t.Fatalf("%s: expected no legal moves in stalemate", backend)
		}
		if stale.Mated() {
			t.Fatalf("%s: stalemate reported as mate", backend)
		}
	}
}

func TestApplyLeavesReceiverUntouched(t *testing.T) {
	for _, backend := range Backends {
		pos := mustPosition(t, backend, Startpos)
		startFEN := pos.FEN()
		startHash := pos.Hash()

		e4, err := FindMove(pos, "e2e4")
		if err != nil {
			t.Fatalf("%s: %v", backend, err)
		}
		next := pos.Apply(e4)

		if pos.FEN() != startFEN || pos.Hash() != startHash {
			t.Fatalf("%s: Apply mutated the original position", backend)
		}
		if next.WhiteToMove() {
			t.Fatalf("%s: expected black to move after e2e4", backend)
		}
		if next.Hash() == startHash {
			t.Fatalf("%s: hash did not change after e2e4", backend)
		}
		if next.HalfmoveClock() != 0 {
			t.Fatalf("%s: pawn move should reset the halfmove clock, got %d", backend, next.HalfmoveClock())
		}
	}
}

func TestKnightShuffleRepeatsHash(t *testing.T) {
	for _, backend := range Backends {
		pos := mustPosition(t, backend, Startpos)
		start := pos.Hash()
		for _, notation := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
			m, err := FindMove(pos, notation)
			if err != nil {
				t.Fatalf("%s: %v", backend, err)
			}
			pos = pos.Apply(m)
		}
		if pos.Hash() != start {
			t.Fatalf("%s: expected the start hash after one knight cycle", backend)
		}
		if pos.HalfmoveClock() != 4 {
			t.Fatalf("%s: halfmove clock: got %d want 4", backend, pos.HalfmoveClock())
		}
	}
}

func TestPieceCount(t *testing.T) {
	for _, backend := range Backends {
		pos := mustPosition(t, backend, Startpos)
		want := map[PieceType]int{Pawn: 8, Knight: 2, Bishop: 2, Rook: 2, Queen: 1, King: 1}
		for pt, n := range want {
			if got := pos.PieceCount(true, pt); got != n {
				t.Fatalf("%s: white piece %d: got %d want %d", backend, pt, got, n)
			}
			if got := pos.PieceCount(false, pt); got != n {
				t.Fatalf("%s: black piece %d: got %d want %d", backend, pt, got, n)
			}
		}
	}
}

func TestFindMoveRejectsIllegal(t *testing.T) {
	pos := mustPosition(t, Dragontooth, Startpos)
	if _, err := FindMove(pos, "e2e5"); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
}

func TestParseBackend(t *testing.T) {
	if b, err := ParseBackend(""); err != nil || b != DefaultBackend {
		t.Fatalf("empty name: got %q, %v", b, err)
	}
	if b, err := ParseBackend(" GooseMG "); err != nil || b != GooseMG {
		t.Fatalf("goosemg: got %q, %v", b, err)
	}
	if _, err := ParseBackend("stockfish"); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
	if _, err := FromFEN(Dragontooth, "not a fen"); err == nil {
		t.Fatalf("expected an error for a malformed FEN")
	}
}

func TestNullMove(t *testing.T) {
	if !NullMove.IsNull() || NullMove.String() != "0000" {
		t.Fatalf("unexpected null move rendering %q", NullMove.String())
	}
}

func benchPerft(b *testing.B, backend Backend, fen string, depth int) {
	pos := mustPosition(b, backend, fen)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Perft(pos, depth)
	}
}

func BenchmarkPerft_Initial_D4_Dragontooth(b *testing.B) { benchPerft(b, Dragontooth, Startpos, 4) }
func BenchmarkPerft_Initial_D4_GooseMG(b *testing.B)     { benchPerft(b, GooseMG, Startpos, 4) }
func BenchmarkPerft_Kiwipete_D3_Dragontooth(b *testing.B) {
	benchPerft(b, Dragontooth, kiwipete, 3)
}
func BenchmarkPerft_Kiwipete_D3_Notnil(b *testing.B) { benchPerft(b, Notnil, kiwipete, 3) }
