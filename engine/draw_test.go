package engine

import (
	"context"
	"strings"
	"testing"

	"goose-search/movegen"
)

// fiftyMoveGame ends with 100 reversible plies after the last pawn move.
const fiftyMoveGame = "d2d4 d7d5 f2f4 f7f5 e2e3 e7e6 g2g3 g7g6 h2h4 h7h5 c2c3 c7c6 b2b4 b7b5 a2a3 a7a6 b1d2 g8e7 f1g2 c8b7 e1f2 e8f7 d1e2 f8g7 h1h3 a8a7 c1b2 b8d7 a1c1 b7c8 c1b1 d7f8 g1f3 f8h7 d2f1 e7g8 f1d2 g8e7 d2f1 e7g8 f1h2 g8h6 f3g5 f7f8 e2c2 f8e7 b1d1 c8b7 f2e2 g7f8 g2f3 h7f6 c2c1 d8c8 c1a1 c8a8 d1g1 b7c8 h2f1 h8h7 h3h2 h7h8 f1d2 f8g7 d2f1 c8d7 a1c1 a8b7 b2a1 a7a8 f1d2 h8c8 g1g2 c8f8 h2h1 f8g8 g2g1 g8h8 g5h3 h6g8 d2f1 g8h6 f1h2 f6g4 h2f1 g4f6 f1d2 g7f8 g1e1 b7c7 h1g1 f8g7 f3h1 h8b8 e1f1 d7e8 d2b3 e8d7 b3c5 f6e4 h3g5 h6g4 c5b3 e4f6 g5h3 g4h6 h1f3 f6g8 g1h1 g7f6 f1f2 e7d8 e2f1 d8c8 f1g2 c8b7"

func playGame(t *testing.T, backend movegen.Backend, moves string) (movegen.Position, []uint64) {
	t.Helper()
	pos, err := movegen.FromFEN(backend, movegen.Startpos)
	if err != nil {
		t.Fatalf("%s: %v", backend, err)
	}
	var history []uint64
	for i, notation := range strings.Fields(moves) {
		move, err := movegen.FindMove(pos, notation)
		if err != nil {
			t.Fatalf("%s: ply %d: %v", backend, i, err)
		}
		history = append(history, pos.Hash())
		pos = pos.Apply(move)
	}
	return pos, history
}

func TestFiftyMoveRuleScoresDraw(t *testing.T) {
	for _, backend := range movegen.Backends {
		pos, history := playGame(t, backend, fiftyMoveGame)
		if pos.HalfmoveClock() != fiftyMoveLimit {
			t.Fatalf("%s: expected halfmove clock %d, got %d", backend, fiftyMoveLimit, pos.HalfmoveClock())
		}

		s := NewSearch(pos, Limits{Depth: 2}, history, false)
		if err := s.Run(context.Background()); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if s.BestScore() != DrawScore || s.BestMove().IsNull() {
			t.Fatalf("%s: expected a drawn root with a legal move, got %s/%d", backend, s.BestMove(), s.BestScore())
		}
		if s.Stats().FiftyMoveDraws == 0 {
			t.Fatalf("%s: fifty-move draws were not counted", backend)
		}
	}
}

func TestGameHistoryRepetition(t *testing.T) {
	// Two knight shuffles: the start position has now occurred three times.
	pos, history := playGame(t, movegen.DefaultBackend, "g1f3 g8f6 f3g1 f6g8 g1f3 g8f6 f3g1")
	ps := newPositionStack(history, pos.Hash())

	// f6g8 would reach the start position for the third time.
	next, err := movegen.FindMove(pos, "f6g8")
	if err != nil {
		t.Fatalf("FindMove: %v", err)
	}
	child := pos.Apply(next)
	ps.push(child.Hash())
	if !ps.isRepetition(child.HalfmoveClock()) {
		t.Fatalf("third occurrence of the start position should be a draw")
	}
}
