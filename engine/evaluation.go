package engine

import "goose-search/movegen"

// Evaluator scores a quiet position from the side to move's point of view.
type Evaluator interface {
	Evaluate(pos movegen.Position) int32
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(pos movegen.Position) int32

func (f EvaluatorFunc) Evaluate(pos movegen.Position) int32 { return f(pos) }

// Phase weights; a full board sums to TotalPhase.
const (
	KnightPhase = 1
	BishopPhase = 1
	RookPhase   = 2
	QueenPhase  = 4
	TotalPhase  = 4*KnightPhase + 4*BishopPhase + 4*RookPhase + 2*QueenPhase
)

var pieceValueMG = [7]int{movegen.Pawn: 79, movegen.Knight: 337, movegen.Bishop: 364, movegen.Rook: 481, movegen.Queen: 1004}
var pieceValueEG = [7]int{movegen.Pawn: 95, movegen.Knight: 293, movegen.Bishop: 301, movegen.Rook: 520, movegen.Queen: 916}

// MaterialEvaluator is a tapered material count, blending middlegame and
// endgame piece values by the remaining non-pawn material.
type MaterialEvaluator struct{}

func (MaterialEvaluator) Evaluate(pos movegen.Position) int32 {
	whiteMG, whiteEG := countMaterial(pos, true)
	blackMG, blackEG := countMaterial(pos, false)

	phase := Min(GetPiecePhase(pos), TotalPhase)
	mg := whiteMG - blackMG
	eg := whiteEG - blackEG
	score := (mg*phase + eg*(TotalPhase-phase)) / TotalPhase

	if !pos.WhiteToMove() {
		score = -score
	}
	return int32(score)
}

// GetPiecePhase sums the phase weights of the pieces on the board.
func GetPiecePhase(pos movegen.Position) (phase int) {
	for _, white := range []bool{true, false} {
		phase += pos.PieceCount(white, movegen.Knight) * KnightPhase
		phase += pos.PieceCount(white, movegen.Bishop) * BishopPhase
		phase += pos.PieceCount(white, movegen.Rook) * RookPhase
		phase += pos.PieceCount(white, movegen.Queen) * QueenPhase
	}
	return phase
}

func countMaterial(pos movegen.Position, white bool) (materialMG, materialEG int) {
	for _, pt := range movegen.PieceTypes {
		n := pos.PieceCount(white, pt)
		materialMG += n * pieceValueMG[pt]
		materialEG += n * pieceValueEG[pt]
	}
	return materialMG, materialEG
}
