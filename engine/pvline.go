package engine

import "goose-search/movegen"

// PVLine is a principal variation, root move first.
type PVLine struct {
	Moves []movegen.Move
}

// Update makes move followed by the child's line the new variation.
func (pv *PVLine) Update(move movegen.Move, child PVLine) {
	pv.Moves = append(pv.Moves[:0], move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

func (pv *PVLine) Clear() {
	pv.Moves = pv.Moves[:0]
}

func (pv PVLine) Clone() PVLine {
	moves := make([]movegen.Move, len(pv.Moves))
	copy(moves, pv.Moves)
	return PVLine{Moves: moves}
}

// GetPVMove returns the first move of the line, or the null move.
func (pv PVLine) GetPVMove() movegen.Move {
	if len(pv.Moves) == 0 {
		return movegen.NullMove
	}
	return pv.Moves[0]
}
