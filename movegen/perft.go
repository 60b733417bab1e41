package movegen

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(pos Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := pos.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		nodes += Perft(pos.Apply(m), depth-1)
	}
	return nodes
}

// Divide returns the perft count below each root move, keyed by notation.
func Divide(pos Position, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range pos.LegalMoves() {
		result[m.String()] = Perft(pos.Apply(m), depth-1)
	}
	return result
}
