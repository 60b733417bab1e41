package engine

import "goose-search/movegen"

// rootMax searches every root move to depth and returns the best one. Moves
// are tried in generation order and only a strictly better score replaces
// the current best, so ties go to the earliest move. ok is false when the
// iteration was cut short and its result must be discarded.
func (s *Search) rootMax(depth int) (bestMove movegen.Move, bestScore int32, pv PVLine, ok bool) {
	s.nodes.Add(1)

	moves := s.root.LegalMoves()
	if len(moves) == 0 {
		// Checkmate or stalemate at the root: nothing deeper to find.
		s.terminal = true
		return movegen.NullMove, MinScore, PVLine{}, true
	}

	alpha, beta := -infinity, infinity
	bestScore = -infinity
	var childPV PVLine

	for _, move := range moves {
		child := s.root.Apply(move)
		s.stack.push(child.Hash())
		score := -s.negamax(child, depth-1, 1, -beta, -alpha, &childPV)
		s.stack.pop()

		if s.aborted {
			return movegen.NullMove, 0, PVLine{}, false
		}

		if score > bestScore {
			bestScore = score
			bestMove = move
			pv.Update(move, childPV)
			alpha = Max(alpha, score)
		}
		childPV.Clear()
	}

	return bestMove, bestScore, pv, true
}

// negamax is a fail-soft alpha-beta search returning the score of pos from
// the side to move's point of view.
func (s *Search) negamax(pos movegen.Position, depth int, ply int, alpha int32, beta int32, pvLine *PVLine) int32 {
	if s.nodes.Add(1)&(checkInterval-1) == 0 {
		s.checkLimits()
	}
	if s.aborted {
		return 0
	}

	// Draw detection
	halfmove := pos.HalfmoveClock()
	if halfmove >= fiftyMoveLimit {
		s.stats.FiftyMoveDraws++
		return DrawScore
	}
	if s.stack.isRepetition(halfmove) {
		s.stats.RepetitionDraws++
		return DrawScore
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.Mated() {
			s.stats.MatesFound++
			return -MaxScore + int32(ply) // Checkmate, nearer is worse
		}
		s.stats.Stalemates++
		return DrawScore
	}

	if depth <= 0 || ply >= MaxPly {
		return s.eval.Evaluate(pos)
	}

	bestScore := -infinity
	var childPV PVLine

	for _, move := range moves {
		child := pos.Apply(move)
		s.stack.push(child.Hash())
		score := -s.negamax(child, depth-1, ply+1, -beta, -alpha, &childPV)
		s.stack.pop()

		if s.aborted {
			return 0
		}

		if score > bestScore {
			bestScore = score
		}

		// Beta cutoff
		if score >= beta {
			s.stats.BetaCutoffs++
			break
		}

		// Alpha improvement
		if score > alpha {
			alpha = score
			pvLine.Update(move, childPV)
		}
		childPV.Clear()
	}

	return bestScore
}
