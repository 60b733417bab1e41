package movegen

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

// dragontoothPosition wraps a dragontoothmg board. Boards are plain values,
// so Apply works on a copy and drops the undo closure.
type dragontoothPosition struct {
	board dragontoothmg.Board
}

func newDragontoothPosition(fen string) (pos Position, err error) {
	fields, err := fenFields(fen)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			pos, err = nil, fmt.Errorf("movegen: dragontooth could not parse FEN %q: %v", fen, r)
		}
	}()
	return &dragontoothPosition{board: dragontoothmg.ParseFen(strings.Join(fields, " "))}, nil
}

func (p *dragontoothPosition) LegalMoves() []Move {
	legal := p.board.GenerateLegalMoves()
	moves := make([]Move, len(legal))
	for i := range legal {
		moves[i] = newMove(legal[i], legal[i].String())
	}
	return moves
}

func (p *dragontoothPosition) Apply(m Move) Position {
	next := &dragontoothPosition{board: p.board}
	next.board.Apply(m.raw.(dragontoothmg.Move))
	return next
}

func (p *dragontoothPosition) Hash() uint64 { return p.board.Hash() }

func (p *dragontoothPosition) WhiteToMove() bool { return p.board.Wtomove }

func (p *dragontoothPosition) HalfmoveClock() int { return int(p.board.Halfmoveclock) }

func (p *dragontoothPosition) Mated() bool {
	return p.board.OurKingInCheck() && len(p.board.GenerateLegalMoves()) == 0
}

func (p *dragontoothPosition) PieceCount(white bool, pt PieceType) int {
	bb := &p.board.Black
	if white {
		bb = &p.board.White
	}
	switch pt {
	case Pawn:
		return bits.OnesCount64(bb.Pawns)
	case Knight:
		return bits.OnesCount64(bb.Knights)
	case Bishop:
		return bits.OnesCount64(bb.Bishops)
	case Rook:
		return bits.OnesCount64(bb.Rooks)
	case Queen:
		return bits.OnesCount64(bb.Queens)
	case King:
		return bits.OnesCount64(bb.Kings)
	}
	return 0
}

func (p *dragontoothPosition) FEN() string { return p.board.ToFen() }
