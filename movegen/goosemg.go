package movegen

import (
	"fmt"
	"strings"

	gm "github.com/Oliverans/GooseEngineMG/goosemg"
)

// goosePosition wraps a goosemg board. The side to move is carried alongside
// the board and flipped on every Apply.
type goosePosition struct {
	board gm.Board
	white bool
}

func newGoosePosition(fen string) (Position, error) {
	fields, err := fenFields(fen)
	if err != nil {
		return nil, err
	}
	b, err := gm.ParseFEN(strings.Join(fields, " "))
	if err != nil {
		return nil, fmt.Errorf("movegen: goosemg could not parse FEN %q: %w", fen, err)
	}
	return &goosePosition{board: *b, white: fields[1] == "w"}, nil
}

func (p *goosePosition) LegalMoves() []Move {
	legal := p.board.GenerateMoves()
	moves := make([]Move, len(legal))
	for i, m := range legal {
		moves[i] = newMove(m, m.String())
	}
	return moves
}

func (p *goosePosition) Apply(m Move) Position {
	next := &goosePosition{board: p.board, white: !p.white}
	if ok, _ := next.board.MakeMove(m.raw.(gm.Move)); !ok {
		panic("movegen: goosemg rejected move " + m.String())
	}
	return next
}

func (p *goosePosition) Hash() uint64 { return p.board.ComputeZobrist() }

func (p *goosePosition) WhiteToMove() bool { return p.white }

func (p *goosePosition) HalfmoveClock() int { return p.board.HalfmoveClock() }

func (p *goosePosition) Mated() bool { return p.board.InCheckmate() }

var goosePieces = [7][2]gm.Piece{
	Pawn:   {gm.BlackPawn, gm.WhitePawn},
	Knight: {gm.BlackKnight, gm.WhiteKnight},
	Bishop: {gm.BlackBishop, gm.WhiteBishop},
	Rook:   {gm.BlackRook, gm.WhiteRook},
	Queen:  {gm.BlackQueen, gm.WhiteQueen},
	King:   {gm.BlackKing, gm.WhiteKing},
}

func (p *goosePosition) PieceCount(white bool, pt PieceType) int {
	if pt == NoPieceType || int(pt) >= len(goosePieces) {
		return 0
	}
	side := 0
	if white {
		side = 1
	}
	target := goosePieces[pt][side]
	count := 0
	for sq := 0; sq < 64; sq++ {
		if p.board.PieceAt(gm.Square(sq)) == target {
			count++
		}
	}
	return count
}

func (p *goosePosition) FEN() string { return p.board.ToFEN() }
