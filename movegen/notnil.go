package movegen

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

// notnilPosition wraps an immutable notnil/chess position. The library's own
// hash digests the move clocks too, so repetition keys are derived from the
// placement, side, castling and en passant fields of the FEN instead.
type notnilPosition struct {
	pos      *chess.Position
	halfmove int
	hash     uint64
}

func newNotnilPosition(fen string) (Position, error) {
	fields, err := fenFields(fen)
	if err != nil {
		return nil, err
	}
	opt, err := chess.FEN(strings.Join(fields, " "))
	if err != nil {
		return nil, fmt.Errorf("movegen: notnil could not parse FEN %q: %w", fen, err)
	}
	halfmove, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("movegen: bad halfmove clock in FEN %q: %w", fen, err)
	}
	return wrapNotnil(chess.NewGame(opt).Position(), halfmove), nil
}

func wrapNotnil(pos *chess.Position, halfmove int) *notnilPosition {
	return &notnilPosition{pos: pos, halfmove: halfmove, hash: notnilKey(pos)}
}

func notnilKey(pos *chess.Position) uint64 {
	fields := strings.Fields(pos.String())
	if len(fields) > 4 {
		fields = fields[:4]
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.Join(fields, " ")))
	return h.Sum64()
}

func (p *notnilPosition) LegalMoves() []Move {
	valid := p.pos.ValidMoves()
	moves := make([]Move, len(valid))
	for i, m := range valid {
		moves[i] = newMove(m, m.String())
	}
	return moves
}

func (p *notnilPosition) Apply(m Move) Position {
	cm := m.raw.(*chess.Move)
	halfmove := p.halfmove + 1
	if cm.HasTag(chess.Capture) || cm.HasTag(chess.EnPassant) || p.pos.Board().Piece(cm.S1()).Type() == chess.Pawn {
		halfmove = 0
	}
	return wrapNotnil(p.pos.Update(cm), halfmove)
}

func (p *notnilPosition) Hash() uint64 { return p.hash }

func (p *notnilPosition) WhiteToMove() bool { return p.pos.Turn() == chess.White }

func (p *notnilPosition) HalfmoveClock() int { return p.halfmove }

func (p *notnilPosition) Mated() bool { return p.pos.Status() == chess.Checkmate }

var notnilTypes = [7]chess.PieceType{
	Pawn:   chess.Pawn,
	Knight: chess.Knight,
	Bishop: chess.Bishop,
	Rook:   chess.Rook,
	Queen:  chess.Queen,
	King:   chess.King,
}

func (p *notnilPosition) PieceCount(white bool, pt PieceType) int {
	if pt == NoPieceType || int(pt) >= len(notnilTypes) {
		return 0
	}
	color := chess.Black
	if white {
		color = chess.White
	}
	count := 0
	for _, piece := range p.pos.Board().SquareMap() {
		if piece.Type() == notnilTypes[pt] && piece.Color() == color {
			count++
		}
	}
	return count
}

func (p *notnilPosition) FEN() string { return p.pos.String() }
