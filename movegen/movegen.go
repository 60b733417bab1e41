// Package movegen is the boundary between the search and whatever library
// generates legal moves. The search only ever sees Position and Move.
package movegen

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Startpos is the FEN of the standard initial position.
const Startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	ErrUnknownBackend = errors.New("movegen: unknown backend")
	ErrIllegalMove    = errors.New("movegen: illegal move")
)

// PieceType is a colourless piece kind.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// PieceTypes lists every real piece type, pawn first.
var PieceTypes = [6]PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

// Move is a backend-neutral handle on a legal move. The zero value is the
// null move.
type Move struct {
	notation string
	raw      any
}

// NullMove is the "no move" sentinel returned when a position has no legal moves.
var NullMove = Move{}

func newMove(raw any, notation string) Move {
	return Move{notation: notation, raw: raw}
}

// String returns the move in UCI long algebraic notation ("0000" for the null move).
func (m Move) String() string {
	if m.raw == nil {
		return "0000"
	}
	return m.notation
}

func (m Move) IsNull() bool { return m.raw == nil }

// Position is an immutable view of a board. Apply never modifies the
// receiver, so a Position may be shared freely between searches.
type Position interface {
	// LegalMoves returns the legal moves in generation order. The order is
	// stable for a given position and is used for tie-breaking.
	LegalMoves() []Move
	// Apply returns the position reached by playing m, which must be one of
	// LegalMoves() of the same position.
	Apply(m Move) Position
	Hash() uint64
	WhiteToMove() bool
	HalfmoveClock() int
	// Mated reports whether the side to move is checkmated.
	Mated() bool
	PieceCount(white bool, pt PieceType) int
	FEN() string
}

// Backend names a move generator implementation.
type Backend string

const (
	Dragontooth Backend = "dragontooth"
	GooseMG     Backend = "goosemg"
	Notnil      Backend = "notnil"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = Dragontooth

// Backends lists every available backend.
var Backends = []Backend{Dragontooth, GooseMG, Notnil}

// ParseBackend resolves a backend name, case-insensitively.
func ParseBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultBackend, nil
	}
	for _, b := range Backends {
		if string(b) == name {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// FromFEN parses fen with the given backend.
func FromFEN(backend Backend, fen string) (Position, error) {
	Init()
	switch backend {
	case Dragontooth, "":
		return newDragontoothPosition(fen)
	case GooseMG:
		return newGoosePosition(fen)
	case Notnil:
		return newNotnilPosition(fen)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// FindMove looks up the legal move whose UCI notation equals notation.
func FindMove(pos Position, notation string) (Move, error) {
	notation = strings.ToLower(strings.TrimSpace(notation))
	for _, m := range pos.LegalMoves() {
		if m.String() == notation {
			return m, nil
		}
	}
	return NullMove, fmt.Errorf("%w: %s in %s", ErrIllegalMove, notation, pos.FEN())
}

var initOnce sync.Once

// Init performs the one-shot setup of the move generators. The libraries
// build their attack tables at package init; Init forces every backend to
// parse the start position once so a broken table shows up at startup rather
// than inside the first search. Safe to call any number of times.
func Init() {
	initOnce.Do(func() {
		for _, b := range Backends {
			var err error
			switch b {
			case Dragontooth:
				_, err = newDragontoothPosition(Startpos)
			case GooseMG:
				_, err = newGoosePosition(Startpos)
			case Notnil:
				_, err = newNotnilPosition(Startpos)
			}
			if err != nil {
				panic(fmt.Sprintf("movegen: %s backend failed to initialise: %v", b, err))
			}
		}
	})
}

// fenFields splits a FEN and fills in defaults for the optional clocks.
func fenFields(fen string) ([]string, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("movegen: malformed FEN %q", fen)
	}
	if len(fields) == 4 {
		fields = append(fields, "0", "1")
	} else if len(fields) == 5 {
		fields = append(fields, "1")
	}
	return fields[:6], nil
}
