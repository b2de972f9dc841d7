// Package chess replays move lists published by game sites and renders them
// in standard algebraic notation.
package chess

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/notnil/chess"
)

var (
	ErrInvalidFEN   = errors.New("invalid FEN")
	ErrIllegalMove  = errors.New("illegal move")
	ErrEmptyMove    = errors.New("empty move")
	coordinateMove  = regexp.MustCompile(`^([a-h][1-8])[-x]?([a-h][1-8])=?([qrbnQRBN])?$`)
	castlingAliases = strings.NewReplacer("0-0-0", "O-O-O", "0-0", "O-O")
)

// Board tracks a position while moves are replayed onto it.
type Board struct {
	pos      *chess.Position
	chess960 bool
	san      []string
}

// NewBoard sets up a board from fen, or from the standard starting position
// when fen is empty. chess960 only records that the start array was
// shuffled; castling follows the rules of the underlying engine.
func NewBoard(fen string, chess960 bool) (*Board, error) {
	b := &Board{pos: chess.StartingPosition(), chess960: chess960}
	if fen = strings.TrimSpace(fen); fen != "" {
		pos := &chess.Position{}
		if err := pos.UnmarshalText([]byte(fen)); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFEN, fen, err)
		}
		b.pos = pos
	}
	return b, nil
}

// Play parses token as a coordinate move (e2e4, e7e8q, e2-e4) or as SAN,
// applies it and returns its SAN rendering.
func (b *Board) Play(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrEmptyMove
	}

	move, err := b.decode(token)
	if err != nil {
		return "", err
	}
	san := chess.AlgebraicNotation{}.Encode(b.pos, move)
	b.pos = b.pos.Update(move)
	b.san = append(b.san, san)
	return san, nil
}

func (b *Board) decode(token string) (*chess.Move, error) {
	if m := coordinateMove.FindStringSubmatch(token); m != nil {
		uci := m[1] + m[2] + strings.ToLower(m[3])
		if decoded, err := (chess.UCINotation{}).Decode(b.pos, uci); err == nil {
			for _, valid := range b.pos.ValidMoves() {
				if valid.S1() == decoded.S1() && valid.S2() == decoded.S2() && valid.Promo() == decoded.Promo() {
					return valid, nil
				}
			}
		}
	}

	move, err := (chess.AlgebraicNotation{}).Decode(b.pos, castlingAliases.Replace(token))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrIllegalMove, token)
	}
	return move, nil
}

// PlayAll replays tokens in order and stops at the first failure.
func (b *Board) PlayAll(tokens []string) error {
	for _, tok := range tokens {
		if _, err := b.Play(tok); err != nil {
			return err
		}
	}
	return nil
}

// MoveText returns the replayed moves in SAN separated by spaces.
func (b *Board) MoveText() string {
	return strings.Join(b.san, " ")
}

// Moves returns the replayed moves in SAN.
func (b *Board) Moves() []string {
	out := make([]string, len(b.san))
	copy(out, b.san)
	return out
}

// FEN returns the current position.
func (b *Board) FEN() string {
	return b.pos.String()
}

// Chess960 reports whether the board was set up from a shuffled array.
func (b *Board) Chess960() bool {
	return b.chess960
}

// Replay is a shortcut that builds a board and plays every token.
func Replay(fen string, chess960 bool, tokens []string) (string, error) {
	b, err := NewBoard(fen, chess960)
	if err != nil {
		return "", err
	}
	if err := b.PlayAll(tokens); err != nil {
		return "", err
	}
	return b.MoveText(), nil
}
