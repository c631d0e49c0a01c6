package chess

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCastling(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want []string // castling destinations offered to the king on e1
	}{
		{"both sides", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", []string{"c1", "g1"}},
		{"kingside right lost", "r3k2r/8/8/8/8/8/8/R3K2R w Qkq - 0 1", []string{"c1"}},
		{"pieces in between", "r3k2r/8/8/8/8/8/8/RN2K1NR w KQkq - 0 1", []string{}},
		{"queenside knight on b1 blocks", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", []string{"g1"}},
		{"king in check", "4k3/4r3/8/8/8/8/8/R3K2R w KQ - 0 1", []string{}},
		{"passing square attacked", "4kr2/8/8/8/8/8/8/R3K2R w KQ - 0 1", []string{"c1"}},
		{"landing square attacked", "4k1r1/8/8/8/8/8/8/R3K2R w KQ - 0 1", []string{"c1"}},
		{"b1 attack does not matter", "1r2k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", []string{"c1", "g1"}},
		{"d1 attack blocks queenside", "3rk3/8/8/8/8/8/8/R3K2R w KQ - 0 1", []string{"g1"}},
		{"rook missing", "4k3/8/8/8/8/8/8/4K2R w KQ - 0 1", []string{"g1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustFEN(t, tt.fen)
			var got []string
			for _, to := range g.Board().LegalMovesFrom(at(t, "e1")) {
				if to.Col == 2 || to.Col == 6 {
					got = append(got, to.Name())
				}
			}
			slices.Sort(got)
			if got == nil {
				got = []string{}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("castling moves mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCastlingMovesRook(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		rookFrom string
		rookTo   string
		rights   CastlingRights
	}{
		{"white kingside", "e1", "g1", "h1", "f1", CastlingRights{KingMoved: true, KingsideRookMoved: true}},
		{"white queenside", "e1", "c1", "a1", "d1", CastlingRights{KingMoved: true, QueensideRookMoved: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
			m, err := g.Move(at(t, tt.from), at(t, tt.to))
			if err != nil {
				t.Fatalf("castle: %v", err)
			}
			if !m.Castle {
				t.Error("move not reported as castling")
			}
			b := g.Board()
			if p, ok := b.PieceAt(at(t, tt.to)); !ok || p != (Piece{King, White}) {
				t.Errorf("king not on %s", tt.to)
			}
			if p, ok := b.PieceAt(at(t, tt.rookTo)); !ok || p != (Piece{Rook, White}) {
				t.Errorf("rook not on %s:\n%s", tt.rookTo, g.FEN())
			}
			if _, ok := b.PieceAt(at(t, tt.rookFrom)); ok {
				t.Errorf("%s not vacated", tt.rookFrom)
			}
			if got := b.CastlingRights(White); got != tt.rights {
				t.Errorf("rights = %+v, want %+v", got, tt.rights)
			}
			if got := b.CastlingRights(Black); got != (CastlingRights{}) {
				t.Errorf("black rights changed: %+v", got)
			}
		})
	}

	t.Run("black kingside", func(t *testing.T) {
		g := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1")
		play(t, g, "e8g8")
		if p, _ := g.Board().PieceAt(at(t, "f8")); p != (Piece{Rook, Black}) {
			t.Errorf("black rook not on f8:\n%s", g.FEN())
		}
	})
}

func TestKingMoveRevokesCastlingForever(t *testing.T) {
	g := mustFEN(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1")
	play(t, g, "e1f1", "a7a6", "f1e1", "a6a5")

	got := names(g.Board().LegalMovesFrom(at(t, "e1")))
	if diff := cmp.Diff([]string{"d1", "f1"}, got); diff != "" {
		t.Errorf("king moves after returning home (-want +got):\n%s", diff)
	}
	if !g.Board().CastlingRights(White).KingMoved {
		t.Error("KingMoved reset")
	}
}

func TestRookMoveRevokesOneSide(t *testing.T) {
	g := mustFEN(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1")
	play(t, g, "h1g1", "a7a6", "g1h1", "a6a5")

	rights := g.Board().CastlingRights(White)
	if !rights.KingsideRookMoved || rights.QueensideRookMoved || rights.KingMoved {
		t.Fatalf("rights = %+v", rights)
	}
	got := names(g.Board().LegalMovesFrom(at(t, "e1")))
	if diff := cmp.Diff([]string{"c1", "d1", "f1"}, got); diff != "" {
		t.Errorf("king moves (-want +got):\n%s", diff)
	}
}

func TestCapturedRookRevokesCastling(t *testing.T) {
	g := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	play(t, g, "a1a8")
	if !g.Board().CastlingRights(Black).QueensideRookMoved {
		t.Error("capture on a8 left black queenside castling")
	}
	if !g.Board().CastlingRights(White).QueensideRookMoved {
		t.Error("rook leaving a1 left white queenside castling")
	}
}

func TestEnPassant(t *testing.T) {
	g := NewGame()
	play(t, g, "h2h3", "d7d5", "h3h4", "d5d4", "e2e4")

	b := g.Board()
	target, ok := b.EnPassantTarget()
	if !ok || target.Name() != "e3" {
		t.Fatalf("EnPassantTarget() = %v, %v; want e3", target.Name(), ok)
	}
	if !slices.Contains(g.LegalMovesFrom(at(t, "d4")), at(t, "e3")) {
		t.Fatalf("d4xe3 en passant missing:\n%s", g.FEN())
	}

	m, err := g.Move(at(t, "d4"), at(t, "e3"))
	if err != nil {
		t.Fatal(err)
	}
	if !m.EnPassant || !m.Capture || m.Captured != (Piece{Pawn, White}) {
		t.Errorf("move = %+v, want en passant capture of a white pawn", m)
	}
	if _, ok := b.PieceAt(at(t, "e4")); ok {
		t.Error("captured pawn still on e4")
	}
	if p, _ := b.PieceAt(at(t, "e3")); p != (Piece{Pawn, Black}) {
		t.Error("capturing pawn not on e3")
	}
	if _, ok := b.EnPassantTarget(); ok {
		t.Error("en passant target survived the capture")
	}
}

func TestEnPassantExpires(t *testing.T) {
	g := NewGame()
	play(t, g, "h2h3", "d7d5", "h3h4", "d5d4", "e2e4", "a7a6", "g2g3")

	if _, ok := g.Board().EnPassantTarget(); ok {
		t.Fatal("en passant target survived two moves")
	}
	if slices.Contains(g.LegalMovesFrom(at(t, "d4")), at(t, "e3")) {
		t.Fatal("en passant still offered after an intervening move")
	}
	if _, err := g.Move(at(t, "d4"), at(t, "e3")); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("late en passant: err = %v, want ErrIllegalMove", err)
	}
}

func TestEnPassantOnlyFromAdjacentColumn(t *testing.T) {
	g := NewGame()
	play(t, g, "h2h3", "b7b5", "h3h4", "b5b4", "e2e4")
	for _, sq := range g.Board().Squares(Black) {
		if slices.Contains(g.LegalMovesFrom(sq), at(t, "e3")) {
			t.Errorf("%s can reach e3", sq.Name())
		}
	}
}

func TestPromotion(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		from, to string
		want     Piece
	}{
		{"white advance", "8/P6k/8/8/8/8/8/K7 w - - 0 1", "a7", "a8", Piece{Queen, White}},
		{"white capture", "1r5k/P7/8/8/8/8/8/K7 w - - 0 1", "a7", "b8", Piece{Queen, White}},
		{"black advance", "k7/8/8/8/8/8/p7/7K b - - 0 1", "a2", "a1", Piece{Queen, Black}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustFEN(t, tt.fen)
			m, err := g.Move(at(t, tt.from), at(t, tt.to))
			if err != nil {
				t.Fatal(err)
			}
			if !m.Promotion {
				t.Error("move not reported as promotion")
			}
			if p, _ := g.Board().PieceAt(at(t, tt.to)); p != tt.want {
				t.Errorf("promoted to %v, want %v", p, tt.want)
			}
		})
	}
}

func TestMovePieceRejectsWithoutMutation(t *testing.T) {
	tests := []struct {
		name     string
		from, to Square
		side     Side
		want     error
	}{
		{"empty origin", Sq(4, 4), Sq(3, 4), White, ErrNoPiece},
		{"opponent piece", Sq(1, 4), Sq(3, 4), White, ErrNoPiece},
		{"off board origin", Sq(-1, 4), Sq(3, 4), White, ErrNoPiece},
		{"off board target", Sq(6, 0), Sq(9, 0), White, ErrIllegalMove},
		{"pawn triple step", Sq(6, 4), Sq(3, 4), White, ErrIllegalMove},
		{"bishop through pawn", Sq(7, 2), Sq(5, 4), White, ErrIllegalMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard()
			before := b
			_, err := b.MovePiece(tt.from, tt.to, tt.side)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if b != before {
				t.Fatalf("rejected move changed the board:\n%s", b.FEN(White))
			}
		})
	}
}

func TestMovePieceIntoCheckRejected(t *testing.T) {
	b, _, err := ParseFEN("4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	before := b
	if _, err := b.MovePiece(Sq(6, 4), Sq(5, 3), White); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("err = %v, want ErrIllegalMove", err)
	}
	if b != before {
		t.Fatal("rejected move changed the board")
	}
}
