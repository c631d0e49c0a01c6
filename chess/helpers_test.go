package chess

import (
	"slices"
	"testing"
)

func at(t *testing.T, name string) Square {
	t.Helper()
	sq, ok := ParseSquareName(name)
	if !ok {
		t.Fatalf("bad square name %q", name)
	}
	return sq
}

func mustFEN(t *testing.T, fen string) *Game {
	t.Helper()
	g, err := NewGameFromFEN(fen)
	if err != nil {
		t.Fatalf("NewGameFromFEN(%q): %v", fen, err)
	}
	return g
}

// play commits moves written as "e2e4" for alternating sides.
func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		if _, err := g.Move(at(t, mv[:2]), at(t, mv[2:4])); err != nil {
			t.Fatalf("move %s: %v\n%s", mv, err, g.FEN())
		}
	}
}

func names(sqs []Square) []string {
	out := make([]string, 0, len(sqs))
	for _, sq := range sqs {
		out = append(out, sq.Name())
	}
	slices.Sort(out)
	return out
}

func candidateNames(cs []Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.From.Name()+c.To.Name())
	}
	slices.Sort(out)
	return out
}
