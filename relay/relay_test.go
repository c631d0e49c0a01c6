package relay

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

// pipePair returns the client ends of two pipes whose server ends are joined
// by Pair. The returned channel yields Pair's result.
func pipePair(t *testing.T, ctx context.Context) (Conn, Conn, <-chan error) {
	t.Helper()
	a, aServer := net.Pipe()
	b, bServer := net.Pipe()
	done := make(chan error, 1)
	go func() { done <- Pair(ctx, NewStreamConn(aServer), NewStreamConn(bServer)) }()
	t.Cleanup(func() {
		a.Close()
		b.Close()
	})
	return NewStreamConn(a), NewStreamConn(b), done
}

func waitErr(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Pair did not return")
		return nil
	}
}

func TestPairForwardsBothWays(t *testing.T) {
	a, b, _ := pipePair(t, context.Background())

	for _, line := range []string{"MOVE 6,4 4,4", "not a move at all", ""} {
		if err := a.WriteLine(line); err != nil {
			t.Fatal(err)
		}
		got, err := b.ReadLine()
		if err != nil {
			t.Fatal(err)
		}
		if got != line {
			t.Errorf("b got %q, want %q", got, line)
		}
	}

	if err := b.WriteLine("GAMEOVER DRAW"); err != nil {
		t.Fatal(err)
	}
	if got, err := a.ReadLine(); err != nil || got != "GAMEOVER DRAW" {
		t.Errorf("a got %q, %v", got, err)
	}
}

func TestPairEndsWhenOneSideHangsUp(t *testing.T) {
	a, b, done := pipePair(t, context.Background())
	a.Close()

	if err := waitErr(t, done); err != nil {
		t.Fatalf("Pair() = %v, want nil after a clean hangup", err)
	}
	if _, err := b.ReadLine(); !errors.Is(err, io.EOF) {
		t.Fatalf("other side read err = %v, want io.EOF", err)
	}
}

func TestPairStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	_, b, done := pipePair(t, ctx)
	cancel()

	if err := waitErr(t, done); !errors.Is(err, context.Canceled) {
		t.Fatalf("Pair() = %v, want context.Canceled", err)
	}
	if _, err := b.ReadLine(); err == nil {
		t.Fatal("read succeeded after cancel")
	}
}

func TestStreamConnFraming(t *testing.T) {
	c := NewStreamConn(nopCloser{strings.NewReader("MOVE 1,1 2,2\r\nGAMEOVER WHITE\nMOVE 0,0 1,1")})
	for _, want := range []string{"MOVE 1,1 2,2", "GAMEOVER WHITE", "MOVE 0,0 1,1"} {
		got, err := c.ReadLine()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("ReadLine() = %q, want %q", got, want)
		}
	}
	if _, err := c.ReadLine(); !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}

type nopCloser struct{ io.Reader }

func (nopCloser) Write(p []byte) (int, error) { return len(p), nil }
func (nopCloser) Close() error                { return nil }
