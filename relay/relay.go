// Package relay pairs connections two at a time and forwards every line one
// peer writes to the other, unchanged. It never parses or validates what it
// carries.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// errHangup ends a forwarding loop when its source hangs up cleanly.
var errHangup = errors.New("peer hung up")

// Pair relays lines between a and b in both directions until either side
// hangs up, a read or write fails, or ctx is done. Both connections are closed
// before Pair returns. A clean hangup by either peer returns nil.
func Pair(ctx context.Context, a, b Conn) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return forward(b, a) })
	g.Go(func() error { return forward(a, b) })
	g.Go(func() error {
		<-gctx.Done()
		a.Close()
		b.Close()
		return nil
	})

	err := g.Wait()
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, errHangup):
		return nil
	}
	return err
}

func forward(dst, src Conn) error {
	for {
		line, err := src.ReadLine()
		if errors.Is(err, io.EOF) {
			return errHangup
		} else if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if err := dst.WriteLine(line); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
}
