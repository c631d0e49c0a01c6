package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/imjasonh/chessrelay/relay"
)

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()
	log.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("exiting", "err", err)
		closeLog()
		os.Exit(1)
	}
}

// newLogger writes to stderr for servers. Terminal modes own the screen, so
// their logs go to -log-file or nowhere.
func newLogger(cfg config) (*log.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeLog := func() {}
	if cfg.tui() {
		w = io.Discard
		if cfg.logFile != "" {
			f, err := os.OpenFile(cfg.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
			if err != nil {
				return nil, nil, fmt.Errorf("opening log file: %w", err)
			}
			w = f
			closeLog = func() { f.Close() }
		}
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           cfg.logLevel,
		Prefix:          "chessrelay",
	})
	return logger, closeLog, nil
}

func run(ctx context.Context, cfg config, logger *log.Logger) error {
	switch cfg.mode {
	case modeSSH:
		return runSSHServer(ctx, cfg, logger)
	case modeRelay:
		return runRelay(ctx, cfg, logger)
	case modePlay:
		return runPlay(ctx, cfg, logger)
	case modeHotseat:
		return runTUI(ctx, newHotseatModel(newStyles(lipgloss.DefaultRenderer()), logger))
	}
	return fmt.Errorf("unknown mode %q", cfg.mode)
}

// runPlay joins a relay and plays cfg.color against whoever it pairs us with.
func runPlay(ctx context.Context, cfg config, logger *log.Logger) error {
	conn, err := dialRelay(ctx, cfg.connect)
	if err != nil {
		return err
	}
	defer conn.Close()
	logger.Info("connected to relay", "addr", cfg.connect, "color", cfg.color)

	return runTUI(ctx, newRemoteModel(conn, cfg.color, newStyles(lipgloss.DefaultRenderer()), logger))
}

// dialRelay connects over websocket for ws:// and wss:// addresses and over
// TCP otherwise.
func dialRelay(ctx context.Context, addr string) (relay.Conn, error) {
	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		return relay.DialWebsocket(ctx, addr)
	}
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}
	return relay.NewStreamConn(c), nil
}

func runTUI(ctx context.Context, m model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
