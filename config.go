package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/imjasonh/chessrelay/chess"
)

const (
	modeSSH     = "ssh"
	modeRelay   = "relay"
	modePlay    = "play"
	modeHotseat = "hotseat"
)

type config struct {
	mode     string
	sshPort  int
	addr     string // relay TCP listen address
	httpPort string // websocket endpoints; empty disables HTTP
	connect  string // relay to dial in play mode
	color    chess.Side
	local    bool
	hostKey  string
	logLevel log.Level
	logFile  string
}

// parseConfig reads flags from args, falling back to CHESSRELAY_* variables
// (and PORT for the HTTP listener) looked up through getenv.
func parseConfig(args []string, getenv func(string) string, output io.Writer) (config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	envb := func(key string, def bool) bool {
		switch strings.ToLower(strings.TrimSpace(getenv(key))) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
		return def
	}

	fs := flag.NewFlagSet("chessrelay", flag.ContinueOnError)
	fs.SetOutput(output)
	var (
		mode     = fs.String("mode", env("CHESSRELAY_MODE", modeSSH), "what to run: ssh, relay, play or hotseat")
		port     = fs.String("port", env("CHESSRELAY_SSH_PORT", "2222"), "SSH server port")
		addr     = fs.String("addr", env("CHESSRELAY_ADDR", ":5000"), "relay TCP listen address")
		httpPort = fs.String("http", env("PORT", env("CHESSRELAY_HTTP_PORT", "")), "HTTP port for websocket endpoints (disabled when empty)")
		connect  = fs.String("connect", env("CHESSRELAY_CONNECT", ""), "relay to join in play mode: host:port or a ws:// URL")
		color    = fs.String("color", env("CHESSRELAY_COLOR", "white"), "side to play in play mode: white or black")
		local    = fs.Bool("local", envb("CHESSRELAY_LOCAL", false), "use a local host key instead of Secret Manager")
		hostKey  = fs.String("host-key", env("CHESSRELAY_HOST_KEY", ""), "local host key path (default ~/.chessrelay/host_key)")
		level    = fs.String("log-level", env("CHESSRELAY_LOG_LEVEL", "info"), "debug, info, warn or error")
		logFile  = fs.String("log-file", env("CHESSRELAY_LOG_FILE", ""), "log destination for play and hotseat modes")
	)
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	cfg := config{
		mode:     strings.ToLower(*mode),
		addr:     *addr,
		httpPort: *httpPort,
		connect:  *connect,
		local:    *local,
		hostKey:  *hostKey,
		logFile:  *logFile,
	}

	var errs []error
	switch cfg.mode {
	case modeSSH, modeRelay, modePlay, modeHotseat:
	default:
		errs = append(errs, fmt.Errorf("unknown -mode %q", *mode))
	}

	p, err := strconv.Atoi(*port)
	if err != nil || p < 1 || p > 65535 {
		errs = append(errs, fmt.Errorf("invalid -port %q", *port))
	}
	cfg.sshPort = p

	switch strings.ToLower(*color) {
	case "white", "w":
		cfg.color = chess.White
	case "black", "b":
		cfg.color = chess.Black
	default:
		errs = append(errs, fmt.Errorf("invalid -color %q", *color))
	}

	if cfg.logLevel, err = log.ParseLevel(*level); err != nil {
		errs = append(errs, fmt.Errorf("invalid -log-level: %w", err))
	}

	if cfg.mode == modePlay && cfg.connect == "" {
		errs = append(errs, errors.New("-connect is required in play mode"))
	}
	return cfg, errors.Join(errs...)
}

// tui reports whether the mode draws a local terminal UI.
func (c config) tui() bool {
	return c.mode == modePlay || c.mode == modeHotseat
}
