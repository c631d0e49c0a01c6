package main

import (
	"errors"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/imjasonh/chessrelay/chess"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil, envMap(nil), io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.mode != modeSSH || cfg.sshPort != 2222 || cfg.addr != ":5000" || cfg.httpPort != "" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.color != chess.White || cfg.local || cfg.logLevel != log.InfoLevel {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestParseConfigEnvFallbacks(t *testing.T) {
	env := envMap(map[string]string{
		"CHESSRELAY_MODE":      "play",
		"CHESSRELAY_CONNECT":   "ws://example.com/relay",
		"CHESSRELAY_COLOR":     "black",
		"CHESSRELAY_LOCAL":     "yes",
		"CHESSRELAY_LOG_LEVEL": "debug",
		"PORT":                 "8080",
	})
	cfg, err := parseConfig(nil, env, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.mode != modePlay || cfg.connect != "ws://example.com/relay" || cfg.color != chess.Black {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.local || cfg.logLevel != log.DebugLevel || cfg.httpPort != "8080" {
		t.Errorf("cfg = %+v", cfg)
	}

	// Flags win over the environment.
	cfg, err = parseConfig([]string{"-mode", "hotseat", "-color", "white"}, env, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.mode != modeHotseat || cfg.color != chess.White {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"mode", []string{"-mode", "tournament"}, "unknown -mode"},
		{"port", []string{"-port", "70000"}, "invalid -port"},
		{"port text", []string{"-port", "ssh"}, "invalid -port"},
		{"color", []string{"-color", "red"}, "invalid -color"},
		{"level", []string{"-log-level", "loud"}, "invalid -log-level"},
		{"play without relay", []string{"-mode", "play"}, "-connect is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(tt.args, envMap(nil), io.Discard)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestParseConfigHelp(t *testing.T) {
	if _, err := parseConfig([]string{"-h"}, envMap(nil), io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("err = %v, want flag.ErrHelp", err)
	}
}
