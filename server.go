package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/keygen"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/gorilla/websocket"
	sshproxy "github.com/imjasonh/ssh-proxy"
	"golang.org/x/sync/errgroup"

	"github.com/imjasonh/chessrelay/relay"
)

const shutdownTimeout = 30 * time.Second

// hostKeyPEM loads the SSH host key: a local key generated on first use with
// -local, otherwise the Secret Manager version named by SSH_HOST_KEY_SECRET.
func hostKeyPEM(ctx context.Context, cfg config, logger *log.Logger) ([]byte, error) {
	if cfg.local {
		path := cfg.hostKey
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get user home directory: %w", err)
			}
			path = filepath.Join(home, ".chessrelay", "host_key")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create key directory: %w", err)
		}
		kp, err := keygen.New(path, keygen.WithKeyType(keygen.Ed25519), keygen.WithWrite())
		if err != nil {
			return nil, fmt.Errorf("failed to generate/load host key: %w", err)
		}
		logger.Info("running in local mode", "host_key", path)
		return kp.RawPrivateKey(), nil
	}

	name := os.Getenv("SSH_HOST_KEY_SECRET")
	if name == "" {
		return nil, errors.New("SSH_HOST_KEY_SECRET is not set; use -local for a local host key")
	}
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	defer client.Close()
	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return nil, fmt.Errorf("failed to access secret version: %w", err)
	}
	logger.Info("running in cloud mode with Secret Manager")
	return resp.Payload.Data, nil
}

// runSSHServer serves SSH games until ctx is done, plus the websocket
// endpoints when an HTTP port is configured.
func runSSHServer(ctx context.Context, cfg config, logger *log.Logger) error {
	hostKey, err := hostKeyPEM(ctx, cfg, logger)
	if err != nil {
		return err
	}

	gm := NewGameManager(ctx, logger)
	s, err := wish.NewServer(
		wish.WithAddress(fmt.Sprintf(":%d", cfg.sshPort)),
		wish.WithHostKeyPEM(hostKey),
		wish.WithMiddleware(
			bubbletea.Middleware(gm.teaHandler),
			logging.MiddlewareWithLogger(logger),
		),
	)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting SSH chess server", "port", cfg.sshPort)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("stopping SSH server")
		tctx, tcancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer tcancel()
		err := s.Shutdown(tctx)
		gm.Wait()
		return err
	})
	if cfg.httpPort != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/ssh", sshproxy.ProxyWebSocketToSSH(fmt.Sprintf(":%d", cfg.sshPort), websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow connections from any origin for now
			},
		}))
		rs := &relay.Server{Logger: logger.WithPrefix("relay")}
		mux.Handle("/relay", rs.WebsocketHandler(ctx))
		g.Go(func() error { return serveHTTP(ctx, ":"+cfg.httpPort, mux, logger) })
	}
	return g.Wait()
}

func (gm *GameManager) teaHandler(s ssh.Session) (tea.Model, []tea.ProgramOption) {
	player := gm.AddPlayer(s.User())
	go func() {
		<-s.Context().Done()
		gm.RemovePlayer(player.ID)
	}()
	m := newLobbyModel(player, newStyles(bubbletea.MakeRenderer(s)), gm.logger)
	return m, []tea.ProgramOption{tea.WithAltScreen()}
}

// runRelay pairs TCP clients on cfg.addr, and websocket clients on /relay
// when an HTTP port is configured.
func runRelay(ctx context.Context, cfg config, logger *log.Logger) error {
	ln, err := net.Listen("tcp", cfg.addr)
	if err != nil {
		return err
	}
	rs := &relay.Server{Logger: logger}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return rs.Serve(ctx, ln) })
	if cfg.httpPort != "" {
		mux := http.NewServeMux()
		mux.Handle("/relay", rs.WebsocketHandler(ctx))
		g.Go(func() error { return serveHTTP(ctx, ":"+cfg.httpPort, mux, logger) })
	}
	return g.Wait()
}

func serveHTTP(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h}
	stop := context.AfterFunc(ctx, func() {
		tctx, tcancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer tcancel()
		if err := srv.Shutdown(tctx); err != nil {
			logger.Warn("HTTP shutdown", "err", err)
		}
	})
	defer stop()

	logger.Info("starting HTTP server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server: %w", err)
	}
	return nil
}
