package relay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// Conn is one end of a line-oriented connection. Lines never include the
// terminator. ReadLine returns io.EOF once the peer has hung up cleanly.
//
// ReadLine must not be called concurrently with itself; WriteLine and Close
// are safe to call from any goroutine.
type Conn interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
}

type streamConn struct {
	rwc io.ReadWriteCloser
	r   *bufio.Reader

	mu sync.Mutex // serializes writes
}

// NewStreamConn frames lines with '\n' over a byte stream such as a TCP
// connection or one end of a net.Pipe. A trailing '\r' is stripped.
func NewStreamConn(rwc io.ReadWriteCloser) Conn {
	return &streamConn{rwc: rwc, r: bufio.NewReader(rwc)}
}

func (c *streamConn) ReadLine() (string, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		// A final unterminated line is still delivered; EOF follows on the next call.
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *streamConn) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.rwc, line+"\n")
	return err
}

func (c *streamConn) Close() error { return c.rwc.Close() }

type wsConn struct {
	ws *websocket.Conn

	mu sync.Mutex // gorilla allows one concurrent writer
}

// NewWebsocketConn carries one line per websocket text frame.
func NewWebsocketConn(ws *websocket.Conn) Conn {
	return &wsConn{ws: ws}
}

// DialWebsocket connects to a websocket relay endpoint such as
// ws://host:8080/relay.
func DialWebsocket(ctx context.Context, url string) (Conn, error) {
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dialing %s: %s: %w", url, resp.Status, err)
		}
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return NewWebsocketConn(ws), nil
}

func (c *wsConn) ReadLine() (string, error) {
	for {
		typ, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return "", io.EOF
			}
			return "", err
		}
		if typ != websocket.TextMessage {
			continue
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
}

func (c *wsConn) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, []byte(line))
}

// Close sends a close frame when it can, then drops the connection.
func (c *wsConn) Close() error {
	c.mu.Lock()
	_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.mu.Unlock()
	return c.ws.Close()
}
