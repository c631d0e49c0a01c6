package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/imjasonh/chessrelay/relay"
	"github.com/imjasonh/chessrelay/wire"
)

// lineMsg is one line received from the opponent.
type lineMsg string

// peerClosedMsg reports that the opponent's connection ended.
type peerClosedMsg struct{ err error }

// sendFailedMsg reports a line that could not be written.
type sendFailedMsg struct {
	line string
	err  error
}

// listen reads the next line from conn. The model re-issues it after every
// lineMsg, so lines are handled one at a time inside Update.
func listen(conn relay.Conn) tea.Cmd {
	return func() tea.Msg {
		line, err := conn.ReadLine()
		if err != nil {
			return peerClosedMsg{err: err}
		}
		return lineMsg(line)
	}
}

// send writes msgs in order from a single command.
func send(conn relay.Conn, msgs ...wire.Message) tea.Cmd {
	return func() tea.Msg {
		for _, m := range msgs {
			line := m.String()
			if err := conn.WriteLine(line); err != nil {
				return sendFailedMsg{line: line, err: err}
			}
		}
		return nil
	}
}

// waitForUpdate returns the next lobby notification, or nil once the
// channel is closed.
func waitForUpdate(updates <-chan GameUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return nil
		}
		return u
	}
}
