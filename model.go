package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/imjasonh/chessrelay/chess"
	"github.com/imjasonh/chessrelay/relay"
	"github.com/imjasonh/chessrelay/wire"
)

type phase int

const (
	phaseWaiting phase = iota // in the SSH lobby
	phasePlaying
	phaseFinished
	phaseOpponentLeft
)

type styles struct {
	light, dark, cursor, selected, target, lastMove lipgloss.Style

	title, status, notice, help, info lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	square := r.NewStyle().Foreground(lipgloss.Color("#000000"))
	return styles{
		light:    square.Background(lipgloss.Color("#f0d9b5")),
		dark:     square.Background(lipgloss.Color("#b58863")),
		cursor:   square.Background(lipgloss.Color("#e05252")),
		selected: square.Background(lipgloss.Color("#f6f669")),
		target:   square.Background(lipgloss.Color("#68e368")),
		lastMove: square.Background(lipgloss.Color("#cdd26a")),

		title:  r.NewStyle().Bold(true),
		status: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2f2ffb")),
		notice: r.NewStyle().Foreground(lipgloss.Color("#e05252")),
		help:   r.NewStyle().Faint(true),
		info:   r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

// model is the terminal UI for one player, or for both players in hotseat
// mode. Every engine call happens inside Update.
type model struct {
	game   *chess.Game
	logger *log.Logger
	styles styles

	hotseat bool
	color   chess.Side // side played from this terminal, unless hotseat
	conn    relay.Conn
	updates <-chan GameUpdate

	phase     phase
	name      string
	opponent  string
	queuePos  int
	announced *chess.Result // result claimed by the opponent's GAMEOVER

	// Cursor in screen coordinates, row 0 at the top.
	cursorRow, cursorCol int
	selected             *chess.Square
	targets              []chess.Square
	notice               string
}

func initialModel(st styles, logger *log.Logger) model {
	return model{
		game:      chess.NewGame(),
		logger:    logger,
		styles:    st,
		phase:     phasePlaying,
		cursorRow: 6,
		cursorCol: 4,
	}
}

func newHotseatModel(st styles, logger *log.Logger) model {
	m := initialModel(st, logger)
	m.hotseat = true
	return m
}

// newRemoteModel plays color against whoever is on the other end of conn.
func newRemoteModel(conn relay.Conn, color chess.Side, st styles, logger *log.Logger) model {
	m := initialModel(st, logger)
	m.conn = conn
	m.color = color
	return m
}

// newLobbyModel waits for the GameManager to match player before playing.
func newLobbyModel(player *Player, st styles, logger *log.Logger) model {
	m := initialModel(st, logger.With("player", player.ID))
	m.conn = player.Conn
	m.updates = player.Updates
	m.name = player.Name
	m.phase = phaseWaiting
	return m
}

func (m model) Init() tea.Cmd {
	switch {
	case m.updates != nil:
		// Lines are read once the match is announced.
		return waitForUpdate(m.updates)
	case m.conn != nil:
		return listen(m.conn)
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case lineMsg:
		if m.conn == nil {
			return m, nil
		}
		m.handleLine(string(msg))
		return m, listen(m.conn)

	case peerClosedMsg:
		if m.conn == nil {
			return m, nil
		}
		if !errors.Is(msg.err, io.EOF) {
			m.logger.Warn("connection to opponent lost", "err", msg.err)
		}
		m.opponentLeft()
		return m, nil

	case sendFailedMsg:
		m.logger.Error("could not send to opponent", "line", msg.line, "err", msg.err)
		m.opponentLeft()
		return m, nil

	case GameUpdate:
		return m.handleUpdate(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.cursorRow = max(m.cursorRow-1, 0)
	case "down", "j":
		m.cursorRow = min(m.cursorRow+1, 7)
	case "left", "h":
		m.cursorCol = max(m.cursorCol-1, 0)
	case "right", "l":
		m.cursorCol = min(m.cursorCol+1, 7)
	case "esc":
		m.clearSelection()
	case "r":
		if m.canRestart() {
			m.restart()
		}
	case "enter", " ":
		return m.activate()
	}
	return m, nil
}

// activate selects the piece under the cursor, or moves the selected piece
// there.
func (m model) activate() (tea.Model, tea.Cmd) {
	if !m.canMove() {
		return m, nil
	}
	sq := m.cursor()
	piece, occupied := m.game.Board().PieceAt(sq)
	own := occupied && piece.Side == m.game.Turn()

	switch {
	case m.selected == nil:
		if own {
			m.selectSquare(sq)
		}
		return m, nil
	case *m.selected == sq:
		m.clearSelection()
		return m, nil
	case own:
		m.selectSquare(sq)
		return m, nil
	}

	from := *m.selected
	m.clearSelection()
	mv, err := m.game.Move(from, sq)
	if err != nil {
		m.notice = fmt.Sprintf("%s to %s: %v", from.Name(), sq.Name(), err)
		return m, nil
	}
	m.notice = ""
	m.logger.Debug("moved", "piece", mv.Piece, "from", from.Name(), "to", sq.Name())

	out := []wire.Message{wire.Move(from, sq)}
	if res, over := m.game.Result(); over {
		m.phase = phaseFinished
		out = append(out, wire.GameOver(res))
		m.logger.Info("game over", "result", res)
	}
	if m.conn == nil {
		return m, nil
	}
	return m, send(m.conn, out...)
}

// handleLine applies one line from the opponent. Anything that does not
// parse, or that the local engine rejects, is logged and dropped.
func (m *model) handleLine(line string) {
	msg, err := wire.Parse(line)
	if err != nil {
		m.logger.Warn("dropping malformed line", "line", line, "err", err)
		return
	}

	switch msg.Type {
	case wire.TypeMove:
		if m.phase != phasePlaying {
			m.logger.Warn("ignoring move after the game ended", "line", line)
			return
		}
		if m.game.Turn() == m.color {
			m.logger.Warn("opponent moved out of turn", "line", line)
			return
		}
		mv, err := m.game.Move(msg.From, msg.To)
		if err != nil {
			m.logger.Warn("rejected move from opponent", "line", line, "err", err)
			return
		}
		m.logger.Debug("opponent moved", "piece", mv.Piece, "from", msg.From.Name(), "to", msg.To.Name())
		m.notice = ""
		if res, over := m.game.Result(); over {
			m.phase = phaseFinished
			m.logger.Info("game over", "result", res)
		}

	case wire.TypeGameOver:
		res := msg.Result
		if local, over := m.game.Result(); !over || local != res {
			m.logger.Warn("opponent announced a result the board does not show", "announced", res, "state", m.game.State())
		}
		m.announced = &res
		m.phase = phaseFinished
		m.clearSelection()
	}
}

func (m model) handleUpdate(u GameUpdate) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForUpdate(m.updates)}
	switch u.Type {
	case updateQueued:
		m.queuePos = u.Position
	case updateMatched:
		m.phase = phasePlaying
		m.color = u.Color
		m.opponent = u.Opponent
		m.queuePos = 0
		m.logger.Info("matched", "game", u.GameID, "color", u.Color, "opponent", u.Opponent)
		cmds = append(cmds, listen(m.conn))
	case updateOpponentLeft:
		m.opponentLeft()
	}
	return m, tea.Batch(cmds...)
}

func (m model) canRestart() bool {
	return m.hotseat || m.phase == phaseFinished || m.phase == phaseOpponentLeft
}

// restart starts a fresh game. A networked game continues as a hotseat game
// on this terminal, and the connection to the opponent is closed.
func (m *model) restart() {
	if !m.hotseat {
		if m.conn != nil {
			m.conn.Close()
			m.conn = nil
		}
		m.hotseat = true
		m.logger.Info("restarted as a local game")
	}
	m.game.Reset()
	m.clearSelection()
	m.announced = nil
	m.phase = phasePlaying
	m.notice = ""
}

func (m *model) opponentLeft() {
	if m.hotseat {
		return
	}
	if m.phase == phasePlaying || m.phase == phaseWaiting {
		m.phase = phaseOpponentLeft
	}
	m.clearSelection()
}

func (m model) canMove() bool {
	return m.phase == phasePlaying && (m.hotseat || m.game.Turn() == m.color)
}

func (m *model) selectSquare(sq chess.Square) {
	m.selected = &sq
	m.targets = m.game.LegalMovesFrom(sq)
}

func (m *model) clearSelection() {
	m.selected = nil
	m.targets = nil
}

// flipped reports whether the board is drawn from Black's side.
func (m model) flipped() bool {
	return !m.hotseat && m.color == chess.Black
}

// squareAt maps screen coordinates to a board square.
func (m model) squareAt(row, col int) chess.Square {
	if m.flipped() {
		return chess.Sq(7-row, 7-col)
	}
	return chess.Sq(row, col)
}

func (m model) cursor() chess.Square {
	return m.squareAt(m.cursorRow, m.cursorCol)
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.styles.title.Render("chessrelay"))
	s.WriteString("\n")
	s.WriteString(m.styles.status.Render(m.statusLine()))
	s.WriteString("\n")
	if m.notice != "" {
		s.WriteString(m.styles.notice.Render(m.notice))
	}
	s.WriteString("\n\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderBoard(), "   ", m.styles.info.Render(m.infoLines())))
	s.WriteString("\n\n")
	s.WriteString(m.styles.help.Render(m.helpLine()))
	s.WriteString("\n")
	return s.String()
}

func (m model) statusLine() string {
	switch m.phase {
	case phaseWaiting:
		if m.queuePos > 0 {
			return fmt.Sprintf("Waiting for an opponent... (position %d in queue)", m.queuePos)
		}
		return "Waiting for an opponent..."
	case phaseOpponentLeft:
		return "Your opponent left the game."
	case phaseFinished:
		return m.resultLine()
	}

	var turn string
	switch {
	case m.hotseat:
		turn = m.game.Turn().String() + " to move"
	case m.game.Turn() == m.color:
		turn = "Your move"
	default:
		turn = "Waiting for " + m.opponentName() + " to move"
	}
	if m.game.State() == chess.Check {
		return "Check! " + turn
	}
	return turn
}

func (m model) resultLine() string {
	res, ok := m.game.Result()
	if m.announced != nil {
		res, ok = *m.announced, true
	}
	if !ok {
		return "Game over"
	}
	if _, decisive := res.Winner(); decisive {
		return "Checkmate! " + res.String()
	}
	return "Stalemate! " + res.String()
}

func (m model) opponentName() string {
	if m.opponent != "" {
		return m.opponent
	}
	return "opponent"
}

func (m model) renderBoard() string {
	var files strings.Builder
	files.WriteString("  ")
	for col := range 8 {
		files.WriteString(fmt.Sprintf(" %c ", 'a'+m.squareAt(0, col).Col))
	}

	lines := []string{files.String()}
	for row := range 8 {
		rank := 8 - m.squareAt(row, 0).Row
		var line strings.Builder
		line.WriteString(fmt.Sprintf("%d ", rank))
		for col := range 8 {
			sq := m.squareAt(row, col)
			cell := "   "
			if p, ok := m.game.Board().PieceAt(sq); ok {
				cell = " " + p.Glyph() + " "
			}
			line.WriteString(m.squareStyle(sq, row, col).Render(cell))
		}
		line.WriteString(fmt.Sprintf(" %d", rank))
		lines = append(lines, line.String())
	}
	lines = append(lines, files.String())
	return strings.Join(lines, "\n")
}

func (m model) squareStyle(sq chess.Square, row, col int) lipgloss.Style {
	last, hasLast := m.game.LastMove()
	switch {
	case row == m.cursorRow && col == m.cursorCol:
		return m.styles.cursor
	case m.selected != nil && *m.selected == sq:
		return m.styles.selected
	case slices.Contains(m.targets, sq):
		return m.styles.target
	case hasLast && (last.From == sq || last.To == sq):
		return m.styles.lastMove
	case (sq.Row+sq.Col)%2 == 0:
		return m.styles.light
	}
	return m.styles.dark
}

func (m model) infoLines() string {
	var lines []string
	if m.hotseat {
		lines = append(lines, "Hotseat game")
	} else {
		you := m.color.String()
		if m.name != "" {
			you = fmt.Sprintf("%s (%s)", m.name, m.color)
		}
		lines = append(lines, "You: "+you)
		if m.phase != phaseWaiting {
			lines = append(lines, "Opponent: "+m.opponentName())
		}
	}
	lines = append(lines, "Turn: "+m.game.Turn().String(), "")

	sq := m.cursor()
	if p, ok := m.game.Board().PieceAt(sq); ok {
		lines = append(lines, fmt.Sprintf("Cursor: %s %s", sq.Name(), p))
	} else {
		lines = append(lines, "Cursor: "+sq.Name())
	}

	if m.selected != nil {
		p, _ := m.game.Board().PieceAt(*m.selected)
		lines = append(lines, fmt.Sprintf("Selected: %s %s", m.selected.Name(), p))
		names := make([]string, 0, len(m.targets))
		for _, t := range m.targets {
			names = append(names, t.Name())
		}
		if len(names) > 8 {
			names = append(names[:8], fmt.Sprintf("+%d", len(m.targets)-8))
		}
		lines = append(lines, "Moves: "+strings.Join(names, " "))
	}

	if last, ok := m.game.LastMove(); ok {
		lines = append(lines, "", fmt.Sprintf("Last move: %s-%s", last.From.Name(), last.To.Name()))
	}
	return strings.Join(lines, "\n")
}

func (m model) helpLine() string {
	help := "arrows/hjkl move • enter/space select • esc deselect • q quit"
	if m.canRestart() {
		help += " • r restart"
	}
	return help
}
