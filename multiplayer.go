package main

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/imjasonh/chessrelay/chess"
	"github.com/imjasonh/chessrelay/relay"
)

// Player is one SSH session in the lobby or in a game.
type Player struct {
	ID      string
	Name    string
	Color   chess.Side
	GameID  string
	Conn    relay.Conn       // the player's end of the move relay
	Updates chan GameUpdate // lobby notifications for the player's model

	relayEnd relay.Conn
	gone     bool
}

type updateType string

const (
	updateQueued       updateType = "queued"
	updateMatched      updateType = "matched"
	updateOpponentLeft updateType = "opponent_disconnected"
)

// GameUpdate is a lobby notification. Moves never travel this way; they go
// over Player.Conn as wire lines.
type GameUpdate struct {
	Type     updateType
	GameID   string
	Color    chess.Side
	Opponent string
	Position int // queue position for updateQueued, 1-based
}

// GameSession is a running relay between two players.
type GameSession struct {
	ID    string
	White *Player
	Black *Player

	cancel context.CancelFunc
}

// GameManager queues SSH players and pairs them in arrival order. The earlier
// player of each pair gets White.
type GameManager struct {
	ctx    context.Context
	logger *log.Logger

	mu           sync.Mutex
	players      map[string]*Player
	playerQueue  []*Player
	activeGames  map[string]*GameSession
	playerToGame map[string]string // playerID -> gameID
	gameCounter  int
	playerCount  int
	wg           sync.WaitGroup
}

// NewGameManager returns a manager whose relays stop when ctx is done.
func NewGameManager(ctx context.Context, logger *log.Logger) *GameManager {
	return &GameManager{
		ctx:          ctx,
		logger:       logger,
		players:      make(map[string]*Player),
		activeGames:  make(map[string]*GameSession),
		playerToGame: make(map[string]string),
	}
}

// AddPlayer queues a new player and starts a game if someone is waiting.
func (gm *GameManager) AddPlayer(name string) *Player {
	client, server := net.Pipe()

	gm.mu.Lock()
	defer gm.mu.Unlock()

	gm.playerCount++
	player := &Player{
		ID:       fmt.Sprintf("player_%d", gm.playerCount),
		Name:     name,
		Conn:     relay.NewStreamConn(client),
		Updates:  make(chan GameUpdate, 10),
		relayEnd: relay.NewStreamConn(server),
	}
	gm.players[player.ID] = player
	gm.playerQueue = append(gm.playerQueue, player)
	gm.logger.Info("player joined", "player", player.ID, "name", name)

	if len(gm.playerQueue) < 2 {
		gm.notify(player, GameUpdate{Type: updateQueued, Position: len(gm.playerQueue)})
		return player
	}

	white, black := gm.playerQueue[0], gm.playerQueue[1]
	gm.playerQueue = gm.playerQueue[2:]
	gm.startGame(white, black)
	gm.notifyQueue()
	return player
}

// startGame must be called with gm.mu held.
func (gm *GameManager) startGame(white, black *Player) {
	gm.gameCounter++
	id := fmt.Sprintf("game_%d", gm.gameCounter)
	ctx, cancel := context.WithCancel(gm.ctx)

	session := &GameSession{ID: id, White: white, Black: black, cancel: cancel}
	white.Color, white.GameID = chess.White, id
	black.Color, black.GameID = chess.Black, id
	gm.activeGames[id] = session
	gm.playerToGame[white.ID] = id
	gm.playerToGame[black.ID] = id

	logger := gm.logger.With("game", id)
	logger.Info("players matched", "white", white.Name, "black", black.Name)

	gm.notify(white, GameUpdate{Type: updateMatched, GameID: id, Color: chess.White, Opponent: black.Name})
	gm.notify(black, GameUpdate{Type: updateMatched, GameID: id, Color: chess.Black, Opponent: white.Name})

	gm.wg.Go(func() {
		defer cancel()
		if err := relay.Pair(ctx, white.relayEnd, black.relayEnd); err != nil && ctx.Err() == nil {
			logger.Warn("relay failed", "err", err)
		}
		gm.endGame(id)
		logger.Info("game closed")
	})
}

func (gm *GameManager) endGame(id string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	session, ok := gm.activeGames[id]
	if !ok {
		return
	}
	delete(gm.activeGames, id)
	delete(gm.playerToGame, session.White.ID)
	delete(gm.playerToGame, session.Black.ID)
}

// RemovePlayer drops a player from the queue or its game. The opponent, if
// any, is told and the game's relay closes.
func (gm *GameManager) RemovePlayer(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	player, ok := gm.players[playerID]
	if !ok {
		return
	}
	delete(gm.players, playerID)
	defer gm.release(player)

	for i, p := range gm.playerQueue {
		if p.ID == playerID {
			gm.playerQueue = append(gm.playerQueue[:i], gm.playerQueue[i+1:]...)
			gm.notifyQueue()
			return
		}
	}

	if gameID, ok := gm.playerToGame[playerID]; ok {
		session := gm.activeGames[gameID]
		opponent := session.White
		if opponent.ID == playerID {
			opponent = session.Black
		}
		gm.notify(opponent, GameUpdate{Type: updateOpponentLeft, GameID: gameID, Opponent: player.Name})
		session.cancel()
	}
}

// release must be called with gm.mu held.
func (gm *GameManager) release(p *Player) {
	if p.gone {
		return
	}
	p.gone = true
	p.Conn.Close()
	p.relayEnd.Close()
	close(p.Updates)
	gm.logger.Info("player left", "player", p.ID, "name", p.Name)
}

// notify drops the update if the player's channel is full. It must be called
// with gm.mu held.
func (gm *GameManager) notify(p *Player, u GameUpdate) {
	if p.gone {
		return
	}
	select {
	case p.Updates <- u:
	default:
		gm.logger.Debug("update channel full, dropping", "player", p.ID, "type", u.Type)
	}
}

func (gm *GameManager) notifyQueue() {
	for i, p := range gm.playerQueue {
		gm.notify(p, GameUpdate{Type: updateQueued, Position: i + 1})
	}
}

// Wait blocks until every relay started by the manager has ended.
func (gm *GameManager) Wait() {
	gm.wg.Wait()
}
