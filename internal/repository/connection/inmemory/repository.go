package inmemory

import (
	"log/slog"
	"sync"

	"github.com/sharetube/playback/internal/repository/connection"
	"github.com/sharetube/playback/pkg/wsrouter"
)

// repo tracks the bridge connection of every live player. A player has at
// most one bridge at a time.
type repo struct {
	connList map[*wsrouter.Conn]string
	idList   map[string]*wsrouter.Conn
	mu       sync.RWMutex
	logger   *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		connList: make(map[*wsrouter.Conn]string),
		idList:   make(map[string]*wsrouter.Conn),
		logger:   logger,
	}
}

func (r *repo) Add(conn *wsrouter.Conn, playerID string) error {
	funcName := "connection.inmemory.Add"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "player_id", playerID)
	if r.connList[conn] != "" || r.idList[playerID] != nil {
		r.logger.Info(funcName, "error", connection.ErrAlreadyExists)
		return connection.ErrAlreadyExists
	}

	r.connList[conn] = playerID
	r.idList[playerID] = conn

	return nil
}

// RemoveByPlayerID forgets the player's connection. Closing it is up to
// whoever serves it.
func (r *repo) RemoveByPlayerID(playerID string) error {
	funcName := "connection.inmemory.RemoveByPlayerID"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "player_id", playerID)
	conn, ok := r.idList[playerID]
	if !ok {
		r.logger.Info(funcName, "error", connection.ErrNotFound)
		return connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, playerID)

	return nil
}

func (r *repo) GetPlayerID(conn *wsrouter.Conn) (string, error) {
	funcName := "connection.inmemory.GetPlayerID"
	r.mu.RLock()
	defer r.mu.RUnlock()

	playerID, ok := r.connList[conn]
	if !ok {
		r.logger.Info(funcName, "error", connection.ErrNotFound)
		return "", connection.ErrNotFound
	}

	return playerID, nil
}

func (r *repo) GetConn(playerID string) (*wsrouter.Conn, error) {
	funcName := "connection.inmemory.GetConn"
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.idList[playerID]
	if !ok {
		r.logger.Debug(funcName, "player_id", playerID, "error", connection.ErrNotFound)
		return nil, connection.ErrNotFound
	}

	return conn, nil
}
