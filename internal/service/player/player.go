package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sharetube/playback/internal/domain"
	"github.com/sharetube/playback/internal/playback"
	"github.com/sharetube/playback/internal/repository/player"
	"github.com/sharetube/playback/pkg/wsrouter"
)

type PlayerResponse struct {
	PlayerID string             `json:"player_id"`
	State    domain.PlayerState `json:"state"`
}

type CreatePlayerParams struct {
	Conn                 *wsrouter.Conn
	Options              domain.Options
	OrientationSupported bool
}

func (s *service) CreatePlayer(ctx context.Context, params *CreatePlayerParams) (PlayerResponse, error) {
	playerID := uuid.NewString()
	ctx = withPlayerID(ctx, playerID)

	state := domain.NewPlayerState(params.Options)
	if err := s.playerRepo.CreatePlayer(ctx, &player.CreatePlayerParams{
		PlayerID: playerID,
		Snapshot: player.Snapshot{
			Volume:          state.Volume,
			Muted:           state.Muted,
			Autoplay:        state.Options.Autoplay,
			AutoAdvance:     state.Options.AutoAdvance,
			LockOrientation: state.Options.LockOrientation,
			Orientation:     state.Options.Orientation,
			QueueIndex:      -1,
		},
		UpdatedAt: unixMilli(),
	}); err != nil {
		return PlayerResponse{}, fmt.Errorf("failed to create player: %w", err)
	}

	if err := s.connRepo.Add(params.Conn, playerID); err != nil {
		return PlayerResponse{}, fmt.Errorf("failed to add conn: %w", err)
	}

	sessCtx := sessionCtx(ctx, playerID)
	sess := s.newSession(sessCtx, playerID, params.Conn, state, params.OrientationSupported)
	sess.stop = append(sess.stop, s.persist(sessCtx, sess))
	s.register(ctx, sess)

	s.logger.InfoContext(ctx, "player created")

	return PlayerResponse{PlayerID: playerID, State: sess.player.State()}, nil
}

type ResumePlayerParams struct {
	PlayerID             string
	Conn                 *wsrouter.Conn
	OrientationSupported bool
}

// ResumePlayer rebuilds a player from its snapshot. A player still served
// by another connection is taken over.
func (s *service) ResumePlayer(ctx context.Context, params *ResumePlayerParams) (PlayerResponse, error) {
	ctx = withPlayerID(ctx, params.PlayerID)

	snapshot, err := s.playerRepo.GetPlayer(ctx, params.PlayerID)
	if err != nil {
		if errors.Is(err, player.ErrPlayerNotFound) {
			return PlayerResponse{}, ErrPlayerNotFound
		}
		return PlayerResponse{}, fmt.Errorf("failed to get player: %w", err)
	}

	queue, err := s.playerRepo.GetQueue(ctx, params.PlayerID)
	if err != nil {
		return PlayerResponse{}, fmt.Errorf("failed to get queue: %w", err)
	}

	if old := s.unregister(params.PlayerID); old != nil {
		s.logger.InfoContext(ctx, "player taken over by a new connection")
		old.close(ctx)
		if err := s.connRepo.RemoveByPlayerID(params.PlayerID); err != nil {
			s.logger.DebugContext(ctx, "failed to remove old conn", "error", err)
		}
		old.conn.Close()
	}

	if err := s.connRepo.Add(params.Conn, params.PlayerID); err != nil {
		return PlayerResponse{}, fmt.Errorf("failed to add conn: %w", err)
	}

	state := domain.NewPlayerState(domain.Options{
		Autoplay:        snapshot.Autoplay,
		AutoAdvance:     snapshot.AutoAdvance,
		LockOrientation: snapshot.LockOrientation,
		Orientation:     snapshot.Orientation,
	})
	state.Volume = snapshot.Volume
	state.Muted = snapshot.Muted

	sessCtx := sessionCtx(ctx, params.PlayerID)
	sess := s.newSession(sessCtx, params.PlayerID, params.Conn, state, params.OrientationSupported)
	if len(queue) > 0 {
		sess.player.SetQueue(sessCtx, queue, snapshot.QueueIndex)
	}
	sess.player.SetShuffle(snapshot.Shuffle)
	sess.stop = append(sess.stop, s.persist(sessCtx, sess))
	s.register(ctx, sess)

	s.logger.InfoContext(ctx, "player resumed", "queue_len", len(queue))

	return PlayerResponse{PlayerID: params.PlayerID, State: sess.player.State()}, nil
}

// GetPlayer returns the live player served under playerID.
func (s *service) GetPlayer(playerID string) (*playback.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	return sess.player, nil
}

type DisconnectPlayerParams struct {
	PlayerID string
	Conn     *wsrouter.Conn
}

// DisconnectPlayer stops the live player but keeps its snapshot for a later
// resume. It does nothing when the player was already taken over.
func (s *service) DisconnectPlayer(ctx context.Context, params *DisconnectPlayerParams) error {
	s.mu.Lock()
	sess, ok := s.sessions[params.PlayerID]
	if !ok || sess.conn != params.Conn {
		s.mu.Unlock()
		return nil
	}
	delete(s.sessions, params.PlayerID)
	s.mu.Unlock()

	sess.close(ctx)

	if err := s.connRepo.RemoveByPlayerID(params.PlayerID); err != nil {
		return fmt.Errorf("failed to remove conn: %w", err)
	}

	s.logger.InfoContext(ctx, "player disconnected")

	return nil
}

// RemovePlayer stops the player and drops its snapshot.
func (s *service) RemovePlayer(ctx context.Context, playerID string) error {
	if sess := s.unregister(playerID); sess != nil {
		sess.close(ctx)
		if err := s.connRepo.RemoveByPlayerID(playerID); err != nil {
			s.logger.DebugContext(ctx, "failed to remove conn", "error", err)
		}
	}

	if err := s.playerRepo.RemovePlayer(ctx, playerID); err != nil {
		if errors.Is(err, player.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to remove player: %w", err)
	}

	return nil
}

func (s *service) register(ctx context.Context, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.id] = sess
	s.logger.DebugContext(ctx, "session registered", "sessions", len(s.sessions))
}

func (s *service) unregister(playerID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[playerID]
	if !ok {
		return nil
	}
	delete(s.sessions, playerID)

	return sess
}

func unixMilli() int64 {
	return time.Now().UnixMilli()
}
