package player

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sharetube/playback/internal/domain"
	"github.com/sharetube/playback/internal/event"
	"github.com/sharetube/playback/internal/orientation"
	"github.com/sharetube/playback/internal/playback"
	"github.com/sharetube/playback/internal/provider"
	"github.com/sharetube/playback/internal/repository/player"
	"github.com/sharetube/playback/internal/store"
	"github.com/sharetube/playback/pkg/ctxlogger"
	"github.com/sharetube/playback/pkg/wsrouter"
	"golang.org/x/exp/slices"
)

// Output is the envelope of every server-sent websocket message.
type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// connBridge delivers provider commands to whatever connection currently
// serves the player.
type connBridge struct {
	connRepo iConnRepo
	playerID string
}

func (b connBridge) Send(_ context.Context, cmd provider.Command) error {
	conn, err := b.connRepo.GetConn(b.playerID)
	if err != nil {
		return fmt.Errorf("failed to get conn: %w", err)
	}

	if err := conn.WriteJSON(&Output{Type: "COMMAND", Payload: cmd}); err != nil {
		return fmt.Errorf("failed to write command: %w", err)
	}

	return nil
}

type session struct {
	id     string
	conn   *wsrouter.Conn
	player *playback.Player
	stop   []func()
}

func (s *service) newSession(ctx context.Context, playerID string, conn *wsrouter.Conn, state domain.PlayerState, orientationSupported bool) *session {
	bridge := connBridge{connRepo: s.connRepo, playerID: playerID}
	logger := s.logger.With("player_id", playerID)

	st := store.New(state)
	p := playback.New(st, playback.Config{
		Deps: provider.Deps{
			Bridge:         bridge,
			Posters:        s.posters,
			Logger:         logger,
			AllowedOrigins: s.cfg.AllowedOrigins,
		},
		Platform:   orientation.NewBridgePlatform(bridge, orientationSupported),
		ClickDelay: s.cfg.ClickDelay,
		Logger:     logger,
	})

	sess := &session{id: playerID, conn: conn, player: p}
	sess.stop = append(sess.stop, s.forwardEvents(ctx, sess))

	return sess
}

// forwardEvents relays every canonical event to the bridge connection so UI
// code in the browser can follow along.
func (s *service) forwardEvents(ctx context.Context, sess *session) func() {
	listeners := make(store.Listeners, len(event.Names))
	for _, name := range event.Names {
		listeners[name] = func(payload any) {
			if err := sess.conn.WriteJSON(&Output{
				Type:    "EVENT",
				Payload: event.Event{Name: name, Payload: payload},
			}); err != nil {
				s.logger.DebugContext(ctx, "failed to forward event", "event", name, "error", err)
			}
		}
	}

	return sess.player.Store().Subscribe(listeners)
}

// persist writes preferences and the queue back to the snapshot whenever
// they change.
func (s *service) persist(ctx context.Context, sess *session) func() {
	return sess.player.Store().OnStateChange(func(prev, next domain.PlayerState) {
		params := player.UpdatePlayerParams{PlayerID: sess.id}
		changed := false

		if prev.Volume != next.Volume {
			params.Volume = &next.Volume
			changed = true
		}
		if prev.Muted != next.Muted {
			params.Muted = &next.Muted
			changed = true
		}
		if prev.Options != next.Options {
			params.Autoplay = &next.Options.Autoplay
			params.AutoAdvance = &next.Options.AutoAdvance
			params.LockOrientation = &next.Options.LockOrientation
			params.Orientation = &next.Options.Orientation
			changed = true
		}
		if prev.Shuffle != next.Shuffle {
			params.Shuffle = &next.Shuffle
			changed = true
		}
		if prev.CuedMedia != next.CuedMedia || prev.QueueIndex != next.QueueIndex {
			index := canonicalIndex(next)
			params.QueueIndex = &index
			changed = true
		}

		if changed {
			params.UpdatedAt = unixMilli()
			if err := s.playerRepo.UpdatePlayer(ctx, &params); err != nil {
				s.logger.WarnContext(ctx, "failed to persist player", "error", err)
			}
		}

		if !slices.EqualFunc(prev.Queue, next.Queue, func(a, b domain.MediaItem) bool { return a.ID == b.ID }) {
			if err := s.playerRepo.SetQueue(ctx, &player.SetQueueParams{
				PlayerID: sess.id,
				Queue:    next.Queue,
			}); err != nil {
				s.logger.WarnContext(ctx, "failed to persist queue", "error", err)
			}
		}
	})
}

// canonicalIndex is the position of the current item in the unshuffled
// queue. Shuffled orders are not persisted.
func canonicalIndex(st domain.PlayerState) int {
	if st.QueueIndex < 0 || st.QueueIndex >= len(st.ActiveQueue()) {
		return -1
	}

	currentID := st.ActiveQueue()[st.QueueIndex].ID

	return slices.IndexFunc(st.Queue, func(item domain.MediaItem) bool {
		return item.ID == currentID
	})
}

func (sess *session) close(ctx context.Context) {
	for _, stop := range sess.stop {
		stop()
	}
	sess.player.Close(ctx)
}

func sessionCtx(ctx context.Context, playerID string) context.Context {
	return context.WithoutCancel(withPlayerID(ctx, playerID))
}

func withPlayerID(ctx context.Context, playerID string) context.Context {
	return ctxlogger.AppendCtx(ctx, slog.String("player_id", playerID))
}
