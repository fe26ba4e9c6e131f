package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sharetube/playback/internal/service/player"
	"github.com/sharetube/playback/pkg/ctxlogger"
	"github.com/sharetube/playback/pkg/validator"
	"github.com/sharetube/playback/pkg/wsrouter"
)

func (c controller) createPlayer(w http.ResponseWriter, r *http.Request) {
	opts, err := c.getOptions(r)
	if err != nil {
		c.logger.DebugContext(r.Context(), "invalid player options", "error", err)
		c.writeRequestError(w, err)
		return
	}

	orientationSupported, err := c.getBoolQueryParam(r, "orientation-supported")
	if err != nil {
		c.writeRequestError(w, err)
		return
	}

	wsConn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	conn := wsrouter.NewConn(wsConn)
	defer conn.Close()

	resp, err := c.playerService.CreatePlayer(r.Context(), &player.CreatePlayerParams{
		Conn:                 conn,
		Options:              opts,
		OrientationSupported: orientationSupported,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to create player", "error", err)
		conn.CloseWithCode(4500, "failed to create player")
		return
	}

	c.serve(r.Context(), conn, "PLAYER_CREATED", resp)
}

func (c controller) resumePlayer(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "player-id")
	if playerID == "" {
		c.writeJSON(w, http.StatusNotFound, envelope{"error": "player not found"})
		return
	}

	orientationSupported, err := c.getBoolQueryParam(r, "orientation-supported")
	if err != nil {
		c.writeRequestError(w, err)
		return
	}

	wsConn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	conn := wsrouter.NewConn(wsConn)
	defer conn.Close()

	resp, err := c.playerService.ResumePlayer(r.Context(), &player.ResumePlayerParams{
		PlayerID:             playerID,
		Conn:                 conn,
		OrientationSupported: orientationSupported,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to resume player", "player_id", playerID, "error", err)
		if errors.Is(err, player.ErrPlayerNotFound) {
			conn.CloseWithCode(4404, "player not found")
		} else {
			conn.CloseWithCode(4500, "failed to resume player")
		}
		return
	}

	c.serve(r.Context(), conn, "PLAYER_RESUMED", resp)
}

// serve greets the bridge and runs its message loop until the connection
// drops.
func (c controller) serve(ctx context.Context, conn *wsrouter.Conn, greeting string, resp player.PlayerResponse) {
	ctx = ctxlogger.AppendCtx(ctx, slog.String("player_id", resp.PlayerID))
	defer func() {
		if err := c.playerService.DisconnectPlayer(ctx, &player.DisconnectPlayerParams{
			PlayerID: resp.PlayerID,
			Conn:     conn,
		}); err != nil {
			c.logger.WarnContext(ctx, "failed to disconnect player", "error", err)
		}
	}()

	if err := conn.WriteJSON(&Output{Type: greeting, Payload: resp}); err != nil {
		c.logger.WarnContext(ctx, "failed to write json", "error", err)
		return
	}

	ctx = context.WithValue(ctx, playerIDCtxKey, resp.PlayerID)
	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(ctx, "websocket closed", "error", err)
	}
}

func (c controller) getPoster(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video-id")

	url, err := c.playerService.GetPoster(r.Context(), videoID)
	switch {
	case errors.Is(err, player.ErrInvalidVideoID):
		c.writeJSON(w, http.StatusBadRequest, envelope{"error": err.Error()})
	case errors.Is(err, player.ErrPosterNotFound):
		c.writeJSON(w, http.StatusNotFound, envelope{"error": err.Error()})
	case err != nil:
		c.logger.WarnContext(r.Context(), "failed to get poster", "error", err)
		c.writeJSON(w, http.StatusInternalServerError, envelope{"error": "internal error"})
	default:
		c.writeJSON(w, http.StatusOK, envelope{"data": envelope{"url": url}})
	}
}

func (c controller) writeRequestError(w http.ResponseWriter, err error) {
	var validationErrors validator.Errors
	if errors.As(err, &validationErrors) {
		c.writeJSON(w, http.StatusBadRequest, envelope{"errors": validationErrors})
		return
	}

	c.writeJSON(w, http.StatusBadRequest, envelope{"error": err.Error()})
}
