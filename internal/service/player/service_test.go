package player

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sharetube/playback/internal/domain"
	"github.com/sharetube/playback/internal/repository/connection/inmemory"
	playerRedis "github.com/sharetube/playback/internal/repository/player/redis"
	"github.com/sharetube/playback/pkg/wsrouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type posterFunc func(ctx context.Context, videoID string) (string, bool)

func (f posterFunc) Resolve(ctx context.Context, videoID string) (string, bool) {
	return f(ctx, videoID)
}

// wsPair returns the server side of a live websocket connection together
// with its client.
func wsPair(t *testing.T) (*wsrouter.Conn, *websocket.Conn) {
	t.Helper()

	serverConns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case conn := <-serverConns:
		return wsrouter.NewConn(conn), client
	case <-time.After(time.Second):
		t.Fatal("websocket upgrade timed out")
		return nil, nil
	}
}

// drain discards everything the server writes to client.
func drain(client *websocket.Conn) {
	go func() {
		for {
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func newTestService(t *testing.T, posters posterFunc) *service {
	t.Helper()

	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rc.Close() })

	if posters == nil {
		posters = func(context.Context, string) (string, bool) { return "", false }
	}

	return NewService(
		playerRedis.NewRepo(rc, time.Hour),
		inmemory.NewRepo(slog.Default()),
		posters,
		Config{ClickDelay: 10 * time.Millisecond},
		slog.Default(),
	)
}

func TestCreateAndResumePlayer(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	conn1, client1 := wsPair(t)
	drain(client1)

	created, err := svc.CreatePlayer(ctx, &CreatePlayerParams{
		Conn:    conn1,
		Options: domain.Options{AutoAdvance: true},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.PlayerID)
	assert.Equal(t, domain.DefaultVolume, created.State.Volume)

	p, err := svc.GetPlayer(created.PlayerID)
	require.NoError(t, err)

	queue := []domain.MediaItem{
		{ID: "a", Src: "https://example.com/a.mp4"},
		{ID: "b", Src: "https://example.com/b.mp4"},
	}
	p.SetQueue(ctx, queue, 1)
	p.SetVolume(ctx, 30)
	p.SetMuted(ctx, true)

	require.NoError(t, svc.DisconnectPlayer(ctx, &DisconnectPlayerParams{PlayerID: created.PlayerID, Conn: conn1}))
	_, err = svc.GetPlayer(created.PlayerID)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	conn2, client2 := wsPair(t)
	drain(client2)

	resumed, err := svc.ResumePlayer(ctx, &ResumePlayerParams{PlayerID: created.PlayerID, Conn: conn2})
	require.NoError(t, err)

	st := resumed.State
	assert.Equal(t, 30, st.Volume)
	assert.True(t, st.Muted)
	assert.True(t, st.Options.AutoAdvance)
	assert.Equal(t, queue, st.Queue)
	assert.Equal(t, 1, st.QueueIndex)
	require.NotNil(t, st.CuedMedia)
	assert.Equal(t, "b", st.CuedMedia.ID)
	assert.False(t, st.ProviderReady)
}

func TestResumeUnknownPlayer(t *testing.T) {
	svc := newTestService(t, nil)
	conn, _ := wsPair(t)

	_, err := svc.ResumePlayer(context.Background(), &ResumePlayerParams{PlayerID: "missing", Conn: conn})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestResumeTakesOverLivePlayer(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	conn1, client1 := wsPair(t)
	drain(client1)
	created, err := svc.CreatePlayer(ctx, &CreatePlayerParams{Conn: conn1})
	require.NoError(t, err)

	conn2, client2 := wsPair(t)
	drain(client2)
	_, err = svc.ResumePlayer(ctx, &ResumePlayerParams{PlayerID: created.PlayerID, Conn: conn2})
	require.NoError(t, err)

	// the old connection's teardown must not stop the new session
	require.NoError(t, svc.DisconnectPlayer(ctx, &DisconnectPlayerParams{PlayerID: created.PlayerID, Conn: conn1}))
	_, err = svc.GetPlayer(created.PlayerID)
	assert.NoError(t, err)
}

func TestCommandsReachTheBridge(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	conn, client := wsPair(t)
	created, err := svc.CreatePlayer(ctx, &CreatePlayerParams{Conn: conn})
	require.NoError(t, err)

	p, err := svc.GetPlayer(created.PlayerID)
	require.NoError(t, err)
	p.Cue(ctx, domain.MediaItem{ID: "a", Src: "https://example.com/a.mp4"})

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var out struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		require.NoError(t, client.ReadJSON(&out))
		if out.Type != "COMMAND" {
			continue
		}

		var cmd struct {
			Target string `json:"target"`
			Method string `json:"method"`
		}
		require.NoError(t, json.Unmarshal(out.Payload, &cmd))
		assert.Equal(t, "media", cmd.Target)
		assert.Equal(t, "load", cmd.Method)
		return
	}
}

func TestRemovePlayer(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	conn, client := wsPair(t)
	drain(client)
	created, err := svc.CreatePlayer(ctx, &CreatePlayerParams{Conn: conn})
	require.NoError(t, err)

	require.NoError(t, svc.RemovePlayer(ctx, created.PlayerID))
	assert.ErrorIs(t, svc.RemovePlayer(ctx, created.PlayerID), ErrPlayerNotFound)

	conn2, _ := wsPair(t)
	_, err = svc.ResumePlayer(ctx, &ResumePlayerParams{PlayerID: created.PlayerID, Conn: conn2})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestGetPoster(t *testing.T) {
	svc := newTestService(t, func(_ context.Context, videoID string) (string, bool) {
		if videoID == "dQw4w9WgXcQ" {
			return "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg", true
		}
		return "", false
	})
	ctx := context.Background()

	url, err := svc.GetPoster(ctx, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg", url)

	_, err = svc.GetPoster(ctx, "aaaaaaaaaaa")
	assert.ErrorIs(t, err, ErrPosterNotFound)

	_, err = svc.GetPoster(ctx, "not a video")
	assert.ErrorIs(t, err, ErrInvalidVideoID)
}
