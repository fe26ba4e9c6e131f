package inmemory

import (
	"log/slog"
	"testing"

	"github.com/sharetube/playback/internal/repository/connection"
	"github.com/sharetube/playback/pkg/wsrouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnLifecycle(t *testing.T) {
	r := NewRepo(slog.Default())
	conn := &wsrouter.Conn{}

	require.NoError(t, r.Add(conn, "p1"))
	assert.ErrorIs(t, r.Add(conn, "p2"), connection.ErrAlreadyExists)
	assert.ErrorIs(t, r.Add(&wsrouter.Conn{}, "p1"), connection.ErrAlreadyExists)

	got, err := r.GetConn("p1")
	require.NoError(t, err)
	assert.Same(t, conn, got)

	playerID, err := r.GetPlayerID(conn)
	require.NoError(t, err)
	assert.Equal(t, "p1", playerID)

	require.NoError(t, r.RemoveByPlayerID("p1"))
	_, err = r.GetConn("p1")
	assert.ErrorIs(t, err, connection.ErrNotFound)
	_, err = r.GetPlayerID(conn)
	assert.ErrorIs(t, err, connection.ErrNotFound)
	assert.ErrorIs(t, r.RemoveByPlayerID("p1"), connection.ErrNotFound)
}
