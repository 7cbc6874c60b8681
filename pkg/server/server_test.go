package server

import (
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tankarena/arena/pkg/entities"
	"github.com/tankarena/arena/pkg/log"
	"github.com/tankarena/arena/pkg/messages"
	"github.com/tankarena/arena/pkg/simctx"
	"github.com/tankarena/arena/pkg/worldconst"
)

func newTestServer(t *testing.T) (*Server, *Transport) {
	t.Helper()
	transport, err := Listen(0)
	require.NoError(t, err)
	t.Cleanup(func() { transport.Close() })

	ctx := simctx.New(42, nil)
	logger := log.New(os.Stdout, "", 0, log.LogLevelError)
	return New(transport, ctx, logger), transport
}

func TestFindSpawnPointRespectsSafeDistanceFromAlivePlayers(t *testing.T) {
	s, _ := newTestServer(t)
	s.players[1] = entities.NewPlayer(1, "A", "red", worldconst.CenterX, worldconst.CenterY)

	x, y := s.findSpawnPoint()
	assert.True(t, s.isSafeSpawn(x, y))
}

func TestFindSpawnPointFallsBackToCenterWhenNoSafeSpotExists(t *testing.T) {
	s, _ := newTestServer(t)
	// Saturate the whole spawn rectangle with players so every random
	// attempt is unsafe, forcing the RespawnMaxAttempts fallback.
	id := uint32(1)
	for y := worldconst.Spawn.MinY; y < worldconst.Spawn.MaxY; y += worldconst.RespawnSafeDistance / 2 {
		for x := worldconst.Spawn.MinX; x < worldconst.Spawn.MaxX; x += worldconst.RespawnSafeDistance / 2 {
			s.players[id] = entities.NewPlayer(id, "A", "red", x, y)
			id++
		}
	}

	x, y := s.findSpawnPoint()
	assert.Equal(t, worldconst.CenterX, x)
	assert.Equal(t, worldconst.CenterY, y)
}

func TestMaintainEnemySpawnsStaysAtZeroWithNoPlayers(t *testing.T) {
	s, _ := newTestServer(t)
	s.maintainEnemySpawns(10.0)
	assert.Empty(t, s.enemies)
}

func TestMaintainEnemySpawnsScalesWithPlayerCount(t *testing.T) {
	s, _ := newTestServer(t)
	s.players[1] = entities.NewPlayer(1, "A", "red", worldconst.CenterX, worldconst.CenterY)
	s.players[2] = entities.NewPlayer(2, "B", "blue", worldconst.CenterX, worldconst.CenterY)

	s.maintainEnemySpawns(worldconst.SpawnInterval / 1000.0)
	assert.Len(t, s.enemies, baseEnemyCount+2*enemyCountPerPlayer)
}

func TestMaintainEnemySpawnsDoesNotRespawnBeforeInterval(t *testing.T) {
	s, _ := newTestServer(t)
	s.players[1] = entities.NewPlayer(1, "A", "red", worldconst.CenterX, worldconst.CenterY)

	s.maintainEnemySpawns(0.001)
	assert.Empty(t, s.enemies)
}

func TestReapIdleClientsRemovesOnlyExpiredClients(t *testing.T) {
	s, _ := newTestServer(t)
	now := s.ctx.NowMs()

	freshAddr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40001}
	staleAddr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40002}

	fresh := s.clients.Add(freshAddr, now)
	s.players[fresh.PlayerID] = entities.NewPlayer(fresh.PlayerID, "fresh", "red", worldconst.CenterX, worldconst.CenterY)

	stale := s.clients.Add(staleAddr, now)
	stale.LastInputAtMs = now - idleTimeoutMs - 1000
	s.players[stale.PlayerID] = entities.NewPlayer(stale.PlayerID, "stale", "blue", worldconst.CenterX, worldconst.CenterY)

	s.reapIdleClients()

	_, freshStillThere := s.players[fresh.PlayerID]
	_, staleStillThere := s.players[stale.PlayerID]
	assert.True(t, freshStillThere)
	assert.False(t, staleStillThere)

	_, staleClientStillThere := s.clients.ByID(stale.PlayerID)
	assert.False(t, staleClientStillThere)
}

// readUntil drains datagrams from client (periodic GameState/BulletUpdate
// broadcasts interleave with the reply under test) until one decodes to
// the wanted type, or attempts are exhausted.
func readUntil[T any](t *testing.T, client *Transport, attempts int) T {
	t.Helper()
	buf := make([]byte, maxDatagramSize)
	for i := 0; i < attempts; i++ {
		require.NoError(t, client.conn.SetReadDeadline(time.Now().Add(time.Second)))
		n, _, ok, err := client.ReadFrom(buf)
		require.NoError(t, err)
		require.True(t, ok)
		msg, err := messages.Decode(buf[:n])
		require.NoError(t, err)
		if want, matches := msg.(T); matches {
			return want
		}
	}
	t.Fatalf("did not observe wanted message type within %d datagrams", attempts)
	var zero T
	return zero
}

func TestJoinThenInputRoundTripOverLoopback(t *testing.T) {
	srv, transport := newTestServer(t)

	client, err := Dial(transport.LocalAddr().String())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	join := &messages.JoinMessage{PlayerName: "Ada", PreferredColor: "blue", Timestamp: time.Now().UnixMilli(), SequenceNumber: 1}
	data, err := messages.Encode(join)
	require.NoError(t, err)
	require.NoError(t, client.Write(data))

	srv.Tick(0.016)

	idAssign := readUntil[*messages.IDAssignMessage](t, client, 5)
	assert.Equal(t, worldconst.MinPlayerID, idAssign.PlayerID)
	assert.Len(t, srv.players, 1)

	input := &messages.PlayerInputMessage{
		PlayerID: idAssign.PlayerID, MoveForward: true,
		BarrelRotation: 0, Timestamp: time.Now().UnixMilli(), SequenceNumber: 1,
	}
	data, err = messages.Encode(input)
	require.NoError(t, err)
	require.NoError(t, client.Write(data))

	startX := srv.players[idAssign.PlayerID].X
	srv.Tick(0.1)

	ack := readUntil[*messages.InputAckMessage](t, client, 5)
	assert.Equal(t, uint32(1), ack.AcknowledgedSequence)

	movedX := srv.players[idAssign.PlayerID].X
	assert.Greater(t, movedX, startX)
}
