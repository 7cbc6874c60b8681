package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		msg  interface{}
	}{
		{"Join", &JoinMessage{PlayerName: "Ada", PreferredColor: "red", Timestamp: 123456789, SequenceNumber: 1}},
		{"PlayerUpdate", &PlayerUpdateMessage{PlayerID: 7, X: 10.5, Y: -3.25, BodyRotation: 90, BarrelRotation: 45, MoveForward: true, MoveRight: true, Timestamp: 42, SequenceNumber: 9}},
		{"GameState", &GameStateMessage{
			Players: []PlayerData{{PlayerID: 1, PlayerName: "Ada", X: 1, Y: 2, Color: "blue", Health: 80, MaxHealth: 100, Score: 5, IsDead: false}},
			Enemies: []EnemyData{{EnemyID: 1000, EnemyType: 2, X: 3, Y: 4, Health: 60, MaxHealth: 60}},
			Timestamp: 99, SequenceNumber: 3, LastAckedInput: 8,
		}},
		{"GameStateEmpty", &GameStateMessage{Timestamp: 1, SequenceNumber: 1}},
		{"IDAssign", &IDAssignMessage{PlayerID: 42, Timestamp: 7, SequenceNumber: 1}},
		{"Ping", &PingMessage{Timestamp: 555, SequenceNumber: 2}},
		{"Pong", &PongMessage{OriginalTimestamp: 555, SequenceNumber: 2}},
		{"PlayerInput", &PlayerInputMessage{PlayerID: 7, MoveForward: true, MoveLeft: true, BarrelRotation: 33.3, Timestamp: 1, SequenceNumber: 4}},
		{"InputAck", &InputAckMessage{PlayerID: 7, AcknowledgedSequence: 4, ServerTimestamp: 1}},
		{"BulletSpawn", &BulletSpawnMessage{PlayerID: 7, SpawnX: 1, SpawnY: 2, DirectionX: 1, DirectionY: 0, BarrelRotation: 0, Timestamp: 1, SequenceNumber: 1}},
		{"BulletUpdate", &BulletUpdateMessage{
			Bullets:   []BulletData{{BulletID: 10000, OwnerID: 7, BulletType: 0, X: 1, Y: 2, VelocityX: 500, Rotation: 0, Damage: 20, Lifetime: 1.5, SpawnTime: 100}},
			Timestamp: 1, SequenceNumber: 1,
		}},
		{"BulletDestroy", &BulletDestroyMessage{BulletID: 10000, DestroyReason: 1, HitTargetID: 7, HitX: 1, HitY: 2, Timestamp: 1, SequenceNumber: 1}},
		{"PlayerDeath", &PlayerDeathMessage{PlayerID: 7, KillerID: 1000, DeathX: 1, DeathY: 2, ScorePenalty: 100, Timestamp: 1, SequenceNumber: 1}},
		{"PlayerRespawn", &PlayerRespawnMessage{PlayerID: 7, SpawnX: 1, SpawnY: 2, Health: 100, Timestamp: 1, SequenceNumber: 1}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data, err := Encode(c.msg)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			decoded, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, c.msg, decoded)
		})
	}
}

func TestDecodeEmptyBufferIsTruncated(t *testing.T) {
	_, err := Decode(nil)
	require.Error(t, err)
	de, ok := err.(*DecodeError)
	require.True(t, ok)
	assert.Equal(t, ErrTruncated, de.Kind)
}

func TestDecodeUnknownTag(t *testing.T) {
	_, err := Decode([]byte{99})
	require.Error(t, err)
	de, ok := err.(*DecodeError)
	require.True(t, ok)
	assert.Equal(t, ErrUnknownTag, de.Kind)
}

func TestDecodeTruncatedPayload(t *testing.T) {
	full, err := Encode(&PingMessage{Timestamp: 1, SequenceNumber: 2})
	require.NoError(t, err)

	_, err = Decode(full[:len(full)-2])
	require.Error(t, err)
	de, ok := err.(*DecodeError)
	require.True(t, ok)
	assert.Equal(t, ErrTruncated, de.Kind)
}

func TestDecodeInvalidBulletDestroyReason(t *testing.T) {
	full, err := Encode(&BulletDestroyMessage{BulletID: 1, DestroyReason: 3, Timestamp: 1, SequenceNumber: 1})
	require.NoError(t, err)
	full[5] = 99 // overwrite destroyReason byte (tag[1] + bulletId[4])

	_, err = Decode(full)
	require.Error(t, err)
	de, ok := err.(*DecodeError)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidEnum, de.Kind)
}

func TestStringLengthRejectsOversized(t *testing.T) {
	data := []byte{byte(TagJoin), 0xff, 0xff, 0xff, 0x7f}
	_, err := Decode(data)
	require.Error(t, err)
}

func TestEncodeUnsupportedType(t *testing.T) {
	_, err := Encode("not a message")
	require.Error(t, err)
}
