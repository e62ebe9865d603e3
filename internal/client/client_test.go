package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/dehla-pakad/internal/protocol"
)

func TestDialURL_CarriesToken(t *testing.T) {
	t.Parallel()

	c := NewClient("ws://localhost:1780/ws", "my-secret-token")
	c.PlayerName = "测试玩家"

	addr, err := c.dialURL()
	require.NoError(t, err)
	assert.Contains(t, addr, "token=my-secret-token")
	assert.Contains(t, addr, "ws://localhost:1780/ws")
}

func TestTrack_ConnectedAndRoomState(t *testing.T) {
	t.Parallel()

	c := NewClient("ws://localhost:1780/ws", "tok")

	c.track(protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		Identity: "abc123",
		Name:     "某玩家",
	}))
	assert.Equal(t, "abc123", c.Identity)
	assert.Equal(t, "某玩家", c.PlayerName)

	c.track(protocol.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		RoomCode: "ABCD23",
		Seat:     1,
	}))
	assert.Equal(t, "ABCD23", c.RoomCode)

	// 比赛结束后不再自动重连回该房间
	c.track(protocol.MustNewMessage(protocol.MsgMatchEnd, protocol.MatchEndPayload{Winner: "A"}))
	assert.Empty(t, c.RoomCode)
}

func TestReconnect_RequiresRoom(t *testing.T) {
	t.Parallel()

	c := NewClient("ws://localhost:1780/ws", "tok")
	assert.Error(t, c.Reconnect())
}

func TestSendMessage_AfterClose(t *testing.T) {
	t.Parallel()

	c := NewClient("ws://localhost:1780/ws", "tok")
	c.Close()

	err := c.SendMessage(protocol.MustNewMessage(protocol.MsgPing, nil))
	assert.Error(t, err)
}
