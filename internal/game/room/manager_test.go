package room

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/dehla-pakad/internal/apperrors"
	"github.com/palemoky/dehla-pakad/internal/game/engine"
	"github.com/palemoky/dehla-pakad/internal/testutil"
)

func newTestManager() *Manager {
	// store 为 nil：纯内存模式，持久化路径由 serialize_test 单独覆盖
	return NewManager(nil, time.Hour, engine.DefaultMatchTarget)
}

func newClient(n int) *testutil.SimpleClient {
	return &testutil.SimpleClient{
		ID:       fmt.Sprintf("conn-%d", n),
		Identity: fmt.Sprintf("user-%d", n),
		Name:     fmt.Sprintf("玩家%d", n),
		Avatar:   n,
	}
}

// fillRoom 创建房间并坐满 4 人，返回房间和 4 个客户端
func fillRoom(t *testing.T, m *Manager) (*Room, []*testutil.SimpleClient) {
	t.Helper()

	clients := make([]*testutil.SimpleClient, 4)
	clients[0] = newClient(0)
	room, err := m.CreateRoom(clients[0])
	require.NoError(t, err)

	for i := 1; i < 4; i++ {
		clients[i] = newClient(i)
		_, seat, err := m.JoinRoom(clients[i], room.Code)
		require.NoError(t, err)
		require.Equal(t, i, seat)
	}
	return room, clients
}

func TestManager_CreateRoom(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	c := newClient(0)

	room, err := m.CreateRoom(c)
	require.NoError(t, err)
	assert.Len(t, room.Code, roomCodeLength)
	assert.Equal(t, room.Code, c.RoomCode)
	assert.Equal(t, 1, m.RoomCount())

	// 房主坐 0 号位
	p := room.PlayerBySeat(0)
	require.NotNil(t, p)
	assert.Equal(t, "user-0", p.Identity)
	assert.True(t, p.Connected)
	assert.Equal(t, engine.TeamA, p.Team())

	// 房间号只使用无歧义字符集
	for _, ch := range room.Code {
		assert.Contains(t, roomCodeChars, string(ch))
	}
}

func TestManager_JoinRoom_SeatsAndTeams(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	room, _ := fillRoom(t, m)

	// 座位按加入顺序分配，队伍按奇偶派生
	for seat := range MaxPlayers {
		p := room.PlayerBySeat(seat)
		require.NotNil(t, p)
		assert.Equal(t, seat, p.Seat)
		assert.Equal(t, engine.TeamOfSeat(seat), p.Team())
	}
}

func TestManager_JoinRoom_NotFound(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	_, _, err := m.JoinRoom(newClient(1), "ZZZZ99")
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
}

func TestManager_JoinRoom_Full(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	room, _ := fillRoom(t, m)

	_, _, err := m.JoinRoom(newClient(5), room.Code)
	assert.ErrorIs(t, err, apperrors.ErrRoomFull)
}

func TestManager_JoinRoom_SameIdentityRebinds(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	c := newClient(0)
	room, err := m.CreateRoom(c)
	require.NoError(t, err)

	// 同一身份换了连接重新加入：回到原座位，不占新位
	c2 := &testutil.SimpleClient{ID: "conn-0b", Identity: "user-0", Name: "新昵称", Avatar: 7}
	_, seat, err := m.JoinRoom(c2, room.Code)
	require.NoError(t, err)
	assert.Equal(t, 0, seat)

	p := room.PlayerBySeat(0)
	require.NotNil(t, p)
	// 开局前允许改昵称和头像
	assert.Equal(t, "新昵称", p.Name)
	assert.Equal(t, 7, p.Avatar)
	assert.Same(t, p.Client.(*testutil.SimpleClient), c2)

	// 旧连接的映射已解除
	assert.Nil(t, m.GetRoomByConn("conn-0"))
	assert.NotNil(t, m.GetRoomByConn("conn-0b"))
}

func TestManager_StartGame(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	room, _ := fillRoom(t, m)

	_, err := m.StartGame(room.Code)
	require.NoError(t, err)

	require.NotNil(t, room.Engine)
	assert.Equal(t, engine.PhasePlaying, room.Engine.Phase())

	// 身份集合已冻结
	assert.Len(t, room.Locked, 4)
	assert.True(t, room.Locked["user-2"])
}

func TestManager_StartGame_NeedsFourPlayers(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	room, err := m.CreateRoom(newClient(0))
	require.NoError(t, err)

	_, err = m.StartGame(room.Code)
	assert.ErrorIs(t, err, apperrors.ErrNotEnoughPlayers)
}

func TestManager_StartGame_AlreadyActive(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	room, _ := fillRoom(t, m)
	_, err := m.StartGame(room.Code)
	require.NoError(t, err)

	_, err = m.StartGame(room.Code)
	assert.ErrorIs(t, err, apperrors.ErrGameInProgress)
}

func TestManager_JoinRoom_RejectedAfterStart(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	room, _ := fillRoom(t, m)
	_, err := m.StartGame(room.Code)
	require.NoError(t, err)

	// 锁定集合之外的新身份被拒绝
	_, _, err = m.JoinRoom(newClient(9), room.Code)
	assert.ErrorIs(t, err, apperrors.ErrGameInProgress)
}

func TestManager_JoinRoom_LockedIdentityRejoinsMidGame(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	room, clients := fillRoom(t, m)
	_, err := m.StartGame(room.Code)
	require.NoError(t, err)

	// 座位 2 掉线后用新连接走 join 路径回来
	_, _, ok := m.HandleDisconnect(clients[2])
	require.True(t, ok)

	c2b := &testutil.SimpleClient{ID: "conn-2b", Identity: "user-2", Name: "改不了的名"}
	_, seat, err := m.JoinRoom(c2b, room.Code)
	require.NoError(t, err)
	assert.Equal(t, 2, seat)

	p := room.PlayerBySeat(2)
	require.NotNil(t, p)
	assert.True(t, p.Connected)
	// 对局中不允许改昵称
	assert.Equal(t, "玩家2", p.Name)
}

func TestManager_StartNewRound(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	room, _ := fillRoom(t, m)

	// 未开局时不能开新轮
	_, err := m.StartNewRound(room.Code)
	assert.ErrorIs(t, err, apperrors.ErrNotRoundEnd)

	_, err = m.StartGame(room.Code)
	require.NoError(t, err)

	// 轮进行中也不能开新轮（引擎层拒绝）
	_, err = m.StartNewRound(room.Code)
	assert.Error(t, err)
}
