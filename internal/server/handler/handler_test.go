package handler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/dehla-pakad/internal/game/card"
	"github.com/palemoky/dehla-pakad/internal/game/engine"
	"github.com/palemoky/dehla-pakad/internal/game/room"
	"github.com/palemoky/dehla-pakad/internal/protocol"
	"github.com/palemoky/dehla-pakad/internal/testutil"
)

func newTestHandler() (*Handler, *room.Manager) {
	m := room.NewManager(nil, time.Hour, engine.DefaultMatchTarget)
	h := NewHandler(Deps{
		RoomManager:      m,
		TrickRevealDelay: 10 * time.Millisecond,
	})
	return h, m
}

func newClient(n int) *testutil.SimpleClient {
	return &testutil.SimpleClient{
		ID:       fmt.Sprintf("conn-%d", n),
		Identity: fmt.Sprintf("user-%d", n),
		Name:     fmt.Sprintf("玩家%d", n),
	}
}

// mustMsg 构造客户端请求消息
func mustMsg(t *testing.T, msgType protocol.MessageType, payload any) *protocol.Message {
	t.Helper()
	msg, err := protocol.NewMessage(msgType, payload)
	require.NoError(t, err)
	return msg
}

// lastMessage 返回客户端收到的最后一条消息
func lastMessage(t *testing.T, c *testutil.SimpleClient) *protocol.Message {
	t.Helper()
	require.NotEmpty(t, c.Messages)
	return c.Messages[len(c.Messages)-1]
}

// setupStartedGame 4 人建房并开局
func setupStartedGame(t *testing.T, h *Handler) (*room.Room, []*testutil.SimpleClient) {
	t.Helper()

	clients := make([]*testutil.SimpleClient, 4)
	clients[0] = newClient(0)
	h.handleCreateRoom(clients[0], nil)

	created, err := protocol.ParsePayload[protocol.RoomCreatedPayload](lastMessage(t, clients[0]))
	require.NoError(t, err)

	for i := 1; i < 4; i++ {
		clients[i] = newClient(i)
		h.Handle(clients[i], mustMsg(t, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: created.RoomCode}))
	}

	h.Handle(clients[0], mustMsg(t, protocol.MsgStartGame, nil))

	r := h.roomManager.GetRoom(created.RoomCode)
	require.NotNil(t, r)
	require.NotNil(t, r.GameEngine())
	return r, clients
}

func TestHandler_UnknownMessageType(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	c := newClient(0)

	h.Handle(c, &protocol.Message{Type: "no_such_type"})

	msg := lastMessage(t, c)
	assert.Equal(t, protocol.MsgError, msg.Type)
	payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, payload.Code)
}

func TestHandler_Ping(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	c := newClient(0)

	h.Handle(c, &protocol.Message{Type: protocol.MsgPing})
	assert.Equal(t, protocol.MsgPong, lastMessage(t, c).Type)
}

func TestHandler_CreateAndJoin_ApplyPayloadProfile(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	c := newClient(0)
	h.Handle(c, mustMsg(t, protocol.MsgCreateRoom, protocol.CreateRoomPayload{Name: "小艾", Avatar: 3}))

	created, err := protocol.ParsePayload[protocol.RoomCreatedPayload](lastMessage(t, c))
	require.NoError(t, err)
	require.Len(t, created.Players, 1)
	assert.Equal(t, "小艾", created.Players[0].Name)
	assert.Equal(t, 3, created.Players[0].Avatar)

	// 加入载荷里的资料同样生效
	j := newClient(1)
	h.Handle(j, mustMsg(t, protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: created.RoomCode, Name: "阿豪", Avatar: 7,
	}))

	joined, err := protocol.ParsePayload[protocol.RoomJoinedPayload](lastMessage(t, j))
	require.NoError(t, err)
	require.Len(t, joined.Players, 2)
	assert.Equal(t, "阿豪", joined.Players[1].Name)
	assert.Equal(t, 7, joined.Players[1].Avatar)
}

func TestHandler_JoinRoom_MidGamePayloadNameIgnored(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	r, clients := setupStartedGame(t, h)

	h.roomManager.HandleDisconnect(clients[2])

	// 开局后座位资料已冻结，重进时载荷里的新昵称不生效
	c2b := &testutil.SimpleClient{ID: "conn-2b", Identity: "user-2", Name: "玩家2"}
	h.Handle(c2b, mustMsg(t, protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: r.Code, Name: "新马甲",
	}))

	p := r.PlayerBySeat(2)
	require.NotNil(t, p)
	assert.Equal(t, "玩家2", p.Name)
}

func TestHandler_CreateAndJoinFlow(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	host := newClient(0)
	h.Handle(host, mustMsg(t, protocol.MsgCreateRoom, protocol.CreateRoomPayload{Name: "房主"}))

	msg := lastMessage(t, host)
	require.Equal(t, protocol.MsgRoomCreated, msg.Type)
	created, err := protocol.ParsePayload[protocol.RoomCreatedPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, 0, created.Seat)
	assert.Len(t, created.Players, 1)

	// 第二人加入：自己收 room_joined，房主收 player_joined
	joiner := newClient(1)
	h.Handle(joiner, mustMsg(t, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: created.RoomCode}))

	joined, err := protocol.ParsePayload[protocol.RoomJoinedPayload](lastMessage(t, joiner))
	require.NoError(t, err)
	assert.Equal(t, 1, joined.Seat)
	assert.Len(t, joined.Players, 2)

	hostLast := lastMessage(t, host)
	require.Equal(t, protocol.MsgPlayerJoined, hostLast.Type)
	notify, err := protocol.ParsePayload[protocol.PlayerJoinedPayload](hostLast)
	require.NoError(t, err)
	assert.Equal(t, 1, notify.Player.Seat)
	assert.Equal(t, "B", notify.Player.Team)
}

func TestHandler_JoinRoom_NotFound(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	c := newClient(0)
	h.Handle(c, mustMsg(t, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: "ZZZZ99"}))

	payload, err := protocol.ParsePayload[protocol.ErrorPayload](lastMessage(t, c))
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeRoomNotFound, payload.Code)
}

func TestHandler_StartGame_SendsPerSeatHands(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	_, clients := setupStartedGame(t, h)

	for seat, c := range clients {
		msg := lastMessage(t, c)
		require.Equal(t, protocol.MsgGameStarted, msg.Type)

		state, err := protocol.ParsePayload[protocol.GameStateInfo](msg)
		require.NoError(t, err)
		assert.Equal(t, seat, state.MySeat)
		assert.Len(t, state.MyHand, 13)
		assert.Equal(t, "playing", state.Phase)
		// 第一轮无主
		assert.Empty(t, state.TrumpSuit)
		for _, n := range state.HandSizes {
			assert.Equal(t, 13, n)
		}
	}
}

func TestHandler_StartGame_NotEnoughPlayers(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	c := newClient(0)
	h.handleCreateRoom(c, nil)
	h.Handle(c, mustMsg(t, protocol.MsgStartGame, nil))

	payload, err := protocol.ParsePayload[protocol.ErrorPayload](lastMessage(t, c))
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeNotEnoughPlayers, payload.Code)
}

func TestHandler_PlayCard_BroadcastAndState(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	r, clients := setupStartedGame(t, h)

	// 固定手牌保证确定性
	r.GameEngine().RigRound([4][]card.Card{
		{{Suit: card.Hearts, Rank: card.Rank5}},
		{{Suit: card.Hearts, Rank: card.Rank9}},
		{{Suit: card.Hearts, Rank: card.Rank2}},
		{{Suit: card.Hearts, Rank: card.RankK}},
	}, 0, "")

	for _, c := range clients {
		c.Messages = nil
	}

	h.Handle(clients[0], mustMsg(t, protocol.MsgPlayCard, protocol.PlayCardPayload{CardID: "hearts-5"}))

	// 所有人都收到这张牌
	for _, c := range clients {
		require.NotEmpty(t, c.Messages)
		assert.Equal(t, protocol.MsgCardPlayed, c.Messages[0].Type)
	}
	played, err := protocol.ParsePayload[protocol.CardPlayedPayload](clients[2].Messages[0])
	require.NoError(t, err)
	assert.Equal(t, 0, played.Seat)
	assert.Equal(t, "hearts-5", played.Card.ID)

	// 墩未完成：紧接着下发新视图
	assert.Equal(t, protocol.MsgGameState, clients[1].Messages[1].Type)
	state, err := protocol.ParsePayload[protocol.GameStateInfo](clients[1].Messages[1])
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentPlayer)
	require.Len(t, state.Trick, 1)
}

func TestHandler_PlayCard_OutOfTurn(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	r, clients := setupStartedGame(t, h)

	r.GameEngine().RigRound([4][]card.Card{
		{{Suit: card.Hearts, Rank: card.Rank5}},
		{{Suit: card.Hearts, Rank: card.Rank9}},
		{{Suit: card.Hearts, Rank: card.Rank2}},
		{{Suit: card.Hearts, Rank: card.RankK}},
	}, 0, "")

	h.Handle(clients[2], mustMsg(t, protocol.MsgPlayCard, protocol.PlayCardPayload{CardID: "hearts-2"}))

	payload, err := protocol.ParsePayload[protocol.ErrorPayload](lastMessage(t, clients[2]))
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeNotYourTurn, payload.Code)
}

func TestHandler_PlayCard_NotInRoom(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	c := newClient(7)
	h.Handle(c, mustMsg(t, protocol.MsgPlayCard, protocol.PlayCardPayload{CardID: "hearts-5"}))

	payload, err := protocol.ParsePayload[protocol.ErrorPayload](lastMessage(t, c))
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeNotInRoom, payload.Code)
}

func TestHandler_TrickCompletion_EventOrder(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	r, clients := setupStartedGame(t, h)

	r.GameEngine().RigRound([4][]card.Card{
		{{Suit: card.Hearts, Rank: card.Rank5}},
		{{Suit: card.Hearts, Rank: card.Rank9}},
		{{Suit: card.Hearts, Rank: card.Rank10}},
		{{Suit: card.Hearts, Rank: card.RankK}},
	}, 0, "")

	for seat, id := range []string{"hearts-5", "hearts-9", "hearts-10", "hearts-K"} {
		h.Handle(clients[seat], mustMsg(t, protocol.MsgPlayCard, protocol.PlayCardPayload{CardID: id}))
	}

	// 观察者视角：最后一张牌之后先 card_played 再 trick_won
	types := clients[0].MessageTypes()
	require.GreaterOrEqual(t, len(types), 2)

	var wonIdx = -1
	for i, mt := range types {
		if mt == protocol.MsgTrickWon {
			wonIdx = i
		}
	}
	require.GreaterOrEqual(t, wonIdx, 1)
	assert.Equal(t, protocol.MsgCardPlayed, types[wonIdx-1])

	won, err := protocol.ParsePayload[protocol.TrickWonPayload](clients[0].Messages[wonIdx])
	require.NoError(t, err)
	assert.Equal(t, 3, won.WinnerSeat)
	assert.Equal(t, "玩家3", won.WinnerName)
	require.Len(t, won.Cards, 4)
	// 红桃 10 被 B 队（座位 3）捕获
	require.Len(t, won.CapturedTens.B, 1)
	assert.Equal(t, "hearts-10", won.CapturedTens.B[0].ID)

	// 展示期过后下发收墩视图
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		last := lastMessage(t, clients[0])
		if last.Type == protocol.MsgGameState {
			state, err := protocol.ParsePayload[protocol.GameStateInfo](last)
			require.NoError(t, err)
			assert.Empty(t, state.Trick)
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("delayed game_state never arrived")
}

func TestHandler_Reconnect_RestoresView(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	r, clients := setupStartedGame(t, h)

	h.roomManager.HandleDisconnect(clients[2])

	c2b := &testutil.SimpleClient{ID: "conn-2b", Identity: "user-2", Name: "玩家2"}
	h.Handle(c2b, mustMsg(t, protocol.MsgReconnect, protocol.ReconnectPayload{RoomCode: r.Code}))

	var reconnectedMsg *protocol.Message
	for _, msg := range c2b.Messages {
		if msg.Type == protocol.MsgReconnected {
			reconnectedMsg = msg
		}
	}
	require.NotNil(t, reconnectedMsg)

	payload, err := protocol.ParsePayload[protocol.ReconnectedPayload](reconnectedMsg)
	require.NoError(t, err)
	assert.Equal(t, 2, payload.Seat)
	require.NotNil(t, payload.GameState)
	assert.Equal(t, 2, payload.GameState.MySeat)
	assert.Len(t, payload.GameState.MyHand, 13)

	// 其他人收到上线通知
	var sawOnline bool
	for _, msg := range clients[0].Messages {
		if msg.Type == protocol.MsgPlayerOnline {
			sawOnline = true
		}
	}
	assert.True(t, sawOnline)
}

func TestHandler_Reconnect_UnknownIdentity(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	r, _ := setupStartedGame(t, h)

	ghost := newClient(9)
	h.Handle(ghost, mustMsg(t, protocol.MsgReconnect, protocol.ReconnectPayload{RoomCode: r.Code}))

	payload, err := protocol.ParsePayload[protocol.ErrorPayload](lastMessage(t, ghost))
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeUnknownIdentity, payload.Code)
}

func TestHandler_Reconnect_UnknownIdentityInLobby_JoinsInstead(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	host := newClient(0)
	h.handleCreateRoom(host, nil)

	created, err := protocol.ParsePayload[protocol.RoomCreatedPayload](lastMessage(t, host))
	require.NoError(t, err)

	// 大厅还有空位时陌生身份的重连退化成普通加入
	stranger := newClient(9)
	h.Handle(stranger, mustMsg(t, protocol.MsgReconnect, protocol.ReconnectPayload{RoomCode: created.RoomCode}))

	joined, err := protocol.ParsePayload[protocol.RoomJoinedPayload](lastMessage(t, stranger))
	require.NoError(t, err)
	assert.Equal(t, 1, joined.Seat)
	assert.Len(t, joined.Players, 2)
}

func TestHandler_NewRound_BeforeRoundEnd(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	_, clients := setupStartedGame(t, h)

	h.Handle(clients[0], mustMsg(t, protocol.MsgNewRound, nil))

	payload, err := protocol.ParsePayload[protocol.ErrorPayload](lastMessage(t, clients[0]))
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeNotRoundEnd, payload.Code)
}
