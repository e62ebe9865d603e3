package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing      MessageType = "ping"      // 心跳 ping
	MsgReconnect MessageType = "reconnect" // 断线重连

	// 房间操作
	MsgCreateRoom  MessageType = "create_room"  // 创建房间
	MsgJoinRoom    MessageType = "join_room"    // 加入房间
	MsgRoomHistory MessageType = "room_history" // 查询历史房间

	// 游戏操作
	MsgStartGame MessageType = "start_game" // 开始对局
	MsgPlayCard  MessageType = "play_card"  // 出牌
	MsgNewRound  MessageType = "new_round"  // 开始下一轮
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected     MessageType = "connected"      // 连接成功
	MsgReconnected   MessageType = "reconnected"    // 重连成功
	MsgPong          MessageType = "pong"           // 心跳 pong
	MsgPlayerOffline MessageType = "player_offline" // 玩家掉线通知
	MsgPlayerOnline  MessageType = "player_online"  // 玩家上线通知

	// 房间相关
	MsgRoomCreated       MessageType = "room_created"        // 房间创建成功
	MsgRoomJoined        MessageType = "room_joined"         // 加入房间成功
	MsgPlayerJoined      MessageType = "player_joined"       // 其他玩家加入
	MsgRoomHistoryResult MessageType = "room_history_result" // 历史房间列表

	// 游戏流程
	MsgGameStarted MessageType = "game_started" // 对局开始（含各自视图）
	MsgGameState   MessageType = "game_state"   // 座位视图快照
	MsgCardPlayed  MessageType = "card_played"  // 有人出牌
	MsgTrickWon    MessageType = "trick_won"    // 一墩结束
	MsgRoundEnd    MessageType = "round_end"    // 一轮结束
	MsgMatchEnd    MessageType = "match_end"    // 比赛结束

	// 错误
	MsgError MessageType = "error" // 错误消息
)
