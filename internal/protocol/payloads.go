package protocol

// CardInfo 牌的线上表示
type CardInfo struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
	ID   string `json:"id"`
}

// TrickCardInfo 一墩中已打出的牌
type TrickCardInfo struct {
	Card CardInfo `json:"card"`
	Seat int      `json:"seat"`
}

// PlayerInfo 玩家信息（对局内公开部分）
type PlayerInfo struct {
	Identity  string `json:"identity"`
	Name      string `json:"name"`
	Seat      int    `json:"seat"`
	Team      string `json:"team"`
	Connected bool   `json:"connected"`
	Avatar    int    `json:"avatar"`
}

// TeamCards 两队已捕获的牌
type TeamCards struct {
	A []CardInfo `json:"A"`
	B []CardInfo `json:"B"`
}

// TeamScore 两队计数
type TeamScore struct {
	A int `json:"A"`
	B int `json:"B"`
}

// GameStateInfo 某个座位可见的对局视图。
// 自己的手牌完整可见，其他座位只下发手牌数量
type GameStateInfo struct {
	Phase           string          `json:"phase"`
	MySeat          int             `json:"my_seat"`
	MyHand          []CardInfo      `json:"my_hand"`
	HandSizes       [4]int          `json:"hand_sizes"`
	CurrentPlayer   int             `json:"current_player"`
	Trick           []TrickCardInfo `json:"trick"`
	TrickNumber     int             `json:"trick_number"`
	LeadSuit        string          `json:"lead_suit,omitempty"`
	TrumpSuit       string          `json:"trump_suit,omitempty"`
	CapturedTens    TeamCards       `json:"captured_tens"`
	TricksWon       TeamScore       `json:"tricks_won"`
	MatchScores     TeamScore       `json:"match_scores"`
	DealerIndex     int             `json:"dealer_index"`
	LastTrickWinner int             `json:"last_trick_winner"`
	RoundNumber     int             `json:"round_number"`
	MatchTarget     int             `json:"match_target"`
	Players         []PlayerInfo    `json:"players"`
}

// --- 客户端 → 服务端 ---

// CreateRoomPayload 创建房间请求
type CreateRoomPayload struct {
	Name   string `json:"name"`
	Avatar int    `json:"avatar"`
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomCode string `json:"room_code"`
	Name     string `json:"name"`
	Avatar   int    `json:"avatar"`
}

// PlayCardPayload 出牌请求
type PlayCardPayload struct {
	CardID string `json:"card_id"`
}

// ReconnectPayload 重连请求
type ReconnectPayload struct {
	RoomCode string `json:"room_code"`
	Name     string `json:"name"`
	Avatar   int    `json:"avatar"`
}

// --- 服务端 → 客户端 ---

// ConnectedPayload 连接成功
type ConnectedPayload struct {
	Identity string `json:"identity"`
	Name     string `json:"name"`
}

// RoomCreatedPayload 房间创建成功
type RoomCreatedPayload struct {
	RoomCode string       `json:"room_code"`
	Seat     int          `json:"seat"`
	Players  []PlayerInfo `json:"players"`
}

// RoomJoinedPayload 加入房间成功
type RoomJoinedPayload struct {
	RoomCode string       `json:"room_code"`
	Seat     int          `json:"seat"`
	Players  []PlayerInfo `json:"players"`
}

// PlayerJoinedPayload 其他玩家加入
type PlayerJoinedPayload struct {
	Player  PlayerInfo   `json:"player"`
	Players []PlayerInfo `json:"players"`
}

// PlayerOfflinePayload 玩家掉线通知
type PlayerOfflinePayload struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

// PlayerOnlinePayload 玩家上线通知
type PlayerOnlinePayload struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

// CardPlayedPayload 有人出牌
type CardPlayedPayload struct {
	Seat int      `json:"seat"`
	Card CardInfo `json:"card"`
}

// TrickWonPayload 一墩结束
type TrickWonPayload struct {
	WinnerSeat   int             `json:"winner_seat"`
	WinnerName   string          `json:"winner_name"`
	Cards        []TrickCardInfo `json:"cards"`
	CapturedTens TeamCards       `json:"captured_tens"`
}

// RoundEndPayload 一轮结束
type RoundEndPayload struct {
	CapturedTens TeamCards `json:"captured_tens"`
	TricksWon    TeamScore `json:"tricks_won"`
	MatchScores  TeamScore `json:"match_scores"`
	RoundWinner  string    `json:"round_winner,omitempty"` // 空表示 2-2 平局
	IsKot        bool      `json:"is_kot"`
}

// MatchEndPayload 比赛结束
type MatchEndPayload struct {
	Winner      string    `json:"winner"`
	MatchScores TeamScore `json:"match_scores"`
}

// ReconnectedPayload 重连成功
type ReconnectedPayload struct {
	RoomCode  string         `json:"room_code"`
	Seat      int            `json:"seat"`
	Players   []PlayerInfo   `json:"players"`
	GameState *GameStateInfo `json:"game_state,omitempty"` // 对局未开始时为空
}

// RoomHistoryEntry 历史房间条目
type RoomHistoryEntry struct {
	RoomCode  string       `json:"room_code"`
	Status    string       `json:"status"`
	Players   []PlayerInfo `json:"players"`
	CreatedAt int64        `json:"created_at"`
	UpdatedAt int64        `json:"updated_at"`
}

// RoomHistoryResultPayload 历史房间列表
type RoomHistoryResultPayload struct {
	Rooms []RoomHistoryEntry `json:"rooms"`
}

// ErrorPayload 错误消息
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
