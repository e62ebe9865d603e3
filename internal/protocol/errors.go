package protocol

// 错误码
const (
	ErrCodeUnknown      = 1000
	ErrCodeInvalidMsg   = 1001
	ErrCodeUnauthorized = 1002 // 未通过身份认证

	ErrCodeRoomNotFound     = 2001
	ErrCodeRoomFull         = 2002
	ErrCodeNotInRoom        = 2003
	ErrCodeGameInProgress   = 2004 // 对局进行中，禁止新身份加入
	ErrCodeNotEnoughPlayers = 2005
	ErrCodeUnknownIdentity  = 2006 // 重连身份不在房间中

	ErrCodeNotPlayingPhase = 3001
	ErrCodeNotYourTurn     = 3002
	ErrCodeCardNotInHand   = 3003
	ErrCodeMustFollowSuit  = 3004
	ErrCodeNotRoundEnd     = 3005 // 只有轮结束后才能开新轮
	ErrCodeMatchOver       = 3006
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:      "未知错误",
	ErrCodeInvalidMsg:   "无效的消息格式",
	ErrCodeUnauthorized: "身份认证失败",

	ErrCodeRoomNotFound:     "房间不存在",
	ErrCodeRoomFull:         "房间已满",
	ErrCodeNotInRoom:        "您不在房间中",
	ErrCodeGameInProgress:   "对局进行中，无法加入",
	ErrCodeNotEnoughPlayers: "人数不足，需要 4 名玩家",
	ErrCodeUnknownIdentity:  "该身份不在此房间中",

	ErrCodeNotPlayingPhase: "当前不在出牌阶段",
	ErrCodeNotYourTurn:     "还没轮到您",
	ErrCodeCardNotInHand:   "这张牌不在您的手中",
	ErrCodeMustFollowSuit:  "有首攻花色必须跟牌",
	ErrCodeNotRoundEnd:     "本轮尚未结束",
	ErrCodeMatchOver:       "比赛已结束",
}
