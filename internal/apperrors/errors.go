package apperrors

import (
	"github.com/palemoky/dehla-pakad/internal/protocol"
)

// GameError 游戏错误（房间和引擎共享）。
// 规则类错误是正常业务结果，只回发给当事连接，不改动任何状态
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrRoomNotFound     = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "房间不存在"}
	ErrRoomFull         = &GameError{Code: protocol.ErrCodeRoomFull, Message: "房间已满"}
	ErrNotInRoom        = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "您不在房间中"}
	ErrGameInProgress   = &GameError{Code: protocol.ErrCodeGameInProgress, Message: "对局进行中，无法加入"}
	ErrNotEnoughPlayers = &GameError{Code: protocol.ErrCodeNotEnoughPlayers, Message: "人数不足，需要 4 名玩家"}
	ErrUnknownIdentity  = &GameError{Code: protocol.ErrCodeUnknownIdentity, Message: "该身份不在此房间中"}

	ErrNotPlayingPhase = &GameError{Code: protocol.ErrCodeNotPlayingPhase, Message: "当前不在出牌阶段"}
	ErrNotYourTurn     = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "还没轮到您"}
	ErrCardNotInHand   = &GameError{Code: protocol.ErrCodeCardNotInHand, Message: "这张牌不在您的手中"}
	ErrMustFollowSuit  = &GameError{Code: protocol.ErrCodeMustFollowSuit, Message: "有首攻花色必须跟牌"}
	ErrNotRoundEnd     = &GameError{Code: protocol.ErrCodeNotRoundEnd, Message: "本轮尚未结束"}
	ErrMatchOver       = &GameError{Code: protocol.ErrCodeMatchOver, Message: "比赛已结束"}
)
