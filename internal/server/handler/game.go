package handler

import (
	"log"

	"github.com/palemoky/dehla-pakad/internal/apperrors"
	"github.com/palemoky/dehla-pakad/internal/game/engine"
	"github.com/palemoky/dehla-pakad/internal/game/room"
	"github.com/palemoky/dehla-pakad/internal/protocol"
	"github.com/palemoky/dehla-pakad/internal/protocol/convert"
	"github.com/palemoky/dehla-pakad/internal/types"
)

// roomAndSeat 找到客户端所在的房间和座位
func (h *Handler) roomAndSeat(client types.ClientInterface) (*room.Room, int, error) {
	r := h.roomManager.GetRoomByConn(client.GetID())
	if r == nil {
		return nil, 0, apperrors.ErrNotInRoom
	}
	p := r.PlayerByIdentity(client.GetIdentity())
	if p == nil {
		return nil, 0, apperrors.ErrNotInRoom
	}
	return r, p.Seat, nil
}

// handleStartGame 处理开始对局
func (h *Handler) handleStartGame(client types.ClientInterface) {
	r, _, err := h.roomAndSeat(client)
	if err != nil {
		h.sendError(client, err)
		return
	}

	if _, err := h.roomManager.StartGame(r.Code); err != nil {
		h.sendError(client, err)
		return
	}

	// 各座位只看到自己的手牌
	h.pushStates(r, protocol.MsgGameStarted)
}

// handlePlayCard 处理出牌
func (h *Handler) handlePlayCard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PlayCardPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r, seat, err := h.roomAndSeat(client)
	if err != nil {
		h.sendError(client, err)
		return
	}

	eng := r.GameEngine()
	if eng == nil {
		h.sendError(client, apperrors.ErrNotPlayingPhase)
		return
	}

	result, err := eng.PlayCard(seat, payload.CardID)
	if err != nil {
		h.sendError(client, err)
		return
	}

	h.roomManager.PersistRoom(r)

	// 先广播这张牌，所有事件按发生顺序下发
	r.Broadcast(protocol.MustNewMessage(protocol.MsgCardPlayed, protocol.CardPlayedPayload{
		Seat: result.Seat,
		Card: convert.CardToInfo(result.Card),
	}))

	if !result.TrickComplete {
		h.pushStates(r, protocol.MsgGameState)
		return
	}

	h.broadcastTrickResult(r, result)
}

// broadcastTrickResult 一墩结束后的事件下发。
// 桌面上的牌保留一小段时间再收走，期间不下发新视图
func (h *Handler) broadcastTrickResult(r *room.Room, result *engine.PlayResult) {
	v := r.GameEngine().ViewFor(-1)

	winnerName := ""
	if p := r.PlayerBySeat(result.TrickWinner); p != nil {
		winnerName = p.Name
	}

	r.Broadcast(protocol.MustNewMessage(protocol.MsgTrickWon, protocol.TrickWonPayload{
		WinnerSeat:   result.TrickWinner,
		WinnerName:   winnerName,
		Cards:        convert.TrickToInfos(result.TrickCards),
		CapturedTens: convert.CapturedToTeamCards(v.CapturedTens),
	}))

	if result.RoundComplete {
		r.Broadcast(protocol.MustNewMessage(protocol.MsgRoundEnd, protocol.RoundEndPayload{
			CapturedTens: convert.CapturedToTeamCards(v.CapturedTens),
			TricksWon:    convert.CountsToTeamScore(v.TricksWon),
			MatchScores:  convert.CountsToTeamScore(v.MatchScores),
			RoundWinner:  string(result.RoundWinner),
			IsKot:        result.IsKot,
		}))
	}

	if result.MatchComplete {
		r.Broadcast(protocol.MustNewMessage(protocol.MsgMatchEnd, protocol.MatchEndPayload{
			Winner:      string(result.MatchWinner),
			MatchScores: convert.CountsToTeamScore(v.MatchScores),
		}))
		h.roomManager.ArchiveRoom(r)
		log.Printf("🏆 房间 %s 比赛结束，%s 队获胜", r.Code, result.MatchWinner)
	}

	// 展示期结束后再下发收墩后的视图
	r.ScheduleReveal(h.trickRevealDelay, func() {
		h.pushStates(r, protocol.MsgGameState)
	})
}

// handleNewRound 轮结束后开始下一轮
func (h *Handler) handleNewRound(client types.ClientInterface) {
	r, _, err := h.roomAndSeat(client)
	if err != nil {
		h.sendError(client, err)
		return
	}

	if _, err := h.roomManager.StartNewRound(r.Code); err != nil {
		h.sendError(client, err)
		return
	}

	h.pushStates(r, protocol.MsgGameStarted)
}
