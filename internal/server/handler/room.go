package handler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/palemoky/dehla-pakad/internal/apperrors"
	"github.com/palemoky/dehla-pakad/internal/protocol"
	"github.com/palemoky/dehla-pakad/internal/protocol/convert"
	"github.com/palemoky/dehla-pakad/internal/types"
)

// handleCreateRoom 处理创建房间
func (h *Handler) handleCreateRoom(client types.ClientInterface, msg *protocol.Message) {
	// 载荷里带了昵称就用载荷的，没带保留认证时的默认昵称
	if msg != nil {
		if payload, err := protocol.ParsePayload[protocol.CreateRoomPayload](msg); err == nil && payload.Name != "" {
			client.SetProfile(payload.Name, payload.Avatar)
		}
	}

	room, err := h.roomManager.CreateRoom(client)
	if err != nil {
		h.sendError(client, err)
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: room.Code,
		Seat:     0,
		Players:  room.PlayersInfo(),
	}))
}

// handleJoinRoom 处理加入房间
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	// 昵称和头像只在开局前可改，对局中重进不碰座位资料
	if payload.Name != "" {
		if r := h.roomManager.GetRoom(payload.RoomCode); r != nil && r.GameEngine() == nil {
			client.SetProfile(payload.Name, payload.Avatar)
		}
	}

	room, seat, err := h.roomManager.JoinRoom(client, payload.RoomCode)
	if err != nil {
		h.sendError(client, err)
		return
	}

	players := room.PlayersInfo()
	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		RoomCode: room.Code,
		Seat:     seat,
		Players:  players,
	}))

	// 对局进行中说明这是重进，补发座位视图
	if eng := room.GameEngine(); eng != nil {
		state := convert.ViewToState(eng.ViewFor(seat), players)
		client.SendMessage(protocol.MustNewMessage(protocol.MsgGameState, state))
		room.BroadcastExcept(client.GetIdentity(), protocol.MustNewMessage(protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{
			Seat: seat,
			Name: client.GetName(),
		}))
		return
	}

	// 通知其他人有新玩家入座
	p := room.PlayerBySeat(seat)
	if p != nil {
		room.BroadcastExcept(client.GetIdentity(), protocol.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
			Player:  p.Info(),
			Players: players,
		}))
	}
}

// handleReconnect 处理断线重连
func (h *Handler) handleReconnect(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.ReconnectPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	room, seat, err := h.roomManager.Reconnect(client, payload.RoomCode)
	if errors.Is(err, apperrors.ErrUnknownIdentity) {
		// 身份对不上但房间还在大厅阶段时按普通加入处理，满员由 JoinRoom 自己报错
		if r := h.roomManager.GetRoom(payload.RoomCode); r != nil && r.GameEngine() == nil {
			h.handleJoinRoom(client, protocol.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
				RoomCode: payload.RoomCode,
			}))
			return
		}
	}
	if err != nil {
		h.sendError(client, err)
		return
	}

	players := room.PlayersInfo()
	reconnected := protocol.ReconnectedPayload{
		RoomCode: room.Code,
		Seat:     seat,
		Players:  players,
	}
	if eng := room.GameEngine(); eng != nil {
		reconnected.GameState = convert.ViewToState(eng.ViewFor(seat), players)
	}
	client.SendMessage(protocol.MustNewMessage(protocol.MsgReconnected, reconnected))

	room.BroadcastExcept(client.GetIdentity(), protocol.MustNewMessage(protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{
		Seat: seat,
		Name: client.GetName(),
	}))

	log.Printf("📶 玩家 %s 重连成功 (房间 %s, 座位 %d)", client.GetName(), room.Code, seat)
}

// handleRoomHistory 查询玩家的历史房间
func (h *Handler) handleRoomHistory(client types.ClientInterface) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := h.roomManager.RoomHistory(ctx, client.GetIdentity())
	if err != nil {
		h.sendError(client, err)
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomHistoryResult, protocol.RoomHistoryResultPayload{
		Rooms: entries,
	}))
}
