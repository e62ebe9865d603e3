package handler

import (
	"errors"
	"log"
	"time"

	"github.com/palemoky/dehla-pakad/internal/apperrors"
	"github.com/palemoky/dehla-pakad/internal/game/room"
	"github.com/palemoky/dehla-pakad/internal/protocol"
	"github.com/palemoky/dehla-pakad/internal/protocol/convert"
	"github.com/palemoky/dehla-pakad/internal/types"
)

// Deps 处理器依赖
type Deps struct {
	Server           types.ServerInterface
	RoomManager      *room.Manager
	TrickRevealDelay time.Duration
}

// Handler 消息处理器
type Handler struct {
	server           types.ServerInterface
	roomManager      *room.Manager
	trickRevealDelay time.Duration
	handlers         map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps Deps) *Handler {
	h := &Handler{
		server:           deps.Server,
		roomManager:      deps.RoomManager,
		trickRevealDelay: deps.TrickRevealDelay,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing:      h.handlePing,
		protocol.MsgReconnect: h.handleReconnect,

		// 房间操作
		protocol.MsgCreateRoom:  h.handleCreateRoom,
		protocol.MsgJoinRoom:    h.handleJoinRoom,
		protocol.MsgRoomHistory: func(c types.ClientInterface, _ *protocol.Message) { h.handleRoomHistory(c) },

		// 游戏操作
		protocol.MsgStartGame: func(c types.ClientInterface, _ *protocol.Message) { h.handleStartGame(c) },
		protocol.MsgPlayCard:  h.handlePlayCard,
		protocol.MsgNewRound:  func(c types.ClientInterface, _ *protocol.Message) { h.handleNewRound(c) },
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	log.Printf("⚠️  未知消息类型: '%s' (来自玩家: %s, ID: %s)", msg.Type, client.GetName(), client.GetID())
	client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// handlePing 心跳
func (h *Handler) handlePing(client types.ClientInterface, _ *protocol.Message) {
	client.SendMessage(protocol.MustNewMessage(protocol.MsgPong, nil))
}

// sendError 把业务错误翻译成协议错误码发给客户端
func (h *Handler) sendError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(protocol.NewErrorMessage(gameErr.Code))
		return
	}
	client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}

// pushStates 给房间内每个在线玩家下发各自座位的视图
func (h *Handler) pushStates(r *room.Room, msgType protocol.MessageType) {
	eng := r.GameEngine()
	if eng == nil {
		return
	}

	players := r.PlayersInfo()
	r.ForEachSeated(func(p *room.Player) {
		state := convert.ViewToState(eng.ViewFor(p.Seat), players)
		p.Client.SendMessage(protocol.MustNewMessage(msgType, state))
	})
}
