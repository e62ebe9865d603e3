package client

import (
	"github.com/palemoky/dehla-pakad/internal/protocol"
)

// --- 便捷方法 ---

// CreateRoom 创建房间
func (c *Client) CreateRoom(name string, avatar int) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{
		Name:   name,
		Avatar: avatar,
	}))
}

// JoinRoom 加入房间
func (c *Client) JoinRoom(roomCode, name string, avatar int) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: roomCode,
		Name:     name,
		Avatar:   avatar,
	}))
}

// StartGame 开始对局（需要 4 人到齐）
func (c *Client) StartGame() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgStartGame, nil))
}

// PlayCard 出一张牌
func (c *Client) PlayCard(cardID string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPlayCard, protocol.PlayCardPayload{
		CardID: cardID,
	}))
}

// NewRound 轮结束后开始下一轮
func (c *Client) NewRound() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgNewRound, nil))
}

// RoomHistory 查询自己参与过的房间
func (c *Client) RoomHistory() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgRoomHistory, nil))
}

// Ping 发送心跳
func (c *Client) Ping() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPing, nil))
}
