package types

import (
	"github.com/palemoky/dehla-pakad/internal/protocol"
)

// ClientInterface 定义客户端连接接口（用于打破循环依赖）。
// 连接身份（ID）每次重连都会变化，稳定身份（Identity）来自认证协作方，
// 座位绑定跟随稳定身份而不是连接
type ClientInterface interface {
	GetID() string       // 连接唯一 ID（瞬时）
	GetIdentity() string // 稳定身份 ID（认证后不变）
	GetName() string
	GetAvatar() int
	GetRoom() string
	SetRoom(code string)
	SetProfile(name string, avatar int)
	SendMessage(msg *protocol.Message)
	Close()
}

// ServerInterface 定义服务器接口
type ServerInterface interface {
	GetOnlineCount() int
	GetClientByID(id string) ClientInterface
	RegisterClient(id string, client ClientInterface)
	UnregisterClient(id string)
}
