package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	gameclient "github.com/palemoky/dehla-pakad/internal/client"
	"github.com/palemoky/dehla-pakad/internal/protocol"
)

// --- Tea messages ---

// ServerMessage 包装一条来自服务端的协议消息
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectionErrorMsg 连接错误
type ConnectionErrorMsg struct {
	Err error
}

// ConnectionClosedMsg 连接已关闭且重连放弃
type ConnectionClosedMsg struct{}

// ReconnectingMsg 正在重连
type ReconnectingMsg struct {
	Attempt  int
	MaxTries int
}

// clearNoticeMsg 清除临时提示
type clearNoticeMsg struct{}

// waitForMessage 阻塞等待下一条服务端消息
func waitForMessage(c *gameclient.Client) tea.Cmd {
	return func() tea.Msg {
		msg, err := c.Receive()
		if err != nil {
			return ConnectionClosedMsg{}
		}
		return ServerMessage{Msg: msg}
	}
}
