package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	gameclient "github.com/palemoky/dehla-pakad/internal/client"
	"github.com/palemoky/dehla-pakad/internal/logger"
	"github.com/palemoky/dehla-pakad/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:1780", "服务器地址")
	flag.Parse()

	if err := logger.Init(); err != nil {
		log.Printf("日志初始化失败: %v", err)
	}
	defer logger.Close()

	token, err := loadOrCreateToken()
	if err != nil {
		log.Fatalf("读取本地凭据失败: %v", err)
	}

	serverURL := fmt.Sprintf("ws://%s/ws", *serverAddr)
	c := gameclient.NewClient(serverURL, token)
	if err := c.Connect(); err != nil {
		log.Fatalf("连接服务器失败: %v", err)
	}

	model := ui.NewModel(c)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// 重连进度推给 UI
	c.OnReconnecting = func(attempt, max int) {
		p.Send(ui.ReconnectingMsg{Attempt: attempt, MaxTries: max})
	}

	if _, err := p.Run(); err != nil {
		log.Fatalf("启动客户端时出错: %v", err)
	}
}

// loadOrCreateToken 读取本地稳定凭据，首次运行时生成。
// 凭据决定服务端眼里的身份，换机器等于换人
func loadOrCreateToken() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(homeDir, ".dehla-pakad")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, "token")
	if data, err := os.ReadFile(path); err == nil {
		if token := strings.TrimSpace(string(data)); token != "" {
			return token, nil
		}
	}

	token := uuid.New().String()
	if err := os.WriteFile(path, []byte(token), 0o600); err != nil {
		return "", err
	}
	return token, nil
}
