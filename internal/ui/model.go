package ui

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	gameclient "github.com/palemoky/dehla-pakad/internal/client"
	"github.com/palemoky/dehla-pakad/internal/protocol"
)

// Phase 客户端界面阶段
type Phase int

const (
	PhaseLobby    Phase = iota // 输入昵称、建房或加入
	PhaseWaiting               // 房间内等待满 4 人
	PhasePlaying               // 对局中
	PhaseRoundEnd              // 一轮结束，等待开下一轮
	PhaseMatchEnd              // 比赛结束
)

// lobbyField 大厅输入焦点
type lobbyField int

const (
	fieldName lobbyField = iota
	fieldRoomCode
)

// Model 客户端根模型
type Model struct {
	client *gameclient.Client
	width  int
	height int

	phase Phase

	// 大厅
	nameInput textinput.Model
	codeInput textinput.Model
	focus     lobbyField

	// 房间与对局
	roomCode string
	mySeat   int
	players  []protocol.PlayerInfo
	state    *protocol.GameStateInfo

	// 手牌选择
	selectedCard int

	// 最近一墩与结算
	lastTrickWinner string
	roundResult     *protocol.RoundEndPayload
	matchResult     *protocol.MatchEndPayload

	// 提示
	notice       string
	noticeIsErr  bool
	reconnecting bool
}

// NewModel 创建根模型
func NewModel(c *gameclient.Client) *Model {
	nameInput := textinput.New()
	nameInput.Placeholder = "昵称（留空随机）"
	nameInput.CharLimit = 16
	nameInput.Width = 24
	nameInput.Focus()

	codeInput := textinput.New()
	codeInput.Placeholder = "房间号（留空创建新房间）"
	codeInput.CharLimit = 6
	codeInput.Width = 24

	return &Model{
		client:    c,
		phase:     PhaseLobby,
		nameInput: nameInput,
		codeInput: codeInput,
		mySeat:    -1,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForMessage(m.client), textinput.Blink)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ServerMessage:
		cmd := m.applyServer(msg.Msg)
		return m, tea.Batch(waitForMessage(m.client), cmd)

	case ReconnectingMsg:
		m.reconnecting = true
		m.notice = fmt.Sprintf("连接断开，正在重连 (%d/%d)...", msg.Attempt, msg.MaxTries)
		m.noticeIsErr = true
		return m, nil

	case ConnectionErrorMsg:
		m.setNotice(fmt.Sprintf("网络错误: %v", msg.Err), true)
		return m, m.clearNoticeLater()

	case ConnectionClosedMsg:
		if m.reconnecting {
			return m, nil // 重连协程接管后会恢复消息流
		}
		return m, tea.Quit

	case clearNoticeMsg:
		m.notice = ""
		return m, nil
	}

	return m, nil
}

// handleKey 按阶段分发按键
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.client.Close()
		return m, tea.Quit
	}

	switch m.phase {
	case PhaseLobby:
		return m.handleLobbyKey(msg)
	case PhaseWaiting:
		return m.handleWaitingKey(msg)
	case PhasePlaying:
		return m.handlePlayingKey(msg)
	case PhaseRoundEnd:
		if msg.Type == tea.KeyEnter {
			if err := m.client.NewRound(); err != nil {
				m.setNotice(err.Error(), true)
				return m, m.clearNoticeLater()
			}
		}
	case PhaseMatchEnd:
		if msg.String() == "q" || msg.Type == tea.KeyEnter {
			m.client.Close()
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) handleLobbyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown, tea.KeyUp:
		if m.focus == fieldName {
			m.focus = fieldRoomCode
			m.nameInput.Blur()
			m.codeInput.Focus()
		} else {
			m.focus = fieldName
			m.codeInput.Blur()
			m.nameInput.Focus()
		}
		return m, nil

	case tea.KeyEnter:
		m.client.PlayerName = m.nameInput.Value()
		code := m.codeInput.Value()
		var err error
		if code == "" {
			err = m.client.CreateRoom(m.nameInput.Value(), 0)
		} else {
			err = m.client.JoinRoom(code, m.nameInput.Value(), 0)
		}
		if err != nil {
			m.setNotice(err.Error(), true)
			return m, m.clearNoticeLater()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == fieldName {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.codeInput, cmd = m.codeInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s":
		// 只有房主（0 号位）能开局
		if m.mySeat == 0 {
			if err := m.client.StartGame(); err != nil {
				m.setNotice(err.Error(), true)
				return m, m.clearNoticeLater()
			}
		}
	case "q":
		m.client.Close()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handlePlayingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == nil {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyLeft:
		m.moveSelection(-1)
	case tea.KeyRight:
		m.moveSelection(1)
	case tea.KeyEnter, tea.KeySpace:
		if len(m.state.MyHand) == 0 || m.state.CurrentPlayer != m.mySeat {
			return m, nil
		}
		cardID := m.state.MyHand[m.selectedCard].ID
		if err := m.client.PlayCard(cardID); err != nil {
			m.setNotice(err.Error(), true)
			return m, m.clearNoticeLater()
		}
	}
	return m, nil
}

// moveSelection 在手牌间移动光标（循环）
func (m *Model) moveSelection(delta int) {
	n := len(m.state.MyHand)
	if n == 0 {
		return
	}
	m.selectedCard = (m.selectedCard + delta + n) % n
}

// applyServer 处理服务端消息，返回可选的后续命令
func (m *Model) applyServer(msg *protocol.Message) tea.Cmd {
	switch msg.Type {
	case protocol.MsgRoomCreated:
		var p protocol.RoomCreatedPayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			m.roomCode = p.RoomCode
			m.mySeat = p.Seat
			m.players = p.Players
			m.phase = PhaseWaiting
		}

	case protocol.MsgRoomJoined:
		var p protocol.RoomJoinedPayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			m.roomCode = p.RoomCode
			m.mySeat = p.Seat
			m.players = p.Players
			m.phase = PhaseWaiting
		}

	case protocol.MsgPlayerJoined:
		var p protocol.PlayerJoinedPayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			m.players = p.Players
			m.setNotice(fmt.Sprintf("%s 入座 %d 号位", p.Player.Name, p.Player.Seat), false)
			return m.clearNoticeLater()
		}

	case protocol.MsgGameStarted, protocol.MsgGameState:
		var p protocol.GameStateInfo
		if json.Unmarshal(msg.Payload, &p) == nil {
			m.applyState(&p)
		}

	case protocol.MsgTrickWon:
		var p protocol.TrickWonPayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			m.lastTrickWinner = p.WinnerName
			m.setNotice(fmt.Sprintf("本墩由 %s 收走", p.WinnerName), false)
			return m.clearNoticeLater()
		}

	case protocol.MsgRoundEnd:
		var p protocol.RoundEndPayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			m.roundResult = &p
			m.phase = PhaseRoundEnd
		}

	case protocol.MsgMatchEnd:
		var p protocol.MatchEndPayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			m.matchResult = &p
			m.phase = PhaseMatchEnd
		}

	case protocol.MsgPlayerOffline:
		var p protocol.PlayerOfflinePayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			m.setPlayerConnected(p.Seat, false)
			m.setNotice(fmt.Sprintf("%s 掉线了，座位保留", p.Name), true)
			return m.clearNoticeLater()
		}

	case protocol.MsgPlayerOnline:
		var p protocol.PlayerOnlinePayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			m.setPlayerConnected(p.Seat, true)
			m.setNotice(fmt.Sprintf("%s 回来了", p.Name), false)
			return m.clearNoticeLater()
		}

	case protocol.MsgReconnected:
		var p protocol.ReconnectedPayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			m.reconnecting = false
			m.roomCode = p.RoomCode
			m.mySeat = p.Seat
			m.players = p.Players
			if p.GameState != nil {
				m.applyState(p.GameState)
			} else {
				m.phase = PhaseWaiting
			}
			m.setNotice("重连成功", false)
			return m.clearNoticeLater()
		}

	case protocol.MsgError:
		var p protocol.ErrorPayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			m.setNotice(p.Message, true)
			return m.clearNoticeLater()
		}
	}

	return nil
}

// applyState 接收新视图并收敛光标与阶段
func (m *Model) applyState(state *protocol.GameStateInfo) {
	m.state = state
	m.mySeat = state.MySeat
	if len(state.Players) > 0 {
		m.players = state.Players
	}
	if m.selectedCard >= len(state.MyHand) {
		m.selectedCard = 0
	}

	switch state.Phase {
	case "playing":
		m.phase = PhasePlaying
	case "roundEnd":
		m.phase = PhaseRoundEnd
	case "matchEnd":
		m.phase = PhaseMatchEnd
	}
}

func (m *Model) setPlayerConnected(seat int, connected bool) {
	for i := range m.players {
		if m.players[i].Seat == seat {
			m.players[i].Connected = connected
		}
	}
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeIsErr = isErr
}

// clearNoticeLater 3 秒后清除提示
func (m *Model) clearNoticeLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearNoticeMsg{}
	})
}
