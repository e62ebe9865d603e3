package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/dehla-pakad/internal/protocol"
)

func (m *Model) View() string {
	var body string
	switch m.phase {
	case PhaseLobby:
		body = m.viewLobby()
	case PhaseWaiting:
		body = m.viewWaiting()
	case PhasePlaying:
		body = m.viewGame()
	case PhaseRoundEnd:
		body = m.viewRoundEnd()
	case PhaseMatchEnd:
		body = m.viewMatchEnd()
	}

	if m.notice != "" {
		style := dimStyle
		if m.noticeIsErr {
			style = errorStyle
		}
		body += "\n" + style.Render(m.notice)
	}

	return docStyle.Render(body)
}

func (m *Model) viewLobby() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🎴 捉十 · Dehla Pakad"))
	b.WriteString("\n\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n")
	b.WriteString(m.codeInput.View())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Tab 切换 · Enter 确认 · Ctrl+C 退出"))
	return b.String()
}

func (m *Model) viewWaiting() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("房间 %s", m.roomCode)))
	b.WriteString("\n\n")

	for seat := range 4 {
		var line string
		p := m.playerAt(seat)
		if p == nil {
			line = dimStyle.Render(fmt.Sprintf("座位 %d: 等待加入...", seat))
		} else {
			marker := " "
			if p.Seat == m.mySeat {
				marker = "»"
			}
			status := ""
			if !p.Connected {
				status = dimStyle.Render(" (离线)")
			}
			line = fmt.Sprintf("%s 座位 %d: %s %s%s",
				marker, seat, teamStyle(p.Team).Render(p.Team+"队"), p.Name, status)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	if m.mySeat == 0 {
		b.WriteString(dimStyle.Render("s 开始对局（需 4 人到齐）· q 退出"))
	} else {
		b.WriteString(dimStyle.Render("等待房主开局 · q 退出"))
	}
	return b.String()
}

func (m *Model) viewGame() string {
	if m.state == nil {
		return "等待对局状态..."
	}
	s := m.state

	var b strings.Builder
	header := fmt.Sprintf("房间 %s · 第 %d 轮 · 第 %d 墩", m.roomCode, s.RoundNumber, s.TrickNumber+1)
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")

	if s.TrumpSuit != "" {
		b.WriteString(trumpStyle.Render("主牌: " + suitSymbols[s.TrumpSuit]))
	} else {
		b.WriteString(dimStyle.Render("本轮无主"))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("   比分 A:%d B:%d (先到 %d)",
		s.MatchScores.A, s.MatchScores.B, s.MatchTarget)))
	b.WriteString("\n\n")

	// 其他座位
	for seat := range 4 {
		if seat == m.mySeat {
			continue
		}
		p := m.playerAt(seat)
		name := fmt.Sprintf("座位%d", seat)
		team := "?"
		offline := ""
		if p != nil {
			name = p.Name
			team = p.Team
			if !p.Connected {
				offline = dimStyle.Render(" ⚡离线")
			}
		}
		turn := "  "
		if s.CurrentPlayer == seat {
			turn = "▶ "
		}
		b.WriteString(fmt.Sprintf("%s%s %s · %d 张%s\n",
			turn, teamStyle(team).Render(team), name, s.HandSizes[seat], offline))
	}

	// 桌面上的牌
	b.WriteString("\n")
	if len(s.Trick) > 0 {
		var cells []string
		for _, tc := range s.Trick {
			cells = append(cells, fmt.Sprintf("%d:%s", tc.Seat, renderCard(tc.Card.Suit, tc.Card.Rank, false)))
		}
		b.WriteString(boxStyle.Render(strings.Join(cells, "  ")))
	} else {
		b.WriteString(boxStyle.Render(dimStyle.Render("新一墩，等待首攻")))
	}
	b.WriteString("\n\n")

	// 捕获的 10
	b.WriteString(fmt.Sprintf("捕获: %s %d  %s %d\n\n",
		teamAStyle.Render("A队"), len(s.CapturedTens.A),
		teamBStyle.Render("B队"), len(s.CapturedTens.B)))

	// 我的手牌
	var hand []string
	for i, c := range s.MyHand {
		hand = append(hand, renderCard(c.Suit, c.Rank, i == m.selectedCard))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, hand...))
	b.WriteString("\n\n")

	if s.CurrentPlayer == m.mySeat {
		b.WriteString(titleStyle.Render("轮到你了！") + dimStyle.Render(" ←/→ 选牌 · Enter 出牌"))
	} else {
		b.WriteString(dimStyle.Render(fmt.Sprintf("等待座位 %d 出牌...", s.CurrentPlayer)))
	}
	return b.String()
}

func (m *Model) viewRoundEnd() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🏁 本轮结束"))
	b.WriteString("\n\n")

	if r := m.roundResult; r != nil {
		b.WriteString(fmt.Sprintf("捕获的 10: A队 %d 张, B队 %d 张\n", len(r.CapturedTens.A), len(r.CapturedTens.B)))
		b.WriteString(fmt.Sprintf("墩数: A队 %d, B队 %d\n\n", r.TricksWon.A, r.TricksWon.B))
		switch {
		case r.RoundWinner == "":
			b.WriteString("2-2 平局，本轮无人得分\n")
		case r.IsKot:
			b.WriteString(teamStyle(r.RoundWinner).Render(r.RoundWinner+"队") + " 达成 Kot！独捕四个 10，得 2 分\n")
		default:
			b.WriteString(teamStyle(r.RoundWinner).Render(r.RoundWinner+"队") + " 捕获多数 10，得 1 分\n")
		}
		b.WriteString(fmt.Sprintf("\n总比分 A:%d B:%d\n", r.MatchScores.A, r.MatchScores.B))
	}

	b.WriteString("\n" + dimStyle.Render("Enter 开始下一轮"))
	return b.String()
}

func (m *Model) viewMatchEnd() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🏆 比赛结束"))
	b.WriteString("\n\n")

	if r := m.matchResult; r != nil {
		b.WriteString(teamStyle(r.Winner).Render(r.Winner+"队获胜！") + "\n")
		b.WriteString(fmt.Sprintf("最终比分 A:%d B:%d\n", r.MatchScores.A, r.MatchScores.B))
	}

	b.WriteString("\n" + dimStyle.Render("Enter 或 q 退出"))
	return b.String()
}

// playerAt 按座位取玩家
func (m *Model) playerAt(seat int) *protocol.PlayerInfo {
	for i := range m.players {
		if m.players[i].Seat == seat {
			return &m.players[i]
		}
	}
	return nil
}
