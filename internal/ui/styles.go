package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/dehla-pakad/internal/game/card"
)

// Lipgloss styles
var (
	docStyle      = lipgloss.NewStyle().Margin(1, 2)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	redSuitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Bold(true)
	blackStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true)
	trumpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("228")).Bold(true)
	teamAStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	teamBStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
)

// suitSymbols 花色符号
var suitSymbols = map[string]string{
	string(card.Hearts):   "♥",
	string(card.Diamonds): "♦",
	string(card.Clubs):    "♣",
	string(card.Spades):   "♠",
}

// redSuits 红色花色
var redSuits = map[string]bool{
	string(card.Hearts):   true,
	string(card.Diamonds): true,
}

// renderCard 渲染一张牌，红花色标红
func renderCard(suit, rank string, selected bool) string {
	label := suitSymbols[suit] + rank
	if selected {
		return selectedStyle.Render("[" + label + "]")
	}
	if redSuits[suit] {
		return redSuitStyle.Render(" " + label + " ")
	}
	return blackStyle.Render(" " + label + " ")
}

// teamStyle 按队伍配色
func teamStyle(team string) lipgloss.Style {
	if team == "A" {
		return teamAStyle
	}
	return teamBStyle
}
