package engine

import (
	"github.com/palemoky/dehla-pakad/internal/game/card"
)

// View 某个座位可见的对局投影。
// 这是防作弊边界：除本座位手牌外，其他座位只暴露手牌数量
type View struct {
	Phase           Phase
	MySeat          int
	MyHand          []card.Card
	HandSizes       [seatCount]int
	CurrentPlayer   int
	Trick           []TrickCard
	TrickNumber     int
	LeadSuit        card.Suit
	TrumpSuit       card.Suit
	CapturedTens    map[Team][]card.Card
	TricksWon       map[Team]int
	MatchScores     map[Team]int
	DealerIndex     int
	LastTrickWinner int
	RoundNumber     int
	MatchTarget     int
	Connected       [seatCount]bool
}

// ViewFor 生成 seat 座位的视图，所有切片/映射均为拷贝
func (e *Engine) ViewFor(seat int) View {
	e.mu.RLock()
	defer e.mu.RUnlock()

	v := View{
		Phase:           e.phase,
		MySeat:          seat,
		CurrentPlayer:   e.currentPlayer,
		TrickNumber:     e.trickNumber,
		LeadSuit:        e.leadSuit,
		TrumpSuit:       e.trumpSuit,
		DealerIndex:     e.dealerIndex,
		LastTrickWinner: e.lastTrickWinner,
		RoundNumber:     e.roundNumber,
		MatchTarget:     e.matchTarget,
		Connected:       e.connected,
		CapturedTens:    map[Team][]card.Card{},
		TricksWon:       map[Team]int{},
		MatchScores:     map[Team]int{},
	}

	if seat >= 0 && seat < seatCount {
		v.MyHand = append([]card.Card(nil), e.hands[seat]...)
	}
	for i := range e.hands {
		v.HandSizes[i] = len(e.hands[i])
	}
	v.Trick = append([]TrickCard(nil), e.trick...)

	for team, cards := range e.capturedTens {
		v.CapturedTens[team] = append([]card.Card(nil), cards...)
	}
	for team, n := range e.tricksWon {
		v.TricksWon[team] = n
	}
	for team, n := range e.matchScores {
		v.MatchScores[team] = n
	}

	return v
}
