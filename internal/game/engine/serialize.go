package engine

import (
	"fmt"

	"github.com/palemoky/dehla-pakad/internal/game/card"
)

// Snapshot 引擎的可序列化快照，用于崩溃恢复。
// 牌以线上标识（"hearts-10"）存储，要求往返无损
type Snapshot struct {
	Phase               string              `json:"phase"`
	Hands               [seatCount][]string `json:"hands"`
	CurrentPlayer       int                 `json:"current_player"`
	Trick               []snapshotTrickCard `json:"trick"`
	TrickNumber         int                 `json:"trick_number"`
	LeadSuit            string              `json:"lead_suit,omitempty"`
	TrumpSuit           string              `json:"trump_suit,omitempty"`
	CapturedTens        map[string][]string `json:"captured_tens"`
	TricksWon           map[string]int      `json:"tricks_won"`
	MatchScores         map[string]int      `json:"match_scores"`
	MatchTarget         int                 `json:"match_target"`
	DealerIndex         int                 `json:"dealer_index"`
	RoundNumber         int                 `json:"round_number"`
	LastTrickWinner     int                 `json:"last_trick_winner"`
	LastCapturedTenSuit string              `json:"last_captured_ten_suit,omitempty"`
}

type snapshotTrickCard struct {
	Card string `json:"card"`
	Seat int    `json:"seat"`
}

// Snapshot 导出当前完整状态
func (e *Engine) Snapshot() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := &Snapshot{
		Phase:               string(e.phase),
		CurrentPlayer:       e.currentPlayer,
		TrickNumber:         e.trickNumber,
		LeadSuit:            string(e.leadSuit),
		TrumpSuit:           string(e.trumpSuit),
		CapturedTens:        map[string][]string{},
		TricksWon:           map[string]int{},
		MatchScores:         map[string]int{},
		MatchTarget:         e.matchTarget,
		DealerIndex:         e.dealerIndex,
		RoundNumber:         e.roundNumber,
		LastTrickWinner:     e.lastTrickWinner,
		LastCapturedTenSuit: string(e.lastCapturedTenSuit),
	}

	for i, hand := range e.hands {
		s.Hands[i] = make([]string, len(hand))
		for j, c := range hand {
			s.Hands[i][j] = c.ID()
		}
	}
	for _, tc := range e.trick {
		s.Trick = append(s.Trick, snapshotTrickCard{Card: tc.Card.ID(), Seat: tc.Seat})
	}
	for team, cards := range e.capturedTens {
		ids := make([]string, len(cards))
		for i, c := range cards {
			ids[i] = c.ID()
		}
		s.CapturedTens[string(team)] = ids
	}
	for team, n := range e.tricksWon {
		s.TricksWon[string(team)] = n
	}
	for team, n := range e.matchScores {
		s.MatchScores[string(team)] = n
	}

	return s
}

// Restore 从快照重建引擎，任何一张牌解析失败都整体失败
func Restore(s *Snapshot) (*Engine, error) {
	if s == nil {
		return nil, fmt.Errorf("快照为空")
	}

	e := New(s.MatchTarget)
	e.phase = Phase(s.Phase)
	e.currentPlayer = s.CurrentPlayer
	e.trickNumber = s.TrickNumber
	e.leadSuit = card.Suit(s.LeadSuit)
	e.trumpSuit = card.Suit(s.TrumpSuit)
	e.dealerIndex = s.DealerIndex
	e.roundNumber = s.RoundNumber
	e.lastTrickWinner = s.LastTrickWinner
	e.lastCapturedTenSuit = card.Suit(s.LastCapturedTenSuit)

	for i, ids := range s.Hands {
		hand, err := cardsFromIDs(ids)
		if err != nil {
			return nil, fmt.Errorf("恢复座位 %d 手牌失败: %w", i, err)
		}
		e.hands[i] = hand
	}
	for _, tc := range s.Trick {
		c, err := card.FromID(tc.Card)
		if err != nil {
			return nil, fmt.Errorf("恢复当前墩失败: %w", err)
		}
		e.trick = append(e.trick, TrickCard{Card: c, Seat: tc.Seat})
	}
	for team, ids := range s.CapturedTens {
		cards, err := cardsFromIDs(ids)
		if err != nil {
			return nil, fmt.Errorf("恢复 %s 队捕获牌失败: %w", team, err)
		}
		e.capturedTens[Team(team)] = cards
	}
	for team, n := range s.TricksWon {
		e.tricksWon[Team(team)] = n
	}
	for team, n := range s.MatchScores {
		e.matchScores[Team(team)] = n
	}

	return e, nil
}

func cardsFromIDs(ids []string) ([]card.Card, error) {
	cards := make([]card.Card, 0, len(ids))
	for _, id := range ids {
		c, err := card.FromID(id)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
