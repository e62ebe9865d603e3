package convert

import (
	"github.com/palemoky/dehla-pakad/internal/game/card"
	"github.com/palemoky/dehla-pakad/internal/game/engine"
	"github.com/palemoky/dehla-pakad/internal/protocol"
)

// TrickToInfos 将引擎的当前墩转换为协议表示
func TrickToInfos(trick []engine.TrickCard) []protocol.TrickCardInfo {
	infos := make([]protocol.TrickCardInfo, len(trick))
	for i, tc := range trick {
		infos[i] = protocol.TrickCardInfo{
			Card: CardToInfo(tc.Card),
			Seat: tc.Seat,
		}
	}
	return infos
}

// CapturedToTeamCards 将两队捕获的 10 转换为协议表示
func CapturedToTeamCards(captured map[engine.Team][]card.Card) protocol.TeamCards {
	return protocol.TeamCards{
		A: CardsToInfos(captured[engine.TeamA]),
		B: CardsToInfos(captured[engine.TeamB]),
	}
}

// CountsToTeamScore 将按队计数的映射转换为协议表示
func CountsToTeamScore(counts map[engine.Team]int) protocol.TeamScore {
	return protocol.TeamScore{
		A: counts[engine.TeamA],
		B: counts[engine.TeamB],
	}
}

// ViewToState 将某座位的引擎视图和房间玩家列表合成为下发的对局状态
func ViewToState(v engine.View, players []protocol.PlayerInfo) *protocol.GameStateInfo {
	return &protocol.GameStateInfo{
		Phase:           string(v.Phase),
		MySeat:          v.MySeat,
		MyHand:          CardsToInfos(v.MyHand),
		HandSizes:       v.HandSizes,
		CurrentPlayer:   v.CurrentPlayer,
		Trick:           TrickToInfos(v.Trick),
		TrickNumber:     v.TrickNumber,
		LeadSuit:        string(v.LeadSuit),
		TrumpSuit:       string(v.TrumpSuit),
		CapturedTens:    CapturedToTeamCards(v.CapturedTens),
		TricksWon:       CountsToTeamScore(v.TricksWon),
		MatchScores:     CountsToTeamScore(v.MatchScores),
		DealerIndex:     v.DealerIndex,
		LastTrickWinner: v.LastTrickWinner,
		RoundNumber:     v.RoundNumber,
		MatchTarget:     v.MatchTarget,
		Players:         players,
	}
}
