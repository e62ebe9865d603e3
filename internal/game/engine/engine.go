package engine

import (
	"sync"

	"github.com/palemoky/dehla-pakad/internal/apperrors"
	"github.com/palemoky/dehla-pakad/internal/game/card"
)

// Team 队伍标识，由座位奇偶派生，不单独存储
type Team string

const (
	TeamA Team = "A" // 座位 0、2
	TeamB Team = "B" // 座位 1、3
)

// TeamOfSeat 返回座位所属队伍
func TeamOfSeat(seat int) Team {
	if seat%2 == 0 {
		return TeamA
	}
	return TeamB
}

// Phase 对局阶段
type Phase string

const (
	PhaseWaiting  Phase = "waiting"  // 首轮开始前
	PhasePlaying  Phase = "playing"  // 唯一接受出牌的阶段
	PhaseRoundEnd Phase = "roundEnd" // 等待开下一轮
	PhaseMatchEnd Phase = "matchEnd" // 终态，不再接受任何操作
)

const (
	seatCount      = 4
	cardsPerHand   = 13
	tricksPerRound = 13

	// DefaultMatchTarget 默认获胜所需分数
	DefaultMatchTarget = 5
)

// TrickCard 一墩中已打出的牌
type TrickCard struct {
	Card card.Card
	Seat int
}

// Engine 一场比赛的权威状态。
// 同一房间的所有变更由房间串行化，引擎内部再加锁兜底
type Engine struct {
	phase Phase

	hands         [seatCount][]card.Card
	currentPlayer int
	trick         []TrickCard
	trickNumber   int
	leadSuit      card.Suit // 空表示本墩尚未首攻
	trumpSuit     card.Suit // 空表示无主（第一轮）

	capturedTens map[Team][]card.Card
	tricksWon    map[Team]int

	matchScores map[Team]int
	matchTarget int
	dealerIndex int
	roundNumber int

	lastTrickWinner     int       // -1 表示本轮尚无
	lastCapturedTenSuit card.Suit // 本轮最后一张被捕获的 10 的花色

	connected [seatCount]bool

	mu sync.RWMutex
}

// PlayResult 一次成功出牌产生的全部事件数据
type PlayResult struct {
	Seat int
	Card card.Card

	TrickComplete bool
	TrickWinner   int
	TrickCards    []TrickCard
	CapturedTen   bool

	RoundComplete bool
	RoundWinner   Team // 空表示 2-2 平局
	IsKot         bool
	RoundPoints   int

	MatchComplete bool
	MatchWinner   Team
}

// New 创建一个等待开局的引擎
func New(matchTarget int) *Engine {
	if matchTarget <= 0 {
		matchTarget = DefaultMatchTarget
	}
	e := &Engine{
		phase:           PhaseWaiting,
		matchTarget:     matchTarget,
		lastTrickWinner: -1,
	}
	e.resetRoundState()
	for i := range e.connected {
		e.connected[i] = true
	}
	return e
}

func (e *Engine) resetRoundState() {
	e.trick = nil
	e.trickNumber = 0
	e.leadSuit = ""
	e.capturedTens = map[Team][]card.Card{TeamA: {}, TeamB: {}}
	e.tricksWon = map[Team]int{TeamA: 0, TeamB: 0}
	e.lastTrickWinner = -1
	e.lastCapturedTenSuit = ""
	if e.matchScores == nil {
		e.matchScores = map[Team]int{TeamA: 0, TeamB: 0}
	}
}

// Phase 返回当前阶段
func (e *Engine) Phase() Phase {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.phase
}

// StartRound 开始新一轮：清理上一轮状态、洗牌、发牌。
// 第一轮无主；之后主牌沿用上一轮最后一张被捕获的 10 的花色
func (e *Engine) StartRound() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.phase {
	case PhaseWaiting, PhaseRoundEnd:
	case PhaseMatchEnd:
		return apperrors.ErrMatchOver
	default:
		return apperrors.ErrNotRoundEnd
	}

	deck := card.NewDeck()
	deck.Shuffle()

	// 轮流发牌，每人 13 张
	for i := range e.hands {
		e.hands[i] = make([]card.Card, 0, cardsPerHand)
	}
	for i, c := range deck {
		e.hands[i%seatCount] = append(e.hands[i%seatCount], c)
	}
	// 按花色再点数排序，只为显示稳定
	for i := range e.hands {
		card.SortBySuitThenRank(e.hands[i])
	}

	e.resetRoundState()
	e.roundNumber++

	// 第一轮硬编码为无主，不由"上一轮没有 10 被捕获"推导
	if e.roundNumber == 1 {
		e.trumpSuit = ""
	}

	// 庄家左手位先出
	e.currentPlayer = (e.dealerIndex + 1) % seatCount
	e.phase = PhasePlaying

	return nil
}

// PlayCard 处理一次出牌。校验顺序：阶段 → 轮次 → 持牌 → 跟牌规则。
// 任何校验失败都不改动状态，只返回具名错误
func (e *Engine) PlayCard(seat int, cardID string) (*PlayResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhasePlaying {
		return nil, apperrors.ErrNotPlayingPhase
	}
	if seat != e.currentPlayer {
		return nil, apperrors.ErrNotYourTurn
	}

	hand := e.hands[seat]
	cardIdx := -1
	for i, c := range hand {
		if c.ID() == cardID {
			cardIdx = i
			break
		}
	}
	if cardIdx == -1 {
		return nil, apperrors.ErrCardNotInHand
	}
	played := hand[cardIdx]

	// 跟牌规则：有首攻花色必须跟；没有则任意出（包括主牌），无强制出主
	if len(e.trick) > 0 && played.Suit != e.leadSuit {
		for _, c := range hand {
			if c.Suit == e.leadSuit {
				return nil, apperrors.ErrMustFollowSuit
			}
		}
	}

	// 校验全部通过，从这里开始变更状态
	e.hands[seat] = append(hand[:cardIdx], hand[cardIdx+1:]...)

	if len(e.trick) == 0 {
		e.leadSuit = played.Suit
	}
	e.trick = append(e.trick, TrickCard{Card: played, Seat: seat})

	if len(e.trick) == seatCount {
		return e.resolveTrick(seat, played)
	}

	e.currentPlayer = (seat + 1) % seatCount
	return &PlayResult{Seat: seat, Card: played}, nil
}

// resolveTrick 第 4 张牌落下后结算本墩。
// 有主牌时主牌中点数最大者胜；无主牌时首攻花色中点数最大者胜，
// 非首攻花色的副牌永远不可能赢
func (e *Engine) resolveTrick(seat int, played card.Card) (*PlayResult, error) {
	winnerIdx := 0
	highest := card.Rank(0)
	winningWithTrump := false

	for i, tc := range e.trick {
		switch {
		case e.trumpSuit != "" && tc.Card.Suit == e.trumpSuit:
			if !winningWithTrump || tc.Card.Rank > highest {
				winnerIdx = i
				highest = tc.Card.Rank
				winningWithTrump = true
			}
		case !winningWithTrump && tc.Card.Suit == e.leadSuit:
			if tc.Card.Rank > highest {
				winnerIdx = i
				highest = tc.Card.Rank
			}
		}
	}

	winnerSeat := e.trick[winnerIdx].Seat
	winnerTeam := TeamOfSeat(winnerSeat)
	e.tricksWon[winnerTeam]++

	// 捕获 10：同一墩出现多张 10 时（不同花色被垫牌），
	// 按出牌顺序较晚的那张决定下一轮主牌
	capturedTen := false
	for _, tc := range e.trick {
		if tc.Card.Rank == card.Rank10 {
			e.capturedTens[winnerTeam] = append(e.capturedTens[winnerTeam], tc.Card)
			e.lastCapturedTenSuit = tc.Card.Suit
			capturedTen = true
		}
	}

	e.trickNumber++
	e.lastTrickWinner = winnerSeat

	trickCards := make([]TrickCard, len(e.trick))
	copy(trickCards, e.trick)

	e.trick = nil
	e.leadSuit = ""

	result := &PlayResult{
		Seat:          seat,
		Card:          played,
		TrickComplete: true,
		TrickWinner:   winnerSeat,
		TrickCards:    trickCards,
		CapturedTen:   capturedTen,
	}

	if e.trickNumber == tricksPerRound {
		e.resolveRound(result)
		return result, nil
	}

	// 赢墩者领出下一墩
	e.currentPlayer = winnerSeat
	return result, nil
}

// resolveRound 第 13 墩结算后结算本轮：
// 4-0 扫光（Kot）记 2 分，3-1 记 1 分，2-2 平局不记分。
// 下一轮主牌为本轮最后一张被捕获的 10 的花色
func (e *Engine) resolveRound(result *PlayResult) {
	tensA := len(e.capturedTens[TeamA])
	tensB := len(e.capturedTens[TeamB])

	switch {
	case tensA == 4:
		result.RoundWinner = TeamA
		result.IsKot = true
		result.RoundPoints = 2
	case tensB == 4:
		result.RoundWinner = TeamB
		result.IsKot = true
		result.RoundPoints = 2
	case tensA > tensB:
		result.RoundWinner = TeamA
		result.RoundPoints = 1
	case tensB > tensA:
		result.RoundWinner = TeamB
		result.RoundPoints = 1
	}

	if result.RoundWinner != "" {
		e.matchScores[result.RoundWinner] += result.RoundPoints
	}

	// 只有本轮捕获过 10 才更新主牌
	if e.lastCapturedTenSuit != "" {
		e.trumpSuit = e.lastCapturedTenSuit
	}

	e.dealerIndex = (e.dealerIndex + 1) % seatCount

	result.RoundComplete = true

	if e.matchScores[TeamA] >= e.matchTarget || e.matchScores[TeamB] >= e.matchTarget {
		e.phase = PhaseMatchEnd
		result.MatchComplete = true
		if e.matchScores[TeamA] >= e.matchTarget {
			result.MatchWinner = TeamA
		} else {
			result.MatchWinner = TeamB
		}
		return
	}

	e.phase = PhaseRoundEnd
}

// ResetForNewMatch 同一批玩家重新开一场比赛
func (e *Engine) ResetForNewMatch() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.matchScores = map[Team]int{TeamA: 0, TeamB: 0}
	e.roundNumber = 0
	e.trumpSuit = ""
	e.dealerIndex = 0
	e.phase = PhaseWaiting
	e.resetRoundState()
}

// SetConnected 更新某座位的连接状态
func (e *Engine) SetConnected(seat int, connected bool) {
	if seat < 0 || seat >= seatCount {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.connected[seat] = connected
}
