//go:build !production

package engine

import (
	"github.com/palemoky/dehla-pakad/internal/game/card"
)

// RigRound 将引擎直接置于出牌阶段并指定手牌，用于确定性测试
func (e *Engine) RigRound(hands [4][]card.Card, currentPlayer int, trumpSuit card.Suit) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.phase = PhasePlaying
	if e.roundNumber == 0 {
		e.roundNumber = 1
	}
	for i := range hands {
		e.hands[i] = append([]card.Card(nil), hands[i]...)
	}
	e.currentPlayer = currentPlayer
	e.trumpSuit = trumpSuit
	e.trick = nil
	e.leadSuit = ""
}

// RigTally 预置本轮的墩数与捕获情况，用于轮结算测试
func (e *Engine) RigTally(trickNumber int, capturedA, capturedB []card.Card, lastTenSuit card.Suit) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.trickNumber = trickNumber
	e.capturedTens[TeamA] = append([]card.Card(nil), capturedA...)
	e.capturedTens[TeamB] = append([]card.Card(nil), capturedB...)
	e.lastCapturedTenSuit = lastTenSuit
}

// RigMatch 预置比分与庄家，用于终局测试
func (e *Engine) RigMatch(scoreA, scoreB, dealerIndex int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.matchScores[TeamA] = scoreA
	e.matchScores[TeamB] = scoreB
	e.dealerIndex = dealerIndex
}
