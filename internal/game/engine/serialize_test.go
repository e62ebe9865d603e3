package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/dehla-pakad/internal/game/card"
)

func TestSnapshot_RestoreRoundTrip(t *testing.T) {
	t.Parallel()

	e := New(7)
	require.NoError(t, e.StartRound())

	// 打两张牌，让快照里有进行中的墩
	playLegal(t, e)
	playLegal(t, e)

	snap := e.Snapshot()

	// 经过 JSON 往返（持久化协作方的实际路径）
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored, err := Restore(&decoded)
	require.NoError(t, err)

	assert.Equal(t, snap, restored.Snapshot())

	// 恢复后的引擎能继续被正确的座位操作
	v := restored.ViewFor(restored.ViewFor(0).CurrentPlayer)
	assert.Equal(t, PhasePlaying, v.Phase)
	assert.Len(t, v.Trick, 2)
	_, err = restored.PlayCard((v.CurrentPlayer+1)%4, "spades-2")
	assert.Error(t, err) // 依然轮次校验
}

func TestSnapshot_PreservesMidRoundTallies(t *testing.T) {
	t.Parallel()

	e := New(0)
	e.RigRound([4][]card.Card{
		{c(card.Spades, card.Rank7)},
		{c(card.Spades, card.Rank8)},
		{c(card.Spades, card.Rank9)},
		{c(card.Spades, card.Rank10)},
	}, 0, card.Hearts)
	e.RigTally(5,
		[]card.Card{c(card.Hearts, card.Rank10)},
		[]card.Card{c(card.Clubs, card.Rank10)},
		card.Clubs)
	e.RigMatch(2, 1, 3)

	snap := e.Snapshot()
	restored, err := Restore(snap)
	require.NoError(t, err)

	v := restored.ViewFor(2)
	assert.Equal(t, 5, v.TrickNumber)
	assert.Equal(t, card.Hearts, v.TrumpSuit)
	assert.Equal(t, []card.Card{c(card.Hearts, card.Rank10)}, v.CapturedTens[TeamA])
	assert.Equal(t, []card.Card{c(card.Clubs, card.Rank10)}, v.CapturedTens[TeamB])
	assert.Equal(t, 2, v.MatchScores[TeamA])
	assert.Equal(t, 1, v.MatchScores[TeamB])
	assert.Equal(t, 3, v.DealerIndex)
	assert.Equal(t, "clubs", restored.Snapshot().LastCapturedTenSuit)
}

func TestRestore_CorruptCardFails(t *testing.T) {
	t.Parallel()

	e := New(0)
	require.NoError(t, e.StartRound())
	snap := e.Snapshot()
	snap.Hands[0][0] = "joker-99"

	_, err := Restore(snap)
	assert.Error(t, err)

	_, err = Restore(nil)
	assert.Error(t, err)
}
