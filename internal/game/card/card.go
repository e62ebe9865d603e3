package card

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

// Suit 定义花色
type Suit string

// Rank 定义点数（2 最小，A 最大）
type Rank int

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Suits 花色固定顺序（发牌后排序手牌用）
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// suitSymbols 花色符号映射表
var suitSymbols = map[Suit]string{
	Hearts:   "♥",
	Diamonds: "♦",
	Clubs:    "♣",
	Spades:   "♠",
}

func (s Suit) String() string {
	if symbol, ok := suitSymbols[s]; ok {
		return symbol
	}
	return "?"
}

// Valid 检查花色是否合法
func (s Suit) Valid() bool {
	return slices.Contains(Suits, s)
}

const (
	Rank2 Rank = iota + 2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10 // Dehla，本游戏的计分牌
	RankJ
	RankQ
	RankK
	RankA
)

// rankNames 牌面值字符串映射表
var rankNames = map[Rank]string{
	Rank2:  "2",
	Rank3:  "3",
	Rank4:  "4",
	Rank5:  "5",
	Rank6:  "6",
	Rank7:  "7",
	Rank8:  "8",
	Rank9:  "9",
	Rank10: "10",
	RankJ:  "J",
	RankQ:  "Q",
	RankK:  "K",
	RankA:  "A",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rank(%d)", int(r))
}

// rankFromName 用于从牌面字符串还原 Rank
var rankFromName = func() map[string]Rank {
	m := make(map[string]Rank, len(rankNames))
	for r, name := range rankNames {
		m[name] = r
	}
	return m
}()

// Card 定义一张牌，值类型，创建后不可变
type Card struct {
	Suit Suit
	Rank Rank
}

// ID 返回牌的唯一标识，如 "hearts-10"，用作客户端出牌时的线上标识
func (c Card) ID() string {
	return string(c.Suit) + "-" + c.Rank.String()
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// FromID 从线上标识还原一张牌
func FromID(id string) (Card, error) {
	suitStr, rankStr, ok := strings.Cut(id, "-")
	if !ok {
		return Card{}, fmt.Errorf("无效的牌标识: %q", id)
	}
	suit := Suit(suitStr)
	if !suit.Valid() {
		return Card{}, fmt.Errorf("无效的花色: %q", suitStr)
	}
	rank, ok := rankFromName[rankStr]
	if !ok {
		return Card{}, fmt.Errorf("无效的点数: %q", rankStr)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// CompareRank 比较两张牌的点数，仅点数全序（2<3<...<10<J<Q<K<A），
// 花色之间没有独立的大小关系，由每墩的主牌/首攻花色决定
func CompareRank(a, b Card) int {
	return int(a.Rank) - int(b.Rank)
}

// Deck 定义一副牌
type Deck []Card

// NewDeck 创建标准 52 张牌
func NewDeck() Deck {
	deck := make(Deck, 0, 52)
	for _, s := range Suits {
		for r := Rank2; r <= RankA; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle 均匀洗牌
func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// suitOrder 花色排序权重
var suitOrder = map[Suit]int{
	Hearts:   0,
	Diamonds: 1,
	Clubs:    2,
	Spades:   3,
}

// SortBySuitThenRank 按花色再点数排序手牌，仅用于显示稳定性，不影响规则
func SortBySuitThenRank(cards []Card) {
	slices.SortFunc(cards, func(a, b Card) int {
		if d := suitOrder[a.Suit] - suitOrder[b.Suit]; d != 0 {
			return d
		}
		return CompareRank(a, b)
	})
}
