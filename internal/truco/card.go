package truco

import (
	"fmt"
	"math/rand"
)

type Suit string

const (
	SuitOuros   Suit = "ouros"
	SuitEspadas Suit = "espadas"
	SuitCopas   Suit = "copas"
	SuitPaus    Suit = "paus"
)

type Rank string

const (
	Rank4 Rank = "4"
	Rank5 Rank = "5"
	Rank6 Rank = "6"
	Rank7 Rank = "7"
	RankJ Rank = "J"
	RankQ Rank = "Q"
	RankK Rank = "K"
	RankA Rank = "A"
	Rank2 Rank = "2"
	Rank3 Rank = "3"
)

// колода трукo: 40 карт, без 8/9/10
var suits = [...]Suit{SuitOuros, SuitEspadas, SuitCopas, SuitPaus}
var ranks = [...]Rank{Rank4, Rank5, Rank6, Rank7, RankJ, RankQ, RankK, RankA, Rank2, Rank3}

// Card - значение, сравнивается по полям, не по идентичности
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s-%s", c.Rank, c.Suit)
}

// NewDeck возвращает каноническую колоду из 40 различных карт,
// детерминированную без перемешивания
func NewDeck() []Card {
	deck := make([]Card, 0, len(suits)*len(ranks))
	for _, s := range suits {
		for _, r := range ranks {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// Shuffle перемешивает колоду на месте (Fisher-Yates).
// rng может быть nil - тогда используется глобальный источник
func Shuffle(deck []Card, rng *rand.Rand) {
	swap := func(i, j int) { deck[i], deck[j] = deck[j], deck[i] }
	if rng != nil {
		rng.Shuffle(len(deck), swap)
		return
	}
	rand.Shuffle(len(deck), swap)
}
