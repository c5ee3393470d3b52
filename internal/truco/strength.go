package truco

// Лестница обычных карт, снизу вверх: 4 < 5 < 6 < 7 < J < Q < K < A < 2 < 3.
// Карты одного ранга равны по силе - такая рука дает ничью во взятке.
var ladder = map[Rank]int{
	Rank4: 1,
	Rank5: 2,
	Rank6: 3,
	Rank7: 4,
	RankJ: 5,
	RankQ: 6,
	RankK: 7,
	RankA: 8,
	Rank2: 9,
	Rank3: 10,
}

// Фиксированный набор манильяс, от младшей к старшей:
// 7-ouros < A-espadas < 7-copas < 4-paus (запе).
// Набор не зависит от раздачи - "вира" не используется.
var manilhas = [...]Card{
	{Rank: Rank7, Suit: SuitOuros},
	{Rank: RankA, Suit: SuitEspadas},
	{Rank: Rank7, Suit: SuitCopas},
	{Rank: Rank4, Suit: SuitPaus},
}

const manilhaBase = 11 // строго выше любой обычной карты

// Strength возвращает числовую силу карты.
// Манильи занимают верхние четыре позиции в собственном порядке
func Strength(c Card) int {
	for i, m := range manilhas {
		if c == m {
			return manilhaBase + i
		}
	}
	return ladder[c.Rank]
}

// IsManilha сообщает, входит ли карта в набор козырей
func IsManilha(c Card) bool {
	for _, m := range manilhas {
		if c == m {
			return true
		}
	}
	return false
}
