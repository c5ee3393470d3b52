package truco

import (
	"errors"
	"math/rand"
	"testing"
)

// fullTable собирает стол на четверых с детерминированной раздачей.
// Места p1..p4, команды чередуются: p1,p3 - red, p2,p4 - blue
func fullTable(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable("sala", 0, rand.New(rand.NewSource(7)))
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		role, _ := tbl.Join(id, "player-"+id)
		if role != RolePlayer {
			t.Fatalf("игрок %s должен получить место, получено %s", id, role)
		}
	}
	if tbl.Phase() != PhasePlaying {
		t.Fatalf("после четвертой посадки рука должна начаться, фаза %s", tbl.Phase())
	}
	return tbl
}

// setHands заменяет раздачу на заданную, чтобы исходы взяток
// были предсказуемыми
func setHands(t *testing.T, tbl *Table, hands map[string][]Card) {
	t.Helper()
	for id, hand := range hands {
		seat := tbl.seatOf(id)
		if seat == nil {
			t.Fatalf("нет места для %s", id)
		}
		seat.Hand = append([]Card(nil), hand...)
	}
}

// playRound делает по одному ходу за каждого в текущем порядке,
// каждый кладет первую карту руки
func playRound(t *testing.T, tbl *Table) []Event {
	t.Helper()
	var events []Event
	for i := 0; i < SeatCount; i++ {
		id := tbl.TurnOf()
		if id == "" {
			t.Fatalf("очередь не назначена на ходе %d", i)
		}
		seat := tbl.seatOf(id)
		evs, err := tbl.PlayCard(id, seat.Hand[0])
		if err != nil {
			t.Fatalf("ход %s не прошел: %v", id, err)
		}
		events = append(events, evs...)
	}
	return events
}

func hasEvent(events []Event, typ EventType) *Event {
	for i := range events {
		if events[i].Type == typ {
			return &events[i]
		}
	}
	return nil
}

func TestJoin_SeatingAndTeams(t *testing.T) {
	tbl := NewTable("sala", 0, rand.New(rand.NewSource(1)))

	role, events := tbl.Join("p1", "ana")
	if role != RolePlayer || events != nil {
		t.Fatalf("первый игрок садится без начала руки: %s %v", role, events)
	}
	tbl.Join("p2", "bia")
	tbl.Join("p3", "caio")
	if tbl.Phase() != PhaseWaiting {
		t.Fatalf("до четырех игроков стол ждет, фаза %s", tbl.Phase())
	}

	_, events = tbl.Join("p4", "duda")
	if hasEvent(events, EventHandStarted) == nil {
		t.Fatalf("четвертая посадка должна начать руку, события %v", events)
	}

	// команды чередуются по порядку посадки
	if got := tbl.seatOf("p1").Team; got != TeamRed {
		t.Fatalf("p1 должен быть red, получено %s", got)
	}
	if got := tbl.seatOf("p2").Team; got != TeamBlue {
		t.Fatalf("p2 должен быть blue, получено %s", got)
	}
	if got := tbl.seatOf("p3").Team; got != TeamRed {
		t.Fatalf("p3 должен быть red, получено %s", got)
	}

	// пятый становится зрителем
	role, _ = tbl.Join("p5", "eva")
	if role != RoleSpectator {
		t.Fatalf("пятый вход должен дать зрителя, получено %s", role)
	}

	// у каждого по три карты
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		if n := len(tbl.seatOf(id).Hand); n != CardsPerHand {
			t.Fatalf("у %s должно быть %d карт, получено %d", id, CardsPerHand, n)
		}
	}
}

func TestPlayCard_Validation(t *testing.T) {
	tbl := fullTable(t)

	// не твоя очередь
	notTurn := "p2"
	if tbl.TurnOf() == "p2" {
		notTurn = "p3"
	}
	seat := tbl.seatOf(notTurn)
	if _, err := tbl.PlayCard(notTurn, seat.Hand[0]); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("ожидалась ErrOutOfTurn, получено %v", err)
	}

	// карта не из руки
	turn := tbl.TurnOf()
	other := tbl.seatOf(notTurn).Hand[0]
	if _, err := tbl.PlayCard(turn, other); !errors.Is(err, ErrCardNotInHand) {
		t.Fatalf("ожидалась ErrCardNotInHand, получено %v", err)
	}

	// зритель ходить не может
	tbl.Join("ghost", "ghost")
	if _, err := tbl.PlayCard("ghost", Card{Rank3, SuitOuros}); !errors.Is(err, ErrNotSeated) {
		t.Fatalf("ожидалась ErrNotSeated, получено %v", err)
	}
}

func TestTrick_StrongestWinsAndLeadsNext(t *testing.T) {
	tbl := fullTable(t)
	setHands(t, tbl, map[string][]Card{
		"p1": {{RankQ, SuitOuros}, {Rank5, SuitOuros}, {Rank6, SuitOuros}},
		"p2": {{Rank4, SuitOuros}, {Rank5, SuitEspadas}, {Rank6, SuitEspadas}},
		"p3": {{Rank4, SuitPaus}, {Rank5, SuitCopas}, {Rank6, SuitCopas}}, // запе
		"p4": {{Rank4, SuitCopas}, {Rank5, SuitPaus}, {Rank6, SuitPaus}},
	})

	events := playRound(t, tbl)
	ev := hasEvent(events, EventTrickResolved)
	if ev == nil {
		t.Fatalf("четвертая карта должна разрешить взятку")
	}
	if ev.Winner != string(TeamRed) {
		t.Fatalf("запе p3 должна выиграть взятку для red, получено %s", ev.Winner)
	}
	if len(ev.Plays) != 4 || ev.Plays[0].PlayerID != "p3" {
		t.Fatalf("ходы должны идти по убыванию силы, получено %+v", ev.Plays)
	}

	// пока продолжение не сработало, никто не ходит
	if _, err := tbl.PlayCard("p3", tbl.seatOf("p3").Hand[0]); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("до Advance ходы должны отклоняться, получено %v", err)
	}

	if _, acted := tbl.Advance(); !acted {
		t.Fatalf("запланированное продолжение должно сработать")
	}
	if tbl.TurnOf() != "p3" {
		t.Fatalf("следующую взятку ведет победитель, ожидался p3, получено %s", tbl.TurnOf())
	}

	// повторное продолжение устарело и ничего не делает
	if _, acted := tbl.Advance(); acted {
		t.Fatalf("устаревший Advance не должен действовать")
	}
}

func TestTrick_TieLeavesLeadWithHandStarter(t *testing.T) {
	tbl := fullTable(t)
	starter := tbl.TurnOf()
	setHands(t, tbl, map[string][]Card{
		"p1": {{RankA, SuitOuros}, {Rank5, SuitOuros}, {Rank6, SuitOuros}},
		"p2": {{RankA, SuitCopas}, {Rank5, SuitEspadas}, {Rank6, SuitEspadas}},
		"p3": {{Rank4, SuitOuros}, {Rank5, SuitCopas}, {Rank6, SuitCopas}},
		"p4": {{Rank4, SuitCopas}, {Rank5, SuitPaus}, {Rank6, SuitPaus}},
	})

	events := playRound(t, tbl)
	ev := hasEvent(events, EventTrickResolved)
	if ev == nil || ev.Winner != WinnerTie {
		t.Fatalf("равные старшие карты должны дать ничью, получено %+v", ev)
	}

	tbl.Advance()
	if tbl.TurnOf() != starter {
		t.Fatalf("после ничьей ведет начавший руку %s, получено %s", starter, tbl.TurnOf())
	}
}

func TestHand_TwoTricksWinHand(t *testing.T) {
	tbl := fullTable(t)
	setHands(t, tbl, map[string][]Card{
		"p1": {{Rank4, SuitPaus}, {Rank7, SuitCopas}, {RankA, SuitEspadas}}, // верх лестницы
		"p2": {{Rank4, SuitOuros}, {Rank5, SuitOuros}, {Rank6, SuitOuros}},
		"p3": {{Rank7, SuitOuros}, {Rank3, SuitOuros}, {Rank2, SuitOuros}},
		"p4": {{Rank4, SuitCopas}, {Rank5, SuitEspadas}, {Rank6, SuitEspadas}},
	})

	playRound(t, tbl) // запе выигрывает для red
	tbl.Advance()
	events := playRound(t, tbl) // 7-copas выигрывает, red берет руку

	ev := hasEvent(events, EventHandResolved)
	if ev == nil {
		t.Fatalf("две взятки red должны завершить руку")
	}
	if ev.Winner != string(TeamRed) || ev.Points != 1 {
		t.Fatalf("ожидалась победа red на 1 очко, получено %+v", ev)
	}
	if tbl.Scores()[TeamRed] != 1 {
		t.Fatalf("счет red должен стать 1, получено %d", tbl.Scores()[TeamRed])
	}

	// продолжение после руки сдает заново
	if _, acted := tbl.Advance(); !acted {
		t.Fatalf("продолжение после руки должно начать следующую")
	}
	if tbl.HandsPlayed() != 1 {
		t.Fatalf("сыграна одна рука, получено %d", tbl.HandsPlayed())
	}
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		if n := len(tbl.seatOf(id).Hand); n != CardsPerHand {
			t.Fatalf("после новой раздачи у %s должно быть %d карт, получено %d", id, CardsPerHand, n)
		}
	}
}

func TestDecideHand_TieBreaks(t *testing.T) {
	red, blue, none := TeamRed, TeamBlue, TeamNone

	cases := []struct {
		name    string
		history []Team
		winner  Team
		decided bool
	}{
		{"две взятки подряд", []Team{red, red}, red, true},
		{"ничья потом победа", []Team{none, blue}, blue, true},
		{"две ничьи потом победа", []Team{none, none, red}, red, true},
		{"три ничьи", []Team{none, none, none}, none, true},
		{"победа потом ничья", []Team{red, none}, red, true},
		{"размен и ничья в третьей", []Team{red, blue, none}, none, true},
		{"размен не решает", []Team{red, blue}, none, false},
		{"одна взятка не решает", []Team{red}, none, false},
		{"одна ничья не решает", []Team{none}, none, false},
	}

	for _, tc := range cases {
		winner, decided := decideHand(tc.history)
		if winner != tc.winner || decided != tc.decided {
			t.Fatalf("%s: ожидалось (%q, %v), получено (%q, %v)",
				tc.name, tc.winner, tc.decided, winner, decided)
		}
	}
}

func TestTruco_DeclineEndsHand(t *testing.T) {
	tbl := fullTable(t)

	events, err := tbl.RequestTruco("p2") // blue просит truco
	if err != nil {
		t.Fatalf("запрос повышения не прошел: %v", err)
	}
	ev := hasEvent(events, EventTrucoRequested)
	if ev == nil || ev.Stake != 3 || ev.Label != "truco" {
		t.Fatalf("ожидался запрос truco на 3, получено %+v", ev)
	}

	// пока запрос висит, сокомандник просившего отвечать не может
	if _, err := tbl.RespondTruco("p4", ResponseAccept); !errors.Is(err, ErrRequestorCannotRespond) {
		t.Fatalf("ожидалась ErrRequestorCannotRespond, получено %v", err)
	}

	events, err = tbl.RespondTruco("p1", ResponseRun)
	if err != nil {
		t.Fatalf("побег не прошел: %v", err)
	}
	if hasEvent(events, EventTrucoDeclined) == nil {
		t.Fatalf("ожидалось событие отказа")
	}
	ev = hasEvent(events, EventHandResolved)
	if ev == nil || ev.Winner != string(TeamBlue) || ev.Points != 1 {
		t.Fatalf("побег отдает blue ставку до повышения, получено %+v", ev)
	}

	// следующая рука начинается по продолжению со ставкой 1
	if _, acted := tbl.Advance(); !acted {
		t.Fatalf("после побега должна начаться новая рука")
	}
	if tbl.wager.Stake != 1 {
		t.Fatalf("новая рука начинается со ставки 1, получено %d", tbl.wager.Stake)
	}
}

func TestTruco_AcceptRaisesStake(t *testing.T) {
	tbl := fullTable(t)
	setHands(t, tbl, map[string][]Card{
		"p1": {{Rank4, SuitPaus}, {Rank7, SuitCopas}, {RankA, SuitEspadas}},
		"p2": {{Rank4, SuitOuros}, {Rank5, SuitOuros}, {Rank6, SuitOuros}},
		"p3": {{Rank7, SuitOuros}, {Rank3, SuitOuros}, {Rank2, SuitOuros}},
		"p4": {{Rank4, SuitCopas}, {Rank5, SuitEspadas}, {Rank6, SuitEspadas}},
	})

	tbl.RequestTruco("p1")
	events, err := tbl.RespondTruco("p2", ResponseAccept)
	if err != nil {
		t.Fatalf("принятие не прошло: %v", err)
	}
	ev := hasEvent(events, EventTrucoAccepted)
	if ev == nil || ev.Stake != 3 {
		t.Fatalf("после принятия ставка 3, получено %+v", ev)
	}

	playRound(t, tbl)
	tbl.Advance()
	events = playRound(t, tbl)

	ev = hasEvent(events, EventHandResolved)
	if ev == nil || ev.Points != 3 {
		t.Fatalf("рука при принятом truco стоит 3 очка, получено %+v", ev)
	}
	if tbl.Scores()[TeamRed] != 3 {
		t.Fatalf("red должен получить 3 очка, получено %d", tbl.Scores()[TeamRed])
	}
}

func TestMatch_EndsAtTarget(t *testing.T) {
	tbl := fullTable(t)
	tbl.scores[TeamRed] = 11
	setHands(t, tbl, map[string][]Card{
		"p1": {{Rank4, SuitPaus}, {Rank7, SuitCopas}, {RankA, SuitEspadas}},
		"p2": {{Rank4, SuitOuros}, {Rank5, SuitOuros}, {Rank6, SuitOuros}},
		"p3": {{Rank7, SuitOuros}, {Rank3, SuitOuros}, {Rank2, SuitOuros}},
		"p4": {{Rank4, SuitCopas}, {Rank5, SuitEspadas}, {Rank6, SuitEspadas}},
	})

	playRound(t, tbl)
	tbl.Advance()
	events := playRound(t, tbl)

	ev := hasEvent(events, EventMatchEnded)
	if ev == nil || ev.Winner != string(TeamRed) {
		t.Fatalf("12 очков должны завершить матч победой red, получено %+v", ev)
	}
	if tbl.Phase() != PhaseEnded {
		t.Fatalf("после конца матча фаза ended, получено %s", tbl.Phase())
	}

	// завершенный матч не продолжается сам
	if _, acted := tbl.Advance(); acted {
		t.Fatalf("после конца матча продолжений быть не должно")
	}
	if _, err := tbl.PlayCard("p1", Card{Rank7, SuitCopas}); !errors.Is(err, ErrHandNotActive) {
		t.Fatalf("ходы после конца матча отклоняются, получено %v", err)
	}

	// новый матч только по явной команде
	events, err := tbl.StartNextMatch()
	if err != nil {
		t.Fatalf("новый матч не начался: %v", err)
	}
	if hasEvent(events, EventHandStarted) == nil {
		t.Fatalf("новый матч должен начаться с раздачи")
	}
	scores := tbl.Scores()
	if scores[TeamRed] != 0 || scores[TeamBlue] != 0 {
		t.Fatalf("счет нового матча должен быть 0:0, получено %v", scores)
	}
}

func TestStartNextMatch_OnlyAfterMatchEnd(t *testing.T) {
	tbl := fullTable(t)
	if _, err := tbl.StartNextMatch(); !errors.Is(err, ErrMatchNotOver) {
		t.Fatalf("ожидалась ErrMatchNotOver, получено %v", err)
	}
}

func TestLeave_AbortsHandAndKeepsScore(t *testing.T) {
	tbl := fullTable(t)
	tbl.scores[TeamBlue] = 5

	if destroyed := tbl.Leave("p3"); destroyed {
		t.Fatalf("комната с оставшимися игроками не уничтожается")
	}
	if tbl.Phase() != PhaseWaiting {
		t.Fatalf("уход сидящего прерывает руку, фаза %s", tbl.Phase())
	}
	if tbl.Scores()[TeamBlue] != 5 {
		t.Fatalf("счет матча сохраняется, получено %d", tbl.Scores()[TeamBlue])
	}
	for _, id := range []string{"p1", "p2", "p4"} {
		if len(tbl.seatOf(id).Hand) != 0 {
			t.Fatalf("прерванная рука должна сбросить карты %s", id)
		}
	}

	tbl.Leave("p1")
	tbl.Leave("p2")
	if destroyed := tbl.Leave("p4"); !destroyed {
		t.Fatalf("уход последнего сидящего должен уничтожить комнату")
	}
}

func TestLeave_SpectatorDoesNotAffectHand(t *testing.T) {
	tbl := fullTable(t)
	tbl.Join("watcher", "eva")

	if destroyed := tbl.Leave("watcher"); destroyed {
		t.Fatalf("уход зрителя не уничтожает комнату")
	}
	if tbl.Phase() != PhasePlaying {
		t.Fatalf("уход зрителя не прерывает руку, фаза %s", tbl.Phase())
	}
}

func TestTruco_PendingRequestDiesWithHand(t *testing.T) {
	tbl := fullTable(t)
	setHands(t, tbl, map[string][]Card{
		"p1": {{Rank4, SuitPaus}, {Rank7, SuitCopas}, {RankA, SuitEspadas}},
		"p2": {{Rank4, SuitOuros}, {Rank5, SuitOuros}, {Rank6, SuitOuros}},
		"p3": {{Rank7, SuitOuros}, {Rank3, SuitOuros}, {Rank2, SuitOuros}},
		"p4": {{Rank4, SuitCopas}, {Rank5, SuitEspadas}, {Rank6, SuitEspadas}},
	})

	// red просит повышение, но рука разрешается раньше ответа
	if _, err := tbl.RequestTruco("p1"); err != nil {
		t.Fatalf("запрос повышения не прошел: %v", err)
	}
	playRound(t, tbl)
	tbl.Advance()
	playRound(t, tbl) // red берет руку, +1 очко

	if got := tbl.Scores()[TeamRed]; got != 1 {
		t.Fatalf("после руки счет red должен быть 1, получено %d", got)
	}

	// ответ на умерший с рукой запрос не начисляет очки второй раз
	if _, err := tbl.RespondTruco("p2", ResponseRun); !errors.Is(err, ErrHandNotActive) {
		t.Fatalf("ответ после конца руки должен отклоняться, получено %v", err)
	}
	if _, err := tbl.RequestTruco("p3"); !errors.Is(err, ErrHandNotActive) {
		t.Fatalf("запрос после конца руки должен отклоняться, получено %v", err)
	}
	if got := tbl.Scores()[TeamRed]; got != 1 {
		t.Fatalf("рука начислена дважды: счет red = %d", got)
	}
	if tbl.HandsPlayed() != 1 {
		t.Fatalf("сыграна одна рука, получено %d", tbl.HandsPlayed())
	}
}

func TestJoin_SameIdentitySeatsOnce(t *testing.T) {
	tbl := NewTable("sala", 0, rand.New(rand.NewSource(3)))

	tbl.Join("p1", "ana")
	role, events := tbl.Join("p1", "ana")
	if role != RolePlayer || events != nil {
		t.Fatalf("повторный вход должен вернуть ту же роль без событий: %s %v", role, events)
	}
	if len(tbl.seats) != 1 {
		t.Fatalf("одна идентичность заняла %d места", len(tbl.seats))
	}

	tbl.Join("p2", "bia")
	tbl.Join("p3", "caio")
	tbl.Join("p4", "duda")

	// повторный вход сидящего при полном столе не делает его зрителем
	role, _ = tbl.Join("p2", "bia")
	if role != RolePlayer {
		t.Fatalf("сидящий остается игроком, получено %s", role)
	}
	if len(tbl.seats) != SeatCount || len(tbl.spectators) != 0 {
		t.Fatalf("места: %d, зрители: %d", len(tbl.seats), len(tbl.spectators))
	}

	// и наоборот: зритель при повторном входе остается зрителем
	tbl.Join("p5", "eva")
	role, _ = tbl.Join("p5", "eva")
	if role != RoleSpectator || len(tbl.spectators) != 1 {
		t.Fatalf("зритель должен остаться единственным зрителем: %s %d", role, len(tbl.spectators))
	}
}

func TestTruco_BlocksAtStakeMaximum(t *testing.T) {
	tbl := fullTable(t)
	tbl.wager = Wager{Stake: 12, State: WagerNoRequest, PermittedTeam: TeamBoth}

	if _, err := tbl.RequestTruco("p1"); !errors.Is(err, ErrStakeAtMaximum) {
		t.Fatalf("ожидалась ErrStakeAtMaximum, получено %v", err)
	}
}
