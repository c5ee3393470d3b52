package truco

import (
	"fmt"
	"math/rand"
	"sort"
)

type Phase string

const (
	// PhaseWaiting - меньше четырех игроков, карты не раздаются,
	// игровые команды отклоняются
	PhaseWaiting Phase = "waiting"
	PhasePlaying Phase = "playing"
	// PhaseEnded - матч завершен; новый начинается только по явному запросу
	PhaseEnded Phase = "ended"
)

type Role string

const (
	RolePlayer    Role = "player"
	RoleSpectator Role = "spectator"
)

const (
	SeatCount          = 4
	CardsPerHand       = 3
	DefaultTargetScore = 12
)

// ответы на запрос повышения
const (
	ResponseAccept = "accept"
	ResponseRun    = "run"
	ResponseRaise  = "raise"
)

// Seat - занятое место за столом
type Seat struct {
	ID   string
	Name string
	Team Team
	Hand []Card
}

// Table - авторитетное состояние одной комнаты. Методы не потокобезопасны:
// владелец (цикл команд комнаты) применяет команды строго по одной
type Table struct {
	name       string
	seats      []*Seat
	spectators map[string]string // id -> имя

	phase   Phase
	turnOf  string
	order   []string // порядок ходов текущей взятки, ведущий первым
	trick   []Play
	history []Team // исходы взяток руки; TeamNone = ничья
	scores  map[Team]int
	starter string // кто начал текущую руку
	wager   Wager

	// взятка/рука разрешены, ждем отложенного Advance; пока ждем,
	// никто не ходит
	pendingAdvance bool
	handOver       bool
	nextLead       string

	handsPlayed int
	target      int
	rng         *rand.Rand
}

// NewTable создает пустой стол. target <= 0 означает стандартные 12 очков,
// rng nil - глобальный источник случайности
func NewTable(name string, target int, rng *rand.Rand) *Table {
	if target <= 0 {
		target = DefaultTargetScore
	}
	return &Table{
		name:       name,
		spectators: make(map[string]string),
		phase:      PhaseWaiting,
		scores:     map[Team]int{TeamRed: 0, TeamBlue: 0},
		target:     target,
		rng:        rng,
	}
}

func (t *Table) Name() string { return t.name }
func (t *Table) Phase() Phase { return t.phase }
func (t *Table) TurnOf() string { return t.turnOf }

// Scores возвращает копию счета матча
func (t *Table) Scores() map[Team]int {
	out := make(map[Team]int, len(t.scores))
	for k, v := range t.scores {
		out[k] = v
	}
	return out
}

// TeamMembers возвращает имена игроков команды в порядке мест
func (t *Table) TeamMembers(team Team) []string {
	var names []string
	for _, s := range t.seats {
		if s.Team == team {
			names = append(names, s.Name)
		}
	}
	return names
}

func (t *Table) HandsPlayed() int { return t.handsPlayed }

// Join сажает первых четырех различных игроков, остальные становятся
// зрителями. Посадка четвертого автоматически начинает руку
func (t *Table) Join(id, name string) (Role, []Event) {
	// повторный вход той же идентичности (второй сокет с тем же токеном)
	// не занимает второе место, а привязывается к уже имеющейся роли
	if t.seatOf(id) != nil {
		return RolePlayer, nil
	}
	if _, ok := t.spectators[id]; ok {
		return RoleSpectator, nil
	}

	if len(t.seats) < SeatCount {
		seat := &Seat{ID: id, Name: name, Team: t.teamForNewSeat()}
		t.seats = append(t.seats, seat)
		if len(t.seats) == SeatCount && t.phase == PhaseWaiting {
			return RolePlayer, t.startHand()
		}
		return RolePlayer, nil
	}
	t.spectators[id] = name
	return RoleSpectator, nil
}

// JoinSpectator добавляет зрителя независимо от свободных мест
func (t *Table) JoinSpectator(id, name string) Role {
	t.spectators[id] = name
	return RoleSpectator
}

// команда нового места: заполняем ту, где меньше игроков.
// Для последовательных посадок это дает чередование по четности мест
func (t *Table) teamForNewSeat() Team {
	red, blue := 0, 0
	for _, s := range t.seats {
		if s.Team == TeamRed {
			red++
		} else {
			blue++
		}
	}
	if red <= blue {
		return TeamRed
	}
	return TeamBlue
}

// Leave убирает игрока или зрителя. Возвращает true, если комната
// должна быть уничтожена (ушел последний сидящий игрок)
func (t *Table) Leave(id string) bool {
	if _, ok := t.spectators[id]; ok {
		delete(t.spectators, id)
		return false
	}

	idx := -1
	for i, s := range t.seats {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	t.seats = append(t.seats[:idx], t.seats[idx+1:]...)
	if len(t.seats) == 0 {
		return true
	}

	// уход сидящего прерывает текущую руку; счет сохраняется,
	// но завершенный матч при переукомплектовании начинается заново
	if t.phase == PhaseEnded {
		t.scores = map[Team]int{TeamRed: 0, TeamBlue: 0}
	}
	t.abortHand()
	return false
}

func (t *Table) abortHand() {
	for _, s := range t.seats {
		s.Hand = nil
	}
	t.trick = nil
	t.history = nil
	t.order = nil
	t.turnOf = ""
	t.wager = NewWager()
	t.pendingAdvance = false
	t.handOver = false
	t.phase = PhaseWaiting
}

func (t *Table) seatOf(id string) *Seat {
	for _, s := range t.seats {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (t *Table) startHand() []Event {
	deck := NewDeck()
	Shuffle(deck, t.rng)
	for i, s := range t.seats {
		s.Hand = append([]Card(nil), deck[i*CardsPerHand:(i+1)*CardsPerHand]...)
	}

	t.rotateStarter()
	t.rebuildOrder(t.starter)
	t.turnOf = t.starter
	t.trick = nil
	t.history = nil
	t.wager = NewWager()
	t.pendingAdvance = false
	t.handOver = false
	t.phase = PhasePlaying

	return []Event{{Type: EventHandStarted, Stake: t.wager.Stake}}
}

// право первого хода переходит к следующему месту после того,
// кто начинал предыдущую руку
func (t *Table) rotateStarter() {
	idx := -1
	for i, s := range t.seats {
		if s.ID == t.starter {
			idx = i
			break
		}
	}
	if idx == -1 {
		t.starter = t.seats[0].ID
		return
	}
	t.starter = t.seats[(idx+1)%len(t.seats)].ID
}

// rebuildOrder выстраивает порядок ходов так, чтобы ведущий был первым
func (t *Table) rebuildOrder(lead string) {
	start := 0
	for i, s := range t.seats {
		if s.ID == lead {
			start = i
			break
		}
	}
	t.order = t.order[:0]
	for i := 0; i < len(t.seats); i++ {
		t.order = append(t.order, t.seats[(start+i)%len(t.seats)].ID)
	}
}

func (t *Table) advanceTurn() {
	for i, id := range t.order {
		if id == t.turnOf {
			t.turnOf = t.order[(i+1)%len(t.order)]
			return
		}
	}
}

func removeCard(hand *[]Card, card Card) bool {
	for i, c := range *hand {
		if c == card {
			*hand = append((*hand)[:i], (*hand)[i+1:]...)
			return true
		}
	}
	return false
}

// PlayCard принимает ход только от игрока, чья очередь, и только картой
// из его руки. Заполнившаяся взятка разрешается немедленно
func (t *Table) PlayCard(id string, card Card) ([]Event, error) {
	if t.phase != PhasePlaying {
		return nil, ErrHandNotActive
	}
	seat := t.seatOf(id)
	if seat == nil {
		return nil, ErrNotSeated
	}
	if t.pendingAdvance || t.turnOf != id {
		return nil, ErrOutOfTurn
	}
	if !removeCard(&seat.Hand, card) {
		return nil, ErrCardNotInHand
	}

	t.trick = append(t.trick, Play{
		PlayerID: id,
		Name:     seat.Name,
		Team:     seat.Team,
		Card:     card,
		Strength: Strength(card),
	})

	if len(t.trick) < len(t.seats) {
		t.advanceTurn()
		return nil, nil
	}
	return t.resolveTrick(), nil
}

// resolveTrick: строго наибольшая сила выигрывает взятку; если максимум
// разделен несколькими картами - ничья, команда не засчитывается
func (t *Table) resolveTrick() []Event {
	best := t.trick[0]
	tied := false
	for _, p := range t.trick[1:] {
		switch {
		case p.Strength > best.Strength:
			best = p
			tied = false
		case p.Strength == best.Strength:
			tied = true
		}
	}

	winner := TeamNone
	lead := t.starter // при ничьей следующую взятку ведет начавший руку
	if !tied {
		winner = best.Team
		lead = best.PlayerID
	}
	t.history = append(t.history, winner)
	t.nextLead = lead
	t.pendingAdvance = true
	t.turnOf = ""

	ordered := append([]Play(nil), t.trick...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Strength > ordered[j].Strength })

	events := []Event{{Type: EventTrickResolved, Winner: trickLabel(winner), Plays: ordered}}

	if res, decided := decideHand(t.history); decided {
		points := t.wager.Stake
		if res == TeamNone {
			points = 0
		}
		events = append(events, t.finishHand(res, points)...)
	}
	return events
}

// decideHand оценивает накопленную историю взяток руки.
// Возвращает (TeamNone, true) когда рука закончилась без победителя
func decideHand(history []Team) (Team, bool) {
	wins := map[Team]int{}
	for _, w := range history {
		if w != TeamNone {
			wins[w]++
		}
	}
	for _, team := range []Team{TeamRed, TeamBlue} {
		if wins[team] >= 2 {
			return team, true
		}
	}
	if len(history) < 2 {
		return TeamNone, false
	}

	if history[0] == TeamNone {
		// первая взятка вничью: руку решает победитель второй,
		// затем третьей; три ничьи - никто не получает очков
		if history[1] != TeamNone {
			return history[1], true
		}
		if len(history) >= 3 {
			if history[2] != TeamNone {
				return history[2], true
			}
			return TeamNone, true
		}
		return TeamNone, false
	}

	// одна решенная взятка плюс ничья отдают руку ее победителю
	if history[1] == TeamNone {
		return history[0], true
	}
	if len(history) >= 3 {
		return TeamNone, true
	}
	return TeamNone, false
}

// finishHand начисляет очки по ставке на момент завершения руки
// и проверяет конец матча
func (t *Table) finishHand(winner Team, points int) []Event {
	t.handsPlayed++
	t.handOver = true
	t.pendingAdvance = true
	t.turnOf = ""

	if winner == TeamNone {
		return []Event{{Type: EventHandResolved, Winner: WinnerNobody}}
	}

	t.scores[winner] += points
	events := []Event{{Type: EventHandResolved, Winner: string(winner), Points: points}}

	if t.scores[winner] >= t.target {
		t.phase = PhaseEnded
		t.pendingAdvance = false
		t.handOver = false
		events = append(events, Event{Type: EventMatchEnded, Winner: string(winner), Points: t.scores[winner]})
	}
	return events
}

// Advance - отложенное продолжение, которое транспорт планирует после
// разрешения взятки или руки. Задержка косметическая, поэтому предусловия
// перепроверяются здесь: за время ожидания состояние могло измениться.
// Второе значение false означает, что продолжение устарело и ничего не сделало
func (t *Table) Advance() ([]Event, bool) {
	if !t.pendingAdvance || t.phase != PhasePlaying {
		return nil, false
	}
	t.pendingAdvance = false

	if t.handOver {
		return t.startHand(), true
	}

	// победитель взятки ведет следующую; после ничьей ведет начавший руку
	t.trick = nil
	lead := t.nextLead
	if t.seatOf(lead) == nil {
		lead = t.seats[0].ID
	}
	t.rebuildOrder(lead)
	t.turnOf = lead
	return nil, true
}

// RequestTruco - команда игрока просит повышение ставки
func (t *Table) RequestTruco(id string) ([]Event, error) {
	if t.phase != PhasePlaying || t.handOver {
		return nil, ErrHandNotActive
	}
	seat := t.seatOf(id)
	if seat == nil {
		return nil, ErrNotSeated
	}

	w, err := t.wager.RequestRaise(seat.Team)
	if err != nil {
		return nil, err
	}
	t.wager = w

	next := w.NextStake()
	return []Event{{Type: EventTrucoRequested, Team: seat.Team, Stake: next, Label: RaiseName(next)}}, nil
}

// RespondTruco обрабатывает ответ на висящий запрос повышения.
// Разрешенная рука уже начислена, поэтому висящий запрос с ней умирает:
// ответ после ее конца начислил бы очки второй раз
func (t *Table) RespondTruco(id, response string) ([]Event, error) {
	if t.phase != PhasePlaying || t.handOver {
		return nil, ErrHandNotActive
	}
	seat := t.seatOf(id)
	if seat == nil {
		return nil, ErrNotSeated
	}

	switch response {
	case ResponseAccept:
		w, err := t.wager.Accept(seat.Team)
		if err != nil {
			return nil, err
		}
		t.wager = w
		return []Event{{Type: EventTrucoAccepted, Team: seat.Team, Stake: w.Stake, Label: RaiseName(w.Stake)}}, nil

	case ResponseRun:
		w, fold, err := t.wager.Decline(seat.Team)
		if err != nil {
			return nil, err
		}
		t.wager = w
		events := []Event{{Type: EventTrucoDeclined, Team: seat.Team, Stake: fold.Points}}
		return append(events, t.finishHand(fold.Winner, fold.Points)...), nil

	case ResponseRaise:
		w, err := t.wager.RaiseAgain(seat.Team)
		if err != nil {
			return nil, err
		}
		t.wager = w
		if w.State == WagerAwaitingResponse {
			next := w.NextStake()
			return []Event{{Type: EventTrucoRequested, Team: seat.Team, Stake: next, Label: RaiseName(next)}}, nil
		}
		return []Event{{Type: EventTrucoAccepted, Team: seat.Team, Stake: w.Stake, Label: RaiseName(w.Stake)}}, nil
	}

	return nil, fmt.Errorf("unknown truco response %q", response)
}

// StartNextMatch сбрасывает счет и начинает новый матч; допустим
// только после завершения предыдущего
func (t *Table) StartNextMatch() ([]Event, error) {
	if t.phase != PhaseEnded {
		return nil, ErrMatchNotOver
	}
	t.scores = map[Team]int{TeamRed: 0, TeamBlue: 0}
	return t.startHand(), nil
}

func trickLabel(winner Team) string {
	if winner == TeamNone {
		return WinnerTie
	}
	return string(winner)
}
