package truco

// PlayerView - игрок в снимке состояния. Hand заполняется только для
// получателя-владельца руки; остальным остается cards_left
type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Team      Team   `json:"team"`
	Hand      []Card `json:"hand,omitempty"`
	CardsLeft int    `json:"cards_left"`
}

// Snapshot - производное представление состояния комнаты для доставки
// транспортным слоем
type Snapshot struct {
	Room       string       `json:"room"`
	Phase      Phase        `json:"phase"`
	Players    []PlayerView `json:"players"`
	Spectators int          `json:"spectators"`
	TurnOf     string       `json:"turn_of,omitempty"`
	Starter    string       `json:"starter,omitempty"`
	Trick      []Play       `json:"trick,omitempty"`
	History    []string     `json:"history,omitempty"` // red | blue | tie
	Scores     map[Team]int `json:"scores"`
	Wager      Wager        `json:"wager"`
	NextStake  int          `json:"next_stake,omitempty"`
	Target     int          `json:"target"`
}

// SnapshotFor строит снимок для конкретного получателя: содержимое рук
// попадает только в сообщение, адресованное владельцу руки. Неизвестный
// viewerID (зритель) не видит ни одной карты
func (t *Table) SnapshotFor(viewerID string) Snapshot {
	players := make([]PlayerView, 0, len(t.seats))
	for _, s := range t.seats {
		pv := PlayerView{
			ID:        s.ID,
			Name:      s.Name,
			Team:      s.Team,
			CardsLeft: len(s.Hand),
		}
		if s.ID == viewerID {
			pv.Hand = append([]Card(nil), s.Hand...)
		}
		players = append(players, pv)
	}

	history := make([]string, 0, len(t.history))
	for _, w := range t.history {
		history = append(history, trickLabel(w))
	}

	return Snapshot{
		Room:       t.name,
		Phase:      t.phase,
		Players:    players,
		Spectators: len(t.spectators),
		TurnOf:     t.turnOf,
		Starter:    t.starter,
		Trick:      append([]Play(nil), t.trick...),
		History:    history,
		Scores:     t.Scores(),
		Wager:      t.wager,
		NextStake:  t.wager.NextStake(),
		Target:     t.target,
	}
}

// SnapshotSpectator - вид для зрителей: руки всех игроков пустые
func (t *Table) SnapshotSpectator() Snapshot {
	return t.SnapshotFor("")
}

// Summary - строка списка комнат для лобби; содержимое карт
// сюда не попадает никогда
type Summary struct {
	Name       string `json:"name"`
	Seated     int    `json:"seated"`
	Spectators int    `json:"spectators"`
}

func (t *Table) Summary() Summary {
	return Summary{
		Name:       t.name,
		Seated:     len(t.seats),
		Spectators: len(t.spectators),
	}
}
