package truco

type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
	TeamBoth Team = "both" // только для PermittedTeam
	TeamNone Team = ""
)

// Opponent возвращает противоположную команду
func (t Team) Opponent() Team {
	switch t {
	case TeamRed:
		return TeamBlue
	case TeamBlue:
		return TeamRed
	}
	return TeamNone
}

type WagerState string

const (
	WagerNoRequest        WagerState = "no_request"
	WagerAwaitingResponse WagerState = "awaiting_response"
)

// следующая ступень ставки
var nextStake = map[int]int{1: 3, 3: 6, 6: 9, 9: 12}

// RaiseName возвращает название повышения до указанной ставки
func RaiseName(stake int) string {
	switch stake {
	case 3:
		return "truco"
	case 6:
		return "seis"
	case 9:
		return "nove"
	case 12:
		return "doze"
	}
	return ""
}

// Wager - неизменяемое значение состояния ставки текущей руки.
// Каждый переход возвращает новое значение; при ошибке исходное
// состояние остается как есть (операции атомарны)
type Wager struct {
	Stake          int        `json:"stake"`
	State          WagerState `json:"state"`
	PermittedTeam  Team       `json:"permitted_team"`
	RequestingTeam Team       `json:"requesting_team,omitempty"`
}

// NewWager возвращает начальное состояние: ставка 1, запроса нет,
// обе команды могут просить повышение
func NewWager() Wager {
	return Wager{
		Stake:         1,
		State:         WagerNoRequest,
		PermittedTeam: TeamBoth,
	}
}

// RequestRaise - команда просит повышение ставки
func (w Wager) RequestRaise(team Team) (Wager, error) {
	if w.State == WagerAwaitingResponse {
		return w, ErrAlreadyPendingRequest
	}
	if w.Stake >= 12 {
		return w, ErrStakeAtMaximum
	}
	if w.PermittedTeam != TeamBoth && w.PermittedTeam != team {
		return w, ErrPermissionDenied
	}

	w.State = WagerAwaitingResponse
	w.RequestingTeam = team
	w.PermittedTeam = team.Opponent()
	return w, nil
}

// Accept - отвечающая команда принимает повышение; ставка переходит
// на следующую ступень, инициатива дальнейших повышений у принявшей команды
func (w Wager) Accept(team Team) (Wager, error) {
	if err := w.canRespond(team); err != nil {
		return w, err
	}

	w.Stake = nextStake[w.Stake]
	w.State = WagerNoRequest
	w.RequestingTeam = TeamNone
	w.PermittedTeam = team
	return w, nil
}

// Fold - результат отказа: рука заканчивается немедленно,
// просившая команда получает очки по ставке ДО повышения
type Fold struct {
	Winner Team
	Points int
}

// Decline - отвечающая команда "бежит". Это переход, завершающий руку,
// а не просто смена ставки
func (w Wager) Decline(team Team) (Wager, Fold, error) {
	if err := w.canRespond(team); err != nil {
		return w, Fold{}, err
	}

	fold := Fold{Winner: w.RequestingTeam, Points: w.Stake}
	return NewWager(), fold, nil
}

// RaiseAgain - принять и тут же попросить следующее повышение.
// При ставке 9 вырождается в обычное принятие: выше 12 поднимать некуда
func (w Wager) RaiseAgain(team Team) (Wager, error) {
	accepted, err := w.Accept(team)
	if err != nil {
		return w, err
	}
	if w.Stake == 9 {
		return accepted, nil
	}

	raised, err := accepted.RequestRaise(team)
	if err != nil {
		return w, err
	}
	return raised, nil
}

func (w Wager) canRespond(team Team) error {
	if w.State != WagerAwaitingResponse {
		return ErrNoPendingRequest
	}
	if team == w.RequestingTeam {
		return ErrRequestorCannotRespond
	}
	return nil
}

// NextStake возвращает значение, до которого поднялась бы ставка,
// если текущий запрос будет принят (0 на максимуме)
func (w Wager) NextStake() int {
	return nextStake[w.Stake]
}
