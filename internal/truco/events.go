package truco

type EventType string

const (
	EventTrickResolved  EventType = "trick_resolved"
	EventHandResolved   EventType = "hand_resolved"
	EventMatchEnded     EventType = "match_ended"
	EventTrucoRequested EventType = "truco_requested"
	EventTrucoAccepted  EventType = "truco_accepted"
	EventTrucoDeclined  EventType = "truco_declined"
	EventHandStarted    EventType = "hand_started"
)

// Play - одна выложенная карта текущей взятки
type Play struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Team     Team   `json:"team"`
	Card     Card   `json:"card"`
	Strength int    `json:"strength"`
}

// Event - именованный исход, который движок возвращает как значение;
// доставкой занимается транспортный слой
type Event struct {
	Type   EventType `json:"type"`
	Winner string    `json:"winner,omitempty"` // red | blue | tie | nobody
	Team   Team      `json:"team,omitempty"`   // команда-инициатор для событий ставки
	Plays  []Play    `json:"plays,omitempty"`  // для trick_resolved, по убыванию силы
	Points int       `json:"points,omitempty"`
	Stake  int       `json:"stake,omitempty"`
	Label  string    `json:"label,omitempty"` // truco/seis/nove/doze
}

const (
	WinnerTie    = "tie"
	WinnerNobody = "nobody"
)
