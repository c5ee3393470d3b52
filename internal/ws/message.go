package ws

import "truco_server/internal/truco"

// Message - исходящий конверт: type + произвольная полезная нагрузка
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// ClientCommand - входящее сообщение игрока
type ClientCommand struct {
	Type     string      `json:"type"` // play_card | truco | respond | next_match
	Card     *truco.Card `json:"card,omitempty"`
	Response string      `json:"response,omitempty"` // accept | run | raise
}

// полезная нагрузка приветствия после входа в комнату
type welcomePayload struct {
	Room     string     `json:"room"`
	PlayerID string     `json:"player_id"`
	Role     truco.Role `json:"role"`
}

type errorPayload struct {
	Reason string `json:"reason"`
}
