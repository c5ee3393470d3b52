package ws

import (
	"sort"
	"sync"
	"time"

	"truco_server/internal/logger"
	"truco_server/internal/metrics"
	"truco_server/internal/repository"
	"truco_server/internal/truco"
)

// Hub - процессный реестр комнат по имени: создание при первом входе,
// удаление когда уходит последний сидящий игрок. Хаб передается
// обработчикам явно, глобального состояния нет
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	lobby map[*Client]struct{}

	matches    *repository.MatchRepository // nil = история матчей выключена
	target     int
	trickDelay time.Duration
	handDelay  time.Duration
}

func NewHub(matches *repository.MatchRepository, target int, trickDelay, handDelay time.Duration) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		lobby:      make(map[*Client]struct{}),
		matches:    matches,
		target:     target,
		trickDelay: trickDelay,
		handDelay:  handDelay,
	}
}

// JoinRoom находит или создает комнату и ставит вход клиента в ее
// очередь команд. Комната может закрыться между поиском и постановкой -
// тогда поиск повторяется и вход уходит в свежую комнату
func (h *Hub) JoinRoom(name string, c *Client, mode string) {
	for {
		h.mu.Lock()
		room, ok := h.rooms[name]
		if !ok || room.isClosed() {
			room = newRoom(name, h)
			h.rooms[name] = room
			metrics.RoomsActive.Set(float64(len(h.rooms)))
			go room.Run()
			logger.Info("room created", "room", name)
		}
		h.mu.Unlock()

		if room.Join(c, mode) {
			return
		}
	}
}

// removeRoom вызывается циклом комнаты при ее уничтожении
func (h *Hub) removeRoom(name string) {
	h.mu.Lock()
	delete(h.rooms, name)
	metrics.RoomsActive.Set(float64(len(h.rooms)))
	h.mu.Unlock()
	logger.Info("room destroyed", "room", name)
}

// Summaries возвращает список комнат для лобби: имя, занятые места,
// зрители - и никогда содержимое карт
func (h *Hub) Summaries() []truco.Summary {
	h.mu.RLock()
	out := make([]truco.Summary, 0, len(h.rooms))
	for _, room := range h.rooms {
		out = append(out, room.summarySnapshot())
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddLobbyWatcher подписывает соединение на изменения списка комнат
func (h *Hub) AddLobbyWatcher(c *Client) {
	c.lobby = true
	h.mu.Lock()
	h.lobby[c] = struct{}{}
	h.mu.Unlock()

	c.send(Message{Type: "room_list", Payload: h.Summaries()})
}

func (h *Hub) RemoveLobbyWatcher(c *Client) {
	h.mu.Lock()
	delete(h.lobby, c)
	h.mu.Unlock()
}

// notifyLobby рассылает обновленный список комнат подписчикам лобби
func (h *Hub) notifyLobby() {
	summaries := h.Summaries()

	h.mu.RLock()
	watchers := make([]*Client, 0, len(h.lobby))
	for c := range h.lobby {
		watchers = append(watchers, c)
	}
	h.mu.RUnlock()

	for _, c := range watchers {
		c.send(Message{Type: "room_list", Payload: summaries})
	}
}
