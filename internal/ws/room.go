package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"truco_server/internal/domain"
	"truco_server/internal/logger"
	"truco_server/internal/metrics"
	"truco_server/internal/truco"
)

type commandKind string

const (
	cmdJoin      commandKind = "join"
	cmdLeave     commandKind = "leave"
	cmdPlayCard  commandKind = "play_card"
	cmdTruco     commandKind = "truco"
	cmdRespond   commandKind = "respond"
	cmdNextMatch commandKind = "next_match"
	cmdAdvance   commandKind = "advance"
)

// режимы входа в комнату
const (
	ModeAuto   = ""       // место если есть, иначе зритель
	ModePlayer = "player" // строго место; при полном столе - отказ
	ModeWatch  = "watch"  // всегда зритель
)

type command struct {
	kind     commandKind
	client   *Client
	card     truco.Card
	response string
	mode     string
}

// Room - адаптер между транспортом и движком. Один goroutine-цикл
// потребляет канал команд, поэтому все мутации стола строго
// сериализованы; комнаты независимы друг от друга
type Room struct {
	Name  string
	table *truco.Table

	clients  map[string]*Client
	roles    map[string]truco.Role
	commands chan command
	done     chan struct{}
	hub      *Hub

	trickDelay time.Duration
	handDelay  time.Duration

	// кэш для лобби: хаб читает его без обращения к столу
	sumMu   sync.RWMutex
	summary truco.Summary
}

func newRoom(name string, hub *Hub) *Room {
	r := &Room{
		Name:       name,
		table:      truco.NewTable(name, hub.target, nil),
		clients:    make(map[string]*Client),
		roles:      make(map[string]truco.Role),
		commands:   make(chan command, 64),
		done:       make(chan struct{}),
		hub:        hub,
		trickDelay: hub.trickDelay,
		handDelay:  hub.handDelay,
	}
	r.summary = r.table.Summary()
	return r
}

func (r *Room) Run() {
	logger.Info("room started", "room", r.Name)
	for {
		select {
		case cmd := <-r.commands:
			r.apply(cmd)
		case <-r.done:
			logger.Info("room closed", "room", r.Name)
			return
		}
	}
}

// enqueue возвращает false, если комната уже закрыта и команда
// не будет обработана
func (r *Room) enqueue(cmd command) bool {
	select {
	case r.commands <- cmd:
		return true
	case <-r.done:
		return false
	}
}

func (r *Room) isClosed() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Join ставит вход в очередь команд комнаты; false означает, что комната
// успела закрыться и вход нужно повторить через хаб
func (r *Room) Join(c *Client, mode string) bool {
	return r.enqueue(command{kind: cmdJoin, client: c, mode: mode})
}

// Leave вызывается насосом чтения при разрыве соединения
func (r *Room) Leave(c *Client) {
	r.enqueue(command{kind: cmdLeave, client: c})
}

// Dispatch разбирает входящее сообщение игрока и ставит команду в очередь.
// Неизвестные и кривые команды отклоняются приватной ошибкой
func (r *Room) Dispatch(c *Client, raw []byte) {
	var in ClientCommand
	if err := json.Unmarshal(raw, &in); err != nil {
		c.send(Message{Type: "error", Payload: errorPayload{Reason: "malformed command"}})
		return
	}

	switch in.Type {
	case string(cmdPlayCard):
		if in.Card == nil {
			c.send(Message{Type: "error", Payload: errorPayload{Reason: "card is required"}})
			return
		}
		r.enqueue(command{kind: cmdPlayCard, client: c, card: *in.Card})
	case string(cmdTruco):
		r.enqueue(command{kind: cmdTruco, client: c})
	case string(cmdRespond):
		r.enqueue(command{kind: cmdRespond, client: c, response: in.Response})
	case string(cmdNextMatch):
		r.enqueue(command{kind: cmdNextMatch, client: c})
	default:
		c.send(Message{Type: "error", Payload: errorPayload{Reason: "unknown command"}})
	}
}

func (r *Room) apply(cmd command) {
	switch cmd.kind {
	case cmdJoin:
		r.handleJoin(cmd.client, cmd.mode)
	case cmdLeave:
		r.handleLeave(cmd.client)
	case cmdAdvance:
		// отложенное продолжение: движок сам перепроверяет предусловия,
		// устаревший Advance ничего не делает
		events, acted := r.table.Advance()
		if acted {
			r.afterEvents(events)
		}
	default:
		r.handleAction(cmd)
	}
}

func (r *Room) handleAction(cmd command) {
	var (
		events []truco.Event
		err    error
	)

	switch cmd.kind {
	case cmdPlayCard:
		events, err = r.table.PlayCard(cmd.client.ID, cmd.card)
	case cmdTruco:
		events, err = r.table.RequestTruco(cmd.client.ID)
	case cmdRespond:
		events, err = r.table.RespondTruco(cmd.client.ID, cmd.response)
	case cmdNextMatch:
		events, err = r.table.StartNextMatch()
	}

	if err != nil {
		// отклоненная команда не меняет состояние и не рассылается,
		// актер получает только приватную причину
		metrics.CommandsTotal.WithLabelValues(string(cmd.kind), "rejected").Inc()
		cmd.client.send(Message{Type: "error", Payload: errorPayload{Reason: err.Error()}})
		return
	}

	metrics.CommandsTotal.WithLabelValues(string(cmd.kind), "accepted").Inc()
	r.afterEvents(events)
}

// afterEvents рассылает исходы и свежие снимки, затем планирует
// продолжения и фиксирует завершение матча
func (r *Room) afterEvents(events []truco.Event) {
	for _, ev := range events {
		r.broadcastEvent(ev)
	}
	r.broadcastState()

	var matchEnded, handResolved, trickResolved bool
	var matchWinner truco.Team
	for _, ev := range events {
		switch ev.Type {
		case truco.EventMatchEnded:
			matchEnded = true
			matchWinner = truco.Team(ev.Winner)
		case truco.EventHandResolved:
			handResolved = true
			metrics.HandsPlayed.Inc()
		case truco.EventTrickResolved:
			trickResolved = true
		}
	}

	switch {
	case matchEnded:
		// комната не продолжается автоматически: новый матч
		// начинается только по явной команде next_match
		metrics.MatchesCompleted.WithLabelValues(string(matchWinner)).Inc()
		r.recordMatch(matchWinner)
	case handResolved:
		r.scheduleAdvance(r.handDelay)
	case trickResolved:
		r.scheduleAdvance(r.trickDelay)
	}
}

func (r *Room) scheduleAdvance(d time.Duration) {
	time.AfterFunc(d, func() {
		r.enqueue(command{kind: cmdAdvance})
	})
}

// recordMatch пишет строку истории матча в фоне; игровое состояние
// при этом не персистится и не читается обратно
func (r *Room) recordMatch(winner truco.Team) {
	if r.hub.matches == nil {
		return
	}

	scores := r.table.Scores()
	rec := &domain.MatchRecord{
		RoomName:    r.Name,
		WinningTeam: string(winner),
		RedScore:    scores[truco.TeamRed],
		BlueScore:   scores[truco.TeamBlue],
		HandsPlayed: r.table.HandsPlayed(),
		Winners:     r.table.TeamMembers(winner),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.hub.matches.SaveMatch(ctx, rec); err != nil {
			logger.Error("failed to save match record", "room", rec.RoomName, "error", err)
		}
	}()
}

func (r *Room) handleJoin(c *Client, mode string) {
	if mode == ModePlayer && r.summarySnapshot().Seated >= truco.SeatCount {
		c.send(Message{Type: "error", Payload: errorPayload{Reason: truco.ErrRoomFull.Error()}})
		c.Conn.Close()
		return
	}

	var (
		role   truco.Role
		events []truco.Event
	)
	if mode == ModeWatch {
		role = r.table.JoinSpectator(c.ID, c.Name)
	} else {
		role, events = r.table.Join(c.ID, c.Name)
	}

	// та же идентичность со второго сокета: стол места не дублирует,
	// роль переходит к новому соединению, старое перестает получать
	// сообщения и его разрыв место не освобождает
	if prev, ok := r.clients[c.ID]; ok && prev != c {
		logger.Info("connection replaced", "room", r.Name, "player", c.ID)
	}

	c.room = r
	r.clients[c.ID] = c
	r.roles[c.ID] = role

	logger.Info("player joined room", "room", r.Name, "player", c.ID, "name", c.Name, "role", role)

	c.send(Message{Type: "welcome", Payload: welcomePayload{Room: r.Name, PlayerID: c.ID, Role: role}})
	r.afterEvents(events)
	r.updateSummary()
	r.hub.notifyLobby()
}

func (r *Room) handleLeave(c *Client) {
	// разрыв вытесненного соединения не трогает место: роль уже
	// принадлежит другому сокету той же идентичности
	cur, ok := r.clients[c.ID]
	if !ok || cur != c {
		return
	}
	delete(r.clients, c.ID)
	delete(r.roles, c.ID)
	c.room = nil

	destroyed := r.table.Leave(c.ID)
	logger.Info("player left room", "room", r.Name, "player", c.ID, "destroyed", destroyed)

	if destroyed {
		// ушел последний сидящий игрок; одни зрители комнату не держат
		r.hub.removeRoom(r.Name)
		close(r.done)
		r.hub.notifyLobby()
		return
	}

	r.broadcastState()
	r.updateSummary()
	r.hub.notifyLobby()
}

// broadcastState шлет каждому участнику его собственный вид: сидящий
// видит только свою руку, зритель - ни одной
func (r *Room) broadcastState() {
	for id, c := range r.clients {
		if r.roles[id] == truco.RolePlayer {
			c.send(Message{Type: "state", Payload: r.table.SnapshotFor(id)})
		} else {
			c.send(Message{Type: "state", Payload: r.table.SnapshotSpectator()})
		}
	}
	r.updateSummary()
}

func (r *Room) broadcastEvent(ev truco.Event) {
	msg := Message{Type: string(ev.Type), Payload: ev}
	for _, c := range r.clients {
		c.send(msg)
	}
}

func (r *Room) updateSummary() {
	s := r.table.Summary()
	r.sumMu.Lock()
	r.summary = s
	r.sumMu.Unlock()
}

func (r *Room) summarySnapshot() truco.Summary {
	r.sumMu.RLock()
	defer r.sumMu.RUnlock()
	return r.summary
}
