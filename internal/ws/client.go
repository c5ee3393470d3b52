package ws

import (
	"encoding/json"
	"time"

	"truco_server/internal/logger"
	"truco_server/internal/metrics"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// Client - одно websocket-соединение: либо участник комнаты,
// либо подписчик лобби
type Client struct {
	ID   string // непрозрачный id соединения (uuid), идентичность игрока
	Name string
	Conn *websocket.Conn
	Send chan []byte

	hub   *Hub
	room  *Room
	lobby bool
}

func NewClient(id, name string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:   id,
		Name: name,
		Conn: conn,
		Send: make(chan []byte, 256),
		hub:  hub,
	}
}

// Run запускает насосы чтения и записи
func (c *Client) Run() {
	metrics.ClientsConnected.Inc()
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.disconnect()
		metrics.ClientsConnected.Dec()
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			logger.Debug("ws read closed", "player", c.ID, "error", err)
			return
		}
		if c.room != nil {
			c.room.Dispatch(c, msg)
		}
		// сообщения подписчика лобби игнорируются
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write failed", "player", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// send сериализует и ставит сообщение в очередь без блокировки;
// переполненный канал означает мертвого клиента - сообщение отбрасывается
func (c *Client) send(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("ws marshal failed", "type", msg.Type, "error", err)
		return
	}
	select {
	case c.Send <- data:
	default:
		logger.Warn("ws send queue full, dropping message", "player", c.ID, "type", msg.Type)
	}
}

func (c *Client) disconnect() {
	if c.room != nil {
		c.room.Leave(c)
	}
	if c.lobby {
		c.hub.RemoveLobbyWatcher(c)
	}
	_ = c.Conn.Close()
}
