package ws

import (
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Event is the JSON frame pushed to dashboard clients.
type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	SentAt  time.Time   `json:"sent_at"`
}

type registration struct {
	conn   Conn
	userID string
}

type directMessage struct {
	userIDs []string
	payload []byte
}

// Hub fans messages out to connected clients. The client registry is owned by
// the Run goroutine; everything else talks to it through channels.
type Hub struct {
	clients map[Conn]string

	register   chan registration
	unregister chan Conn
	broadcast  chan []byte
	direct     chan directMessage
	count      chan chan int
	stop       chan struct{}
	done       chan struct{}

	log *logrus.Entry
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[Conn]string),
		register:   make(chan registration),
		unregister: make(chan Conn),
		broadcast:  make(chan []byte, 64),
		direct:     make(chan directMessage, 64),
		count:      make(chan chan int),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		log:        logrus.WithField("component", "ws"),
	}
}

func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case r := <-h.register:
			h.clients[r.conn] = r.userID
			h.log.WithField("user_id", r.userID).Debug("client connected")

		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}

		case message := <-h.broadcast:
			for conn := range h.clients {
				h.write(conn, message)
			}

		case msg := <-h.direct:
			targets := make(map[string]struct{}, len(msg.userIDs))
			for _, id := range msg.userIDs {
				targets[id] = struct{}{}
			}
			for conn, userID := range h.clients {
				if _, ok := targets[userID]; ok {
					h.write(conn, msg.payload)
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)

		case <-h.stop:
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			return
		}
	}
}

func (h *Hub) write(conn Conn, message []byte) {
	if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
		h.log.WithError(err).WithField("user_id", h.clients[conn]).Warn("dropping client after failed write")
		conn.Close()
		delete(h.clients, conn)
	}
}

// Stop closes every client and waits for Run to return.
func (h *Hub) Stop() {
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}
	<-h.done
}

func (h *Hub) Register(conn Conn, userID string) {
	select {
	case h.register <- registration{conn: conn, userID: userID}:
	case <-h.stop:
		conn.Close()
	}
}

func (h *Hub) Unregister(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.stop:
	}
}

func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.stop:
	}
}

// SendToUsers delivers message only to connections opened by the given users.
func (h *Hub) SendToUsers(userIDs []string, message []byte) {
	if len(userIDs) == 0 {
		return
	}
	select {
	case h.direct <- directMessage{userIDs: userIDs, payload: message}:
	case <-h.stop:
	}
}

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.stop:
		return 0
	}
}

// Publish sends event to every client.
func (h *Hub) Publish(event Event) {
	if payload, ok := h.encode(event); ok {
		h.Broadcast(payload)
	}
}

// PublishTo sends event to the given users only.
func (h *Hub) PublishTo(userIDs []string, event Event) {
	if payload, ok := h.encode(event); ok {
		h.SendToUsers(userIDs, payload)
	}
}

func (h *Hub) encode(event Event) ([]byte, bool) {
	if event.SentAt.IsZero() {
		event.SentAt = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).WithField("type", event.Type).Error("failed to encode event")
		return nil, false
	}
	return payload, true
}
