package api

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hoshinonyaruko/snake-canvas/input"
	"github.com/hoshinonyaruko/snake-canvas/structs"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 2048,
	// CheckOrigin 为空时只接受同源页面
}

// keyMessage is what the page sends on keydown.
type keyMessage struct {
	Code int `json:"code"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes every rendered snapshot to connected pages and feeds their key
// presses into the command queue. It implements loop.Renderer.
type Hub struct {
	queue *input.Queue

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates a hub that forwards key presses to queue.
func NewHub(queue *input.Queue) *Hub {
	return &Hub{
		queue:   queue,
		clients: make(map[*client]struct{}),
	}
}

// Render broadcasts snap as JSON. Slow clients miss frames.
func (h *Hub) Render(snap structs.Snapshot) error {
	msg, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
	return nil
}

// Clients is the number of connected pages.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Handler upgrades the request and serves the connection until it closes.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		cl := &client{conn: conn, send: make(chan []byte, 16)}
		h.mu.Lock()
		h.clients[cl] = struct{}{}
		h.mu.Unlock()

		go cl.writer()
		cl.reader(h)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (c *client) reader(h *Hub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	for {
		var msg keyMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		// 无法识别的按键和退出键直接忽略
		h.queue.PushRemoteKey(msg.Code)
	}
}

func (c *client) writer() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
