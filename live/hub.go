package live

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one observer connection, bound to a single auction room.
// UserID/TeamID are zero for anonymous spectators.
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	Send      chan []byte
	AuctionID int
	UserID    int
	TeamID    *int

	mu       sync.Mutex
	isClosed bool
}

// Hub owns the observer connection registry: one room per auction id,
// mutated only through the Register/Unregister channels.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	mu    sync.RWMutex
	rooms map[int]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[int]map[*Client]bool),
	}
}

// Run processes connect/disconnect events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.AuctionID]; !ok {
				h.rooms[client.AuctionID] = make(map[*Client]bool)
			}
			h.rooms[client.AuctionID][client] = true
			log.Printf("observer joined auction %d (%d connected)", client.AuctionID, len(h.rooms[client.AuctionID]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.AuctionID]; ok {
				if _, okClient := room[client]; okClient {
					client.closeSend()
					delete(room, client)
					if len(room) == 0 {
						delete(h.rooms, client.AuctionID)
					}
					log.Printf("observer left auction %d (%d connected)", client.AuctionID, len(room))
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for auctionID, room := range h.rooms {
		for client := range room {
			client.closeSend()
		}
		delete(h.rooms, auctionID)
	}
}

// BroadcastToAuction pushes one event to every observer of the auction.
// A client with a full send buffer is skipped, never waited on.
func (h *Hub) BroadcastToAuction(auctionID int, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[auctionID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event for auction %d: %v", event.Type, auctionID, err)
		return
	}

	for client := range room {
		client.mu.Lock()
		if client.isClosed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			log.Printf("observer send buffer full for auction %d, dropping %s", auctionID, event.Type)
		}
		client.mu.Unlock()
	}
}

// RoomSize reports the number of observers connected to one auction.
func (h *Hub) RoomSize(auctionID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[auctionID])
}

func (c *Client) closeSend() {
	c.mu.Lock()
	if !c.isClosed {
		close(c.Send)
		c.isClosed = true
	}
	c.mu.Unlock()
}

// ReadPump drains inbound frames. Observers do not talk back to the engine;
// anything they send is discarded, the pump only tracks liveness.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("observer read error on auction %d: %v", c.AuctionID, err)
			}
			break
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush anything queued behind this message.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
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
