package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/verdeo/ecohabit/internal/service"
)

type CommunityHandler struct {
	service     service.CommunityService
	redisClient *redis.Client
	upgrader    websocket.Upgrader
}

func NewCommunityHandler(service service.CommunityService, redisClient *redis.Client) *CommunityHandler {
	return &CommunityHandler{
		service:     service,
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for now
			},
		},
	}
}

// REST Endpoints

func (h *CommunityHandler) GetStats(c *gin.Context) {
	snapshot, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": snapshot.Stats})
}

func (h *CommunityHandler) GetLeaderboard(c *gin.Context) {
	limit := queryInt(c, "limit", 10)

	leaderboard, err := h.service.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "leaderboard": leaderboard})
}

// WebSocket Endpoint

// HandleWebSocket upgrades the connection and relays every community snapshot
// published on redis to the client, starting with the current state.
func (h *CommunityHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	// Push the current snapshot so a fresh viewer is not blank until the next
	// logging transaction.
	if snapshot, err := h.service.Snapshot(c.Request.Context()); err == nil {
		if payload, err := json.Marshal(snapshot); err == nil {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}

	if h.redisClient == nil {
		log.Println("Redis client is nil, cannot subscribe to community updates")
		return
	}

	pubsub := h.redisClient.Subscribe(c.Request.Context(), service.CommunityChannel)
	defer pubsub.Close()

	// Wait for confirmation that the subscription is created
	if _, err := pubsub.Receive(c.Request.Context()); err != nil {
		log.Printf("Failed to subscribe to redis channel: %v", err)
		return
	}

	// Reader goroutine: we never expect client messages, but reading is how
	// we notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
