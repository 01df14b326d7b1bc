package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"gold-observer/src/models"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop
func (s *FastAPIServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.connections.Store(int64(len(s.clients)))
			// Send initial state on connect
			s.stateMutex.RLock()
			if s.latestState != nil {
				// Send full initial state
				client.send <- s.latestState
			}
			s.stateMutex.RUnlock()

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
				s.connections.Store(int64(len(s.clients)))
			}

		case message := <-s.broadcast:
			// Staleness guard: concurrent analytics passes can finish out of
			// order, never let an older snapshot overwrite a newer one. An
			// equal timestamp means the snapshot was already merged into the
			// state via UpdateAllDatas, keep the merged superset.
			s.stateMutex.Lock()
			if message.Timestamp < s.latestState.Timestamp {
				s.stateMutex.Unlock()
				continue
			}
			if message.Timestamp > s.latestState.Timestamp {
				s.latestState = message
			}
			s.stateMutex.Unlock()

			// Broadcast to all clients
			for client := range s.clients {
				select {
				case client.send <- message:
					// Message sent successfully
				default:
					// Client too slow, disconnect to prevent Hub blocking
					// This ensures reliable 24/7 operation by pruning dead/slow consumers
					delete(s.clients, client)
					close(client.send)
					s.connections.Store(int64(len(s.clients)))
				}
			}
		}
	}
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// UpdateAllDatas - updates internal state by merging new data (Deep Merge)
func (s *FastAPIServer) UpdateAllDatas(data interface{}) {
	var newPrices map[string]models.MGoldPrice
	var newTrends map[string]models.MTrendView
	var newTs int64
	var newMetrics models.MProcessingMetrics
	newType := "UPDATE"

	switch d := data.(type) {
	case *models.MLatestData:
		newPrices = d.Prices
		newTrends = d.Trends
		newTs = d.Timestamp
		newMetrics = d.ProcessingMetrics
		if d.Type != "" {
			newType = d.Type
		}
	case map[string]interface{}:
		newPrices = safeGoldPriceMap(d, "prices")
		newTrends = safeTrendViewMap(d, "trends")
		newTs = safeInt64(d, "timestamp")
		newMetrics = safeProcessingMetrics(d, "processing_metrics")
	default:
		s.Logger.Info("AllDatas expected snapshot or map, got %T", data)
		return
	}

	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	// Published snapshots are immutable: the current state pointer may still
	// sit in client send queues mid-marshal, so merge into a fresh snapshot
	// and swap instead of writing the shared maps in place.
	merged := &models.MLatestData{
		Type:              newType,
		Prices:            make(map[string]models.MGoldPrice, len(s.latestState.Prices)+len(newPrices)),
		Trends:            make(map[string]models.MTrendView, len(s.latestState.Trends)+len(newTrends)),
		Timestamp:         newTs,
		ProcessingMetrics: newMetrics,
	}

	// 1. Merge Prices
	for k, v := range s.latestState.Prices {
		merged.Prices[k] = v
	}
	for k, v := range newPrices {
		merged.Prices[k] = v
	}

	// 2. Merge Trend Views. Latest snapshot per gold type only, the full
	// history stays in storage.
	for goldType, view := range s.latestState.Trends {
		merged.Trends[goldType] = view
	}
	for goldType, view := range newTrends {
		merged.Trends[goldType] = view
	}

	s.latestState = merged
}

// -----------------------------------------------------------------------------

// Broadcast - parses data and sends to broadcast channel (Queue)
func (s *FastAPIServer) Broadcast(message interface{}) {
	// Strongly typed snapshots pass straight through
	if state, ok := message.(*models.MLatestData); ok {
		state.Type = "UPDATE"
		s.broadcast <- state
		return
	}

	// Parse input
	dataMap, ok := message.(map[string]interface{})
	if !ok {
		// Log error but don't crash
		s.Logger.Info("Broadcast expected map[string]interface{}, got %T", message)
		return
	}

	// Convert to strongly typed structure BEFORE entering the channel
	// This optimization prevents the Hub from doing data processing
	state := &models.MLatestData{
		Type:              "UPDATE",
		Prices:            safeGoldPriceMap(dataMap, "prices"),
		Trends:            safeTrendViewMap(dataMap, "trends"),
		Timestamp:         safeInt64(dataMap, "timestamp"),
		ProcessingMetrics: safeProcessingMetrics(dataMap, "processing_metrics"),
	}

	s.broadcast <- state
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan interface{}, 256),
	}

	s.register <- client

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

func (s *FastAPIServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSubscribeCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command != "subscribe" {
		return
	}

	s.stateMutex.RLock()
	var response *models.MLatestData

	if cmd.ClientType == "dashboard" {
		response = s.dashboardResponse(cmd.GoldTypes)
	} else {
		response = s.typeViewResponse(cmd.GoldTypes)
	}
	s.stateMutex.RUnlock()

	// Send response to client
	// Use select to avoid blocking if client's send buffer is full
	select {
	case client.send <- response:
	default:
	}
}

// -----------------------------------------------------------------------------
// Response Filtering
// -----------------------------------------------------------------------------

// typeViewResponse returns prices and trends for the requested gold types,
// or everything when the filter is empty.
func (s *FastAPIServer) typeViewResponse(goldTypes []string) *models.MLatestData {
	filteredPrices := make(map[string]models.MGoldPrice)
	if len(goldTypes) == 0 {
		filteredPrices = s.latestState.Prices
	} else {
		for gt, data := range s.latestState.Prices {
			if contains(goldTypes, gt) {
				filteredPrices[gt] = data
			}
		}
	}

	filteredTrends := make(map[string]models.MTrendView)
	if len(goldTypes) == 0 {
		filteredTrends = s.latestState.Trends
	} else {
		for _, gt := range goldTypes {
			if view, exists := s.latestState.Trends[gt]; exists {
				filteredTrends[gt] = view
			}
		}
	}

	return &models.MLatestData{
		Type:              "INITIAL",
		Prices:            filteredPrices,
		Trends:            filteredTrends,
		Timestamp:         s.latestState.Timestamp,
		ProcessingMetrics: s.latestState.ProcessingMetrics,
	}
}

// -----------------------------------------------------------------------------

// dashboardResponse carries the full quote board but only the filtered trend
// charts, the dashboard renders every price tile and a chart per selection.
func (s *FastAPIServer) dashboardResponse(goldTypes []string) *models.MLatestData {
	filteredTrends := make(map[string]models.MTrendView)

	if len(goldTypes) == 0 {
		filteredTrends = s.latestState.Trends
	} else {
		for _, gt := range goldTypes {
			if view, exists := s.latestState.Trends[gt]; exists {
				filteredTrends[gt] = view
			}
		}
	}

	return &models.MLatestData{
		Type:              "INITIAL",
		Prices:            s.latestState.Prices,
		Trends:            filteredTrends,
		Timestamp:         s.latestState.Timestamp,
		ProcessingMetrics: s.latestState.ProcessingMetrics,
	}
}
