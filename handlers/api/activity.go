package api

import (
	"bufio"
	"encoding/json"
	"time"

	"dbconsole/activity"
	"dbconsole/metrics"
	"dbconsole/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/valyala/fasthttp"
)

const keepAliveInterval = 30 * time.Second

// ActivityHandler serves the recent-activity feed, as a list and as
// live SSE and websocket streams
type ActivityHandler struct {
	feed    *activity.Feed
	metrics *metrics.Metrics
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(feed *activity.Feed, m *metrics.Metrics) *ActivityHandler {
	return &ActivityHandler{feed: feed, metrics: m}
}

// ListActivity returns the newest events, ?limit= of them (default 10)
func (h *ActivityHandler) ListActivity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit > activity.DefaultCapacity {
		limit = activity.DefaultCapacity
	}
	return c.JSON(fiber.Map{
		"events": h.feed.Recent(limit),
	})
}

func (h *ActivityHandler) track(delta float64) {
	if h.metrics != nil {
		h.metrics.ActivitySubscribers.Add(delta)
	}
}

// HandleSSE streams new events as Server-Sent Events
func (h *ActivityHandler) HandleSSE(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	id, events, cancel := h.feed.Subscribe()
	h.track(1)
	utils.Log.Info("SSE subscriber connected: %s", id)

	done := c.Context().Done()
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer func() {
			cancel()
			h.track(-1)
			utils.Log.Info("SSE subscriber disconnected: %s", id)
		}()

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		// An immediate comment lets the client know the stream is open
		if _, err := w.WriteString(": connected\n\n"); err != nil || w.Flush() != nil {
			return
		}

		for {
			select {
			case e, ok := <-events:
				if !ok {
					return
				}
				data, err := json.Marshal(e)
				if err != nil {
					utils.Log.Error("Failed to encode activity event: %v", err)
					continue
				}
				if _, err := w.WriteString("event: activity\ndata: " + string(data) + "\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}

			case <-ticker.C:
				if _, err := w.WriteString(": keepalive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}

			case <-done:
				return
			}
		}
	}))

	return nil
}

// UpgradeWebSocket rejects plain HTTP requests to the websocket route
func UpgradeWebSocket(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket pushes new events as JSON messages until the client
// goes away
func (h *ActivityHandler) HandleWebSocket(c *websocket.Conn) {
	id, events, cancel := h.feed.Subscribe()
	h.track(1)
	defer func() {
		cancel()
		h.track(-1)
		c.Close()
		utils.Log.Info("WebSocket subscriber disconnected: %s", id)
	}()

	utils.Log.Info("WebSocket subscriber connected: %s", id)

	// The read loop only exists to notice the close frame
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := c.WriteJSON(e); err != nil {
				utils.Log.Error("Failed to send activity event: %v", err)
				return
			}
		case <-closed:
			return
		}
	}
}
