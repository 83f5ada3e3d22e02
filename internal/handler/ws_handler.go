package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stemsi/contact-backend/internal/events"
	"github.com/stemsi/contact-backend/internal/middleware"
	"github.com/stemsi/contact-backend/internal/response"
	ws "github.com/stemsi/contact-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins.
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// FeedHandler streams message triage events to connected admins.
type FeedHandler struct {
	broker      events.Broker
	subscribers prometheus.Gauge
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewFeedHandler creates a new FeedHandler. subscribers may be nil.
func NewFeedHandler(broker events.Broker, subscribers prometheus.Gauge, log zerolog.Logger, allowedOrigins []string) *FeedHandler {
	return &FeedHandler{
		broker:      broker,
		subscribers: subscribers,
		log:         log.With().Str("component", "feed_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws/messages?token=...
// Upgrades to WebSocket and forwards every triage event until the client leaves.
func (h *FeedHandler) Stream(c *gin.Context) {
	admin, ok := middleware.GetAdmin(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	// Subscribe before upgrading so a broker failure can still be reported over HTTP.
	feed, unsubscribe, err := h.broker.Subscribe(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Feed subscription failed")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrInternal)
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("admin_id", admin.ID).Logger()
	wsLog.Info().Msg("Admin connected to live feed")
	if h.subscribers != nil {
		h.subscribers.Inc()
		defer h.subscribers.Dec()
	}

	// All writes happen on this goroutine; the reader only signals.
	closed := make(chan struct{})
	pongs := make(chan struct{}, 1)
	go h.readLoop(conn, wsLog, closed, pongs)

	if err := ws.WriteTyped(conn, ws.ReadyResponse{Event: ws.EventReady, AdminID: admin.ID}); err != nil {
		return
	}

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			wsLog.Info().Msg("Admin disconnected from live feed")
			return

		case e, ok := <-feed:
			if !ok {
				return
			}
			if err := ws.WriteTyped(conn, ws.FeedResponse{Event: ws.EventFeed, Payload: e}); err != nil {
				wsLog.Debug().Err(err).Msg("Feed write failed")
				return
			}

		case <-pongs:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}

		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

// readLoop consumes client frames until the connection fails, answering
// ping actions through pongs. It closes closed on exit.
func (h *FeedHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, closed chan<- struct{}, pongs chan<- struct{}) {
	defer close(closed)
	ws.KeepAlive(conn)

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		if msg.Action == ws.ActionPing {
			select {
			case pongs <- struct{}{}:
			default:
			}
			continue
		}
		wsLog.Debug().Str("action", string(msg.Action)).Msg("Ignoring unknown action")
	}
}
