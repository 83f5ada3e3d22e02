package websocket

import "github.com/stemsi/contact-backend/internal/events"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is the only client frame shape the feed understands.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventReady Event = "ready"
	EventFeed  Event = "feed"
	EventError Event = "error"
	EventPong  Event = "pong"
)

// ReadyResponse is sent once the subscription is live.
type ReadyResponse struct {
	Event   Event  `json:"event"`
	AdminID string `json:"adminId"`
}

// FeedResponse wraps one triage event.
type FeedResponse struct {
	Event   Event        `json:"event"`
	Payload events.Event `json:"payload"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
