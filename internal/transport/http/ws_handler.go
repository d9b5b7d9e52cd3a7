package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"assessment-service/internal/app"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	sessions *app.SessionService
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewWSHandler(sessions *app.SessionService, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSHandler{
		sessions: sessions,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type gotoPayload struct {
	Index int `json:"index"`
}

type answerPayload struct {
	Option string `json:"option"`
	// Index targets a specific question; the current question when omitted.
	Index *int `json:"index,omitempty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

const writeWait = 10 * time.Second

// ServeWS upgrades the request and runs one assessment session over the connection.
// The session is dropped when the connection closes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	assessmentID := r.URL.Query().Get("assessmentId")
	if assessmentID == "" {
		http.Error(w, "missing assessmentId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	// Clear the server's read deadline; sessions can idle between answers.
	_ = conn.SetReadDeadline(time.Time{})

	ctx := r.Context()
	view, err := h.sessions.Start(ctx, assessmentID)
	defer h.sessions.Close(context.Background(), view.SessionID)
	if err != nil {
		h.send(conn, "state", view)
		h.send(conn, "error", errorPayload{Message: err.Error()})
		return
	}
	if !h.send(conn, "state", view) {
		return
	}

	sessionID := view.SessionID
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Info("ws read ended", "session_id", sessionID, "error", err)
			}
			return
		}
		typ, payload, err := h.dispatch(ctx, sessionID, inbound)
		if err != nil {
			typ, payload = "error", errorPayload{Message: err.Error()}
		}
		if !h.send(conn, typ, payload) {
			return
		}
	}
}

func (h *WSHandler) dispatch(ctx context.Context, sessionID string, msg inboundMessage) (string, any, error) {
	switch msg.Type {
	case "state":
		v, err := h.sessions.View(ctx, sessionID)
		return "state", v, err
	case "goto":
		var p gotoPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return "", nil, errInvalidPayload
		}
		v, err := h.sessions.GoTo(ctx, sessionID, p.Index)
		return "state", v, err
	case "next":
		v, err := h.sessions.Next(ctx, sessionID)
		return "state", v, err
	case "previous":
		v, err := h.sessions.Previous(ctx, sessionID)
		return "state", v, err
	case "answer":
		var p answerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return "", nil, errInvalidPayload
		}
		if p.Index != nil {
			v, err := h.sessions.Record(ctx, sessionID, *p.Index, p.Option)
			return "state", v, err
		}
		v, err := h.sessions.Answer(ctx, sessionID, p.Option)
		return "state", v, err
	case "submit":
		res, err := h.sessions.Submit(ctx, sessionID)
		return "result", res, err
	case "result":
		res, err := h.sessions.Result(ctx, sessionID)
		return "result", res, err
	case "review":
		rev, err := h.sessions.Review(ctx, sessionID)
		return "review", rev, err
	case "restart":
		v, err := h.sessions.Restart(ctx, sessionID)
		return "state", v, err
	default:
		return "", nil, errUnsupportedType
	}
}

func (h *WSHandler) send(conn *websocket.Conn, typ string, payload any) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(outboundMessage[any]{Type: typ, Payload: payload}); err != nil {
		h.logger.Warn("ws write error", "error", err)
		return false
	}
	return true
}

var (
	errInvalidPayload  = wsError("invalid payload")
	errUnsupportedType = wsError("unsupported message type")
)

type wsError string

func (e wsError) Error() string { return string(e) }
