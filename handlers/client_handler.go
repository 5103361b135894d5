package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"numbertrail/server/engine"
	"numbertrail/server/messages"
	"numbertrail/server/models"
	"numbertrail/server/network"
	"numbertrail/server/persistence"
	"numbertrail/server/services"
)

const levelLoadTimeout = 5 * time.Second

// ClientHandler drives one session from one websocket
type ClientHandler struct {
	conn     *network.Connection
	sessions *services.SessionService
	session  *services.Session
	log      zerolog.Logger
}

// WSHandler upgrades /ws requests and serves a session over each connection
type WSHandler struct {
	upgrader websocket.Upgrader
	sessions *services.SessionService
	clients  *ClientManager
	log      zerolog.Logger
}

// NewWSHandler creates the websocket endpoint. An empty allowedOrigin accepts any origin.
func NewWSHandler(sessions *services.SessionService, clients *ClientManager, allowedOrigin string, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
		sessions: sessions,
		clients:  clients,
		log:      log,
	}
}

// ServeHTTP handles the upgrade; ?level=name picks the starting level
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("failed to upgrade connection")
		return
	}
	defer ws.Close()

	h.handleConnection(ws, r.URL.Query().Get("level"))
}

func (h *WSHandler) handleConnection(ws *websocket.Conn, levelName string) {
	log := h.log.With().Str("remote", ws.RemoteAddr().String()).Logger()
	conn := network.NewConnection(ws, log)
	go conn.WritePump()

	ctx, cancel := context.WithTimeout(context.Background(), levelLoadTimeout)
	session, err := h.sessions.Create(ctx, levelName)
	if err != nil && levelName != "" {
		// fall back to the default level so the client can still play
		conn.SendMessage(levelError(err))
		session, err = h.sessions.Create(ctx, "")
	}
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("failed to create session")
		conn.SendMessage(messages.NewError(messages.ErrCodeInternal, "failed to start a session"))
		conn.Close()
		return
	}

	handler := &ClientHandler{
		conn:     conn,
		sessions: h.sessions,
		session:  session,
		log:      log.With().Str("session", session.ID).Logger(),
	}
	h.clients.AddClient(session.ID, handler)
	handler.log.Info().Msg("client connected")

	handler.send(messages.BaseMessage{
		Type:    messages.MessageTypeSession,
		Payload: messages.SessionMessage{SessionID: session.ID},
	})
	handler.sendState(true)

	conn.ReadPump(handler)

	h.clients.RemoveClient(session.ID)
	h.sessions.Remove(session.ID)
	handler.log.Info().Msg("client disconnected")
}

// HandleMessage dispatches one client message. Gestures are never answered
// with errors; only malformed or unknown messages and unknown levels are.
func (h *ClientHandler) HandleMessage(conn *network.Connection, message []byte) {
	var in messages.IncomingMessage
	if err := json.Unmarshal(message, &in); err != nil {
		h.log.Debug().Err(err).Msg("bad message")
		h.send(messages.NewError(messages.ErrCodeBadMessage, "message is not valid JSON"))
		return
	}

	switch in.Type {
	case messages.MessageTypeDown:
		h.handlePointer(in.Payload, (*engine.Game).Start)
	case messages.MessageTypeMove:
		h.handlePointer(in.Payload, (*engine.Game).Extend)
	case messages.MessageTypeUp:
		h.apply((*engine.Game).End)
	case messages.MessageTypeReset:
		h.apply((*engine.Game).Reset)
	case messages.MessageTypeLoadLevel:
		h.handleLoadLevel(in.Payload)
	default:
		h.log.Debug().Str("type", string(in.Type)).Msg("unknown message type")
		h.send(messages.NewError(messages.ErrCodeUnknownType, "unknown message type received"))
	}
}

// handlePointer forwards a positioned gesture. A null position means the
// pointer is between tiles and the event is dropped.
func (h *ClientHandler) handlePointer(payload json.RawMessage, op func(*engine.Game, models.GridPosition) bool) {
	var pm messages.PointerMessage
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &pm); err != nil {
			h.send(messages.NewError(messages.ErrCodeBadMessage, "invalid pointer payload"))
			return
		}
	}
	if pm.Position == nil {
		return
	}
	pos := *pm.Position
	h.apply(func(g *engine.Game) bool { return op(g, pos) })
}

func (h *ClientHandler) handleLoadLevel(payload json.RawMessage) {
	var lm messages.LoadLevelMessage
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &lm); err != nil {
			h.send(messages.NewError(messages.ErrCodeBadMessage, "invalid load_level payload"))
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), levelLoadTimeout)
	defer cancel()
	level, err := h.sessions.LoadLevel(ctx, h.session, lm.Name)
	if err != nil {
		h.log.Debug().Err(err).Str("level", lm.Name).Msg("load level failed")
		h.send(levelError(err))
		return
	}
	h.log.Info().Str("level", level.Name()).Msg("level loaded")
	h.sendState(true)
}

// apply runs a game mutation and replies with the resulting state
func (h *ClientHandler) apply(op func(*engine.Game) bool) {
	var state messages.StateMessage
	h.session.Do(func(g *engine.Game) {
		changed := op(g)
		state = messages.Snapshot(g, changed)
	})
	h.send(messages.BaseMessage{Type: messages.MessageTypeState, Payload: state})
}

func (h *ClientHandler) sendState(changed bool) {
	var state messages.StateMessage
	h.session.Do(func(g *engine.Game) {
		state = messages.Snapshot(g, changed)
	})
	h.send(messages.BaseMessage{Type: messages.MessageTypeState, Payload: state})
}

func (h *ClientHandler) send(msg messages.BaseMessage) {
	if err := h.conn.SendMessage(msg); err != nil {
		h.log.Warn().Err(err).Str("type", string(msg.Type)).Msg("error sending message")
	}
}

func levelError(err error) messages.BaseMessage {
	if errors.Is(err, persistence.ErrLevelNotFound) {
		return messages.NewError(messages.ErrCodeUnknownLevel, err.Error())
	}
	return messages.NewError(messages.ErrCodeInternal, "failed to load level")
}
