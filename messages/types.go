package messages

import (
	"encoding/json"

	"numbertrail/server/models"
)

// MessageType defines the type of message being sent
type MessageType string

const (
	// client -> server
	MessageTypeLoadLevel MessageType = "load_level"
	MessageTypeDown      MessageType = "down"
	MessageTypeMove      MessageType = "move"
	MessageTypeUp        MessageType = "up"
	MessageTypeReset     MessageType = "reset"

	// server -> client
	MessageTypeSession MessageType = "session"
	MessageTypeState   MessageType = "state"
	MessageTypeError   MessageType = "error"
)

// BaseMessage is the envelope for every outgoing message
type BaseMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// IncomingMessage is the envelope for client messages; the payload is
// decoded once the type is known
type IncomingMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// LoadLevelMessage asks for a level by name; empty means the default level
type LoadLevelMessage struct {
	Name string `json:"name"`
}

// PointerMessage carries the grid cell under the pointer. Position is nil
// when the pointer is outside every tile.
type PointerMessage struct {
	Position *models.GridPosition `json:"position"`
}

// SessionMessage tells the client its session ID
type SessionMessage struct {
	SessionID string `json:"session_id"`
}

// TileView is the render-relevant state of one grid cell
type TileView struct {
	Row           int             `json:"row"`
	Col           int             `json:"col"`
	Type          models.TileType `json:"type"`
	TargetNumber  *int            `json:"target_number,omitempty"`
	Modifier      string          `json:"modifier,omitempty"`
	ModifierValue *int            `json:"modifier_value,omitempty"`
	InPath        bool            `json:"in_path"`
	Number        *int            `json:"number,omitempty"`
	TargetMet     bool            `json:"target_met,omitempty"`
}

// StateMessage is a full snapshot of a session after an event
type StateMessage struct {
	Changed  bool                  `json:"changed"`
	Level    string                `json:"level"`
	GridSize int                   `json:"grid_size"`
	Path     []models.GridPosition `json:"path"`
	Values   []int                 `json:"values"`
	Dragging bool                  `json:"dragging"`
	Complete bool                  `json:"complete"`
	Tiles    []TileView            `json:"tiles"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	ErrCodeBadMessage   = "BAD_MESSAGE"
	ErrCodeUnknownType  = "UNKNOWN_MESSAGE_TYPE"
	ErrCodeUnknownLevel = "UNKNOWN_LEVEL"
	ErrCodeInternal     = "INTERNAL"
	ErrCodeShutdown     = "SHUTDOWN"
)

// NewError wraps an ErrorMessage in an envelope
func NewError(code, message string) BaseMessage {
	return BaseMessage{
		Type:    MessageTypeError,
		Payload: ErrorMessage{Code: code, Message: message},
	}
}
