package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/studyassist/backend/internal/events"
	"github.com/studyassist/backend/internal/models"
	"github.com/studyassist/backend/internal/upload"
)

// WebSocket message types for the upload feed. Lifecycle events are sent
// with their event type, e.g. "upload.progress".
const (
	// Client -> Server messages
	MsgTypeUploadAccept = "upload:accept"
	MsgTypeUploadRemove = "upload:remove"
	MsgTypePing         = "ping"

	// Server -> Client messages
	MsgTypeSnapshot = "snapshot"
	MsgTypeAck      = "ack"
	MsgTypeError    = "error"
	MsgTypePong     = "pong"
)

// UploadAcceptPayload carries a batch of descriptors
type UploadAcceptPayload struct {
	Files []models.FileDescriptor `json:"files"`
}

// UploadRemovePayload names the record to remove
type UploadRemovePayload struct {
	ID string `json:"id"`
}

// WSErrorPayload is sent for messages the server could not handle
type WSErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// FeedHandlerImpl serves the upload event feed
type FeedHandlerImpl struct {
	hub      *events.Hub
	uploads  *upload.Manager
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewFeedHandler creates the websocket feed handler
func NewFeedHandler(hub *events.Hub, uploads *upload.Manager, logger *slog.Logger) FeedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedHandlerImpl{
		hub:     hub,
		uploads: uploads,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow connections from dev server
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
		},
		logger: logger.With("component", "ws-feed"),
	}
}

// HandleUploadFeed upgrades the connection, sends the current list and then
// streams every lifecycle event. Clients may also accept and remove files
// over the same socket.
func (h *FeedHandlerImpl) HandleUploadFeed(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := h.hub.Register(ws)
	defer h.hub.Unregister(client)
	client.PrepareRead()

	h.logger.Debug("client connected", "remote", c.RealIP())

	files := h.uploads.List(upload.Filter{})
	client.Send(events.Message{
		Type:    MsgTypeSnapshot,
		Payload: mustJSON(fileListResponse{Files: files, Total: len(files)}),
	})

	for {
		var msg events.Message
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("connection error", "error", err)
			}
			break
		}

		switch msg.Type {
		case MsgTypePing:
			client.Send(events.Message{Type: MsgTypePong, ID: msg.ID})
		case MsgTypeUploadAccept:
			h.handleAccept(client, msg)
		case MsgTypeUploadRemove:
			h.handleRemove(client, msg)
		default:
			sendError(client, msg.ID, "Unknown message type: "+msg.Type, "INVALID_TYPE")
		}
	}

	h.logger.Debug("client disconnected", "remote", c.RealIP())
	return nil
}

func (h *FeedHandlerImpl) handleAccept(client *events.Client, msg events.Message) {
	var payload UploadAcceptPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		sendError(client, msg.ID, "Invalid accept payload: "+err.Error(), "INVALID_PAYLOAD")
		return
	}
	accepted := h.uploads.Accept(payload.Files)
	client.Send(events.Message{
		Type:    MsgTypeAck,
		ID:      msg.ID,
		Payload: mustJSON(fileListResponse{Files: accepted, Total: len(accepted)}),
	})
}

func (h *FeedHandlerImpl) handleRemove(client *events.Client, msg events.Message) {
	var payload UploadRemovePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		sendError(client, msg.ID, "Invalid remove payload: "+err.Error(), "INVALID_PAYLOAD")
		return
	}
	if _, ok := h.uploads.Remove(payload.ID); !ok {
		sendError(client, msg.ID, "file not found: "+payload.ID, "NOT_FOUND")
		return
	}
	client.Send(events.Message{Type: MsgTypeAck, ID: msg.ID})
}

func sendError(client *events.Client, id, message, code string) {
	client.Send(events.Message{
		Type:    MsgTypeError,
		ID:      id,
		Payload: mustJSON(WSErrorPayload{Message: message, Code: code}),
	})
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
