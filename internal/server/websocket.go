package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cyberzid/feed/internal/broadcast"
	"github.com/cyberzid/feed/internal/handler"
	"github.com/cyberzid/feed/internal/ierr"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait    = 10 * time.Second
	maxFrameSize = 4096
)

// WebSocketServer is the channel lifecycle manager: it registers a connection
// on accept, routes its inbound frames, and unregisters it when the transport
// reports close or error.
type WebSocketServer struct {
	logger   *zap.Logger
	upgrader *websocket.Upgrader
	registry *broadcast.Registry

	sendMessageHandler *handler.SendMessageHandler
}

func NewWebSocketServer(
	logger *zap.Logger,
	upgrader *websocket.Upgrader,
	registry *broadcast.Registry,
	sendMessageHandler *handler.SendMessageHandler,
) *WebSocketServer {
	return &WebSocketServer{
		logger,
		upgrader,
		registry,
		sendMessageHandler,
	}
}

func (s *WebSocketServer) Register(router *mux.Router) {
	router.HandleFunc("/ws", s.serve)
}

func (s *WebSocketServer) serve(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))

		return
	}

	connection := s.registry.Register()
	s.logger.Info("client connected", zap.String("connectionId", connection.Id))

	go s.writePump(wsConn, connection)
	s.readPump(r.Context(), wsConn, connection)
}

func (s *WebSocketServer) readPump(ctx context.Context, wsConn *websocket.Conn, connection *broadcast.Connection) {
	defer func() {
		s.registry.Unregister(connection.Id)
		wsConn.Close()
		s.logger.Info("client disconnected", zap.String("connectionId", connection.Id))
	}()

	wsConn.SetReadLimit(maxFrameSize)

	for {
		_, raw, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				s.logger.Warn("websocket read failed",
					zap.String("connectionId", connection.Id),
					zap.Error(err))
			}

			return
		}

		s.routeFrame(ctx, connection, raw)
	}
}

type inboundFrame struct {
	Type string `json:"type"`
}

type handshakeFrame struct {
	UserId   int    `json:"userId"`
	Username string `json:"username"`
}

// routeFrame dispatches one inbound frame. Malformed payloads are logged and
// dropped; the peer never sees an error and the connection stays up.
func (s *WebSocketServer) routeFrame(ctx context.Context, connection *broadcast.Connection, raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.logMalformed(connection, err)

		return
	}

	switch frame.Type {
	case "auth":
		var handshake handshakeFrame
		if err := json.Unmarshal(raw, &handshake); err != nil {
			s.logMalformed(connection, err)

			return
		}

		identity := broadcast.Identity{UserId: handshake.UserId, Username: handshake.Username}
		if err := s.registry.Bind(connection.Id, identity); err != nil {
			s.logger.Warn("handshake on stale connection",
				zap.String("connectionId", connection.Id),
				zap.Error(err))

			return
		}

		s.logger.Info("client authenticated",
			zap.String("connectionId", connection.Id),
			zap.String("username", handshake.Username))
	case "message":
		var req handler.SendMessageRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			s.logMalformed(connection, err)

			return
		}

		if _, bound := connection.Identity(); !bound {
			s.logger.Debug("message frame from unauthenticated connection",
				zap.String("connectionId", connection.Id))
		}

		if _, err := s.sendMessageHandler.Handle(ctx, req); err != nil {
			s.logger.Error("failed to handle message frame",
				zap.String("connectionId", connection.Id),
				zap.Error(err))
		}
	default:
		s.logger.Warn("ignoring frame with unknown type",
			zap.String("connectionId", connection.Id),
			zap.String("type", frame.Type))
	}
}

func (s *WebSocketServer) logMalformed(connection *broadcast.Connection, cause error) {
	s.logger.Warn("ignoring malformed frame",
		zap.String("connectionId", connection.Id),
		zap.Error(ierr.New(ierr.ErrorCodeMalformedMessage, cause)))
}

// writePump is the only writer on the underlying transport. It drains the
// connection's send queue until either a write fails or the registry closes
// the connection's done latch.
func (s *WebSocketServer) writePump(wsConn *websocket.Conn, connection *broadcast.Connection) {
	for {
		select {
		case payload := <-connection.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.logger.Warn("websocket write failed",
					zap.String("connectionId", connection.Id),
					zap.Error(err))
				// Closing the transport unblocks the read pump, which owns
				// the unregister.
				wsConn.Close()

				return
			}
		case <-connection.Done():
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			wsConn.WriteMessage(websocket.CloseMessage, []byte{})

			return
		}
	}
}
