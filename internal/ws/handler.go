package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"messenger-service/internal/auth"
	"messenger-service/internal/models"
	"messenger-service/internal/observability"
	"messenger-service/internal/service"
)

// Handler accepts websocket connections, authenticates them once at the
// handshake and feeds inbound events into the pipelines.
type Handler struct {
	hub           *Hub
	tokens        *auth.TokenService
	messages      *service.MessageService
	relationships *service.RelationshipService
}

// NewHandler constructs a Handler.
func NewHandler(hub *Hub, tokens *auth.TokenService, messages *service.MessageService, relationships *service.RelationshipService) *Handler {
	return &Handler{hub: hub, tokens: tokens, messages: messages, relationships: relationships}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and registers the client. The token may
// arrive as a bearer header or as a ?token= query parameter; a missing or
// invalid token terminates the connection before any event is exchanged.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("messenger-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := bearerToken(c)
	userID, err := h.tokens.Validate(token)
	if err != nil {
		status := http.StatusUnauthorized
		msg := "invalid token"
		if errors.Is(err, auth.ErrMissingToken) {
			msg = "missing token"
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(conn, userID)
	client.DeviceID = observability.DeviceIDFromRequest(c.Request)
	client.IP = observability.IPFromRequest(c.Request)
	client.RequestID = observability.RequestIDFromRequest(c.Request)
	client.TraceID = span.SpanContext().TraceID().String()

	h.hub.Join(client)
	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	h.publishLifecycleEvent(client, "ws_connect", "")

	log.WithFields(log.Fields{"user": userID, "conn_id": client.ConnID, "ip": client.IP}).
		Info("websocket connected")

	go h.readLoop(client)
}

// readLoop processes one connection's events in arrival order. The
// deferred cleanup runs on every exit path, so a connection can never
// stay registered after its loop ends.
func (h *Handler) readLoop(client *Client) {
	var closeReason string
	defer func() {
		h.hub.Leave(client)
		client.Close()
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		h.publishLifecycleEvent(client, "ws_disconnect", closeReason)
		log.WithFields(log.Fields{
			"user":     client.UserID,
			"conn_id":  client.ConnID,
			"duration": time.Since(client.ConnectedAt).String(),
		}).Info("websocket disconnected")
	}()

	for {
		_, payload, err := client.conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
			}
			return
		}

		var event models.ClientEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			client.Send(models.ErrorEvent("malformed event"))
			continue
		}
		h.dispatch(client, event)
	}
}

// dispatch routes one inbound event. Errors are reported back on the same
// connection and never affect other connections.
func (h *Handler) dispatch(client *Client, event models.ClientEvent) {
	ctx := context.Background()

	switch event.Type {
	case models.EventSendMessage:
		var media *service.MediaRef
		if event.MediaURL != "" {
			media = &service.MediaRef{URL: event.MediaURL, Type: event.MediaType, ThumbnailURL: event.ThumbnailURL}
		}
		msg, err := h.messages.Send(ctx, client.UserID, event.ReceiverID, event.Content, media)
		if err != nil {
			client.Send(models.ErrorEvent(clientError(err)))
			return
		}
		client.Send(models.MessageSentEvent(msg))

	case models.EventSendFriendRequest:
		if err := h.relationships.Request(ctx, client.UserID, event.ReceiverID); err != nil {
			client.Send(models.ErrorEvent(clientError(err)))
		}

	case models.EventAcceptFriendRequest:
		if err := h.relationships.Accept(ctx, client.UserID, event.RequestID); err != nil {
			client.Send(models.ErrorEvent(clientError(err)))
		}

	case models.EventDeclineFriendRequest:
		if err := h.relationships.Decline(ctx, client.UserID, event.RequestID); err != nil {
			client.Send(models.ErrorEvent(clientError(err)))
		}

	default:
		client.Send(models.ErrorEvent("unknown event type"))
	}
}

// clientError maps pipeline errors onto messages safe to echo back.
func clientError(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidPayload):
		return "invalid payload"
	case errors.Is(err, service.ErrStorageFailure):
		return "failed to store message"
	case errors.Is(err, service.ErrAlreadyPending):
		return "friend request already sent"
	case errors.Is(err, service.ErrAlreadyContacts):
		return "already contacts"
	case errors.Is(err, service.ErrSelfRequest):
		return "cannot send a friend request to yourself"
	case errors.Is(err, service.ErrUnknownUser):
		return "user not found"
	case errors.Is(err, service.ErrNoSuchRequest):
		return "no such friend request"
	default:
		return "internal error"
	}
}

func (h *Handler) publishLifecycleEvent(client *Client, name, reason string) {
	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"event":       name,
			"conn_id":     client.ConnID,
			"duration_ms": time.Since(client.ConnectedAt).Milliseconds(),
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":   client.UserID,
			"device_id": client.DeviceID,
			"ip":        client.IP,
		},
	}

	headers := observability.BuildHeaders(client.RequestID, client.TraceID)
	_ = observability.PublishEvent(context.Background(), "ws_events.direct", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: name,
		Payload:   payload,
	}, headers)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}
