package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
)

// EventRouter delivers an event to every live connection of a recipient,
// best effort. The hub implements it; tests substitute a recorder.
type EventRouter interface {
	Deliver(recipient int, event models.ServerEvent)
}

// MediaRef points at an already-uploaded attachment.
type MediaRef struct {
	URL          string
	Type         string
	ThumbnailURL string
}

// MessageService is the message ingest pipeline: validate, persist, then
// hand off to the router for live delivery.
type MessageService struct {
	messages repositories.MessageRepository
	router   EventRouter
}

// NewMessageService constructs a MessageService.
func NewMessageService(messages repositories.MessageRepository, router EventRouter) *MessageService {
	return &MessageService{messages: messages, router: router}
}

// Send persists a direct message and pushes it to the receiver's live
// connections. The stored message is returned to the caller for the
// sender-side ack whether or not live delivery happened; a delivery
// failure never surfaces here.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID int, content string, media *MediaRef) (models.Message, error) {
	if receiverID <= 0 || receiverID == senderID {
		return models.Message{}, ErrInvalidPayload
	}
	if content == "" && (media == nil || media.URL == "") {
		return models.Message{}, ErrInvalidPayload
	}

	msg := models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if media != nil && media.URL != "" {
		msg.MediaURL = &media.URL
		if media.Type != "" {
			msg.MediaType = &media.Type
		}
		if media.ThumbnailURL != "" {
			msg.ThumbnailURL = &media.ThumbnailURL
		}
	}

	stored, err := s.messages.CreateMessage(ctx, msg)
	if err != nil {
		return models.Message{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	log.WithFields(log.Fields{
		"message_id": stored.ID,
		"sender":     stored.SenderID,
		"receiver":   stored.ReceiverID,
		"media":      stored.HasMedia(),
	}).Debug("message stored")

	s.router.Deliver(receiverID, models.MessageEvent(stored))
	return stored, nil
}

// History returns a page of the conversation between two users together
// with the pagination envelope.
func (s *MessageService) History(ctx context.Context, userID, otherID, page, limit int) ([]models.Message, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	msgs, err := s.messages.FindBetween(ctx, userID, otherID, page, limit)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	total, err := s.messages.CountBetween(ctx, userID, otherID)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return msgs, models.NewPagination(page, limit, total), nil
}
