package queue

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/walink-backend/internal/model"
	"github.com/unclebandit/walink-backend/internal/repository"
)

const persistTimeout = 5 * time.Second

// StartMessageSendSubscriber persists every send-log record published on message_sends.
// Malformed payloads are dropped; storage errors are returned so the queue retries them.
func StartMessageSendSubscriber(q Queue, repo repository.MessageRepositoryInterface, log *zap.Logger) error {
	return q.Subscribe(TopicMessageSends, func(payload any) error {
		var msg model.Message
		if err := Decode(payload, &msg); err != nil || msg.ID == "" {
			log.Warn("⚠️ invalid send-log payload, dropping", zap.Any("payload", payload), zap.Error(err))
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := repo.Create(ctx, &msg); err != nil {
			log.Warn("⚠️ failed to persist send-log", zap.String("message_id", msg.ID), zap.Error(err))
			return err
		}

		log.Debug("📩 send-log persisted",
			zap.String("message_id", msg.ID),
			zap.String("owner_id", msg.OwnerID),
			zap.String("contact_id", msg.ContactID))
		return nil
	})
}
