package handler

import (
	"context"

	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/model"
)

type recordPayment func(ctx context.Context, req model.PaymentRequest) (model.Payment, error)

// Consumer ingests payment-gateway relay messages. Inserts are idempotent by
// orderId, so at-least-once delivery is safe to replay.
type Consumer struct {
	recordPaymentHandler recordPayment
	log                  *zap.Logger
}

func NewConsumer(recordPayment recordPayment, log *zap.Logger) *Consumer {
	return &Consumer{
		recordPaymentHandler: recordPayment,
		log:                  log.Named("consumer"),
	}
}

// Setup runs at the start of every session. Rebalances re-enter it on the
// same instance, so it must hold no one-shot state.
func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var msg model.PaymentMsg
			if err := json.Unmarshal(message.Value, &msg); err != nil {
				consumer.log.Error("", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			req := model.PaymentRequest{
				OrderID:     msg.OrderID,
				ProfessorID: msg.ProfessorID,
				MemberID:    msg.MemberID,
				Amount:      msg.Amount,
				Status:      msg.Status,
				PaymentID:   msg.PaymentID,
			}
			if _, err := consumer.recordPaymentHandler(context.Background(), req); err != nil {
				consumer.log.Error("consumer.recordPaymentHandler", zap.Error(err))
				continue
			}

			consumer.log.Debug("Message claimed:", zap.String("value", string(message.Value)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
