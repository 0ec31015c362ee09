package service

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"

	"github.com/Astemirdum/bookloan-service/internal/model"
)

// Publisher pushes lifecycle events onto the broker for the stats pipeline.
type Publisher interface {
	Enqueue(topic string, v any) error
}

func NewPublisher(producer sarama.SyncProducer) Publisher {
	return &publisherImpl{
		producer: producer,
	}
}

type publisherImpl struct {
	producer sarama.SyncProducer
}

func (p *publisherImpl) Enqueue(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: topic, Value: sarama.StringEncoder(data)}
	if _, _, err = p.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}

// DecisionNotifier delivers approve/reject outcomes to the host application.
type DecisionNotifier interface {
	LoanDecision(ctx context.Context, event model.LoanEvent)
}
