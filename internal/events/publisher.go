package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Leganyst/consultation-platform/internal/config"
	"github.com/Leganyst/consultation-platform/internal/model"
)

// Подмножество kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher публикует доменные события консультаций.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(cfg config.KafkaConfig, log *zap.Logger) (*KafkaPublisher, error) {
	if !cfg.Enabled() {
		return nil, errors.New("at least one kafka broker is required")
	}
	if cfg.ConsultationTopic == "" {
		return nil, errors.New("kafka topic cannot be empty")
	}

	errLog := log.Named("kafka").Sugar()
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.ConsultationTopic,
		Balancer:     &kafka.Hash{}, // порядок событий одной консультации сохраняется
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		ErrorLogger:  kafka.LoggerFunc(errLog.Errorf),
	}

	return &KafkaPublisher{writer: writer}, nil
}

func (p *KafkaPublisher) PublishConsultationAccepted(ctx context.Context, a *model.AcceptedConsultation) error {
	msg, err := consultationAcceptedMessage(a)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", EventConsultationAccepted, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func consultationAcceptedMessage(a *model.AcceptedConsultation) (kafka.Message, error) {
	value, err := json.Marshal(NewConsultationAccepted(a))
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s: %w", EventConsultationAccepted, err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(a.ConsultationID, 10)),
		Value: value,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(EventConsultationAccepted)},
		},
	}, nil
}
