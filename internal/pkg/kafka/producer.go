package kafka

import (
	"Bandwall/internal/api/config"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
)

const headerEventType = "event_type"

var ErrNoTopic = errors.New("kafka events topic is not configured")

// EventProducer 将领域事件写入事件主题，消息键为帖子 ID
type EventProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEventProducer(cfg config.KafkaConfig) (*EventProducer, error) {
	if cfg.Topics.Events == "" {
		return nil, ErrNoTopic
	}
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, err
	}
	return NewEventProducerWith(producer, cfg.Topics.Events), nil
}

// NewEventProducerWith 使用已有的 SyncProducer 构造
func NewEventProducerWith(producer sarama.SyncProducer, topic string) *EventProducer {
	return &EventProducer{producer: producer, topic: topic}
}

// Publish 同步发送，ctx 结束时立即返回，发送结果交由后台协程收尾
func (p *EventProducer) Publish(ctx context.Context, eventType, key string, payload []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerEventType), Value: []byte(eventType)},
		},
	}

	done := make(chan error, 1)
	go func() {
		partition, offset, err := p.producer.SendMessage(msg)
		if err == nil {
			log.DebugContext(ctx, "event published", "event", eventType, "key", key, "partition", partition, "offset", offset)
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *EventProducer) Close() error {
	return p.producer.Close()
}
