package kafka

import (
	"Bandwall/internal/api/config"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventProducerPublish(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"postId":"p1"}` {
			return errors.New("unexpected payload " + string(val))
		}
		return nil
	})

	p := NewEventProducerWith(mock, "events")
	require.NoError(t, p.Publish(context.Background(), "PostCreated", "p1", []byte(`{"postId":"p1"}`)))
	require.NoError(t, p.Close())
}

func TestEventProducerPublishFailure(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewEventProducerWith(mock, "events")
	err := p.Publish(context.Background(), "CommentAdded", "p1", []byte(`{}`))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

// blockingProducer 模拟无响应的 broker
type blockingProducer struct {
	sarama.SyncProducer
	release chan struct{}
}

func (b *blockingProducer) SendMessage(*sarama.ProducerMessage) (int32, int64, error) {
	<-b.release
	return 0, 0, nil
}

func TestEventProducerPublishHonorsContext(t *testing.T) {
	bp := &blockingProducer{release: make(chan struct{})}
	defer close(bp.release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := NewEventProducerWith(bp, "events").Publish(ctx, "PostCreated", "p1", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewSaramaConfig(t *testing.T) {
	cfg := newSaramaConfig(config.KafkaConfig{
		ClientID: "bandwall",
		Sasl:     config.SaslConfig{Enable: true, Username: "u", Password: "p"},
		Producer: config.ProducerConfig{Timeout: 3, RetryMax: 7, DialTimeout: 4},
	})
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Producer.Return.Successes)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.Equal(t, 7, cfg.Producer.Retry.Max)
	assert.Equal(t, 3*time.Second, cfg.Producer.Timeout)
	assert.Equal(t, 4*time.Second, cfg.Net.DialTimeout)
	assert.Equal(t, "u", cfg.Net.SASL.User)

	_, err := NewEventProducer(config.KafkaConfig{Brokers: []string{"localhost:9092"}})
	assert.ErrorIs(t, err, ErrNoTopic)
}
