package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
)

// ChannelHeader names the Kafka header that carries the event channel, since
// all channels share one topic.
const ChannelHeader = "event"

// kafkaBatchTimeout bounds how long a synchronous write waits for more
// messages before flushing a partial batch.
const kafkaBatchTimeout = 10 * time.Millisecond

// KafkaPublisher writes every channel to a single topic, with the channel
// carried in the message key and the ChannelHeader header.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           kafkaBatchTimeout,
		WriteTimeout:           10 * time.Second,
		ReadTimeout:            10 * time.Second,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	msg, err := kafkaMessage(ctx, channel, message)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// kafkaMessage keys the message by channel so events of one kind keep their
// relative order within a partition.
func kafkaMessage(ctx context.Context, channel string, message interface{}) (kafka.Message, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to serialize message: %w", err)
	}

	headers := []kafka.Header{{Key: ChannelHeader, Value: []byte(channel)}}
	otel.GetTextMapPropagator().Inject(ctx, &kafkaHeaderCarrier{headers: &headers})

	return kafka.Message{
		Key:     []byte(channel),
		Value:   data,
		Time:    time.Now(),
		Headers: headers,
	}, nil
}

type kafkaHeaderCarrier struct {
	headers *[]kafka.Header
}

func (c *kafkaHeaderCarrier) Get(key string) string {
	for _, h := range *c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *kafkaHeaderCarrier) Set(key, value string) {
	*c.headers = append(*c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *kafkaHeaderCarrier) Keys() []string {
	keys := make([]string, len(*c.headers))
	for i, h := range *c.headers {
		keys[i] = h.Key
	}
	return keys
}
