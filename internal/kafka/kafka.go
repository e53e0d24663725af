package kafka

import (
	"context"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/mata-elang-stable/flowlog-report/internal/logger"
	"github.com/mata-elang-stable/flowlog-report/internal/schema"
)

var log = logger.GetLogger()

// Producer publishes run summaries to a Kafka topic.
type Producer struct {
	p      *kafka.Producer
	topic  string
	format string
}

func NewProducer(brokers, topic, format string) (*Producer, error) {
	switch format {
	case schema.FormatJSON, schema.FormatProtobuf:
	default:
		return nil, fmt.Errorf("unknown kafka value format %q", format)
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":        brokers,
		"acks":                     "all",
		"socket.keepalive.enable":  true,
		"retry.backoff.ms":         100,
		"enable.idempotence":       true,
		"message.send.max.retries": 10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case kafka.Error:
				log.WithField("error", ev).Warnln("Kafka producer error.")
			default:
				log.Tracef("Ignored event: %s", ev)
			}
		}
	}()

	log.WithFields(logger.Fields{
		"brokers": brokers,
		"topic":   topic,
	}).Debugln("Created Kafka producer.")

	return &Producer{
		p:      p,
		topic:  topic,
		format: format,
	}, nil
}

func (p *Producer) Name() string {
	return "kafka " + p.topic
}

// NewMessage builds the Kafka message carrying summary. The flow log path is
// used as the message key.
func NewMessage(topic, format string, summary *schema.Summary) (*kafka.Message, error) {
	value, err := summary.Encode(format)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize summary: %w", err)
	}

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(summary.FlowLogFile),
		Value:          value,
		Headers: []kafka.Header{
			{Key: "content-format", Value: []byte(format)},
		},
	}, nil
}

// Publish produces the summary and waits for its delivery report.
func (p *Producer) Publish(ctx context.Context, summary *schema.Summary) error {
	msg, err := NewMessage(p.topic, p.format, summary)
	if err != nil {
		return err
	}

	deliveryChan := make(chan kafka.Event, 1)
	if err := p.p.Produce(msg, deliveryChan); err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	select {
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event: %v", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
		}
		log.WithField("partition", m.TopicPartition).Debugln("Delivered summary.")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Producer) Close() {
	p.p.Flush(15 * 1000)
	p.p.Close()
}
