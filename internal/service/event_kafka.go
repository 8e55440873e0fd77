package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"gameshop_v1_202608/internal/model"
)

// ==================== KafkaPublisher ====================

// KafkaPublisher 基于 Kafka 的事件投递实现
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher 创建 Kafka 投递器
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &KafkaPublisher{producer: producer, topic: topic}, nil
}

// Publish 投递单条事件。以 EventID 为消息 key，同一事件重放时落在
// 同一分区，消费端按 key 去重
func (p *KafkaPublisher) Publish(ctx context.Context, event *model.EventOutbox) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventID, err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.EventID),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("send event %s: %w", event.EventID, err)
	}
	return nil
}

// Close 关闭底层生产者
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
