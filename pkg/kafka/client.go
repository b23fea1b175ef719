// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"abhishek-coaching-go/internal/config"
	"abhishek-coaching-go/pkg/database"
	"abhishek-coaching-go/pkg/log"
	"abhishek-coaching-go/pkg/tasks"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// maxAttempts 是单条消息的最大处理次数，超过后提交 offset 放弃该消息。
const maxAttempts = 3

// EventProcessor 处理一条咨询事件。消费者与具体的处理流程通过它解耦。
type EventProcessor interface {
	Process(ctx context.Context, event tasks.AdmissionEvent) error
}

var producer *kafka.Writer

func brokers(cfg config.KafkaConfig) []string {
	var out []string
	for _, b := range strings.Split(cfg.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// InitProducer 初始化 Kafka 生产者。
func InitProducer(cfg config.KafkaConfig) {
	producer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers(cfg)...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	log.Info("Kafka 生产者初始化成功")
}

// CloseProducer 关闭生产者并刷新缓冲的消息。
func CloseProducer() error {
	if producer == nil {
		return nil
	}
	return producer.Close()
}

// Publisher 把咨询事件写入 Kafka。
type Publisher struct{}

// NewPublisher 返回使用全局生产者的 Publisher，调用前需先 InitProducer。
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishAdmissionEvent 发送一条咨询事件。
func (p *Publisher) PublishAdmissionEvent(ctx context.Context, event tasks.AdmissionEvent) error {
	if producer == nil {
		return errors.New("kafka producer not initialised")
	}
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.PartitionKey()),
		Value: value,
	})
}

// attemptCounter 记录消息失败次数。Redis 可用时跨实例共享，否则只在进程内计数。
type attemptCounter struct {
	mu    sync.Mutex
	local map[string]int64
}

func (c *attemptCounter) incr(ctx context.Context, key string) (int64, error) {
	if database.RDB != nil {
		attempts, err := database.RDB.Incr(ctx, key).Result()
		if err != nil {
			return 0, err
		}
		_ = database.RDB.Expire(ctx, key, 24*time.Hour).Err()
		return attempts, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.local[key]++
	return c.local[key], nil
}

func (c *attemptCounter) reset(ctx context.Context, key string) {
	if database.RDB != nil {
		_ = database.RDB.Del(ctx, key).Err()
		return
	}
	c.mu.Lock()
	delete(c.local, key)
	c.mu.Unlock()
}

// StartConsumer 启动消费者处理咨询事件，阻塞直到 ctx 结束或读取失败。
func StartConsumer(ctx context.Context, cfg config.KafkaConfig, processor EventProcessor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers(cfg),
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	defer func() {
		if err := r.Close(); err != nil {
			log.Error("关闭 Kafka 消费者失败", err)
		}
	}()

	counter := &attemptCounter{local: make(map[string]int64)}
	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("Kafka 消费者已停止")
				return
			}
			log.Error("从 Kafka 读取消息失败", err)
			return
		}

		var event tasks.AdmissionEvent
		if err := json.Unmarshal(m.Value, &event); err != nil {
			log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(m.Value))
			// 消息格式错误，直接提交，避免阻塞队列
			commit(ctx, r, m)
			continue
		}

		handle(ctx, r, m, event, processor, counter)
	}
}

// handle 处理单条事件。失败时原地重试，累计 maxAttempts 次后提交 offset 放弃，
// 避免一条坏消息阻塞整个分区。
func handle(ctx context.Context, r *kafka.Reader, m kafka.Message, event tasks.AdmissionEvent, processor EventProcessor, counter *attemptCounter) {
	attemptsKey := fmt.Sprintf("kafka:attempts:%s", event.DedupKey())
	for {
		err := processor.Process(ctx, event)
		if err == nil {
			log.Infow("咨询事件处理成功", "id", event.Admission.ID, "type", event.Type, "offset", m.Offset)
			counter.reset(ctx, attemptsKey)
			commit(ctx, r, m)
			return
		}
		log.Errorf("处理咨询事件失败: id=%d type=%s, error: %v", event.Admission.ID, event.Type, err)

		attempts, incErr := counter.incr(ctx, attemptsKey)
		if incErr != nil {
			log.Error("记录 Kafka 消息失败次数出错", incErr)
			attempts = maxAttempts
		}
		if attempts >= maxAttempts {
			log.Errorf("咨询事件多次失败(>=%d)，提交 offset 终止重试: id=%d", maxAttempts, event.Admission.ID)
			counter.reset(ctx, attemptsKey)
			commit(ctx, r, m)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempts) * time.Second):
		}
	}
}

func commit(ctx context.Context, r *kafka.Reader, m kafka.Message) {
	if err := r.CommitMessages(ctx, m); err != nil {
		log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
	}
}
