// Package pipeline 定义了咨询事件的异步处理流程。
package pipeline

import (
	"abhishek-coaching-go/internal/model"
	"abhishek-coaching-go/pkg/log"
	"abhishek-coaching-go/pkg/tasks"
	"context"
	"fmt"
	"sync"
	"time"
)

// AdmissionIndexer 把咨询记录写入搜索索引。
type AdmissionIndexer interface {
	IndexAdmission(ctx context.Context, doc model.AdmissionSearchDoc) error
}

// Processor 消费咨询事件，把记录快照同步到搜索索引。
type Processor struct {
	indexer AdmissionIndexer
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(indexer AdmissionIndexer) *Processor {
	return &Processor{indexer: indexer}
}

// Process 处理一条咨询事件。提交和状态变更都携带完整快照，所以统一按覆盖写入处理。
func (p *Processor) Process(ctx context.Context, event tasks.AdmissionEvent) error {
	switch event.Type {
	case tasks.EventAdmissionSubmitted, tasks.EventAdmissionStatusChanged:
	default:
		log.Warnf("[Processor] 忽略未知事件类型: %s", event.Type)
		return nil
	}
	if event.Admission.ID == 0 {
		return fmt.Errorf("event %s has no admission id", event.Type)
	}

	log.Infof("[Processor] 同步咨询记录到索引, id: %d, type: %s, status: %s", event.Admission.ID, event.Type, event.Admission.Status)
	if err := p.indexer.IndexAdmission(ctx, event.Admission); err != nil {
		return fmt.Errorf("索引咨询记录失败: %w", err)
	}
	return nil
}

// inlineQueueSize 是进程内事件队列的容量。
const inlineQueueSize = 256

// InlinePublisher 在未启用 Kafka 时直接在进程内调用 Processor。
// 事件经由单个后台 goroutine 按发布顺序处理，同一条记录的多次变更不会乱序写入索引。
type InlinePublisher struct {
	processor *Processor
	timeout   time.Duration
	queue     chan tasks.AdmissionEvent
	done      chan struct{}
	closeOnce sync.Once
}

// NewInlinePublisher 创建进程内发布器并启动后台处理 goroutine。
func NewInlinePublisher(processor *Processor) *InlinePublisher {
	p := &InlinePublisher{
		processor: processor,
		timeout:   5 * time.Second,
		queue:     make(chan tasks.AdmissionEvent, inlineQueueSize),
		done:      make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *InlinePublisher) run() {
	defer close(p.done)
	for event := range p.queue {
		// 使用独立的 context，请求结束不会中断索引写入
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.processor.Process(ctx, event); err != nil {
			log.Errorf("[InlinePublisher] 处理咨询事件失败: id=%d, error: %v", event.Admission.ID, err)
		}
		cancel()
	}
}

// PublishAdmissionEvent 把事件放入队列，不等待处理完成。
// 队列已满时等待，直到 ctx 结束。
func (p *InlinePublisher) PublishAdmissionEvent(ctx context.Context, event tasks.AdmissionEvent) error {
	select {
	case p.queue <- event:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("inline event queue is full: %w", ctx.Err())
	}
}

// Close 停止接收事件，并等待队列中已有的事件处理完毕。
// Close 之后不能再调用 PublishAdmissionEvent。
func (p *InlinePublisher) Close() {
	p.closeOnce.Do(func() { close(p.queue) })
	<-p.done
}
