// Package tasks defines the messages that are sent to Kafka.
package tasks

import (
	"abhishek-coaching-go/internal/model"
	"fmt"
	"strconv"
	"time"
)

// AdmissionEventType 标识咨询记录上发生的变化。
type AdmissionEventType string

const (
	EventAdmissionSubmitted     AdmissionEventType = "admission.submitted"
	EventAdmissionStatusChanged AdmissionEventType = "admission.status_changed"
)

// AdmissionEvent 携带变化后的完整记录快照，消费者无需回查数据库。
type AdmissionEvent struct {
	Type       AdmissionEventType       `json:"type"`
	Admission  model.AdmissionSearchDoc `json:"admission"`
	OccurredAt time.Time                `json:"occurred_at"`
}

// NewAdmissionEvent 由数据库记录构造事件。
func NewAdmissionEvent(eventType AdmissionEventType, admission *model.Admission) AdmissionEvent {
	return AdmissionEvent{
		Type:       eventType,
		Admission:  model.NewAdmissionSearchDoc(admission),
		OccurredAt: time.Now(),
	}
}

// PartitionKey 保证同一条记录的事件进入同一分区，从而保持顺序。
func (e AdmissionEvent) PartitionKey() string {
	return strconv.FormatUint(uint64(e.Admission.ID), 10)
}

// DedupKey 唯一标识一次事件，用于失败重试计数。
func (e AdmissionEvent) DedupKey() string {
	return fmt.Sprintf("%d:%s:%d", e.Admission.ID, e.Type, e.OccurredAt.UnixNano())
}
