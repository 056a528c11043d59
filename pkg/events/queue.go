package events

import (
	"sync"
	"time"
)

// Queue 模拟事件队列（FIFO）
//
// Push 可以来自任意 goroutine，Drain 由单一消费者（HostBridge）调用。
// 队列不丢弃事件：奖励事件丢失意味着玩家少拿 DinoPoints。
type Queue struct {
	mu     sync.Mutex
	events []GameEvent
}

// NewQueue 创建空队列
func NewQueue() *Queue {
	return &Queue{}
}

// Push 追加事件，Timestamp 为空时自动填充
func (q *Queue) Push(event GameEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	q.mu.Lock()
	q.events = append(q.events, event)
	q.mu.Unlock()
}

// Drain 按产生顺序取出全部待处理事件，队列为空时返回 nil
func (q *Queue) Drain() []GameEvent {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return nil
	}
	result := q.events
	q.events = nil
	return result
}

// Len 返回待处理事件数量
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
