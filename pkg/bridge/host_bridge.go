package bridge

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dinoadopta/dinoflap/pkg/events"
	"github.com/dinoadopta/dinoflap/pkg/ports"
)

// DefaultSubmitTimeout 单次外部调用的超时时间
const DefaultSubmitTimeout = 5 * time.Second

// Notifier 展示层订阅者
//
// 在调用 Pump 的 goroutine 上同步回调，实现不应阻塞。
type Notifier interface {
	OnEvent(event events.GameEvent)
}

// NotifierFunc 函数适配器
type NotifierFunc func(event events.GameEvent)

// OnEvent 实现 Notifier
func (f NotifierFunc) OnEvent(event events.GameEvent) { f(event) }

// AckKind 确认消息类型
type AckKind int

const (
	// AckReward 积分已入账
	AckReward AckKind = iota
	// AckRunResult 成绩已记录
	AckRunResult
	// AckNewRecord 新纪录（庆祝提示）
	AckNewRecord
)

// Acknowledgment 外部调用成功后的短暂提示
type Acknowledgment struct {
	Kind      AckKind
	Message   string
	Points    int // AckReward
	Score     int // AckRunResult / AckNewRecord
	BestScore int // AckRunResult / AckNewRecord
	At        time.Time
}

// Stats 外部调用统计
type Stats struct {
	RewardsSubmitted int64
	RewardsFailed    int64
	RunsSubmitted    int64
	RunsFailed       int64
	Discarded        int64 // 销毁后才返回、被丢弃的结果
}

// HostBridge 把模拟事件翻译为对外部协作者的调用
//
// 外部调用对模拟而言是 fire-and-forget：每个事件只尝试一次、带超时、不重试，
// 失败只记录日志。HostBridge 从不修改模拟状态，只读取事件。
// Close 之后到达的结果被丢弃，不会再产生确认消息。
type HostBridge struct {
	rewards  ports.RewardSink
	scores   ports.ScoreSink
	notifier Notifier
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	acks   []Acknowledgment
	closed bool

	rewardsSubmitted atomic.Int64
	rewardsFailed    atomic.Int64
	runsSubmitted    atomic.Int64
	runsFailed       atomic.Int64
	discarded        atomic.Int64
}

// Option 构造选项
type Option func(*HostBridge)

// WithNotifier 设置展示层订阅者
func WithNotifier(n Notifier) Option {
	return func(b *HostBridge) { b.notifier = n }
}

// WithTimeout 设置单次外部调用超时
func WithTimeout(d time.Duration) Option {
	return func(b *HostBridge) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// New 创建 HostBridge
//
// 参数:
//   - rewards: 积分账户，nil 表示离线（奖励只在本地显示）
//   - scores: 成绩记录，nil 表示不提交成绩
func New(rewards ports.RewardSink, scores ports.ScoreSink, opts ...Option) *HostBridge {
	ctx, cancel := context.WithCancel(context.Background())
	b := &HostBridge{
		rewards: rewards,
		scores:  scores,
		timeout: DefaultSubmitTimeout,
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Pump 取出队列中的全部事件并逐个分发，返回分发数量
func (b *HostBridge) Pump(queue *events.Queue) int {
	if b.isClosed() {
		return 0
	}
	pending := queue.Drain()
	for _, ev := range pending {
		b.Dispatch(ev)
	}
	return len(pending)
}

// Dispatch 分发单个事件
//
//   - 所有事件都转发给 Notifier
//   - rewardEarned: 异步调用 RewardSink.SubmitReward
//   - over: 异步调用 ScoreSink.SubmitRunResult
func (b *HostBridge) Dispatch(ev events.GameEvent) {
	if b.isClosed() {
		return
	}

	if b.notifier != nil {
		b.notifier.OnEvent(ev)
	}

	switch ev.Type {
	case events.EventRewardEarned:
		payload, ok := ev.Payload.(events.RewardEarnedPayload)
		if !ok {
			log.Printf("[HostBridge] rewardEarned with unexpected payload %T", ev.Payload)
			return
		}
		b.submitReward(payload)
	case events.EventOver:
		payload, ok := ev.Payload.(events.OverPayload)
		if !ok {
			log.Printf("[HostBridge] over with unexpected payload %T", ev.Payload)
			return
		}
		b.submitRun(payload)
	}
}

func (b *HostBridge) submitReward(payload events.RewardEarnedPayload) {
	if b.rewards == nil {
		return
	}
	b.goAsync(func(ctx context.Context) {
		err := b.rewards.SubmitReward(ctx, payload.Points)
		if err != nil {
			b.rewardsFailed.Add(1)
			log.Printf("[HostBridge] SubmitReward(%d) failed: %v", payload.Points, err)
			return
		}
		b.rewardsSubmitted.Add(1)
		b.acknowledge(Acknowledgment{
			Kind:    AckReward,
			Message: fmt.Sprintf("+%d DinoPoints!", payload.Points),
			Points:  payload.Points,
			Score:   payload.Score,
		})
	})
}

func (b *HostBridge) submitRun(payload events.OverPayload) {
	if b.scores == nil {
		return
	}
	b.goAsync(func(ctx context.Context) {
		result, err := b.scores.SubmitRunResult(ctx, payload.FinalScore)
		if err != nil {
			b.runsFailed.Add(1)
			log.Printf("[HostBridge] SubmitRunResult(%d) failed: %v", payload.FinalScore, err)
			return
		}
		b.runsSubmitted.Add(1)

		ack := Acknowledgment{
			Kind:      AckRunResult,
			Message:   fmt.Sprintf("Score %d saved (best %d)", payload.FinalScore, result.BestScore),
			Score:     payload.FinalScore,
			BestScore: result.BestScore,
		}
		if result.IsNewRecord {
			ack.Kind = AckNewRecord
			ack.Message = fmt.Sprintf("New record: %d!", payload.FinalScore)
		}
		b.acknowledge(ack)
	})
}

// goAsync 在独立 goroutine 上执行一次外部调用
func (b *HostBridge) goAsync(call func(ctx context.Context)) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(b.ctx, b.timeout)
		defer cancel()
		call(ctx)
	}()
}

// acknowledge 记录确认消息；销毁后到达的结果被丢弃
func (b *HostBridge) acknowledge(ack Acknowledgment) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		b.discarded.Add(1)
		return
	}
	ack.At = time.Now()
	b.acks = append(b.acks, ack)
}

// TakeAcknowledgments 取出待显示的确认消息
func (b *HostBridge) TakeAcknowledgments() []Acknowledgment {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.acks) == 0 {
		return nil
	}
	acks := b.acks
	b.acks = nil
	return acks
}

// Stats 返回外部调用统计
func (b *HostBridge) Stats() Stats {
	return Stats{
		RewardsSubmitted: b.rewardsSubmitted.Load(),
		RewardsFailed:    b.rewardsFailed.Load(),
		RunsSubmitted:    b.runsSubmitted.Load(),
		RunsFailed:       b.runsFailed.Load(),
		Discarded:        b.discarded.Load(),
	}
}

// Wait 等待所有进行中的外部调用返回
func (b *HostBridge) Wait() {
	b.wg.Wait()
}

// Close 取消进行中的外部调用并丢弃之后到达的结果
func (b *HostBridge) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.acks = nil
	b.mu.Unlock()

	b.cancel()
	log.Printf("[HostBridge] Closed")
}

func (b *HostBridge) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
