package simulation

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/dinoadopta/dinoflap/pkg/components"
	"github.com/dinoadopta/dinoflap/pkg/config"
	"github.com/dinoadopta/dinoflap/pkg/ecs"
	"github.com/dinoadopta/dinoflap/pkg/events"
	"github.com/dinoadopta/dinoflap/pkg/systems"
)

// RunState 一局游戏的状态（定义见 components 包）
type RunState = components.RunState

// State 模拟状态机
type State int

const (
	// StateIdle 等待首次输入，物理暂停
	StateIdle State = iota
	// StateRunning 游戏进行中
	StateRunning
	// StateOver 终局，物理停止、障碍物冻结，只接受重开
	StateOver
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateOver:
		return "Over"
	default:
		return "Unknown"
	}
}

// maxTickSeconds 单个 tick 的最大时间步长
// 宿主卡顿后传入的超长 dt 会被截断，避免飞行者一步穿过障碍物
const maxTickSeconds = 0.1

// GameOverSummary 一局结束时的汇总，每局只产生一次
type GameOverSummary struct {
	FinalScore        int
	MaxSpeedTier      float64
	TotalRewardPoints int
}

// Simulation 小游戏模拟循环
//
// 所有公开方法串行化在同一把锁上：tick 来源和输入来源可以位于不同的 goroutine，
// 输入对 FlyerState 的修改在下一个 tick 积分时生效。
// 只有 Simulation 修改 RunState；外部只能通过 Snapshot 和事件队列读取。
type Simulation struct {
	mu sync.Mutex

	cfg           *config.MinigameConfig
	entityManager *ecs.EntityManager
	queue         *events.Queue

	physics    *systems.PhysicsSystem
	collision  *systems.CollisionSystem
	difficulty *systems.DifficultyEngine
	scoring    *systems.ScoringSystem
	spawner    *systems.ObstacleSpawnSystem

	flyer   components.FlyerComponent
	run     RunState
	state   State
	summary *GameOverSummary

	tickCount     int64
	restartOnJump bool
	closed        bool
}

// Option 构造选项
type Option func(*options)

type options struct {
	rng           *rand.Rand
	queue         *events.Queue
	restartOnJump bool
}

// WithRand 指定随机源（测试使用固定种子）
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithEventQueue 使用外部提供的事件队列
func WithEventQueue(q *events.Queue) Option {
	return func(o *options) { o.queue = q }
}

// WithRestartOnJump 终局状态下的跳跃输入视为重开信号
func WithRestartOnJump(enabled bool) Option {
	return func(o *options) { o.restartOnJump = enabled }
}

// New 创建模拟器
//
// 配置非法属于启动期致命错误，直接返回包装了 config.ErrInvalidConfig 的错误。
func New(cfg *config.MinigameConfig, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		o.rng = rand.New(rand.NewSource(seed))
	}
	if o.queue == nil {
		o.queue = events.NewQueue()
	}

	em := ecs.NewEntityManager()
	difficulty := systems.NewDifficultyEngine(cfg)
	base := difficulty.BaseTier()

	s := &Simulation{
		cfg:           cfg,
		entityManager: em,
		queue:         o.queue,
		physics:       systems.NewPhysicsSystem(em, cfg),
		collision:     systems.NewCollisionSystem(em, cfg),
		difficulty:    difficulty,
		scoring:       systems.NewScoringSystem(cfg),
		spawner:       systems.NewObstacleSpawnSystem(em, cfg, o.rng),
		flyer:         components.FlyerComponent{Y: cfg.FlyerStartY},
		run:           components.NewRunState(base.Speed, base.SpawnIntervalMs),
		state:         StateIdle,
		restartOnJump: o.restartOnJump,
	}

	log.Printf("[Simulation] Created (world=%.0fx%.0f, speed=%.0f, interval=%dms)",
		cfg.WorldWidth, cfg.WorldHeight, base.Speed, base.SpawnIntervalMs)
	return s, nil
}

// Events 返回事件队列（HostBridge 是唯一消费者）
func (s *Simulation) Events() *events.Queue {
	return s.queue
}

// State 返回当前状态
func (s *Simulation) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Summary 返回本局汇总（尚未终局时为 nil）
func (s *Simulation) Summary() *GameOverSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		return nil
	}
	summary := *s.summary
	return &summary
}

// Jump 跳跃输入
//
// Idle: 开局并施加跳跃，发出 started；Running: 施加跳跃；
// Over: 仅在启用 RestartOnJump 时视为重开，否则忽略。
// 返回输入是否被接受，被忽略的输入不是错误。
func (s *Simulation) Jump() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	switch s.state {
	case StateIdle:
		s.state = StateRunning
		s.run.IsStarted = true
		s.flyer = systems.ApplyJump(s.flyer, s.physics.Params())
		s.emit(events.EventStarted, nil)
		log.Printf("[Simulation] Run started")
		return true
	case StateRunning:
		s.flyer = systems.ApplyJump(s.flyer, s.physics.Params())
		return true
	case StateOver:
		if s.restartOnJump {
			s.reset()
			return true
		}
	}
	return false
}

// Restart 重开信号，只在 Over 状态下生效
//
// 清空障碍物和道具、复位 RunState、把飞行者放回起始位置，然后回到 Idle。
func (s *Simulation) Restart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state != StateOver {
		return false
	}
	s.reset()
	return true
}

func (s *Simulation) reset() {
	base := s.difficulty.BaseTier()

	s.entityManager.Clear()
	s.spawner.Reset(base.SpawnIntervalMs)
	s.flyer = components.FlyerComponent{Y: s.cfg.FlyerStartY}
	s.run = components.NewRunState(base.Speed, base.SpawnIntervalMs)
	s.summary = nil
	s.state = StateIdle

	s.emit(events.EventReset, nil)
	log.Printf("[Simulation] Reset to Idle")
}

// Tick 推进一帧
//
// 只在 Running 状态下推进，固定顺序：
// 重力 → 积分 → 世界滚动 → 上下边界 → 障碍物碰撞/通过 → 道具拾取
// → 生成 → 回收 → 难度。
// Idle/Over 以及 Close 之后的 tick 都是空操作。
func (s *Simulation) Tick(dtSeconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state != StateRunning || dtSeconds <= 0 {
		return
	}
	if dtSeconds > maxTickSeconds {
		dtSeconds = maxTickSeconds
	}
	s.tickCount++

	var atBound bool
	s.flyer, atBound = s.physics.StepFlyer(s.flyer, dtSeconds)
	s.physics.ScrollWorld(dtSeconds, s.run.SpeedTier)

	if atBound {
		s.gameOver("world bound")
		return
	}

	if !s.resolveObstacles() {
		return
	}
	s.collectPickups()

	s.spawner.Update(dtSeconds)
	if missed := s.spawner.Recycle(); missed > 0 && s.run.ComboCount > 0 {
		s.run.ComboCount = 0
	}

	s.updateDifficulty()
}

// resolveObstacles 处理碰撞与通过，返回 false 表示本 tick 已终局
func (s *Simulation) resolveObstacles() bool {
	for {
		result := s.collision.Check(s.flyer)
		switch result.Kind {
		case systems.CollisionBlocked:
			s.gameOver("obstacle")
			return false
		case systems.CollisionPassed:
			if !s.collision.MarkScored(result.PairID) {
				return true
			}
			var rewards []systems.RewardEvent
			s.run, rewards = s.scoring.OnPass(s.run)
			s.emitScore(rewards)
		default:
			return true
		}
	}
}

func (s *Simulation) collectPickups() {
	for {
		_, pickup, ok := s.collision.CheckPickup(s.flyer)
		if !ok {
			return
		}
		pickup.Collected = true

		var rewards []systems.RewardEvent
		s.run, rewards = s.scoring.OnCollect(s.run, pickup.Bonus)
		s.emitScore(rewards)
	}
}

func (s *Simulation) emitScore(rewards []systems.RewardEvent) {
	s.emit(events.EventScoreUpdate, events.ScoreUpdatePayload{Score: s.run.Score})
	for _, r := range rewards {
		s.emit(events.EventRewardEarned, events.RewardEarnedPayload{
			Points: r.PointsAmount,
			Score:  r.CumulativeScoreAtEmission,
		})
	}
}

// updateDifficulty 重新计算难度档位，变化时重新配置生成器
//
// 新间隔只影响下一次生成；速度变化立即作用于所有障碍物（它们统一滚动）。
func (s *Simulation) updateDifficulty() {
	tier := s.difficulty.TierFor(s.run.Score)
	s.run.Level = tier.Level

	if tier.SpawnIntervalMs != s.run.SpawnIntervalMs {
		s.run.SpawnIntervalMs = tier.SpawnIntervalMs
		s.spawner.Reschedule(tier.SpawnIntervalMs)
	}

	if tier.Speed != s.run.SpeedTier {
		s.run.SpeedTier = tier.Speed
		if tier.Speed > s.run.MaxSpeedTier {
			s.run.MaxSpeedTier = tier.Speed
		}
		s.emit(events.EventSpeedUpdate, events.SpeedUpdatePayload{Speed: tier.Speed})
		log.Printf("[Simulation] Level %d: speed=%.0f interval=%dms", tier.Level, tier.Speed, tier.SpawnIntervalMs)
	}
}

// gameOver 终局转换，重复调用是空操作
func (s *Simulation) gameOver(reason string) {
	if s.state == StateOver {
		return
	}
	s.state = StateOver
	s.run.IsOver = true
	s.summary = &GameOverSummary{
		FinalScore:        s.run.Score,
		MaxSpeedTier:      s.run.MaxSpeedTier,
		TotalRewardPoints: s.run.TotalRewardPoints,
	}

	s.emit(events.EventOver, events.OverPayload{
		FinalScore:   s.summary.FinalScore,
		MaxSpeed:     s.summary.MaxSpeedTier,
		PointsEarned: s.summary.TotalRewardPoints,
	})
	log.Printf("[Simulation] Game over (%s): score=%d maxSpeed=%.0f points=%d",
		reason, s.summary.FinalScore, s.summary.MaxSpeedTier, s.summary.TotalRewardPoints)
}

func (s *Simulation) emit(eventType events.EventType, payload any) {
	s.queue.Push(events.GameEvent{
		Type:    eventType,
		Payload: payload,
		Tick:    s.tickCount,
	})
}

// Close 销毁模拟器，之后所有调用都是空操作
func (s *Simulation) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.entityManager.Clear()
	log.Printf("[Simulation] Closed after %d ticks", s.tickCount)
}

// IsClosed 是否已销毁
func (s *Simulation) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
