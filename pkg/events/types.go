package events

import "time"

// EventType 模拟事件类型
//
// 由 Simulation 产生，HostBridge 是唯一的消费者。
type EventType int

const (
	// EventStarted 首次输入后开局
	// Payload: nil
	EventStarted EventType = iota

	// EventScoreUpdate 分数变化（通过障碍物或拾取道具）
	// Payload: ScoreUpdatePayload
	EventScoreUpdate

	// EventSpeedUpdate 难度档位变化导致滚动速度变化
	// Payload: SpeedUpdatePayload
	EventSpeedUpdate

	// EventRewardEarned 跨过奖励包阈值
	// Consumer: HostBridge -> RewardSink | Payload: RewardEarnedPayload
	EventRewardEarned

	// EventOver 终局，每局只触发一次
	// Consumer: HostBridge -> ScoreSink | Payload: OverPayload
	EventOver

	// EventReset 重开后回到 Idle
	// Payload: nil
	EventReset
)

var eventNames = map[EventType]string{
	EventStarted:      "started",
	EventScoreUpdate:  "scoreUpdate",
	EventSpeedUpdate:  "speedUpdate",
	EventRewardEarned: "rewardEarned",
	EventOver:         "over",
	EventReset:        "reset",
}

// Name 返回事件在展示层/网络上使用的名称
func (t EventType) Name() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return "unknown"
}

// String 实现 fmt.Stringer
func (t EventType) String() string {
	return t.Name()
}

// GameEvent 单个模拟事件
type GameEvent struct {
	Type      EventType
	Payload   any
	Tick      int64 // 产生事件时的 tick 序号
	Timestamp time.Time
}
