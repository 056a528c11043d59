package components

// TimerComponent 通用计时器组件
// 用于处理需要时间延迟的行为（如障碍物生成周期）
type TimerComponent struct {
	Name        string  // 计时器名称，如 "obstacle_spawn"
	TargetTime  float64 // 目标时间（秒）
	CurrentTime float64 // 当前已过时间（秒）
	IsReady     bool    // 计时器是否已完成
}

// Advance 推进计时器，到达目标时间时置 IsReady
func (t *TimerComponent) Advance(deltaTime float64) bool {
	t.CurrentTime += deltaTime
	if t.CurrentTime >= t.TargetTime {
		t.IsReady = true
	}
	return t.IsReady
}

// Consume 消耗一次到期事件，保留超出的时间
//
// 超出部分被限制在一个周期内，长时间卡顿后不会连续触发多次。
func (t *TimerComponent) Consume() {
	if !t.IsReady {
		return
	}
	t.CurrentTime -= t.TargetTime
	if t.CurrentTime >= t.TargetTime {
		t.CurrentTime = 0
	}
	t.IsReady = false
}
