package components

// RunState 一局游戏的状态
//
// 每个模拟实例同一时间只有一个 RunState。
// 生命周期：场景初始化时创建（IsStarted=false）→ 首次输入后 IsStarted=true
// → 终局碰撞后 IsOver=true → 显式重开时复位为初始值。
type RunState struct {
	Score                 int     // 当前分数（≥0）
	RewardPackagesGranted int     // 已发放的奖励包数量，单调不减
	SpeedTier             float64 // 当前滚动速度
	SpawnIntervalMs       int     // 当前生成间隔
	Level                 int     // 当前难度级别
	IsStarted             bool
	IsOver                bool
	ComboCount            int // 连续拾取道具次数，漏掉一个道具时清零

	MaxSpeedTier      float64 // 本局达到的最高速度
	TotalRewardPoints int     // 本局累计发放的 DinoPoints
}

// NewRunState 创建初始 RunState
func NewRunState(baseSpeed float64, baseIntervalMs int) RunState {
	return RunState{
		SpeedTier:       baseSpeed,
		SpawnIntervalMs: baseIntervalMs,
		MaxSpeedTier:    baseSpeed,
	}
}
