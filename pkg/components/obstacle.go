package components

import "github.com/dinoadopta/dinoflap/pkg/ecs"

// ObstacleComponent 一对障碍物（上半 + 下半）
//
// 上下两段共享同一个 PairID，计分按对进行而不是按段。
// 上半段覆盖 [0, GapTop]，下半段覆盖 [GapTop+GapSize, WorldHeight]。
// 当 X+Width < 0（完全离开屏幕左侧）时被回收。
type ObstacleComponent struct {
	X       float64      // 左边缘X坐标
	GapTop  float64      // 缺口顶部Y坐标
	GapSize float64      // 缺口高度（生成时固定，不随难度变化）
	Width   float64      // 宽度
	PairID  ecs.EntityID // 障碍物对标识（与实体ID相同）
	Scored  bool         // 是否已计分
}

// Right 返回障碍物右边缘（尾边）X坐标
func (o *ObstacleComponent) Right() float64 {
	return o.X + o.Width
}

// GapBottom 返回缺口底部Y坐标
func (o *ObstacleComponent) GapBottom() float64 {
	return o.GapTop + o.GapSize
}

// IsOffScreen 检查障碍物是否已完全滚出屏幕左侧
func (o *ObstacleComponent) IsOffScreen() bool {
	return o.Right() < 0
}
