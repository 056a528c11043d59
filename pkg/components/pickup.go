package components

// PickupComponent 奖励道具（出现在障碍物缺口中央的骨头）
//
// 与障碍物以相同速度向左滚动。拾取后增加 Bonus 分数，
// 与通过障碍物共用同一个奖励包计数器。
type PickupComponent struct {
	X         float64 // 中心X
	Y         float64 // 中心Y
	Size      float64 // 碰撞盒边长
	Bonus     int     // 拾取增加的分数
	Collected bool
}

// IsOffScreen 检查道具是否已完全滚出屏幕左侧
func (p *PickupComponent) IsOffScreen() bool {
	return p.X+p.Size/2 < 0
}
