package components

import "math"

// FlyerComponent 飞行者（小恐龙）的垂直运动状态
//
// 飞行者水平位置固定（见 config.FlyerX），只在垂直方向运动。
// 只由模拟循环修改，每个 tick 一次；重开时复位。
type FlyerComponent struct {
	Y         float64 // 垂直位置（像素，Y 轴向下）
	VelocityY float64 // 垂直速度（像素/秒，负值向上）
}

// 旋转角度映射参数
const (
	flyerMaxTiltUp   = -math.Pi / 6 // 上升时最多抬头 30°
	flyerMaxTiltDown = math.Pi / 2  // 下坠时最多低头 90°
)

// Rotation 根据垂直速度推导渲染用的旋转角度（弧度）
//
// 参数:
//   - maxFallSpeed: 速度上限，用于把速度归一化到 [-1, 1]
func (f FlyerComponent) Rotation(maxFallSpeed float64) float64 {
	if maxFallSpeed <= 0 {
		return 0
	}
	ratio := f.VelocityY / maxFallSpeed
	if ratio < 0 {
		return -math.Max(ratio, -1) * flyerMaxTiltUp
	}
	return math.Min(ratio, 1) * flyerMaxTiltDown
}
