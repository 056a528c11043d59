package utils

import "math"

// 缓动函数：输入进度 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
// 超出范围的 t 会先被截断。

// Clamp01 把 t 截断到 [0, 1]
func Clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// EaseOutCubic 三次方缓出：开始快，结束慢（提示条滑入）
func EaseOutCubic(t float64) float64 {
	t = Clamp01(t)
	return 1 - math.Pow(1-t, 3)
}

// EaseInQuad 二次方缓入：开始慢，结束快（提示条淡出）
func EaseInQuad(t float64) float64 {
	t = Clamp01(t)
	return t * t
}

// Lerp 线性插值，t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// ToastProgress 计算提示条的滑入偏移与透明度
//
// 参数:
//   - elapsed: 已显示时长（秒）
//   - total: 总显示时长（秒）
//   - fade: 入场和退场各占用的时长（秒）
//
// 返回:
//   - slide: 入场进度 [0, 1]，1 表示已到位
//   - alpha: 不透明度 [0, 1]
func ToastProgress(elapsed, total, fade float64) (slide, alpha float64) {
	if fade <= 0 || total <= 0 {
		return 1, 1
	}
	slide = EaseOutCubic(elapsed / fade)
	remaining := total - elapsed
	alpha = 1 - EaseInQuad(1-remaining/fade)
	if remaining >= fade {
		alpha = 1
	}
	return slide, Clamp01(alpha)
}
