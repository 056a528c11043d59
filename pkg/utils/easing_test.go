package utils

import (
	"math"
	"testing"
)

func TestEasing(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(float64) float64
		input    float64
		expected float64
	}{
		{"缓出起点", EaseOutCubic, 0, 0},
		{"缓出中点", EaseOutCubic, 0.5, 0.875}, // 1 - 0.5^3
		{"缓出终点", EaseOutCubic, 1, 1},
		{"缓出越界", EaseOutCubic, 1.5, 1},
		{"缓入中点", EaseInQuad, 0.5, 0.25},
		{"缓入负值", EaseInQuad, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.input); math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("got %v, 期望 %v", got, tt.expected)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(-20, 0, 0.25); got != -15 {
		t.Errorf("Lerp = %v, 期望 -15", got)
	}
}

func TestToastProgress(t *testing.T) {
	tests := []struct {
		name      string
		elapsed   float64
		wantSlide float64
		wantAlpha float64
	}{
		{"刚出现", 0, 0, 1},
		{"已到位", 0.5, 1, 1},
		{"中段", 1.2, 1, 1},
		{"淡出一半", 2.25, 1, 0.75}, // 剩余 0.25 / 0.5 -> 1 - 0.5^2
		{"结束", 2.5, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slide, alpha := ToastProgress(tt.elapsed, 2.5, 0.5)
			if math.Abs(slide-tt.wantSlide) > 0.001 || math.Abs(alpha-tt.wantAlpha) > 0.001 {
				t.Errorf("ToastProgress(%v) = (%v, %v), 期望 (%v, %v)", tt.elapsed, slide, alpha, tt.wantSlide, tt.wantAlpha)
			}
		})
	}

	if slide, alpha := ToastProgress(1, 2.5, 0); slide != 1 || alpha != 1 {
		t.Errorf("fade=0 应直接显示, got (%v, %v)", slide, alpha)
	}
}
