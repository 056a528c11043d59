package systems

import (
	"testing"

	"github.com/dinoadopta/dinoflap/pkg/config"
)

func TestNewDifficultyEngine(t *testing.T) {
	engine := NewDifficultyEngine(config.DefaultMinigameConfig())

	if engine == nil {
		t.Fatal("NewDifficultyEngine returned nil")
	}

	base := engine.BaseTier()
	if base.Level != 0 || base.Speed != 180 || base.SpawnIntervalMs != 1500 {
		t.Errorf("BaseTier = %+v, want {0 180 1500}", base)
	}
}

func TestCalculateLevel(t *testing.T) {
	engine := NewDifficultyEngine(config.DefaultMinigameConfig())

	tests := []struct {
		name  string
		score int
		want  int
	}{
		{"开局", 0, 0},
		{"负分按0处理", -3, 0},
		{"未到第一级", 4, 0},
		{"刚好第一级", 5, 1},
		{"第五级", 25, 5},
		{"第十二级", 60, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.CalculateLevel(tt.score); got != tt.want {
				t.Errorf("CalculateLevel(%d) = %d, want %d", tt.score, got, tt.want)
			}
		})
	}
}

func TestTierFor(t *testing.T) {
	engine := NewDifficultyEngine(config.DefaultMinigameConfig())

	tests := []struct {
		name         string
		score        int
		wantSpeed    float64
		wantInterval int
	}{
		{"score 0", 0, 180, 1500},
		{"score 25 (level 5)", 25, 255, 1100},
		{"score 60 (level 12) 速度封顶", 60, 350, 900},
		{"score 35 (level 7)", 35, 285, 940},
		{"score 40 (level 8) 间隔保底", 40, 300, 900},
		{"极高分", 10000, 350, 900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := engine.TierFor(tt.score)
			if tier.Speed != tt.wantSpeed {
				t.Errorf("Speed = %.1f, want %.1f", tier.Speed, tt.wantSpeed)
			}
			if tier.SpawnIntervalMs != tt.wantInterval {
				t.Errorf("SpawnIntervalMs = %d, want %d", tier.SpawnIntervalMs, tt.wantInterval)
			}
		})
	}
}

// TestTierFor_Monotonic 速度单调不减、间隔单调不增，且都在上下限之内
func TestTierFor_Monotonic(t *testing.T) {
	cfg := config.DefaultMinigameConfig()
	engine := NewDifficultyEngine(cfg)

	prev := engine.TierFor(0)
	for score := 1; score <= 500; score++ {
		tier := engine.TierFor(score)
		if tier.Speed < prev.Speed {
			t.Fatalf("speed decreased at score %d: %.1f -> %.1f", score, prev.Speed, tier.Speed)
		}
		if tier.SpawnIntervalMs > prev.SpawnIntervalMs {
			t.Fatalf("interval increased at score %d: %d -> %d", score, prev.SpawnIntervalMs, tier.SpawnIntervalMs)
		}
		if tier.Speed > cfg.MaxSpeed {
			t.Fatalf("speed %.1f above cap at score %d", tier.Speed, score)
		}
		if tier.SpawnIntervalMs < cfg.MinSpawnIntervalMs {
			t.Fatalf("interval %d below floor at score %d", tier.SpawnIntervalMs, score)
		}
		prev = tier
	}
}
