package systems

import (
	"github.com/dinoadopta/dinoflap/pkg/config"
)

// Tier 难度档位
type Tier struct {
	Level           int     // floor(score / levelInterval)
	Speed           float64 // 滚动速度（像素/秒）
	SpawnIntervalMs int     // 障碍物生成间隔（毫秒）
}

// DifficultyEngine 难度引擎
// 负责把累计分数映射为滚动速度和生成间隔
//
// 速度随级别单调递增并封顶，生成间隔随级别单调递减并保底，
// 保证障碍物密度永远不会低于配置的最小间隔。
type DifficultyEngine struct {
	baseSpeed      float64
	speedIncrease  float64
	maxSpeed       float64
	levelInterval  int
	baseIntervalMs int
	decreaseMs     int
	minIntervalMs  int
}

// NewDifficultyEngine 创建新的难度引擎实例
func NewDifficultyEngine(cfg *config.MinigameConfig) *DifficultyEngine {
	return &DifficultyEngine{
		baseSpeed:      cfg.BaseSpeed,
		speedIncrease:  cfg.SpeedIncrease,
		maxSpeed:       cfg.MaxSpeed,
		levelInterval:  cfg.LevelInterval,
		baseIntervalMs: cfg.BaseSpawnIntervalMs,
		decreaseMs:     cfg.SpawnIntervalDecreaseMs,
		minIntervalMs:  cfg.MinSpawnIntervalMs,
	}
}

// CalculateLevel 计算难度级别
// 公式: Level = floor(score / levelInterval)
func (d *DifficultyEngine) CalculateLevel(score int) int {
	if score <= 0 {
		return 0
	}
	return score / d.levelInterval
}

// TierFor 返回指定分数对应的难度档位
//
// 示例（levelInterval=5, speedIncrease=15, base=180, max=350）:
//
//	score 0  -> speed 180
//	score 25 -> level 5  -> speed 255
//	score 60 -> level 12 -> speed 360 封顶为 350
func (d *DifficultyEngine) TierFor(score int) Tier {
	level := d.CalculateLevel(score)

	speed := d.baseSpeed + float64(level)*d.speedIncrease
	if speed > d.maxSpeed {
		speed = d.maxSpeed
	}

	interval := d.baseIntervalMs - level*d.decreaseMs
	if interval < d.minIntervalMs {
		interval = d.minIntervalMs
	}

	return Tier{
		Level:           level,
		Speed:           speed,
		SpawnIntervalMs: interval,
	}
}

// BaseTier 返回开局档位
func (d *DifficultyEngine) BaseTier() Tier {
	return d.TierFor(0)
}
