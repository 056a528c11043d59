package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig 配置校验失败
//
// 配置错误属于启动期致命错误，调用方不应尝试在运行期恢复。
var ErrInvalidConfig = errors.New("invalid minigame config")

// DefaultMinigameConfigPath 默认配置文件路径（嵌入资源中同名）
const DefaultMinigameConfigPath = "data/minigame.yaml"

// MinigameConfig 小游戏配置（扁平记录）
//
// 构造模拟器时一次性注入，一局游戏中途不支持重新配置。
// 坐标系：原点在左上角，Y 轴向下，单位为像素；时间单位见字段注释。
//
// 配置文件位置: data/minigame.yaml
type MinigameConfig struct {
	// 世界尺寸
	WorldWidth  float64 `yaml:"worldWidth"`
	WorldHeight float64 `yaml:"worldHeight"`

	// 飞行者（固定水平通道）
	FlyerX         float64 `yaml:"flyerX"`         // 通道中心X
	FlyerHalfWidth float64 `yaml:"flyerHalfWidth"` // 通道半宽
	FlyerRadius    float64 `yaml:"flyerRadius"`    // 碰撞盒半高，0 表示按点判定
	FlyerStartY    float64 `yaml:"flyerStartY"`    // 开局/重开时的Y坐标

	// 物理
	Gravity      float64 `yaml:"gravity"`      // 像素/秒²，向下为正
	JumpImpulse  float64 `yaml:"jumpImpulse"`  // 像素/秒，必须为负（向上）
	MaxFallSpeed float64 `yaml:"maxFallSpeed"` // 速度绝对值上限

	// 障碍物几何
	ObstacleWidth float64 `yaml:"obstacleWidth"`
	GapSize       float64 `yaml:"gapSize"`
	GapMargin     float64 `yaml:"gapMargin"` // 缺口距上下边界的最小距离

	// 难度
	BaseSpeed               float64 `yaml:"baseSpeed"`     // 像素/秒
	SpeedIncrease           float64 `yaml:"speedIncrease"` // 每级增加
	MaxSpeed                float64 `yaml:"maxSpeed"`
	LevelInterval           int     `yaml:"levelInterval"` // 每多少分升一级
	BaseSpawnIntervalMs     int     `yaml:"baseSpawnIntervalMs"`
	SpawnIntervalDecreaseMs int     `yaml:"spawnIntervalDecreaseMs"` // 每级减少
	MinSpawnIntervalMs      int     `yaml:"minSpawnIntervalMs"`

	// 计分与奖励
	PointsPerObstacle int `yaml:"pointsPerObstacle"`
	RewardInterval    int `yaml:"rewardInterval"` // 每多少分发一个奖励包
	RewardAmount      int `yaml:"rewardAmount"`   // 每个奖励包的 DinoPoints

	// 道具（奖励拾取物）
	PickupChance float64 `yaml:"pickupChance"` // 每次生成障碍物时附带道具的概率
	PickupBonus  int     `yaml:"pickupBonus"`  // 拾取时增加的分数
	PickupSize   float64 `yaml:"pickupSize"`

	// Seed 随机种子，0 表示使用当前时间
	Seed int64 `yaml:"seed"`
}

// DefaultMinigameConfig 返回内置默认配置
func DefaultMinigameConfig() *MinigameConfig {
	return &MinigameConfig{
		WorldWidth:  480,
		WorldHeight: 640,

		FlyerX:         100,
		FlyerHalfWidth: 17,
		FlyerRadius:    12,
		FlyerStartY:    320,

		Gravity:      1400,
		JumpImpulse:  -420,
		MaxFallSpeed: 600,

		ObstacleWidth: 64,
		GapSize:       160,
		GapMargin:     60,

		BaseSpeed:               180,
		SpeedIncrease:           15,
		MaxSpeed:                350,
		LevelInterval:           5,
		BaseSpawnIntervalMs:     1500,
		SpawnIntervalDecreaseMs: 80,
		MinSpawnIntervalMs:      900,

		PointsPerObstacle: 1,
		RewardInterval:    10,
		RewardAmount:      20,

		PickupChance: 0.25,
		PickupBonus:  2,
		PickupSize:   20,
	}
}

// ParseMinigameConfig 解析 YAML 字节
//
// 未出现在 YAML 中的字段保留默认值，因此配置文件只需覆盖需要调整的项。
func ParseMinigameConfig(data []byte) (*MinigameConfig, error) {
	cfg := DefaultMinigameConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse minigame config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadMinigameConfig 从磁盘加载小游戏配置
//
// 参数:
//   - path: 配置文件路径（如 "data/minigame.yaml"）
func LoadMinigameConfig(path string) (*MinigameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read minigame config: %w", err)
	}
	return ParseMinigameConfig(data)
}

// Validate 验证配置有效性
//
// 返回的错误都包装了 ErrInvalidConfig。
func (c *MinigameConfig) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.WorldWidth <= 0 || c.WorldHeight <= 0 {
		return invalid("world size must be positive, got %.1fx%.1f", c.WorldWidth, c.WorldHeight)
	}
	if c.FlyerX <= 0 || c.FlyerX >= c.WorldWidth {
		return invalid("flyerX must be inside the world, got %.1f", c.FlyerX)
	}
	if c.FlyerHalfWidth <= 0 || c.FlyerRadius < 0 {
		return invalid("flyer geometry invalid: halfWidth=%.1f radius=%.1f", c.FlyerHalfWidth, c.FlyerRadius)
	}
	if c.FlyerStartY <= 0 || c.FlyerStartY >= c.WorldHeight {
		return invalid("flyerStartY must be within (0, %.1f), got %.1f", c.WorldHeight, c.FlyerStartY)
	}
	if c.Gravity <= 0 {
		return invalid("gravity must be positive, got %.1f", c.Gravity)
	}
	if c.JumpImpulse >= 0 {
		return invalid("jumpImpulse must be negative (upward), got %.1f", c.JumpImpulse)
	}
	if c.MaxFallSpeed <= 0 {
		return invalid("maxFallSpeed must be positive, got %.1f", c.MaxFallSpeed)
	}
	if c.ObstacleWidth <= 0 || c.GapSize <= 0 || c.GapMargin < 0 {
		return invalid("obstacle geometry invalid: width=%.1f gap=%.1f margin=%.1f",
			c.ObstacleWidth, c.GapSize, c.GapMargin)
	}
	if c.GapSize+2*c.GapMargin > c.WorldHeight {
		return invalid("gap (%.1f) plus margins (%.1f) does not fit world height %.1f",
			c.GapSize, 2*c.GapMargin, c.WorldHeight)
	}
	if c.GapSize <= 2*c.FlyerRadius {
		return invalid("gap (%.1f) must be taller than the flyer (%.1f)", c.GapSize, 2*c.FlyerRadius)
	}
	if c.BaseSpeed <= 0 || c.SpeedIncrease < 0 {
		return invalid("speed settings invalid: base=%.1f increase=%.1f", c.BaseSpeed, c.SpeedIncrease)
	}
	if c.BaseSpeed > c.MaxSpeed {
		return invalid("baseSpeed (%.1f) > maxSpeed (%.1f)", c.BaseSpeed, c.MaxSpeed)
	}
	if c.LevelInterval <= 0 {
		return invalid("levelInterval must be positive, got %d", c.LevelInterval)
	}
	if c.MinSpawnIntervalMs <= 0 || c.SpawnIntervalDecreaseMs < 0 {
		return invalid("spawn interval settings invalid: min=%d decrease=%d",
			c.MinSpawnIntervalMs, c.SpawnIntervalDecreaseMs)
	}
	if c.MinSpawnIntervalMs > c.BaseSpawnIntervalMs {
		return invalid("minSpawnIntervalMs (%d) > baseSpawnIntervalMs (%d)",
			c.MinSpawnIntervalMs, c.BaseSpawnIntervalMs)
	}
	if c.PointsPerObstacle <= 0 {
		return invalid("pointsPerObstacle must be positive, got %d", c.PointsPerObstacle)
	}
	if c.RewardInterval <= 0 || c.RewardAmount <= 0 {
		return invalid("reward settings invalid: interval=%d amount=%d", c.RewardInterval, c.RewardAmount)
	}
	if c.PickupChance < 0 || c.PickupChance > 1 {
		return invalid("pickupChance must be within [0, 1], got %.2f", c.PickupChance)
	}
	if c.PickupBonus < 0 || c.PickupSize < 0 {
		return invalid("pickup settings invalid: bonus=%d size=%.1f", c.PickupBonus, c.PickupSize)
	}

	return nil
}

// GapTopRange 返回缺口顶部Y坐标的随机范围 [min, max]
func (c *MinigameConfig) GapTopRange() (min, max float64) {
	return c.GapMargin, c.WorldHeight - c.GapMargin - c.GapSize
}

// LaneBounds 返回飞行者固定水平通道 [left, right]
func (c *MinigameConfig) LaneBounds() (left, right float64) {
	return c.FlyerX - c.FlyerHalfWidth, c.FlyerX + c.FlyerHalfWidth
}
