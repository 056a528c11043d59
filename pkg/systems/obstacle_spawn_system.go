package systems

import (
	"log"
	"math/rand"

	"github.com/dinoadopta/dinoflap/pkg/components"
	"github.com/dinoadopta/dinoflap/pkg/config"
	"github.com/dinoadopta/dinoflap/pkg/ecs"
)

// ObstacleSpawnSystem 管理障碍物的定时生成与回收
//
// 生成间隔由难度引擎决定；间隔变化通过 Reschedule 一次性生效，
// 只影响下一次生成，已经在场上的障碍物保持原有几何。
type ObstacleSpawnSystem struct {
	entityManager *ecs.EntityManager
	rng           *rand.Rand
	timer         components.TimerComponent

	spawnX        float64 // 生成位置（屏幕右边缘外）
	obstacleWidth float64
	gapSize       float64
	gapTopMin     float64
	gapTopMax     float64

	pickupChance float64
	pickupBonus  int
	pickupSize   float64
}

// NewObstacleSpawnSystem 创建障碍物生成系统
//
// 参数:
//   - em: EntityManager 实例
//   - cfg: 小游戏配置
//   - rng: 随机源（测试时传入固定种子）
func NewObstacleSpawnSystem(em *ecs.EntityManager, cfg *config.MinigameConfig, rng *rand.Rand) *ObstacleSpawnSystem {
	gapTopMin, gapTopMax := cfg.GapTopRange()
	s := &ObstacleSpawnSystem{
		entityManager: em,
		rng:           rng,
		timer: components.TimerComponent{
			Name:       "obstacle_spawn",
			TargetTime: msToSeconds(cfg.BaseSpawnIntervalMs),
		},
		spawnX:        cfg.WorldWidth,
		obstacleWidth: cfg.ObstacleWidth,
		gapSize:       cfg.GapSize,
		gapTopMin:     gapTopMin,
		gapTopMax:     gapTopMax,
		pickupChance:  cfg.PickupChance,
		pickupBonus:   cfg.PickupBonus,
		pickupSize:    cfg.PickupSize,
	}
	log.Printf("[ObstacleSpawnSystem] Initialized with interval=%dms, gapTop=[%.0f, %.0f]",
		cfg.BaseSpawnIntervalMs, gapTopMin, gapTopMax)
	return s
}

func msToSeconds(ms int) float64 {
	return float64(ms) / 1000.0
}

// IntervalMs 返回当前生成间隔（毫秒）
func (s *ObstacleSpawnSystem) IntervalMs() int {
	return int(s.timer.TargetTime*1000 + 0.5)
}

// Reschedule 原子地替换生成间隔
//
// 已累计的时间保留，因此切换间隔时既不会漏掉也不会多出一次生成：
// 若累计时间已达到新间隔，下一次 Update 恰好生成一次。
func (s *ObstacleSpawnSystem) Reschedule(intervalMs int) {
	if intervalMs <= 0 {
		return
	}
	s.timer.TargetTime = msToSeconds(intervalMs)
	s.timer.IsReady = s.timer.CurrentTime >= s.timer.TargetTime
}

// Reset 清空计时器并恢复指定间隔（重开一局时调用）
func (s *ObstacleSpawnSystem) Reset(intervalMs int) {
	s.timer.CurrentTime = 0
	s.timer.IsReady = false
	s.Reschedule(intervalMs)
}

// Update 推进生成计时器，到期时生成一对障碍物
//
// 每次调用最多生成一对。返回新障碍物的 pairId（未生成时为 0）。
func (s *ObstacleSpawnSystem) Update(deltaTime float64) ecs.EntityID {
	if !s.timer.Advance(deltaTime) {
		return 0
	}
	s.timer.Consume()
	return s.Spawn()
}

// Spawn 立即在屏幕右侧生成一对障碍物，按概率在缺口中央附带一个道具
func (s *ObstacleSpawnSystem) Spawn() ecs.EntityID {
	gapTop := s.gapTopMin
	if s.gapTopMax > s.gapTopMin {
		gapTop += s.rng.Float64() * (s.gapTopMax - s.gapTopMin)
	}

	id := s.entityManager.CreateEntity()
	s.entityManager.AddComponent(id, &components.ObstacleComponent{
		X:       s.spawnX,
		GapTop:  gapTop,
		GapSize: s.gapSize,
		Width:   s.obstacleWidth,
		PairID:  id,
	})

	if s.pickupChance > 0 && s.rng.Float64() < s.pickupChance {
		pickupID := s.entityManager.CreateEntity()
		s.entityManager.AddComponent(pickupID, &components.PickupComponent{
			X:     s.spawnX + s.obstacleWidth/2,
			Y:     gapTop + s.gapSize/2,
			Size:  s.pickupSize,
			Bonus: s.pickupBonus,
		})
	}

	return id
}

// Recycle 回收完全滚出屏幕的障碍物和道具
//
// 返回被回收的未拾取道具数量（调用方据此清零连击）。
func (s *ObstacleSpawnSystem) Recycle() (missedPickups int) {
	for _, id := range ecs.GetEntitiesWith1[*components.ObstacleComponent](s.entityManager) {
		if o, ok := ecs.GetComponent[*components.ObstacleComponent](s.entityManager, id); ok && o.IsOffScreen() {
			s.entityManager.DestroyEntity(id)
		}
	}

	for _, id := range ecs.GetEntitiesWith1[*components.PickupComponent](s.entityManager) {
		p, ok := ecs.GetComponent[*components.PickupComponent](s.entityManager, id)
		if !ok {
			continue
		}
		if p.Collected {
			s.entityManager.DestroyEntity(id)
			continue
		}
		if p.IsOffScreen() {
			missedPickups++
			s.entityManager.DestroyEntity(id)
		}
	}

	s.entityManager.RemoveMarkedEntities()
	return missedPickups
}
