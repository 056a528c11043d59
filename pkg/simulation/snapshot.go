package simulation

import (
	"github.com/dinoadopta/dinoflap/pkg/components"
	"github.com/dinoadopta/dinoflap/pkg/ecs"
)

// Snapshot 渲染用的只读快照
//
// 所有字段都是副本，展示层可以在锁外随意读取。
// Obstacles 按生成顺序（从左到右）排列。
type Snapshot struct {
	State     State
	Flyer     components.FlyerComponent
	Rotation  float64
	Run       RunState
	Obstacles []components.ObstacleComponent
	Pickups   []components.PickupComponent
	Summary   *GameOverSummary
	Tick      int64
}

// Snapshot 复制当前状态
func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:    s.state,
		Flyer:    s.flyer,
		Rotation: s.flyer.Rotation(s.cfg.MaxFallSpeed),
		Run:      s.run,
		Tick:     s.tickCount,
	}
	if s.summary != nil {
		summary := *s.summary
		snap.Summary = &summary
	}

	for _, id := range ecs.SortedEntitiesWith1[*components.ObstacleComponent](s.entityManager) {
		if o, ok := ecs.GetComponent[*components.ObstacleComponent](s.entityManager, id); ok {
			snap.Obstacles = append(snap.Obstacles, *o)
		}
	}
	for _, id := range ecs.SortedEntitiesWith1[*components.PickupComponent](s.entityManager) {
		if p, ok := ecs.GetComponent[*components.PickupComponent](s.entityManager, id); ok && !p.Collected {
			snap.Pickups = append(snap.Pickups, *p)
		}
	}

	return snap
}
