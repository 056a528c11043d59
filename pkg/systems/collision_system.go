package systems

import (
	"github.com/dinoadopta/dinoflap/pkg/components"
	"github.com/dinoadopta/dinoflap/pkg/config"
	"github.com/dinoadopta/dinoflap/pkg/ecs"
)

// CollisionKind 碰撞检测结果类型
type CollisionKind int

const (
	// CollisionNone 无事件
	CollisionNone CollisionKind = iota
	// CollisionBlocked 撞上障碍物
	CollisionBlocked
	// CollisionPassed 完整通过一对障碍物
	CollisionPassed
)

// String 返回结果类型名称（用于日志）
func (k CollisionKind) String() string {
	switch k {
	case CollisionBlocked:
		return "Blocked"
	case CollisionPassed:
		return "Passed"
	default:
		return "None"
	}
}

// CollisionResult 碰撞检测结果
type CollisionResult struct {
	Kind   CollisionKind
	PairID ecs.EntityID // 仅 Kind == CollisionPassed 时有效
}

// Lane 飞行者固定的水平通道及碰撞盒
type Lane struct {
	Left   float64 // 通道左边界
	Right  float64 // 通道右边界
	Radius float64 // 飞行者碰撞盒半高
}

// NewLane 从配置构造通道
func NewLane(cfg *config.MinigameConfig) Lane {
	left, right := cfg.LaneBounds()
	return Lane{Left: left, Right: right, Radius: cfg.FlyerRadius}
}

// overlapsLane 障碍物水平跨度与通道是否重叠
//
// 使用开区间：仅边缘接触不算重叠。
func (l Lane) overlapsLane(o *components.ObstacleComponent) bool {
	return o.X < l.Right && o.Right() > l.Left
}

// insideGap 飞行者碰撞盒是否完全位于缺口内
//
// 使用闭区间：恰好接触缺口边缘算作在缺口内，避免精确对齐时闪烁判死。
func (l Lane) insideGap(flyer components.FlyerComponent, o *components.ObstacleComponent) bool {
	return flyer.Y-l.Radius >= o.GapTop && flyer.Y+l.Radius <= o.GapBottom()
}

// CheckCollision 检测飞行者与障碍物的关系
//
// 规则：
//   - 任一与通道重叠的障碍物，若飞行者不在其缺口内，返回 Blocked（优先于 Passed）
//   - 否则，第一个尾边严格位于通道左侧且尚未计分的障碍物对返回 Passed
//   - 调用方负责在收到 Passed 后把该对标记为已计分，保证每对只计一次
//
// obstacles 应按生成顺序（从左到右）传入，Passed 报告顺序上第一个满足条件的对。
// 只有与通道重叠的障碍物才做缺口判定，其余的只看尾边是否已越过通道。
func CheckCollision(flyer components.FlyerComponent, lane Lane, obstacles []*components.ObstacleComponent) CollisionResult {
	var passed *components.ObstacleComponent

	for _, o := range obstacles {
		if o.Right() < lane.Left {
			if !o.Scored && passed == nil {
				passed = o
			}
			continue
		}
		if o.X >= lane.Right {
			// 尚未到达通道
			continue
		}
		if lane.overlapsLane(o) && !lane.insideGap(flyer, o) {
			return CollisionResult{Kind: CollisionBlocked}
		}
	}

	if passed != nil {
		return CollisionResult{Kind: CollisionPassed, PairID: passed.PairID}
	}
	return CollisionResult{Kind: CollisionNone}
}

// checkAABBCollision 检查两个中心对齐的轴对齐边界框是否重叠
func checkAABBCollision(x1, y1, w1, h1, x2, y2, w2, h2 float64) bool {
	left1, right1 := x1-w1/2, x1+w1/2
	top1, bottom1 := y1-h1/2, y1+h1/2
	left2, right2 := x2-w2/2, x2+w2/2
	top2, bottom2 := y2-h2/2, y2+h2/2

	return right1 >= left2 &&
		left1 <= right2 &&
		bottom1 >= top2 &&
		top1 <= bottom2
}

// CheckPickup 返回第一个与飞行者碰撞盒重叠且未被拾取的道具实体
func CheckPickup(em *ecs.EntityManager, flyer components.FlyerComponent, lane Lane) (ecs.EntityID, *components.PickupComponent, bool) {
	flyerX := (lane.Left + lane.Right) / 2
	flyerW := lane.Right - lane.Left
	flyerH := lane.Radius * 2

	for _, id := range ecs.SortedEntitiesWith1[*components.PickupComponent](em) {
		pickup, ok := ecs.GetComponent[*components.PickupComponent](em, id)
		if !ok || pickup.Collected {
			continue
		}
		if checkAABBCollision(flyerX, flyer.Y, flyerW, flyerH, pickup.X, pickup.Y, pickup.Size, pickup.Size) {
			return id, pickup, true
		}
	}
	return 0, nil, false
}

// CollisionSystem 持有通道几何并收集按生成顺序排列的障碍物
type CollisionSystem struct {
	entityManager *ecs.EntityManager
	lane          Lane
}

// NewCollisionSystem 创建碰撞检测系统
func NewCollisionSystem(em *ecs.EntityManager, cfg *config.MinigameConfig) *CollisionSystem {
	return &CollisionSystem{
		entityManager: em,
		lane:          NewLane(cfg),
	}
}

// Lane 返回通道几何
func (cs *CollisionSystem) Lane() Lane {
	return cs.lane
}

// Obstacles 返回按生成顺序排列的障碍物（已标记删除的除外）
func (cs *CollisionSystem) Obstacles() []*components.ObstacleComponent {
	ids := ecs.SortedEntitiesWith1[*components.ObstacleComponent](cs.entityManager)
	result := make([]*components.ObstacleComponent, 0, len(ids))
	for _, id := range ids {
		if o, ok := ecs.GetComponent[*components.ObstacleComponent](cs.entityManager, id); ok {
			result = append(result, o)
		}
	}
	return result
}

// Check 对当前障碍物集执行一次检测
func (cs *CollisionSystem) Check(flyer components.FlyerComponent) CollisionResult {
	return CheckCollision(flyer, cs.lane, cs.Obstacles())
}

// MarkScored 将指定障碍物对标记为已计分
//
// 返回 false 表示该对不存在或已计分（重复计分被拒绝）。
func (cs *CollisionSystem) MarkScored(pairID ecs.EntityID) bool {
	o, ok := ecs.GetComponent[*components.ObstacleComponent](cs.entityManager, pairID)
	if !ok || o.Scored {
		return false
	}
	o.Scored = true
	return true
}

// CheckPickup 检测道具拾取
func (cs *CollisionSystem) CheckPickup(flyer components.FlyerComponent) (ecs.EntityID, *components.PickupComponent, bool) {
	return CheckPickup(cs.entityManager, flyer, cs.lane)
}
