package systems

import (
	"github.com/dinoadopta/dinoflap/pkg/components"
	"github.com/dinoadopta/dinoflap/pkg/config"
	"github.com/dinoadopta/dinoflap/pkg/ecs"
)

// PhysicsParams 物理参数（从 MinigameConfig 提取）
type PhysicsParams struct {
	Gravity      float64 // 向下加速度（像素/秒²）
	JumpImpulse  float64 // 跳跃速度（负值向上）
	MaxFallSpeed float64 // 速度绝对值上限
	WorldHeight  float64 // 可见区域高度
}

// NewPhysicsParams 从配置构造物理参数
func NewPhysicsParams(cfg *config.MinigameConfig) PhysicsParams {
	return PhysicsParams{
		Gravity:      cfg.Gravity,
		JumpImpulse:  cfg.JumpImpulse,
		MaxFallSpeed: cfg.MaxFallSpeed,
		WorldHeight:  cfg.WorldHeight,
	}
}

// ApplyGravity 施加重力，速度被限制在 [-MaxFallSpeed, MaxFallSpeed]
func ApplyGravity(state components.FlyerComponent, dtSeconds float64, p PhysicsParams) components.FlyerComponent {
	state.VelocityY += p.Gravity * dtSeconds
	if state.VelocityY > p.MaxFallSpeed {
		state.VelocityY = p.MaxFallSpeed
	} else if state.VelocityY < -p.MaxFallSpeed {
		state.VelocityY = -p.MaxFallSpeed
	}
	return state
}

// ApplyJump 跳跃：直接覆盖垂直速度，不叠加
//
// 连续按键不会让上升速度累积。
func ApplyJump(state components.FlyerComponent, p PhysicsParams) components.FlyerComponent {
	state.VelocityY = p.JumpImpulse
	return state
}

// IntegratePosition 按速度推进垂直位置，结果限制在 [0, WorldHeight]
//
// 到达边界本身是终局条件，由模拟循环通过 AtWorldBound 判定，这里只负责夹取。
func IntegratePosition(state components.FlyerComponent, dtSeconds float64, p PhysicsParams) components.FlyerComponent {
	state.Y += state.VelocityY * dtSeconds
	if state.Y < 0 {
		state.Y = 0
	} else if state.Y > p.WorldHeight {
		state.Y = p.WorldHeight
	}
	return state
}

// AtWorldBound 检查飞行者是否触碰了上下边界
func AtWorldBound(state components.FlyerComponent, p PhysicsParams) bool {
	return state.Y <= 0 || state.Y >= p.WorldHeight
}

// PhysicsSystem 推进飞行者运动并滚动世界
type PhysicsSystem struct {
	entityManager *ecs.EntityManager
	params        PhysicsParams
}

// NewPhysicsSystem 创建物理系统
//
// 参数:
//   - em: 实体管理器，用于查询障碍物和道具
//   - cfg: 小游戏配置
func NewPhysicsSystem(em *ecs.EntityManager, cfg *config.MinigameConfig) *PhysicsSystem {
	return &PhysicsSystem{
		entityManager: em,
		params:        NewPhysicsParams(cfg),
	}
}

// Params 返回物理参数
func (ps *PhysicsSystem) Params() PhysicsParams {
	return ps.params
}

// StepFlyer 依次施加重力并积分位置，返回新状态以及是否触碰边界
func (ps *PhysicsSystem) StepFlyer(flyer components.FlyerComponent, dtSeconds float64) (components.FlyerComponent, bool) {
	flyer = ApplyGravity(flyer, dtSeconds, ps.params)
	flyer = IntegratePosition(flyer, dtSeconds, ps.params)
	return flyer, AtWorldBound(flyer, ps.params)
}

// ScrollWorld 所有障碍物和道具以相同速度向左移动
//
// 参数:
//   - dtSeconds: 时间步长（秒）
//   - speed: 当前滚动速度（像素/秒）
func (ps *PhysicsSystem) ScrollWorld(dtSeconds, speed float64) {
	dx := speed * dtSeconds

	for _, id := range ecs.GetEntitiesWith1[*components.ObstacleComponent](ps.entityManager) {
		if obstacle, ok := ecs.GetComponent[*components.ObstacleComponent](ps.entityManager, id); ok {
			obstacle.X -= dx
		}
	}

	for _, id := range ecs.GetEntitiesWith1[*components.PickupComponent](ps.entityManager) {
		if pickup, ok := ecs.GetComponent[*components.PickupComponent](ps.entityManager, id); ok {
			pickup.X -= dx
		}
	}
}
