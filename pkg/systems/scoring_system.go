package systems

import (
	"log"

	"github.com/dinoadopta/dinoflap/pkg/components"
	"github.com/dinoadopta/dinoflap/pkg/config"
)

// RewardEvent 奖励事件
//
// 由 ScoringSystem 产生、HostBridge 立即消费，不做存储。
type RewardEvent struct {
	PointsAmount              int // 发放的 DinoPoints
	CumulativeScoreAtEmission int // 发放时的累计分数
}

// ScoringSystem 计分与奖励发放
//
// 奖励按"奖励包阈值"发放而非按增量发放：
// currentPackage = floor(score / rewardInterval)，只要超过已发放数量就补发。
// 通过障碍物和拾取道具两条路径共享同一个单调递增的计数器，
// 即使二者在同一阈值附近同时发生也不会重复发放。
type ScoringSystem struct {
	pointsPerObstacle int
	rewardInterval    int
	rewardAmount      int
}

// NewScoringSystem 创建计分系统
func NewScoringSystem(cfg *config.MinigameConfig) *ScoringSystem {
	return &ScoringSystem{
		pointsPerObstacle: cfg.PointsPerObstacle,
		rewardInterval:    cfg.RewardInterval,
		rewardAmount:      cfg.RewardAmount,
	}
}

// OnPass 通过一对障碍物
func (s *ScoringSystem) OnPass(run components.RunState) (components.RunState, []RewardEvent) {
	run.Score += s.pointsPerObstacle
	return s.CheckRewards(run)
}

// OnCollect 拾取道具
//
// 参数:
//   - bonus: 道具增加的分数
func (s *ScoringSystem) OnCollect(run components.RunState, bonus int) (components.RunState, []RewardEvent) {
	if bonus > 0 {
		run.Score += bonus
	}
	run.ComboCount++
	return s.CheckRewards(run)
}

// CheckRewards 阈值检查
//
// 对 (RewardPackagesGranted, floor(score/rewardInterval)] 中的每个奖励包各发放一次。
// 分数不变时重复调用不会产生新事件；调用后 RewardPackagesGranted 恒等于 floor(score/rewardInterval)。
func (s *ScoringSystem) CheckRewards(run components.RunState) (components.RunState, []RewardEvent) {
	currentPackage := run.Score / s.rewardInterval
	if currentPackage <= run.RewardPackagesGranted {
		return run, nil
	}

	events := make([]RewardEvent, 0, currentPackage-run.RewardPackagesGranted)
	for pkg := run.RewardPackagesGranted + 1; pkg <= currentPackage; pkg++ {
		events = append(events, RewardEvent{
			PointsAmount:              s.rewardAmount,
			CumulativeScoreAtEmission: run.Score,
		})
		run.TotalRewardPoints += s.rewardAmount
	}
	run.RewardPackagesGranted = currentPackage

	log.Printf("[ScoringSystem] score=%d packages=%d emitted=%d", run.Score, currentPackage, len(events))
	return run, events
}
