package nakama

import (
	"context"

	"github.com/dinoadopta/dinoflap/pkg/ports"
)

// UserSinks 绑定到单个 Nakama 用户的 RewardSink/ScoreSink
type UserSinks struct {
	economy *EconomyAdapter
	scores  *BestScoreAdapter
	userID  string
}

var _ ports.Sinks = (*UserSinks)(nil)

// NewUserSinks 创建用户级 sink
func NewUserSinks(economy *EconomyAdapter, scores *BestScoreAdapter, userID string) *UserSinks {
	return &UserSinks{economy: economy, scores: scores, userID: userID}
}

// SubmitReward 实现 ports.RewardSink
func (s *UserSinks) SubmitReward(ctx context.Context, points int) error {
	_, err := s.economy.AddPoints(ctx, s.userID, points, map[string]interface{}{"source": "dinoflap"})
	return err
}

// SubmitRunResult 实现 ports.ScoreSink
func (s *UserSinks) SubmitRunResult(ctx context.Context, finalScore int) (ports.RunResult, error) {
	return s.scores.RecordRun(ctx, s.userID, finalScore)
}
