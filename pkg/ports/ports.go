// Package ports 定义模拟核心与外部协作者（积分账户、最佳成绩记录）之间的边界。
package ports

import (
	"context"
	"errors"
)

// ErrInvalidAmount 奖励数量必须为正数
var ErrInvalidAmount = errors.New("points amount must be positive")

// ErrInvalidScore 成绩不能为负
var ErrInvalidScore = errors.New("final score must not be negative")

// RunResult 提交一局成绩后的结果
type RunResult struct {
	IsNewRecord bool `json:"isNewRecord"`
	BestScore   int  `json:"bestScore"`
}

// RewardSink 积分账户：为当前玩家增加 DinoPoints
type RewardSink interface {
	SubmitReward(ctx context.Context, points int) error
}

// ScoreSink 最佳成绩记录
type ScoreSink interface {
	SubmitRunResult(ctx context.Context, finalScore int) (RunResult, error)
}

// Sinks 同时实现两个接口的协作者（本地存档、HTTP 客户端）
type Sinks interface {
	RewardSink
	ScoreSink
}

// ValidateAmount 校验奖励数量
func ValidateAmount(points int) error {
	if points <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateScore 校验成绩
func ValidateScore(finalScore int) error {
	if finalScore < 0 {
		return ErrInvalidScore
	}
	return nil
}
