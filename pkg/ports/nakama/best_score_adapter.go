package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"

	"github.com/dinoadopta/dinoflap/pkg/ports"
)

// AccountModule runtime.NakamaModule 中账户相关的子集
type AccountModule interface {
	AccountGetId(ctx context.Context, userID string) (*api.Account, error)
	AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error
}

// BestScoreAdapter 把最佳成绩保存在账户 metadata 中
//
// AccountUpdateId 会整体替换 metadata，因此先读出原有内容再合并。
type BestScoreAdapter struct {
	nk AccountModule
}

// NewBestScoreAdapter 创建成绩适配器
func NewBestScoreAdapter(nk AccountModule) *BestScoreAdapter {
	return &BestScoreAdapter{nk: nk}
}

// RecordRun 提交一局成绩，刷新纪录时写回 metadata
func (a *BestScoreAdapter) RecordRun(ctx context.Context, userID string, finalScore int) (ports.RunResult, error) {
	if err := ports.ValidateScore(finalScore); err != nil {
		return ports.RunResult{}, err
	}

	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return ports.RunResult{}, fmt.Errorf("failed to get account: %w", err)
	}

	metadata, err := accountMetadata(account)
	if err != nil {
		return ports.RunResult{}, err
	}

	best := metadataInt(metadata, BestScoreMetadataKey)
	if finalScore <= best {
		return ports.RunResult{IsNewRecord: false, BestScore: best}, nil
	}

	metadata[BestScoreMetadataKey] = finalScore
	if err := a.nk.AccountUpdateId(ctx, userID, "", metadata, "", "", "", "", ""); err != nil {
		return ports.RunResult{}, fmt.Errorf("failed to update account metadata: %w", err)
	}
	return ports.RunResult{IsNewRecord: true, BestScore: finalScore}, nil
}

func accountMetadata(account *api.Account) (map[string]interface{}, error) {
	metadata := map[string]interface{}{}
	if account == nil || account.User == nil || account.User.Metadata == "" {
		return metadata, nil
	}
	if err := json.Unmarshal([]byte(account.User.Metadata), &metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account metadata: %w", err)
	}
	return metadata, nil
}

// metadataInt JSON 数字解码为 float64
func metadataInt(metadata map[string]interface{}, key string) int {
	switch v := metadata[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}
