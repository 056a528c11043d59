package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/heroiclabs/nakama-common/runtime"

	"github.com/dinoadopta/dinoflap/pkg/ports"
)

type submitRewardRequest struct {
	Points int `json:"points"`
	Score  int `json:"score"`
}

type submitRewardResponse struct {
	DinoPoints int64 `json:"dinoPoints"`
}

type submitRunRequest struct {
	FinalScore int `json:"finalScore"`
}

// RegisterRPCs 注册小游戏 RPC
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcSubmitReward, RpcSubmitRewardHandler); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcSubmitRun, RpcSubmitRunHandler)
}

func userIDFromContext(ctx context.Context) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("No user ID in context", codeUnauthenticated)
	}
	return userID, nil
}

// RpcSubmitRewardHandler 为调用者的钱包增加 DinoPoints
//
// Payload: {"points": 20, "score": 10}
// Returns: {"dinoPoints": <新余额>}
func RpcSubmitRewardHandler(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return "", err
	}

	var req submitRewardRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", codeInvalidArgument)
	}

	balance, err := NewEconomyAdapter(nk).AddPoints(ctx, userID, req.Points, map[string]interface{}{
		"source": "dinoflap",
		"score":  req.Score,
	})
	if err != nil {
		if errors.Is(err, ports.ErrInvalidAmount) {
			return "", runtime.NewError(err.Error(), codeInvalidArgument)
		}
		logger.Error("RpcSubmitReward [User:%s]: %v", userID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}

	logger.Info("RpcSubmitReward [User:%s]: +%d DinoPoints (balance %d)", userID, req.Points, balance)
	out, _ := json.Marshal(submitRewardResponse{DinoPoints: balance})
	return string(out), nil
}

// RpcSubmitRunHandler 记录调用者的一局成绩
//
// Payload: {"finalScore": 42}
// Returns: {"isNewRecord": true, "bestScore": 42}
func RpcSubmitRunHandler(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return "", err
	}

	var req submitRunRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", codeInvalidArgument)
	}

	result, err := NewBestScoreAdapter(nk).RecordRun(ctx, userID, req.FinalScore)
	if err != nil {
		if errors.Is(err, ports.ErrInvalidScore) {
			return "", runtime.NewError(err.Error(), codeInvalidArgument)
		}
		logger.Error("RpcSubmitRun [User:%s]: %v", userID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}

	if result.IsNewRecord {
		logger.Info("RpcSubmitRun [User:%s]: new record %d", userID, result.BestScore)
	}
	out, _ := json.Marshal(result)
	return string(out), nil
}
