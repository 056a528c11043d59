package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"

	"github.com/dinoadopta/dinoflap/pkg/ports"
)

// WalletModule runtime.NakamaModule 中钱包相关的子集
type WalletModule interface {
	AccountGetId(ctx context.Context, userID string) (*api.Account, error)
	WalletUpdate(ctx context.Context, userID string, changeset map[string]int64, metadata map[string]interface{}, updateLedger bool) (updated map[string]int64, previous map[string]int64, err error)
}

// EconomyAdapter 使用 Nakama 钱包保存 DinoPoints
type EconomyAdapter struct {
	nk WalletModule
}

// NewEconomyAdapter 创建钱包适配器
func NewEconomyAdapter(nk WalletModule) *EconomyAdapter {
	return &EconomyAdapter{nk: nk}
}

// GetBalance 读取用户的 DinoPoints 余额
func (a *EconomyAdapter) GetBalance(ctx context.Context, userID string) (int64, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}

	wallet := map[string]int64{}
	if account.Wallet != "" {
		if err := json.Unmarshal([]byte(account.Wallet), &wallet); err != nil {
			return 0, fmt.Errorf("failed to unmarshal wallet: %w", err)
		}
	}
	return wallet[WalletCurrency], nil
}

// AddPoints 增加 DinoPoints 并写入钱包流水，返回新余额
func (a *EconomyAdapter) AddPoints(ctx context.Context, userID string, points int, metadata map[string]interface{}) (int64, error) {
	if err := ports.ValidateAmount(points); err != nil {
		return 0, err
	}

	changes := map[string]int64{WalletCurrency: int64(points)}
	updated, _, err := a.nk.WalletUpdate(ctx, userID, changes, metadata, true)
	if err != nil {
		return 0, fmt.Errorf("failed to update wallet for user %s: %w", userID, err)
	}
	return updated[WalletCurrency], nil
}
