// Package account 根据设置选择奖励和成绩的去向
package account

import (
	"fmt"
	"log"

	"github.com/dinoadopta/dinoflap/pkg/game"
	"github.com/dinoadopta/dinoflap/pkg/ports"
	"github.com/dinoadopta/dinoflap/pkg/ports/httpsink"
)

// SelectSinks 按设置选择积分账户
//
// 配置了 APIURL 时提交到后端，否则记入本地档案（离线模式）。
func SelectSinks(settings *game.GameSettings, store *game.ProfileStore) (ports.Sinks, error) {
	if settings.APIURL != "" {
		client, err := httpsink.New(settings.APIURL, settings.PlayerID)
		if err != nil {
			return nil, err
		}
		log.Printf("[Account] Rewards go to %s as %s", settings.APIURL, settings.PlayerID)
		return client, nil
	}
	log.Printf("[Account] Offline mode, rewards go to local profile %s", settings.PlayerID)
	return store.ForUser(settings.PlayerID)
}

// ApplyOverrides 把命令行指定的玩家和服务地址写入设置并保存
//
// 参数:
//   - userID: 为空时不修改
//   - apiURL: 为空时不修改，"-" 表示清除（强制离线）
func ApplyOverrides(sm *game.SettingsManager, userID, apiURL string) error {
	changed := false
	if userID != "" {
		if err := sm.SetPlayerID(userID); err != nil {
			return fmt.Errorf("invalid player id: %w", err)
		}
		changed = true
	}
	switch apiURL {
	case "":
	case "-":
		sm.SetAPIURL("")
		changed = true
	default:
		sm.SetAPIURL(apiURL)
		changed = true
	}
	if changed {
		if err := sm.Save(); err != nil {
			log.Printf("[Account] Warning: Failed to save settings: %v", err)
		}
	}
	return nil
}
