// Nakama 运行时插件入口
//
// 构建:
//
//	go build -buildmode=plugin -trimpath -o ./dinoflap.so ./cmd/nakama
package main

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"github.com/dinoadopta/dinoflap/pkg/ports/nakama"
)

// InitModule 由 Nakama 在加载插件时调用，转交给 nakama 适配包注册 RPC
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	return nakama.InitModule(ctx, logger, db, nk, initializer)
}
