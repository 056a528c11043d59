// dinoapi 本地 DinoPoints 账户服务
//
// 提供 /api/users/{userID}/points 与 /runs 接口，游戏通过 -api 参数连接。
//
// 用法:
//
//	go run ./cmd/dinoapi -addr :8080
package main

import (
	"flag"
	"io"
	"log"
	"net/http"

	"github.com/quasilyte/gdata/v2"

	"github.com/dinoadopta/dinoflap/pkg/api"
	"github.com/dinoadopta/dinoflap/pkg/game"
)

func main() {
	addr := flag.String("addr", ":8080", "监听地址")
	appName := flag.String("data", "dinoflap", "gdata 应用名（档案存储目录）")
	verbose := flag.Bool("verbose", true, "启用详细日志")
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	gdataManager, err := gdata.Open(gdata.Config{AppName: *appName})
	if err != nil {
		log.Printf("[API] Warning: gdata unavailable, profiles are kept in memory: %v", err)
		gdataManager = nil
	}
	store := game.NewProfileStore(gdataManager)

	log.Printf("[API] Listening on %s", *addr)
	if err := http.ListenAndServe(*addr, api.SetupRoutes(store)); err != nil {
		log.Fatalf("[API] Server stopped: %v", err)
	}
}
