package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/dinoadopta/dinoflap/pkg/app"
	"github.com/dinoadopta/dinoflap/pkg/embedded"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志")
	configPath := flag.String("config", "", "小游戏配置文件（默认使用嵌入的 data/minigame.yaml）")
	userID := flag.String("user", "", "积分入账的玩家ID（保存到设置）")
	apiURL := flag.String("api", "", "积分服务地址，\"-\" 表示离线")
	seed := flag.Int64("seed", 0, "随机种子（0 使用配置值）")
	flag.Parse()

	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		UserID:     *userID,
		APIURL:     *apiURL,
		Seed:       *seed,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	w, h := gameApp.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("DinoFlap - DinoAdopta")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetFullscreen(gameApp.Settings().Fullscreen)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
	gameApp.Shutdown()
}
