// dinoflap-term 在终端里运行小游戏
//
// 与桌面版共用模拟、HostBridge 和玩家档案，只替换了展示层：
// tcell 负责绘制和输入，beep 负责提示音。
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/quasilyte/gdata/v2"

	"github.com/dinoadopta/dinoflap/internal/term"
	"github.com/dinoadopta/dinoflap/pkg/account"
	"github.com/dinoadopta/dinoflap/pkg/config"
	"github.com/dinoadopta/dinoflap/pkg/game"
)

// appName 与桌面版共用同一份设置和档案
const appName = "dinoflap"

func main() {
	configPath := flag.String("config", "", "小游戏配置文件（默认使用内置默认值）")
	userID := flag.String("user", "", "积分入账的玩家ID（保存到设置）")
	apiURL := flag.String("api", "", "积分服务地址，\"-\" 表示离线")
	seed := flag.Int64("seed", 0, "随机种子（0 使用配置值）")
	logPath := flag.String("verbose", "", "把日志写入指定文件（终端被游戏占用）")
	mute := flag.Bool("mute", false, "关闭提示音")
	flag.Parse()

	if err := run(*configPath, *userID, *apiURL, *seed, *logPath, *mute); err != nil {
		fmt.Fprintf(os.Stderr, "dinoflap-term: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, userID, apiURL string, seed int64, logPath string, mute bool) error {
	// 日志不能写到 tcell 占用的终端上
	log.SetOutput(io.Discard)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg := config.DefaultMinigameConfig()
	if configPath != "" {
		loaded, err := config.LoadMinigameConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[Term] Warning: gdata unavailable, profiles are kept in memory: %v", err)
		gdataManager = nil
	}
	settingsManager, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		log.Printf("[Term] Warning: settings unavailable, using defaults: %v", err)
	}
	if err := account.ApplyOverrides(settingsManager, userID, apiURL); err != nil {
		return err
	}
	settings := settingsManager.GetSettings()

	sinks, err := account.SelectSinks(settings, game.NewProfileStore(gdataManager))
	if err != nil {
		return err
	}

	volume := settings.EffectiveVolume()
	if mute {
		volume = 0
	}
	sound := term.NewSoundBoard(volume)
	defer sound.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	runner, err := term.NewRunner(screen, cfg, sinks, sound)
	if err != nil {
		return err
	}
	defer runner.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("[Term] Playing as %s (api=%q)", settings.PlayerID, settings.APIURL)
	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
