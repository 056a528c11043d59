// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/dinoadopta/dinoflap/pkg/account"
	"github.com/dinoadopta/dinoflap/pkg/config"
	"github.com/dinoadopta/dinoflap/pkg/embedded"
	"github.com/dinoadopta/dinoflap/pkg/game"
	"github.com/dinoadopta/dinoflap/pkg/scenes"
	"github.com/dinoadopta/dinoflap/pkg/utils"
)

// AppName gdata 存储使用的应用名
const AppName = "dinoflap"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 小游戏配置文件路径，为空则使用嵌入的 data/minigame.yaml
	ConfigPath string
	// UserID 覆盖设置中保存的玩家ID（同时写回设置）
	UserID string
	// APIURL 覆盖设置中保存的积分服务地址，"-" 表示强制离线
	APIURL string
	// Seed 覆盖配置中的随机种子，0 表示不覆盖
	Seed int64
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager    *game.SceneManager
	settingsManager *game.SettingsManager
	minigameConfig  *config.MinigameConfig
	verbose         bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
	shutdown                 bool
}

// NewApp 创建并初始化游戏应用
//
// 使用嵌入配置前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	minigameConfig, err := LoadMinigameConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("小游戏配置加载失败: %w", err)
	}
	if cfg.Seed != 0 {
		minigameConfig.Seed = cfg.Seed
	}

	// 持久化存储，失败时降级为纯内存
	if err := utils.PrepareStorage(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, settings and profiles are not persisted: %v", err)
		gdataManager = nil
	}

	settingsManager, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		log.Printf("[App] Warning: settings unavailable, using defaults: %v", err)
	}
	if err := account.ApplyOverrides(settingsManager, cfg.UserID, cfg.APIURL); err != nil {
		return nil, err
	}
	profileStore := game.NewProfileStore(gdataManager)

	audioContext := audio.NewContext(game.AudioSampleRate)
	audioManager := game.NewAudioManager(audioContext, settingsManager)
	log.Printf("[App] AudioManager initialized")

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func() (game.Scene, error) {
		sinks, err := account.SelectSinks(settingsManager.GetSettings(), profileStore)
		if err != nil {
			return nil, err
		}
		return scenes.NewMinigameScene(minigameConfig, sinks, audioManager)
	})
	if !sceneManager.Reload() {
		return nil, fmt.Errorf("无法创建小游戏场景")
	}

	return &App{
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
		minigameConfig:  minigameConfig,
		verbose:         cfg.Verbose,
	}, nil
}

// LoadMinigameConfig 读取小游戏配置
//
// 优先级：path 指定的文件 > 嵌入的 data/minigame.yaml > 内置默认值。
func LoadMinigameConfig(path string) (*config.MinigameConfig, error) {
	if path != "" {
		return config.LoadMinigameConfig(path)
	}
	if embedded.IsInitialized() {
		data, err := embedded.ReadFile(config.DefaultMinigameConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded config: %w", err)
		}
		return config.ParseMinigameConfig(data)
	}
	log.Printf("[App] No config file, using built-in defaults")
	return config.DefaultMinigameConfig(), nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.Shutdown()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			w, h := a.Layout(0, 0)
			ebiten.SetWindowSize(w, h)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", w, h)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	// M 静音
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		settings := a.settingsManager.GetSettings()
		a.settingsManager.SetSoundEnabled(!settings.SoundEnabled)
		a.saveSettings()
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		a.settingsManager.SetFullscreen(false)
	} else {
		ebiten.SetFullscreen(true)
		a.settingsManager.SetFullscreen(true)
	}
	a.saveSettings()
}

func (a *App) saveSettings() {
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: Failed to save settings: %v", err)
	}
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸（世界尺寸）
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(a.minigameConfig.WorldWidth), int(a.minigameConfig.WorldHeight)
}

// Shutdown 关闭当前场景；进行中的积分提交结果会被丢弃
func (a *App) Shutdown() {
	if a.shutdown {
		return
	}
	a.shutdown = true
	a.sceneManager.Close()
	log.Printf("[App] Shutdown")
}

// Settings 返回当前设置（启动时决定是否全屏）
func (a *App) Settings() *game.GameSettings {
	return a.settingsManager.GetSettings()
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
