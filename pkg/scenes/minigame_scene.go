package scenes

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	synth "github.com/dinoadopta/dinoflap/internal/audio"
	"github.com/dinoadopta/dinoflap/pkg/bridge"
	"github.com/dinoadopta/dinoflap/pkg/config"
	"github.com/dinoadopta/dinoflap/pkg/events"
	"github.com/dinoadopta/dinoflap/pkg/game"
	"github.com/dinoadopta/dinoflap/pkg/ports"
	"github.com/dinoadopta/dinoflap/pkg/simulation"
)

const (
	// restartDelay 结束后多久才接受扑翼作为重开，避免撞击瞬间的连按直接开新局
	restartDelay = 0.5
	// toastDuration 确认消息显示时长（秒）
	toastDuration = 2.5
)

// Input 一帧的玩家输入
type Input struct {
	Flap    bool // 扑翼（结束画面中也作为重开）
	Restart bool // 显式重开
}

// InputSource 每帧调用一次，返回本帧输入
type InputSource func() Input

// KeyboardMouseTouchInput 读取键盘、鼠标和触摸输入
//
// Space/Up/W、鼠标左键、任意新触点 -> 扑翼；R/Enter -> 重开。
func KeyboardMouseTouchInput() Input {
	flap := inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) ||
		inpututil.IsKeyJustPressed(ebiten.KeyW) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		len(inpututil.AppendJustPressedTouchIDs(nil)) > 0

	restart := inpututil.IsKeyJustPressed(ebiten.KeyR) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEnter)

	return Input{Flap: flap, Restart: restart}
}

// toast 短暂显示的确认消息
type toast struct {
	message   string
	kind      bridge.AckKind
	remaining float64
}

// MinigameScene 小游戏场景
//
// 持有模拟和 HostBridge：每帧读取输入、推进模拟、把事件交给 HostBridge，
// 然后从快照绘制画面。所有调用都在 Ebitengine 的 Update 线程上。
type MinigameScene struct {
	cfg          *config.MinigameConfig
	sim          *simulation.Simulation
	bridge       *bridge.HostBridge
	audioManager *game.AudioManager
	input        InputSource

	snapshot    simulation.Snapshot
	lastCombo   int
	overElapsed float64

	// HUD
	sessionPoints int // 本局已获得的 DinoPoints
	bestScore     int // 最近一次外部确认的最佳成绩
	toasts        []toast

	flyerImage *ebiten.Image // 懒加载
}

// SceneOption 场景构造选项
type SceneOption func(*sceneOptions)

type sceneOptions struct {
	input   InputSource
	simOpts []simulation.Option
}

// WithInput 替换输入源（测试、回放）
func WithInput(input InputSource) SceneOption {
	return func(o *sceneOptions) { o.input = input }
}

// WithSimulationOptions 透传模拟选项
func WithSimulationOptions(opts ...simulation.Option) SceneOption {
	return func(o *sceneOptions) { o.simOpts = append(o.simOpts, opts...) }
}

// NewMinigameScene 创建小游戏场景
//
// 参数:
//   - cfg: 小游戏配置（构造时校验）
//   - sinks: 积分账户与成绩记录，nil 表示离线（不提交）
//   - am: 音频管理器，可为 nil
func NewMinigameScene(cfg *config.MinigameConfig, sinks ports.Sinks, am *game.AudioManager, opts ...SceneOption) (*MinigameScene, error) {
	o := sceneOptions{input: KeyboardMouseTouchInput}
	for _, opt := range opts {
		opt(&o)
	}

	sim, err := simulation.New(cfg, o.simOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	scene := &MinigameScene{
		cfg:          cfg,
		sim:          sim,
		audioManager: am,
		input:        o.input,
	}

	var rewards ports.RewardSink
	var scores ports.ScoreSink
	if sinks != nil {
		rewards, scores = sinks, sinks
	}
	scene.bridge = bridge.New(rewards, scores, bridge.WithNotifier(bridge.NotifierFunc(scene.onEvent)))
	scene.snapshot = sim.Snapshot()

	log.Printf("[MinigameScene] Created (online=%v)", sinks != nil)
	return scene, nil
}

// Update 处理输入、推进模拟、分发事件
func (s *MinigameScene) Update(deltaTime float64) {
	s.handleInput(s.input())

	s.sim.Tick(deltaTime)
	s.bridge.Pump(s.sim.Events())

	for _, ack := range s.bridge.TakeAcknowledgments() {
		s.onAcknowledgment(ack)
	}

	s.snapshot = s.sim.Snapshot()
	if s.snapshot.Run.ComboCount > s.lastCombo {
		s.playCue(synth.CuePickup)
	}
	s.lastCombo = s.snapshot.Run.ComboCount

	if s.snapshot.State == simulation.StateOver {
		s.overElapsed += deltaTime
	}
	s.ageToasts(deltaTime)
}

func (s *MinigameScene) handleInput(in Input) {
	switch s.sim.State() {
	case simulation.StateOver:
		if in.Restart || (in.Flap && s.overElapsed >= restartDelay) {
			s.sim.Restart()
		}
	default:
		if in.Flap && s.sim.Jump() {
			s.playCue(synth.CueJump)
		}
	}
}

// onEvent HostBridge 通知回调（在 Update 线程上）
func (s *MinigameScene) onEvent(ev events.GameEvent) {
	switch ev.Type {
	case events.EventRewardEarned:
		if p, ok := ev.Payload.(events.RewardEarnedPayload); ok {
			s.sessionPoints += p.Points
		}
		s.playCue(synth.CueReward)
	case events.EventOver:
		s.overElapsed = 0
		s.playCue(synth.CueCrash)
	case events.EventReset:
		s.sessionPoints = 0
		s.lastCombo = 0
	}
}

func (s *MinigameScene) onAcknowledgment(ack bridge.Acknowledgment) {
	if ack.Kind == bridge.AckRunResult || ack.Kind == bridge.AckNewRecord {
		s.bestScore = ack.BestScore
	}
	s.toasts = append(s.toasts, toast{message: ack.Message, kind: ack.Kind, remaining: toastDuration})
}

func (s *MinigameScene) ageToasts(dt float64) {
	live := s.toasts[:0]
	for _, t := range s.toasts {
		t.remaining -= dt
		if t.remaining > 0 {
			live = append(live, t)
		}
	}
	s.toasts = live
}

func (s *MinigameScene) playCue(cue synth.Cue) {
	if s.audioManager != nil {
		s.audioManager.PlayCue(cue)
	}
}

// Close 关闭 HostBridge 和模拟；进行中的外部调用结果被丢弃
func (s *MinigameScene) Close() {
	s.bridge.Close()
	s.sim.Close()
	log.Printf("[MinigameScene] Closed")
}

// Snapshot 返回最近一帧的快照
func (s *MinigameScene) Snapshot() simulation.Snapshot {
	return s.snapshot
}

// Bridge 返回场景持有的 HostBridge
func (s *MinigameScene) Bridge() *bridge.HostBridge {
	return s.bridge
}
