package term

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	synth "github.com/dinoadopta/dinoflap/internal/audio"
	"github.com/dinoadopta/dinoflap/pkg/bridge"
	"github.com/dinoadopta/dinoflap/pkg/config"
	"github.com/dinoadopta/dinoflap/pkg/events"
	"github.com/dinoadopta/dinoflap/pkg/ports"
	"github.com/dinoadopta/dinoflap/pkg/simulation"
)

const (
	// FrameTime 固定步长
	FrameTime = time.Second / 60

	restartDelay  = 0.5 // 秒，结束后多久才接受扑翼作为重开
	toastDuration = 2.5 // 秒
)

type toast struct {
	message   string
	remaining float64
}

// Runner 终端版主循环
//
// 输入 goroutine 只负责把 tcell 事件送进 channel，
// 模拟、HostBridge、绘制都在 Run 的 select 循环里串行执行。
type Runner struct {
	screen   tcell.Screen
	sim      *simulation.Simulation
	bridge   *bridge.HostBridge
	sound    *SoundBoard
	renderer *Renderer

	overElapsed   float64
	sessionPoints int
	bestScore     int
	lastCombo     int
	toasts        []toast
	closed        bool
}

// NewRunner 创建终端主循环
//
// 参数:
//   - screen: 已初始化的 tcell 屏幕
//   - cfg: 小游戏配置
//   - sinks: 积分账户与成绩记录，nil 表示离线
//   - sound: 提示音，可为 nil
func NewRunner(screen tcell.Screen, cfg *config.MinigameConfig, sinks ports.Sinks, sound *SoundBoard, opts ...simulation.Option) (*Runner, error) {
	sim, err := simulation.New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	r := &Runner{
		screen:   screen,
		sim:      sim,
		sound:    sound,
		renderer: NewRenderer(screen, cfg),
	}

	var rewards ports.RewardSink
	var scores ports.ScoreSink
	if sinks != nil {
		rewards, scores = sinks, sinks
	}
	r.bridge = bridge.New(rewards, scores, bridge.WithNotifier(bridge.NotifierFunc(r.onEvent)))
	return r, nil
}

// Run 运行直到玩家退出或 ctx 结束
func (r *Runner) Run(ctx context.Context) error {
	evCh := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case evCh <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(FrameTime)
	defer ticker.Stop()

	r.Step(0)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-evCh:
			if !r.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			r.Step(FrameTime.Seconds())
		}
	}
}

// HandleEvent 处理一个 tcell 事件，返回 false 表示退出
func (r *Runner) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return false
		case ev.Key() == tcell.KeyUp:
			r.flap()
		case ev.Key() == tcell.KeyEnter:
			r.restart()
		case ev.Key() == tcell.KeyRune:
			switch ev.Rune() {
			case ' ', 'w', 'W', 'k':
				r.flap()
			case 'r', 'R':
				r.restart()
			}
		}
	case *tcell.EventResize:
		r.screen.Sync()
	}
	return true
}

func (r *Runner) flap() {
	if r.sim.State() == simulation.StateOver {
		if r.overElapsed >= restartDelay {
			r.sim.Restart()
		}
		return
	}
	if r.sim.Jump() {
		r.sound.Play(synth.CueJump)
	}
}

func (r *Runner) restart() {
	r.sim.Restart()
}

// Step 推进一帧：模拟 -> HostBridge -> 确认消息 -> 绘制
func (r *Runner) Step(dt float64) {
	r.sim.Tick(dt)
	r.bridge.Pump(r.sim.Events())

	for _, ack := range r.bridge.TakeAcknowledgments() {
		if ack.Kind == bridge.AckRunResult || ack.Kind == bridge.AckNewRecord {
			r.bestScore = ack.BestScore
		}
		r.toasts = append(r.toasts, toast{message: ack.Message, remaining: toastDuration})
	}

	snap := r.sim.Snapshot()
	if snap.Run.ComboCount > r.lastCombo {
		r.sound.Play(synth.CuePickup)
	}
	r.lastCombo = snap.Run.ComboCount
	if snap.State == simulation.StateOver {
		r.overElapsed += dt
	}

	live := r.toasts[:0]
	messages := make([]string, 0, len(r.toasts))
	for _, t := range r.toasts {
		t.remaining -= dt
		if t.remaining > 0 {
			live = append(live, t)
			messages = append(messages, t.message)
		}
	}
	r.toasts = live

	r.renderer.Draw(snap, Overlay{
		SessionPoints: r.sessionPoints,
		BestScore:     r.bestScore,
		Toasts:        messages,
		RestartReady:  snap.State == simulation.StateOver && r.overElapsed >= restartDelay,
	})
}

// onEvent HostBridge 通知回调（在 Step 所在的 goroutine 上）
func (r *Runner) onEvent(ev events.GameEvent) {
	switch ev.Type {
	case events.EventRewardEarned:
		if p, ok := ev.Payload.(events.RewardEarnedPayload); ok {
			r.sessionPoints += p.Points
		}
		r.sound.Play(synth.CueReward)
	case events.EventOver:
		r.overElapsed = 0
		r.sound.Play(synth.CueCrash)
	case events.EventReset:
		r.sessionPoints = 0
		r.lastCombo = 0
	}
}

// State 当前模拟状态
func (r *Runner) State() simulation.State {
	return r.sim.State()
}

// Bridge 返回 HostBridge
func (r *Runner) Bridge() *bridge.HostBridge {
	return r.bridge
}

// Close 关闭 HostBridge 和模拟，不关闭屏幕和扬声器
func (r *Runner) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.bridge.Close()
	r.sim.Close()
	log.Printf("[Term] Runner closed")
}
