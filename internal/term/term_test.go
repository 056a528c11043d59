package term

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dinoadopta/dinoflap/pkg/components"
	"github.com/dinoadopta/dinoflap/pkg/config"
	"github.com/dinoadopta/dinoflap/pkg/game"
	"github.com/dinoadopta/dinoflap/pkg/ports"
	"github.com/dinoadopta/dinoflap/pkg/simulation"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() error = %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func newTestRunner(t *testing.T, sinks ports.Sinks) (*Runner, tcell.SimulationScreen) {
	t.Helper()
	screen := newTestScreen(t, 48, 24)
	cfg := config.DefaultMinigameConfig()
	cfg.PickupChance = 0

	r, err := NewRunner(screen, cfg, sinks, nil, simulation.WithRand(rand.New(rand.NewSource(5))))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	t.Cleanup(r.Close)
	return r, screen
}

// rowText 读取一行字符
func rowText(screen tcell.SimulationScreen, row int) string {
	w, _ := screen.Size()
	var sb strings.Builder
	for c := 0; c < w; c++ {
		ch, _, _, _ := screen.GetContent(c, row)
		sb.WriteRune(ch)
	}
	return sb.String()
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestFlyerGlyph(t *testing.T) {
	tests := []struct {
		velocity float64
		want     rune
	}{
		{-420, '/'},
		{0, '>'},
		{60, '>'},
		{600, '\\'},
	}
	for _, tt := range tests {
		if got := flyerGlyph(tt.velocity); got != tt.want {
			t.Errorf("flyerGlyph(%v) = %q, want %q", tt.velocity, got, tt.want)
		}
	}
}

func TestRenderer_ScalesWorldToCells(t *testing.T) {
	screen := newTestScreen(t, 48, 34) // 场地 32 行 -> 每行 20px，每列 10px
	cfg := config.DefaultMinigameConfig()
	r := NewRenderer(screen, cfg)

	snap := simulation.Snapshot{
		State: simulation.StateRunning,
		Flyer: components.FlyerComponent{Y: 320},
		Run:   components.NewRunState(cfg.BaseSpeed, cfg.BaseSpawnIntervalMs),
		Obstacles: []components.ObstacleComponent{
			{X: 300, GapTop: 200, GapSize: 160, Width: 64},
		},
		Pickups: []components.PickupComponent{{X: 332, Y: 280, Size: 20}},
	}
	r.Draw(snap, Overlay{})

	// 障碍物占据 30..35 列；缺口 200..360px -> 第 11..19 行
	if ch, _, _, _ := screen.GetContent(30, 1); ch != glyphObstacle {
		t.Errorf("top piece missing at (30,1): %q", ch)
	}
	if ch, _, _, _ := screen.GetContent(30, 15); ch == glyphObstacle {
		t.Error("gap is filled at (30,15)")
	}
	if ch, _, _, _ := screen.GetContent(30, 30); ch != glyphObstacle {
		t.Errorf("bottom piece missing at (30,30): %q", ch)
	}
	if ch, _, _, _ := screen.GetContent(29, 1); ch == glyphObstacle {
		t.Error("obstacle drawn left of its X")
	}
	if ch, _, _, _ := screen.GetContent(33, 15); ch != glyphPickup {
		t.Errorf("pickup missing at (33,15): %q", ch)
	}
	if ch, _, _, _ := screen.GetContent(10, 17); ch != '>' {
		t.Errorf("flyer missing at (10,17): %q", ch)
	}
	if !strings.Contains(rowText(screen, 0), "Score 0") {
		t.Errorf("HUD = %q", rowText(screen, 0))
	}
}

func TestRenderer_TooSmall(t *testing.T) {
	screen := newTestScreen(t, 10, 3)
	r := NewRenderer(screen, config.DefaultMinigameConfig())
	r.Draw(simulation.Snapshot{}, Overlay{})

	if !strings.HasPrefix(rowText(screen, 0), "terminal t") {
		t.Errorf("row 0 = %q", rowText(screen, 0))
	}
}

func TestRunner_Keys(t *testing.T) {
	r, _ := newTestRunner(t, nil)

	if !r.HandleEvent(key(' ')) {
		t.Fatal("space should not quit")
	}
	if r.State() != simulation.StateRunning {
		t.Fatalf("state = %v, want Running", r.State())
	}
	if !r.HandleEvent(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)) {
		t.Fatal("up should not quit")
	}

	quitKeys := []*tcell.EventKey{
		key('q'),
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl),
	}
	for _, ev := range quitKeys {
		if r.HandleEvent(ev) {
			t.Errorf("key %v should quit", ev.Name())
		}
	}
}

func TestRunner_CrashSubmitsAndRestarts(t *testing.T) {
	store := game.NewProfileStore(nil)
	account, _ := store.ForUser("rex")
	r, screen := newTestRunner(t, account)

	r.HandleEvent(key(' '))
	for i := 0; i < 600 && r.State() != simulation.StateOver; i++ {
		r.Step(FrameTime.Seconds())
	}
	if r.State() != simulation.StateOver {
		t.Fatal("run never ended")
	}

	r.Bridge().Wait()
	r.Step(FrameTime.Seconds())
	if len(r.toasts) != 1 || !strings.HasPrefix(r.toasts[0].message, "Score 0 saved") {
		t.Errorf("toasts = %+v", r.toasts)
	}
	if p, _ := store.Get("rex"); p.RunsPlayed != 1 {
		t.Errorf("RunsPlayed = %d", p.RunsPlayed)
	}

	// 撞击后立即扑翼不重开
	r.HandleEvent(key(' '))
	if r.State() != simulation.StateOver {
		t.Fatal("flap right after the crash restarted the run")
	}

	found := false
	for row := 0; row < 24; row++ {
		if strings.Contains(rowText(screen, row), "GAME OVER") {
			found = true
		}
	}
	if !found {
		t.Error("game over panel not drawn")
	}

	r.HandleEvent(key('r'))
	if r.State() != simulation.StateIdle {
		t.Errorf("state after r = %v, want Idle", r.State())
	}
}

// TestRunner_RunQuits 输入 goroutine 把按键送进主循环
func TestRunner_RunQuits(t *testing.T) {
	r, screen := newTestRunner(t, nil)

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after q")
	}
}

func TestRunner_RunContextCancel(t *testing.T) {
	r, _ := newTestRunner(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := r.Run(ctx); err != context.DeadlineExceeded {
		t.Errorf("Run() error = %v, want DeadlineExceeded", err)
	}
}
