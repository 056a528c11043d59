// Package term 终端版小游戏：tcell 绘制、beep 提示音
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dinoadopta/dinoflap/pkg/config"
	"github.com/dinoadopta/dinoflap/pkg/simulation"
)

// 终端样式
var (
	styleObstacle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	stylePickup   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleFlyer    = tcell.StyleDefault.Foreground(tcell.ColorLightGreen).Bold(true)
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleHint     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleToast    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	stylePanel    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkRed)
)

const (
	glyphObstacle = '█'
	glyphPickup   = '*'
	glyphGround   = '▔'
)

// 画面最小尺寸：HUD 一行 + 场地 + 提示一行
const (
	minCols = 20
	minRows = 6
)

// Overlay 模拟之外的展示信息
type Overlay struct {
	SessionPoints int
	BestScore     int
	Toasts        []string
	RestartReady  bool
}

// Renderer 把世界坐标缩放到终端字符格
//
// 第 0 行是 HUD，最后一行是操作提示，中间是场地。
type Renderer struct {
	screen tcell.Screen
	cfg    *config.MinigameConfig
}

// NewRenderer 创建渲染器
func NewRenderer(screen tcell.Screen, cfg *config.MinigameConfig) *Renderer {
	return &Renderer{screen: screen, cfg: cfg}
}

// field 场地在屏幕上的行列范围
type field struct {
	cols, rows int
}

func (r *Renderer) field() (field, bool) {
	w, h := r.screen.Size()
	if w < minCols || h < minRows {
		return field{}, false
	}
	return field{cols: w, rows: h - 2}, true
}

// col 世界 X -> 列
func (r *Renderer) col(f field, x float64) int {
	return int(x * float64(f.cols) / r.cfg.WorldWidth)
}

// row 世界 Y -> 行（场地从第 1 行开始）
func (r *Renderer) row(f field, y float64) int {
	rw := int(y * float64(f.rows) / r.cfg.WorldHeight)
	if rw >= f.rows {
		rw = f.rows - 1
	}
	if rw < 0 {
		rw = 0
	}
	return rw + 1
}

// Draw 绘制一帧并刷新屏幕
func (r *Renderer) Draw(snap simulation.Snapshot, ov Overlay) {
	r.screen.Clear()

	f, ok := r.field()
	if !ok {
		r.text(0, 0, "terminal too small", styleHint)
		r.screen.Show()
		return
	}

	r.drawObstacles(f, snap)
	r.drawPickups(f, snap)
	r.drawFlyer(f, snap)
	for c := 0; c < f.cols; c++ {
		r.screen.SetContent(c, f.rows, glyphGround, nil, styleHint)
	}

	r.drawHUD(f, snap, ov)
	r.drawToasts(f, ov.Toasts)

	switch snap.State {
	case simulation.StateIdle:
		r.centered(f, f.rows/2+2, "SPACE to flap", styleHUD)
	case simulation.StateOver:
		r.drawSummary(f, snap, ov)
	}

	r.text(0, f.rows+1, "SPACE/UP flap  R restart  Q quit", styleHint)
	r.screen.Show()
}

func (r *Renderer) drawObstacles(f field, snap simulation.Snapshot) {
	for _, o := range snap.Obstacles {
		left := r.col(f, o.X)
		right := r.col(f, o.Right()) - 1
		if right < left {
			right = left
		}
		top := r.row(f, o.GapTop)
		bottom := r.row(f, o.GapBottom())

		for c := max(left, 0); c <= min(right, f.cols-1); c++ {
			for rw := 1; rw <= f.rows; rw++ {
				if rw < top || rw > bottom {
					r.screen.SetContent(c, rw, glyphObstacle, nil, styleObstacle)
				}
			}
		}
	}
}

func (r *Renderer) drawPickups(f field, snap simulation.Snapshot) {
	for _, p := range snap.Pickups {
		c := r.col(f, p.X)
		if c >= 0 && c < f.cols {
			r.screen.SetContent(c, r.row(f, p.Y), glyphPickup, nil, stylePickup)
		}
	}
}

func (r *Renderer) drawFlyer(f field, snap simulation.Snapshot) {
	r.screen.SetContent(r.col(f, r.cfg.FlyerX), r.row(f, snap.Flyer.Y), flyerGlyph(snap.Flyer.VelocityY), nil, styleFlyer)
}

// flyerGlyph 按垂直速度选择字符
func flyerGlyph(velocityY float64) rune {
	switch {
	case velocityY < -60:
		return '/'
	case velocityY > 60:
		return '\\'
	default:
		return '>'
	}
}

func (r *Renderer) drawHUD(f field, snap simulation.Snapshot, ov Overlay) {
	left := fmt.Sprintf("Score %d  Speed %.0f", snap.Run.Score, snap.Run.SpeedTier)
	if snap.Run.ComboCount > 0 {
		left += fmt.Sprintf("  Combo x%d", snap.Run.ComboCount)
	}
	r.text(0, 0, left, styleHUD)

	right := fmt.Sprintf("DinoPoints +%d", ov.SessionPoints)
	if ov.BestScore > 0 {
		right += fmt.Sprintf("  Best %d", ov.BestScore)
	}
	r.text(f.cols-len(right), 0, right, styleHUD)
}

func (r *Renderer) drawToasts(f field, toasts []string) {
	for i, msg := range toasts {
		if i >= f.rows-1 {
			break
		}
		r.centered(f, 2+i, " "+msg+" ", styleToast)
	}
}

func (r *Renderer) drawSummary(f field, snap simulation.Snapshot, ov Overlay) {
	lines := []string{"GAME OVER"}
	if snap.Summary != nil {
		lines = append(lines,
			fmt.Sprintf("Final score: %d", snap.Summary.FinalScore),
			fmt.Sprintf("Top speed: %.0f", snap.Summary.MaxSpeedTier),
			fmt.Sprintf("DinoPoints: +%d", snap.Summary.TotalRewardPoints),
		)
	}
	if ov.RestartReady {
		lines = append(lines, "SPACE or R to play again")
	}

	start := f.rows/2 - len(lines)/2
	for i, line := range lines {
		r.centered(f, start+i, fmt.Sprintf(" %-24s ", line), stylePanel)
	}
}

func (r *Renderer) centered(f field, row int, s string, style tcell.Style) {
	r.text((f.cols-len([]rune(s)))/2, row, s, style)
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		if x >= 0 {
			r.screen.SetContent(x, y, ch, nil, style)
		}
		x++
	}
}
