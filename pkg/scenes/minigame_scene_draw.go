package scenes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/dinoadopta/dinoflap/pkg/bridge"
	"github.com/dinoadopta/dinoflap/pkg/simulation"
	"github.com/dinoadopta/dinoflap/pkg/utils"
)

var (
	skyColor      = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	groundColor   = color.RGBA{R: 222, G: 184, B: 135, A: 255}
	obstacleColor = color.RGBA{R: 86, G: 160, B: 60, A: 255}
	obstacleEdge  = color.RGBA{R: 40, G: 100, B: 30, A: 255}
	pickupColor   = color.RGBA{R: 255, G: 215, B: 0, A: 255}
	flyerColor    = color.RGBA{R: 120, G: 200, B: 90, A: 255}
	flyerEyeColor = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	panelColor    = color.RGBA{R: 0, G: 0, B: 0, A: 160}
	recordColor   = color.RGBA{R: 255, G: 200, B: 60, A: 220}
)

const (
	// groundHeight 仅用于装饰，碰撞边界仍是世界高度
	groundHeight = 4
	// toastFade 提示条入场/退场时长（秒）
	toastFade = 0.3
)

// Draw 从快照绘制画面
func (s *MinigameScene) Draw(screen *ebiten.Image) {
	snap := s.snapshot
	w := float32(s.cfg.WorldWidth)
	h := float32(s.cfg.WorldHeight)

	screen.Fill(skyColor)
	s.drawObstacles(screen, snap)
	s.drawPickups(screen, snap)
	s.drawFlyer(screen, snap)
	vector.DrawFilledRect(screen, 0, h-groundHeight, w, groundHeight, groundColor, false)

	s.drawHUD(screen, snap)
	s.drawToasts(screen)

	switch snap.State {
	case simulation.StateIdle:
		hint := "SPACE / click to flap"
		if utils.IsMobile() {
			hint = "Tap to flap"
		}
		ebitenutil.DebugPrintAt(screen, hint, int(w)/2-len(hint)*3, int(h)/2+40)
	case simulation.StateOver:
		s.drawSummary(screen, snap)
	}
}

// drawObstacles 每对障碍物画成上下两段
func (s *MinigameScene) drawObstacles(screen *ebiten.Image, snap simulation.Snapshot) {
	h := float32(s.cfg.WorldHeight)
	for _, o := range snap.Obstacles {
		x := float32(o.X)
		ow := float32(o.Width)
		top := float32(o.GapTop)
		bottom := float32(o.GapBottom())

		vector.DrawFilledRect(screen, x, 0, ow, top, obstacleColor, false)
		vector.DrawFilledRect(screen, x, bottom, ow, h-bottom, obstacleColor, false)
		vector.StrokeRect(screen, x, -1, ow, top+1, 2, obstacleEdge, false)
		vector.StrokeRect(screen, x, bottom, ow, h-bottom+1, 2, obstacleEdge, false)
	}
}

func (s *MinigameScene) drawPickups(screen *ebiten.Image, snap simulation.Snapshot) {
	for _, p := range snap.Pickups {
		half := float32(p.Size / 2)
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), half, pickupColor, true)
	}
}

// drawFlyer 按速度旋转飞行者
func (s *MinigameScene) drawFlyer(screen *ebiten.Image, snap simulation.Snapshot) {
	img := s.flyerSprite()
	bw, bh := img.Bounds().Dx(), img.Bounds().Dy()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(bw)/2, -float64(bh)/2)
	op.GeoM.Rotate(snap.Rotation)
	op.GeoM.Translate(s.cfg.FlyerX, snap.Flyer.Y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

// flyerSprite 按碰撞盒大小生成飞行者贴图
func (s *MinigameScene) flyerSprite() *ebiten.Image {
	if s.flyerImage != nil {
		return s.flyerImage
	}
	w := int(math.Max(2*s.cfg.FlyerHalfWidth, 8))
	h := int(math.Max(2*s.cfg.FlyerRadius, 8))
	img := ebiten.NewImage(w, h)

	fw, fh := float32(w), float32(h)
	vector.DrawFilledRect(img, 0, fh*0.15, fw*0.85, fh*0.7, flyerColor, true)
	vector.DrawFilledCircle(img, fw*0.7, fh*0.35, fh*0.12, flyerEyeColor, true)
	vector.DrawFilledRect(img, fw*0.85, fh*0.45, fw*0.15, fh*0.2, obstacleEdge, false)

	s.flyerImage = img
	return img
}

func (s *MinigameScene) drawHUD(screen *ebiten.Image, snap simulation.Snapshot) {
	run := snap.Run
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d", run.Score), 10, 8)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Speed: %.0f", run.SpeedTier), 10, 24)
	if run.ComboCount > 0 {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Combo x%d", run.ComboCount), 10, 40)
	}

	right := int(s.cfg.WorldWidth) - 130
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("DinoPoints +%d", s.sessionPoints), right, 8)
	if s.bestScore > 0 {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Best: %d", s.bestScore), right, 24)
	}
}

// drawToasts 确认消息从上往下排列，入场时从上方滑入，退场时淡出
func (s *MinigameScene) drawToasts(screen *ebiten.Image) {
	cx := float32(s.cfg.WorldWidth) / 2
	for i, t := range s.toasts {
		slide, alpha := utils.ToastProgress(toastDuration-t.remaining, toastDuration, toastFade)
		y := float32(utils.Lerp(float64(50+i*22), float64(70+i*22), slide))
		width := float32(len(t.message)*6 + 16)
		bg := panelColor
		if t.kind == bridge.AckNewRecord {
			bg = recordColor
		}
		bg = fadeColor(bg, alpha)
		vector.DrawFilledRect(screen, cx-width/2, y-3, width, 20, bg, false)
		ebitenutil.DebugPrintAt(screen, t.message, int(cx-width/2)+8, int(y))
	}
}

func (s *MinigameScene) drawSummary(screen *ebiten.Image, snap simulation.Snapshot) {
	w := float32(s.cfg.WorldWidth)
	h := float32(s.cfg.WorldHeight)
	pw, ph := float32(240), float32(110)
	px, py := (w-pw)/2, (h-ph)/2

	vector.DrawFilledRect(screen, px, py, pw, ph, panelColor, false)

	x, y := int(px)+16, int(py)+12
	ebitenutil.DebugPrintAt(screen, "GAME OVER", x, y)
	if snap.Summary != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Final score: %d", snap.Summary.FinalScore), x, y+20)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Top speed:   %.0f", snap.Summary.MaxSpeedTier), x, y+36)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("DinoPoints:  +%d", snap.Summary.TotalRewardPoints), x, y+52)
	}
	if s.overElapsed >= restartDelay {
		ebitenutil.DebugPrintAt(screen, "Flap or R to play again", x, y+76)
	}
}

// fadeColor color.RGBA 是预乘 alpha，四个通道一起缩放
func fadeColor(c color.RGBA, alpha float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}
