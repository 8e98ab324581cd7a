package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.org/x/image/colornames"

	"github.com/milk9111/brawl/arena"
	"github.com/milk9111/brawl/combat"
	"github.com/milk9111/brawl/common"
)

// worldView maps arena coordinates onto the fixed screen. Arenas larger
// than the window are scaled down and centered; the default arena maps
// one to one.
type worldView struct {
	scale  float64
	ox, oy float64
}

func newWorldView(w, h float64) worldView {
	if w <= 0 || h <= 0 {
		return worldView{scale: 1}
	}
	scale := 1.0
	if s := baseWidth / w; s < scale {
		scale = s
	}
	if s := baseHeight / h; s < scale {
		scale = s
	}
	return worldView{
		scale: scale,
		ox:    (baseWidth - w*scale) / 2,
		oy:    (baseHeight - h*scale) / 2,
	}
}

func (v worldView) rect(r common.Rect) common.Rect {
	return common.Rect{
		X:      r.X*v.scale + v.ox,
		Y:      r.Y*v.scale + v.oy,
		Width:  r.Width * v.scale,
		Height: r.Height * v.scale,
	}
}

var archetypeColors = map[string]color.RGBA{
	"swarmer":      colornames.Orange,
	"brute":        colornames.Saddlebrown,
	"lunger":       colornames.Yellowgreen,
	"shieldbearer": colornames.Steelblue,
	"lobber":       colornames.Mediumpurple,
	"detonator":    colornames.Orangered,
}

func (g *Game) drawArena(screen *ebiten.Image) {
	if g.pixel == nil {
		g.pixel = ebiten.NewImage(1, 1)
		g.pixel.Fill(color.White)
	}

	screen.Fill(colornames.Darkslategray)

	bounds := g.arena.World().Bounds()
	view := newWorldView(bounds.Width, bounds.Height)

	// floor strip
	g.fillRect(screen, view.rect(common.Rect{X: 0, Y: bounds.Height - 6, Width: bounds.Width, Height: 6}), colornames.Dimgray, 1)

	for _, c := range g.arena.Corpses().Corpses() {
		col := colornames.Slategray
		if c.State() == arena.CorpseSettled {
			col = colornames.Dimgray
		}
		x, y := c.Position()
		w, h := c.Size()
		g.fillRect(screen, view.rect(common.Rect{X: x, Y: y, Width: w, Height: h}), col, c.Alpha())
	}

	for _, s := range g.arena.Projectiles().Shots() {
		size := s.Size
		if size <= 0 {
			size = 8
		}
		g.fillRect(screen, view.rect(common.Centered(s.X, s.Y, size, size)), colornames.Gold, 1)
	}

	for _, e := range g.arena.Enemies() {
		col, ok := archetypeColors[e.Archetype()]
		if !ok {
			col = colornames.Gray
		}
		x, y := e.Position()
		w, h := e.Size()
		r := view.rect(common.Rect{X: x + e.ShakeX(), Y: y, Width: w, Height: h})
		g.fillRect(screen, r, col, e.Alpha())
		if a := e.Alert(); a > 0 {
			g.fillRect(screen, r, colornames.White, a*0.5*e.Alpha())
		}
	}

	if b := g.arena.Boss(); b != nil {
		x, y := b.Position()
		w, h := b.Size()
		r := view.rect(common.Rect{X: x + b.ShakeX(), Y: y, Width: w, Height: h})
		g.fillRect(screen, r, colornames.Darkred, b.Alpha())
		if b.Invulnerable() {
			g.fillRect(screen, r, colornames.White, 0.35*b.Alpha())
		}
	}

	p := g.arena.Player()
	px, py := p.Position()
	pw, ph := p.Size()
	alpha := 1.0
	// iframe flicker
	if p.Alive() && p.Health().Invulnerable() && g.frames%6 < 3 {
		alpha = 0.35
	}
	if !p.Alive() {
		alpha = 0.25
	}
	g.fillRect(screen, view.rect(common.Rect{X: px, Y: py, Width: pw, Height: ph}), colornames.Crimson, alpha)

	if g.showDebug {
		g.drawBoxes(screen, view)
	}
}

// boxed is any actor that exposes its combat rectangles.
type boxed interface {
	Hurtboxes() []combat.Hurtbox
	Hitboxes() []combat.Hitbox
}

// drawBoxes overlays the live hit and hurt rectangles.
func (g *Game) drawBoxes(screen *ebiten.Image, view worldView) {
	actors := make([]boxed, 0, len(g.arena.Enemies())+2)
	actors = append(actors, g.arena.Player())
	for _, e := range g.arena.Enemies() {
		actors = append(actors, e)
	}
	if b := g.arena.Boss(); b != nil {
		actors = append(actors, b)
	}
	for _, a := range actors {
		for _, hb := range a.Hurtboxes() {
			if !hb.Enabled {
				continue
			}
			g.fillRect(screen, view.rect(hb.Rect), colornames.Lime, 0.18)
		}
		for _, hb := range a.Hitboxes() {
			if !hb.Active {
				continue
			}
			g.fillRect(screen, view.rect(hb.Rect), colornames.Yellow, 0.35)
		}
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()))

	p := g.arena.Player()

	g.fillRect(screen, common.Rect{X: 16, Y: 24, Width: 260, Height: 14}, colornames.Black, 0.6)
	g.fillRect(screen, common.Rect{X: 16, Y: 24, Width: 260 * p.Health().Fraction(), Height: 14}, colornames.Crimson, 1)

	meterFrac := 0.0
	if g.spec.Player.MeterMax > 0 {
		meterFrac = float64(p.Meter()) / float64(g.spec.Player.MeterMax)
	}
	g.fillRect(screen, common.Rect{X: 16, Y: 42, Width: 260, Height: 8}, colornames.Black, 0.6)
	g.fillRect(screen, common.Rect{X: 16, Y: 42, Width: 260 * meterFrac, Height: 8}, colornames.Gold, 1)

	weapons := p.Weapons()
	label := fmt.Sprintf("[%s]", weapons.Equipped().Name())
	if next := weapons.Pending(); weapons.Swapping() && next != nil {
		label = fmt.Sprintf("[%s -> %s %3.0f%%]", weapons.Equipped().Name(), next.Name(), weapons.SwapProgress()*100)
	}
	ebitenutil.DebugPrintAt(screen, label, 16, 54)

	if b := g.arena.Boss(); b != nil && b.Alive() {
		const barWidth = 420.0
		bx := (baseWidth - barWidth) / 2
		g.fillRect(screen, common.Rect{X: bx, Y: 16, Width: barWidth, Height: 12}, colornames.Black, 0.6)
		g.fillRect(screen, common.Rect{X: bx, Y: 16, Width: barWidth * b.Health().Fraction(), Height: 12}, colornames.Darkred, 1)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  phase %d", b.Name(), b.Phase()+1), int(bx), 30)
	}

	if g.slowMo {
		ebitenutil.DebugPrintAt(screen, "SLOW", baseWidth-60, 4)
	}

	if g.showDebug {
		ebitenutil.DebugPrintAt(screen, g.arena.DebugInfo().String(), 8, 80)
	}
}

func (g *Game) fillRect(screen *ebiten.Image, r common.Rect, col color.RGBA, alpha float64) {
	if r.Width <= 0 || r.Height <= 0 || alpha <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	op.ColorScale.Scale(float32(col.R)/255, float32(col.G)/255, float32(col.B)/255, float32(col.A)/255)
	if alpha < 1 {
		op.ColorScale.ScaleAlpha(float32(alpha))
	}
	screen.DrawImage(g.pixel, op)
}
