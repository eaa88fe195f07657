package duckchase

import (
	"fmt"
	"math"

	"github.com/vovakirdan/duck-chase/internal/core"
	"github.com/vovakirdan/duck-chase/internal/engine"
)

// Visual characters for rendering
const (
	WaterChar    = ' '
	MeshChar     = '·'
	PatchDark    = '░'
	PatchLight   = '▒'
	CrosshairChr = '+'
)

const (
	meshEveryX   = 4
	meshEveryY   = 2
	resetLabel   = "[ Reset Game ]"
	restartLabel = "[ Restart Game ]"
)

// duck sprite rows, facing right
var (
	duckHead = []rune(" @>")
	duckBody = []rune("(_)")
	popHead  = []rune(`\|/`)
	popBody  = []rune(`/|\`)
)

// Render draws the pond: water, patches, ripples, ducks, HUD and dialogs.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	snap := g.eng.Snapshot()

	g.drawWater(dst)
	for _, p := range snap.Patches {
		g.drawPatch(dst, p)
	}
	for _, r := range snap.Ripples {
		g.drawRipple(dst, r)
	}
	if !snap.Session.GameOver {
		for _, t := range snap.Targets {
			g.drawDuck(dst, t)
		}
		if !g.paused {
			dst.SetColored(g.cursorX, g.cursorY, CrosshairChr, core.ColorBrightRed)
		}
	}

	g.drawHUD(dst, snap)

	if g.paused {
		drawMessage(dst, "PAUSED", "Press P to resume")
	}
	if snap.Session.GameOver {
		g.drawGameOver(dst, snap.Session.Score)
	}
}

// drawWater fills the pond with a sparse mesh of dots.
func (g *Game) drawWater(dst *core.Screen) {
	dst.Fill(WaterChar, core.ColorDeepWater)
	for y := 0; y < dst.Height(); y += meshEveryY {
		for x := 0; x < dst.Width(); x += meshEveryX {
			dst.SetColored(x, y, MeshChar, core.ColorDeepWater)
		}
	}
}

// drawPatch shades an ellipse whose diameter is the patch size in points.
// Shading fades toward the rim and with opacity.
func (g *Game) drawPatch(dst *core.Screen, p engine.Patch) {
	rx := p.Size / 2 / g.view.cw
	ry := p.Size / 2 / g.view.ch
	if rx <= 0 || ry <= 0 {
		return
	}
	cx := p.Position.X / g.view.cw
	cy := p.Position.Y / g.view.ch

	for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
		for x := int(math.Floor(cx - rx)); x <= int(math.Ceil(cx+rx)); x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			d := math.Sqrt(dx*dx + dy*dy)
			if d > 1 {
				continue
			}
			strength := p.Opacity * (1 - d)
			switch {
			case p.Light && strength > 0.05:
				dst.SetColored(x, y, PatchLight, core.ColorFoam)
			case p.Light:
				dst.SetColored(x, y, PatchDark, core.ColorFoam)
			case strength > 0.04:
				dst.SetColored(x, y, PatchDark, core.ColorShallowWater)
			}
		}
	}
}

// drawRipple draws concentric rings. Ring i sits at radius
// (scale + 0.1i) * radius_cells and fades with its index.
func (g *Game) drawRipple(dst *core.Screen, r engine.Ripple) {
	cx := r.Position.X / g.view.cw
	cy := r.Position.Y / g.view.ch
	// vertical radius in cells shrinks by the cell aspect ratio
	squash := g.view.cw / g.view.ch

	for i := range r.Rings {
		radius := (r.Scale + 0.1*float64(i)) * g.cfg.Ripple.RadiusCells
		strength := r.Opacity * (1 - float64(i)/float64(r.Rings))
		glyph := ringGlyph(strength)
		if glyph == 0 {
			continue
		}
		if radius < 0.5 {
			dst.SetColored(int(cx), int(cy), glyph, core.ColorFoam)
			continue
		}

		steps := max(12, int(radius*8))
		for s := range steps {
			a := 2 * math.Pi * float64(s) / float64(steps)
			x := int(math.Floor(cx + radius*math.Cos(a)))
			y := int(math.Floor(cy + radius*math.Sin(a)*squash))
			dst.SetColored(x, y, glyph, core.ColorFoam)
		}
	}
}

func ringGlyph(strength float64) rune {
	switch {
	case strength > 0.2:
		return 'O'
	case strength > 0.1:
		return 'o'
	case strength > 0.02:
		return '.'
	default:
		return 0
	}
}

func (g *Game) drawDuck(dst *core.Screen, t engine.Target) {
	r := g.view.sprite(t)
	head, body := duckHead, duckBody
	color := core.ColorBrightYellow
	if t.Disappearing {
		head, body = popHead, popBody
		color = core.ColorBrightWhite
	}
	for i := range duckW {
		if head[i] != ' ' {
			dst.SetColored(r.X+i, r.Y, head[i], color)
		}
		dst.SetColored(r.X+i, r.Y+1, body[i], color)
	}
	if !t.Disappearing {
		dst.SetColored(r.X+2, r.Y, '>', core.ColorOrange)
	}
}

func (g *Game) drawHUD(dst *core.Screen, snap engine.Snapshot) {
	row := g.view.hudRow()
	w := dst.Width()

	misses := fmt.Sprintf(" Misses: %d/%d ", snap.Session.Misses, snap.MissLimit)
	missColor := core.ColorWhite
	if snap.Session.Misses*4 >= snap.MissLimit*3 {
		missColor = core.ColorBrightRed
	}
	dst.DrawTextColored(1, row, misses, missColor)

	score := fmt.Sprintf(" Score: %d ", snap.Session.Score)
	if g.best > 0 {
		score += fmt.Sprintf(" Best: %d ", max(g.best, snap.Session.Score))
	}
	dst.DrawTextColored((w-len(score))/2, row, score, core.ColorBrightWhite)

	diff := fmt.Sprintf(" x%.1f ", snap.Difficulty)
	dst.DrawTextColored(w-len(diff)-1, row, diff, core.ColorGray)

	label := []rune(resetLabel)
	dst.DrawTextColored((w-len(label))/2, g.view.resetRow(), resetLabel, core.ColorCyan)
}

func (g *Game) drawGameOver(dst *core.Screen, score int) {
	box := g.view.dialog()
	dst.DrawRect(box, ' ')
	dst.DrawBoxColored(box, core.ColorBrightWhite)

	center := func(y int, text string, c core.Color) {
		n := len([]rune(text))
		dst.DrawTextColored(box.X+(box.W-n)/2, y, text, c)
	}
	center(box.Y+1, "Game Over!", core.ColorBrightRed)
	center(box.Y+2, fmt.Sprintf("Final Score: %d", score), core.ColorBrightWhite)
	btn := g.view.restartButton()
	dst.DrawTextColored(btn.X, btn.Y, restartLabel, core.ColorBrightCyan)
}

// drawMessage draws a message box in the center of the screen.
func drawMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	box := core.NewRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	dst.DrawTextCentered(box.Y+1, title)
	dst.DrawTextCentered(box.Y+3, subtitle)
}
