package duckchase

import (
	"math"

	"github.com/vovakirdan/duck-chase/internal/config"
	"github.com/vovakirdan/duck-chase/internal/core"
	"github.com/vovakirdan/duck-chase/internal/engine"
)

// Duck sprite size in cells. The hit box pads it by hitPadding on every side.
const (
	duckW      = 3
	duckH      = 2
	hitPadding = 1
)

// viewport maps between terminal cells and engine world points.
type viewport struct {
	w, h   int     // Screen size in cells
	cw, ch float64 // Points per cell
	spawn  config.SpawnConfig
}

func newViewport(w, h int, cfg config.DuckChaseConfig) viewport {
	return viewport{
		w:     w,
		h:     h,
		cw:    cfg.World.CellWidth,
		ch:    cfg.World.CellHeight,
		spawn: cfg.Spawn,
	}
}

// world is the whole visible area in points.
func (v viewport) world() core.Bounds {
	return core.Bounds{
		MaxX: float64(v.w) * v.cw,
		MaxY: float64(v.h) * v.ch,
	}
}

// play is the region ducks spawn in, inset by the configured margins.
func (v viewport) play() core.Bounds {
	w := v.world()
	return core.Bounds{
		MinX: v.spawn.MarginX,
		MinY: v.spawn.MarginTop,
		MaxX: w.MaxX - v.spawn.MarginX,
		MaxY: w.MaxY - v.spawn.MarginBottom,
	}
}

// toWorld returns the center point of cell (x, y).
func (v viewport) toWorld(x, y int) core.Vec2 {
	return core.V((float64(x)+0.5)*v.cw, (float64(y)+0.5)*v.ch)
}

// toCell returns the cell containing world point p.
func (v viewport) toCell(p core.Vec2) (int, int) {
	return int(math.Floor(p.X / v.cw)), int(math.Floor(p.Y / v.ch))
}

// sprite is the duck's drawn area: the head row sits above the position cell.
func (v viewport) sprite(t engine.Target) core.Rect {
	cx, cy := v.toCell(t.Position)
	return core.NewRect(cx-1, cy-1, duckW, duckH)
}

func (v viewport) hitBox(t engine.Target) core.Rect {
	return v.sprite(t).Inflate(hitPadding)
}

func (v viewport) hudRow() int {
	return 0
}

func (v viewport) resetRow() int {
	return v.h - 1
}

// dialog is the game-over box; restartButton lies on its fourth row.
func (v viewport) dialog() core.Rect {
	const boxW, boxH = 24, 7
	return core.NewRect((v.w-boxW)/2, (v.h-boxH)/2, boxW, boxH)
}

func (v viewport) restartButton() core.Rect {
	d := v.dialog()
	label := len([]rune(restartLabel))
	return core.NewRect(d.X+(d.W-label)/2, d.Y+4, label, 1)
}
