package perfgraph

import (
	"fmt"
	"time"

	vg "github.com/bkaradzic/vg-renderer"
)

const graphHistoryCount = 100

// RenderStyle selects which of the rolling sample history's three
// projections PerfGraph draws: frames-per-second, raw milliseconds, or a
// percentage (e.g. CPU/GPU budget used).
type RenderStyle int

const (
	RenderFPS RenderStyle = iota
	RenderMS
	RenderPercent
)

var (
	backgroundColor  = vg.RGBA(0, 0, 0, 128)
	graphColor       = vg.RGBA(255, 192, 0, 128)
	titleTextColor   = vg.RGBA(255, 192, 0, 128)
	fpsTextColor     = vg.RGBA(240, 240, 240, 255)
	averageTextColor = vg.RGBA(240, 240, 240, 160)
	msTextColor      = vg.RGBA(240, 240, 240, 255)
)

// PerfGraph is a small overlay widget: it keeps a rolling history of frame
// times and draws itself as a filled strip chart plus a title/value label,
// using nothing but the same Context.FillColor/Text calls an application's own
// drawing would use.
type PerfGraph struct {
	style  RenderStyle
	name   string
	fontID int
	values [graphHistoryCount]float32
	head   int

	startTime      time.Time
	lastUpdateTime time.Time
}

func NewPerfGraph(style RenderStyle, name string, fontID int) *PerfGraph {
	now := time.Now()
	return &PerfGraph{
		style:          style,
		name:           name,
		fontID:         fontID,
		startTime:      now,
		lastUpdateTime: now,
	}
}

// Update records one more frame-time sample and returns the elapsed time
// since construction alongside the time since the previous Update call.
func (pg *PerfGraph) Update() (timeFromStart, frameTime float32) {
	now := time.Now()
	timeFromStart = float32(now.Sub(pg.startTime)) / float32(time.Second)
	frameTime = float32(now.Sub(pg.lastUpdateTime)) / float32(time.Second)
	pg.lastUpdateTime = now

	pg.head = (pg.head + 1) % graphHistoryCount
	pg.values[pg.head] = frameTime
	return
}

// Render draws the graph's background, strip chart and labels at (x, y)
// against a fixed 200x35 footprint.
func (pg *PerfGraph) Render(ctx *vg.Context, x, y float32) {
	avg := pg.Average()
	const w, h float32 = 200, 35

	ctx.BeginPath()
	ctx.Rect(x, y, w, h)
	ctx.FillColor(backgroundColor, vg.FillAA)

	ctx.BeginPath()
	ctx.MoveTo(x, y+h)
	switch pg.style {
	case RenderFPS:
		for i := 0; i < graphHistoryCount; i++ {
			v := float32(1.0) / (0.00001 + pg.values[(pg.head+i)%graphHistoryCount])
			if v > 80.0 {
				v = 80.0
			}
			vx := x + float32(i)/float32(graphHistoryCount-1)*w
			vy := y + h - (v/80.0)*h
			ctx.LineTo(vx, vy)
		}
	case RenderPercent:
		for i := 0; i < graphHistoryCount; i++ {
			v := pg.values[(pg.head+i)%graphHistoryCount]
			if v > 100.0 {
				v = 100.0
			}
			vx := x + float32(i)/float32(graphHistoryCount-1)*w
			vy := y + h - (v/100.0)*h
			ctx.LineTo(vx, vy)
		}
	case RenderMS:
		for i := 0; i < graphHistoryCount; i++ {
			v := pg.values[(pg.head+i)%graphHistoryCount] * 1000.0
			if v > 20.0 {
				v = 20.0
			}
			vx := x + float32(i)/float32(graphHistoryCount-1)*w
			vy := y + h - (v/20.0)*h
			ctx.LineTo(vx, vy)
		}
	}
	ctx.LineTo(x+w, y+h)
	ctx.ClosePath()
	ctx.FillColor(graphColor, vg.FillAA)

	if len(pg.name) > 0 {
		cfg := vg.TextConfig{FontID: pg.fontID, FontSize: 14.0, Align: vg.AlignLeft | vg.AlignTop, Color: titleTextColor}
		ctx.Text(cfg, x+3, y+1, pg.name)
	}

	switch pg.style {
	case RenderFPS:
		titleCfg := vg.TextConfig{FontID: pg.fontID, FontSize: 18.0, Align: vg.AlignRight | vg.AlignTop, Color: fpsTextColor}
		ctx.Text(titleCfg, x+w-3, y+1, fmt.Sprintf("%.2f FPS", 1.0/avg))

		avgCfg := vg.TextConfig{FontID: pg.fontID, FontSize: 15.0, Align: vg.AlignRight | vg.AlignBottom, Color: averageTextColor}
		ctx.Text(avgCfg, x+w-3, y+h-1, fmt.Sprintf("%.2f ms", avg*1000.0))
	case RenderPercent:
		cfg := vg.TextConfig{FontID: pg.fontID, FontSize: 18.0, Align: vg.AlignRight | vg.AlignTop, Color: averageTextColor}
		ctx.Text(cfg, x+w-3, y+1, fmt.Sprintf("%.1f %%", avg))
	case RenderMS:
		cfg := vg.TextConfig{FontID: pg.fontID, FontSize: 18.0, Align: vg.AlignRight | vg.AlignTop, Color: msTextColor}
		ctx.Text(cfg, x+w-3, y+1, fmt.Sprintf("%.2f ms", avg*1000.0))
	}
}

func (pg *PerfGraph) Average() float32 {
	var sum float32
	for _, v := range pg.values {
		sum += v
	}
	return sum / float32(graphHistoryCount)
}
