// Package chart renders the summary figure of a telemetry log.
package chart

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/yaron8/ksp-telemetry/delimited"
	"github.com/yaron8/ksp-telemetry/telemetrics"
)

const (
	Width  = 16 * vg.Inch
	Height = 10 * vg.Inch
)

// Panel is one chart of the grid.
type Panel struct {
	Title   string
	Columns []string
}

// DefaultPanels is the launch summary: thrust, altitude, attitude and orbit.
var DefaultPanels = [2][2]Panel{
	{
		{Title: "Thrust", Columns: []string{"thrust"}},
		{Title: "Mean altitude", Columns: []string{"mean_altitude"}},
	},
	{
		{Title: "Attitude", Columns: []string{"angle_of_attack", "pitch"}},
		{Title: "Orbit", Columns: []string{"apoapsis_altitude", "periapsis_altitude"}},
	},
}

// resolve finds a column by its short or qualified name.
func resolve(log *delimited.Log, name string) ([]float64, string, bool) {
	if values, ok := log.Column(name); ok {
		return values, name, true
	}
	for _, category := range telemetrics.Categories() {
		qualified := string(category) + "_" + name
		if values, ok := log.Column(qualified); ok {
			return values, qualified, true
		}
	}
	return nil, "", false
}

func points(x, y []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(x))
	for i := range x {
		if isFinite(x[i]) && isFinite(y[i]) {
			xys = append(xys, plotter.XY{X: x[i], Y: y[i]})
		}
	}
	return xys
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func newPanel(log *delimited.Log, x []float64, panel Panel) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panel.Title
	p.X.Label.Text = "UT"
	p.X.Tick.Marker = plot.TimeTicks{Format: "15:04:05"}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	lines := 0
	for _, name := range panel.Columns {
		y, label, ok := resolve(log, name)
		if !ok {
			continue
		}
		xys := points(x, y)
		if len(xys) == 0 {
			continue
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to plot %s: %w", label, err)
		}
		line.Color = plotutil.Color(lines)
		p.Add(line)
		p.Legend.Add(label, line)
		lines++
	}

	if lines == 0 {
		// nothing to draw; keep the axes finite
		p.X.Min, p.X.Max = 0, 1
		p.Y.Min, p.Y.Max = 0, 1
		p.Title.Text += " (no data)"
	}
	return p, nil
}

// Render draws the 2x2 summary of a log as a PNG. The log needs a ut (or
// space_center_ut) column; panels whose columns are missing stay empty.
func Render(log *delimited.Log, panels [2][2]Panel, w io.Writer) error {
	x, _, ok := resolve(log, "ut")
	if !ok {
		return fmt.Errorf("log has no ut column")
	}

	plots := make([][]*plot.Plot, 2)
	for row := range panels {
		plots[row] = make([]*plot.Plot, 2)
		for col, panel := range panels[row] {
			p, err := newPanel(log, x, panel)
			if err != nil {
				return err
			}
			plots[row][col] = p
		}
	}

	img := vgimg.New(Width, Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      2,
		PadX:      4 * vg.Millimeter,
		PadY:      4 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}

	canvases := plot.Align(plots, tiles, dc)
	for row := range plots {
		for col := range plots[row] {
			plots[row][col].Draw(canvases[row][col])
		}
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}
