package diagram

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	fillColor = color.RGBA{R: 100, G: 149, B: 237, A: 200}
	meanColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// ExportHistogram writes a histogram of values with n bins and a dashed
// line at the mean. The format follows the extension (png, svg, pdf);
// anything else gets ".png" appended.
func ExportHistogram(title string, values []float64, n int, filename string) error {
	finite := finiteValues(values)
	if len(finite) == 0 {
		return fmt.Errorf("histogram %s: no data", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = title
	p.Y.Label.Text = "Count"

	h, err := plotter.NewHist(finite, n)
	if err != nil {
		return err
	}
	h.FillColor = fillColor
	h.LineStyle.Color = color.Black
	p.Add(h)

	var mean float64
	for _, v := range finite {
		mean += v
	}
	mean /= float64(len(finite))

	peak := 0.0
	for _, b := range h.Bins {
		peak = max(peak, b.Weight)
	}
	meanLine, err := plotter.NewLine(plotter.XYs{{X: mean, Y: 0}, {X: mean, Y: peak}})
	if err != nil {
		return err
	}
	meanLine.LineStyle.Width = vg.Points(1.5)
	meanLine.LineStyle.Color = meanColor
	meanLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(meanLine)
	p.Legend.Add(fmt.Sprintf("mean = %.4g", mean), meanLine)
	p.Legend.Top = true

	return save(p, 8*vg.Inch, 6*vg.Inch, filename)
}

// ExportConvergence writes the running mean of values against sample index.
func ExportConvergence(title string, values []float64, filename string) error {
	mean := RunningMean(values)
	if len(mean) == 0 {
		return fmt.Errorf("convergence %s: no data", title)
	}

	p := plot.New()
	p.Title.Text = "Running mean of " + title
	p.X.Label.Text = "Samples"
	p.Y.Label.Text = title

	pts := make(plotter.XYs, len(mean))
	for i, m := range mean {
		pts[i] = plotter.XY{X: float64(i + 1), Y: m}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	p.Add(line)

	last, err := plotter.NewScatter(plotter.XYs{pts[len(pts)-1]})
	if err != nil {
		return err
	}
	last.GlyphStyle.Color = meanColor
	last.GlyphStyle.Radius = vg.Points(3)
	last.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(last)

	return save(p, 8*vg.Inch, 4*vg.Inch, filename)
}

func save(p *plot.Plot, width, height vg.Length, filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}

func finiteValues(values []float64) plotter.Values {
	out := make(plotter.Values, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
