package sweep

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// WriteChart draws the objective of every solved step against its parameter
// value. The image format follows the file extension.
func WriteChart(fileName string, r *Report) error {
	pl := plot.New()
	pl.Title.Text = "objective"
	pl.X.Label.Text = r.Param
	pl.Y.Label.Text = "objective"
	pl.Add(plotter.NewGrid())

	var pts plotter.XYs
	for _, s := range r.Steps {
		if s.Result == nil || !s.Result.Solved() {
			continue
		}
		pts = append(pts, plotter.XY{X: s.Value, Y: s.Result.ObjectiveValue})
	}
	if len(pts) == 0 {
		pl.X.Min, pl.X.Max = 0, 1
		pl.Y.Min, pl.Y.Max = 0, 1
	} else {
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("chart points: %w", err)
		}
		sc.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		pl.Add(sc)
		pl.Legend.Add("objective", sc)
		pl.Legend.Top = true
		pl.Legend.Left = true
	}
	return pl.Save(6*vg.Inch, 4*vg.Inch, fileName)
}
