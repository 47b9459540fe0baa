package sim

import (
	"fmt"
	"image/color"
	"math"

	"github.com/deepdive/go-kalman/matrix"
	"github.com/deepdive/go-kalman/state"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	truthColor  = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	measColor   = color.RGBA{G: 160, A: 160}
	filterColor = color.RGBA{B: 200, A: 255}
)

// New2DPlot creates new plot of the simulation from the three data sources:
// truth:   true state values, drawn as a line
// measure: measurement values, drawn as points
// filter:  filter values, drawn as a line with markers
// Each row of the data matrices is one point; its first two columns are plotted.
// It returns error if either matrix is nil, has less than 2 columns or is empty.
func New2DPlot(truth, measure, filter *mat.Dense) (*plot.Plot, error) {
	if truth == nil || measure == nil || filter == nil {
		return nil, fmt.Errorf("invalid data supplied")
	}

	for _, d := range []*mat.Dense{truth, measure, filter} {
		if r, c := d.Dims(); r == 0 || c < 2 {
			return nil, fmt.Errorf("invalid data dimensions: [%d x %d]", r, c)
		}
	}

	p := plot.New()
	p.Title.Text = "Track"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	truthLine, err := plotter.NewLine(makePoints(truth))
	if err != nil {
		return nil, fmt.Errorf("truth line: %w", err)
	}
	truthLine.LineStyle.Color = truthColor
	truthLine.LineStyle.Width = vg.Points(1.5)

	measScatter, err := plotter.NewScatter(makePoints(measure))
	if err != nil {
		return nil, fmt.Errorf("measurement scatter: %w", err)
	}
	measScatter.GlyphStyle.Color = measColor
	measScatter.GlyphStyle.Shape = draw.CircleGlyph{}
	measScatter.GlyphStyle.Radius = vg.Points(1.5)

	filterLine, filterPoints, err := plotter.NewLinePoints(makePoints(filter))
	if err != nil {
		return nil, fmt.Errorf("filter line: %w", err)
	}
	filterLine.LineStyle.Color = filterColor
	filterPoints.GlyphStyle.Color = filterColor
	filterPoints.GlyphStyle.Shape = draw.CrossGlyph{}
	filterPoints.GlyphStyle.Radius = vg.Points(2)

	p.Add(measScatter, truthLine, filterLine, filterPoints)
	p.Legend.Add("truth", truthLine)
	p.Legend.Add("measurement", measScatter)
	p.Legend.Add("filtered", filterLine, filterPoints)

	return p, nil
}

// NewTrackPlot plots entries i and j of the true, measured and filtered state
// sequences against each other. The axes are labelled with the state entry names.
func NewTrackPlot(truth, meas, filtered []matrix.Vec, i, j int) (*plot.Plot, error) {
	p, err := New2DPlot(Track(truth, i, j), Track(meas, i, j), Track(filtered, i, j))
	if err != nil {
		return nil, err
	}

	p.X.Label.Text = state.Name(i)
	p.Y.Label.Text = state.Name(j)

	// keep the track geometry undistorted
	xmin, xmax := math.Min(p.X.Min, p.Y.Min), math.Max(p.X.Max, p.Y.Max)
	p.X.Min, p.X.Max = xmin, xmax
	p.Y.Min, p.Y.Max = xmin, xmax

	return p, nil
}

func makePoints(m *mat.Dense) plotter.XYs {
	r, _ := m.Dims()
	pts := make(plotter.XYs, r)
	for i := 0; i < r; i++ {
		pts[i].X = m.At(i, 0)
		pts[i].Y = m.At(i, 1)
	}

	return pts
}

// Track returns a len(xs) x 2 matrix which holds the i-th and j-th entries of every vector in xs.
// It returns nil if xs is empty or either index is out of range.
func Track(xs []matrix.Vec, i, j int) *mat.Dense {
	if len(xs) == 0 || i < 0 || j < 0 || i >= matrix.Stride || j >= matrix.Stride {
		return nil
	}

	m := mat.NewDense(len(xs), 2, nil)
	for r := range xs {
		m.Set(r, 0, xs[r][i])
		m.Set(r, 1, xs[r][j])
	}

	return m
}
