package renderer

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/etnz/dcf"
)

// Chart names.
const (
	ChartFCF             = "fcf"
	ChartFCFWithTerminal = "fcf_terminal"
	ChartMargin          = "margin"
)

// ChartNames returns the names accepted by Chart.
func ChartNames() []string { return []string{ChartFCF, ChartFCFWithTerminal, ChartMargin} }

// Point is one year of a series.
type Point struct {
	Year  int
	Value float64
}

// Series is a line chart of the projection.
type Series struct {
	Name    string
	Title   string
	Percent bool // values are percents rather than amounts.
	Points  []Point
}

// Chart returns the named series of v.
func Chart(v *dcf.Valuation, name string) (Series, error) {
	switch name {
	case ChartFCF:
		return FCFSeries(v), nil
	case ChartFCFWithTerminal:
		return FCFWithTerminalSeries(v), nil
	case ChartMargin:
		return MarginSeries(v), nil
	}
	return Series{}, fmt.Errorf("unknown chart %q, available: %v", name, ChartNames())
}

// FCFSeries plots the free cash flow of every year.
func FCFSeries(v *dcf.Valuation) Series {
	s := Series{Name: ChartFCF, Title: "Free cash flow"}
	for _, r := range v.Rows {
		s.Points = append(s.Points, Point{r.Year, r.FCF})
	}
	return s
}

// FCFWithTerminalSeries plots the free cash flow, the terminal value being
// added to the last year.
func FCFWithTerminalSeries(v *dcf.Valuation) Series {
	s := FCFSeries(v)
	s.Name, s.Title = ChartFCFWithTerminal, "Free cash flow with terminal value"
	s.Points[len(s.Points)-1].Value += v.TerminalValue
	return s
}

// MarginSeries plots the FCF margin in percent.
func MarginSeries(v *dcf.Valuation) Series {
	s := Series{Name: ChartMargin, Title: "FCF margin", Percent: true}
	for _, r := range v.Rows {
		s.Points = append(s.Points, Point{r.Year, r.FCFMargin * 100})
	}
	return s
}

// plot maps series values to image coordinates.
type plot struct {
	width, height            float64
	left, right, top, bottom float64 // plot area, in pixels.
	minYear, maxYear         int
	lo, hi                   float64 // value range, always containing 0.
}

func newPlot(s Series, width, height int) plot {
	p := plot{
		width: float64(width), height: float64(height),
		left: 80, right: float64(width) - 24, top: 48, bottom: float64(height) - 40,
	}
	for i, pt := range s.Points {
		if i == 0 || pt.Year < p.minYear {
			p.minYear = pt.Year
		}
		if i == 0 || pt.Year > p.maxYear {
			p.maxYear = pt.Year
		}
		if math.IsNaN(pt.Value) || math.IsInf(pt.Value, 0) {
			continue
		}
		p.lo, p.hi = math.Min(p.lo, pt.Value), math.Max(p.hi, pt.Value)
	}
	if p.hi == p.lo {
		p.hi = p.lo + 1
	}
	if p.maxYear == p.minYear {
		p.maxYear = p.minYear + 1
	}
	return p
}

func (p plot) x(year int) float64 {
	return p.left + float64(year-p.minYear)/float64(p.maxYear-p.minYear)*(p.right-p.left)
}

func (p plot) y(v float64) float64 {
	return p.bottom - (v-p.lo)/(p.hi-p.lo)*(p.bottom-p.top)
}

// coords returns the pixel coordinates of the finite points of s.
func (p plot) coords(s Series) (xs, ys []float64) {
	for _, pt := range s.Points {
		if math.IsNaN(pt.Value) || math.IsInf(pt.Value, 0) {
			continue
		}
		xs = append(xs, p.x(pt.Year))
		ys = append(ys, p.y(pt.Value))
	}
	return xs, ys
}

// ticks returns the values labelled on the vertical axis.
func (p plot) ticks() []float64 {
	ticks := []float64{p.lo, 0, p.hi}
	if p.lo == 0 {
		ticks = ticks[1:]
	}
	return ticks
}

// label formats a value of s for an axis.
func (s Series) label(v float64) string {
	if s.Percent {
		return dcf.Percent(v).String()
	}
	return compact(v)
}

// compact formats an amount with a metric suffix.
func compact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.1fk", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

const (
	lineColor = "#2563eb"
	axisColor = "#6b7280"
	textStyle = "font-family:sans-serif;font-size:12px;fill:#111827"
)

// errWriter remembers the first write error, svgo ignores them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(b)
	e.err = err
	return n, err
}

func ints(fs []float64) []int {
	res := make([]int, len(fs))
	for i, f := range fs {
		res[i] = int(math.Round(f))
	}
	return res
}

func round(f float64) int { return int(math.Round(f)) }

// WriteLineChartSVG draws s as an SVG line chart.
func WriteLineChartSVG(w io.Writer, s Series, width, height int) error {
	ew := &errWriter{w: w}
	p := newPlot(s, width, height)
	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Title(s.Title)
	canvas.Rect(0, 0, width, height, "fill:white")
	canvas.Text(width/2, 28, s.Title, "text-anchor:middle;font-weight:bold;"+textStyle)

	// axes and horizontal grid
	canvas.Line(round(p.left), round(p.top), round(p.left), round(p.bottom), "stroke:"+axisColor)
	for _, v := range p.ticks() {
		y := round(p.y(v))
		canvas.Line(round(p.left), y, round(p.right), y, "stroke:#e5e7eb")
		canvas.Text(round(p.left)-6, y+4, s.label(v), "text-anchor:end;"+textStyle)
	}
	for _, pt := range s.Points {
		canvas.Text(round(p.x(pt.Year)), round(p.bottom)+18, fmt.Sprint(pt.Year), "text-anchor:middle;"+textStyle)
	}

	xs, ys := p.coords(s)
	canvas.Polyline(ints(xs), ints(ys), "fill:none;stroke-width:2;stroke:"+lineColor)
	for i := range xs {
		canvas.Circle(round(xs[i]), round(ys[i]), 3, "fill:"+lineColor)
	}
	canvas.End()
	return ew.err
}

// WriteGaugeSVG draws g as a half-dial with the needle on the market price.
func WriteGaugeSVG(w io.Writer, g Gauge, width, height int) error {
	ew := &errWriter{w: w}
	d := newDial(width, height)
	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Title("Valuation gauge")
	canvas.Rect(0, 0, width, height, "fill:white")

	cx, cy, r := round(d.cx), round(d.cy), round(d.r)
	canvas.Arc(cx-r, cy, r, r, 0, false, true, cx, cy-r, "fill:none;stroke-width:18;stroke:#16a34a")
	canvas.Arc(cx, cy-r, r, r, 0, false, true, cx+r, cy, "fill:none;stroke-width:18;stroke:#dc2626")
	canvas.Text(cx-r, cy+24, Undervalued, "text-anchor:middle;"+textStyle)
	canvas.Text(cx+r, cy+24, Overvalued, "text-anchor:middle;"+textStyle)

	if !g.Available {
		canvas.Text(cx, cy-r/3, "unavailable", "text-anchor:middle;"+textStyle)
		canvas.End()
		return ew.err
	}
	nx, ny := d.needle(g)
	canvas.Line(cx, cy, round(nx), round(ny), "stroke-width:4;stroke:#111827")
	canvas.Circle(cx, cy, 6, "fill:#111827")
	canvas.Text(cx, cy+24, fmt.Sprintf("%s (%s)", g.Zone(), g.Deviation().SignedString()), "text-anchor:middle;font-weight:bold;"+textStyle)
	canvas.End()
	return ew.err
}

// dial is the geometry of the gauge.
type dial struct{ cx, cy, r float64 }

func newDial(width, height int) dial {
	r := math.Min(float64(width)/2-60, float64(height)-70)
	return dial{cx: float64(width) / 2, cy: float64(height) - 40, r: r}
}

// needle returns the tip of the needle, slightly shorter than the dial.
func (d dial) needle(g Gauge) (x, y float64) {
	theta := g.Angle() * math.Pi / 180
	l := d.r * 0.9
	return d.cx + l*math.Sin(theta), d.cy - l*math.Cos(theta)
}
