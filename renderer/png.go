package renderer

import (
	"fmt"
	"io"

	"github.com/fogleman/gg"
)

// WriteLineChartPNG draws s as a PNG line chart, with the same layout as the SVG one.
func WriteLineChartPNG(w io.Writer, s Series, width, height int) error {
	p := newPlot(s, width, height)
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetHexColor("#111827")
	dc.DrawStringAnchored(s.Title, float64(width)/2, 24, 0.5, 0.5)

	dc.SetHexColor(axisColor)
	dc.SetLineWidth(1)
	dc.DrawLine(p.left, p.top, p.left, p.bottom)
	dc.Stroke()
	for _, v := range p.ticks() {
		y := p.y(v)
		dc.SetHexColor("#e5e7eb")
		dc.DrawLine(p.left, y, p.right, y)
		dc.Stroke()
		dc.SetHexColor("#111827")
		dc.DrawStringAnchored(s.label(v), p.left-6, y, 1, 0.5)
	}
	for _, pt := range s.Points {
		dc.DrawStringAnchored(fmt.Sprint(pt.Year), p.x(pt.Year), p.bottom+16, 0.5, 0.5)
	}

	xs, ys := p.coords(s)
	dc.SetHexColor(lineColor)
	dc.SetLineWidth(2)
	for i := range xs {
		if i == 0 {
			dc.MoveTo(xs[i], ys[i])
			continue
		}
		dc.LineTo(xs[i], ys[i])
	}
	dc.Stroke()
	for i := range xs {
		dc.DrawCircle(xs[i], ys[i], 3)
		dc.Fill()
	}
	return dc.EncodePNG(w)
}

// WriteGaugePNG draws g as a PNG half-dial.
func WriteGaugePNG(w io.Writer, g Gauge, width, height int) error {
	d := newDial(width, height)
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetLineWidth(18)
	dc.SetHexColor("#16a34a")
	dc.DrawArc(d.cx, d.cy, d.r, gg.Radians(180), gg.Radians(270))
	dc.Stroke()
	dc.SetHexColor("#dc2626")
	dc.DrawArc(d.cx, d.cy, d.r, gg.Radians(270), gg.Radians(360))
	dc.Stroke()

	dc.SetHexColor("#111827")
	dc.DrawStringAnchored(Undervalued, d.cx-d.r, d.cy+24, 0.5, 0.5)
	dc.DrawStringAnchored(Overvalued, d.cx+d.r, d.cy+24, 0.5, 0.5)
	if !g.Available {
		dc.DrawStringAnchored("unavailable", d.cx, d.cy-d.r/3, 0.5, 0.5)
		return dc.EncodePNG(w)
	}

	nx, ny := d.needle(g)
	dc.SetLineWidth(4)
	dc.DrawLine(d.cx, d.cy, nx, ny)
	dc.Stroke()
	dc.DrawCircle(d.cx, d.cy, 6)
	dc.Fill()
	dc.DrawStringAnchored(fmt.Sprintf("%s (%s)", g.Zone(), g.Deviation().SignedString()), d.cx, d.cy+24, 0.5, 0.5)
	return dc.EncodePNG(w)
}
