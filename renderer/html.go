package renderer

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/etnz/dcf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Sizes of the exported images.
const (
	ChartWidth  = 640
	ChartHeight = 360
	GaugeWidth  = 420
	GaugeHeight = 240
)

const htmlStyle = `body{font-family:sans-serif;max-width:960px;margin:2em auto;color:#111827}
table{border-collapse:collapse}td,th{border:1px solid #e5e7eb;padding:4px 8px}
figure{margin:1em 0}`

// WriteHTML writes a standalone HTML page with the markdown report, the gauge
// and the three line charts inlined as SVG.
func WriteHTML(w io.Writer, v *dcf.Valuation, opts Options) error {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := md.Convert([]byte(RenderValuation(v, opts)), &body); err != nil {
		return fmt.Errorf("converting report to html: %w", err)
	}

	var figures bytes.Buffer
	fmt.Fprintln(&figures, "<figure>")
	if err := WriteGaugeSVG(&figures, NewGauge(v.FairValuePerShare, v.Assumptions.MarketPrice), GaugeWidth, GaugeHeight); err != nil {
		return err
	}
	fmt.Fprintln(&figures, "</figure>")
	for _, name := range ChartNames() {
		s, err := Chart(v, name)
		if err != nil {
			return err
		}
		fmt.Fprintln(&figures, "<figure>")
		if err := WriteLineChartSVG(&figures, s, ChartWidth, ChartHeight); err != nil {
			return err
		}
		fmt.Fprintln(&figures, "</figure>")
	}

	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n<style>%s</style>\n</head>\n<body>\n%s%s</body>\n</html>\n",
		html.EscapeString(Title(v.Assumptions.Company)), htmlStyle, body.String(), figures.String())
	return err
}
