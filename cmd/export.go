package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/etnz/dcf"
	"github.com/etnz/dcf/renderer"
	"github.com/google/subcommands"
)

type exportCmd struct {
	inputFlags
	outputDir string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the report, charts and gauge to files" }
func (*exportCmd) Usage() string {
	return `dcf export [-d <dir>] [-f <file>] [-preset <name>] [-<field> <value>...]

  Computes a valuation and writes into the output directory:
    report.md, report.html                     the report
    fcf, fcf_terminal, margin (.svg and .png)  the line charts
    gauge.svg, gauge.png                       the valuation gauge
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.SetFlags(f)
	f.StringVar(&c.outputDir, "d", "dcf-report", "output directory")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v, err := c.Compute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitStatus(err)
	}
	files, err := export(c.outputDir, v, renderer.Options{Currency: currency()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, file := range files {
		fmt.Println(file)
	}
	return subcommands.ExitSuccess
}

// document is a file produced by export.
type document struct {
	name  string
	write func(io.Writer) error
}

// documents lists every document of v.
func documents(v *dcf.Valuation, opts renderer.Options) ([]document, error) {
	gauge := renderer.NewGauge(v.FairValuePerShare, v.Assumptions.MarketPrice)
	docs := []document{
		{"report.md", func(w io.Writer) error {
			_, err := io.WriteString(w, renderer.RenderValuation(v, opts))
			return err
		}},
		{"report.html", func(w io.Writer) error { return renderer.WriteHTML(w, v, opts) }},
		{"gauge.svg", func(w io.Writer) error {
			return renderer.WriteGaugeSVG(w, gauge, renderer.GaugeWidth, renderer.GaugeHeight)
		}},
		{"gauge.png", func(w io.Writer) error {
			return renderer.WriteGaugePNG(w, gauge, renderer.GaugeWidth, renderer.GaugeHeight)
		}},
	}
	for _, name := range renderer.ChartNames() {
		s, err := renderer.Chart(v, name)
		if err != nil {
			return nil, err
		}
		docs = append(docs,
			document{name + ".svg", func(w io.Writer) error {
				return renderer.WriteLineChartSVG(w, s, renderer.ChartWidth, renderer.ChartHeight)
			}},
			document{name + ".png", func(w io.Writer) error {
				return renderer.WriteLineChartPNG(w, s, renderer.ChartWidth, renderer.ChartHeight)
			}},
		)
	}
	return docs, nil
}

// export writes every document of v into dir and returns the written files.
func export(dir string, v *dcf.Valuation, opts renderer.Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	docs, err := documents(v, opts)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, doc := range docs {
		file := filepath.Join(dir, doc.name)
		if err := writeFile(file, doc.write); err != nil {
			return files, err
		}
		files = append(files, file)
	}
	return files, nil
}

func writeFile(file string, write func(io.Writer) error) error {
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", file, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %q: %w", file, err)
	}
	return f.Close()
}
