// Package renderer turns a valuation into documents: a markdown report
// (summary, gauge and projection table), line charts and a gauge as SVG or
// PNG images, and a self-contained HTML page.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/dcf"
)

//go:embed *.md
var templates embed.FS

// Options holds configuration for rendering a valuation.
type Options struct {
	Currency  string // ISO code used to format amounts, none if empty.
	SkipTable bool   // Do not render the projection table.
}

// RenderValuation renders the valuation to a markdown string.
func RenderValuation(v *dcf.Valuation, opts Options) string {
	partials := map[string]string{
		"valuation_title":   "valuation_title.md",
		"valuation_summary": "valuation_summary.md",
		"valuation_gauge":   "valuation_gauge.md",
	}

	// Skip the table if requested. An empty file name results in an empty template.
	if !opts.SkipTable {
		partials["valuation_table"] = "valuation_table.md"
	} else {
		partials["valuation_table"] = ""
	}

	return renderTemplate("valuation", "valuation.md", partials, NewReport(v, opts.Currency))
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
