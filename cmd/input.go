package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/dcf"
)

// fieldUsage documents the form fields exposed as flags.
var fieldUsage = map[string]string{
	"revenue":     "current annual revenue",
	"fcfMargin":   "current FCF margin, in percent",
	"fcfYear0":    "free cash flow of the base year",
	"g15":         "FCF growth for years 1 to 5, in percent",
	"g610":        "FCF growth for years 6 to 10, in percent",
	"revG15":      "revenue growth for years 1 to 5, in percent",
	"revG610":     "revenue growth for years 6 to 10, in percent",
	"gperp":       "terminal (perpetual) growth, in percent",
	"wacc":        "discount rate (WACC), in percent",
	"reqReturn":   "required return, used when wacc is empty, in percent",
	"cash":        "cash and equivalents",
	"debt":        "total debt",
	"shares":      "shares outstanding",
	"marketPrice": "current market price per share",
	"startYear":   "base year of the projection, defaults to the current year",
}

// fieldFlag sets a form field from the command line.
type fieldFlag struct {
	in   *dcf.Input
	name string
}

func (f fieldFlag) String() string { return "" }
func (f fieldFlag) Set(v string) error {
	return f.in.Set(f.name, v)
}

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string     { return strings.Join(*l, ",") }
func (l *stringList) Set(v string) error { *l = append(*l, v); return nil }

// inputFlags are the flags of the commands that read a valuation form. Sources
// are merged in this order, later ones overriding: preset, file, JSON
// document, flags.
type inputFlags struct {
	form    dcf.Input // fields set by flags.
	file    string
	preset  string
	presets string
	doc     string
	paths   stringList
}

func (c *inputFlags) SetFlags(f *flag.FlagSet) {
	f.Var(fieldFlag{&c.form, "company"}, "company", "company name, used as report title")
	for _, name := range dcf.FieldNames() {
		f.Var(fieldFlag{&c.form, name}, name, fieldUsage[name])
	}
	f.StringVar(&c.file, "f", "", "form file (yaml, json or hjson, by extension)")
	f.StringVar(&c.preset, "preset", "", "start from a named preset (see -presets)")
	f.StringVar(&c.presets, "presets", os.Getenv(EnvPresets), "yaml file of additional presets (env "+EnvPresets+")")
	f.StringVar(&c.doc, "doc", "", "json document to extract fields from, with -jsonpath")
	f.Var(&c.paths, "jsonpath", "field=$.path to extract a field from -doc, repeatable")
}

// Input assembles the form from every source.
func (c *inputFlags) Input() (dcf.Input, error) {
	var in dcf.Input
	if c.preset != "" {
		presets, err := loadPresets(c.presets)
		if err != nil {
			return in, err
		}
		p, err := presets.Get(c.preset)
		if err != nil {
			return in, fmt.Errorf("%w: %v", errUsage, err)
		}
		in = p
	}

	if c.file != "" {
		f, err := os.Open(c.file)
		if err != nil {
			return in, fmt.Errorf("opening form: %w", err)
		}
		defer f.Close()
		fromFile, err := dcf.DecodeInput(f, dcf.FormatOf(c.file))
		if err != nil {
			return in, fmt.Errorf("decoding %q: %w", c.file, err)
		}
		in = in.Merge(fromFile)
	}

	if c.doc != "" || len(c.paths) > 0 {
		fromDoc, err := c.extract()
		if err != nil {
			return in, err
		}
		in = in.Merge(fromDoc)
	}

	return in.Merge(c.form), nil
}

func (c *inputFlags) extract() (dcf.Input, error) {
	if c.doc == "" || len(c.paths) == 0 {
		return dcf.Input{}, fmt.Errorf("%w: -doc and -jsonpath go together", errUsage)
	}
	paths, err := dcf.ParsePaths(c.paths)
	if err != nil {
		return dcf.Input{}, fmt.Errorf("%w: %v", errUsage, err)
	}
	f, err := os.Open(c.doc)
	if err != nil {
		return dcf.Input{}, fmt.Errorf("opening document: %w", err)
	}
	defer f.Close()
	doc, err := dcf.DecodeDocument(f)
	if err != nil {
		return dcf.Input{}, fmt.Errorf("decoding %q: %w", c.doc, err)
	}
	in, err := dcf.ExtractInput(doc, paths)
	if err != nil {
		return in, fmt.Errorf("%w: %v", errUsage, err)
	}
	return in, nil
}

// Compute assembles the form and values it.
func (c *inputFlags) Compute() (*dcf.Valuation, error) {
	in, err := c.Input()
	if err != nil {
		return nil, err
	}
	return in.Compute()
}

// loadPresets returns the builtin presets extended with the ones in file, if any.
func loadPresets(file string) (dcf.Presets, error) {
	presets := dcf.BuiltinPresets()
	if file == "" {
		return presets, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("opening presets: %w", err)
	}
	defer f.Close()
	custom, err := dcf.LoadPresets(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", file, err)
	}
	return presets.With(custom), nil
}
