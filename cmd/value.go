package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/dcf"
	"github.com/etnz/dcf/renderer"
	"github.com/google/subcommands"
)

// outputFlags select how a valuation is printed.
type outputFlags struct {
	output    string
	skipTable bool
}

func (c *outputFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "md", "output format: md or json")
	f.BoolVar(&c.skipTable, "no-table", false, "do not print the projection table")
}

// render formats v as requested.
func (c *outputFlags) render(v *dcf.Valuation) (string, error) {
	switch c.output {
	case "md", "markdown":
		return renderer.RenderValuation(v, renderer.Options{Currency: currency(), SkipTable: c.skipTable}), nil
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding valuation: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("%w: unknown output format %q, expected md or json", errUsage, c.output)
	}
}

// print writes v to the standard output.
func (c *outputFlags) print(v *dcf.Valuation) subcommands.ExitStatus {
	out, err := c.render(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitStatus(err)
	}
	if c.output == "json" {
		fmt.Print(out)
	} else {
		printMarkdown(out)
	}
	return subcommands.ExitSuccess
}

type valueCmd struct {
	inputFlags
	outputFlags
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "compute a DCF valuation" }
func (*valueCmd) Usage() string {
	return `dcf value [-f <file>] [-preset <name>] [-<field> <value>...] [-o md|json]

  Computes the discounted cash flow valuation of a company and prints the
  projection table, the fair value per share and the recommendation.

  The form is assembled from a preset, a file, a JSON document and the field
  flags, in that order. Rates are in percent.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.SetFlags(f)
	c.outputFlags.SetFlags(f)
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments %q\n", f.Args())
		return subcommands.ExitUsageError
	}
	v, err := c.Compute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitStatus(err)
	}
	return c.print(v)
}

type exampleCmd struct {
	outputFlags
}

func (*exampleCmd) Name() string     { return "example" }
func (*exampleCmd) Synopsis() string { return "value the builtin example" }
func (*exampleCmd) Usage() string {
	return `dcf example [-o md|json]

  Computes the valuation of the builtin example (GOOGL figures). Use
  'dcf form -preset googl' to get its form.
`
}

func (c *exampleCmd) SetFlags(f *flag.FlagSet) { c.outputFlags.SetFlags(f) }

func (c *exampleCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v, err := dcf.Example.Compute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitStatus(err)
	}
	return c.print(v)
}
