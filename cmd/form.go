package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/dcf"
	"github.com/google/subcommands"
)

type formCmd struct {
	preset  string
	presets string
	format  string
}

func (*formCmd) Name() string     { return "form" }
func (*formCmd) Synopsis() string { return "print a form to fill in" }
func (*formCmd) Usage() string {
	return `dcf form [-preset <name>] [-format yaml|json|hjson]

  Prints every field of the valuation form, empty or filled with a preset,
  ready to be edited and passed to 'dcf value -f'.
`
}

func (c *formCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.preset, "preset", "", "fill the form with a preset")
	f.StringVar(&c.presets, "presets", os.Getenv(EnvPresets), "yaml file of additional presets (env "+EnvPresets+")")
	f.StringVar(&c.format, "format", string(dcf.FormatYAML), "form format: yaml, json or hjson")
}

func (c *formCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var in dcf.Input
	if c.preset != "" {
		presets, err := loadPresets(c.presets)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if in, err = presets.Get(c.preset); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if err := dcf.EncodeInput(os.Stdout, in, dcf.Format(c.format)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}
