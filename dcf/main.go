package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/dcf/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.LoadEnv()
	cmd.Completion().Complete("dcf")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	cmd.ApplyEnv()

	// Unknown subcommands are looked up as dcf-<name> extensions in PATH.
	if name := flag.Arg(0); name != "" && !cmd.IsCommand(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}
