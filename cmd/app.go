// Package cmd implements the dcf command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/dcf"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Commands lists the dcf subcommands.
var Commands = []subcommands.Command{
	&valueCmd{},
	&exampleCmd{},
	&formCmd{},
	&exportCmd{},
	&serveCmd{},
	&AssistCmd{},
	&topicCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&valueCmd{}, "valuation")
	c.Register(&exampleCmd{}, "valuation")
	c.Register(&formCmd{}, "valuation")
	c.Register(&exportCmd{}, "valuation")

	c.Register(&serveCmd{}, "hosting")
	c.Register(&AssistCmd{}, "hosting")

	c.Register(&topicCmd{}, "help")
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var defaultCurrency = flag.String("currency", "", "ISO code of the currency used to format amounts (env "+EnvCurrency+", default USD)")
var Verbose = flag.Bool("v", false, "verbose logging (env "+EnvVerbose+")")

// LoadEnv reads a .env file from the working directory, if any, into the
// process environment. Variables already set take precedence.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning, cannot read .env: %v", err)
	}
}

// ApplyEnv completes global flags that were not set on the command line with
// their environment variable, and silences the log unless verbose.
func ApplyEnv() {
	if *defaultCurrency == "" {
		*defaultCurrency = os.Getenv(EnvCurrency)
	}
	if *defaultCurrency == "" {
		*defaultCurrency = "USD"
	}
	if !*Verbose {
		*Verbose, _ = strconv.ParseBool(os.Getenv(EnvVerbose))
	}
	if !*Verbose {
		log.SetOutput(io.Discard)
	}
}

// currency returns the report currency.
func currency() string {
	if *defaultCurrency == "" {
		return "USD"
	}
	return *defaultCurrency
}

// printMarkdown prints md styled for the terminal, or raw when it cannot be styled.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		log.Printf("cannot style markdown: %v", err)
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		log.Printf("cannot style markdown: %v", err)
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// exitStatus maps an error to the exit status of a command: input
// validation failures are usage errors.
func exitStatus(err error) subcommands.ExitStatus {
	switch {
	case err == nil:
		return subcommands.ExitSuccess
	case errors.Is(err, dcf.ErrInvalidInput), errors.Is(err, errUsage):
		return subcommands.ExitUsageError
	default:
		return subcommands.ExitFailure
	}
}

// errUsage is wrapped by errors in the command line arguments.
var errUsage = errors.New("usage error")
