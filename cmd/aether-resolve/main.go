// Command aether-resolve is a small offline demonstration of the
// collector, conflict resolver and sync-context pieces wired together
// end to end, grounded on cmd/dep's own Config/Run dispatch shape.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
)

type command interface {
	Name() string
	Args() string
	ShortHelp() string
	LongHelp() string
	Register(*flag.FlagSet)
	Run(*Ctx, []string) error
}

// Ctx bundles what every command needs: where to log and the working
// directory it was invoked from.
type Ctx struct {
	Out, Err *log.Logger
	Cwd      string
}

func main() {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "aether-resolve: failed to get working directory:", err)
		os.Exit(1)
	}
	os.Exit(run(os.Args, os.Stdout, os.Stderr, wd))
}

func run(args []string, stdout, stderr io.Writer, cwd string) int {
	commands := []command{
		&resolveCommand{},
		&versionCommand{},
	}

	outLogger := log.New(stdout, "", 0)
	errLogger := log.New(stderr, "", 0)

	usage := func() {
		tw := tabwriter.NewWriter(stderr, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Usage: aether-resolve <command> [arguments]\n\nCommands:")
		for _, cmd := range commands {
			fmt.Fprintf(tw, "\t%s\t%s\n", cmd.Name(), cmd.ShortHelp())
		}
		tw.Flush()
	}

	if len(args) < 2 {
		usage()
		return 1
	}

	for _, cmd := range commands {
		if cmd.Name() != args[1] {
			continue
		}
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		fs.SetOutput(stderr)
		cmd.Register(fs)
		if err := fs.Parse(args[2:]); err != nil {
			return 1
		}
		if err := cmd.Run(&Ctx{Out: outLogger, Err: errLogger, Cwd: cwd}, fs.Args()); err != nil {
			errLogger.Println("aether-resolve:", err)
			return 1
		}
		return 0
	}

	fmt.Fprintf(stderr, "aether-resolve: unknown command %q\n\n", args[1])
	usage()
	return 1
}

type versionCommand struct{}

func (versionCommand) Name() string      { return "version" }
func (versionCommand) Args() string      { return "" }
func (versionCommand) ShortHelp() string { return "print the resolver engine version" }
func (versionCommand) LongHelp() string  { return "version prints the resolver engine's build identifier." }
func (versionCommand) Register(*flag.FlagSet) {}

func (versionCommand) Run(ctx *Ctx, _ []string) error {
	ctx.Out.Println("aether-resolve (dependency resolution engine demo)")
	return nil
}
