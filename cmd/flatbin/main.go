// flatbin encodes, decodes and inspects flat binary data described by a
// YAML schema.
//
// Usage:
//
//	flatbin encode  --schema S --in value.yaml [--out file]
//	flatbin decode  --schema S [--in file] [--format yaml|json|cbor] [--strict]
//	flatbin dump    --schema S [--in file]
//	flatbin inspect --schema S [--in file]
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/flatbin"
	"github.com/wippyai/flatbin/schema"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type command struct {
	name    string
	summary string
	run     func(c *cli, args []string) error
}

var commands = []command{
	{"encode", "encode a YAML or JSON value", runEncode},
	{"decode", "decode binary data to YAML, JSON or CBOR", runDecode},
	{"dump", "print an annotated hex dump", runDump},
	{"inspect", "browse the decoded value interactively", runInspect},
}

// cli holds the streams and shared flags of one invocation.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	schemaPath string
	inPath     string
	verbose    bool
}

var errHelp = errors.New("help requested")

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		return nil
	}

	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}
		c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
		err := cmd.run(c, args[1:])
		if errors.Is(err, errHelp) {
			return nil
		}
		return err
	}

	usage(stderr)
	return fmt.Errorf("unknown command %q", args[0])
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: flatbin <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'flatbin <command> --help' for the flags of a command.")
}

// flags returns a flag set carrying the flags every command accepts.
func (c *cli) flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.StringVarP(&c.schemaPath, "schema", "s", "", "schema file (YAML)")
	fs.StringVarP(&c.inPath, "in", "i", "", "input file (default stdin)")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "log decoding details to stderr")
	return fs
}

// parse parses args, installs the logger and loads the schema.
func (c *cli) parse(fs *pflag.FlagSet, args []string) (wit.Type, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, errHelp
		}
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	logger, err := newLogger(c.verbose)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	flatbin.SetLogger(logger)
	schema.SetLogger(logger)

	if c.schemaPath == "" {
		return nil, errors.New("--schema is required")
	}
	return schema.Load(c.schemaPath)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func (c *cli) readInput() ([]byte, error) {
	if c.inPath == "" || c.inPath == "-" {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(c.inPath)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// colored reports whether w is a terminal that can show styles.
func colored(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
