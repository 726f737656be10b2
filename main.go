package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/davecgh/go-spew/spew"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mcncl/jsonshape/internal/config"
	"github.com/mcncl/jsonshape/internal/errors"
	"github.com/mcncl/jsonshape/internal/formatter"
	"github.com/mcncl/jsonshape/internal/logging"
	"github.com/mcncl/jsonshape/internal/parser"
	"github.com/mcncl/jsonshape/internal/schema"
)

// CLI defines the command-line interface
var CLI struct {
	File    string `arg:"" optional:"" help:"Path to input JSON file. Reads from stdin if omitted or '-'." default:"-"`
	Config  string `help:"Path to config file. If not specified, searches for .jsonshape.yml in current and parent directories." short:"c" type:"path"`
	Debug   bool   `help:"Enable debug logging and dump the schema tree to stderr." short:"d"`
	Version bool   `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Logger log.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("jsonshape"),
		kong.Description("Infer and print the structural schema of a JSON document"),
		kong.UsageOnError(),
	)

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		parser.FatalIfErrorf(err)
	}

	if CLI.Version {
		fmt.Printf("jsonshape version %s\n", Version)
		return
	}

	ctx, err := newContext(os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		err = run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

// newContext resolves configuration with CLI precedence and builds the logger.
func newContext(stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, CLI.Debug)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to load config '%s'", configPath), err)
	}

	logger := logging.New(stderr, cfg.Dev.Debug)
	if configPath != "" {
		level.Debug(logger).Log("msg", "loaded config", "path", configPath)
	}

	return &Context{
		Config: cfg,
		Logger: logger,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	// 1. Parse the document into a schema
	value, err := parseInput(ctx)
	if err != nil {
		return err
	}

	if ctx.Config.Dev.Debug {
		spew.Fdump(ctx.Stderr, value)
	}

	// 2. Render and write the result
	out := formatter.NewFormatter().Format(value)
	if _, err := fmt.Fprintln(ctx.Stdout, out); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// parseInput reads JSON from the named file or stdin
func parseInput(ctx *Context) (schema.Value, error) {
	p := parser.NewParserWithConfig(ctx.Config, ctx.Logger)

	if CLI.File == "" || CLI.File == "-" {
		level.Debug(ctx.Logger).Log("msg", "reading stdin")
		return p.Parse(ctx.Stdin)
	}

	level.Debug(ctx.Logger).Log("msg", "reading file", "file", CLI.File)
	return p.ParseFile(CLI.File)
}
