// Package main is the grammarkit demo CLI: a thin front end that drives
// the toolkit's LL(1) or shift-reduce parser over one of the package
// samples fixtures, wiring --lexer/--mode/--lookahead/--heuristic-ctx flags
// straight onto the corresponding constructors. It exists to exercise the
// end-to-end scenarios from the command line, not as a core component.
package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/shadowCow/grammarkit/analysis"
	"github.com/shadowCow/grammarkit/cfgopts"
	"github.com/shadowCow/grammarkit/diag"
	"github.com/shadowCow/grammarkit/grammar"
	"github.com/shadowCow/grammarkit/lexer"
	"github.com/shadowCow/grammarkit/ll1"
	"github.com/shadowCow/grammarkit/samples"
	"github.com/shadowCow/grammarkit/shiftreduce"
)

// Config holds the CLI's configuration, separated from os.Args/os.Stdout
// so Run can be exercised directly in tests.
type Config struct {
	Args   []string
	Output io.Writer
}

// Run parses flags, selects a samples fixture, runs the requested parser,
// and writes the resulting parse tree to config.Output.
func Run(config Config) error {
	fs := pflag.NewFlagSet("grammarkit", pflag.ContinueOnError)

	mode := fs.String("mode", "ll1", "parser engine: ll1 | sr")
	lexerMode := fs.String("lexer", "advanced", "tokenizer: legacy | advanced")
	handleDuplicates := fs.Bool("handle-duplicates", true, "fragment overlapping terminals/ranges at construction time (advanced lexer only)")
	handleDuplicatesAtRuntime := fs.Bool("handle-duplicates-at-runtime", false, "narrow overlapping candidates per scan instead of fragmenting up front (advanced lexer only, ignored when --handle-duplicates is set)")
	lookahead := fs.Bool("lookahead", true, "enable FOLLOW-set lookahead (shift-reduce only)")
	heuristicCtx := fs.Bool("heuristic-ctx", true, "enable contextual reducibility (shift-reduce only)")
	profilePath := fs.String("profile", "", "load a named profile from a TOML file instead of flags")
	profileName := fs.String("profile-name", "default", "which profile to use from --profile")
	trace := fs.Bool("trace", false, "print step-by-step parser trace")

	if err := fs.Parse(config.Args[1:]); err != nil {
		return err
	}

	args := fs.Args()
	if len(args) != 1 {
		return fmt.Errorf("usage: grammarkit [flags] <fixture-name>\nfixtures: %s", fixtureNames())
	}

	if *profilePath != "" {
		doc, err := cfgopts.LoadProfiles(*profilePath)
		if err != nil {
			return err
		}
		profile, err := doc.Profile(*profileName)
		if err != nil {
			return err
		}
		*mode = string(profile.Parser.Mode)
		*lexerMode = string(profile.Tokenizer.Mode)
		*handleDuplicates = profile.Tokenizer.HandleDuplicates
		*handleDuplicatesAtRuntime = profile.Tokenizer.HandleDuplicatesAtRuntime
		*lookahead = profile.Parser.Lookahead
		*heuristicCtx = profile.Parser.HeuristicCtx
	}

	fixture, ok := findFixture(args[0])
	if !ok {
		return fmt.Errorf("unknown fixture %q; available: %s", args[0], fixtureNames())
	}

	g, err := grammar.Build(fixture.Root)
	if err != nil {
		return err
	}

	var printer diag.Printer = diag.NopPrinter{}
	if *trace {
		printer = diag.NewTextPrinter(config.Output)
	}

	var tokens []lexer.Token
	switch *lexerMode {
	case "legacy":
		tokens, err = lexer.NewLegacy(g).Tokenize(fixture.Input)
	case "advanced":
		tokens, err = lexer.NewAdvanced(g, lexer.AdvancedOptions{
			HandleDuplicates:          *handleDuplicates,
			HandleDuplicatesAtRuntime: *handleDuplicatesAtRuntime,
		}).Tokenize(fixture.Input)
	default:
		return fmt.Errorf("unknown lexer mode %q", *lexerMode)
	}
	if err != nil {
		return err
	}

	start := g.Defines[0].Name

	switch *mode {
	case "ll1":
		p := ll1.New(g, ll1.PickFirst).WithTrace(printer)
		tree, ok := p.Parse(start, tokens)
		if !ok {
			return fmt.Errorf("parse of fixture %q failed", fixture.Name)
		}
		fmt.Fprint(config.Output, tree.String())
		return nil
	case "sr", string(cfgopts.ShiftReduce):
		a, err := analysis.Build(g)
		if err != nil {
			return err
		}
		p := shiftreduce.New(g, a, shiftreduce.Options{
			Lookahead:    *lookahead,
			HeuristicCtx: *heuristicCtx,
		}).WithTrace(printer)
		tree, err := p.Parse(start, tokens)
		if err != nil {
			return err
		}
		fmt.Fprint(config.Output, tree.String())
		return nil
	default:
		return fmt.Errorf("unknown parser mode %q", *mode)
	}
}

func findFixture(name string) (samples.Fixture, bool) {
	for _, f := range samples.All() {
		if f.Name == name {
			return f, true
		}
	}
	return samples.Fixture{}, false
}

func fixtureNames() string {
	names := ""
	for i, f := range samples.All() {
		if i > 0 {
			names += ", "
		}
		names += f.Name
	}
	return names
}
