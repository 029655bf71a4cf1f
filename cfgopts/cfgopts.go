// Package cfgopts defines the toolkit's runtime option flags and loads
// named profiles bundling them from a TOML document, so a CLI or embedding
// application can select a tokenizer/parser configuration by name instead
// of wiring individual flags.
package cfgopts

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// TokenizerMode selects which lexer.* implementation a profile wires up.
type TokenizerMode string

const (
	Legacy   TokenizerMode = "legacy"
	Advanced TokenizerMode = "advanced"
)

// ParserMode selects which parsing engine a profile wires up.
type ParserMode string

const (
	LL1         ParserMode = "ll1"
	ShiftReduce ParserMode = "shiftreduce"
)

// TokenizerOptions configures lexer construction. HandleDuplicates and
// HandleDuplicatesAtRuntime only apply to Mode == Advanced; see
// lexer.AdvancedOptions for what each one does. HandleDuplicatesAtRuntime is
// ignored when HandleDuplicates is also set.
type TokenizerOptions struct {
	Mode                      TokenizerMode `toml:"mode"`
	HandleDuplicates          bool          `toml:"handle_duplicates"`
	HandleDuplicatesAtRuntime bool          `toml:"handle_duplicates_at_runtime"`
}

// ParserOptions configures parser construction. Policy only applies to
// LL1; Lookahead/HeuristicCtx/PrettyPrint only apply to ShiftReduce.
type ParserOptions struct {
	Mode         ParserMode `toml:"mode"`
	Policy       string     `toml:"policy"` // "first" | "longest", LL1 only
	Lookahead    bool       `toml:"lookahead"`
	HeuristicCtx bool       `toml:"heuristic_ctx"`
	PrettyPrint  bool       `toml:"pretty_print"`
}

// Profile bundles a tokenizer and parser configuration under a name, as
// loaded from a TOML document.
type Profile struct {
	Name      string           `toml:"name"`
	Tokenizer TokenizerOptions `toml:"tokenizer"`
	Parser    ParserOptions    `toml:"parser"`
}

// Document is the top-level shape of a profiles file: a named table of
// Profiles, so one file can hold several configurations.
type Document struct {
	Profiles map[string]Profile `toml:"profiles"`
}

// LoadProfiles parses a TOML document from path into a Document.
func LoadProfiles(path string) (*Document, error) {
	var doc Document
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("cfgopts: decode %s: %w", path, err)
	}
	return &doc, nil
}

// Profile looks up a named profile, returning an error if it is absent.
func (d *Document) Profile(name string) (Profile, error) {
	p, ok := d.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("cfgopts: no such profile %q", name)
	}
	return p, nil
}

// Default returns the built-in baseline profile: advanced lexer, LL(1)
// parser with PickFirst, used when no profile file is given.
func Default() Profile {
	return Profile{
		Name: "default",
		Tokenizer: TokenizerOptions{
			Mode: Advanced,
		},
		Parser: ParserOptions{
			Mode:   LL1,
			Policy: "first",
		},
	}
}
