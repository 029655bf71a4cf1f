// Package samples collects the reusable (grammar, input) fixtures used to
// exercise end-to-end scenarios across the ll1, shiftreduce, and
// cmd/grammarkit packages: digit repetition, a small calculator grammar
// parsed bottom-up with lookahead, nested bracketed structures under the
// advanced lexer, literal-vs-range tokenization conflicts, FOLLOW-driven
// reduction rejection, and context-manager disjoint-rule exclusion.
package samples

import "github.com/shadowCow/grammarkit/symbol"

// Fixture bundles a grammar's root symbol with a sample input and a short
// human-readable description of the expected shape, for use by tests and
// the demo CLI alike.
type Fixture struct {
	Name        string
	Root        symbol.Symbol
	Input       []byte
	Description string
}

// Digits: digit = "0"|...|"9" ; number = digit+
func Digits() Fixture {
	alts := make([]symbol.Symbol, 10)
	for i := 0; i < 10; i++ {
		alts[i] = symbol.Term(string(rune('0' + i)))
	}
	root := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("number"), symbol.RepeatAtLeast(1, symbol.NonTerm("digit"))),
		symbol.Define(symbol.NonTerm("digit"), symbol.Alter(alts...)),
	)
	return Fixture{
		Name:        "digits",
		Root:        root,
		Input:       []byte("1452"),
		Description: `number(digit("1"), digit("4"), digit("5"), digit("2"))`,
	}
}

// Calculator: op = number | add | sub | mul | div | group ;
// add/sub/mul/div = op OP op ; group = "(" op ")" ; number = [0-9]+
func Calculator() Fixture {
	root := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("op"), symbol.Alter(
			symbol.NonTerm("number"),
			symbol.NonTerm("add"),
			symbol.NonTerm("sub"),
			symbol.NonTerm("mul"),
			symbol.NonTerm("div"),
			symbol.NonTerm("group"),
		)),
		symbol.Define(symbol.NonTerm("add"), symbol.Concat(symbol.NonTerm("op"), symbol.Term("+"), symbol.NonTerm("op"))),
		symbol.Define(symbol.NonTerm("sub"), symbol.Concat(symbol.NonTerm("op"), symbol.Term("-"), symbol.NonTerm("op"))),
		symbol.Define(symbol.NonTerm("mul"), symbol.Concat(symbol.NonTerm("op"), symbol.Term("*"), symbol.NonTerm("op"))),
		symbol.Define(symbol.NonTerm("div"), symbol.Concat(symbol.NonTerm("op"), symbol.Term("/"), symbol.NonTerm("op"))),
		symbol.Define(symbol.NonTerm("group"), symbol.Concat(symbol.Term("("), symbol.NonTerm("op"), symbol.Term(")"))),
		symbol.Define(symbol.NonTerm("number"), symbol.RepeatAtLeast(1, symbol.Range(48, 57))),
	)
	return Fixture{
		Name:  "calculator",
		Root:  root,
		Input: []byte("12*(3+42)"),
		Description: `op(mul(op(number("12")), "*", op(group("(", op(add(op(number("3")), "+", ` +
			`op(number("42")))), ")"))))`,
	}
}

// Arrays: string = [a-z]+ ; op = string | group | array ;
// group = "(" op ("," op)* ")" ; array = "[" op ("," op)* "]"
func Arrays() Fixture {
	root := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("op"), symbol.Alter(
			symbol.NonTerm("string"),
			symbol.NonTerm("group"),
			symbol.NonTerm("array"),
		)),
		symbol.Define(symbol.NonTerm("string"), symbol.RepeatAtLeast(1, symbol.Range('a', 'z'))),
		symbol.Define(symbol.NonTerm("group"), symbol.Concat(
			symbol.Term("("),
			symbol.NonTerm("op"),
			symbol.Repeat(symbol.Concat(symbol.Term(","), symbol.NonTerm("op"))),
			symbol.Term(")"),
		)),
		symbol.Define(symbol.NonTerm("array"), symbol.Concat(
			symbol.Term("["),
			symbol.NonTerm("op"),
			symbol.Repeat(symbol.Concat(symbol.Term(","), symbol.NonTerm("op"))),
			symbol.Term("]"),
		)),
	)
	return Fixture{
		Name:        "arrays",
		Root:        root,
		Input:       []byte("(abc,asdf,[a,(gfds,sdf)])"),
		Description: "group wrapping string/array siblings, alternating group/array layers",
	}
}

// RangeDisambiguation: stmt = keyword | ident ; keyword = "if" ; ident = [a-z]+
// The literal "if" overlaps the range [a-z]. Being longer than one byte, it
// is not carved out of the range; the advanced lexer's longest match yields
// "if" with the keyword candidate, then "x" with only the ident candidate.
func RangeDisambiguation() Fixture {
	root := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("stmt"), symbol.Alter(
			symbol.NonTerm("keyword"),
			symbol.NonTerm("ident"),
		)),
		symbol.Define(symbol.NonTerm("keyword"), symbol.Term("if")),
		symbol.Define(symbol.NonTerm("ident"), symbol.RepeatAtLeast(1, symbol.Range('a', 'z'))),
	)
	return Fixture{
		Name:        "range-disambiguation",
		Root:        root,
		Input:       []byte("ifx"),
		Description: `tokenizes as "if" (keyword candidate) then "x" (ident candidate)`,
	}
}

// FollowRejection: A = "x" | "x" "y"
// With lookahead enabled, "x" reduces to the first alternative, "xy" to the
// second, and "xz" is rejected while reducing the second alternative
// because "z" is not in FOLLOW of the longer form.
func FollowRejection() (grammarRoot symbol.Symbol, inputs map[string][]byte) {
	root := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("A"), symbol.Alter(
			symbol.Term("x"),
			symbol.Concat(symbol.Term("x"), symbol.Term("y")),
		)),
	)
	return root, map[string][]byte{
		"short":    []byte("x"),
		"long":     []byte("xy"),
		"rejected": []byte("xz"),
	}
}

// ContextReducibility: block = "begin" stmt "end" ; stmt = "x" ;
// other = "x" (deliberately unreferenced by anything, so D(stmt) contains
// other). While parsing inside block, a reduction candidate for other is
// structurally possible (its body also matches the token "x") but must be
// rejected by CheckCtx once the parser has committed to being inside block,
// since other can never transitively appear there.
func ContextReducibility() Fixture {
	root := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("block"), symbol.Concat(
			symbol.Term("begin"),
			symbol.NonTerm("stmt"),
			symbol.Term("end"),
		)),
		symbol.Define(symbol.NonTerm("stmt"), symbol.Term("x")),
		symbol.Define(symbol.NonTerm("other"), symbol.Term("x")),
	)
	return Fixture{
		Name:        "context-reducibility",
		Root:        root,
		Input:       []byte("beginxend"),
		Description: `reduces "x" to stmt, never to other, once inside block`,
	}
}

// All returns every named fixture in the order listed in this module's
// end-to-end scenario catalog.
func All() []Fixture {
	return []Fixture{
		Digits(),
		Calculator(),
		Arrays(),
		RangeDisambiguation(),
		ContextReducibility(),
	}
}
