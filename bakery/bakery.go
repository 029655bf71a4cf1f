// Package bakery declares the pretty-printer interface the grammar core
// bakes itself through. It is consumed, not owned: no implementation lives
// here, only the contract a renderer (BNF/EBNF text, HTML, whatever the
// embedder wants) must satisfy. The core never imports a concrete printer;
// it only ever holds a Printer value.
package bakery

// Printer receives one Bake* call per operator kind, already supplied with
// the baked string of each child, and returns the rendered text for that
// node. Terminal and Nonterminal leaves are baked directly from their name.
//
// Precedence governs when a caller must wrap a child's baked text in
// parentheses/grouping before splicing it into a parent: if a child's
// operator kind has strictly lower precedence (a larger number, by this
// package's convention) than its parent, the core calls BakeGroup on it
// first.
type Printer interface {
	BakeTerminal(name string) string
	BakeNonterminal(name string) string

	BakeConcat(children []string) string
	BakeAlter(children []string) string
	BakeOptional(child string) string
	BakeRepeat(child string) string
	BakeGroup(child string) string
	BakeExcept(a, b string) string
	BakeComment(child string) string
	BakeSpecialSeq(child string) string
	BakeEnd() string
	BakeRulesDef(defines []string) string
	BakeRepeatExact(n int, child string) string
	BakeRepeatGE(n int, child string) string
	BakeRepeatRange(m, n int, child string) string

	// Precedence returns the binding strength of kind; lower values bind
	// tighter. NonePrecedence is the precedence of the outermost, operator-
	// free scope and must be looser than every operator's precedence.
	Precedence(kind Kind) int
	NonePrecedence() int
}

// Kind mirrors symbol.Kind without importing package symbol, keeping this
// package free of any dependency on the grammar tree it renders.
type Kind int

const (
	KindTerminal Kind = iota
	KindNonterminal
	KindRange
	KindConcat
	KindAlter
	KindOptional
	KindRepeat
	KindGroup
	KindExcept
	KindDefine
	KindRulesDef
	KindRepeatExact
	KindRepeatAtLeast
	KindRepeatRange
	KindComment
	KindSpecialSeq
	KindEnd
)
