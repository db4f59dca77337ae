// Package breakpoint decides which lines of a parsed file accept a line
// breakpoint and which lambda sub-targets a line offers.
//
// Functions here read the syntax tree directly. Callers hold the file's read
// lock (syntax.File.Read) for the duration of each call.
package breakpoint

import (
	"github.com/mvp-joe/breakscan/internal/applicability"
	"github.com/mvp-joe/breakscan/internal/syntax"
)

// errorKind is the kind tree-sitter gives to spans it could not parse.
const errorKind = "ERROR"

// LineClassifier returns the vote function for line of f. Lines inside a
// literal opened on an earlier line and code the parser could not make
// sense of get no say.
func LineClassifier(f *syntax.File, line int) applicability.Classifier[*syntax.Node] {
	lang := f.Language
	return func(n *syntax.Node) applicability.Vote {
		if !n.IsNamed() || inContinuedLiteral(lang, n, line) {
			return applicability.Unknown
		}

		kind := n.Kind()
		switch {
		case kind == errorKind:
			return applicability.Unknown
		case lang.Denied.Has(kind):
			return applicability.DefinitelyNo
		case lang.Functions.Has(kind):
			return classifyCallable(lang, n, line, applicability.Unknown)
		case lang.Lambdas.Has(kind):
			return classifyCallable(lang, n, line, applicability.MaybeYes)
		case lang.Statements.Has(kind):
			return applicability.DefinitelyYes
		case lang.Declarations.Has(kind):
			if assignsBefore(n, n.End()) {
				return applicability.MaybeYes
			}
			return applicability.DefinitelyNo
		case lang.Blocks.Has(kind):
			if statementStartsOn(lang, n, line) {
				return applicability.MaybeYes
			}
			return applicability.Unknown
		}
		return classifyFragment(lang, n)
	}
}

// IsApplicable reports whether a line breakpoint can be placed on line.
func IsApplicable(f *syntax.File, line int) bool {
	return applicability.IsLineApplicable(f.Lines(), line, f.NodesOnLine(line), LineClassifier(f, line))
}

// ApplicableLines returns every line of f that accepts a line breakpoint.
func ApplicableLines(f *syntax.File) []int {
	var lines []int
	for line := 0; line < f.Lines().LineCount(); line++ {
		if IsApplicable(f, line) {
			lines = append(lines, line)
		}
	}
	return lines
}

// classifyCallable votes on a function or lambda that starts on line. It is
// a definite yes when the body's first statement is on the same line.
func classifyCallable(lang *syntax.Language, fn *syntax.Node, line int, otherwise applicability.Vote) applicability.Vote {
	body := bodyOf(lang, fn)
	if body == nil {
		if lang.Functions.Has(fn.Kind()) {
			return applicability.DefinitelyNo
		}
		return otherwise
	}
	if body.StartLine() != line {
		return otherwise
	}
	if !lang.Blocks.Has(body.Kind()) {
		return applicability.DefinitelyYes
	}
	if first := firstStatement(lang, body); first != nil && first.StartLine() == line {
		return applicability.DefinitelyYes
	}
	return otherwise
}

// classifyFragment votes on a named node that is part of a larger construct
// starting on an earlier line, judging by the construct that owns it.
func classifyFragment(lang *syntax.Language, n *syntax.Node) applicability.Vote {
	child := n
	for parent, ok := n.Parent(); ok; parent, ok = parent.Parent() {
		kind := parent.Kind()
		switch {
		case kind == errorKind:
			return applicability.Unknown
		case parent.IsRoot(), lang.Statements.Has(kind), lang.Blocks.Has(kind):
			return applicability.MaybeYes
		case lang.Denied.Has(kind):
			return applicability.DefinitelyNo
		case lang.Functions.Has(kind), lang.Lambdas.Has(kind):
			if contains(bodyOf(lang, parent), child) {
				return applicability.MaybeYes
			}
			return applicability.Unknown
		case lang.Declarations.Has(kind):
			if assignsBefore(parent, n.Offset()) {
				return applicability.MaybeYes
			}
			return applicability.Unknown
		}
		child = parent
	}
	return applicability.MaybeYes
}

// inContinuedLiteral reports whether n lies in a string literal that opened
// before line. The search stops at the nearest statement or body.
func inContinuedLiteral(lang *syntax.Language, n *syntax.Node, line int) bool {
	for cur, ok := n, true; ok; cur, ok = cur.Parent() {
		kind := cur.Kind()
		if lang.Strings.Has(kind) {
			return cur.StartLine() < line
		}
		if cur.IsRoot() || lang.Statements.Has(kind) || lang.Blocks.Has(kind) ||
			lang.Functions.Has(kind) || lang.Lambdas.Has(kind) {
			return false
		}
	}
	return false
}

// bodyOf returns the body of a function or lambda.
func bodyOf(lang *syntax.Language, fn *syntax.Node) *syntax.Node {
	if body := fn.Field("body"); body != nil {
		return body
	}
	children := fn.NamedChildren()
	for i := len(children) - 1; i >= 0; i-- {
		if lang.Blocks.Has(children[i].Kind()) {
			return children[i]
		}
	}
	return nil
}

// firstStatement returns the first named, non-comment child of a block.
func firstStatement(lang *syntax.Language, block *syntax.Node) *syntax.Node {
	for _, child := range block.NamedChildren() {
		if !lang.Comments.Has(child.Kind()) {
			return child
		}
	}
	return nil
}

// assignsBefore reports whether decl holds an "=" token starting before offset.
func assignsBefore(decl *syntax.Node, offset int) bool {
	found := false
	decl.Walk(func(n *syntax.Node) bool {
		if found || n.Offset() >= offset {
			return false
		}
		if !n.IsNamed() && n.Kind() == "=" {
			found = true
			return false
		}
		return true
	})
	return found
}

// statementStartsOn reports whether a statement nested in n starts on line.
func statementStartsOn(lang *syntax.Language, n *syntax.Node, line int) bool {
	found := false
	n.Walk(func(cur *syntax.Node) bool {
		if found || cur.StartLine() > line || cur.EndLine() < line {
			return false
		}
		if lang.Statements.Has(cur.Kind()) && cur.StartLine() == line {
			found = true
			return false
		}
		return true
	})
	return found
}

func contains(outer, inner *syntax.Node) bool {
	if outer == nil || inner == nil {
		return false
	}
	return inner.Offset() >= outer.Offset() && inner.End() <= outer.End()
}
