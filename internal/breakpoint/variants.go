package breakpoint

import (
	"github.com/mvp-joe/breakscan/internal/applicability"
	"github.com/mvp-joe/breakscan/internal/syntax"
)

// LineOrdinal is the ordinal of the variant that stops on the line itself
// rather than inside one of its lambdas.
const LineOrdinal = -1

// VariantKind tells the three kinds of breakpoint variant apart.
type VariantKind string

const (
	VariantLine   VariantKind = "line"
	VariantLambda VariantKind = "lambda"
	VariantAll    VariantKind = "all"
)

// Variant is one place a breakpoint set on a line may stop.
type Variant struct {
	Kind    VariantKind
	Ordinal int
	Anchor  *syntax.Node
}

// Variants lists the breakpoint variants for line: the enclosing statement
// (LineOrdinal), then each lambda whose body starts on the line in order,
// then an "all" variant when there is a choice to make. Lines without
// lambdas have no variants.
func Variants(f *syntax.File, line int) []Variant {
	lambdas := LambdasAtLine(f, line)
	if len(lambdas) == 0 {
		return nil
	}

	lang := f.Language
	element := elementAtLine(f, line)

	var variants []Variant
	lineAdded := false

	if enclosing := enclosingCallable(lang, element); enclosing != nil {
		isLambdaResult := indexOf(lambdas, enclosing) >= 0 || indexOf(lambdas, bodyOf(lang, enclosing)) >= 0
		if !isLambdaResult {
			variants = append(variants, Variant{Kind: VariantLine, Ordinal: LineOrdinal, Anchor: element})
			lineAdded = true
		}
	}

	for i, lambda := range lambdas {
		variants = append(variants, Variant{Kind: VariantLambda, Ordinal: i, Anchor: lambda})
	}

	if lineAdded && len(variants) > 1 {
		variants = append(variants, Variant{Kind: VariantAll, Ordinal: len(lambdas), Anchor: element})
	}
	return variants
}

// LambdasAtLine returns the lambdas in the statements on line whose first
// body statement both starts and ends on that line, in document order.
func LambdasAtLine(f *syntax.File, line int) []*syntax.Node {
	element := elementAtLine(f, line)
	if element == nil {
		return nil
	}

	start, end := element.Offset(), element.End()
	for sibling := element.NextSibling(); sibling != nil && sibling.StartLine() == line; sibling = sibling.NextSibling() {
		end = sibling.End()
	}

	lang := f.Language
	var lambdas []*syntax.Node
	f.Root().Walk(func(n *syntax.Node) bool {
		if n.End() < start || n.Offset() > end {
			return false
		}
		if n.IsNamed() && lang.Lambdas.Has(n.Kind()) && n.Offset() >= start && n.End() <= end {
			first := lambdaFirstStatement(lang, n)
			if first.StartLine() == line && first.EndLine() == line {
				lambdas = append(lambdas, n)
			}
		}
		return true
	})
	return lambdas
}

// elementAtLine returns the outermost node starting the first code on line.
func elementAtLine(f *syntax.File, line int) *syntax.Node {
	for n := range f.NodesOnLine(line) {
		if n.IsWhitespace() || n.InComment() || !n.IsValid() {
			continue
		}
		return applicability.TopmostOnLine(f.Lines(), n, line)
	}
	return nil
}

func lambdaFirstStatement(lang *syntax.Language, lambda *syntax.Node) *syntax.Node {
	body := bodyOf(lang, lambda)
	if body == nil {
		return lambda
	}
	if !lang.Blocks.Has(body.Kind()) {
		return body
	}
	if first := firstStatement(lang, body); first != nil {
		return first
	}
	return lambda
}

// enclosingCallable returns the nearest function or lambda around n, n included.
func enclosingCallable(lang *syntax.Language, n *syntax.Node) *syntax.Node {
	for cur, ok := n, n != nil; ok; cur, ok = cur.Parent() {
		if cur.IsNamed() && (lang.Functions.Has(cur.Kind()) || lang.Lambdas.Has(cur.Kind())) {
			return cur
		}
	}
	return nil
}

func indexOf(nodes []*syntax.Node, n *syntax.Node) int {
	if n == nil {
		return -1
	}
	for i, candidate := range nodes {
		if syntax.Same(candidate, n) {
			return i
		}
	}
	return -1
}
