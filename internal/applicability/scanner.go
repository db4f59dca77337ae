// Package applicability decides whether a line breakpoint can be placed on a
// source line by letting every syntax node on the line vote.
//
// The scanner knows nothing about any language. The caller supplies the nodes
// touching the line, the document line table and a classifier that turns a
// node into a Vote. One DefinitelyNo anywhere on the line vetoes the line.
package applicability

import "iter"

// Node is a syntax node as seen by the scanner. N is the concrete node type so
// that classifiers receive the caller's own type back.
type Node[N any] interface {
	// ID identifies the node within one tree. Two values describing the same
	// node must return the same ID.
	ID() uint64
	// Parent returns the enclosing node, or false at the top of the tree.
	Parent() (N, bool)
	// Offset is the start offset of the node's text, or a negative value if unknown.
	Offset() int
	// IsRoot reports whether the node is the file itself.
	IsRoot() bool
	IsWhitespace() bool
	// InComment reports whether the node is a comment or lies inside one.
	InComment() bool
	// IsValid is false for nodes of a tree that has since been discarded.
	IsValid() bool
}

// Document is the offset-to-line mapping of the scanned source.
type Document interface {
	Len() int
	LineCount() int
	LineOf(offset int) int
}

// Classifier votes on a representative node.
type Classifier[N any] func(N) Vote

// IsLineApplicable scans the nodes touching line in document order and
// aggregates their votes. Lines outside doc are never applicable.
func IsLineApplicable[N Node[N]](doc Document, line int, nodes iter.Seq[N], classify Classifier[N]) bool {
	if doc == nil || line < 0 || line >= doc.LineCount() {
		return false
	}

	applicable := false
	visited := make(map[uint64]struct{})

	for node := range nodes {
		if node.IsWhitespace() || node.InComment() || !node.IsValid() {
			continue
		}

		top := TopmostOnLine(doc, node, line)
		if _, seen := visited[top.ID()]; seen {
			continue
		}
		visited[top.ID()] = struct{}{}

		vote := classify(top)
		if vote.Stop && !vote.Applicable {
			return false
		}

		applicable = applicable || vote.Applicable
		if vote.Stop {
			break
		}
	}

	return applicable
}

// TopmostOnLine returns the outermost ancestor of node (or node itself) that
// still starts on line, never climbing to the file root.
func TopmostOnLine[N Node[N]](doc Document, node N, line int) N {
	current := node
	parent, ok := current.Parent()
	for ok && !parent.IsRoot() {
		offset := parent.Offset()
		// Stale trees can report offsets past the document end.
		if offset > doc.Len() {
			break
		}
		if offset >= 0 && doc.LineOf(offset) != line {
			break
		}

		current = parent
		parent, ok = current.Parent()
	}
	return current
}
