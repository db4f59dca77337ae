package syntax

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// whitespaceID marks IDs of whitespace nodes so they never collide with
// tree-sitter node ids.
const whitespaceID = uint64(1) << 63

// Node is a tree-sitter node bound to its File, or a whitespace run that
// tree-sitter does not represent.
type Node struct {
	file  *File
	gen   uint64
	ts    *sitter.Node
	start int
	end   int

	// outer is the smallest tree node enclosing a whitespace run.
	outer *sitter.Node
}

// ID identifies the node within its tree.
func (n *Node) ID() uint64 {
	if n.ts == nil {
		return whitespaceID | uint64(n.start)
	}
	return uint64(n.ts.Id())
}

// Parent returns the enclosing node.
func (n *Node) Parent() (*Node, bool) {
	if n.stale() {
		return nil, false
	}
	if n.ts == nil {
		if n.outer == nil {
			return nil, false
		}
		return n.file.wrap(n.outer), true
	}
	p := n.ts.Parent()
	if p == nil {
		return nil, false
	}
	return n.file.wrap(p), true
}

// Offset is the start byte of the node.
func (n *Node) Offset() int {
	return n.start
}

// End is the byte just past the node.
func (n *Node) End() int {
	return n.end
}

// IsRoot reports whether n is the file node.
func (n *Node) IsRoot() bool {
	if n.ts == nil || n.stale() {
		return false
	}
	return n.ts.Parent() == nil
}

// IsWhitespace reports whether the node covers only blanks.
func (n *Node) IsWhitespace() bool {
	if n.ts == nil {
		return true
	}
	return strings.TrimSpace(n.Text()) == ""
}

// InComment reports whether n is a comment token or nested in one.
func (n *Node) InComment() bool {
	if n.ts == nil || n.stale() {
		return false
	}
	comments := n.file.Language.Comments
	for cur := n.ts; cur != nil; cur = cur.Parent() {
		if comments.Has(cur.Kind()) {
			return true
		}
	}
	return false
}

// IsValid is false once the owning file has been closed, and for nodes the
// parser invented during error recovery.
func (n *Node) IsValid() bool {
	if n.stale() {
		return false
	}
	return n.ts == nil || !n.ts.IsMissing()
}

func (n *Node) stale() bool {
	return n.gen != n.file.generation.Load()
}

// Kind returns the grammar kind, or "whitespace".
func (n *Node) Kind() string {
	if n.ts == nil {
		return "whitespace"
	}
	return n.ts.Kind()
}

// IsNamed reports whether the grammar names this node. Punctuation and
// keywords are anonymous.
func (n *Node) IsNamed() bool {
	return n.ts != nil && n.ts.IsNamed()
}

// Text returns the source text of the node.
func (n *Node) Text() string {
	src := n.file.source
	if n.start < 0 || n.end > len(src) || n.start > n.end {
		return ""
	}
	return string(src[n.start:n.end])
}

// StartLine is the line the node starts on.
func (n *Node) StartLine() int {
	return n.file.lines.LineOf(n.start)
}

// EndLine is the line holding the node's last byte.
func (n *Node) EndLine() int {
	if n.end > n.start {
		return n.file.lines.LineOf(n.end - 1)
	}
	return n.StartLine()
}

// Field returns the child stored under a grammar field name.
func (n *Node) Field(name string) *Node {
	if n.ts == nil || n.stale() {
		return nil
	}
	return n.file.wrap(n.ts.ChildByFieldName(name))
}

// Children returns all direct children, named and anonymous.
func (n *Node) Children() []*Node {
	if n.ts == nil || n.stale() {
		return nil
	}
	count := n.ts.ChildCount()
	children := make([]*Node, 0, count)
	for i := uint(0); i < count; i++ {
		if child := n.file.wrap(n.ts.Child(i)); child != nil {
			children = append(children, child)
		}
	}
	return children
}

// NamedChildren returns the named direct children.
func (n *Node) NamedChildren() []*Node {
	var named []*Node
	for _, child := range n.Children() {
		if child.IsNamed() {
			named = append(named, child)
		}
	}
	return named
}

// NextSibling returns the following sibling.
func (n *Node) NextSibling() *Node {
	if n.ts == nil || n.stale() {
		return nil
	}
	return n.file.wrap(n.ts.NextSibling())
}

// Walk visits n and its descendants depth first. Returning false from visit
// skips the node's children.
func (n *Node) Walk(visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, child := range n.Children() {
		child.Walk(visit)
	}
}

// Same reports whether a and b are the same tree node.
func Same(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.file == b.file && a.ID() == b.ID()
}
