// Package elementtree is the simplifier's mutable, parent-linked working
// representation of a parsed Relax NG schema (or any XML document fed
// through the same mutation API during simplification).
package elementtree

import (
	"fmt"
	"strings"
	"sync"
)

// Kind distinguishes the two node shapes the tree can hold.
type Kind uint8

const (
	// Element is a tagged node with attributes and children.
	Element Kind = iota
	// Text is a character-data leaf.
	Text
)

// AttrName is an attribute's expanded name.
type AttrName struct {
	URI   string
	Local string
}

// Attribute is one name/value pair attached to an Element node.
type Attribute struct {
	Prefix string
	Local  string
	URI    string
	Value  string
}

// Node is either an Element or a Text leaf. Every non-root node has a
// unique Parent; mutation methods preserve the invariant that for each
// child c, c.Parent.Children contains c exactly once at a known index.
type Node struct {
	Kind Kind

	// Element fields.
	Prefix     string
	Local      string
	URI        string
	NSDecls    map[string]string // prefix -> uri, "" for the default namespace
	attrOrder  []AttrName
	attrs      map[AttrName]*Attribute
	Children   []*Node

	// Text field.
	TextContent string

	Parent *Node

	pathOnce  sync.Once
	pathLabel string
}

// NewElement returns a detached Element node.
func NewElement(prefix, local, uri string) *Node {
	return &Node{Kind: Element, Prefix: prefix, Local: local, URI: uri}
}

// NewText returns a detached Text node.
func NewText(text string) *Node {
	return &Node{Kind: Text, TextContent: text}
}

// ErrNotAChild is returned by IndexOfChild when the argument is not among
// the receiver's children.
type ErrNotAChild struct{ Node *Node }

func (e *ErrNotAChild) Error() string { return "elementtree: node is not a child" }

// ErrNoParent is returned by ReplaceWith when called on a root node.
type ErrNoParent struct{ Node *Node }

func (e *ErrNoParent) Error() string { return "elementtree: node has no parent" }

// SetAttribute sets (or replaces) an attribute by expanded name,
// preserving first-seen document order.
func (n *Node) SetAttribute(name AttrName, attr *Attribute) {
	if n.attrs == nil {
		n.attrs = make(map[AttrName]*Attribute)
	}
	if _, exists := n.attrs[name]; !exists {
		n.attrOrder = append(n.attrOrder, name)
	}
	n.attrs[name] = attr
}

// Attribute looks up an attribute by expanded name.
func (n *Node) Attribute(name AttrName) (*Attribute, bool) {
	if n.attrs == nil {
		return nil, false
	}
	a, ok := n.attrs[name]
	return a, ok
}

// AttributeValue is a convenience wrapper returning "" when absent.
func (n *Node) AttributeValue(uri, local string) string {
	a, ok := n.Attribute(AttrName{URI: uri, Local: local})
	if !ok {
		return ""
	}
	return a.Value
}

// RemoveAttribute deletes an attribute by expanded name.
func (n *Node) RemoveAttribute(name AttrName) {
	if n.attrs == nil {
		return
	}
	if _, ok := n.attrs[name]; !ok {
		return
	}
	delete(n.attrs, name)
	for i, a := range n.attrOrder {
		if a == name {
			n.attrOrder = append(n.attrOrder[:i], n.attrOrder[i+1:]...)
			break
		}
	}
}

// Attributes iterates attributes in document order.
func (n *Node) Attributes() []AttrName {
	return n.attrOrder
}

// IndexOfChild returns the position of child in n.Children.
func (n *Node) IndexOfChild(child *Node) (int, error) {
	for i, c := range n.Children {
		if c == child {
			return i, nil
		}
	}
	return -1, &ErrNotAChild{Node: child}
}

func (n *Node) detach() {
	if n.Parent == nil {
		return
	}
	idx, err := n.Parent.IndexOfChild(n)
	if err != nil {
		n.Parent = nil
		return
	}
	n.Parent.Children = append(n.Parent.Children[:idx], n.Parent.Children[idx+1:]...)
	n.Parent = nil
}

// Append adds child as the last child, detaching it from any previous
// parent first.
func (n *Node) Append(child *Node) {
	child.detach()
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Prepend adds child as the first child.
func (n *Node) Prepend(child *Node) {
	child.detach()
	child.Parent = n
	n.Children = append([]*Node{child}, n.Children...)
}

// Insert inserts child at position idx, shifting later children right.
func (n *Node) Insert(idx int, child *Node) {
	child.detach()
	child.Parent = n
	if idx < 0 {
		idx = 0
	}
	if idx > len(n.Children) {
		idx = len(n.Children)
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[idx+1:], n.Children[idx:])
	n.Children[idx] = child
}

// Remove detaches child from n. It is a no-op if child is not n's child.
func (n *Node) Remove(child *Node) {
	if child.Parent != n {
		return
	}
	child.detach()
}

// ReplaceChildWith replaces c (a child of n) with r, detaching r from its
// current parent first.
func (n *Node) ReplaceChildWith(c, r *Node) error {
	idx, err := n.IndexOfChild(c)
	if err != nil {
		return err
	}
	r.detach()
	c.Parent = nil
	r.Parent = n
	n.Children[idx] = r
	return nil
}

// ReplaceWith replaces the receiver in its parent's children with r.
// Returns ErrNoParent if called on a root node.
func (n *Node) ReplaceWith(r *Node) error {
	if n.Parent == nil {
		return &ErrNoParent{Node: n}
	}
	return n.Parent.ReplaceChildWith(n, r)
}

// GrabChildren transfers all of src's children onto n, in order,
// appending after n's existing children, in O(n+m).
func (n *Node) GrabChildren(src *Node) {
	for _, c := range src.Children {
		c.Parent = n
	}
	n.Children = append(n.Children, src.Children...)
	src.Children = nil
}

// Empty removes all children of n.
func (n *Node) Empty() {
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
}

// Clone returns a deep copy of the subtree rooted at n, detached from any
// parent, with fresh (unaliased) attribute maps.
func (n *Node) Clone() *Node {
	c := &Node{
		Kind:        n.Kind,
		Prefix:      n.Prefix,
		Local:       n.Local,
		URI:         n.URI,
		TextContent: n.TextContent,
	}
	if n.NSDecls != nil {
		c.NSDecls = make(map[string]string, len(n.NSDecls))
		for k, v := range n.NSDecls {
			c.NSDecls[k] = v
		}
	}
	if len(n.attrOrder) > 0 {
		c.attrOrder = append([]AttrName{}, n.attrOrder...)
		c.attrs = make(map[AttrName]*Attribute, len(n.attrs))
		for k, v := range n.attrs {
			cp := *v
			c.attrs[k] = &cp
		}
	}
	for _, child := range n.Children {
		cc := child.Clone()
		cc.Parent = c
		c.Children = append(c.Children, cc)
	}
	return c
}

// ResolvePrefix resolves an XML prefix to a namespace URI by walking the
// ancestor chain, honoring the fixed xml/xmlns bindings.
func (n *Node) ResolvePrefix(prefix string) (string, bool) {
	switch prefix {
	case "xml":
		return "http://www.w3.org/XML/1998/namespace", true
	case "xmlns":
		return "http://www.w3.org/2000/xmlns/", true
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.NSDecls == nil {
			continue
		}
		if uri, ok := cur.NSDecls[prefix]; ok {
			return uri, true
		}
	}
	return "", false
}

// Path returns a lazily-computed, ancestor-derived label used only for
// error messages. It is safe to call only once the tree has stopped
// mutating: the result is cached on first use.
func (n *Node) Path() string {
	n.pathOnce.Do(func() {
		n.pathLabel = n.computePath()
	})
	return n.pathLabel
}

func (n *Node) computePath() string {
	if n.Kind == Text {
		if n.Parent == nil {
			return "#text"
		}
		return n.Parent.Path() + "/#text"
	}
	var parts []string
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Kind != Element {
			continue
		}
		label := cur.Local
		if name := cur.AttributeValue("", "name"); name != "" {
			label = fmt.Sprintf("%s[@name=%q]", label, name)
		}
		parts = append(parts, label)
	}
	// parts is leaf-to-root; reverse into root-to-leaf order.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "/" + strings.Join(parts, "/")
}
