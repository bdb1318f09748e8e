package elementtree

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Parse reads an XML document into a detached tree rooted at its
// document element. It is the one place this package touches XML
// tokenization: the simplifier needs a static, mutable representation
// of a schema document to rewrite in place, distinct from the runtime
// XML event source (internal/xmlevents) that drives validation of the
// document being checked.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("elementtree: parse: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := NewElement("", t.Name.Local, t.Name.Space)
			var ns map[string]string
			for _, a := range t.Attr {
				switch {
				case a.Name.Space == "xmlns":
					if ns == nil {
						ns = make(map[string]string)
					}
					ns[a.Name.Local] = a.Value
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					if ns == nil {
						ns = make(map[string]string)
					}
					ns[""] = a.Value
				default:
					n.SetAttribute(AttrName{URI: a.Name.Space, Local: a.Name.Local},
						&Attribute{Local: a.Name.Local, URI: a.Name.Space, Value: a.Value})
				}
			}
			n.NSDecls = ns
			if len(stack) == 0 {
				root = n
			} else {
				stack[len(stack)-1].Append(n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			stack[len(stack)-1].Append(NewText(string(t)))
		}
	}
	if root == nil {
		return nil, fmt.Errorf("elementtree: parse: document has no root element")
	}
	return root, nil
}
