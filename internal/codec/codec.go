// Package codec serializes a compiled *pattern.Grammar to and from the
// JSON format described by §6: every pattern/name-class variant carries
// a "kind" discriminator so a grammar compiled once can be cached and
// reloaded without re-running the simplifier.
package codec

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/relaxng/rng/internal/namepattern"
	"github.com/relaxng/rng/internal/pattern"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type wirePattern struct {
	Kind pattern.Kind `json:"kind"`

	DatatypeLibrary string          `json:"datatypeLibrary,omitempty"`
	Datatype        string          `json:"datatype,omitempty"`
	Params          []pattern.Param `json:"params,omitempty"`
	Value           string          `json:"value,omitempty"`
	NS              string          `json:"ns,omitempty"`
	Except          *wirePattern    `json:"except,omitempty"`

	A *wirePattern `json:"a,omitempty"`
	B *wirePattern `json:"b,omitempty"`
	P *wirePattern `json:"p,omitempty"`

	NameClass *namepattern.Wire `json:"nameClass,omitempty"`
	Content   *wirePattern      `json:"content,omitempty"`

	Name string `json:"name,omitempty"`
}

type wireDefine struct {
	Name    string       `json:"name"`
	Element *wirePattern `json:"element"`
}

type wireGrammar struct {
	Start       *wirePattern           `json:"start"`
	Definitions map[string]*wireDefine `json:"definitions"`
}

func encodePattern(p pattern.Pattern) *wirePattern {
	if p == nil {
		return nil
	}
	switch n := p.(type) {
	case pattern.Empty:
		return &wirePattern{Kind: pattern.KindEmpty}
	case pattern.NotAllowed:
		return &wirePattern{Kind: pattern.KindNotAllowed}
	case pattern.Text:
		return &wirePattern{Kind: pattern.KindText}
	case *pattern.Data:
		return &wirePattern{
			Kind:            pattern.KindData,
			DatatypeLibrary: n.DatatypeLibrary,
			Datatype:        n.Datatype,
			Params:          n.Params,
			Except:          encodePattern(n.Except),
		}
	case *pattern.Value:
		return &wirePattern{
			Kind:            pattern.KindValue,
			DatatypeLibrary: n.DatatypeLibrary,
			Datatype:        n.Datatype,
			Value:           n.Value,
			NS:              n.NS,
		}
	case *pattern.Choice:
		return &wirePattern{Kind: pattern.KindChoice, A: encodePattern(n.A), B: encodePattern(n.B)}
	case *pattern.Group:
		return &wirePattern{Kind: pattern.KindGroup, A: encodePattern(n.A), B: encodePattern(n.B)}
	case *pattern.Interleave:
		return &wirePattern{Kind: pattern.KindInterleave, A: encodePattern(n.A), B: encodePattern(n.B)}
	case *pattern.OneOrMore:
		return &wirePattern{Kind: pattern.KindOneOrMore, P: encodePattern(n.P)}
	case *pattern.List:
		return &wirePattern{Kind: pattern.KindList, P: encodePattern(n.P)}
	case *pattern.Attribute:
		return &wirePattern{Kind: pattern.KindAttribute, NameClass: namepattern.Encode(n.NameClass), Content: encodePattern(n.P)}
	case *pattern.Element:
		return &wirePattern{Kind: pattern.KindElement, NameClass: namepattern.Encode(n.NameClass), Content: encodePattern(n.P)}
	case *pattern.Ref:
		return &wirePattern{Kind: pattern.KindRef, Name: n.Name}
	default:
		panic(fmt.Sprintf("codec: encodePattern: unexpected pattern kind %T", p))
	}
}

func decodePattern(w *wirePattern) pattern.Pattern {
	if w == nil {
		return nil
	}
	switch w.Kind {
	case pattern.KindEmpty:
		return pattern.Empty{}
	case pattern.KindNotAllowed:
		return pattern.NotAllowed{}
	case pattern.KindText:
		return pattern.Text{}
	case pattern.KindData:
		return &pattern.Data{
			DatatypeLibrary: w.DatatypeLibrary,
			Datatype:        w.Datatype,
			Params:          w.Params,
			Except:          decodePattern(w.Except),
		}
	case pattern.KindValue:
		return &pattern.Value{
			DatatypeLibrary: w.DatatypeLibrary,
			Datatype:        w.Datatype,
			Value:           w.Value,
			NS:              w.NS,
		}
	case pattern.KindChoice:
		return &pattern.Choice{A: decodePattern(w.A), B: decodePattern(w.B)}
	case pattern.KindGroup:
		return &pattern.Group{A: decodePattern(w.A), B: decodePattern(w.B)}
	case pattern.KindInterleave:
		return &pattern.Interleave{A: decodePattern(w.A), B: decodePattern(w.B)}
	case pattern.KindOneOrMore:
		return &pattern.OneOrMore{P: decodePattern(w.P)}
	case pattern.KindList:
		return &pattern.List{P: decodePattern(w.P)}
	case pattern.KindAttribute:
		return &pattern.Attribute{NameClass: namepattern.Decode(w.NameClass), P: decodePattern(w.Content)}
	case pattern.KindElement:
		return &pattern.Element{NameClass: namepattern.Decode(w.NameClass), P: decodePattern(w.Content)}
	case pattern.KindRef:
		return &pattern.Ref{Name: w.Name}
	default:
		panic(fmt.Sprintf("codec: decodePattern: unexpected wire kind %d", w.Kind))
	}
}

// WriteGrammar encodes g's start pattern and the full definition arena as
// JSON. g must already have passed Prepare (Ref.Name is what's written;
// the resolved link itself is rebuilt by ReadGrammar).
func WriteGrammar(w io.Writer, g *pattern.Grammar) error {
	wg := wireGrammar{Start: encodePattern(g.Start), Definitions: make(map[string]*wireDefine, len(g.Definitions))}
	for name, d := range g.Definitions {
		wg.Definitions[name] = &wireDefine{Name: d.Name, Element: encodePattern(d.Element)}
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(wg); err != nil {
		return fmt.Errorf("codec: write grammar: %w", err)
	}
	return nil
}

// ReadGrammar decodes a grammar written by WriteGrammar and relinks every
// Ref against the reconstructed definition arena.
func ReadGrammar(r io.Reader) (*pattern.Grammar, error) {
	var wg wireGrammar
	if err := json.NewDecoder(r).Decode(&wg); err != nil {
		return nil, fmt.Errorf("codec: read grammar: %w", err)
	}
	g := &pattern.Grammar{
		Start:       decodePattern(wg.Start),
		Definitions: make(map[string]*pattern.Define, len(wg.Definitions)),
	}
	for name, wd := range wg.Definitions {
		el, ok := decodePattern(wd.Element).(*pattern.Element)
		if !ok {
			return nil, fmt.Errorf("codec: read grammar: definition %q has no element body", name)
		}
		g.Definitions[name] = &pattern.Define{Name: wd.Name, Element: el}
	}
	if err := g.Prepare(); err != nil {
		return nil, fmt.Errorf("codec: read grammar: %w", err)
	}
	return g, nil
}
