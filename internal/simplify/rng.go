// Package simplify implements the ordered rewrite pipeline (§4.C) that
// reduces an arbitrary Relax NG schema, parsed into an internal/elementtree
// tree, to the canonical form internal/pattern's Grammar is built from.
package simplify

// NS is the Relax NG structure namespace every schema element belongs to.
const NS = "http://relaxng.org/ns/structure/1.0"

// Element local names this package recognizes.
const (
	elGrammar     = "grammar"
	elStart       = "start"
	elDefine      = "define"
	elRef         = "ref"
	elElement     = "element"
	elAttribute   = "attribute"
	elGroup       = "group"
	elInterleave  = "interleave"
	elChoice      = "choice"
	elOptional    = "optional"
	elZeroOrMore  = "zeroOrMore"
	elOneOrMore   = "oneOrMore"
	elList        = "list"
	elMixed       = "mixed"
	elValue       = "value"
	elData        = "data"
	elNotAllowed  = "notAllowed"
	elEmpty       = "empty"
	elText        = "text"
	elParam       = "param"
	elExcept      = "except"
	elAnyName     = "anyName"
	elNsName      = "nsName"
	elName        = "name"
	elExternalRef = "externalRef"
	elInclude     = "include"
	elDiv         = "div"
)

// Attribute local names (always in no namespace in Relax NG's own schema).
const (
	atName            = "name"
	atNs              = "ns"
	atHref            = "href"
	atCombine         = "combine"
	atDatatypeLibrary = "datatypeLibrary"
	atType            = "type"
)
