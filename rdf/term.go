package rdf

import (
	"fmt"
	"strings"
)

type TermKind int

const (
	KindIRI TermKind = iota
	KindBlankNode
	KindLiteral
)

func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlankNode:
		return "bnode"
	case KindLiteral:
		return "literal"
	default:
		return fmt.Sprintf("TermKind(%d)", int(k))
	}
}

// Term is a single RDF value. String returns the canonical string form
// used for ordering.
type Term interface {
	Kind() TermKind
	String() string
}

type IRI string

func (IRI) Kind() TermKind     { return KindIRI }
func (iri IRI) String() string { return string(iri) }

type BlankNode string

func (BlankNode) Kind() TermKind   { return KindBlankNode }
func (b BlankNode) String() string { return "_:" + string(b) }

// Literal is a lexical value with either a datatype or a language tag.
// A zero Datatype means xsd:string (or rdf:langString when Language is set).
type Literal struct {
	Lexical  string
	Datatype IRI
	Language string
}

func NewLiteral(lexical string) Literal {
	return Literal{Lexical: lexical}
}

func NewTypedLiteral(lexical string, datatype IRI) Literal {
	if datatype == XSDString {
		datatype = ""
	}
	return Literal{Lexical: lexical, Datatype: datatype}
}

func NewLangLiteral(lexical, language string) Literal {
	return Literal{Lexical: lexical, Language: strings.ToLower(language)}
}

func (Literal) Kind() TermKind { return KindLiteral }

func (l Literal) String() string {
	var sb strings.Builder
	sb.Grow(len(l.Lexical) + len(l.Datatype) + len(l.Language) + 6)
	sb.WriteByte('"')
	sb.WriteString(l.Lexical)
	sb.WriteByte('"')
	switch {
	case l.Language != "":
		sb.WriteByte('@')
		sb.WriteString(l.Language)
	case l.Datatype != "":
		sb.WriteString("^^<")
		sb.WriteString(string(l.Datatype))
		sb.WriteByte('>')
	}
	return sb.String()
}

// DatatypeIRI returns the effective datatype of the literal.
func (l Literal) DatatypeIRI() IRI {
	switch {
	case l.Language != "":
		return RDFLangString
	case l.Datatype == "":
		return XSDString
	default:
		return l.Datatype
	}
}

// Equal reports whether two terms are the same RDF term.
func Equal(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case IRI:
		bb, ok := b.(IRI)
		return ok && a == bb
	case BlankNode:
		bb, ok := b.(BlankNode)
		return ok && a == bb
	case Literal:
		bb, ok := b.(Literal)
		return ok && a == bb
	}
	return a.String() == b.String()
}

// Compare orders terms by their string form.
func Compare(a, b Term) int {
	return strings.Compare(a.String(), b.String())
}
