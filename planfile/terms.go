package planfile

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/connection/memory"
	"github.com/cube2222/shaclplan/rdf"
)

var defaultPrefixes = map[string]string{
	"rdf":  rdf.RDFNamespace,
	"rdfs": rdf.RDFSNamespace,
	"xsd":  rdf.XSDNamespace,
}

// parseTerm reads a term in a Turtle like notation: <iri>, prefix:local,
// _:blank or "literal" with an optional @lang or ^^datatype suffix.
func (b *Builder) parseTerm(text string) (rdf.Term, error) {
	switch {
	case strings.HasPrefix(text, "<") && strings.HasSuffix(text, ">"):
		return rdf.IRI(text[1 : len(text)-1]), nil
	case strings.HasPrefix(text, "_:"):
		return rdf.BlankNode(text[2:]), nil
	case strings.HasPrefix(text, `"`):
		end := strings.LastIndex(text, `"`)
		if end == 0 {
			return nil, errors.Errorf("unterminated literal %s", text)
		}
		lexical, suffix := text[1:end], text[end+1:]
		switch {
		case suffix == "":
			return rdf.NewLiteral(lexical), nil
		case strings.HasPrefix(suffix, "@"):
			return rdf.NewLangLiteral(lexical, suffix[1:]), nil
		case strings.HasPrefix(suffix, "^^"):
			datatype, err := b.parseTerm(suffix[2:])
			if err != nil {
				return nil, errors.Wrapf(err, "couldn't parse datatype of %s", text)
			}
			iri, ok := datatype.(rdf.IRI)
			if !ok {
				return nil, errors.Errorf("datatype of %s isn't an IRI", text)
			}
			return rdf.NewTypedLiteral(lexical, iri), nil
		default:
			return nil, errors.Errorf("invalid literal suffix in %s", text)
		}
	}

	prefix, local, ok := strings.Cut(text, ":")
	if !ok {
		return nil, errors.Errorf("invalid term '%s'", text)
	}
	namespace, ok := b.prefixes[prefix]
	if !ok {
		return nil, errors.Errorf("unknown prefix '%s' in %s", prefix, text)
	}
	return rdf.IRI(namespace + local), nil
}

func (b *Builder) parseTerms(texts []string) ([]rdf.Term, error) {
	out := make([]rdf.Term, len(texts))
	for i, text := range texts {
		term, err := b.parseTerm(text)
		if err != nil {
			return nil, err
		}
		out[i] = term
	}
	return out, nil
}

func (b *Builder) parseNode(text string) (memory.Node, error) {
	if strings.HasPrefix(text, "?") {
		return memory.Var(text[1:]), nil
	}
	term, err := b.parseTerm(text)
	if err != nil {
		return memory.Node{}, err
	}
	return memory.Term(term), nil
}

func (b *Builder) parseBGP(patterns [][]string) (memory.BGP, error) {
	if len(patterns) == 0 {
		return nil, errors.New("query without patterns")
	}
	bgp := make(memory.BGP, len(patterns))
	for i, pattern := range patterns {
		if len(pattern) != 3 {
			return nil, errors.Errorf("pattern with index %d must have 3 terms, has %d", i, len(pattern))
		}
		var nodes [3]memory.Node
		for j := range pattern {
			node, err := b.parseNode(pattern[j])
			if err != nil {
				return nil, errors.Wrapf(err, "couldn't parse pattern with index %d", i)
			}
			nodes[j] = node
		}
		bgp[i] = memory.TriplePattern{Subject: nodes[0], Predicate: nodes[1], Object: nodes[2]}
	}
	return bgp, nil
}
