package memory

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"

	"github.com/cube2222/shaclplan/rdf"
)

// LoadRDFJSON reads statements in the W3C RDF/JSON format into the given
// graph (nil for the default graph).
func LoadRDFJSON(r io.Reader, graph rdf.Term) ([]Quad, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read RDF/JSON input")
	}

	var p fastjson.Parser
	root, err := p.ParseBytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't parse RDF/JSON input")
	}
	subjects, err := root.Object()
	if err != nil {
		return nil, errors.Wrap(err, "RDF/JSON document must be an object")
	}

	var out []Quad
	var visitErr error
	subjects.Visit(func(subjectKey []byte, predicatesValue *fastjson.Value) {
		if visitErr != nil {
			return
		}
		subject := resource(string(subjectKey))
		predicates, err := predicatesValue.Object()
		if err != nil {
			visitErr = errors.Wrapf(err, "predicates of %s must be an object", subject)
			return
		}
		predicates.Visit(func(predicateKey []byte, objectsValue *fastjson.Value) {
			if visitErr != nil {
				return
			}
			predicate := rdf.IRI(predicateKey)
			objects, err := objectsValue.Array()
			if err != nil {
				visitErr = errors.Wrapf(err, "objects of %s %s must be an array", subject, predicate)
				return
			}
			for i, objectValue := range objects {
				object, err := objectTerm(objectValue)
				if err != nil {
					visitErr = errors.Wrapf(err, "couldn't decode object %d of %s %s", i, subject, predicate)
					return
				}
				out = append(out, Quad{Subject: subject, Predicate: predicate, Object: object, Graph: graph})
			}
		})
	})
	if visitErr != nil {
		return nil, visitErr
	}
	return out, nil
}

func resource(value string) rdf.Term {
	if strings.HasPrefix(value, "_:") {
		return rdf.BlankNode(strings.TrimPrefix(value, "_:"))
	}
	return rdf.IRI(value)
}

func objectTerm(v *fastjson.Value) (rdf.Term, error) {
	value := string(v.GetStringBytes("value"))
	switch kind := string(v.GetStringBytes("type")); kind {
	case "uri":
		return rdf.IRI(value), nil
	case "bnode":
		return rdf.BlankNode(strings.TrimPrefix(value, "_:")), nil
	case "literal":
		if lang := v.GetStringBytes("lang"); len(lang) > 0 {
			return rdf.NewLangLiteral(value, string(lang)), nil
		}
		if datatype := v.GetStringBytes("datatype"); len(datatype) > 0 {
			return rdf.NewTypedLiteral(value, rdf.IRI(datatype)), nil
		}
		return rdf.NewLiteral(value), nil
	default:
		return nil, errors.Errorf("invalid object type '%s'", kind)
	}
}
