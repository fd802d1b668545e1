package formats

import (
	"io"

	"github.com/valyala/fastjson"

	"github.com/cube2222/shaclplan/execution"
	"github.com/cube2222/shaclplan/rdf"
)

// JSONFormatter prints one object per line. Columns hold RDF/JSON term
// objects; a non-empty causedBy list is added under "causedBy".
type JSONFormatter struct {
	buf   []byte
	arena *fastjson.Arena
	w     io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{
		buf:   make([]byte, 0, 1024),
		arena: new(fastjson.Arena),
		w:     w,
	}
}

func (t *JSONFormatter) Write(row *execution.Row) error {
	obj := t.arena.NewObject()
	names := columnNames(row.Len())
	for i := range names {
		obj.Set(names[i], TermToJSON(t.arena, row.At(i)))
	}
	if causedBy := row.CausedBy(); len(causedBy) > 0 {
		arr := t.arena.NewArray()
		for i := range causedBy {
			arr.SetArrayItem(i, t.arena.NewString(string(causedBy[i])))
		}
		obj.Set("causedBy", arr)
	}

	t.buf = obj.MarshalTo(t.buf)
	t.buf = append(t.buf, '\n')
	_, err := t.w.Write(t.buf)
	t.buf = t.buf[:0]
	t.arena.Reset()
	return err
}

// TermToJSON encodes a term the way RDF/JSON encodes objects.
func TermToJSON(arena *fastjson.Arena, term rdf.Term) *fastjson.Value {
	obj := arena.NewObject()
	switch term := term.(type) {
	case rdf.IRI:
		obj.Set("type", arena.NewString("uri"))
		obj.Set("value", arena.NewString(string(term)))
	case rdf.BlankNode:
		obj.Set("type", arena.NewString("bnode"))
		obj.Set("value", arena.NewString(term.String()))
	case rdf.Literal:
		obj.Set("type", arena.NewString("literal"))
		obj.Set("value", arena.NewString(term.Lexical))
		switch {
		case term.Language != "":
			obj.Set("lang", arena.NewString(term.Language))
		case term.Datatype != "":
			obj.Set("datatype", arena.NewString(string(term.Datatype)))
		}
	default:
		obj.Set("value", arena.NewString(term.String()))
	}
	return obj
}

func (t *JSONFormatter) Close() error {
	return nil
}
