package rdf

const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

const (
	RDFType        IRI = RDFNamespace + "type"
	RDFLangString  IRI = RDFNamespace + "langString"
	RDFSSubClassOf IRI = RDFSNamespace + "subClassOf"
	XSDString      IRI = XSDNamespace + "string"
	XSDInteger     IRI = XSDNamespace + "integer"
	XSDBoolean     IRI = XSDNamespace + "boolean"
	XSDDecimal     IRI = XSDNamespace + "decimal"
	XSDDateTime    IRI = XSDNamespace + "dateTime"
)
