// Package planfile builds plans from their YAML description.
//
// A plan file names reusable nodes and a root:
//
//	prefixes:
//	  ex: http://example.com/
//	nodes:
//	  people:
//	    type: select
//	    patterns: [["?person", "rdf:type", "ex:Person"]]
//	    variables: [person]
//	  ages:
//	    type: batchedJoin
//	    left: {ref: people}
//	    patterns: [["?person", "ex:age", "?age"]]
//	    variables: [person, age]
//	root:
//	  type: union
//	  sources: [{ref: ages}, {type: discarded, of: ages, side: left}]
//
// A named node is built once, so every reference to it shares the same
// instance. This is how side outputs reach the node that feeds them.
package planfile

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type File struct {
	Prefixes map[string]string `yaml:"prefixes"`
	Nodes    map[string]*Node  `yaml:"nodes"`
	Root     *Node             `yaml:"root"`
}

// Node describes a plan node. Which fields apply depends on Type.
type Node struct {
	Type string `yaml:"type"`
	// Ref points at a named node instead of describing one.
	Ref string `yaml:"ref"`
	// Of names the node a side output or split belongs to.
	Of   string `yaml:"of"`
	Side string `yaml:"side"`

	Source  *Node   `yaml:"source"`
	Left    *Node   `yaml:"left"`
	Right   *Node   `yaml:"right"`
	Other   *Node   `yaml:"other"`
	Sources []*Node `yaml:"sources"`

	Rows      [][]string `yaml:"rows"`
	Sorted    bool       `yaml:"sorted"`
	Patterns  [][]string `yaml:"patterns"`
	Variables []string   `yaml:"variables"`
	Graphs    []string   `yaml:"graphs"`

	Condition   *Condition `yaml:"condition"`
	UseAsFilter bool       `yaml:"useAsFilter"`
	Outer       bool       `yaml:"outer"`
	BatchSize   int        `yaml:"batchSize"`
	SkipValues  []string   `yaml:"skipValues"`
	Columns     []int      `yaml:"columns"`
	Limit       *int64     `yaml:"limit"`
	Offset      int64      `yaml:"offset"`
	Distinct    bool       `yaml:"distinct"`
	Capacity    int        `yaml:"capacity"`
}

type Condition struct {
	Type     string   `yaml:"type"`
	Column   int      `yaml:"column"`
	Types    []string `yaml:"types"`
	Inferred bool     `yaml:"inferred"`
	Values   []string `yaml:"values"`
	Kinds    []string `yaml:"kinds"`
}

func Parse(r io.Reader) (*File, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(err, "couldn't decode plan file")
	}
	if file.Root == nil {
		return nil, errors.New("plan file has no root")
	}
	return &file, nil
}
