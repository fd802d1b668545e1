// Package graph renders plan trees, either as graphviz records or as an
// indented text outline.
package graph

import (
	"fmt"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/kr/text"
	"github.com/pkg/errors"
)

type Field struct {
	Name, Value string
}

// Child is an edge to an input node. Name labels the input's role, like
// "left" or "right".
type Child struct {
	Name string
	Node *Node
}

type Node struct {
	Name     string
	Fields   []Field
	Children []Child
}

func NewNode(name string) *Node {
	return &Node{
		Name: name,
	}
}

func (n *Node) AddField(name, value string) {
	n.Fields = append(n.Fields, Field{
		Name:  name,
		Value: value,
	})
}

func (n *Node) AddChild(name string, node *Node) {
	n.Children = append(n.Children, Child{
		Name: name,
		Node: node,
	})
}

type Visualizer interface {
	Visualize() *Node
}

// Text renders the tree as an indented outline, one node per line followed
// by its fields.
func Text(node *Node) string {
	var sb strings.Builder
	writeText(&sb, "", node)
	return sb.String()
}

func writeText(sb *strings.Builder, role string, node *Node) {
	if role != "" {
		fmt.Fprintf(sb, "%s: ", role)
	}
	sb.WriteString(node.Name)
	sb.WriteString("\n")

	var body strings.Builder
	for _, field := range node.Fields {
		fmt.Fprintf(&body, "%s = %s\n", field.Name, field.Value)
	}
	for _, child := range node.Children {
		writeText(&body, child.Name, child.Node)
	}
	sb.WriteString(text.Indent(body.String(), "  "))
}

// Show builds a left-to-right graphviz graph of the tree.
func Show(node *Node) (*gographviz.Graph, error) {
	graph := gographviz.NewGraph()
	graph.Directed = true
	if err := graph.AddAttr("", "rankdir", "LR"); err != nil {
		return nil, errors.Wrap(err, "couldn't set graph direction")
	}
	builder := &graphBuilder{
		graph:        graph,
		nameCounters: make(map[string]int),
	}

	if _, err := builder.addNode(node); err != nil {
		return nil, err
	}
	return graph, nil
}

type graphBuilder struct {
	graph        *gographviz.Graph
	nameCounters map[string]int
}

func (gb *graphBuilder) getID(name string) string {
	count := gb.nameCounters[name]
	gb.nameCounters[name]++
	return fmt.Sprintf("%s_%d", sanitize(name), count)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// escapeRecord escapes characters that are structural in record labels.
var escapeRecord = strings.NewReplacer(
	`"`, `\"`,
	"{", `\{`,
	"}", `\}`,
	"|", `\|`,
	"<", `\<`,
	">", `\>`,
)

func (gb *graphBuilder) addNode(node *Node) (string, error) {
	labelParts := []string{fmt.Sprintf("<f0> %s", escapeRecord.Replace(node.Name))}

	if len(node.Fields) > 0 {
		fields := make([]string, len(node.Fields))
		for i, field := range node.Fields {
			fields[i] = fmt.Sprintf("<%s> %s: %s", sanitize(field.Name), escapeRecord.Replace(field.Name), escapeRecord.Replace(field.Value))
		}
		labelParts = append(labelParts, strings.Join(fields, "|"))
	}
	if len(node.Children) > 0 {
		childPorts := make([]string, len(node.Children))
		for i, child := range node.Children {
			childPorts[i] = fmt.Sprintf("<%s> %s", sanitize(child.Name), escapeRecord.Replace(child.Name))
		}
		labelParts = append(labelParts, strings.Join(childPorts, "|"))
	}

	label := fmt.Sprintf("\"{{%s}}\"", strings.Join(labelParts, "}|{"))

	id := gb.getID(node.Name)
	if err := gb.graph.AddNode("", id, map[string]string{
		"shape": "record",
		"label": label,
	}); err != nil {
		return "", errors.Wrapf(err, "couldn't add node %s", id)
	}

	for _, child := range node.Children {
		childID, err := gb.addNode(child.Node)
		if err != nil {
			return "", err
		}
		if err := gb.graph.AddPortEdge(id, sanitize(child.Name), childID, "", true, map[string]string{}); err != nil {
			return "", errors.Wrapf(err, "couldn't add edge %s -> %s", id, childID)
		}
	}
	return id, nil
}
