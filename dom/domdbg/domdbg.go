/*
Package domdbg implements helpers to debug document trees and their
addressing.

Both output formats annotate nodes with the CFI integer they are addressed
by, given an ignore-filter: Dump renders an indented text tree, ToGraphViz
a diagram in GraphViz (DOT) format.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>


*/
package domdbg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"text/template"

	"github.com/npillmayer/epubcfi/dom"
	"github.com/npillmayer/epubcfi/walker"
	tp "github.com/xlab/treeprint"
)

// Dump renders the tree below root, one line per node. Addressable nodes
// are prefixed with their CFI integer; ignored elements are marked and
// their subtrees carry no integers.
//
//     .
//     └── <html>
//         ├── /2 <head>
//         └── /4 <body>
//             └── /2 <p id="x">
//                 ├── /1 #text "He"
//                 └── /2 <b>
//                     └── /1 #text "llo"
func Dump(root dom.Node, filter dom.Filter) string {
	p := tp.New()
	if root == nil {
		return p.String()
	}
	ppt(p.AddBranch(dom.Describe(root)), root, filter)
	return p.String()
}

func ppt(p tp.Tree, n dom.Node, filter dom.Filter) {
	for _, s := range walker.Slots(n, filter) {
		if !s.IsText() {
			ppt(p.AddBranch(fmt.Sprintf("/%d %s", s.Index, dom.Describe(s.Node))), s.Node, filter)
			continue
		}
		for _, m := range s.Chunk {
			if dom.IsText(m) {
				p.AddNode(fmt.Sprintf("/%d %s", s.Index, dom.Describe(m)))
				continue
			}
			pruned(p.AddBranch(fmt.Sprintf("/%d %s (ignored)", s.Index, dom.Describe(m))), m)
		}
	}
}

func pruned(p tp.Tree, n dom.Node) {
	for _, ch := range n.Children() {
		switch {
		case dom.IsElement(ch):
			pruned(p.AddBranch(dom.Describe(ch)), ch)
		case dom.IsText(ch):
			p.AddNode(dom.Describe(ch))
		}
	}
}

// --- GraphViz --------------------------------------------------------------

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname string
	NodeTmpl *template.Template
	EdgeTmpl *template.Template
}

// ToGraphViz outputs a diagram for a document tree. The diagram is in
// GraphViz (DOT) format. Ignored elements are drawn in grey, other nodes
// are labeled with their CFI integer.
func ToGraphViz(root dom.Node, w io.Writer, filter dom.Filter) {
	tmpl, err := template.New("dom").Parse(graphHeadTmpl)
	if err != nil {
		panic(err)
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.NodeTmpl = template.Must(template.New("domnode").Funcs(
		template.FuncMap{
			"shortstring": shortText,
		}).Parse(domNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("domedge").Parse(domEdgeTmpl))
	err = tmpl.Execute(w, gparams)
	if err != nil {
		panic(err)
	}
	dict := make(map[dom.Node]string, 4096)
	if root != nil {
		nodes(&node{N: root, Index: -1}, w, dict, filter, &gparams)
	}
	w.Write([]byte("}\n"))
}

// Dotty is a helper for testing. Given a document node and a testing.T, it
// will create a GraphViz image of the tree under root and write it to a file
// in the current folder, choosing a unique file name. The image is in SVG
// format. If the dot command is not installed, Dotty skips the test.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
func Dotty(root dom.Node, filter dom.Filter, t *testing.T) {
	if _, err := exec.LookPath("dot"); err != nil {
		t.Skip("GraphViz dot not installed")
	}
	tmpfile, err := os.CreateTemp(".", "dom.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing DOM digraph to %s\n", tmpfile.Name())
	ToGraphViz(root, tmpfile, filter)
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Logf("writing DOM tree image to %s.svg\n", tmpfile.Name())
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

type node struct {
	N       dom.Node
	Name    string
	Index   int  // CFI integer, -1 if none
	Ignored bool // ignored by the filter, or inside an ignored element
}

func nodes(n *node, w io.Writer, dict map[dom.Node]string, filter dom.Filter, gparams *graphParamsType) {
	domNode(n, w, dict, gparams)
	var children []*node
	if n.Ignored {
		for _, ch := range n.N.Children() {
			children = append(children, &node{N: ch, Index: -1, Ignored: true})
		}
	} else {
		for _, s := range walker.Slots(n.N, filter) {
			if s.Node != nil {
				children = append(children, &node{N: s.Node, Index: s.Index})
			}
			for _, m := range s.Chunk {
				children = append(children, &node{N: m, Index: s.Index, Ignored: dom.IsElement(m)})
			}
		}
	}
	for _, ch := range children {
		nodes(ch, w, dict, filter, gparams)
		domEdge(n, ch, w, gparams)
	}
}

func domNode(n *node, w io.Writer, dict map[dom.Node]string, gparams *graphParamsType) {
	name := dict[n.N]
	if name == "" {
		l := len(dict) + 1
		name = fmt.Sprintf("node%05d", l)
		dict[n.N] = name
	}
	n.Name = name
	if err := gparams.NodeTmpl.Execute(w, n); err != nil {
		panic(err)
	}
}

type edge struct {
	N1, N2 *node
}

func domEdge(n1, n2 *node, w io.Writer, gparams *graphParamsType) {
	if err := gparams.EdgeTmpl.Execute(w, edge{n1, n2}); err != nil {
		panic(err)
	}
}

func shortText(n *node) string {
	d := n.N.Text()
	if !dom.IsText(n.N) {
		d = n.N.TagName()
	}
	s := "\"\\\""
	if r := []rune(d); len(r) > 10 {
		s += string(r[:10]) + "...\\\"\""
	} else {
		s += d + "\\\"\""
	}
	s = strings.Replace(s, "\n", `\\n`, -1)
	s = strings.Replace(s, "\t", `\\t`, -1)
	s = strings.Replace(s, " ", "␣", -1)
	return s
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const domNodeTmpl = `{{ if .Ignored }}
{{ .Name }}	[ label={{ shortstring . }} shape=box style=dashed color=grey60 fontcolor=grey60 fontsize=11.0 ] ;
{{ else if eq .N.Kind.String "text" }}
{{ .Name }}	[ label={{ shortstring . }} xlabel="/{{ .Index }}" shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{ else }}
{{ .Name }}	[ label={{ printf "%q" .N.TagName }} {{ if ge .Index 0 }}xlabel="/{{ .Index }}" {{ end }}shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{ end }}
`

const domEdgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [weight=1] ;
`
