package xmldom

import (
	"strings"
	"testing"

	"github.com/npillmayer/epubcfi/dom"
	"github.com/npillmayer/epubcfi/parser"
	"github.com/npillmayer/epubcfi/walker"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chapter = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<html xmlns="http://www.w3.org/1999/xhtml"><head><title>T</title></head>` +
	`<body><p id="x">He<b>llo</b></p><p>a<span class="hl">b</span>c<![CDATA[d]]></p></body></html>`

func parseChapter(t *testing.T) *Document {
	doc, err := Parse(strings.NewReader(chapter))
	require.NoError(t, err)
	return doc
}

func TestAdapter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epubcfi.dom")
	defer teardown()
	//
	doc := parseChapter(t)
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "html", root.TagName())
	p := dom.FindID(root, "x")
	require.NotNil(t, p)
	assert.Equal(t, "Hello", p.Text())
	second := p.Parent().Children()[1]
	assert.Equal(t, "abcd", second.Text(), "CDATA counts as text")
	assert.True(t, second.Children()[1].HasClass("hl"))
	if p.Parent().Children()[0] != p {
		t.Errorf("expected wrappers of the same node to be equal")
	}
}

func TestDeriveResolveXML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epubcfi.dom")
	defer teardown()
	//
	doc := parseChapter(t)
	opts := walker.Options{Filter: dom.IgnoreClass("hl")}
	c, offset := dom.FindText(doc.Root(), "c")
	require.NotNil(t, c)
	path, err := walker.Derive(dom.Boundary{Container: c, Offset: offset}, opts)
	require.NoError(t, err)
	assert.Equal(t, "/4/4/1:2", path.Local())
	r, err := walker.Resolve(doc, path, opts)
	require.NoError(t, err)
	if r.Start.Container != c {
		t.Errorf("expected caret in 'c', is %s", r)
	}
}

func TestSelectPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epubcfi.dom")
	defer teardown()
	//
	doc := parseChapter(t)
	for _, s := range []string{
		"epubcfi(/6/4[chap01ref]!/4/2[x]/2/1:1)",
		"epubcfi(/4/2[x]/1)",
		"epubcfi(/4/4/2)",
	} {
		r, err := parser.Parse(s)
		require.NoError(t, err)
		expected, err := walker.FindNode(doc, r.Path, walker.Options{})
		require.NoError(t, err)
		n, err := SelectPath(doc, r.Path)
		require.NoError(t, err, r.Path.XPath())
		if n != expected {
			t.Errorf("expected XPath %s to select %s, selected %s", r.Path.XPath(), expected, n)
		}
	}
	missing, err := parser.ParseLocal("/4/10")
	require.NoError(t, err)
	_, err = SelectPath(doc, missing)
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	doc := parseChapter(t)
	nodes, err := Select(doc, "//*[@class='hl']")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "span", nodes[0].TagName())
	_, err = Select(doc, "//*[")
	assert.Error(t, err)
}
