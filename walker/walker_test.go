package walker

import (
	"errors"
	"testing"

	"github.com/npillmayer/epubcfi/address"
	"github.com/npillmayer/epubcfi/dom"
	"github.com/npillmayer/epubcfi/dom/memdom"
	"github.com/npillmayer/epubcfi/parser"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helloDoc builds <html><head/><body><p id="x">He<b>llo</b></p></body></html>.
func helloDoc() (*memdom.Document, *memdom.Node, *memdom.Node) {
	he, llo := memdom.Text("He"), memdom.Text("llo")
	doc := memdom.NewDocument(
		memdom.Element("html",
			memdom.Element("head"),
			memdom.Element("body",
				memdom.Element("p", he, memdom.Element("b", llo)).WithID("x"),
			),
		),
	)
	return doc, he, llo
}

func mustParsePath(t *testing.T, s string) address.Path {
	r, err := parser.Parse(s)
	require.NoError(t, err, s)
	return r.Path
}

func TestSlots(t *testing.T) {
	a, c, d := memdom.Text("a"), memdom.Text("c"), memdom.Text("d")
	b := memdom.Element("b", memdom.Text("B")).WithClass("hl")
	i := memdom.Element("i")
	p := memdom.Element("p", a, b, memdom.Comment("note"), c, i, d)
	slots := Slots(p, nil)
	require.Len(t, slots, 5)
	for k, s := range slots {
		if s.Index != k+1 {
			t.Errorf("expected slot %d to have CFI integer %d, has %d", k, k+1, s.Index)
		}
	}
	if slots[1].Node != dom.Node(b) || slots[3].Node != dom.Node(i) {
		t.Errorf("expected b at /2 and i at /4")
	}
	if len(slots[2].Chunk) != 1 || slots[2].Chunk[0] != dom.Node(c) {
		t.Errorf("expected comment to be skipped in chunk /3")
	}
	//
	slots = Slots(p, dom.IgnoreClass("hl"))
	require.Len(t, slots, 3)
	if slots[1].Node != dom.Node(i) {
		t.Errorf("expected i at /2 when b is ignored, is %v", slots[1].Node)
	}
	assert.Equal(t, 3, slots[0].Length(), "chunk /1 should join a, B and c")
	assert.Len(t, slots[0].Texts(), 3)
	assert.Equal(t, 0, Slots(i, nil)[0].Length())
}

func TestDeriveHelloScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epubcfi.walker")
	defer teardown()
	//
	_, _, llo := helloDoc()
	p, err := Derive(dom.Boundary{Container: llo, Offset: 1}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "/4/2[x]/2/1:1", p.Local())
	assert.Equal(t, "p", p.Steps[1].TagName)
	assert.Equal(t, "b", p.Steps[2].TagName)
	//
	base := address.SectionBase(2, 1, "chap01ref")
	p, err = Derive(dom.Boundary{Container: llo, Offset: 1}, Options{Base: base})
	require.NoError(t, err)
	assert.Equal(t, "/6/4[chap01ref]!/4/2[x]/2/1:1", p.Local())
}

func TestResolveHelloScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epubcfi.walker")
	defer teardown()
	//
	doc, he, llo := helloDoc()
	r, err := Resolve(doc, mustParsePath(t, "epubcfi(/6/4[chap01ref]!/4/2[x]/2/1:1)"), Options{})
	require.NoError(t, err)
	if r.Start.Container != dom.Node(llo) || r.Start.Offset != 1 || !r.Collapsed() {
		t.Errorf("expected caret at 'llo':1, is %s", r)
	}
	r, err = Resolve(doc, mustParsePath(t, "epubcfi(/4/2[x]/1:2)"), Options{})
	require.NoError(t, err)
	if r.Start.Container != dom.Node(he) || r.Start.Offset != 2 {
		t.Errorf("expected caret at end of 'He', is %s", r)
	}
	r, err = Resolve(doc, mustParsePath(t, "epubcfi(/4/2[x])"), Options{})
	require.NoError(t, err)
	if r.Start.Offset != 0 || r.End.Offset != 2 || r.Start.Container.ID() != "x" {
		t.Errorf("expected range to bound the contents of p, is %s", r)
	}
	r, err = Resolve(doc, mustParsePath(t, "epubcfi(/4/2[x]/1)"), Options{})
	require.NoError(t, err)
	if r.Start.Container != dom.Node(he) || r.Start.Offset != 0 {
		t.Errorf("expected caret at start of 'He', is %s", r)
	}
	// offset on an element counts its text content
	r, err = Resolve(doc, mustParsePath(t, "epubcfi(/4/2[x]:3)"), Options{})
	require.NoError(t, err)
	if r.Start.Container != dom.Node(llo) || r.Start.Offset != 1 {
		t.Errorf("expected caret at 'llo':1, is %s", r)
	}
}

func TestResolveNotFound(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epubcfi.walker")
	defer teardown()
	//
	doc, _, _ := helloDoc()
	for _, s := range []string{
		"epubcfi(/4/10)",
		"epubcfi(/4/2[x]/1:3)",
		"epubcfi(/4/2[x]/2/1:4)",
		"epubcfi(/4/2[x]/1/2)",
		"epubcfi(/2/1:1)",
		"epubcfi(/2/1/2)",
		"epubcfi(/4/2[x]/7)",
	} {
		_, err := Resolve(doc, mustParsePath(t, s), Options{})
		if !errors.Is(err, ErrNodeNotFound) {
			t.Errorf("expected %s to fail with ErrNodeNotFound, is %v", s, err)
		}
	}
	_, err := Resolve(memdom.NewDocument(nil), address.NewPath(address.ElementStep(2)), Options{})
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestResolveIDWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epubcfi.walker")
	defer teardown()
	//
	a := memdom.Element("div").WithID("a")
	b := memdom.Element("div").WithID("b")
	doc := memdom.NewDocument(memdom.Element("html", memdom.Element("head"), memdom.Element("body", a, b)))
	n, err := FindNode(doc, mustParsePath(t, "epubcfi(/4/2[b])"), Options{})
	require.NoError(t, err)
	if n != dom.Node(b) {
		t.Errorf("expected id to win over index, found %s", dom.Describe(n))
	}
	n, err = FindNode(doc, mustParsePath(t, "epubcfi(/4/2[zz])"), Options{})
	require.NoError(t, err)
	if n != dom.Node(a) {
		t.Errorf("expected fallback to index for unknown id, found %s", dom.Describe(n))
	}
}

// markupDoc builds a paragraph with optional ignored wrappers:
//
//	<p>Hello <b>bold</b> world<i>x</i></p>
//
// With wrapped set, " world" is wrapped in <span class="hl">, "Hello " is
// split into a text node and a wrapped text node, and an empty ignored
// marker is inserted after <b>.
func markupDoc(wrapped bool) (doc *memdom.Document, b, world, i, x *memdom.Node) {
	b = memdom.Element("b", memdom.Text("bold"))
	world = memdom.Text(" world")
	x = memdom.Text("x")
	i = memdom.Element("i", x)
	var p *memdom.Node
	if wrapped {
		p = memdom.Element("p",
			memdom.Text("Hel"), memdom.Element("span", memdom.Text("lo ")).WithClass("hl"),
			b,
			memdom.Element("span").WithClass("hl"),
			memdom.Element("span", world).WithClass("hl"),
			i,
		)
	} else {
		p = memdom.Element("p", memdom.Text("Hello "), b, world, i)
	}
	doc = memdom.NewDocument(memdom.Element("html", memdom.Element("head"), memdom.Element("body", p)))
	return
}

func TestIgnoreTransparency(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epubcfi.walker")
	defer teardown()
	//
	opts := Options{Filter: dom.IgnoreClass("hl")}
	derive := func(wrapped bool) []string {
		_, b, world, i, x := markupDoc(wrapped)
		var paths []string
		for _, bd := range []dom.Boundary{
			{Container: b}, {Container: world, Offset: 2}, {Container: i}, {Container: x, Offset: 1},
		} {
			var p address.Path
			var err error
			if dom.IsElement(bd.Container) {
				p, err = DeriveNode(bd.Container, opts)
			} else {
				p, err = Derive(bd, opts)
			}
			require.NoError(t, err)
			paths = append(paths, p.Local())
		}
		return paths
	}
	plain, wrapped := derive(false), derive(true)
	assert.Equal(t, []string{"/4/2/2", "/4/2/3:2", "/4/2/4", "/4/2/4/1:1"}, plain)
	assert.Equal(t, plain, wrapped)
	//
	doc, _, world, _, _ := markupDoc(true)
	r, err := Resolve(doc, mustParsePath(t, "epubcfi(/4/2/3:2)"), opts)
	require.NoError(t, err)
	if r.Start.Container != dom.Node(world) || r.Start.Offset != 2 {
		t.Errorf("expected caret in wrapped ' world':2, is %s", r)
	}
	_, _, _, i, _ := markupDoc(true)
	p, err := DeriveNode(i, Options{})
	require.NoError(t, err)
	assert.Equal(t, "/4/2/10", p.Local(), "without filter, wrappers take element slots")
}

func TestDeriveClimbsOutOfIgnored(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epubcfi.walker")
	defer teardown()
	//
	em := memdom.Element("em", memdom.Text("deep"))
	hl := memdom.Element("span", memdom.Text("ab"), em).WithClass("hl")
	p := memdom.Element("p", memdom.Text("x"), hl).WithID("para")
	memdom.NewDocument(memdom.Element("html", memdom.Element("body", p)))
	opts := Options{Filter: dom.IgnoreClass("hl")}
	for _, n := range []*memdom.Node{hl, em} {
		path, err := DeriveNode(n, opts)
		require.NoError(t, err)
		assert.Equal(t, "/2/2[para]", path.Local(), "element inside %s should climb to p", dom.Describe(n))
	}
	deep := em.Children()[0]
	path, err := Derive(dom.Boundary{Container: deep, Offset: 1}, opts)
	require.NoError(t, err)
	assert.Equal(t, "/2/2[para]/1:4", path.Local(), "text below wrapper is a chunk offset of p")
	// positions between children of ignored elements are chunk offsets, too
	for _, bd := range []dom.Boundary{{Container: hl, Offset: 1}, {Container: em, Offset: 0}} {
		path, err = Derive(bd, opts)
		require.NoError(t, err)
		assert.Equal(t, "/2/2[para]/1:3", path.Local(), "position %s", bd)
	}
	path, err = Derive(dom.Boundary{Container: hl, Offset: 2}, opts)
	require.NoError(t, err)
	assert.Equal(t, "/2/2[para]/1:7", path.Local())
}

func TestDeriveErrors(t *testing.T) {
	doc, he, _ := helloDoc()
	_, err := DeriveNode(doc.Root(), Options{})
	assert.ErrorIs(t, err, ErrNodeNotFound, "root element has no path")
	_, err = Derive(dom.Boundary{Container: he.Parent(), Offset: 3}, Options{})
	assert.ErrorIs(t, err, ErrNodeNotFound, "p has two children only")
	_, err = Derive(dom.Boundary{Container: he.Parent(), Offset: -1}, Options{})
	assert.ErrorIs(t, err, ErrNodeNotFound)
	_, err = Derive(dom.Boundary{}, Options{})
	assert.ErrorIs(t, err, ErrNodeNotFound)
	_, err = Derive(dom.Boundary{Container: memdom.Text("detached")}, Options{})
	assert.ErrorIs(t, err, ErrNodeNotFound)
	_, err = Derive(dom.Boundary{Container: he, Offset: 5}, Options{})
	assert.ErrorIs(t, err, ErrNodeNotFound)
	other := memdom.Element("div")
	_, err = Derive(dom.Boundary{Container: he}, Options{Root: other})
	assert.ErrorIs(t, err, ErrNodeNotFound, "node is not below root")
}

func TestRelativeToRoot(t *testing.T) {
	doc, _, llo := helloDoc()
	p, err := FindNode(doc, mustParsePath(t, "epubcfi(/4/2[x])"), Options{})
	require.NoError(t, err)
	opts := Options{Root: p}
	path, err := Derive(dom.Boundary{Container: llo, Offset: 2}, opts)
	require.NoError(t, err)
	assert.Equal(t, "/2/1:2", path.Local())
	r, err := Resolve(nil, path, opts)
	require.NoError(t, err)
	if r.Start.Container != dom.Node(llo) {
		t.Errorf("expected to resolve relative to p, is %s", r)
	}
}

func TestDeriveResolveRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epubcfi.walker")
	defer teardown()
	//
	doc, he, llo := helloDoc()
	prefix, start, end, err := DeriveRange(dom.NewRange(he, 1, llo, 2), Options{})
	require.NoError(t, err)
	require.NotNil(t, start)
	assert.Equal(t, "epubcfi(/4/2[x],/1:1,/2/1:2)", address.Join(prefix, start, end))
	r, err := ResolveRange(doc, prefix, *start, *end, Options{})
	require.NoError(t, err)
	if r.Start.Container != dom.Node(he) || r.Start.Offset != 1 || r.End.Container != dom.Node(llo) || r.End.Offset != 2 {
		t.Errorf("expected range 'He':1 … 'llo':2, is %s", r)
	}
	//
	prefix, start, _, err = DeriveRange(dom.Caret(llo, 2), Options{})
	require.NoError(t, err)
	assert.Nil(t, start, "collapsed range should derive to a single path")
	assert.Equal(t, "/4/2[x]/2/1:2", prefix.Local())
}

func TestDeriveResolveRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epubcfi.walker")
	defer teardown()
	//
	doc, _, _, _, _ := markupDoc(true)
	opts := Options{Filter: dom.IgnoreClass("hl"), Base: address.SectionBase(2, 3, "c4")}
	count := 0
	dom.Walk(doc.Root(), func(n dom.Node) bool {
		if n == doc.Root() || (dom.IsText(n) && n.Text() == "") {
			return true
		}
		expected := n
		if w := outermostIgnored(n, opts); w != nil && !dom.IsText(n) {
			expected = w.Parent()
		}
		p, err := DeriveNode(n, opts)
		require.NoError(t, err)
		r, err := Resolve(doc, p, opts)
		require.NoError(t, err, p.Local())
		if r.Start.Container != expected {
			t.Errorf("expected %s to resolve to %s, is %s", p, dom.Describe(expected), r)
		}
		count++
		return true
	})
	assert.Greater(t, count, 10)
}

// blocksDoc builds <html><head><title>T</title></head><body>…</body></html>
// with the given children of body.
func blocksDoc(children ...*memdom.Node) (*memdom.Document, *memdom.Node) {
	body := memdom.Element("body", children...)
	doc := memdom.NewDocument(memdom.Element("html",
		memdom.Element("head", memdom.Element("title", memdom.Text("T"))),
		body,
	))
	return doc, body
}

func TestDeriveElementBoundaries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epubcfi.walker")
	defer teardown()
	//
	doc, body := blocksDoc(
		memdom.Element("p", memdom.Text("one")),
		memdom.Element("p", memdom.Text("two")),
		memdom.Element("p", memdom.Text("three")),
	)
	for _, c := range []struct {
		start, end int
		cfi        string
	}{
		{1, 2, "epubcfi(/4,/4,/6)"},
		{0, 2, "epubcfi(/4,/2,/6)"},
		{2, 3, "epubcfi(/4,/6,/7:0)"},
		{0, 3, "epubcfi(/4,/2,/7:0)"},
	} {
		rng := dom.NewRange(body, c.start, body, c.end)
		prefix, start, end, err := DeriveRange(rng, Options{})
		require.NoError(t, err)
		require.NotNil(t, start, "range %s should not collapse", rng)
		s := address.Join(prefix, start, end)
		assert.Equal(t, c.cfi, s)
		parsed, err := parser.Parse(s)
		require.NoError(t, err, s)
		r, err := ResolveRange(doc, parsed.Path, *parsed.Start, *parsed.End, Options{})
		require.NoError(t, err, s)
		assert.Equal(t, rng, r, "%s should resolve to the range it was derived from", s)
	}
}

func TestDeriveElementBoundariesInText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epubcfi.walker")
	defer teardown()
	//
	doc, _, _, i, _ := markupDoc(true)
	p := i.Parent()
	opts := Options{Filter: dom.IgnoreClass("hl")}
	for k, expected := range map[int]string{
		0: "/4/2/1:0",
		1: "/4/2/1:3", // before the wrapped "lo "
		2: "/4/2/2",   // before <b>
		4: "/4/2/3:0", // before the wrapped " world"
		5: "/4/2/4",   // before <i>
		6: "/4/2/5:0", // after <i>, in the empty last chunk
	} {
		path, err := Derive(dom.Boundary{Container: p, Offset: k}, opts)
		require.NoError(t, err)
		assert.Equal(t, expected, path.Local(), "position %d in p", k)
	}
	r, err := Resolve(doc, mustParsePath(t, "epubcfi(/4/2/5:0)"), opts)
	require.NoError(t, err)
	assert.Equal(t, dom.Caret(p, 6), r, "empty chunk resolves to a position between children")
	_, err = Resolve(doc, mustParsePath(t, "epubcfi(/4/2/5:1)"), opts)
	assert.ErrorIs(t, err, ErrNodeNotFound)
	_, err = FindNode(doc, mustParsePath(t, "epubcfi(/4/2/5)"), opts)
	assert.ErrorIs(t, err, ErrNodeNotFound, "empty chunk has no text node")
	//
	ws := func() *memdom.Node { return memdom.Text("\n") }
	p2 := memdom.Element("p", memdom.Text("two"))
	_, body := blocksDoc(ws(), memdom.Element("p"), ws(), memdom.Comment("c"), p2, ws())
	path, err := Derive(dom.Boundary{Container: body, Offset: 3}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "/4/4", path.Local(), "comments take no position of their own")
	path, err = Derive(dom.Boundary{Container: body, Offset: 5}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "/4/5:0", path.Local())
}

func TestDeriveRangeWithoutCommonPrefix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epubcfi.walker")
	defer teardown()
	//
	x := memdom.Text("x")
	doc, _ := blocksDoc(memdom.Element("p", x))
	title, _ := dom.FindText(doc.Root(), "T")
	require.NotNil(t, title)
	rng := dom.NewRange(title, 0, x, 1)
	prefix, start, end, err := DeriveRange(rng, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, prefix.Len())
	s := address.Join(prefix, start, end)
	assert.Equal(t, "epubcfi(,/2/2/1:0,/4/2/1:1)", s)
	parsed, err := parser.Parse(s)
	require.NoError(t, err, s)
	r, err := ResolveRange(doc, parsed.Path, *parsed.Start, *parsed.End, Options{})
	require.NoError(t, err)
	assert.Equal(t, rng, r)
}
