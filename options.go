package epubcfi

import (
	"github.com/npillmayer/epubcfi/address"
	"github.com/npillmayer/epubcfi/dom"
	"github.com/npillmayer/epubcfi/walker"
)

// Option configures deriving and resolving CFIs.
type Option func(*config)

type config struct {
	filters []dom.Filter
	root    dom.Node
}

// IgnoreClass ignores elements of a class, e.g. wrappers for highlights
// injected into a document by a reading system. Ignored elements do not
// take part in addressing, but their text does.
func IgnoreClass(class string) Option {
	return func(c *config) {
		if f := dom.IgnoreClass(class); f != nil {
			c.filters = append(c.filters, f)
		}
	}
}

// IgnoreFilter ignores all elements for which f returns true.
func IgnoreFilter(f dom.Filter) Option {
	return func(c *config) {
		if f != nil {
			c.filters = append(c.filters, f)
		}
	}
}

// RelativeTo makes addressing start at node instead of the document element.
func RelativeTo(node dom.Node) Option {
	return func(c *config) {
		c.root = node
	}
}

func walkerOptions(base address.Path, opts []Option) walker.Options {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}
	return walker.Options{
		Filter: dom.AnyOf(c.filters...),
		Root:   c.root,
		Base:   base,
	}
}
