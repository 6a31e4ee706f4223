/*
Package tree implements an all-purpose ordered tree type.

Nodes carry a payload of type parameter T and keep an ordered slice of
children. Other tree types are built on top of this one by composition:
a node sub-type embeds a tree.Node and sets the payload to reference
itself (see package dom/memdom for an example). The downside of this
approach is that we have to provide an adapter for every node sub-type
to return the sub-type from the generic type.

Operations on a tree are synchronous. Clients sharing a tree between
goroutines have to synchronize access themselves.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"fmt"
)

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("tree: "+msg, msgargs...)
		panic(msg)
	}
}
