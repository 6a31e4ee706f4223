/*
Package address holds the value types of EPUB canonical fragment identifiers:
steps, terminals and paths, together with their serialization and their
document order.

Steps

A CFI addresses a node by a sequence of steps, each step selecting a child
of the node reached so far. Children are numbered on one numeric axis for
both elements and text:

    /1   text before the first child element
    /2   first child element
    /3   text between first and second child element
    /4   second child element
    …

Element steps therefore always carry even numbers, text steps odd numbers.
An element step may carry an id assertion ("/4[chap01]").

Paths

A Path is a flat sequence of steps plus an optional terminal (a character
offset with an optional, uninterpreted assertion). A step marked as
redirected was preceded by "!" in the CFI string; it is the first step
inside a referenced document (e.g., the content document of a spine item
addressed from the package document).

Paths are values. Functions of this package never modify their arguments.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package address

import (
	"fmt"
)

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("address: "+msg, msgargs...)
		panic(msg)
	}
}
