/*
Command epubcfi parses, compares, sorts and resolves EPUB canonical fragment
identifiers from the command line.

    epubcfi parse 'epubcfi(/6/4[chap01ref]!/4/2[x]/2/1:1)'
    epubcfi compare 'epubcfi(/6/2[x]/2:0)' 'epubcfi(/6/2[x]/2:3)'
    epubcfi sort -f locations.txt
    epubcfi resolve -f chapter.xhtml --ignore-class hl 'epubcfi(/4/2[x]/2/1:1)'
    epubcfi locate -f chapter.xhtml --base /6/4[chap01ref] --text llo
    epubcfi tree -f chapter.xhtml

Content documents ending in .html or .htm are read with an HTML parser,
all others as XML (use --xml or --html to override).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
