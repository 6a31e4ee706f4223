package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/epubcfi"
	"github.com/npillmayer/epubcfi/address"
	"github.com/npillmayer/epubcfi/dom"
	"github.com/npillmayer/epubcfi/dom/domdbg"
	"github.com/npillmayer/epubcfi/dom/htmldom"
	"github.com/npillmayer/epubcfi/dom/xmldom"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
	tp "github.com/xlab/treeprint"
)

// flags shared by the sub-commands.
type flags struct {
	file           string
	asXML, asHTML  bool
	ignoreClass    string
	ignoreSelector string
	base           string
	trace          []string
	id, text, css  string
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	rootCmd := &cobra.Command{
		Use:           "epubcfi",
		Short:         "Work with EPUB canonical fragment identifiers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			for _, key := range f.trace {
				tracing.Select(key).SetTraceLevel(tracing.LevelDebug)
			}
		},
	}
	rootCmd.PersistentFlags().StringSliceVar(&f.trace, "trace", nil,
		"Trace keys to set to debug level (epubcfi, epubcfi.parser, epubcfi.walker, epubcfi.dom)")

	parseCmd := &cobra.Command{
		Use:   "parse CFI...",
		Short: "Parse CFIs and print their structure",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.OutOrStdout(), args)
		},
	}
	compareCmd := &cobra.Command{
		Use:   "compare CFI CFI",
		Short: "Compare two CFIs in document order (-1, 0, 1)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := epubcfi.CompareStrings(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c)
			return nil
		},
	}
	sortCmd := &cobra.Command{
		Use:   "sort [CFI...]",
		Short: "Sort CFIs in document order, from arguments or one per line from --file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd.OutOrStdout(), cmd.InOrStdin(), f, args)
		},
	}
	sortCmd.Flags().StringVarP(&f.file, "file", "f", "", "File with one CFI per line ('-' for stdin)")
	resolveCmd := &cobra.Command{
		Use:   "resolve CFI",
		Short: "Resolve a CFI in a content document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.OutOrStdout(), cmd.InOrStdin(), f, args[0])
		},
	}
	locateCmd := &cobra.Command{
		Use:   "locate",
		Short: "Print the CFI of an element (by --id or --selector) or of text (by --text)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocate(cmd.OutOrStdout(), cmd.InOrStdin(), f)
		},
	}
	locateCmd.Flags().StringVar(&f.id, "id", "", "Id of the element to locate")
	locateCmd.Flags().StringVar(&f.text, "text", "", "Text to locate")
	locateCmd.Flags().StringVar(&f.css, "selector", "", "CSS selector of the element to locate (HTML only)")
	locateCmd.Flags().StringVar(&f.base, "base", "", "Path of the content document in the package document, e.g. /6/4[chap01ref]")
	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the tree of a content document, annotated with CFI integers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, filter, err := loadDocument(cmd.InOrStdin(), f)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), domdbg.Dump(doc.Root(), filter))
			return nil
		},
	}
	for _, cmd := range []*cobra.Command{resolveCmd, locateCmd, treeCmd} {
		cmd.Flags().StringVarP(&f.file, "file", "f", "", "Content document ('-' for stdin)")
		cmd.Flags().BoolVar(&f.asXML, "xml", false, "Read the content document as XML")
		cmd.Flags().BoolVar(&f.asHTML, "html", false, "Read the content document as HTML")
		cmd.Flags().StringVar(&f.ignoreClass, "ignore-class", "", "Class of elements to ignore")
		cmd.Flags().StringVar(&f.ignoreSelector, "ignore-selector", "", "CSS selector of elements to ignore (HTML only)")
		_ = cmd.MarkFlagRequired("file")
	}
	rootCmd.AddCommand(parseCmd, compareCmd, sortCmd, resolveCmd, locateCmd, treeCmd)
	return rootCmd
}

func runParse(w io.Writer, args []string) error {
	for _, s := range args {
		cfi, err := epubcfi.Parse(s)
		if err != nil {
			return err
		}
		p := tp.New()
		root := p.AddBranch(cfi.String())
		if cfi.IsRange() {
			printPath(root.AddBranch("prefix"), cfi.Path())
			printPath(root.AddBranch("start"), cfi.Start())
			printPath(root.AddBranch("end"), cfi.End())
		} else {
			printPath(root, cfi.Path())
		}
		if pos := cfi.SpinePosition(); pos >= 0 {
			root.AddNode(fmt.Sprintf("spine item #%d", pos))
		}
		fmt.Fprint(w, p.String())
	}
	return nil
}

func printPath(p tp.Tree, path address.Path) {
	for _, s := range path.Steps {
		label := fmt.Sprintf("%s %s", s, s.Kind)
		if s.Redirect {
			label += " (redirect)"
		}
		p.AddNode(label)
	}
	if path.Terminal != nil {
		label := fmt.Sprintf(":%d offset", path.Terminal.Offset)
		if path.Terminal.Assertion != "" {
			label += fmt.Sprintf(" [%s]", path.Terminal.Assertion)
		}
		p.AddNode(label)
	}
}

func runSort(w io.Writer, stdin io.Reader, f *flags, args []string) error {
	cfis := append([]string(nil), args...)
	if f.file != "" {
		r, closeFunc, err := openInput(f.file, stdin)
		if err != nil {
			return err
		}
		defer func() { _ = closeFunc() }()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				cfis = append(cfis, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	}
	if err := epubcfi.SortStrings(cfis); err != nil {
		return err
	}
	for _, s := range cfis {
		fmt.Fprintln(w, s)
	}
	return nil
}

func runResolve(w io.Writer, stdin io.Reader, f *flags, s string) error {
	cfi, err := epubcfi.Parse(s)
	if err != nil {
		return err
	}
	doc, filter, err := loadDocument(stdin, f)
	if err != nil {
		return err
	}
	r, err := cfi.ToRange(doc, epubcfi.IgnoreFilter(filter))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, r)
	return nil
}

func runLocate(w io.Writer, stdin io.Reader, f *flags) error {
	doc, filter, err := loadDocument(stdin, f)
	if err != nil {
		return err
	}
	ignore := epubcfi.IgnoreFilter(filter)
	var cfi *epubcfi.CFI
	switch {
	case f.id != "":
		n := dom.FindID(doc.Root(), f.id)
		if n == nil {
			return fmt.Errorf("no element with id %q", f.id)
		}
		cfi, err = epubcfi.FromNode(n, f.base, ignore)
	case f.text != "":
		n, offset := dom.FindText(doc.Root(), f.text)
		if n == nil {
			return fmt.Errorf("text %q not found", f.text)
		}
		rng := dom.NewRange(n, offset, n, offset+len([]rune(f.text)))
		cfi, err = epubcfi.FromRange(rng, f.base, ignore)
	case f.css != "":
		hdoc, ok := doc.(*htmldom.Document)
		if !ok {
			return errors.New("selectors need an HTML document")
		}
		var nodes []dom.Node
		if nodes, err = htmldom.Query(hdoc, f.css); err != nil {
			return err
		}
		if len(nodes) == 0 {
			return fmt.Errorf("no element matches %q", f.css)
		}
		cfi, err = epubcfi.FromNode(nodes[0], f.base, ignore)
	default:
		return errors.New("one of --id, --text or --selector is required")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(w, cfi)
	return nil
}

// loadDocument reads the content document named by the --file flag and
// builds the ignore-filter from the flags.
func loadDocument(stdin io.Reader, f *flags) (dom.Document, dom.Filter, error) {
	r, closeFunc, err := openInput(f.file, stdin)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = closeFunc() }()
	ext := strings.ToLower(filepath.Ext(f.file))
	if f.asHTML || (!f.asXML && (ext == ".html" || ext == ".htm")) {
		doc, err := htmldom.Parse(r)
		if err != nil {
			return nil, nil, err
		}
		var sel dom.Filter
		if f.ignoreSelector != "" {
			if sel, err = htmldom.IgnoreSelector(f.ignoreSelector); err != nil {
				return nil, nil, err
			}
		}
		return doc, dom.AnyOf(dom.IgnoreClass(f.ignoreClass), sel), nil
	}
	if f.ignoreSelector != "" {
		return nil, nil, errors.New("--ignore-selector needs an HTML document")
	}
	doc, err := xmldom.Parse(r)
	if err != nil {
		return nil, nil, err
	}
	return doc, dom.IgnoreClass(f.ignoreClass), nil
}

// openInput opens a file, or returns stdin for "-".
func openInput(file string, stdin io.Reader) (io.Reader, func() error, error) {
	if file == "-" {
		return stdin, func() error { return nil }, nil
	}
	fh, err := os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file %s: %w", file, err)
	}
	return fh, fh.Close, nil
}
