package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/wudi/textpdf/verify"
)

type options struct {
	pdfPath string
	asJSON  bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: inspect [flags] <pdf>\n")
		fs.PrintDefaults()
	}
	fs.BoolVar(&opts.asJSON, "json", false, "Emit the report as JSON")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, fmt.Errorf("missing pdf path")
	}
	opts.pdfPath = fs.Arg(0)
	return opts, nil
}

func run(opts options, out io.Writer) error {
	r, err := verify.File(opts.pdfPath)
	if err != nil {
		return err
	}
	if opts.asJSON {
		return emitSection(out, "report", r)
	}
	fmt.Fprintf(out, "version:  %s\n", r.Version)
	fmt.Fprintf(out, "pages:    %d\n", r.Pages)
	fmt.Fprintf(out, "root:     %s\n", r.RootType)
	fmt.Fprintf(out, "objects:  %d\n", r.Objects)
	if r.Lang != "" {
		fmt.Fprintf(out, "language: %s\n", r.Lang)
	}
	fmt.Fprintf(out, "size:     %gx%g\n", r.Width, r.Height)
	for _, f := range r.Fonts {
		fmt.Fprintf(out, "font:     %s\n", f)
	}
	return nil
}

func emitSection(out io.Writer, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	fmt.Fprintf(out, "%s\n", data)
	return nil
}
