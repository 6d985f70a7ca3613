package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/wudi/textpdf/builder"
	"github.com/wudi/textpdf/contentstream"
	"github.com/wudi/textpdf/coords"
	"github.com/wudi/textpdf/document"
	"github.com/wudi/textpdf/fonts"
	"github.com/wudi/textpdf/ir/raw"
	"github.com/wudi/textpdf/layout"
	"github.com/wudi/textpdf/observability"
	"github.com/wudi/textpdf/resources"
	"github.com/wudi/textpdf/scripting"
	"github.com/wudi/textpdf/verify"
)

const (
	producer      = "textpdf"
	pageMargin    = 72
	scriptTimeout = time.Second
)

type textList []string

func (l *textList) String() string { return strings.Join(*l, " ") }

func (l *textList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type options struct {
	out      string
	baseFont string
	size     uint16
	x, y     uint32
	texts    []string
	inPath   string
	format   layout.Format
	align    string

	lang          string
	title         string
	script        string
	compress      bool
	deterministic bool
	verify        bool
	verbose       bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "textpdf: %v\n", err)
		}
		os.Exit(2)
	}
	if err := run(context.Background(), opts, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "textpdf: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("textpdf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: textpdf [flags]\n")
		fs.PrintDefaults()
	}
	var texts textList
	fs.StringVar(&opts.out, "o", "example.pdf", "Output PDF path")
	fs.StringVar(&opts.baseFont, "font", "Courier", "Base font name")
	size := fs.Uint("size", 48, "Font size in points")
	x := fs.Uint("x", 100, "Text origin x")
	y := fs.Uint("y", 600, "Text origin y")
	fs.Var(&texts, "text", "Text fragment to append (repeatable)")
	fs.StringVar(&opts.inPath, "in", "", "Read text fragments from a file")
	format := fs.String("format", "text", "Input format for -in: text, markdown or html")
	fs.StringVar(&opts.align, "align", "", "Horizontal alignment (left, center, right); overrides -x")
	fs.StringVar(&opts.lang, "lang", "", "Document language tag, e.g. en-US")
	fs.StringVar(&opts.title, "title", "", "Document title")
	fs.StringVar(&opts.script, "js", "", "JavaScript run when the document opens")
	fs.BoolVar(&opts.compress, "compress", true, "Flate-compress streams that shrink (-compress=false to skip)")
	fs.BoolVar(&opts.deterministic, "deterministic", false, "Derive the file ID from content only")
	fs.BoolVar(&opts.verify, "verify", false, "Validate the written file")
	fs.BoolVar(&opts.verbose, "v", false, "Debug logging")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *size > 0xFFFF {
		return options{}, fmt.Errorf("font size %d out of range", *size)
	}
	if *x > 0xFFFFFFFF || *y > 0xFFFFFFFF {
		return options{}, fmt.Errorf("position out of range")
	}
	f, err := layout.ParseFormat(*format)
	if err != nil {
		return options{}, err
	}
	if _, err := layout.ParseAlignment(opts.align); err != nil {
		return options{}, err
	}
	if len(texts) == 0 && opts.inPath == "" {
		fs.Usage()
		return options{}, errors.New("nothing to write: give -text or -in")
	}
	opts.size = uint16(*size)
	opts.x, opts.y = uint32(*x), uint32(*y)
	opts.texts = texts
	opts.format = f
	return opts, nil
}

func run(ctx context.Context, opts options, stderr io.Writer) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := observability.NewTextLogger(stderr, level).With(observability.String("component", "textpdf"))

	fragments, err := collectText(opts)
	if err != nil {
		return err
	}
	if opts.size == 0 {
		log.Warn("font size is zero; the text will not be visible")
	}
	if !fonts.IsStandard(opts.baseFont) {
		log.Warn("font is not one of the standard 14; viewers will substitute", observability.String("font", opts.baseFont))
	}

	x := opts.x
	if opts.align != "" {
		mode, _ := layout.ParseAlignment(opts.align)
		x, err = layout.Align(layout.Join(fragments), float64(opts.size), mode, float64(builder.MediaBox[2]), pageMargin)
		if err != nil {
			return fmt.Errorf("align text: %w", err)
		}
		log.Debug("aligned", observability.Stringer("mode", mode), observability.Int64("x", int64(x)))
	}

	content := builder.NewContent().Font(builder.FontResourceName, opts.size).Position(x, opts.y)
	for _, f := range fragments {
		content.Text(f)
	}

	docOpts := []document.Option{
		document.WithLogger(log),
		document.WithDeterministicID(opts.deterministic),
	}
	if opts.verbose {
		docOpts = append(docOpts, document.WithInterceptor(observability.WriteLogger{Log: log}))
	}
	doc := document.New(document.PDFVersion, docOpts...)

	spec := builder.PageSpec{
		BaseFont:   opts.baseFont,
		Content:    content,
		Lang:       opts.lang,
		OpenAction: opts.script,
		Title:      opts.title,
		Producer:   producer,
	}
	if opts.title != "" && !opts.deterministic {
		spec.Created = time.Now()
	}
	if _, err := builder.Assemble(doc, doc, spec); err != nil {
		return fmt.Errorf("assemble page: %w", err)
	}
	if opts.script != "" {
		dryRun(ctx, opts.script, log)
	}

	if err := checkBounds(ctx, doc, float64(opts.size), log); err != nil {
		return err
	}
	if opts.compress {
		if err := doc.Compress(); err != nil {
			return fmt.Errorf("compress: %w", err)
		}
	}
	if err := doc.Save(opts.out); err != nil {
		return err
	}

	if opts.verify {
		r, err := verify.File(opts.out)
		if err != nil {
			return err
		}
		log.Info("verified",
			observability.String("version", r.Version),
			observability.Int("pages", r.Pages),
			observability.String("fonts", strings.Join(r.Fonts, ",")),
		)
	}
	return nil
}

// dryRun executes the open action against a stub viewer and logs what it
// would do. Runtime failures are expected for viewer APIs the stub lacks.
func dryRun(ctx context.Context, script string, log observability.Logger) {
	ctx, cancel := context.WithTimeout(ctx, scriptTimeout)
	defer cancel()
	calls, err := scripting.DryRun(ctx, script)
	for _, c := range calls {
		log.Info("open action call", observability.String("method", c.Method), observability.String("arg", c.Arg))
	}
	if err != nil {
		log.Warn("open action did not complete in the stub viewer", observability.Err(err))
	}
}

// collectText returns the -text fragments followed by those read from -in.
// Fragments from the file are separated by single spaces.
func collectText(opts options) ([]string, error) {
	fragments := append([]string(nil), opts.texts...)
	if opts.inPath == "" {
		return fragments, nil
	}
	data, err := os.ReadFile(opts.inPath)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	parsed, err := layout.Fragments(opts.format, data)
	if err != nil {
		return nil, err
	}
	for i, f := range parsed {
		if i > 0 || len(fragments) > 0 {
			fragments = append(fragments, " ")
		}
		fragments = append(fragments, f)
	}
	return fragments, nil
}

// checkBounds reads the page content back and warns when shown text leaves
// the media box. Widths use Courier metrics; other fonts only get an estimate.
func checkBounds(ctx context.Context, doc *document.Document, size float64, log observability.Logger) error {
	page, err := firstPage(doc)
	if err != nil {
		return err
	}
	base, err := resources.BaseFont(doc, page, builder.FontResourceName)
	if err != nil {
		return fmt.Errorf("resolve font: %w", err)
	}
	if !fonts.IsMonospaced(base) {
		log.Debug("text bounds are estimated with Courier metrics", observability.String("font", base))
	}
	contents, ok := page.KV["Contents"].(raw.RefObj)
	if !ok {
		return errors.New("page has no content stream")
	}
	data, err := doc.DecodeStream(ctx, contents.Ref())
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}
	ops, err := contentstream.Decode(data)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}
	boxes, err := contentstream.NewTracer(fonts.Width).Trace(ops)
	if err != nil {
		return fmt.Errorf("trace content: %w", err)
	}
	media := coords.Rect{
		LLX: float64(builder.MediaBox[0]), LLY: float64(builder.MediaBox[1]),
		URX: float64(builder.MediaBox[2]), URY: float64(builder.MediaBox[3]),
	}
	for _, b := range boxes {
		if !media.Contains(b.Rect) {
			log.Warn("text extends past the page",
				observability.Float64("llx", b.Rect.LLX),
				observability.Float64("lly", b.Rect.LLY),
				observability.Float64("urx", b.Rect.URX),
				observability.Float64("ury", b.Rect.URY),
				observability.Float64("size", size),
			)
		}
	}
	return nil
}

func firstPage(doc *document.Document) (*raw.DictObj, error) {
	root, err := doc.Root()
	if err != nil {
		return nil, err
	}
	pagesObj, err := doc.Resolve(root.KV["Pages"])
	if err != nil {
		return nil, err
	}
	pages, ok := pagesObj.(*raw.DictObj)
	if !ok {
		return nil, errors.New("page tree is not a dictionary")
	}
	kids, ok := pages.KV["Kids"].(*raw.ArrayObj)
	if !ok || kids.Len() == 0 {
		return nil, errors.New("page tree has no kids")
	}
	pageObj, err := doc.Resolve(kids.Items[0])
	if err != nil {
		return nil, err
	}
	page, ok := pageObj.(*raw.DictObj)
	if !ok {
		return nil, errors.New("page is not a dictionary")
	}
	return page, nil
}
