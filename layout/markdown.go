package layout

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func markdownFragments(src []byte) []string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	var out []string
	walkMarkdown(doc, src, &out)
	return out
}

func walkMarkdown(node ast.Node, src []byte, out *[]string) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			var sb strings.Builder
			inlineText(n, src, &sb)
			*out = appendFragment(*out, sb.String())
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			var sb strings.Builder
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(src))
				sb.WriteByte(' ')
			}
			*out = appendFragment(*out, sb.String())
		case *ast.ThematicBreak, *ast.HTMLBlock:
		default:
			// Lists, list items and block quotes.
			walkMarkdown(child, src, out)
		}
	}
}

func inlineText(node ast.Node, src []byte, sb *strings.Builder) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			sb.Write(n.Segment.Value(src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(n.Value)
		case *ast.AutoLink:
			sb.Write(n.Label(src))
		case *ast.RawHTML, *ast.Image:
		default:
			inlineText(child, src, sb)
		}
	}
}
