package mailer

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Button is an inline call-to-action link written as [!button|Label](URL).
type Button struct {
	ast.BaseInline
	URL   []byte
	Label []byte
}

// KindButton is the AST kind of Button.
var KindButton = ast.NewNodeKind("Button")

func (b *Button) Kind() ast.NodeKind { return KindButton }

func (b *Button) Dump(source []byte, level int) {
	ast.DumpHelper(b, source, level, map[string]string{
		"URL":   string(b.URL),
		"Label": string(b.Label),
	}, nil)
}

var buttonOpen = []byte("[!button|")

type buttonParser struct{}

func (buttonParser) Trigger() []byte { return []byte{'['} }

func (buttonParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, buttonOpen) {
		return nil
	}

	rest := line[len(buttonOpen):]
	label, rest, ok := bytes.Cut(rest, []byte("]("))
	if !ok || len(label) == 0 {
		return nil
	}
	url, _, ok := bytes.Cut(rest, []byte(")"))
	if !ok || len(url) == 0 {
		return nil
	}

	block.Advance(len(buttonOpen) + len(label) + 2 + len(url) + 1)
	return &Button{URL: url, Label: label}
}

type buttonRenderer struct{}

func (buttonRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindButton, func(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			b := n.(*Button)
			_, _ = w.WriteString(`<a class="btn" href="`)
			_, _ = w.Write(util.EscapeHTML(util.URLEscape(b.URL, true)))
			_, _ = w.WriteString(`">`)
			_, _ = w.Write(util.EscapeHTML(b.Label))
			_, _ = w.WriteString(`</a>`)
		}
		return ast.WalkSkipChildren, nil
	})
}

type buttons struct{}

func (buttons) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(buttonParser{}, 50)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(buttonRenderer{}, 50)))
}

// Buttons is the goldmark extension that renders [!button|Label](URL) as
// an <a class="btn"> link. Renderers enable it by default.
var Buttons goldmark.Extender = buttons{}
