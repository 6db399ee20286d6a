package report

import (
	"html"
	"strings"
)

// Renderer turns report pieces into a target markup. Every string that
// reaches the output goes through exactly one of these methods.
type Renderer interface {
	Name() string
	// Text escapes literal text.
	Text(s string) string
	Bold(s string) string
	Code(s string) string
	// Markup reports whether cutting the output mid-line could leave an
	// unbalanced entity behind.
	Markup() bool
}

// RendererByName resolves a configured renderer name; unknown names fall
// back to MarkdownV2.
func RendererByName(name string) Renderer {
	switch strings.ToLower(name) {
	case "plain", "text":
		return Plain{}
	case "html":
		return HTML{}
	default:
		return MarkdownV2{}
	}
}

// Plain emits text without any markup.
type Plain struct{}

func (Plain) Name() string         { return "plain" }
func (Plain) Text(s string) string { return s }
func (Plain) Bold(s string) string { return s }
func (Plain) Code(s string) string { return s }
func (Plain) Markup() bool         { return false }

// MarkdownV2 targets Telegram's MarkdownV2 parse mode.
type MarkdownV2 struct{}

var (
	mdV2Escaper = strings.NewReplacer(
		`\`, `\\`, "_", `\_`, "*", `\*`, "[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`,
		"~", `\~`, "`", "\\`", ">", `\>`, "#", `\#`, "+", `\+`, "-", `\-`, "=", `\=`,
		"|", `\|`, "{", `\{`, "}", `\}`, ".", `\.`, "!", `\!`,
	)
	mdV2CodeEscaper = strings.NewReplacer(`\`, `\\`, "`", "\\`")
)

func (MarkdownV2) Name() string         { return "markdownv2" }
func (MarkdownV2) Text(s string) string { return mdV2Escaper.Replace(s) }
func (MarkdownV2) Bold(s string) string { return "*" + mdV2Escaper.Replace(s) + "*" }
func (MarkdownV2) Code(s string) string { return "`" + mdV2CodeEscaper.Replace(s) + "`" }
func (MarkdownV2) Markup() bool         { return true }

// HTML targets Telegram's HTML parse mode.
type HTML struct{}

func (HTML) Name() string         { return "html" }
func (HTML) Text(s string) string { return html.EscapeString(s) }
func (HTML) Bold(s string) string { return "<b>" + html.EscapeString(s) + "</b>" }
func (HTML) Code(s string) string { return "<code>" + html.EscapeString(s) + "</code>" }
func (HTML) Markup() bool         { return true }
