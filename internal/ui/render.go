package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/modu-ai/showtrans/internal/annotate"
	"github.com/modu-ai/showtrans/internal/hint"
)

// RenderInline returns text with every annotation label inserted at its
// offset. Labels with PaddingLeft get a single space before them.
// Annotations must be in ascending offset order, as annotate.Compute
// returns them.
func RenderInline(text string, anns []annotate.Annotation, styles *Styles) string {
	if len(anns) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(anns)*16)

	cursor := 0
	for _, a := range anns {
		offset := max(cursor, min(a.Offset, len(text)))
		b.WriteString(text[cursor:offset])
		if a.PaddingLeft {
			b.WriteByte(' ')
		}
		b.WriteString(styles.Hint.Render(a.Label))
		cursor = offset
	}
	b.WriteString(text[cursor:])
	return b.String()
}

// ReportMarkdown builds a markdown summary of the hints attached to source.
func ReportMarkdown(source, tablePath string, hints []hint.Hint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", source)
	fmt.Fprintf(&b, "Table: `%s`\n\n", tablePath)

	if len(hints) == 0 {
		b.WriteString("_No translation keys resolved._\n")
		return b.String()
	}

	b.WriteString("| Line | Column | Key | Value |\n")
	b.WriteString("|---:|---:|---|---|\n")
	for _, h := range hints {
		fmt.Fprintf(&b, "| %d | %d | `%s` | %s |\n",
			h.Position.Line+1,
			h.Position.Character+1,
			h.Key,
			escapeCell(strings.TrimPrefix(h.Label, annotate.LabelPrefix)),
		)
	}
	return b.String()
}

// RenderMarkdown renders markdown for the terminal with glamour. With
// noColor the plain "notty" style is used.
func RenderMarkdown(content string, width int, noColor bool) (string, error) {
	if width <= 0 {
		width = 80
	}

	style := glamour.WithAutoStyle()
	if noColor {
		style = glamour.WithStandardStyle("notty")
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
