package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"zenc/internal/diag"
	"zenc/internal/source"
)

// Pretty renders diagnostics in compiler style: one header line per
// diagnostic, the offending source line, and a caret underline sized to the
// span. Call bag.Sort() first if stable ordering matters.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for _, d := range items {
		printOne(w, d, fs, opts)
	}
	if truncated := bag.Len() - len(items); truncated > 0 {
		fmt.Fprintf(w, "... and %d more\n", truncated)
	}
}

func printOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		location(fs, d.Primary),
		severityLabel(d.Severity, opts.Color),
		d.Code.ID(),
		d.Message)
	printContext(w, fs, d.Primary, opts)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s: note: %s\n", location(fs, n.Span), n.Msg)
			printContext(w, fs, n.Span, opts)
		}
	}
}

func location(fs *source.FileSet, sp source.Span) string {
	if fs == nil {
		return sp.String()
	}
	f := fs.Get(sp.File)
	if f == nil {
		return sp.String()
	}
	pos := fs.SpanPosition(sp)
	return fmt.Sprintf("%s:%d:%d", f.Path, pos.Line, pos.Col)
}

// printContext shows the source line with a caret underline. Column math
// uses display width so wide runes do not skew the carets.
func printContext(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	if fs == nil {
		return
	}
	pos := fs.SpanPosition(sp)
	line := fs.Line(sp.File, pos.Line)
	if line == nil {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	prefixWidth := runewidth.StringWidth(string(line[:min(int(pos.Col)-1, len(line))]))
	spanLen := int(sp.Len())
	if spanLen < 1 {
		spanLen = 1
	}
	end := min(int(pos.Col)-1+spanLen, len(line))
	underWidth := runewidth.StringWidth(string(line[min(int(pos.Col)-1, len(line)):end]))
	if underWidth < 1 {
		underWidth = 1
	}

	marker := "^" + strings.Repeat("~", underWidth-1)
	if opts.Color {
		marker = color.New(color.FgRed, color.Bold).Sprint(marker)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", prefixWidth), marker)
}

func severityLabel(s diag.Severity, colored bool) string {
	label := strings.ToLower(s.String())
	if !colored {
		return label
	}
	switch s {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold).Sprint(label)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold).Sprint(label)
	default:
		return color.New(color.FgCyan).Sprint(label)
	}
}
