package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/smartoctopus/wave/internal/vfs"
)

// ANSI color codes. Emitted unconditionally: every terminal in practice
// either understands them or passes them through harmlessly, so there is
// no isatty gate here.
const (
	colorRed     = "\033[0;31m"
	colorMagenta = "\033[0;35m"
	colorUnderWhite = "\033[4;37m"
	colorReset   = "\033[0m"
)

// Formatter renders diagnostics as annotated source snippets.
type Formatter struct {
	w io.Writer
}

// NewFormatter returns a Formatter writing to w.
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

// Emit is a convenience wrapper around NewFormatter(os.Stderr).Emit.
func Emit(diags []Diagnostic, fs *vfs.VFS) {
	NewFormatter(os.Stderr).Emit(diags, fs)
}

// Emit writes every diagnostic in diags to the formatter's writer, in
// order, and consumes them: diagnostics carry no other owner, so nothing
// further needs releasing once this returns.
//
// An invalid FileID is an internal invariant violation, not a source
// error: it can only mean the parser stamped a span with a file id the
// caller never registered. Formatter panics in that case rather than
// silently producing a bogus message.
func (f *Formatter) Emit(diags []Diagnostic, fs *vfs.VFS) {
	for _, d := range diags {
		f.emitOne(d, fs)
	}
}

func (f *Formatter) emitOne(d Diagnostic, fs *vfs.VFS) {
	path, ok := fs.Path(d.Span.FileID)
	content, okContent := fs.Content(d.Span.FileID)
	if !ok || !okContent {
		panic(fmt.Sprintf("internal compiler error: invalid file id %d in diagnostic", d.Span.FileID))
	}

	span := d.Span.clamp(len(content))

	line, col := lineCol(content, span.Start)
	fmt.Fprintf(f.w, "%s:%d:%d: ", path, line, col)
	if d.IsError {
		fmt.Fprint(f.w, colorRed+"error:")
	} else {
		fmt.Fprint(f.w, colorMagenta+"warning:")
	}
	fmt.Fprintf(f.w, colorReset+" %s\n", d.Message)

	printSnippet(f.w, content, span, d.Label)

	if d.Hint != "" {
		fmt.Fprintf(f.w, colorUnderWhite+"Hint"+colorReset+": %s\n", d.Hint)
	}
}

// lineCol returns the 1-based line and column of byte offset pos in
// content, computed by scanning from the start of the source.
func lineCol(content string, pos uint32) (line, col int) {
	if int(pos) > len(content) {
		pos = uint32(len(content))
	}
	line = 1
	lineStart := 0
	for i := 0; i < int(pos); i++ {
		if content[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, int(pos) - lineStart + 1
}

func startOfLineOffset(content string, pos int) int {
	if pos > len(content) {
		pos = len(content)
	}
	for pos > 0 && content[pos-1] != '\n' {
		pos--
	}
	return pos
}

func endOfLineOffset(content string, pos int) int {
	if pos > len(content) {
		pos = len(content)
	}
	for pos < len(content) && content[pos] != '\n' {
		pos++
	}
	return pos
}

// printSnippet renders the " N | <line>" / "^^^" block for span. If span
// crosses lines, the first line underlines from the offset to the end of
// the line, interior lines underline in full, and the last line
// underlines up to the end offset and carries the label.
func printSnippet(w io.Writer, content string, span Span, label string) {
	startLine, _ := lineCol(content, span.Start)
	endLine, _ := lineCol(content, span.End)
	width := digitWidth(endLine)

	lineStart := startOfLineOffset(content, int(span.Start))
	lineEnd := endOfLineOffset(content, int(span.End))
	lines := strings.Split(content[lineStart:lineEnd], "\n")

	fmt.Fprintf(w, " %*s |\n", width, "")

	if len(lines) == 1 {
		printLine(w, lines[0], startLine, width)
		carets := int(span.End) - int(span.Start)
		if carets == 0 {
			carets = 1 // an empty span still gets one caret to point at
		}
		printUnderline(w, width, int(span.Start)-lineStart, carets, label)
		return
	}

	printLine(w, lines[0], startLine, width)
	firstLen := len(lines[0])
	printUnderline(w, width, int(span.Start)-lineStart, firstLen-(int(span.Start)-lineStart), "")

	lineNum := startLine + 1
	for i := 1; i < len(lines)-1; i++ {
		printLine(w, lines[i], lineNum, width)
		printUnderline(w, width, 0, len(lines[i]), "")
		lineNum++
	}

	last := lines[len(lines)-1]
	printLine(w, last, endLine, width)
	lastLineStartOffset := lineEnd - len(last)
	printUnderline(w, width, 0, int(span.End)-lastLineStartOffset, label)
}

func printLine(w io.Writer, line string, num, width int) {
	fmt.Fprintf(w, " %*d | %s\n", width, num, line)
}

func printUnderline(w io.Writer, width, leadingSpaces, carets int, label string) {
	fmt.Fprintf(w, " %*s | ", width, "")
	for i := 0; i < leadingSpaces; i++ {
		fmt.Fprint(w, " ")
	}
	fmt.Fprint(w, colorRed)
	if carets < 0 {
		carets = 0
	}
	for i := 0; i < carets; i++ {
		fmt.Fprint(w, "^")
	}
	fmt.Fprint(w, colorReset)
	if label != "" {
		fmt.Fprintf(w, " %s", label)
	}
	fmt.Fprintln(w)
}

func digitWidth(n int) int {
	width := 1
	for n >= 10 {
		n /= 10
		width++
	}
	return width
}
