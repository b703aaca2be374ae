package lexer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartoctopus/wave/internal/lexer"
	"github.com/smartoctopus/wave/internal/vfs"
)

func TestLexEmptySourceIsJustEOF(t *testing.T) {
	out := lexer.Lex(0, "")
	require.Equal(t, []lexer.TokenKind{lexer.EOF}, out.Kinds)
	require.Equal(t, []uint32{0}, out.Starts)
}

func TestFinalTokenIsAlwaysEOF(t *testing.T) {
	sources := []string{"", "foo", "foo :: bar\n", "/* unterminated", "\"unterminated"}
	for _, src := range sources {
		out := lexer.Lex(0, src)
		last := out.Kinds[len(out.Kinds)-1]
		require.Equal(t, lexer.EOF, last, "source %q", src)
		require.Equal(t, uint32(len(src)), out.Starts[len(out.Starts)-1], "source %q", src)
	}
}

func TestNextToken_Basic(t *testing.T) {
	tests := []struct {
		src  string
		kind lexer.TokenKind
	}{
		{"foo", lexer.IDENTIFIER},
		{"_bar9", lexer.IDENTIFIER},
		{"123", lexer.INT},
		{"1_000", lexer.INT},
		{"1.5", lexer.FLOAT},
		{"0x1F", lexer.INT},
		{"0b101", lexer.INT},
		{"0o17", lexer.INT},
		{"0x1.8p3", lexer.FLOAT},
		{"1e10", lexer.FLOAT},
		{"'a'", lexer.CHAR},
		{"\"hi\"", lexer.STRING},
		{"\"\"\"hi\"\"\"", lexer.MULTILINE_STRING},
		{"if", lexer.IF},
		{"struct", lexer.STRUCT},
		{"ifx", lexer.IDENTIFIER},
		{"(", lexer.LPAREN},
		{")", lexer.RPAREN},
		{"->", lexer.ARROW},
		{"=>", lexer.FATARROW},
		{"::", lexer.COLONCOLON},
		{":=", lexer.COLONEQ},
		{":", lexer.COLON},
		{"...", lexer.ELLIPSIS},
		{"..", lexer.DOTDOT},
		{".", lexer.DOT},
		{"<<=", lexer.LTLTEQ},
		{"<<", lexer.LTLT},
		{"<=", lexer.LTEQ},
		{"<", lexer.LT},
		{">>=", lexer.GTGTEQ},
		{">>", lexer.GTGT},
		{">=", lexer.GTEQ},
		{">", lexer.GT},
		{"|>", lexer.PIPEGT},
		{"||", lexer.OROR},
		{"|=", lexer.PIPEEQ},
		{"|", lexer.PIPE},
		{"&&", lexer.ANDAND},
		{"&=", lexer.AMPEQ},
		{"&", lexer.AMP},
		{"// line comment", lexer.COMMENT},
		{"/// doc comment", lexer.DOC_COMMENT},
		{"/* block */", lexer.MULTILINE_COMMENT},
	}

	for _, tt := range tests {
		out := lexer.Lex(0, tt.src)
		if out.Kinds[0] != tt.kind {
			t.Fatalf("Lex(%q): got %s, want %s", tt.src, out.Kinds[0], tt.kind)
		}
	}
}

func TestWhitespaceIsSkipped(t *testing.T) {
	out := lexer.Lex(0, "foo    bar")
	require.Equal(t, []lexer.TokenKind{lexer.IDENTIFIER, lexer.IDENTIFIER, lexer.EOF}, out.Kinds)
	require.Equal(t, uint32(0), out.Starts[0])
	require.Equal(t, uint32(7), out.Starts[1])
}

func TestNewlineCollapsesCRLF(t *testing.T) {
	out := lexer.Lex(0, "a\r\nb")
	require.Equal(t, []lexer.TokenKind{lexer.IDENTIFIER, lexer.NEWLINE, lexer.IDENTIFIER, lexer.EOF}, out.Kinds)
}

func TestUnterminatedStringEmitsExactlyOneDiagnostic(t *testing.T) {
	out := lexer.Lex(0, "\"oops")
	require.Len(t, out.Diagnostics, 1)
	require.Equal(t, []lexer.TokenKind{lexer.STRING, lexer.EOF}, out.Kinds)
}

func TestUnterminatedStringStopsAtNewline(t *testing.T) {
	out := lexer.Lex(0, "\"oops\nbar")
	require.Len(t, out.Diagnostics, 1)
	require.Equal(t, lexer.STRING, out.Kinds[0])
	require.Equal(t, lexer.NEWLINE, out.Kinds[1])
	require.Equal(t, lexer.IDENTIFIER, out.Kinds[2])
}

func TestOutOfBaseDigitEmitsOneDiagnosticPerOffendingDigitButOneToken(t *testing.T) {
	out := lexer.Lex(0, "0b1239")
	require.Equal(t, []lexer.TokenKind{lexer.INT, lexer.EOF}, out.Kinds)
	require.Len(t, out.Diagnostics, 3) // '2', '3', and '9' are each out of range for base 2
}

func TestHexFloatMissingPExponentIsDiagnosed(t *testing.T) {
	out := lexer.Lex(0, "0x1.8")
	require.Equal(t, lexer.FLOAT, out.Kinds[0])
	require.NotEmpty(t, out.Diagnostics)
}

func TestNestedBlockCommentsAreTolerated(t *testing.T) {
	out := lexer.Lex(0, "/* outer /* inner */ still outer */ x")
	require.Equal(t, lexer.MULTILINE_COMMENT, out.Kinds[0])
	require.Equal(t, lexer.IDENTIFIER, out.Kinds[1])
}

func TestEOFInsideCommentIsTolerated(t *testing.T) {
	out := lexer.Lex(0, "/* never closes")
	require.Empty(t, out.Diagnostics)
	require.Equal(t, []lexer.TokenKind{lexer.MULTILINE_COMMENT, lexer.EOF}, out.Kinds)
}

func TestUnknownEscapeIsDiagnosedButDoesNotLoopForever(t *testing.T) {
	out := lexer.Lex(0, "\"a\\qb\"")
	require.Len(t, out.Diagnostics, 1)
	require.Equal(t, []lexer.TokenKind{lexer.STRING, lexer.EOF}, out.Kinds)
}

func TestBadByteProducesBadToken(t *testing.T) {
	out := lexer.Lex(0, string([]byte{0x01}))
	require.Equal(t, []lexer.TokenKind{lexer.BAD, lexer.EOF}, out.Kinds)
	require.Len(t, out.Diagnostics, 1)
}

// TestSubstringConcatenationRoundTrips checks that concatenating, for
// every token, the source bytes implied by (start, TokenLength(kind,
// source, start)) reproduces the non-trivia portion of the input in
// order, with no gaps or overlaps between tokens.
func TestSubstringConcatenationRoundTrips(t *testing.T) {
	src := "main :: () => {\n\treturn 1 + 2 * 3\n}\n"
	out := lexer.Lex(0, src)

	var joined strings.Builder
	for i, kind := range out.Kinds {
		if kind == lexer.EOF {
			continue
		}
		start := out.Starts[i]
		length := lexer.TokenLength(kind, src, start)
		if length < 0 {
			t.Fatalf("token %d (%s) has negative length", i, kind)
		}
		end := int(start) + length
		if end > len(src) {
			t.Fatalf("token %d (%s) runs past end of source", i, kind)
		}
		joined.WriteString(src[start:end])
	}

	nonTrivia := strings.NewReplacer(" ", "", "\t", "").Replace(src)
	require.Equal(t, nonTrivia, joined.String())
}

func TestTokenLengthForFixedWidthTokens(t *testing.T) {
	cases := []struct {
		kind lexer.TokenKind
		want int
	}{
		{lexer.ARROW, 2},
		{lexer.FATARROW, 2},
		{lexer.COLONCOLON, 2},
		{lexer.ELLIPSIS, 3},
		{lexer.IF, 2},
		{lexer.STRUCT, 6},
	}
	for _, c := range cases {
		got := lexer.TokenLength(c.kind, "placeholder", 0)
		require.Equal(t, c.want, got, c.kind.String())
	}
}

func TestLookupKeyword(t *testing.T) {
	yes := []string{"as", "alignof", "asm", "break", "continue", "context", "defer",
		"distinct", "else", "enum", "for", "foreign", "fallthrough", "if", "in",
		"import", "mut", "match", "map", "new", "own", "or", "offsetof", "return",
		"struct", "sizeof", "typeof", "using", "union", "undef", "where", "when"}
	require.Len(t, yes, 32)
	for _, kw := range yes {
		_, ok := lexer.LookupKeyword(kw)
		require.True(t, ok, kw)
	}

	no := []string{"", "ifx", "xif", "whenever", "structure", "notakeyword", "z"}
	for _, ident := range no {
		_, ok := lexer.LookupKeyword(ident)
		require.False(t, ok, ident)
	}
}

func TestUTF8IdentifiersAreAccepted(t *testing.T) {
	out := lexer.Lex(0, "café")
	require.Equal(t, []lexer.TokenKind{lexer.IDENTIFIER, lexer.EOF}, out.Kinds)
	require.Equal(t, uint32(len("café")), out.Starts[1])
}

func TestLexUsesProvidedFileID(t *testing.T) {
	fs := vfs.New()
	id := fs.AddFile("main.wave", "bad := 1")
	out := lexer.Lex(id, "bad := 1")
	require.Equal(t, 0, len(out.Diagnostics))

	other := fs.AddFile("other.wave", "\x01")
	bad := lexer.Lex(other, "\x01")
	require.Len(t, bad.Diagnostics, 1)
	require.Equal(t, other, bad.Diagnostics[0].Span.FileID)
}
