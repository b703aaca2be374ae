package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/smartoctopus/wave/internal/diag"
	"github.com/smartoctopus/wave/internal/vfs"
)

// LexedSrc is the lexer's output: the source text, the token stream
// stored as two parallel arrays (Kinds, Starts), and diagnostics
// accumulated while scanning. The final element of Kinds is always EOF,
// with Starts at the same index equal to len(Source).
type LexedSrc struct {
	Source      string
	Kinds       []TokenKind
	Starts      []uint32
	Diagnostics []diag.Diagnostic
}

// scanner holds the state shared by every sub-lexer (numbers, strings,
// chars, identifiers, comments). When diags is nil, scanning is silent:
// this is how TokenLength re-derives a token's length without
// re-reporting diagnostics that were already emitted the first time the
// token was lexed.
type scanner struct {
	fileID vfs.FileID
	src    string
	diags  *[]diag.Diagnostic
}

func (s *scanner) report(start, end int, message, label, hint string) {
	if s.diags == nil {
		return
	}
	span := diag.Span{FileID: s.fileID, Start: uint32(start), End: uint32(end)}
	*s.diags = append(*s.diags, diag.Error(span, message, label, hint))
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// digitValue decodes b as a hexadecimal digit (0-9, a-f, A-F) and
// reports whether b is a digit character at all. Bytes outside that set decode to (0, false), same as the
// original table-driven decoder, so the "not a digit" test is simply
// !ok rather than a value comparison.
func digitValue(b byte) (value int, ok bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}

func base(src string, pos int) (newPos, base int) {
	base = 10
	if pos >= len(src) || src[pos] != '0' {
		return pos, base
	}
	if pos+1 >= len(src) {
		return pos, base
	}
	switch src[pos+1] {
	case 'b', 'B':
		return pos + 2, 2
	case 'o', 'O':
		return pos + 2, 8
	case 'x', 'X':
		return pos + 2, 16
	default:
		return pos, 10
	}
}

func (s *scanner) skipDigits(pos, base int) (newPos, count int) {
	for pos < len(s.src) {
		b := s.src[pos]
		if b == '_' {
			pos++
			continue
		}

		value, ok := digitValue(b)
		if !ok {
			break
		}

		if value >= base {
			if b == 'e' || b == 'E' {
				break
			}
			s.report(pos, pos+1, "digit out of range for this base", "not a valid digit here", "")
		}

		pos++
		count++
	}
	return pos, count
}

// scanNumber scans one INT or FLOAT literal starting at pos and returns
// (end, isFloat).
func (s *scanner) scanNumber(pos int) (end int, isFloat bool) {
	start := pos
	pos, b := base(s.src, pos)

	pos, count := s.skipDigits(pos, b)

	if pos < len(s.src) && s.src[pos] == '.' {
		pos++
		isFloat = true

		if b != 10 && b != 16 {
			s.report(start, pos, "fractional literal in an unsupported base", "only base 10 and base 16 support a fractional part", "")
		}
		if b == 16 && count > 1 {
			s.report(start, pos, "invalid hex floating point literal", "a hex float must have exactly one digit before the point", "")
		}

		pos, _ = s.skipDigits(pos, b)
	}

	hasPExponent := false
	if pos < len(s.src) && (s.src[pos] == 'e' || s.src[pos] == 'E') {
		isFloat = true
		pos++
		if pos < len(s.src) && (s.src[pos] == '+' || s.src[pos] == '-') {
			pos++
		}
		pos, _ = s.skipDigits(pos, 10)
	} else if pos < len(s.src) && (s.src[pos] == 'p' || s.src[pos] == 'P') {
		isFloat = true
		hasPExponent = true
		if b != 16 {
			s.report(start, pos+1, "'p' exponent requires a hex literal", "only hex float literals take a 'p' exponent", "")
		}
		pos++
		if pos < len(s.src) && (s.src[pos] == '+' || s.src[pos] == '-') {
			pos++
		}
		pos, _ = s.skipDigits(pos, 10)
	}

	if isFloat && b == 16 && !hasPExponent {
		s.report(start, pos, "hex float literal is missing its 'p' exponent", "every hex float needs a 'p' exponent, e.g. 0x1.8p3", "")
	}

	return pos, isFloat
}

var escapeable = map[byte]bool{
	'\\': true, '\'': true, '"': true, '0': true,
	't': true, 'v': true, 'r': true, 'n': true, 'b': true, 'a': true,
}

// scanEscape scans one backslash escape starting at the backslash and
// returns the position just past it. An invalid escape character is
// left unconsumed, matching handle_escape's original behavior: the next
// loop iteration treats it as ordinary content instead of looping
// forever on it.
func (s *scanner) scanEscape(pos int) int {
	start := pos
	pos++ // past '\\'
	if pos >= len(s.src) {
		return pos
	}

	if s.src[pos] == 'x' {
		pos++
		digits := 0
		for digits < 2 && pos < len(s.src) {
			if _, ok := digitValue(s.src[pos]); !ok {
				break
			}
			pos++
			digits++
		}
		if digits == 0 {
			s.report(start, pos, "invalid hex escape", "expected 1 or 2 hex digits after \\x", "")
		}
		return pos
	}

	if escapeable[s.src[pos]] {
		return pos + 1
	}

	s.report(start, pos+1, "unknown escape sequence", "", "")
	return pos
}

// scanChar scans one CHAR literal (including the opening quote) and
// returns the position just past it.
func (s *scanner) scanChar(pos int) int {
	start := pos
	pos++ // past '\''

	if pos < len(s.src) && s.src[pos] == '\\' {
		pos = s.scanEscape(pos)
	} else if pos < len(s.src) {
		_, size := utf8.DecodeRuneInString(s.src[pos:])
		pos += size
	}

	if pos < len(s.src) && s.src[pos] == '\'' {
		pos++
	} else {
		s.report(start, pos, "unterminated character literal", "", "")
	}
	return pos
}

// scanString scans one STRING or MULTILINE_STRING literal (including
// the opening quote(s)) and returns the position just past it.
func (s *scanner) scanString(pos int) (end int, multiline bool) {
	start := pos

	if hasTripleQuote(s.src, pos) {
		multiline = true
		pos += 3
		for pos < len(s.src) {
			if hasTripleQuote(s.src, pos) {
				return pos + 3, true
			}
			if s.src[pos] == '\\' {
				pos = s.scanEscape(pos)
			} else {
				pos++
			}
		}
		s.report(start, pos, "unterminated multiline string", "reached end of file looking for the closing \"\"\"", "")
		return pos, true
	}

	pos++ // past '"'
	for pos < len(s.src) && s.src[pos] != '\n' {
		if s.src[pos] == '"' {
			return pos + 1, false
		}
		if s.src[pos] == '\\' {
			pos = s.scanEscape(pos)
		} else {
			pos++
		}
	}
	s.report(start, pos, "unterminated string", "", "")
	return pos, false
}

func hasTripleQuote(src string, pos int) bool {
	return pos+2 < len(src) && src[pos] == '"' && src[pos+1] == '"' && src[pos+2] == '"'
}

// scanIdentifier scans one identifier or keyword spelling starting at
// pos and returns the position just past it.
func (s *scanner) scanIdentifier(pos int) int {
	for pos < len(s.src) {
		b := s.src[pos]
		if isASCIILetter(b) || isASCIIDigit(b) || b == '_' {
			pos++
			continue
		}
		if b < utf8.RuneSelf {
			break
		}
		r, size := utf8.DecodeRuneInString(s.src[pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		pos += size
	}
	return pos
}

// scanComment scans a //, ///, or /* */ comment starting at the leading
// '/' and returns the position just past it.
func (s *scanner) scanComment(pos int) int {
	start := pos
	pos++ // past first '/'

	switch {
	case pos < len(s.src) && s.src[pos] == '/':
		pos++
		if pos < len(s.src) && s.src[pos] == '/' {
			pos++
		}
		for pos < len(s.src) && s.src[pos] != '\n' {
			pos++
		}
		return pos
	case pos < len(s.src) && s.src[pos] == '*':
		pos++
		depth := 1
		for pos < len(s.src) && depth > 0 {
			switch {
			case pos+1 < len(s.src) && s.src[pos] == '/' && s.src[pos+1] == '*':
				pos += 2
				depth++
			case pos+1 < len(s.src) && s.src[pos] == '*' && s.src[pos+1] == '/':
				pos += 2
				depth--
			default:
				pos++
			}
		}
		// EOF inside a comment is tolerated, matching the front-end's
		// deliberate choice not to diagnose it.
		return pos
	default:
		return start
	}
}

func commentKind(src string, pos int) TokenKind {
	if pos+1 < len(src) && src[pos+1] == '*' {
		return MULTILINE_COMMENT
	}
	if pos+2 < len(src) && src[pos+1] == '/' && src[pos+2] == '/' {
		return DOC_COMMENT
	}
	return COMMENT
}

// Lex scans source into a LexedSrc. It never panics on ill-formed input:
// unrecognized bytes become BAD tokens, and scanning errors are recorded
// as diagnostics rather than raised. A final EOF token is always
// appended, with Start equal to len(source).
func Lex(fileID vfs.FileID, source string) LexedSrc {
	var diags []diag.Diagnostic
	s := &scanner{fileID: fileID, src: source, diags: &diags}

	kinds := make([]TokenKind, 0, len(source)/2+1)
	starts := make([]uint32, 0, len(source)/2+1)

	pos := 0
	for pos < len(source) {
		for pos < len(source) && isSpace(source[pos]) {
			pos++
		}
		if pos >= len(source) {
			break
		}

		start := pos
		kind, next := s.scanOne(pos)
		kinds = append(kinds, kind)
		starts = append(starts, uint32(start))
		pos = next
	}

	kinds = append(kinds, EOF)
	starts = append(starts, uint32(len(source)))

	return LexedSrc{Source: source, Kinds: kinds, Starts: starts, Diagnostics: diags}
}

// scanOne scans exactly one non-trivial token (whitespace already
// skipped by the caller) starting at pos and returns its kind and the
// position just past it.
func (s *scanner) scanOne(pos int) (TokenKind, int) {
	b := s.src[pos]

	switch {
	case b == '\r':
		if pos+1 < len(s.src) && s.src[pos+1] == '\n' {
			return NEWLINE, pos + 2
		}
		return NEWLINE, pos + 1
	case b == '\n':
		return NEWLINE, pos + 1
	case isASCIIDigit(b):
		end, isFloat := s.scanNumber(pos)
		if isFloat {
			return FLOAT, end
		}
		return INT, end
	case b == '\'':
		return CHAR, s.scanChar(pos)
	case b == '"':
		end, multiline := s.scanString(pos)
		if multiline {
			return MULTILINE_STRING, end
		}
		return STRING, end
	case isASCIILetter(b) || b == '_':
		end := s.scanIdentifier(pos)
		ident := s.src[pos:end]
		if kind, ok := LookupKeyword(ident); ok {
			return kind, end
		}
		return IDENTIFIER, end
	}

	if b >= utf8.RuneSelf {
		r, size := utf8.DecodeRuneInString(s.src[pos:])
		if unicode.IsLetter(r) {
			end := s.scanIdentifier(pos)
			return IDENTIFIER, end
		}
		s.report(pos, pos+size, "unknown character", "", "")
		return BAD, pos + size
	}

	return s.scanOperator(pos)
}

// scanOperator decodes a single- or multi-character operator/punctuator
// starting at pos. It follows the exact ambiguous-prefix policy for each
// leading byte: '.'/'..'/'...',  '<'/'<<'/'<='/'<<=' (and its '>'
// mirror), '|'/'||'/'|>'/'|=', '='/'=='/'=>', ':'/'::'/':='.
func (s *scanner) scanOperator(pos int) (TokenKind, int) {
	b := s.src[pos]
	n := len(s.src)

	peek := func(offset int) byte {
		if pos+offset >= n {
			return 0
		}
		return s.src[pos+offset]
	}

	switch b {
	case '(':
		return LPAREN, pos + 1
	case ')':
		return RPAREN, pos + 1
	case '[':
		return LBRACKET, pos + 1
	case ']':
		return RBRACKET, pos + 1
	case '{':
		return LBRACE, pos + 1
	case '}':
		return RBRACE, pos + 1
	case '@':
		return AT, pos + 1
	case '~':
		return TILDE, pos + 1
	case '?':
		return QUESTION, pos + 1
	case ',':
		return COMMA, pos + 1
	case ';':
		return SEMICOLON, pos + 1

	case '+':
		if peek(1) == '=' {
			return PLUSEQ, pos + 2
		}
		return PLUS, pos + 1
	case '*':
		if peek(1) == '=' {
			return STAREQ, pos + 2
		}
		return STAR, pos + 1
	case '%':
		if peek(1) == '=' {
			return PERCENTEQ, pos + 2
		}
		return PERCENT, pos + 1
	case '^':
		if peek(1) == '=' {
			return CARETEQ, pos + 2
		}
		return CARET, pos + 1

	case '-':
		switch peek(1) {
		case '>':
			return ARROW, pos + 2
		case '=':
			return MINUSEQ, pos + 2
		default:
			return MINUS, pos + 1
		}
	case '&':
		switch peek(1) {
		case '&':
			return ANDAND, pos + 2
		case '=':
			return AMPEQ, pos + 2
		default:
			return AMP, pos + 1
		}

	case '!':
		if peek(1) == '=' {
			return BANGEQ, pos + 2
		}
		return EXCLAMATION, pos + 1

	case '<':
		if peek(1) == '<' {
			if peek(2) == '=' {
				return LTLTEQ, pos + 3
			}
			return LTLT, pos + 2
		}
		if peek(1) == '=' {
			return LTEQ, pos + 2
		}
		return LT, pos + 1
	case '>':
		if peek(1) == '>' {
			if peek(2) == '=' {
				return GTGTEQ, pos + 3
			}
			return GTGT, pos + 2
		}
		if peek(1) == '=' {
			return GTEQ, pos + 2
		}
		return GT, pos + 1

	case '=':
		switch peek(1) {
		case '=':
			return EQEQ, pos + 2
		case '>':
			return FATARROW, pos + 2
		default:
			return EQ, pos + 1
		}

	case '|':
		switch peek(1) {
		case '|':
			return OROR, pos + 2
		case '=':
			return PIPEEQ, pos + 2
		case '>':
			return PIPEGT, pos + 2
		default:
			return PIPE, pos + 1
		}

	case '.':
		if peek(1) != '.' {
			return DOT, pos + 1
		}
		if peek(2) != '.' {
			return DOTDOT, pos + 2
		}
		return ELLIPSIS, pos + 3

	case ':':
		switch peek(1) {
		case '=':
			return COLONEQ, pos + 2
		case ':':
			return COLONCOLON, pos + 2
		default:
			return COLON, pos + 1
		}

	case '/':
		switch peek(1) {
		case '/', '*':
			kind := commentKind(s.src, pos)
			end := s.scanComment(pos)
			return kind, end
		case '=':
			return SLASHEQ, pos + 2
		default:
			return SLASH, pos + 1
		}
	}

	s.report(pos, pos+1, "unknown character", "", "")
	return BAD, pos + 1
}

// TokenLength returns the byte length of the token of kind kind starting
// at start in source. It is recomputed by re-deriving the token rather
// than stored, matching the packed token stream's implicit-length
// design: only kind and start are kept per token.
func TokenLength(kind TokenKind, source string, start uint32) int {
	pos := int(start)
	s := &scanner{src: source}

	switch kind {
	case EOF:
		return 0
	case BAD:
		_, size := utf8.DecodeRuneInString(source[pos:])
		if size == 0 {
			return 1
		}
		return size
	case NEWLINE:
		if source[pos] == '\r' && pos+1 < len(source) && source[pos+1] == '\n' {
			return 2
		}
		return 1
	case INT, FLOAT:
		end, _ := s.scanNumber(pos)
		return end - pos
	case CHAR:
		end := s.scanChar(pos)
		return end - pos
	case STRING, MULTILINE_STRING:
		end, _ := s.scanString(pos)
		return end - pos
	case IDENTIFIER:
		end := s.scanIdentifier(pos)
		return end - pos
	case COMMENT, DOC_COMMENT, MULTILINE_COMMENT:
		end := s.scanComment(pos)
		return end - pos
	default:
		return len(kind.String())
	}
}
