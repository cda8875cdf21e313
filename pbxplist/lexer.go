package pbxplist

import (
	"fmt"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokBraceOpen
	tokBraceClose
	tokParenOpen
	tokParenClose
	tokEquals
	tokSemicolon
	tokComma
	tokString  // bare or quoted; quoted keeps its quotes
	tokComment // /* ... */ body without delimiters
	tokLineComment
)

type token struct {
	kind   tokenKind
	text   string
	quoted bool
	line   int
}

type lexer struct {
	src  []byte
	pos  int
	line int
}

func newLexer(src []byte) *lexer {
	return &lexer{src: src, line: 1}
}

func (l *lexer) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", l.line, fmt.Sprintf(format, args...))
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelimiter(c byte) bool {
	switch c {
	case '{', '}', '(', ')', '=', ';', ',', '"':
		return true
	}
	return false
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: l.line}, nil
	}

	c := l.src[l.pos]
	switch c {
	case '{':
		l.pos++
		return token{kind: tokBraceOpen, line: l.line}, nil
	case '}':
		l.pos++
		return token{kind: tokBraceClose, line: l.line}, nil
	case '(':
		l.pos++
		return token{kind: tokParenOpen, line: l.line}, nil
	case ')':
		l.pos++
		return token{kind: tokParenClose, line: l.line}, nil
	case '=':
		l.pos++
		return token{kind: tokEquals, line: l.line}, nil
	case ';':
		l.pos++
		return token{kind: tokSemicolon, line: l.line}, nil
	case ',':
		l.pos++
		return token{kind: tokComma, line: l.line}, nil
	case '"':
		return l.lexQuoted()
	case '/':
		if l.peekByteAt(1) == '*' {
			return l.lexComment()
		}
		if l.peekByteAt(1) == '/' {
			return l.lexLineComment()
		}
	}
	return l.lexBare()
}

func (l *lexer) lexQuoted() (token, error) {
	start := l.pos
	startLine := l.line
	l.pos++ // opening quote
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' {
			l.pos += 2
			continue
		}
		if c == '\n' {
			l.line++
		}
		if c == '"' {
			l.pos++
			return token{kind: tokString, text: string(l.src[start:l.pos]), quoted: true, line: startLine}, nil
		}
		l.pos++
	}
	return token{}, l.errorf("unterminated string")
}

func (l *lexer) lexComment() (token, error) {
	startLine := l.line
	l.pos += 2 // "/*"
	start := l.pos
	for l.pos < len(l.src) {
		if l.src[l.pos] == '*' && l.peekByteAt(1) == '/' {
			text := string(l.src[start:l.pos])
			l.pos += 2
			return token{kind: tokComment, text: trimSpaces(text), line: startLine}, nil
		}
		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
	return token{}, l.errorf("unterminated comment")
}

func (l *lexer) lexLineComment() (token, error) {
	startLine := l.line
	l.pos += 2 // "//"
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
	return token{kind: tokLineComment, text: trimSpaces(string(l.src[start:l.pos])), line: startLine}, nil
}

func (l *lexer) lexBare() (token, error) {
	start := l.pos
	startLine := l.line
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isSpace(c) || isDelimiter(c) {
			break
		}
		// a comment may follow a bare token with no space in between
		if c == '/' && (l.peekByteAt(1) == '*' || l.peekByteAt(1) == '/') {
			break
		}
		l.pos++
	}
	if l.pos == start {
		return token{}, l.errorf("unexpected character %q", l.src[start])
	}
	return token{kind: tokString, text: string(l.src[start:l.pos]), line: startLine}, nil
}

func trimSpaces(s string) string {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	j := len(s)
	for j > i && isSpace(s[j-1]) {
		j--
	}
	return s[i:j]
}
