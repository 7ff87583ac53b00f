package expr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "github.com/xgallom/brno-number/internal/errors"
)

// TokenKind classifies a token.
type TokenKind uint8

// Token kinds.
const (
	TokenEOF TokenKind = iota
	TokenInt
	TokenIdent
	TokenOp
	TokenLParen
	TokenRParen
	TokenComma
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenInt:
		return "integer"
	case TokenIdent:
		return "identifier"
	case TokenOp:
		return "operator"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	}
	return fmt.Sprintf("TokenKind(%d)", uint8(k))
}

// Token is a lexeme with its byte offset in the source.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return t.Kind.String()
	}
	return fmt.Sprintf("%q", t.Text)
}

// SyntaxError reports malformed input at a byte offset.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d: %s", e.Pos, e.Msg)
}

// ExitCode classifies syntax errors with the other evaluation failures.
func (e *SyntaxError) ExitCode() int { return apperrors.ExitErrorEval }

// twoCharOps are matched before their one-character prefixes.
var twoCharOps = []string{"==", "!=", "<=", ">="}

const oneCharOps = "+-*/^=<>"

const eof = -1

// lexer follows the state-function design of text/template: each state
// consumes input and returns the next state, or nil when done.
type lexer struct {
	src    string
	start  int
	pos    int
	tokens []Token
	err    error
}

type stateFn func(*lexer) stateFn

// Tokenize splits src into tokens terminated by a TokenEOF.
func Tokenize(src string) ([]Token, error) {
	l := &lexer{src: src}
	for state := lexAny; state != nil; {
		state = state(l)
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.tokens, nil
}

func (l *lexer) next() rune {
	if l.pos >= len(l.src) {
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += w
	return r
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *lexer) emit(k TokenKind) {
	l.tokens = append(l.tokens, Token{Kind: k, Text: l.src[l.start:l.pos], Pos: l.start})
	l.start = l.pos
}

func (l *lexer) errorf(format string, args ...any) stateFn {
	l.err = &SyntaxError{Pos: l.start, Msg: fmt.Sprintf(format, args...)}
	return nil
}

func lexAny(l *lexer) stateFn {
	for unicode.IsSpace(l.peek()) {
		l.next()
	}
	l.start = l.pos

	rest := l.src[l.pos:]
	for _, op := range twoCharOps {
		if strings.HasPrefix(rest, op) {
			l.pos += len(op)
			l.emit(TokenOp)
			return lexAny
		}
	}

	r := l.next()
	switch {
	case r == eof:
		l.emit(TokenEOF)
		return nil
	case r >= '0' && r <= '9':
		return lexNumber
	case r == '_' || unicode.IsLetter(r):
		return lexIdent
	case r == '(':
		l.emit(TokenLParen)
	case r == ')':
		l.emit(TokenRParen)
	case r == ',':
		l.emit(TokenComma)
	case strings.ContainsRune(oneCharOps, r):
		l.emit(TokenOp)
	default:
		return l.errorf("unexpected character %q", r)
	}
	return lexAny
}

// lexNumber scans a decimal or 0x-prefixed hexadecimal integer; the
// first digit has already been consumed.
func lexNumber(l *lexer) stateFn {
	digits := "0123456789_"
	if l.src[l.start] == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.next()
		digits = "0123456789abcdefABCDEF_"
		if !strings.ContainsRune(digits, l.peek()) {
			return l.errorf("hexadecimal literal without digits")
		}
	}
	for strings.ContainsRune(digits, l.peek()) {
		l.next()
	}
	if r := l.peek(); r == '.' || r == '_' || unicode.IsLetter(r) {
		l.next()
		return l.errorf("malformed number %q", l.src[l.start:l.pos])
	}
	l.emit(TokenInt)
	return lexAny
}

func lexIdent(l *lexer) stateFn {
	for {
		r := l.peek()
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.next()
	}
	l.emit(TokenIdent)
	return lexAny
}
