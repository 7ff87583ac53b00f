package expr

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/xgallom/brno-number/internal/rational"
)

// Binding powers, loosest first. Relations do not chain.
const (
	bpLowest   = 0
	bpRelation = 10
	bpSum      = 20
	bpProduct  = 30
	bpPrefix   = 40
	bpPower    = 50
)

var infixPower = map[string]int{
	"==": bpRelation, "!=": bpRelation,
	"<": bpRelation, "<=": bpRelation,
	">": bpRelation, ">=": bpRelation,
	"+": bpSum, "-": bpSum,
	"*": bpProduct, "/": bpProduct,
	"^": bpPower,
}

// Constants are the reserved names of the special values.
var Constants = map[string]func() rational.Number{
	"zero":      rational.Zero,
	"one":       rational.One,
	"nan":       rational.NaN,
	"undefined": rational.Undefined,
}

// Functions maps builtin names to their accepted argument counts.
var Functions = map[string][2]int{
	"sqrt": {1, 2},
	"neg":  {1, 1},
	"dump": {1, 1},
}

type parser struct {
	tokens []Token
	pos    int
}

// Parse parses a single line into a Node.
func Parse(src string) (Node, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	if p.peek().Kind == TokenEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}

	var n Node
	if p.peek().Kind == TokenIdent && p.peekAt(1).Kind == TokenOp && p.peekAt(1).Text == "=" {
		n, err = p.assignment()
	} else {
		n, err = p.expression(bpLowest)
	}
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.Kind != TokenEOF {
		return nil, p.unexpected(t)
	}
	return n, nil
}

func (p *parser) peek() Token { return p.peekAt(0) }

func (p *parser) peekAt(k int) Token {
	if i := p.pos + k; i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) advance() Token {
	t := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k TokenKind) (Token, error) {
	t := p.advance()
	if t.Kind != k {
		return t, &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf("expected %s, found %s", k, t)}
	}
	return t, nil
}

func (p *parser) unexpected(t Token) error {
	return &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf("unexpected %s", t)}
}

func (p *parser) assignment() (Node, error) {
	name := p.advance()
	p.advance() // =
	if _, reserved := Constants[name.Text]; reserved {
		return nil, &SyntaxError{Pos: name.Pos, Msg: fmt.Sprintf("cannot assign to constant %s", name.Text)}
	}
	if _, reserved := Functions[name.Text]; reserved {
		return nil, &SyntaxError{Pos: name.Pos, Msg: fmt.Sprintf("cannot assign to function %s", name.Text)}
	}
	x, err := p.expression(bpLowest)
	if err != nil {
		return nil, err
	}
	return &Assign{At: name.Pos, Name: name.Text, X: x}, nil
}

// expression is the Pratt loop: parse a prefix, then fold infix
// operators that bind tighter than minBP.
func (p *parser) expression(minBP int) (Node, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.Kind != TokenOp {
			return left, nil
		}
		bp, ok := infixPower[t.Text]
		if !ok {
			return nil, p.unexpected(t)
		}
		if bp <= minBP {
			return left, nil
		}
		p.advance()

		// ^ is right associative; everything else associates left.
		rightBP := bp
		if t.Text == "^" {
			rightBP = bp - 1
		}
		right, err := p.expression(rightBP)
		if err != nil {
			return nil, err
		}
		if bp == bpRelation {
			if next := p.peek(); next.Kind == TokenOp && infixPower[next.Text] == bpRelation {
				return nil, &SyntaxError{Pos: next.Pos, Msg: "relations cannot be chained"}
			}
		}
		left = &Binary{At: t.Pos, Op: t.Text, X: left, Y: right}
	}
}

func (p *parser) prefix() (Node, error) {
	t := p.advance()
	switch t.Kind {
	case TokenInt:
		v, err := parseInt(t)
		if err != nil {
			return nil, err
		}
		return &NumberLit{At: t.Pos, Text: t.Text, Value: v}, nil
	case TokenIdent:
		if p.peek().Kind == TokenLParen {
			return p.call(t)
		}
		if c, ok := Constants[t.Text]; ok {
			return &NumberLit{At: t.Pos, Text: t.Text, Value: c()}, nil
		}
		return &Ident{At: t.Pos, Name: t.Text}, nil
	case TokenLParen:
		x, err := p.expression(bpLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return x, nil
	case TokenOp:
		if t.Text == "-" || t.Text == "+" {
			x, err := p.expression(bpPrefix)
			if err != nil {
				return nil, err
			}
			return &Unary{At: t.Pos, Op: t.Text, X: x}, nil
		}
	}
	return nil, p.unexpected(t)
}

func (p *parser) call(name Token) (Node, error) {
	arity, ok := Functions[name.Text]
	if !ok {
		return nil, &SyntaxError{Pos: name.Pos, Msg: fmt.Sprintf("unknown function %s", name.Text)}
	}
	p.advance() // (

	var args []Node
	if p.peek().Kind != TokenRParen {
		for {
			a, err := p.expression(bpLowest)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.peek().Kind != TokenComma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	if len(args) < arity[0] || len(args) > arity[1] {
		want := fmt.Sprint(arity[0])
		if arity[1] != arity[0] {
			want = fmt.Sprintf("%d or %d", arity[0], arity[1])
		}
		return nil, &SyntaxError{Pos: name.Pos, Msg: fmt.Sprintf("%s takes %s arguments, got %d", name.Text, want, len(args))}
	}
	return &Call{At: name.Pos, Name: name.Text, Args: args}, nil
}

// parseInt converts a literal token. Leading zeros are decimal, not octal.
func parseInt(t Token) (rational.Number, error) {
	text, base := t.Text, 10
	if len(text) > 1 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		text, base = text[2:], 16
	}
	text = strings.ReplaceAll(text, "_", "")
	z, ok := new(big.Int).SetString(text, base)
	if !ok {
		return rational.Number{}, &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf("malformed number %q", t.Text)}
	}
	return rational.FromBigInt(z), nil
}
