package logspace

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/MIT-FutureTech/quantum-framework/internal/errors"
	"github.com/MIT-FutureTech/quantum-framework/internal/expr"
)

// The grammar is the engine dialect restricted to what log-space semantics
// can carry: + - * / ^, parenthesized groups, numeric literals, named
// variables, the constants e and pi, and the functions log, sqrt, ceil, exp.
// Precedence, lowest to highest: additive, multiplicative, unary minus,
// exponentiation (right-associative).

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp // + - * / ^
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	src string
	pos int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]
	switch {
	case c >= '0' && c <= '9' || c == '.':
		for l.pos < len(l.src) && (l.src[l.pos] >= '0' && l.src[l.pos] <= '9' || l.src[l.pos] == '.') {
			l.pos++
		}
		return token{kind: tokNumber, text: l.src[start:l.pos], pos: start}, nil
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.src[start:l.pos], pos: start}, nil
	case c == '+' || c == '-' || c == '*' || c == '/' || c == '^':
		l.pos++
		return token{kind: tokOp, text: string(c), pos: start}, nil
	case c == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case c == ',':
		l.pos++
		return token{kind: tokComma, text: ",", pos: start}, nil
	default:
		return token{}, fmt.Errorf("unexpected character %q at position %d", c, start)
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// node is a parsed expression evaluable in log-space semantics.
type node interface {
	eval(scope expr.Scope) (Magnitude, error)
}

type constNode struct{ mag Magnitude }

func (c constNode) eval(expr.Scope) (Magnitude, error) { return c.mag, nil }

type varNode struct{ name string }

func (v varNode) eval(scope expr.Scope) (Magnitude, error) {
	switch v.name {
	case "e":
		if _, bound := scope["e"]; !bound {
			return FromFloat(math.E)
		}
	case "pi":
		if _, bound := scope["pi"]; !bound {
			return FromFloat(math.Pi)
		}
	}
	value, bound := scope[v.name]
	if !bound {
		return Magnitude{}, apperrors.NewEvalError("unbound variable %q", v.name)
	}
	return FromFloat(value)
}

type negNode struct{ child node }

func (n negNode) eval(scope expr.Scope) (Magnitude, error) {
	m, err := n.child.eval(scope)
	if err != nil {
		return Magnitude{}, err
	}
	return m.Neg(), nil
}

type binaryNode struct {
	op          byte
	left, right node
}

func (b binaryNode) eval(scope expr.Scope) (Magnitude, error) {
	l, err := b.left.eval(scope)
	if err != nil {
		return Magnitude{}, err
	}
	r, err := b.right.eval(scope)
	if err != nil {
		return Magnitude{}, err
	}
	switch b.op {
	case '+':
		return Add(l, r), nil
	case '-':
		return Sub(l, r), nil
	case '*':
		return Mul(l, r), nil
	case '/':
		return Div(l, r)
	case '^':
		return Pow(l, r)
	}
	return Magnitude{}, apperrors.NewEvalError("unknown operator %q", b.op)
}

type callNode struct {
	fn   string
	args []node
}

func (c callNode) eval(scope expr.Scope) (Magnitude, error) {
	args := make([]Magnitude, len(c.args))
	for i, a := range c.args {
		m, err := a.eval(scope)
		if err != nil {
			return Magnitude{}, err
		}
		args[i] = m
	}

	switch c.fn {
	case "log":
		x := args[0]
		if x.Sign <= 0 {
			return Magnitude{}, apperrors.NewEvalError("log of non-positive value")
		}
		base := math.E
		if len(args) == 2 {
			bv, ok := args[1].Float()
			if !ok || bv <= 0 || bv == 1 {
				return Magnitude{}, apperrors.NewEvalError("invalid log base")
			}
			base = bv
		}
		// log_base(x) = ln(10)*log10(x) / ln(base); the result itself is a
		// small number, so it re-enters log space through FromFloat.
		return FromFloat(x.Log * math.Ln10 / math.Log(base))

	case "sqrt":
		x := args[0]
		if x.Sign < 0 {
			return Magnitude{}, apperrors.NewEvalError("sqrt of negative value")
		}
		if x.Sign == 0 {
			return Zero(), nil
		}
		return Magnitude{Sign: 1, Log: x.Log / 2}, nil

	case "ceil":
		x := args[0]
		// Beyond 2^53 every float64 is already an integer; ceil only
		// matters for magnitudes small enough to materialize exactly.
		if x.Sign == 0 || x.Log >= 15 {
			return x, nil
		}
		raw, _ := x.Float()
		return FromFloat(math.Ceil(raw))

	case "exp":
		xv, ok := args[0].Float()
		if !ok {
			return Magnitude{}, apperrors.NewEvalError("exp argument magnitude too large")
		}
		// log10(e^x) = x / ln(10)
		return checkedLog(1, xv/math.Ln10)
	}
	return Magnitude{}, apperrors.NewEvalError("unknown function %q", c.fn)
}

// functionArity maps supported function names to their accepted argument counts.
var functionArity = map[string][]int{
	"log":  {1, 2},
	"sqrt": {1},
	"ceil": {1},
	"exp":  {1},
}

type parser struct {
	lex  lexer
	cur  token
	text string
}

// parse compiles a formula in the engine dialect into a log-space evaluable
// tree. It fails with a ParseError for empty/placeholder input, unknown
// functions, or malformed syntax.
func parse(formula string) (node, error) {
	trimmed := strings.TrimSpace(formula)
	switch trimmed {
	case "", "-", "?", "derived":
		return nil, apperrors.NewParseError(formula, nil)
	}

	p := &parser{lex: lexer{src: trimmed}, text: formula}
	if err := p.advance(); err != nil {
		return nil, apperrors.NewParseError(formula, err)
	}
	root, err := p.parseAdditive()
	if err != nil {
		return nil, apperrors.NewParseError(formula, err)
	}
	if p.cur.kind != tokEOF {
		return nil, apperrors.NewParseError(formula, fmt.Errorf("unexpected token %q at position %d", p.cur.text, p.cur.pos))
	}
	return root, nil
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) parseAdditive() (node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOp && (p.cur.text == "+" || p.cur.text == "-") {
		op := p.cur.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOp && (p.cur.text == "*" || p.cur.text == "/") {
		op := p.cur.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.cur.kind == tokOp && p.cur.text == "-" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negNode{child: child}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.cur.kind == tokOp && p.cur.text == "^" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		// Right-associative: 2^3^2 parses as 2^(3^2).
		exponent, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return binaryNode{op: '^', left: base, right: exponent}, nil
	}
	return base, nil
}

func (p *parser) parseAtom() (node, error) {
	switch p.cur.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(p.cur.text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p.cur.text)
		}
		mag, err := FromFloat(v)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return constNode{mag: mag}, nil

	case tokIdent:
		name := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokLParen {
			return varNode{name: name}, nil
		}
		arities, known := functionArity[name]
		if !known {
			return nil, fmt.Errorf("unknown function %q", name)
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		if !containsInt(arities, len(args)) {
			return nil, fmt.Errorf("%s expects %v arguments, got %d", name, arities, len(args))
		}
		return callNode{fn: name, args: args}, nil

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("missing closing parenthesis at position %d", p.cur.pos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, fmt.Errorf("unexpected token %q at position %d", p.cur.text, p.cur.pos)
}

func (p *parser) parseArgs() ([]node, error) {
	// caller guarantees p.cur is '('
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []node
	if p.cur.kind == tokRParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return args, nil
	}
	for {
		arg, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if p.cur.kind != tokRParen {
		return nil, fmt.Errorf("missing closing parenthesis in argument list at position %d", p.cur.pos)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return args, nil
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
