package expr

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	apperrors "github.com/xgallom/brno-number/internal/errors"
	"github.com/xgallom/brno-number/internal/rational"
)

// DefaultMaxPowerExp is the exponent limit of an Env created without
// WithMaxPowerExp.
const DefaultMaxPowerExp = 1_000_000

// maxOperandBits bounds the math/big conversion of exponents and precisions.
const maxOperandBits = 1 << 16

// AnsName is the variable that holds the last numeric result.
const AnsName = "ans"

var (
	// ErrUnknownIdentifier is returned for variables that were never assigned.
	ErrUnknownIdentifier = errors.New("unknown identifier")
	// ErrNonIntegerExponent is returned when the right side of ^ is not an integer.
	ErrNonIntegerExponent = errors.New("exponent must be an integer")
	// ErrBooleanOperand is returned when a relation result is used as a number.
	ErrBooleanOperand = errors.New("boolean used as a number")
)

// OpEvent describes one engine operation performed during evaluation.
type OpEvent struct {
	// Op is add, sub, mul, div, power, sqrt, neg or compare.
	Op       string
	Duration time.Duration
	// Result is the kind of the result, "bool" for relations, or "error".
	Result string
	Err    error
}

// Observer receives every engine operation. Implementations must be safe
// for concurrent use when the Env is shared.
type Observer interface {
	ObserveOp(OpEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(OpEvent)

// ObserveOp calls f(ev).
func (f ObserverFunc) ObserveOp(ev OpEvent) { f(ev) }

// Env holds variables and evaluation limits. It is safe for concurrent use.
type Env struct {
	mu          sync.RWMutex
	vars        map[string]rational.Number
	maxPowerExp int64
	observer    Observer
}

// Option configures an Env.
type Option func(*Env)

// WithMaxPowerExp bounds the magnitude of exponents accepted by ^.
func WithMaxPowerExp(limit int64) Option {
	return func(e *Env) { e.maxPowerExp = limit }
}

// WithObserver installs an operation observer.
func WithObserver(o Observer) Option {
	return func(e *Env) { e.observer = o }
}

// NewEnv returns an empty environment.
func NewEnv(opts ...Option) *Env {
	e := &Env{
		vars:        make(map[string]rational.Number),
		maxPowerExp: DefaultMaxPowerExp,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fork returns an independent copy of e with the same variables, limit
// and observer. Batch lines evaluate in forks so their assignments do not
// race.
func (e *Env) Fork() *Env {
	e.mu.RLock()
	defer e.mu.RUnlock()
	f := &Env{
		vars:        make(map[string]rational.Number, len(e.vars)),
		maxPowerExp: e.maxPowerExp,
		observer:    e.observer,
	}
	for k, v := range e.vars {
		f.vars[k] = v
	}
	return f
}

// Get returns the value bound to name.
func (e *Env) Get(name string) (rational.Number, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.vars[name]
	return v, ok
}

// Set binds name to v.
func (e *Env) Set(name string, v rational.Number) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars[name] = v
}

// Names returns the bound variable names in sorted order.
func (e *Env) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes every variable, including ans.
func (e *Env) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.vars)
}

// MaxPowerExp returns the exponent limit.
func (e *Env) MaxPowerExp() int64 { return e.maxPowerExp }

// Eval parses and evaluates src in env. A numeric result is stored in ans,
// and assignments also bind their target. Errors other than syntax errors
// and context errors are wrapped in an apperrors.EvalError.
func Eval(ctx context.Context, src string, env *Env) (Value, error) {
	n, err := Parse(src)
	if err != nil {
		return Value{}, err
	}
	v, err := env.evalTop(ctx, n)
	if err != nil {
		if apperrors.IsContextError(err) {
			return Value{}, err
		}
		return Value{}, apperrors.EvalError{Expr: src, Cause: err}
	}
	if !v.IsBool {
		env.Set(AnsName, v.Number)
	}
	return v, nil
}

func (e *Env) evalTop(ctx context.Context, n Node) (Value, error) {
	switch n := n.(type) {
	case *Assign:
		x, err := e.number(ctx, n.X)
		if err != nil {
			return Value{}, err
		}
		e.Set(n.Name, x)
		return NumberValue(x), nil
	case *Binary:
		if infixPower[n.Op] == bpRelation {
			return e.relation(ctx, n)
		}
	case *Call:
		if n.Name == "dump" {
			x, err := e.number(ctx, n.Args[0])
			if err != nil {
				return Value{}, err
			}
			v := NumberValue(x)
			v.Dump = true
			return v, nil
		}
	}
	x, err := e.number(ctx, n)
	if err != nil {
		return Value{}, err
	}
	return NumberValue(x), nil
}

// number evaluates n, which must produce a Number.
func (e *Env) number(ctx context.Context, n Node) (rational.Number, error) {
	if err := ctx.Err(); err != nil {
		return rational.Number{}, err
	}
	switch n := n.(type) {
	case *NumberLit:
		return n.Value, nil
	case *Ident:
		v, ok := e.Get(n.Name)
		if !ok {
			return rational.Number{}, fmt.Errorf("%w %q at %d", ErrUnknownIdentifier, n.Name, n.At)
		}
		return v, nil
	case *Unary:
		x, err := e.number(ctx, n.X)
		if err != nil || n.Op == "+" {
			return x, err
		}
		return e.observe("neg", func() (rational.Number, error) { return x.Neg(), nil })
	case *Binary:
		return e.binary(ctx, n)
	case *Call:
		return e.call(ctx, n)
	case *Assign:
		return rational.Number{}, &SyntaxError{Pos: n.At, Msg: "assignment is not an expression"}
	}
	return rational.Number{}, fmt.Errorf("unsupported node %T", n)
}

func (e *Env) binary(ctx context.Context, n *Binary) (rational.Number, error) {
	if infixPower[n.Op] == bpRelation {
		return rational.Number{}, fmt.Errorf("%w: %s at %d", ErrBooleanOperand, n.Op, n.At)
	}
	x, err := e.number(ctx, n.X)
	if err != nil {
		return rational.Number{}, err
	}
	y, err := e.number(ctx, n.Y)
	if err != nil {
		return rational.Number{}, err
	}
	switch n.Op {
	case "+":
		return e.observe("add", func() (rational.Number, error) { return x.AddContext(ctx, y) })
	case "-":
		return e.observe("sub", func() (rational.Number, error) { return x.SubContext(ctx, y) })
	case "*":
		return e.observe("mul", func() (rational.Number, error) { return x.MulContext(ctx, y) })
	case "/":
		return e.observe("div", func() (rational.Number, error) { return x.DivContext(ctx, y) })
	case "^":
		exp, err := e.exponent(y, n.Y.Pos())
		if err != nil {
			return rational.Number{}, err
		}
		return e.observe("power", func() (rational.Number, error) { return x.PowerContext(ctx, exp) })
	}
	return rational.Number{}, &SyntaxError{Pos: n.At, Msg: fmt.Sprintf("unknown operator %s", n.Op)}
}

// exponent converts the right operand of ^ to an int64 within the limit.
func (e *Env) exponent(y rational.Number, pos int) (int64, error) {
	if y.IsZero() {
		return 0, nil
	}
	if !y.IsOrdinary() {
		return 0, fmt.Errorf("%w: got %s at %d", ErrNonIntegerExponent, y.Kind(), pos)
	}
	if y.RatBits() > maxOperandBits {
		return 0, apperrors.LimitError{Name: "power exponent", Value: math.MaxInt64, Limit: e.maxPowerExp}
	}
	r, _ := y.Rat()
	if !r.IsInt() {
		return 0, fmt.Errorf("%w: got %s at %d", ErrNonIntegerExponent, r.RatString(), pos)
	}
	z := r.Num()
	if !z.IsInt64() {
		return 0, apperrors.LimitError{Name: "power exponent", Value: math.MaxInt64, Limit: e.maxPowerExp}
	}
	exp := z.Int64()
	if exp > e.maxPowerExp || exp < -e.maxPowerExp {
		mag := exp
		switch {
		case mag == math.MinInt64:
			mag = math.MaxInt64
		case mag < 0:
			mag = -mag
		}
		return 0, apperrors.LimitError{Name: "power exponent", Value: mag, Limit: e.maxPowerExp}
	}
	return exp, nil
}

func (e *Env) call(ctx context.Context, n *Call) (rational.Number, error) {
	x, err := e.number(ctx, n.Args[0])
	if err != nil {
		return rational.Number{}, err
	}
	switch n.Name {
	case "neg":
		return e.observe("neg", func() (rational.Number, error) { return x.Neg(), nil })
	case "dump":
		return x, nil
	case "sqrt":
		var digits uint32
		if len(n.Args) == 2 {
			d, err := e.number(ctx, n.Args[1])
			if err != nil {
				return rational.Number{}, err
			}
			digits, err = e.digits(d, n.Args[1].Pos())
			if err != nil {
				return rational.Number{}, err
			}
		}
		return e.observe("sqrt", func() (rational.Number, error) { return x.Sqrt(digits) })
	}
	return rational.Number{}, &SyntaxError{Pos: n.At, Msg: fmt.Sprintf("unknown function %s", n.Name)}
}

func (e *Env) digits(d rational.Number, pos int) (uint32, error) {
	if d.IsZero() {
		return 0, nil
	}
	if !d.IsOrdinary() || d.RatBits() > maxOperandBits {
		return 0, &SyntaxError{Pos: pos, Msg: "sqrt precision must be a non-negative 32-bit integer"}
	}
	r, _ := d.Rat()
	if !r.IsInt() || r.Sign() < 0 || !r.Num().IsUint64() || r.Num().Uint64() > math.MaxUint32 {
		return 0, &SyntaxError{Pos: pos, Msg: "sqrt precision must be a non-negative 32-bit integer"}
	}
	return uint32(r.Num().Uint64()), nil
}

var relations = map[string]rational.Relation{
	"==": rational.RelEqual,
	"!=": rational.RelNotEqual,
	"<":  rational.RelLess,
	"<=": rational.RelLessEqual,
	">":  rational.RelMore,
	">=": rational.RelMoreEqual,
}

func (e *Env) relation(ctx context.Context, n *Binary) (Value, error) {
	x, err := e.number(ctx, n.X)
	if err != nil {
		return Value{}, err
	}
	y, err := e.number(ctx, n.Y)
	if err != nil {
		return Value{}, err
	}
	rel, ok := relations[n.Op]
	if !ok {
		return Value{}, &SyntaxError{Pos: n.At, Msg: fmt.Sprintf("unknown relation %s", n.Op)}
	}
	start := time.Now()
	b, err := rational.Relate(ctx, rel, x, y)
	ev := OpEvent{Op: "compare", Duration: time.Since(start), Result: "bool", Err: err}
	if err != nil {
		ev.Result = "error"
	}
	e.notify(ev)
	if err != nil {
		return Value{}, fmt.Errorf("%s: %w", n.Op, err)
	}
	return BoolValue(b), nil
}

// observe runs op and reports it to the observer, if any.
func (e *Env) observe(name string, op func() (rational.Number, error)) (rational.Number, error) {
	if e.observer == nil {
		return op()
	}
	start := time.Now()
	r, err := op()
	ev := OpEvent{Op: name, Duration: time.Since(start), Err: err}
	if err != nil {
		ev.Result = "error"
	} else {
		ev.Result = r.Kind().String()
	}
	e.observer.ObserveOp(ev)
	return r, err
}

func (e *Env) notify(ev OpEvent) {
	if e.observer != nil {
		e.observer.ObserveOp(ev)
	}
}
