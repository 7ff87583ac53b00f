package expr

import (
	"fmt"
	"strings"

	"github.com/xgallom/brno-number/internal/rational"
)

// Node is a parsed expression.
type Node interface {
	// Pos is the byte offset of the node in the source.
	Pos() int
	String() string
}

type (
	// NumberLit is an integer literal or a special-value name.
	NumberLit struct {
		At    int
		Text  string
		Value rational.Number
	}

	// Ident references a variable.
	Ident struct {
		At   int
		Name string
	}

	// Unary is a prefix + or -.
	Unary struct {
		At int
		Op string
		X  Node
	}

	// Binary is an arithmetic operator or a relation.
	Binary struct {
		At   int
		Op   string
		X, Y Node
	}

	// Call applies a builtin function.
	Call struct {
		At   int
		Name string
		Args []Node
	}

	// Assign binds the value of X to Name.
	Assign struct {
		At   int
		Name string
		X    Node
	}
)

func (n *NumberLit) Pos() int { return n.At }
func (n *Ident) Pos() int     { return n.At }
func (n *Unary) Pos() int     { return n.At }
func (n *Binary) Pos() int    { return n.At }
func (n *Call) Pos() int      { return n.At }
func (n *Assign) Pos() int    { return n.At }

func (n *NumberLit) String() string { return n.Text }
func (n *Ident) String() string     { return n.Name }
func (n *Unary) String() string     { return fmt.Sprintf("(%s%s)", n.Op, n.X) }
func (n *Binary) String() string    { return fmt.Sprintf("(%s %s %s)", n.X, n.Op, n.Y) }
func (n *Assign) String() string    { return fmt.Sprintf("%s = %s", n.Name, n.X) }

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ", "))
}
