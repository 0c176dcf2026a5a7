package sexp

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-air/hornq/terms"
)

// Reader reads a sequence of s-expressions from an underlying stream.
type Reader struct {
	lx *lexer
}

func NewReader(r io.Reader) *Reader {
	return &Reader{lx: newLexer(r)}
}

// Read consumes one s-expression. It returns io.EOF when the stream is
// exhausted before any token is seen.
func (rd *Reader) Read() (*terms.Expr, error) {
	t, err := rd.lx.peek()
	if err != nil {
		return nil, err
	}
	if t.typ == tEOF {
		return nil, io.EOF
	}
	return rd.read()
}

// ReadAtom consumes one bare atom, such as a check-sat verdict.
func (rd *Reader) ReadAtom() (string, error) {
	t, err := rd.lx.next()
	if err != nil {
		return "", err
	}
	if t.typ != tAtom {
		return "", fmt.Errorf("%w: expected atom", ErrSyntax)
	}
	return t.text, nil
}

// ReadString parses the first s-expression in s.
func ReadString(s string) (*terms.Expr, error) {
	return NewReader(strings.NewReader(s)).Read()
}

func (rd *Reader) read() (*terms.Expr, error) {
	t, err := rd.lx.next()
	if err != nil {
		return nil, err
	}
	switch t.typ {
	case tEOF:
		return nil, fmt.Errorf("%w: unexpected end of input", ErrSyntax)
	case tRParen:
		return nil, fmt.Errorf("%w: unexpected )", ErrSyntax)
	case tString:
		return terms.FromStr(t.text), nil
	case tAtom:
		return readAtom(t.text)
	}
	// list form: head must be an atom
	head, err := rd.lx.next()
	if err != nil {
		return nil, err
	}
	if head.typ != tAtom {
		return nil, fmt.Errorf("%w: non-atom operator", ErrForm)
	}
	var args []*terms.Expr
	for {
		nt, err := rd.lx.peek()
		if err != nil {
			return nil, err
		}
		if nt.typ == tRParen {
			rd.lx.next()
			break
		}
		if nt.typ == tEOF {
			return nil, fmt.Errorf("%w: unbalanced (", ErrSyntax)
		}
		arg, err := rd.read()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return combine(head.text, args)
}

func readAtom(text string) (*terms.Expr, error) {
	switch text {
	case "true":
		return terms.True(), nil
	case "false":
		return terms.False(), nil
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return terms.FromInt(n), nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return terms.FromReal(f), nil
	}
	return terms.Var(terms.Symbol(text)), nil
}

var relOps = map[string]terms.Op{
	"=":        terms.Eq,
	"distinct": terms.Ne,
	"<":        terms.Lt,
	"<=":       terms.Le,
	">":        terms.Gt,
	">=":       terms.Ge,
}

var arithOps = map[string]terms.Op{
	"+":   terms.Plus,
	"-":   terms.Minus,
	"*":   terms.Times,
	"/":   terms.Div,
	"div": terms.Div,
	"mod": terms.Mod,
}

func combine(head string, args []*terms.Expr) (*terms.Expr, error) {
	switch head {
	case "not":
		if len(args) != 1 {
			return nil, arity(head, 1, len(args))
		}
		return terms.Not(args[0]), nil
	case "and":
		return terms.And(args...), nil
	case "or":
		return terms.Or(args...), nil
	case "=>":
		if len(args) != 2 {
			return nil, arity(head, 2, len(args))
		}
		return terms.Imp(args[0], args[1]), nil
	case "ite":
		if len(args) != 3 {
			return nil, arity(head, 3, len(args))
		}
		return terms.Ite(args[0], args[1], args[2]), nil
	case "-":
		if len(args) == 1 {
			switch args[0].Kind {
			case terms.IntKind:
				return terms.FromInt(-args[0].Int), nil
			case terms.RealKind:
				return terms.FromReal(-args[0].Real), nil
			}
			return terms.Neg(args[0]), nil
		}
	}
	if op, ok := relOps[head]; ok {
		if len(args) != 2 {
			return nil, arity(head, 2, len(args))
		}
		// = between two formulas is logical iff, an equality atom
		// otherwise
		if op == terms.Eq && isFormula(args[0]) && isFormula(args[1]) {
			return terms.Iff(args[0], args[1]), nil
		}
		return terms.Rel(op, args[0], args[1]), nil
	}
	if op, ok := arithOps[head]; ok {
		if len(args) < 2 {
			return nil, arity(head, 2, len(args))
		}
		res := args[0]
		for _, a := range args[1:] {
			res = terms.Bin(op, res, a)
		}
		return res, nil
	}
	if !isIdent(head) {
		return nil, fmt.Errorf("%w: %q", ErrForm, head)
	}
	return terms.App(terms.Symbol(head), args...), nil
}

func arity(head string, want, got int) error {
	return fmt.Errorf("%w: %s expects %d operands, got %d", ErrForm, head, want, got)
}

func isFormula(e *terms.Expr) bool {
	switch e.Kind {
	case terms.TrueKind, terms.FalseKind, terms.RelKind, terms.AndKind,
		terms.OrKind, terms.NotKind, terms.ImpKind, terms.IffKind,
		terms.InterpKind:
		return true
	}
	return false
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '.' || c == '$' || c == '!' || c == '@' || c == '#':
		default:
			return false
		}
	}
	return true
}
