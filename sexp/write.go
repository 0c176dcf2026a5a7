package sexp

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-air/hornq/terms"
)

// Write renders e in SMT-LIB 2 form. K-variable applications have no
// wire form; they must be eliminated by unrolling before serialization.
func Write(w io.Writer, e *terms.Expr) error {
	var sb strings.Builder
	if err := write(&sb, e); err != nil {
		return err
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// String renders e in SMT-LIB 2 form.
func String(e *terms.Expr) (string, error) {
	var sb strings.Builder
	if err := write(&sb, e); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func write(sb *strings.Builder, e *terms.Expr) error {
	switch e.Kind {
	case terms.TrueKind:
		sb.WriteString("true")
	case terms.FalseKind:
		sb.WriteString("false")
	case terms.IntKind:
		if e.Int < 0 {
			sb.WriteString("(- ")
			sb.WriteString(strconv.FormatInt(-e.Int, 10))
			sb.WriteByte(')')
		} else {
			sb.WriteString(strconv.FormatInt(e.Int, 10))
		}
	case terms.RealKind:
		sb.WriteString(strconv.FormatFloat(e.Real, 'g', -1, 64))
	case terms.StrKind:
		sb.WriteByte('"')
		sb.WriteString(e.Str)
		sb.WriteByte('"')
	case terms.VarKind:
		sb.WriteString(string(e.Sym))
	case terms.NegKind:
		return writeList(sb, "-", e.Args)
	case terms.BinKind, terms.RelKind:
		return writeList(sb, e.Op.String(), e.Args)
	case terms.AndKind:
		return writeList(sb, "and", e.Args)
	case terms.OrKind:
		return writeList(sb, "or", e.Args)
	case terms.NotKind:
		return writeList(sb, "not", e.Args)
	case terms.ImpKind:
		return writeList(sb, "=>", e.Args)
	case terms.IffKind:
		// no <=> in SMT-LIB 2; = on booleans
		return writeList(sb, "=", e.Args)
	case terms.IteKind:
		return writeList(sb, "ite", e.Args)
	case terms.AppKind:
		if len(e.Args) == 0 {
			sb.WriteString(string(e.Sym))
			return nil
		}
		return writeList(sb, string(e.Sym), e.Args)
	case terms.InterpKind:
		return writeList(sb, "interp", e.Args)
	case terms.ExistsKind:
		sb.WriteString("(exists (")
		for i, b := range e.Binds {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(sb, "(%s %s)", b.Sym, b.Sort)
		}
		sb.WriteString(") ")
		if err := write(sb, e.Args[0]); err != nil {
			return err
		}
		sb.WriteByte(')')
	case terms.KAppKind:
		return fmt.Errorf("%w: k-variable application %s", ErrWire, e)
	default:
		return fmt.Errorf("%w: kind %d", ErrWire, e.Kind)
	}
	return nil
}

func writeList(sb *strings.Builder, head string, args []*terms.Expr) error {
	sb.WriteByte('(')
	sb.WriteString(head)
	for _, a := range args {
		sb.WriteByte(' ')
		if err := write(sb, a); err != nil {
			return err
		}
	}
	sb.WriteByte(')')
	return nil
}
