package terms

import (
	"strconv"
	"strings"
)

// Kind discriminates expression variants.
type Kind uint8

const (
	TrueKind Kind = iota
	FalseKind
	IntKind
	RealKind
	StrKind
	VarKind
	NegKind
	BinKind
	RelKind
	AndKind
	OrKind
	NotKind
	ImpKind
	IffKind
	ExistsKind
	IteKind
	AppKind
	KAppKind
	InterpKind
)

// Op is a binary arithmetic or relational operator.
type Op uint8

const (
	Plus Op = iota
	Minus
	Times
	Div
	Mod

	Eq
	Ne
	Lt
	Le
	Gt
	Ge
)

var opNames = [...]string{
	Plus:  "+",
	Minus: "-",
	Times: "*",
	Div:   "/",
	Mod:   "mod",
	Eq:    "=",
	Ne:    "distinct",
	Lt:    "<",
	Le:    "<=",
	Gt:    ">",
	Ge:    ">=",
}

func (o Op) String() string { return opNames[o] }

// IsRel reports whether o is relational.
func (o Op) IsRel() bool { return o >= Eq }

// Binder pairs a bound symbol with its sort.
type Binder struct {
	Sym  Symbol
	Sort Sort
}

// Expr is a term tree node. The Kind field selects which of the
// remaining fields are meaningful:
//
//   - TrueKind, FalseKind: none
//   - IntKind: Int
//   - RealKind: Real
//   - StrKind: Str
//   - VarKind: Sym
//   - NegKind, NotKind, InterpKind: Args[0]
//   - BinKind, RelKind: Op, Args[0], Args[1]
//   - AndKind, OrKind: Args
//   - ImpKind, IffKind: Args[0], Args[1]
//   - ExistsKind: Binds, Args[0]
//   - IteKind: Args[0], Args[1], Args[2]
//   - AppKind: Sym (function), Args
//   - KAppKind: Sym (the k-variable), Su
//
// InterpKind tags a subterm as a Craig-interpolation cut point. It is
// introduced by the query serializer and never appears in inputs.
type Expr struct {
	Kind  Kind
	Sym   Symbol
	Int   int64
	Real  float64
	Str   string
	Op    Op
	Args  []*Expr
	Binds []Binder
	Su    Subst
}

func True() *Expr  { return &Expr{Kind: TrueKind} }
func False() *Expr { return &Expr{Kind: FalseKind} }

func FromInt(v int64) *Expr { return &Expr{Kind: IntKind, Int: v} }

func FromReal(v float64) *Expr { return &Expr{Kind: RealKind, Real: v} }

func FromStr(v string) *Expr { return &Expr{Kind: StrKind, Str: v} }

func Var(s Symbol) *Expr { return &Expr{Kind: VarKind, Sym: s} }

func Neg(e *Expr) *Expr { return &Expr{Kind: NegKind, Args: []*Expr{e}} }

func Bin(op Op, l, r *Expr) *Expr {
	return &Expr{Kind: BinKind, Op: op, Args: []*Expr{l, r}}
}

func Rel(op Op, l, r *Expr) *Expr {
	return &Expr{Kind: RelKind, Op: op, Args: []*Expr{l, r}}
}

// And conjoins es, flattening the zero and one element cases.
func And(es ...*Expr) *Expr {
	switch len(es) {
	case 0:
		return True()
	case 1:
		return es[0]
	}
	return &Expr{Kind: AndKind, Args: es}
}

// Or disjoins es, flattening the zero and one element cases.
func Or(es ...*Expr) *Expr {
	switch len(es) {
	case 0:
		return False()
	case 1:
		return es[0]
	}
	return &Expr{Kind: OrKind, Args: es}
}

func Not(e *Expr) *Expr { return &Expr{Kind: NotKind, Args: []*Expr{e}} }

func Imp(l, r *Expr) *Expr { return &Expr{Kind: ImpKind, Args: []*Expr{l, r}} }
func Iff(l, r *Expr) *Expr { return &Expr{Kind: IffKind, Args: []*Expr{l, r}} }

func Exists(binds []Binder, body *Expr) *Expr {
	return &Expr{Kind: ExistsKind, Binds: binds, Args: []*Expr{body}}
}

func Ite(c, t, e *Expr) *Expr {
	return &Expr{Kind: IteKind, Args: []*Expr{c, t, e}}
}

func App(f Symbol, args ...*Expr) *Expr {
	return &Expr{Kind: AppKind, Sym: f, Args: args}
}

func KApp(k KVar, su Subst) *Expr {
	return &Expr{Kind: KAppKind, Sym: Symbol(k), Su: su}
}

// KV returns the k-variable of a KAppKind node.
func (e *Expr) KV() KVar { return KVar(e.Sym) }

// Interp tags e as an interpolation cut point.
func Interp(e *Expr) *Expr {
	return &Expr{Kind: InterpKind, Args: []*Expr{e}}
}

// Clone returns a deep copy of e.
func (e *Expr) Clone() *Expr {
	if e == nil {
		return nil
	}
	res := &Expr{
		Kind: e.Kind,
		Sym:  e.Sym,
		Int:  e.Int,
		Real: e.Real,
		Str:  e.Str,
		Op:   e.Op,
	}
	if e.Args != nil {
		res.Args = make([]*Expr, len(e.Args))
		for i, a := range e.Args {
			res.Args[i] = a.Clone()
		}
	}
	if e.Binds != nil {
		res.Binds = append([]Binder{}, e.Binds...)
	}
	res.Su = e.Su.Clone()
	return res
}

// Equal reports structural equality.
func (a *Expr) Equal(b *Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Sym != b.Sym || a.Op != b.Op {
		return false
	}
	switch a.Kind {
	case IntKind:
		if a.Int != b.Int {
			return false
		}
	case RealKind:
		if a.Real != b.Real {
			return false
		}
	case StrKind:
		if a.Str != b.Str {
			return false
		}
	case KAppKind:
		if !a.Su.Equal(b.Su) {
			return false
		}
	case ExistsKind:
		if len(a.Binds) != len(b.Binds) {
			return false
		}
		for i := range a.Binds {
			if a.Binds[i] != b.Binds[i] {
				return false
			}
		}
	}
	if len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !a.Args[i].Equal(b.Args[i]) {
			return false
		}
	}
	return true
}

// Conjuncts flattens nested conjunctions into a list. True disappears.
func (e *Expr) Conjuncts() []*Expr {
	var res []*Expr
	var walk func(x *Expr)
	walk = func(x *Expr) {
		switch x.Kind {
		case TrueKind:
		case AndKind:
			for _, a := range x.Args {
				walk(a)
			}
		default:
			res = append(res, x)
		}
	}
	walk(e)
	return res
}

// FreeSymbols adds the free variable symbols of e to dst and returns
// dst. Function symbols of applications and k-variable names are not
// variables; substitution values inside k-variable applications are.
func (e *Expr) FreeSymbols(dst map[Symbol]bool) map[Symbol]bool {
	if dst == nil {
		dst = map[Symbol]bool{}
	}
	e.freeSymbols(dst, map[Symbol]int{})
	return dst
}

func (e *Expr) freeSymbols(dst map[Symbol]bool, bound map[Symbol]int) {
	if e == nil {
		return
	}
	switch e.Kind {
	case VarKind:
		if bound[e.Sym] == 0 {
			dst[e.Sym] = true
		}
		return
	case ExistsKind:
		for _, b := range e.Binds {
			bound[b.Sym]++
		}
		e.Args[0].freeSymbols(dst, bound)
		for _, b := range e.Binds {
			bound[b.Sym]--
		}
		return
	case KAppKind:
		for _, p := range e.Su.pairs {
			p.Expr.freeSymbols(dst, bound)
		}
		return
	}
	for _, a := range e.Args {
		a.freeSymbols(dst, bound)
	}
}

// WalkKApps visits every k-variable application in e.
func (e *Expr) WalkKApps(f func(*Expr)) {
	if e == nil {
		return
	}
	if e.Kind == KAppKind {
		f(e)
	}
	for _, a := range e.Args {
		a.WalkKApps(f)
	}
}

// HasKApps reports whether any k-variable application occurs in e.
func (e *Expr) HasKApps() bool {
	found := false
	e.WalkKApps(func(*Expr) { found = true })
	return found
}

// String renders e in an s-expression display form. K-variable
// applications render as $k[x:=e ...]; the form is for diagnostics and
// structural keys, not the SMT wire.
func (e *Expr) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Expr) write(sb *strings.Builder) {
	if e == nil {
		sb.WriteString("<nil>")
		return
	}
	switch e.Kind {
	case TrueKind:
		sb.WriteString("true")
	case FalseKind:
		sb.WriteString("false")
	case IntKind:
		sb.WriteString(strconv.FormatInt(e.Int, 10))
	case RealKind:
		sb.WriteString(strconv.FormatFloat(e.Real, 'g', -1, 64))
	case StrKind:
		sb.WriteString(strconv.Quote(e.Str))
	case VarKind:
		sb.WriteString(string(e.Sym))
	case NegKind:
		e.writeList(sb, "-", e.Args)
	case BinKind, RelKind:
		e.writeList(sb, e.Op.String(), e.Args)
	case AndKind:
		e.writeList(sb, "and", e.Args)
	case OrKind:
		e.writeList(sb, "or", e.Args)
	case NotKind:
		e.writeList(sb, "not", e.Args)
	case ImpKind:
		e.writeList(sb, "=>", e.Args)
	case IffKind:
		e.writeList(sb, "<=>", e.Args)
	case IteKind:
		e.writeList(sb, "ite", e.Args)
	case AppKind:
		e.writeList(sb, string(e.Sym), e.Args)
	case InterpKind:
		e.writeList(sb, "interp", e.Args)
	case ExistsKind:
		sb.WriteString("(exists (")
		for i, b := range e.Binds {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte('(')
			sb.WriteString(string(b.Sym))
			sb.WriteByte(' ')
			sb.WriteString(b.Sort.String())
			sb.WriteByte(')')
		}
		sb.WriteString(") ")
		e.Args[0].write(sb)
		sb.WriteByte(')')
	case KAppKind:
		sb.WriteByte('$')
		sb.WriteString(string(e.Sym))
		sb.WriteByte('[')
		for i, p := range e.Su.pairs {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(string(p.Sym))
			sb.WriteString(":=")
			p.Expr.write(sb)
		}
		sb.WriteByte(']')
	}
}

func (e *Expr) writeList(sb *strings.Builder, head string, args []*Expr) {
	sb.WriteByte('(')
	sb.WriteString(head)
	for _, a := range args {
		sb.WriteByte(' ')
		a.write(sb)
	}
	sb.WriteByte(')')
}
