package terms

// SubstPair is a single substitution entry.
type SubstPair struct {
	Sym  Symbol
	Expr *Expr
}

// Subst is a finite mapping from symbols to expressions with unique
// keys. Entries keep their insertion order so that substitution
// materialization during unrolling is deterministic.
type Subst struct {
	pairs []SubstPair
}

func NewSubst(pairs ...SubstPair) Subst {
	su := Subst{}
	for _, p := range pairs {
		su = su.Bind(p.Sym, p.Expr)
	}
	return su
}

// Bind returns su extended with sym := e, replacing any existing entry
// for sym in place.
func (su Subst) Bind(sym Symbol, e *Expr) Subst {
	for i, p := range su.pairs {
		if p.Sym == sym {
			res := su.Clone()
			res.pairs[i].Expr = e
			return res
		}
	}
	res := Subst{pairs: make([]SubstPair, len(su.pairs), len(su.pairs)+1)}
	copy(res.pairs, su.pairs)
	res.pairs = append(res.pairs, SubstPair{Sym: sym, Expr: e})
	return res
}

func (su Subst) Lookup(sym Symbol) (*Expr, bool) {
	for _, p := range su.pairs {
		if p.Sym == sym {
			return p.Expr, true
		}
	}
	return nil, false
}

func (su Subst) Len() int { return len(su.pairs) }

// Pairs returns the entries in order. The slice is shared; callers must
// not mutate it.
func (su Subst) Pairs() []SubstPair { return su.pairs }

// Filter returns the entries for which keep holds, preserving order.
func (su Subst) Filter(keep func(Symbol, *Expr) bool) Subst {
	res := Subst{}
	for _, p := range su.pairs {
		if keep(p.Sym, p.Expr) {
			res.pairs = append(res.pairs, p)
		}
	}
	return res
}

func (su Subst) Clone() Subst {
	if su.pairs == nil {
		return Subst{}
	}
	res := Subst{pairs: make([]SubstPair, len(su.pairs))}
	for i, p := range su.pairs {
		res.pairs[i] = SubstPair{Sym: p.Sym, Expr: p.Expr.Clone()}
	}
	return res
}

func (a Subst) Equal(b Subst) bool {
	if len(a.pairs) != len(b.pairs) {
		return false
	}
	for i := range a.pairs {
		if a.pairs[i].Sym != b.pairs[i].Sym {
			return false
		}
		if !a.pairs[i].Expr.Equal(b.pairs[i].Expr) {
			return false
		}
	}
	return true
}

// Apply replaces free occurrences of each key in e with its image,
// capture-avoidingly. The result shares no structure with e.
func (su Subst) Apply(e *Expr) *Expr {
	if len(su.pairs) == 0 {
		return e.Clone()
	}
	return su.apply(e)
}

func (su Subst) apply(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case VarKind:
		if img, ok := su.Lookup(e.Sym); ok {
			return img.Clone()
		}
		return e.Clone()
	case ExistsKind:
		inner := su.Filter(func(s Symbol, _ *Expr) bool {
			for _, b := range e.Binds {
				if b.Sym == s {
					return false
				}
			}
			return true
		})
		if len(inner.pairs) == 0 {
			return e.Clone()
		}
		binds := append([]Binder{}, e.Binds...)
		body := e.Args[0]
		// alpha-rename binders captured by a substitution image
		imgFree := map[Symbol]bool{}
		for _, p := range inner.pairs {
			p.Expr.FreeSymbols(imgFree)
		}
		for i, b := range e.Binds {
			if !imgFree[b.Sym] {
				continue
			}
			fresh := b.Sym
			for n := 0; ; n++ {
				fresh = b.Sym.WithSuffix(n)
				if !imgFree[fresh] {
					if _, clash := inner.Lookup(fresh); !clash {
						break
					}
				}
			}
			body = Rename(body, b.Sym, fresh)
			binds[i].Sym = fresh
		}
		return Exists(binds, inner.apply(body))
	case KAppKind:
		res := e.Clone()
		for i := range res.Su.pairs {
			res.Su.pairs[i].Expr = su.apply(res.Su.pairs[i].Expr)
		}
		return res
	}
	res := e.Clone()
	for i, a := range e.Args {
		res.Args[i] = su.apply(a)
	}
	return res
}

// Subst1 replaces free occurrences of sym with e.
func Subst1(in *Expr, sym Symbol, e *Expr) *Expr {
	return NewSubst(SubstPair{Sym: sym, Expr: e}).Apply(in)
}

// Rename replaces free occurrences of from with the variable to. It
// commutes with substitution application: renaming a substitution's
// images and then applying it equals applying and then renaming.
func Rename(e *Expr, from, to Symbol) *Expr {
	return Subst1(e, from, Var(to))
}

// RenameAll replaces free occurrences of every key of m with the
// corresponding variable, in a single parallel pass.
func RenameAll(e *Expr, m map[Symbol]Symbol) *Expr {
	if len(m) == 0 {
		return e.Clone()
	}
	su := Subst{}
	for s, t := range m {
		su.pairs = append(su.pairs, SubstPair{Sym: s, Expr: Var(t)})
	}
	// pair order is stable under map iteration
	for i := 1; i < len(su.pairs); i++ {
		for j := i; j > 0 && su.pairs[j].Sym < su.pairs[j-1].Sym; j-- {
			su.pairs[j], su.pairs[j-1] = su.pairs[j-1], su.pairs[j]
		}
	}
	return su.Apply(e)
}
