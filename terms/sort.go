package terms

// SortKind discriminates monomorphic type tags.
type SortKind uint8

const (
	IntSort SortKind = iota
	BoolSort
	RealSort
	NamedSort
)

// Sort is a monomorphic type tag, used only for declaration to the SMT
// backend.
type Sort struct {
	Kind SortKind
	Name string
}

func Int() Sort  { return Sort{Kind: IntSort} }
func Bool() Sort { return Sort{Kind: BoolSort} }
func Real() Sort { return Sort{Kind: RealSort} }

func Named(name string) Sort {
	return Sort{Kind: NamedSort, Name: name}
}

func (s Sort) String() string {
	switch s.Kind {
	case IntSort:
		return "Int"
	case BoolSort:
		return "Bool"
	case RealSort:
		return "Real"
	default:
		return s.Name
	}
}

// ParseSort maps a textual sort to a Sort. Unknown names become named
// sorts.
func ParseSort(v string) Sort {
	switch v {
	case "int", "Int":
		return Int()
	case "bool", "Bool":
		return Bool()
	case "real", "Real":
		return Real()
	default:
		return Named(v)
	}
}
