package parser

// Symbol is one label binding: a name to the absolute address of the word
// immediately following its definition.
type Symbol struct {
	Name    string
	Address uint16
	Pos     Position
}

// SymbolTable maps label names to addresses, populated during pass 1.
// Matching is case-sensitive and flat — LC-3 assembly has no scoping and
// no numeric local labels.
type SymbolTable struct {
	symbols map[string]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Define inserts label -> addr. A redefinition is reported by the caller as
// a duplicate-label diagnostic; Define itself just reports whether the name
// was already bound.
func (t *SymbolTable) Define(name string, addr uint16, pos Position) (ok bool, existing *Symbol) {
	if s, found := t.symbols[name]; found {
		return false, s
	}
	t.symbols[name] = &Symbol{Name: name, Address: addr, Pos: pos}
	return true, nil
}

// Lookup returns the address bound to name, or ok=false if undefined.
func (t *SymbolTable) Lookup(name string) (addr uint16, ok bool) {
	s, found := t.symbols[name]
	if !found {
		return 0, false
	}
	return s.Address, true
}

func (t *SymbolTable) Len() int {
	return len(t.symbols)
}

// All returns every defined symbol, for diagnostics and testing.
func (t *SymbolTable) All() []*Symbol {
	out := make([]*Symbol, 0, len(t.symbols))
	for _, s := range t.symbols {
		out = append(out, s)
	}
	return out
}
