package parser

import "testing"

func TestSymbolTableDefineAndLookup(t *testing.T) {
	st := NewSymbolTable()
	ok, _ := st.Define("LOOP", 0x3000, Position{Line: 1})
	if !ok {
		t.Fatal("expected first definition to succeed")
	}

	addr, found := st.Lookup("LOOP")
	if !found || addr != 0x3000 {
		t.Errorf("Lookup(LOOP) = %#x, %v; want 0x3000, true", addr, found)
	}

	if _, found := st.Lookup("loop"); found {
		t.Error("lookup should be case-sensitive")
	}
}

func TestSymbolTableDuplicateDefinition(t *testing.T) {
	st := NewSymbolTable()
	st.Define("A", 0x3000, Position{Line: 1})

	ok, existing := st.Define("A", 0x3010, Position{Line: 5})
	if ok {
		t.Fatal("expected duplicate definition to fail")
	}
	if existing == nil || existing.Address != 0x3000 {
		t.Errorf("expected existing symbol at 0x3000, got %+v", existing)
	}
}

func TestSymbolTableUndefined(t *testing.T) {
	st := NewSymbolTable()
	if _, found := st.Lookup("NOPE"); found {
		t.Error("expected undefined lookup to fail")
	}
}
