package encoder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/venkatpvc25/vm/parser"
)

// Segment is a contiguous run of words with a fixed origin, produced by one
// .ORIG/.END pair. Multiple segments per assembly unit are legal and are
// chained in program order.
type Segment struct {
	Origin   uint16
	Words    []uint16
	Position int // next write index, relative to Origin
}

func (s *Segment) emit(word uint16) {
	s.Words = append(s.Words, word)
	s.Position++
}

// Encoder streams a Program's instructions and directives in source order,
// maintaining a current segment and resolving PC-relative label references
// against the symbol table pass 1 already populated.
type Encoder struct {
	symbols *parser.SymbolTable
	errors  *parser.ErrorList

	// PermissiveRanges relaxes out-of-range immediates from a hard error to
	// a truncation warning, mirroring config.Assembler.StrictRanges=false.
	// Defaults to false (strict), matching the teacher's own range checks.
	PermissiveRanges bool
}

func NewEncoder(symbols *parser.SymbolTable) *Encoder {
	return &Encoder{symbols: symbols, errors: parser.NewErrorList()}
}

// sourceLine is a merged view over Program's separately-tracked
// Instructions and Directives, ordered the way they appeared in source —
// Encode needs that single timeline to stream segments correctly.
type sourceLine struct {
	pos   parser.Position
	instr *parser.Instruction
	dir   *parser.Directive
}

// Encode runs pass 2 over program, returning the ordered list of segments
// the loader will later copy into VM memory. Errors are collected, not
// fatal per-line: a failing line emits a zero-word placeholder so later
// addresses stay aligned with pass 1's calculations (spec §7).
func (e *Encoder) Encode(program *parser.Program) ([]*Segment, *parser.ErrorList) {
	lines := mergeLines(program)

	var segments []*Segment
	var current *Segment

	for _, ln := range lines {
		switch {
		case ln.dir != nil && ln.dir.Name == ".ORIG":
			current = &Segment{Origin: ln.dir.Address}
			segments = append(segments, current)

		case ln.dir != nil && ln.dir.Name == ".END":
			current = nil

		case ln.dir != nil:
			if current == nil {
				e.errors.AddError(parser.NewErrorWithContext(ln.pos, parser.ErrorStructural, ln.dir.Name, "directive outside .ORIG"))
				continue
			}
			e.encodeDirective(current, ln.dir)

		case ln.instr != nil:
			if current == nil {
				e.errors.AddError(parser.NewErrorWithContext(ln.pos, parser.ErrorStructural, ln.instr.Mnemonic, "instruction outside .ORIG"))
				continue
			}
			e.encodeInstruction(current, ln.instr)
		}
	}

	return segments, e.errors
}

func mergeLines(program *parser.Program) []sourceLine {
	lines := make([]sourceLine, 0, len(program.Instructions)+len(program.Directives))
	for _, inst := range program.Instructions {
		lines = append(lines, sourceLine{pos: inst.Pos, instr: inst})
	}
	for _, dir := range program.Directives {
		lines = append(lines, sourceLine{pos: dir.Pos, dir: dir})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].pos.Line < lines[j].pos.Line })
	return lines
}

func (e *Encoder) encodeDirective(seg *Segment, dir *parser.Directive) {
	switch dir.Name {
	case ".FILL":
		v, kind, err := e.resolveFillOperand(dir.Operands[0], seg)
		if err != nil {
			e.errors.AddError(parser.NewErrorWithContext(dir.Pos, kind, dir.Name, err.Error()))
			seg.emit(0)
			return
		}
		seg.emit(v)

	case ".BLKW":
		n, err := parser.ParseNumber(dir.Operands[0])
		if err != nil {
			e.errors.AddError(parser.NewErrorWithContext(dir.Pos, parser.ErrorSemantic, dir.Name, err.Error()))
			return
		}
		for i := int64(0); i < n; i++ {
			seg.emit(0)
		}

	case ".STRINGZ":
		s := dir.Operands[0].Lexeme
		for i := 0; i < len(s); i++ {
			seg.emit(uint16(s[i]))
		}
		seg.emit(0)

	default:
		e.errors.AddError(parser.NewErrorWithContext(dir.Pos, parser.ErrorSemantic, dir.Name, "unknown directive"))
	}
}

func (e *Encoder) resolveFillOperand(tok parser.Token, seg *Segment) (uint16, parser.ErrorKind, error) {
	switch tok.Kind {
	case parser.TokenDecimal, parser.TokenHex:
		v, err := parser.ParseNumber(tok)
		if err != nil {
			return 0, parser.ErrorSemantic, err
		}
		return uint16(v), parser.ErrorSemantic, nil
	case parser.TokenLabel:
		addr, ok := e.symbols.Lookup(tok.Lexeme)
		if !ok {
			return 0, parser.ErrorLinkage, fmt.Errorf("undefined label %q", tok.Lexeme)
		}
		return addr, parser.ErrorSemantic, nil
	default:
		return 0, parser.ErrorSemantic, fmt.Errorf("%q is not a valid .FILL operand", tok.Lexeme)
	}
}

func (e *Encoder) encodeInstruction(seg *Segment, inst *parser.Instruction) {
	word, err := e.packInstruction(inst, seg)
	if err != nil {
		kind := parser.ErrorSemantic
		if isUndefinedLabelErr(err) {
			kind = parser.ErrorLinkage
		}
		e.errors.AddError(parser.NewErrorWithContext(inst.Pos, kind, inst.Mnemonic, err.Error()))
		seg.emit(0)
		return
	}
	seg.emit(word)
}

// isUndefinedLabelErr reports whether err originated from an unresolved
// symbol lookup (pcOffset/resolveFillOperand), so callers can tag the
// diagnostic as Linkage rather than Semantic (spec §7).
func isUndefinedLabelErr(err error) bool {
	return strings.Contains(err.Error(), "undefined label")
}

// pcOffset resolves a PC-relative operand (label or literal) to its signed
// offset from the address immediately following the instruction being
// encoded, and checks it fits in width bits. Spec §4.5.
func (e *Encoder) pcOffset(op ResolvedOperand, instrAddr uint16, width uint) (int64, error) {
	var target int64
	if op.IsLabel {
		addr, ok := e.symbols.Lookup(op.Label)
		if !ok {
			return 0, fmt.Errorf("undefined label %q", op.Label)
		}
		pcAfter := int64(instrAddr) + 1
		target = int64(addr) - pcAfter
	} else {
		target = op.Value
	}

	lo := -(int64(1) << (width - 1))
	hi := int64(1)<<(width-1) - 1
	if (op.IsLabel || !e.PermissiveRanges) && (target < lo || target > hi) {
		return 0, fmt.Errorf("offset %d out of range for %d-bit field", target, width)
	}
	return target, nil
}

func maskBits(v int64, width uint) uint16 {
	m := uint16(1)<<width - 1
	return uint16(v) & m
}
