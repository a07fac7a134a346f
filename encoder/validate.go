package encoder

import (
	"fmt"

	"github.com/venkatpvc25/vm/parser"
)

// ResolvedOperand is the validator's output for one operand token: either a
// register number, an immediate value, or an unresolved label name that the
// encoder must look up against the symbol table during PC-relative
// resolution.
type ResolvedOperand struct {
	IsRegister bool
	RegNum     uint16
	IsLabel    bool
	Label      string
	Value      int64
}

func (e *Encoder) validateOperand(tok parser.Token, want OperandType) (ResolvedOperand, error) {
	switch want {
	case OpReg:
		return validateRegister(tok)

	case OpRegOrImm5:
		if tok.Kind == parser.TokenRegister {
			return validateRegister(tok)
		}
		return e.validateImmediate(tok, -16, 15, 5)

	case OpImm5:
		return e.validateImmediate(tok, -16, 15, 5)

	case OpOffset6:
		return e.validateImmediate(tok, -32, 31, 6)

	case OpPCOffset9:
		return e.validateOffsetOrLabel(tok, -256, 255, 9)

	case OpPCOffset11:
		return e.validateOffsetOrLabel(tok, -1024, 1023, 11)

	case OpTrapVec8:
		return validateTrapVec(tok)

	default:
		return ResolvedOperand{}, fmt.Errorf("unsupported operand type")
	}
}

func validateRegister(tok parser.Token) (ResolvedOperand, error) {
	if tok.Kind != parser.TokenRegister {
		return ResolvedOperand{}, fmt.Errorf("%q is not a register", tok.Lexeme)
	}
	n := tok.Lexeme[1] - '0'
	if n > 7 {
		return ResolvedOperand{}, fmt.Errorf("register out of range: %s", tok.Lexeme)
	}
	return ResolvedOperand{IsRegister: true, RegNum: uint16(n)}, nil
}

// validateImmediate checks tok is a numeric literal within [lo,hi]. When the
// encoder's PermissiveRanges is set (config.Assembler.StrictRanges = false),
// an out-of-range value is not a hard error: it is accepted as-is (the final
// bit-packing step already masks to width) and a Warning is recorded instead,
// matching the teacher's own distinction between assembler errors and
// advisory diagnostics.
func (e *Encoder) validateImmediate(tok parser.Token, lo, hi int64, width uint) (ResolvedOperand, error) {
	if tok.Kind != parser.TokenDecimal && tok.Kind != parser.TokenHex {
		return ResolvedOperand{}, fmt.Errorf("%q is not a numeric immediate", tok.Lexeme)
	}
	v, err := parser.ParseNumber(tok)
	if err != nil {
		return ResolvedOperand{}, err
	}
	if v < lo || v > hi {
		if !e.PermissiveRanges {
			return ResolvedOperand{}, fmt.Errorf("immediate %d out of range [%d,%d]", v, lo, hi)
		}
		e.errors.AddWarning(&parser.Warning{
			Pos:     tok.Pos,
			Message: fmt.Sprintf("immediate %d out of range [%d,%d], truncated to %d bits", v, lo, hi, width),
		})
	}
	return ResolvedOperand{Value: v}, nil
}

// validateOffsetOrLabel accepts either a numeric immediate in range, or a
// label reference to be resolved to a PC-relative offset by the encoder
// once the instruction's own address is known.
func (e *Encoder) validateOffsetOrLabel(tok parser.Token, lo, hi int64, width uint) (ResolvedOperand, error) {
	switch tok.Kind {
	case parser.TokenDecimal, parser.TokenHex:
		return e.validateImmediate(tok, lo, hi, width)
	case parser.TokenLabel:
		return ResolvedOperand{IsLabel: true, Label: tok.Lexeme}, nil
	default:
		return ResolvedOperand{}, fmt.Errorf("%q is not a label or numeric offset", tok.Lexeme)
	}
}

func validateTrapVec(tok parser.Token) (ResolvedOperand, error) {
	if tok.Kind != parser.TokenHex {
		return ResolvedOperand{}, fmt.Errorf("%q is not a trap vector (expected x00..xFF)", tok.Lexeme)
	}
	v, err := parser.ParseNumber(tok)
	if err != nil || v < 0 || v > 0xFF {
		return ResolvedOperand{}, fmt.Errorf("trap vector out of range: %s", tok.Lexeme)
	}
	return ResolvedOperand{Value: v}, nil
}
