package encoder

import (
	"fmt"

	"github.com/venkatpvc25/vm/parser"
)

// packInstruction produces the one 16-bit word inst's mnemonic and operands
// encode to, per the bit layout table in spec §4.5.
func (e *Encoder) packInstruction(inst *parser.Instruction, seg *Segment) (uint16, error) {
	mnemonic := inst.Mnemonic
	instrAddr := seg.Origin + uint16(seg.Position)

	if n, z, p, ok := isBranchMnemonic(mnemonic); ok {
		return e.packBranch(inst, instrAddr, n, z, p)
	}
	if vec, ok := trapVectors[mnemonic]; ok {
		return (opTRAP << 12) | vec, nil
	}

	spec, ok := lookupSpec(mnemonic)
	if !ok {
		return 0, fmt.Errorf("unknown instruction %q", mnemonic)
	}
	if len(inst.Operands) != len(spec.Operands) {
		return 0, fmt.Errorf("%s expects %d operand(s), got %d", mnemonic, len(spec.Operands), len(inst.Operands))
	}

	resolved := make([]ResolvedOperand, len(spec.Operands))
	for i, want := range spec.Operands {
		r, err := e.validateOperand(inst.Operands[i], want)
		if err != nil {
			return 0, fmt.Errorf("operand %d: %w", i+1, err)
		}
		resolved[i] = r
	}

	switch mnemonic {
	case "ADD", "AND":
		dr, sr1 := resolved[0].RegNum, resolved[1].RegNum
		word := (spec.Opcode << 12) | (dr << 9) | (sr1 << 6)
		if resolved[2].IsRegister {
			return word | resolved[2].RegNum, nil
		}
		return word | (1 << 5) | maskBits(resolved[2].Value, 5), nil

	case "NOT":
		dr, sr := resolved[0].RegNum, resolved[1].RegNum
		return (spec.Opcode << 12) | (dr << 9) | (sr << 6) | 0x3F, nil

	case "JMP":
		return (opJMP << 12) | (resolved[0].RegNum << 6), nil

	case "RET":
		return (opJMP << 12) | (7 << 6), nil

	case "JSRR":
		return (opJSR << 12) | (resolved[0].RegNum << 6), nil

	case "JSR":
		off, err := e.pcOffset(resolved[0], instrAddr, 11)
		if err != nil {
			return 0, err
		}
		return (opJSR << 12) | (1 << 11) | maskBits(off, 11), nil

	case "LD", "LDI", "LEA", "ST", "STI":
		dr := resolved[0].RegNum
		off, err := e.pcOffset(resolved[1], instrAddr, 9)
		if err != nil {
			return 0, err
		}
		return (spec.Opcode << 12) | (dr << 9) | maskBits(off, 9), nil

	case "LDR", "STR":
		dr, base := resolved[0].RegNum, resolved[1].RegNum
		if !e.PermissiveRanges && (resolved[2].Value < -32 || resolved[2].Value > 31) {
			return 0, fmt.Errorf("offset6 out of range: %d", resolved[2].Value)
		}
		return (spec.Opcode << 12) | (dr << 9) | (base << 6) | maskBits(resolved[2].Value, 6), nil

	case "TRAP":
		return (opTRAP << 12) | uint16(resolved[0].Value), nil

	case "RTI":
		return spec.Opcode << 12, nil

	default:
		return 0, fmt.Errorf("no encoder for %q", mnemonic)
	}
}

func (e *Encoder) packBranch(inst *parser.Instruction, instrAddr uint16, n, z, p bool) (uint16, error) {
	if len(inst.Operands) != 1 {
		return 0, fmt.Errorf("%s expects 1 operand, got %d", inst.Mnemonic, len(inst.Operands))
	}
	operand, err := e.validateOperand(inst.Operands[0], OpPCOffset9)
	if err != nil {
		return 0, err
	}
	off, err := e.pcOffset(operand, instrAddr, 9)
	if err != nil {
		return 0, err
	}

	var word uint16
	if n {
		word |= 1 << 11
	}
	if z {
		word |= 1 << 10
	}
	if p {
		word |= 1 << 9
	}
	return (opBR << 12) | word | maskBits(off, 9), nil
}
