// Package encoder implements assembler pass 2: validating operand types
// and packing each instruction/directive line into 16-bit words.
package encoder

// OperandType is the declared lexical shape a mnemonic requires at one
// operand position.
type OperandType int

const (
	OpReg         OperandType = iota // R0-R7
	OpImm5                           // #v, -16..15
	OpOffset6                        // #v, -32..31
	OpPCOffset9                      // #v -256..255, or a label
	OpPCOffset11                     // #v -1024..1023, or a label
	OpTrapVec8                       // x00..xFF
	OpRegOrImm5                      // ADD/AND third operand: register or imm5
	OpString                         // .STRINGZ operand
	OpNumber                         // .FILL/.BLKW operand
)

// InstructionSpec is one static entry in the instruction spec table:
// mnemonic, opcode nibble, and the operand-type signature the validator
// checks each operand against.
type InstructionSpec struct {
	Mnemonic string
	Opcode   uint16
	Operands []OperandType
}

// opcode nibbles, spec §4.5.
const (
	opADD  uint16 = 0x1
	opAND  uint16 = 0x5
	opNOT  uint16 = 0x9
	opBR   uint16 = 0x0
	opJMP  uint16 = 0xC
	opJSR  uint16 = 0x4
	opLD   uint16 = 0x2
	opLDI  uint16 = 0xA
	opLDR  uint16 = 0x6
	opLEA  uint16 = 0xE
	opST   uint16 = 0x3
	opSTI  uint16 = 0xB
	opSTR  uint16 = 0x7
	opTRAP uint16 = 0xF
)

// trapVectors maps the built-in TRAP mnemonic aliases to their vector,
// spec §4.3.
var trapVectors = map[string]uint16{
	"GETC":  0x20,
	"OUT":   0x21,
	"PUTS":  0x22,
	"IN":    0x23,
	"PUTSP": 0x24,
	"HALT":  0x25,
}

var instructionSpecs = map[string]InstructionSpec{
	"ADD": {Mnemonic: "ADD", Opcode: opADD, Operands: []OperandType{OpReg, OpReg, OpRegOrImm5}},
	"AND": {Mnemonic: "AND", Opcode: opAND, Operands: []OperandType{OpReg, OpReg, OpRegOrImm5}},
	"NOT": {Mnemonic: "NOT", Opcode: opNOT, Operands: []OperandType{OpReg, OpReg}},

	"JMP": {Mnemonic: "JMP", Opcode: opJMP, Operands: []OperandType{OpReg}},
	"RET": {Mnemonic: "RET", Opcode: opJMP, Operands: nil},

	"JSR":  {Mnemonic: "JSR", Opcode: opJSR, Operands: []OperandType{OpPCOffset11}},
	"JSRR": {Mnemonic: "JSRR", Opcode: opJSR, Operands: []OperandType{OpReg}},

	"LD":  {Mnemonic: "LD", Opcode: opLD, Operands: []OperandType{OpReg, OpPCOffset9}},
	"LDI": {Mnemonic: "LDI", Opcode: opLDI, Operands: []OperandType{OpReg, OpPCOffset9}},
	"LEA": {Mnemonic: "LEA", Opcode: opLEA, Operands: []OperandType{OpReg, OpPCOffset9}},
	"ST":  {Mnemonic: "ST", Opcode: opST, Operands: []OperandType{OpReg, OpPCOffset9}},
	"STI": {Mnemonic: "STI", Opcode: opSTI, Operands: []OperandType{OpReg, OpPCOffset9}},

	"LDR": {Mnemonic: "LDR", Opcode: opLDR, Operands: []OperandType{OpReg, OpReg, OpOffset6}},
	"STR": {Mnemonic: "STR", Opcode: opSTR, Operands: []OperandType{OpReg, OpReg, OpOffset6}},

	"TRAP": {Mnemonic: "TRAP", Opcode: opTRAP, Operands: []OperandType{OpTrapVec8}},

	"RTI": {Mnemonic: "RTI", Opcode: 0x8, Operands: nil},
}

// isBranchMnemonic reports whether m is BR or one of its condition-suffixed
// forms, returning the n/z/p bits the suffix selects. Bare BR defaults to
// nzp, per spec §4.1.
func isBranchMnemonic(m string) (n, z, p bool, ok bool) {
	if m == "BR" {
		return true, true, true, true
	}
	if len(m) < 3 || m[:2] != "BR" {
		return false, false, false, false
	}
	suffix := m[2:]
	if suffix == "" {
		return false, false, false, false
	}
	for _, c := range suffix {
		switch c {
		case 'N':
			n = true
		case 'Z':
			z = true
		case 'P':
			p = true
		default:
			return false, false, false, false
		}
	}
	return n, z, p, true
}

// lookupSpec resolves a mnemonic to its instruction spec, transparently
// mapping TRAP aliases to the TRAP opcode.
func lookupSpec(mnemonic string) (InstructionSpec, bool) {
	if _, isTrap := trapVectors[mnemonic]; isTrap {
		return instructionSpecs["TRAP"], true
	}
	if _, _, _, ok := isBranchMnemonic(mnemonic); ok {
		return InstructionSpec{Mnemonic: mnemonic, Opcode: opBR, Operands: []OperandType{OpPCOffset9}}, true
	}
	spec, ok := instructionSpecs[mnemonic]
	return spec, ok
}
