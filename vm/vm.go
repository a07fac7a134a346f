package vm

import (
	"bufio"
	"io"
)

const defaultOrigin uint16 = 0x3000

// Segment is a contiguous run of words with a fixed origin — the VM's view
// of what the encoder/loader produced, kept independent of those packages'
// own types so vm has no import-time dependency on the assembler side of
// the toolchain.
type Segment struct {
	Origin uint16
	Words  []uint16
}

// VM is the complete interpreter state: CPU, flat memory, and the I/O
// devices wired to memory-mapped KBSR/KBDR/DSR/DDR/MCR.
type VM struct {
	CPU    *CPU
	Memory *Memory

	running bool

	// MaxCycles bounds Run; 0 means unbounded.
	MaxCycles uint64

	// LEASetsFlags toggles whether LEA updates COND, an
	// implementation-defined choice per spec §9.
	LEASetsFlags bool

	// DefaultOrigin is the entry address Load falls back to when called
	// with entry=0, normally sourced from config.Execution.DefaultOrigin.
	DefaultOrigin uint16

	// Trace, if set, is called after every retired instruction.
	Trace func(cpu *CPU, inst DecodedInstruction)

	keyboard *keyboard
	out      *bufio.Writer
}

// NewVM builds a VM reading keyboard input from stdin and writing display
// output to stdout, with the built-in trap handlers as its only I/O
// surface (no OS ROM is ever loaded).
func NewVM(stdin io.Reader, stdout io.Writer) *VM {
	return &VM{
		CPU:           NewCPU(),
		Memory:        &Memory{},
		LEASetsFlags:  true,
		DefaultOrigin: defaultOrigin,
		keyboard:      newKeyboard(stdin),
		out:           newOutput(stdout),
	}
}

// SetStdin replaces the VM's keyboard source, for tests that want to feed
// canned input instead of a real TTY.
func (vm *VM) SetStdin(r io.Reader) {
	vm.keyboard = newKeyboard(r)
}

// Load copies each segment's words into memory starting at its origin, in
// order; overlapping segments overwrite in order, which is legal and
// undiagnosed (spec §4.6). PC is set to entry, or to vm.DefaultOrigin
// (0x3000 unless changed) if entry is zero.
func (vm *VM) Load(segments []Segment, entry uint16) {
	for _, seg := range segments {
		for i, w := range seg.Words {
			vm.Memory.Write(seg.Origin+uint16(i), w)
		}
	}
	if entry == 0 {
		entry = vm.DefaultOrigin
	}
	vm.CPU.Reset(entry)
}

// Halted reports whether the machine has executed a HALT (or an MCR clear)
// and Run has returned.
func (vm *VM) Halted() bool {
	return !vm.running
}
