package vm

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

var stepLog *log.Logger

func init() {
	if os.Getenv("LC3_VM_DEBUG") == "" {
		stepLog = log.New(io.Discard, "", 0)
		return
	}

	// File handle intentionally not closed: it lives for the process's
	// lifetime and the OS reclaims it at exit, same as any other debug sink.
	logPath := filepath.Join(os.TempDir(), "lc3-vm-debug.log")
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
	if err != nil {
		stepLog = log.New(os.Stderr, "lc3vm: ", log.Ltime|log.Lmicroseconds)
		return
	}
	stepLog = log.New(f, "lc3vm: ", log.Ltime|log.Lmicroseconds)
}

// traceStep records one retired instruction's machine state: the fetched
// word, its decoded shape, the flag it left behind, and every register,
// taken straight from the CPU snapshot Step() already holds. A no-op
// unless LC3_VM_DEBUG is set; never writes to stdout, which is reserved for
// the emulated terminal's DDR channel.
func traceStep(cpu *CPU, ir uint16, inst DecodedInstruction) {
	stepLog.Printf("cycle=%d pc=%#04x ir=%#04x cond=%s inst=%T regs=%s",
		cpu.Cycles, cpu.PC, ir, condName(cpu.Cond), inst, dumpRegisters(cpu))
}

func condName(cond uint16) string {
	switch cond {
	case FlagNegative:
		return "N"
	case FlagZero:
		return "Z"
	case FlagPositive:
		return "P"
	default:
		return "-"
	}
}

func dumpRegisters(cpu *CPU) string {
	var sb strings.Builder
	for i, r := range cpu.R {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "R%d=%#04x", i, r)
	}
	return sb.String()
}
