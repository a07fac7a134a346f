// Whole-program scenarios exercising the assembler and VM together:
// source text in, terminal output/register state out.
package lc3_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/venkatpvc25/vm/encoder"
	"github.com/venkatpvc25/vm/loader"
	"github.com/venkatpvc25/vm/parser"
	"github.com/venkatpvc25/vm/vm"
)

func assembleAndRun(t *testing.T, src, stdin string) (*vm.VM, string) {
	t.Helper()

	p := parser.NewParser("t.asm")
	program, errs := p.Parse(src)
	if errs.HasErrors() {
		t.Fatalf("parse errors: %v", errs.Errors)
	}

	enc := encoder.NewEncoder(program.Symbols)
	segments, encErrs := enc.Encode(program)
	if encErrs.HasErrors() {
		t.Fatalf("encode errors: %v", encErrs.Errors)
	}

	img := make(loader.Image, len(segments))
	for i, seg := range segments {
		img[i] = loader.Segment{Origin: seg.Origin, Words: seg.Words}
	}

	var buf bytes.Buffer
	if err := loader.WriteImage(&buf, img); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	roundTripped, err := loader.ReadImage(&buf)
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}

	out := &bytes.Buffer{}
	machine := vm.NewVM(strings.NewReader(stdin), out)
	vmSegs := make([]vm.Segment, len(roundTripped))
	for i, s := range roundTripped {
		vmSegs[i] = vm.Segment{Origin: s.Origin, Words: s.Words}
	}
	machine.Load(vmSegs, roundTripped[0].Origin)

	if err := machine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return machine, out.String()
}

func TestAddOneAndHalt(t *testing.T) {
	src := ".ORIG x3000\nADD R1,R1,#1\nHALT\n.END\n"
	m, _ := assembleAndRun(t, src, "")
	if m.CPU.R[1] != 1 {
		t.Errorf("R1 = %d, want 1", m.CPU.R[1])
	}
	if m.CPU.Cond != vm.FlagPositive {
		t.Errorf("COND = %#x, want P", m.CPU.Cond)
	}
}

func TestLoadConstantThroughLabel(t *testing.T) {
	src := ".ORIG x3000\nLD R0,A\nHALT\nA .FILL x00FF\n.END\n"
	m, _ := assembleAndRun(t, src, "")
	if m.CPU.R[0] != 0x00FF {
		t.Errorf("R0 = %#x, want 0x00FF", m.CPU.R[0])
	}
}

func TestPutsPrintsString(t *testing.T) {
	src := ".ORIG x3000\nLEA R0,MSG\nPUTS\nHALT\nMSG .STRINGZ \"Hi\"\n.END\n"
	_, out := assembleAndRun(t, src, "")
	if !strings.Contains(out, "Hi") {
		t.Errorf("output = %q, want it to contain %q", out, "Hi")
	}
}

func TestBackwardBranchLoop(t *testing.T) {
	// Count R0 up from 0 to 3 using a backward branch.
	src := strings.Join([]string{
		".ORIG x3000",
		"AND R0,R0,#0",
		"AND R1,R1,#0",
		"ADD R1,R1,#3",
		"LOOP ADD R0,R0,#1",
		"NOT R2,R1",
		"ADD R2,R2,R0",
		"ADD R2,R2,#1",
		"BRn LOOP",
		"HALT",
		".END",
	}, "\n")
	m, _ := assembleAndRun(t, src, "")
	if m.CPU.R[0] != 3 {
		t.Errorf("R0 = %d, want 3", m.CPU.R[0])
	}
}

func TestTwosComplementSubtraction(t *testing.T) {
	// R0 = 5 - 3 via NOT/ADD (no SUB instruction in LC-3).
	src := strings.Join([]string{
		".ORIG x3000",
		"AND R0,R0,#0",
		"ADD R0,R0,#5",
		"AND R1,R1,#0",
		"ADD R1,R1,#3",
		"NOT R1,R1",
		"ADD R1,R1,#1",
		"ADD R0,R0,R1",
		"HALT",
		".END",
	}, "\n")
	m, _ := assembleAndRun(t, src, "")
	if m.CPU.R[0] != 2 {
		t.Errorf("R0 = %d, want 2", m.CPU.R[0])
	}
}
