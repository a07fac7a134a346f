package vm

import (
	"bytes"
	"strings"
	"testing"
)

func newTestVM(stdin string) (*VM, *bytes.Buffer) {
	out := &bytes.Buffer{}
	m := NewVM(strings.NewReader(stdin), out)
	return m, out
}

func TestAddImmediateAndHalt(t *testing.T) {
	// .ORIG x3000 / ADD R1,R1,#1 / HALT -> x1261, xF025
	m, _ := newTestVM("")
	m.Load([]Segment{{Origin: 0x3000, Words: []uint16{0x1261, 0xF025}}}, 0x3000)

	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.CPU.R[1] != 1 {
		t.Errorf("R1 = %d, want 1", m.CPU.R[1])
	}
	if m.CPU.Cond != FlagPositive {
		t.Errorf("COND = %#x, want P", m.CPU.Cond)
	}
}

func TestAddNegativeOneWraps(t *testing.T) {
	// ADD R2,R2,#-1 when R2=0 -> R2=0xFFFF, COND=N.
	m, _ := newTestVM("")
	m.Load([]Segment{{Origin: 0x3000, Words: []uint16{0x14BF, 0xF025}}}, 0x3000)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.CPU.R[2] != 0xFFFF {
		t.Errorf("R2 = %#x, want 0xFFFF", m.CPU.R[2])
	}
	if m.CPU.Cond != FlagNegative {
		t.Errorf("COND = %#x, want N", m.CPU.Cond)
	}
}

func TestLDFollowedByHalt(t *testing.T) {
	// LD R0,A / HALT / A .FILL x00FF -> R0=0x00FF, COND=P.
	m, _ := newTestVM("")
	m.Load([]Segment{{Origin: 0x3000, Words: []uint16{0x2001, 0xF025, 0x00FF}}}, 0x3000)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.CPU.R[0] != 0x00FF {
		t.Errorf("R0 = %#x, want 0x00FF", m.CPU.R[0])
	}
	if m.CPU.Cond != FlagPositive {
		t.Errorf("COND = %#x, want P", m.CPU.Cond)
	}
}

func TestPutsWritesToStdout(t *testing.T) {
	// PUTS with R0 pointing at "Hi\0" in memory.
	m, out := newTestVM("")
	segs := []Segment{{
		Origin: 0x3000,
		Words:  []uint16{0xF022, 0xF025}, // TRAP x22 (PUTS), HALT
	}}
	m.Load(segs, 0x3000)
	m.Memory.Write(0x3010, 0x48) // 'H'
	m.Memory.Write(0x3011, 0x69) // 'i'
	m.Memory.Write(0x3012, 0x00)
	m.CPU.R[0] = 0x3010

	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.String(); !strings.HasPrefix(got, "Hi") {
		t.Errorf("stdout = %q, want prefix \"Hi\"", got)
	}
}

func TestGetcReadsOneCharacter(t *testing.T) {
	m, _ := newTestVM("A")
	m.Load([]Segment{{Origin: 0x3000, Words: []uint16{0xF020, 0xF025}}}, 0x3000) // GETC, HALT
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.CPU.R[0] != 'A' {
		t.Errorf("R0 = %d, want %d ('A')", m.CPU.R[0], 'A')
	}
}

func TestSignExtend(t *testing.T) {
	cases := []struct {
		x, bits uint
		want    uint16
	}{
		{0x0F, 5, 0x000F},
		{0x1F, 5, 0xFFFF}, // -1 in 5 bits
		{0x10, 5, 0xFFF0}, // -16 in 5 bits
	}
	for _, c := range cases {
		got := signExtend(uint16(c.x), c.bits)
		if got != c.want {
			t.Errorf("signExtend(%#x, %d) = %#x, want %#x", c.x, c.bits, got, c.want)
		}
	}
}

func TestBranchTakenOnMatchingFlag(t *testing.T) {
	// AND R0,R0,#0 (R0=0, COND=Z); BRz TARGET (taken, offset +1); HALT (skipped); TARGET: ADD R1,R1,#1; HALT
	m, _ := newTestVM("")
	words := []uint16{
		0x5020, // AND R0,R0,#0
		0x0401, // BRz #1  (n=0 z=1 p=0, offset=1)
		0xF025, // HALT (skipped)
		0x1261, // TARGET: ADD R1,R1,#1
		0xF025, // HALT
	}
	m.Load([]Segment{{Origin: 0x3000, Words: words}}, 0x3000)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.CPU.R[1] != 1 {
		t.Errorf("branch was not taken: R1 = %d, want 1", m.CPU.R[1])
	}
}

func TestMCRClearHalts(t *testing.T) {
	// LEA R0,MCR-equivalent address; STR a zero word to 0xFFFE via STI is
	// overkill here — exercise storeWord's MCR path directly.
	m, _ := newTestVM("")
	m.running = true
	m.storeWord(0xFFFE, 0x0000)
	if m.running {
		t.Error("clearing MCR's high bit should stop the machine")
	}
}
