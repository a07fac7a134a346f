package vm

// Built-in trap vectors, spec §4.3/§4.6. These are intercepted directly
// rather than dispatched through an OS ROM at M[0x0000:0x00FF], since this
// implementation loads no trap service routines (spec §9's resolved open
// question on TRAP vector handling).
const (
	trapGETC  uint16 = 0x20
	trapOUT   uint16 = 0x21
	trapPUTS  uint16 = 0x22
	trapIN    uint16 = 0x23
	trapPUTSP uint16 = 0x24
	trapHALT  uint16 = 0x25
)

func (vm *VM) execTrap(vector uint16) {
	vm.CPU.R[7] = vm.CPU.PC

	switch vector {
	case trapGETC:
		vm.trapGetc()
	case trapOUT:
		vm.writeChar(byte(vm.CPU.R[0]))
	case trapPUTS:
		vm.trapPuts()
	case trapIN:
		vm.trapIn()
	case trapPUTSP:
		vm.trapPutsp()
	case trapHALT:
		vm.trapHalt()
	default:
		// Unrecognized trap vector with no OS ROM loaded: treated as a
		// no-op, same as a reserved opcode.
	}
}

func (vm *VM) trapGetc() {
	b, ok := vm.keyboard.blockingRead()
	if !ok {
		return
	}
	vm.CPU.R[0] = uint16(b)
}

func (vm *VM) trapPuts() {
	addr := vm.CPU.R[0]
	for {
		w := vm.Memory.Read(addr)
		if w == 0 {
			break
		}
		vm.writeChar(byte(w))
		addr++
	}
	_ = vm.out.Flush()
}

func (vm *VM) trapIn() {
	vm.writeString("Input a character> ")
	b, ok := vm.keyboard.blockingRead()
	if !ok {
		return
	}
	vm.writeChar(b)
	vm.CPU.R[0] = uint16(b)
}

func (vm *VM) trapPutsp() {
	addr := vm.CPU.R[0]
	for {
		w := vm.Memory.Read(addr)
		lo := byte(w & 0xFF)
		hi := byte(w >> 8)
		if lo == 0 {
			break
		}
		vm.writeChar(lo)
		if hi == 0 {
			break
		}
		vm.writeChar(hi)
		addr++
	}
}

func (vm *VM) trapHalt() {
	vm.writeString("\n--- halting the machine ---\n")
	vm.running = false
}
