package vm

import "fmt"

// Step fetches, decodes, and executes exactly one instruction. It returns
// an error only for conditions the VM contract treats as fatal (currently
// none — reserved opcodes are a documented no-op); HALT is signaled by
// vm.running becoming false, not by an error.
func (vm *VM) Step() error {
	ir := vm.loadWord(vm.CPU.PC)
	vm.CPU.PC++

	inst := Decode(ir)
	vm.execute(inst)

	vm.CPU.Cycles++
	traceStep(vm.CPU, ir, inst)
	if vm.Trace != nil {
		vm.Trace(vm.CPU, inst)
	}
	return nil
}

// Run executes instructions until HALT (running goes false) or MaxCycles
// instructions have retired, whichever comes first. A MaxCycles of 0 means
// unbounded.
func (vm *VM) Run() error {
	vm.running = true
	for vm.running {
		if vm.MaxCycles != 0 && vm.CPU.Cycles >= vm.MaxCycles {
			return fmt.Errorf("exceeded max cycle count (%d)", vm.MaxCycles)
		}
		if err := vm.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) execute(inst DecodedInstruction) {
	switch in := inst.(type) {
	case BinOp:
		vm.execBinOp(in)
	case NotOp:
		vm.CPU.SetRegister(in.DR, ^vm.CPU.R[in.SR])
	case MemOp:
		vm.execMemOp(in)
	case BaseOffsetOp:
		vm.execBaseOffsetOp(in)
	case BranchOp:
		vm.execBranch(in)
	case JumpOp:
		vm.CPU.PC = vm.CPU.R[in.BaseR]
	case JumpSubroutineOp:
		vm.execJumpSubroutine(in)
	case TrapOp:
		vm.execTrap(in.Vector)
	case ReservedOp:
		// RTI and other reserved opcodes: no effect in this unprivileged,
		// single-mode implementation.
	}
}

func (vm *VM) execBinOp(in BinOp) {
	lhs := vm.CPU.R[in.SR1]
	var rhs uint16
	if in.IsImm {
		rhs = signExtend(in.Imm5, 5)
	} else {
		rhs = vm.CPU.R[in.SR2]
	}
	if in.IsAnd {
		vm.CPU.SetRegister(in.DR, lhs&rhs)
	} else {
		vm.CPU.SetRegister(in.DR, lhs+rhs)
	}
}

func (vm *VM) execMemOp(in MemOp) {
	addr := vm.CPU.PC + signExtend(in.PCOffset9, 9)
	switch in.Kind {
	case MemLD:
		vm.CPU.SetRegister(in.Reg, vm.loadWord(addr))
	case MemLDI:
		vm.CPU.SetRegister(in.Reg, vm.loadWord(vm.loadWord(addr)))
	case MemLEA:
		if vm.LEASetsFlags {
			vm.CPU.SetRegister(in.Reg, addr)
		} else {
			vm.CPU.R[in.Reg] = addr
		}
	case MemST:
		vm.storeWord(addr, vm.CPU.R[in.Reg])
	case MemSTI:
		vm.storeWord(vm.loadWord(addr), vm.CPU.R[in.Reg])
	}
}

func (vm *VM) execBaseOffsetOp(in BaseOffsetOp) {
	addr := vm.CPU.R[in.BaseR] + signExtend(in.Offset6, 6)
	if in.IsStore {
		vm.storeWord(addr, vm.CPU.R[in.Reg])
		return
	}
	vm.CPU.SetRegister(in.Reg, vm.loadWord(addr))
}

func (vm *VM) execBranch(in BranchOp) {
	cond := vm.CPU.Cond
	taken := (in.N && cond&FlagNegative != 0) ||
		(in.Z && cond&FlagZero != 0) ||
		(in.P && cond&FlagPositive != 0)
	if taken {
		vm.CPU.PC += signExtend(in.PCOffset9, 9)
	}
}

func (vm *VM) execJumpSubroutine(in JumpSubroutineOp) {
	vm.CPU.R[7] = vm.CPU.PC
	if in.UsePCOffset {
		vm.CPU.PC += signExtend(in.PCOffset11, 11)
	} else {
		vm.CPU.PC = vm.CPU.R[in.BaseR]
	}
}
