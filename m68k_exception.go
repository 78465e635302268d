// m68k_exception.go - exception and interrupt delivery

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

// swapStacksForMode exchanges A7 with the shadow SSP/USP. Callers invoke
// it exactly on the S-bit edge, never on every SR write.
func (c *CPU68k) swapStacksForMode(newSupervisor bool) {
	if newSupervisor {
		c.USP = c.A[7]
		c.A[7] = c.SSP
	} else {
		c.SSP = c.A[7]
		c.A[7] = c.USP
	}
}

// enterSupervisor raises S, drops trace, and swaps stacks if the CPU was
// in user mode. Returns the SR value from before the transition.
func (c *CPU68k) enterSupervisor() uint16 {
	oldSR := c.SR
	if !c.supervisor() {
		c.swapStacksForMode(true)
	}
	c.SR |= SRFlagS
	c.SR &^= SRFlagT0 | SRFlagT1
	return oldSR
}

func (c *CPU68k) pushStackFrame(oldSR uint16, oldPC uint32, vector uint16) {
	// Format 0: the plain frame every variant builds. The 68000/68010
	// push SR and PC; 68010+ append the format/vector word.
	if c.profile.masks&Mask010OrLater != 0 {
		c.Push16(vector << 2)
	}
	c.Push32(oldPC)
	c.Push16(oldSR)

	// 68020+ with M=1 push a throwaway format-1 frame underneath and
	// clear M, so the handler runs on the interrupt stack.
	if c.profile.hasMBit && c.SR&SRFlagM != 0 {
		c.Push16(uint16(1)<<12 | vector<<2)
		c.Push32(oldPC)
		c.Push16(c.SR)
		c.SR &^= SRFlagM
	}
}

// raiseException is the non-interrupt exception entry point: illegal
// instruction, privilege violation, divide-by-zero, CHK, TRAPV, TRAP #n,
// trace, line A/F, and the uninitialized-interrupt fallback.
//
// Trap-class exceptions stack the address of the next instruction;
// illegal/privilege/line-A/line-F stack the address of the faulting
// instruction so a handler can examine the opcode.
func (c *CPU68k) raiseException(vector uint16) {
	oldPC := c.PC
	switch vector {
	case VecIllegal, VecPrivilege, VecLineA, VecLineF:
		oldPC = c.PPC
	}

	oldSR := c.enterSupervisor()
	c.pushStackFrame(oldSR, oldPC, vector)

	vecAddr := c.VBR + uint32(vector)*4
	newPC := c.Read32(vecAddr)
	if newPC == 0 && vector != VecUninitializedInt {
		c.raiseException(VecUninitializedInt)
		return
	}
	c.PC = newPC
	c.CurrentCycle += uint64(c.cycException[vector])
}

// CountUnemulated charges and reports an exception this core detects
// but does not deliver: bus error, address error, and the coprocessor/
// FP/MMU groups. Hosts that sense such a condition on the bus call this
// to keep cycle accounting honest; no stack frame is built and PC does
// not move.
func (c *CPU68k) CountUnemulated(vector uint16) {
	c.CurrentCycle += uint64(c.cycException[vector])
	if c.UnemulatedException != nil {
		c.UnemulatedException(uint8(vector))
		return
	}
	logf("cpu68k: unemulated exception vector %d left undelivered", vector)
}

// Interrupt records a pending interrupt level (1..7; 7 is non-maskable).
func (c *CPU68k) Interrupt(level uint8) {
	if level == 0 || level > 7 {
		return
	}
	if level > c.IntPending {
		c.IntPending = level
	}
}

// serviceInterrupts is entered at the top of each run iteration:
//
//  1. bail if nothing is pending, or the SR mask blocks the level
//     (level 7 is never blocked)
//  2. consume int_pending and publish the level to int_ack
//  3. resolve the vector through the host's acknowledge hook; an
//     autovectored acknowledge charges the E-clock synchronisation cost
//  4. enter supervisor mode, push the stack frame
//  5. load PC from the vector, falling back to the uninitialized-
//     interrupt vector when the loaded PC is zero
//  6. raise the mask to the serviced level and charge the vector's cycles
func (c *CPU68k) serviceInterrupts() {
	level := c.IntPending
	if level == 0 {
		return
	}
	currentIPL := uint8((c.SR & SRMaskIPL) >> SRIPLShift)
	if level != 7 && level <= currentIPL {
		return
	}

	c.IntPending = 0
	c.IntAck = level
	c.Stopped &^= StopLevelStop

	ack, vector := AckAutovector, uint16(0)
	if c.InterruptAcknowledge != nil {
		ack, vector = c.InterruptAcknowledge(level)
	}

	switch ack {
	case AckAutovector:
		vector = VecAutovector1 + uint16(level) - 1
		// Interrupt acknowledgement aligns to the E clock, one-tenth of
		// the CPU clock.
		divider := uint64(c.clockDivider)
		c.CurrentCycle += (9 - 4 + (c.CurrentCycle/divider)%10) * divider
	case AckSpurious:
		vector = VecSpurious
	default:
		if vector > 255 {
			return
		}
	}

	oldPC := c.PC
	oldSR := c.enterSupervisor()

	c.SR = (c.SR &^ SRMaskIPL) | uint16(level)<<SRIPLShift

	c.pushStackFrame(oldSR, oldPC, vector)

	vecAddr := c.VBR + uint32(vector)*4
	newPC := c.Read32(vecAddr)
	if newPC == 0 {
		vector = VecUninitializedInt
		newPC = c.Read32(c.VBR + uint32(vector)*4)
	}
	c.PC = newPC
	c.IntMask = uint16(level) << 8
	c.CurrentCycle += uint64(c.cycException[vector])
}

// Reset loads SP from [0x0000] and PC from [0x0004], forces supervisor
// mode, clears T0/T1/M, sets the interrupt mask to 7, clears halt, and
// charges the reset exception's cycles. Trace is held off for the
// duration of the sequence via the run-mode state machine.
func (c *CPU68k) Reset() {
	c.RunMode = RunModeBerrAerrReset
	c.Stopped = 0
	c.SR = SRFlagS | (7 << SRIPLShift)
	c.VBR = 0
	c.SSP = c.Read32(0)
	c.A[7] = c.SSP
	c.PC = c.Read32(4)
	c.PPC = c.PC
	c.IntPending = 0
	c.IntAck = 0
	c.IntMask = 7 << 8
	c.CurrentCycle += uint64(c.cycException[VecResetSSP])
	c.RunMode = RunModeNormal
}
