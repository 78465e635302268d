// m68k_ops_control.go - flow control and system instructions: Bcc/BSR,
// DBcc, Scc, JMP/JSR, RTE/RTD, STOP, RESET, MOVEC, MOVEP, MOVES, the
// quick and immediate arithmetic forms, EOR, and the long multiply/divide
// pair.

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

// execBcc handles the whole of group 6: BRA (cond 0), BSR (cond 1) and
// the fourteen conditional branches. An 8-bit displacement of 0x00 pulls
// a 16-bit displacement word; 0xFF pulls a 32-bit displacement on
// 68020+ (on earlier parts 0xFF is simply -1).
func (c *CPU68k) execBcc(opcode uint16) {
	cond := uint8((opcode >> 8) & 0xF)
	disp8 := uint8(opcode & 0xFF)
	base := c.PC

	var disp int32
	switch {
	case disp8 == 0x00:
		disp = int32(int16(c.Fetch16()))
	case disp8 == 0xFF && c.profile.masks&Mask020OrLater != 0:
		disp = int32(c.Fetch32())
	default:
		disp = int32(int8(disp8))
	}

	if cond == 1 { // BSR
		c.Push32(c.PC)
		c.PC = base + uint32(disp)
		c.CurrentCycle += uint64(14 * c.clockDivider)
		return
	}

	if c.checkCondition(cond) {
		c.PC = base + uint32(disp)
		c.CurrentCycle += uint64(6 * c.clockDivider)
		return
	}
	// Not taken: a word-displacement branch still paid for its extension
	// fetch; the byte form falls through faster than it branches.
	if disp8 == 0x00 {
		c.CurrentCycle += uint64(8 * c.clockDivider)
	} else {
		c.CurrentCycle += uint64(4 * c.clockDivider)
	}
}

// execDbcc: if cond fails, decrement Dn.W and branch while it has not
// reached -1.
func (c *CPU68k) execDbcc(cond uint8, reg uint16) {
	base := c.PC
	disp := int32(int16(c.Fetch16()))

	if c.checkCondition(cond) {
		c.CurrentCycle += uint64(8 * c.clockDivider)
		return
	}

	count := uint16(c.D[reg]) - 1
	c.D[reg] = (c.D[reg] &^ 0xFFFF) | uint32(count)
	if count != 0xFFFF {
		c.PC = base + uint32(disp)
		c.CurrentCycle += uint64(6 * c.clockDivider)
		return
	}
	c.CurrentCycle += uint64(10 * c.clockDivider)
}

func (c *CPU68k) execScc(cond uint8, mode, reg uint16) {
	e := c.resolveEA(mode, reg, SizeByte)
	c.CurrentCycle += uint64(c.eaCycles(e, SizeByte))
	if c.checkCondition(cond) {
		c.writeEA(e, SizeByte, 0xFF)
		return
	}
	c.writeEA(e, SizeByte, 0x00)
}

func (c *CPU68k) execJmp(mode, reg uint16) {
	e := c.resolveEA(mode, reg, SizeLong)
	c.CurrentCycle += uint64(c.eaCycles(e, SizeLong))
	c.PC = e.addr
}

func (c *CPU68k) execJsr(mode, reg uint16) {
	e := c.resolveEA(mode, reg, SizeLong)
	c.CurrentCycle += uint64(c.eaCycles(e, SizeLong))
	c.Push32(c.PC)
	c.PC = e.addr
	c.CurrentCycle += uint64(8 * c.clockDivider)
}

// execRte restores SR and PC from the supervisor stack. On 68010+ the
// frame carries a format/vector word; format 1 (the throwaway frame) is
// popped and unwinding continues with the frame beneath it.
func (c *CPU68k) execRte() {
	if !c.supervisor() {
		c.raiseException(VecPrivilege)
		return
	}
	for {
		newSR := c.Pop16()
		newPC := c.Pop32()
		format := uint16(0)
		if c.profile.masks&Mask010OrLater != 0 {
			format = c.Pop16() >> 12
		}
		switch format {
		case 0:
			c.applySR(newSR)
			c.PC = newPC
			c.CurrentCycle += uint64(16 * c.clockDivider)
			return
		case 1:
			c.applySR(newSR)
			continue
		default:
			c.raiseException(VecFormatError)
			return
		}
	}
}

// execRtd (68010+): RTS with a stack displacement.
func (c *CPU68k) execRtd() {
	if c.profile.masks&Mask010OrLater == 0 {
		c.raiseException(VecIllegal)
		return
	}
	disp := int16(c.Fetch16())
	c.PC = c.Pop32()
	c.setSP(c.getSP() + uint32(disp))
	c.CurrentCycle += uint64(12 * c.clockDivider)
}

// applySR installs a full SR value, swapping stacks only if the S bit
// actually changes.
func (c *CPU68k) applySR(v uint16) {
	newSupervisor := v&SRFlagS != 0
	if newSupervisor != c.supervisor() {
		c.swapStacksForMode(newSupervisor)
	}
	c.SR = v & c.profile.legalSRMask
}

// execStop loads SR from the immediate word and idles the CPU until an
// interrupt arrives.
func (c *CPU68k) execStop() {
	if !c.supervisor() {
		c.raiseException(VecPrivilege)
		return
	}
	imm := c.Fetch16()
	c.applySR(imm)
	c.Stopped |= StopLevelStop
}

// execResetInstr pulses the external reset line. CPU state is untouched;
// peripherals wired to ResetPeripherals see the edge.
func (c *CPU68k) execResetInstr() {
	if !c.supervisor() {
		c.raiseException(VecPrivilege)
		return
	}
	if c.ResetPeripherals != nil {
		c.ResetPeripherals()
	}
	c.CurrentCycle += uint64(128 * c.clockDivider)
}

// execMovec (68010+) moves between a general register and a control
// register named by the extension word.
func (c *CPU68k) execMovec(opcode uint16) {
	if c.profile.masks&Mask010OrLater == 0 {
		c.raiseException(VecIllegal)
		return
	}
	if !c.supervisor() {
		c.raiseException(VecPrivilege)
		return
	}
	ext := c.Fetch16()
	ctrl := ext & 0x0FFF
	regIdx := (ext >> 12) & 0x7
	isAddr := ext&0x8000 != 0

	readReg := func() uint32 {
		if isAddr {
			return c.A[regIdx]
		}
		return c.D[regIdx]
	}
	writeReg := func(v uint32) {
		if isAddr {
			c.A[regIdx] = v
		} else {
			c.D[regIdx] = v
		}
	}

	toControl := opcode&1 != 0
	switch ctrl {
	case 0x000: // SFC
		if toControl {
			c.SFC = uint8(readReg() & 7)
		} else {
			writeReg(uint32(c.SFC))
		}
	case 0x001: // DFC
		if toControl {
			c.DFC = uint8(readReg() & 7)
		} else {
			writeReg(uint32(c.DFC))
		}
	case 0x800: // USP
		if toControl {
			c.USP = readReg()
		} else {
			writeReg(c.USP)
		}
	case 0x801: // VBR
		if toControl {
			c.VBR = readReg()
		} else {
			writeReg(c.VBR)
		}
	case 0x002: // CACR, 68020+
		if c.profile.masks&Mask020OrLater == 0 {
			c.raiseException(VecIllegal)
			return
		}
		if toControl {
			c.CACR = readReg()
		} else {
			writeReg(c.CACR)
		}
	case 0x802: // CAAR, 68020/68030
		if c.profile.masks&Mask020OrLater == 0 {
			c.raiseException(VecIllegal)
			return
		}
		if toControl {
			c.CAAR = readReg()
		} else {
			writeReg(c.CAAR)
		}
	default:
		c.raiseException(VecIllegal)
	}
}

// execMovep transfers a word or long between a data register and
// alternating bytes of memory, the classic interface to 8-bit peripherals
// on the upper or lower lane of the bus.
func (c *CPU68k) execMovep(opcode uint16) {
	dreg := (opcode >> 9) & 7
	areg := opcode & 7
	opmode := (opcode >> 6) & 7
	disp := int16(c.Fetch16())
	addr := c.A[areg] + uint32(disp)

	switch opmode {
	case 4: // MOVEP.W mem -> Dn
		hi := uint32(c.Read8(addr))
		lo := uint32(c.Read8(addr + 2))
		c.D[dreg] = (c.D[dreg] &^ 0xFFFF) | hi<<8 | lo
	case 5: // MOVEP.L mem -> Dn
		b0 := uint32(c.Read8(addr))
		b1 := uint32(c.Read8(addr + 2))
		b2 := uint32(c.Read8(addr + 4))
		b3 := uint32(c.Read8(addr + 6))
		c.D[dreg] = b0<<24 | b1<<16 | b2<<8 | b3
	case 6: // MOVEP.W Dn -> mem
		c.Write8(addr, uint8(c.D[dreg]>>8))
		c.Write8(addr+2, uint8(c.D[dreg]))
	case 7: // MOVEP.L Dn -> mem
		c.Write8(addr, uint8(c.D[dreg]>>24))
		c.Write8(addr+2, uint8(c.D[dreg]>>16))
		c.Write8(addr+4, uint8(c.D[dreg]>>8))
		c.Write8(addr+6, uint8(c.D[dreg]))
	default:
		c.raiseException(VecIllegal)
	}
}

// execMoves (68010+) moves through the address space named by SFC/DFC.
// With no MMU fitted there is only one address space, so the transfer
// resolves through the ordinary memory map.
func (c *CPU68k) execMoves(opcode uint16) {
	if c.profile.masks&Mask010OrLater == 0 {
		c.raiseException(VecIllegal)
		return
	}
	if !c.supervisor() {
		c.raiseException(VecPrivilege)
		return
	}
	size := opSize2((opcode >> 6) & 3)
	ext := c.Fetch16()
	regIdx := (ext >> 12) & 0x7
	isAddr := ext&0x8000 != 0
	toMemory := ext&0x0800 != 0

	e := c.resolveEA((opcode>>3)&7, opcode&7, size)
	if toMemory {
		var v uint32
		if isAddr {
			v = c.A[regIdx]
		} else {
			v = c.D[regIdx]
		}
		c.writeEA(e, size, v)
		return
	}
	v := c.readEA(e, size)
	if isAddr {
		if size == SizeWord {
			v = uint32(int32(int16(v)))
		}
		c.A[regIdx] = v
		return
	}
	mask := sizeMask(size)
	c.D[regIdx] = (c.D[regIdx] &^ mask) | (v & mask)
}

// execArithImm: ADDI/SUBI #imm,ea.
func (c *CPU68k) execArithImm(opcode uint16, isAdd bool) {
	size := opSize2((opcode >> 6) & 3)
	mode := (opcode >> 3) & 7
	reg := opcode & 7

	imm := c.fetchImmediate(size)
	e := c.resolveEA(mode, reg, size)
	dst := c.readEA(e, size)
	c.CurrentCycle += uint64(c.eaCycles(e, size))

	var result uint32
	if isAdd {
		result = (dst + imm) & sizeMask(size)
		c.setFlagsAdd(dst, imm, result, size)
	} else {
		result = (dst - imm) & sizeMask(size)
		c.setFlagsSub(dst, imm, result, size, true)
	}
	c.writeEA(e, size, result)
}

func (c *CPU68k) execCmpi(opcode uint16) {
	size := opSize2((opcode >> 6) & 3)
	mode := (opcode >> 3) & 7
	reg := opcode & 7

	imm := c.fetchImmediate(size)
	e := c.resolveEA(mode, reg, size)
	dst := c.readEA(e, size)
	c.CurrentCycle += uint64(c.eaCycles(e, size))
	result := (dst - imm) & sizeMask(size)
	c.setFlagsSub(dst, imm, result, size, false)
}

func (c *CPU68k) fetchImmediate(size int) uint32 {
	switch size {
	case SizeByte:
		return uint32(uint8(c.Fetch16()))
	case SizeWord:
		return uint32(c.Fetch16())
	default:
		return c.Fetch32()
	}
}

// execAddqSubq adds or subtracts the quick constant 1..8. Targeting an
// address register touches no flags and always operates on the full
// register.
func (c *CPU68k) execAddqSubq(data uint32, isSub bool, mode, reg uint16, size int) {
	if mode == AMAddrReg {
		if isSub {
			c.A[reg] -= data
		} else {
			c.A[reg] += data
		}
		return
	}
	e := c.resolveEA(mode, reg, size)
	dst := c.readEA(e, size)
	c.CurrentCycle += uint64(c.eaCycles(e, size))
	var result uint32
	if isSub {
		result = (dst - data) & sizeMask(size)
		c.setFlagsSub(dst, data, result, size, true)
	} else {
		result = (dst + data) & sizeMask(size)
		c.setFlagsAdd(dst, data, result, size)
	}
	c.writeEA(e, size, result)
}

// execEor: EOR Dn,ea (the register-destination direction does not exist;
// that encoding is CMPM).
func (c *CPU68k) execEor(opcode uint16) {
	dreg := (opcode >> 9) & 7
	size := opSize2((opcode >> 6) & 3)
	mode := (opcode >> 3) & 7
	reg := opcode & 7

	e := c.resolveEA(mode, reg, size)
	dst := c.readEA(e, size)
	c.CurrentCycle += uint64(c.eaCycles(e, size))
	result := (dst ^ c.D[dreg]) & sizeMask(size)
	c.writeEA(e, size, result)
	c.setFlagsNZ(result, size)
	c.SR &^= SRFlagV | SRFlagC
}

// execMulLong (68020+): MULU.L/MULS.L with 32- or 64-bit product.
func (c *CPU68k) execMulLong(mode, reg uint16) {
	if c.profile.masks&Mask020OrLater == 0 {
		c.raiseException(VecIllegal)
		return
	}
	ext := c.Fetch16()
	dl := (ext >> 12) & 7
	dh := ext & 7
	signed := ext&0x0800 != 0
	wide := ext&0x0400 != 0

	e := c.resolveEA(mode, reg, SizeLong)
	src := c.readEA(e, SizeLong)
	c.CurrentCycle += uint64(c.eaCycles(e, SizeLong))

	var product uint64
	var overflow bool
	if signed {
		p := int64(int32(c.D[dl])) * int64(int32(src))
		product = uint64(p)
		overflow = !wide && (p > 0x7FFFFFFF || p < -0x80000000)
	} else {
		product = uint64(c.D[dl]) * uint64(src)
		overflow = !wide && product > 0xFFFFFFFF
	}

	c.D[dl] = uint32(product)
	c.SR &^= SRFlagN | SRFlagZ | SRFlagV | SRFlagC
	if wide {
		c.D[dh] = uint32(product >> 32)
		if product == 0 {
			c.SR |= SRFlagZ
		}
		if product&(1<<63) != 0 {
			c.SR |= SRFlagN
		}
		return
	}
	c.setFlagsNZ(uint32(product), SizeLong)
	if overflow {
		c.SR |= SRFlagV
	}
}

// execDivLong (68020+): DIVU.L/DIVS.L, quotient to Dq, remainder to Dr.
func (c *CPU68k) execDivLong(mode, reg uint16) {
	if c.profile.masks&Mask020OrLater == 0 {
		c.raiseException(VecIllegal)
		return
	}
	ext := c.Fetch16()
	dq := (ext >> 12) & 7
	dr := ext & 7
	signed := ext&0x0800 != 0
	wide := ext&0x0400 != 0

	e := c.resolveEA(mode, reg, SizeLong)
	src := c.readEA(e, SizeLong)
	c.CurrentCycle += uint64(c.eaCycles(e, SizeLong))

	if src == 0 {
		c.raiseException(VecZeroDivide)
		return
	}

	c.SR &^= SRFlagN | SRFlagZ | SRFlagV | SRFlagC
	if signed {
		var dividend int64
		if wide {
			dividend = int64(uint64(c.D[dr])<<32 | uint64(c.D[dq]))
		} else {
			dividend = int64(int32(c.D[dq]))
		}
		divisor := int64(int32(src))
		q := dividend / divisor
		r := dividend % divisor
		if q > 0x7FFFFFFF || q < -0x80000000 {
			c.SR |= SRFlagV
			return
		}
		c.D[dq] = uint32(q)
		if dr != dq {
			c.D[dr] = uint32(r)
		}
		c.setFlagsNZ(uint32(q), SizeLong)
		return
	}
	var dividend uint64
	if wide {
		dividend = uint64(c.D[dr])<<32 | uint64(c.D[dq])
	} else {
		dividend = uint64(c.D[dq])
	}
	divisor := uint64(src)
	q := dividend / divisor
	r := dividend % divisor
	if q > 0xFFFFFFFF {
		c.SR |= SRFlagV
		return
	}
	c.D[dq] = uint32(q)
	if dr != dq {
		c.D[dr] = uint32(r)
	}
	c.setFlagsNZ(uint32(q), SizeLong)
}
