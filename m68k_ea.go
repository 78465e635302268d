// m68k_ea.go - effective address computation

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

// The 14 standard 68000/68010 addressing modes are implemented in full.
// The 68020 full-extension-word forms decode base and outer displacements
// and charge their penalty from eaIdxCycle; the memory indirection itself
// is not performed.

package cpu

const (
	AMDataReg = iota
	AMAddrReg
	AMAddrInd
	AMAddrPostInc
	AMAddrPreDec
	AMAddrDisp
	AMAddrIndex
	AMExtended // mode 7: reg selects absolute/PC/immediate forms
)

const (
	AMExtAbsShort = iota
	AMExtAbsLong
	AMExtPCDisp
	AMExtPCIndex
	AMExtImmediate
)

// ea is a resolved effective address: either a register (mode<2) or a
// memory address plus the number of extra cycles its calculation cost.
type ea struct {
	mode, reg uint16
	addr      uint32
	isMemory  bool
	extraCyc  uint32
}

// resolveEA computes the effective address for (mode,reg) at the given
// operand size, fetching any extension words from the instruction stream.
// Postincrement and predecrement adjust An here, once, so a read-modify-
// write through the same ea sees a stable address.
func (c *CPU68k) resolveEA(mode, reg uint16, size int) ea {
	switch mode {
	case AMDataReg, AMAddrReg:
		return ea{mode: mode, reg: reg}
	case AMAddrInd:
		return ea{mode: mode, reg: reg, addr: c.A[reg], isMemory: true}
	case AMAddrPostInc:
		addr := c.A[reg]
		c.A[reg] += postIncDelta(reg, size)
		return ea{mode: mode, reg: reg, addr: addr, isMemory: true}
	case AMAddrPreDec:
		c.A[reg] -= postIncDelta(reg, size)
		return ea{mode: mode, reg: reg, addr: c.A[reg], isMemory: true}
	case AMAddrDisp:
		disp := int16(c.Fetch16())
		return ea{mode: mode, reg: reg, addr: c.A[reg] + uint32(disp), isMemory: true}
	case AMAddrIndex:
		addr, extra := c.indexedAddress(c.A[reg])
		return ea{mode: mode, reg: reg, addr: addr, isMemory: true, extraCyc: extra}
	case AMExtended:
		switch reg {
		case AMExtAbsShort:
			addr := uint32(int16(c.Fetch16()))
			return ea{mode: mode, reg: reg, addr: addr, isMemory: true}
		case AMExtAbsLong:
			addr := c.Fetch32()
			return ea{mode: mode, reg: reg, addr: addr, isMemory: true}
		case AMExtPCDisp:
			base := c.PC
			disp := int16(c.Fetch16())
			return ea{mode: mode, reg: reg, addr: base + uint32(disp), isMemory: true}
		case AMExtPCIndex:
			base := c.PC
			addr, extra := c.indexedAddress(base)
			return ea{mode: mode, reg: reg, addr: addr, isMemory: true, extraCyc: extra}
		case AMExtImmediate:
			return ea{mode: mode, reg: reg, isMemory: false}
		}
	}
	c.raiseException(VecIllegal)
	return ea{}
}

// indexedAddress decodes a brief or full extension word relative to base.
// The full form is 68020+ only; see the file header for its indirection
// caveat.
func (c *CPU68k) indexedAddress(base uint32) (uint32, uint32) {
	ext := c.Fetch16()
	if ext&0x0100 != 0 {
		if c.profile.masks&Mask020OrLater == 0 {
			c.raiseException(VecIllegal)
			return base, 0
		}
		bdSize := (ext >> 4) & 0x03
		odSize := ext & 0x03
		scale := (ext >> 9) & 0x03
		idx := (scale << 4) | (bdSize << 2) | odSize
		extra := uint32(c.eaIdxCycle[idx&0x3F])
		bd := int32(0)
		if bdSize == 2 {
			bd = int32(int16(c.Fetch16()))
		} else if bdSize == 3 {
			bd = int32(c.Fetch32())
		}
		idxReg := (ext >> 12) & 0x0F
		idxVal := c.indexRegisterValue(ext, idxReg)
		addr := base + uint32(bd) + idxVal
		if odSize == 2 {
			addr += uint32(int16(c.Fetch16()))
		} else if odSize == 3 {
			addr += c.Fetch32()
		}
		return addr, extra
	}

	idxReg := (ext >> 12) & 0x0F
	disp8 := int8(ext & 0xFF)
	idxVal := c.indexRegisterValue(ext, idxReg)
	return base + uint32(disp8) + idxVal, 2
}

func (c *CPU68k) indexRegisterValue(ext, idxReg uint16) uint32 {
	var v uint32
	if ext&0x8000 != 0 {
		v = c.A[idxReg&7]
	} else {
		v = c.D[idxReg&7]
	}
	if ext&0x0800 == 0 {
		if v&0x8000 != 0 {
			v |= 0xFFFF0000
		} else {
			v &= 0x0000FFFF
		}
	}
	scale := (ext >> 9) & 0x03
	return v << scale
}

func operandSize(size int) uint32 {
	switch size {
	case SizeByte:
		return 1
	case SizeWord:
		return 2
	default:
		return 4
	}
}

// postIncDelta is the operand footprint in memory; A7 stays word-aligned
// even for byte operands.
func postIncDelta(reg uint16, size int) uint32 {
	if reg == 7 && size == SizeByte {
		return 2
	}
	return operandSize(size)
}

// readEA fetches the operand named by e.
func (c *CPU68k) readEA(e ea, size int) uint32 {
	switch {
	case e.mode == AMDataReg:
		return c.D[e.reg] & sizeMask(size)
	case e.mode == AMAddrReg:
		return c.A[e.reg]
	case e.mode == AMExtended && e.reg == AMExtImmediate:
		switch size {
		case SizeByte:
			return uint32(uint8(c.Fetch16()))
		case SizeWord:
			return uint32(c.Fetch16())
		default:
			return c.Fetch32()
		}
	default:
		switch size {
		case SizeByte:
			return uint32(c.Read8(e.addr))
		case SizeWord:
			return uint32(c.Read16(e.addr))
		default:
			return c.Read32(e.addr)
		}
	}
}

// writeEA stores value into the operand named by e, preserving the
// untouched bits of a register when size is less than a full long.
func (c *CPU68k) writeEA(e ea, size int, value uint32) {
	switch {
	case e.mode == AMDataReg:
		mask := sizeMask(size)
		c.D[e.reg] = (c.D[e.reg] &^ mask) | (value & mask)
	case e.mode == AMAddrReg:
		c.A[e.reg] = value
	default:
		switch size {
		case SizeByte:
			c.Write8(e.addr, uint8(value))
		case SizeWord:
			c.Write16(e.addr, uint16(value))
		default:
			c.Write32(e.addr, value)
		}
	}
}

// eaCycles returns the per-mode EA calculation cost, plus any
// memory-indirect extension penalty already accrued.
func (c *CPU68k) eaCycles(e ea, size int) uint32 {
	base := uint32(0)
	switch {
	case e.mode == AMDataReg || e.mode == AMAddrReg:
		base = 0
	case e.mode == AMAddrInd:
		base = 4
	case e.mode == AMAddrPostInc:
		base = 4
	case e.mode == AMAddrPreDec:
		base = 6
	case e.mode == AMAddrDisp:
		base = 8
	case e.mode == AMAddrIndex:
		base = 10
	case e.mode == AMExtended && e.reg == AMExtAbsShort:
		base = 8
	case e.mode == AMExtended && e.reg == AMExtAbsLong:
		base = 12
	case e.mode == AMExtended && e.reg == AMExtPCDisp:
		base = 8
	case e.mode == AMExtended && e.reg == AMExtPCIndex:
		base = 10
	case e.mode == AMExtended && e.reg == AMExtImmediate:
		base = 4
	}
	return base + e.extraCyc
}
