// m68k_ops_arith.go - ADD/ADDA, SUB/SUBA, ADDX/SUBX, CMP/CMPA/CMPM,
// NEG/NEGX, MULU/MULS, DIVU/DIVS, CHK, TST.

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

func (c *CPU68k) execAdd(opcode uint16) {
	dreg := (opcode >> 9) & 0x7
	opmode := (opcode >> 6) & 0x7
	mode := (opcode >> 3) & 0x7
	reg := opcode & 0x7

	switch opmode {
	case 3, 7: // ADDA.W / ADDA.L
		size := SizeWord
		if opmode == 7 {
			size = SizeLong
		}
		e := c.resolveEA(mode, reg, size)
		v := c.readEA(e, size)
		c.CurrentCycle += uint64(c.eaCycles(e, size))
		if size == SizeWord {
			v = uint32(int32(int16(v)))
		}
		c.A[dreg] += v
	case 0, 1, 2: // ea -> Dn
		size := opSize2(opmode)
		e := c.resolveEA(mode, reg, size)
		src := c.readEA(e, size)
		c.CurrentCycle += uint64(c.eaCycles(e, size))
		dst := c.D[dreg] & sizeMask(size)
		result := (dst + src) & sizeMask(size)
		c.setFlagsAdd(dst, src, result, size)
		c.D[dreg] = (c.D[dreg] &^ sizeMask(size)) | result
	case 4, 5, 6: // Dn -> ea
		size := opSize2(opmode - 4)
		e := c.resolveEA(mode, reg, size)
		src := c.D[dreg] & sizeMask(size)
		dst := c.readEA(e, size)
		c.CurrentCycle += uint64(c.eaCycles(e, size))
		result := (dst + src) & sizeMask(size)
		c.setFlagsAdd(dst, src, result, size)
		c.writeEA(e, size, result)
	}
}

func (c *CPU68k) execSub(opcode uint16) {
	dreg := (opcode >> 9) & 0x7
	opmode := (opcode >> 6) & 0x7
	mode := (opcode >> 3) & 0x7
	reg := opcode & 0x7

	switch opmode {
	case 3, 7:
		size := SizeWord
		if opmode == 7 {
			size = SizeLong
		}
		e := c.resolveEA(mode, reg, size)
		v := c.readEA(e, size)
		c.CurrentCycle += uint64(c.eaCycles(e, size))
		if size == SizeWord {
			v = uint32(int32(int16(v)))
		}
		c.A[dreg] -= v
	case 0, 1, 2:
		size := opSize2(opmode)
		e := c.resolveEA(mode, reg, size)
		src := c.readEA(e, size)
		c.CurrentCycle += uint64(c.eaCycles(e, size))
		dst := c.D[dreg] & sizeMask(size)
		result := (dst - src) & sizeMask(size)
		c.setFlagsSub(dst, src, result, size, true)
		c.D[dreg] = (c.D[dreg] &^ sizeMask(size)) | result
	case 4, 5, 6:
		size := opSize2(opmode - 4)
		e := c.resolveEA(mode, reg, size)
		src := c.D[dreg] & sizeMask(size)
		dst := c.readEA(e, size)
		c.CurrentCycle += uint64(c.eaCycles(e, size))
		result := (dst - src) & sizeMask(size)
		c.setFlagsSub(dst, src, result, size, true)
		c.writeEA(e, size, result)
	}
}

// execAddSubX implements ADDX/SUBX in both the register and the
// -(Ax),-(Ay) memory form. Z is only cleared, never set, so multi-
// precision chains can test the whole result after the last limb.
func (c *CPU68k) execAddSubX(opcode uint16, isAdd bool) {
	ry := (opcode >> 9) & 0x7
	size := opSize2((opcode >> 6) & 0x3)
	rx := opcode & 0x7
	memForm := opcode&0x0008 != 0

	x := uint32(0)
	if c.SR&SRFlagX != 0 {
		x = 1
	}

	var src, dst uint32
	var dstAddr uint32
	if memForm {
		c.A[rx] -= operandSize(size)
		src = c.readMem(c.A[rx], size)
		c.A[ry] -= operandSize(size)
		dstAddr = c.A[ry]
		dst = c.readMem(dstAddr, size)
	} else {
		src = c.D[rx] & sizeMask(size)
		dst = c.D[ry] & sizeMask(size)
	}

	oldZ := c.SR & SRFlagZ
	mask := sizeMask(size)
	sign := signBit(size)
	var result uint32
	var carry, overflow bool
	if isAdd {
		wide := uint64(dst) + uint64(src) + uint64(x)
		result = uint32(wide) & mask
		carry = wide > uint64(mask)
		overflow = (dst&sign == src&sign) && (result&sign != dst&sign)
	} else {
		wide := uint64(dst) - uint64(src) - uint64(x)
		result = uint32(wide) & mask
		carry = uint64(src)+uint64(x) > uint64(dst)
		overflow = (dst&sign != src&sign) && (result&sign != dst&sign)
	}

	c.SR &^= SRFlagN | SRFlagZ | SRFlagV | SRFlagC | SRFlagX
	if result&sign != 0 {
		c.SR |= SRFlagN
	}
	if result == 0 {
		c.SR |= oldZ
	}
	if overflow {
		c.SR |= SRFlagV
	}
	if carry {
		c.SR |= SRFlagC | SRFlagX
	}

	if memForm {
		c.writeMem(dstAddr, size, result)
	} else {
		c.D[ry] = (c.D[ry] &^ mask) | result
	}
}

func (c *CPU68k) readMem(addr uint32, size int) uint32 {
	switch size {
	case SizeByte:
		return uint32(c.Read8(addr))
	case SizeWord:
		return uint32(c.Read16(addr))
	default:
		return c.Read32(addr)
	}
}

func (c *CPU68k) writeMem(addr uint32, size int, v uint32) {
	switch size {
	case SizeByte:
		c.Write8(addr, uint8(v))
	case SizeWord:
		c.Write16(addr, uint16(v))
	default:
		c.Write32(addr, v)
	}
}

func (c *CPU68k) execCmp(opcode uint16) {
	dreg := (opcode >> 9) & 0x7
	opmode := (opcode >> 6) & 0x7
	mode := (opcode >> 3) & 0x7
	reg := opcode & 0x7

	if opmode == 3 || opmode == 7 { // CMPA
		size := SizeWord
		if opmode == 7 {
			size = SizeLong
		}
		e := c.resolveEA(mode, reg, size)
		v := c.readEA(e, size)
		c.CurrentCycle += uint64(c.eaCycles(e, size))
		if size == SizeWord {
			v = uint32(int32(int16(v)))
		}
		dst := c.A[dreg]
		result := dst - v
		c.setFlagsSub(dst, v, result, SizeLong, false)
		return
	}
	size := opSize2(opmode)
	e := c.resolveEA(mode, reg, size)
	src := c.readEA(e, size)
	c.CurrentCycle += uint64(c.eaCycles(e, size))
	dst := c.D[dreg] & sizeMask(size)
	result := (dst - src) & sizeMask(size)
	c.setFlagsSub(dst, src, result, size, false)
}

// execCmpm: CMPM (Ax)+,(Ay)+.
func (c *CPU68k) execCmpm(opcode uint16) {
	ax := opcode & 0x7
	ay := (opcode >> 9) & 0x7
	size := opSize2((opcode >> 6) & 0x3)

	src := c.readMem(c.A[ax], size)
	c.A[ax] += operandSize(size)
	dst := c.readMem(c.A[ay], size)
	c.A[ay] += operandSize(size)

	result := (dst - src) & sizeMask(size)
	c.setFlagsSub(dst, src, result, size, false)
}

func (c *CPU68k) execNeg(mode, reg uint16, size int) {
	e := c.resolveEA(mode, reg, size)
	v := c.readEA(e, size)
	c.CurrentCycle += uint64(c.eaCycles(e, size))
	result := (0 - v) & sizeMask(size)
	c.setFlagsSub(0, v, result, size, true)
	c.writeEA(e, size, result)
}

// execNegx: 0 - dst - X, with the multi-precision Z rule.
func (c *CPU68k) execNegx(mode, reg uint16, size int) {
	e := c.resolveEA(mode, reg, size)
	v := c.readEA(e, size)
	c.CurrentCycle += uint64(c.eaCycles(e, size))
	x := uint32(0)
	if c.SR&SRFlagX != 0 {
		x = 1
	}
	oldZ := c.SR & SRFlagZ
	mask := sizeMask(size)
	sign := signBit(size)
	result := (0 - v - x) & mask

	c.SR &^= SRFlagN | SRFlagZ | SRFlagV | SRFlagC | SRFlagX
	if result&sign != 0 {
		c.SR |= SRFlagN
	}
	if result == 0 {
		c.SR |= oldZ
	}
	if v&sign != 0 && result&sign != 0 {
		c.SR |= SRFlagV
	}
	if v != 0 || x != 0 {
		c.SR |= SRFlagC | SRFlagX
	}
	c.writeEA(e, size, result)
}

func (c *CPU68k) execTst(sizeBits, mode, reg uint16) {
	size := opSize2(sizeBits)
	e := c.resolveEA(mode, reg, size)
	v := c.readEA(e, size)
	c.CurrentCycle += uint64(c.eaCycles(e, size))
	c.setFlagsNZ(v, size)
	c.SR &^= SRFlagV | SRFlagC
}

// execChk traps when Dn is below zero or above the bound; N tells the
// handler which side was violated.
func (c *CPU68k) execChk(dreg, mode, reg uint16, size int) {
	e := c.resolveEA(mode, reg, size)
	bound := c.readEA(e, size)
	c.CurrentCycle += uint64(c.eaCycles(e, size))

	v := int32(c.D[dreg])
	b := int32(bound)
	if size == SizeWord {
		v = int32(int16(c.D[dreg]))
		b = int32(int16(bound))
	}
	if v < 0 {
		c.SR |= SRFlagN
		c.raiseException(VecCHK)
	} else if v > b {
		c.SR &^= SRFlagN
		c.raiseException(VecCHK)
	}
}

func (c *CPU68k) execMulu(dreg, mode, reg uint16, signed bool) {
	e := c.resolveEA(mode, reg, SizeWord)
	src := c.readEA(e, SizeWord)
	c.CurrentCycle += uint64(c.eaCycles(e, SizeWord))
	if signed {
		result := int32(int16(c.D[dreg])) * int32(int16(src))
		c.D[dreg] = uint32(result)
	} else {
		c.D[dreg] = uint32(uint16(c.D[dreg])) * uint32(uint16(src))
	}
	c.setFlagsNZ(c.D[dreg], SizeLong)
	c.SR &^= SRFlagV | SRFlagC
	c.CurrentCycle += uint64(34 * c.clockDivider)
}

// execDivu: 32/16 divide leaving quotient in the low word and remainder
// in the high word. Overflowing quotients set V and leave the register
// untouched.
func (c *CPU68k) execDivu(dreg, mode, reg uint16, signed bool) {
	e := c.resolveEA(mode, reg, SizeWord)
	src := c.readEA(e, SizeWord)
	c.CurrentCycle += uint64(c.eaCycles(e, SizeWord))
	if uint16(src) == 0 {
		c.raiseException(VecZeroDivide)
		return
	}
	if signed {
		dividend := int32(c.D[dreg])
		divisor := int32(int16(src))
		q := dividend / divisor
		r := dividend % divisor
		if q > 0x7FFF || q < -0x8000 {
			c.SR |= SRFlagV
			return
		}
		c.D[dreg] = uint32(uint16(q)) | uint32(uint16(r))<<16
		c.setFlagsNZ(uint32(int32(int16(q))), SizeWord)
		c.SR &^= SRFlagV | SRFlagC
	} else {
		dividend := c.D[dreg]
		divisor := uint32(uint16(src))
		q := dividend / divisor
		r := dividend % divisor
		if q > 0xFFFF {
			c.SR |= SRFlagV
			return
		}
		c.D[dreg] = (q & 0xFFFF) | (r&0xFFFF)<<16
		c.setFlagsNZ(q, SizeWord)
		c.SR &^= SRFlagV | SRFlagC
	}
	c.CurrentCycle += uint64(90 * c.clockDivider)
}
