// m68k_ops_logic.go - AND/OR, their immediate forms, NOT, and the
// ANDI/ORI/EORI variants that target SR or CCR.

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

func (c *CPU68k) execLogicImm(opcode uint16, op func(a, b uint32) uint32, touchVC bool) {
	size := opSize2((opcode >> 6) & 0x3)
	mode := (opcode >> 3) & 0x7
	reg := opcode & 0x7

	var imm uint32
	switch size {
	case SizeByte:
		imm = uint32(uint8(c.Fetch16()))
	case SizeWord:
		imm = uint32(c.Fetch16())
	default:
		imm = c.Fetch32()
	}

	e := c.resolveEA(mode, reg, size)
	v := c.readEA(e, size)
	c.CurrentCycle += uint64(c.eaCycles(e, size))
	result := op(v, imm) & sizeMask(size)
	c.writeEA(e, size, result)
	c.setFlagsNZ(result, size)
	if touchVC {
		c.SR &^= SRFlagV | SRFlagC
	}
}

func (c *CPU68k) execLogicReg(opcode uint16, op func(a, b uint32) uint32, dstToEA bool) {
	dreg := (opcode >> 9) & 0x7
	mode := (opcode >> 3) & 0x7
	reg := opcode & 0x7
	size := opSize2((opcode >> 6) & 0x3)

	if !dstToEA { // ea op Dn -> Dn
		e := c.resolveEA(mode, reg, size)
		src := c.readEA(e, size)
		c.CurrentCycle += uint64(c.eaCycles(e, size))
		dst := c.D[dreg] & sizeMask(size)
		result := op(dst, src) & sizeMask(size)
		c.D[dreg] = (c.D[dreg] &^ sizeMask(size)) | result
		c.setFlagsNZ(result, size)
		c.SR &^= SRFlagV | SRFlagC
		return
	}

	// Dn op ea -> ea: this direction only exists for memory-alterable
	// destinations; a register destination here is a different opcode
	// (SBCD/ABCD/EXG/PACK/UNPK) or nothing at all.
	if mode == AMDataReg || mode == AMAddrReg {
		c.raiseException(VecIllegal)
		return
	}
	e := c.resolveEA(mode, reg, size)
	dst := c.readEA(e, size)
	c.CurrentCycle += uint64(c.eaCycles(e, size))
	src := c.D[dreg] & sizeMask(size)
	result := op(dst, src) & sizeMask(size)
	c.writeEA(e, size, result)
	c.setFlagsNZ(result, size)
	c.SR &^= SRFlagV | SRFlagC
}

func (c *CPU68k) execNot(mode, reg uint16, size int) {
	e := c.resolveEA(mode, reg, size)
	v := c.readEA(e, size)
	c.CurrentCycle += uint64(c.eaCycles(e, size))
	result := (^v) & sizeMask(size)
	c.writeEA(e, size, result)
	c.setFlagsNZ(result, size)
	c.SR &^= SRFlagV | SRFlagC
}

func andOp(a, b uint32) uint32 { return a & b }
func orOp(a, b uint32) uint32  { return a | b }
func eorOp(a, b uint32) uint32 { return a ^ b }

// execLogicToSR implements ANDI/ORI/EORI #imm,SR and ...,CCR, the
// privileged-to-SR forms that gate on supervisor mode.
func (c *CPU68k) execLogicToSR(op func(a, b uint32) uint32, toSR bool) {
	imm := c.Fetch16()
	if toSR {
		if !c.supervisor() {
			c.raiseException(VecPrivilege)
			return
		}
		c.SR = uint16(op(uint32(c.SR), uint32(imm))) & c.profile.legalSRMask
	} else {
		c.setCCR(uint8(op(uint32(c.getCCR()), uint32(imm))))
	}
}
