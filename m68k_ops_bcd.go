// m68k_ops_bcd.go - packed binary-coded-decimal arithmetic: ABCD, SBCD,
// NBCD.

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

// execBcdOp handles ABCD/SBCD in both the register-to-register and the
// -(Ax),-(Ay) memory form. Z is only ever cleared, never set, so a chain
// of digit operations can test the whole multi-byte result at the end.
func (c *CPU68k) execBcdOp(opcode uint16, isAdd bool) {
	ry := (opcode >> 9) & 7
	rx := opcode & 7
	memForm := opcode&0x0008 != 0

	x := uint8(0)
	if c.SR&SRFlagX != 0 {
		x = 1
	}

	var src, dst uint8
	var dstAddr uint32
	if memForm {
		c.A[rx] -= 1
		src = c.Read8(c.A[rx])
		c.A[ry] -= 1
		dstAddr = c.A[ry]
		dst = c.Read8(dstAddr)
	} else {
		src = uint8(c.D[rx])
		dst = uint8(c.D[ry])
	}

	var result uint8
	var carry bool
	if isAdd {
		result, carry = bcdAdd(dst, src, x)
	} else {
		result, carry = bcdSub(dst, src, x)
	}

	if carry {
		c.SR |= SRFlagC | SRFlagX
	} else {
		c.SR &^= SRFlagC | SRFlagX
	}
	if result != 0 {
		c.SR &^= SRFlagZ
	}
	if result&0x80 != 0 {
		c.SR |= SRFlagN
	} else {
		c.SR &^= SRFlagN
	}

	if memForm {
		c.Write8(dstAddr, result)
	} else {
		c.D[ry] = (c.D[ry] &^ 0xFF) | uint32(result)
	}
	c.CurrentCycle += uint64(2 * c.clockDivider)
}

// execNbcd negates a BCD byte: 0 - dst - X.
func (c *CPU68k) execNbcd(mode, reg uint16) {
	e := c.resolveEA(mode, reg, SizeByte)
	dst := uint8(c.readEA(e, SizeByte))
	c.CurrentCycle += uint64(c.eaCycles(e, SizeByte))

	x := uint8(0)
	if c.SR&SRFlagX != 0 {
		x = 1
	}
	result, carry := bcdSub(0, dst, x)

	if carry {
		c.SR |= SRFlagC | SRFlagX
	} else {
		c.SR &^= SRFlagC | SRFlagX
	}
	if result != 0 {
		c.SR &^= SRFlagZ
	}
	if result&0x80 != 0 {
		c.SR |= SRFlagN
	} else {
		c.SR &^= SRFlagN
	}
	c.writeEA(e, SizeByte, uint32(result))
}

func bcdAdd(dst, src, x uint8) (uint8, bool) {
	lo := uint16(dst&0x0F) + uint16(src&0x0F) + uint16(x)
	hi := uint16(dst&0xF0) + uint16(src&0xF0)
	sum := hi + lo
	if lo > 0x09 {
		sum += 0x06
	}
	carry := sum > 0x99
	if carry {
		sum += 0x60
	}
	return uint8(sum), carry || sum > 0xFF
}

func bcdSub(dst, src, x uint8) (uint8, bool) {
	diff := int16(dst) - int16(src) - int16(x)
	loBorrow := int16(dst&0x0F)-int16(src&0x0F)-int16(x) < 0
	if loBorrow {
		diff -= 0x06
	}
	borrow := diff < 0
	if borrow {
		diff -= 0x60
	}
	return uint8(diff), borrow
}
