// z80_ops_xy.go - DD/FD prefixed forms: IX/IY in place of HL, the
// (IX+d)/(IY+d) addressing, and the undocumented IXH/IXL halves

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

func (z *Z80) dispatchXY(reg *uint16) {
	z.xy = reg
	op := z.fetchOpcode()
	z.ICount -= int(z.ccXY[op])
	z.xyOps[op](z)
}

// xyEA fetches the displacement and forms the (IX+d) address; WZ tracks
// it, which is how BIT exposes it.
func (z *Z80) xyEA() uint16 {
	d := int8(z.fetchByte())
	addr := *z.xy + uint16(int16(d))
	z.WZ = addr
	return addr
}

func (z *Z80) xyHigh() uint8     { return uint8(*z.xy >> 8) }
func (z *Z80) xyLow() uint8      { return uint8(*z.xy) }
func (z *Z80) setXYHigh(v uint8) { *z.xy = *z.xy&0x00FF | uint16(v)<<8 }
func (z *Z80) setXYLow(v uint8)  { *z.xy = *z.xy&0xFF00 | uint16(v) }

// readReg8XY is readReg8 with H/L replaced by the index register halves;
// code 6 reads (IX+d).
func (z *Z80) readReg8XY(code uint8) uint8 {
	switch code {
	case 4:
		return z.xyHigh()
	case 5:
		return z.xyLow()
	case 6:
		return z.Read8(z.xyEA())
	default:
		return z.readReg8(code)
	}
}

func (z *Z80) writeReg8XY(code uint8, v uint8) {
	switch code {
	case 4:
		z.setXYHigh(v)
	case 5:
		z.setXYLow(v)
	case 6:
		z.Write8(z.xyEA(), v)
	default:
		z.writeReg8(code, v)
	}
}

func (z *Z80) initXYOps() {
	// Anything the prefix does not touch executes exactly as on the
	// main page; the prefix only cost the extra fetch.
	for i := range z.xyOps {
		z.xyOps[i] = z.baseOps[i]
	}

	z.xyOps[0x21] = func(z *Z80) { *z.xy = z.fetchWord() }
	z.xyOps[0x22] = func(z *Z80) {
		addr := z.fetchWord()
		z.Write16(addr, *z.xy)
		z.WZ = addr + 1
	}
	z.xyOps[0x2A] = func(z *Z80) {
		addr := z.fetchWord()
		*z.xy = z.Read16(addr)
		z.WZ = addr + 1
	}
	z.xyOps[0x23] = func(z *Z80) { *z.xy++ }
	z.xyOps[0x2B] = func(z *Z80) { *z.xy-- }

	z.xyOps[0x09] = func(z *Z80) { *z.xy = z.add16(*z.xy, z.BC()) }
	z.xyOps[0x19] = func(z *Z80) { *z.xy = z.add16(*z.xy, z.DE()) }
	z.xyOps[0x29] = func(z *Z80) { *z.xy = z.add16(*z.xy, *z.xy) }
	z.xyOps[0x39] = func(z *Z80) { *z.xy = z.add16(*z.xy, z.SP) }

	z.xyOps[0x24] = func(z *Z80) { z.setXYHigh(z.incVal(z.xyHigh())) }
	z.xyOps[0x25] = func(z *Z80) { z.setXYHigh(z.decVal(z.xyHigh())) }
	z.xyOps[0x26] = func(z *Z80) { z.setXYHigh(z.fetchByte()) }
	z.xyOps[0x2C] = func(z *Z80) { z.setXYLow(z.incVal(z.xyLow())) }
	z.xyOps[0x2D] = func(z *Z80) { z.setXYLow(z.decVal(z.xyLow())) }
	z.xyOps[0x2E] = func(z *Z80) { z.setXYLow(z.fetchByte()) }

	z.xyOps[0x34] = func(z *Z80) {
		addr := z.xyEA()
		z.Write8(addr, z.incVal(z.Read8(addr)))
	}
	z.xyOps[0x35] = func(z *Z80) {
		addr := z.xyEA()
		z.Write8(addr, z.decVal(z.Read8(addr)))
	}
	z.xyOps[0x36] = func(z *Z80) { // LD (IX+d),n: d comes before n
		addr := z.xyEA()
		z.Write8(addr, z.fetchByte())
	}

	// LD r,r' block. When one side is (IX+d) the other side stays a
	// plain register; otherwise H and L mean the index halves.
	for op := 0x40; op <= 0x7F; op++ {
		if op == 0x76 {
			continue
		}
		dst := uint8(op>>3) & 7
		src := uint8(op) & 7
		switch {
		case dst == 6:
			z.xyOps[op] = func(z *Z80) { z.Write8(z.xyEA(), z.readReg8(src)) }
		case src == 6:
			z.xyOps[op] = func(z *Z80) { z.writeReg8(dst, z.Read8(z.xyEA())) }
		default:
			z.xyOps[op] = func(z *Z80) { z.writeReg8XY(dst, z.readReg8XY(src)) }
		}
	}

	for src := uint8(0); src < 8; src++ {
		s := src
		z.xyOps[0x80+src] = func(z *Z80) { z.addA(z.readReg8XY(s), false) }
		z.xyOps[0x88+src] = func(z *Z80) { z.addA(z.readReg8XY(s), true) }
		z.xyOps[0x90+src] = func(z *Z80) { z.subA(z.readReg8XY(s), false) }
		z.xyOps[0x98+src] = func(z *Z80) { z.subA(z.readReg8XY(s), true) }
		z.xyOps[0xA0+src] = func(z *Z80) { z.andA(z.readReg8XY(s)) }
		z.xyOps[0xA8+src] = func(z *Z80) { z.xorA(z.readReg8XY(s)) }
		z.xyOps[0xB0+src] = func(z *Z80) { z.orA(z.readReg8XY(s)) }
		z.xyOps[0xB8+src] = func(z *Z80) { z.cpA(z.readReg8XY(s)) }
	}

	z.xyOps[0xE1] = func(z *Z80) { *z.xy = z.pop16() }
	z.xyOps[0xE5] = func(z *Z80) { z.push16(*z.xy) }
	z.xyOps[0xE3] = func(z *Z80) { // EX (SP),IX
		tmp := z.Read16(z.SP)
		z.Write16(z.SP, *z.xy)
		*z.xy = tmp
		z.WZ = tmp
	}
	z.xyOps[0xE9] = func(z *Z80) { z.PC = *z.xy }
	z.xyOps[0xF9] = func(z *Z80) { z.SP = *z.xy }

	z.xyOps[0xCB] = (*Z80).dispatchXYCB

	// A further prefix byte supersedes this one; the stranded prefix
	// cost its four cycles and nothing else.
	z.xyOps[0xDD] = func(z *Z80) {
		z.ICount -= 4
		z.dispatchXY(&z.IX)
	}
	z.xyOps[0xFD] = func(z *Z80) {
		z.ICount -= 4
		z.dispatchXY(&z.IY)
	}
	z.xyOps[0xED] = func(z *Z80) {
		z.ICount -= 4
		z.dispatchED()
	}
}
