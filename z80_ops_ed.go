// z80_ops_ed.go - ED page: 16-bit carry arithmetic, I/R transfers,
// interrupt mode selection, RRD/RLD, and the block transfer/search/IO
// family

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

func (z *Z80) dispatchED() {
	op := z.fetchOpcode()
	z.ICount -= int(z.ccED[op])
	z.edOps[op](z)
}

func (z *Z80) adcHL(v uint16) {
	cin := uint32(z.F & zfC)
	hl := z.HL()
	z.WZ = hl + 1
	res := uint32(hl) + uint32(v) + cin
	f := uint8(res>>8) & (zfS | zfY | zfX)
	if res&0xFFFF == 0 {
		f |= zfZ
	}
	if (hl^uint16(res))&(^(hl^v))&0x8000 != 0 {
		f |= zfPV
	}
	if (uint32(hl&0x0FFF) + uint32(v&0x0FFF) + cin) > 0x0FFF {
		f |= zfH
	}
	if res > 0xFFFF {
		f |= zfC
	}
	z.F = f
	z.SetHL(uint16(res))
}

func (z *Z80) sbcHL(v uint16) {
	cin := uint32(z.F & zfC)
	hl := z.HL()
	z.WZ = hl + 1
	res := uint32(hl) - uint32(v) - cin
	f := zfN | uint8(res>>8)&(zfS|zfY|zfX)
	if res&0xFFFF == 0 {
		f |= zfZ
	}
	if (hl^v)&(hl^uint16(res))&0x8000 != 0 {
		f |= zfPV
	}
	if int32(hl&0x0FFF)-int32(v&0x0FFF)-int32(cin) < 0 {
		f |= zfH
	}
	if res > 0xFFFF {
		f |= zfC
	}
	z.F = f
	z.SetHL(uint16(res))
}

// pair16 reads/writes the rr operand of the ED page: BC DE HL SP.
func (z *Z80) pair16(code uint8) uint16 {
	switch code {
	case 0:
		return z.BC()
	case 1:
		return z.DE()
	case 2:
		return z.HL()
	default:
		return z.SP
	}
}

func (z *Z80) setPair16(code uint8, v uint16) {
	switch code {
	case 0:
		z.SetBC(v)
	case 1:
		z.SetDE(v)
	case 2:
		z.SetHL(v)
	default:
		z.SP = v
	}
}

func (z *Z80) initEDOps() {
	for i := range z.edOps {
		op := uint8(i)
		// Unassigned ED patterns execute as a two-byte NOP on NMOS
		// parts; worth a warning because nothing sane emits them.
		z.edOps[i] = func(z *Z80) { z.opIllegal(op) }
	}

	for code := uint8(0); code < 8; code++ {
		reg := code
		inOp := 0x40 + code*8
		outOp := 0x41 + code*8
		z.edOps[inOp] = func(z *Z80) { // IN r,(C)
			z.WZ = z.BC() + 1
			v := z.ioIn(z.BC())
			z.F = z.F&zfC | szpTable[v]
			if reg != 6 {
				z.writeReg8(reg, v)
			}
		}
		z.edOps[outOp] = func(z *Z80) { // OUT (C),r
			z.WZ = z.BC() + 1
			v := uint8(0)
			if reg != 6 {
				v = z.readReg8(reg)
			}
			z.ioOut(z.BC(), v)
		}
	}

	for code := uint8(0); code < 4; code++ {
		rr := code
		z.edOps[0x42+code*16] = func(z *Z80) { z.sbcHL(z.pair16(rr)) }
		z.edOps[0x4A+code*16] = func(z *Z80) { z.adcHL(z.pair16(rr)) }
		z.edOps[0x43+code*16] = func(z *Z80) { // LD (nn),rr
			addr := z.fetchWord()
			z.Write16(addr, z.pair16(rr))
			z.WZ = addr + 1
		}
		z.edOps[0x4B+code*16] = func(z *Z80) { // LD rr,(nn)
			addr := z.fetchWord()
			z.setPair16(rr, z.Read16(addr))
			z.WZ = addr + 1
		}
	}

	// NEG and its mirrors.
	for _, op := range []int{0x44, 0x4C, 0x54, 0x5C, 0x64, 0x6C, 0x74, 0x7C} {
		z.edOps[op] = func(z *Z80) {
			old := z.A
			z.A = 0
			z.subA(old, false)
		}
	}

	// RETN and mirrors; RETI shares the IFF1 restore.
	for _, op := range []int{0x45, 0x4D, 0x55, 0x5D, 0x65, 0x6D, 0x75, 0x7D} {
		z.edOps[op] = func(z *Z80) {
			z.PC = z.pop16()
			z.WZ = z.PC
			z.IFF1 = z.IFF2
		}
	}

	// IM 0/1/2 and mirrors.
	imModes := [8]byte{0, 0, 1, 2, 0, 0, 1, 2}
	for idx, op := range []int{0x46, 0x4E, 0x56, 0x5E, 0x66, 0x6E, 0x76, 0x7E} {
		mode := imModes[idx]
		z.edOps[op] = func(z *Z80) { z.IM = mode }
	}

	z.edOps[0x47] = func(z *Z80) { z.I = z.A } // LD I,A
	z.edOps[0x4F] = func(z *Z80) {             // LD R,A
		z.R = z.A
		z.R2 = z.A
	}
	z.edOps[0x57] = func(z *Z80) { // LD A,I
		z.A = z.I
		z.ldairFlags()
	}
	z.edOps[0x5F] = func(z *Z80) { // LD A,R
		z.A = z.R&0x7F | z.R2&0x80
		z.ldairFlags()
	}

	z.edOps[0x67] = (*Z80).opRRD
	z.edOps[0x6F] = (*Z80).opRLD

	z.edOps[0xA0] = func(z *Z80) { z.blockLD(1, false) }
	z.edOps[0xA8] = func(z *Z80) { z.blockLD(-1, false) }
	z.edOps[0xB0] = func(z *Z80) { z.blockLD(1, true) }
	z.edOps[0xB8] = func(z *Z80) { z.blockLD(-1, true) }

	z.edOps[0xA1] = func(z *Z80) { z.blockCP(1, false) }
	z.edOps[0xA9] = func(z *Z80) { z.blockCP(-1, false) }
	z.edOps[0xB1] = func(z *Z80) { z.blockCP(1, true) }
	z.edOps[0xB9] = func(z *Z80) { z.blockCP(-1, true) }

	z.edOps[0xA2] = func(z *Z80) { z.blockIN(1, false) }
	z.edOps[0xAA] = func(z *Z80) { z.blockIN(-1, false) }
	z.edOps[0xB2] = func(z *Z80) { z.blockIN(1, true) }
	z.edOps[0xBA] = func(z *Z80) { z.blockIN(-1, true) }

	z.edOps[0xA3] = func(z *Z80) { z.blockOUT(1, false) }
	z.edOps[0xAB] = func(z *Z80) { z.blockOUT(-1, false) }
	z.edOps[0xB3] = func(z *Z80) { z.blockOUT(1, true) }
	z.edOps[0xBB] = func(z *Z80) { z.blockOUT(-1, true) }
}

// ldairFlags settles the flags of LD A,I / LD A,R, which expose IFF2
// through PF. The value is stale if an interrupt lands on the very next
// boundary, which is what AfterLDAIR records.
func (z *Z80) ldairFlags() {
	f := z.F&zfC | szTable[z.A]
	if z.IFF2 {
		f |= zfPV
	}
	z.F = f
	z.AfterLDAIR = true
}

func (z *Z80) opRRD() {
	hl := z.HL()
	v := z.Read8(hl)
	z.WZ = hl + 1
	z.Write8(hl, v>>4|z.A<<4)
	z.A = z.A&0xF0 | v&0x0F
	z.F = z.F&zfC | szpTable[z.A]
}

func (z *Z80) opRLD() {
	hl := z.HL()
	v := z.Read8(hl)
	z.WZ = hl + 1
	z.Write8(hl, v<<4|z.A&0x0F)
	z.A = z.A&0xF0 | v>>4
	z.F = z.F&zfC | szpTable[z.A]
}

// blockLD is LDI/LDD/LDIR/LDDR. The undocumented Y/X flags come from
// bits 1 and 3 of the transferred byte plus A. Repeats rewind PC so the
// instruction re-executes, one iteration per dispatch.
func (z *Z80) blockLD(dir int16, repeat bool) {
	v := z.Read8(z.HL())
	z.Write8(z.DE(), v)
	z.SetHL(uint16(int16(z.HL()) + dir))
	z.SetDE(uint16(int16(z.DE()) + dir))
	z.SetBC(z.BC() - 1)

	n := v + z.A
	f := z.F & (zfS | zfZ | zfC)
	if n&0x02 != 0 {
		f |= zfY
	}
	if n&0x08 != 0 {
		f |= zfX
	}
	if z.BC() != 0 {
		f |= zfPV
	}
	z.F = f

	if repeat && z.BC() != 0 {
		z.PC -= 2
		z.WZ = z.PC + 1
		z.ICount -= int(z.ccEx[0xB0])
	}
}

// blockCP is CPI/CPD/CPIR/CPDR.
func (z *Z80) blockCP(dir int16, repeat bool) {
	v := z.Read8(z.HL())
	res := z.A - v
	halfBorrow := z.A&0x0F < v&0x0F
	z.SetHL(uint16(int16(z.HL()) + dir))
	z.SetBC(z.BC() - 1)
	z.WZ = uint16(int16(z.WZ) + dir)

	f := z.F&zfC | zfN | szTable[res]&^(zfY|zfX)
	n := res
	if halfBorrow {
		f |= zfH
		n--
	}
	if n&0x02 != 0 {
		f |= zfY
	}
	if n&0x08 != 0 {
		f |= zfX
	}
	if z.BC() != 0 {
		f |= zfPV
	}
	z.F = f

	if repeat && z.BC() != 0 && res != 0 {
		z.PC -= 2
		z.WZ = z.PC + 1
		z.ICount -= int(z.ccEx[0xB1])
	}
}

// blockIN is INI/IND/INIR/INDR, with the baroque documented flag recipe.
func (z *Z80) blockIN(dir int16, repeat bool) {
	z.WZ = uint16(int16(z.BC()) + dir)
	v := z.ioIn(z.BC())
	z.Write8(z.HL(), v)
	z.B--
	z.SetHL(uint16(int16(z.HL()) + dir))

	t := uint16(v) + uint16(uint8(int16(z.C)+dir))
	f := szTable[z.B] &^ (zfPV)
	if v&0x80 != 0 {
		f |= zfN
	}
	if t > 0xFF {
		f |= zfH | zfC
	}
	if szpTable[uint8(t&7)^z.B]&zfPV != 0 {
		f |= zfPV
	}
	z.F = f

	if repeat && z.B != 0 {
		z.PC -= 2
		z.ICount -= int(z.ccEx[0xB2])
	}
}

// blockOUT is OUTI/OUTD/OTIR/OTDR.
func (z *Z80) blockOUT(dir int16, repeat bool) {
	v := z.Read8(z.HL())
	z.B--
	z.ioOut(z.BC(), v)
	z.SetHL(uint16(int16(z.HL()) + dir))
	z.WZ = uint16(int16(z.BC()) + dir)

	t := uint16(v) + uint16(z.L)
	f := szTable[z.B] &^ (zfPV)
	if v&0x80 != 0 {
		f |= zfN
	}
	if t > 0xFF {
		f |= zfH | zfC
	}
	if szpTable[uint8(t&7)^z.B]&zfPV != 0 {
		f |= zfPV
	}
	z.F = f

	if repeat && z.B != 0 {
		z.PC -= 2
		z.ICount -= int(z.ccEx[0xB3])
	}
}
