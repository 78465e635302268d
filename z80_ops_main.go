// z80_ops_main.go - unprefixed opcode page

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

/*
The main page is a 256-entry function table built once per instance. The
regular blocks (LD r,r', the ALU rows) are filled by loops over the
operand encoding; the irregular rows are assigned individually. Each
handler runs after the dispatcher has already deducted the opcode's base
T-states, and only adds the conditional extras from the ccEx table.
*/

package cpu

// readReg8/writeReg8 access an 8-bit operand by its encoding:
// B C D E H L (HL) A.
func (z *Z80) readReg8(code uint8) uint8 {
	switch code {
	case 0:
		return z.B
	case 1:
		return z.C
	case 2:
		return z.D
	case 3:
		return z.E
	case 4:
		return z.H
	case 5:
		return z.L
	case 6:
		return z.Read8(z.HL())
	default:
		return z.A
	}
}

func (z *Z80) writeReg8(code uint8, v uint8) {
	switch code {
	case 0:
		z.B = v
	case 1:
		z.C = v
	case 2:
		z.D = v
	case 3:
		z.E = v
	case 4:
		z.H = v
	case 5:
		z.L = v
	case 6:
		z.Write8(z.HL(), v)
	default:
		z.A = v
	}
}

// condition evaluates the cc field of conditional jumps/calls/returns:
// NZ Z NC C PO PE P M.
func (z *Z80) condition(code uint8) bool {
	switch code {
	case 0:
		return z.F&zfZ == 0
	case 1:
		return z.F&zfZ != 0
	case 2:
		return z.F&zfC == 0
	case 3:
		return z.F&zfC != 0
	case 4:
		return z.F&zfPV == 0
	case 5:
		return z.F&zfPV != 0
	case 6:
		return z.F&zfS == 0
	default:
		return z.F&zfS != 0
	}
}

// ALU primitives over the precomputed flag tables.

func (z *Z80) addA(v uint8, withCarry bool) {
	cin := 0
	if withCarry && z.F&zfC != 0 {
		cin = 1
	}
	res := uint8(int(z.A) + int(v) + cin)
	z.F = szhvcAdd[cin<<16|int(z.A)<<8|int(res)]
	z.A = res
}

func (z *Z80) subA(v uint8, withCarry bool) {
	cin := 0
	if withCarry && z.F&zfC != 0 {
		cin = 1
	}
	res := uint8(int(z.A) - int(v) - cin)
	z.F = szhvcSub[cin<<16|int(z.A)<<8|int(res)]
	z.A = res
}

// cpA compares without storing; the undocumented X/Y flags come from the
// operand, not the difference.
func (z *Z80) cpA(v uint8) {
	res := uint8(int(z.A) - int(v))
	z.F = szhvcSub[int(z.A)<<8|int(res)]&^(zfY|zfX) | v&(zfY|zfX)
}

func (z *Z80) andA(v uint8) {
	z.A &= v
	z.F = szpTable[z.A] | zfH
}

func (z *Z80) orA(v uint8) {
	z.A |= v
	z.F = szpTable[z.A]
}

func (z *Z80) xorA(v uint8) {
	z.A ^= v
	z.F = szpTable[z.A]
}

func (z *Z80) incVal(v uint8) uint8 {
	r := v + 1
	z.F = z.F&zfC | szhvIncTable[r]
	return r
}

func (z *Z80) decVal(v uint8) uint8 {
	r := v - 1
	z.F = z.F&zfC | szhvDecTable[r]
	return r
}

// add16 is ADD HL,rr (and ADD IX/IY,rr): only H, C and the undocumented
// bits change.
func (z *Z80) add16(dst, src uint16) uint16 {
	z.WZ = dst + 1
	res := uint32(dst) + uint32(src)
	f := z.F & (zfS | zfZ | zfPV)
	f |= uint8(res>>8) & (zfY | zfX)
	if (dst&0x0FFF)+(src&0x0FFF) > 0x0FFF {
		f |= zfH
	}
	if res > 0xFFFF {
		f |= zfC
	}
	z.F = f
	return uint16(res)
}

func (z *Z80) initBaseOps() {
	for i := range z.baseOps {
		op := uint8(i)
		z.baseOps[i] = func(z *Z80) { z.opIllegal(op) }
	}

	z.baseOps[0x00] = func(z *Z80) {} // NOP
	z.baseOps[0x76] = (*Z80).opHALT

	// LD r,r'
	for op := 0x40; op <= 0x7F; op++ {
		if op == 0x76 {
			continue
		}
		dst := uint8(op>>3) & 7
		src := uint8(op) & 7
		z.baseOps[op] = func(z *Z80) { z.writeReg8(dst, z.readReg8(src)) }
	}

	// LD r,n
	for _, op := range []uint8{0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E} {
		dst := (op >> 3) & 7
		z.baseOps[op] = func(z *Z80) { z.writeReg8(dst, z.fetchByte()) }
	}

	// INC r / DEC r
	for _, op := range []uint8{0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C} {
		reg := (op >> 3) & 7
		z.baseOps[op] = func(z *Z80) { z.writeReg8(reg, z.incVal(z.readReg8(reg))) }
	}
	for _, op := range []uint8{0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D} {
		reg := (op >> 3) & 7
		z.baseOps[op] = func(z *Z80) { z.writeReg8(reg, z.decVal(z.readReg8(reg))) }
	}

	// The eight ALU rows.
	for src := uint8(0); src < 8; src++ {
		s := src
		z.baseOps[0x80+src] = func(z *Z80) { z.addA(z.readReg8(s), false) }
		z.baseOps[0x88+src] = func(z *Z80) { z.addA(z.readReg8(s), true) }
		z.baseOps[0x90+src] = func(z *Z80) { z.subA(z.readReg8(s), false) }
		z.baseOps[0x98+src] = func(z *Z80) { z.subA(z.readReg8(s), true) }
		z.baseOps[0xA0+src] = func(z *Z80) { z.andA(z.readReg8(s)) }
		z.baseOps[0xA8+src] = func(z *Z80) { z.xorA(z.readReg8(s)) }
		z.baseOps[0xB0+src] = func(z *Z80) { z.orA(z.readReg8(s)) }
		z.baseOps[0xB8+src] = func(z *Z80) { z.cpA(z.readReg8(s)) }
	}

	// 16-bit loads, increments, adds.
	z.baseOps[0x01] = func(z *Z80) { z.SetBC(z.fetchWord()) }
	z.baseOps[0x11] = func(z *Z80) { z.SetDE(z.fetchWord()) }
	z.baseOps[0x21] = func(z *Z80) { z.SetHL(z.fetchWord()) }
	z.baseOps[0x31] = func(z *Z80) { z.SP = z.fetchWord() }

	z.baseOps[0x03] = func(z *Z80) { z.SetBC(z.BC() + 1) }
	z.baseOps[0x13] = func(z *Z80) { z.SetDE(z.DE() + 1) }
	z.baseOps[0x23] = func(z *Z80) { z.SetHL(z.HL() + 1) }
	z.baseOps[0x33] = func(z *Z80) { z.SP++ }
	z.baseOps[0x0B] = func(z *Z80) { z.SetBC(z.BC() - 1) }
	z.baseOps[0x1B] = func(z *Z80) { z.SetDE(z.DE() - 1) }
	z.baseOps[0x2B] = func(z *Z80) { z.SetHL(z.HL() - 1) }
	z.baseOps[0x3B] = func(z *Z80) { z.SP-- }

	z.baseOps[0x09] = func(z *Z80) { z.SetHL(z.add16(z.HL(), z.BC())) }
	z.baseOps[0x19] = func(z *Z80) { z.SetHL(z.add16(z.HL(), z.DE())) }
	z.baseOps[0x29] = func(z *Z80) { z.SetHL(z.add16(z.HL(), z.HL())) }
	z.baseOps[0x39] = func(z *Z80) { z.SetHL(z.add16(z.HL(), z.SP)) }

	// Indirect accumulator loads.
	z.baseOps[0x02] = func(z *Z80) {
		z.Write8(z.BC(), z.A)
		z.WZ = uint16(z.A)<<8 | (z.BC()+1)&0xFF
	}
	z.baseOps[0x12] = func(z *Z80) {
		z.Write8(z.DE(), z.A)
		z.WZ = uint16(z.A)<<8 | (z.DE()+1)&0xFF
	}
	z.baseOps[0x0A] = func(z *Z80) {
		z.A = z.Read8(z.BC())
		z.WZ = z.BC() + 1
	}
	z.baseOps[0x1A] = func(z *Z80) {
		z.A = z.Read8(z.DE())
		z.WZ = z.DE() + 1
	}

	z.baseOps[0x22] = func(z *Z80) {
		addr := z.fetchWord()
		z.Write16(addr, z.HL())
		z.WZ = addr + 1
	}
	z.baseOps[0x2A] = func(z *Z80) {
		addr := z.fetchWord()
		z.SetHL(z.Read16(addr))
		z.WZ = addr + 1
	}
	z.baseOps[0x32] = func(z *Z80) {
		addr := z.fetchWord()
		z.Write8(addr, z.A)
		z.WZ = uint16(z.A)<<8 | (addr+1)&0xFF
	}
	z.baseOps[0x3A] = func(z *Z80) {
		addr := z.fetchWord()
		z.A = z.Read8(addr)
		z.WZ = addr + 1
	}

	// Accumulator rotates: S/Z/P survive, H and N clear, the
	// undocumented bits track A.
	z.baseOps[0x07] = func(z *Z80) { // RLCA
		z.A = z.A<<1 | z.A>>7
		z.F = z.F&(zfS|zfZ|zfPV) | z.A&(zfY|zfX|zfC)
	}
	z.baseOps[0x0F] = func(z *Z80) { // RRCA
		carry := z.A & 1
		z.A = z.A>>1 | z.A<<7
		z.F = z.F&(zfS|zfZ|zfPV) | z.A&(zfY|zfX) | carry
	}
	z.baseOps[0x17] = func(z *Z80) { // RLA
		carry := z.A >> 7
		z.A = z.A<<1 | z.F&zfC
		z.F = z.F&(zfS|zfZ|zfPV) | z.A&(zfY|zfX) | carry
	}
	z.baseOps[0x1F] = func(z *Z80) { // RRA
		carry := z.A & 1
		z.A = z.A>>1 | z.F&zfC<<7
		z.F = z.F&(zfS|zfZ|zfPV) | z.A&(zfY|zfX) | carry
	}

	z.baseOps[0x08] = (*Z80).ExAF
	z.baseOps[0xD9] = (*Z80).Exx

	z.baseOps[0x10] = func(z *Z80) { // DJNZ
		disp := int8(z.fetchByte())
		z.B--
		if z.B != 0 {
			z.PC = uint16(int32(z.PC) + int32(disp))
			z.WZ = z.PC
			z.ICount -= int(z.ccEx[0x10])
		}
	}
	z.baseOps[0x18] = func(z *Z80) { // JR
		disp := int8(z.fetchByte())
		z.PC = uint16(int32(z.PC) + int32(disp))
		z.WZ = z.PC
	}
	for _, op := range []uint8{0x20, 0x28, 0x30, 0x38} {
		cond := (op >> 3) & 3
		o := op
		z.baseOps[op] = func(z *Z80) {
			disp := int8(z.fetchByte())
			if z.condition(cond) {
				z.PC = uint16(int32(z.PC) + int32(disp))
				z.WZ = z.PC
				z.ICount -= int(z.ccEx[o])
			}
		}
	}

	z.baseOps[0x27] = (*Z80).opDAA
	z.baseOps[0x2F] = func(z *Z80) { // CPL
		z.A = ^z.A
		z.F = z.F&(zfS|zfZ|zfPV|zfC) | zfH | zfN | z.A&(zfY|zfX)
	}
	z.baseOps[0x37] = func(z *Z80) { // SCF
		z.F = z.F&(zfS|zfZ|zfPV) | zfC | z.A&(zfY|zfX)
	}
	z.baseOps[0x3F] = func(z *Z80) { // CCF
		f := z.F&(zfS|zfZ|zfPV) | z.A&(zfY|zfX)
		if z.F&zfC != 0 {
			f |= zfH
		} else {
			f |= zfC
		}
		z.F = f
	}

	// RET cc / RET / POP / PUSH / JP / CALL / RST columns.
	for cc := uint8(0); cc < 8; cc++ {
		cond := cc
		retOp := 0xC0 + cc*8
		jpOp := 0xC2 + cc*8
		callOp := 0xC4 + cc*8
		z.baseOps[retOp] = func(z *Z80) {
			if z.condition(cond) {
				z.PC = z.pop16()
				z.WZ = z.PC
				z.ICount -= int(z.ccEx[retOp])
			}
		}
		z.baseOps[jpOp] = func(z *Z80) {
			addr := z.fetchWord()
			z.WZ = addr
			if z.condition(cond) {
				z.PC = addr
			}
		}
		z.baseOps[callOp] = func(z *Z80) {
			addr := z.fetchWord()
			z.WZ = addr
			if z.condition(cond) {
				z.push16(z.PC)
				z.PC = addr
				z.ICount -= int(z.ccEx[callOp])
			}
		}
		rstOp := 0xC7 + cc*8
		target := uint16(cc) * 8
		z.baseOps[rstOp] = func(z *Z80) {
			z.push16(z.PC)
			z.PC = target
			z.WZ = target
		}
	}

	z.baseOps[0xC9] = func(z *Z80) { // RET
		z.PC = z.pop16()
		z.WZ = z.PC
	}
	z.baseOps[0xC3] = func(z *Z80) { // JP nn
		z.PC = z.fetchWord()
		z.WZ = z.PC
	}
	z.baseOps[0xCD] = func(z *Z80) { // CALL nn
		addr := z.fetchWord()
		z.WZ = addr
		z.push16(z.PC)
		z.PC = addr
	}

	z.baseOps[0xC1] = func(z *Z80) { z.SetBC(z.pop16()) }
	z.baseOps[0xD1] = func(z *Z80) { z.SetDE(z.pop16()) }
	z.baseOps[0xE1] = func(z *Z80) { z.SetHL(z.pop16()) }
	z.baseOps[0xF1] = func(z *Z80) { z.SetAF(z.pop16()) }
	z.baseOps[0xC5] = func(z *Z80) { z.push16(z.BC()) }
	z.baseOps[0xD5] = func(z *Z80) { z.push16(z.DE()) }
	z.baseOps[0xE5] = func(z *Z80) { z.push16(z.HL()) }
	z.baseOps[0xF5] = func(z *Z80) { z.push16(z.AF()) }

	// ALU with immediate operand.
	z.baseOps[0xC6] = func(z *Z80) { z.addA(z.fetchByte(), false) }
	z.baseOps[0xCE] = func(z *Z80) { z.addA(z.fetchByte(), true) }
	z.baseOps[0xD6] = func(z *Z80) { z.subA(z.fetchByte(), false) }
	z.baseOps[0xDE] = func(z *Z80) { z.subA(z.fetchByte(), true) }
	z.baseOps[0xE6] = func(z *Z80) { z.andA(z.fetchByte()) }
	z.baseOps[0xEE] = func(z *Z80) { z.xorA(z.fetchByte()) }
	z.baseOps[0xF6] = func(z *Z80) { z.orA(z.fetchByte()) }
	z.baseOps[0xFE] = func(z *Z80) { z.cpA(z.fetchByte()) }

	z.baseOps[0xD3] = func(z *Z80) { // OUT (n),A
		port := uint16(z.A)<<8 | uint16(z.fetchByte())
		z.ioOut(port, z.A)
		z.WZ = uint16(z.A)<<8 | (port+1)&0xFF
	}
	z.baseOps[0xDB] = func(z *Z80) { // IN A,(n)
		port := uint16(z.A)<<8 | uint16(z.fetchByte())
		z.A = z.ioIn(port)
		z.WZ = port + 1
	}

	z.baseOps[0xE3] = func(z *Z80) { // EX (SP),HL
		tmp := z.Read16(z.SP)
		z.Write16(z.SP, z.HL())
		z.SetHL(tmp)
		z.WZ = tmp
	}
	z.baseOps[0xEB] = func(z *Z80) { // EX DE,HL
		d, e := z.D, z.E
		z.D, z.E = z.H, z.L
		z.H, z.L = d, e
	}
	z.baseOps[0xE9] = func(z *Z80) { z.PC = z.HL() } // JP (HL)
	z.baseOps[0xF9] = func(z *Z80) { z.SP = z.HL() } // LD SP,HL

	z.baseOps[0xF3] = func(z *Z80) { // DI
		z.IFF1 = false
		z.IFF2 = false
	}
	z.baseOps[0xFB] = func(z *Z80) { // EI
		z.IFF1 = true
		z.IFF2 = true
		z.AfterEI = true
	}

	// Prefix chains.
	z.baseOps[0xCB] = (*Z80).dispatchCB
	z.baseOps[0xED] = (*Z80).dispatchED
	z.baseOps[0xDD] = func(z *Z80) { z.dispatchXY(&z.IX) }
	z.baseOps[0xFD] = func(z *Z80) { z.dispatchXY(&z.IY) }
}

// opHALT parks PC on the HALT opcode so every subsequent fetch
// re-executes it until an interrupt steps past.
func (z *Z80) opHALT() {
	z.PC--
	z.Halted = true
}

// opIllegal is NMOS behaviour for the truly unassigned patterns: warn
// and carry on.
func (z *Z80) opIllegal(op uint8) {
	logf("z80: illegal opcode %02X at %04X", op, z.PPC)
}

func (z *Z80) opDAA() {
	old := z.A
	adjusted := z.A
	carry := z.F&zfC != 0 || z.A > 0x99

	if z.F&zfN == 0 {
		if z.F&zfH != 0 || z.A&0x0F > 9 {
			adjusted += 0x06
		}
		if carry {
			adjusted += 0x60
		}
	} else {
		if z.F&zfH != 0 || z.A&0x0F > 9 {
			adjusted -= 0x06
		}
		if carry {
			adjusted -= 0x60
		}
	}

	z.A = adjusted
	f := z.F&zfN | szpTable[adjusted] | (old^adjusted)&zfH
	if carry {
		f |= zfC
	}
	z.F = f
}
