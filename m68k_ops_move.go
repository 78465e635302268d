// m68k_ops_move.go - MOVE family: MOVE, MOVEA, MOVEQ, LEA, PEA, MOVEM,
// EXG, SWAP, EXT, CLR, LINK/UNLK, MOVE to/from SR/CCR/USP.

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

// decodeMove handles groups 1-3 (MOVE.B/MOVE.L/MOVE.W), including the
// MOVEA special case when the destination names an address register.
func (c *CPU68k) decodeMove(opcode uint16, size int) {
	srcMode := (opcode >> 3) & 0x7
	srcReg := opcode & 0x7
	destReg := (opcode >> 9) & 0x7
	destMode := (opcode >> 6) & 0x7

	src := c.resolveEA(srcMode, srcReg, size)
	value := c.readEA(src, size)
	c.CurrentCycle += uint64(c.eaCycles(src, size))

	if destMode == AMAddrReg {
		// MOVEA: sign-extend word operands, no flag update.
		if size == SizeWord {
			value = uint32(int32(int16(value)))
		}
		c.A[destReg] = value
		return
	}

	dst := c.resolveEA(destMode, destReg, size)
	c.writeEA(dst, size, value)
	c.CurrentCycle += uint64(c.eaCycles(dst, size))
	c.setFlagsNZ(value, size)
	c.SR &^= SRFlagV | SRFlagC
}

func (c *CPU68k) execMoveq(opcode uint16) {
	reg := (opcode >> 9) & 0x7
	data := int32(int8(opcode & 0xFF))
	c.D[reg] = uint32(data)
	c.setFlagsNZ(uint32(data), SizeLong)
	c.SR &^= SRFlagV | SRFlagC
}

func (c *CPU68k) execLea(areg, mode, reg uint16) {
	e := c.resolveEA(mode, reg, SizeLong)
	c.A[areg] = e.addr
	c.CurrentCycle += uint64(c.eaCycles(e, SizeLong))
}

func (c *CPU68k) execPea(mode, reg uint16) {
	e := c.resolveEA(mode, reg, SizeLong)
	c.CurrentCycle += uint64(c.eaCycles(e, SizeLong))
	c.Push32(e.addr)
}

func (c *CPU68k) execSwap(reg uint16) {
	v := c.D[reg]
	c.D[reg] = v>>16 | v<<16
	c.setFlagsNZ(c.D[reg], SizeLong)
	c.SR &^= SRFlagV | SRFlagC
}

// execExt implements EXT.W (byte->word), EXT.L (word->long) and EXTB.L
// (byte->long, 68020+), selected by opmode.
func (c *CPU68k) execExt(reg, opmode uint16) {
	switch opmode {
	case 2: // EXT.W
		v := int32(int8(c.D[reg]))
		c.D[reg] = (c.D[reg] &^ 0xFFFF) | uint32(v)&0xFFFF
	case 3: // EXT.L
		v := int32(int16(c.D[reg]))
		c.D[reg] = uint32(v)
	case 7: // EXTB.L
		v := int32(int8(c.D[reg]))
		c.D[reg] = uint32(v)
	}
	c.setFlagsNZ(c.D[reg], SizeLong)
	c.SR &^= SRFlagV | SRFlagC
}

func (c *CPU68k) execClr(sizeBits, mode, reg uint16) {
	size := opSize2(sizeBits)
	e := c.resolveEA(mode, reg, size)
	c.writeEA(e, size, 0)
	c.CurrentCycle += uint64(c.eaCycles(e, size))
	c.SR &^= SRFlagN | SRFlagV | SRFlagC
	c.SR |= SRFlagZ
}

func (c *CPU68k) execLink(reg uint16) {
	disp := int16(c.Fetch16())
	c.Push32(c.A[reg])
	c.A[reg] = c.A[7]
	c.A[7] += uint32(disp)
}

func (c *CPU68k) execUnlk(reg uint16) {
	c.A[7] = c.A[reg]
	c.A[reg] = c.Pop32()
}

func (c *CPU68k) execMoveFromUSP(reg uint16) {
	if !c.supervisor() {
		c.raiseException(VecPrivilege)
		return
	}
	c.A[reg] = c.USP
}

func (c *CPU68k) execMoveToUSP(reg uint16) {
	if !c.supervisor() {
		c.raiseException(VecPrivilege)
		return
	}
	c.USP = c.A[reg]
}

// execMoveFromSR is privileged on 68010+ but not on the 68000.
func (c *CPU68k) execMoveFromSR(mode, reg uint16) {
	if c.profile.masks&Mask010OrLater != 0 && !c.supervisor() {
		c.raiseException(VecPrivilege)
		return
	}
	e := c.resolveEA(mode, reg, SizeWord)
	c.writeEA(e, SizeWord, uint32(c.SR))
	c.CurrentCycle += uint64(c.eaCycles(e, SizeWord))
}

func (c *CPU68k) execMoveToSR(mode, reg uint16) {
	if !c.supervisor() {
		c.raiseException(VecPrivilege)
		return
	}
	e := c.resolveEA(mode, reg, SizeWord)
	v := uint16(c.readEA(e, SizeWord))
	c.CurrentCycle += uint64(c.eaCycles(e, SizeWord))
	newSupervisor := v&SRFlagS != 0
	if newSupervisor != c.supervisor() {
		c.swapStacksForMode(newSupervisor)
	}
	c.SR = v & c.profile.legalSRMask
}

func (c *CPU68k) execMoveToCCR(mode, reg uint16) {
	e := c.resolveEA(mode, reg, SizeWord)
	v := uint8(c.readEA(e, SizeWord))
	c.CurrentCycle += uint64(c.eaCycles(e, SizeWord))
	c.setCCR(v)
}

func (c *CPU68k) execMoveFromCCR(mode, reg uint16) {
	e := c.resolveEA(mode, reg, SizeWord)
	c.writeEA(e, SizeWord, uint32(c.getCCR()))
	c.CurrentCycle += uint64(c.eaCycles(e, SizeWord))
}

// execMovem implements register-list load/store for (An), (An)+, -(An),
// and the absolute/displacement EA forms.
func (c *CPU68k) execMovem(direction, sizeBit, mode, reg uint16) {
	size := SizeWord
	if sizeBit != 0 {
		size = SizeLong
	}
	mask := c.Fetch16()

	if mode == AMAddrPreDec {
		// Predecrement: the mask is bit-reversed (bit 0 names A7) and
		// registers push A7-first so that ascending memory ends up
		// D0..A7.
		addr := c.A[reg]
		for bit := uint(0); bit < 16; bit++ {
			if mask&(1<<bit) == 0 {
				continue
			}
			regIdx := 15 - bit
			var v uint32
			if regIdx < 8 {
				v = c.D[regIdx]
			} else {
				v = c.A[regIdx-8]
			}
			addr -= operandSize(size)
			if size == SizeWord {
				c.Write16(addr, uint16(v))
			} else {
				c.Write32(addr, v)
			}
		}
		c.A[reg] = addr
		return
	}

	e := c.resolveEA(mode, reg, size)
	addr := e.addr
	if mode == AMAddrReg || mode == AMDataReg {
		return
	}
	for i := uint(0); i < 16; i++ {
		if mask&(1<<i) == 0 {
			continue
		}
		if direction == 0 { // register to memory
			var v uint32
			if i < 8 {
				v = c.D[i]
			} else {
				v = c.A[i-8]
			}
			if size == SizeWord {
				c.Write16(addr, uint16(v))
			} else {
				c.Write32(addr, v)
			}
		} else { // memory to register
			var v uint32
			if size == SizeWord {
				v = uint32(int32(int16(c.Read16(addr))))
			} else {
				v = c.Read32(addr)
			}
			if i < 8 {
				c.D[i] = v
			} else {
				c.A[i-8] = v
			}
		}
		addr += operandSize(size)
	}
	if mode == AMAddrPostInc {
		c.A[reg] = addr
	}
}

func (c *CPU68k) execExg(regA, opmode, regB uint16) {
	switch opmode {
	case 0x08: // data registers
		c.D[regA], c.D[regB] = c.D[regB], c.D[regA]
	case 0x09: // address registers
		c.A[regA], c.A[regB] = c.A[regB], c.A[regA]
	case 0x11: // data and address register
		c.D[regA], c.A[regB] = c.A[regB], c.D[regA]
	}
}
